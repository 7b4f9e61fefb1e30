// Package analyze computes Top-N breakdowns over a flattened incident table.
//
// The pipeline is resolve-then-count:
//
//   - ResolveColumn maps a loosely spelled field ("name") onto a real
//     column ("service.name"). Exact match first, then the first column in
//     table order that ends with or contains the requested name.
//   - TopCounts groups rows by that column, keeps null as its own group,
//     sorts by count descending (stable, so ties stay in first-seen order)
//     and truncates to N.
//
// Analyze runs both steps and rejects empty input.
package analyze
