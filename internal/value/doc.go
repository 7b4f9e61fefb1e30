// Package value provides a sealed, order-preserving representation of
// decoded JSON.
//
// Incident exports are semi-structured: field sets vary between records
// and nesting depth is arbitrary. Decoding into map[string]any loses key
// order, which the table layer needs for first-seen column ordering, so
// every JSON node is decoded into exactly one of:
//
//   - Null
//   - String
//   - Number (the literal text, never rounded through float64)
//   - Bool
//   - Array
//   - *Object (keys kept in document order)
//
// Callers switch on the concrete type; there is no other implementation
// of Value.
package value
