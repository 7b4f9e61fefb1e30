// Package envelope locates the list of incident records inside an
// arbitrary JSON document.
//
// Export APIs wrap their payloads in different conventions. The lookup is
// an ordered list of strategies; the first one that yields a list wins,
// and the last one always succeeds, so well-formed JSON never fails.
package envelope

import (
	"fmt"

	"github.com/roach88/squadcast-analyze/internal/value"
)

// KnownKeys are probed in this order on object envelopes.
var KnownKeys = []string{"data", "incidents", "results", "items", "records"}

// Strategy extracts records from a decoded document.
// Extract reports ok=false when the shape does not apply.
type Strategy struct {
	Name    string
	Extract func(v value.Value) (records []value.Value, ok bool)
}

// Strategies is the default lookup order.
var Strategies = []Strategy{
	{Name: "list", Extract: extractList},
	{Name: "known-key", Extract: extractKnownKey},
	{Name: "single-key", Extract: extractSingleKey},
	{Name: "single-record", Extract: wrapSingle},
}

// DecodeError reports a payload that is not valid JSON.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode JSON: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ExtractRecords returns the records carried by v.
func ExtractRecords(v value.Value) []value.Value {
	records, _ := Match(v)
	return records
}

// Match is ExtractRecords that also names the strategy that matched.
func Match(v value.Value) ([]value.Value, string) {
	for _, s := range Strategies {
		if records, ok := s.Extract(v); ok {
			return records, s.Name
		}
	}
	// unreachable while single-record is last
	return []value.Value{v}, "single-record"
}

// Decode parses data and extracts its records.
func Decode(data []byte) ([]value.Value, error) {
	v, err := value.Decode(data)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	return ExtractRecords(v), nil
}

func extractList(v value.Value) ([]value.Value, bool) {
	arr, ok := v.(value.Array)
	return arr, ok
}

func extractKnownKey(v value.Value) ([]value.Value, bool) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, false
	}
	for _, key := range KnownKeys {
		field, found := obj.Get(key)
		if !found {
			continue
		}
		if arr, isList := field.(value.Array); isList {
			return arr, true
		}
	}
	return nil, false
}

func extractSingleKey(v value.Value) ([]value.Value, bool) {
	obj, ok := v.(*value.Object)
	if !ok || obj.Len() != 1 {
		return nil, false
	}
	field, _ := obj.Get(obj.Keys()[0])
	arr, isList := field.(value.Array)
	return arr, isList
}

func wrapSingle(v value.Value) ([]value.Value, bool) {
	return []value.Value{v}, true
}
