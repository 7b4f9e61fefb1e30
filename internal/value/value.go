package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Value is a sealed interface over the JSON node kinds.
// Only Null, String, Number, Bool, Array, and *Object implement it.
type Value interface {
	jsonValue()
}

// Null represents a JSON null, and doubles as the value of a missing cell.
type Null struct{}

func (Null) jsonValue() {}

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// String represents a JSON string.
type String string

func (String) jsonValue() {}

// Number holds the literal text of a JSON number.
type Number string

func (Number) jsonValue() {}

// MarshalJSON emits the literal unquoted.
func (n Number) MarshalJSON() ([]byte, error) {
	if !json.Valid([]byte(n)) {
		return nil, fmt.Errorf("invalid number literal %q", string(n))
	}
	return []byte(n), nil
}

// maxExactExponent bounds the exponents canonical expands exactly.
const maxExactExponent = 1000

// canonical folds equal numbers written differently ("1", "1.0", "1e0")
// onto one exact spelling. Literals with larger exponents are kept as written.
func (n Number) canonical() string {
	s := string(n)
	if exp := exponent(s); exp > maxExactExponent || exp < -maxExactExponent {
		return s
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return s
	}
	return r.RatString()
}

// exponent returns the decimal exponent of a number literal, 0 when it has
// none and math.MaxInt when it does not parse.
func exponent(s string) int {
	i := strings.IndexAny(s, "eE")
	if i < 0 {
		return 0
	}
	e, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return math.MaxInt
	}
	return e
}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) jsonValue() {}

// Array represents a JSON array.
type Array []Value

func (Array) jsonValue() {}

// Object is a JSON object that remembers the order keys were first set.
type Object struct {
	keys   []string
	fields map[string]Value
}

func (*Object) jsonValue() {}

// Pair is a key-value pair for Object construction.
type Pair struct {
	Key   string
	Value Value
}

// O is shorthand for Pair.
// Example: NewObject(O("name", String("api")), O("count", Number("5")))
func O(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// NewObject creates an Object holding pairs in the given order.
func NewObject(pairs ...Pair) *Object {
	obj := &Object{fields: make(map[string]Value, len(pairs))}
	for _, p := range pairs {
		obj.Set(p.Key, p.Value)
	}
	return obj
}

// Set stores v under key. A repeated key keeps its original position.
func (o *Object) Set(key string, v Value) {
	if o.fields == nil {
		o.fields = make(map[string]Value)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.fields[key]
	return v, ok
}

// Keys returns the keys in insertion order. The slice is a copy.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// MarshalJSON encodes the object with keys in insertion order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := Marshal(o.fields[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Marshal encodes v as compact JSON.
func Marshal(v Value) ([]byte, error) {
	switch val := v.(type) {
	case nil, Null:
		return []byte("null"), nil
	case String:
		return json.Marshal(string(val))
	case Number:
		return val.MarshalJSON()
	case Bool:
		return json.Marshal(bool(val))
	case Array:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			elemBytes, err := Marshal(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(elemBytes)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case *Object:
		return val.MarshalJSON()
	default:
		return nil, fmt.Errorf("unknown value type: %T", v)
	}
}

// IsNull reports whether v is null or absent.
func IsNull(v Value) bool {
	switch v.(type) {
	case nil, Null:
		return true
	}
	return false
}

// Text renders v for display: strings unquoted, null as the empty string,
// arrays and objects as compact JSON.
func Text(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return ""
	case String:
		return string(val)
	case Number:
		return string(val)
	case Bool:
		return strconv.FormatBool(bool(val))
	default:
		b, err := Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

// Key returns an equality key for v. Two values share a key exactly when
// they are the same kind and hold the same content; null and absent share
// one key.
func Key(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return "n:"
	case String:
		return "s:" + string(val)
	case Number:
		return "d:" + val.canonical()
	case Bool:
		return "b:" + strconv.FormatBool(bool(val))
	case Array:
		return "a:" + Text(val)
	case *Object:
		return "o:" + Text(val)
	default:
		return fmt.Sprintf("?:%v", v)
	}
}
