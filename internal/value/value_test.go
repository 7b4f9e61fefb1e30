package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	v, err := Decode([]byte(`{"zeta":1,"alpha":{"y":true,"b":null},"mid":"x"}`))
	require.NoError(t, err)

	obj, ok := v.(*Object)
	require.True(t, ok, "expected *Object, got %T", v)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, obj.Keys())

	inner, ok := obj.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, inner.(*Object).Keys())
}

func TestDecode_Kinds(t *testing.T) {
	v, err := Decode([]byte(`[null, "s", 12, 1.50, false, [], {}]`))
	require.NoError(t, err)

	arr, ok := v.(Array)
	require.True(t, ok)
	require.Len(t, arr, 7)

	assert.Equal(t, Null{}, arr[0])
	assert.Equal(t, String("s"), arr[1])
	assert.Equal(t, Number("12"), arr[2])
	assert.Equal(t, Number("1.50"), arr[3], "number literal must not be reformatted")
	assert.Equal(t, Bool(false), arr[4])
	assert.Equal(t, Array{}, arr[5])
	assert.Equal(t, 0, arr[6].(*Object).Len())
}

func TestDecode_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	v, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)

	obj := v.(*Object)
	assert.Equal(t, []string{"a", "b"}, obj.Keys())
	got, _ := obj.Get("a")
	assert.Equal(t, Number("3"), got)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ``},
		{"truncated object", `{"a":`},
		{"trailing data", `{"a":1} {"b":2}`},
		{"bare word", `nope`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestMarshal_OrderedRoundTrip(t *testing.T) {
	input := `{"z":[1,"two",null],"a":{"nested":true},"n":1e3}`
	v, err := Decode([]byte(input))
	require.NoError(t, err)

	out, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))

	// encoding/json must agree through the interface.
	viaStd, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, input, string(viaStd))
}

func TestText(t *testing.T) {
	assert.Equal(t, "", Text(Null{}))
	assert.Equal(t, "", Text(nil))
	assert.Equal(t, "api", Text(String("api")))
	assert.Equal(t, "2.5", Text(Number("2.5")))
	assert.Equal(t, "true", Text(Bool(true)))
	assert.Equal(t, `["a",1]`, Text(Array{String("a"), Number("1")}))
	assert.Equal(t, `{"k":"v"}`, Text(NewObject(O("k", String("v")))))
}

func TestKey(t *testing.T) {
	// Missing and null collapse onto one group.
	assert.Equal(t, Key(nil), Key(Null{}))

	// Same number, different spelling.
	assert.Equal(t, Key(Number("1")), Key(Number("1.0")))
	assert.Equal(t, Key(Number("100")), Key(Number("1e2")))
	assert.NotEqual(t, Key(Number("1")), Key(Number("1.5")))
	assert.Equal(t, Key(Number("0.1")), Key(Number("1e-1")))

	// Integers beyond float64 precision stay distinct.
	assert.NotEqual(t, Key(Number("12345678901234567890")), Key(Number("12345678901234567891")))
	assert.Equal(t, Key(Number("12345678901234567890")), Key(Number("1234567890123456789e1")))
	assert.NotEqual(t, Key(Number("0.1")), Key(Number("0.10000000000000001")))

	// Huge exponents are compared as written.
	assert.Equal(t, "d:1e999999999", Key(Number("1e999999999")))

	// Kinds never collide.
	assert.NotEqual(t, Key(String("1")), Key(Number("1")))
	assert.NotEqual(t, Key(String("true")), Key(Bool(true)))
	assert.NotEqual(t, Key(String("")), Key(Null{}))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(Null{}))
	assert.False(t, IsNull(String("")))
	assert.False(t, IsNull(Array{}))
}
