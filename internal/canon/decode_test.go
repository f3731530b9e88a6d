package canon

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecordBasics(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"a":1,"b":"x","c":true,"d":null,"e":[1,2]}`))
	require.NoError(t, err)

	assert.Equal(t, int64(1), rec["a"])
	assert.Equal(t, "x", rec["b"])
	assert.Equal(t, true, rec["c"])
	assert.Nil(t, rec["d"])
	assert.Equal(t, []any{int64(1), int64(2)}, rec["e"])
}

func TestDecodeRecordFractionalKeepsSource(t *testing.T) {
	rec, err := DecodeRecord([]byte(`{"x":1.5}`))
	require.NoError(t, err)

	// Fractional literals stay as their source text; canonical documents
	// carry floats as quoted tokens anyway.
	assert.Equal(t, "1.5", rec["x"])
}

func TestDecodeRecordRejectsNonObject(t *testing.T) {
	_, err := DecodeRecord([]byte(`[1,2,3]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an object")

	_, err = DecodeRecord([]byte(`{broken`))
	require.Error(t, err)
}

func TestDecodeRecordRoundTripsCanonicalBytes(t *testing.T) {
	src := map[string]any{
		"name":  "baseline",
		"scale": 0.85,
		"tags":  []string{"uq", "hts"},
		"ok":    true,
	}

	b1 := MarshalCanonical(src)
	rec, err := DecodeRecord(b1)
	require.NoError(t, err)

	b2 := MarshalCanonical(rec)
	assert.Equal(t, b1, b2)
}

func TestAsFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected float64
		ok       bool
	}{
		{"float64", 2.5, 2.5, true},
		{"int", 3, 3.0, true},
		{"int64", int64(-4), -4.0, true},
		{"token", "1.25", 1.25, true},
		{"padded token", "  0.5 ", 0.5, true},
		{"infinity token", "Infinity", math.Inf(1), true},
		{"Float variant", Float(0.1), 0.1, true},
		{"Int variant", Int(9), 9.0, true},
		{"Str variant", Str("-2"), -2.0, true},
		{"garbage string", "margin", 0, false},
		{"bool", true, 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := AsFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestAsFloatNaNToken(t *testing.T) {
	got, ok := AsFloat("NaN")
	require.True(t, ok)
	assert.True(t, math.IsNaN(got))
}

func TestAsBool(t *testing.T) {
	got, ok := AsBool(true)
	assert.True(t, ok)
	assert.True(t, got)

	got, ok = AsBool(Bool(false))
	assert.True(t, ok)
	assert.False(t, got)

	_, ok = AsBool("true")
	assert.False(t, ok)

	_, ok = AsBool(1)
	assert.False(t, ok)
}
