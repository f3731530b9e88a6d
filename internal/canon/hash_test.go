package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestKnownVectors(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{
			name:     "small object",
			input:    map[string]any{"b": "x", "a": int64(1)},
			expected: "ecf9e98ec0641e23113ff3ce8bdc78d0ddd249886517fd4a7f68cc83d4e65667",
		},
		{
			name:     "float token object",
			input:    map[string]float64{"x": 1.5},
			expected: "4a9b17dbfd21c5cefb526d4fa2385b53f1009c5435ced31f525f12984ee1c430",
		},
		{
			name:     "empty object",
			input:    Map{},
			expected: "44136fa355b3678a1146ad16f7e8649e94fb4fc21fe77e8310c060f61caaff8a",
		},
		{
			name:     "non-finite tokens",
			input:    []string{"NaN", "Infinity", "-Infinity"},
			expected: "c0423d1ee669aa4345cb487f824a124ecd2dddf3b65aa92bf545948516008606",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Digest(tt.input))
		})
	}
}

func TestDigestDeterminism(t *testing.T) {
	rec := map[string]any{
		"power_MW": 450.0,
		"mode":     "steady",
		"coils":    []int{1, 2, 3},
	}

	d1 := Digest(rec)
	d2 := Digest(rec)

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64, "SHA-256 hex is 64 characters")
}

func TestDigestChangesWithContent(t *testing.T) {
	d1 := Digest(map[string]any{"q": 10.0})
	d2 := Digest(map[string]any{"q": 10.1})
	d3 := Digest(map[string]any{"r": 10.0})

	assert.NotEqual(t, d1, d2)
	assert.NotEqual(t, d1, d3)
}

func TestDigestHexEncoding(t *testing.T) {
	d := Digest(Map{"a": Int(1)})

	require.Len(t, d, 64)
	for _, c := range d {
		valid := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')
		assert.True(t, valid, "digest should only contain lowercase hex, got: %c", c)
	}
}

func TestDigestStringMatchesDigestBytes(t *testing.T) {
	payload := "abc123:def456"
	assert.Equal(t, DigestBytes([]byte(payload)), DigestString(payload))
}
