package canon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// DecodeRecord parses a canonical JSON document back into a plain
// map[string]any record. Numbers decode as int64; float values persist as
// their string tokens (the canonical form stores them that way), so use
// AsFloat when a numeric reading is needed.
func DecodeRecord(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("decode record: document is %T, not an object", raw)
	}
	return normalizeDecoded(m).(map[string]any), nil
}

func normalizeDecoded(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		// Out-of-range or fractional literal; keep the source text.
		return string(val)
	case []any:
		for i, elem := range val {
			val[i] = normalizeDecoded(elem)
		}
		return val
	case map[string]any:
		for k, elem := range val {
			val[k] = normalizeDecoded(elem)
		}
		return val
	default:
		return v
	}
}

// AsFloat reads a numeric value out of a decoded record, accepting native
// floats and ints, canonical float tokens, and the Float/Int variants.
// Mirrors the forgiving numeric coercion used throughout the tool panels.
func AsFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case Float:
		return float64(val), true
	case Int:
		return float64(val), true
	case string:
		return ParseFloatToken(strings.TrimSpace(val))
	case Str:
		return ParseFloatToken(strings.TrimSpace(string(val)))
	default:
		return 0, false
	}
}

// AsBool reads a boolean out of a decoded record.
func AsBool(v any) (bool, bool) {
	switch val := v.(type) {
	case bool:
		return val, true
	case Bool:
		return bool(val), true
	default:
		return false, false
	}
}
