package canon

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Value is a sealed interface over the closed set of canonical variants.
// Only Str, Int, Float, Bool, Null, Seq, Map, and Opaque implement it.
// Opaque is the documented fallback for types the codec does not model;
// it carries the value's string form so canonicalization never fails.
type Value interface {
	canonValue()
}

// Str is a string value.
type Str string

func (Str) canonValue() {}

// Int is an integer value. Always int64.
type Int int64

func (Int) canonValue() {}

// Float is a floating-point value. NaN and infinities are representable
// and serialize to their named tokens.
type Float float64

func (Float) canonValue() {}

// Bool is a boolean value.
type Bool bool

func (Bool) canonValue() {}

// Null is an explicit null value.
type Null struct{}

func (Null) canonValue() {}

// Seq is an ordered sequence. Order is semantically relevant and preserved.
type Seq []Value

func (Seq) canonValue() {}

// Map is a string-keyed map. Insertion order is irrelevant; serialization
// always emits keys in sorted order.
type Map map[string]Value

func (Map) canonValue() {}

// Opaque carries the string form of a value the codec does not model.
type Opaque string

func (Opaque) canonValue() {}

// SortedKeys returns the map's keys in code-point order. This is the only
// iteration order used for serialization and digesting.
func (m Map) SortedKeys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Canonicalize normalizes an arbitrary record into the closed variant set.
// It never fails: values outside the modeled set degrade to Opaque via
// their string form. Callers needing strict numeric validation must
// validate upstream.
func Canonicalize(v any) Value {
	switch val := v.(type) {
	case nil:
		return Null{}
	case Value:
		return canonicalizeValue(val)
	case bool:
		return Bool(val)
	case string:
		return Str(val)
	case int:
		return Int(val)
	case int8:
		return Int(val)
	case int16:
		return Int(val)
	case int32:
		return Int(val)
	case int64:
		return Int(val)
	case uint:
		return uintValue(uint64(val))
	case uint8:
		return Int(val)
	case uint16:
		return Int(val)
	case uint32:
		return Int(val)
	case uint64:
		return uintValue(val)
	case float32:
		return Float(val)
	case float64:
		return Float(val)
	case []any:
		seq := make(Seq, len(val))
		for i, elem := range val {
			seq[i] = Canonicalize(elem)
		}
		return seq
	case []string:
		seq := make(Seq, len(val))
		for i, elem := range val {
			seq[i] = Str(elem)
		}
		return seq
	case []float64:
		seq := make(Seq, len(val))
		for i, elem := range val {
			seq[i] = Float(elem)
		}
		return seq
	case []int:
		seq := make(Seq, len(val))
		for i, elem := range val {
			seq[i] = Int(elem)
		}
		return seq
	case map[string]any:
		m := make(Map, len(val))
		for k, elem := range val {
			m[k] = Canonicalize(elem)
		}
		return m
	case map[string]float64:
		m := make(Map, len(val))
		for k, elem := range val {
			m[k] = Float(elem)
		}
		return m
	case map[string]string:
		m := make(Map, len(val))
		for k, elem := range val {
			m[k] = Str(elem)
		}
		return m
	default:
		return Opaque(fmt.Sprint(v))
	}
}

// canonicalizeValue recurses into Seq/Map so nested raw entries built by
// callers (e.g. a Seq holding untyped nils) stay inside the sealed set.
func canonicalizeValue(v Value) Value {
	switch val := v.(type) {
	case Seq:
		seq := make(Seq, len(val))
		for i, elem := range val {
			if elem == nil {
				seq[i] = Null{}
				continue
			}
			seq[i] = canonicalizeValue(elem)
		}
		return seq
	case Map:
		m := make(Map, len(val))
		for k, elem := range val {
			if elem == nil {
				m[k] = Null{}
				continue
			}
			m[k] = canonicalizeValue(elem)
		}
		return m
	default:
		return v
	}
}

// uintValue keeps unsigned values that overflow int64 representable by
// degrading to their decimal string form.
func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return Opaque(strconv.FormatUint(u, 10))
	}
	return Int(u)
}

// FloatToken renders a float as its canonical string token. Finite values
// use the shortest decimal form that round-trips to the identical bit
// pattern; non-finite values use fixed names.
func FloatToken(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
}

// ParseFloatToken reverses FloatToken. Unrecognized tokens report ok=false.
func ParseFloatToken(tok string) (f float64, ok bool) {
	switch tok {
	case "NaN":
		return math.NaN(), true
	case "Infinity":
		return math.Inf(1), true
	case "-Infinity":
		return math.Inf(-1), true
	default:
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
}
