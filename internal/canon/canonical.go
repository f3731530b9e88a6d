package canon

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces the canonical byte form used for all
// content-addressed identity computation. Two semantically equal records
// always serialize to byte-identical output, independent of map insertion
// order or the host runtime's float formatting.
//
// Layout rules:
//  1. Object keys sorted by code point
//  2. Compact separators, no whitespace
//  3. Floats emitted as quoted string tokens (see FloatToken)
//  4. Strings NFC normalized, then escaped to pure ASCII
//
// It never fails: the input is normalized through Canonicalize first, so
// unmodeled types degrade to their string form.
func MarshalCanonical(v any) []byte {
	var buf bytes.Buffer
	writeCanonical(&buf, Canonicalize(v))
	return buf.Bytes()
}

// CanonicalString is MarshalCanonical as a string.
func CanonicalString(v any) string {
	return string(MarshalCanonical(v))
}

func writeCanonical(buf *bytes.Buffer, v Value) {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case Null:
		buf.WriteString("null")
	case Str:
		writeCanonicalString(buf, string(val))
	case Opaque:
		writeCanonicalString(buf, string(val))
	case Int:
		buf.WriteString(strconv.FormatInt(int64(val), 10))
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Float:
		// Quoted token keeps float bytes runtime-independent.
		writeCanonicalString(buf, FloatToken(float64(val)))
	case Seq:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, elem)
		}
		buf.WriteByte(']')
	case Map:
		buf.WriteByte('{')
		for i, k := range val.SortedKeys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonicalString(buf, k)
			buf.WriteByte(':')
			writeCanonical(buf, val[k])
		}
		buf.WriteByte('}')
	default:
		// Unreachable for values produced by Canonicalize; kept so a
		// future variant cannot silently serialize as garbage.
		writeCanonicalString(buf, fmt.Sprint(val))
	}
}

const hexDigits = "0123456789abcdef"

// writeCanonicalString emits a JSON string with every non-ASCII rune
// escaped as \uXXXX (UTF-16 code units, surrogate pairs for astral
// planes). ASCII-only output sidesteps any encoder disagreement about
// which runes need escaping.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				writeUnicodeEscape(buf, uint16(r))
			case r < 0x80:
				buf.WriteByte(byte(r))
			case r <= 0xFFFF:
				writeUnicodeEscape(buf, uint16(r))
			default:
				hi, lo := utf16.EncodeRune(r)
				writeUnicodeEscape(buf, uint16(hi))
				writeUnicodeEscape(buf, uint16(lo))
			}
		}
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, u uint16) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[(u>>12)&0xF])
	buf.WriteByte(hexDigits[(u>>8)&0xF])
	buf.WriteByte(hexDigits[(u>>4)&0xF])
	buf.WriteByte(hexDigits[u&0xF])
}
