// Package escape decodes the backslash-escape grammar shared by THJSON
// quoted strings ("...") and triple-quoted strings ('''...'''), per
// spec.md 4.3, and provides the Base64 codec used by quoted and
// triple-angle-bracket byte literals.
//
// Grounded on github.com/creachadair/jtree/internal/escape (same package
// split, same go4.org/mem-based decode loop), but the escape set itself
// is narrower than JSON's: only \\, \n, \t, \r, and \uXXXX are
// recognized, matching THJSONTokenizer.readEscape and the counterpart
// THJSONWriter.escape (any other backslashed byte, including a quote
// delimiter, decodes to itself literally rather than erroring).
package escape

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"go4.org/mem"
)

// ErrIncompleteEscape is returned when a backslash appears at the end of
// the input with no following escape character.
var ErrIncompleteEscape = errors.New("incomplete escape sequence")

// ErrIncompleteUnicode is returned when \u is not followed by four hex
// digits.
var ErrIncompleteUnicode = errors.New("incomplete unicode escape")

// Unquote decodes the body of a quoted or triple-quoted string (the
// delimiters must already be stripped by the caller). Per
// THJSONTokenizer.readEscape, only \n, \t, \r, and \uXXXX are given
// special meaning; any other backslashed byte, including a literal quote
// delimiter, decodes to itself.
func Unquote(src mem.RO) ([]byte, error) {
	dec := make([]byte, 0, src.Len())
	i := mem.IndexByte(src, '\\')
	if i < 0 {
		return mem.Append(dec, src), nil
	}
	for src.Len() != 0 {
		dec = mem.Append(dec, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, ErrIncompleteEscape
		}
		c := src.At(0)
		src = src.SliceFrom(1)
		switch c {
		case 'n':
			dec = append(dec, '\n')
		case 'r':
			dec = append(dec, '\r')
		case 't':
			dec = append(dec, '\t')
		case 'u':
			if src.Len() < 4 {
				return nil, ErrIncompleteUnicode
			}
			v, err := parseHex4(src.SliceTo(4))
			if err != nil {
				return nil, err
			}
			src = src.SliceFrom(4)
			var buf [utf8.UTFMax]byte
			n := utf8.EncodeRune(buf[:], rune(v))
			dec = append(dec, buf[:n]...)
		default:
			// Any other backslashed byte, including a literal quote or
			// backslash, decodes to itself: THJSONTokenizer.readEscape has
			// no error path for an unrecognized escape.
			dec = append(dec, c)
		}

		i = mem.IndexByte(src, '\\')
		if i < 0 {
			dec = mem.Append(dec, src)
			break
		}
	}
	return dec, nil
}

// Quote escapes s for inclusion between quote delimiters, escaping only
// '"', '\\', '\n', '\t', and non-ASCII runes (as \uXXXX). Grounded on
// THJSONWriter.escape, including its fast path that returns s unmodified
// when nothing needs escaping.
func Quote(s string) string {
	needsEscape := func(r rune) bool {
		return r == '"' || r == '\\' || r == '\n' || r == '\t' || r > 0x7F
	}
	needs := false
	for _, r := range s {
		if needsEscape(r) {
			needs = true
			break
		}
	}
	if !needs {
		return s
	}
	out := make([]byte, 0, len(s)+2)
	for _, r := range s {
		switch r {
		case '"':
			out = append(out, '\\', '"')
		case '\\':
			out = append(out, '\\', '\\')
		case '\n':
			out = append(out, '\\', 'n')
		case '\t':
			out = append(out, '\\', 't')
		default:
			if r > 0x7F {
				out = append(out, []byte(fmt.Sprintf(`\u%04x`, r))...)
			} else {
				out = append(out, byte(r))
			}
		}
	}
	return string(out)
}

func parseHex4(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := data.At(i)
		v <<= 4
		switch {
		case b >= '0' && b <= '9':
			v += int64(b - '0')
		case b >= 'a' && b <= 'f':
			v += int64(b-'a') + 10
		case b >= 'A' && b <= 'F':
			v += int64(b-'A') + 10
		default:
			return 0, ErrIncompleteUnicode
		}
	}
	return v, nil
}

// IsBase64Byte reports whether c is a legal byte in a THJSON Base64 body
// (standard alphabet, including padding).
func IsBase64Byte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '+' || c == '/' || c == '='
}

// DecodeBase64 decodes standard Base64 text (padded, no whitespace) into an
// owned byte slice.
func DecodeBase64(text []byte) ([]byte, error) {
	out := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(out, text)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// EncodeBase64 encodes data with the standard (padded) Base64 alphabet.
func EncodeBase64(data []byte) string { return base64.StdEncoding.EncodeToString(data) }
