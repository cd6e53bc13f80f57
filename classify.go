package thjson

import "go4.org/mem"

// Kind classifies a primitive value, per spec.md 4.2 and 3 ("Primitive
// value kinds").
type Kind int

const (
	KindString Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// IntKind is the purely-informational sub-kind of an integer literal;
// spec.md 3 notes all four decode to the same 32-bit signed word.
type IntKind int

const (
	IntPlain IntKind = iota
	IntSigned
	IntHex
	IntBinary
)

func (k IntKind) String() string {
	switch k {
	case IntSigned:
		return "signed"
	case IntHex:
		return "hex"
	case IntBinary:
		return "binary"
	default:
		return "plain"
	}
}

// StringKind distinguishes single-line from triple-quoted (or, for byte
// values, single-line-quoted from triple-angle-bracket-quoted) lexemes.
type StringKind int

const (
	StringSingleLine StringKind = iota
	StringMultiLine
)

func (k StringKind) String() string {
	if k == StringMultiLine {
		return "multi-line"
	}
	return "single-line"
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }

func isHexByte(c byte) bool {
	return isDigitByte(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isBinaryByte(c byte) bool { return c == '0' || c == '1' }

// Classify implements the primitive-type discriminator of spec.md 4.2. It
// is a pure function over a non-empty byte span already known to be a
// plausible bare value (trailing whitespace and at most one trailing comma
// already stripped by the caller). Grounded on
// THJSONTokenizer.determinePrimitiveType and its check* helpers.
func Classify(text []byte) (Kind, IntKind) {
	if len(text) == 0 {
		return KindNull, 0
	}
	// Grounded on jtree's Scanner.Next, which compares candidate keyword
	// spans with go4.org/mem instead of allocating a string first.
	got := mem.B(text)
	switch {
	case got.Equal(mem.S("null")):
		return KindNull, 0
	case got.Equal(mem.S("true")), got.Equal(mem.S("false")):
		return KindBool, 0
	}
	if len(text) >= 2 && text[0] == '0' && text[1] == 'x' {
		for _, c := range text[2:] {
			if !isHexByte(c) {
				return KindString, 0
			}
		}
		return KindInt, IntHex
	}
	if text[0] == '%' {
		for _, c := range text[1:] {
			if !isBinaryByte(c) {
				return KindString, 0
			}
		}
		return KindInt, IntBinary
	}
	return classifyNumber(text)
}

// classifyNumber implements the grammar
//
//	[+-]? (digits ('.' digits?)? | '.' digits) ([eE][+-]? digits)?
//
// falling back to KindString on any violation. The walk checks which
// bytes appear and in what order, not that a digit surrounds the '.':
// spans such as "." or "+.e5" also classify as KindFloat here, and the
// numeric conversion that follows demotes them to strings. Grounded on
// THJSONTokenizer.checkNumberLiteral.
func classifyNumber(text []byte) (Kind, IntKind) {
	i, n := 0, len(text)
	signed := false
	if text[0] == '+' {
		i++
		signed = true
	} else if text[0] == '-' {
		i++
	}
	if i >= n || (text[i] != '.' && !isDigitByte(text[i])) {
		return KindString, 0
	}

	sawDot, sawE, sawESign := false, false, false
	digitsAfterE := 0
	isFloat := false

	for ; i < n; i++ {
		c := text[i]
		switch {
		case c == '.':
			if sawDot || sawE {
				return KindString, 0
			}
			sawDot = true
			isFloat = true
		case c == 'e' || c == 'E':
			if sawE {
				return KindString, 0
			}
			sawE = true
		case c == '+' || c == '-':
			if !sawE || sawESign {
				return KindString, 0
			}
			sawESign = true
		case isDigitByte(c):
			if sawE {
				digitsAfterE++
			}
		default:
			return KindString, 0
		}
	}
	if sawE {
		if digitsAfterE == 0 {
			return KindString, 0
		}
		isFloat = true
	}
	if isFloat {
		return KindFloat, 0
	}
	if signed {
		return KindInt, IntSigned
	}
	return KindInt, IntPlain
}
