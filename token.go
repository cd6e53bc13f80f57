package thjson

// TokenKind enumerates the lexical token kinds produced by a Scanner.
// Grounded on jtree's Token byte-enum shape, generalized to THJSON's
// richer lexical grammar (spec.md 4.3) and on Token.java/TokenType.java
// for the vocabulary of literal and structural kinds.
type TokenKind byte

const (
	TokInvalid TokenKind = iota
	TokEOF

	TokLBrace  // {
	TokRBrace  // }
	TokLSquare // [
	TokRSquare // ]
	TokLParen  // (
	TokRParen  // )
	TokComma   // ,
	TokColon   // :

	TokNull
	TokBool
	TokInt
	TokFloat
	TokString // quoted, triple-quoted, or quoteless string
	TokBytes  // quoted or triple-angle-bracket Base64 bytes

	// TokDirective carries the text following a '#' or '@' marker (Marker
	// records which). Per spec.md 4.3 the same lexeme means different
	// things by parser position: a directive when read at root member
	// position, a function call anywhere else a value is expected.
	TokDirective

	TokLineComment  // // ...
	TokBlockComment // /* ... */
)

func (k TokenKind) String() string {
	switch k {
	case TokEOF:
		return "end of input"
	case TokLBrace:
		return `"{"`
	case TokRBrace:
		return `"}"`
	case TokLSquare:
		return `"["`
	case TokRSquare:
		return `"]"`
	case TokLParen:
		return `"("`
	case TokRParen:
		return `")"`
	case TokComma:
		return `","`
	case TokColon:
		return `":"`
	case TokNull:
		return "null"
	case TokBool:
		return "boolean"
	case TokInt:
		return "integer"
	case TokFloat:
		return "float"
	case TokString:
		return "string"
	case TokBytes:
		return "bytes"
	case TokDirective:
		return "directive"
	case TokLineComment, TokBlockComment:
		return "comment"
	default:
		return "invalid token"
	}
}

// CommentKind identifies the lexical form of a comment, per spec.md 3.
type CommentKind int

const (
	CommentSlashSlash CommentKind = iota
	CommentBlock
	CommentHash
)

func (k CommentKind) String() string {
	switch k {
	case CommentBlock:
		return "block"
	case CommentHash:
		return "hash"
	default:
		return "slashslash"
	}
}

// Token is a single lexical token together with its decoded value (for
// literal kinds) and source location.
type Token struct {
	Kind TokenKind
	Loc  LineCol

	// Text holds the decoded string/directive/comment text, or the raw
	// numeral text for Int/Float (retained so the parser and Classify
	// disagreeing on overflow can demote to a string without re-lexing).
	//
	// Text is always a private copy (see Scanner.intern), never a view
	// over caller-owned memory: the Stream's push-down
	// automaton (spec.md 9) keeps frames — including pending keys and
	// class tags — alive across many Scanner.Next calls, so a token that
	// aliased transient scanner scratch space would be corrupted by the
	// next lexical operation before the frame consumed it. This trades
	// away the fully zero-copy borrowed-view path spec.md 9 describes for
	// a buffer that is only ever presented as a complete, addressable
	// []byte in the first place, in exchange for correctness under the
	// explicit-stack parser; each token's text is a separate allocation.
	Text []byte

	Bool    bool
	Int     int32
	IntKind IntKind
	Float   float32
	StrKind StringKind
	Bytes   []byte

	CommentKind CommentKind

	// Marker is '#' or '@' for a TokDirective, identifying which lexeme
	// introduced it (spec.md 4.3 treats both interchangeably, but the
	// Writer round-trips whichever the caller asks it to emit).
	Marker byte
}

// isLiteral reports whether the token is a primitive value token, per
// TokenType.isLiteral in the original source.
func (t Token) isLiteral() bool {
	switch t.Kind {
	case TokNull, TokBool, TokInt, TokFloat, TokString, TokBytes:
		return true
	default:
		return false
	}
}
