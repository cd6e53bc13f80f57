package thjson

import (
	"bytes"
	"io"
	"strconv"

	"github.com/puppygames/thjson/internal/escape"

	"go4.org/mem"
)

// Scanner turns a Source into a stream of Tokens implementing the THJSON
// lexical grammar (spec.md 4.3). It is the Go realization of
// THJSONTokenizer.java, generalized to Go idioms and grounded on
// jtree's Scanner for its API shape (Next/Token, a scratch buffer, and a
// small lookahead queue).
//
// A Scanner is not safe for concurrent use.
type Scanner struct {
	src *Source

	buf   bytes.Buffer
	ahead []Token

	cur   Token
	err   error
	atEOF bool
}

// NewScanner constructs a Scanner reading from r with the default tab
// size.
func NewScanner(r io.Reader) *Scanner { return NewScannerFromSource(NewSource(r)) }

// NewScannerFromSource constructs a Scanner over an already-built Source,
// letting the caller configure tab size before scanning begins.
func NewScannerFromSource(s *Source) *Scanner { return &Scanner{src: s} }

// SetTabSize configures the tab width used for triple-quoted string and
// triple-quoted bytes column alignment.
func (s *Scanner) SetTabSize(size int) { s.src.SetTabSize(size) }

// Token returns the token most recently produced by Next.
func (s *Scanner) Token() Token { return s.cur }

// Next advances to the next token. It returns io.EOF once the end-of-input
// token has already been consumed by a prior call.
func (s *Scanner) Next() error {
	if s.atEOF {
		return io.EOF
	}
	if s.err != nil {
		return s.err
	}
	var tok Token
	var err error
	if len(s.ahead) > 0 {
		tok = s.ahead[0]
		s.ahead = s.ahead[1:]
	} else {
		tok, err = s.scan()
		if err != nil {
			s.err = err
			return err
		}
	}
	s.cur = tok
	if tok.Kind == TokEOF {
		s.atEOF = true
	}
	return nil
}

// Peek reports the token n positions past the current one without
// consuming it (0 is the token the next call to Next will produce). The
// Stream parser uses this for class-tag disambiguation: after reading a
// candidate class-tag name it must look one token ahead for '{' or '['.
func (s *Scanner) Peek(n int) (Token, error) {
	for len(s.ahead) <= n {
		if len(s.ahead) > 0 && s.ahead[len(s.ahead)-1].Kind == TokEOF {
			break
		}
		tok, err := s.scan()
		if err != nil {
			return Token{}, err
		}
		s.ahead = append(s.ahead, tok)
	}
	if n < len(s.ahead) {
		return s.ahead[n], nil
	}
	return s.ahead[len(s.ahead)-1], nil
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' }

func isQuotelessDelimiter(c byte) bool {
	switch c {
	case '{', '}', '[', ']', '(', ')', ':':
		return true
	default:
		return false
	}
}

// scan reads exactly one token from the underlying Source, mirroring
// THJSONTokenizer.readToken's dispatch.
func (s *Scanner) scan() (Token, error) {
	var start LineCol
	var c byte
	var ok bool
	for {
		start = s.src.Pos()
		c, ok = s.src.Read()
		if !ok {
			break
		}
		if !isSpaceByte(c) {
			break
		}
	}
	if !ok {
		if err := s.src.Err(); err != nil {
			return Token{}, &IOError{Loc: start, Err: err}
		}
		return Token{Kind: TokEOF, Loc: start}, nil
	}

	switch c {
	case '{':
		return Token{Kind: TokLBrace, Loc: start}, nil
	case '}':
		return Token{Kind: TokRBrace, Loc: start}, nil
	case '[':
		return Token{Kind: TokLSquare, Loc: start}, nil
	case ']':
		return Token{Kind: TokRSquare, Loc: start}, nil
	case '(':
		return Token{Kind: TokLParen, Loc: start}, nil
	case ')':
		return Token{Kind: TokRParen, Loc: start}, nil
	case ',':
		return Token{Kind: TokComma, Loc: start}, nil
	case ':':
		return Token{Kind: TokColon, Loc: start}, nil
	case '"':
		return s.scanQuotedString(start)
	case '`':
		return s.scanQuotedBytes(start)
	case '\'':
		if b0, ok0 := s.src.Peek(0); ok0 && b0 == '\'' {
			if b1, ok1 := s.src.Peek(1); ok1 && b1 == '\'' {
				return s.scanTripleString(start)
			}
		}
	case '<':
		if b0, ok0 := s.src.Peek(0); ok0 && b0 == '<' {
			if b1, ok1 := s.src.Peek(1); ok1 && b1 == '<' {
				return s.scanTripleBytes(start)
			}
		}
	case '/':
		if b0, ok0 := s.src.Peek(0); ok0 && b0 == '/' {
			s.src.Read()
			return s.scanLineComment(start, CommentSlashSlash)
		}
		if b0, ok0 := s.src.Peek(0); ok0 && b0 == '*' {
			s.src.Read()
			return s.scanBlockComment(start)
		}
	case '#', '@':
		if c == '#' {
			if b0, ok0 := s.src.Peek(0); ok0 && b0 == '"' {
				s.src.Read()
				return s.scanQuotedDirective(start, c)
			}
		}
		return s.scanDirective(start, c)
	}
	return s.scanQuoteless(c, start)
}

func (s *Scanner) intern(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func (s *Scanner) scanQuotedString(start LineCol) (Token, error) {
	s.buf.Reset()
	for {
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "quoted string"}
		}
		switch c {
		case '"':
			dec, err := escape.Unquote(mem.B(s.buf.Bytes()))
			if err != nil {
				return Token{}, &MalformedEscapeError{Loc: start, Msg: err.Error()}
			}
			return Token{Kind: TokString, Loc: start, Text: dec, StrKind: StringSingleLine}, nil
		case '\n':
			return Token{}, &UnexpectedByteError{Loc: s.src.Pos(), Byte: c, Context: "quoted string"}
		case '\\':
			s.buf.WriteByte(c)
			nc, ok := s.src.Read()
			if !ok {
				return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "escape sequence"}
			}
			s.buf.WriteByte(nc)
		default:
			s.buf.WriteByte(c)
		}
	}
}

func (s *Scanner) scanQuotedDirective(start LineCol, marker byte) (Token, error) {
	s.buf.Reset()
	for {
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "quoted directive"}
		}
		switch c {
		case '"':
			dec, err := escape.Unquote(mem.B(s.buf.Bytes()))
			if err != nil {
				return Token{}, &MalformedEscapeError{Loc: start, Msg: err.Error()}
			}
			return Token{Kind: TokDirective, Loc: start, Text: dec, Marker: marker}, nil
		case '\n':
			return Token{}, &UnexpectedByteError{Loc: s.src.Pos(), Byte: c, Context: "quoted directive"}
		case '\\':
			s.buf.WriteByte(c)
			nc, ok := s.src.Read()
			if !ok {
				return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "escape sequence"}
			}
			s.buf.WriteByte(nc)
		default:
			s.buf.WriteByte(c)
		}
	}
}

func (s *Scanner) scanQuotedBytes(start LineCol) (Token, error) {
	s.buf.Reset()
	for {
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "quoted bytes"}
		}
		switch {
		case c == '`':
			data, err := escape.DecodeBase64(s.buf.Bytes())
			if err != nil {
				return Token{}, &MalformedEscapeError{Loc: start, Msg: err.Error()}
			}
			return Token{Kind: TokBytes, Loc: start, Bytes: data, StrKind: StringSingleLine}, nil
		case c == '\n':
			return Token{}, &UnexpectedByteError{Loc: s.src.Pos(), Byte: c, Context: "quoted bytes"}
		case escape.IsBase64Byte(c):
			s.buf.WriteByte(c)
		default:
			return Token{}, &UnexpectedByteError{Loc: s.src.Pos(), Byte: c, Context: "quoted bytes"}
		}
	}
}

// scanTripleString implements the column-aligned de-indentation rule of
// spec.md 4.3 ("Triple-quoted strings"), grounded on
// THJSONTokenizer.readMultilineString. Whitespace on the opening line is
// dropped up to its first other byte; on each later line, leading
// whitespace is dropped up to and including the opening delimiter's
// column, and everything after that is kept.
func (s *Scanner) scanTripleString(start LineCol) (Token, error) {
	align, row := start.Col, start.Line
	inIndent := true // inside the leading whitespace of a continuation line
	s.src.Read()
	s.src.Read()
	s.buf.Reset()
	for {
		colBefore, lineBefore := s.src.Col(), s.src.Line()
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: LineCol{Line: lineBefore, Col: colBefore}, Context: "triple-quoted string"}
		}
		if c == '\'' {
			if b0, ok0 := s.src.Peek(0); ok0 && b0 == '\'' {
				if b1, ok1 := s.src.Peek(1); ok1 && b1 == '\'' {
					s.src.Read()
					s.src.Read()
					body := trimFinalNewline(s.buf.Bytes())
					dec, err := escape.Unquote(mem.B(body))
					if err != nil {
						return Token{}, &MalformedEscapeError{Loc: start, Msg: err.Error()}
					}
					return Token{Kind: TokString, Loc: start, Text: dec, StrKind: StringMultiLine}, nil
				}
			}
		}
		if s.buf.Len() == 0 && lineBefore == row && isSpaceByte(c) {
			continue
		}
		if c == '\n' {
			inIndent = true
		} else if !isSpaceByte(c) || colBefore > align {
			inIndent = false
		} else if inIndent {
			continue
		}
		s.buf.WriteByte(c)
	}
}

// scanTripleBytes is scanTripleString's Base64 counterpart, grounded on
// THJSONTokenizer.readMultilineBytes: it applies the same column-alignment
// rule to leading indentation, but additionally discards any whitespace
// found within the Base64 body itself (spec.md 4.3).
func (s *Scanner) scanTripleBytes(start LineCol) (Token, error) {
	align, row := start.Col, start.Line
	s.src.Read()
	s.src.Read()
	s.buf.Reset()
	for {
		colBefore, lineBefore := s.src.Col(), s.src.Line()
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: LineCol{Line: lineBefore, Col: colBefore}, Context: "triple-quoted bytes"}
		}
		if c == '>' {
			if b0, ok0 := s.src.Peek(0); ok0 && b0 == '>' {
				if b1, ok1 := s.src.Peek(1); ok1 && b1 == '>' {
					s.src.Read()
					s.src.Read()
					data, err := escape.DecodeBase64(s.buf.Bytes())
					if err != nil {
						return Token{}, &MalformedEscapeError{Loc: start, Msg: err.Error()}
					}
					return Token{Kind: TokBytes, Loc: start, Bytes: data, StrKind: StringMultiLine}, nil
				}
			}
		}
		if s.buf.Len() == 0 && lineBefore == row && isSpaceByte(c) {
			continue
		}
		if colBefore < align && isSpaceByte(c) {
			continue
		}
		if isSpaceByte(c) {
			continue
		}
		if !escape.IsBase64Byte(c) {
			return Token{}, &UnexpectedByteError{Loc: LineCol{Line: lineBefore, Col: colBefore}, Byte: c, Context: "triple-quoted bytes"}
		}
		s.buf.WriteByte(c)
	}
}

func trimFinalNewline(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		return b[:n-1]
	}
	return b
}

func (s *Scanner) scanLineComment(start LineCol, kind CommentKind) (Token, error) {
	s.buf.Reset()
	for {
		c, ok := s.src.Read()
		if !ok || c == '\n' {
			break
		}
		s.buf.WriteByte(c)
	}
	return Token{Kind: TokLineComment, Loc: start, Text: s.intern(s.buf.Bytes()), CommentKind: kind}, nil
}

func (s *Scanner) scanBlockComment(start LineCol) (Token, error) {
	s.buf.Reset()
	for {
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return Token{}, &IOError{Loc: start, Err: err}
			}
			return Token{}, &UnexpectedEOFError{Loc: s.src.Pos(), Context: "block comment"}
		}
		if c == '*' {
			if b0, ok0 := s.src.Peek(0); ok0 && b0 == '/' {
				s.src.Read()
				return Token{Kind: TokBlockComment, Loc: start, Text: s.intern(s.buf.Bytes()), CommentKind: CommentBlock}, nil
			}
		}
		s.buf.WriteByte(c)
	}
}

// scanDirective reads the raw text of a '#' or '@' token to end of line, a
// comment, or a structural delimiter, silently absorbing any commas along
// the way and treating an embedded '"..."' run as an opaque unit. Grounded
// on THJSONTokenizer.readDirective/readStringInDirective. Whether this
// token is delivered to the Handler as a directive or a function call is
// decided by Stream from parser position, not here (spec.md 4.3).
func (s *Scanner) scanDirective(start LineCol, marker byte) (Token, error) {
	s.buf.Reset()
	for {
		b0, ok0 := s.src.Peek(0)
		if !ok0 {
			break
		}
		if b0 == ',' {
			s.src.Read()
			continue
		}
		if b0 == '\n' || b0 == ':' || b0 == '{' || b0 == '}' || b0 == '[' || b0 == ']' {
			break
		}
		if b0 == '/' {
			if b1, ok1 := s.src.Peek(1); ok1 && (b1 == '/' || b1 == '*') {
				break
			}
		}
		c, _ := s.src.Read()
		s.buf.WriteByte(c)
		if c == '"' {
			if err := s.scanQuotedRunInto(&s.buf); err != nil {
				return Token{}, err
			}
		}
	}
	text := bytes.TrimSpace(s.buf.Bytes())
	return Token{Kind: TokDirective, Loc: start, Text: s.intern(text), Marker: marker}, nil
}

func (s *Scanner) scanQuotedRunInto(buf *bytes.Buffer) error {
	for {
		c, ok := s.src.Read()
		if !ok {
			if err := s.src.Err(); err != nil {
				return &IOError{Loc: s.src.Pos(), Err: err}
			}
			return &UnexpectedEOFError{Loc: s.src.Pos(), Context: "quoted string in directive"}
		}
		if c == '\n' {
			return &UnexpectedByteError{Loc: s.src.Pos(), Byte: c, Context: "quoted string in directive"}
		}
		buf.WriteByte(c)
		if c == '\\' {
			nc, ok := s.src.Read()
			if !ok {
				return &UnexpectedEOFError{Loc: s.src.Pos(), Context: "escape in directive"}
			}
			buf.WriteByte(nc)
			continue
		}
		if c == '"' {
			return nil
		}
	}
}

func isCommentStart(s *Scanner) bool {
	b0, ok0 := s.src.Peek(0)
	if !ok0 || b0 != '/' {
		return false
	}
	b1, ok1 := s.src.Peek(1)
	return ok1 && (b1 == '/' || b1 == '*')
}

// scanQuoteless implements the quoteless-value grammar of spec.md 4.3,
// grounded on THJSONTokenizer.readQuotelessToken: it accumulates bytes
// until a structural terminator, keeping interior whitespace but ending
// the value at a whitespace run immediately followed by a comma, newline,
// EOF, or comment, or at any whitespace run once the accumulated span
// classifies as a literal, and treating a comma as content only when the
// accumulated span so far does not already classify as a literal.
// Trailing whitespace and one trailing comma are stripped before the
// result is classified.
func (s *Scanner) scanQuoteless(c byte, start LineCol) (Token, error) {
	s.buf.Reset()
	s.buf.WriteByte(c)
	for {
		b0, ok0 := s.src.Peek(0)
		if !ok0 || b0 == '\n' {
			break
		}
		if isSpaceByte(b0) {
			var ws []byte
			for {
				b0, ok0 = s.src.Peek(0)
				if !ok0 || !isSpaceByte(b0) {
					break
				}
				nc, _ := s.src.Read()
				ws = append(ws, nc)
			}
			nb, nok := s.src.Peek(0)
			if !nok || nb == '\n' || nb == ',' || isCommentStart(s) {
				break
			}
			if kind, _ := Classify(s.buf.Bytes()); kind != KindString {
				break
			}
			s.buf.Write(ws)
			continue
		}
		if b0 == ',' {
			text := bytes.TrimRight(s.buf.Bytes(), " \t")
			kind, _ := Classify(text)
			if kind == KindString {
				nc, _ := s.src.Read()
				s.buf.Truncate(len(text))
				s.buf.WriteByte(nc)
				continue
			}
			break
		}
		if isQuotelessDelimiter(b0) {
			break
		}
		if b0 == '/' {
			if b1, ok1 := s.src.Peek(1); ok1 && (b1 == '/' || b1 == '*') {
				break
			}
		}
		nc, _ := s.src.Read()
		s.buf.WriteByte(nc)
	}
	text := bytes.TrimRight(s.buf.Bytes(), " \t")
	text = bytes.TrimSuffix(text, []byte{','})
	kind, intKind := Classify(text)
	return s.makeLiteralToken(start, text, kind, intKind)
}

func (s *Scanner) makeLiteralToken(start LineCol, text []byte, kind Kind, intKind IntKind) (Token, error) {
	switch kind {
	case KindNull:
		return Token{Kind: TokNull, Loc: start, Text: s.intern(text)}, nil
	case KindBool:
		return Token{Kind: TokBool, Loc: start, Bool: text[0] == 't', Text: s.intern(text)}, nil
	case KindInt:
		v, ok := parseIntLiteral(text, intKind)
		if !ok {
			return Token{Kind: TokString, Loc: start, Text: s.intern(text), StrKind: StringSingleLine}, nil
		}
		return Token{Kind: TokInt, Loc: start, Int: v, IntKind: intKind, Text: s.intern(text)}, nil
	case KindFloat:
		f, ok := parseFloatLiteral(text)
		if !ok {
			return Token{Kind: TokString, Loc: start, Text: s.intern(text), StrKind: StringSingleLine}, nil
		}
		return Token{Kind: TokFloat, Loc: start, Float: f, Text: s.intern(text)}, nil
	default:
		return Token{Kind: TokString, Loc: start, Text: s.intern(text), StrKind: StringSingleLine}, nil
	}
}

// parseIntLiteral converts a byte span already classified as KindInt to a
// 32-bit word, per spec.md 4.2 ("all four decode to the same 32-bit signed
// word"). Failure (overflow) demotes the caller to KindString: spec.md 7's
// NumericDemotion, not an error.
func parseIntLiteral(text []byte, kind IntKind) (int32, bool) {
	switch kind {
	case IntHex:
		v, err := strconv.ParseUint(string(text[2:]), 16, 32)
		if err != nil {
			return 0, false
		}
		return int32(uint32(v)), true
	case IntBinary:
		v, err := strconv.ParseUint(string(text[1:]), 2, 32)
		if err != nil {
			return 0, false
		}
		return int32(uint32(v)), true
	default:
		v, err := strconv.ParseInt(string(text), 10, 32)
		if err != nil {
			return 0, false
		}
		return int32(v), true
	}
}

func parseFloatLiteral(text []byte) (float32, bool) {
	v, err := strconv.ParseFloat(string(text), 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}
