package thjson

import "fmt"

// IOError wraps a failure of the underlying reader. Per spec.md 4.1, the
// Byte Source never synthesizes end-of-input on a partial read; any error
// other than io.EOF from the reader surfaces as an IOError.
type IOError struct {
	Loc LineCol
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("at %s: i/o error: %v", e.Loc, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// UnexpectedEOFError reports an input that ended before a delimiter that was
// required to close a construct (string, comment, byte literal, or
// container) was found.
type UnexpectedEOFError struct {
	Loc     LineCol
	Context string // what was being read, e.g. "quoted string"
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("at %s: unexpected end of input reading %s", e.Loc, e.Context)
}

// UnexpectedByteError reports a byte that is illegal in its lexical context,
// such as a literal newline inside a quoted string or a non-Base64 byte
// inside a byte literal.
type UnexpectedByteError struct {
	Loc     LineCol
	Byte    byte
	Context string
}

func (e *UnexpectedByteError) Error() string {
	return fmt.Sprintf("at %s: unexpected byte %q in %s", e.Loc, e.Byte, e.Context)
}

// MalformedEscapeError reports a truncated backslash escape (a trailing
// backslash, or \u without four hex digits), or a byte-literal body that
// is not valid Base64. An unrecognized escape is not an error: it decodes
// to the escaped byte itself.
type MalformedEscapeError struct {
	Loc LineCol
	Msg string
}

func (e *MalformedEscapeError) Error() string {
	return fmt.Sprintf("at %s: malformed escape: %s", e.Loc, e.Msg)
}

// RecursionLimitError reports that function-call expansion nested deeper
// than MaxRecursion levels.
type RecursionLimitError struct {
	Loc LineCol
}

func (e *RecursionLimitError) Error() string {
	return fmt.Sprintf("at %s: function-call recursion limit (%d) exceeded", e.Loc, MaxRecursion)
}

// StructureError reports a mismatched or unexpected structural token, such
// as a close brace that does not match the type of the currently open
// container, or a Writer End* call for the wrong container kind.
type StructureError struct {
	Loc LineCol
	Msg string
}

func (e *StructureError) Error() string { return fmt.Sprintf("at %s: %s", e.Loc, e.Msg) }

// SyntaxError is the concrete error type returned by Stream.Parse for any
// grammar violation not covered by a more specific error type above.
type SyntaxError struct {
	Loc LineCol
	Msg string
	err error
}

func (e *SyntaxError) Error() string { return fmt.Sprintf("at %s: %s", e.Loc, e.Msg) }
func (e *SyntaxError) Unwrap() error { return e.err }
