package thjson

import (
	"fmt"
	"io"
	"strings"
)

// MaxRecursion bounds how many levels deep a function-call result may embed
// another function call, per THJSONReader.MAX_RECURSION. This is unrelated
// to container nesting depth, which Stream tracks on an explicit stack
// precisely so it is not bounded by the host call stack.
const MaxRecursion = 16

// openKind records which paired Begin*/End* a frame was opened with, so
// EndObject/EndMap/EndList/EndArray can be dispatched correctly regardless
// of whether the container was keyed, anonymous, or class-tagged.
type openKind int

const (
	openObject openKind = iota
	openObjectValue
	openMap
	openMapValue
	openList
	openListValue
	openArray
	openArrayValue
)

type frameKind int

const (
	frameRoot frameKind = iota
	frameObject
	frameList
)

// frameState is a frame's position within its own item/comma/close cycle.
type frameState int

const (
	stNeedItem   frameState = iota // expecting a key-or-close (object/root) or a value-or-close (list)
	stAfterValue                   // just consumed an item; expecting comments, an optional comma, then the next item or close
)

// frame is one entry on Stream's explicit container stack. Grounded on
// spec.md 9's push-down-automaton requirement: THJSONReader.java holds this
// same state (hasRootBrace/hasMember/closedRootBrace, and the recursive call
// frames of readMapOrObject/readArray) on the Java call stack, which is
// exactly what an explicit stack here avoids repeating.
type frame struct {
	kind  frameKind
	open  openKind
	state frameState
}

// Stream is a push-down-automaton parser: it drives a Scanner and delivers
// events to a Handler, using p.stack rather than Go call recursion to track
// container nesting, so input nesting depth cannot overflow the host stack.
//
// A Stream is not safe for concurrent use, and must not be reentered from
// within a Handler callback (spec.md 5).
type Stream struct {
	sc *Scanner
	h  Handler

	stack []frame

	recursionLevel int

	rootBraced bool
	rootClosed bool
	sawMember  bool
}

// NewStream constructs a Stream that reads tokens from sc and delivers
// events to h.
func NewStream(sc *Scanner, h Handler) *Stream {
	return &Stream{sc: sc, h: h, stack: []frame{{kind: frameRoot, state: stNeedItem}}}
}

// Parse reads and parses a complete THJSON document from r, delivering
// events to h.
func Parse(r io.Reader, h Handler) error {
	return NewStream(NewScanner(r), h).Parse()
}

func (p *Stream) advance() error {
	err := p.sc.Next()
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Parse drives the automaton to completion, calling h.Begin once before the
// first token and h.End once after the document is fully consumed.
func (p *Stream) Parse() error {
	if err := p.h.Begin(); err != nil {
		return err
	}
	if err := p.advance(); err != nil {
		return err
	}
	for {
		i := len(p.stack) - 1
		if p.stack[i].kind == frameRoot {
			done, err := p.stepRoot()
			if err != nil {
				return err
			}
			if done {
				break
			}
			continue
		}
		var err error
		if p.stack[i].kind == frameList {
			err = p.stepList(i)
		} else {
			err = p.stepObject(i)
		}
		if err != nil {
			return err
		}
	}
	return p.h.End()
}

// stepRoot advances the root frame by exactly one action. Grounded on
// THJSONReader.parse's loop body.
func (p *Stream) stepRoot() (bool, error) {
	if p.stack[0].state == stAfterValue {
		return false, p.afterValue(0)
	}

	tok := p.sc.Token()
	switch {
	case tok.Kind == TokEOF:
		if p.rootBraced && !p.rootClosed {
			return false, &UnexpectedEOFError{Loc: tok.Loc, Context: "root object"}
		}
		return true, nil
	case tok.Kind == TokLineComment || tok.Kind == TokBlockComment:
		if err := p.h.Comment(string(tok.Text), tok.CommentKind); err != nil {
			return false, err
		}
		return false, p.advance()
	case tok.Kind == TokLBrace:
		if p.rootBraced || p.sawMember {
			return false, &StructureError{Loc: tok.Loc, Msg: "unexpected '{' at root"}
		}
		p.rootBraced = true
		return false, p.advance()
	case tok.Kind == TokRBrace:
		if !p.rootBraced || p.rootClosed {
			return false, &StructureError{Loc: tok.Loc, Msg: "unexpected '}' at root"}
		}
		p.rootClosed = true
		return false, p.advance()
	case tok.Kind == TokDirective:
		text := string(tok.Text)
		if err := p.advance(); err != nil {
			return false, err
		}
		return false, p.h.Directive(text)
	default:
		p.sawMember = true
		return false, p.beginRootItem()
	}
}

func (p *Stream) stepObject(i int) error {
	if p.stack[i].state == stAfterValue {
		return p.afterValue(i)
	}
	tok := p.sc.Token()
	switch tok.Kind {
	case TokEOF:
		return &UnexpectedEOFError{Loc: tok.Loc, Context: "object"}
	case TokLineComment, TokBlockComment:
		if err := p.h.Comment(string(tok.Text), tok.CommentKind); err != nil {
			return err
		}
		return p.advance()
	case TokRBrace:
		return p.closeFrame(i)
	default:
		return p.beginMember(i)
	}
}

func (p *Stream) stepList(i int) error {
	if p.stack[i].state == stAfterValue {
		return p.afterValue(i)
	}
	tok := p.sc.Token()
	switch tok.Kind {
	case TokEOF:
		return &UnexpectedEOFError{Loc: tok.Loc, Context: "array"}
	case TokLineComment, TokBlockComment:
		if err := p.h.Comment(string(tok.Text), tok.CommentKind); err != nil {
			return err
		}
		return p.advance()
	case TokRSquare:
		return p.closeFrame(i)
	default:
		return p.beginElement(i)
	}
}

// afterValue consumes any comments and at most one comma following a member
// or element, then returns the frame to stNeedItem. Grounded on
// THJSONReader.readComments/readOptionalComma.
func (p *Stream) afterValue(i int) error {
	for {
		tok := p.sc.Token()
		if tok.Kind != TokLineComment && tok.Kind != TokBlockComment {
			break
		}
		if err := p.h.Comment(string(tok.Text), tok.CommentKind); err != nil {
			return err
		}
		if err := p.advance(); err != nil {
			return err
		}
	}
	if p.sc.Token().Kind == TokComma {
		if err := p.advance(); err != nil {
			return err
		}
	}
	p.stack[i].state = stNeedItem
	return nil
}

// closeFrame emits the End* event matching how frame i was opened and pops
// it.
func (p *Stream) closeFrame(i int) error {
	var err error
	switch p.stack[i].open {
	case openObject, openObjectValue:
		err = p.h.EndObject()
	case openMap, openMapValue:
		err = p.h.EndMap()
	case openList, openListValue:
		err = p.h.EndList()
	case openArray, openArrayValue:
		err = p.h.EndArray()
	}
	if err != nil {
		return err
	}
	p.stack = p.stack[:i]
	return p.advance()
}

// isKeyToken reports whether tok's raw text may be used as an object/map
// key or a root member name. Deliberately broader than
// THJSONReader.readKey, which requires TokenType.STRING and so rejects a
// bareword key that happens to look like a keyword or number: here any
// token whose lexeme could stand alone as a value is equally usable as a
// key, since keys and values share exactly one lexical grammar
// (quoteless/quoted text).
func isKeyToken(tok Token) bool {
	switch tok.Kind {
	case TokString, TokNull, TokBool, TokInt, TokFloat:
		return true
	default:
		return false
	}
}

func (p *Stream) readKey(tok Token) (string, error) {
	if !isKeyToken(tok) {
		return "", &SyntaxError{Loc: tok.Loc, Msg: fmt.Sprintf("expected key, got %s", tok.Kind)}
	}
	return string(tok.Text), nil
}

// expectColon skips interleaved comments looking for the ':' that separates
// a key from its value. Grounded on THJSONReader.readColon.
func (p *Stream) expectColon() error {
	for {
		tok := p.sc.Token()
		switch tok.Kind {
		case TokEOF:
			return &UnexpectedEOFError{Loc: tok.Loc, Context: "expected ':'"}
		case TokLineComment, TokBlockComment:
			if err := p.h.Comment(string(tok.Text), tok.CommentKind); err != nil {
				return err
			}
			if err := p.advance(); err != nil {
				return err
			}
		case TokColon:
			return p.advance()
		default:
			return &SyntaxError{Loc: tok.Loc, Msg: fmt.Sprintf("expected ':', got %s", tok.Kind)}
		}
	}
}

// readMemberInto reads the ':' and value half of "key : value" for the
// frame at index i, then marks it stAfterValue. i stays valid across the
// dispatchValue call even if it appends a new frame to p.stack, because
// indices of existing frames never move.
func (p *Stream) readMemberInto(i int, key string) error {
	if err := p.expectColon(); err != nil {
		return err
	}
	if err := p.dispatchValue(true, key); err != nil {
		return err
	}
	p.stack[i].state = stAfterValue
	return nil
}

func (p *Stream) beginMember(i int) error {
	key, err := p.readKey(p.sc.Token())
	if err != nil {
		return err
	}
	if err := p.advance(); err != nil {
		return err
	}
	return p.readMemberInto(i, key)
}

func (p *Stream) beginElement(i int) error {
	if err := p.dispatchValue(false, ""); err != nil {
		return err
	}
	p.stack[i].state = stAfterValue
	return nil
}

// beginRootItem disambiguates a root-position token between a keyed member
// ("key: value") and an anonymous child value, by looking one token ahead
// for ':'. Grounded on THJSONReader.parse dispatching to readMember for any
// TokenType.STRING token; generalized here because spec.md's root also
// admits anonymous values interspersed with members.
func (p *Stream) beginRootItem() error {
	tok := p.sc.Token()
	if isKeyToken(tok) {
		next, err := p.sc.Peek(0)
		if err != nil {
			return err
		}
		if next.Kind == TokColon {
			key, err := p.readKey(tok)
			if err != nil {
				return err
			}
			if err := p.advance(); err != nil {
				return err
			}
			return p.readMemberInto(0, key)
		}
	}
	if err := p.dispatchValue(false, ""); err != nil {
		return err
	}
	p.stack[0].state = stAfterValue
	return nil
}

func (p *Stream) emit(keyed bool, key string, v Value) error {
	if keyed {
		return p.h.Property(key, v)
	}
	return p.h.Value(v)
}

func (p *Stream) emitNull(keyed bool, key string) error {
	if keyed {
		return p.h.NullProperty(key)
	}
	return p.h.NullValue()
}

// dispatchValue reads one value starting at the current token: a literal, a
// bare/class-tagged map or list, or a function-call directive. Grounded on
// THJSONReader.readMemberValue and readArrayValue, which are identical
// apart from which listener method they finish with; keyed selects between
// them here instead of duplicating the method.
func (p *Stream) dispatchValue(keyed bool, key string) error {
	tok := p.sc.Token()
	switch tok.Kind {
	case TokEOF:
		// While expanding a function-call result, an empty or exhausted
		// expansion parses as null, matching
		// THJSONReader.readMemberValue/readArrayValue's recursionLevel>0
		// EOF case. At top level (e.g. "key:" at end of input) it is an
		// UnexpectedEOFError.
		if p.recursionLevel == 0 {
			return &UnexpectedEOFError{Loc: tok.Loc, Context: "value"}
		}
		return p.emitNull(keyed, key)
	case TokNull:
		if err := p.emitNull(keyed, key); err != nil {
			return err
		}
		return p.advance()
	case TokBool:
		if err := p.emit(keyed, key, Value{Kind: KindBool, Bool: tok.Bool}); err != nil {
			return err
		}
		return p.advance()
	case TokInt:
		if err := p.emit(keyed, key, Value{Kind: KindInt, Int: tok.Int, IntKind: tok.IntKind}); err != nil {
			return err
		}
		return p.advance()
	case TokFloat:
		if err := p.emit(keyed, key, Value{Kind: KindFloat, Float: tok.Float}); err != nil {
			return err
		}
		return p.advance()
	case TokBytes:
		if err := p.emit(keyed, key, Value{Kind: KindString, Bytes: tok.Bytes, StrKind: tok.StrKind}); err != nil {
			return err
		}
		return p.advance()
	case TokString:
		text, strKind := string(tok.Text), tok.StrKind
		next, err := p.sc.Peek(0)
		if err != nil {
			return err
		}
		switch next.Kind {
		case TokLBrace:
			if err := p.advance(); err != nil {
				return err
			}
			return p.openContainer(keyed, key, text, false)
		case TokLSquare:
			if err := p.advance(); err != nil {
				return err
			}
			return p.openContainer(keyed, key, text, true)
		default:
			if err := p.emit(keyed, key, Value{Kind: KindString, Str: text, StrKind: strKind}); err != nil {
				return err
			}
			return p.advance()
		}
	case TokLBrace:
		return p.openContainer(keyed, key, "", false)
	case TokLSquare:
		return p.openContainer(keyed, key, "", true)
	case TokLParen:
		class, err := p.readParenClass()
		if err != nil {
			return err
		}
		switch p.sc.Token().Kind {
		case TokLBrace:
			return p.openContainer(keyed, key, class, false)
		case TokLSquare:
			return p.openContainer(keyed, key, class, true)
		default:
			return &SyntaxError{Loc: p.sc.Token().Loc, Msg: fmt.Sprintf("expected '{' or '[' after class tag, got %s", p.sc.Token().Kind)}
		}
	case TokDirective:
		return p.expandFunction(keyed, key)
	default:
		return &SyntaxError{Loc: tok.Loc, Msg: fmt.Sprintf("unexpected %s in value position", tok.Kind)}
	}
}

// readParenClass reads the "(Name)" form of a class tag; the current token
// on entry is '(' and on a successful return is whatever followed ')'.
func (p *Stream) readParenClass() (string, error) {
	if err := p.advance(); err != nil {
		return "", err
	}
	tok := p.sc.Token()
	if !isKeyToken(tok) {
		return "", &SyntaxError{Loc: tok.Loc, Msg: fmt.Sprintf("expected class name after '(', got %s", tok.Kind)}
	}
	class := string(tok.Text)
	if err := p.advance(); err != nil {
		return "", err
	}
	if p.sc.Token().Kind != TokRParen {
		return "", &SyntaxError{Loc: p.sc.Token().Loc, Msg: fmt.Sprintf("expected ')' after class tag, got %s", p.sc.Token().Kind)}
	}
	return class, p.advance()
}

// openContainer emits the correct Begin* event for the (keyed, class,
// isList) combination and pushes a new frame; the current token on entry is
// the opening '{' or '['.
func (p *Stream) openContainer(keyed bool, key, class string, isList bool) error {
	var kind frameKind
	var open openKind
	switch {
	case isList && keyed && class != "":
		kind, open = frameList, openList
	case isList && keyed:
		kind, open = frameList, openArray
	case isList && class != "":
		kind, open = frameList, openListValue
	case isList:
		kind, open = frameList, openArrayValue
	case keyed && class != "":
		kind, open = frameObject, openObject
	case keyed:
		kind, open = frameObject, openMap
	case class != "":
		kind, open = frameObject, openObjectValue
	default:
		kind, open = frameObject, openMapValue
	}
	var err error
	switch open {
	case openObject:
		err = p.h.BeginObject(key, class)
	case openObjectValue:
		err = p.h.BeginObjectValue(class)
	case openMap:
		err = p.h.BeginMap(key)
	case openMapValue:
		err = p.h.BeginMapValue()
	case openList:
		err = p.h.BeginList(key, class)
	case openListValue:
		err = p.h.BeginListValue(class)
	case openArray:
		err = p.h.BeginArray(key)
	case openArrayValue:
		err = p.h.BeginArrayValue()
	}
	if err != nil {
		return err
	}
	p.stack = append(p.stack, frame{kind: kind, open: open, state: stNeedItem})
	return p.advance()
}

// expandFunction resolves a '#'/'@' token encountered in value position by
// calling h.Function and re-parsing its result inline, bounded by
// MaxRecursion. Grounded on THJSONReader.readMemberValue/readArrayValue's
// DIRECTIVE branch: a fresh reader is built over the function's result and
// asked to parse exactly one value, one recursion level deeper.
func (p *Stream) expandFunction(keyed bool, key string) error {
	tok := p.sc.Token()
	if p.recursionLevel >= MaxRecursion {
		return &RecursionLimitError{Loc: tok.Loc}
	}
	text := string(tok.Text)
	if err := p.advance(); err != nil {
		return err
	}
	result, err := p.h.Function(text)
	if err != nil {
		return err
	}
	nested := &Stream{
		sc:             NewScanner(strings.NewReader(result + "\n")),
		h:              p.h,
		recursionLevel: p.recursionLevel + 1,
	}
	if err := nested.advance(); err != nil {
		return err
	}
	if err := nested.dispatchValue(keyed, key); err != nil {
		return err
	}
	for len(nested.stack) > 0 {
		i := len(nested.stack) - 1
		var err error
		if nested.stack[i].kind == frameList {
			err = nested.stepList(i)
		} else {
			err = nested.stepObject(i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
