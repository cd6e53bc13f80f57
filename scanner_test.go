package thjson_test

import (
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/puppygames/thjson"
)

func scanKinds(t *testing.T, input string) []thjson.TokenKind {
	t.Helper()
	s := thjson.NewScanner(strings.NewReader(input))
	var kinds []thjson.TokenKind
	for {
		err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Next(%q): %v", input, err)
		}
		if s.Token().Kind == thjson.TokEOF {
			break
		}
		kinds = append(kinds, s.Token().Kind)
	}
	return kinds
}

func TestScannerKinds(t *testing.T) {
	tests := []struct {
		input string
		want  []thjson.TokenKind
	}{
		{"", nil},
		{"   \n\t  ", nil},

		{"true false null", []thjson.TokenKind{thjson.TokBool, thjson.TokBool, thjson.TokNull}},

		{"{ [ ] } , :", []thjson.TokenKind{
			thjson.TokLBrace, thjson.TokLSquare, thjson.TokRSquare, thjson.TokRBrace,
			thjson.TokComma, thjson.TokColon,
		}},

		{`"quoted string"`, []thjson.TokenKind{thjson.TokString}},
		{`bareword`, []thjson.TokenKind{thjson.TokString}},
		{`key: value`, []thjson.TokenKind{thjson.TokString, thjson.TokColon, thjson.TokString}},

		{"0 -1 5139 0x1F %101", []thjson.TokenKind{
			thjson.TokInt, thjson.TokInt, thjson.TokInt, thjson.TokInt, thjson.TokInt,
		}},
		{"2.3 5e+9 -0.001E-100", []thjson.TokenKind{thjson.TokFloat, thjson.TokFloat, thjson.TokFloat}},

		{"`aGVsbG8=`", []thjson.TokenKind{thjson.TokBytes}},

		{"// a line comment\nkey: 1", []thjson.TokenKind{
			thjson.TokLineComment, thjson.TokString, thjson.TokColon, thjson.TokInt,
		}},
		{"/* a block comment */ key: 1", []thjson.TokenKind{
			thjson.TokBlockComment, thjson.TokString, thjson.TokColon, thjson.TokInt,
		}},

		{"(Point) { x: 1 }", []thjson.TokenKind{
			thjson.TokLParen, thjson.TokString, thjson.TokRParen,
			thjson.TokLBrace, thjson.TokString, thjson.TokColon, thjson.TokInt, thjson.TokRBrace,
		}},

		{"#include", []thjson.TokenKind{thjson.TokDirective}},
	}
	for _, test := range tests {
		got := scanKinds(t, test.input)
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Scan(%q) kinds (-want +got):\n%s", test.input, diff)
		}
	}
}

func TestScannerDecodesEscapes(t *testing.T) {
	s := thjson.NewScanner(strings.NewReader(`"a\nb\tc\"d"`))
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	tok := s.Token()
	if tok.Kind != thjson.TokString {
		t.Fatalf("Kind = %v, want TokString", tok.Kind)
	}
	if got, want := string(tok.Text), "a\nb\tc\"d"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestScannerUnknownEscapeDecodesToItself(t *testing.T) {
	// THJSONTokenizer.readEscape has no error path: any backslashed byte
	// it doesn't special-case (here \z) decodes to itself.
	s := thjson.NewScanner(strings.NewReader(`"a\zb"`))
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got, want := string(s.Token().Text), "azb"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}

func TestScannerTripleQuotedStringDedents(t *testing.T) {
	input := "    '''\n    line one\n    line two\n    '''"
	s := thjson.NewScanner(strings.NewReader(input))
	if err := s.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	tok := s.Token()
	if tok.Kind != thjson.TokString || tok.StrKind != thjson.StringMultiLine {
		t.Fatalf("Kind/StrKind = %v/%v, want TokString/StringMultiLine", tok.Kind, tok.StrKind)
	}
	if got, want := string(tok.Text), "line one\nline two"; got != want {
		t.Errorf("Text = %q, want %q", got, want)
	}
}
