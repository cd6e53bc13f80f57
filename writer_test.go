package thjson_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/puppygames/thjson"
)

func writeAndFlush(t *testing.T, fn func(w *thjson.Writer)) string {
	t.Helper()
	var buf bytes.Buffer
	w := thjson.NewWriter(&buf)
	w.Begin()
	fn(w)
	w.End()
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	return buf.String()
}

func TestWriterCompactObject(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.BeginObject("point", "Point")
		w.Property("x", thjson.Value{Kind: thjson.KindInt, Int: 1})
		w.Property("y", thjson.Value{Kind: thjson.KindInt, Int: 2})
		w.EndObject()
	})
	want := "point: (Point) { x: 1, y: 2 }\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterExpandsBeyondBoringLimit(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.BeginObject("point", "")
		w.Property("a", thjson.Value{Kind: thjson.KindInt, Int: 1})
		w.Property("b", thjson.Value{Kind: thjson.KindInt, Int: 2})
		w.Property("c", thjson.Value{Kind: thjson.KindInt, Int: 3})
		w.Property("d", thjson.Value{Kind: thjson.KindInt, Int: 4})
		w.EndObject()
	})
	if !strings.Contains(got, "\n  a: 1,\n") {
		t.Errorf("expected an expanded, indented block; got %q", got)
	}
}

func TestWriterSetCompactForcesSingleLine(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.BeginObject("point", "")
		w.SetCompact(true)
		w.Property("a", thjson.Value{Kind: thjson.KindInt, Int: 1})
		w.Property("b", thjson.Value{Kind: thjson.KindInt, Int: 2})
		w.Property("c", thjson.Value{Kind: thjson.KindInt, Int: 3})
		w.Property("d", thjson.Value{Kind: thjson.KindInt, Int: 4})
		w.EndObject()
	})
	want := "point: { a: 1, b: 2, c: 3, d: 4 }\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriterSetCompactForcesExpanded(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.BeginObject("point", "")
		w.SetCompact(false)
		w.Property("x", thjson.Value{Kind: thjson.KindInt, Int: 1})
		w.EndObject()
	})
	if !strings.Contains(got, "\n  x: 1,\n") {
		t.Errorf("expected SetCompact(false) to force an expanded block; got %q", got)
	}
}

func TestWriterCompactSuppressesComments(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.BeginObject("point", "")
		w.SetCompact(true)
		w.Comment(" a note", thjson.CommentSlashSlash)
		w.Property("x", thjson.Value{Kind: thjson.KindInt, Int: 1})
		w.EndObject()
	})
	if strings.Contains(got, "a note") {
		t.Errorf("compact layout should suppress comments, got %q", got)
	}
	want := "point: { x: 1 }\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// Regression: a whole-number float must keep a '.' or exponent marker or
// it re-classifies as an integer on reread (spec.md 8).
func TestWriterFloatAlwaysRoundTripsAsFloat(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("scale", thjson.Value{Kind: thjson.KindFloat, Float: 150})
	})
	if !strings.ContainsAny(got, ".eE") {
		t.Fatalf("formatted float has no '.' or exponent marker: %q", got)
	}

	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(got), r); err != nil {
		t.Fatalf("re-Parse rendered float: %v\ntext: %s", err, got)
	}
	want := []string{`Property("scale", 150)`}
	assertLines(t, r.lines, want)
}

// Regression: a bareword-eligible string that starts with '<<<' must be
// quoted, or on reread the scanner misdispatches it into a triple-quoted
// byte literal instead of a string (spec.md 4.4's delimiter set).
func TestWriterQuotesAngleBracketBareword(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("weird", thjson.Value{Kind: thjson.KindString, Str: "<<<foo>>>"})
	})
	if !strings.Contains(got, `"<<<foo>>>"`) {
		t.Fatalf("expected the value to be quoted, got %q", got)
	}

	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(got), r); err != nil {
		t.Fatalf("re-Parse rendered string: %v\ntext: %s", err, got)
	}
	want := []string{`Property("weird", <<<foo>>>)`}
	assertLines(t, r.lines, want)
}

// Regression: a byte payload over the ~80-byte threshold must render as
// a wrapped '<<<'/'>>>' block instead of a single backtick literal
// (spec.md 4.4), and must still re-parse to the original bytes.
func TestWriterWrapsLongBytesInAngleBrackets(t *testing.T) {
	payload := bytes.Repeat([]byte{0x41, 0x42, 0x43, 0x44}, 30) // 120 bytes
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("blob", thjson.Value{Kind: thjson.KindString, Bytes: payload})
	})
	if !strings.Contains(got, "<<<\n") || !strings.Contains(got, "\n>>>") {
		t.Fatalf("expected a wrapped <<< >>> block, got %q", got)
	}

	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(got), r); err != nil {
		t.Fatalf("re-Parse wrapped bytes: %v\ntext: %s", err, got)
	}
	want := []string{`Property("blob", bytes(120))`}
	assertLines(t, r.lines, want)
}

// Regression: a short byte payload stays a single-line backtick literal.
func TestWriterShortBytesStayBacktick(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("blob", thjson.Value{Kind: thjson.KindString, Bytes: []byte("hello")})
	})
	if strings.Contains(got, "<<<") {
		t.Errorf("short payload should not use the wrapped form, got %q", got)
	}
}

// Regression: a string with exactly one short newline stays quoted with
// an escaped '\n', rather than being promoted to triple-quoted just
// because it contains a newline at all (spec.md 4.4).
func TestWriterShortSingleNewlineStaysQuoted(t *testing.T) {
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("msg", thjson.Value{Kind: thjson.KindString, Str: "line one\nline two"})
	})
	if strings.Contains(got, "'''") {
		t.Fatalf("expected quoted form, not triple-quoted, got %q", got)
	}
	if !strings.Contains(got, `"line one\nline two"`) {
		t.Fatalf("expected an escaped \\n inside a quoted string, got %q", got)
	}

	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(got), r); err != nil {
		t.Fatalf("re-Parse rendered string: %v\ntext: %s", err, got)
	}
	want := []string{`Property("msg", line one` + "\n" + `line two)`}
	assertLines(t, r.lines, want)
}

// Regression: a genuinely long, many-line string crosses the threshold
// and must render triple-quoted.
func TestWriterLongMultilineStringIsTripleQuoted(t *testing.T) {
	long := strings.Repeat("this line is definitely longer than ten characters\n", 3)
	got := writeAndFlush(t, func(w *thjson.Writer) {
		w.Property("msg", thjson.Value{Kind: thjson.KindString, Str: strings.TrimSuffix(long, "\n")})
	})
	if !strings.Contains(got, "'''") {
		t.Fatalf("expected triple-quoted form, got %q", got)
	}
}

func TestWriterConfigHeaderRootBracesAndGap(t *testing.T) {
	var buf bytes.Buffer
	w := thjson.NewWriterConfig(&buf, thjson.WriterConfig{
		TabSize:      2,
		OutputHeader: true,
		RootBraces:   true,
		RootGap:      true,
	})
	w.Begin()
	w.Property("a", thjson.Value{Kind: thjson.KindInt, Int: 1})
	w.Property("b", thjson.Value{Kind: thjson.KindInt, Int: 2})
	w.End()
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	want := "#thjson\n{\n  a: 1\n\n  b: 2\n\n}\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
