package thjson_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/puppygames/thjson"
)

// recorder implements thjson.Handler by appending a line of text per
// event, so a test can assert on the exact event sequence Stream.Parse
// produces without building a full tree.
type recorder struct {
	thjson.BaseHandler
	lines []string
}

func (r *recorder) log(format string, args ...any) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recorder) BeginObject(key, class string) error {
	r.log("BeginObject(%q, %q)", key, class)
	return nil
}
func (r *recorder) BeginObjectValue(class string) error {
	r.log("BeginObjectValue(%q)", class)
	return nil
}
func (r *recorder) EndObject() error { r.log("EndObject"); return nil }

func (r *recorder) BeginMap(key string) error { r.log("BeginMap(%q)", key); return nil }
func (r *recorder) BeginMapValue() error      { r.log("BeginMapValue"); return nil }
func (r *recorder) EndMap() error             { r.log("EndMap"); return nil }

func (r *recorder) BeginList(key, class string) error {
	r.log("BeginList(%q, %q)", key, class)
	return nil
}
func (r *recorder) BeginListValue(class string) error {
	r.log("BeginListValue(%q)", class)
	return nil
}
func (r *recorder) EndList() error { r.log("EndList"); return nil }

func (r *recorder) BeginArray(key string) error { r.log("BeginArray(%q)", key); return nil }
func (r *recorder) BeginArrayValue() error      { r.log("BeginArrayValue"); return nil }
func (r *recorder) EndArray() error             { r.log("EndArray"); return nil }

func (r *recorder) Property(key string, v thjson.Value) error {
	r.log("Property(%q, %s)", key, valueString(v))
	return nil
}
func (r *recorder) NullProperty(key string) error { r.log("NullProperty(%q)", key); return nil }

func (r *recorder) Value(v thjson.Value) error { r.log("Value(%s)", valueString(v)); return nil }
func (r *recorder) NullValue() error           { r.log("NullValue"); return nil }

// valueString renders a Value the way a test wants to see it: just the
// payload for whichever Kind is actually set, not the whole struct.
func valueString(v thjson.Value) string {
	switch v.Kind {
	case thjson.KindBool:
		return fmt.Sprint(v.Bool)
	case thjson.KindInt:
		return fmt.Sprint(v.Int)
	case thjson.KindFloat:
		return fmt.Sprint(v.Float)
	default:
		if v.Bytes != nil {
			return fmt.Sprintf("bytes(%d)", len(v.Bytes))
		}
		return v.Str
	}
}

func (r *recorder) Directive(text string) error { r.log("Directive(%q)", text); return nil }

func parseLines(t *testing.T, input string) []string {
	t.Helper()
	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(input), r); err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return r.lines
}

func TestStreamRootMembers(t *testing.T) {
	got := parseLines(t, "a: 1\nb: two\nc: null")
	want := []string{
		`Property("a", 1)`,
		`Property("b", two)`,
		`NullProperty("c")`,
	}
	assertLines(t, got, want)
}

func TestStreamNestedObject(t *testing.T) {
	got := parseLines(t, "outer: { inner: 1 }")
	want := []string{
		`BeginMap("outer")`,
		`Property("inner", 1)`,
		`EndMap`,
	}
	assertLines(t, got, want)
}

func TestStreamClassTaggedObjectValue(t *testing.T) {
	got := parseLines(t, "Point { x: 1, y: 2 }")
	want := []string{
		`BeginObjectValue("Point")`,
		`Property("x", 1)`,
		`Property("y", 2)`,
		`EndObject`,
	}
	assertLines(t, got, want)
}

func TestStreamArrayOfObjects(t *testing.T) {
	got := parseLines(t, "items: [ { n: 1 }, { n: 2 } ]")
	want := []string{
		`BeginArray("items")`,
		`BeginMapValue`,
		`Property("n", 1)`,
		`EndMap`,
		`BeginMapValue`,
		`Property("n", 2)`,
		`EndMap`,
		`EndArray`,
	}
	assertLines(t, got, want)
}

func TestStreamDeeplyNestedListsDoNotRecurse(t *testing.T) {
	// Regression for the explicit-stack requirement (spec.md 9): this
	// would overflow the Go call stack if Stream recursed per nesting
	// level instead of driving an explicit frame stack.
	const depth = 20000
	var b strings.Builder
	for i := 0; i < depth; i++ {
		b.WriteByte('[')
	}
	b.WriteString("1")
	for i := 0; i < depth; i++ {
		b.WriteByte(']')
	}
	r := new(recorder)
	if err := thjson.Parse(strings.NewReader(b.String()), r); err != nil {
		t.Fatalf("Parse deeply nested list: %v", err)
	}
	if got, want := len(r.lines), 2*depth+1; got != want {
		t.Errorf("got %d events, want %d", got, want)
	}
}

func TestStreamDirective(t *testing.T) {
	got := parseLines(t, "#version 2\nkey: 1")
	want := []string{
		`Directive("version 2")`,
		`Property("key", 1)`,
	}
	assertLines(t, got, want)
}

func TestStreamParenClassTag(t *testing.T) {
	got := parseLines(t, "(Point) { x: 1, y: 2 }")
	want := []string{
		`BeginObjectValue("Point")`,
		`Property("x", 1)`,
		`Property("y", 2)`,
		`EndObject`,
	}
	assertLines(t, got, want)
}

func TestStreamKeyedClassTaggedList(t *testing.T) {
	got := parseLines(t, "points: (Point) [ 1, 2 ]")
	want := []string{
		`BeginList("points", "Point")`,
		`Value(1)`,
		`Value(2)`,
		`EndList`,
	}
	assertLines(t, got, want)
}

func TestStreamFunctionCallExpandsInline(t *testing.T) {
	r := &functionRecorder{recorder: new(recorder)}
	if err := thjson.Parse(strings.NewReader("key: #upper hi"), r); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{`Property("key", HI)`}
	assertLines(t, r.recorder.lines, want)
}

// functionRecorder evaluates a function call by upper-casing its
// argument text, exercising expandFunction's re-parse of the returned
// text as an inline value.
type functionRecorder struct {
	*recorder
}

func (f *functionRecorder) Function(text string) (string, error) {
	return strings.ToUpper(strings.TrimPrefix(text, "upper ")), nil
}

func TestStreamDefaultFunctionRoundTripsOpaque(t *testing.T) {
	// recorder never overrides Function, so this exercises
	// BaseHandler.Function's default: the call is wrapped as a quoted
	// "@..." string rather than rejected, per spec.md 4.5.
	got := parseLines(t, "key: @greet bob")
	want := []string{`Property("key", @greet bob)`}
	assertLines(t, got, want)
}

// cancelingHandler aborts parsing from a property callback, exercising
// spec.md 5's "a listener callback that raises an error aborts parsing;
// partial events already delivered remain observable."
type cancelingHandler struct {
	thjson.BaseHandler
	seen []string
	err  error
}

func (c *cancelingHandler) Property(key string, v thjson.Value) error {
	c.seen = append(c.seen, key)
	return c.err
}

func TestStreamHandlerErrorAbortsParse(t *testing.T) {
	cancel := fmt.Errorf("stop here")
	h := &cancelingHandler{err: cancel}
	err := thjson.Parse(strings.NewReader("a: 1\nb: 2\nc: 3"), h)
	if err != cancel {
		t.Fatalf("Parse error = %v, want %v", err, cancel)
	}
	if want := []string{"a"}; len(h.seen) != len(want) || h.seen[0] != want[0] {
		t.Errorf("seen = %v, want %v (parsing must stop at the first callback error)", h.seen, want)
	}
}

func assertLines(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d\ngot:  %v\nwant: %v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
