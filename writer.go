package thjson

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/puppygames/thjson/internal/escape"
)

// Writer emits THJSON text from the same event vocabulary Handler
// consumes. Because layout decisions (single line vs. indented block)
// depend on a container's full contents, Writer buffers one frame per
// open container and only commits its rendering once the matching End*
// call arrives — the streaming analogue of jwcc.Formatter's isBoring,
// which makes the same decision by walking an already-materialized tree.
//
// Grounded on jwcc/indent.go for the layout mechanism (indent threaded
// per level, a single-line collapse for small unremarkable containers)
// and SimpleTHJSONWriter.java for the concrete classification rules
// (bareword vs. quoted string/key, numeric literal spellings, Base64
// byte literals).
//
// A Writer is not safe for concurrent use.
type Writer struct {
	cfg   WriterConfig
	out   *bufio.Writer
	stack []*wframe
}

// WriterConfig holds the Writer's larger option surface, mirroring
// jwcc.Formatter's constructor options and spec.md 6.3's writer
// configuration list. NewWriterConfig replaces a non-positive TabSize
// with 2, so the zero value gives a two-space indent; NewWriter uses the
// library's long-standing two-space, no-header, no-root-braces defaults.
type WriterConfig struct {
	// UseTabs selects a single tab as the indent unit, overriding TabSize.
	UseTabs bool
	// TabSize is the number of spaces per indent level when UseTabs is
	// false. NewWriter and NewWriterConfig both treat a non-positive
	// value as 2.
	TabSize int
	// RootBraces wraps the root member list in '{' '}', writing the
	// root-obj grammar alternative (spec.md 6.2) instead of a bare
	// member list.
	RootBraces bool
	// OutputHeader prepends a "#thjson" header line to the document.
	OutputHeader bool
	// RootGap inserts a blank line between successive root items.
	RootGap bool
	// DefaultCompact is the layout a container falls back to when
	// nothing has called SetCompact for it; false preserves the
	// existing isBoring heuristic.
	DefaultCompact bool
}

type witem struct {
	key       string
	hasKey    bool
	text      string
	container bool
	comment   bool
}

type wframe struct {
	isList     bool
	class      string
	keyed      bool
	key        string
	items      []witem
	compactSet bool
	compact    bool
}

// NewWriter constructs a Writer rendering to w with the library's
// historical defaults: a two-space indent, no header, and no root braces.
func NewWriter(w io.Writer) *Writer {
	return NewWriterConfig(w, WriterConfig{TabSize: 2})
}

// NewWriterConfig constructs a Writer rendering to w per cfg. Grounded on
// spec.md 6.3's writer configuration list and SPEC_FULL.md 3's promise of
// a WriterConfig mirroring jwcc.Formatter's option surface.
func NewWriterConfig(w io.Writer, cfg WriterConfig) *Writer {
	if !cfg.UseTabs && cfg.TabSize <= 0 {
		cfg.TabSize = 2
	}
	return &Writer{cfg: cfg, out: bufio.NewWriter(w)}
}

func (w *Writer) indentUnit() string {
	if w.cfg.UseTabs {
		return "\t"
	}
	return strings.Repeat(" ", w.cfg.TabSize)
}

// rootDepth is the extra indent level RootBraces introduces at root
// position; every ancestorDepth computed for a top-level container must
// be shifted by this much.
func (w *Writer) rootDepth() int {
	if w.cfg.RootBraces {
		return 1
	}
	return 0
}

// SetCompact overrides the automatic isBoring/DefaultCompact layout
// decision for the container whose Begin* call most recently pushed a
// frame. It must be called after that Begin* call and before the
// container's first child event, per spec.md 4.4's "compact hint per
// container".
func (w *Writer) SetCompact(compact bool) {
	if len(w.stack) == 0 {
		return
	}
	top := w.stack[len(w.stack)-1]
	top.compactSet = true
	top.compact = compact
}

// Flush writes any buffered output to the underlying io.Writer. It must be
// called after End to guarantee the document has actually been written.
func (w *Writer) Flush() error { return w.out.Flush() }

func (w *Writer) Begin() {
	if w.cfg.OutputHeader {
		w.out.WriteString("#thjson\n")
	}
	if w.cfg.RootBraces {
		w.out.WriteString("{\n")
	}
}

func (w *Writer) End() {
	if w.cfg.RootBraces {
		w.out.WriteString("}\n")
	}
	w.out.Flush()
}

func (w *Writer) BeginObject(key, class string) { w.pushFrame(false, true, key, class) }
func (w *Writer) BeginObjectValue(class string) { w.pushFrame(false, false, "", class) }
func (w *Writer) EndObject()                    { w.endFrame() }

func (w *Writer) BeginMap(key string) { w.pushFrame(false, true, key, "") }
func (w *Writer) BeginMapValue()      { w.pushFrame(false, false, "", "") }
func (w *Writer) EndMap()             { w.endFrame() }

func (w *Writer) BeginList(key, class string) { w.pushFrame(true, true, key, class) }
func (w *Writer) BeginListValue(class string) { w.pushFrame(true, false, "", class) }
func (w *Writer) EndList()                    { w.endFrame() }

func (w *Writer) BeginArray(key string) { w.pushFrame(true, true, key, "") }
func (w *Writer) BeginArrayValue()      { w.pushFrame(true, false, "", "") }
func (w *Writer) EndArray()             { w.endFrame() }

func (w *Writer) Property(key string, v Value) { w.addItem(true, key, formatValue(v)) }
func (w *Writer) NullProperty(key string)      { w.addItem(true, key, "null") }

func (w *Writer) Value(v Value) { w.addItem(false, "", formatValue(v)) }
func (w *Writer) NullValue()    { w.addItem(false, "", "null") }

// Directive writes text as a root-position '#' directive. Per spec.md 3 a
// directive only ever occurs at root position, so this does not accept a
// key.
func (w *Writer) Directive(text string) {
	line := "#" + text
	if len(w.stack) == 0 {
		w.out.WriteString(line)
		w.out.WriteString("\n")
		return
	}
	top := w.stack[len(w.stack)-1]
	top.items = append(top.items, witem{text: line, comment: true})
}

// PropertyFunction and ValueFunction write a '#'/'@' function-call
// lexeme in value position. Handler.Function is a callback the parser
// invokes to *evaluate* a function call; Writer has no symmetric use for
// that signature; since it never evaluates anything, these two methods
// take the call's marker and text directly instead of mirroring
// Handler.Function's (string, error) shape.
func (w *Writer) PropertyFunction(key string, marker byte, text string) {
	w.addItem(true, key, string(marker)+text)
}

func (w *Writer) ValueFunction(marker byte, text string) {
	w.addItem(false, "", string(marker)+text)
}

func (w *Writer) Comment(text string, kind CommentKind) {
	rendered := formatComment(text, kind)
	if len(w.stack) == 0 {
		w.out.WriteString(rendered)
		w.out.WriteString("\n")
		return
	}
	top := w.stack[len(w.stack)-1]
	top.items = append(top.items, witem{text: rendered, comment: true})
}

func formatComment(text string, kind CommentKind) string {
	switch kind {
	case CommentBlock:
		return "/* " + text + " */"
	case CommentHash:
		return "#" + text
	default:
		return "//" + text
	}
}

func (w *Writer) pushFrame(isList, keyed bool, key, class string) {
	w.stack = append(w.stack, &wframe{isList: isList, keyed: keyed, key: key, class: class})
}

// endFrame renders the top frame's buffered items and either writes the
// result directly (a root-level container) or files it as an item in the
// new top frame, to be rendered in turn when that frame closes.
func (w *Writer) endFrame() {
	f := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	text := w.render(f, len(w.stack)+w.rootDepth())
	if len(w.stack) == 0 {
		w.emitRootItem(f.keyed, f.key, text)
		return
	}
	parent := w.stack[len(w.stack)-1]
	parent.items = append(parent.items, witem{key: f.key, hasKey: f.keyed, text: text, container: true})
}

func (w *Writer) addItem(hasKey bool, key, text string) {
	if len(w.stack) == 0 {
		w.emitRootItem(hasKey, key, text)
		return
	}
	top := w.stack[len(w.stack)-1]
	top.items = append(top.items, witem{key: key, hasKey: hasKey, text: text})
}

func (w *Writer) emitRootItem(hasKey bool, key, text string) {
	indent := strings.Repeat(w.indentUnit(), w.rootDepth())
	w.out.WriteString(indent)
	if hasKey {
		w.out.WriteString(formatKey(key))
		w.out.WriteString(": ")
	}
	w.out.WriteString(text)
	w.out.WriteString("\n")
	if w.cfg.RootGap {
		w.out.WriteString("\n")
	}
}

// isBoring reports whether f is simple enough to render on one line.
// Grounded on jwcc.Formatter.isBoring, simplified to a flat item count
// and the absence of nested containers or comments (jwcc additionally
// recurses into children; Writer's own frame stack holds only fully
// pre-rendered child text by the time a container closes, so a nested
// container is treated as automatically non-boring rather than
// re-measuring its rendered length).
func (w *Writer) isBoring(f *wframe) bool {
	if len(f.items) > 3 {
		return false
	}
	for _, it := range f.items {
		if it.container || it.comment {
			return false
		}
	}
	return true
}

// layoutCompact resolves whether f renders on a single line: an explicit
// SetCompact call wins, then DefaultCompact, then the automatic isBoring
// heuristic. Grounded on spec.md 4.4's "compact hint per container ...
// may set this per class".
func (w *Writer) layoutCompact(f *wframe) bool {
	if f.compactSet {
		return f.compact
	}
	if w.cfg.DefaultCompact {
		return true
	}
	return w.isBoring(f)
}

func formatMemberLine(it witem, indent string) string {
	if it.hasKey {
		return indent + formatKey(it.key) + ": " + it.text
	}
	return indent + it.text
}

func (w *Writer) render(f *wframe, ancestorDepth int) string {
	open, close := "{", "}"
	if f.isList {
		open, close = "[", "]"
	}
	prefix := ""
	if f.class != "" {
		prefix = formatClassTag(f.class) + " "
	}
	if len(f.items) == 0 {
		return prefix + open + close
	}
	if w.layoutCompact(f) {
		// Compact mode suppresses comments (spec.md 4.4): a comment item
		// has no single-line representation, so it is dropped rather than
		// forcing the container back into expanded layout.
		var parts []string
		for _, it := range f.items {
			if it.comment {
				continue
			}
			if it.hasKey {
				parts = append(parts, formatKey(it.key)+": "+it.text)
			} else {
				parts = append(parts, it.text)
			}
		}
		return prefix + open + " " + strings.Join(parts, ", ") + " " + close
	}
	indent := strings.Repeat(w.indentUnit(), ancestorDepth+1)
	closeIndent := strings.Repeat(w.indentUnit(), ancestorDepth)
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(open)
	b.WriteByte('\n')
	for _, it := range f.items {
		if it.comment {
			b.WriteString(indent)
			b.WriteString(it.text)
			b.WriteByte('\n')
			continue
		}
		b.WriteString(formatMemberLine(it, indent))
		b.WriteString(",\n")
	}
	b.WriteString(closeIndent)
	b.WriteString(close)
	return b.String()
}

// formatValue renders a Value's literal text, per spec.md 4.4's numeric
// and string classification rules.
func formatValue(v Value) string {
	switch v.Kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return formatInt(v.Int, v.IntKind)
	case KindFloat:
		return formatFloat(v.Float)
	default:
		if v.Bytes != nil {
			return formatBytes(v.Bytes)
		}
		return formatString(v.Str)
	}
}

func formatInt(v int32, kind IntKind) string {
	switch kind {
	case IntHex:
		return fmt.Sprintf("0x%x", uint32(v))
	case IntBinary:
		return "%" + strconv.FormatUint(uint64(uint32(v)), 2)
	case IntSigned:
		if v >= 0 {
			return "+" + strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatInt(int64(v), 10)
	default:
		return strconv.FormatInt(int64(v), 10)
	}
}

// formatFloat renders f as the shortest round-trippable representation
// that Classify will still read back as FLOAT rather than an integer: a
// whole-number float such as 150 must keep a '.' or exponent marker, or
// re-reading it produces INTEGER(PLAIN) instead (spec.md 8's round-trip
// invariant only excuses int-sub-kind and whitespace/comment drift).
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// byteWrapThreshold and byteWrapCols implement spec.md 4.4's byte-output
// rule: up to ~80 bytes render as a single backtick literal; longer
// payloads switch to a '<<<'/'>>>' block with the Base64 body wrapped at
// 64 columns. scanTripleBytes discards all whitespace inside the block,
// so the wrap columns are cosmetic and round-trip losslessly.
const (
	byteWrapThreshold = 80
	byteWrapCols      = 64
)

func formatBytes(b []byte) string {
	enc := escape.EncodeBase64(b)
	if len(b) <= byteWrapThreshold {
		return "`" + enc + "`"
	}
	var sb strings.Builder
	sb.WriteString("<<<\n")
	for len(enc) > byteWrapCols {
		sb.WriteString(enc[:byteWrapCols])
		sb.WriteByte('\n')
		enc = enc[byteWrapCols:]
	}
	sb.WriteString(enc)
	sb.WriteString("\n>>>")
	return sb.String()
}

// canBeBareword reports whether s can be written without quotes: it must
// not be empty, must not lexically re-classify as null/bool/a number (that
// would change its meaning on re-read), and must contain none of the bytes
// the quoteless grammar treats as structural. Grounded on
// THJSONTokenizer's quoteless-token delimiter set and
// SimpleTHJSONWriter.classifyValue/classifyKey.
func canBeBareword(s string) bool {
	if s == "" {
		return false
	}
	if k, _ := Classify([]byte(s)); k != KindString {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpaceByte(c) || isQuotelessDelimiter(c) || c == ',' || c == '"' || c == '\'' || c == '`' || c == '#' || c == '@' || c == '<' || c == '>' {
			return false
		}
	}
	return s[0] != '/'
}

// wantsTripleQuote decides between quoted and triple-quoted rendering for
// a multi-line string, porting SimpleTHJSONWriter.classifyValue's exact
// threshold (spec.md 4.4): more than one newline with some line longer
// than 10 characters, or more than four newlines with a total length
// over 80. A string with a single short newline stays quoted, with the
// '\n' escaped inline.
func wantsTripleQuote(s string) bool {
	newlines := strings.Count(s, "\n")
	if newlines == 0 {
		return false
	}
	maxLine := 0
	for _, line := range strings.Split(s, "\n") {
		if len(line) > maxLine {
			maxLine = len(line)
		}
	}
	return (newlines > 1 && maxLine > 10) || (newlines > 4 && len(s) > 80)
}

func formatString(s string) string {
	if wantsTripleQuote(s) {
		return formatTripleString(s)
	}
	if canBeBareword(s) {
		return s
	}
	return `"` + escape.Quote(s) + `"`
}

func formatKey(s string) string {
	if canBeBareword(s) {
		return s
	}
	return `"` + escape.Quote(s) + `"`
}

func formatClassTag(class string) string {
	if canBeBareword(class) {
		return "(" + class + ")"
	}
	return `("` + escape.Quote(class) + `")`
}

// formatTripleString wraps a multi-line string in triple quotes.
// Simplification: content lines are written flush left rather than
// reindented to the surrounding block's column, since the alignment rule
// (spec.md 4.3) only strips indentation on read and a flush-left triple
// quoted string round-trips unchanged either way.
func formatTripleString(s string) string {
	return "'''\n" + s + "\n'''"
}
