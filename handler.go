package thjson

// Handler receives the linear event stream produced by Stream.Parse, per
// spec.md 3. Every event is delivered synchronously and in source order;
// a Handler must not reenter the Stream that is calling it.
//
// Grounded on jtree's Handler for the shape (a small paired-method
// interface implemented directly by adapters) and on
// THJSONListener.java for the vocabulary: separate keyed
// (beginObject/beginMap/beginList/beginArray) and anonymous
// (beginObjectValue/beginMapValue/beginListValue/beginArrayValue) openers,
// so that a single Handler method never has to guess whether it is being
// called for a member or an array element.
// Every event method returns an error so a Handler can cancel parsing
// from any callback, not only Function: spec.md 5's "a listener callback
// that raises an error aborts parsing" is general, and Stream.Parse
// propagates the first non-nil error from any of them, stopping
// immediately without delivering further events.
type Handler interface {
	// Begin is called once before the first token is read.
	Begin() error
	// End is called once after the final token has been consumed.
	End() error

	// BeginObject opens a class-tagged, keyed map.
	BeginObject(key, class string) error
	// BeginObjectValue opens a class-tagged, anonymous map (inside an
	// array/list, or at root).
	BeginObjectValue(class string) error
	// EndObject closes the object most recently opened by BeginObject or
	// BeginObjectValue.
	EndObject() error

	// BeginMap opens an untagged, keyed map.
	BeginMap(key string) error
	// BeginMapValue opens an untagged, anonymous map.
	BeginMapValue() error
	// EndMap closes the map most recently opened by BeginMap or
	// BeginMapValue.
	EndMap() error

	// BeginList opens a class-tagged, keyed array.
	BeginList(key, class string) error
	// BeginListValue opens a class-tagged, anonymous array.
	BeginListValue(class string) error
	// EndList closes the list most recently opened by BeginList or
	// BeginListValue.
	EndList() error

	// BeginArray opens an untagged, keyed array.
	BeginArray(key string) error
	// BeginArrayValue opens an untagged, anonymous array.
	BeginArrayValue() error
	// EndArray closes the array most recently opened by BeginArray or
	// BeginArrayValue.
	EndArray() error

	// Property delivers a primitive key/value pair inside an object or
	// map.
	Property(key string, value Value) error
	// NullProperty delivers a null-valued key inside an object or map.
	NullProperty(key string) error

	// Value delivers a primitive element inside an array or list.
	Value(value Value) error
	// NullValue delivers a null element inside an array or list.
	NullValue() error

	// Comment delivers a comment's text, stripped of its delimiters.
	Comment(text string, kind CommentKind) error
	// Directive delivers the raw text of a '#' or '@' token encountered
	// at root member position, for side effects only: the Handler must
	// not reenter the Stream.
	Directive(text string) error
	// Function is called for a '#' or '@' token encountered in value
	// position; the returned text is parsed as if it had occurred
	// inline, bounded by MaxRecursion.
	Function(text string) (string, error)
}

// Value is the payload of a Property or Value event: a decoded primitive,
// tagged with its Kind and, for ints/strings/bytes, its sub-kind.
//
// Grounded on Token.java's value union, generalized: unlike a Token, a
// Value never carries lexical position, since by the time a Handler sees
// one the Stream has already finished with its location.
type Value struct {
	Kind Kind

	Bool    bool
	Int     int32
	IntKind IntKind
	Float   float32
	Str     string
	Bytes   []byte
	StrKind StringKind
}

// BaseHandler implements Handler with no-op defaults for every method
// except Function (see below), per spec.md 4.5's description of THJSONListener.java's Java `default`
// methods. Embed it to implement only the events an adapter cares about.
type BaseHandler struct{}

func (BaseHandler) Begin() error { return nil }
func (BaseHandler) End() error   { return nil }

func (BaseHandler) BeginObject(key, class string) error { return nil }
func (BaseHandler) BeginObjectValue(class string) error { return nil }
func (BaseHandler) EndObject() error                    { return nil }

func (BaseHandler) BeginMap(key string) error { return nil }
func (BaseHandler) BeginMapValue() error      { return nil }
func (BaseHandler) EndMap() error             { return nil }

func (BaseHandler) BeginList(key, class string) error { return nil }
func (BaseHandler) BeginListValue(class string) error { return nil }
func (BaseHandler) EndList() error                    { return nil }

func (BaseHandler) BeginArray(key string) error { return nil }
func (BaseHandler) BeginArrayValue() error      { return nil }
func (BaseHandler) EndArray() error             { return nil }

func (BaseHandler) Property(key string, value Value) error { return nil }
func (BaseHandler) NullProperty(key string) error          { return nil }

func (BaseHandler) Value(value Value) error { return nil }
func (BaseHandler) NullValue() error        { return nil }

func (BaseHandler) Comment(text string, kind CommentKind) error { return nil }
func (BaseHandler) Directive(text string) error                 { return nil }

// Function's default does not evaluate the call: per spec.md 4.5, it
// wraps the call's raw text verbatim as a quoted string prefixed with
// '@', so a document containing a function call an adapter doesn't
// understand still round-trips as an opaque string instead of failing
// to parse.
func (BaseHandler) Function(text string) (string, error) {
	return `"` + Quote("@"+text) + `"`, nil
}
