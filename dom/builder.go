package dom

import "github.com/puppygames/thjson"

// Builder implements thjson.Handler, assembling a Document from the
// event stream a Stream produces. Grounded on jtree's ast.parseHandler:
// a stack of in-progress containers, each popped and attached to its
// parent (or to the document, at depth zero) when its matching End*
// event arrives.
//
// Comments and directives are dropped, matching jtree's ast, which has
// no representation for either.
type Builder struct {
	thjson.BaseHandler

	// Eval, if set, is called to evaluate a function-call token
	// encountered in value position. If nil, Function falls back to
	// BaseHandler's default, which keeps the call as an opaque "@..."
	// string, since a bare tree builder has no evaluation environment of
	// its own.
	Eval func(text string) (string, error)

	doc   Document
	stack []frame
}

type frame struct {
	isArray bool
	key     string
	hasKey  bool
	obj     *Object
	arr     *Array
}

// NewBuilder returns an empty Builder ready to receive events.
func NewBuilder() *Builder { return &Builder{} }

// Document returns the tree assembled so far. Call it only after Parse
// has returned successfully.
func (b *Builder) Document() *Document { return &b.doc }

func (b *Builder) attach(key string, hasKey bool, v Value) {
	if len(b.stack) == 0 {
		b.doc.Items = append(b.doc.Items, RootItem{Key: key, HasKey: hasKey, Value: v})
		return
	}
	top := &b.stack[len(b.stack)-1]
	if top.isArray {
		top.arr.Values = append(top.arr.Values, v)
	} else {
		top.obj.Members = append(top.obj.Members, Member{Key: key, Value: v})
	}
}

func (b *Builder) pushObj(key string, hasKey bool, class string) {
	b.stack = append(b.stack, frame{obj: &Object{Class: class}, key: key, hasKey: hasKey})
}

func (b *Builder) pushArr(key string, hasKey bool, class string) {
	b.stack = append(b.stack, frame{isArray: true, arr: &Array{Class: class}, key: key, hasKey: hasKey})
}

func (b *Builder) pop() {
	f := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	if f.isArray {
		b.attach(f.key, f.hasKey, f.arr)
	} else {
		b.attach(f.key, f.hasKey, f.obj)
	}
}

func (b *Builder) BeginObject(key, class string) error { b.pushObj(key, true, class); return nil }
func (b *Builder) BeginObjectValue(class string) error { b.pushObj("", false, class); return nil }
func (b *Builder) EndObject() error                    { b.pop(); return nil }

func (b *Builder) BeginMap(key string) error { b.pushObj(key, true, ""); return nil }
func (b *Builder) BeginMapValue() error      { b.pushObj("", false, ""); return nil }
func (b *Builder) EndMap() error             { b.pop(); return nil }

func (b *Builder) BeginList(key, class string) error { b.pushArr(key, true, class); return nil }
func (b *Builder) BeginListValue(class string) error { b.pushArr("", false, class); return nil }
func (b *Builder) EndList() error                    { b.pop(); return nil }

func (b *Builder) BeginArray(key string) error { b.pushArr(key, true, ""); return nil }
func (b *Builder) BeginArrayValue() error      { b.pushArr("", false, ""); return nil }
func (b *Builder) EndArray() error             { b.pop(); return nil }

func (b *Builder) Property(key string, v thjson.Value) error { b.attach(key, true, Scalar{v}); return nil }
func (b *Builder) NullProperty(key string) error             { b.attach(key, true, Null{}); return nil }

func (b *Builder) Value(v thjson.Value) error { b.attach("", false, Scalar{v}); return nil }
func (b *Builder) NullValue() error           { b.attach("", false, Null{}); return nil }

func (b *Builder) Function(text string) (string, error) {
	if b.Eval != nil {
		return b.Eval(text)
	}
	return b.BaseHandler.Function(text)
}
