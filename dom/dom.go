// Package dom builds and replays a generic in-memory tree for THJSON
// documents, for callers that want a materialized value rather than a
// stream of events.
//
// Grounded on jtree's ast package (Value/Datum interfaces, Object.Find,
// a stack-based Handler that builds the tree via push/pop). THJSON's
// class tags are the one addition beyond jtree's ast: Object and Array
// carry a Class field absent from a plain JSON tree, since a class-tagged
// container is THJSON's core extension over JSON (spec.md 3).
package dom

import (
	"io"

	"github.com/puppygames/thjson"
)

// Value is any THJSON value that can appear as a root item, a Member's
// value, or an Array element.
type Value interface{ isValue() }

// Object is a map, optionally tagged with a class name. Class is empty
// for an untagged map ({ ... }) and non-empty for a class-tagged one
// (ClassName { ... }).
type Object struct {
	Class   string
	Members []Member
}

func (*Object) isValue() {}

// Find returns the value of the first member with the given key, and
// whether one was found.
func (o *Object) Find(key string) (Value, bool) {
	for _, m := range o.Members {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Member is a single key/value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Array is a list, optionally tagged with a class name, following the
// same Class convention as Object.
type Array struct {
	Class  string
	Values []Value
}

func (*Array) isValue() {}

// Scalar wraps a primitive thjson.Value (bool, int, float, string, or
// bytes) so it can be stored in the tree. Reusing thjson.Value directly,
// rather than one DOM type per kind as jtree's ast does with Integer,
// Number, Bool and String, avoids duplicating the Kind/IntKind/StrKind
// bookkeeping Stream already produces.
type Scalar struct{ thjson.Value }

func (Scalar) isValue() {}

// Null represents the null constant. It is distinct from Scalar because
// Stream itself distinguishes NullProperty/NullValue from Property/Value
// rather than folding null into Value's Kind.
type Null struct{}

func (Null) isValue() {}

// RootItem is one member of a Document: root position permits both keyed
// members and, per spec.md 3's permissive root grammar, anonymous values.
type RootItem struct {
	Key    string
	HasKey bool
	Value  Value
}

// Document is the top-level result of parsing a THJSON document: an
// ordered sequence of root items, mirroring the flexibility of Stream's
// root frame rather than forcing the root to be an Object.
type Document struct {
	Items []RootItem
}

// Find returns the value of the first root item with the given key, and
// whether one was found.
func (d *Document) Find(key string) (Value, bool) {
	for _, it := range d.Items {
		if it.HasKey && it.Key == key {
			return it.Value, true
		}
	}
	return nil, false
}

// Parse reads a complete THJSON document from r and builds a Document.
func Parse(r io.Reader) (*Document, error) {
	b := NewBuilder()
	if err := thjson.Parse(r, b); err != nil {
		return nil, err
	}
	return b.Document(), nil
}

// Write replays doc through a thjson.Writer, producing THJSON text.
func Write(w io.Writer, doc *Document) error {
	tw := thjson.NewWriter(w)
	tw.Begin()
	for _, it := range doc.Items {
		writeValue(tw, it.Key, it.HasKey, it.Value)
	}
	tw.End()
	return tw.Flush()
}

func writeValue(w *thjson.Writer, key string, hasKey bool, v Value) {
	switch val := v.(type) {
	case Null:
		if hasKey {
			w.NullProperty(key)
		} else {
			w.NullValue()
		}
	case Scalar:
		if hasKey {
			w.Property(key, val.Value)
		} else {
			w.Value(val.Value)
		}
	case *Object:
		tagged := val.Class != ""
		switch {
		case tagged && hasKey:
			w.BeginObject(key, val.Class)
		case tagged:
			w.BeginObjectValue(val.Class)
		case hasKey:
			w.BeginMap(key)
		default:
			w.BeginMapValue()
		}
		for _, m := range val.Members {
			writeValue(w, m.Key, true, m.Value)
		}
		if tagged {
			w.EndObject()
		} else {
			w.EndMap()
		}
	case *Array:
		tagged := val.Class != ""
		switch {
		case tagged && hasKey:
			w.BeginList(key, val.Class)
		case tagged:
			w.BeginListValue(val.Class)
		case hasKey:
			w.BeginArray(key)
		default:
			w.BeginArrayValue()
		}
		for _, e := range val.Values {
			writeValue(w, "", false, e)
		}
		if tagged {
			w.EndList()
		} else {
			w.EndArray()
		}
	}
}
