package dom_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/puppygames/thjson"
	"github.com/puppygames/thjson/dom"
)

func TestParseBuildsTree(t *testing.T) {
	const input = `
name: Widget
count: 3
tags: [red, green]
Point { x: 1, y: 2 }
`
	doc, err := dom.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(doc.Items) != 4 {
		t.Fatalf("got %d root items, want 4", len(doc.Items))
	}

	name, ok := doc.Find("name")
	if !ok {
		t.Fatal(`missing "name"`)
	}
	sc, ok := name.(dom.Scalar)
	if !ok || sc.Str != "Widget" {
		t.Errorf("name = %#v, want Scalar{Str: Widget}", name)
	}

	tags, ok := doc.Find("tags")
	if !ok {
		t.Fatal(`missing "tags"`)
	}
	arr, ok := tags.(*dom.Array)
	if !ok || len(arr.Values) != 2 {
		t.Fatalf("tags = %#v, want *Array of length 2", tags)
	}

	last := doc.Items[3]
	if last.HasKey {
		t.Errorf("last root item has key %q, want anonymous", last.Key)
	}
	obj, ok := last.Value.(*dom.Object)
	if !ok || obj.Class != "Point" {
		t.Fatalf("last root item = %#v, want *Object{Class: Point}", last.Value)
	}
}

func TestWriteRoundTrips(t *testing.T) {
	doc := &dom.Document{
		Items: []dom.RootItem{
			{Key: "name", HasKey: true, Value: dom.Scalar{Value: thjson.Value{Kind: thjson.KindString, Str: "Widget"}}},
			{Key: "count", HasKey: true, Value: dom.Scalar{Value: thjson.Value{Kind: thjson.KindInt, Int: 3}}},
			{
				HasKey: false,
				Value: &dom.Object{
					Class: "Point",
					Members: []dom.Member{
						{Key: "x", Value: dom.Scalar{Value: thjson.Value{Kind: thjson.KindInt, Int: 1}}},
						{Key: "y", Value: dom.Scalar{Value: thjson.Value{Kind: thjson.KindInt, Int: 2}}},
					},
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := dom.Write(&buf, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := dom.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("re-Parse rendered output: %v\ntext:\n%s", err, buf.String())
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
