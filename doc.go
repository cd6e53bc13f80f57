// Package thjson implements a streaming scanner and parser for Tagged
// Human JSON, a human-authored superset of JSON that adds class tags,
// binary literals, and directive/function-call syntax.
//
// # Scanning
//
// The Scanner type implements a lexical scanner for THJSON. Construct a
// scanner from an io.Reader and call Next to iterate over the token
// stream:
//
//	s := thjson.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("token: %v", s.Token())
//	}
//
// Next returns io.EOF once the end-of-input token has been consumed. Any
// other error indicates an I/O or lexical error in the input.
//
// # Streaming
//
// The Stream type implements an event-driven parser: it drives a Scanner
// and reports document structure by calling methods on a Handler. Stream
// tracks container nesting on an explicit stack rather than through Go
// call recursion, so arbitrarily deep THJSON input cannot overflow the
// host stack.
//
//	s := thjson.NewStream(thjson.NewScanner(input), handler)
//	if err := s.Parse(); err != nil {
//	   log.Fatalf("parse failed: %v", err)
//	}
//
// # Handlers
//
// The Handler interface accepts parser events from a Stream. Its methods
// correspond to THJSON's data model:
//
//	construct        | Methods                                | Description
//	---------------- | -------------------------------------- | -----------------------------
//	class-tagged map | BeginObject/BeginObjectValue, EndObject | (Class) { ... }
//	untagged map     | BeginMap/BeginMapValue, EndMap          | { ... }
//	class-tagged list| BeginList/BeginListValue, EndList       | (Class) [ ... ]
//	untagged list    | BeginArray/BeginArrayValue, EndArray    | [ ... ]
//	primitive        | Property/Value, NullProperty/NullValue  | key: value, or a list element
//	comment          | Comment                                 | // and /* */
//	directive        | Directive                                | a '#'/'@' token at root position
//	function call    | Function                                 | a '#'/'@' token in value position
//
// BaseHandler supplies no-op defaults for every method except Function, so
// an adapter can embed it and implement only the events it cares about.
//
// # Writing
//
// The Writer type is Handler's dual: it exposes the same event vocabulary
// as methods that emit THJSON text, choosing bareword, quoted, or
// triple-quoted rendering for strings and keys the way a human author
// would.
package thjson
