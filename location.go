package thjson

import "fmt"

// A LineCol describes the line number and column offset of a location in
// source text. Both are 1-based, matching the Byte Source contract in
// spec.md 4.1.
type LineCol struct {
	Line int // line number, 1-based
	Col  int // column number, 1-based
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Col) }
