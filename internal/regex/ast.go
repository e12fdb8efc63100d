// SPDX-License-Identifier: Apache-2.0

// Package regex parses the regular expression dialect used by the Scriptum
// lexer specification into a small AST consumed by the NFA builder.
package regex

type NodeType int

const (
	EMPTY NodeType = iota
	LITERAL
	ANY_CHAR
	CHAR_CLASS
	SEQUENCE
	ALTERNATION
	REPEAT
)

// Node is the closed set of regex AST variants. Trees are immutable once
// built and may be shared freely between builds.
type Node interface {
	NodeType() NodeType
}

// Empty matches the empty string.
type Empty struct{}

// Literal matches a single codepoint.
type Literal struct {
	Value rune
}

// AnyChar matches any alphabet symbol except newline.
type AnyChar struct{}

// Range is an inclusive codepoint range.
type Range struct {
	Lo rune
	Hi rune
}

// CharClass matches one codepoint from (or outside, when Negated) the union
// of its ranges.
type CharClass struct {
	Ranges  []Range
	Negated bool
}

// Sequence matches its children in order.
type Sequence struct {
	Children []Node
}

// Alternation matches any one of its options.
type Alternation struct {
	Options []Node
}

// Repeat matches Child between Min and Max times. Max < 0 means unbounded.
type Repeat struct {
	Child Node
	Min   int
	Max   int
}

// Unbounded is the Repeat.Max value for open-ended repetition.
const Unbounded = -1

func (*Empty) NodeType() NodeType       { return EMPTY }
func (*Literal) NodeType() NodeType     { return LITERAL }
func (*AnyChar) NodeType() NodeType     { return ANY_CHAR }
func (*CharClass) NodeType() NodeType   { return CHAR_CLASS }
func (*Sequence) NodeType() NodeType    { return SEQUENCE }
func (*Alternation) NodeType() NodeType { return ALTERNATION }
func (*Repeat) NodeType() NodeType      { return REPEAT }

// Singleton returns a CharClass matching exactly r.
func Singleton(r rune) *CharClass {
	return &CharClass{Ranges: []Range{{Lo: r, Hi: r}}}
}
