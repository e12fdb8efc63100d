// SPDX-License-Identifier: Apache-2.0

// Package token defines the lexical vocabulary of Scriptum: token kinds,
// the Token value emitted by the lexer, and the canonical keyword,
// operator, punctuation and delimiter tables shared by the lexer
// generator and the parser.
package token

import "fmt"

type Kind string

const (
	IDENTIFIER     Kind = "IDENTIFIER"
	KEYWORD        Kind = "KEYWORD"
	NUMBER_LITERAL Kind = "NUMBER_LITERAL"
	STRING_LITERAL Kind = "STRING_LITERAL"
	OPERATOR       Kind = "OPERATOR"
	PUNCTUATION    Kind = "PUNCTUATION"
	DELIMITER      Kind = "DELIMITER"
	COMMENT        Kind = "COMMENT"
	WHITESPACE     Kind = "WHITESPACE"
	EOF            Kind = "EOF"
)

// KindFromName maps a serialized kind name back to a Kind, defaulting to
// IDENTIFIER for unknown names so stale tables stay loadable.
func KindFromName(name string) Kind {
	switch Kind(name) {
	case IDENTIFIER, KEYWORD, NUMBER_LITERAL, STRING_LITERAL, OPERATOR,
		PUNCTUATION, DELIMITER, COMMENT, WHITESPACE, EOF:
		return Kind(name)
	}
	return IDENTIFIER
}

// Span is a half-open byte range [Start, End) into the source text.
type Span struct {
	Start int
	End   int
}

// Token is a concrete token produced by the lexer. Value holds the decoded
// literal (int64/float64 for numbers, unescaped string for strings) and is
// nil for every other kind.
type Token struct {
	Kind    Kind
	Lexeme  string
	Span    Span
	Value   any
	Pattern string // name of the rule that matched, e.g. "IDENTIFIER" or "OP_PLUS"
}

func (t Token) String() string {
	return fmt.Sprintf("Token(%s %q %d:%d)", t.Kind, t.Lexeme, t.Span.Start, t.Span.End)
}

// Keywords lists the reserved words of Scriptum. They are never part of the
// generated automaton; the lexer promotes IDENTIFIER matches after the fact.
var Keywords = []string{
	"mutabilis",
	"constans",
	"functio",
	"structura",
	"si",
	"aliter",
	"dum",
	"pro",
	"in",
	"de",
	"redde",
	"frange",
	"perge",
	"verum",
	"falsum",
	"nullum",
	"indefinitum",
	"numerus",
	"textus",
	"booleanum",
	"vacuum",
	"quodlibet",
}

var keywordSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(Keywords))
	for _, kw := range Keywords {
		set[kw] = struct{}{}
	}
	return set
}()

// IsKeyword reports whether lexeme is a reserved Scriptum word.
func IsKeyword(lexeme string) bool {
	_, ok := keywordSet[lexeme]
	return ok
}

// Operators, Punctuation and Delimiters are the fixed literal lexemes of the
// language, in canonical declaration order. The lexer spec generates one
// token pattern per entry, so the order here is significant for tie-breaks.
var Operators = []string{
	"=",
	"?:",
	"??",
	"||",
	"&&",
	"===",
	"!==",
	"==",
	"!=",
	">",
	">=",
	"<",
	"<=",
	"+",
	"-",
	"*",
	"/",
	"%",
	"**",
	"!",
	".",
}

var Punctuation = []string{",", ";", ":", "::", "->", "=>", "?"}

var Delimiters = []string{"{", "}", "[", "]", "(", ")"}

// AllLiterals returns every fixed literal lexeme exactly once, preserving
// the operators-punctuation-delimiters declaration order.
func AllLiterals() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range [][]string{Operators, Punctuation, Delimiters} {
		for _, literal := range group {
			if _, ok := seen[literal]; ok {
				continue
			}
			seen[literal] = struct{}{}
			out = append(out, literal)
		}
	}
	return out
}
