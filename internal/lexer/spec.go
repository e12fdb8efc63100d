// SPDX-License-Identifier: Apache-2.0

// Package lexer contains the Scriptum lexical specification, the table
// build pipeline that compiles it into a minimized DFA, the serialized
// table format, and the table-driven maximal-munch lexer that consumes it.
package lexer

import (
	"fmt"
	"strings"

	"scriptum/token"
)

// Pattern is one token rule of the lexical specification. Declaration order
// is significant: it becomes the Order tie-break in the generated
// automaton.
type Pattern struct {
	Name     string
	Regex    string
	Priority int
	Ignore   bool
	Kind     token.Kind
}

// TokenPatterns returns the full Scriptum specification: the structured
// rules first, then one literal rule per operator, punctuation mark and
// delimiter from the token package, longest literal first within each
// group.
func TokenPatterns() []Pattern {
	patterns := []Pattern{
		{
			Name:     "WHITESPACE",
			Regex:    `[ \t\r\n\f\v]+`,
			Priority: 100,
			Ignore:   true,
			Kind:     token.WHITESPACE,
		},
		{
			Name:     "COMMENT_LINE",
			Regex:    `//[^\r\n]*`,
			Priority: 90,
			Ignore:   true,
			Kind:     token.COMMENT,
		},
		{
			Name:     "COMMENT_BLOCK",
			Regex:    `/\*([^*]|\*+[^*/])*\*+/`,
			Priority: 90,
			Ignore:   true,
			Kind:     token.COMMENT,
		},
		{
			Name:     "NUMBER_LITERAL",
			Regex:    `(0|[1-9][0-9_]*)(\.[0-9_]+)?([eE][+\-]?[0-9_]+)?`,
			Priority: 70,
			Kind:     token.NUMBER_LITERAL,
		},
		{
			Name:     "STRING_LITERAL",
			Regex:    `"([^"\\\n]|\\.)*"`,
			Priority: 70,
			Kind:     token.STRING_LITERAL,
		},
		{
			Name:     "IDENTIFIER",
			Regex:    `[A-Za-z_][A-Za-z0-9_$]*`,
			Priority: 60,
			Kind:     token.IDENTIFIER,
		},
	}

	patterns = append(patterns, literalPatterns("OP", token.Operators, token.OPERATOR, 50)...)
	patterns = append(patterns, literalPatterns("PUNC", token.Punctuation, token.PUNCTUATION, 40)...)
	patterns = append(patterns, literalPatterns("DELIM", token.Delimiters, token.DELIMITER, 40)...)
	return patterns
}

// literalPatterns generates one rule per fixed lexeme, sorted longest
// first so multi-character literals keep a stable place ahead of their
// prefixes, then by original declaration order.
func literalPatterns(prefix string, literals []string, kind token.Kind, priority int) []Pattern {
	sorted := make([]string, len(literals))
	copy(sorted, literals)
	declared := make(map[string]int, len(literals))
	for i, literal := range literals {
		declared[literal] = i
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0; j-- {
			a, b := sorted[j-1], sorted[j]
			if len(b) > len(a) || (len(b) == len(a) && declared[b] < declared[a]) {
				sorted[j-1], sorted[j] = b, a
			} else {
				break
			}
		}
	}
	patterns := make([]Pattern, 0, len(sorted))
	for _, literal := range sorted {
		patterns = append(patterns, Pattern{
			Name:     LiteralName(prefix, literal),
			Regex:    LiteralRegex(literal),
			Priority: priority,
			Kind:     kind,
		})
	}
	return patterns
}

// LiteralRegex escapes a fixed lexeme so it matches itself.
func LiteralRegex(literal string) string {
	var sb strings.Builder
	for _, ch := range literal {
		switch ch {
		case '\\', '.', '+', '*', '?', '(', ')', '[', ']', '{', '}', '|', '^', '$', '-':
			sb.WriteByte('\\')
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

var literalNames = map[rune]string{
	'!': "BANG", '"': "DQUOTE", '$': "DOLLAR", '%': "PERCENT", '&': "AMP",
	'\'': "SQUOTE", '(': "LPAREN", ')': "RPAREN", '*': "STAR", '+': "PLUS",
	',': "COMMA", '-': "MINUS", '.': "DOT", '/': "SLASH", ':': "COLON",
	';': "SEMI", '<': "LT", '=': "EQ", '>': "GT", '?': "QMARK",
	'[': "LBRACKET", ']': "RBRACKET", '{': "LBRACE", '|': "BAR", '}': "RBRACE",
}

// LiteralName produces a stable rule name for a literal lexeme, e.g.
// LiteralName("OP", "==") == "OP_EQ_EQ".
func LiteralName(prefix, literal string) string {
	parts := make([]string, 0, len(literal))
	for _, ch := range literal {
		if name, ok := literalNames[ch]; ok {
			parts = append(parts, name)
		} else {
			parts = append(parts, fmt.Sprintf("U%04X", ch))
		}
	}
	return prefix + "_" + strings.Join(parts, "_")
}
