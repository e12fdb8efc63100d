// SPDX-License-Identifier: Apache-2.0

// Package grammar carries a participle-based lexer definition for Scriptum.
// Editor tooling uses it for quick highlighting, and the lexer tests use it
// as an independent reference to cross-check the generated DFA tables.
package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var ScriptumLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{Name: "Whitespace", Pattern: `[ \t\r\n\f\v]+`},
		{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
		{Name: "Comment", Pattern: `//[^\r\n]*`},

		{Name: "String", Pattern: `"([^"\\\n]|\\.)*"`},
		{Name: "Number", Pattern: `(0|[1-9][0-9_]*)(\.[0-9_]+)?([eE][+-]?[0-9_]+)?`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_$]*`},

		// participle picks the first rule that matches, so the two-character
		// punctuation must be tried before the single-character operators
		// that share their prefixes ('-' of '->', '=' of '=>').
		{Name: "PunctWide", Pattern: `::|->|=>`},
		{Name: "Operator", Pattern: `===|!==|\?:|\?\?|\|\||&&|==|!=|>=|<=|\*\*|[=><+\-*/%!.]`},
		{Name: "Punctuation", Pattern: `[,;:?]`},
		{Name: "Delimiter", Pattern: `[{}\[\]()]`},
	},
})

// TokenNames maps participle token names to the DFA table's kind labels.
var TokenNames = map[string]string{
	"Whitespace":   "WHITESPACE",
	"BlockComment": "COMMENT",
	"Comment":      "COMMENT",
	"String":       "STRING_LITERAL",
	"Number":       "NUMBER_LITERAL",
	"Ident":        "IDENTIFIER",
	"Operator":     "OPERATOR",
	"PunctWide":    "PUNCTUATION",
	"Punctuation":  "PUNCTUATION",
	"Delimiter":    "DELIMITER",
}
