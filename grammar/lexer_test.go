// SPDX-License-Identifier: Apache-2.0
package grammar

import (
	"testing"

	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, source string) []plexer.Token {
	t.Helper()
	lex, err := ScriptumLexer.LexString("test.scr", source)
	require.NoError(t, err)

	var out []plexer.Token
	for {
		tok, err := lex.Next()
		require.NoError(t, err)
		if tok.EOF() {
			return out
		}
		out = append(out, tok)
	}
}

func TestLexDeclaration(t *testing.T) {
	tokens := lexAll(t, `mutabilis x = 42;`)

	values := make([]string, len(tokens))
	for i, tok := range tokens {
		values[i] = tok.Value
	}
	assert.Equal(t, []string{"mutabilis", " ", "x", " ", "=", " ", "42", ";"}, values)
}

func TestWidePunctuationBeatsOperatorPrefixes(t *testing.T) {
	names := make(map[plexer.TokenType]string)
	for name, typ := range ScriptumLexer.Symbols() {
		names[typ] = name
	}

	tokens := lexAll(t, "->=>::")
	require.Len(t, tokens, 3)
	for i, want := range []string{"->", "=>", "::"} {
		assert.Equal(t, want, tokens[i].Value)
		assert.Equal(t, "PunctWide", names[tokens[i].Type], "token %d", i)
	}
}

func TestTokenNamesCoverEveryRule(t *testing.T) {
	for name := range ScriptumLexer.Symbols() {
		if name == "EOF" {
			continue
		}
		assert.Contains(t, TokenNames, name, "rule %q", name)
	}
}
