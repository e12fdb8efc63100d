// SPDX-License-Identifier: Apache-2.0
package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsKeyword(t *testing.T) {
	for _, kw := range Keywords {
		assert.True(t, IsKeyword(kw), "keyword %q", kw)
	}
	assert.False(t, IsKeyword("mutabilisX"))
	assert.False(t, IsKeyword("Mutabilis"), "Keywords are case sensitive")
	assert.False(t, IsKeyword(""))
}

func TestKindFromName(t *testing.T) {
	assert.Equal(t, NUMBER_LITERAL, KindFromName("NUMBER_LITERAL"))
	assert.Equal(t, EOF, KindFromName("EOF"))
	assert.Equal(t, IDENTIFIER, KindFromName("NO_SUCH_KIND"), "Unknown names default to IDENTIFIER")
}

func TestLiteralTablesHaveNoDuplicates(t *testing.T) {
	all := AllLiterals()
	seen := make(map[string]struct{}, len(all))
	for _, literal := range all {
		_, dup := seen[literal]
		assert.False(t, dup, "duplicate literal %q", literal)
		seen[literal] = struct{}{}
	}
	assert.Len(t, all, len(Operators)+len(Punctuation)+len(Delimiters))
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: IDENTIFIER, Lexeme: "salve", Span: Span{Start: 3, End: 8}}
	assert.Equal(t, `Token(IDENTIFIER "salve" 3:8)`, tok.String())
}
