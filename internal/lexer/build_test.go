// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptum/internal/automata"
	"scriptum/internal/regex"
	"scriptum/token"
)

func TestBuildTableStats(t *testing.T) {
	patterns := TokenPatterns()
	table, stats, err := BuildTable(patterns, automata.Limits{})
	require.NoError(t, err)

	assert.Equal(t, len(patterns), stats.Patterns)
	assert.Greater(t, stats.NFAStates, stats.DFAStates, "Subset construction collapses epsilon structure for this spec")
	assert.GreaterOrEqual(t, stats.DFAStates, stats.MinimizedStates)
	assert.Equal(t, stats.MinimizedStates, len(table.States))
}

func TestBuildTableRejectsBadPattern(t *testing.T) {
	patterns := []Pattern{
		{Name: "GOOD", Regex: "[a-z]+", Priority: 10, Kind: token.IDENTIFIER},
		{Name: "BAD", Regex: "(unclosed", Priority: 10, Kind: token.IDENTIFIER},
	}
	_, _, err := BuildTable(patterns, automata.Limits{})
	require.Error(t, err)

	var buildErr *BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.Equal(t, "BAD", buildErr.Pattern, "The failing rule is named")

	var syntaxErr *regex.SyntaxError
	assert.ErrorAs(t, err, &syntaxErr, "The regex error is preserved through Unwrap")
}

func TestBuildTableHonorsStateLimit(t *testing.T) {
	_, _, err := BuildTable(TokenPatterns(), automata.Limits{MaxStates: 3})
	require.Error(t, err)

	var limitErr *automata.LimitError
	assert.ErrorAs(t, err, &limitErr)
}

func TestBuildDFAForDiagram(t *testing.T) {
	dfa, err := BuildDFA(TokenPatterns(), automata.Limits{})
	require.NoError(t, err)

	assert.NotNil(t, dfa.Accepts("mutabilis"))
	assert.NotNil(t, dfa.Accepts("123"))
	assert.Nil(t, dfa.Accepts("@"))
}

func TestLiteralRegexEscaping(t *testing.T) {
	cases := map[string]string{
		"+":   `\+`,
		"**":  `\*\*`,
		"?:":  `\?:`,
		"->":  `\->`,
		"(":   `\(`,
		"===": "===",
	}
	for literal, want := range cases {
		assert.Equal(t, want, LiteralRegex(literal), "literal %q", literal)
	}
}

func TestLiteralNames(t *testing.T) {
	assert.Equal(t, "OP_EQ_EQ", LiteralName("OP", "=="))
	assert.Equal(t, "PUNC_COLON_COLON", LiteralName("PUNC", "::"))
	assert.Equal(t, "DELIM_LBRACE", LiteralName("DELIM", "{"))
	assert.Equal(t, "OP_QMARK_COLON", LiteralName("OP", "?:"))
}

func TestTokenPatternsOrdering(t *testing.T) {
	patterns := TokenPatterns()

	byName := make(map[string]int)
	for i, p := range patterns {
		byName[p.Name] = i
	}

	// Structured rules precede every literal rule.
	assert.Less(t, byName["WHITESPACE"], byName["OP_EQ"])
	assert.Less(t, byName["IDENTIFIER"], byName["OP_EQ"])

	// Within a literal group, longer lexemes come first.
	assert.Less(t, byName["OP_EQ_EQ_EQ"], byName["OP_EQ_EQ"])
	assert.Less(t, byName["OP_EQ_EQ"], byName["OP_EQ"])

	// Names are unique.
	assert.Equal(t, len(patterns), len(byName))
}
