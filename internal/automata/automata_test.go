// SPDX-License-Identifier: Apache-2.0
package automata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptum/internal/regex"
)

func addPattern(t *testing.T, b *Builder, pattern string, info AcceptInfo) {
	t.Helper()
	node, err := regex.Parse(pattern)
	require.NoError(t, err, "pattern %q", pattern)
	require.NoError(t, b.AddPattern(node, info), "pattern %q", pattern)
}

func buildDFA(t *testing.T, patterns ...string) *DFA {
	t.Helper()
	b := NewBuilder(0, Limits{})
	for i, pattern := range patterns {
		addPattern(t, b, pattern, AcceptInfo{
			Index:    i,
			Name:     pattern,
			Kind:     "TOKEN",
			Priority: 10,
			Order:    i,
		})
	}
	dfa, err := Determinize(b.NFA(), Limits{})
	require.NoError(t, err)
	return dfa
}

func TestEpsilonClosureIsSortedAndComplete(t *testing.T) {
	b := NewBuilder(0, Limits{})
	addPattern(t, b, "a*", AcceptInfo{Name: "A"})
	nfa := b.NFA()

	closure := nfa.EpsilonClosure([]int{nfa.Start})
	require.NotEmpty(t, closure)
	for i := 1; i < len(closure); i++ {
		assert.Less(t, closure[i-1], closure[i], "Closure should be strictly sorted")
	}
	// The star's skip path makes an accept state reachable without input.
	found := false
	for _, state := range closure {
		if _, ok := nfa.Accepting[state]; ok {
			found = true
		}
	}
	assert.True(t, found, "a* should accept the empty string from the start closure")
}

func TestDeterminizeMatchesSimpleLanguage(t *testing.T) {
	dfa := buildDFA(t, "ab|ac")

	assert.NotNil(t, dfa.Accepts("ab"))
	assert.NotNil(t, dfa.Accepts("ac"))
	assert.Nil(t, dfa.Accepts("a"))
	assert.Nil(t, dfa.Accepts("abc"))
	assert.Nil(t, dfa.Accepts(""))
}

func TestDeterminizeIsDeterministic(t *testing.T) {
	build := func() *DFA {
		return buildDFA(t, "[a-z]+", "[0-9]+", "if|else|while")
	}
	first := build()
	second := build()
	assert.Equal(t, first, second, "Identical inputs should produce identical automata")
}

func TestAcceptSelectionPrefersPriorityThenOrder(t *testing.T) {
	b := NewBuilder(0, Limits{})
	addPattern(t, b, "abc", AcceptInfo{Index: 0, Name: "LOW", Priority: 10, Order: 0})
	addPattern(t, b, "abc", AcceptInfo{Index: 1, Name: "HIGH", Priority: 90, Order: 1})
	dfa, err := Determinize(b.NFA(), Limits{})
	require.NoError(t, err)

	accept := dfa.Accepts("abc")
	require.NotNil(t, accept)
	assert.Equal(t, "HIGH", accept.Name, "Higher priority should win")

	b = NewBuilder(0, Limits{})
	addPattern(t, b, "abc", AcceptInfo{Index: 0, Name: "FIRST", Priority: 50, Order: 0})
	addPattern(t, b, "abc", AcceptInfo{Index: 1, Name: "SECOND", Priority: 50, Order: 1})
	dfa, err = Determinize(b.NFA(), Limits{})
	require.NoError(t, err)

	accept = dfa.Accepts("abc")
	require.NotNil(t, accept)
	assert.Equal(t, "FIRST", accept.Name, "Equal priority should fall back to declaration order")
}

func TestMakeTotalAddsSelfLoopingSink(t *testing.T) {
	dfa := buildDFA(t, "ab")
	dfa.MakeTotal()

	require.GreaterOrEqual(t, dfa.Sink, 0, "A partial automaton should gain a sink")
	alphabet := dfa.Alphabet()
	for id, state := range dfa.States {
		for _, symbol := range alphabet {
			_, ok := state.Transitions[symbol]
			assert.True(t, ok, "State %d should be total over symbol %d", id, symbol)
		}
	}
	for _, symbol := range alphabet {
		assert.Equal(t, dfa.Sink, dfa.States[dfa.Sink].Transitions[symbol], "Sink must self-loop")
	}
	assert.Nil(t, dfa.States[dfa.Sink].Accept, "Sink must not accept")
}

func TestMakeTotalOnTotalDFAAddsNothing(t *testing.T) {
	dfa := buildDFA(t, "ab")
	dfa.MakeTotal()
	states := len(dfa.States)
	sink := dfa.Sink

	dfa.MakeTotal()
	assert.Equal(t, states, len(dfa.States), "Second totalization should be a no-op")
	assert.Equal(t, sink, dfa.Sink)
}

func TestMinimizePreservesLanguage(t *testing.T) {
	dfa := buildDFA(t, "(a|b)*abb", "[0-9]+")
	dfa.MakeTotal()
	minimized := dfa.Minimize()

	inputs := []string{
		"", "a", "b", "ab", "abb", "aabb", "babb", "ababb",
		"abba", "bb", "0", "42", "007", "4a", "abb0",
	}
	for _, input := range inputs {
		want := dfa.Accepts(input)
		got := minimized.Accepts(input)
		if want == nil {
			assert.Nil(t, got, "input %q", input)
		} else {
			require.NotNil(t, got, "input %q", input)
			assert.Equal(t, want.Name, got.Name, "input %q", input)
		}
	}
}

func TestMinimizeMergesEquivalentStates(t *testing.T) {
	// a|b determinizes into two distinct accept states with the same
	// payload; minimization must merge them.
	dfa := buildDFA(t, "a|b")
	dfa.MakeTotal()
	minimized := dfa.Minimize()

	assert.Len(t, minimized.States, 3, "Expected start, accept, sink")
	assert.LessOrEqual(t, len(minimized.States), len(dfa.States))
}

func TestMinimizeKeepsDistinctTokensApart(t *testing.T) {
	b := NewBuilder(0, Limits{})
	addPattern(t, b, "a", AcceptInfo{Index: 0, Name: "A", Priority: 10, Order: 0})
	addPattern(t, b, "b", AcceptInfo{Index: 1, Name: "B", Priority: 10, Order: 1})
	dfa, err := Determinize(b.NFA(), Limits{})
	require.NoError(t, err)
	dfa.MakeTotal()
	minimized := dfa.Minimize()

	acceptA := minimized.Accepts("a")
	acceptB := minimized.Accepts("b")
	require.NotNil(t, acceptA)
	require.NotNil(t, acceptB)
	assert.Equal(t, "A", acceptA.Name)
	assert.Equal(t, "B", acceptB.Name)
}

func TestMinimizeIsDeterministic(t *testing.T) {
	build := func() *DFA {
		dfa := buildDFA(t, "[a-z][a-z0-9]*", "[0-9]+", "while|if")
		dfa.MakeTotal()
		return dfa.Minimize()
	}
	assert.Equal(t, build(), build(), "Repeated minimization should renumber identically")
}

func TestBuilderStateLimit(t *testing.T) {
	b := NewBuilder(0, Limits{MaxStates: 5})
	node, err := regex.Parse("[a-z]{50}")
	require.NoError(t, err)

	err = b.AddPattern(node, AcceptInfo{Name: "BIG"})
	require.Error(t, err)

	var limitErr *LimitError
	assert.ErrorAs(t, err, &limitErr)
	assert.Equal(t, 5, limitErr.Max)
}

func TestDeterminizeStateLimit(t *testing.T) {
	b := NewBuilder(0, Limits{})
	// Classic exponential blowup: (a|b)*a(a|b){6} needs 2^6 subsets.
	addPattern(t, b, "(a|b)*a(a|b){6}", AcceptInfo{Name: "BLOWUP"})

	_, err := Determinize(b.NFA(), Limits{MaxStates: 10})
	require.Error(t, err)

	var limitErr *LimitError
	assert.ErrorAs(t, err, &limitErr)
}

func TestAlphabetBoundDropsWideSymbols(t *testing.T) {
	b := NewBuilder(0, Limits{})
	node, err := regex.Parse("π")
	require.NoError(t, err)
	require.NoError(t, b.AddPattern(node, AcceptInfo{Name: "PI"}))

	assert.Empty(t, b.NFA().Alphabet(), "Symbols beyond the alphabet bound are dropped")
}

func TestDOTOutput(t *testing.T) {
	dfa := buildDFA(t, "ab")
	dfa.MakeTotal()
	out := DOT(dfa.Minimize())

	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "doublecircle")
	assert.Contains(t, out, "->")
}
