// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"fmt"

	"scriptum/internal/automata"
	"scriptum/internal/regex"
)

// BuildStats records how the automaton shrank along the pipeline.
type BuildStats struct {
	Patterns        int
	NFAStates       int
	DFAStates       int
	MinimizedStates int
}

// BuildError wraps a construction failure with the pattern that caused it.
type BuildError struct {
	Pattern string
	Err     error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("pattern %s: %v", e.Pattern, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// BuildTable compiles an ordered pattern list into a serialized lexer
// table: regex parse, Thompson construction into one shared NFA, subset
// construction, totalization, Hopcroft minimization, then deterministic
// flattening. Pattern position doubles as both Index and Order.
func BuildTable(patterns []Pattern, limits automata.Limits) (*Table, *BuildStats, error) {
	builder := automata.NewBuilder(automata.DefaultAlphabetSize, limits)
	for i, pattern := range patterns {
		node, err := regex.Parse(pattern.Regex)
		if err != nil {
			return nil, nil, &BuildError{Pattern: pattern.Name, Err: err}
		}
		info := automata.AcceptInfo{
			Index:    i,
			Name:     pattern.Name,
			Kind:     string(pattern.Kind),
			Priority: pattern.Priority,
			Ignore:   pattern.Ignore,
			Order:    i,
		}
		if err := builder.AddPattern(node, info); err != nil {
			return nil, nil, &BuildError{Pattern: pattern.Name, Err: err}
		}
	}

	nfa := builder.NFA()
	dfa, err := automata.Determinize(nfa, limits)
	if err != nil {
		return nil, nil, err
	}
	dfaStates := len(dfa.States)
	dfa.MakeTotal()
	minimized := dfa.Minimize()

	stats := &BuildStats{
		Patterns:        len(patterns),
		NFAStates:       nfa.StateCount(),
		DFAStates:       dfaStates,
		MinimizedStates: len(minimized.States),
	}
	return Serialize(minimized), stats, nil
}

// BuildDFA runs the same pipeline but stops before serialization. Used by
// the diagram tooling.
func BuildDFA(patterns []Pattern, limits automata.Limits) (*automata.DFA, error) {
	builder := automata.NewBuilder(automata.DefaultAlphabetSize, limits)
	for i, pattern := range patterns {
		node, err := regex.Parse(pattern.Regex)
		if err != nil {
			return nil, &BuildError{Pattern: pattern.Name, Err: err}
		}
		info := automata.AcceptInfo{
			Index:    i,
			Name:     pattern.Name,
			Kind:     string(pattern.Kind),
			Priority: pattern.Priority,
			Ignore:   pattern.Ignore,
			Order:    i,
		}
		if err := builder.AddPattern(node, info); err != nil {
			return nil, &BuildError{Pattern: pattern.Name, Err: err}
		}
	}
	dfa, err := automata.Determinize(builder.NFA(), limits)
	if err != nil {
		return nil, err
	}
	dfa.MakeTotal()
	return dfa.Minimize(), nil
}
