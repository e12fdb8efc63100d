// SPDX-License-Identifier: Apache-2.0
package automata

import "fmt"

// Limits caps resource usage during automaton construction. Pathological
// pattern sets (deeply nested bounded repetition, huge alphabets) must fail
// fast instead of exhausting memory.
type Limits struct {
	// MaxStates bounds the number of NFA or DFA states created per build.
	MaxStates int
}

// DefaultMaxStates is generous for realistic token specifications; the
// full Scriptum spec stays under ten thousand NFA states.
const DefaultMaxStates = 200_000

func (l Limits) withDefaults() Limits {
	if l.MaxStates <= 0 {
		l.MaxStates = DefaultMaxStates
	}
	return l
}

// LimitError reports that construction exceeded a configured ceiling.
type LimitError struct {
	Limit string
	Max   int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("automaton construction exceeded %s limit (%d)", e.Limit, e.Max)
}
