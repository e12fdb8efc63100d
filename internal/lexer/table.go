// SPDX-License-Identifier: Apache-2.0
package lexer

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"scriptum/internal/automata"
	"scriptum/token"
)

// Table is the durable lexer artifact: a flattened DFA plus per-final-state
// pattern metadata. The JSON encoding is deterministic (sorted map keys,
// stable state numbering), so rebuilding from identical input produces
// byte-identical output.
type Table struct {
	Alphabet           []string                  `json:"alphabet"`
	States             []int                     `json:"states"`
	Start              int                       `json:"start"`
	Finals             []int                     `json:"finals"`
	FinalTokenLabels   map[string]string         `json:"final_token_labels"`
	FinalTokenPriority map[string]int            `json:"final_token_priority"`
	FinalTokenIgnore   map[string]bool           `json:"final_token_ignore"`
	FinalTokenKind     map[string]string         `json:"final_token_kind"`
	FinalTokenIndex    map[string]int            `json:"final_token_index"`
	Trans              map[string]map[string]int `json:"trans"`
}

// TableError reports a missing, unreadable or structurally inconsistent
// table. The lexer refuses to start on a bad table rather than fall back
// to a partial one.
type TableError struct {
	Msg string
}

func (e *TableError) Error() string {
	return "lexer table: " + e.Msg
}

// EncodeSymbol renders a symbol code the way the table stores it: the
// character itself when printable (or one of space, tab, newline), else a
// two-digit lowercase \xHH escape.
func EncodeSymbol(symbol int) string {
	ch := rune(symbol)
	if (ch >= ' ' && ch < 0x7f) || ch == '\n' || ch == '\t' {
		return string(ch)
	}
	return fmt.Sprintf("\\x%02x", symbol)
}

// DecodeSymbol is the inverse of EncodeSymbol.
func DecodeSymbol(encoded string) (int, error) {
	if len(encoded) == 4 && encoded[0] == '\\' && encoded[1] == 'x' {
		value, err := strconv.ParseInt(encoded[2:], 16, 32)
		if err != nil {
			return 0, &TableError{Msg: fmt.Sprintf("invalid symbol escape %q", encoded)}
		}
		return int(value), nil
	}
	runes := []rune(encoded)
	if len(runes) != 1 {
		return 0, &TableError{Msg: fmt.Sprintf("invalid symbol %q", encoded)}
	}
	return int(runes[0]), nil
}

// Serialize flattens a minimized DFA into a Table. States are renumbered by
// BFS from the start, visiting transition targets in sorted-symbol order;
// unreachable states (defensive, should not survive minimization) are
// appended in original order.
func Serialize(dfa *automata.DFA) *Table {
	renumber := make([]int, len(dfa.States))
	for i := range renumber {
		renumber[i] = -1
	}
	var visitOrder []int
	queue := []int{dfa.Start}
	renumber[dfa.Start] = 0
	visitOrder = append(visitOrder, dfa.Start)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		symbols := sortedSymbols(dfa.States[current].Transitions)
		for _, symbol := range symbols {
			target := dfa.States[current].Transitions[symbol]
			if renumber[target] != -1 {
				continue
			}
			renumber[target] = len(visitOrder)
			visitOrder = append(visitOrder, target)
			queue = append(queue, target)
		}
	}
	for original := range dfa.States {
		if renumber[original] == -1 {
			renumber[original] = len(visitOrder)
			visitOrder = append(visitOrder, original)
		}
	}

	table := &Table{
		Start:              renumber[dfa.Start],
		FinalTokenLabels:   make(map[string]string),
		FinalTokenPriority: make(map[string]int),
		FinalTokenIgnore:   make(map[string]bool),
		FinalTokenKind:     make(map[string]string),
		FinalTokenIndex:    make(map[string]int),
		Trans:              make(map[string]map[string]int),
	}
	for _, symbol := range dfa.Alphabet() {
		table.Alphabet = append(table.Alphabet, EncodeSymbol(symbol))
	}

	for newID, original := range visitOrder {
		table.States = append(table.States, newID)
		state := dfa.States[original]
		key := strconv.Itoa(newID)

		if len(state.Transitions) > 0 {
			row := make(map[string]int, len(state.Transitions))
			for symbol, target := range state.Transitions {
				row[EncodeSymbol(symbol)] = renumber[target]
			}
			table.Trans[key] = row
		}

		if state.Accept == nil {
			continue
		}
		table.Finals = append(table.Finals, newID)
		table.FinalTokenLabels[key] = state.Accept.Name
		table.FinalTokenPriority[key] = state.Accept.Priority
		table.FinalTokenIgnore[key] = state.Accept.Ignore
		table.FinalTokenKind[key] = state.Accept.Kind
		table.FinalTokenIndex[key] = state.Accept.Index
	}
	return table
}

func sortedSymbols(transitions map[int]int) []int {
	symbols := make([]int, 0, len(transitions))
	for symbol := range transitions {
		symbols = append(symbols, symbol)
	}
	sort.Ints(symbols)
	return symbols
}

// Marshal renders the table as indented JSON with a trailing newline.
func (t *Table) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// ParseTable decodes and validates a serialized table.
func ParseTable(data []byte) (*Table, error) {
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, &TableError{Msg: "malformed JSON: " + err.Error()}
	}
	if err := table.validate(); err != nil {
		return nil, err
	}
	return &table, nil
}

func (t *Table) validate() error {
	known := make(map[int]struct{}, len(t.States))
	for _, state := range t.States {
		known[state] = struct{}{}
	}
	if _, ok := known[t.Start]; !ok {
		return &TableError{Msg: fmt.Sprintf("start state %d not in states", t.Start)}
	}
	for _, final := range t.Finals {
		if _, ok := known[final]; !ok {
			return &TableError{Msg: fmt.Sprintf("final state %d not in states", final)}
		}
	}
	for stateKey, row := range t.Trans {
		source, err := strconv.Atoi(stateKey)
		if err != nil {
			return &TableError{Msg: fmt.Sprintf("invalid state key %q", stateKey)}
		}
		if _, ok := known[source]; !ok {
			return &TableError{Msg: fmt.Sprintf("transition source %d not in states", source)}
		}
		for symbol, target := range row {
			if _, ok := known[target]; !ok {
				return &TableError{Msg: fmt.Sprintf("transition %d --%s--> %d targets unknown state", source, symbol, target)}
			}
			if _, err := DecodeSymbol(symbol); err != nil {
				return err
			}
		}
	}
	return nil
}

// acceptEntry is the compiled accepting payload of a runtime state.
type acceptEntry struct {
	Index    int
	Name     string
	Kind     token.Kind
	Priority int
	Ignore   bool
}

type runtimeState struct {
	transitions map[int]int
	accept      *acceptEntry
	sink        bool
}

// Runtime is a table compiled into the dense form the scanning loop walks.
// It is immutable after Compile and safe for concurrent readers.
type Runtime struct {
	start  int
	states []runtimeState
}

// Compile turns a validated table into its runtime form. States are assumed
// dense (0..len-1) per the serializer's renumbering; sparse ids are mapped
// through their position in the states list.
func (t *Table) Compile() (*Runtime, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	index := make(map[int]int, len(t.States))
	for position, state := range t.States {
		index[state] = position
	}

	rt := &Runtime{states: make([]runtimeState, len(t.States))}
	rt.start = index[t.Start]

	for position, state := range t.States {
		key := strconv.Itoa(state)
		transitions := make(map[int]int)
		for encoded, target := range t.Trans[key] {
			symbol, err := DecodeSymbol(encoded)
			if err != nil {
				return nil, err
			}
			transitions[symbol] = index[target]
		}
		rt.states[position] = runtimeState{transitions: transitions}
	}

	for _, final := range t.Finals {
		key := strconv.Itoa(final)
		rt.states[index[final]].accept = &acceptEntry{
			Index:    t.FinalTokenIndex[key],
			Name:     t.FinalTokenLabels[key],
			Kind:     token.KindFromName(t.FinalTokenKind[key]),
			Priority: t.FinalTokenPriority[key],
			Ignore:   t.FinalTokenIgnore[key],
		}
	}

	// Mark sink states so the scan loop can stop early: non-accepting with
	// every transition a self-loop.
	for position := range rt.states {
		state := &rt.states[position]
		if state.accept != nil || len(state.transitions) == 0 {
			continue
		}
		sink := true
		for _, target := range state.transitions {
			if target != position {
				sink = false
				break
			}
		}
		state.sink = sink
	}
	return rt, nil
}
