// SPDX-License-Identifier: Apache-2.0
package automata

import (
	"sort"
	"strconv"
	"strings"
)

// DFAState has at most one transition per symbol and an optional accepting
// payload chosen by the accept-selection rule during determinization.
type DFAState struct {
	Transitions map[int]int
	Accept      *AcceptInfo
}

// DFA is a deterministic automaton over dense state indices. After
// MakeTotal every state has a transition for every alphabet symbol.
type DFA struct {
	States []DFAState
	Start  int
	// Sink is the index of the non-accepting trap state added by
	// MakeTotal, or -1 when the transition function is still partial.
	Sink int
}

// Alphabet returns every symbol used by some transition, sorted.
func (d *DFA) Alphabet() []int {
	seen := make(map[int]struct{})
	for _, state := range d.States {
		for symbol := range state.Transitions {
			seen[symbol] = struct{}{}
		}
	}
	symbols := make([]int, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Ints(symbols)
	return symbols
}

// Determinize converts the NFA into an equivalent DFA via epsilon-closure
// subset construction. Subsets are discovered in BFS order with sorted
// symbol iteration, so identical inputs yield identical state numbering.
// Each DFA state's accepting payload is the best AcceptInfo among the NFA
// accept states in its subset: highest priority, then earliest order.
func Determinize(nfa *NFA, limits Limits) (*DFA, error) {
	limits = limits.withDefaults()

	startClosure := nfa.EpsilonClosure([]int{nfa.Start})
	dfa := &DFA{Start: 0, Sink: -1}
	dfa.States = append(dfa.States, DFAState{
		Transitions: make(map[int]int),
		Accept:      selectAccepting(nfa, startClosure),
	})

	subsetIDs := map[string]int{subsetKey(startClosure): 0}
	worklist := [][]int{startClosure}
	workIDs := []int{0}

	for len(worklist) > 0 {
		subset := worklist[0]
		current := workIDs[0]
		worklist = worklist[1:]
		workIDs = workIDs[1:]

		// Union of member transitions, per symbol.
		moves := make(map[int][]int)
		for _, stateID := range subset {
			for symbol, targets := range nfa.states[stateID].transitions {
				moves[symbol] = append(moves[symbol], targets...)
			}
		}
		symbols := make([]int, 0, len(moves))
		for symbol := range moves {
			symbols = append(symbols, symbol)
		}
		sort.Ints(symbols)

		for _, symbol := range symbols {
			closure := nfa.EpsilonClosure(moves[symbol])
			if len(closure) == 0 {
				continue
			}
			key := subsetKey(closure)
			target, ok := subsetIDs[key]
			if !ok {
				if len(dfa.States) >= limits.MaxStates {
					return nil, &LimitError{Limit: "states", Max: limits.MaxStates}
				}
				target = len(dfa.States)
				subsetIDs[key] = target
				dfa.States = append(dfa.States, DFAState{
					Transitions: make(map[int]int),
					Accept:      selectAccepting(nfa, closure),
				})
				worklist = append(worklist, closure)
				workIDs = append(workIDs, target)
			}
			dfa.States[current].Transitions[symbol] = target
		}
	}
	return dfa, nil
}

func selectAccepting(nfa *NFA, subset []int) *AcceptInfo {
	var best *AcceptInfo
	for _, stateID := range subset {
		info, ok := nfa.Accepting[stateID]
		if !ok {
			continue
		}
		if best == nil || info.better(*best) {
			picked := info
			best = &picked
		}
	}
	return best
}

func subsetKey(subset []int) string {
	var sb strings.Builder
	for i, state := range subset {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(state))
	}
	return sb.String()
}

// MakeTotal completes the transition function: every missing (state,
// symbol) edge is redirected to a single shared sink state that self-loops
// on the whole alphabet and accepts nothing.
func (d *DFA) MakeTotal() {
	alphabet := d.Alphabet()
	sink := -1
	ensureSink := func() int {
		if sink == -1 {
			sink = len(d.States)
			d.States = append(d.States, DFAState{Transitions: make(map[int]int)})
		}
		return sink
	}

	for i := range d.States {
		state := &d.States[i]
		for _, symbol := range alphabet {
			if _, ok := state.Transitions[symbol]; !ok {
				state.Transitions[symbol] = ensureSink()
			}
		}
	}
	if sink != -1 {
		for _, symbol := range alphabet {
			d.States[sink].Transitions[symbol] = sink
		}
		d.Sink = sink
	}
}

// Minimize returns an equivalent DFA with no two behaviorally equivalent
// states, via Hopcroft partition refinement. The initial partition groups
// states by accepting payload identity; refinement splits blocks against
// per-symbol predecessor sets of a worklist of splitter blocks. The caller
// must have made the DFA total first.
func (d *DFA) Minimize() *DFA {
	alphabet := d.Alphabet()
	stateCount := len(d.States)
	if stateCount == 0 {
		return &DFA{Sink: -1}
	}

	// Initial partition by accepting payload.
	blockOf := make([]int, stateCount)
	var blocks [][]int
	acceptBlock := make(map[AcceptInfo]int)
	nonAcceptBlock := -1
	for id := 0; id < stateCount; id++ {
		accept := d.States[id].Accept
		var block int
		if accept == nil {
			if nonAcceptBlock == -1 {
				nonAcceptBlock = len(blocks)
				blocks = append(blocks, nil)
			}
			block = nonAcceptBlock
		} else {
			existing, ok := acceptBlock[*accept]
			if !ok {
				existing = len(blocks)
				blocks = append(blocks, nil)
				acceptBlock[*accept] = existing
			}
			block = existing
		}
		blocks[block] = append(blocks[block], id)
		blockOf[id] = block
	}

	// Predecessor sets per symbol.
	preds := make(map[int][][]int, len(alphabet))
	for _, symbol := range alphabet {
		preds[symbol] = make([][]int, stateCount)
	}
	for src := 0; src < stateCount; src++ {
		for symbol, dst := range d.States[src].Transitions {
			preds[symbol][dst] = append(preds[symbol][dst], src)
		}
	}

	inWorklist := make([]bool, len(blocks))
	var worklist []int
	for id := range blocks {
		worklist = append(worklist, id)
		inWorklist[id] = true
	}

	for len(worklist) > 0 {
		splitterID := worklist[0]
		worklist = worklist[1:]
		inWorklist[splitterID] = false
		splitter := append([]int(nil), blocks[splitterID]...)

		for _, symbol := range alphabet {
			involved := make(map[int]struct{})
			for _, state := range splitter {
				for _, pred := range preds[symbol][state] {
					involved[pred] = struct{}{}
				}
			}
			if len(involved) == 0 {
				continue
			}

			// Blocks touched by the involved set, in deterministic order.
			touched := make(map[int]struct{})
			var touchedOrder []int
			for state := range involved {
				block := blockOf[state]
				if _, ok := touched[block]; !ok {
					touched[block] = struct{}{}
					touchedOrder = append(touchedOrder, block)
				}
			}
			sort.Ints(touchedOrder)

			for _, blockID := range touchedOrder {
				var inside, outside []int
				for _, state := range blocks[blockID] {
					if _, ok := involved[state]; ok {
						inside = append(inside, state)
					} else {
						outside = append(outside, state)
					}
				}
				if len(inside) == 0 || len(outside) == 0 {
					continue
				}
				newID := len(blocks)
				blocks[blockID] = inside
				blocks = append(blocks, outside)
				inWorklist = append(inWorklist, false)
				for _, state := range outside {
					blockOf[state] = newID
				}
				if inWorklist[blockID] {
					worklist = append(worklist, newID)
					inWorklist[newID] = true
				} else {
					// Smaller part enqueued preferentially; an efficiency
					// choice, not a correctness requirement.
					enqueue := newID
					if len(inside) <= len(outside) {
						enqueue = blockID
					}
					worklist = append(worklist, enqueue)
					inWorklist[enqueue] = true
				}
			}
		}
	}

	// Renumber blocks by their smallest original member so repeated builds
	// agree before serialization.
	order := make([]int, len(blocks))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return minMember(blocks[order[a]]) < minMember(blocks[order[b]])
	})
	newID := make([]int, len(blocks))
	for rank, block := range order {
		newID[block] = rank
	}

	minimized := &DFA{Start: newID[blockOf[d.Start]], Sink: -1}
	minimized.States = make([]DFAState, len(blocks))
	for _, blockID := range order {
		representative := minMember(blocks[blockID])
		state := DFAState{Transitions: make(map[int]int)}
		if accept := d.States[representative].Accept; accept != nil {
			copied := *accept
			state.Accept = &copied
		}
		for symbol, target := range d.States[representative].Transitions {
			state.Transitions[symbol] = newID[blockOf[target]]
		}
		minimized.States[newID[blockID]] = state
	}
	if d.Sink >= 0 {
		minimized.Sink = newID[blockOf[d.Sink]]
	}
	return minimized
}

func minMember(block []int) int {
	min := block[0]
	for _, state := range block[1:] {
		if state < min {
			min = state
		}
	}
	return min
}

// Accepts runs the DFA over input and reports the accepting payload, or nil
// when the automaton rejects. Used by tests to compare languages before and
// after minimization.
func (d *DFA) Accepts(input string) *AcceptInfo {
	state := d.Start
	for _, ch := range input {
		target, ok := d.States[state].Transitions[int(ch)]
		if !ok {
			return nil
		}
		state = target
	}
	return d.States[state].Accept
}
