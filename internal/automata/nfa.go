// SPDX-License-Identifier: Apache-2.0

// Package automata implements the lexer-generation pipeline: Thompson
// construction of an NFA over a set of token patterns, subset construction
// to a DFA, totalization with a sink state, and Hopcroft-style
// minimization. Symbols are codepoints below a configurable alphabet bound.
package automata

import (
	"sort"

	"scriptum/internal/regex"
)

// DefaultAlphabetSize bounds the symbol space to 7-bit ASCII unless a
// builder is configured otherwise.
const DefaultAlphabetSize = 128

// AcceptInfo identifies which token pattern an accepting state completes.
// Priority and Order together impose a total order used to resolve
// ambiguity: highest priority wins, then lowest (earliest) order.
type AcceptInfo struct {
	Index    int
	Name     string
	Kind     string
	Priority int
	Ignore   bool
	Order    int
}

// better reports whether a beats b under the accept-selection rule.
func (a AcceptInfo) better(b AcceptInfo) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	return a.Order < b.Order
}

type nfaState struct {
	epsilon     []int
	transitions map[int][]int
}

func (s *nfaState) addTransition(symbol, target int) {
	if s.transitions == nil {
		s.transitions = make(map[int][]int)
	}
	for _, existing := range s.transitions[symbol] {
		if existing == target {
			return
		}
	}
	s.transitions[symbol] = append(s.transitions[symbol], target)
}

// NFA is the combined nondeterministic automaton covering every pattern
// added to a Builder. States are addressed by dense index; Accepting maps
// the dedicated per-pattern accept states to their pattern metadata.
type NFA struct {
	states       []nfaState
	Start        int
	Accepting    map[int]AcceptInfo
	AlphabetSize int
	alphabet     map[int]struct{}
}

// StateCount returns the number of states in the automaton.
func (n *NFA) StateCount() int { return len(n.states) }

// Alphabet returns the symbols actually used by transitions, sorted.
func (n *NFA) Alphabet() []int {
	symbols := make([]int, 0, len(n.alphabet))
	for symbol := range n.alphabet {
		symbols = append(symbols, symbol)
	}
	sort.Ints(symbols)
	return symbols
}

// EpsilonClosure expands states with everything reachable over epsilon
// transitions. The result is sorted so subsets have a canonical form.
func (n *NFA) EpsilonClosure(states []int) []int {
	stack := append([]int(nil), states...)
	seen := make(map[int]struct{}, len(stack))
	for _, s := range stack {
		seen[s] = struct{}{}
	}
	var closure []int
	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		closure = append(closure, state)
		for _, target := range n.states[state].epsilon {
			if _, ok := seen[target]; ok {
				continue
			}
			seen[target] = struct{}{}
			stack = append(stack, target)
		}
	}
	sort.Ints(closure)
	return closure
}

// fragment is a partial automaton under construction: one entry state and
// the set of states a completed match ends in.
type fragment struct {
	start   int
	accepts []int
}

// Builder accumulates token patterns into one shared NFA via Thompson's
// construction. A Builder is not safe for concurrent use; each build call
// owns its own instance.
type Builder struct {
	states       []nfaState
	start        int
	accepting    map[int]AcceptInfo
	alphabet     map[int]struct{}
	alphabetSize int
	limits       Limits
}

// NewBuilder creates a Builder over codepoints [0, alphabetSize). A
// non-positive alphabetSize selects DefaultAlphabetSize.
func NewBuilder(alphabetSize int, limits Limits) *Builder {
	if alphabetSize <= 0 {
		alphabetSize = DefaultAlphabetSize
	}
	b := &Builder{
		accepting:    make(map[int]AcceptInfo),
		alphabet:     make(map[int]struct{}),
		alphabetSize: alphabetSize,
		limits:       limits.withDefaults(),
	}
	b.start = b.mustNewState()
	return b
}

// AddPattern threads node into the shared automaton: the fragment's accept
// states are epsilon-linked into a fresh accept state carrying info, and
// the fragment entry is epsilon-linked from the shared start.
func (b *Builder) AddPattern(node regex.Node, info AcceptInfo) error {
	frag, err := b.build(node)
	if err != nil {
		return err
	}
	accept, err := b.newState()
	if err != nil {
		return err
	}
	for _, state := range frag.accepts {
		b.states[state].epsilon = append(b.states[state].epsilon, accept)
	}
	b.states[b.start].epsilon = append(b.states[b.start].epsilon, frag.start)
	b.accepting[accept] = info
	return nil
}

// NFA finalizes the builder. The builder must not be reused afterwards.
func (b *Builder) NFA() *NFA {
	return &NFA{
		states:       b.states,
		Start:        b.start,
		Accepting:    b.accepting,
		AlphabetSize: b.alphabetSize,
		alphabet:     b.alphabet,
	}
}

func (b *Builder) build(node regex.Node) (fragment, error) {
	switch n := node.(type) {
	case *regex.Empty:
		state, err := b.newState()
		if err != nil {
			return fragment{}, err
		}
		return fragment{start: state, accepts: []int{state}}, nil
	case *regex.Literal:
		return b.symbolFragment([]int{int(n.Value)})
	case *regex.AnyChar:
		symbols := make([]int, 0, b.alphabetSize-1)
		for symbol := 0; symbol < b.alphabetSize; symbol++ {
			if symbol != '\n' {
				symbols = append(symbols, symbol)
			}
		}
		return b.symbolFragment(symbols)
	case *regex.CharClass:
		return b.symbolFragment(b.expandClass(n))
	case *regex.Sequence:
		return b.buildSequence(n.Children)
	case *regex.Alternation:
		return b.buildAlternation(n.Options)
	case *regex.Repeat:
		return b.buildRepeat(n)
	default:
		state, err := b.newState()
		if err != nil {
			return fragment{}, err
		}
		return fragment{start: state, accepts: []int{state}}, nil
	}
}

func (b *Builder) buildSequence(children []regex.Node) (fragment, error) {
	if len(children) == 0 {
		return b.build(&regex.Empty{})
	}
	head, err := b.build(children[0])
	if err != nil {
		return fragment{}, err
	}
	for _, child := range children[1:] {
		tail, err := b.build(child)
		if err != nil {
			return fragment{}, err
		}
		head = b.concat(head, tail)
	}
	return head, nil
}

func (b *Builder) buildAlternation(options []regex.Node) (fragment, error) {
	if len(options) == 0 {
		return b.build(&regex.Empty{})
	}
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	for _, option := range options {
		frag, err := b.build(option)
		if err != nil {
			return fragment{}, err
		}
		b.states[start].epsilon = append(b.states[start].epsilon, frag.start)
		for _, state := range frag.accepts {
			b.states[state].epsilon = append(b.states[state].epsilon, accept)
		}
	}
	return fragment{start: start, accepts: []int{accept}}, nil
}

// buildRepeat concatenates Min mandatory copies of the child, then either a
// Kleene star (unbounded) or Max-Min optional copies.
func (b *Builder) buildRepeat(node *regex.Repeat) (fragment, error) {
	var frag fragment
	have := false
	for i := 0; i < node.Min; i++ {
		part, err := b.build(node.Child)
		if err != nil {
			return fragment{}, err
		}
		if !have {
			frag, have = part, true
		} else {
			frag = b.concat(frag, part)
		}
	}
	if node.Max == regex.Unbounded {
		star, err := b.star(node.Child)
		if err != nil {
			return fragment{}, err
		}
		if !have {
			return star, nil
		}
		return b.concat(frag, star), nil
	}
	for i := 0; i < node.Max-node.Min; i++ {
		opt, err := b.optional(node.Child)
		if err != nil {
			return fragment{}, err
		}
		if !have {
			frag, have = opt, true
		} else {
			frag = b.concat(frag, opt)
		}
	}
	if !have {
		return b.build(&regex.Empty{})
	}
	return frag, nil
}

func (b *Builder) concat(left, right fragment) fragment {
	for _, state := range left.accepts {
		b.states[state].epsilon = append(b.states[state].epsilon, right.start)
	}
	return fragment{start: left.start, accepts: right.accepts}
}

func (b *Builder) optional(node regex.Node) (fragment, error) {
	frag, err := b.build(node)
	if err != nil {
		return fragment{}, err
	}
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.states[start].epsilon = append(b.states[start].epsilon, frag.start, accept)
	for _, state := range frag.accepts {
		b.states[state].epsilon = append(b.states[state].epsilon, accept)
	}
	return fragment{start: start, accepts: []int{accept}}, nil
}

func (b *Builder) star(node regex.Node) (fragment, error) {
	frag, err := b.build(node)
	if err != nil {
		return fragment{}, err
	}
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	accept, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	b.states[start].epsilon = append(b.states[start].epsilon, frag.start, accept)
	for _, state := range frag.accepts {
		b.states[state].epsilon = append(b.states[state].epsilon, frag.start, accept)
	}
	return fragment{start: start, accepts: []int{accept}}, nil
}

// symbolFragment builds a two-state fragment with one transition per
// symbol. Symbols at or above the alphabet bound are silently dropped.
func (b *Builder) symbolFragment(symbols []int) (fragment, error) {
	start, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	end, err := b.newState()
	if err != nil {
		return fragment{}, err
	}
	for _, symbol := range symbols {
		if symbol < 0 || symbol >= b.alphabetSize {
			continue
		}
		b.states[start].addTransition(symbol, end)
		b.alphabet[symbol] = struct{}{}
	}
	return fragment{start: start, accepts: []int{end}}, nil
}

func (b *Builder) expandClass(class *regex.CharClass) []int {
	member := make([]bool, b.alphabetSize)
	for _, r := range class.Ranges {
		lo := int(r.Lo)
		hi := int(r.Hi)
		if lo < 0 {
			lo = 0
		}
		if hi >= b.alphabetSize {
			hi = b.alphabetSize - 1
		}
		for symbol := lo; symbol <= hi; symbol++ {
			member[symbol] = true
		}
	}
	var symbols []int
	for symbol := 0; symbol < b.alphabetSize; symbol++ {
		if member[symbol] != class.Negated {
			symbols = append(symbols, symbol)
		}
	}
	return symbols
}

func (b *Builder) newState() (int, error) {
	if len(b.states) >= b.limits.MaxStates {
		return 0, &LimitError{Limit: "states", Max: b.limits.MaxStates}
	}
	return b.mustNewState(), nil
}

func (b *Builder) mustNewState() int {
	b.states = append(b.states, nfaState{})
	return len(b.states) - 1
}
