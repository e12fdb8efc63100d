// SPDX-License-Identifier: Apache-2.0
package automata

import (
	"fmt"
	"sort"
	"strings"
)

// DOT renders the DFA as a Graphviz digraph for debugging. Accepting states
// are drawn as double circles labeled with their pattern name; edges going
// to the same target are collapsed into one label listing their symbols.
func DOT(d *DFA) string {
	var sb strings.Builder
	sb.WriteString("digraph dfa {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=circle];\n")
	sb.WriteString(fmt.Sprintf("  start [shape=point];\n  start -> s%d;\n", d.Start))

	for id, state := range d.States {
		if state.Accept != nil {
			sb.WriteString(fmt.Sprintf("  s%d [shape=doublecircle, label=\"s%d\\n%s\"];\n",
				id, id, state.Accept.Name))
		} else if id == d.Sink {
			sb.WriteString(fmt.Sprintf("  s%d [label=\"s%d\\nsink\"];\n", id, id))
		}

		byTarget := make(map[int][]int)
		for symbol, target := range state.Transitions {
			byTarget[target] = append(byTarget[target], symbol)
		}
		targets := make([]int, 0, len(byTarget))
		for target := range byTarget {
			targets = append(targets, target)
		}
		sort.Ints(targets)
		for _, target := range targets {
			symbols := byTarget[target]
			sort.Ints(symbols)
			sb.WriteString(fmt.Sprintf("  s%d -> s%d [label=%q];\n",
				id, target, edgeLabel(symbols)))
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}

// edgeLabel compresses a sorted symbol list into ranges, e.g. "a-z, 0-9".
func edgeLabel(symbols []int) string {
	var parts []string
	for i := 0; i < len(symbols); {
		j := i
		for j+1 < len(symbols) && symbols[j+1] == symbols[j]+1 {
			j++
		}
		if j-i >= 2 {
			parts = append(parts, SymbolLabel(symbols[i])+"-"+SymbolLabel(symbols[j]))
		} else {
			for k := i; k <= j; k++ {
				parts = append(parts, SymbolLabel(symbols[k]))
			}
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

// SymbolLabel renders a symbol the way the serialized table does: the
// character itself when printable, otherwise a \xHH escape.
func SymbolLabel(symbol int) string {
	ch := rune(symbol)
	if ch > ' ' && ch < 0x7f {
		return string(ch)
	}
	return fmt.Sprintf("\\x%02x", symbol)
}
