// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"
	"strings"
)

// Print renders the whole program in a stable textual form used by the CLI
// and tests.
func Print(program *Program) string {
	var sb strings.Builder
	for _, fn := range program.Functions {
		printFunction(&sb, fn)
	}
	if program.Main != nil && len(program.Main.Instrs) > 0 {
		printFunction(&sb, program.Main)
	}
	return sb.String()
}

func printFunction(sb *strings.Builder, fn *Function) {
	fmt.Fprintf(sb, "functio %s(%s):\n", fn.Name, strings.Join(fn.Params, ", "))
	for _, instr := range fn.Instrs {
		if instr.Op == OpLabel {
			fmt.Fprintf(sb, "%s\n", instr)
		} else {
			fmt.Fprintf(sb, "  %s\n", instr)
		}
	}
}
