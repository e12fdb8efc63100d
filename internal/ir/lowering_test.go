// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptum/internal/automata"
	"scriptum/internal/lexer"
	"scriptum/internal/parser"
)

func lower(t *testing.T, source string) *Program {
	t.Helper()
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	require.NoError(t, err)
	lx, err := lexer.NewFromTable(table, lexer.Config{})
	require.NoError(t, err)
	tokens, err := lx.Tokenize(source)
	require.NoError(t, err)

	program, parseErrors := parser.New(tokens).Parse()
	require.Empty(t, parseErrors, "Test sources must parse cleanly")
	return Lower(program)
}

func TestLowerVariableDeclaration(t *testing.T) {
	program := lower(t, `mutabilis x = 1 + 2;`)
	require.NotNil(t, program.Main)

	instrs := program.Main.Instrs
	require.Len(t, instrs, 4)
	assert.Equal(t, OpConst, instrs[0].Op)
	assert.Equal(t, OpConst, instrs[1].Op)
	assert.Equal(t, OpBinary, instrs[2].Op)
	assert.Equal(t, "+", instrs[2].Name)
	assert.Equal(t, OpStore, instrs[3].Op)
	assert.Equal(t, "x", instrs[3].Name)
	assert.Equal(t, instrs[2].Dst, instrs[3].A, "The store consumes the sum's register")
}

func TestLowerFunction(t *testing.T) {
	program := lower(t, `functio adde(a, b) { redde a + b; }`)
	require.Len(t, program.Functions, 1)

	fn := program.Functions[0]
	assert.Equal(t, "adde", fn.Name)
	assert.Equal(t, []string{"a", "b"}, fn.Params)
	assert.Equal(t, OpReturn, fn.Instrs[len(fn.Instrs)-1].Op)
	assert.Greater(t, fn.RegUsed, 0)
	assert.Empty(t, program.Main.Instrs, "Nothing outside the function")
}

func TestLowerIfElse(t *testing.T) {
	program := lower(t, `si (a) { x = 1; } aliter { x = 2; }`)
	text := Print(program)

	assert.Contains(t, text, "branch_false")
	assert.Contains(t, text, ".else1:")
	assert.Contains(t, text, ".endif2:")
	assert.Contains(t, text, "jump .endif2")
}

func TestLowerWhileWithBreakContinue(t *testing.T) {
	program := lower(t, `dum (verum) { si (x) { frange; } perge; }`)
	text := Print(program)

	assert.Contains(t, text, ".loop1:")
	assert.Contains(t, text, "jump .endloop2", "frange jumps to the loop exit")
	assert.Contains(t, text, "jump .loop1", "perge jumps to the loop head")
	assert.Contains(t, text, "branch_false")
}

func TestLowerCallMemberIndex(t *testing.T) {
	program := lower(t, `obiectum.methodus(a)[0];`)
	ops := make([]Op, len(program.Main.Instrs))
	for i, instr := range program.Main.Instrs {
		ops[i] = instr.Op
	}
	assert.Equal(t, []Op{OpLoad, OpMember, OpLoad, OpCall, OpConst, OpIndex}, ops)
}

func TestLowerReturnWithoutValue(t *testing.T) {
	program := lower(t, `functio nihil() { redde; }`)
	fn := program.Functions[0]
	last := fn.Instrs[len(fn.Instrs)-1]
	assert.Equal(t, OpReturn, last.Op)
	assert.Equal(t, NoReg, last.A)
}

func TestPrintLayout(t *testing.T) {
	program := lower(t, `functio f() { redde 1; } mutabilis x = f();`)
	text := Print(program)

	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	assert.Equal(t, "functio f():", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "  "), "Instructions are indented")
	assert.Contains(t, text, "functio __main__():")
}

func TestRegistersAreDense(t *testing.T) {
	program := lower(t, `mutabilis x = 1 + 2 * 3;`)
	defines := map[Op]bool{
		OpConst: true, OpLoad: true, OpUnary: true, OpBinary: true,
		OpCall: true, OpIndex: true, OpMember: true,
	}
	seen := make(map[Reg]bool)
	for _, instr := range program.Main.Instrs {
		if defines[instr.Op] {
			assert.False(t, seen[instr.Dst], "register r%d defined twice", instr.Dst)
			seen[instr.Dst] = true
		}
	}
	assert.Equal(t, program.Main.RegUsed, len(seen), "Every register up to RegUsed is defined once")
}
