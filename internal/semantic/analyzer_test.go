// SPDX-License-Identifier: Apache-2.0
package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptum/internal/ast"
	"scriptum/internal/automata"
	"scriptum/internal/errors"
	"scriptum/internal/lexer"
	"scriptum/internal/parser"
)

func analyze(t *testing.T, source string) []Error {
	t.Helper()
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	require.NoError(t, err)
	lx, err := lexer.NewFromTable(table, lexer.Config{})
	require.NoError(t, err)
	tokens, err := lx.Tokenize(source)
	require.NoError(t, err)

	program, parseErrors := parser.New(tokens).Parse()
	require.Empty(t, parseErrors, "Test sources must parse cleanly")
	return NewAnalyzer().Analyze(program)
}

func codes(errs []Error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Code
	}
	return out
}

func TestCleanProgram(t *testing.T) {
	errs := analyze(t, `
functio adde(a, b) {
    redde a + b;
}
mutabilis summa = adde(1, 2);
summa = summa + 1;
`)
	assert.Empty(t, errs)
}

func TestDuplicateDeclaration(t *testing.T) {
	errs := analyze(t, `mutabilis x = 1; mutabilis x = 2;`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeDuplicateDeclaration, errs[0].Code)
	assert.Contains(t, errs[0].Message, "x")
}

func TestShadowingInNestedScopeIsAllowed(t *testing.T) {
	errs := analyze(t, `mutabilis x = 1; { mutabilis x = 2; }`)
	assert.Empty(t, errs, "An inner block may shadow an outer name")
}

func TestUndefinedVariable(t *testing.T) {
	errs := analyze(t, `mutabilis x = ignotus;`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeUndefinedVariable, errs[0].Code)
	assert.Contains(t, errs[0].Message, "ignotus")
}

func TestBlockScopeDoesNotLeak(t *testing.T) {
	errs := analyze(t, `{ mutabilis intus = 1; } intus;`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeUndefinedVariable, errs[0].Code)
}

func TestAssignToConstant(t *testing.T) {
	errs := analyze(t, `constans pi = 3.14; pi = 3;`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeAssignToConstant, errs[0].Code)
	assert.Contains(t, errs[0].Message, "pi")
}

func TestAssignToMutableIsFine(t *testing.T) {
	errs := analyze(t, `mutabilis n = 1; n = 2;`)
	assert.Empty(t, errs)
}

func TestFunctionsAreHoisted(t *testing.T) {
	errs := analyze(t, `mutabilis x = posterior(); functio posterior() { redde 1; }`)
	assert.Empty(t, errs, "Top-level functions are visible before their declaration")
}

func TestDuplicateStructFields(t *testing.T) {
	errs := analyze(t, `structura Punctum { x, x }`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeDuplicateDeclaration, errs[0].Code)
}

func TestReturnOutsideFunction(t *testing.T) {
	errs := analyze(t, `redde 1;`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeInvalidContext, errs[0].Code)
	assert.Contains(t, errs[0].Message, "redde")
}

func TestBreakAndContinueOutsideLoop(t *testing.T) {
	errs := analyze(t, `frange; perge;`)
	assert.Equal(t, []string{errors.CodeInvalidContext, errors.CodeInvalidContext}, codes(errs))
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	errs := analyze(t, `dum (verum) { si (falsum) { frange; } perge; }`)
	assert.Empty(t, errs)
}

func TestBreakInFunctionInsideLoopBody(t *testing.T) {
	// The loop does not extend into a nested function body.
	errs := analyze(t, `dum (verum) { frange; }`)
	assert.Empty(t, errs)

	errs = analyze(t, `functio f() { frange; }`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeInvalidContext, errs[0].Code)
}

func TestParametersAreInScope(t *testing.T) {
	errs := analyze(t, `functio f(a) { a = a + 1; redde a; }`)
	assert.Empty(t, errs)
}

func TestArityMismatch(t *testing.T) {
	errs := analyze(t, `functio adde(a, b) { redde a + b; } adde(1);`)
	require.Len(t, errs, 1)
	assert.Equal(t, errors.CodeArityMismatch, errs[0].Code)
	assert.Contains(t, errs[0].Message, "adde")
	assert.Contains(t, errs[0].Message, "expects 2")
}

func TestArityMatchesExactly(t *testing.T) {
	errs := analyze(t, `functio nulla() { redde 0; } nulla();`)
	assert.Empty(t, errs)
}

func TestArityNotCheckedForNonFunctionCallees(t *testing.T) {
	// Calling through a variable is left to runtime.
	errs := analyze(t, `mutabilis f = 1; f(1, 2, 3);`)
	assert.Empty(t, errs)
}

func TestErrorsCarrySpans(t *testing.T) {
	source := `mutabilis x = ignotus;`
	errs := analyze(t, source)
	require.Len(t, errs, 1)
	assert.Equal(t, "ignotus", source[errs[0].Span.Start:errs[0].Span.End])
}

func TestAnalyzeEmptyProgram(t *testing.T) {
	assert.Empty(t, NewAnalyzer().Analyze(&ast.Program{}))
}
