// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scriptum/internal/ast"
	"scriptum/internal/automata"
	"scriptum/internal/lexer"
	"scriptum/token"
)

func tokenize(t *testing.T, source string) []token.Token {
	t.Helper()
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	require.NoError(t, err)
	lx, err := lexer.NewFromTable(table, lexer.Config{})
	require.NoError(t, err)
	tokens, err := lx.Tokenize(source)
	require.NoError(t, err)
	return tokens
}

func parse(t *testing.T, source string) (*ast.Program, []ParseError) {
	t.Helper()
	return New(tokenize(t, source)).Parse()
}

func parseOK(t *testing.T, source string) *ast.Program {
	t.Helper()
	program, errs := parse(t, source)
	require.Empty(t, errs, "Should have no parse errors")
	return program
}

func TestParseVariableDeclarations(t *testing.T) {
	program := parseOK(t, `mutabilis x = 1; constans y = "due";`)
	require.Len(t, program.Stmts, 2)

	first, ok := program.Stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "x", first.Name)
	assert.True(t, first.Mutable)

	second, ok := program.Stmts[1].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "y", second.Name)
	assert.False(t, second.Mutable)

	lit, ok := second.Value.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, "due", lit.Value)
}

func TestParseFunctionDeclaration(t *testing.T) {
	program := parseOK(t, `functio adde(a, b) { redde a + b; }`)
	require.Len(t, program.Stmts, 1)

	fn, ok := program.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "adde", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "b", fn.Params[1].Name)
	require.Len(t, fn.Body.Stmts, 1)

	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)
	assert.Equal(t, "(a + b)", ast.ExprString(ret.Value))
}

func TestParseStructDeclaration(t *testing.T) {
	program := parseOK(t, `structura Punctum { x, y }`)
	decl, ok := program.Stmts[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Punctum", decl.Name)
	assert.Equal(t, []string{"x", "y"}, decl.Fields)
}

func TestParseIfElseChain(t *testing.T) {
	program := parseOK(t, `si (a) { x = 1; } aliter si (b) { x = 2; } aliter { x = 3; }`)
	stmt, ok := program.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)

	elseIf, ok := stmt.Else.(*ast.IfStmt)
	require.True(t, ok, "aliter si should nest another if")
	_, ok = elseIf.Else.(*ast.BlockStmt)
	assert.True(t, ok, "Final aliter is a block")
}

func TestParseWhileWithBreakContinue(t *testing.T) {
	program := parseOK(t, `dum (verum) { si (x) { frange; } perge; }`)
	loop, ok := program.Stmts[0].(*ast.WhileStmt)
	require.True(t, ok)

	lit, ok := loop.Cond.(*ast.LiteralExpr)
	require.True(t, ok)
	assert.Equal(t, true, lit.Value)

	_, ok = loop.Body.Stmts[1].(*ast.ContinueStmt)
	assert.True(t, ok)
}

func TestParseAssignmentTargets(t *testing.T) {
	program := parseOK(t, `x = 1; p.y = 2; lista[0] = 3;`)
	require.Len(t, program.Stmts, 3)
	for i, want := range []string{"x", "p.y", "lista[0]"} {
		assign, ok := program.Stmts[i].(*ast.AssignStmt)
		require.True(t, ok, "statement %d", i)
		assert.Equal(t, want, ast.ExprString(assign.Target))
	}
}

func TestParseInvalidAssignmentTarget(t *testing.T) {
	_, errs := parse(t, `1 + 2 = 3;`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "invalid assignment target")
}

func TestOperatorPrecedence(t *testing.T) {
	cases := map[string]string{
		`1 + 2 * 3;`:        "(1 + (2 * 3))",
		`(1 + 2) * 3;`:      "((1 + 2) * 3)",
		`a || b && c;`:      "(a || (b && c))",
		`a == b + 1;`:       "(a == (b + 1))",
		`2 ** 3 ** 2;`:      "(2 ** (3 ** 2))",
		`a ?? b ?? c;`:      "((a ?? b) ?? c)",
		`a ?: b || c;`:      "(a ?: (b || c))",
		`-a * b;`:           "((-a) * b)",
		`!a == falsum;`:     "((!a) == falsum)",
		`a < b != c > d;`:   "((a < b) != (c > d))",
		`a === b;`:          "(a === b)",
	}
	for source, want := range cases {
		program := parseOK(t, source)
		stmt, ok := program.Stmts[0].(*ast.ExprStmt)
		require.True(t, ok, "source %q", source)
		assert.Equal(t, want, ast.ExprString(stmt.Value), "source %q", source)
	}
}

func TestPostfixChains(t *testing.T) {
	program := parseOK(t, `obiectum.campus(arg1, arg2)[0].alius;`)
	stmt := program.Stmts[0].(*ast.ExprStmt)
	assert.Equal(t, "obiectum.campus(arg1, arg2)[0].alius", ast.ExprString(stmt.Value))
}

func TestLiteralKeywords(t *testing.T) {
	program := parseOK(t, `x = verum; y = falsum; z = nullum;`)
	values := []any{true, false, nil}
	for i, want := range values {
		assign := program.Stmts[i].(*ast.AssignStmt)
		lit, ok := assign.Value.(*ast.LiteralExpr)
		require.True(t, ok, "statement %d", i)
		assert.Equal(t, want, lit.Value, "statement %d", i)
	}
}

func TestParseErrorRecovery(t *testing.T) {
	// The bad first statement must not hide the good second one.
	program, errs := parse(t, `mutabilis = 1;
mutabilis ok = 2;`)
	require.NotEmpty(t, errs)
	require.Len(t, program.Stmts, 1)

	decl, ok := program.Stmts[0].(*ast.VarDecl)
	require.True(t, ok)
	assert.Equal(t, "ok", decl.Name)
}

func TestMissingSemicolonReported(t *testing.T) {
	_, errs := parse(t, `x = 1`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "';'")
}

func TestSpansCoverLexemes(t *testing.T) {
	source := `mutabilis x = 1 + 2;`
	program := parseOK(t, source)
	decl := program.Stmts[0].(*ast.VarDecl)
	assert.Equal(t, 0, decl.Span().Start)
	assert.Equal(t, len(source), decl.Span().End)
	assert.Equal(t, "1 + 2", source[decl.Value.Span().Start:decl.Value.Span().End])
}

func TestEmptyInputParsesToEmptyProgram(t *testing.T) {
	program := parseOK(t, "")
	assert.Empty(t, program.Stmts)
}
