// SPDX-License-Identifier: Apache-2.0
package ast

import (
	"fmt"
	"strings"
)

// Print renders the program as an indented outline, one node per line.
// The output is meant for the REPL and tests, not for re-parsing.
func Print(program *Program) string {
	var sb strings.Builder
	for _, stmt := range program.Stmts {
		printStmt(&sb, stmt, 0)
	}
	return sb.String()
}

func indent(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
}

func printStmt(sb *strings.Builder, stmt Stmt, depth int) {
	indent(sb, depth)
	switch s := stmt.(type) {
	case *VarDecl:
		kw := "constans"
		if s.Mutable {
			kw = "mutabilis"
		}
		fmt.Fprintf(sb, "%s %s = %s\n", kw, s.Name, ExprString(s.Value))
	case *FuncDecl:
		names := make([]string, len(s.Params))
		for i, p := range s.Params {
			names[i] = p.Name
		}
		fmt.Fprintf(sb, "functio %s(%s)\n", s.Name, strings.Join(names, ", "))
		for _, inner := range s.Body.Stmts {
			printStmt(sb, inner, depth+1)
		}
	case *StructDecl:
		fmt.Fprintf(sb, "structura %s { %s }\n", s.Name, strings.Join(s.Fields, ", "))
	case *BlockStmt:
		sb.WriteString("block\n")
		for _, inner := range s.Stmts {
			printStmt(sb, inner, depth+1)
		}
	case *IfStmt:
		fmt.Fprintf(sb, "si %s\n", ExprString(s.Cond))
		for _, inner := range s.Then.Stmts {
			printStmt(sb, inner, depth+1)
		}
		if s.Else != nil {
			indent(sb, depth)
			sb.WriteString("aliter\n")
			printStmt(sb, s.Else, depth+1)
		}
	case *WhileStmt:
		fmt.Fprintf(sb, "dum %s\n", ExprString(s.Cond))
		for _, inner := range s.Body.Stmts {
			printStmt(sb, inner, depth+1)
		}
	case *ReturnStmt:
		if s.Value != nil {
			fmt.Fprintf(sb, "redde %s\n", ExprString(s.Value))
		} else {
			sb.WriteString("redde\n")
		}
	case *BreakStmt:
		sb.WriteString("frange\n")
	case *ContinueStmt:
		sb.WriteString("perge\n")
	case *AssignStmt:
		fmt.Fprintf(sb, "%s = %s\n", ExprString(s.Target), ExprString(s.Value))
	case *ExprStmt:
		fmt.Fprintf(sb, "%s\n", ExprString(s.Value))
	}
}

// ExprString renders an expression on one line with explicit grouping.
func ExprString(expr Expr) string {
	switch e := expr.(type) {
	case *IdentExpr:
		return e.Name
	case *LiteralExpr:
		return e.Lexeme
	case *UnaryExpr:
		return fmt.Sprintf("(%s%s)", e.Op, ExprString(e.Value))
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", ExprString(e.Left), e.Op, ExprString(e.Right))
	case *CallExpr:
		args := make([]string, len(e.Args))
		for i, arg := range e.Args {
			args[i] = ExprString(arg)
		}
		return fmt.Sprintf("%s(%s)", ExprString(e.Callee), strings.Join(args, ", "))
	case *IndexExpr:
		return fmt.Sprintf("%s[%s]", ExprString(e.Target), ExprString(e.Index))
	case *MemberExpr:
		return fmt.Sprintf("%s.%s", ExprString(e.Target), e.Member)
	default:
		return "?"
	}
}
