// SPDX-License-Identifier: Apache-2.0

// Package semantic performs name resolution checks over Scriptum programs:
// duplicate declarations, undefined references, assignment to constants,
// call arity, and control-flow keywords outside their context.
package semantic

import (
	"fmt"

	"scriptum/internal/ast"
	"scriptum/internal/errors"
	"scriptum/token"
)

// Error is a single semantic diagnostic.
type Error struct {
	Code    string
	Message string
	Span    token.Span
}

type symbol struct {
	name    string
	mutable bool
	kind    symbolKind
	arity   int // parameter count, valid for symbolFunc only
}

type symbolKind int

const (
	symbolVar symbolKind = iota
	symbolFunc
	symbolStruct
	symbolParam
)

type scope struct {
	parent  *scope
	symbols map[string]*symbol
}

func (s *scope) declare(sym *symbol) bool {
	if _, exists := s.symbols[sym.name]; exists {
		return false
	}
	s.symbols[sym.name] = sym
	return true
}

func (s *scope) resolve(name string) *symbol {
	for cur := s; cur != nil; cur = cur.parent {
		if sym, ok := cur.symbols[name]; ok {
			return sym
		}
	}
	return nil
}

// Analyzer walks a program collecting diagnostics. Not safe for concurrent
// use; create one per Analyze call.
type Analyzer struct {
	errors    []Error
	scope     *scope
	loopDepth int
	funcDepth int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze checks the program and returns every diagnostic found.
func (a *Analyzer) Analyze(program *ast.Program) []Error {
	a.scope = &scope{symbols: make(map[string]*symbol)}
	// Hoist top-level functions and structs so order of declaration does
	// not matter between them.
	for _, stmt := range program.Stmts {
		switch s := stmt.(type) {
		case *ast.FuncDecl:
			a.declare(&symbol{name: s.Name, kind: symbolFunc, arity: len(s.Params)}, s.Span())
		case *ast.StructDecl:
			a.declare(&symbol{name: s.Name, kind: symbolStruct}, s.Span())
		}
	}
	for _, stmt := range program.Stmts {
		a.checkStmt(stmt)
	}
	return a.errors
}

func (a *Analyzer) errorf(code string, span token.Span, format string, args ...any) {
	a.errors = append(a.errors, Error{Code: code, Message: fmt.Sprintf(format, args...), Span: span})
}

func (a *Analyzer) declare(sym *symbol, span token.Span) {
	if !a.scope.declare(sym) {
		a.errorf(errors.CodeDuplicateDeclaration, span, "duplicate declaration: %s", sym.name)
	}
}

func (a *Analyzer) push() {
	a.scope = &scope{parent: a.scope, symbols: make(map[string]*symbol)}
}

func (a *Analyzer) pop() {
	a.scope = a.scope.parent
}

func (a *Analyzer) checkStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Value != nil {
			a.checkExpr(s.Value)
		}
		a.declare(&symbol{name: s.Name, mutable: s.Mutable, kind: symbolVar}, s.Span())
	case *ast.FuncDecl:
		// Already hoisted at top level; nested functions declare here.
		if a.funcDepth > 0 {
			a.declare(&symbol{name: s.Name, kind: symbolFunc, arity: len(s.Params)}, s.Span())
		}
		a.funcDepth++
		a.push()
		for _, param := range s.Params {
			a.declare(&symbol{name: param.Name, mutable: true, kind: symbolParam}, param.Sp)
		}
		for _, inner := range s.Body.Stmts {
			a.checkStmt(inner)
		}
		a.pop()
		a.funcDepth--
	case *ast.StructDecl:
		seen := make(map[string]struct{}, len(s.Fields))
		for _, field := range s.Fields {
			if _, dup := seen[field]; dup {
				a.errorf(errors.CodeDuplicateDeclaration, s.Span(), "duplicate field %s in structura %s", field, s.Name)
			}
			seen[field] = struct{}{}
		}
	case *ast.BlockStmt:
		a.push()
		for _, inner := range s.Stmts {
			a.checkStmt(inner)
		}
		a.pop()
	case *ast.IfStmt:
		a.checkExpr(s.Cond)
		a.checkStmt(s.Then)
		if s.Else != nil {
			a.checkStmt(s.Else)
		}
	case *ast.WhileStmt:
		a.checkExpr(s.Cond)
		a.loopDepth++
		a.checkStmt(s.Body)
		a.loopDepth--
	case *ast.ReturnStmt:
		if a.funcDepth == 0 {
			a.errorf(errors.CodeInvalidContext, s.Span(), "'redde' outside of functio")
		}
		if s.Value != nil {
			a.checkExpr(s.Value)
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorf(errors.CodeInvalidContext, s.Span(), "'frange' outside of loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorf(errors.CodeInvalidContext, s.Span(), "'perge' outside of loop")
		}
	case *ast.AssignStmt:
		a.checkExpr(s.Value)
		a.checkAssignTarget(s.Target)
	case *ast.ExprStmt:
		a.checkExpr(s.Value)
	}
}

func (a *Analyzer) checkAssignTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.IdentExpr:
		sym := a.scope.resolve(t.Name)
		if sym == nil {
			a.errorf(errors.CodeUndefinedVariable, t.Span(), "undefined variable: %s", t.Name)
			return
		}
		if sym.kind == symbolVar && !sym.mutable {
			a.errorf(errors.CodeAssignToConstant, t.Span(), "cannot assign to constans %s", t.Name)
		}
	case *ast.IndexExpr:
		a.checkExpr(t.Target)
		a.checkExpr(t.Index)
	case *ast.MemberExpr:
		a.checkExpr(t.Target)
	}
}

func (a *Analyzer) checkExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.IdentExpr:
		if a.scope.resolve(e.Name) == nil {
			a.errorf(errors.CodeUndefinedVariable, e.Span(), "undefined variable: %s", e.Name)
		}
	case *ast.UnaryExpr:
		a.checkExpr(e.Value)
	case *ast.BinaryExpr:
		a.checkExpr(e.Left)
		a.checkExpr(e.Right)
	case *ast.CallExpr:
		a.checkExpr(e.Callee)
		for _, arg := range e.Args {
			a.checkExpr(arg)
		}
		if callee, ok := e.Callee.(*ast.IdentExpr); ok {
			if sym := a.scope.resolve(callee.Name); sym != nil && sym.kind == symbolFunc && len(e.Args) != sym.arity {
				a.errorf(errors.CodeArityMismatch, e.Span(),
					"functio %s expects %d argument(s), got %d", callee.Name, sym.arity, len(e.Args))
			}
		}
	case *ast.IndexExpr:
		a.checkExpr(e.Target)
		a.checkExpr(e.Index)
	case *ast.MemberExpr:
		a.checkExpr(e.Target)
	}
}
