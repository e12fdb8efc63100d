// SPDX-License-Identifier: Apache-2.0
package ir

import (
	"fmt"

	"scriptum/internal/ast"
)

// Lower converts a checked program into IR. It assumes semantic analysis
// already ran; unknown constructs lower to no-ops rather than panic.
func Lower(program *ast.Program) *Program {
	out := &Program{Main: &Function{Name: "__main__"}}
	main := newLowerer(out.Main)
	for _, stmt := range program.Stmts {
		if fn, ok := stmt.(*ast.FuncDecl); ok {
			out.Functions = append(out.Functions, lowerFunction(fn))
			continue
		}
		main.stmt(stmt)
	}
	out.Main.RegUsed = main.nextReg
	return out
}

func lowerFunction(decl *ast.FuncDecl) *Function {
	fn := &Function{Name: decl.Name}
	for _, param := range decl.Params {
		fn.Params = append(fn.Params, param.Name)
	}
	l := newLowerer(fn)
	for _, stmt := range decl.Body.Stmts {
		l.stmt(stmt)
	}
	fn.RegUsed = l.nextReg
	return fn
}

type loopLabels struct {
	head string
	exit string
}

type lowerer struct {
	fn        *Function
	nextReg   int
	nextLabel int
	loops     []loopLabels
}

func newLowerer(fn *Function) *lowerer {
	return &lowerer{fn: fn}
}

func (l *lowerer) emit(instr Instr) {
	l.fn.Instrs = append(l.fn.Instrs, instr)
}

func (l *lowerer) reg() Reg {
	r := Reg(l.nextReg)
	l.nextReg++
	return r
}

func (l *lowerer) label(hint string) string {
	l.nextLabel++
	return fmt.Sprintf(".%s%d", hint, l.nextLabel)
}

func (l *lowerer) stmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		value := l.expr(s.Value)
		l.emit(Instr{Op: OpStore, Name: s.Name, A: value})
	case *ast.StructDecl:
		// Structs carry no runtime payload in this IR.
	case *ast.FuncDecl:
		// Nested functions are not lowered; the analyzer flags the cases
		// that matter before we get here.
	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			l.stmt(inner)
		}
	case *ast.IfStmt:
		elseLabel := l.label("else")
		endLabel := l.label("endif")
		cond := l.expr(s.Cond)
		l.emit(Instr{Op: OpBranch, A: cond, Name: elseLabel})
		l.stmt(s.Then)
		if s.Else != nil {
			l.emit(Instr{Op: OpJump, Name: endLabel})
			l.emit(Instr{Op: OpLabel, Name: elseLabel})
			l.stmt(s.Else)
			l.emit(Instr{Op: OpLabel, Name: endLabel})
		} else {
			l.emit(Instr{Op: OpLabel, Name: elseLabel})
		}
	case *ast.WhileStmt:
		head := l.label("loop")
		exit := l.label("endloop")
		l.emit(Instr{Op: OpLabel, Name: head})
		cond := l.expr(s.Cond)
		l.emit(Instr{Op: OpBranch, A: cond, Name: exit})
		l.loops = append(l.loops, loopLabels{head: head, exit: exit})
		l.stmt(s.Body)
		l.loops = l.loops[:len(l.loops)-1]
		l.emit(Instr{Op: OpJump, Name: head})
		l.emit(Instr{Op: OpLabel, Name: exit})
	case *ast.ReturnStmt:
		value := NoReg
		if s.Value != nil {
			value = l.expr(s.Value)
		}
		l.emit(Instr{Op: OpReturn, A: value})
	case *ast.BreakStmt:
		if len(l.loops) > 0 {
			l.emit(Instr{Op: OpJump, Name: l.loops[len(l.loops)-1].exit})
		}
	case *ast.ContinueStmt:
		if len(l.loops) > 0 {
			l.emit(Instr{Op: OpJump, Name: l.loops[len(l.loops)-1].head})
		}
	case *ast.AssignStmt:
		value := l.expr(s.Value)
		if target, ok := s.Target.(*ast.IdentExpr); ok {
			l.emit(Instr{Op: OpStore, Name: target.Name, A: value})
		}
	case *ast.ExprStmt:
		l.expr(s.Value)
	}
}

func (l *lowerer) expr(expr ast.Expr) Reg {
	switch e := expr.(type) {
	case nil:
		return NoReg
	case *ast.IdentExpr:
		dst := l.reg()
		l.emit(Instr{Op: OpLoad, Dst: dst, Name: e.Name})
		return dst
	case *ast.LiteralExpr:
		dst := l.reg()
		l.emit(Instr{Op: OpConst, Dst: dst, Value: e.Value})
		return dst
	case *ast.UnaryExpr:
		value := l.expr(e.Value)
		dst := l.reg()
		l.emit(Instr{Op: OpUnary, Dst: dst, A: value, Name: e.Op})
		return dst
	case *ast.BinaryExpr:
		left := l.expr(e.Left)
		right := l.expr(e.Right)
		dst := l.reg()
		l.emit(Instr{Op: OpBinary, Dst: dst, A: left, B: right, Name: e.Op})
		return dst
	case *ast.CallExpr:
		callee := l.expr(e.Callee)
		args := make([]Reg, len(e.Args))
		for i, arg := range e.Args {
			args[i] = l.expr(arg)
		}
		dst := l.reg()
		l.emit(Instr{Op: OpCall, Dst: dst, A: callee, Args: args})
		return dst
	case *ast.IndexExpr:
		target := l.expr(e.Target)
		index := l.expr(e.Index)
		dst := l.reg()
		l.emit(Instr{Op: OpIndex, Dst: dst, A: target, B: index})
		return dst
	case *ast.MemberExpr:
		target := l.expr(e.Target)
		dst := l.reg()
		l.emit(Instr{Op: OpMember, Dst: dst, A: target, Name: e.Member})
		return dst
	default:
		return NoReg
	}
}
