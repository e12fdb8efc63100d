// SPDX-License-Identifier: Apache-2.0

// Package ir lowers Scriptum syntax trees into a small linear IR: virtual
// registers, labels and conditional jumps. The IR exists to decouple later
// backends from tree shape; it performs no optimization.
package ir

import "fmt"

type Op string

const (
	OpConst  Op = "const"  // dst = literal value
	OpLoad   Op = "load"   // dst = named variable
	OpStore  Op = "store"  // named variable = src
	OpUnary  Op = "unary"  // dst = <operator> a
	OpBinary Op = "binary" // dst = a <operator> b
	OpCall   Op = "call"   // dst = callee(args...)
	OpIndex  Op = "index"  // dst = a[b]
	OpMember Op = "member" // dst = a.<name>
	OpJump   Op = "jump"   // goto label
	OpBranch Op = "branch" // if !cond goto label
	OpReturn Op = "return" // return src (or nothing)
	OpLabel  Op = "label"
)

// Reg is a virtual register index; -1 means "no register".
type Reg int

const NoReg Reg = -1

// Instr is one IR instruction. Field use depends on Op: Name carries
// variable/member/operator names and label targets, Value carries literal
// constants, Args carries call arguments.
type Instr struct {
	Op    Op
	Dst   Reg
	A     Reg
	B     Reg
	Name  string
	Value any
	Args  []Reg
}

// Function is a lowered functio (or the synthetic top-level entry).
type Function struct {
	Name    string
	Params  []string
	Instrs  []Instr
	RegUsed int
}

// Program is a whole lowered compilation unit. Main holds top-level
// statements outside any functio.
type Program struct {
	Functions []*Function
	Main      *Function
}

func (i Instr) String() string {
	switch i.Op {
	case OpConst:
		return fmt.Sprintf("r%d = const %#v", i.Dst, i.Value)
	case OpLoad:
		return fmt.Sprintf("r%d = load %s", i.Dst, i.Name)
	case OpStore:
		return fmt.Sprintf("store %s, r%d", i.Name, i.A)
	case OpUnary:
		return fmt.Sprintf("r%d = %s r%d", i.Dst, i.Name, i.A)
	case OpBinary:
		return fmt.Sprintf("r%d = r%d %s r%d", i.Dst, i.A, i.Name, i.B)
	case OpCall:
		args := ""
		for n, arg := range i.Args {
			if n > 0 {
				args += ", "
			}
			args += fmt.Sprintf("r%d", arg)
		}
		return fmt.Sprintf("r%d = call r%d (%s)", i.Dst, i.A, args)
	case OpIndex:
		return fmt.Sprintf("r%d = r%d[r%d]", i.Dst, i.A, i.B)
	case OpMember:
		return fmt.Sprintf("r%d = r%d.%s", i.Dst, i.A, i.Name)
	case OpJump:
		return "jump " + i.Name
	case OpBranch:
		return fmt.Sprintf("branch_false r%d, %s", i.A, i.Name)
	case OpReturn:
		if i.A == NoReg {
			return "return"
		}
		return fmt.Sprintf("return r%d", i.A)
	case OpLabel:
		return i.Name + ":"
	default:
		return string(i.Op)
	}
}
