// SPDX-License-Identifier: Apache-2.0

// Package ast defines the Scriptum syntax tree produced by the parser.
// Each tree layer (Expr, Stmt) is a closed set of variants so walking code
// can switch exhaustively.
package ast

import "scriptum/token"

type NodeType int

const (
	IDENT_EXPR NodeType = iota
	LITERAL_EXPR
	UNARY_EXPR
	BINARY_EXPR
	CALL_EXPR
	INDEX_EXPR
	MEMBER_EXPR

	VAR_DECL
	FUNC_DECL
	STRUCT_DECL
	BLOCK_STMT
	IF_STMT
	WHILE_STMT
	RETURN_STMT
	BREAK_STMT
	CONTINUE_STMT
	ASSIGN_STMT
	EXPR_STMT
)

type Node interface {
	NodeType() NodeType
	Span() token.Span
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Program is a parsed source file.
type Program struct {
	Stmts []Stmt
}

// Expressions ---------------------------------------------------------------

type IdentExpr struct {
	Name string
	Sp   token.Span
}

// LiteralExpr covers number, string and keyword literals (verum, falsum,
// nullum). Value is the decoded literal from the lexer.
type LiteralExpr struct {
	Kind   token.Kind
	Lexeme string
	Value  any
	Sp     token.Span
}

type UnaryExpr struct {
	Op    string
	Value Expr
	Sp    token.Span
}

type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Sp    token.Span
}

type CallExpr struct {
	Callee Expr
	Args   []Expr
	Sp     token.Span
}

type IndexExpr struct {
	Target Expr
	Index  Expr
	Sp     token.Span
}

type MemberExpr struct {
	Target Expr
	Member string
	Sp     token.Span
}

func (*IdentExpr) NodeType() NodeType   { return IDENT_EXPR }
func (*LiteralExpr) NodeType() NodeType { return LITERAL_EXPR }
func (*UnaryExpr) NodeType() NodeType   { return UNARY_EXPR }
func (*BinaryExpr) NodeType() NodeType  { return BINARY_EXPR }
func (*CallExpr) NodeType() NodeType    { return CALL_EXPR }
func (*IndexExpr) NodeType() NodeType   { return INDEX_EXPR }
func (*MemberExpr) NodeType() NodeType  { return MEMBER_EXPR }

func (e *IdentExpr) Span() token.Span   { return e.Sp }
func (e *LiteralExpr) Span() token.Span { return e.Sp }
func (e *UnaryExpr) Span() token.Span   { return e.Sp }
func (e *BinaryExpr) Span() token.Span  { return e.Sp }
func (e *CallExpr) Span() token.Span    { return e.Sp }
func (e *IndexExpr) Span() token.Span   { return e.Sp }
func (e *MemberExpr) Span() token.Span  { return e.Sp }

func (*IdentExpr) exprNode()   {}
func (*LiteralExpr) exprNode() {}
func (*UnaryExpr) exprNode()   {}
func (*BinaryExpr) exprNode()  {}
func (*CallExpr) exprNode()    {}
func (*IndexExpr) exprNode()   {}
func (*MemberExpr) exprNode()  {}

// Statements ----------------------------------------------------------------

// VarDecl is `mutabilis x = expr;` or `constans x = expr;`.
type VarDecl struct {
	Name    string
	Mutable bool
	Value   Expr
	Sp      token.Span
}

type Param struct {
	Name string
	Sp   token.Span
}

// FuncDecl is `functio name(params) { body }`.
type FuncDecl struct {
	Name   string
	Params []Param
	Body   *BlockStmt
	Sp     token.Span
}

// StructDecl is `structura Name { field, field }`.
type StructDecl struct {
	Name   string
	Fields []string
	Sp     token.Span
}

type BlockStmt struct {
	Stmts []Stmt
	Sp    token.Span
}

// IfStmt is `si (cond) { ... } aliter { ... }`; Else may be nil or another
// IfStmt for `aliter si` chains.
type IfStmt struct {
	Cond Expr
	Then *BlockStmt
	Else Stmt
	Sp   token.Span
}

// WhileStmt is `dum (cond) { ... }`.
type WhileStmt struct {
	Cond Expr
	Body *BlockStmt
	Sp   token.Span
}

// ReturnStmt is `redde expr?;`.
type ReturnStmt struct {
	Value Expr
	Sp    token.Span
}

type BreakStmt struct {
	Sp token.Span
}

type ContinueStmt struct {
	Sp token.Span
}

// AssignStmt is `target = value;` where target is an ident, index or
// member expression.
type AssignStmt struct {
	Target Expr
	Value  Expr
	Sp     token.Span
}

type ExprStmt struct {
	Value Expr
	Sp    token.Span
}

func (*VarDecl) NodeType() NodeType      { return VAR_DECL }
func (*FuncDecl) NodeType() NodeType     { return FUNC_DECL }
func (*StructDecl) NodeType() NodeType   { return STRUCT_DECL }
func (*BlockStmt) NodeType() NodeType    { return BLOCK_STMT }
func (*IfStmt) NodeType() NodeType       { return IF_STMT }
func (*WhileStmt) NodeType() NodeType    { return WHILE_STMT }
func (*ReturnStmt) NodeType() NodeType   { return RETURN_STMT }
func (*BreakStmt) NodeType() NodeType    { return BREAK_STMT }
func (*ContinueStmt) NodeType() NodeType { return CONTINUE_STMT }
func (*AssignStmt) NodeType() NodeType   { return ASSIGN_STMT }
func (*ExprStmt) NodeType() NodeType     { return EXPR_STMT }

func (s *VarDecl) Span() token.Span      { return s.Sp }
func (s *FuncDecl) Span() token.Span     { return s.Sp }
func (s *StructDecl) Span() token.Span   { return s.Sp }
func (s *BlockStmt) Span() token.Span    { return s.Sp }
func (s *IfStmt) Span() token.Span       { return s.Sp }
func (s *WhileStmt) Span() token.Span    { return s.Sp }
func (s *ReturnStmt) Span() token.Span   { return s.Sp }
func (s *BreakStmt) Span() token.Span    { return s.Sp }
func (s *ContinueStmt) Span() token.Span { return s.Sp }
func (s *AssignStmt) Span() token.Span   { return s.Sp }
func (s *ExprStmt) Span() token.Span     { return s.Sp }

func (*VarDecl) stmtNode()      {}
func (*FuncDecl) stmtNode()     {}
func (*StructDecl) stmtNode()   {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*AssignStmt) stmtNode()   {}
func (*ExprStmt) stmtNode()     {}
