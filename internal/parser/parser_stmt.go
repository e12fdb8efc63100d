// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"scriptum/internal/ast"
	"scriptum/token"
)

func (p *Parser) parseStmt() ast.Stmt {
	tok := p.peek()
	if tok.Kind == token.KEYWORD {
		switch tok.Lexeme {
		case "mutabilis", "constans":
			return p.parseVarDecl()
		case "functio":
			return p.parseFuncDecl()
		case "structura":
			return p.parseStructDecl()
		case "si":
			return p.parseIfStmt()
		case "dum":
			return p.parseWhileStmt()
		case "redde":
			return p.parseReturnStmt()
		case "frange":
			p.advance()
			p.expectSemicolon()
			return &ast.BreakStmt{Sp: tok.Span}
		case "perge":
			p.advance()
			p.expectSemicolon()
			return &ast.ContinueStmt{Sp: tok.Span}
		}
	}
	if p.check(token.DELIMITER, "{") {
		return p.parseBlock()
	}
	return p.parseSimpleStmt()
}

func (p *Parser) parseVarDecl() ast.Stmt {
	kw := p.advance()
	mutable := kw.Lexeme == "mutabilis"
	name, ok := p.consume(token.IDENTIFIER, "", "expected variable name")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.consume(token.OPERATOR, "=", "expected '=' in variable declaration"); !ok {
		p.synchronize()
		return nil
	}
	value := p.parseExpr()
	end := p.expectSemicolon()
	return &ast.VarDecl{
		Name:    name.Lexeme,
		Mutable: mutable,
		Value:   value,
		Sp:      spanBetween(kw.Span, end),
	}
}

func (p *Parser) parseFuncDecl() ast.Stmt {
	kw := p.advance()
	name, ok := p.consume(token.IDENTIFIER, "", "expected function name")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.consume(token.DELIMITER, "(", "expected '(' after function name"); !ok {
		p.synchronize()
		return nil
	}
	var params []ast.Param
	if !p.check(token.DELIMITER, ")") {
		for {
			param, ok := p.consume(token.IDENTIFIER, "", "expected parameter name")
			if !ok {
				break
			}
			params = append(params, ast.Param{Name: param.Lexeme, Sp: param.Span})
			if !p.match(token.PUNCTUATION, ",") {
				break
			}
		}
	}
	p.consume(token.DELIMITER, ")", "expected ')' after parameters")
	body := p.parseBlock()
	return &ast.FuncDecl{
		Name:   name.Lexeme,
		Params: params,
		Body:   body,
		Sp:     spanBetween(kw.Span, body.Sp),
	}
}

func (p *Parser) parseStructDecl() ast.Stmt {
	kw := p.advance()
	name, ok := p.consume(token.IDENTIFIER, "", "expected struct name")
	if !ok {
		p.synchronize()
		return nil
	}
	if _, ok := p.consume(token.DELIMITER, "{", "expected '{' after struct name"); !ok {
		p.synchronize()
		return nil
	}
	var fields []string
	for !p.check(token.DELIMITER, "}") && !p.isAtEnd() {
		field, ok := p.consume(token.IDENTIFIER, "", "expected field name")
		if !ok {
			break
		}
		fields = append(fields, field.Lexeme)
		if !p.match(token.PUNCTUATION, ",") {
			break
		}
	}
	end, _ := p.consume(token.DELIMITER, "}", "expected '}' after struct fields")
	return &ast.StructDecl{
		Name:   name.Lexeme,
		Fields: fields,
		Sp:     spanBetween(kw.Span, end.Span),
	}
}

func (p *Parser) parseBlock() *ast.BlockStmt {
	open, ok := p.consume(token.DELIMITER, "{", "expected '{'")
	if !ok {
		return &ast.BlockStmt{Sp: open.Span}
	}
	block := &ast.BlockStmt{}
	for !p.check(token.DELIMITER, "}") && !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}
	}
	end, _ := p.consume(token.DELIMITER, "}", "expected '}' to close block")
	block.Sp = spanBetween(open.Span, end.Span)
	return block
}

func (p *Parser) parseIfStmt() ast.Stmt {
	kw := p.advance()
	p.consume(token.DELIMITER, "(", "expected '(' after 'si'")
	cond := p.parseExpr()
	p.consume(token.DELIMITER, ")", "expected ')' after condition")
	then := p.parseBlock()

	stmt := &ast.IfStmt{Cond: cond, Then: then, Sp: spanBetween(kw.Span, then.Sp)}
	if p.matchKeyword("aliter") {
		if p.check(token.KEYWORD, "si") {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
		stmt.Sp = spanBetween(kw.Span, stmt.Else.Span())
	}
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	kw := p.advance()
	p.consume(token.DELIMITER, "(", "expected '(' after 'dum'")
	cond := p.parseExpr()
	p.consume(token.DELIMITER, ")", "expected ')' after condition")
	body := p.parseBlock()
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: spanBetween(kw.Span, body.Sp)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	kw := p.advance()
	stmt := &ast.ReturnStmt{Sp: kw.Span}
	if !p.check(token.PUNCTUATION, ";") {
		stmt.Value = p.parseExpr()
	}
	end := p.expectSemicolon()
	stmt.Sp = spanBetween(kw.Span, end)
	return stmt
}

// parseSimpleStmt handles assignments and expression statements, which both
// start with an expression.
func (p *Parser) parseSimpleStmt() ast.Stmt {
	start := p.peek()
	expr := p.parseExpr()
	if expr == nil {
		p.synchronize()
		return nil
	}
	if p.match(token.OPERATOR, "=") {
		if !assignable(expr) {
			p.errorAtCurrent("invalid assignment target")
		}
		value := p.parseExpr()
		end := p.expectSemicolon()
		return &ast.AssignStmt{Target: expr, Value: value, Sp: spanBetween(start.Span, end)}
	}
	end := p.expectSemicolon()
	return &ast.ExprStmt{Value: expr, Sp: spanBetween(start.Span, end)}
}

func assignable(expr ast.Expr) bool {
	switch expr.(type) {
	case *ast.IdentExpr, *ast.IndexExpr, *ast.MemberExpr:
		return true
	}
	return false
}

func (p *Parser) expectSemicolon() token.Span {
	if tok, ok := p.consume(token.PUNCTUATION, ";", "expected ';'"); ok {
		return tok.Span
	}
	return p.peek().Span
}
