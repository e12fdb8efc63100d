// SPDX-License-Identifier: Apache-2.0
package parser

import (
	"scriptum/internal/ast"
	"scriptum/token"
)

var binaryPrecedence = map[string]int{
	"??": 1, "?:": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "!=": 4, "===": 4, "!==": 4,
	"<": 5, "<=": 5, ">": 5, ">=": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
	"**": 8,
}

func (p *Parser) parseExpr() ast.Expr {
	return p.parsePrattExpr(0)
}

func (p *Parser) parsePrattExpr(minPrec int) ast.Expr {
	expr := p.parsePrefixExpr()
	if expr == nil {
		return nil
	}

	for {
		tok := p.peek()
		if tok.Kind != token.OPERATOR {
			break
		}
		prec, ok := binaryPrecedence[tok.Lexeme]
		if !ok || prec < minPrec {
			break
		}
		p.advance()
		// '**' associates to the right; everything else to the left.
		next := prec + 1
		if tok.Lexeme == "**" {
			next = prec
		}
		right := p.parsePrattExpr(next)
		if right == nil {
			return expr
		}
		expr = &ast.BinaryExpr{
			Op:    tok.Lexeme,
			Left:  expr,
			Right: right,
			Sp:    spanBetween(expr.Span(), right.Span()),
		}
	}
	return expr
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	if p.match(token.OPERATOR, "-") || p.match(token.OPERATOR, "!") {
		op := p.previous()
		value := p.parsePrefixExpr()
		if value == nil {
			return nil
		}
		return &ast.UnaryExpr{
			Op:    op.Lexeme,
			Value: value,
			Sp:    spanBetween(op.Span, value.Span()),
		}
	}
	return p.parsePostfixExpr()
}

func (p *Parser) parsePostfixExpr() ast.Expr {
	expr := p.parsePrimaryExpr()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.match(token.OPERATOR, "."):
			member, ok := p.consume(token.IDENTIFIER, "", "expected member name after '.'")
			if !ok {
				return expr
			}
			expr = &ast.MemberExpr{
				Target: expr,
				Member: member.Lexeme,
				Sp:     spanBetween(expr.Span(), member.Span),
			}
		case p.match(token.DELIMITER, "("):
			var args []ast.Expr
			if !p.check(token.DELIMITER, ")") {
				for {
					arg := p.parseExpr()
					if arg == nil {
						break
					}
					args = append(args, arg)
					if !p.match(token.PUNCTUATION, ",") {
						break
					}
				}
			}
			end, _ := p.consume(token.DELIMITER, ")", "expected ')' after arguments")
			expr = &ast.CallExpr{
				Callee: expr,
				Args:   args,
				Sp:     spanBetween(expr.Span(), end.Span),
			}
		case p.match(token.DELIMITER, "["):
			index := p.parseExpr()
			end, _ := p.consume(token.DELIMITER, "]", "expected ']' after index")
			expr = &ast.IndexExpr{
				Target: expr,
				Index:  index,
				Sp:     spanBetween(expr.Span(), end.Span),
			}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	tok := p.peek()
	switch tok.Kind {
	case token.NUMBER_LITERAL, token.STRING_LITERAL:
		p.advance()
		return &ast.LiteralExpr{Kind: tok.Kind, Lexeme: tok.Lexeme, Value: tok.Value, Sp: tok.Span}
	case token.IDENTIFIER:
		p.advance()
		return &ast.IdentExpr{Name: tok.Lexeme, Sp: tok.Span}
	case token.KEYWORD:
		switch tok.Lexeme {
		case "verum", "falsum", "nullum", "indefinitum":
			p.advance()
			return &ast.LiteralExpr{Kind: token.KEYWORD, Lexeme: tok.Lexeme, Value: literalKeywordValue(tok.Lexeme), Sp: tok.Span}
		}
	case token.DELIMITER:
		if tok.Lexeme == "(" {
			p.advance()
			expr := p.parseExpr()
			p.consume(token.DELIMITER, ")", "expected ')' after expression")
			return expr
		}
	}
	p.errorAtCurrent("expected expression")
	p.advance()
	return nil
}

func literalKeywordValue(lexeme string) any {
	switch lexeme {
	case "verum":
		return true
	case "falsum":
		return false
	default:
		return nil
	}
}
