// SPDX-License-Identifier: Apache-2.0

// Package parser builds Scriptum syntax trees from the token stream
// produced by the table-driven lexer. Statements are parsed by recursive
// descent, expressions by Pratt precedence climbing.
package parser

import (
	"scriptum/internal/ast"
	"scriptum/token"
)

// ParseError is a syntax error with the source span of the offending token.
type ParseError struct {
	Message string
	Span    token.Span
}

// Parser consumes a token stream ending in EOF.
type Parser struct {
	tokens  []token.Token
	current int
	errors  []ParseError
}

// New creates a parser over tokens. The stream must be EOF-terminated, as
// the lexer guarantees.
func New(tokens []token.Token) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		tokens = append(tokens, token.Token{Kind: token.EOF})
	}
	return &Parser{tokens: tokens}
}

// Parse consumes the whole stream into a Program. Errors are collected, not
// fatal: the parser resynchronizes at statement boundaries so one mistake
// does not hide the rest of the file.
func (p *Parser) Parse() (*ast.Program, []ParseError) {
	program := &ast.Program{}
	for !p.isAtEnd() {
		stmt := p.parseStmt()
		if stmt != nil {
			program.Stmts = append(program.Stmts, stmt)
		}
	}
	return program, p.errors
}

// Helpers -------------------------------------------------------------------

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

// check matches on kind and, when lexeme is non-empty, the exact lexeme.
func (p *Parser) check(kind token.Kind, lexeme string) bool {
	tok := p.peek()
	if tok.Kind != kind {
		return false
	}
	return lexeme == "" || tok.Lexeme == lexeme
}

func (p *Parser) match(kind token.Kind, lexeme string) bool {
	if p.check(kind, lexeme) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) matchKeyword(word string) bool {
	return p.match(token.KEYWORD, word)
}

func (p *Parser) consume(kind token.Kind, lexeme, message string) (token.Token, bool) {
	if p.check(kind, lexeme) {
		return p.advance(), true
	}
	p.errorAtCurrent(message)
	return token.Token{Kind: kind, Span: p.peek().Span}, false
}

func (p *Parser) errorAtCurrent(message string) {
	p.errors = append(p.errors, ParseError{Message: message, Span: p.peek().Span})
}

// synchronize skips to the next statement boundary after a syntax error.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.PUNCTUATION && p.previous().Lexeme == ";" {
			return
		}
		tok := p.peek()
		if tok.Kind == token.KEYWORD {
			switch tok.Lexeme {
			case "functio", "mutabilis", "constans", "structura", "si", "dum", "redde":
				return
			}
		}
		p.advance()
	}
}

func spanBetween(start, end token.Span) token.Span {
	return token.Span{Start: start.Start, End: end.End}
}
