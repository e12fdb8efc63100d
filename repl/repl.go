// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"

	"scriptum/internal/ast"
	"scriptum/internal/automata"
	"scriptum/internal/lexer"
	"scriptum/internal/parser"
)

const PROMPT = ">> "

// Start reads lines from in and prints the token stream and parsed tree
// for each one. EOF ends the session.
func Start(in io.Reader, out io.Writer) error {
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	if err != nil {
		return err
	}
	lx, err := lexer.NewFromTable(table, lexer.Config{})
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}

		tokens, err := lx.Tokenize(line)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}

		fmt.Fprintln(out, "Tokens:")
		for _, tok := range tokens {
			fmt.Fprintf(out, "  %-15s %q\n", tok.Kind, tok.Lexeme)
		}

		program, parseErrors := parser.New(tokens).Parse()
		if len(parseErrors) > 0 {
			for _, parseErr := range parseErrors {
				fmt.Fprintf(out, "parse error: %s\n", parseErr.Message)
			}
			continue
		}

		fmt.Fprintf(out, "AST:\n%s", ast.Print(program))
	}
}
