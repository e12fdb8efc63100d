// SPDX-License-Identifier: Apache-2.0
package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"scriptum/internal/lexer"
	"scriptum/internal/parser"
	"scriptum/internal/semantic"
	"scriptum/token"
)

// ConvertLexError turns a tokenization failure into an LSP diagnostic.
// Lexing stops at the first bad character, so there is at most one.
func ConvertLexError(lexErr *lexer.Error) protocol.Diagnostic {
	line := uint32(lexErr.Line - 1)
	column := uint32(lexErr.Column - 1)
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: column},
			End:   protocol.Position{Line: line, Character: column + 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("scriptum-lexer"),
		Message:  lexErr.Error(),
	}
}

// ConvertParseErrors transforms parser errors into LSP diagnostics for IDE
// display: missing semicolons, unbalanced delimiters and the like.
func ConvertParseErrors(source string, parseErrors []parser.ParseError) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, parseErr := range parseErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    spanToRange(source, parseErr.Span),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("scriptum-parser"),
			Message:  parseErr.Message,
		})
	}
	return diagnostics
}

// ConvertSemanticErrors transforms analyzer findings into LSP diagnostics.
func ConvertSemanticErrors(source string, semanticErrors []semantic.Error) []protocol.Diagnostic {
	var diagnostics []protocol.Diagnostic
	for _, semErr := range semanticErrors {
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    spanToRange(source, semErr.Span),
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("scriptum-semantic"),
			Message:  semErr.Message,
		})
	}
	return diagnostics
}

// spanToRange converts byte-offset spans to the 0-based line/character
// positions the protocol wants.
func spanToRange(source string, span token.Span) protocol.Range {
	startLine, startCol := offsetToPosition(source, span.Start)
	endLine, endCol := offsetToPosition(source, span.End)
	if span.End <= span.Start {
		endLine, endCol = startLine, startCol+1
	}
	return protocol.Range{
		Start: protocol.Position{Line: startLine, Character: startCol},
		End:   protocol.Position{Line: endLine, Character: endCol},
	}
}

func offsetToPosition(source string, offset int) (uint32, uint32) {
	if offset > len(source) {
		offset = len(source)
	}
	if offset < 0 {
		offset = 0
	}
	prefix := source[:offset]
	line := strings.Count(prefix, "\n")
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	return uint32(line), uint32(offset - lineStart)
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
