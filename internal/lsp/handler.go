// SPDX-License-Identifier: Apache-2.0

// Package lsp serves Scriptum diagnostics over the Language Server Protocol.
// The server keeps a per-document content cache, re-runs the lexer, parser
// and analyzer on every change, and publishes the combined findings.
package lsp

import (
	"fmt"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"scriptum/internal/automata"
	"scriptum/internal/lexer"
	"scriptum/internal/parser"
	"scriptum/internal/semantic"
)

// ScriptumHandler implements the LSP server handlers for Scriptum.
type ScriptumHandler struct {
	mu      sync.RWMutex
	content map[protocol.DocumentUri]string
	lexer   *lexer.Lexer
}

// NewScriptumHandler builds the handler, constructing the lexer tables
// in-process so the server has no on-disk table dependency.
func NewScriptumHandler() (*ScriptumHandler, error) {
	table, _, err := lexer.BuildTable(lexer.TokenPatterns(), automata.Limits{})
	if err != nil {
		return nil, fmt.Errorf("failed to build lexer tables: %w", err)
	}
	lx, err := lexer.NewFromTable(table, lexer.Config{})
	if err != nil {
		return nil, err
	}
	return &ScriptumHandler{
		content: make(map[protocol.DocumentUri]string),
		lexer:   lx,
	}, nil
}

// Initialize responds to the client's initialize request and advertises the
// server's capabilities.
func (h *ScriptumHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *ScriptumHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *ScriptumHandler) Shutdown(ctx *glsp.Context) error {
	return nil
}

func (h *ScriptumHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor.
func (h *ScriptumHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	h.content[uri] = params.TextDocument.Text
	h.mu.Unlock()

	h.publish(ctx, uri, params.TextDocument.Text)
	return nil
}

// TextDocumentDidChange handles full-document change notifications. The
// server advertises full sync, so the last change event carries the whole
// new content.
func (h *ScriptumHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	var text string
	ok := false
	for _, change := range params.ContentChanges {
		if whole, isWhole := change.(protocol.TextDocumentContentChangeEventWhole); isWhole {
			text = whole.Text
			ok = true
		}
	}
	if !ok {
		return fmt.Errorf("expected full-document change for %s", uri)
	}

	h.mu.Lock()
	h.content[uri] = text
	h.mu.Unlock()

	h.publish(ctx, uri, text)
	return nil
}

// TextDocumentDidClose drops the cached content and clears diagnostics.
func (h *ScriptumHandler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	h.mu.Lock()
	delete(h.content, uri)
	h.mu.Unlock()

	sendDiagnosticNotification(ctx, uri, []protocol.Diagnostic{})
	return nil
}

// publish runs the full front end over the document and sends whatever it
// finds. An empty slice clears stale diagnostics on the client side.
func (h *ScriptumHandler) publish(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := h.analyze(text)
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}
	sendDiagnosticNotification(ctx, uri, diagnostics)
}

func (h *ScriptumHandler) analyze(text string) []protocol.Diagnostic {
	tokens, err := h.lexer.Tokenize(text)
	if err != nil {
		if lexErr, ok := err.(*lexer.Error); ok {
			return []protocol.Diagnostic{ConvertLexError(lexErr)}
		}
		return nil
	}

	var diagnostics []protocol.Diagnostic

	program, parseErrors := parser.New(tokens).Parse()
	diagnostics = append(diagnostics, ConvertParseErrors(text, parseErrors)...)

	if len(parseErrors) == 0 {
		semanticErrors := semantic.NewAnalyzer().Analyze(program)
		diagnostics = append(diagnostics, ConvertSemanticErrors(text, semanticErrors)...)
	}

	return diagnostics
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
