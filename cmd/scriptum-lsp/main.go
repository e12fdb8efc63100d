// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"scriptum/internal/lsp"
)

const lsName = "scriptum"

var handler protocol.Handler

func main() {
	commonlog.Configure(1, nil)

	scriptumHandler, err := lsp.NewScriptumHandler()
	if err != nil {
		log.Println("Failed to start Scriptum LSP server:", err)
		os.Exit(1)
	}

	handler = protocol.Handler{
		Initialize:            scriptumHandler.Initialize,
		Initialized:           scriptumHandler.Initialized,
		Shutdown:              scriptumHandler.Shutdown,
		SetTrace:              scriptumHandler.SetTrace,
		TextDocumentDidOpen:   scriptumHandler.TextDocumentDidOpen,
		TextDocumentDidClose:  scriptumHandler.TextDocumentDidClose,
		TextDocumentDidChange: scriptumHandler.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Println("Starting Scriptum LSP server...")

	if err := s.RunStdio(); err != nil {
		log.Println("Error running Scriptum LSP server:", err)
		os.Exit(1)
	}
}
