// SPDX-License-Identifier: Apache-2.0

// Command srcsh-lsp runs internal/lsp's handler over stdio, the editor
// integration surface SPEC_FULL.md §12 supplements the core spec with:
// textDocument/publishDiagnostics only, no completion or hover.
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"srcsh/internal/lsp"
)

const lsName = "srcsh"

func main() {
	commonlog.Configure(1, nil)

	h := lsp.NewHandler()
	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidChange: h.TextDocumentDidChange,
		TextDocumentDidClose:  h.TextDocumentDidClose,
	}

	s := server.NewServer(&handler, lsName, false)
	log.Println("Starting srcsh LSP server...")
	if err := s.RunStdio(); err != nil {
		log.Println("Error starting srcsh LSP server:", err)
		os.Exit(1)
	}
}
