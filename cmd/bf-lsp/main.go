// SPDX-License-Identifier: Apache-2.0
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"brainf/internal/config"
	"brainf/internal/lsp"
)

const lsName = "brainf" // Name identifier for the language server

var (
	version = "0.0.1"        // Server version
	handler protocol.Handler // Protocol handler instance (wired up below)
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Println("Invalid configuration:", err)
		os.Exit(2)
	}

	// Logs go to BF_LOG when set; stdout belongs to the protocol
	commonlog.Configure(max(cfg.Verbosity, 1), cfg.LogPath())

	bfHandler := lsp.NewBfHandler()

	// Wire up the handler with specific LSP method implementations
	handler = protocol.Handler{
		Initialize:                     bfHandler.Initialize,
		Initialized:                    bfHandler.Initialized,
		Shutdown:                       bfHandler.Shutdown,
		SetTrace:                       bfHandler.SetTrace,
		TextDocumentDidOpen:            bfHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           bfHandler.TextDocumentDidClose,
		TextDocumentDidChange:          bfHandler.TextDocumentDidChange,
		TextDocumentHover:              bfHandler.TextDocumentHover,
		TextDocumentSemanticTokensFull: bfHandler.TextDocumentSemanticTokensFull,
	}

	// Create a new GLSP server instance
	// Parameters:
	// - handler: the protocol handler struct
	// - name: the language server name (shown to clients)
	// - debug: whether to enable internal GLSP debug logs
	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting brainf LSP server %s...", version)

	// Start the server over standard input/output (used by most editors for LSP)
	err = s.RunStdio()
	if err != nil {
		log.Println("Error starting brainf LSP server:", err)
		os.Exit(1)
	}
}
