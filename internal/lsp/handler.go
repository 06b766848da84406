package lsp

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"brainf/grammar"
	"brainf/internal/ast"
)

var log = commonlog.GetLogger("brainf.lsp")

// Define the set of supported semantic token types (as required by the LSP spec)
var SemanticTokenTypes = []string{
	"comment",
	"operator",
	"keyword",
	"function",
	"variable",
}

// Define the set of supported semantic token modifiers
var SemanticTokenModifiers = []string{
	"declaration",
	"readonly",
}

// BfHandler implements the LSP server handlers for brainf sources
type BfHandler struct {
	mu      sync.RWMutex
	content map[string]string
	trees   map[string]*ast.Program
}

// NewBfHandler creates and returns a new BfHandler instance
func NewBfHandler() *BfHandler {
	return &BfHandler{
		content: make(map[string]string),
		trees:   make(map[string]*ast.Program),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *BfHandler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("LSP Initialize called")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true), // notify on open/close events
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
			HoverProvider: true,
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full: ptrBool(true), // support full-document semantic token requests
			},
		},
	}, nil
}

// Initialized is called after the client receives the server's capabilities and completes initialization
func (h *BfHandler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("brainf LSP initialized")
	return nil
}

// Shutdown handles the LSP shutdown request
func (h *BfHandler) Shutdown(ctx *glsp.Context) error {
	log.Info("brainf LSP shutdown")
	return nil
}

// SetTrace updates the protocol trace level requested by the client
func (h *BfHandler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen handles file open notifications from the editor
func (h *BfHandler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	log.Infof("opened file: %s", params.TextDocument.URI)

	text := params.TextDocument.Text
	diagnostics, err := h.updateTree(params.TextDocument.URI, &text)
	if err != nil {
		return fmt.Errorf("failed to update tree: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentDidClose handles file close notifications from the editor
func (h *BfHandler) TextDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed file: %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.content, path)
	delete(h.trees, path)

	return nil
}

// TextDocumentDidChange handles file change notifications from the editor.
// The server asks for full syncs, so the last whole-document change wins.
func (h *BfHandler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	log.Debugf("changed file: %s", params.TextDocument.URI)

	var text *string
	for _, change := range params.ContentChanges {
		switch whole := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			t := whole.Text
			text = &t
		case *protocol.TextDocumentContentChangeEventWhole:
			t := whole.Text
			text = &t
		}
	}

	diagnostics, err := h.updateTree(params.TextDocument.URI, text)
	if err != nil {
		return fmt.Errorf("failed to update tree: %w", err)
	}

	sendDiagnosticNotification(ctx, params.TextDocument.URI, diagnostics)
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *BfHandler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	log.Debugf("semantic tokens requested for %s", params.TextDocument.URI)

	rawURI := params.TextDocument.URI

	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	source, _, err := h.getOrUpdateTree(ctx, path, rawURI)
	if err != nil {
		return nil, err
	}

	tokens := collectSemanticTokens(source)

	var data []uint32
	var prevLine, prevStart uint32

	// Encode tokens into LSP wire format (using delta-line, delta-start compression)
	for _, token := range tokens {
		deltaLine := token.Line - prevLine
		var deltaStart uint32
		if deltaLine == 0 {
			deltaStart = token.StartChar - prevStart
		} else {
			deltaStart = token.StartChar
		}

		data = append(data, deltaLine, deltaStart, token.Length, uint32(token.TokenType), uint32(token.TokenModifiers))

		prevLine = token.Line
		prevStart = token.StartChar
	}

	return &protocol.SemanticTokens{
		Data: data,
	}, nil
}

// getOrUpdateTree returns the cached source and tree of a document, reading
// it from disk if the editor never sent it
func (h *BfHandler) getOrUpdateTree(ctx *glsp.Context, path string, rawURI protocol.DocumentUri) (string, *ast.Program, error) {
	h.mu.RLock()
	source, ok := h.content[path]
	tree := h.trees[path]
	h.mu.RUnlock()

	if !ok {
		diagnostics, err := h.updateTree(rawURI, nil)
		if err != nil {
			return "", nil, err
		}

		h.mu.RLock()
		source = h.content[path]
		tree = h.trees[path]
		h.mu.RUnlock()

		sendDiagnosticNotification(ctx, rawURI, diagnostics)
	}

	return source, tree, nil
}

// updateTree parses a document and caches its source and tree. text is the
// editor's copy of the document; nil means read the file from disk.
func (h *BfHandler) updateTree(rawURI protocol.DocumentUri, text *string) ([]protocol.Diagnostic, error) {
	path, err := uriToPath(rawURI)
	if err != nil {
		return nil, fmt.Errorf("failed to convert URI %s: %w", rawURI, err)
	}

	var source string
	if text != nil {
		source = *text
	} else {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", path, err)
		}
		source = string(content)
	}

	diagnostics := CollectDiagnostics(path, source)

	tree, err := grammar.ParseString(path, source)
	if err != nil {
		// Diagnostics already describe the failure; keep the text for tokens
		tree = nil
	}

	h.mu.Lock()
	h.content[path] = source
	h.trees[path] = tree
	h.mu.Unlock()

	return diagnostics, nil
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	// Normalize to platform-specific separators
	return filepath.FromSlash(path), nil
}

func sendDiagnosticNotification(ctx *glsp.Context, uri protocol.URI, diagnostics []protocol.Diagnostic) {
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	diagnosticsJSON, err := json.Marshal(diagnostics)
	if err != nil {
		log.Errorf("failed to marshal diagnostics: %s", err)
		return
	}
	log.Debugf("sending diagnostics: %s", diagnosticsJSON)

	if ctx == nil || ctx.Notify == nil {
		return
	}
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
