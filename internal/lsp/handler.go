// Package lsp serves the pipeline's diagnostics over the language server
// protocol (tliron/glsp), scoped to textDocument/publishDiagnostics only:
// no completion, hover, or semantic tokens, since SrcLang's restricted
// subset has no need for rich IDE features beyond "why doesn't this
// compile/verify" in this exercise.
package lsp

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"golang.org/x/time/rate"

	"srcsh/internal/config"
	"srcsh/internal/diag"
	"srcsh/internal/pipeline"
)

// Handler implements the LSP server's text-document lifecycle: on every
// open/change it recompiles the document through the full pipeline (parse
// through verify; emission is skipped, since an editor only needs to know
// whether the program is sound, not its rendered script) and republishes
// diagnostics.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
	cfg     config.Config

	// limiter throttles recheck: editors fire DidChange on every keystroke,
	// and re-running the full pipeline on each one wastes cycles on a
	// document that's still mid-edit.
	limiter *rate.Limiter
}

func NewHandler() *Handler {
	return &Handler{
		content: make(map[string]string),
		cfg:     config.Default().WithLevel(config.LevelStrict),
		limiter: rate.NewLimiter(rate.Every(150*time.Millisecond), 1),
	}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("srcsh LSP Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("srcsh LSP Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("srcsh LSP Shutdown")
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.recheck(ctx, params.TextDocument.URI)
}

// TextDocumentDidChange re-reads the document from disk rather than
// trusting the sync event's embedded text: with TextDocumentSyncKindFull
// the editor has already written through to disk by the time most
// clients fire this notification in practice, and reading the file keeps
// this handler from depending on which of glsp's several
// TextDocumentContentChangeEvent payload shapes the client sent.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.recheck(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(string(params.TextDocument.URI))
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.content, path)
	h.mu.Unlock()
	return nil
}

func (h *Handler) recheck(ctx *glsp.Context, uri protocol.DocumentUri) error {
	if err := h.limiter.Wait(context.Background()); err != nil {
		return err
	}

	path, err := uriToPath(string(uri))
	if err != nil {
		return err
	}
	diags, err := h.diagnosticsForPath(path)
	if err != nil {
		return err
	}
	sendDiagnostics(ctx, uri, toProtocolDiagnostics(diags))
	return nil
}

// diagnosticsForPath reads path from disk and runs it through the
// pipeline as far as verification. Split out from recheck so it can be
// exercised directly without a live glsp.Context.
func (h *Handler) diagnosticsForPath(path string) (diag.List, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := string(data)

	h.mu.Lock()
	h.content[path] = text
	h.mu.Unlock()

	r := pipeline.Compile(path, text, h.cfg)
	r.Verify(h.cfg)
	return r.Diags, nil
}

func sendDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
