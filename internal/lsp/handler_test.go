package lsp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const validSource = `
#[entry]
fn main() -> int64 {
	let name = arg(1);
	echo(name);
	return 0;
}
`

const unsafeSource = `
#[entry]
fn main() -> int64 {
	let cmd = arg(1);
	exec(cmd);
	return 0;
}
`

func writeTemp(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.src")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestDiagnosticsForPath_ValidProgramHasNoDiagnostics(t *testing.T) {
	path := writeTemp(t, validSource)
	h := NewHandler()

	diags, err := h.diagnosticsForPath(path)
	require.NoError(t, err)
	require.False(t, diags.HasErrors())
}

func TestDiagnosticsForPath_DynamicExecReportsInjectionDiagnostic(t *testing.T) {
	path := writeTemp(t, unsafeSource)
	h := NewHandler()

	diags, err := h.diagnosticsForPath(path)
	require.NoError(t, err)
	require.NotEmpty(t, diags)
}

func TestTextDocumentDidClose_ForgetsDocument(t *testing.T) {
	path := writeTemp(t, validSource)
	h := NewHandler()

	_, err := h.diagnosticsForPath(path)
	require.NoError(t, err)

	h.mu.RLock()
	_, tracked := h.content[path]
	h.mu.RUnlock()
	require.True(t, tracked)

	uri := "file://" + filepath.ToSlash(path)
	require.NoError(t, h.TextDocumentDidClose(nil, &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: protocol.DocumentUri(uri)},
	}))

	h.mu.RLock()
	_, stillTracked := h.content[path]
	h.mu.RUnlock()
	require.False(t, stillTracked)
}
