package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"

	"srcsh/internal/diag"
)

// toProtocolDiagnostics converts the pipeline's own diagnostic list into
// the LSP wire shape. Diagnostics that carry no line information (many of
// the verifier's whole-program checks don't localize to a span yet) are
// anchored at the document's first line rather than dropped, so an editor
// user still sees them in the Problems panel.
func toProtocolDiagnostics(diags diag.List) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		line := d.Span.Line
		if line > 0 {
			line--
		}
		col := d.Span.Column
		if col > 0 {
			col--
		}
		out = append(out, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
				End:   protocol.Position{Line: uint32(line), Character: uint32(col + 1)},
			},
			Severity: ptrSeverity(severityFor(d.Severity)),
			Source:   ptrString("srcsh"),
			Message:  "[" + d.Code + "] " + d.Message,
		})
	}
	return out
}

func severityFor(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warn:
		return protocol.DiagnosticSeverityWarning
	default:
		return protocol.DiagnosticSeverityInformation
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity { return &s }

func ptrString(s string) *string { return &s }
