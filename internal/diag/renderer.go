package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Format selects how a Renderer serializes diagnostics.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// Renderer is the sole place in this repo that touches fatih/color: every
// phase produces plain Diagnostic values, and only the CLI boundary decides
// how to paint them.
type Renderer struct {
	out    io.Writer
	format Format
	color  bool
	width  int
}

// NewRenderer builds a Renderer that auto-detects TTY color support and
// terminal width via golang.org/x/term, falling back to plain text and a
// recorded width of 80 when output isn't a terminal (piped to a file, CI
// logs). The width is stored only; text output is not wrapped to it.
func NewRenderer(out *os.File, format Format) *Renderer {
	isTTY := term.IsTerminal(int(out.Fd()))
	width := 80
	if isTTY {
		if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 20 {
			width = w
		}
	}
	return &Renderer{out: out, format: format, color: isTTY, width: width}
}

// Render writes diagnostics to the underlying writer, sorted severity-then-
// span as required by spec.md §7.
func (r *Renderer) Render(filename, source string, diags List) error {
	sorted := make(List, len(diags))
	copy(sorted, diags)
	sorted.Sort()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Severity > sorted[j].Severity })

	switch r.format {
	case FormatJSON:
		return r.renderJSON(sorted)
	case FormatSARIF:
		return r.renderSARIF(filename, sorted)
	default:
		return r.renderText(filename, source, sorted)
	}
}

func (r *Renderer) renderText(filename, source string, diags List) error {
	lines := strings.Split(source, "\n")
	for _, d := range diags {
		r.writeOne(filename, lines, d)
	}
	errs, warns, infos := diags.Counts()
	summary := fmt.Sprintf("%d error(s), %d warning(s), %d info(s)", errs, warns, infos)
	_, err := fmt.Fprintln(r.out, summary)
	return err
}

func (r *Renderer) writeOne(filename string, lines []string, d Diagnostic) {
	bold := r.paint(color.Bold)
	dim := r.paint(color.Faint)
	levelColor := r.levelColor(d.Severity)

	if d.Code != "" {
		fmt.Fprintf(r.out, "%s[%s]: %s\n", levelColor(d.Severity.String()), d.Code, d.Message)
	} else {
		fmt.Fprintf(r.out, "%s: %s\n", levelColor(d.Severity.String()), d.Message)
	}

	lineWidth := lineNumberWidth(d.Span.Line)
	indent := strings.Repeat(" ", lineWidth)
	loc := filename
	if loc == "" {
		loc = d.Span.File
	}
	fmt.Fprintf(r.out, "%s %s %s:%d:%d\n", indent, dim("-->"), loc, d.Span.Line, d.Span.Column)
	fmt.Fprintf(r.out, "%s %s\n", indent, dim("│"))

	if d.Span.Line > 0 && d.Span.Line <= len(lines) {
		fmt.Fprintf(r.out, "%s %s %s\n", bold(pad(d.Span.Line, lineWidth)), dim("│"), lines[d.Span.Line-1])
		marker := strings.Repeat(" ", max0(d.Span.Column-1)) + levelColor(strings.Repeat("^", max1(d.Span.Length)))
		fmt.Fprintf(r.out, "%s %s %s\n", indent, dim("│"), marker)
	}

	if d.Suggestion != "" {
		help := r.paint(color.FgCyan)
		fmt.Fprintf(r.out, "%s %s %s: %s\n", indent, help("help"), help("try"), d.Suggestion)
	}
	fmt.Fprintln(r.out)
}

func (r *Renderer) levelColor(s Severity) func(string) string {
	switch s {
	case Error:
		return r.paint(color.FgRed, color.Bold)
	case Warn:
		return r.paint(color.FgYellow, color.Bold)
	default:
		return r.paint(color.FgCyan)
	}
}

func (r *Renderer) paint(attrs ...color.Attribute) func(string) string {
	if !r.color {
		return func(s string) string { return s }
	}
	sprint := color.New(attrs...).SprintFunc()
	return func(s string) string { return sprint(s) }
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		return 3
	}
	return w
}

func pad(line, width int) string {
	return fmt.Sprintf("%*d", width, line)
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func max1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

type jsonDiagnostic struct {
	Code       string `json:"code"`
	Severity   string `json:"severity"`
	File       string `json:"file"`
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (r *Renderer) renderJSON(diags List) error {
	out := make([]jsonDiagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, jsonDiagnostic{
			Code: d.Code, Severity: d.Severity.String(),
			File: d.Span.File, Line: d.Span.Line, Column: d.Span.Column,
			Message: d.Message, Suggestion: d.Suggestion,
		})
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// sarifResult/sarifLog implement the minimal subset of the SARIF 2.1.0
// schema needed to carry code, message, and location — enough for CI tools
// that consume SARIF without needing the full rule-metadata object model.
type sarifResult struct {
	RuleID  string `json:"ruleId"`
	Level   string `json:"level"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation struct {
		ArtifactLocation struct {
			URI string `json:"uri"`
		} `json:"artifactLocation"`
		Region struct {
			StartLine   int `json:"startLine"`
			StartColumn int `json:"startColumn"`
		} `json:"region"`
	} `json:"physicalLocation"`
}

func (r *Renderer) renderSARIF(filename string, diags List) error {
	results := make([]sarifResult, 0, len(diags))
	for _, d := range diags {
		res := sarifResult{RuleID: d.Code, Level: sarifLevel(d.Severity)}
		res.Message.Text = d.Message
		loc := sarifLocation{}
		uri := filename
		if uri == "" {
			uri = d.Span.File
		}
		loc.PhysicalLocation.ArtifactLocation.URI = uri
		loc.PhysicalLocation.Region.StartLine = d.Span.Line
		loc.PhysicalLocation.Region.StartColumn = d.Span.Column
		res.Locations = []sarifLocation{loc}
		results = append(results, res)
	}
	doc := map[string]any{
		"version": "2.1.0",
		"runs": []map[string]any{
			{"tool": map[string]any{"driver": map[string]any{"name": "srcsh"}}, "results": results},
		},
	}
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func sarifLevel(s Severity) string {
	switch s {
	case Error:
		return "error"
	case Warn:
		return "warning"
	default:
		return "note"
	}
}
