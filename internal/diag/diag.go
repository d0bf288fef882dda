// Package diag is the single diagnostic type shared by every phase of the
// pipeline: validator, lowering, optimizer, verifier, emitter, and linter.
// Diagnostics are the sole output of verification and linting; nothing in
// this package mutates IR or AST.
package diag

import "fmt"

// Severity classifies how a diagnostic affects pipeline progression.
type Severity int

const (
	Info Severity = iota
	Warn
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warn:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Span locates a diagnostic in source text.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

func (s Span) String() string {
	if s.File == "" {
		return fmt.Sprintf("%d:%d", s.Line, s.Column)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// Fix is an optional structural edit a diagnostic can carry. Replacement is
// plain replacement text at Span; Transform names a higher-level rewrite
// (e.g. "mkdir-p") the purifier knows how to apply when Replacement alone
// isn't enough to express the rewrite.
type Fix struct {
	Replacement string
	Transform   string
	Unsafe      bool
}

// Diagnostic is the one shape every phase accumulates into a growable list.
type Diagnostic struct {
	Code       string
	Severity   Severity
	Span       Span
	Message    string
	Suggestion string
	Fix        *Fix
}

func (d Diagnostic) String() string {
	if d.Code != "" {
		return fmt.Sprintf("%s[%s]: %s (%s)", d.Severity, d.Code, d.Message, d.Span)
	}
	return fmt.Sprintf("%s: %s (%s)", d.Severity, d.Message, d.Span)
}

// List is a plain growable slice passed by reference down the call tree;
// each phase owns its own list and returns it rather than sharing mutable
// state across phases.
type List []Diagnostic

func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

func (l *List) Errorf(code string, span Span, format string, args ...any) {
	l.Add(Diagnostic{Code: code, Severity: Error, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (l *List) Warnf(code string, span Span, format string, args ...any) {
	l.Add(Diagnostic{Code: code, Severity: Warn, Span: span, Message: fmt.Sprintf(format, args...)})
}

func (l *List) Infof(code string, span Span, format string, args ...any) {
	l.Add(Diagnostic{Code: code, Severity: Info, Span: span, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any Error-severity diagnostic is present. Per
// the propagation policy, the pipeline advances to the next phase only when
// this is false.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Counts returns the number of diagnostics at each severity, for the CLI's
// summary line.
func (l List) Counts() (errs, warns, infos int) {
	for _, d := range l {
		switch d.Severity {
		case Error:
			errs++
		case Warn:
			warns++
		case Info:
			infos++
		}
	}
	return
}

// Sort orders diagnostics by span then code, matching the ordering
// guarantee in the concurrency & resource model: diagnostic lists are
// sorted before being returned to the caller.
func (l List) Sort() {
	sortStable(l)
}

func sortStable(l List) {
	// insertion sort: diagnostic lists are small (bounded by program size)
	// and this keeps the ordering obviously stable without pulling in
	// sort.Slice's comparator indirection for a handful of elements.
	for i := 1; i < len(l); i++ {
		for j := i; j > 0 && less(l[j], l[j-1]); j-- {
			l[j], l[j-1] = l[j-1], l[j]
		}
	}
}

func less(a, b Diagnostic) bool {
	if a.Span.File != b.Span.File {
		return a.Span.File < b.Span.File
	}
	if a.Span.Line != b.Span.Line {
		return a.Span.Line < b.Span.Line
	}
	if a.Span.Column != b.Span.Column {
		return a.Span.Column < b.Span.Column
	}
	return a.Code < b.Code
}
