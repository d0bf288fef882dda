package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_HasErrors(t *testing.T) {
	var l List
	l.Warnf(CodeUnreachableFunction, Span{Line: 1}, "unreachable")
	assert.False(t, l.HasErrors())
	l.Errorf(CodeMissingEntry, Span{Line: 2}, "missing entry")
	assert.True(t, l.HasErrors())
}

func TestList_Counts(t *testing.T) {
	var l List
	l.Errorf(CodeMissingEntry, Span{}, "e1")
	l.Warnf(CodeUnreachableFunction, Span{}, "w1")
	l.Warnf(CodeUnusedParameter, Span{}, "w2")
	l.Infof(CodeUnusedParameter, Span{}, "i1")
	errs, warns, infos := l.Counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
	assert.Equal(t, 1, infos)
}

func TestList_SortBySpanThenCode(t *testing.T) {
	l := List{
		{Code: "VAL-005", Span: Span{Line: 2, Column: 1}},
		{Code: "VAL-001", Span: Span{Line: 1, Column: 5}},
		{Code: "VAL-002", Span: Span{Line: 1, Column: 1}},
	}
	l.Sort()
	assert.Equal(t, "VAL-002", l[0].Code)
	assert.Equal(t, "VAL-001", l[1].Code)
	assert.Equal(t, "VAL-005", l[2].Code)
}

func TestList_SortByCodeOnEqualSpan(t *testing.T) {
	l := List{
		{Code: "SEC002", Span: Span{Line: 1, Column: 1}},
		{Code: "DET001", Span: Span{Line: 1, Column: 1}},
	}
	l.Sort()
	assert.Equal(t, "DET001", l[0].Code)
	assert.Equal(t, "SEC002", l[1].Code)
}

func TestSpan_String(t *testing.T) {
	assert.Equal(t, "3:4", Span{Line: 3, Column: 4}.String())
	assert.Equal(t, "f.src:3:4", Span{File: "f.src", Line: 3, Column: 4}.String())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", Info.String())
	assert.Equal(t, "warning", Warn.String())
	assert.Equal(t, "error", Error.String())
}

func TestDescribe_KnownAndUnknownCode(t *testing.T) {
	assert.Contains(t, Describe(CodeMissingEntry), "entry function")
	assert.Equal(t, "see rule documentation", Describe("NOT-A-REAL-CODE"))
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: "VAL-001", Severity: Error, Span: Span{Line: 1, Column: 1}, Message: "boom"}
	assert.Equal(t, "error[VAL-001]: boom (1:1)", d.String())
}
