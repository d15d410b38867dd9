package diagnostics

import (
	"bytes"
	"cool-compiler/ast"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDiagnosticString(t *testing.T) {
	tests := []struct {
		diag     Diagnostic
		expected string
	}{
		{Diagnostic{File: "a.cl", Line: 3, Message: "Undeclared identifier x"}, "a.cl:3: Undeclared identifier x"},
		{Diagnostic{Line: 0, Message: "Main class absent in program."}, "<program>:0: Main class absent in program."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.diag.String())
		assert.Equal(t, tt.expected, tt.diag.Error())
	}
}

func TestAt(t *testing.T) {
	d := At(ast.Location{File: "m.cl", Line: 7}, Feature, "Method %s has multiple definitions.", "f")

	assert.Equal(t, "m.cl", d.File)
	assert.Equal(t, 7, d.Line)
	assert.Equal(t, Feature, d.Kind)
	assert.Equal(t, "Method f has multiple definitions.", d.Message)
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	assert.False(t, c.HasErrors())
	assert.NoError(t, c.Err())

	c.Report(Diagnostic{File: "a.cl", Line: 1, Kind: Structural, Message: "first"})
	c.Report(Diagnostic{File: "a.cl", Line: 2, Kind: Type, Message: "second"})

	assert.True(t, c.HasErrors())
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []string{"a.cl:1: first", "a.cl:2: second"}, c.Strings())

	// callers get a copy
	diags := c.Diagnostics()
	diags[0].Message = "changed"
	assert.Equal(t, "first", c.Diagnostics()[0].Message)

	err := c.Err()
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "a.cl:2: second", errs[1].Error())

	c.Reset()
	assert.False(t, c.HasErrors())
	assert.Zero(t, c.Len())
}

func TestEmitter(t *testing.T) {
	var buf bytes.Buffer
	e := NewEmitter(&buf, false)

	require.NoError(t, e.Emit([]Diagnostic{
		{File: "a.cl", Line: 4, Message: "Undeclared identifier y"},
	}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "a.cl:4: Undeclared identifier y", lines[0])
	assert.Equal(t, "Compilation halted due to 1 static semantic error.", lines[1])
}

func TestEmitterNothingToSay(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEmitter(&buf, true).Emit(nil))
	assert.Empty(t, buf.String())
}

func TestEmitterColorKeepsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewEmitter(&buf, true).Emit([]Diagnostic{
		{File: "a.cl", Line: 4, Kind: Type, Message: "Undeclared identifier y"},
	}))
	assert.Contains(t, buf.String(), "Undeclared identifier y")
	assert.Contains(t, buf.String(), "a.cl:4")
}

func TestToLSP(t *testing.T) {
	params := ToLSP([]Diagnostic{
		{File: "/src/a.cl", Line: 3, Kind: Type, Message: "one"},
		{File: "/src/b.cl", Line: 1, Kind: Structural, Message: "two"},
		{File: "/src/a.cl", Line: 9, Kind: Feature, Message: "three"},
		{Line: 0, Kind: Type, Message: "Main class absent in program."},
	})

	require.Len(t, params, 2)
	assert.Equal(t, "file:///src/a.cl", string(params[0].URI))
	require.Len(t, params[0].Diagnostics, 3)
	assert.Equal(t, uint32(2), params[0].Diagnostics[0].Range.Start.Line)
	assert.Equal(t, "three", params[0].Diagnostics[1].Message)
	assert.Equal(t, uint32(0), params[0].Diagnostics[2].Range.Start.Line)
	assert.Equal(t, "type", params[0].Diagnostics[0].Code)

	assert.Equal(t, "file:///src/b.cl", string(params[1].URI))
	require.Len(t, params[1].Diagnostics, 1)
	assert.Equal(t, "two", params[1].Diagnostics[0].Message)
}

func TestTee(t *testing.T) {
	a, b := NewCollector(), NewCollector()
	r := Tee(a, b)

	r.Report(Diagnostic{Line: 1, Message: "x"})

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 1, b.Len())
}
