package diagnostics

import (
	"cool-compiler/ast"
	"fmt"
)

// Kind classifies a diagnostic by the stage of analysis that found it.
type Kind int

const (
	// Structural covers class-level defects: duplicate classes, bad or
	// missing parents, inheritance cycles.
	Structural Kind = iota
	// Feature covers attribute, formal and method declarations.
	Feature
	// Type covers everything found while typing expressions, plus the
	// Main/main checks.
	Type
	// Syntax covers lexer and parser failures.
	Syntax
)

func (k Kind) String() string {
	switch k {
	case Structural:
		return "structural"
	case Feature:
		return "feature"
	case Type:
		return "type"
	case Syntax:
		return "syntax"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

type Diagnostic struct {
	File    string
	Line    int
	Kind    Kind
	Message string
}

// At builds a diagnostic positioned at loc.
func At(loc ast.Location, kind Kind, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		File:    loc.File,
		Line:    loc.Line,
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

func (d Diagnostic) Location() ast.Location {
	return ast.Location{File: d.File, Line: d.Line}
}

// String renders the diagnostic as file:line: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Location(), d.Message)
}

func (d Diagnostic) Error() string {
	return d.String()
}

// Reporter receives diagnostics as analysis finds them.
type Reporter interface {
	Report(d Diagnostic)
}
