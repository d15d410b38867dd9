package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
)

// Gather registers every class of program and builds the hierarchy.
// See Builder.Build for the meaning of ok.
func Gather(program *ast.Program, reporter diagnostics.Reporter) (*ClassGraph, bool) {
	b := NewBuilder(reporter)
	for _, class := range program.Classes {
		b.AddClass(class)
	}
	return b.Build()
}
