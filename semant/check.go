package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
)

// checker carries the state of one Check Pass.
type checker struct {
	graph    *ClassGraph
	reporter diagnostics.Reporter
	scope    *ScopeTable

	types      map[ast.Expression]string
	signatures map[*ast.Method]*Signature

	current      *ClassNode
	placeholders int

	depth    int
	maxDepth int
}

func newChecker(graph *ClassGraph, reporter diagnostics.Reporter, maxDepth int) *checker {
	return &checker{
		graph:      graph,
		reporter:   reporter,
		scope:      NewScopeTable(),
		types:      make(map[ast.Expression]string),
		signatures: make(map[*ast.Method]*Signature),
		maxDepth:   maxDepth,
	}
}

func (c *checker) report(loc ast.Location, kind diagnostics.Kind, format string, args ...interface{}) {
	c.reporter.Report(diagnostics.At(loc, kind, format, args...))
}

func (c *checker) run() {
	c.resolveFeatures()
	c.checkClasses()
	c.checkMain()
}

// checkClasses type checks class bodies from the root down. Each class
// gets a scope frame nested inside its parent's, so inherited attributes
// are visible and cannot be redeclared.
func (c *checker) checkClasses() {
	c.graph.traverse(
		func(n *ClassNode) {
			c.scope.EnterScope()
			if n.Builtin {
				return
			}
			c.current = n
			c.checkClass(n)
		},
		func(*ClassNode) {
			c.scope.ExitScope()
		},
	)
}

func (c *checker) checkClass(n *ClassNode) {
	c.scope.Insert(selfName, n.Name)

	for _, attr := range n.Decl.Attributes() {
		c.checkAttribute(attr)
	}
	for _, m := range n.Decl.Methods() {
		c.checkMethod(m)
	}
}

func (c *checker) checkAttribute(attr *ast.Attribute) {
	name := attr.Name.Value
	if name == selfName {
		c.report(attr.Pos(), diagnostics.Feature, "Attribute can't have name 'self'. Recovery by discarding this one.")
		return
	}
	if _, exists := c.scope.LookupGlobal(name); exists {
		c.report(attr.Pos(), diagnostics.Feature, "Attribute %s has been redefined. Recovery by discarding this one.", name)
		return
	}

	declared := c.declaredType(attr.Type.Value, attr.Pos())
	c.scope.Insert(name, declared)

	initType := c.typeOf(attr.Init)
	if ast.IsNoExpr(attr.Init) {
		return
	}
	if !c.graph.Conforms(initType, declared) {
		c.report(attr.Pos(), diagnostics.Type,
			"Inferred type %s of attribute %s doesn't conform to the declared %s.",
			initType, name, declared)
	}
}

func (c *checker) checkMethod(m *ast.Method) {
	sig := c.signatures[m]

	c.scope.EnterScope()
	defer c.scope.ExitScope()

	for i, f := range m.Formals {
		param := sig.Params[i]
		if _, dup := c.scope.LookupLocal(param.Name); dup {
			c.report(f.Pos(), diagnostics.Feature, "Formal %s has multiple declarations.", param.Name)
			continue
		}
		c.scope.Insert(param.Name, param.Type)
	}

	bodyType := c.typeOf(m.Body)
	if ast.IsNoExpr(m.Body) {
		return
	}

	declared := sig.ReturnType
	if declared == SelfType {
		declared = c.current.Name
	}
	if !c.graph.Conforms(bodyType, declared) {
		c.report(m.Pos(), diagnostics.Type,
			"Inferred return type %s doesn't conform to the declared %s", bodyType, sig.ReturnType)
	}
}

// checkMain requires a Main class with a parameterless main method,
// declared or inherited.
func (c *checker) checkMain() {
	main := c.graph.Node("Main")
	if main == nil {
		c.report(ast.Location{}, diagnostics.Type, "Main class absent in program.")
		return
	}

	sig := c.graph.ResolvedMethod(main.Name, "main")
	switch {
	case sig == nil:
		c.report(main.Decl.Pos(), diagnostics.Type, "main method absent inside Main class.")
	case sig.Arity() != 0:
		c.report(main.Decl.Pos(), diagnostics.Type, "main method in Main class has non zero arguments.")
	}
}
