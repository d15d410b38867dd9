package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
	"fmt"
)

// resolveFeatures validates every method signature and fills in each
// class's method table, parents before children so that overrides can be
// compared with what the parent already resolved.
func (c *checker) resolveFeatures() {
	c.graph.Walk(func(n *ClassNode) {
		c.current = n
		parent := c.graph.Parent(n.Name)

		var order []*Signature
		own := make(map[string]bool)
		for _, m := range n.Decl.Methods() {
			sig := c.validateSignature(n, m)
			c.signatures[m] = sig

			if own[sig.Name] {
				c.report(m.Pos(), diagnostics.Feature, "Method %s has multiple definitions.", sig.Name)
				continue
			}

			if parent != nil {
				if inherited := c.graph.ResolvedMethod(parent.Name, sig.Name); inherited != nil && !inherited.sameShape(sig) {
					// the child's definition is dropped and the inherited one stays visible
					c.report(m.Pos(), diagnostics.Feature,
						"Method signature doesn't match. Failed to override method %s inherited from %s.",
						sig.Name, inherited.Owner)
					continue
				}
			}

			own[sig.Name] = true
			order = append(order, sig)
		}
		c.graph.setMethods(n, order)
	})
}

func (c *checker) validateSignature(n *ClassNode, m *ast.Method) *Signature {
	sig := &Signature{
		Name:  m.Name.Value,
		Owner: n.Name,
		Decl:  m,
	}

	if sig.Name == selfName {
		c.report(m.Pos(), diagnostics.Feature, "Method can't have name 'self'. Recovery by setting fake id.")
		sig.Name = c.placeholder()
	}

	if m.Type.Value == SelfType {
		sig.ReturnType = SelfType
	} else {
		sig.ReturnType = c.validateType(m.Type.Value, m.Pos())
	}

	for _, f := range m.Formals {
		p := Param{Name: f.Name.Value}
		if p.Name == selfName {
			c.report(f.Pos(), diagnostics.Feature, "Formal can't have name 'self'. Recovery by setting fake id.")
			p.Name = c.placeholder()
		}
		if f.Type.Value == SelfType {
			c.report(f.Pos(), diagnostics.Feature,
				"Formal %s can't have type SELF_TYPE. Recovery by setting it to Object.", f.Name.Value)
			p.Type = ObjectClass
		} else {
			p.Type = c.validateType(f.Type.Value, f.Pos())
		}
		sig.Params = append(sig.Params, p)
	}
	return sig
}

// placeholder returns a fresh identifier that no source program can spell.
func (c *checker) placeholder() string {
	c.placeholders++
	return fmt.Sprintf("%s#%d", selfName, c.placeholders)
}

// validateType returns name when it is a known class and Object otherwise.
func (c *checker) validateType(name string, loc ast.Location) string {
	if !c.graph.HasClass(name) {
		c.report(loc, diagnostics.Type, "No type named %s. Recovery by setting it to Object.", name)
		return ObjectClass
	}
	return name
}

// declaredType resolves a type written on an attribute or let binding,
// where SELF_TYPE stands for the class being checked.
func (c *checker) declaredType(name string, loc ast.Location) string {
	if name == SelfType {
		return c.current.Name
	}
	return c.validateType(name, loc)
}
