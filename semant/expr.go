package semant

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
	"fmt"
)

// typeOf synthesizes the static type of e, records it and returns it.
// Every rule recovers locally so checking always reaches the end of the
// program.
func (c *checker) typeOf(e ast.Expression) string {
	if e == nil {
		return noType
	}

	c.depth++
	defer func() { c.depth-- }()

	if c.depth > c.maxDepth {
		c.report(e.Pos(), diagnostics.Type,
			"Expression nesting exceeds the limit of %d. Recovery by setting its type to Object.", c.maxDepth)
		c.types[e] = ObjectClass
		return ObjectClass
	}

	t := c.synthesize(e)
	c.types[e] = t
	return t
}

func (c *checker) synthesize(e ast.Expression) string {
	switch e := e.(type) {
	case *ast.NoExpr:
		return noType
	case *ast.IntegerLiteral:
		return IntClass
	case *ast.StringLiteral:
		return StringClass
	case *ast.BooleanLiteral:
		return BoolClass
	case *ast.ObjectIdentifier:
		return c.getIdentifierType(e)
	case *ast.UnaryExpression:
		return c.getUnaryExpressionType(e)
	case *ast.BinaryExpression:
		return c.getBinaryExpressionType(e)
	case *ast.Assignment:
		return c.getAssignmentType(e)
	case *ast.BlockExpression:
		return c.getBlockExpressionType(e)
	case *ast.WhileExpression:
		return c.getWhileExpressionType(e)
	case *ast.IfExpression:
		return c.getIfExpressionType(e)
	case *ast.LetExpression:
		return c.getLetExpressionType(e)
	case *ast.NewExpression:
		return c.getNewExpressionType(e)
	case *ast.IsVoidExpression:
		c.typeOf(e.Expression)
		return BoolClass
	case *ast.CaseExpression:
		return c.getCaseExpressionType(e)
	case *ast.DispatchExpression:
		return c.getDispatchExpressionType(e)
	case *ast.StaticDispatchExpression:
		return c.getStaticDispatchExpressionType(e)
	default:
		panic(fmt.Sprintf("semant: unhandled expression %T", e))
	}
}

func (c *checker) getIdentifierType(id *ast.ObjectIdentifier) string {
	if id.Value == selfName {
		return c.current.Name
	}
	if t, ok := c.scope.LookupGlobal(id.Value); ok {
		return t
	}
	c.report(id.Pos(), diagnostics.Type, "Undeclared identifier %s", id.Value)
	return ObjectClass
}

func (c *checker) getUnaryExpressionType(ue *ast.UnaryExpression) string {
	operand := c.typeOf(ue.Right)

	switch ue.Operator {
	case "not":
		if operand != BoolClass {
			c.report(ue.Pos(), diagnostics.Type, "Argument of 'not' has type %s instead of Bool.", operand)
		}
		return BoolClass
	case "~":
		if operand != IntClass {
			c.report(ue.Pos(), diagnostics.Type, "Argument of '~' has type %s instead of Int.", operand)
		}
		return IntClass
	default:
		panic(fmt.Sprintf("semant: unknown unary operator %q", ue.Operator))
	}
}

func (c *checker) getBinaryExpressionType(be *ast.BinaryExpression) string {
	left := c.typeOf(be.Left)
	right := c.typeOf(be.Right)

	switch be.Operator {
	case "+", "-", "*", "/":
		c.checkIntOperands(be, left, right)
		return IntClass
	case "<", "<=":
		c.checkIntOperands(be, left, right)
		return BoolClass
	case "=":
		// objects of different classes compare by reference; basic
		// values only compare with their own kind
		if left != right && (isPrimitive(left) || isPrimitive(right)) {
			c.report(be.Pos(), diagnostics.Type, "Illegal comparison with a basic type.")
		}
		return BoolClass
	default:
		panic(fmt.Sprintf("semant: unknown binary operator %q", be.Operator))
	}
}

func (c *checker) checkIntOperands(be *ast.BinaryExpression, left, right string) {
	if left != IntClass || right != IntClass {
		c.report(be.Pos(), diagnostics.Type, "non-Int arguments: %s %s %s", left, be.Operator, right)
	}
}

func (c *checker) getAssignmentType(a *ast.Assignment) string {
	value := c.typeOf(a.Expression)

	if a.Name == selfName {
		c.report(a.Pos(), diagnostics.Feature, "Cannot assign to 'self'.")
		return value
	}

	declared, ok := c.scope.LookupGlobal(a.Name)
	switch {
	case !ok:
		c.report(a.Pos(), diagnostics.Type, "Assignment to undeclared variable %s", a.Name)
	case !c.graph.Conforms(value, declared):
		c.report(a.Pos(), diagnostics.Type,
			"Type %s of assigned expression does not conform to declared type %s of identifier %s.",
			value, declared, a.Name)
	}
	return value
}

func (c *checker) getBlockExpressionType(be *ast.BlockExpression) string {
	if len(be.Expressions) == 0 {
		c.report(be.Pos(), diagnostics.Type, "Block contains no expressions.")
		return ObjectClass
	}

	var last string
	for _, expr := range be.Expressions {
		last = c.typeOf(expr)
	}
	return last
}

func (c *checker) getWhileExpressionType(we *ast.WhileExpression) string {
	cond := c.typeOf(we.Condition)
	c.typeOf(we.Body)

	if cond != BoolClass {
		c.report(we.Pos(), diagnostics.Type, "Loop condition does not have type Bool.")
	}
	return ObjectClass
}

func (c *checker) getIfExpressionType(ie *ast.IfExpression) string {
	cond := c.typeOf(ie.Condition)
	consequence := c.typeOf(ie.Consequence)
	alternative := c.typeOf(ie.Alternative)

	if cond != BoolClass {
		c.report(ie.Pos(), diagnostics.Type, "If condition does not have type Bool.")
	}
	return c.graph.LeastCommonAncestor(consequence, alternative)
}

// getLetExpressionType opens one frame per binding. An initializer is
// typed before its own name is bound, so it sees the enclosing scope and
// the earlier bindings only.
func (c *checker) getLetExpressionType(le *ast.LetExpression) string {
	opened := 0
	defer func() {
		for ; opened > 0; opened-- {
			c.scope.ExitScope()
		}
	}()

	for _, b := range le.Bindings {
		initType := c.typeOf(b.Init)

		c.scope.EnterScope()
		opened++

		name := b.Identifier.Value
		if name == selfName {
			c.report(b.Identifier.Pos(), diagnostics.Feature, "'self' cannot be bound in a let expression.")
			continue
		}

		declared := b.Type.Value
		switch {
		case declared == SelfType:
			declared = c.current.Name
		case !c.graph.HasClass(declared):
			c.report(b.Identifier.Pos(), diagnostics.Type, "'let' used with undefined class %s", declared)
			declared = ObjectClass
		}
		c.scope.Insert(name, declared)

		if !ast.IsNoExpr(b.Init) && !c.graph.Conforms(initType, declared) {
			c.report(b.Identifier.Pos(), diagnostics.Type,
				"Type %s of assigned expression does not conform to declared type %s of identifier %s.",
				initType, declared, name)
		}
	}

	return c.typeOf(le.In)
}

func (c *checker) getNewExpressionType(ne *ast.NewExpression) string {
	name := ne.Type.Value
	if name == SelfType {
		return c.current.Name
	}
	if !c.graph.HasClass(name) {
		c.report(ne.Pos(), diagnostics.Type, "'new' used with undefined class %s.", name)
		return ObjectClass
	}
	return name
}

func (c *checker) getCaseExpressionType(ce *ast.CaseExpression) string {
	c.typeOf(ce.Expression)

	var result string
	seen := make(map[string]bool)
	for i, branch := range ce.Cases {
		c.scope.EnterScope()

		branchType := branch.TypeIdentifier.Value
		if branchType == SelfType {
			c.report(branch.Pos(), diagnostics.Type,
				"Identifier %s declared with type SELF_TYPE in case branch. Recovery by setting it to Object.",
				branch.ObjectIdentifier.Value)
			branchType = ObjectClass
		} else {
			branchType = c.validateType(branchType, branch.Pos())
		}

		if branch.ObjectIdentifier.Value == selfName {
			c.report(branch.Pos(), diagnostics.Feature, "'self' bound in 'case'.")
		} else {
			c.scope.Insert(branch.ObjectIdentifier.Value, branchType)
		}

		bodyType := c.typeOf(branch.Body)
		c.scope.ExitScope()

		if seen[branchType] {
			c.report(branch.Pos(), diagnostics.Type, "Duplicate branch %s in case statement.", branchType)
		}
		seen[branchType] = true

		if i == 0 {
			result = bodyType
		} else {
			result = c.graph.LeastCommonAncestor(result, bodyType)
		}
	}

	if result == "" {
		c.report(ce.Pos(), diagnostics.Type, "Case expression has no branches.")
		return ObjectClass
	}
	return result
}

func (c *checker) typeArguments(args []ast.Expression) []string {
	types := make([]string, len(args))
	for i, arg := range args {
		types[i] = c.typeOf(arg)
	}
	return types
}

// checkArguments compares actual argument types with the formals of sig.
// A count mismatch is reported once and the individual arguments are
// not compared.
func (c *checker) checkArguments(loc ast.Location, sig *Signature, actuals []string) {
	if len(actuals) != sig.Arity() {
		c.report(loc, diagnostics.Type, "Method %s called with wrong number of arguments.", sig.Name)
		return
	}
	for i, param := range sig.Params {
		if !c.graph.Conforms(actuals[i], param.Type) {
			c.report(loc, diagnostics.Type, "Type mismatch for arg %s. Formal : %s, Actual : %s",
				param.Name, param.Type, actuals[i])
		}
	}
}

// returnType resolves a SELF_TYPE result to the static type of the
// receiver.
func returnType(sig *Signature, receiver string) string {
	if sig.ReturnType == SelfType {
		return receiver
	}
	return sig.ReturnType
}

func (c *checker) getDispatchExpressionType(de *ast.DispatchExpression) string {
	receiver := c.typeOf(de.Object)
	actuals := c.typeArguments(de.Arguments)

	sig := c.graph.ResolvedMethod(receiver, de.Method.Value)
	if sig == nil {
		c.report(de.Pos(), diagnostics.Type, "Method %s(...) not a feature of class %s", de.Method.Value, receiver)
		return ObjectClass
	}

	c.checkArguments(de.Pos(), sig, actuals)
	return returnType(sig, receiver)
}

func (c *checker) getStaticDispatchExpressionType(sde *ast.StaticDispatchExpression) string {
	receiver := c.typeOf(sde.Object)
	actuals := c.typeArguments(sde.Arguments)
	target := sde.StaticType.Value

	if !c.graph.HasClass(target) {
		c.report(sde.Pos(), diagnostics.Type, "Static dispatch to undefined class %s.", target)
		return ObjectClass
	}
	if !c.graph.Conforms(receiver, target) {
		c.report(sde.Pos(), diagnostics.Type, "Class %s is not an ancestor of the caller type %s", target, receiver)
		return ObjectClass
	}

	sig := c.graph.ResolvedMethod(target, sde.Method.Value)
	if sig == nil {
		c.report(sde.Pos(), diagnostics.Type, "Method %s(...) not a feature of class %s", sde.Method.Value, target)
		return ObjectClass
	}

	c.checkArguments(sde.Pos(), sig, actuals)
	return returnType(sig, receiver)
}
