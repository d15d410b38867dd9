package semant

import (
	"cool-compiler/ast"
	"cool-compiler/lexer"
)

const (
	ObjectClass = "Object"
	IOClass     = "IO"
	IntClass    = "Int"
	StringClass = "String"
	BoolClass   = "Bool"

	SelfType = "SELF_TYPE"
	selfName = "self"

	// noType is the type of an absent expression.
	noType = "_no_type"
)

// basicClasses are installed in this order ahead of any user class.
var basicClasses = []string{ObjectClass, IOClass, IntClass, StringClass, BoolClass}

// uninheritable lists the classes no user class may name as its parent.
var uninheritable = map[string]bool{
	IntClass:    true,
	StringClass: true,
	BoolClass:   true,
	SelfType:    true,
}

type formalDecl struct {
	name, typ string
}

func builtinMethod(name, ret string, formals ...formalDecl) *ast.Method {
	tok := lexer.Token{Type: lexer.OBJECTID, Literal: name}
	m := &ast.Method{
		Token: tok,
		Name:  &ast.ObjectIdentifier{Token: tok, Value: name},
		Type:  &ast.TypeIdentifier{Value: ret},
		Body:  &ast.NoExpr{},
	}
	for _, f := range formals {
		ftok := lexer.Token{Type: lexer.OBJECTID, Literal: f.name}
		m.Formals = append(m.Formals, &ast.Formal{
			Token: ftok,
			Name:  &ast.ObjectIdentifier{Token: ftok, Value: f.name},
			Type:  &ast.TypeIdentifier{Value: f.typ},
		})
	}
	return m
}

func builtinClass(name, parent string, methods ...*ast.Method) *ast.Class {
	c := &ast.Class{
		Token: lexer.Token{Type: lexer.CLASS, Literal: "class"},
		Name:  &ast.TypeIdentifier{Value: name},
	}
	if parent != "" {
		c.Parent = &ast.TypeIdentifier{Value: parent}
	}
	for _, m := range methods {
		c.Features = append(c.Features, m)
	}
	return c
}

// builtinDecls returns fresh declarations for the basic classes, in
// installation order. Their method bodies are NoExpr.
func builtinDecls() []*ast.Class {
	return []*ast.Class{
		builtinClass(ObjectClass, "",
			builtinMethod("abort", ObjectClass),
			builtinMethod("type_name", StringClass),
			builtinMethod("copy", SelfType),
		),
		builtinClass(IOClass, ObjectClass,
			builtinMethod("out_string", SelfType, formalDecl{"x", StringClass}),
			builtinMethod("out_int", SelfType, formalDecl{"x", IntClass}),
			builtinMethod("in_string", StringClass),
			builtinMethod("in_int", IntClass),
		),
		builtinClass(IntClass, ObjectClass),
		builtinClass(StringClass, ObjectClass,
			builtinMethod("length", IntClass),
			builtinMethod("concat", StringClass, formalDecl{"s", StringClass}),
			builtinMethod("substr", StringClass, formalDecl{"i", IntClass}, formalDecl{"l", IntClass}),
		),
		builtinClass(BoolClass, ObjectClass),
	}
}

func isPrimitive(t string) bool {
	return t == IntClass || t == StringClass || t == BoolClass
}
