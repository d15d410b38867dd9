package ast

import (
	"cool-compiler/lexer"
	"fmt"
)

// Location is the source position reported with diagnostics.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	file := l.File
	if file == "" {
		file = "<program>"
	}
	return fmt.Sprintf("%s:%d", file, l.Line)
}

func locationOf(tok lexer.Token) Location {
	return Location{File: tok.File, Line: tok.Line}
}

type Node interface {
	TokenLiteral() string
	Pos() Location
}

// Expression is closed: only the node types in this file implement it.
type Expression interface {
	Node
	expressionNode()
}

type Feature interface {
	Node
	featureNode()
}

type TypeIdentifier struct {
	Token lexer.Token
	Value string
}

func (ti *TypeIdentifier) TokenLiteral() string { return ti.Token.Literal }
func (ti *TypeIdentifier) Pos() Location        { return locationOf(ti.Token) }

type ObjectIdentifier struct {
	Token lexer.Token
	Value string
}

func (oi *ObjectIdentifier) TokenLiteral() string { return oi.Token.Literal }
func (oi *ObjectIdentifier) Pos() Location        { return locationOf(oi.Token) }
func (oi *ObjectIdentifier) expressionNode()      {}

type Program struct {
	Classes []*Class
}

func (p *Program) TokenLiteral() string { return "" }

func (p *Program) Pos() Location {
	if len(p.Classes) == 0 {
		return Location{}
	}
	return Location{File: p.Classes[0].Token.File}
}

type Class struct {
	Token    lexer.Token
	Name     *TypeIdentifier
	Parent   *TypeIdentifier
	Features []Feature
}

func (c *Class) TokenLiteral() string { return c.Token.Literal }
func (c *Class) Pos() Location        { return locationOf(c.Token) }

// ParentName returns the declared parent, defaulting to Object.
func (c *Class) ParentName() string {
	if c.Parent == nil || c.Parent.Value == "" {
		return "Object"
	}
	return c.Parent.Value
}

func (c *Class) Attributes() []*Attribute {
	var attrs []*Attribute
	for _, f := range c.Features {
		if a, ok := f.(*Attribute); ok {
			attrs = append(attrs, a)
		}
	}
	return attrs
}

func (c *Class) Methods() []*Method {
	var methods []*Method
	for _, f := range c.Features {
		if m, ok := f.(*Method); ok {
			methods = append(methods, m)
		}
	}
	return methods
}

type Attribute struct {
	Token lexer.Token
	Name  *ObjectIdentifier
	Type  *TypeIdentifier
	Init  Expression // *NoExpr when absent
}

func (a *Attribute) TokenLiteral() string { return a.Name.Value }
func (a *Attribute) Pos() Location        { return locationOf(a.Token) }
func (a *Attribute) featureNode()         {}

type Method struct {
	Token   lexer.Token
	Name    *ObjectIdentifier
	Formals []*Formal
	Type    *TypeIdentifier
	Body    Expression
}

func (m *Method) TokenLiteral() string { return m.Name.Value }
func (m *Method) Pos() Location        { return locationOf(m.Token) }
func (m *Method) featureNode()         {}

type Formal struct {
	Token lexer.Token
	Name  *ObjectIdentifier
	Type  *TypeIdentifier
}

func (f *Formal) TokenLiteral() string { return f.Name.Value }
func (f *Formal) Pos() Location        { return locationOf(f.Token) }

// IntegerLiteral represents an integer literal in the AST.
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() Location        { return locationOf(il.Token) }

// StringLiteral represents a string literal in the AST.
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() Location        { return locationOf(sl.Token) }

// BooleanLiteral represents a boolean literal in the AST.
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() Location        { return locationOf(bl.Token) }

// UnaryExpression is either 'not' or arithmetic negation '~'.
type UnaryExpression struct {
	Token    lexer.Token
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode()      {}
func (ue *UnaryExpression) TokenLiteral() string { return ue.Token.Literal }
func (ue *UnaryExpression) Pos() Location        { return locationOf(ue.Token) }

// BinaryExpression covers arithmetic (+ - * /), relational (< <=) and equality (=).
type BinaryExpression struct {
	Token    lexer.Token
	Operator string
	Left     Expression
	Right    Expression
}

func (be *BinaryExpression) expressionNode()      {}
func (be *BinaryExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BinaryExpression) Pos() Location        { return locationOf(be.Token) }

type IfExpression struct {
	Token       lexer.Token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IfExpression) Pos() Location        { return locationOf(ie.Token) }

type WhileExpression struct {
	Token     lexer.Token
	Condition Expression
	Body      Expression
}

func (we *WhileExpression) expressionNode()      {}
func (we *WhileExpression) TokenLiteral() string { return we.Token.Literal }
func (we *WhileExpression) Pos() Location        { return locationOf(we.Token) }

type BlockExpression struct {
	Token       lexer.Token
	Expressions []Expression
}

func (be *BlockExpression) expressionNode()      {}
func (be *BlockExpression) TokenLiteral() string { return be.Token.Literal }
func (be *BlockExpression) Pos() Location        { return locationOf(be.Token) }

// LetExpression binds its bindings one after another; each binding is
// visible in the initializers of the following ones and in In.
type LetExpression struct {
	Token    lexer.Token
	Bindings []*LetBinding
	In       Expression
}

func (le *LetExpression) expressionNode()      {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LetExpression) Pos() Location        { return locationOf(le.Token) }

type LetBinding struct {
	Identifier *ObjectIdentifier
	Type       *TypeIdentifier
	Init       Expression // *NoExpr when absent
}

type NewExpression struct {
	Token lexer.Token
	Type  *TypeIdentifier
}

func (ne *NewExpression) expressionNode()      {}
func (ne *NewExpression) TokenLiteral() string { return ne.Token.Literal }
func (ne *NewExpression) Pos() Location        { return locationOf(ne.Token) }

type IsVoidExpression struct {
	Token      lexer.Token
	Expression Expression
}

func (ive *IsVoidExpression) expressionNode()      {}
func (ive *IsVoidExpression) TokenLiteral() string { return ive.Token.Literal }
func (ive *IsVoidExpression) Pos() Location        { return locationOf(ive.Token) }

type CaseExpression struct {
	Token      lexer.Token
	Expression Expression
	Cases      []*Case
}

func (ce *CaseExpression) expressionNode()      {}
func (ce *CaseExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CaseExpression) Pos() Location        { return locationOf(ce.Token) }

// Case is a single branch of a case expression.
type Case struct {
	Token            lexer.Token
	ObjectIdentifier *ObjectIdentifier
	TypeIdentifier   *TypeIdentifier
	Body             Expression
}

func (c *Case) Pos() Location { return locationOf(c.Token) }

type Assignment struct {
	Token      lexer.Token
	Name       string
	Expression Expression
}

func (a *Assignment) expressionNode()      {}
func (a *Assignment) TokenLiteral() string { return a.Token.Literal }
func (a *Assignment) Pos() Location        { return locationOf(a.Token) }

func (a *Assignment) String() string {
	return fmt.Sprintf("Assignment{Name: %s}", a.Name)
}

// DispatchExpression is a dynamic call. Calls written without a receiver
// carry a synthesized `self` object and have Implicit set.
type DispatchExpression struct {
	Token     lexer.Token
	Object    Expression
	Method    *ObjectIdentifier
	Arguments []Expression
	Implicit  bool
}

func (de *DispatchExpression) expressionNode()      {}
func (de *DispatchExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DispatchExpression) Pos() Location        { return locationOf(de.Token) }

type StaticDispatchExpression struct {
	Token      lexer.Token
	Object     Expression
	StaticType *TypeIdentifier
	Method     *ObjectIdentifier
	Arguments  []Expression
}

func (sde *StaticDispatchExpression) expressionNode()      {}
func (sde *StaticDispatchExpression) TokenLiteral() string { return sde.Token.Literal }
func (sde *StaticDispatchExpression) Pos() Location        { return locationOf(sde.Token) }

// NoExpr stands in for an absent initializer or a body-less built-in method.
type NoExpr struct {
	Token lexer.Token
}

func (ne *NoExpr) expressionNode()      {}
func (ne *NoExpr) TokenLiteral() string { return "" }
func (ne *NoExpr) Pos() Location        { return locationOf(ne.Token) }

// IsNoExpr reports whether e is absent.
func IsNoExpr(e Expression) bool {
	if e == nil {
		return true
	}
	_, ok := e.(*NoExpr)
	return ok
}
