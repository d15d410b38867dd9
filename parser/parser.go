package parser

import (
	"cool-compiler/ast"
	"cool-compiler/diagnostics"
	"cool-compiler/lexer"
	"strconv"
)

type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []diagnostics.Diagnostic

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedences from loosest to tightest. Assignment is handled by the
// identifier prefix parser and always takes the rest of the expression.
const (
	_ int = iota
	LOWEST
	NOT         // not X
	LESSGREATER // < <= =
	SUM         // + -
	PRODUCT     // * /
	ISVOID      // isvoid X
	NEGATE      // ~X
	STATIC      // obj@Type.method()
	DOT         // obj.method()
)

var precedences = map[lexer.TokenType]int{
	lexer.EQ:     LESSGREATER,
	lexer.LT:     LESSGREATER,
	lexer.LE:     LESSGREATER,
	lexer.PLUS:   SUM,
	lexer.MINUS:  SUM,
	lexer.DIVIDE: PRODUCT,
	lexer.TIMES:  PRODUCT,
	lexer.AT:     STATIC,
	lexer.DOT:    DOT,
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)

	p.registerPrefix(lexer.OBJECTID, p.parseIdentifierOrAssignment)
	p.registerPrefix(lexer.INT_CONST, p.parseIntegerLiteral)
	p.registerPrefix(lexer.STR_CONST, p.parseStringLiteral)
	p.registerPrefix(lexer.BOOL_CONST, p.parseBooleanLiteral)
	p.registerPrefix(lexer.IF, p.parseIfExpression)
	p.registerPrefix(lexer.WHILE, p.parseWhileExpression)
	p.registerPrefix(lexer.NEW, p.parseNewExpression)
	p.registerPrefix(lexer.ISVOID, p.parseIsVoidExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.NOT, p.parsePrefixExpression)
	p.registerPrefix(lexer.NEG, p.parsePrefixExpression)
	p.registerPrefix(lexer.LBRACE, p.parseBlockExpression)
	p.registerPrefix(lexer.LET, p.parseLetExpression)
	p.registerPrefix(lexer.CASE, p.parseCaseExpression)

	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.DIVIDE, p.parseInfixExpression)
	p.registerInfix(lexer.TIMES, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseInfixExpression)
	p.registerInfix(lexer.LT, p.parseInfixExpression)
	p.registerInfix(lexer.LE, p.parseInfixExpression)
	p.registerInfix(lexer.AT, p.parseStaticDispatchExpression)
	p.registerInfix(lexer.DOT, p.parseDispatchExpression)

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns the syntax errors found so far as file:line: message
// strings.
func (p *Parser) Errors() []string {
	out := make([]string, 0, len(p.errors))
	for _, d := range p.errors {
		out = append(out, d.String())
	}
	return out
}

// Diagnostics returns the syntax errors found so far.
func (p *Parser) Diagnostics() []diagnostics.Diagnostic {
	return p.errors
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectAndPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

// expectTypeAndPeek accepts a type name or SELF_TYPE; which of the two is
// legal at a given position is decided during semantic analysis.
func (p *Parser) expectTypeAndPeek() bool {
	if p.peekTokenIs(lexer.TYPEID) || p.peekTokenIs(lexer.SELF_TYPE) {
		p.nextToken()
		return true
	}
	p.peekError(lexer.TYPEID)
	return false
}

func (p *Parser) errorAt(tok lexer.Token, format string, args ...interface{}) {
	loc := ast.Location{File: tok.File, Line: tok.Line}
	p.errors = append(p.errors, diagnostics.At(loc, diagnostics.Syntax, format, args...))
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekTokenIs(lexer.ERROR) {
		p.errorAt(p.peekToken, "%s", p.peekToken.Literal)
		return
	}
	p.errorAt(p.peekToken, "expected next token to be %v, got %v col %d", t, p.peekToken.Type, p.peekToken.Column)
}

func (p *Parser) currentError(t lexer.TokenType) {
	if p.curTokenIs(lexer.ERROR) {
		p.errorAt(p.curToken, "%s", p.curToken.Literal)
		return
	}
	p.errorAt(p.curToken, "expected current token to be %v, got %v col %d", t, p.curToken.Type, p.curToken.Column)
}

func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ERROR {
		p.errorAt(tok, "%s", tok.Literal)
		return
	}
	p.errorAt(tok, "unexpected %v %q at start of expression", tok.Type, tok.Literal)
}

func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}

	for !p.curTokenIs(lexer.EOF) {
		c := p.parseClass()
		if c == nil || !p.expectAndPeek(lexer.SEMI) {
			p.skipToNextClass()
			continue
		}
		prog.Classes = append(prog.Classes, c)
		p.nextToken() // move past SEMI
	}

	if len(prog.Classes) == 0 && len(p.errors) == 0 {
		p.errorAt(p.curToken, "program contains no classes")
	}
	return prog
}

func (p *Parser) skipToNextClass() {
	p.nextToken()
	for !p.curTokenIs(lexer.CLASS) && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
	}
}

func (p *Parser) parseClass() *ast.Class {
	c := &ast.Class{Token: p.curToken}

	if !p.curTokenIs(lexer.CLASS) {
		p.currentError(lexer.CLASS)
		return nil
	}
	if !p.expectAndPeek(lexer.TYPEID) {
		return nil
	}
	c.Name = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.INHERITS) {
		p.nextToken()
		if !p.expectAndPeek(lexer.TYPEID) {
			return nil
		}
		c.Parent = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	if !p.expectAndPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken() // move past LBRACE

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		feature := p.parseFeature()
		if feature == nil {
			return nil
		}
		c.Features = append(c.Features, feature)

		if !p.expectAndPeek(lexer.SEMI) {
			return nil
		}
		p.nextToken() // move past SEMI
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.currentError(lexer.RBRACE)
		return nil
	}
	return c
}

func (p *Parser) parseFeature() ast.Feature {
	if !p.curTokenIs(lexer.OBJECTID) {
		p.currentError(lexer.OBJECTID)
		return nil
	}
	if p.peekTokenIs(lexer.LPAREN) {
		if m := p.parseMethod(); m != nil {
			return m
		}
		return nil
	}
	if a := p.parseAttribute(); a != nil {
		return a
	}
	return nil
}

func (p *Parser) parseMethod() *ast.Method {
	method := &ast.Method{
		Token: p.curToken,
		Name:  &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal},
	}

	p.nextToken() // move to LPAREN
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
	} else {
		p.nextToken()
		formals := p.parseFormals()
		if formals == nil {
			return nil
		}
		method.Formals = formals
		if !p.expectAndPeek(lexer.RPAREN) {
			return nil
		}
	}

	if !p.expectAndPeek(lexer.COLON) {
		return nil
	}
	if !p.expectTypeAndPeek() {
		return nil
	}
	method.Type = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectAndPeek(lexer.LBRACE) {
		return nil
	}
	p.nextToken() // move past LBRACE

	method.Body = p.parseExpression(LOWEST)
	if method.Body == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.RBRACE) {
		return nil
	}
	return method
}

func (p *Parser) parseFormal() *ast.Formal {
	if !p.curTokenIs(lexer.OBJECTID) {
		p.currentError(lexer.OBJECTID)
		return nil
	}
	formal := &ast.Formal{
		Token: p.curToken,
		Name:  &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.expectAndPeek(lexer.COLON) {
		return nil
	}
	if !p.expectTypeAndPeek() {
		return nil
	}
	formal.Type = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}
	return formal
}

func (p *Parser) parseFormals() []*ast.Formal {
	first := p.parseFormal()
	if first == nil {
		return nil
	}
	formals := []*ast.Formal{first}
	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		p.nextToken()
		f := p.parseFormal()
		if f == nil {
			return nil
		}
		formals = append(formals, f)
	}
	return formals
}

func (p *Parser) parseAttribute() *ast.Attribute {
	attribute := &ast.Attribute{
		Token: p.curToken,
		Name:  &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.expectAndPeek(lexer.COLON) {
		return nil
	}
	if !p.expectTypeAndPeek() {
		return nil
	}
	attribute.Type = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.peekTokenIs(lexer.ASSIGN) {
		attribute.Init = &ast.NoExpr{Token: p.curToken}
		return attribute
	}
	p.nextToken()
	p.nextToken()
	attribute.Init = p.parseExpression(LOWEST)
	if attribute.Init == nil {
		return nil
	}
	return attribute
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// parseExpression leaves curToken on the last token of the expression.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	num, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.errorAt(p.curToken, "could not parse %q as integer", p.curToken.Literal)
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: num}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curToken.Literal[0] == 't'}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.RPAREN) {
		return nil
	}
	return exp
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	exp := &ast.UnaryExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}
	precedence := NEGATE
	if p.curTokenIs(lexer.NOT) {
		exp.Operator = "not"
		precedence = NOT
	}
	p.nextToken()
	exp.Right = p.parseExpression(precedence)
	if exp.Right == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	exp := &ast.BinaryExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}
	precedence := p.curPrecedence()
	p.nextToken()
	exp.Right = p.parseExpression(precedence)
	if exp.Right == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseIfExpression() ast.Expression {
	exp := &ast.IfExpression{Token: p.curToken}

	p.nextToken() // advance past IF
	if exp.Condition = p.parseExpression(LOWEST); exp.Condition == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.THEN) {
		return nil
	}

	p.nextToken() // advance past THEN
	if exp.Consequence = p.parseExpression(LOWEST); exp.Consequence == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.ELSE) {
		return nil
	}

	p.nextToken() // advance past ELSE
	if exp.Alternative = p.parseExpression(LOWEST); exp.Alternative == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.FI) {
		return nil
	}
	return exp
}

func (p *Parser) parseWhileExpression() ast.Expression {
	exp := &ast.WhileExpression{Token: p.curToken}

	p.nextToken() // advance past WHILE
	if exp.Condition = p.parseExpression(LOWEST); exp.Condition == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.LOOP) {
		return nil
	}

	p.nextToken() // advance past LOOP
	if exp.Body = p.parseExpression(LOWEST); exp.Body == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.POOL) {
		return nil
	}
	return exp
}

func (p *Parser) parseNewExpression() ast.Expression {
	exp := &ast.NewExpression{Token: p.curToken}
	if !p.expectTypeAndPeek() {
		return nil
	}
	exp.Type = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}
	return exp
}

func (p *Parser) parseIsVoidExpression() ast.Expression {
	exp := &ast.IsVoidExpression{Token: p.curToken}
	p.nextToken()
	if exp.Expression = p.parseExpression(ISVOID); exp.Expression == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseBlockExpression() ast.Expression {
	block := &ast.BlockExpression{Token: p.curToken}
	block.Expressions = []ast.Expression{}

	p.nextToken() // move past LBRACE
	for {
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		block.Expressions = append(block.Expressions, expr)

		if !p.expectAndPeek(lexer.SEMI) {
			return nil
		}
		p.nextToken() // move past SEMI

		if p.curTokenIs(lexer.RBRACE) {
			return block
		}
		if p.curTokenIs(lexer.EOF) {
			p.currentError(lexer.RBRACE)
			return nil
		}
	}
}

// parseArguments expects curToken on '(' and leaves it on ')'.
func (p *Parser) parseArguments() ([]ast.Expression, bool) {
	args := []ast.Expression{}
	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return args, true
	}

	p.nextToken()
	arg := p.parseExpression(LOWEST)
	if arg == nil {
		return nil, false
	}
	args = append(args, arg)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken() // move to comma
		p.nextToken() // move past comma
		if arg = p.parseExpression(LOWEST); arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expectAndPeek(lexer.RPAREN) {
		return nil, false
	}
	return args, true
}

// parseLetExpression keeps every binding of `let a:A, b:B in e` on one
// node; the checker opens one scope per binding in order.
func (p *Parser) parseLetExpression() ast.Expression {
	exp := &ast.LetExpression{Token: p.curToken}
	exp.Bindings = []*ast.LetBinding{}

	for {
		if !p.expectAndPeek(lexer.OBJECTID) {
			return nil
		}
		binding := &ast.LetBinding{
			Identifier: &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal},
		}

		if !p.expectAndPeek(lexer.COLON) {
			return nil
		}
		if !p.expectTypeAndPeek() {
			return nil
		}
		binding.Type = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

		if p.peekTokenIs(lexer.ASSIGN) {
			p.nextToken() // move to ASSIGN
			p.nextToken() // move past ASSIGN
			if binding.Init = p.parseExpression(LOWEST); binding.Init == nil {
				return nil
			}
		} else {
			binding.Init = &ast.NoExpr{Token: p.curToken}
		}

		exp.Bindings = append(exp.Bindings, binding)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken() // consume the comma
	}

	if !p.expectAndPeek(lexer.IN) {
		return nil
	}
	p.nextToken() // move past IN

	if exp.In = p.parseExpression(LOWEST); exp.In == nil {
		return nil
	}
	return exp
}

func (p *Parser) parseIdentifierOrAssignment() ast.Expression {
	identifier := &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	switch {
	case p.peekTokenIs(lexer.ASSIGN):
		assignment := &ast.Assignment{
			Token: p.curToken,
			Name:  p.curToken.Literal,
		}
		p.nextToken()
		p.nextToken()
		if assignment.Expression = p.parseExpression(LOWEST); assignment.Expression == nil {
			return nil
		}
		return assignment

	case p.peekTokenIs(lexer.LPAREN):
		self := p.curToken
		self.Literal = "self"
		exp := &ast.DispatchExpression{
			Token:    p.curToken,
			Object:   &ast.ObjectIdentifier{Token: self, Value: "self"},
			Method:   identifier,
			Implicit: true,
		}
		p.nextToken() // move to '('
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		exp.Arguments = args
		return exp
	}

	return identifier
}

func (p *Parser) parseDispatchExpression(object ast.Expression) ast.Expression {
	exp := &ast.DispatchExpression{
		Token:  p.curToken,
		Object: object,
	}

	if !p.expectAndPeek(lexer.OBJECTID) {
		return nil
	}
	exp.Method = &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectAndPeek(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}

func (p *Parser) parseCaseExpression() ast.Expression {
	expr := &ast.CaseExpression{Token: p.curToken}

	p.nextToken() // move past 'case'
	if expr.Expression = p.parseExpression(LOWEST); expr.Expression == nil {
		return nil
	}
	if !p.expectAndPeek(lexer.OF) {
		return nil
	}

	expr.Cases = []*ast.Case{}
	for {
		if !p.expectAndPeek(lexer.OBJECTID) {
			return nil
		}
		caseNode := &ast.Case{
			Token:            p.curToken,
			ObjectIdentifier: &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal},
		}

		if !p.expectAndPeek(lexer.COLON) {
			return nil
		}
		if !p.expectTypeAndPeek() {
			return nil
		}
		caseNode.TypeIdentifier = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

		if !p.expectAndPeek(lexer.DARROW) {
			return nil
		}
		p.nextToken() // move past '=>'

		if caseNode.Body = p.parseExpression(LOWEST); caseNode.Body == nil {
			return nil
		}
		if !p.expectAndPeek(lexer.SEMI) {
			return nil
		}
		expr.Cases = append(expr.Cases, caseNode)

		if p.peekTokenIs(lexer.ESAC) {
			p.nextToken()
			return expr
		}
	}
}

func (p *Parser) parseStaticDispatchExpression(object ast.Expression) ast.Expression {
	exp := &ast.StaticDispatchExpression{
		Token:  p.curToken, // AT token
		Object: object,
	}

	if !p.expectAndPeek(lexer.TYPEID) {
		return nil
	}
	exp.StaticType = &ast.TypeIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectAndPeek(lexer.DOT) {
		return nil
	}
	if !p.expectAndPeek(lexer.OBJECTID) {
		return nil
	}
	exp.Method = &ast.ObjectIdentifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectAndPeek(lexer.LPAREN) {
		return nil
	}
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	exp.Arguments = args
	return exp
}
