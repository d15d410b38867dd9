package lexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextToken(t *testing.T) {
	tests := []struct {
		input             string
		expectedTokenType []TokenType
		expectedLiteral   []string
	}{
		{
			"class Main {};",
			[]TokenType{CLASS, TYPEID, LBRACE, RBRACE, SEMI, EOF},
			[]string{"class", "Main", "{", "}", ";", ""},
		},
		{
			"x <- true;-- One line comment\nx <- false;",
			[]TokenType{OBJECTID, ASSIGN, BOOL_CONST, SEMI, OBJECTID, ASSIGN, BOOL_CONST, SEMI, EOF},
			[]string{"x", "<-", "true", ";", "x", "<-", "false", ";", ""},
		},
		{
			"_a <- 0; b   <- _a <= \"1\\n\";",
			[]TokenType{OBJECTID, ASSIGN, INT_CONST, SEMI, OBJECTID, ASSIGN, OBJECTID, LE, STR_CONST, SEMI, EOF},
			[]string{"_a", "<-", "0", ";", "b", "<-", "_a", "<=", "1\n", ";", ""},
		},
		{
			"let a:A in true",
			[]TokenType{LET, OBJECTID, COLON, TYPEID, IN, BOOL_CONST, EOF},
			[]string{"let", "a", ":", "A", "in", "true", ""},
		},
		{
			"case a of b:B => false; esac",
			[]TokenType{CASE, OBJECTID, OF, OBJECTID, COLON, TYPEID, DARROW, BOOL_CONST, SEMI, ESAC, EOF},
			[]string{"case", "a", "of", "b", ":", "B", "=>", "false", ";", "esac", ""},
		},
		{
			"while i <= length loop i <- i + 1 pool",
			[]TokenType{WHILE, OBJECTID, LE, OBJECTID, LOOP, OBJECTID, ASSIGN, OBJECTID, PLUS, INT_CONST, POOL, EOF},
			[]string{"while", "i", "<=", "length", "loop", "i", "<-", "i", "+", "1", "pool", ""},
		},
		{
			"class Counter inherits IO { x : Int; }",
			[]TokenType{CLASS, TYPEID, INHERITS, TYPEID, LBRACE, OBJECTID, COLON, TYPEID, SEMI, RBRACE, EOF},
			[]string{"class", "Counter", "inherits", "IO", "{", "x", ":", "Int", ";", "}", ""},
		},
		{
			"(* Nested (* comment *) still works *) x",
			[]TokenType{OBJECTID, EOF},
			[]string{"x", ""},
		},
		{
			"isvoid object",
			[]TokenType{ISVOID, OBJECTID, EOF},
			[]string{"isvoid", "object", ""},
		},
		{
			"object@Type.method(arg1, arg2)",
			[]TokenType{OBJECTID, AT, TYPEID, DOT, OBJECTID, LPAREN, OBJECTID, COMMA, OBJECTID, RPAREN, EOF},
			[]string{"object", "@", "Type", ".", "method", "(", "arg1", ",", "arg2", ")", ""},
		},
		{
			"~num",
			[]TokenType{NEG, OBJECTID, EOF},
			[]string{"~", "num", ""},
		},
		{
			"\"String with escape sequences: \\t \\n \\b \\f \\\\ \\\"\"",
			[]TokenType{STR_CONST, EOF},
			[]string{"String with escape sequences: \t \n \b \f \\ \"", ""},
		},
		{
			"SELF_TYPE method()",
			[]TokenType{SELF_TYPE, OBJECTID, LPAREN, RPAREN, EOF},
			[]string{"SELF_TYPE", "method", "(", ")", ""},
		},
		{
			"class CLASS Class clASS",
			[]TokenType{CLASS, CLASS, CLASS, CLASS, EOF},
			[]string{"class", "CLASS", "Class", "clASS", ""},
		},
		{
			"tRUE True fALSE False",
			[]TokenType{BOOL_CONST, TYPEID, BOOL_CONST, TYPEID, EOF},
			[]string{"tRUE", "True", "fALSE", "False", ""},
		},
		{
			"MyClass YourClass MYCLASS My_Class",
			[]TokenType{TYPEID, TYPEID, TYPEID, TYPEID, EOF},
			[]string{"MyClass", "YourClass", "MYCLASS", "My_Class", ""},
		},
		{
			"+-*/=<.",
			[]TokenType{PLUS, MINUS, TIMES, DIVIDE, EQ, LT, DOT, EOF},
			[]string{"+", "-", "*", "/", "=", "<", ".", ""},
		},
		{
			"a<=b+c*d/e-f",
			[]TokenType{OBJECTID, LE, OBJECTID, PLUS, OBJECTID, TIMES, OBJECTID, DIVIDE, OBJECTID, MINUS, OBJECTID, EOF},
			[]string{"a", "<=", "b", "+", "c", "*", "d", "/", "e", "-", "f", ""},
		},
		{
			"class inherits if then else fi while loop pool let in case of esac new isvoid not true false",
			[]TokenType{CLASS, INHERITS, IF, THEN, ELSE, FI, WHILE, LOOP, POOL, LET, IN, CASE, OF, ESAC, NEW, ISVOID, NOT, BOOL_CONST, BOOL_CONST, EOF},
			[]string{"class", "inherits", "if", "then", "else", "fi", "while", "loop", "pool", "let", "in", "case", "of", "esac", "new", "isvoid", "not", "true", "false", ""},
		},
		{
			"-- this is a comment\nclass Main {}; -- another comment",
			[]TokenType{CLASS, TYPEID, LBRACE, RBRACE, SEMI, EOF},
			[]string{"class", "Main", "{", "}", ";", ""},
		},
	}

	for _, tt := range tests {
		l := NewLexer(strings.NewReader(tt.input))
		for i, expTType := range tt.expectedTokenType {
			tok := l.NextToken()
			require.Equal(t, expTType, tok.Type, "[%q]: wrong type for token %d", tt.input, i)
			require.Equal(t, tt.expectedLiteral[i], tok.Literal, "[%q]: wrong literal for token %d", tt.input, i)
		}
	}
}

func TestLineColumnTracking(t *testing.T) {
	input := `class Main {
    method() : Int {
        1
    };
};`

	expected := []struct {
		tokenType TokenType
		line      int
		column    int
	}{
		{CLASS, 1, 1},
		{TYPEID, 1, 7},
		{LBRACE, 1, 12},
		{OBJECTID, 2, 5},
		{LPAREN, 2, 11},
		{RPAREN, 2, 12},
		{COLON, 2, 14},
		{TYPEID, 2, 16},
		{LBRACE, 2, 20},
		{INT_CONST, 3, 9},
		{RBRACE, 4, 5},
		{SEMI, 4, 6},
		{RBRACE, 5, 1},
		{SEMI, 5, 2},
		{EOF, 5, 3},
	}

	l := NewLexer(strings.NewReader(input))
	for i, exp := range expected {
		tok := l.NextToken()
		require.Equal(t, exp.tokenType, tok.Type, "token %d", i)
		assert.Equal(t, exp.line, tok.Line, "line of token %d", i)
		assert.Equal(t, exp.column, tok.Column, "column of token %d", i)
	}
}

func TestTokensCarryFile(t *testing.T) {
	l := NewLexerWithFile(strings.NewReader("class\n  Main"), "main.cl")

	first := l.NextToken()
	second := l.NextToken()

	assert.Equal(t, "main.cl", first.File)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "main.cl", second.File)
	assert.Equal(t, 2, second.Line)
}

func TestErrorCases(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    TokenType
		expectedMessage string
	}{
		{"\"Unterminated string\n", ERROR, "Unterminated string constant"},
		{"\"no closing quote", ERROR, "EOF in string constant"},
		{"(* Unterminated comment", ERROR, "EOF in comment"},
		{"x *) y", ERROR, "Unmatched *)"},
		{"@#$%^", ERROR, "Unexpected character"},
		{"\"String with invalid escape \\z\"", STR_CONST, "String with invalid escape z"},
	}

	for _, tt := range tests {
		l := NewLexer(strings.NewReader(tt.input))
		var tok Token
		for {
			tok = l.NextToken()
			if tok.Type == ERROR || tok.Type == EOF || tok.Type == tt.expectedType {
				break
			}
		}

		require.Equal(t, tt.expectedType, tok.Type, "[%q]", tt.input)
		assert.Contains(t, tok.Literal, tt.expectedMessage, "[%q]", tt.input)
	}
}
