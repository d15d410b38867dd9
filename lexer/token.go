package lexer

type TokenType string

type Token struct {
	Type    TokenType
	Literal string
	File    string
	Line    int
	Column  int
}

const (
	EOF   TokenType = "EOF"
	ERROR TokenType = "ERROR"

	// Literals and identifiers
	INT_CONST  TokenType = "INT_CONST"
	STR_CONST  TokenType = "STR_CONST"
	BOOL_CONST TokenType = "BOOL_CONST"
	TYPEID     TokenType = "TYPEID"
	OBJECTID   TokenType = "OBJECTID"
	SELF_TYPE  TokenType = "SELF_TYPE"

	// Keywords
	CLASS    TokenType = "CLASS"
	INHERITS TokenType = "INHERITS"
	IF       TokenType = "IF"
	THEN     TokenType = "THEN"
	ELSE     TokenType = "ELSE"
	FI       TokenType = "FI"
	WHILE    TokenType = "WHILE"
	LOOP     TokenType = "LOOP"
	POOL     TokenType = "POOL"
	LET      TokenType = "LET"
	IN       TokenType = "IN"
	CASE     TokenType = "CASE"
	OF       TokenType = "OF"
	ESAC     TokenType = "ESAC"
	NEW      TokenType = "NEW"
	ISVOID   TokenType = "ISVOID"
	NOT      TokenType = "NOT"

	// Operators and punctuation
	PLUS   TokenType = "+"
	MINUS  TokenType = "-"
	TIMES  TokenType = "*"
	DIVIDE TokenType = "/"
	NEG    TokenType = "~"
	LT     TokenType = "<"
	LE     TokenType = "<="
	EQ     TokenType = "="
	ASSIGN TokenType = "<-"
	DARROW TokenType = "=>"
	DOT    TokenType = "."
	AT     TokenType = "@"
	COMMA  TokenType = ","
	COLON  TokenType = ":"
	SEMI   TokenType = ";"
	LPAREN TokenType = "("
	RPAREN TokenType = ")"
	LBRACE TokenType = "{"
	RBRACE TokenType = "}"
)

// keywords are matched case-insensitively.
var keywords = map[string]TokenType{
	"class":    CLASS,
	"inherits": INHERITS,
	"if":       IF,
	"then":     THEN,
	"else":     ELSE,
	"fi":       FI,
	"while":    WHILE,
	"loop":     LOOP,
	"pool":     POOL,
	"let":      LET,
	"in":       IN,
	"case":     CASE,
	"of":       OF,
	"esac":     ESAC,
	"new":      NEW,
	"isvoid":   ISVOID,
	"not":      NOT,
	"true":     BOOL_CONST,
	"false":    BOOL_CONST,
}
