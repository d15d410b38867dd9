package lexer

import (
	"fmt"
	"io"
	"strings"
	"unicode"
)

const maxStringLength = 1024

type Lexer struct {
	input  []rune
	pos    int
	line   int
	column int
	file   string

	readErr error
}

func NewLexer(r io.Reader) *Lexer {
	return NewLexerWithFile(r, "")
}

// NewLexerWithFile stamps every token with file so that positions survive
// once several sources are merged into one program.
func NewLexerWithFile(r io.Reader, file string) *Lexer {
	l := &Lexer{line: 1, column: 1, file: file}
	data, err := io.ReadAll(r)
	if err != nil {
		l.readErr = err
	}
	l.input = []rune(string(data))
	return l
}

func (l *Lexer) peek(offset int) rune {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) advance() rune {
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) newToken(t TokenType, literal string, line, col int) Token {
	return Token{Type: t, Literal: literal, File: l.file, Line: line, Column: col}
}

// skipTrivia consumes whitespace and comments. It returns an ERROR token
// when a comment is malformed.
func (l *Lexer) skipTrivia() (Token, bool) {
	for !l.atEnd() {
		ch := l.peek(0)
		switch {
		case unicode.IsSpace(ch):
			l.advance()
		case ch == '-' && l.peek(1) == '-':
			for !l.atEnd() && l.peek(0) != '\n' {
				l.advance()
			}
		case ch == '(' && l.peek(1) == '*':
			line, col := l.line, l.column
			l.advance()
			l.advance()
			depth := 1
			for depth > 0 {
				if l.atEnd() {
					return l.newToken(ERROR, "EOF in comment", line, col), true
				}
				switch {
				case l.peek(0) == '(' && l.peek(1) == '*':
					l.advance()
					l.advance()
					depth++
				case l.peek(0) == '*' && l.peek(1) == ')':
					l.advance()
					l.advance()
					depth--
				default:
					l.advance()
				}
			}
		default:
			return Token{}, false
		}
	}
	return Token{}, false
}

func (l *Lexer) NextToken() Token {
	if l.readErr != nil {
		err := l.readErr
		l.readErr = nil
		return l.newToken(ERROR, fmt.Sprintf("cannot read source: %v", err), l.line, l.column)
	}

	if tok, bad := l.skipTrivia(); bad {
		return tok
	}

	line, col := l.line, l.column
	if l.atEnd() {
		return l.newToken(EOF, "", line, col)
	}

	ch := l.peek(0)
	switch {
	case isLetter(ch):
		return l.readWord(line, col)
	case unicode.IsDigit(ch):
		start := l.pos
		for !l.atEnd() && unicode.IsDigit(l.peek(0)) {
			l.advance()
		}
		return l.newToken(INT_CONST, string(l.input[start:l.pos]), line, col)
	case ch == '"':
		return l.readString(line, col)
	}

	l.advance()
	switch ch {
	case '<':
		switch l.peek(0) {
		case '-':
			l.advance()
			return l.newToken(ASSIGN, "<-", line, col)
		case '=':
			l.advance()
			return l.newToken(LE, "<=", line, col)
		}
		return l.newToken(LT, "<", line, col)
	case '=':
		if l.peek(0) == '>' {
			l.advance()
			return l.newToken(DARROW, "=>", line, col)
		}
		return l.newToken(EQ, "=", line, col)
	case '*':
		if l.peek(0) == ')' {
			l.advance()
			return l.newToken(ERROR, "Unmatched *)", line, col)
		}
		return l.newToken(TIMES, "*", line, col)
	case '+':
		return l.newToken(PLUS, "+", line, col)
	case '-':
		return l.newToken(MINUS, "-", line, col)
	case '/':
		return l.newToken(DIVIDE, "/", line, col)
	case '~':
		return l.newToken(NEG, "~", line, col)
	case '.':
		return l.newToken(DOT, ".", line, col)
	case '@':
		return l.newToken(AT, "@", line, col)
	case ',':
		return l.newToken(COMMA, ",", line, col)
	case ':':
		return l.newToken(COLON, ":", line, col)
	case ';':
		return l.newToken(SEMI, ";", line, col)
	case '(':
		return l.newToken(LPAREN, "(", line, col)
	case ')':
		return l.newToken(RPAREN, ")", line, col)
	case '{':
		return l.newToken(LBRACE, "{", line, col)
	case '}':
		return l.newToken(RBRACE, "}", line, col)
	}
	return l.newToken(ERROR, fmt.Sprintf("Unexpected character %q", ch), line, col)
}

func isLetter(ch rune) bool {
	return ch == '_' || ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}

func (l *Lexer) readWord(line, col int) Token {
	start := l.pos
	for !l.atEnd() && (isLetter(l.peek(0)) || unicode.IsDigit(l.peek(0))) {
		l.advance()
	}
	word := string(l.input[start:l.pos])

	if word == "SELF_TYPE" {
		return l.newToken(SELF_TYPE, word, line, col)
	}
	// true and false must start lowercase; True is a type name.
	if t, ok := keywords[strings.ToLower(word)]; ok && (t != BOOL_CONST || unicode.IsLower(rune(word[0]))) {
		return l.newToken(t, word, line, col)
	}
	if unicode.IsUpper(rune(word[0])) {
		return l.newToken(TYPEID, word, line, col)
	}
	return l.newToken(OBJECTID, word, line, col)
}

func (l *Lexer) readString(line, col int) Token {
	l.advance() // opening quote

	var sb strings.Builder
	length := 0
	for {
		if l.atEnd() {
			return l.newToken(ERROR, "EOF in string constant", line, col)
		}
		ch := l.advance()
		switch ch {
		case '"':
			if length > maxStringLength {
				return l.newToken(ERROR, "String constant too long", line, col)
			}
			return l.newToken(STR_CONST, sb.String(), line, col)
		case '\n':
			return l.newToken(ERROR, "Unterminated string constant", line, col)
		case 0:
			return l.newToken(ERROR, "String contains null character", line, col)
		case '\\':
			if l.atEnd() {
				return l.newToken(ERROR, "EOF in string constant", line, col)
			}
			esc := l.advance()
			switch esc {
			case 'n':
				sb.WriteRune('\n')
			case 't':
				sb.WriteRune('\t')
			case 'b':
				sb.WriteRune('\b')
			case 'f':
				sb.WriteRune('\f')
			default:
				sb.WriteRune(esc)
			}
		default:
			sb.WriteRune(ch)
		}
		length++
	}
}
