package compiler

import (
	"iter"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  string
	pos  int // byte offset of the next character to consume
	line int // current 1-based source line
}

func newLexer(src string) *Lexer {
	return &Lexer{src: src, pos: 0, line: 1}
}

// peek returns the byte at the current position without advancing.
func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the byte one position ahead of the current position.
func (l *Lexer) peek2() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c byte) bool  { return isIdentStart(c) || isDigit(c) }

// skipTrivia discards blanks, newline runs and comments. An opening "/*"
// without a closing "*/" is not a comment and is left for the operator rules.
func (l *Lexer) skipTrivia() {
	for l.pos < len(l.src) {
		switch c := l.peek(); {
		case c == ' ' || c == '\t':
			l.pos++
		case c == '\n':
			l.line++
			l.pos++
		case c == '/' && l.peek2() == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.pos++
			}
		case c == '/' && l.peek2() == '*':
			end := strings.Index(l.src[l.pos+2:], "*/")
			if end < 0 {
				return
			}
			stop := l.pos + 2 + end + 2
			l.line += strings.Count(l.src[l.pos:stop], "\n")
			l.pos = stop
		default:
			return
		}
	}
}

// scanIdent collects a full identifier or keyword token.
func (l *Lexer) scanIdent() Token {
	start := l.pos
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		l.pos++
	}
	lexeme := l.src[start:l.pos]
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	return Token{Type: tt, Lexeme: lexeme, Line: l.line, Pos: start}
}

// scanNumber collects the maximal run of decimal digits.
func (l *Lexer) scanNumber() (Token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.pos++
	}
	lexeme := l.src[start:l.pos]
	v, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		return Token{}, &LexicalError{
			Char:   rune(lexeme[0]),
			Line:   l.line,
			Pos:    start,
			Reason: "integer literal " + lexeme + " out of range",
		}
	}
	return Token{Type: NUMBER, Lexeme: lexeme, Int: v, Line: l.line, Pos: start}, nil
}

// scanString collects a string literal. The stored lexeme drops the quotes and
// keeps escape sequences exactly as written.
func (l *Lexer) scanString() (Token, error) {
	start, line := l.pos, l.line
	i := l.pos + 1
	for i < len(l.src) {
		switch l.src[i] {
		case '\\':
			i += 2
			continue
		case '"':
			body := l.src[start+1 : i]
			l.line += strings.Count(body, "\n")
			l.pos = i + 1
			return Token{Type: STRING, Lexeme: body, Line: line, Pos: start}, nil
		}
		i++
	}
	return Token{}, &LexicalError{Char: '"', Line: line, Pos: start}
}

// nextToken skips trivia and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	l.skipTrivia()
	if l.pos >= len(l.src) {
		return Token{Type: EOF, Line: l.line, Pos: l.pos}, nil
	}

	ch := l.peek()
	switch {
	case ch == '"':
		return l.scanString()
	case isDigit(ch):
		return l.scanNumber()
	case isIdentStart(ch):
		return l.scanIdent(), nil
	}

	start, line := l.pos, l.line
	tok := func(tt TokenType, width int) (Token, error) {
		l.pos += width
		return Token{Type: tt, Lexeme: l.src[start:l.pos], Line: line, Pos: start}, nil
	}

	// Two-character operators are tried before their one-character prefixes.
	switch ch {
	case '&':
		if l.peek2() == '&' {
			return tok(ANDAND, 2)
		}
		return tok(AND, 1)
	case '=':
		if l.peek2() == '=' {
			return tok(EQUALS, 2)
		}
		return tok(ASSIGN, 1)
	case '!':
		if l.peek2() == '=' {
			return tok(NOT_EQ, 2)
		}
	case '<':
		if l.peek2() == '=' {
			return tok(LESS_EQ, 2)
		}
		return tok(LESS, 1)
	case '>':
		if l.peek2() == '=' {
			return tok(GREATER_EQ, 2)
		}
		return tok(GREATER, 1)
	case '+':
		return tok(PLUS, 1)
	case '-':
		return tok(MINUS, 1)
	case '*':
		return tok(STAR, 1)
	case '/':
		return tok(SLASH, 1)
	case '%':
		return tok(PERCENT, 1)
	case '(':
		return tok(LPAREN, 1)
	case ')':
		return tok(RPAREN, 1)
	case '{':
		return tok(LBRACE, 1)
	case '}':
		return tok(RBRACE, 1)
	case '[':
		return tok(LBRACKET, 1)
	case ']':
		return tok(RBRACKET, 1)
	case ';':
		return tok(SEMICOLON, 1)
	case ',':
		return tok(COMMA, 1)
	case '.':
		return tok(DOT, 1)
	case '#':
		return tok(HASH, 1)
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return Token{}, &LexicalError{Char: r, Line: line, Pos: start}
}

// Tokens returns a lazy token sequence over src. Each range over the sequence
// scans from the beginning at line 1. The sequence ends after the EOF token,
// or after yielding the first error.
func Tokens(src string) iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l := newLexer(src)
		for {
			tok, err := l.nextToken()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) || tok.Type == EOF {
				return
			}
		}
	}
}

// Tokenize tokenises src and returns all tokens including the final EOF token.
// It returns a *LexicalError on the first character no rule accepts.
func Tokenize(src string) ([]Token, error) {
	var tokens []Token
	for tok, err := range Tokens(src) {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}
