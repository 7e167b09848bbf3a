package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable / function name
	NUMBER     // decimal integer literal
	STRING     // string literal "..."

	// Keywords
	IF      // "if"
	ELSE    // "else"
	FOR     // "for"
	WHILE   // "while"
	INT     // "int"
	FLOAT   // "float"
	CHAR    // "char"
	RETURN  // "return"
	VOID    // "void"
	MAIN    // "main"
	INCLUDE // "include"

	// Paired delimiters
	LBRACE   // {
	RBRACE   // }
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]

	// Punctuation
	DOT       // .
	SEMICOLON // ;
	COMMA     // ,
	HASH      // #

	// Arithmetic operators
	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	AND     // & (address-of)
	ANDAND  // && (lexed, never parsed)

	// Assignment / comparison  (order matters: ASSIGN before EQUALS)
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	LESS_EQ    // <=
	GREATER    // >
	GREATER_EQ // >=

	numTokenTypes
)

// tokenNames is indexed by TokenType. The names follow the kind names used in
// diagnostics and token listings, not the Go identifiers.
var tokenNames = [numTokenTypes]string{
	EOF:        "EOF",
	IDENTIFIER: "ID",
	NUMBER:     "NUMBER",
	STRING:     "STRING_LITERAL",
	IF:         "IF",
	ELSE:       "ELSE",
	FOR:        "FOR",
	WHILE:      "WHILE",
	INT:        "INT",
	FLOAT:      "FLOAT",
	CHAR:       "CHAR",
	RETURN:     "RETURN",
	VOID:       "VOID",
	MAIN:       "MAIN",
	INCLUDE:    "INCLUDE",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	LBRACKET:   "LBRACKET",
	RBRACKET:   "RBRACKET",
	DOT:        "DOT",
	SEMICOLON:  "SEMICOLON",
	COMMA:      "COMMA",
	HASH:       "HASH",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "TIMES",
	SLASH:      "DIVIDE",
	PERCENT:    "MODULO",
	AND:        "AND",
	ANDAND:     "ANDAND",
	ASSIGN:     "EQUALS",
	EQUALS:     "EQEQ",
	NOT_EQ:     "NEQ",
	LESS:       "LT",
	LESS_EQ:    "LE",
	GREATER:    "GT",
	GREATER_EQ: "GE",
}

func (tt TokenType) String() string {
	if tt >= 0 && tt < numTokenTypes {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// keywords maps reserved words to their TokenType. Matching is case-sensitive.
var keywords = map[string]TokenType{
	"if":      IF,
	"else":    ELSE,
	"for":     FOR,
	"while":   WHILE,
	"int":     INT,
	"float":   FLOAT,
	"char":    CHAR,
	"return":  RETURN,
	"void":    VOID,
	"main":    MAIN,
	"include": INCLUDE,
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // source text; string bodies without their quotes
	Int    int64  // value of a NUMBER token
	Line   int    // 1-based source line
	Pos    int    // 0-based byte offset of the first character
}

// Value returns the token's literal value: the integer for NUMBER tokens and
// the lexeme otherwise.
func (t Token) Value() any {
	if t.Type == NUMBER {
		return t.Int
	}
	return t.Lexeme
}

func (t Token) String() string {
	return fmt.Sprintf("Type: %s, Value: %v, Line: %d, Position: %d", t.Type, t.Value(), t.Line, t.Pos)
}
