package compiler

import (
	"errors"
	"reflect"
	"testing"
)

// withoutPos clears positions so the table below can focus on types, lexemes
// and lines. Positions have their own test.
func withoutPos(tokens []Token) []Token {
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		t.Pos = 0
		out[i] = t
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Token
	}{
		{
			name:  "Empty",
			input: "",
			expected: []Token{
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Operators and Punctuation",
			input: "+ - * / % & && = == != < <= > >= ; , { } ( ) [ ] . #",
			expected: []Token{
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: MINUS, Lexeme: "-", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: PERCENT, Lexeme: "%", Line: 1},
				{Type: AND, Lexeme: "&", Line: 1},
				{Type: ANDAND, Lexeme: "&&", Line: 1},
				{Type: ASSIGN, Lexeme: "=", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: NOT_EQ, Lexeme: "!=", Line: 1},
				{Type: LESS, Lexeme: "<", Line: 1},
				{Type: LESS_EQ, Lexeme: "<=", Line: 1},
				{Type: GREATER, Lexeme: ">", Line: 1},
				{Type: GREATER_EQ, Lexeme: ">=", Line: 1},
				{Type: SEMICOLON, Lexeme: ";", Line: 1},
				{Type: COMMA, Lexeme: ",", Line: 1},
				{Type: LBRACE, Lexeme: "{", Line: 1},
				{Type: RBRACE, Lexeme: "}", Line: 1},
				{Type: LPAREN, Lexeme: "(", Line: 1},
				{Type: RPAREN, Lexeme: ")", Line: 1},
				{Type: LBRACKET, Lexeme: "[", Line: 1},
				{Type: RBRACKET, Lexeme: "]", Line: 1},
				{Type: DOT, Lexeme: ".", Line: 1},
				{Type: HASH, Lexeme: "#", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Keywords and Identifiers",
			input: "int float char void if else for while return main include x _y1 Int",
			expected: []Token{
				{Type: INT, Lexeme: "int", Line: 1},
				{Type: FLOAT, Lexeme: "float", Line: 1},
				{Type: CHAR, Lexeme: "char", Line: 1},
				{Type: VOID, Lexeme: "void", Line: 1},
				{Type: IF, Lexeme: "if", Line: 1},
				{Type: ELSE, Lexeme: "else", Line: 1},
				{Type: FOR, Lexeme: "for", Line: 1},
				{Type: WHILE, Lexeme: "while", Line: 1},
				{Type: RETURN, Lexeme: "return", Line: 1},
				{Type: MAIN, Lexeme: "main", Line: 1},
				{Type: INCLUDE, Lexeme: "include", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: IDENTIFIER, Lexeme: "_y1", Line: 1},
				{Type: IDENTIFIER, Lexeme: "Int", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Numbers",
			input: "0 42 007",
			expected: []Token{
				{Type: NUMBER, Lexeme: "0", Int: 0, Line: 1},
				{Type: NUMBER, Lexeme: "42", Int: 42, Line: 1},
				{Type: NUMBER, Lexeme: "007", Int: 7, Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Comments and Lines",
			input: "x // comment\ny /* a\nb */ z\n",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 2},
				{Type: IDENTIFIER, Lexeme: "z", Line: 3},
				{Type: EOF, Lexeme: "", Line: 4},
			},
		},
		{
			name:  "Unterminated Block Comment Lexes As Operators",
			input: "/* x",
			expected: []Token{
				{Type: SLASH, Lexeme: "/", Line: 1},
				{Type: STAR, Lexeme: "*", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "String Literal",
			input: `"hello"`,
			expected: []Token{
				{Type: STRING, Lexeme: "hello", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "String Escapes Kept Raw",
			input: `"a\nb \"q\""`,
			expected: []Token{
				{Type: STRING, Lexeme: `a\nb \"q\"`, Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Multiline String Advances Line",
			input: "\"a\nb\" x",
			expected: []Token{
				{Type: STRING, Lexeme: "a\nb", Line: 1},
				{Type: IDENTIFIER, Lexeme: "x", Line: 2},
				{Type: EOF, Lexeme: "", Line: 2},
			},
		},
		{
			name:  "Longest Match",
			input: "&&&a==b",
			expected: []Token{
				{Type: ANDAND, Lexeme: "&&", Line: 1},
				{Type: AND, Lexeme: "&", Line: 1},
				{Type: IDENTIFIER, Lexeme: "a", Line: 1},
				{Type: EQUALS, Lexeme: "==", Line: 1},
				{Type: IDENTIFIER, Lexeme: "b", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
		{
			name:  "Adjacent Tokens",
			input: "x+y",
			expected: []Token{
				{Type: IDENTIFIER, Lexeme: "x", Line: 1},
				{Type: PLUS, Lexeme: "+", Line: 1},
				{Type: IDENTIFIER, Lexeme: "y", Line: 1},
				{Type: EOF, Lexeme: "", Line: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tokenize(tt.input)
			if err != nil {
				t.Fatalf("Tokenize() error = %v", err)
			}
			if !reflect.DeepEqual(withoutPos(got), tt.expected) {
				t.Errorf("Tokenize() mismatch\n got: %v\nwant: %v", got, tt.expected)
			}
		})
	}
}

func TestTokenizePositions(t *testing.T) {
	got, err := Tokenize("int x = 42;\n  y")
	if err != nil {
		t.Fatal(err)
	}
	want := []int{0, 4, 6, 8, 10, 14, 15}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(got), len(want))
	}
	for i, tok := range got {
		if tok.Pos != want[i] {
			t.Errorf("token %d (%s) pos = %d, want %d", i, tok.Type, tok.Pos, want[i])
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantChar rune
		wantLine int
		wantPos  int
		reason   bool
	}{
		{name: "Unknown Character", input: "@", wantChar: '@', wantLine: 1, wantPos: 0},
		{name: "Reported Line", input: "x\n  $", wantChar: '$', wantLine: 2, wantPos: 4},
		{name: "Lone Bang", input: "a ! b", wantChar: '!', wantLine: 1, wantPos: 2},
		{name: "Carriage Return", input: "a\r\n", wantChar: '\r', wantLine: 1, wantPos: 1},
		{name: "Unterminated String", input: "x = \"abc", wantChar: '"', wantLine: 1, wantPos: 4},
		{name: "Non ASCII", input: "é", wantChar: 'é', wantLine: 1, wantPos: 0},
		{name: "Integer Overflow", input: "99999999999999999999", wantChar: '9', wantLine: 1, wantPos: 0, reason: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Tokenize(tt.input)
			var lexErr *LexicalError
			if !errors.As(err, &lexErr) {
				t.Fatalf("expected *LexicalError, got %v", err)
			}
			if lexErr.Char != tt.wantChar || lexErr.Line != tt.wantLine || lexErr.Pos != tt.wantPos {
				t.Errorf("got char %q line %d pos %d, want %q line %d pos %d",
					lexErr.Char, lexErr.Line, lexErr.Pos, tt.wantChar, tt.wantLine, tt.wantPos)
			}
			if (lexErr.Reason != "") != tt.reason {
				t.Errorf("reason = %q", lexErr.Reason)
			}
		})
	}
}

func TestLexicalErrorMessage(t *testing.T) {
	err := &LexicalError{Char: '@', Line: 3}
	if got, want := err.Error(), "Lexical error: '@' at line 3"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTokensRestartable(t *testing.T) {
	seq := Tokens("int x;\nx = 1;")
	collect := func() []Token {
		var out []Token
		for tok, err := range seq {
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, tok)
		}
		return out
	}
	first, second := collect(), collect()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass differs\n first: %v\nsecond: %v", first, second)
	}
	if first[0].Line != 1 || first[0].Pos != 0 {
		t.Errorf("second pass did not restart: %v", second[0])
	}
	if last := first[len(first)-1]; last.Type != EOF {
		t.Errorf("last token = %v, want EOF", last)
	}
}

func TestTokensStopsAfterError(t *testing.T) {
	var n, errs int
	for _, err := range Tokens("a b @ c d") {
		n++
		if err != nil {
			errs++
		}
	}
	if n != 3 || errs != 1 {
		t.Errorf("yielded %d items with %d errors, want 3 and 1", n, errs)
	}
}

func TestTokensEarlyBreak(t *testing.T) {
	count := 0
	for range Tokens("a b c d e") {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}
}

func TestTokenString(t *testing.T) {
	tests := []struct {
		tok  Token
		want string
	}{
		{Token{Type: NUMBER, Lexeme: "5", Int: 5, Line: 2, Pos: 7}, "Type: NUMBER, Value: 5, Line: 2, Position: 7"},
		{Token{Type: IDENTIFIER, Lexeme: "x", Line: 1, Pos: 0}, "Type: ID, Value: x, Line: 1, Position: 0"},
		{Token{Type: STRING, Lexeme: "hi", Line: 1, Pos: 3}, "Type: STRING_LITERAL, Value: hi, Line: 1, Position: 3"},
		{Token{Type: ASSIGN, Lexeme: "=", Line: 4, Pos: 9}, "Type: EQUALS, Value: =, Line: 4, Position: 9"},
	}
	for _, tt := range tests {
		if got := tt.tok.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
