package compiler

import "fmt"

// LexicalError reports a character the Lexer cannot classify.
type LexicalError struct {
	Char   rune
	Line   int
	Pos    int
	Reason string // set when the text was recognised but rejected, e.g. an oversized literal
}

func (e *LexicalError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("Lexical error: %s at line %d", e.Reason, e.Line)
	}
	return fmt.Sprintf("Lexical error: '%c' at line %d", e.Char, e.Line)
}

// SyntaxError reports a token that cannot extend the current parse, or a
// premature end of input.
type SyntaxError struct {
	Token   Token
	Line    int
	Snippet string // trimmed source line holding the token, if available
	Reason  string // optional detail, e.g. the nesting limit
}

// AtEOF reports whether the parse ran out of tokens.
func (e *SyntaxError) AtEOF() bool { return e.Token.Type == EOF }

func (e *SyntaxError) Error() string {
	var msg string
	if e.AtEOF() {
		msg = "Syntax error at EOF"
	} else {
		msg = fmt.Sprintf("Syntax error at '%v' (line %d)", e.Token.Value(), e.Line)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// SemanticErrorKind classifies a SemanticError.
type SemanticErrorKind int

const (
	RedeclarationError SemanticErrorKind = iota
	UndeclaredIdentifierError
	TypeMismatchError
	ArgumentCountMismatch
	ArgumentTypeMismatch
	UndefinedFunction
	UnknownExpressionKind
)

var semanticErrorKindNames = [...]string{
	RedeclarationError:        "RedeclarationError",
	UndeclaredIdentifierError: "UndeclaredIdentifierError",
	TypeMismatchError:         "TypeMismatchError",
	ArgumentCountMismatch:     "ArgumentCountMismatch",
	ArgumentTypeMismatch:      "ArgumentTypeMismatch",
	UndefinedFunction:         "UndefinedFunction",
	UnknownExpressionKind:     "UnknownExpressionKind",
}

func (k SemanticErrorKind) String() string {
	if k >= 0 && int(k) < len(semanticErrorKindNames) {
		return semanticErrorKindNames[k]
	}
	return fmt.Sprintf("SemanticErrorKind(%d)", int(k))
}

// MarshalText lets reports encode the kind by name.
func (k SemanticErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// SemanticError is the first violation found by the Analyzer.
type SemanticError struct {
	Kind    SemanticErrorKind `json:"kind"`
	Name    string            `json:"name,omitempty"` // identifier or function the error refers to
	Line    int               `json:"line"`
	Message string            `json:"message"`
}

func (e *SemanticError) Error() string { return e.Message }

func semanticErrorf(kind SemanticErrorKind, name string, line int, format string, args ...any) *SemanticError {
	return &SemanticError{Kind: kind, Name: name, Line: line, Message: fmt.Sprintf(format, args...)}
}
