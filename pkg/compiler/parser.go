package compiler

import (
	"fmt"
	"strings"
)

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = header* function EOF
//	header     = "#" "include" "<" ID "." ID ">"
//	function   = type "main" "(" ")" block
//	block      = "{" stmt* "}"
//	stmt       = decl ";" | assign ";" | if | for | return | call ";" | block | ";"
//	decl       = type declarator ("," declarator)*
//	declarator = ID ("=" expr)?
//	assign     = ID "=" expr
//	if         = "if" "(" expr ")" stmt ("else" stmt)?
//	for        = "for" "(" (decl | assign)? ";" expr? ";" (assign | ID "+" "+")? ")" stmt
//	return     = "return" expr ";"
//	call       = ID "(" (expr ("," expr)*)? ")"
//	expr       = additive (("<"|"<="|">"|">="|"=="|"!=") additive)?
//	additive   = term (("+"|"-") term)*
//	term       = unary (("*"|"/"|"%") unary)*
//	unary      = "-" unary | primary
//	primary    = NUMBER | STRING | ID | "(" expr ")" | "&" ID
//
// Calls are statements only; an ID followed by "(" inside an expression is a
// syntax error.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
	maxDepth    int
	depth       int
}

// ParseOptions tunes a parse.
type ParseOptions struct {
	// MaxDepth bounds statement and unary-expression nesting. Zero means no limit.
	MaxDepth int
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// errorAt builds a SyntaxError for tok, carrying the source line as a snippet.
func (p *Parser) errorAt(tok Token, format string, args ...any) error {
	snippet := ""
	if idx := tok.Line - 1; idx >= 0 && idx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[idx])
	}
	return &SyntaxError{Token: tok, Line: tok.Line, Snippet: snippet, Reason: fmt.Sprintf(format, args...)}
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	return p.peekAt(0)
}

// peekAt returns the token at the given offset from the current position.
func (p *Parser) peekAt(offset int) Token {
	if p.pos+offset >= len(p.tokens) {
		if len(p.tokens) > 0 {
			last := p.tokens[len(p.tokens)-1]
			return Token{Type: EOF, Line: last.Line, Pos: last.Pos}
		}
		return Token{Type: EOF, Line: 1}
	}
	return p.tokens[p.pos+offset]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.errorAt(tok, "expected %s", tt)
	}
	return p.advance(), nil
}

// enter tracks one level of recursion; callers defer p.leave().
func (p *Parser) enter() error {
	p.depth++
	if p.maxDepth > 0 && p.depth > p.maxDepth {
		return p.errorAt(p.peek(), "nesting deeper than %d levels", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// ParseProgram parses the whole token stream into a Program node.
func (p *Parser) ParseProgram() (*Node, error) {
	prog := newNode(ProgramNode, 1, nil)
	for p.peek().Type == HASH {
		h, err := p.parseHeader()
		if err != nil {
			return nil, err
		}
		prog.Children = append(prog.Children, h)
	}

	fn, err := p.parseFunction()
	if err != nil {
		return nil, err
	}
	prog.Children = append(prog.Children, fn)

	if tok := p.peek(); tok.Type != EOF {
		return nil, p.errorAt(tok, "expected end of input")
	}
	return prog, nil
}

// parseHeader parses  # include < ID . ID >
func (p *Parser) parseHeader() (*Node, error) {
	hash := p.advance()
	if _, err := p.expect(INCLUDE); err != nil {
		return nil, err
	}
	if _, err := p.expect(LESS); err != nil {
		return nil, err
	}
	base, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(DOT); err != nil {
		return nil, err
	}
	ext, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(GREATER); err != nil {
		return nil, err
	}
	return newNode(HeaderNode, hash.Line, Attrs{AttrName: base.Lexeme + "." + ext.Lexeme}), nil
}

// parseType consumes one of the type keywords.
func (p *Parser) parseType() (Type, Token, error) {
	tok := p.peek()
	typ, ok := typeKeywords[tok.Type]
	if !ok {
		return "", tok, p.errorAt(tok, "expected type")
	}
	p.advance()
	return typ, tok, nil
}

// parseFunction parses  type main ( ) block
func (p *Parser) parseFunction() (*Node, error) {
	ret, first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	name, err := p.expect(MAIN)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	attrs := Attrs{AttrName: name.Lexeme, AttrReturnType: string(ret)}
	return newNode(FunctionNode, first.Line, attrs, body), nil
}

// parseBlock parses { stmt1 stmt2 ... }
func (p *Parser) parseBlock() (*Node, error) {
	open, err := p.expect(LBRACE)
	if err != nil {
		return nil, err
	}
	block := newNode(BlockNode, open.Line, nil)
	for p.peek().Type != RBRACE {
		if p.peek().Type == EOF {
			return nil, p.errorAt(p.peek(), "expected RBRACE")
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		block.Children = append(block.Children, stmt)
	}
	p.advance() // }
	return block, nil
}

func (p *Parser) parseStatement() (*Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.peek()
	switch tok.Type {
	case SEMICOLON:
		p.advance()
		return newNode(EmptyNode, tok.Line, nil), nil

	case LBRACE:
		return p.parseBlock()

	case INT, FLOAT, CHAR, VOID:
		decl, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		return p.terminated(decl)

	case IF:
		return p.parseIf()

	case FOR:
		return p.parseFor()

	case RETURN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return p.terminated(newNode(ReturnNode, tok.Line, nil, expr))

	case IDENTIFIER:
		switch p.peekAt(1).Type {
		case ASSIGN:
			assign, err := p.parseAssignment()
			if err != nil {
				return nil, err
			}
			return p.terminated(assign)
		case LPAREN:
			call, err := p.parseCall()
			if err != nil {
				return nil, err
			}
			return p.terminated(call)
		}
		next := p.peekAt(1)
		return nil, p.errorAt(next, "expected EQUALS or LPAREN after %q", tok.Lexeme)
	}

	return nil, p.errorAt(tok, "expected statement")
}

// terminated consumes the ';' that ends a simple statement.
func (p *Parser) terminated(n *Node) (*Node, error) {
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}
	return n, nil
}

// parseDeclaration parses  type declarator (, declarator)*
// without the trailing ';'.
func (p *Parser) parseDeclaration() (*Node, error) {
	typ, first, err := p.parseType()
	if err != nil {
		return nil, err
	}
	decl := newNode(VarDeclNode, first.Line, Attrs{AttrDatatype: string(typ)})
	for {
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		d := newNode(DeclaratorNode, nameTok.Line, Attrs{AttrName: nameTok.Lexeme})
		if p.peek().Type == ASSIGN {
			p.advance()
			init, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			d.Children = append(d.Children, init)
		}
		decl.Children = append(decl.Children, d)

		if p.peek().Type != COMMA {
			return decl, nil
		}
		p.advance()
	}
}

// parseAssignment parses  ID = expr  without the trailing ';'.
func (p *Parser) parseAssignment() (*Node, error) {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(ASSIGN); err != nil {
		return nil, err
	}
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	target := newNode(IdentifierNode, nameTok.Line, Attrs{AttrName: nameTok.Lexeme})
	return newNode(AssignNode, nameTok.Line, nil, target, value), nil
}

// parseIncrement parses  ID + +  and desugars it to  ID = ID + 1.
func (p *Parser) parseIncrement() (*Node, error) {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(PLUS); err != nil {
		return nil, err
	}
	if _, err := p.expect(PLUS); err != nil {
		return nil, err
	}
	line := nameTok.Line
	ident := func() *Node { return newNode(IdentifierNode, line, Attrs{AttrName: nameTok.Lexeme}) }
	one := newNode(LiteralNode, line, Attrs{AttrValue: int64(1), AttrDatatype: string(TypeInt)})
	sum := newNode(BinOpNode, line, Attrs{AttrOperator: "+"}, ident(), one)
	return newNode(AssignNode, line, nil, ident(), sum), nil
}

// parseCall parses  ID ( args )  without the trailing ';'.
func (p *Parser) parseCall() (*Node, error) {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	call := newNode(CallNode, nameTok.Line, Attrs{AttrName: nameTok.Lexeme})
	if p.peek().Type != RPAREN {
		for {
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Children = append(call.Children, arg)

			if p.peek().Type != COMMA {
				break
			}
			p.advance()
		}
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	return call, nil
}

// parseIf parses  if ( expr ) stmt [else stmt]
// An else binds to the nearest unmatched if.
func (p *Parser) parseIf() (*Node, error) {
	ifTok := p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}
	then, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	n := newNode(IfNode, ifTok.Line, nil, cond, then)

	if p.peek().Type == ELSE {
		p.advance()
		elseBody, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, elseBody)
	}
	return n, nil
}

// parseFor parses  for ( init ; cond ; update ) stmt
// Absent parts are represented by Empty nodes so the For node always has
// four children.
func (p *Parser) parseFor() (*Node, error) {
	forTok := p.advance()
	if _, err := p.expect(LPAREN); err != nil {
		return nil, err
	}

	var init *Node
	var err error
	switch tok := p.peek(); tok.Type {
	case SEMICOLON:
		init = newNode(EmptyNode, tok.Line, nil)
	case INT, FLOAT, CHAR, VOID:
		init, err = p.parseDeclaration()
	case IDENTIFIER:
		init, err = p.parseAssignment()
	default:
		err = p.errorAt(tok, "expected for-loop initializer")
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	var cond *Node
	if tok := p.peek(); tok.Type == SEMICOLON {
		cond = newNode(EmptyNode, tok.Line, nil)
	} else if cond, err = p.parseExpression(); err != nil {
		return nil, err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return nil, err
	}

	var update *Node
	switch tok := p.peek(); {
	case tok.Type == RPAREN:
		update = newNode(EmptyNode, tok.Line, nil)
	case tok.Type == IDENTIFIER && p.peekAt(1).Type == ASSIGN:
		update, err = p.parseAssignment()
	case tok.Type == IDENTIFIER:
		update, err = p.parseIncrement()
	default:
		err = p.errorAt(tok, "expected for-loop update")
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return newNode(ForNode, forTok.Line, nil, init, cond, update, body), nil
}

// parseExpression is the entry point for expression parsing. At most one
// relational operator is accepted per level, so a < b < c is rejected.
func (p *Parser) parseExpression() (*Node, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	switch tok := p.peek(); tok.Type {
	case LESS, LESS_EQ, GREATER, GREATER_EQ, EQUALS, NOT_EQ:
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		return newNode(BinOpNode, left.Line, Attrs{AttrOperator: tok.Lexeme}, left, right), nil
	}
	return left, nil
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (*Node, error) {
	expr, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != PLUS && tok.Type != MINUS {
			return expr, nil
		}
		p.advance()
		right, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		expr = newNode(BinOpNode, expr.Line, Attrs{AttrOperator: tok.Lexeme}, expr, right)
	}
}

// parseTerm handles *, / and %
func (p *Parser) parseTerm() (*Node, error) {
	expr, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Type != STAR && tok.Type != SLASH && tok.Type != PERCENT {
			return expr, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		expr = newNode(BinOpNode, expr.Line, Attrs{AttrOperator: tok.Lexeme}, expr, right)
	}
}

// parseUnary handles prefix minus.
func (p *Parser) parseUnary() (*Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	if tok := p.peek(); tok.Type == MINUS {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return newNode(UnaryOpNode, tok.Line, Attrs{AttrOperator: "-"}, operand), nil
	}
	return p.parsePrimary()
}

// parsePrimary handles literals, identifiers, address-of and parenthesised
// expressions.
func (p *Parser) parsePrimary() (*Node, error) {
	tok := p.peek()
	switch tok.Type {
	case NUMBER:
		p.advance()
		return newNode(LiteralNode, tok.Line, Attrs{AttrValue: tok.Int, AttrDatatype: string(TypeInt)}), nil

	case STRING:
		p.advance()
		return newNode(LiteralNode, tok.Line, Attrs{AttrValue: tok.Lexeme, AttrDatatype: string(TypeString)}), nil

	case IDENTIFIER:
		p.advance()
		return newNode(IdentifierNode, tok.Line, Attrs{AttrName: tok.Lexeme}), nil

	case AND:
		p.advance()
		nameTok, err := p.expect(IDENTIFIER)
		if err != nil {
			return nil, err
		}
		ident := newNode(IdentifierNode, nameTok.Line, Attrs{AttrName: nameTok.Lexeme})
		return newNode(AddressOfNode, tok.Line, nil, ident), nil

	case LPAREN:
		p.advance()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return nil, p.errorAt(tok, "expected expression")
}

// ParseTokens builds the AST for an already tokenised program. rawSource is
// only used for error snippets and may be empty.
func ParseTokens(tokens []Token, rawSource string, opts ParseOptions) (*Node, error) {
	p := NewParser(tokens, rawSource)
	p.maxDepth = opts.MaxDepth
	return p.ParseProgram()
}

// ParseWithOptions tokenises and parses src. Errors are *LexicalError or
// *SyntaxError; no partial tree is returned.
func ParseWithOptions(src string, opts ParseOptions) (*Node, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(tokens, src, opts)
}

// Parse tokenises and parses src with default options.
func Parse(src string) (*Node, error) {
	return ParseWithOptions(src, ParseOptions{})
}
