package compiler

import (
	"errors"
)

// Report is the outcome of Analyze. Only the first semantic error is ever
// recorded.
type Report struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Err     *SemanticError `json:"error,omitempty"`
}

// Analyzer walks a Program tree with a chain of scopes, checking declarations
// and inferring expression types. It holds no state between runs.
type Analyzer struct{}

// Analyze type-checks prog. It never fails outward: the first SemanticError
// stops the walk and is turned into the report.
func Analyze(prog *Node) Report {
	var a Analyzer
	return a.Analyze(prog)
}

func (a *Analyzer) Analyze(prog *Node) Report {
	_, err := a.visit(prog, NewScope(nil))
	if err == nil {
		return Report{OK: true}
	}
	var semErr *SemanticError
	if !errors.As(err, &semErr) {
		semErr = &SemanticError{Kind: UnknownExpressionKind, Message: err.Error()}
	}
	return Report{OK: false, Message: semErr.Message, Err: semErr}
}

// visit dispatches on the node kind. Statement handlers return the empty
// Type; Return yields the type of its expression.
func (a *Analyzer) visit(n *Node, scope *Scope) (Type, error) {
	if n == nil {
		return "", nil
	}
	switch n.Kind {
	case ProgramNode:
		return "", a.visitProgram(n, scope)
	case FunctionNode:
		return "", a.visitFunction(n, scope)
	case BlockNode:
		return "", a.visitBlock(n, scope)
	case VarDeclNode:
		return "", a.visitVarDecl(n, scope)
	case AssignNode:
		return "", a.visitAssign(n, scope)
	case IfNode:
		return "", a.visitIf(n, scope)
	case ForNode:
		return "", a.visitFor(n, scope)
	case ReturnNode:
		return a.eval(n.Child(0), scope)
	case CallNode:
		return "", a.visitCall(n, scope)
	case HeaderNode, DeclaratorNode, BinOpNode, UnaryOpNode, AddressOfNode,
		LiteralNode, IdentifierNode, EmptyNode:
		return "", a.visitChildren(n, scope)
	}
	return "", a.visitChildren(n, scope)
}

func (a *Analyzer) visitChildren(n *Node, scope *Scope) error {
	for _, c := range n.Children {
		if _, err := a.visit(c, scope); err != nil {
			return err
		}
	}
	return nil
}

// visitProgram checks the function only; headers carry no constraints.
func (a *Analyzer) visitProgram(n *Node, scope *Scope) error {
	for _, c := range n.Children {
		if c.Kind != FunctionNode {
			continue
		}
		if _, err := a.visit(c, scope); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) visitFunction(n *Node, scope *Scope) error {
	name := n.Name()
	sig, ok := LookupFunction(name)
	if !ok {
		return semanticErrorf(UndefinedFunction, name, n.Line, "Undefined function '%s'", name)
	}
	if Type(n.Attrs.Str(AttrReturnType)) != sig.Return {
		return semanticErrorf(TypeMismatchError, name, n.Line, "Function '%s' return type mismatch", name)
	}
	_, err := a.visit(n.Child(0), NewScope(scope))
	return err
}

func (a *Analyzer) visitBlock(n *Node, scope *Scope) error {
	return a.visitChildren(n, NewScope(scope))
}

// visitVarDecl declares each name before checking its initializer, so an
// initializer may refer to the variable it initialises.
func (a *Analyzer) visitVarDecl(n *Node, scope *Scope) error {
	typ := Type(n.Attrs.Str(AttrDatatype))
	for _, d := range n.Children {
		name := d.Name()
		if err := scope.Declare(name, typ); err != nil {
			return semanticErrorf(RedeclarationError, name, d.Line, "Redeclaration of variable '%s'", name)
		}
		init := d.Child(0)
		if init == nil {
			continue
		}
		initType, err := a.eval(init, scope)
		if err != nil {
			return err
		}
		if initType != typ {
			return semanticErrorf(TypeMismatchError, name, d.Line, "Type mismatch in initialization of '%s'", name)
		}
	}
	return nil
}

func (a *Analyzer) visitAssign(n *Node, scope *Scope) error {
	target := n.Child(0)
	name := target.Name()
	lhs, err := a.lookup(scope, name, target.Line)
	if err != nil {
		return err
	}
	rhs, err := a.eval(n.Child(1), scope)
	if err != nil {
		return err
	}
	if lhs != rhs {
		return semanticErrorf(TypeMismatchError, name, n.Line, "Type mismatch in assignment to '%s'", name)
	}
	return nil
}

func (a *Analyzer) visitIf(n *Node, scope *Scope) error {
	cond, err := a.eval(n.Child(0), scope)
	if err != nil {
		return err
	}
	if cond != TypeInt {
		return semanticErrorf(TypeMismatchError, "", n.Line, "Condition expression must be int")
	}
	if err := a.visitBranch(n.Child(1), scope); err != nil {
		return err
	}
	return a.visitBranch(n.Child(2), scope)
}

// visitBranch gives a non-block if/else branch its own scope so that a
// declaration there does not leak into the enclosing block.
func (a *Analyzer) visitBranch(n *Node, scope *Scope) error {
	if n == nil {
		return nil
	}
	if n.Kind != BlockNode {
		scope = NewScope(scope)
	}
	_, err := a.visit(n, scope)
	return err
}

// visitFor opens one scope shared by init, condition, update and body.
func (a *Analyzer) visitFor(n *Node, scope *Scope) error {
	loop := NewScope(scope)
	init, cond, update, body := n.Child(0), n.Child(1), n.Child(2), n.Child(3)

	if init != nil && init.Kind != EmptyNode {
		if _, err := a.visit(init, loop); err != nil {
			return err
		}
	}
	if cond != nil && cond.Kind != EmptyNode {
		typ, err := a.eval(cond, loop)
		if err != nil {
			return err
		}
		if typ != TypeInt {
			return semanticErrorf(TypeMismatchError, "", n.Line, "For-loop condition must be int")
		}
	}
	if update != nil && update.Kind != EmptyNode {
		if _, err := a.visit(update, loop); err != nil {
			return err
		}
	}
	_, err := a.visit(body, loop)
	return err
}

func (a *Analyzer) visitCall(n *Node, scope *Scope) error {
	name := n.Name()
	sig, ok := LookupFunction(name)
	if !ok {
		return semanticErrorf(UndefinedFunction, name, n.Line, "Call to undefined function '%s'", name)
	}
	if len(n.Children) != len(sig.Params) {
		return semanticErrorf(ArgumentCountMismatch, name, n.Line, "Argument count mismatch in call to '%s'", name)
	}
	for i, arg := range n.Children {
		actual, err := a.eval(arg, scope)
		if err != nil {
			return err
		}
		expected := sig.Params[i]
		if sig.Accepts(expected, actual) {
			continue
		}
		if expected == TypeIntPtr {
			return semanticErrorf(ArgumentTypeMismatch, name, arg.Line, "%s requires address of int", name)
		}
		return semanticErrorf(ArgumentTypeMismatch, name, arg.Line, "Argument type mismatch in call to '%s'", name)
	}
	return nil
}

func (a *Analyzer) lookup(scope *Scope, name string, line int) (Type, error) {
	typ, ok := scope.Lookup(name)
	if !ok {
		return "", semanticErrorf(UndeclaredIdentifierError, name, line, "Undeclared identifier '%s'", name)
	}
	return typ, nil
}

// eval infers the type of an expression node.
func (a *Analyzer) eval(n *Node, scope *Scope) (Type, error) {
	if n == nil {
		return "", semanticErrorf(UnknownExpressionKind, "", 0, "Unknown expression type '<nil>'")
	}
	switch n.Kind {
	case LiteralNode:
		return Type(n.Attrs.Str(AttrDatatype)), nil

	case IdentifierNode:
		return a.lookup(scope, n.Name(), n.Line)

	case BinOpNode:
		left, err := a.eval(n.Child(0), scope)
		if err != nil {
			return "", err
		}
		right, err := a.eval(n.Child(1), scope)
		if err != nil {
			return "", err
		}
		if left != right {
			return "", semanticErrorf(TypeMismatchError, "", n.Line, "Binary operand type mismatch")
		}
		// Every binary operator yields int, whatever the operand type.
		return TypeInt, nil

	case UnaryOpNode:
		return a.eval(n.Child(0), scope)

	case CallNode:
		sig, ok := LookupFunction(n.Name())
		if !ok {
			return "", semanticErrorf(UndefinedFunction, n.Name(), n.Line, "Call to undefined function '%s'", n.Name())
		}
		return sig.Return, nil

	case AddressOfNode:
		// &x has the type of x itself.
		base := n.Child(0)
		return a.lookup(scope, base.Name(), base.Line)
	}
	return "", semanticErrorf(UnknownExpressionKind, "", n.Line, "Unknown expression type '%s'", n.Kind)
}
