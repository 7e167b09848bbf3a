package compiler

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// NodeKind is the closed set of AST node variants.
type NodeKind int

const (
	ProgramNode NodeKind = iota
	HeaderNode
	FunctionNode
	BlockNode
	VarDeclNode
	DeclaratorNode
	AssignNode
	IfNode
	ForNode
	ReturnNode
	CallNode
	BinOpNode
	UnaryOpNode
	AddressOfNode
	LiteralNode
	IdentifierNode
	EmptyNode

	numNodeKinds
)

var nodeKindNames = [numNodeKinds]string{
	ProgramNode:    "Program",
	HeaderNode:     "Header",
	FunctionNode:   "Function",
	BlockNode:      "Block",
	VarDeclNode:    "VarDecl",
	DeclaratorNode: "Declarator",
	AssignNode:     "Assign",
	IfNode:         "If",
	ForNode:        "For",
	ReturnNode:     "Return",
	CallNode:       "Call",
	BinOpNode:      "BinOp",
	UnaryOpNode:    "UnaryOp",
	AddressOfNode:  "AddressOf",
	LiteralNode:    "Literal",
	IdentifierNode: "Identifier",
	EmptyNode:      "Empty",
}

func (k NodeKind) String() string {
	if k >= 0 && k < numNodeKinds {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Attribute names used by the parser and the analyzer.
const (
	AttrName       = "name"
	AttrReturnType = "return_type"
	AttrDatatype   = "datatype"
	AttrOperator   = "operator"
	AttrValue      = "value"
)

// Attrs is a node's bag of named scalar attributes. Values are string or int64.
type Attrs map[string]any

// Str returns the attribute as a string, or "" when absent or not a string.
func (a Attrs) Str(key string) string {
	s, _ := a[key].(string)
	return s
}

// Int returns the attribute as an int64.
func (a Attrs) Int(key string) (int64, bool) {
	v, ok := a[key].(int64)
	return v, ok
}

// Node is one vertex of the syntax tree. Child order is significant; see the
// constructors below for the shape of each kind.
//
//	if (x < 1) y = 2; else y = 3;
//	If[BinOp(<)[Identifier(x), Literal(1)], Assign[...], Assign[...]]
type Node struct {
	Kind     NodeKind
	Children []*Node
	Attrs    Attrs
	Line     int // 1-based line of the node's first token
}

func newNode(kind NodeKind, line int, attrs Attrs, children ...*Node) *Node {
	if attrs == nil {
		attrs = Attrs{}
	}
	return &Node{Kind: kind, Children: children, Attrs: attrs, Line: line}
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// Name is shorthand for the "name" attribute.
func (n *Node) Name() string { return n.Attrs.Str(AttrName) }

// Label renders the node's own line of a dump: kind followed by its attributes
// in key order.
func (n *Node) Label() string {
	if len(n.Attrs) == 0 {
		return n.Kind.String() + " {}"
	}
	keys := make([]string, 0, len(n.Attrs))
	for k := range n.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		switch v := n.Attrs[k].(type) {
		case string:
			parts = append(parts, fmt.Sprintf("%s: %q", k, v))
		default:
			parts = append(parts, fmt.Sprintf("%s: %v", k, v))
		}
	}
	return n.Kind.String() + " {" + strings.Join(parts, ", ") + "}"
}

// Dump writes an indented in-order listing of the tree, two spaces per level.
func Dump(w io.Writer, n *Node) error {
	return dump(w, n, 0)
}

func dump(w io.Writer, n *Node, level int) error {
	if _, err := fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", level), n.Label()); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := dump(w, c, level+1); err != nil {
			return err
		}
	}
	return nil
}

func (n *Node) String() string {
	var sb strings.Builder
	_ = Dump(&sb, n)
	return sb.String()
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}
