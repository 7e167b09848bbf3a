package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// Scope maps variable names to their declared types for one lexical level.
// The parent link is non-owning; the global scope has none.
type Scope struct {
	parent  *Scope
	symbols map[string]Type
	depth   int
}

// NewScope returns a child of parent. A nil parent creates a global scope.
func NewScope(parent *Scope) *Scope {
	s := &Scope{parent: parent, symbols: make(map[string]Type)}
	if parent != nil {
		s.depth = parent.depth + 1
	}
	return s
}

// Parent returns the enclosing scope, or nil for the global scope.
func (s *Scope) Parent() *Scope { return s.parent }

// Depth is 0 for the global scope and grows by one per nested level.
func (s *Scope) Depth() int { return s.depth }

// Declare binds name in this scope. Binding a name already present at this
// level fails; a binding in an ancestor is shadowed.
func (s *Scope) Declare(name string, typ Type) error {
	if _, ok := s.symbols[name]; ok {
		return fmt.Errorf("redeclaration of %s", name)
	}
	s.symbols[name] = typ
	return nil
}

// Lookup searches this scope and then its ancestors, innermost first.
func (s *Scope) Lookup(name string) (Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if typ, ok := sc.symbols[name]; ok {
			return typ, true
		}
	}
	return "", false
}

// String returns a deterministically ordered dump of the chain, outermost
// scope first.
func (s *Scope) String() string {
	var chain []*Scope
	for sc := s; sc != nil; sc = sc.parent {
		chain = append(chain, sc)
	}
	var sb strings.Builder
	for i := len(chain) - 1; i >= 0; i-- {
		sc := chain[i]
		fmt.Fprintf(&sb, "Scope %d:\n", sc.depth)
		names := make([]string, 0, len(sc.symbols))
		for name := range sc.symbols {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  %s\n", name, sc.symbols[name])
		}
	}
	return sb.String()
}
