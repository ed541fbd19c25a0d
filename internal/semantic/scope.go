package semantic

import (
	"fmt"

	"fortio.org/safecast"

	"floe/internal/ast"
	"floe/internal/source"
)

// ScopeKind enumerates the lexical-scope-introducing constructs of Python.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeClass
	ScopeLambda
	ScopeComprehension
	ScopeTypeAlias
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeLambda:
		return "lambda"
	case ScopeComprehension:
		return "comprehension"
	case ScopeTypeAlias:
		return "type-alias"
	default:
		return "invalid"
	}
}

// Scope models one lexical scope. Parent/children are stored as IDs into the
// arena, never as pointers, so the tree carries no reference cycles.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Span      source.Span
	Stmt      ast.StmtID // defining statement (function/class/type-alias)
	Expr      ast.ExprID // defining expression (lambda/comprehension)
	NameIndex map[source.StringID]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}

// Scopes stores all allocated scopes in a compact slice-based arena.
// IDs are assigned in pre-order traversal order; within one file a smaller
// scope ID is a scope discovered earlier in source order.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 16
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates a new scope and returns its ID.
func (s *Scopes) New(kind ScopeKind, parent ScopeID, span source.Span) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scope arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Kind:      kind,
		Parent:    parent,
		Span:      span,
		NameIndex: make(map[source.StringID]SymbolID),
	})
	if parent.IsValid() {
		if parentScope := s.Get(parent); parentScope != nil {
			parentScope.Children = append(parentScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int { return len(s.data) - 1 }

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
