package semantic

import (
	"fmt"
	"slices"

	"floe/internal/ast"
	"floe/internal/source"
)

// Boundness is the three-valued classification of a name use.
type Boundness uint8

const (
	DefinitelyBound Boundness = iota
	PossiblyUnbound
	DefinitelyUnbound
)

func (b Boundness) String() string {
	switch b {
	case DefinitelyBound:
		return "bound"
	case PossiblyUnbound:
		return "possibly-unbound"
	case DefinitelyUnbound:
		return "unbound"
	default:
		return "invalid"
	}
}

// Hints provide optional capacity suggestions for the index arenas.
type Hints struct{ Scopes, Symbols, Definitions, Constraints uint }

// Options configure an index build.
type Options struct {
	Hints Hints
}

// Index is the semantic index of one module: the scope tree, symbol tables,
// definition/constraint arenas, and the per-use flow facts recorded during
// the single construction traversal. It is immutable once built; every
// query is a pure read.
type Index struct {
	Scopes      *Scopes
	Symbols     *Symbols
	Definitions *Definitions
	Constraints *Constraints
	Visibility  *Visibilities
	Strings     *source.Interner

	// ModuleScope is the root of the scope tree.
	ModuleScope ScopeID

	stmtScope map[ast.StmtID]ScopeID // enclosing scope per statement
	exprScope map[ast.ExprID]ScopeID // enclosing scope per expression

	ownedByStmt map[ast.StmtID]ScopeID // scope introduced by a statement
	ownedByExpr map[ast.ExprID]ScopeID // scope introduced by an expression

	// useBindings holds, for every name read, the reaching bindings at the
	// exact traversal point the read was visited.
	useBindings map[ast.ExprID][]Binding
	useSymbol   map[ast.ExprID]SymbolID
	useOrder    []ast.ExprID

	// endState holds each symbol's reaching bindings at the end of its
	// scope, for public-binding and wildcard-export queries.
	endState map[ScopeID]map[SymbolID][]Binding

	// wildcardImports lists `from m import *` statements per scope.
	wildcardImports map[ScopeID][]ast.StmtID
}

func newIndex(strings *source.Interner, h Hints) *Index {
	toCap := func(n uint) uint32 {
		return uint32(n) //nolint:gosec // hints are small
	}
	return &Index{
		Scopes:          NewScopes(toCap(h.Scopes)),
		Symbols:         NewSymbols(toCap(h.Symbols)),
		Definitions:     NewDefinitions(toCap(h.Definitions)),
		Constraints:     NewConstraints(toCap(h.Constraints)),
		Visibility:      NewVisibilities(0),
		Strings:         strings,
		stmtScope:       make(map[ast.StmtID]ScopeID),
		exprScope:       make(map[ast.ExprID]ScopeID),
		ownedByStmt:     make(map[ast.StmtID]ScopeID),
		ownedByExpr:     make(map[ast.ExprID]ScopeID),
		useBindings:     make(map[ast.ExprID][]Binding),
		useSymbol:       make(map[ast.ExprID]SymbolID),
		endState:        make(map[ScopeID]map[SymbolID][]Binding),
		wildcardImports: make(map[ScopeID][]ast.StmtID),
	}
}

// ScopeOfStmt returns the scope lexically containing a statement.
func (x *Index) ScopeOfStmt(id ast.StmtID) ScopeID {
	return x.stmtScope[id]
}

// ScopeOfExpr returns the scope lexically containing an expression.
func (x *Index) ScopeOfExpr(id ast.ExprID) ScopeID {
	return x.exprScope[id]
}

// ScopeOwnedByStmt returns the scope a function/class/type-alias statement
// introduces, if any.
func (x *Index) ScopeOwnedByStmt(id ast.StmtID) (ScopeID, bool) {
	scope, ok := x.ownedByStmt[id]
	return scope, ok
}

// ScopeOwnedByExpr returns the scope a lambda/comprehension expression
// introduces, if any.
func (x *Index) ScopeOwnedByExpr(id ast.ExprID) (ScopeID, bool) {
	scope, ok := x.ownedByExpr[id]
	return scope, ok
}

// SymbolLookup resolves a name inside one scope. It never walks outward;
// closure and global resolution is the caller's concern.
func (x *Index) SymbolLookup(scope ScopeID, name source.StringID) (SymbolID, bool) {
	s := x.Scopes.Get(scope)
	if s == nil {
		return NoSymbolID, false
	}
	id, ok := s.NameIndex[name]
	return id, ok
}

// SymbolLookupName is SymbolLookup for a raw string.
func (x *Index) SymbolLookupName(scope ScopeID, name string) (SymbolID, bool) {
	return x.SymbolLookup(scope, x.Strings.InternIdent(name))
}

// IsUse reports whether an expression is a recorded name read.
func (x *Index) IsUse(expr ast.ExprID) bool {
	_, ok := x.useBindings[expr]
	return ok
}

// Uses returns every recorded name read, in traversal order.
func (x *Index) Uses() []ast.ExprID {
	return slices.Clone(x.useOrder)
}

// UseSymbol returns the symbol a recorded name read resolves to within its
// own scope.
func (x *Index) UseSymbol(expr ast.ExprID) SymbolID {
	sym, ok := x.useSymbol[expr]
	if !ok {
		panic(fmt.Sprintf("semantic: expression %d is not a recorded use", expr))
	}
	return sym
}

// ReachingBindings returns the (definition, visibility) pairs that reach a
// name read. Querying an expression that is not a recorded use is a
// programming error and panics: it means the caller is asking about a point
// the traversal never visited.
func (x *Index) ReachingBindings(expr ast.ExprID) []Binding {
	list, ok := x.useBindings[expr]
	if !ok {
		panic(fmt.Sprintf("semantic: expression %d is not a recorded use", expr))
	}
	return list
}

// Boundness classifies a name read. Bindings whose visibility is statically
// false under the unknown assignment are ignored.
func (x *Index) Boundness(expr ast.ExprID) Boundness {
	list := x.ReachingBindings(expr)
	sawUnbound := false
	sawBound := false
	for _, b := range list {
		if x.Visibility.Resolve(b.Visibility, UnknownTruth) == TruthFalse {
			continue
		}
		if b.Definition.IsBound() {
			sawBound = true
		} else {
			sawUnbound = true
		}
	}
	switch {
	case sawBound && !sawUnbound:
		return DefinitelyBound
	case sawBound && sawUnbound:
		return PossiblyUnbound
	default:
		return DefinitelyUnbound
	}
}

// EndOfScopeBindings returns a symbol's reaching bindings at the end of its
// scope.
func (x *Index) EndOfScopeBindings(scope ScopeID, sym SymbolID) []Binding {
	state, ok := x.endState[scope]
	if !ok {
		panic(fmt.Sprintf("semantic: scope %d has no recorded end state", scope))
	}
	if list, ok := state[sym]; ok {
		return list
	}
	return []Binding{{Definition: UnboundDefinition, Visibility: VisAlways}}
}

// PublicBindings returns the symbols with at least one real binding live at
// the end of the scope — the names a wildcard import would see.
func (x *Index) PublicBindings(scope ScopeID) []SymbolID {
	s := x.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	out := make([]SymbolID, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		for _, b := range x.EndOfScopeBindings(scope, sym) {
			if b.Definition.IsBound() {
				out = append(out, sym)
				break
			}
		}
	}
	return out
}

// SymbolsOf returns a scope's symbols in declaration order.
func (x *Index) SymbolsOf(scope ScopeID) []SymbolID {
	s := x.Scopes.Get(scope)
	if s == nil {
		return nil
	}
	return slices.Clone(s.Symbols)
}

// DefinitionsOf returns the definitions recorded in a scope, in creation
// order.
func (x *Index) DefinitionsOf(scope ScopeID) []DefinitionID {
	var out []DefinitionID
	for i, def := range x.Definitions.Data() {
		if def.Scope == scope {
			out = append(out, DefinitionID(i+1)) //nolint:gosec // arena indices fit uint32
		}
	}
	return out
}

// WildcardImports returns the `from m import *` statements of a scope.
func (x *Index) WildcardImports(scope ScopeID) []ast.StmtID {
	return x.wildcardImports[scope]
}

// ResolveVisibility evaluates a visibility constraint under the caller's
// truth assignment.
func (x *Index) ResolveVisibility(id VisibilityID, truth TruthFunc) Truth {
	return x.Visibility.Resolve(id, truth)
}
