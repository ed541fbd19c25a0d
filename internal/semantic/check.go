package semantic

import (
	"fmt"

	"floe/internal/ast"
	"floe/internal/diag"
	"floe/internal/source"
)

// ResolveName resolves a name from a scope outward, following Python's
// lexical rules: the starting scope, then enclosing function scopes, then
// the module scope. Class scopes are only consulted when the use sits
// directly inside them; their names are invisible to nested functions.
// Returns the defining scope and symbol, or false when nothing in the file
// binds the name.
func (x *Index) ResolveName(scope ScopeID, name source.StringID) (ScopeID, SymbolID, bool) {
	first := true
	for scope.IsValid() {
		s := x.Scopes.Get(scope)
		if s.Kind != ScopeClass || first {
			if sym, ok := s.NameIndex[name]; ok {
				symbol := x.Symbols.Get(sym)
				if symbol.Flags&SymbolFlagGlobal != 0 && scope != x.ModuleScope {
					// A global declaration forwards resolution to module
					// scope.
					if msym, ok := x.SymbolLookup(x.ModuleScope, name); ok {
						return x.ModuleScope, msym, true
					}
					return NoScopeID, NoSymbolID, false
				}
				if symbol.Flags&(SymbolFlagBound|SymbolFlagParameter) != 0 {
					return scope, sym, true
				}
			}
		}
		first = false
		scope = s.Parent
	}
	return NoScopeID, NoSymbolID, false
}

// hasWildcardImports reports whether a wildcard import anywhere on the scope
// chain could supply unknown names.
func (x *Index) hasWildcardImports(scope ScopeID) bool {
	for scope.IsValid() {
		if len(x.wildcardImports[scope]) > 0 {
			return true
		}
		scope = x.Scopes.Get(scope).Parent
	}
	return false
}

// Check reports binding problems for every recorded name read: reads of
// names nothing defines, and reads the flow analysis proves unbound or
// possibly unbound on some path. The builder supplies spans; the index is
// not mutated.
func Check(builder *ast.Builder, x *Index, r diag.Reporter) {
	for _, use := range x.Uses() {
		sym := x.UseSymbol(use)
		symbol := x.Symbols.Get(sym)
		name := x.Strings.MustLookup(symbol.Name)
		span := builder.Exprs.Get(use).Span
		scope := x.ScopeOfExpr(use)

		if symbol.Flags&(SymbolFlagBound|SymbolFlagParameter) == 0 ||
			symbol.Flags&SymbolFlagGlobal != 0 ||
			symbol.Flags&SymbolFlagNonlocal != 0 {
			// Free in this scope: resolve outward, then to builtins.
			if _, _, ok := x.ResolveName(scope, symbol.Name); ok {
				continue
			}
			if IsBuiltin(name) {
				continue
			}
			if x.hasWildcardImports(scope) {
				continue
			}
			diag.ReportError(r, diag.NameUnresolved, span,
				fmt.Sprintf("name %q is not defined", name))
			continue
		}

		switch x.Boundness(use) {
		case DefinitelyBound:
		case PossiblyUnbound:
			diag.ReportWarning(r, diag.NamePossiblyUnbound, span,
				fmt.Sprintf("name %q may be unbound here", name))
		case DefinitelyUnbound:
			// Module and class scope reads fall back to globals and
			// builtins at runtime; only function-like scopes raise
			// UnboundLocalError.
			if kind := x.Scopes.Get(scope).Kind; kind == ScopeModule || kind == ScopeClass {
				if IsBuiltin(name) || x.hasWildcardImports(scope) {
					continue
				}
				diag.ReportError(r, diag.NameUnresolved, span,
					fmt.Sprintf("name %q is not defined", name))
				continue
			}
			diag.ReportError(r, diag.NameUnboundLocal, span,
				fmt.Sprintf("local name %q is unbound here", name))
		}
	}

	for _, stmt := range x.WildcardImports(x.ModuleScope) {
		span := builder.Stmts.Get(stmt).Span
		r.Report(diag.New(diag.SevInfo, diag.NameWildcardImport, span,
			"wildcard import hides which names this module binds"))
	}
}
