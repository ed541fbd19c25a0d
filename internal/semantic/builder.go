package semantic

import (
	"fmt"
	"strings"

	"floe/internal/ast"
	"floe/internal/source"
)

// BuildIndex constructs the semantic index for one module in a single AST
// traversal. The builder and module must come from a completed parse; an
// invalid module ID is a programming error and panics. The returned index
// is immutable.
//
// BuildIndex keeps no state between calls: independent files can be indexed
// concurrently by independent calls.
func BuildIndex(builder *ast.Builder, module ast.ModuleID, opts Options) *Index {
	mod := builder.Modules.Get(module)
	if mod == nil {
		panic(fmt.Sprintf("semantic: invalid module ID %d", module))
	}
	idx := newIndex(builder.Strings, opts.Hints)
	ib := &indexBuilder{
		b:   builder,
		idx: idx,
	}

	root := idx.Scopes.New(ScopeModule, NoScopeID, mod.Span)
	idx.ModuleScope = root
	ib.stack = append(ib.stack, &scopeContext{scope: root, state: NewFlowState()})

	ib.visitBody(mod.Body)

	ib.popScope()
	if len(ib.stack) != 0 {
		panic("semantic: scope stack imbalance after traversal")
	}
	return idx
}

// scopeContext carries the traversal state of one open scope: its current
// flow state and the try/loop context stacks, which never cross scope
// boundaries (a break inside a nested function does not belong to an
// enclosing loop).
type scopeContext struct {
	scope ScopeID
	state *FlowState
	tries []*tryContext
	loops []*loopContext
}

// tryContext accumulates the flow snapshots an exception handler must
// consider reachable: the state at try entry plus the state after each
// statement of the try body. A nested try contributes exactly one
// completion snapshot to its enclosing context — its body statements record
// into the nested context only.
type tryContext struct {
	snapshots []*FlowState
}

func (t *tryContext) record(state *FlowState) {
	t.snapshots = append(t.snapshots, state.Snapshot())
}

// loopContext collects the flow states carried out of a loop by break and
// continue statements.
type loopContext struct {
	breaks    []*FlowState
	continues []*FlowState
}

type indexBuilder struct {
	b     *ast.Builder
	idx   *Index
	stack []*scopeContext
}

func (ib *indexBuilder) cur() *scopeContext {
	if len(ib.stack) == 0 {
		panic("semantic: empty scope stack")
	}
	return ib.stack[len(ib.stack)-1]
}

func (ib *indexBuilder) pushScope(kind ScopeKind, span source.Span) *scopeContext {
	parent := ib.cur().scope
	scope := ib.idx.Scopes.New(kind, parent, span)
	ctx := &scopeContext{scope: scope, state: NewFlowState()}
	ib.stack = append(ib.stack, ctx)
	return ctx
}

// popScope records the end-of-scope flow state for every symbol of the
// scope (the public-binding answer) and closes the scope.
func (ib *indexBuilder) popScope() {
	ctx := ib.cur()
	if len(ctx.tries) != 0 {
		panic("semantic: try-context stack imbalance at scope exit")
	}
	scope := ib.idx.Scopes.Get(ctx.scope)
	final := make(map[SymbolID][]Binding, len(scope.Symbols))
	for _, sym := range scope.Symbols {
		final[sym] = ctx.state.BindingsFor(sym)
	}
	ib.idx.endState[ctx.scope] = final
	ib.stack = ib.stack[:len(ib.stack)-1]
}

// ensureSymbol resolves a name to its symbol in the current scope, creating
// the symbol on first occurrence. Flags accumulate monotonically.
func (ib *indexBuilder) ensureSymbol(name source.StringID, span source.Span, flags SymbolFlags) SymbolID {
	ctx := ib.cur()
	scope := ib.idx.Scopes.Get(ctx.scope)
	if raw, ok := ib.idx.Strings.Lookup(name); ok && IsDunderName(raw) {
		flags |= SymbolFlagDunder
	}
	if id, ok := scope.NameIndex[name]; ok {
		ib.idx.Symbols.Get(id).Flags |= flags
		return id
	}
	id := ib.idx.Symbols.New(Symbol{
		Name:  name,
		Scope: ctx.scope,
		Flags: flags,
		Span:  span,
	})
	scope.NameIndex[name] = id
	scope.Symbols = append(scope.Symbols, id)
	return id
}

// recordUse resolves a name read against the current flow state and records
// the reaching bindings under the expression's identity.
func (ib *indexBuilder) recordUse(expr ast.ExprID, name source.StringID, span source.Span) {
	sym := ib.ensureSymbol(name, span, SymbolFlagUsed)
	ctx := ib.cur()
	ib.idx.useBindings[expr] = ctx.state.BindingsFor(sym)
	ib.idx.useSymbol[expr] = sym
	ib.idx.useOrder = append(ib.idx.useOrder, expr)
}

// bind creates a definition and makes it the sole reaching binding for the
// symbol on the current path.
func (ib *indexBuilder) bind(sym SymbolID, def Definition) DefinitionID {
	def.Symbol = sym
	def.Scope = ib.cur().scope
	id := ib.idx.Definitions.New(def)
	ib.idx.Symbols.Get(sym).Flags |= SymbolFlagBound
	ib.cur().state.SetBinding(sym, id, VisAlways)
	return id
}

// addTestConstraint allocates a constraint for a boolean test expression.
func (ib *indexBuilder) addTestConstraint(expr ast.ExprID) ConstraintID {
	e := ib.b.Exprs.Get(expr)
	return ib.idx.Constraints.New(Constraint{
		Kind:  ConstraintTest,
		Scope: ib.cur().scope,
		Expr:  expr,
		Span:  e.Span,
	})
}

// addPatternConstraint allocates a constraint for a match-case pattern.
func (ib *indexBuilder) addPatternConstraint(pattern ast.PatternID) ConstraintID {
	p := ib.b.Patterns.Get(pattern)
	return ib.idx.Constraints.New(Constraint{
		Kind:    ConstraintPattern,
		Scope:   ib.cur().scope,
		Pattern: pattern,
		Span:    p.Span,
	})
}

func (ib *indexBuilder) visitBody(body []ast.StmtID) {
	for _, stmt := range body {
		ib.walkStmt(stmt)
	}
}

// firstDottedSegment returns the name an `import a.b.c` statement actually
// binds.
func firstDottedSegment(path string) string {
	if i := strings.IndexByte(path, '.'); i >= 0 {
		return path[:i]
	}
	return path
}
