package semantic

import (
	"fmt"

	"floe/internal/ast"
	"floe/internal/source"
)

func (ib *indexBuilder) walkStmt(id ast.StmtID) {
	stmt := ib.b.Stmts.Get(id)
	if stmt == nil {
		panic(fmt.Sprintf("semantic: invalid statement ID %d", id))
	}
	ib.idx.stmtScope[id] = ib.cur().scope

	switch stmt.Kind {
	case ast.StmtExpr:
		data, _ := ib.b.Stmts.ExprStmt(id)
		ib.walkExpr(data.Value)
	case ast.StmtAssign:
		ib.visitAssign(id)
	case ast.StmtAugAssign:
		ib.visitAugAssign(id)
	case ast.StmtAnnAssign:
		ib.visitAnnAssign(id)
	case ast.StmtIf:
		ib.visitIf(id)
	case ast.StmtWhile:
		ib.visitWhile(id)
	case ast.StmtFor:
		ib.visitFor(id)
	case ast.StmtWith:
		ib.visitWith(id)
	case ast.StmtTry:
		ib.visitTry(id)
	case ast.StmtMatch:
		ib.visitMatch(id)
	case ast.StmtFuncDef:
		ib.visitFuncDef(id)
	case ast.StmtClassDef:
		ib.visitClassDef(id)
	case ast.StmtReturn:
		data, _ := ib.b.Stmts.Return(id)
		ib.walkExpr(data.Value)
	case ast.StmtRaise:
		data, _ := ib.b.Stmts.Raise(id)
		ib.walkExpr(data.Exc)
		ib.walkExpr(data.Cause)
	case ast.StmtImport:
		ib.visitImport(id)
	case ast.StmtImportFrom:
		ib.visitImportFrom(id)
	case ast.StmtGlobal:
		data, _ := ib.b.Stmts.Global(id)
		for _, ref := range data.Names {
			ib.ensureSymbol(ref.Name, ref.Span, SymbolFlagGlobal)
		}
	case ast.StmtNonlocal:
		data, _ := ib.b.Stmts.Nonlocal(id)
		for _, ref := range data.Names {
			ib.ensureSymbol(ref.Name, ref.Span, SymbolFlagNonlocal)
		}
	case ast.StmtDelete:
		ib.visitDelete(id)
	case ast.StmtTypeAlias:
		ib.visitTypeAlias(id)
	case ast.StmtPass:
		// no effect on flow
	case ast.StmtBreak:
		ctx := ib.cur()
		if n := len(ctx.loops); n > 0 {
			loop := ctx.loops[n-1]
			loop.breaks = append(loop.breaks, ctx.state.Snapshot())
		}
	case ast.StmtContinue:
		ctx := ib.cur()
		if n := len(ctx.loops); n > 0 {
			loop := ctx.loops[n-1]
			loop.continues = append(loop.continues, ctx.state.Snapshot())
		}
	default:
		panic(fmt.Sprintf("semantic: unhandled statement kind %v", stmt.Kind))
	}
}

func (ib *indexBuilder) visitAssign(id ast.StmtID) {
	data, _ := ib.b.Stmts.Assign(id)
	ib.walkExpr(data.Value)
	for _, target := range data.Targets {
		ib.bindTarget(target, DefAssign, id)
	}
}

// visitAugAssign reads the target before rebinding it: `x += 1` on an
// unbound x is an unbound use.
func (ib *indexBuilder) visitAugAssign(id ast.StmtID) {
	data, _ := ib.b.Stmts.AugAssign(id)
	ib.walkExpr(data.Value)
	target := ib.b.Exprs.Get(data.Target)
	if name, ok := ib.b.Exprs.Name(data.Target); ok {
		ib.idx.exprScope[data.Target] = ib.cur().scope
		ib.recordUse(data.Target, name.Name, target.Span)
		sym := ib.ensureSymbol(name.Name, target.Span, 0)
		ib.bind(sym, Definition{
			Kind: DefAugAssign,
			Stmt: id,
			Expr: data.Target,
			Span: target.Span,
		})
		return
	}
	ib.walkExpr(data.Target)
}

func (ib *indexBuilder) visitAnnAssign(id ast.StmtID) {
	data, _ := ib.b.Stmts.AnnAssign(id)
	ib.walkExpr(data.Annotation)
	if data.Value.IsValid() {
		ib.walkExpr(data.Value)
		ib.bindTarget(data.Target, DefAnnAssign, id)
		return
	}
	// A bare annotation declares the name local without binding it.
	if name, ok := ib.b.Exprs.Name(data.Target); ok {
		ib.idx.exprScope[data.Target] = ib.cur().scope
		ib.ensureSymbol(name.Name, ib.b.Exprs.Get(data.Target).Span, 0)
		return
	}
	ib.walkExpr(data.Target)
}

// visitIf models one if/else split. An elif chain arrives as a nested if in
// the else arm, so the two-way merge composes to the full chain on its own.
func (ib *indexBuilder) visitIf(id ast.StmtID) {
	data, _ := ib.b.Stmts.If(id)
	ib.walkExpr(data.Cond)
	cond := ib.idx.Visibility.Single(ib.addTestConstraint(data.Cond))

	ctx := ib.cur()
	pre := ctx.state.Snapshot()

	ib.visitBody(data.Then)
	ctx.state.ApplyConstraint(ib.idx.Visibility, cond)
	thenEnd := ctx.state

	ctx.state = pre
	ib.visitBody(data.Else)
	ctx.state.ApplyConstraint(ib.idx.Visibility, ib.idx.Visibility.Negate(cond))

	ctx.state.Merge(ib.idx.Visibility, thenEnd)
}

// visitWhile over-approximates the loop as zero-or-more iterations: the body
// contribution merges in under ambiguous visibility, and the no-break
// continuation (fall-through plus else clause) carries the negated test.
// Break states also merge in ambiguously; whether a break path ran depends
// on iteration behavior this layer never reasons about.
func (ib *indexBuilder) visitWhile(id ast.StmtID) {
	data, _ := ib.b.Stmts.While(id)
	vs := ib.idx.Visibility
	ib.walkExpr(data.Cond)
	cond := vs.Single(ib.addTestConstraint(data.Cond))

	ctx := ib.cur()
	pre := ctx.state.Snapshot()
	loop := &loopContext{}
	ctx.loops = append(ctx.loops, loop)

	ib.visitBody(data.Body)
	for _, cont := range loop.continues {
		ctx.state.Merge(vs, cont)
	}
	ctx.loops = ctx.loops[:len(ctx.loops)-1]

	endBody := ctx.state
	endBody.ApplyConstraint(vs, VisAmbiguous)
	ctx.state = pre
	ctx.state.Merge(vs, endBody)

	ib.visitBody(data.Else)
	ctx.state.ApplyConstraint(vs, vs.Negate(cond))

	for _, brk := range loop.breaks {
		brk.ApplyConstraint(vs, VisAmbiguous)
		ctx.state.Merge(vs, brk)
	}
}

// visitFor follows the same shape as visitWhile; there is no boolean test,
// so the no-break continuation carries no constraint beyond the ambiguous
// body merge. The target rebinds on every iteration and is part of the
// ambiguous contribution.
func (ib *indexBuilder) visitFor(id ast.StmtID) {
	data, _ := ib.b.Stmts.For(id)
	vs := ib.idx.Visibility
	ib.walkExpr(data.Iter)

	ctx := ib.cur()
	pre := ctx.state.Snapshot()
	loop := &loopContext{}
	ctx.loops = append(ctx.loops, loop)

	ib.bindTarget(data.Target, DefFor, id)
	ib.visitBody(data.Body)
	for _, cont := range loop.continues {
		ctx.state.Merge(vs, cont)
	}
	ctx.loops = ctx.loops[:len(ctx.loops)-1]

	endBody := ctx.state
	endBody.ApplyConstraint(vs, VisAmbiguous)
	ctx.state = pre
	ctx.state.Merge(vs, endBody)

	ib.visitBody(data.Else)

	for _, brk := range loop.breaks {
		brk.ApplyConstraint(vs, VisAmbiguous)
		ctx.state.Merge(vs, brk)
	}
}

func (ib *indexBuilder) visitWith(id ast.StmtID) {
	data, _ := ib.b.Stmts.With(id)
	for _, item := range data.Items {
		ib.walkExpr(item.Context)
		if item.Target.IsValid() {
			ib.bindTarget(item.Target, DefWith, id)
		}
	}
	ib.visitBody(data.Body)
}

// visitTry records a flow snapshot at try entry and after each statement of
// the try body; an exception can surface at any of those boundaries, so a
// handler entry is the ambiguous merge of all of them. A nested try inside
// the body contributes exactly one post-statement snapshot here — its
// internal boundaries belong to its own context.
func (ib *indexBuilder) visitTry(id ast.StmtID) {
	data, _ := ib.b.Stmts.Try(id)
	vs := ib.idx.Visibility
	ctx := ib.cur()

	try := &tryContext{}
	ctx.tries = append(ctx.tries, try)
	try.record(ctx.state)
	for _, stmt := range data.Body {
		ib.walkStmt(stmt)
		try.record(ctx.state)
	}
	// Handlers do not catch exceptions raised by their own bodies.
	ctx.tries = ctx.tries[:len(ctx.tries)-1]

	bodyEnd := ctx.state

	var handlerEntry *FlowState
	for _, snap := range try.snapshots {
		snap.ApplyConstraint(vs, VisAmbiguous)
		if handlerEntry == nil {
			handlerEntry = snap
		} else {
			handlerEntry.Merge(vs, snap)
		}
	}

	exits := make([]*FlowState, 0, len(data.Handlers))
	for i := range data.Handlers {
		handler := &data.Handlers[i]
		ctx.state = handlerEntry.Snapshot()
		ib.walkExpr(handler.Type)
		var sym SymbolID
		if handler.Name != source.NoStringID {
			sym = ib.ensureSymbol(handler.Name, handler.NameSpan, 0)
			ib.bind(sym, Definition{
				Kind: DefExcept,
				Stmt: id,
				Span: handler.NameSpan,
			})
		}
		ib.visitBody(handler.Body)
		if sym.IsValid() {
			// `except E as n` unbinds n when the handler exits.
			ctx.state.SetBinding(sym, UnboundDefinition, VisAlways)
		}
		exits = append(exits, ctx.state)
	}

	// Success path: the else clause runs only when the body completed.
	ctx.state = bodyEnd
	ib.visitBody(data.Else)

	for _, exit := range exits {
		ctx.state.Merge(vs, exit)
	}
	ib.visitBody(data.Finally)
}

// visitMatch walks the case chain. Each arm sees the fall-through state of
// the arms before it; an arm with an irrefutable pattern and no guard ends
// the chain, otherwise the untaken fall-through joins the final merge.
func (ib *indexBuilder) visitMatch(id ast.StmtID) {
	data, _ := ib.b.Stmts.Match(id)
	vs := ib.idx.Visibility
	ib.walkExpr(data.Subject)

	ctx := ib.cur()
	noMatch := ctx.state
	var results []*FlowState
	exhaustive := false

	for i := range data.Cases {
		cse := &data.Cases[i]
		patVis := vs.Single(ib.addPatternConstraint(cse.Pattern))

		ctx.state = noMatch.Snapshot()
		ib.bindPattern(cse.Pattern, id)

		armVis := patVis
		fallVis := vs.Negate(patVis)
		if cse.Guard.IsValid() {
			ib.walkExpr(cse.Guard)
			guard := vs.Single(ib.addTestConstraint(cse.Guard))
			armVis = vs.Sequence(patVis, guard)
			// A guard failure falls through with the captures already
			// bound; neither outcome is a clean pattern negation.
			fallVis = VisAmbiguous
		}
		ib.visitBody(cse.Body)
		ctx.state.ApplyConstraint(vs, armVis)
		results = append(results, ctx.state)

		if !cse.Guard.IsValid() && ib.b.Patterns.Irrefutable(cse.Pattern) {
			exhaustive = true
			break
		}

		next := noMatch.Snapshot()
		next.ApplyConstraint(vs, fallVis)
		noMatch = next
	}

	if !exhaustive {
		results = append(results, noMatch)
	}
	ctx.state = results[0]
	for _, r := range results[1:] {
		ctx.state.Merge(vs, r)
	}
}

// visitFuncDef evaluates decorators, parameter defaults, and annotations in
// the enclosing scope, binds the function name there, then walks the body in
// a fresh function scope. The body's flow never leaks out: when the function
// runs is unknown here.
func (ib *indexBuilder) visitFuncDef(id ast.StmtID) {
	data, _ := ib.b.Stmts.FuncDef(id)
	for _, dec := range data.Decorators {
		ib.walkExpr(dec)
	}
	for _, pid := range data.Params {
		param := ib.b.Params.Get(pid)
		ib.walkExpr(param.Annotation)
		ib.walkExpr(param.Default)
	}
	ib.walkExpr(data.Returns)

	sym := ib.ensureSymbol(data.Name, data.NameSpan, 0)
	ib.bind(sym, Definition{
		Kind: DefFunction,
		Stmt: id,
		Span: data.NameSpan,
	})

	ctx := ib.pushScope(ScopeFunction, ib.b.Stmts.Get(id).Span)
	ib.idx.Scopes.Get(ctx.scope).Stmt = id
	ib.idx.ownedByStmt[id] = ctx.scope
	ib.bindTypeParams(id, data.TypeParams)
	for _, pid := range data.Params {
		param := ib.b.Params.Get(pid)
		psym := ib.ensureSymbol(param.Name, param.Span, SymbolFlagParameter)
		ib.bind(psym, Definition{
			Kind:  DefParam,
			Stmt:  id,
			Param: pid,
			Span:  param.Span,
		})
	}
	ib.visitBody(data.Body)
	ib.popScope()
}

// visitClassDef binds the class name after the body runs, matching runtime
// order: the body executes first and the name appears only once the class
// object exists.
func (ib *indexBuilder) visitClassDef(id ast.StmtID) {
	data, _ := ib.b.Stmts.ClassDef(id)
	for _, dec := range data.Decorators {
		ib.walkExpr(dec)
	}
	for _, arg := range data.Arguments {
		ib.walkExpr(arg)
	}

	ctx := ib.pushScope(ScopeClass, ib.b.Stmts.Get(id).Span)
	ib.idx.Scopes.Get(ctx.scope).Stmt = id
	ib.idx.ownedByStmt[id] = ctx.scope
	ib.bindTypeParams(id, data.TypeParams)
	ib.visitBody(data.Body)
	ib.popScope()

	sym := ib.ensureSymbol(data.Name, data.NameSpan, 0)
	ib.bind(sym, Definition{
		Kind: DefClass,
		Stmt: id,
		Span: data.NameSpan,
	})
}

func (ib *indexBuilder) visitTypeAlias(id ast.StmtID) {
	data, _ := ib.b.Stmts.TypeAlias(id)
	sym := ib.ensureSymbol(data.Name, data.NameSpan, 0)
	ib.bind(sym, Definition{
		Kind: DefTypeAlias,
		Stmt: id,
		Span: data.NameSpan,
	})

	// The alias value lives in its own scope so its type parameters stay
	// invisible outside.
	ctx := ib.pushScope(ScopeTypeAlias, ib.b.Stmts.Get(id).Span)
	ib.idx.Scopes.Get(ctx.scope).Stmt = id
	ib.idx.ownedByStmt[id] = ctx.scope
	ib.bindTypeParams(id, data.TypeParams)
	ib.walkExpr(data.Value)
	ib.popScope()
}

func (ib *indexBuilder) bindTypeParams(stmt ast.StmtID, params []ast.TypeParam) {
	for _, tp := range params {
		sym := ib.ensureSymbol(tp.Name, tp.Span, 0)
		ib.bind(sym, Definition{
			Kind: DefTypeParam,
			Stmt: stmt,
			Span: tp.Span,
		})
	}
}

// visitImport binds each alias: `import a.b` binds a, `import a.b as c`
// binds c.
func (ib *indexBuilder) visitImport(id ast.StmtID) {
	data, _ := ib.b.Stmts.Import(id)
	for i, alias := range data.Aliases {
		name := alias.Asname
		if name == source.NoStringID {
			path := ib.idx.Strings.MustLookup(alias.Path)
			name = ib.idx.Strings.InternIdent(firstDottedSegment(path))
		}
		sym := ib.ensureSymbol(name, alias.Span, 0)
		ib.bind(sym, Definition{
			Kind:       DefImport,
			Stmt:       id,
			AliasIndex: uint32(i), //nolint:gosec // alias lists are tiny
			Span:       alias.Span,
		})
	}
}

func (ib *indexBuilder) visitImportFrom(id ast.StmtID) {
	data, _ := ib.b.Stmts.ImportFrom(id)
	if data.Wildcard {
		scope := ib.cur().scope
		ib.idx.wildcardImports[scope] = append(ib.idx.wildcardImports[scope], id)
		return
	}
	for i, alias := range data.Aliases {
		name := alias.Asname
		if name == source.NoStringID {
			name = alias.Path
		}
		sym := ib.ensureSymbol(name, alias.Span, 0)
		ib.bind(sym, Definition{
			Kind:       DefImportFrom,
			Stmt:       id,
			AliasIndex: uint32(i), //nolint:gosec // alias lists are tiny
			Span:       alias.Span,
		})
	}
}

// visitDelete records the read the del statement performs, then rebinds the
// name to unbound: a later read on this path is definitely unbound.
func (ib *indexBuilder) visitDelete(id ast.StmtID) {
	data, _ := ib.b.Stmts.Delete(id)
	for _, target := range data.Targets {
		if name, ok := ib.b.Exprs.Name(target); ok {
			span := ib.b.Exprs.Get(target).Span
			ib.idx.exprScope[target] = ib.cur().scope
			ib.recordUse(target, name.Name, span)
			sym := ib.ensureSymbol(name.Name, span, 0)
			ib.cur().state.SetBinding(sym, UnboundDefinition, VisAlways)
			continue
		}
		ib.walkExpr(target)
	}
}

// bindTarget walks an assignment target, binding plain names and recursing
// through tuple/list/star destructuring. Attribute and subscript targets
// bind nothing locally; their bases are ordinary reads.
func (ib *indexBuilder) bindTarget(target ast.ExprID, kind DefinitionKind, stmt ast.StmtID) {
	if !target.IsValid() {
		return
	}
	expr := ib.b.Exprs.Get(target)
	switch expr.Kind {
	case ast.ExprName:
		name, _ := ib.b.Exprs.Name(target)
		ib.idx.exprScope[target] = ib.cur().scope
		sym := ib.ensureSymbol(name.Name, expr.Span, 0)
		ib.bind(sym, Definition{
			Kind: kind,
			Stmt: stmt,
			Expr: target,
			Span: expr.Span,
		})
	case ast.ExprTuple, ast.ExprList:
		seq, _ := ib.b.Exprs.Sequence(target)
		ib.idx.exprScope[target] = ib.cur().scope
		for _, elem := range seq.Elems {
			ib.bindTarget(elem, kind, stmt)
		}
	case ast.ExprStarred:
		star, _ := ib.b.Exprs.Starred(target)
		ib.idx.exprScope[target] = ib.cur().scope
		ib.bindTarget(star.Value, kind, stmt)
	default:
		ib.walkExpr(target)
	}
}

// bindPattern binds every capture of a match pattern and walks the value
// expressions patterns embed (literals, dotted values, class callees,
// mapping keys).
func (ib *indexBuilder) bindPattern(id ast.PatternID, stmt ast.StmtID) {
	if !id.IsValid() {
		return
	}
	pat := ib.b.Patterns.Get(id)
	switch pat.Kind {
	case ast.PatternWildcard:
		// binds nothing
	case ast.PatternCapture:
		ib.bindPattern(pat.Sub, stmt)
		ib.bindPatternName(pat.Name, pat.NameSpan, id, stmt)
	case ast.PatternValue:
		ib.walkExpr(pat.Value)
	case ast.PatternSequence, ast.PatternOr:
		for _, elem := range pat.Elems {
			ib.bindPattern(elem, stmt)
		}
	case ast.PatternMapping:
		for _, key := range pat.Keys {
			ib.walkExpr(key)
		}
		for _, value := range pat.Values {
			ib.bindPattern(value, stmt)
		}
		if pat.Rest != source.NoStringID {
			ib.bindPatternName(pat.Rest, pat.RestSpan, id, stmt)
		}
	case ast.PatternClass:
		ib.walkExpr(pat.Value)
		for _, elem := range pat.Elems {
			ib.bindPattern(elem, stmt)
		}
		for _, value := range pat.Values {
			ib.bindPattern(value, stmt)
		}
	case ast.PatternStar:
		if pat.Name != source.NoStringID {
			ib.bindPatternName(pat.Name, pat.NameSpan, id, stmt)
		}
	default:
		panic(fmt.Sprintf("semantic: unhandled pattern kind %v", pat.Kind))
	}
}

func (ib *indexBuilder) bindPatternName(name source.StringID, span source.Span, pattern ast.PatternID, stmt ast.StmtID) {
	sym := ib.ensureSymbol(name, span, 0)
	ib.bind(sym, Definition{
		Kind:    DefMatchCapture,
		Stmt:    stmt,
		Pattern: pattern,
		Span:    span,
	})
}
