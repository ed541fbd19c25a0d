package semantic

import (
	"fmt"

	"floe/internal/ast"
)

func (ib *indexBuilder) walkExpr(id ast.ExprID) {
	if !id.IsValid() {
		return
	}
	expr := ib.b.Exprs.Get(id)
	if expr == nil {
		panic(fmt.Sprintf("semantic: invalid expression ID %d", id))
	}
	ib.idx.exprScope[id] = ib.cur().scope

	switch expr.Kind {
	case ast.ExprName:
		data, _ := ib.b.Exprs.Name(id)
		if data.Ctx == ast.NameLoad {
			ib.recordUse(id, data.Name, expr.Span)
		} else {
			// Store/del names reached outside a binder context still get a
			// symbol so lookups see them.
			ib.ensureSymbol(data.Name, expr.Span, 0)
		}
	case ast.ExprLiteral:
		// nothing to resolve
	case ast.ExprBoolOp:
		data, _ := ib.b.Exprs.BoolOp(id)
		ib.walkBoolChain(data.Op, data.Values)
	case ast.ExprBinOp:
		data, _ := ib.b.Exprs.BinOp(id)
		ib.walkExpr(data.Left)
		ib.walkExpr(data.Right)
	case ast.ExprUnaryOp:
		data, _ := ib.b.Exprs.UnaryOp(id)
		ib.walkExpr(data.Operand)
	case ast.ExprCompare:
		data, _ := ib.b.Exprs.Compare(id)
		ib.walkExpr(data.Left)
		for _, cmp := range data.Comparators {
			ib.walkExpr(cmp)
		}
	case ast.ExprCall:
		data, _ := ib.b.Exprs.Call(id)
		ib.walkExpr(data.Func)
		for _, arg := range data.Args {
			ib.walkExpr(arg)
		}
		for _, kw := range data.Keywords {
			ib.walkExpr(kw.Value)
		}
	case ast.ExprAttribute:
		data, _ := ib.b.Exprs.Attribute(id)
		ib.walkExpr(data.Value)
	case ast.ExprSubscript:
		data, _ := ib.b.Exprs.Subscript(id)
		ib.walkExpr(data.Value)
		ib.walkExpr(data.Index)
	case ast.ExprSlice:
		data, _ := ib.b.Exprs.Slice(id)
		ib.walkExpr(data.Lower)
		ib.walkExpr(data.Upper)
		ib.walkExpr(data.Step)
	case ast.ExprTuple, ast.ExprList, ast.ExprSet:
		data, _ := ib.b.Exprs.Sequence(id)
		for _, elem := range data.Elems {
			ib.walkExpr(elem)
		}
	case ast.ExprDict:
		data, _ := ib.b.Exprs.Dict(id)
		for i, key := range data.Keys {
			ib.walkExpr(key) // NoExprID for **spread entries
			ib.walkExpr(data.Values[i])
		}
	case ast.ExprStarred:
		data, _ := ib.b.Exprs.Starred(id)
		ib.walkExpr(data.Value)
	case ast.ExprIfExp:
		ib.walkIfExp(id)
	case ast.ExprLambda:
		ib.walkLambda(id)
	case ast.ExprNamed:
		ib.walkNamed(id)
	case ast.ExprComp:
		ib.walkComp(id)
	case ast.ExprYield, ast.ExprYieldFrom:
		data, _ := ib.b.Exprs.Yield(id)
		ib.walkExpr(data.Value)
	case ast.ExprAwait:
		data, _ := ib.b.Exprs.Await(id)
		ib.walkExpr(data.Value)
	case ast.ExprFString:
		data, _ := ib.b.Exprs.FString(id)
		for _, interp := range data.Interpolations {
			ib.walkExpr(interp)
		}
	default:
		panic(fmt.Sprintf("semantic: unhandled expression kind %v", expr.Kind))
	}
}

// walkBoolChain models short-circuit evaluation: each operand past the first
// runs only when every earlier operand let evaluation continue. For `and`
// that means the operand tested true, for `or` that it tested false. The
// chain folds right-associatively as a stack of one-armed branches, so a
// walrus inside a right operand stays conditional.
func (ib *indexBuilder) walkBoolChain(op ast.BoolOpKind, values []ast.ExprID) {
	if len(values) == 0 {
		return
	}
	ib.walkExpr(values[0])
	if len(values) == 1 {
		return
	}
	vs := ib.idx.Visibility
	taken := vs.Single(ib.addTestConstraint(values[0]))
	if op == ast.BoolOr {
		taken = vs.Negate(taken)
	}

	ctx := ib.cur()
	pre := ctx.state.Snapshot()

	ib.walkBoolChain(op, values[1:])
	ctx.state.ApplyConstraint(vs, taken)

	skipped := pre
	skipped.ApplyConstraint(vs, vs.Negate(taken))
	ctx.state.Merge(vs, skipped)
}

func (ib *indexBuilder) walkIfExp(id ast.ExprID) {
	data, _ := ib.b.Exprs.IfExp(id)
	vs := ib.idx.Visibility
	ib.walkExpr(data.Test)
	cond := vs.Single(ib.addTestConstraint(data.Test))

	ctx := ib.cur()
	pre := ctx.state.Snapshot()

	ib.walkExpr(data.Then)
	ctx.state.ApplyConstraint(vs, cond)
	thenEnd := ctx.state

	ctx.state = pre
	ib.walkExpr(data.Else)
	ctx.state.ApplyConstraint(vs, vs.Negate(cond))

	ctx.state.Merge(vs, thenEnd)
}

// walkLambda evaluates parameter defaults in the enclosing scope, then walks
// the body expression in a fresh lambda scope.
func (ib *indexBuilder) walkLambda(id ast.ExprID) {
	data, _ := ib.b.Exprs.Lambda(id)
	for _, pid := range data.Params {
		ib.walkExpr(ib.b.Params.Get(pid).Default)
	}

	ctx := ib.pushScope(ScopeLambda, ib.b.Exprs.Get(id).Span)
	ib.idx.Scopes.Get(ctx.scope).Expr = id
	ib.idx.ownedByExpr[id] = ctx.scope
	for _, pid := range data.Params {
		param := ib.b.Params.Get(pid)
		sym := ib.ensureSymbol(param.Name, param.Span, SymbolFlagParameter)
		ib.bind(sym, Definition{
			Kind:  DefParam,
			Expr:  id,
			Param: pid,
			Span:  param.Span,
		})
	}
	ib.walkExpr(data.Body)
	ib.popScope()
}

// walkNamed handles the walrus: the value evaluates first, then the target
// binds in the current scope.
func (ib *indexBuilder) walkNamed(id ast.ExprID) {
	data, _ := ib.b.Exprs.Named(id)
	ib.walkExpr(data.Value)
	name, ok := ib.b.Exprs.Name(data.Target)
	if !ok {
		ib.walkExpr(data.Target)
		return
	}
	span := ib.b.Exprs.Get(data.Target).Span
	ib.idx.exprScope[data.Target] = ib.cur().scope
	sym := ib.ensureSymbol(name.Name, span, 0)
	ib.bind(sym, Definition{
		Kind: DefNamedExpr,
		Expr: id,
		Span: span,
	})
}

// walkComp evaluates the first clause's iterable in the enclosing scope, as
// Python does, then moves into the comprehension's own scope for everything
// else. Walrus targets inside the comprehension bind in the comprehension
// scope; the enclosing-scope leak CPython gives them is deliberately not
// modeled.
func (ib *indexBuilder) walkComp(id ast.ExprID) {
	data, _ := ib.b.Exprs.Comp(id)
	if len(data.Clauses) > 0 {
		ib.walkExpr(data.Clauses[0].Iter)
	}

	ctx := ib.pushScope(ScopeComprehension, ib.b.Exprs.Get(id).Span)
	ib.idx.Scopes.Get(ctx.scope).Expr = id
	ib.idx.ownedByExpr[id] = ctx.scope
	for i := range data.Clauses {
		clause := &data.Clauses[i]
		if i > 0 {
			ib.walkExpr(clause.Iter)
		}
		ib.bindTarget(clause.Target, DefComprehension, ast.NoStmtID)
		for _, cond := range clause.Ifs {
			ib.walkExpr(cond)
		}
	}
	ib.walkExpr(data.Key)
	ib.walkExpr(data.Element)
	ib.popScope()
}
