package parser

import (
	"testing"

	"floe/internal/ast"
	"floe/internal/source"
)

func parse(t *testing.T, src string) (*ast.Builder, *ast.Module) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	p := New()
	res, err := p.ParseVirtual("test.py", src, b)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if res.HadErrors {
		t.Fatalf("unexpected syntax errors in:\n%s", src)
	}
	return b, b.Modules.Get(res.Module)
}

func stmtKinds(b *ast.Builder, body []ast.StmtID) []ast.StmtKind {
	kinds := make([]ast.StmtKind, len(body))
	for i, id := range body {
		kinds[i] = b.Stmts.Get(id).Kind
	}
	return kinds
}

func wantStmtKinds(t *testing.T, b *ast.Builder, body []ast.StmtID, want ...ast.StmtKind) {
	t.Helper()
	got := stmtKinds(b, body)
	if len(got) != len(want) {
		t.Fatalf("statement kinds %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statement %d: %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLowerStatementKinds(t *testing.T) {
	b, mod := parse(t, `
x = 1
x += 1
y: int = 2
if a:
    pass
while a:
    break
for i in xs:
    continue
with ctx() as c:
    pass
try:
    pass
except Exception:
    pass
match v:
    case _:
        pass
def f():
    return
class C:
    pass
raise ValueError()
import os
from os import path
global g
del x
type Alias = int
pass
`)
	wantStmtKinds(t, b, mod.Body,
		ast.StmtAssign, ast.StmtAugAssign, ast.StmtAnnAssign, ast.StmtIf,
		ast.StmtWhile, ast.StmtFor, ast.StmtWith, ast.StmtTry, ast.StmtMatch,
		ast.StmtFuncDef, ast.StmtClassDef, ast.StmtRaise, ast.StmtImport,
		ast.StmtImportFrom, ast.StmtGlobal, ast.StmtDelete, ast.StmtTypeAlias,
		ast.StmtPass)
}

func TestLowerElifChainNests(t *testing.T) {
	b, mod := parse(t, `
if a:
    x = 1
elif b:
    x = 2
else:
    x = 3
`)
	outer, ok := b.Stmts.If(mod.Body[0])
	if !ok {
		t.Fatalf("expected an if statement")
	}
	if len(outer.Else) != 1 {
		t.Fatalf("elif should lower to a single nested if, got %d else statements", len(outer.Else))
	}
	inner, ok := b.Stmts.If(outer.Else[0])
	if !ok {
		t.Fatalf("elif did not lower to an if")
	}
	if len(inner.Then) != 1 || len(inner.Else) != 1 {
		t.Fatalf("nested if shape wrong: %d then, %d else", len(inner.Then), len(inner.Else))
	}
}

func TestLowerChainedAssignment(t *testing.T) {
	b, mod := parse(t, "a = b = 1\n")
	data, ok := b.Stmts.Assign(mod.Body[0])
	if !ok {
		t.Fatalf("expected an assignment")
	}
	if len(data.Targets) != 2 {
		t.Fatalf("chained assignment should flatten to 2 targets, got %d", len(data.Targets))
	}
	if b.Exprs.Get(data.Value).Kind != ast.ExprLiteral {
		t.Fatalf("assignment value is not the literal")
	}
}

func TestLowerAugAssignOperator(t *testing.T) {
	b, mod := parse(t, "x **= 2\n")
	data, ok := b.Stmts.AugAssign(mod.Body[0])
	if !ok {
		t.Fatalf("expected an augmented assignment")
	}
	if op := b.Strings.MustLookup(data.Op); op != "**" {
		t.Fatalf("operator lowered to %q, want **", op)
	}
}

func TestLowerBareAnnotation(t *testing.T) {
	b, mod := parse(t, "x: int\n")
	data, ok := b.Stmts.AnnAssign(mod.Body[0])
	if !ok {
		t.Fatalf("expected an annotated assignment")
	}
	if data.Value != ast.NoExprID {
		t.Fatalf("bare annotation should carry no value")
	}
}

func TestLowerImportShapes(t *testing.T) {
	b, mod := parse(t, `
import os.path, json as j
from ..pkg import name as alias
from os import *
`)
	imp, _ := b.Stmts.Import(mod.Body[0])
	if len(imp.Aliases) != 2 {
		t.Fatalf("expected 2 import aliases, got %d", len(imp.Aliases))
	}
	if got := b.Strings.MustLookup(imp.Aliases[0].Path); got != "os.path" {
		t.Fatalf("dotted path lowered to %q", got)
	}
	if got := b.Strings.MustLookup(imp.Aliases[1].Asname); got != "j" {
		t.Fatalf("asname lowered to %q", got)
	}

	from, _ := b.Stmts.ImportFrom(mod.Body[1])
	if from.Level != 2 {
		t.Fatalf("relative import level = %d, want 2", from.Level)
	}
	if got := b.Strings.MustLookup(from.Module); got != "pkg" {
		t.Fatalf("relative module lowered to %q", got)
	}
	if len(from.Aliases) != 1 || b.Strings.MustLookup(from.Aliases[0].Asname) != "alias" {
		t.Fatalf("from-import alias shape wrong: %+v", from.Aliases)
	}

	wild, _ := b.Stmts.ImportFrom(mod.Body[2])
	if !wild.Wildcard {
		t.Fatalf("wildcard import not flagged")
	}
}

func TestLowerTryShape(t *testing.T) {
	b, mod := parse(t, `
try:
    pass
except ValueError as e:
    pass
except (KeyError, TypeError):
    pass
else:
    pass
finally:
    pass
`)
	data, ok := b.Stmts.Try(mod.Body[0])
	if !ok {
		t.Fatalf("expected a try statement")
	}
	if len(data.Handlers) != 2 {
		t.Fatalf("expected 2 handlers, got %d", len(data.Handlers))
	}
	if got := b.Strings.MustLookup(data.Handlers[0].Name); got != "e" {
		t.Fatalf("handler alias lowered to %q", got)
	}
	if data.Handlers[1].Name != source.NoStringID {
		t.Fatalf("second handler should have no alias")
	}
	if b.Exprs.Get(data.Handlers[1].Type).Kind != ast.ExprTuple {
		t.Fatalf("multi-exception clause should lower to a tuple")
	}
	if len(data.Else) != 1 || len(data.Finally) != 1 {
		t.Fatalf("else/finally missing: %d/%d", len(data.Else), len(data.Finally))
	}
}

func TestLowerMatchShape(t *testing.T) {
	b, mod := parse(t, `
match v:
    case 1 | 2:
        pass
    case [a, *rest] if a:
        pass
    case _:
        pass
`)
	data, ok := b.Stmts.Match(mod.Body[0])
	if !ok {
		t.Fatalf("expected a match statement")
	}
	if len(data.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(data.Cases))
	}
	if b.Patterns.Get(data.Cases[0].Pattern).Kind != ast.PatternOr {
		t.Fatalf("union pattern did not lower to an or-pattern")
	}
	if data.Cases[0].Guard != ast.NoExprID {
		t.Fatalf("first case should carry no guard")
	}
	if data.Cases[1].Guard == ast.NoExprID {
		t.Fatalf("guarded case lost its guard")
	}
	if b.Patterns.Get(data.Cases[2].Pattern).Kind != ast.PatternWildcard {
		t.Fatalf("underscore did not lower to a wildcard pattern")
	}
}

func TestLowerFuncDefShape(t *testing.T) {
	b, mod := parse(t, `
@deco
async def f(a, b=1, *args, c, **kw) -> int:
    pass
`)
	data, ok := b.Stmts.FuncDef(mod.Body[0])
	if !ok {
		t.Fatalf("expected a function definition")
	}
	if !data.IsAsync {
		t.Fatalf("async flag not set")
	}
	if len(data.Decorators) != 1 {
		t.Fatalf("decorator missing")
	}
	if data.Returns == ast.NoExprID {
		t.Fatalf("return annotation missing")
	}
	kinds := make([]ast.ParamKind, len(data.Params))
	for i, pid := range data.Params {
		kinds[i] = b.Params.Get(pid).Kind
	}
	want := []ast.ParamKind{
		ast.ParamPositional, ast.ParamPositional, ast.ParamVarArgs,
		ast.ParamKeywordOnly, ast.ParamKwArgs,
	}
	if len(kinds) != len(want) {
		t.Fatalf("param kinds %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("param %d kind %v, want %v", i, kinds[i], want[i])
		}
	}
	if b.Params.Get(data.Params[1]).Default == ast.NoExprID {
		t.Fatalf("default value missing on b")
	}
}

func TestLowerComparisonOperators(t *testing.T) {
	b, mod := parse(t, "r = a is not b not in c\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.Compare(assign.Value)
	if !ok {
		t.Fatalf("expected a comparison")
	}
	if len(data.Ops) != 2 || len(data.Comparators) != 2 {
		t.Fatalf("comparison shape: %d ops, %d comparators", len(data.Ops), len(data.Comparators))
	}
	if got := b.Strings.MustLookup(data.Ops[0]); got != "is not" {
		t.Fatalf("first op %q, want \"is not\"", got)
	}
	if got := b.Strings.MustLookup(data.Ops[1]); got != "not in" {
		t.Fatalf("second op %q, want \"not in\"", got)
	}
}

func TestLowerBoolChainFlattens(t *testing.T) {
	b, mod := parse(t, "r = a and b and c\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.BoolOp(assign.Value)
	if !ok {
		t.Fatalf("expected a boolean operator")
	}
	if data.Op != ast.BoolAnd {
		t.Fatalf("op = %v, want and", data.Op)
	}
	if len(data.Values) != 3 {
		t.Fatalf("same-operator chain should flatten to 3 values, got %d", len(data.Values))
	}
}

func TestLowerConditionalExpressionFieldOrder(t *testing.T) {
	b, mod := parse(t, "r = x if cond else y\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.IfExp(assign.Value)
	if !ok {
		t.Fatalf("expected a conditional expression")
	}
	name := func(id ast.ExprID) string {
		d, _ := b.Exprs.Name(id)
		return b.Strings.MustLookup(d.Name)
	}
	if name(data.Test) != "cond" || name(data.Then) != "x" || name(data.Else) != "y" {
		t.Fatalf("field order wrong: test=%s then=%s else=%s",
			name(data.Test), name(data.Then), name(data.Else))
	}
}

func TestLowerComprehensionClauses(t *testing.T) {
	b, mod := parse(t, "r = {k: v for k, v in pairs if k}\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.Comp(assign.Value)
	if !ok {
		t.Fatalf("expected a comprehension")
	}
	if data.Kind != ast.CompDict {
		t.Fatalf("kind = %v, want dict", data.Kind)
	}
	if data.Key == ast.NoExprID {
		t.Fatalf("dict comprehension lost its key")
	}
	if len(data.Clauses) != 1 {
		t.Fatalf("expected 1 for-clause, got %d", len(data.Clauses))
	}
	clause := data.Clauses[0]
	if b.Exprs.Get(clause.Target).Kind != ast.ExprTuple {
		t.Fatalf("tuple target did not lower to a tuple")
	}
	if len(clause.Ifs) != 1 {
		t.Fatalf("if-clause missing")
	}
}

func TestLowerSliceSlots(t *testing.T) {
	b, mod := parse(t, "r = xs[1:2:3]\nq = xs[::2]\n")
	first, _ := b.Stmts.Assign(mod.Body[0])
	sub, _ := b.Exprs.Subscript(first.Value)
	sl, ok := b.Exprs.Slice(sub.Index)
	if !ok {
		t.Fatalf("expected a slice index")
	}
	if sl.Lower == ast.NoExprID || sl.Upper == ast.NoExprID || sl.Step == ast.NoExprID {
		t.Fatalf("full slice lost a slot: %+v", sl)
	}

	second, _ := b.Stmts.Assign(mod.Body[1])
	sub2, _ := b.Exprs.Subscript(second.Value)
	sl2, _ := b.Exprs.Slice(sub2.Index)
	if sl2.Lower != ast.NoExprID || sl2.Upper != ast.NoExprID || sl2.Step == ast.NoExprID {
		t.Fatalf("step-only slice slots wrong: %+v", sl2)
	}
}

func TestLowerFStringInterpolations(t *testing.T) {
	b, mod := parse(t, "r = f\"a{x}b{y}\"\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.FString(assign.Value)
	if !ok {
		t.Fatalf("expected an f-string")
	}
	if len(data.Interpolations) != 2 {
		t.Fatalf("expected 2 interpolations, got %d", len(data.Interpolations))
	}
}

func TestLowerCallArguments(t *testing.T) {
	b, mod := parse(t, "r = f(a, *rest, key=1, **extra)\n")
	assign, _ := b.Stmts.Assign(mod.Body[0])
	data, ok := b.Exprs.Call(assign.Value)
	if !ok {
		t.Fatalf("expected a call")
	}
	if len(data.Args) != 2 {
		t.Fatalf("expected 2 positional args (incl. starred), got %d", len(data.Args))
	}
	if b.Exprs.Get(data.Args[1]).Kind != ast.ExprStarred {
		t.Fatalf("star argument did not lower to starred")
	}
	if len(data.Keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %d", len(data.Keywords))
	}
	if data.Keywords[1].Name != source.NoStringID {
		t.Fatalf("** spread should carry no keyword name")
	}
}

func TestLowerSyntaxErrorStillProduces(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	p := New()
	res, err := p.ParseVirtual("bad.py", "def broken(:\nx = 1\n", b)
	if err != nil {
		t.Fatalf("recovery parse failed outright: %v", err)
	}
	if !res.HadErrors {
		t.Fatalf("syntax errors not reported")
	}
	mod := b.Modules.Get(res.Module)
	if len(mod.Body) == 0 {
		t.Fatalf("recovery salvaged nothing")
	}
}
