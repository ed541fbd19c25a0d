package semantic_test

import (
	"testing"

	"floe/internal/ast"
	"floe/internal/parser"
	"floe/internal/semantic"
)

func buildIndex(t *testing.T, src string) (*ast.Builder, *semantic.Index) {
	t.Helper()
	b := ast.NewBuilder(ast.Hints{}, nil)
	p := parser.New()
	res, err := p.ParseVirtual("test.py", src, b)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if res.HadErrors {
		t.Fatalf("test source has syntax errors:\n%s", src)
	}
	return b, semantic.BuildIndex(b, res.Module, semantic.Options{})
}

// useOf returns the nth recorded read of a name, in traversal order.
func useOf(t *testing.T, idx *semantic.Index, name string, occurrence int) ast.ExprID {
	t.Helper()
	n := 0
	for _, u := range idx.Uses() {
		sym := idx.Symbols.Get(idx.UseSymbol(u))
		if idx.Strings.MustLookup(sym.Name) != name {
			continue
		}
		if n == occurrence {
			return u
		}
		n++
	}
	t.Fatalf("read %d of %q not recorded (%d found)", occurrence, name, n)
	return 0
}

func wantBoundness(t *testing.T, idx *semantic.Index, name string, occurrence int, want semantic.Boundness) {
	t.Helper()
	use := useOf(t, idx, name, occurrence)
	if got := idx.Boundness(use); got != want {
		t.Fatalf("%q read %d: boundness %v, want %v", name, occurrence, got, want)
	}
}

func TestStraightLineOverwrite(t *testing.T) {
	_, idx := buildIndex(t, "x = 1\nx = 2\ny = x\n")
	use := useOf(t, idx, "x", 0)
	list := idx.ReachingBindings(use)
	if len(list) != 1 {
		t.Fatalf("expected one reaching definition after overwrite, got %d", len(list))
	}
	if !list[0].Definition.IsBound() {
		t.Fatalf("reaching definition is the unbound sentinel")
	}
	if list[0].Visibility != semantic.VisAlways {
		t.Fatalf("straight-line binding should be unconditional")
	}
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestTotalIfElseRestoresUnconditional(t *testing.T) {
	_, idx := buildIndex(t, `
if cond:
    x = 1
else:
    x = 2
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestMissingElseIsPossiblyUnbound(t *testing.T) {
	_, idx := buildIndex(t, `
if cond:
    x = 1
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestElifChainTotal(t *testing.T) {
	_, idx := buildIndex(t, `
if a:
    x = 1
elif b:
    x = 2
else:
    x = 3
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestWhileBodyBindingIsPossiblyUnbound(t *testing.T) {
	_, idx := buildIndex(t, `
while cond:
    x = 1
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestWhileElseBindingSurvives(t *testing.T) {
	_, idx := buildIndex(t, `
while cond:
    pass
else:
    x = 1
y = x
`)
	// No break: the else clause always runs.
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestBreakSkipsLoopElse(t *testing.T) {
	_, idx := buildIndex(t, `
while cond:
    if other:
        break
else:
    x = 1
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestForTargetIsPossiblyUnboundAfterLoop(t *testing.T) {
	_, idx := buildIndex(t, `
for i in items:
    pass
y = i
`)
	// The loop may run zero times.
	wantBoundness(t, idx, "i", 0, semantic.PossiblyUnbound)
}

func TestTryHandlerSeesPartialBody(t *testing.T) {
	_, idx := buildIndex(t, `
try:
    x = f()
    y = g()
except Exception:
    a = x
    b = y
`)
	// Either assignment may have raised before completing.
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
	wantBoundness(t, idx, "y", 0, semantic.PossiblyUnbound)
}

func TestTryElseSeesCompleteBody(t *testing.T) {
	_, idx := buildIndex(t, `
try:
    x = f()
except Exception:
    pass
else:
    y = x
`)
	// The else clause only runs when the body completed.
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestTryFinallyMergesAllPaths(t *testing.T) {
	_, idx := buildIndex(t, `
try:
    x = f()
except Exception:
    pass
finally:
    y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestExceptAliasUnboundAfterHandler(t *testing.T) {
	_, idx := buildIndex(t, `
try:
    pass
except ValueError as e:
    a = e
b = e
`)
	wantBoundness(t, idx, "e", 0, semantic.DefinitelyBound)
	wantBoundness(t, idx, "e", 1, semantic.DefinitelyUnbound)
}

func TestNestedTryContributesOneSnapshot(t *testing.T) {
	_, idx := buildIndex(t, `
try:
    try:
        x = f()
    except KeyError:
        x = 0
except Exception:
    a = x
`)
	// The inner try either bound x in its body or in its total handler; only
	// its completion state reaches the outer handler, so the read may still
	// precede the inner statement entirely.
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestDelMakesUnbound(t *testing.T) {
	_, idx := buildIndex(t, `
x = 1
del x
y = x
`)
	wantBoundness(t, idx, "x", 1, semantic.DefinitelyUnbound)
}

func TestBoolOpBindingIsConditional(t *testing.T) {
	_, idx := buildIndex(t, `
cond and (y := 1)
z = y
`)
	wantBoundness(t, idx, "y", 0, semantic.PossiblyUnbound)
}

func TestOrBindingIsConditional(t *testing.T) {
	_, idx := buildIndex(t, `
cond or (y := 1)
z = y
`)
	wantBoundness(t, idx, "y", 0, semantic.PossiblyUnbound)
}

func TestConditionalExpressionArms(t *testing.T) {
	_, idx := buildIndex(t, `
x = (a := 1) if cond else (b := 2)
p = a
q = b
`)
	wantBoundness(t, idx, "a", 0, semantic.PossiblyUnbound)
	wantBoundness(t, idx, "b", 0, semantic.PossiblyUnbound)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestMatchExhaustiveWildcard(t *testing.T) {
	_, idx := buildIndex(t, `
match v:
    case 1:
        x = 1
    case _:
        x = 2
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestMatchWithoutWildcard(t *testing.T) {
	_, idx := buildIndex(t, `
match v:
    case 1:
        x = 1
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestMatchGuardedWildcardIsNotExhaustive(t *testing.T) {
	_, idx := buildIndex(t, `
match v:
    case _ if cond:
        x = 1
y = x
`)
	// A wildcard with a guard can still fall through.
	wantBoundness(t, idx, "x", 0, semantic.PossiblyUnbound)
}

func TestMatchGuardFailureFallsToWildcard(t *testing.T) {
	_, idx := buildIndex(t, `
match v:
    case n if n > 0:
        x = 1
    case _:
        x = 2
y = x
`)
	// Guard failures continue to the unguarded wildcard, so every path binds.
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
}

func TestMatchCaptureBindsInArm(t *testing.T) {
	_, idx := buildIndex(t, `
match v:
    case [first, *rest]:
        a = first
        b = rest
`)
	wantBoundness(t, idx, "first", 0, semantic.DefinitelyBound)
	wantBoundness(t, idx, "rest", 0, semantic.DefinitelyBound)
}

func TestAugAssignReadsBeforeBinding(t *testing.T) {
	_, idx := buildIndex(t, `
x += 1
`)
	// The augmented target is read first; nothing bound it yet.
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyUnbound)
}

func TestBareAnnotationDoesNotBind(t *testing.T) {
	_, idx := buildIndex(t, `
x: int
y = x
`)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyUnbound)
}

func TestWithTargetBinds(t *testing.T) {
	_, idx := buildIndex(t, `
with open(p) as f:
    data = f
`)
	wantBoundness(t, idx, "f", 0, semantic.DefinitelyBound)
}

func TestScopeTreeShape(t *testing.T) {
	b, idx := buildIndex(t, `
def f(a):
    return a

class C:
    y = 1

g = lambda z: z
xs = [i for i in items]
`)
	_ = b
	root := idx.Scopes.Get(idx.ModuleScope)
	if root.Kind != semantic.ScopeModule {
		t.Fatalf("root scope kind = %v", root.Kind)
	}
	if len(root.Children) != 4 {
		t.Fatalf("expected 4 child scopes (function, class, lambda, comprehension), got %d", len(root.Children))
	}
	wantKinds := []semantic.ScopeKind{
		semantic.ScopeFunction,
		semantic.ScopeClass,
		semantic.ScopeLambda,
		semantic.ScopeComprehension,
	}
	for i, child := range root.Children {
		if got := idx.Scopes.Get(child).Kind; got != wantKinds[i] {
			t.Fatalf("child %d: kind %v, want %v", i, got, wantKinds[i])
		}
	}
}

func TestScopeOwnership(t *testing.T) {
	b, idx := buildIndex(t, `
def f():
    pass
`)
	mod := b.Modules.Get(ast.ModuleID(1))
	if mod == nil || len(mod.Body) == 0 {
		t.Fatalf("module body missing")
	}
	scope, ok := idx.ScopeOwnedByStmt(mod.Body[0])
	if !ok {
		t.Fatalf("function statement owns no scope")
	}
	if idx.Scopes.Get(scope).Kind != semantic.ScopeFunction {
		t.Fatalf("owned scope is not a function scope")
	}
	if idx.ScopeOfStmt(mod.Body[0]) != idx.ModuleScope {
		t.Fatalf("def statement should sit in the module scope")
	}
}

func TestParametersAreBoundInFunctionScope(t *testing.T) {
	_, idx := buildIndex(t, `
def f(a, b=1, *args, **kwargs):
    return a
`)
	root := idx.Scopes.Get(idx.ModuleScope)
	fnScope := root.Children[0]
	for _, name := range []string{"a", "b", "args", "kwargs"} {
		sym, ok := idx.SymbolLookupName(fnScope, name)
		if !ok {
			t.Fatalf("parameter %q missing from function scope", name)
		}
		flags := idx.Symbols.Get(sym).Flags
		if flags&semantic.SymbolFlagParameter == 0 {
			t.Fatalf("parameter %q lacks the parameter flag", name)
		}
	}
	wantBoundness(t, idx, "a", 0, semantic.DefinitelyBound)
}

func TestClassNameBindsAfterBody(t *testing.T) {
	_, idx := buildIndex(t, `
class C:
    x = C
y = C
`)
	// Inside the body the class name is not yet bound; after the statement it
	// is.
	wantBoundness(t, idx, "C", 0, semantic.DefinitelyUnbound)
	wantBoundness(t, idx, "C", 1, semantic.DefinitelyBound)
}

func TestComprehensionTargetStaysLocal(t *testing.T) {
	_, idx := buildIndex(t, `
xs = [i * 2 for i in items]
`)
	root := idx.Scopes.Get(idx.ModuleScope)
	if _, ok := idx.SymbolLookupName(idx.ModuleScope, "i"); ok {
		t.Fatalf("comprehension target leaked into the module scope")
	}
	compScope := root.Children[0]
	if _, ok := idx.SymbolLookupName(compScope, "i"); !ok {
		t.Fatalf("comprehension target missing from the comprehension scope")
	}
}

func TestImportBindsFirstSegment(t *testing.T) {
	_, idx := buildIndex(t, `
import os.path
import json as j
from collections import OrderedDict
`)
	for _, name := range []string{"os", "j", "OrderedDict"} {
		if _, ok := idx.SymbolLookupName(idx.ModuleScope, name); !ok {
			t.Fatalf("import did not bind %q", name)
		}
	}
	if _, ok := idx.SymbolLookupName(idx.ModuleScope, "json"); ok {
		t.Fatalf("aliased import should not bind the module name")
	}
}

func TestWildcardImportRecorded(t *testing.T) {
	_, idx := buildIndex(t, `
from os.path import *
`)
	if got := len(idx.WildcardImports(idx.ModuleScope)); got != 1 {
		t.Fatalf("expected one wildcard import, got %d", got)
	}
}

func TestPublicBindings(t *testing.T) {
	_, idx := buildIndex(t, `
x = 1
if cond:
    y = 2
z: int
del x
`)
	public := map[string]bool{}
	for _, sym := range idx.PublicBindings(idx.ModuleScope) {
		public[idx.Strings.MustLookup(idx.Symbols.Get(sym).Name)] = true
	}
	if public["x"] {
		t.Fatalf("deleted name should not be public")
	}
	if !public["y"] {
		t.Fatalf("conditionally bound name should still be public")
	}
	if public["z"] {
		t.Fatalf("bare annotation should not be public")
	}
}

func TestEndOfScopeBindings(t *testing.T) {
	_, idx := buildIndex(t, `
if cond:
    x = 1
`)
	sym, ok := idx.SymbolLookupName(idx.ModuleScope, "x")
	if !ok {
		t.Fatalf("x missing from module scope")
	}
	list := idx.EndOfScopeBindings(idx.ModuleScope, sym)
	if len(list) != 2 {
		t.Fatalf("expected bound+unbound at scope end, got %d bindings", len(list))
	}
}

func TestUsesAreInTraversalOrder(t *testing.T) {
	_, idx := buildIndex(t, `
a = b
c = d
`)
	var names []string
	for _, u := range idx.Uses() {
		sym := idx.Symbols.Get(idx.UseSymbol(u))
		names = append(names, idx.Strings.MustLookup(sym.Name))
	}
	if len(names) != 2 || names[0] != "b" || names[1] != "d" {
		t.Fatalf("use order = %v, want [b d]", names)
	}
}

func TestResolveNameSkipsClassScope(t *testing.T) {
	_, idx := buildIndex(t, `
x = 1
class C:
    x = 2
    def m(self):
        return x
`)
	root := idx.Scopes.Get(idx.ModuleScope)
	classScope := root.Children[0]
	methodScope := idx.Scopes.Get(classScope).Children[0]

	scope, _, ok := idx.ResolveName(methodScope, idx.Strings.InternIdent("x"))
	if !ok {
		t.Fatalf("x did not resolve from the method scope")
	}
	if scope != idx.ModuleScope {
		t.Fatalf("x resolved in scope %d, want module scope %d (class scopes are skipped)", scope, idx.ModuleScope)
	}
}

func TestGlobalDeclarationResolvesToModule(t *testing.T) {
	_, idx := buildIndex(t, `
x = 1
def f():
    global x
    x = 2
    return x
`)
	wantBoundness(t, idx, "x", 0, semantic.DefinitelyBound)
	root := idx.Scopes.Get(idx.ModuleScope)
	fnScope := root.Children[0]
	sym, ok := idx.SymbolLookupName(fnScope, "x")
	if !ok {
		t.Fatalf("x missing from function scope")
	}
	if idx.Symbols.Get(sym).Flags&semantic.SymbolFlagGlobal == 0 {
		t.Fatalf("x lacks the global flag")
	}
}

func TestQueryIdempotence(t *testing.T) {
	_, idx := buildIndex(t, `
if cond:
    x = 1
y = x
`)
	use := useOf(t, idx, "x", 0)
	first := idx.Boundness(use)
	for range 3 {
		if got := idx.Boundness(use); got != first {
			t.Fatalf("repeated query changed answer: %v then %v", first, got)
		}
	}
}
