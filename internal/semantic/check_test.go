package semantic_test

import (
	"strings"
	"testing"

	"floe/internal/diag"
	"floe/internal/semantic"
)

func runCheck(t *testing.T, src string) *diag.Bag {
	t.Helper()
	b, idx := buildIndex(t, src)
	bag := diag.NewBag(0)
	semantic.Check(b, idx, diag.BagReporter{Bag: bag})
	return bag
}

func codesOf(bag *diag.Bag) []diag.Code {
	codes := make([]diag.Code, 0, bag.Len())
	for _, d := range bag.Items() {
		codes = append(codes, d.Code)
	}
	return codes
}

func wantCode(t *testing.T, bag *diag.Bag, code diag.Code, substr string) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code && strings.Contains(d.Message, substr) {
			return
		}
	}
	t.Fatalf("no %s diagnostic mentioning %q; got %v", code, substr, codesOf(bag))
}

func wantNoCode(t *testing.T, bag *diag.Bag, code diag.Code) {
	t.Helper()
	for _, d := range bag.Items() {
		if d.Code == code {
			t.Fatalf("unexpected %s diagnostic: %s", code, d.Message)
		}
	}
}

func TestCheckUndefinedName(t *testing.T) {
	bag := runCheck(t, "y = undefined_thing\n")
	wantCode(t, bag, diag.NameUnresolved, "undefined_thing")
}

func TestCheckBuiltinIsDefined(t *testing.T) {
	bag := runCheck(t, "y = len([1])\nz = print\n")
	wantNoCode(t, bag, diag.NameUnresolved)
}

func TestCheckPossiblyUnbound(t *testing.T) {
	bag := runCheck(t, `
if cond():
    x = 1
y = x
`)
	wantCode(t, bag, diag.NamePossiblyUnbound, "x")
}

func TestCheckUnboundLocalInFunction(t *testing.T) {
	bag := runCheck(t, `
def f():
    y = x
    x = 1
`)
	wantCode(t, bag, diag.NameUnboundLocal, "x")
}

func TestCheckModuleReadBeforeBindingFallsBack(t *testing.T) {
	// At module scope a read before the binding is a plain undefined name,
	// not an unbound local.
	bag := runCheck(t, "y = x\nx = 1\n")
	wantCode(t, bag, diag.NameUnresolved, "x")
	wantNoCode(t, bag, diag.NameUnboundLocal)
}

func TestCheckClosureReadResolvesOutward(t *testing.T) {
	bag := runCheck(t, `
x = 1
def f():
    return x
`)
	wantNoCode(t, bag, diag.NameUnresolved)
}

func TestCheckClassScopeInvisibleToMethods(t *testing.T) {
	bag := runCheck(t, `
class C:
    helper = 1
    def m(self):
        return helper
`)
	wantCode(t, bag, diag.NameUnresolved, "helper")
}

func TestCheckWildcardImportSuppressesUnresolved(t *testing.T) {
	bag := runCheck(t, `
from os.path import *
y = join("a", "b")
`)
	wantNoCode(t, bag, diag.NameUnresolved)
	wantCode(t, bag, diag.NameWildcardImport, "wildcard")
}

func TestCheckGlobalReadOfUnassignedModuleName(t *testing.T) {
	bag := runCheck(t, `
def f():
    global counter
    return counter
`)
	// Nothing in the module binds counter.
	wantCode(t, bag, diag.NameUnresolved, "counter")
}

func TestCheckDelThenReadInFunction(t *testing.T) {
	bag := runCheck(t, `
def f():
    x = 1
    del x
    return x
`)
	wantCode(t, bag, diag.NameUnboundLocal, "x")
}

func TestCheckParameterIsBound(t *testing.T) {
	bag := runCheck(t, `
def f(a, *args, **kwargs):
    return a, args, kwargs
`)
	wantNoCode(t, bag, diag.NameUnresolved)
	wantNoCode(t, bag, diag.NamePossiblyUnbound)
}

func TestCheckCleanSourceIsQuiet(t *testing.T) {
	bag := runCheck(t, `
import json

def encode(payload):
    if payload is None:
        payload = {}
    return json.dumps(payload)

result = encode({"a": 1})
`)
	if bag.Len() != 0 {
		t.Fatalf("clean source produced diagnostics: %v", codesOf(bag))
	}
}
