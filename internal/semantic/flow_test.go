package semantic

import "testing"

func TestFlowStateImplicitUnbound(t *testing.T) {
	f := NewFlowState()
	list := f.BindingsFor(SymbolID(1))
	if len(list) != 1 || list[0].Definition != UnboundDefinition || list[0].Visibility != VisAlways {
		t.Fatalf("fresh state should yield the implicit unbound binding, got %v", list)
	}
}

func TestFlowStateSetBindingReplaces(t *testing.T) {
	f := NewFlowState()
	sym := SymbolID(1)
	f.SetBinding(sym, DefinitionID(1), VisAlways)
	f.SetBinding(sym, DefinitionID(2), VisAlways)
	list := f.BindingsFor(sym)
	if len(list) != 1 || list[0].Definition != DefinitionID(2) {
		t.Fatalf("sequential rebinding should replace, got %v", list)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	f := NewFlowState()
	sym := SymbolID(1)
	f.SetBinding(sym, DefinitionID(1), VisAlways)

	snap := f.Snapshot()
	f.SetBinding(sym, DefinitionID(2), VisAlways)

	if got := snap.BindingsFor(sym); got[0].Definition != DefinitionID(1) {
		t.Fatalf("snapshot saw a later mutation: %v", got)
	}
	if got := f.BindingsFor(sym); got[0].Definition != DefinitionID(2) {
		t.Fatalf("live state lost its mutation: %v", got)
	}
}

func TestMergeRestoresUnconditional(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	cond := vs.Single(cs[0])
	sym := SymbolID(1)

	// Both arms of an if/else bind the symbol; the merge of c and !c should
	// collapse back to unconditional visibility.
	pre := NewFlowState()
	thenArm := pre.Snapshot()
	thenArm.SetBinding(sym, DefinitionID(1), VisAlways)
	thenArm.ApplyConstraint(vs, cond)

	elseArm := pre.Snapshot()
	elseArm.SetBinding(sym, DefinitionID(1), VisAlways)
	elseArm.ApplyConstraint(vs, vs.Negate(cond))

	thenArm.Merge(vs, elseArm)
	list := thenArm.BindingsFor(sym)
	if len(list) != 1 {
		t.Fatalf("expected one reaching definition, got %v", list)
	}
	if list[0].Visibility != VisAlways {
		t.Fatalf("total branch coverage should restore always, got %s", vs.String(list[0].Visibility))
	}
}

func TestMergeKeepsBothSides(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	cond := vs.Single(cs[0])
	sym := SymbolID(1)

	// Only the then-arm binds; the else path keeps the implicit unbound.
	pre := NewFlowState()
	thenArm := pre.Snapshot()
	thenArm.SetBinding(sym, DefinitionID(1), VisAlways)
	thenArm.ApplyConstraint(vs, cond)

	elseArm := pre.Snapshot()
	elseArm.ApplyConstraint(vs, vs.Negate(cond))

	thenArm.Merge(vs, elseArm)
	list := thenArm.BindingsFor(sym)
	if len(list) != 2 {
		t.Fatalf("expected bound and unbound to both reach, got %v", list)
	}
	var sawBound, sawUnbound bool
	for _, b := range list {
		if b.Definition.IsBound() {
			sawBound = true
			if b.Visibility != cond {
				t.Fatalf("bound side should carry the branch condition, got %s", vs.String(b.Visibility))
			}
		} else {
			sawUnbound = true
			if b.Visibility != vs.Negate(cond) {
				t.Fatalf("unbound side should carry the negated condition, got %s", vs.String(b.Visibility))
			}
		}
	}
	if !sawBound || !sawUnbound {
		t.Fatalf("merge dropped a side: %v", list)
	}
}

func TestApplyConstraintTagsImplicitUnbound(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	cond := vs.Single(cs[0])

	f := NewFlowState()
	f.ApplyConstraint(vs, cond)
	list := f.BindingsFor(SymbolID(7))
	if list[0].Visibility != cond {
		t.Fatalf("state-wide unbound visibility not tagged: %s", vs.String(list[0].Visibility))
	}
}

func TestMergeBindingListOrderIsDeterministic(t *testing.T) {
	vs := NewVisibilities(0)
	a := []Binding{{Definition: 1, Visibility: VisAlways}, {Definition: 2, Visibility: VisAlways}}
	b := []Binding{{Definition: 3, Visibility: VisAlways}, {Definition: 1, Visibility: VisAlways}}
	merged := mergeBindingLists(vs, a, b)
	want := []DefinitionID{1, 2, 3}
	if len(merged) != len(want) {
		t.Fatalf("merged %d bindings, want %d: %v", len(merged), len(want), merged)
	}
	for i, def := range want {
		if merged[i].Definition != def {
			t.Fatalf("position %d: got definition %d, want %d", i, merged[i].Definition, def)
		}
	}
}
