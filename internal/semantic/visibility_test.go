package semantic

import "testing"

func newTestConstraints(t *testing.T, n int) (*Constraints, []ConstraintID) {
	t.Helper()
	cs := NewConstraints(0)
	ids := make([]ConstraintID, n)
	for i := range ids {
		ids[i] = cs.New(Constraint{Kind: ConstraintTest})
	}
	return cs, ids
}

func TestVisibilityTerminals(t *testing.T) {
	vs := NewVisibilities(0)
	if got := vs.Resolve(VisAlways, nil); got != TruthTrue {
		t.Fatalf("always resolved to %v", got)
	}
	if got := vs.Resolve(VisAmbiguous, nil); got != TruthAmbiguous {
		t.Fatalf("ambiguous resolved to %v", got)
	}
}

func TestVisibilityHashConsing(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	a := vs.Single(cs[0])
	b := vs.Single(cs[0])
	if a != b {
		t.Fatalf("identical constraints interned to different IDs: %d vs %d", a, b)
	}
	if vs.Sequence(a, VisAmbiguous) != vs.Sequence(b, VisAmbiguous) {
		t.Fatalf("structurally equal sequences interned to different IDs")
	}
}

func TestNegateDoubleCancels(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	c := vs.Single(cs[0])
	if got := vs.Negate(vs.Negate(c)); got != c {
		t.Fatalf("double negation: got %s, want %s", vs.String(got), vs.String(c))
	}
	if got := vs.Negate(VisAmbiguous); got != VisAmbiguous {
		t.Fatalf("negated ambiguity should stay ambiguous, got %s", vs.String(got))
	}
}

func TestSequenceIdentity(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	c := vs.Single(cs[0])
	if got := vs.Sequence(VisAlways, c); got != c {
		t.Fatalf("always & c should be c, got %s", vs.String(got))
	}
	if got := vs.Sequence(c, VisAlways); got != c {
		t.Fatalf("c & always should be c, got %s", vs.String(got))
	}
	if got := vs.Sequence(c, c); got != c {
		t.Fatalf("c & c should be c, got %s", vs.String(got))
	}
}

func TestMergeTautologyCollapses(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	c := vs.Single(cs[0])
	if got := vs.Merge(c, vs.Negate(c)); got != VisAlways {
		t.Fatalf("c | !c should collapse to always, got %s", vs.String(got))
	}
	if got := vs.Merge(vs.Negate(c), c); got != VisAlways {
		t.Fatalf("!c | c should collapse to always, got %s", vs.String(got))
	}
}

func TestMergeSharedTailCollapses(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 2)
	outer := vs.Single(cs[0])
	inner := vs.Single(cs[1])
	// (inner & outer) | (!inner & outer) simplifies to outer.
	left := vs.Sequence(inner, outer)
	right := vs.Sequence(vs.Negate(inner), outer)
	if got := vs.Merge(left, right); got != outer {
		t.Fatalf("shared tail merge: got %s, want %s", vs.String(got), vs.String(outer))
	}
}

func TestMergeAlwaysAbsorbs(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 1)
	c := vs.Single(cs[0])
	if got := vs.Merge(VisAlways, c); got != VisAlways {
		t.Fatalf("always | c should be always, got %s", vs.String(got))
	}
	if got := vs.Merge(c, c); got != c {
		t.Fatalf("c | c should be c, got %s", vs.String(got))
	}
}

func TestResolveKleeneLogic(t *testing.T) {
	vs := NewVisibilities(0)
	_, cs := newTestConstraints(t, 2)
	a := vs.Single(cs[0])
	b := vs.Single(cs[1])

	truth := func(assign map[ConstraintID]Truth) TruthFunc {
		return func(id ConstraintID) Truth {
			if t, ok := assign[id]; ok {
				return t
			}
			return TruthAmbiguous
		}
	}

	seq := vs.Sequence(a, b)
	merged := vs.Merge(a, b)

	cases := []struct {
		name   string
		id     VisibilityID
		assign map[ConstraintID]Truth
		want   Truth
	}{
		{"seq false short-circuits", seq, map[ConstraintID]Truth{cs[0]: TruthFalse}, TruthFalse},
		{"seq both true", seq, map[ConstraintID]Truth{cs[0]: TruthTrue, cs[1]: TruthTrue}, TruthTrue},
		{"seq one unknown", seq, map[ConstraintID]Truth{cs[0]: TruthTrue}, TruthAmbiguous},
		{"merge true short-circuits", merged, map[ConstraintID]Truth{cs[0]: TruthTrue}, TruthTrue},
		{"merge both false", merged, map[ConstraintID]Truth{cs[0]: TruthFalse, cs[1]: TruthFalse}, TruthFalse},
		{"merge one unknown", merged, map[ConstraintID]Truth{cs[0]: TruthFalse}, TruthAmbiguous},
		{"negated known", vs.Negate(a), map[ConstraintID]Truth{cs[0]: TruthTrue}, TruthFalse},
	}
	for _, tc := range cases {
		if got := vs.Resolve(tc.id, truth(tc.assign)); got != tc.want {
			t.Fatalf("%s: resolved %s to %v, want %v", tc.name, vs.String(tc.id), got, tc.want)
		}
	}
}
