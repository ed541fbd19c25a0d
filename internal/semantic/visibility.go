package semantic

import (
	"fmt"

	"fortio.org/safecast"
)

// Truth is the three-valued result of evaluating a visibility constraint
// under a partial truth assignment.
type Truth uint8

const (
	TruthAmbiguous Truth = iota
	TruthTrue
	TruthFalse
)

func (t Truth) String() string {
	switch t {
	case TruthTrue:
		return "true"
	case TruthFalse:
		return "false"
	default:
		return "ambiguous"
	}
}

func truthNot(t Truth) Truth {
	switch t {
	case TruthTrue:
		return TruthFalse
	case TruthFalse:
		return TruthTrue
	default:
		return TruthAmbiguous
	}
}

// TruthFunc supplies statically known truthiness for individual constraints.
// Returning TruthAmbiguous means "not known at analysis time".
type TruthFunc func(ConstraintID) Truth

// UnknownTruth is the assignment that knows nothing.
func UnknownTruth(ConstraintID) Truth { return TruthAmbiguous }

type visKind uint8

const (
	visAlways visKind = iota
	visAmbiguous
	visSingle
	visNegated
	visSequence // AND of A then B
	visMerged   // OR of A and B
)

// visNode is one node of the visibility-constraint expression arena.
type visNode struct {
	Kind       visKind
	Constraint ConstraintID
	A, B       VisibilityID
}

// Visibilities is a hash-consed arena of visibility constraints. Structural
// equality is ID equality, which is what lets the simplification rules fire
// with plain comparisons. IDs 0 and 1 are the always/ambiguous terminals.
type Visibilities struct {
	data  []visNode
	index map[visNode]VisibilityID
}

func NewVisibilities(capacity uint32) *Visibilities {
	if capacity == 0 {
		capacity = 64
	}
	v := &Visibilities{
		data:  make([]visNode, 0, capacity+2),
		index: make(map[visNode]VisibilityID, capacity),
	}
	v.data = append(v.data, visNode{Kind: visAlways})    // VisAlways
	v.data = append(v.data, visNode{Kind: visAmbiguous}) // VisAmbiguous
	return v
}

func (v *Visibilities) get(id VisibilityID) visNode {
	return v.data[id]
}

func (v *Visibilities) intern(node visNode) VisibilityID {
	if id, ok := v.index[node]; ok {
		return id
	}
	value, err := safecast.Conv[uint32](len(v.data))
	if err != nil {
		panic(fmt.Errorf("visibility arena overflow: %w", err))
	}
	id := VisibilityID(value)
	v.data = append(v.data, node)
	v.index[node] = id
	return id
}

// Len reports the number of nodes, terminals included.
func (v *Visibilities) Len() int { return len(v.data) }

// Single returns the constraint "c held true".
func (v *Visibilities) Single(c ConstraintID) VisibilityID {
	return v.intern(visNode{Kind: visSingle, Constraint: c})
}

// Negate returns the complement of a constraint. Double negation cancels;
// ambiguity is its own complement.
func (v *Visibilities) Negate(id VisibilityID) VisibilityID {
	switch node := v.get(id); node.Kind {
	case visAmbiguous:
		return VisAmbiguous
	case visNegated:
		return node.A
	default:
		return v.intern(visNode{Kind: visNegated, A: id})
	}
}

// Sequence conjoins two constraints: both must hold. The always terminal is
// the identity.
func (v *Visibilities) Sequence(first, second VisibilityID) VisibilityID {
	if first == VisAlways {
		return second
	}
	if second == VisAlways {
		return first
	}
	if first == second {
		return first
	}
	return v.intern(visNode{Kind: visSequence, A: first, B: second})
}

// complementary reports whether a and b are structural negations of each
// other.
func (v *Visibilities) complementary(a, b VisibilityID) bool {
	if na := v.get(a); na.Kind == visNegated && na.A == b {
		return true
	}
	if nb := v.get(b); nb.Kind == visNegated && nb.A == a {
		return true
	}
	return false
}

// Merge disjoins two constraints: the flow reached this point through one
// side or the other. A condition merged with its own negation is a
// tautology and collapses to the always terminal; the same collapse fires
// under a shared sequence tail so that nested branches simplify too.
func (v *Visibilities) Merge(a, b VisibilityID) VisibilityID {
	if a == b {
		return a
	}
	if a == VisAlways || b == VisAlways {
		return VisAlways
	}
	if v.complementary(a, b) {
		return VisAlways
	}
	na, nb := v.get(a), v.get(b)
	if na.Kind == visSequence && nb.Kind == visSequence && na.B == nb.B && v.complementary(na.A, nb.A) {
		return na.B
	}
	return v.intern(visNode{Kind: visMerged, A: a, B: b})
}

// Resolve evaluates a visibility constraint under Kleene three-valued logic
// given the caller's truth assignment for individual constraints.
func (v *Visibilities) Resolve(id VisibilityID, truth TruthFunc) Truth {
	if truth == nil {
		truth = UnknownTruth
	}
	return v.resolve(id, truth)
}

func (v *Visibilities) resolve(id VisibilityID, truth TruthFunc) Truth {
	node := v.get(id)
	switch node.Kind {
	case visAlways:
		return TruthTrue
	case visAmbiguous:
		return TruthAmbiguous
	case visSingle:
		return truth(node.Constraint)
	case visNegated:
		return truthNot(v.resolve(node.A, truth))
	case visSequence:
		left := v.resolve(node.A, truth)
		if left == TruthFalse {
			return TruthFalse
		}
		right := v.resolve(node.B, truth)
		if right == TruthFalse {
			return TruthFalse
		}
		if left == TruthTrue && right == TruthTrue {
			return TruthTrue
		}
		return TruthAmbiguous
	case visMerged:
		left := v.resolve(node.A, truth)
		if left == TruthTrue {
			return TruthTrue
		}
		right := v.resolve(node.B, truth)
		if right == TruthTrue {
			return TruthTrue
		}
		if left == TruthFalse && right == TruthFalse {
			return TruthFalse
		}
		return TruthAmbiguous
	default:
		panic(fmt.Sprintf("unknown visibility node kind %d", node.Kind))
	}
}

// String renders a constraint expression for dumps and test failures.
func (v *Visibilities) String(id VisibilityID) string {
	node := v.get(id)
	switch node.Kind {
	case visAlways:
		return "always"
	case visAmbiguous:
		return "ambiguous"
	case visSingle:
		return fmt.Sprintf("c%d", node.Constraint)
	case visNegated:
		return "!" + v.String(node.A)
	case visSequence:
		return "(" + v.String(node.A) + " & " + v.String(node.B) + ")"
	case visMerged:
		return "(" + v.String(node.A) + " | " + v.String(node.B) + ")"
	default:
		return "?"
	}
}
