package semantic

import (
	"fmt"

	"fortio.org/safecast"

	"floe/internal/ast"
	"floe/internal/source"
)

// ConstraintKind distinguishes what bears the condition.
type ConstraintKind uint8

const (
	ConstraintInvalid ConstraintKind = iota
	// ConstraintTest is a boolean test expression: if/elif/while tests,
	// boolean-operator operands, conditional-expression tests, match guards.
	ConstraintTest
	// ConstraintPattern is a match-case pattern; its truthiness is "did the
	// pattern match".
	ConstraintPattern
)

func (k ConstraintKind) String() string {
	switch k {
	case ConstraintTest:
		return "test"
	case ConstraintPattern:
		return "pattern"
	default:
		return "invalid"
	}
}

// Constraint records one branch-condition occurrence. The expression
// reference lets the type layer re-evaluate statically known truthiness
// later; this package never evaluates conditions itself.
type Constraint struct {
	Kind    ConstraintKind
	Scope   ScopeID
	Expr    ast.ExprID
	Pattern ast.PatternID
	Span    source.Span
}

// Constraints is the append-only constraint arena. Syntactically identical
// tests are distinct occurrences and get distinct IDs.
type Constraints struct {
	data []Constraint
}

func NewConstraints(capacity uint32) *Constraints {
	if capacity == 0 {
		capacity = 32
	}
	return &Constraints{
		data: make([]Constraint, 1, capacity+1), // index 0 reserved
	}
}

func (c *Constraints) New(constraint Constraint) ConstraintID {
	value, err := safecast.Conv[uint32](len(c.data))
	if err != nil {
		panic(fmt.Errorf("constraint arena overflow: %w", err))
	}
	id := ConstraintID(value)
	c.data = append(c.data, constraint)
	return id
}

// Get returns the constraint payload or nil for invalid IDs.
func (c *Constraints) Get(id ConstraintID) *Constraint {
	if !id.IsValid() || int(id) >= len(c.data) {
		return nil
	}
	return &c.data[id]
}

// Len reports number of stored constraints.
func (c *Constraints) Len() int { return len(c.data) - 1 }
