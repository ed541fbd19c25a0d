package semantic

// ScopeID identifies a scope in the index arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a symbol inside the index arena.
type SymbolID uint32

const (
	// NoSymbolID marks the absence of a symbol reference.
	NoSymbolID SymbolID = 0
)

// IsValid reports whether the symbol ID refers to an allocated symbol.
func (id SymbolID) IsValid() bool { return id != NoSymbolID }

// DefinitionID identifies a binding-introducing occurrence. The zero ID is
// the synthetic "unbound" definition: the state of a symbol before any real
// binding has executed.
type DefinitionID uint32

const (
	// UnboundDefinition is the shared synthetic definition meaning "no real
	// binding has executed yet on this path".
	UnboundDefinition DefinitionID = 0
)

// IsBound reports whether the ID refers to a real definition rather than the
// unbound sentinel.
func (id DefinitionID) IsBound() bool { return id != UnboundDefinition }

// ConstraintID identifies one branch-condition occurrence.
type ConstraintID uint32

const (
	NoConstraintID ConstraintID = 0
)

func (id ConstraintID) IsValid() bool { return id != NoConstraintID }

// VisibilityID identifies a node in the visibility-constraint arena. The
// zero ID means "unconditionally visible".
type VisibilityID uint32

const (
	// VisAlways is the unconditional visibility constraint.
	VisAlways VisibilityID = 0
	// VisAmbiguous is the terminal for conditions this engine does not
	// reason about (loop iteration counts, exception timing).
	VisAmbiguous VisibilityID = 1
)
