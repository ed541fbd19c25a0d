package semantic

import (
	"fmt"

	"fortio.org/safecast"

	"floe/internal/ast"
	"floe/internal/source"
)

// DefinitionKind enumerates the syntactic forms that introduce a binding.
// The set is closed; traversal code switches over it exhaustively.
type DefinitionKind uint8

const (
	DefInvalid DefinitionKind = iota
	DefAssign
	DefAugAssign
	DefAnnAssign
	DefNamedExpr // walrus
	DefFor
	DefWith
	DefExcept
	DefImport
	DefImportFrom
	DefFunction
	DefClass
	DefParam
	DefMatchCapture
	DefComprehension
	DefTypeParam
	DefTypeAlias
)

func (k DefinitionKind) String() string {
	switch k {
	case DefAssign:
		return "assign"
	case DefAugAssign:
		return "aug-assign"
	case DefAnnAssign:
		return "ann-assign"
	case DefNamedExpr:
		return "named-expr"
	case DefFor:
		return "for"
	case DefWith:
		return "with"
	case DefExcept:
		return "except"
	case DefImport:
		return "import"
	case DefImportFrom:
		return "import-from"
	case DefFunction:
		return "function"
	case DefClass:
		return "class"
	case DefParam:
		return "param"
	case DefMatchCapture:
		return "match-capture"
	case DefComprehension:
		return "comprehension"
	case DefTypeParam:
		return "type-param"
	case DefTypeAlias:
		return "type-alias"
	default:
		return "invalid"
	}
}

// Definition records one binding occurrence. It stores just enough AST
// back-references to recover the bound subtree — which alias of an import,
// which parameter, which pattern — never an AST clone. Definitions are
// immutable once allocated and referenced by ID only.
type Definition struct {
	Kind    DefinitionKind
	Symbol  SymbolID
	Scope   ScopeID
	Stmt    ast.StmtID // owning statement, when the binder is a statement
	Expr    ast.ExprID // target/defining expression, when there is one
	Param   ast.ParamID
	Pattern ast.PatternID
	// AliasIndex selects the alias within an import statement's clause list.
	AliasIndex uint32
	Span       source.Span
}

// Definitions is the append-only definition arena. ID 0 is the synthetic
// unbound definition and is never allocated.
type Definitions struct {
	data []Definition
}

func NewDefinitions(capacity uint32) *Definitions {
	if capacity == 0 {
		capacity = 64
	}
	return &Definitions{
		data: make([]Definition, 1, capacity+1), // index 0 = UnboundDefinition
	}
}

// New appends a definition and returns its fresh ID. There is no
// deduplication: every syntactic occurrence gets its own ID.
func (d *Definitions) New(def Definition) DefinitionID {
	value, err := safecast.Conv[uint32](len(d.data))
	if err != nil {
		panic(fmt.Errorf("definition arena overflow: %w", err))
	}
	id := DefinitionID(value)
	d.data = append(d.data, def)
	return id
}

// Get returns the definition payload, or nil for the unbound sentinel and
// out-of-range IDs.
func (d *Definitions) Get(id DefinitionID) *Definition {
	if !id.IsBound() || int(id) >= len(d.data) {
		return nil
	}
	return &d.data[id]
}

// Len reports number of real definitions.
func (d *Definitions) Len() int { return len(d.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (d *Definitions) Data() []Definition {
	if len(d.data) <= 1 {
		return nil
	}
	return d.data[1:]
}
