package semantic

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"floe/internal/source"
)

// SymbolFlags encode name-level facts accumulated during the single indexing
// pass. Flags are only ever OR-ed in, never cleared.
type SymbolFlags uint16

const (
	// SymbolFlagParameter marks function/lambda parameters.
	SymbolFlagParameter SymbolFlags = 1 << iota
	// SymbolFlagBound is set when the name is bound anywhere in its scope.
	SymbolFlagBound
	// SymbolFlagUsed is set when the name is read anywhere in its scope.
	SymbolFlagUsed
	// SymbolFlagGlobal marks names covered by a `global` declaration.
	SymbolFlagGlobal
	// SymbolFlagNonlocal marks names covered by a `nonlocal` declaration.
	SymbolFlagNonlocal
	// SymbolFlagDunder marks names of the __dunder__ shape.
	SymbolFlagDunder
)

// Strings returns textual flag labels, for dumps and tests.
func (f SymbolFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 4)
	if f&SymbolFlagParameter != 0 {
		labels = append(labels, "parameter")
	}
	if f&SymbolFlagBound != 0 {
		labels = append(labels, "bound")
	}
	if f&SymbolFlagUsed != 0 {
		labels = append(labels, "used")
	}
	if f&SymbolFlagGlobal != 0 {
		labels = append(labels, "global")
	}
	if f&SymbolFlagNonlocal != 0 {
		labels = append(labels, "nonlocal")
	}
	if f&SymbolFlagDunder != 0 {
		labels = append(labels, "dunder")
	}
	return labels
}

// Symbol is a named binding slot within one scope. A name maps to exactly
// one symbol per scope; rebinding reuses the symbol and adds definitions.
type Symbol struct {
	Name  source.StringID
	Scope ScopeID
	Flags SymbolFlags
	Span  source.Span // first occurrence
}

// Symbols stores symbols in a compact arena.
type Symbols struct {
	data []Symbol
}

// NewSymbols creates a symbol arena with optional capacity hint.
func NewSymbols(capacity uint32) *Symbols {
	if capacity == 0 {
		capacity = 64
	}
	return &Symbols{
		data: make([]Symbol, 1, capacity+1), // index 0 reserved for NoSymbolID
	}
}

// New allocates a symbol in the arena and returns its ID.
func (s *Symbols) New(sym Symbol) SymbolID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("symbol arena overflow: %w", err))
	}
	id := SymbolID(value)
	s.data = append(s.data, sym)
	return id
}

// Get returns a symbol pointer or nil for invalid ID.
func (s *Symbols) Get(id SymbolID) *Symbol {
	if !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored symbols excluding sentinel.
func (s *Symbols) Len() int { return len(s.data) - 1 }

// Data exposes the arena storage without the sentinel.
func (s *Symbols) Data() []Symbol {
	if len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// IsDunderName reports whether a name has the __dunder__ shape.
func IsDunderName(name string) bool {
	return len(name) > 4 && strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}
