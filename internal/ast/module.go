package ast

import (
	"floe/internal/source"
)

// Module is the root node of one parsed file.
type Module struct {
	Span source.Span
	Body []StmtID
}

type Modules struct {
	Arena *Arena[Module]
}

func NewModules(capHint uint) *Modules {
	return &Modules{
		Arena: NewArena[Module](capHint),
	}
}

func (m *Modules) New(span source.Span) ModuleID {
	return ModuleID(m.Arena.Allocate(Module{
		Span: span,
		Body: make([]StmtID, 0),
	}))
}

func (m *Modules) Get(id ModuleID) *Module {
	return m.Arena.Get(uint32(id))
}
