package ast

import (
	"floe/internal/source"
)

type Hints struct{ Modules, Stmts, Exprs, Patterns, Params uint }

// Builder owns all AST arenas for a batch of parsed modules. It is the unit
// handed to the semantic indexer; after construction it is treated as
// immutable.
type Builder struct {
	Modules  *Modules
	Stmts    *Stmts
	Exprs    *Exprs
	Patterns *Patterns
	Params   *Params
	Strings  *source.Interner
}

// NewBuilder builds arenas with optional capacity hints. If strings is nil a
// fresh interner is allocated.
func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Modules == 0 {
		hints.Modules = 1 << 2
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 4
	}
	if hints.Params == 0 {
		hints.Params = 1 << 5
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Modules:  NewModules(hints.Modules),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Patterns: NewPatterns(hints.Patterns),
		Params:   NewParams(hints.Params),
		Strings:  strings,
	}
}

func (b *Builder) NewModule(span source.Span) ModuleID {
	return b.Modules.New(span)
}

func (b *Builder) PushStmt(module ModuleID, stmt StmtID) {
	m := b.Modules.Get(module)
	m.Body = append(m.Body, stmt)
}

// Ident interns an identifier with NFKC normalization.
func (b *Builder) Ident(s string) source.StringID {
	return b.Strings.InternIdent(s)
}
