package ast

import (
	"floe/internal/source"
)

// Stmts manages allocation of statements and their payloads.
type Stmts struct {
	Arena       *Arena[Stmt]
	Exprs       *Arena[StmtExprData]
	Assigns     *Arena[StmtAssignData]
	AugAssigns  *Arena[StmtAugAssignData]
	AnnAssigns  *Arena[StmtAnnAssignData]
	Ifs         *Arena[StmtIfData]
	Whiles      *Arena[StmtWhileData]
	Fors        *Arena[StmtForData]
	Withs       *Arena[StmtWithData]
	Tries       *Arena[StmtTryData]
	Matches     *Arena[StmtMatchData]
	FuncDefs    *Arena[StmtFuncDefData]
	ClassDefs   *Arena[StmtClassDefData]
	Returns     *Arena[StmtReturnData]
	Raises      *Arena[StmtRaiseData]
	Imports     *Arena[StmtImportData]
	ImportFroms *Arena[StmtImportFromData]
	Globals     *Arena[StmtGlobalData]
	Nonlocals   *Arena[StmtNonlocalData]
	Deletes     *Arena[StmtDeleteData]
	TypeAliases *Arena[StmtTypeAliasData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint / 4
	return &Stmts{
		Arena:       NewArena[Stmt](capHint),
		Exprs:       NewArena[StmtExprData](capHint),
		Assigns:     NewArena[StmtAssignData](capHint),
		AugAssigns:  NewArena[StmtAugAssignData](small),
		AnnAssigns:  NewArena[StmtAnnAssignData](small),
		Ifs:         NewArena[StmtIfData](small),
		Whiles:      NewArena[StmtWhileData](small),
		Fors:        NewArena[StmtForData](small),
		Withs:       NewArena[StmtWithData](small),
		Tries:       NewArena[StmtTryData](small),
		Matches:     NewArena[StmtMatchData](small),
		FuncDefs:    NewArena[StmtFuncDefData](small),
		ClassDefs:   NewArena[StmtClassDefData](small),
		Returns:     NewArena[StmtReturnData](small),
		Raises:      NewArena[StmtRaiseData](small),
		Imports:     NewArena[StmtImportData](small),
		ImportFroms: NewArena[StmtImportFromData](small),
		Globals:     NewArena[StmtGlobalData](small),
		Nonlocals:   NewArena[StmtNonlocalData](small),
		Deletes:     NewArena[StmtDeleteData](small),
		TypeAliases: NewArena[StmtTypeAliasData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the statement with the given ID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) NewExprStmt(span source.Span, value ExprID) StmtID {
	payload := s.Exprs.Allocate(StmtExprData{Value: value})
	return s.new(StmtExpr, span, PayloadID(payload))
}

func (s *Stmts) ExprStmt(id StmtID) (*StmtExprData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	payload := s.Assigns.Allocate(StmtAssignData{Targets: targets, Value: value})
	return s.new(StmtAssign, span, PayloadID(payload))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewAugAssign(span source.Span, target ExprID, op source.StringID, value ExprID) StmtID {
	payload := s.AugAssigns.Allocate(StmtAugAssignData{Target: target, Op: op, Value: value})
	return s.new(StmtAugAssign, span, PayloadID(payload))
}

func (s *Stmts) AugAssign(id StmtID) (*StmtAugAssignData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAugAssign {
		return nil, false
	}
	return s.AugAssigns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewAnnAssign(span source.Span, target, annotation, value ExprID) StmtID {
	payload := s.AnnAssigns.Allocate(StmtAnnAssignData{Target: target, Annotation: annotation, Value: value})
	return s.new(StmtAnnAssign, span, PayloadID(payload))
}

func (s *Stmts) AnnAssign(id StmtID) (*StmtAnnAssignData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtAnnAssign {
		return nil, false
	}
	return s.AnnAssigns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewIf(span source.Span, cond ExprID, then, els []StmtID) StmtID {
	payload := s.Ifs.Allocate(StmtIfData{Cond: cond, Then: then, Else: els})
	return s.new(StmtIf, span, PayloadID(payload))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewWhile(span source.Span, cond ExprID, body, els []StmtID) StmtID {
	payload := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body, Else: els})
	return s.new(StmtWhile, span, PayloadID(payload))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewFor(span source.Span, target, iter ExprID, body, els []StmtID, isAsync bool) StmtID {
	payload := s.Fors.Allocate(StmtForData{Target: target, Iter: iter, Body: body, Else: els, IsAsync: isAsync})
	return s.new(StmtFor, span, PayloadID(payload))
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtFor {
		return nil, false
	}
	return s.Fors.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewWith(span source.Span, items []WithItem, body []StmtID, isAsync bool) StmtID {
	payload := s.Withs.Allocate(StmtWithData{Items: items, Body: body, IsAsync: isAsync})
	return s.new(StmtWith, span, PayloadID(payload))
}

func (s *Stmts) With(id StmtID) (*StmtWithData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtWith {
		return nil, false
	}
	return s.Withs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewTry(span source.Span, data StmtTryData) StmtID {
	payload := s.Tries.Allocate(data)
	return s.new(StmtTry, span, PayloadID(payload))
}

func (s *Stmts) Try(id StmtID) (*StmtTryData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtTry {
		return nil, false
	}
	return s.Tries.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewMatch(span source.Span, subject ExprID, cases []MatchCase) StmtID {
	payload := s.Matches.Allocate(StmtMatchData{Subject: subject, Cases: cases})
	return s.new(StmtMatch, span, PayloadID(payload))
}

func (s *Stmts) Match(id StmtID) (*StmtMatchData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtMatch {
		return nil, false
	}
	return s.Matches.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewFuncDef(span source.Span, data StmtFuncDefData) StmtID {
	payload := s.FuncDefs.Allocate(data)
	return s.new(StmtFuncDef, span, PayloadID(payload))
}

func (s *Stmts) FuncDef(id StmtID) (*StmtFuncDefData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtFuncDef {
		return nil, false
	}
	return s.FuncDefs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewClassDef(span source.Span, data StmtClassDefData) StmtID {
	payload := s.ClassDefs.Allocate(data)
	return s.new(StmtClassDef, span, PayloadID(payload))
}

func (s *Stmts) ClassDef(id StmtID) (*StmtClassDefData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtClassDef {
		return nil, false
	}
	return s.ClassDefs.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	payload := s.Returns.Allocate(StmtReturnData{Value: value})
	return s.new(StmtReturn, span, PayloadID(payload))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewRaise(span source.Span, exc, cause ExprID) StmtID {
	payload := s.Raises.Allocate(StmtRaiseData{Exc: exc, Cause: cause})
	return s.new(StmtRaise, span, PayloadID(payload))
}

func (s *Stmts) Raise(id StmtID) (*StmtRaiseData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtRaise {
		return nil, false
	}
	return s.Raises.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewImport(span source.Span, aliases []ImportAlias) StmtID {
	payload := s.Imports.Allocate(StmtImportData{Aliases: aliases})
	return s.new(StmtImport, span, PayloadID(payload))
}

func (s *Stmts) Import(id StmtID) (*StmtImportData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtImport {
		return nil, false
	}
	return s.Imports.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewImportFrom(span source.Span, data StmtImportFromData) StmtID {
	payload := s.ImportFroms.Allocate(data)
	return s.new(StmtImportFrom, span, PayloadID(payload))
}

func (s *Stmts) ImportFrom(id StmtID) (*StmtImportFromData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtImportFrom {
		return nil, false
	}
	return s.ImportFroms.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewGlobal(span source.Span, names []NameRef) StmtID {
	payload := s.Globals.Allocate(StmtGlobalData{Names: names})
	return s.new(StmtGlobal, span, PayloadID(payload))
}

func (s *Stmts) Global(id StmtID) (*StmtGlobalData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtGlobal {
		return nil, false
	}
	return s.Globals.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewNonlocal(span source.Span, names []NameRef) StmtID {
	payload := s.Nonlocals.Allocate(StmtNonlocalData{Names: names})
	return s.new(StmtNonlocal, span, PayloadID(payload))
}

func (s *Stmts) Nonlocal(id StmtID) (*StmtNonlocalData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtNonlocal {
		return nil, false
	}
	return s.Nonlocals.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewDelete(span source.Span, targets []ExprID) StmtID {
	payload := s.Deletes.Allocate(StmtDeleteData{Targets: targets})
	return s.new(StmtDelete, span, PayloadID(payload))
}

func (s *Stmts) Delete(id StmtID) (*StmtDeleteData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtDelete {
		return nil, false
	}
	return s.Deletes.Get(uint32(stmt.Payload)), true
}

func (s *Stmts) NewTypeAlias(span source.Span, data StmtTypeAliasData) StmtID {
	payload := s.TypeAliases.Allocate(data)
	return s.new(StmtTypeAlias, span, PayloadID(payload))
}

func (s *Stmts) TypeAlias(id StmtID) (*StmtTypeAliasData, bool) {
	stmt := s.Get(id)
	if stmt == nil || stmt.Kind != StmtTypeAlias {
		return nil, false
	}
	return s.TypeAliases.Get(uint32(stmt.Payload)), true
}

// NewSimple allocates a payload-free statement (pass, break, continue).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, NoPayloadID)
}
