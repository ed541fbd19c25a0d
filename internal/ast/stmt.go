package ast

import (
	"floe/internal/source"
)

type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtExpr
	StmtAssign
	StmtAugAssign
	StmtAnnAssign
	StmtIf
	StmtWhile
	StmtFor
	StmtWith
	StmtTry
	StmtMatch
	StmtFuncDef
	StmtClassDef
	StmtReturn
	StmtRaise
	StmtImport
	StmtImportFrom
	StmtGlobal
	StmtNonlocal
	StmtDelete
	StmtTypeAlias
	StmtPass
	StmtBreak
	StmtContinue
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtAssign:
		return "assign"
	case StmtAugAssign:
		return "aug-assign"
	case StmtAnnAssign:
		return "ann-assign"
	case StmtIf:
		return "if"
	case StmtWhile:
		return "while"
	case StmtFor:
		return "for"
	case StmtWith:
		return "with"
	case StmtTry:
		return "try"
	case StmtMatch:
		return "match"
	case StmtFuncDef:
		return "func-def"
	case StmtClassDef:
		return "class-def"
	case StmtReturn:
		return "return"
	case StmtRaise:
		return "raise"
	case StmtImport:
		return "import"
	case StmtImportFrom:
		return "import-from"
	case StmtGlobal:
		return "global"
	case StmtNonlocal:
		return "nonlocal"
	case StmtDelete:
		return "delete"
	case StmtTypeAlias:
		return "type-alias"
	case StmtPass:
		return "pass"
	case StmtBreak:
		return "break"
	case StmtContinue:
		return "continue"
	default:
		return "invalid"
	}
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// Payload structs. Statement kinds without a struct here (pass, break,
// continue) carry no payload.

type StmtExprData struct {
	Value ExprID
}

// StmtAssignData covers `a = v` and chained `a = b = v` (one target each).
type StmtAssignData struct {
	Targets []ExprID
	Value   ExprID
}

type StmtAugAssignData struct {
	Target ExprID
	Op     source.StringID // operator without '=', e.g. "+"
	Value  ExprID
}

type StmtAnnAssignData struct {
	Target     ExprID
	Annotation ExprID
	Value      ExprID // NoExprID for a bare annotation
}

// StmtIfData models one if/else split; elif chains lower to a nested if as
// the sole statement of Else.
type StmtIfData struct {
	Cond ExprID
	Then []StmtID
	Else []StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body []StmtID
	Else []StmtID
}

type StmtForData struct {
	Target  ExprID
	Iter    ExprID
	Body    []StmtID
	Else    []StmtID
	IsAsync bool
}

type WithItem struct {
	Context ExprID
	Target  ExprID // NoExprID when there is no `as`
}

type StmtWithData struct {
	Items   []WithItem
	Body    []StmtID
	IsAsync bool
}

type ExceptHandler struct {
	Type     ExprID          // NoExprID for a bare `except:`
	Name     source.StringID // NoStringID when there is no `as name`
	NameSpan source.Span
	Body     []StmtID
	Span     source.Span
}

type StmtTryData struct {
	Body     []StmtID
	Handlers []ExceptHandler
	Else     []StmtID
	Finally  []StmtID
	IsStar   bool // except* groups
}

type MatchCase struct {
	Pattern PatternID
	Guard   ExprID // NoExprID when absent
	Body    []StmtID
	Span    source.Span
}

type StmtMatchData struct {
	Subject ExprID
	Cases   []MatchCase
}

type TypeParam struct {
	Name source.StringID
	Span source.Span
}

type StmtFuncDefData struct {
	Name       source.StringID
	NameSpan   source.Span
	Decorators []ExprID
	TypeParams []TypeParam
	Params     []ParamID
	Returns    ExprID // NoExprID when absent
	Body       []StmtID
	IsAsync    bool
}

type StmtClassDefData struct {
	Name       source.StringID
	NameSpan   source.Span
	Decorators []ExprID
	TypeParams []TypeParam
	Arguments  []ExprID // bases and keyword values, evaluation order
	Body       []StmtID
}

type StmtReturnData struct {
	Value ExprID // NoExprID for a bare return
}

type StmtRaiseData struct {
	Exc   ExprID
	Cause ExprID
}

// ImportAlias is one clause of an import statement: `path` or
// `path as asname`.
type ImportAlias struct {
	Path   source.StringID // dotted module path, or imported name for from-imports
	Asname source.StringID // NoStringID when there is no `as`
	Span   source.Span
}

type StmtImportData struct {
	Aliases []ImportAlias
}

type StmtImportFromData struct {
	Module   source.StringID // NoStringID for `from . import x`
	Level    uint8           // number of leading dots
	Aliases  []ImportAlias
	Wildcard bool // from m import *
}

type NameRef struct {
	Name source.StringID
	Span source.Span
}

type StmtGlobalData struct {
	Names []NameRef
}

type StmtNonlocalData struct {
	Names []NameRef
}

type StmtDeleteData struct {
	Targets []ExprID
}

type StmtTypeAliasData struct {
	Name       source.StringID
	NameSpan   source.Span
	TypeParams []TypeParam
	Value      ExprID
}
