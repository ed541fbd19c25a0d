package ast

import (
	"floe/internal/source"
)

type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprName
	ExprLiteral
	ExprBoolOp
	ExprBinOp
	ExprUnaryOp
	ExprCompare
	ExprCall
	ExprAttribute
	ExprSubscript
	ExprSlice
	ExprTuple
	ExprList
	ExprSet
	ExprDict
	ExprStarred
	ExprIfExp
	ExprLambda
	ExprNamed // walrus :=
	ExprComp  // list/set/dict comprehensions and generator expressions
	ExprYield
	ExprYieldFrom
	ExprAwait
	ExprFString
)

func (k ExprKind) String() string {
	switch k {
	case ExprName:
		return "name"
	case ExprLiteral:
		return "literal"
	case ExprBoolOp:
		return "bool-op"
	case ExprBinOp:
		return "bin-op"
	case ExprUnaryOp:
		return "unary-op"
	case ExprCompare:
		return "compare"
	case ExprCall:
		return "call"
	case ExprAttribute:
		return "attribute"
	case ExprSubscript:
		return "subscript"
	case ExprSlice:
		return "slice"
	case ExprTuple:
		return "tuple"
	case ExprList:
		return "list"
	case ExprSet:
		return "set"
	case ExprDict:
		return "dict"
	case ExprStarred:
		return "starred"
	case ExprIfExp:
		return "if-exp"
	case ExprLambda:
		return "lambda"
	case ExprNamed:
		return "named"
	case ExprComp:
		return "comprehension"
	case ExprYield:
		return "yield"
	case ExprYieldFrom:
		return "yield-from"
	case ExprAwait:
		return "await"
	case ExprFString:
		return "f-string"
	default:
		return "invalid"
	}
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// NameCtx distinguishes how an identifier occurrence is used. The lowering
// assigns it from syntactic position.
type NameCtx uint8

const (
	NameLoad NameCtx = iota
	NameStore
	NameDel
)

func (c NameCtx) String() string {
	switch c {
	case NameStore:
		return "store"
	case NameDel:
		return "del"
	default:
		return "load"
	}
}

type ExprNameData struct {
	Name source.StringID
	Ctx  NameCtx
}

type LitKind uint8

const (
	LitInt LitKind = iota
	LitFloat
	LitString
	LitBytes
	LitBool
	LitNone
	LitEllipsis
)

type ExprLiteralData struct {
	Kind LitKind
	// Raw source text of the literal; the type layer re-parses values it
	// cares about.
	Text source.StringID
}

type BoolOpKind uint8

const (
	BoolAnd BoolOpKind = iota
	BoolOr
)

type ExprBoolOpData struct {
	Op     BoolOpKind
	Values []ExprID // two or more operands, source order
}

type ExprBinOpData struct {
	Op    source.StringID
	Left  ExprID
	Right ExprID
}

type ExprUnaryOpData struct {
	Op      source.StringID // "not", "-", "+", "~"
	Operand ExprID
}

type ExprCompareData struct {
	Left        ExprID
	Ops         []source.StringID
	Comparators []ExprID
}

// Keyword is a `name=value` or `**value` call argument.
type Keyword struct {
	Name  source.StringID // NoStringID for **kwargs
	Value ExprID
}

type ExprCallData struct {
	Func     ExprID
	Args     []ExprID
	Keywords []Keyword
}

type ExprAttributeData struct {
	Value    ExprID
	Attr     source.StringID
	AttrSpan source.Span
}

type ExprSubscriptData struct {
	Value ExprID
	Index ExprID
}

type ExprSliceData struct {
	Lower ExprID
	Upper ExprID
	Step  ExprID
}

type ExprSequenceData struct {
	Elems []ExprID
}

// ExprDictData pairs keys with values; a NoExprID key marks a `**spread`
// entry whose value is the spread expression.
type ExprDictData struct {
	Keys   []ExprID
	Values []ExprID
}

type ExprStarredData struct {
	Value ExprID
}

type ExprIfExpData struct {
	Test ExprID
	Then ExprID
	Else ExprID
}

type ExprLambdaData struct {
	Params []ParamID
	Body   ExprID
}

type ExprNamedData struct {
	Target ExprID // always an ExprName in store context
	Value  ExprID
}

type CompKind uint8

const (
	CompList CompKind = iota
	CompSet
	CompDict
	CompGenerator
)

// CompClause is one `for target in iter [if cond]*` clause.
type CompClause struct {
	Target  ExprID
	Iter    ExprID
	Ifs     []ExprID
	IsAsync bool
}

type ExprCompData struct {
	Kind    CompKind
	Element ExprID // element, or value for dict comprehensions
	Key     ExprID // NoExprID except for dict comprehensions
	Clauses []CompClause
}

type ExprYieldData struct {
	Value ExprID // NoExprID for bare yield
}

type ExprAwaitData struct {
	Value ExprID
}

// ExprFStringData keeps only the interpolated expressions; literal chunks
// are irrelevant to binding analysis.
type ExprFStringData struct {
	Interpolations []ExprID
}
