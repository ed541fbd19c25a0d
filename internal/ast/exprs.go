package ast

import (
	"floe/internal/source"
)

// Exprs manages allocation of expressions and their payloads.
type Exprs struct {
	Arena      *Arena[Expr]
	Names      *Arena[ExprNameData]
	Literals   *Arena[ExprLiteralData]
	BoolOps    *Arena[ExprBoolOpData]
	BinOps     *Arena[ExprBinOpData]
	UnaryOps   *Arena[ExprUnaryOpData]
	Compares   *Arena[ExprCompareData]
	Calls      *Arena[ExprCallData]
	Attributes *Arena[ExprAttributeData]
	Subscripts *Arena[ExprSubscriptData]
	Slices     *Arena[ExprSliceData]
	Tuples     *Arena[ExprSequenceData]
	Lists      *Arena[ExprSequenceData]
	Sets       *Arena[ExprSequenceData]
	Dicts      *Arena[ExprDictData]
	Starreds   *Arena[ExprStarredData]
	IfExps     *Arena[ExprIfExpData]
	Lambdas    *Arena[ExprLambdaData]
	Nameds     *Arena[ExprNamedData]
	Comps      *Arena[ExprCompData]
	Yields     *Arena[ExprYieldData]
	Awaits     *Arena[ExprAwaitData]
	FStrings   *Arena[ExprFStringData]
}

func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 9
	}
	small := capHint / 4
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Names:      NewArena[ExprNameData](capHint),
		Literals:   NewArena[ExprLiteralData](capHint),
		BoolOps:    NewArena[ExprBoolOpData](small),
		BinOps:     NewArena[ExprBinOpData](small),
		UnaryOps:   NewArena[ExprUnaryOpData](small),
		Compares:   NewArena[ExprCompareData](small),
		Calls:      NewArena[ExprCallData](small),
		Attributes: NewArena[ExprAttributeData](small),
		Subscripts: NewArena[ExprSubscriptData](small),
		Slices:     NewArena[ExprSliceData](small),
		Tuples:     NewArena[ExprSequenceData](small),
		Lists:      NewArena[ExprSequenceData](small),
		Sets:       NewArena[ExprSequenceData](small),
		Dicts:      NewArena[ExprDictData](small),
		Starreds:   NewArena[ExprStarredData](small),
		IfExps:     NewArena[ExprIfExpData](small),
		Lambdas:    NewArena[ExprLambdaData](small),
		Nameds:     NewArena[ExprNamedData](small),
		Comps:      NewArena[ExprCompData](small),
		Yields:     NewArena[ExprYieldData](small),
		Awaits:     NewArena[ExprAwaitData](small),
		FStrings:   NewArena[ExprFStringData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: payload,
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewName(span source.Span, name source.StringID, ctx NameCtx) ExprID {
	payload := e.Names.Allocate(ExprNameData{Name: name, Ctx: ctx})
	return e.new(ExprName, span, PayloadID(payload))
}

func (e *Exprs) Name(id ExprID) (*ExprNameData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprName {
		return nil, false
	}
	return e.Names.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLiteral(span source.Span, kind LitKind, text source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Text: text})
	return e.new(ExprLiteral, span, PayloadID(payload))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLiteral {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBoolOp(span source.Span, op BoolOpKind, values []ExprID) ExprID {
	payload := e.BoolOps.Allocate(ExprBoolOpData{Op: op, Values: values})
	return e.new(ExprBoolOp, span, PayloadID(payload))
}

func (e *Exprs) BoolOp(id ExprID) (*ExprBoolOpData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBoolOp {
		return nil, false
	}
	return e.BoolOps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinOp(span source.Span, op source.StringID, left, right ExprID) ExprID {
	payload := e.BinOps.Allocate(ExprBinOpData{Op: op, Left: left, Right: right})
	return e.new(ExprBinOp, span, PayloadID(payload))
}

func (e *Exprs) BinOp(id ExprID) (*ExprBinOpData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinOp {
		return nil, false
	}
	return e.BinOps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnaryOp(span source.Span, op source.StringID, operand ExprID) ExprID {
	payload := e.UnaryOps.Allocate(ExprUnaryOpData{Op: op, Operand: operand})
	return e.new(ExprUnaryOp, span, PayloadID(payload))
}

func (e *Exprs) UnaryOp(id ExprID) (*ExprUnaryOpData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnaryOp {
		return nil, false
	}
	return e.UnaryOps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCompare(span source.Span, left ExprID, ops []source.StringID, comparators []ExprID) ExprID {
	payload := e.Compares.Allocate(ExprCompareData{Left: left, Ops: ops, Comparators: comparators})
	return e.new(ExprCompare, span, PayloadID(payload))
}

func (e *Exprs) Compare(id ExprID) (*ExprCompareData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCompare {
		return nil, false
	}
	return e.Compares.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, fn ExprID, args []ExprID, keywords []Keyword) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Func: fn, Args: args, Keywords: keywords})
	return e.new(ExprCall, span, PayloadID(payload))
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewAttribute(span source.Span, value ExprID, attr source.StringID, attrSpan source.Span) ExprID {
	payload := e.Attributes.Allocate(ExprAttributeData{Value: value, Attr: attr, AttrSpan: attrSpan})
	return e.new(ExprAttribute, span, PayloadID(payload))
}

func (e *Exprs) Attribute(id ExprID) (*ExprAttributeData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAttribute {
		return nil, false
	}
	return e.Attributes.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewSubscript(span source.Span, value, index ExprID) ExprID {
	payload := e.Subscripts.Allocate(ExprSubscriptData{Value: value, Index: index})
	return e.new(ExprSubscript, span, PayloadID(payload))
}

func (e *Exprs) Subscript(id ExprID) (*ExprSubscriptData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSubscript {
		return nil, false
	}
	return e.Subscripts.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewSlice(span source.Span, lower, upper, step ExprID) ExprID {
	payload := e.Slices.Allocate(ExprSliceData{Lower: lower, Upper: upper, Step: step})
	return e.new(ExprSlice, span, PayloadID(payload))
}

func (e *Exprs) Slice(id ExprID) (*ExprSliceData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprSlice {
		return nil, false
	}
	return e.Slices.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewTuple(span source.Span, elems []ExprID) ExprID {
	payload := e.Tuples.Allocate(ExprSequenceData{Elems: elems})
	return e.new(ExprTuple, span, PayloadID(payload))
}

func (e *Exprs) NewList(span source.Span, elems []ExprID) ExprID {
	payload := e.Lists.Allocate(ExprSequenceData{Elems: elems})
	return e.new(ExprList, span, PayloadID(payload))
}

func (e *Exprs) NewSet(span source.Span, elems []ExprID) ExprID {
	payload := e.Sets.Allocate(ExprSequenceData{Elems: elems})
	return e.new(ExprSet, span, PayloadID(payload))
}

// Sequence returns element lists for tuple, list, and set expressions.
func (e *Exprs) Sequence(id ExprID) (*ExprSequenceData, bool) {
	expr := e.Get(id)
	if expr == nil {
		return nil, false
	}
	switch expr.Kind {
	case ExprTuple:
		return e.Tuples.Get(uint32(expr.Payload)), true
	case ExprList:
		return e.Lists.Get(uint32(expr.Payload)), true
	case ExprSet:
		return e.Sets.Get(uint32(expr.Payload)), true
	default:
		return nil, false
	}
}

func (e *Exprs) NewDict(span source.Span, keys, values []ExprID) ExprID {
	payload := e.Dicts.Allocate(ExprDictData{Keys: keys, Values: values})
	return e.new(ExprDict, span, PayloadID(payload))
}

func (e *Exprs) Dict(id ExprID) (*ExprDictData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprDict {
		return nil, false
	}
	return e.Dicts.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewStarred(span source.Span, value ExprID) ExprID {
	payload := e.Starreds.Allocate(ExprStarredData{Value: value})
	return e.new(ExprStarred, span, PayloadID(payload))
}

func (e *Exprs) Starred(id ExprID) (*ExprStarredData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprStarred {
		return nil, false
	}
	return e.Starreds.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIfExp(span source.Span, test, then, els ExprID) ExprID {
	payload := e.IfExps.Allocate(ExprIfExpData{Test: test, Then: then, Else: els})
	return e.new(ExprIfExp, span, PayloadID(payload))
}

func (e *Exprs) IfExp(id ExprID) (*ExprIfExpData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIfExp {
		return nil, false
	}
	return e.IfExps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLambda(span source.Span, params []ParamID, body ExprID) ExprID {
	payload := e.Lambdas.Allocate(ExprLambdaData{Params: params, Body: body})
	return e.new(ExprLambda, span, PayloadID(payload))
}

func (e *Exprs) Lambda(id ExprID) (*ExprLambdaData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLambda {
		return nil, false
	}
	return e.Lambdas.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewNamed(span source.Span, target, value ExprID) ExprID {
	payload := e.Nameds.Allocate(ExprNamedData{Target: target, Value: value})
	return e.new(ExprNamed, span, PayloadID(payload))
}

func (e *Exprs) Named(id ExprID) (*ExprNamedData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprNamed {
		return nil, false
	}
	return e.Nameds.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewComp(span source.Span, data ExprCompData) ExprID {
	payload := e.Comps.Allocate(data)
	return e.new(ExprComp, span, PayloadID(payload))
}

func (e *Exprs) Comp(id ExprID) (*ExprCompData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprComp {
		return nil, false
	}
	return e.Comps.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewYield(span source.Span, value ExprID, from bool) ExprID {
	payload := e.Yields.Allocate(ExprYieldData{Value: value})
	kind := ExprYield
	if from {
		kind = ExprYieldFrom
	}
	return e.new(kind, span, PayloadID(payload))
}

func (e *Exprs) Yield(id ExprID) (*ExprYieldData, bool) {
	expr := e.Get(id)
	if expr == nil || (expr.Kind != ExprYield && expr.Kind != ExprYieldFrom) {
		return nil, false
	}
	return e.Yields.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewAwait(span source.Span, value ExprID) ExprID {
	payload := e.Awaits.Allocate(ExprAwaitData{Value: value})
	return e.new(ExprAwait, span, PayloadID(payload))
}

func (e *Exprs) Await(id ExprID) (*ExprAwaitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprAwait {
		return nil, false
	}
	return e.Awaits.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewFString(span source.Span, interpolations []ExprID) ExprID {
	payload := e.FStrings.Allocate(ExprFStringData{Interpolations: interpolations})
	return e.new(ExprFString, span, PayloadID(payload))
}

func (e *Exprs) FString(id ExprID) (*ExprFStringData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprFString {
		return nil, false
	}
	return e.FStrings.Get(uint32(expr.Payload)), true
}
