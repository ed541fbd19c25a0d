package ast

import (
	"floe/internal/source"
)

type ParamKind uint8

const (
	ParamPositional ParamKind = iota // includes positional-only
	ParamVarArgs                     // *args
	ParamKeywordOnly
	ParamKwArgs // **kwargs
)

func (k ParamKind) String() string {
	switch k {
	case ParamVarArgs:
		return "varargs"
	case ParamKeywordOnly:
		return "kwonly"
	case ParamKwArgs:
		return "kwargs"
	default:
		return "positional"
	}
}

// Param is a function or lambda parameter.
type Param struct {
	Name       source.StringID
	Span       source.Span
	Kind       ParamKind
	Annotation ExprID // NoExprID when absent
	Default    ExprID // NoExprID when absent
}

// Params manages allocation of parameters.
type Params struct {
	Arena *Arena[Param]
}

func NewParams(capHint uint) *Params {
	return &Params{
		Arena: NewArena[Param](capHint),
	}
}

func (p *Params) New(param Param) ParamID {
	return ParamID(p.Arena.Allocate(param))
}

func (p *Params) Get(id ParamID) *Param {
	return p.Arena.Get(uint32(id))
}
