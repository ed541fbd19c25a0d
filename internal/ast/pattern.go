package ast

import (
	"floe/internal/source"
)

type PatternKind uint8

const (
	PatternInvalid PatternKind = iota
	PatternWildcard
	PatternCapture // name, or `sub as name`
	PatternValue   // literal or dotted value
	PatternSequence
	PatternMapping
	PatternClass
	PatternOr
	PatternStar // *rest inside a sequence pattern
)

func (k PatternKind) String() string {
	switch k {
	case PatternWildcard:
		return "wildcard"
	case PatternCapture:
		return "capture"
	case PatternValue:
		return "value"
	case PatternSequence:
		return "sequence"
	case PatternMapping:
		return "mapping"
	case PatternClass:
		return "class"
	case PatternOr:
		return "or"
	case PatternStar:
		return "star"
	default:
		return "invalid"
	}
}

// Pattern is one node of a match-case pattern tree. A single struct covers
// all kinds; unused fields stay zero.
type Pattern struct {
	Kind     PatternKind
	Span     source.Span
	Name     source.StringID // capture/star name
	NameSpan source.Span
	Value    ExprID      // value patterns, class callee
	Sub      PatternID   // capture: inner pattern of `sub as name`
	Elems    []PatternID // sequence/or elements, class positional patterns
	Keys     []ExprID    // mapping keys
	Values   []PatternID // mapping value patterns, class keyword patterns
	KwNames  []source.StringID
	Rest     source.StringID // mapping **rest capture
	RestSpan source.Span
}

// Patterns manages allocation of match patterns.
type Patterns struct {
	Arena *Arena[Pattern]
}

func NewPatterns(capHint uint) *Patterns {
	return &Patterns{
		Arena: NewArena[Pattern](capHint),
	}
}

func (p *Patterns) New(pat Pattern) PatternID {
	return PatternID(p.Arena.Allocate(pat))
}

func (p *Patterns) Get(id PatternID) *Pattern {
	return p.Arena.Get(uint32(id))
}

// Irrefutable reports whether the pattern matches any subject: a wildcard,
// a bare capture, or an or-pattern with an irrefutable alternative.
func (p *Patterns) Irrefutable(id PatternID) bool {
	pat := p.Get(id)
	if pat == nil {
		return false
	}
	switch pat.Kind {
	case PatternWildcard:
		return true
	case PatternCapture:
		return !pat.Sub.IsValid()
	case PatternOr:
		for _, alt := range pat.Elems {
			if p.Irrefutable(alt) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
