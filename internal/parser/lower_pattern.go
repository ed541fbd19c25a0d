package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"floe/internal/ast"
)

// lowerPattern lowers a match-case pattern subtree. Literal and dotted-value
// patterns keep their expression; captures record the bound name.
func (l *lowerer) lowerPattern(n *sitter.Node) ast.PatternID {
	span := l.span(n)
	switch n.Kind() {
	case "case_pattern":
		kids := namedChildren(n)
		if len(kids) == 0 {
			// `case _:` has no named child, just the wildcard token.
			return l.b.Patterns.New(ast.Pattern{Kind: ast.PatternWildcard, Span: span})
		}
		return l.lowerPattern(kids[0])
	case "identifier":
		if l.text(n) == "_" {
			return l.b.Patterns.New(ast.Pattern{Kind: ast.PatternWildcard, Span: span})
		}
		return l.b.Patterns.New(ast.Pattern{
			Kind:     ast.PatternCapture,
			Span:     span,
			Name:     l.ident(n),
			NameSpan: span,
		})
	case "dotted_name":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return l.lowerPattern(kids[0])
		}
		return l.b.Patterns.New(ast.Pattern{
			Kind:  ast.PatternValue,
			Span:  span,
			Value: l.lowerDottedValue(n),
		})
	case "as_pattern":
		kids := namedChildren(n)
		pat := ast.Pattern{Kind: ast.PatternCapture, Span: span}
		if len(kids) > 0 {
			pat.Sub = l.lowerPattern(kids[0])
		}
		if len(kids) > 1 {
			target := kids[1]
			if inner := namedChildren(target); len(inner) > 0 {
				target = inner[0]
			}
			pat.Name = l.ident(target)
			pat.NameSpan = l.span(target)
		}
		return l.b.Patterns.New(pat)
	case "union_pattern":
		return l.b.Patterns.New(ast.Pattern{
			Kind:  ast.PatternOr,
			Span:  span,
			Elems: l.lowerPatternElems(n),
		})
	case "tuple_pattern", "list_pattern":
		return l.b.Patterns.New(ast.Pattern{
			Kind:  ast.PatternSequence,
			Span:  span,
			Elems: l.lowerPatternElems(n),
		})
	case "splat_pattern":
		pat := ast.Pattern{Kind: ast.PatternStar, Span: span}
		if kids := namedChildren(n); len(kids) > 0 && l.text(kids[0]) != "_" {
			pat.Name = l.ident(kids[0])
			pat.NameSpan = l.span(kids[0])
		}
		return l.b.Patterns.New(pat)
	case "dict_pattern":
		return l.lowerDictPattern(n)
	case "class_pattern":
		return l.lowerClassPattern(n)
	case "keyword_pattern":
		// Reached only outside class patterns on malformed input; keep the
		// value side.
		kids := namedChildren(n)
		if len(kids) > 1 {
			return l.lowerPattern(kids[1])
		}
		return l.b.Patterns.New(ast.Pattern{Kind: ast.PatternWildcard, Span: span})
	default:
		return l.b.Patterns.New(ast.Pattern{
			Kind:  ast.PatternValue,
			Span:  span,
			Value: l.lowerExpr(n),
		})
	}
}

func (l *lowerer) lowerPatternElems(n *sitter.Node) []ast.PatternID {
	kids := namedChildren(n)
	elems := make([]ast.PatternID, 0, len(kids))
	for _, kid := range kids {
		elems = append(elems, l.lowerPattern(kid))
	}
	return elems
}

// lowerDottedValue lowers `a.b.c` into an attribute chain.
func (l *lowerer) lowerDottedValue(n *sitter.Node) ast.ExprID {
	kids := namedChildren(n)
	if len(kids) == 0 {
		return l.lowerExpr(n)
	}
	expr := l.b.Exprs.NewName(l.span(kids[0]), l.ident(kids[0]), ast.NameLoad)
	for _, kid := range kids[1:] {
		expr = l.b.Exprs.NewAttribute(l.span(n), expr, l.ident(kid), l.span(kid))
	}
	return expr
}

func (l *lowerer) lowerDictPattern(n *sitter.Node) ast.PatternID {
	pat := ast.Pattern{Kind: ast.PatternMapping, Span: l.span(n)}
	kids := namedChildren(n)
	for i := 0; i < len(kids); i++ {
		kid := kids[i]
		if kid.Kind() == "splat_pattern" {
			if inner := namedChildren(kid); len(inner) > 0 {
				pat.Rest = l.ident(inner[0])
				pat.RestSpan = l.span(inner[0])
			}
			continue
		}
		pat.Keys = append(pat.Keys, l.lowerExpr(kid))
		if i+1 < len(kids) {
			i++
			pat.Values = append(pat.Values, l.lowerPattern(kids[i]))
		} else {
			pat.Values = append(pat.Values, l.b.Patterns.New(ast.Pattern{
				Kind: ast.PatternWildcard,
				Span: l.span(kid),
			}))
		}
	}
	return l.b.Patterns.New(pat)
}

func (l *lowerer) lowerClassPattern(n *sitter.Node) ast.PatternID {
	pat := ast.Pattern{Kind: ast.PatternClass, Span: l.span(n)}
	kids := namedChildren(n)
	for i, kid := range kids {
		if i == 0 {
			switch kid.Kind() {
			case "dotted_name":
				pat.Value = l.lowerDottedValue(kid)
			default:
				pat.Value = l.lowerExpr(kid)
			}
			continue
		}
		if kid.Kind() == "keyword_pattern" {
			inner := namedChildren(kid)
			if len(inner) > 1 {
				pat.KwNames = append(pat.KwNames, l.ident(inner[0]))
				pat.Values = append(pat.Values, l.lowerPattern(inner[1]))
			}
			continue
		}
		pat.Elems = append(pat.Elems, l.lowerPattern(kid))
	}
	return l.b.Patterns.New(pat)
}
