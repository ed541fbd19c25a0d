package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"floe/internal/ast"
	"floe/internal/source"
)

func (l *lowerer) lowerExpr(n *sitter.Node) ast.ExprID {
	if n == nil {
		return ast.NoExprID
	}
	span := l.span(n)
	switch n.Kind() {
	case "identifier":
		return l.b.Exprs.NewName(span, l.ident(n), ast.NameLoad)
	case "integer":
		return l.b.Exprs.NewLiteral(span, ast.LitInt, l.b.Strings.Intern(l.text(n)))
	case "float":
		return l.b.Exprs.NewLiteral(span, ast.LitFloat, l.b.Strings.Intern(l.text(n)))
	case "true", "false":
		return l.b.Exprs.NewLiteral(span, ast.LitBool, l.b.Strings.Intern(l.text(n)))
	case "none":
		return l.b.Exprs.NewLiteral(span, ast.LitNone, source.NoStringID)
	case "ellipsis":
		return l.b.Exprs.NewLiteral(span, ast.LitEllipsis, source.NoStringID)
	case "string":
		return l.lowerString(n)
	case "concatenated_string":
		return l.lowerConcatenatedString(n)
	case "boolean_operator":
		return l.lowerBoolOp(n)
	case "not_operator":
		arg := ast.NoExprID
		if a := n.ChildByFieldName("argument"); a != nil {
			arg = l.lowerExpr(a)
		}
		return l.b.Exprs.NewUnaryOp(span, l.b.Strings.Intern("not"), arg)
	case "binary_operator":
		op := source.NoStringID
		if opNode := n.ChildByFieldName("operator"); opNode != nil {
			op = l.b.Strings.Intern(l.text(opNode))
		}
		return l.b.Exprs.NewBinOp(span, op,
			l.lowerExpr(n.ChildByFieldName("left")),
			l.lowerExpr(n.ChildByFieldName("right")))
	case "unary_operator":
		op := source.NoStringID
		if opNode := n.ChildByFieldName("operator"); opNode != nil {
			op = l.b.Strings.Intern(l.text(opNode))
		}
		return l.b.Exprs.NewUnaryOp(span, op, l.lowerExpr(n.ChildByFieldName("argument")))
	case "comparison_operator":
		return l.lowerCompare(n)
	case "lambda":
		return l.b.Exprs.NewLambda(span,
			l.lowerParams(n.ChildByFieldName("parameters")),
			l.lowerExpr(n.ChildByFieldName("body")))
	case "conditional_expression":
		kids := namedChildren(n)
		if len(kids) == 3 {
			// source order: value if test else alternative
			return l.b.Exprs.NewIfExp(span, l.lowerExpr(kids[1]), l.lowerExpr(kids[0]), l.lowerExpr(kids[2]))
		}
		return l.lowerFallback(n)
	case "named_expression":
		target := ast.NoExprID
		if name := n.ChildByFieldName("name"); name != nil {
			target = l.b.Exprs.NewName(l.span(name), l.ident(name), ast.NameStore)
		}
		return l.b.Exprs.NewNamed(span, target, l.lowerExpr(n.ChildByFieldName("value")))
	case "call":
		return l.lowerCall(n)
	case "attribute":
		attr := source.NoStringID
		attrSpan := span
		if a := n.ChildByFieldName("attribute"); a != nil {
			attr = l.ident(a)
			attrSpan = l.span(a)
		}
		return l.b.Exprs.NewAttribute(span, l.lowerExpr(n.ChildByFieldName("object")), attr, attrSpan)
	case "subscript":
		return l.lowerSubscript(n)
	case "slice":
		return l.lowerSlice(n)
	case "tuple", "expression_list", "pattern_list":
		return l.b.Exprs.NewTuple(span, l.lowerElems(n))
	case "list", "list_pattern":
		return l.b.Exprs.NewList(span, l.lowerElems(n))
	case "set":
		return l.b.Exprs.NewSet(span, l.lowerElems(n))
	case "dictionary":
		return l.lowerDict(n)
	case "list_splat", "list_splat_pattern":
		return l.b.Exprs.NewStarred(span, l.lowerExprChildren(n))
	case "parenthesized_expression":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return l.lowerExpr(kids[0])
		}
		return l.lowerFallback(n)
	case "list_comprehension":
		return l.lowerComp(n, ast.CompList)
	case "set_comprehension":
		return l.lowerComp(n, ast.CompSet)
	case "dictionary_comprehension":
		return l.lowerComp(n, ast.CompDict)
	case "generator_expression":
		return l.lowerComp(n, ast.CompGenerator)
	case "await":
		return l.b.Exprs.NewAwait(span, l.lowerExprChildren(n))
	case "yield":
		return l.b.Exprs.NewYield(span, l.lowerExprChildren(n), hasChildToken(n, "from"))
	case "type":
		return l.lowerExpr(l.unwrapType(n))
	case "keyword_argument":
		return l.lowerExpr(n.ChildByFieldName("value"))
	default:
		return l.lowerFallback(n)
	}
}

// lowerFallback keeps indexing alive on node kinds the switch above does not
// know: a single child unwraps, several children become a tuple, a leaf
// becomes a string literal carrying its raw text.
func (l *lowerer) lowerFallback(n *sitter.Node) ast.ExprID {
	kids := namedChildren(n)
	switch len(kids) {
	case 0:
		return l.b.Exprs.NewLiteral(l.span(n), ast.LitString, l.b.Strings.Intern(l.text(n)))
	case 1:
		return l.lowerExpr(kids[0])
	default:
		elems := make([]ast.ExprID, 0, len(kids))
		for _, kid := range kids {
			elems = append(elems, l.lowerExpr(kid))
		}
		return l.b.Exprs.NewTuple(l.span(n), elems)
	}
}

// lowerString produces a plain literal for ordinary strings and an f-string
// node carrying the interpolated expressions otherwise.
func (l *lowerer) lowerString(n *sitter.Node) ast.ExprID {
	var interps []ast.ExprID
	for _, child := range namedChildren(n) {
		if child.Kind() != "interpolation" {
			continue
		}
		if expr := child.ChildByFieldName("expression"); expr != nil {
			interps = append(interps, l.lowerExpr(expr))
		} else if kids := namedChildren(child); len(kids) > 0 {
			interps = append(interps, l.lowerExpr(kids[0]))
		}
	}
	if len(interps) > 0 {
		return l.b.Exprs.NewFString(l.span(n), interps)
	}
	return l.b.Exprs.NewLiteral(l.span(n), ast.LitString, l.b.Strings.Intern(l.text(n)))
}

func (l *lowerer) lowerConcatenatedString(n *sitter.Node) ast.ExprID {
	var interps []ast.ExprID
	for _, child := range namedChildren(n) {
		if child.Kind() != "string" {
			continue
		}
		if part := l.lowerString(child); part.IsValid() {
			if data, ok := l.b.Exprs.FString(part); ok {
				interps = append(interps, data.Interpolations...)
			}
		}
	}
	if len(interps) > 0 {
		return l.b.Exprs.NewFString(l.span(n), interps)
	}
	return l.b.Exprs.NewLiteral(l.span(n), ast.LitString, l.b.Strings.Intern(l.text(n)))
}

// lowerBoolOp flattens the left-nested chain tree-sitter builds for
// `a and b and c` into a single operand list.
func (l *lowerer) lowerBoolOp(n *sitter.Node) ast.ExprID {
	op := ast.BoolAnd
	if opNode := n.ChildByFieldName("operator"); opNode != nil && l.text(opNode) == "or" {
		op = ast.BoolOr
	}
	var values []ast.ExprID
	left := n.ChildByFieldName("left")
	if left != nil && left.Kind() == "boolean_operator" {
		if leftOp := left.ChildByFieldName("operator"); leftOp != nil &&
			((op == ast.BoolOr) == (l.text(leftOp) == "or")) {
			nested := l.lowerBoolOp(left)
			if data, ok := l.b.Exprs.BoolOp(nested); ok {
				values = append(values, data.Values...)
			}
		}
	}
	if len(values) == 0 && left != nil {
		values = append(values, l.lowerExpr(left))
	}
	values = append(values, l.lowerExpr(n.ChildByFieldName("right")))
	return l.b.Exprs.NewBoolOp(l.span(n), op, values)
}

// lowerCompare reads operands from named children and operators from the
// anonymous tokens between them, gluing `is not` and `not in` back together.
func (l *lowerer) lowerCompare(n *sitter.Node) ast.ExprID {
	var operands []ast.ExprID
	var ops []source.StringID
	pending := ""
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child.IsNamed() {
			if child.Kind() == "comment" {
				continue
			}
			if pending != "" {
				ops = append(ops, l.b.Strings.Intern(pending))
				pending = ""
			}
			operands = append(operands, l.lowerExpr(child))
			continue
		}
		tok := child.Kind()
		if pending != "" {
			pending += " " + tok
		} else {
			pending = tok
		}
	}
	if len(operands) == 0 {
		return l.lowerFallback(n)
	}
	return l.b.Exprs.NewCompare(l.span(n), operands[0], ops, operands[1:])
}

func (l *lowerer) lowerCall(n *sitter.Node) ast.ExprID {
	fn := l.lowerExpr(n.ChildByFieldName("function"))
	var args []ast.ExprID
	var keywords []ast.Keyword
	if argList := n.ChildByFieldName("arguments"); argList != nil {
		for _, arg := range namedChildren(argList) {
			switch arg.Kind() {
			case "keyword_argument":
				kw := ast.Keyword{}
				if name := arg.ChildByFieldName("name"); name != nil {
					kw.Name = l.ident(name)
				}
				kw.Value = l.lowerExpr(arg.ChildByFieldName("value"))
				keywords = append(keywords, kw)
			case "dictionary_splat":
				keywords = append(keywords, ast.Keyword{Value: l.lowerExprChildren(arg)})
			case "list_splat":
				args = append(args, l.b.Exprs.NewStarred(l.span(arg), l.lowerExprChildren(arg)))
			default:
				args = append(args, l.lowerExpr(arg))
			}
		}
	}
	return l.b.Exprs.NewCall(l.span(n), fn, args, keywords)
}

func (l *lowerer) lowerSubscript(n *sitter.Node) ast.ExprID {
	value := l.lowerExpr(n.ChildByFieldName("value"))
	valueNode := n.ChildByFieldName("value")
	var indices []ast.ExprID
	for _, child := range namedChildren(n) {
		if valueNode != nil && child.StartByte() == valueNode.StartByte() {
			continue
		}
		indices = append(indices, l.lowerExpr(child))
	}
	index := ast.NoExprID
	switch len(indices) {
	case 0:
	case 1:
		index = indices[0]
	default:
		index = l.b.Exprs.NewTuple(l.span(n), indices)
	}
	return l.b.Exprs.NewSubscript(l.span(n), value, index)
}

// lowerSlice places expressions into lower/upper/step slots by walking the
// colon tokens, since the grammar gives the slice no fields.
func (l *lowerer) lowerSlice(n *sitter.Node) ast.ExprID {
	slots := [3]ast.ExprID{}
	slot := 0
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if !child.IsNamed() {
			if child.Kind() == ":" {
				slot++
			}
			continue
		}
		if child.Kind() == "comment" || slot > 2 {
			continue
		}
		slots[slot] = l.lowerExpr(child)
	}
	return l.b.Exprs.NewSlice(l.span(n), slots[0], slots[1], slots[2])
}

func (l *lowerer) lowerElems(n *sitter.Node) []ast.ExprID {
	kids := namedChildren(n)
	elems := make([]ast.ExprID, 0, len(kids))
	for _, kid := range kids {
		elems = append(elems, l.lowerExpr(kid))
	}
	return elems
}

func (l *lowerer) lowerDict(n *sitter.Node) ast.ExprID {
	var keys, values []ast.ExprID
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "pair":
			keys = append(keys, l.lowerExpr(child.ChildByFieldName("key")))
			values = append(values, l.lowerExpr(child.ChildByFieldName("value")))
		case "dictionary_splat":
			keys = append(keys, ast.NoExprID)
			values = append(values, l.lowerExprChildren(child))
		}
	}
	return l.b.Exprs.NewDict(l.span(n), keys, values)
}

func (l *lowerer) lowerComp(n *sitter.Node, kind ast.CompKind) ast.ExprID {
	data := ast.ExprCompData{Kind: kind}
	if body := n.ChildByFieldName("body"); body != nil {
		if kind == ast.CompDict && body.Kind() == "pair" {
			data.Key = l.lowerExpr(body.ChildByFieldName("key"))
			data.Element = l.lowerExpr(body.ChildByFieldName("value"))
		} else {
			data.Element = l.lowerExpr(body)
		}
	}
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "for_in_clause":
			data.Clauses = append(data.Clauses, ast.CompClause{
				Target:  l.lowerTarget(child.ChildByFieldName("left")),
				Iter:    l.lowerExpr(child.ChildByFieldName("right")),
				IsAsync: hasChildToken(child, "async"),
			})
		case "if_clause":
			if len(data.Clauses) == 0 {
				continue
			}
			if kids := namedChildren(child); len(kids) > 0 {
				last := &data.Clauses[len(data.Clauses)-1]
				last.Ifs = append(last.Ifs, l.lowerExpr(kids[0]))
			}
		}
	}
	return l.b.Exprs.NewComp(l.span(n), data)
}

// lowerTarget lowers an assignment target with store name contexts, walking
// through destructuring shapes.
func (l *lowerer) lowerTarget(n *sitter.Node) ast.ExprID {
	if n == nil {
		return ast.NoExprID
	}
	span := l.span(n)
	switch n.Kind() {
	case "identifier":
		return l.b.Exprs.NewName(span, l.ident(n), ast.NameStore)
	case "tuple", "tuple_pattern", "expression_list", "pattern_list":
		return l.b.Exprs.NewTuple(span, l.lowerTargetElems(n))
	case "list", "list_pattern":
		return l.b.Exprs.NewList(span, l.lowerTargetElems(n))
	case "list_splat", "list_splat_pattern":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return l.b.Exprs.NewStarred(span, l.lowerTarget(kids[0]))
		}
		return l.b.Exprs.NewStarred(span, ast.NoExprID)
	case "parenthesized_expression":
		kids := namedChildren(n)
		if len(kids) == 1 {
			return l.lowerTarget(kids[0])
		}
		return l.lowerExpr(n)
	default:
		// Attribute and subscript targets read their bases; no store name.
		return l.lowerExpr(n)
	}
}

func (l *lowerer) lowerTargetElems(n *sitter.Node) []ast.ExprID {
	kids := namedChildren(n)
	elems := make([]ast.ExprID, 0, len(kids))
	for _, kid := range kids {
		elems = append(elems, l.lowerTarget(kid))
	}
	return elems
}
