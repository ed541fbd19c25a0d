package parser

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"floe/internal/ast"
	"floe/internal/source"
)

func (l *lowerer) lowerStmtInto(body *[]ast.StmtID, n *sitter.Node) {
	switch n.Kind() {
	case "expression_statement":
		// `a = 1; b = 2` on one line arrives as one node with several
		// children.
		for _, child := range namedChildren(n) {
			*body = append(*body, l.lowerSimpleStmt(child))
		}
	case "if_statement":
		*body = append(*body, l.lowerIf(n))
	case "while_statement":
		*body = append(*body, l.lowerWhile(n))
	case "for_statement":
		*body = append(*body, l.lowerFor(n))
	case "try_statement":
		*body = append(*body, l.lowerTry(n))
	case "with_statement":
		*body = append(*body, l.lowerWith(n))
	case "match_statement":
		*body = append(*body, l.lowerMatch(n))
	case "function_definition":
		*body = append(*body, l.lowerFuncDef(n, nil))
	case "class_definition":
		*body = append(*body, l.lowerClassDef(n, nil))
	case "decorated_definition":
		*body = append(*body, l.lowerDecorated(n))
	case "return_statement":
		*body = append(*body, l.lowerReturn(n))
	case "raise_statement":
		*body = append(*body, l.lowerRaise(n))
	case "import_statement":
		*body = append(*body, l.lowerImport(n))
	case "import_from_statement":
		*body = append(*body, l.lowerImportFrom(n))
	case "future_import_statement":
		*body = append(*body, l.lowerImportFrom(n))
	case "global_statement":
		*body = append(*body, l.b.Stmts.NewGlobal(l.span(n), l.lowerNameRefs(n)))
	case "nonlocal_statement":
		*body = append(*body, l.b.Stmts.NewNonlocal(l.span(n), l.lowerNameRefs(n)))
	case "delete_statement":
		*body = append(*body, l.lowerDelete(n))
	case "type_alias_statement":
		*body = append(*body, l.lowerTypeAlias(n))
	case "assert_statement":
		// Lower to a plain expression statement over the condition; the
		// message expression matters for uses too.
		for _, child := range namedChildren(n) {
			*body = append(*body, l.b.Stmts.NewExprStmt(l.span(child), l.lowerExpr(child)))
		}
	case "print_statement", "exec_statement":
		*body = append(*body, l.b.Stmts.NewExprStmt(l.span(n), l.lowerExprChildren(n)))
	case "pass_statement":
		*body = append(*body, l.b.Stmts.NewSimple(ast.StmtPass, l.span(n)))
	case "break_statement":
		*body = append(*body, l.b.Stmts.NewSimple(ast.StmtBreak, l.span(n)))
	case "continue_statement":
		*body = append(*body, l.b.Stmts.NewSimple(ast.StmtContinue, l.span(n)))
	case "ERROR":
		// Salvage whatever recovered statements the error subtree holds.
		for _, child := range namedChildren(n) {
			l.lowerStmtInto(body, child)
		}
	default:
		// Unknown statement kinds degrade to an expression statement so the
		// names inside still resolve.
		*body = append(*body, l.b.Stmts.NewExprStmt(l.span(n), l.lowerExpr(n)))
	}
}

// lowerSimpleStmt handles the statement forms nested inside
// expression_statement.
func (l *lowerer) lowerSimpleStmt(n *sitter.Node) ast.StmtID {
	switch n.Kind() {
	case "assignment":
		return l.lowerAssignment(n)
	case "augmented_assignment":
		return l.lowerAugAssign(n)
	default:
		return l.b.Stmts.NewExprStmt(l.span(n), l.lowerExpr(n))
	}
}

// lowerAssignment flattens `a = b = v` chains and splits off annotated
// assignments, which tree-sitter encodes with a type field on the same node.
func (l *lowerer) lowerAssignment(n *sitter.Node) ast.StmtID {
	if typ := n.ChildByFieldName("type"); typ != nil {
		target := l.lowerTarget(n.ChildByFieldName("left"))
		value := ast.NoExprID
		if right := n.ChildByFieldName("right"); right != nil {
			value = l.lowerExpr(right)
		}
		return l.b.Stmts.NewAnnAssign(l.span(n), target, l.lowerExpr(typ), value)
	}

	var targets []ast.ExprID
	cur := n
	value := ast.NoExprID
	for {
		targets = append(targets, l.lowerTarget(cur.ChildByFieldName("left")))
		right := cur.ChildByFieldName("right")
		if right == nil {
			break
		}
		if right.Kind() == "assignment" && right.ChildByFieldName("type") == nil {
			cur = right
			continue
		}
		value = l.lowerExpr(right)
		break
	}
	return l.b.Stmts.NewAssign(l.span(n), targets, value)
}

func (l *lowerer) lowerAugAssign(n *sitter.Node) ast.StmtID {
	target := l.lowerTarget(n.ChildByFieldName("left"))
	op := "?"
	if opNode := n.ChildByFieldName("operator"); opNode != nil {
		op = strings.TrimSuffix(l.text(opNode), "=")
	}
	value := ast.NoExprID
	if right := n.ChildByFieldName("right"); right != nil {
		value = l.lowerExpr(right)
	}
	return l.b.Stmts.NewAugAssign(l.span(n), target, l.b.Strings.Intern(op), value)
}

// lowerIf rebuilds the elif chain as nested if statements, innermost last.
func (l *lowerer) lowerIf(n *sitter.Node) ast.StmtID {
	cond := l.lowerExpr(n.ChildByFieldName("condition"))
	then := l.lowerBlock(n.ChildByFieldName("consequence"))

	type arm struct {
		span source.Span
		cond ast.ExprID
		body []ast.StmtID
	}
	var elifs []arm
	var elseBody []ast.StmtID
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "elif_clause":
			elifs = append(elifs, arm{
				span: l.span(child),
				cond: l.lowerExpr(child.ChildByFieldName("condition")),
				body: l.lowerBlock(child.ChildByFieldName("consequence")),
			})
		case "else_clause":
			elseBody = l.lowerBlock(child.ChildByFieldName("body"))
		}
	}

	for i := len(elifs) - 1; i >= 0; i-- {
		nested := l.b.Stmts.NewIf(elifs[i].span, elifs[i].cond, elifs[i].body, elseBody)
		elseBody = []ast.StmtID{nested}
	}
	return l.b.Stmts.NewIf(l.span(n), cond, then, elseBody)
}

func (l *lowerer) elseClauseBody(n *sitter.Node) []ast.StmtID {
	for _, child := range namedChildren(n) {
		if child.Kind() == "else_clause" {
			return l.lowerBlock(child.ChildByFieldName("body"))
		}
	}
	return nil
}

func (l *lowerer) lowerWhile(n *sitter.Node) ast.StmtID {
	return l.b.Stmts.NewWhile(l.span(n),
		l.lowerExpr(n.ChildByFieldName("condition")),
		l.lowerBlock(n.ChildByFieldName("body")),
		l.elseClauseBody(n))
}

func (l *lowerer) lowerFor(n *sitter.Node) ast.StmtID {
	return l.b.Stmts.NewFor(l.span(n),
		l.lowerTarget(n.ChildByFieldName("left")),
		l.lowerExpr(n.ChildByFieldName("right")),
		l.lowerBlock(n.ChildByFieldName("body")),
		l.elseClauseBody(n),
		hasChildToken(n, "async"))
}

func (l *lowerer) lowerTry(n *sitter.Node) ast.StmtID {
	data := ast.StmtTryData{
		Body: l.lowerBlock(n.ChildByFieldName("body")),
	}
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "except_clause":
			data.Handlers = append(data.Handlers, l.lowerExcept(child))
		case "except_group_clause":
			data.IsStar = true
			data.Handlers = append(data.Handlers, l.lowerExcept(child))
		case "else_clause":
			data.Else = l.lowerBlock(child.ChildByFieldName("body"))
		case "finally_clause":
			for _, sub := range namedChildren(child) {
				if sub.Kind() == "block" {
					data.Finally = l.lowerBlock(sub)
				}
			}
		}
	}
	return l.b.Stmts.NewTry(l.span(n), data)
}

// lowerExcept tolerates both clause shapes tree-sitter produces: a bare type
// expression with an optional alias identifier, or an as_pattern wrapping
// the two.
func (l *lowerer) lowerExcept(n *sitter.Node) ast.ExceptHandler {
	handler := ast.ExceptHandler{Span: l.span(n)}
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "block":
			handler.Body = l.lowerBlock(child)
		case "as_pattern":
			kids := namedChildren(child)
			if len(kids) > 0 {
				handler.Type = l.lowerExpr(kids[0])
			}
			if len(kids) > 1 {
				target := kids[1]
				if inner := namedChildren(target); len(inner) > 0 {
					target = inner[0]
				}
				handler.Name = l.ident(target)
				handler.NameSpan = l.span(target)
			}
		case "identifier":
			if handler.Type.IsValid() {
				handler.Name = l.ident(child)
				handler.NameSpan = l.span(child)
			} else {
				handler.Type = l.lowerExpr(child)
			}
		default:
			if !handler.Type.IsValid() {
				handler.Type = l.lowerExpr(child)
			}
		}
	}
	return handler
}

func (l *lowerer) lowerWith(n *sitter.Node) ast.StmtID {
	var items []ast.WithItem
	for _, child := range namedChildren(n) {
		if child.Kind() != "with_clause" {
			continue
		}
		for _, itemNode := range namedChildren(child) {
			if itemNode.Kind() != "with_item" {
				continue
			}
			value := itemNode.ChildByFieldName("value")
			if value == nil {
				continue
			}
			item := ast.WithItem{Target: ast.NoExprID}
			if value.Kind() == "as_pattern" {
				kids := namedChildren(value)
				if len(kids) > 0 {
					item.Context = l.lowerExpr(kids[0])
				}
				if len(kids) > 1 {
					target := kids[1]
					if inner := namedChildren(target); len(inner) > 0 {
						target = inner[0]
					}
					item.Target = l.lowerTarget(target)
				}
			} else {
				item.Context = l.lowerExpr(value)
			}
			items = append(items, item)
		}
	}
	return l.b.Stmts.NewWith(l.span(n), items,
		l.lowerBlock(n.ChildByFieldName("body")),
		hasChildToken(n, "async"))
}

func (l *lowerer) lowerDecorated(n *sitter.Node) ast.StmtID {
	var decorators []ast.ExprID
	for _, child := range namedChildren(n) {
		if child.Kind() != "decorator" {
			continue
		}
		if kids := namedChildren(child); len(kids) > 0 {
			decorators = append(decorators, l.lowerExpr(kids[0]))
		}
	}
	def := n.ChildByFieldName("definition")
	if def == nil {
		return l.b.Stmts.NewSimple(ast.StmtPass, l.span(n))
	}
	if def.Kind() == "class_definition" {
		return l.lowerClassDef(def, decorators)
	}
	return l.lowerFuncDef(def, decorators)
}

func (l *lowerer) lowerTypeParams(n *sitter.Node) []ast.TypeParam {
	if n == nil {
		return nil
	}
	var out []ast.TypeParam
	for _, child := range namedChildren(n) {
		name := child
		// TypeVar bounds and defaults nest the identifier deeper.
		for name.Kind() != "identifier" {
			kids := namedChildren(name)
			if len(kids) == 0 {
				break
			}
			name = kids[0]
		}
		if name.Kind() == "identifier" {
			out = append(out, ast.TypeParam{Name: l.ident(name), Span: l.span(name)})
		}
	}
	return out
}

func (l *lowerer) lowerFuncDef(n *sitter.Node, decorators []ast.ExprID) ast.StmtID {
	nameNode := n.ChildByFieldName("name")
	data := ast.StmtFuncDefData{
		Decorators: decorators,
		TypeParams: l.lowerTypeParams(n.ChildByFieldName("type_parameters")),
		Params:     l.lowerParams(n.ChildByFieldName("parameters")),
		Body:       l.lowerBlock(n.ChildByFieldName("body")),
		IsAsync:    hasChildToken(n, "async"),
	}
	if nameNode != nil {
		data.Name = l.ident(nameNode)
		data.NameSpan = l.span(nameNode)
	}
	if ret := n.ChildByFieldName("return_type"); ret != nil {
		data.Returns = l.lowerExpr(l.unwrapType(ret))
	}
	return l.b.Stmts.NewFuncDef(l.span(n), data)
}

// unwrapType peels the `type` wrapper node off annotations.
func (l *lowerer) unwrapType(n *sitter.Node) *sitter.Node {
	if n.Kind() == "type" {
		if kids := namedChildren(n); len(kids) > 0 {
			return kids[0]
		}
	}
	return n
}

func (l *lowerer) lowerParams(n *sitter.Node) []ast.ParamID {
	if n == nil {
		return nil
	}
	var out []ast.ParamID
	kwOnly := false
	for _, child := range namedChildren(n) {
		param := ast.Param{Span: l.span(child)}
		switch child.Kind() {
		case "identifier":
			param.Name = l.ident(child)
			param.Kind = ast.ParamPositional
		case "typed_parameter":
			kids := namedChildren(child)
			if len(kids) > 0 {
				name := kids[0]
				if name.Kind() == "list_splat_pattern" || name.Kind() == "dictionary_splat_pattern" {
					if inner := namedChildren(name); len(inner) > 0 {
						param.Name = l.ident(inner[0])
					}
					if name.Kind() == "list_splat_pattern" {
						param.Kind = ast.ParamVarArgs
						kwOnly = true
					} else {
						param.Kind = ast.ParamKwArgs
					}
				} else {
					param.Name = l.ident(name)
				}
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				param.Annotation = l.lowerExpr(l.unwrapType(typ))
			}
		case "default_parameter", "typed_default_parameter":
			if name := child.ChildByFieldName("name"); name != nil {
				param.Name = l.ident(name)
			}
			if typ := child.ChildByFieldName("type"); typ != nil {
				param.Annotation = l.lowerExpr(l.unwrapType(typ))
			}
			if value := child.ChildByFieldName("value"); value != nil {
				param.Default = l.lowerExpr(value)
			}
		case "list_splat_pattern":
			kwOnly = true
			param.Kind = ast.ParamVarArgs
			if inner := namedChildren(child); len(inner) > 0 {
				param.Name = l.ident(inner[0])
			} else {
				continue // bare *: keyword-only separator, binds nothing
			}
		case "dictionary_splat_pattern":
			param.Kind = ast.ParamKwArgs
			if inner := namedChildren(child); len(inner) > 0 {
				param.Name = l.ident(inner[0])
			} else {
				continue
			}
		case "keyword_separator":
			kwOnly = true
			continue
		case "positional_separator":
			continue
		default:
			continue
		}
		if kwOnly && param.Kind == ast.ParamPositional {
			param.Kind = ast.ParamKeywordOnly
		}
		out = append(out, l.b.Params.New(param))
	}
	return out
}

func (l *lowerer) lowerClassDef(n *sitter.Node, decorators []ast.ExprID) ast.StmtID {
	nameNode := n.ChildByFieldName("name")
	data := ast.StmtClassDefData{
		Decorators: decorators,
		TypeParams: l.lowerTypeParams(n.ChildByFieldName("type_parameters")),
		Body:       l.lowerBlock(n.ChildByFieldName("body")),
	}
	if nameNode != nil {
		data.Name = l.ident(nameNode)
		data.NameSpan = l.span(nameNode)
	}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		for _, arg := range namedChildren(supers) {
			if arg.Kind() == "keyword_argument" {
				if value := arg.ChildByFieldName("value"); value != nil {
					data.Arguments = append(data.Arguments, l.lowerExpr(value))
				}
				continue
			}
			data.Arguments = append(data.Arguments, l.lowerExpr(arg))
		}
	}
	return l.b.Stmts.NewClassDef(l.span(n), data)
}

func (l *lowerer) lowerReturn(n *sitter.Node) ast.StmtID {
	return l.b.Stmts.NewReturn(l.span(n), l.lowerExprChildren(n))
}

// lowerExprChildren lowers a node's expression children: none yields
// NoExprID, one lowers directly, several become a tuple.
func (l *lowerer) lowerExprChildren(n *sitter.Node) ast.ExprID {
	kids := namedChildren(n)
	switch len(kids) {
	case 0:
		return ast.NoExprID
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

func (l *lowerer) lowerRaise(n *sitter.Node) ast.StmtID {
	exc := ast.NoExprID
	cause := ast.NoExprID
	causeNode := n.ChildByFieldName("cause")
	if causeNode != nil {
		cause = l.lowerExpr(causeNode)
	}
	for _, child := range namedChildren(n) {
		if causeNode != nil && child.StartByte() == causeNode.StartByte() {
			continue
		}
		exc = l.lowerExpr(child)
		break
	}
	return l.b.Stmts.NewRaise(l.span(n), exc, cause)
}

func (l *lowerer) lowerImport(n *sitter.Node) ast.StmtID {
	var aliases []ast.ImportAlias
	for _, child := range namedChildren(n) {
		switch child.Kind() {
		case "dotted_name", "identifier":
			aliases = append(aliases, ast.ImportAlias{
				Path: l.b.Strings.Intern(l.text(child)),
				Span: l.span(child),
			})
		case "aliased_import":
			alias := ast.ImportAlias{Span: l.span(child)}
			if name := child.ChildByFieldName("name"); name != nil {
				alias.Path = l.b.Strings.Intern(l.text(name))
			}
			if as := child.ChildByFieldName("alias"); as != nil {
				alias.Asname = l.ident(as)
			}
			aliases = append(aliases, alias)
		}
	}
	return l.b.Stmts.NewImport(l.span(n), aliases)
}

func (l *lowerer) lowerImportFrom(n *sitter.Node) ast.StmtID {
	data := ast.StmtImportFromData{}
	if mod := n.ChildByFieldName("module_name"); mod != nil {
		if mod.Kind() == "relative_import" {
			text := l.text(mod)
			for _, r := range text {
				if r == '.' {
					data.Level++
				} else {
					break
				}
			}
			if rest := strings.TrimLeft(text, "."); rest != "" {
				data.Module = l.b.Strings.Intern(rest)
			}
		} else {
			data.Module = l.b.Strings.Intern(l.text(mod))
		}
	}
	moduleNode := n.ChildByFieldName("module_name")
	for _, child := range namedChildren(n) {
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "wildcard_import":
			data.Wildcard = true
		case "dotted_name", "identifier":
			data.Aliases = append(data.Aliases, ast.ImportAlias{
				Path: l.b.Ident(l.text(child)),
				Span: l.span(child),
			})
		case "aliased_import":
			alias := ast.ImportAlias{Span: l.span(child)}
			if name := child.ChildByFieldName("name"); name != nil {
				alias.Path = l.b.Ident(l.text(name))
			}
			if as := child.ChildByFieldName("alias"); as != nil {
				alias.Asname = l.ident(as)
			}
			data.Aliases = append(data.Aliases, alias)
		}
	}
	return l.b.Stmts.NewImportFrom(l.span(n), data)
}

func (l *lowerer) lowerNameRefs(n *sitter.Node) []ast.NameRef {
	var refs []ast.NameRef
	for _, child := range namedChildren(n) {
		if child.Kind() == "identifier" {
			refs = append(refs, ast.NameRef{Name: l.ident(child), Span: l.span(child)})
		}
	}
	return refs
}

func (l *lowerer) lowerDelete(n *sitter.Node) ast.StmtID {
	var targets []ast.ExprID
	for _, child := range namedChildren(n) {
		if child.Kind() == "expression_list" {
			for _, elem := range namedChildren(child) {
				targets = append(targets, l.lowerDelTarget(elem))
			}
			continue
		}
		targets = append(targets, l.lowerDelTarget(child))
	}
	return l.b.Stmts.NewDelete(l.span(n), targets)
}

func (l *lowerer) lowerDelTarget(n *sitter.Node) ast.ExprID {
	if n.Kind() == "identifier" {
		return l.b.Exprs.NewName(l.span(n), l.ident(n), ast.NameDel)
	}
	return l.lowerExpr(n)
}

func (l *lowerer) lowerTypeAlias(n *sitter.Node) ast.StmtID {
	kids := namedChildren(n)
	data := ast.StmtTypeAliasData{}
	if len(kids) > 0 {
		left := l.unwrapType(kids[0])
		name := left
		for name.Kind() != "identifier" {
			inner := namedChildren(name)
			if len(inner) == 0 {
				break
			}
			if name.Kind() == "generic_type" || name.Kind() == "subscript" {
				data.TypeParams = l.lowerAliasTypeParams(name)
			}
			name = inner[0]
		}
		if name.Kind() == "identifier" {
			data.Name = l.ident(name)
			data.NameSpan = l.span(name)
		}
	}
	if len(kids) > 1 {
		data.Value = l.lowerExpr(l.unwrapType(kids[1]))
	}
	return l.b.Stmts.NewTypeAlias(l.span(n), data)
}

func (l *lowerer) lowerAliasTypeParams(n *sitter.Node) []ast.TypeParam {
	var out []ast.TypeParam
	kids := namedChildren(n)
	for _, child := range kids[1:] {
		target := child
		for target.Kind() != "identifier" {
			inner := namedChildren(target)
			if len(inner) == 0 {
				break
			}
			target = inner[0]
		}
		if target.Kind() == "identifier" {
			out = append(out, ast.TypeParam{Name: l.ident(target), Span: l.span(target)})
		}
	}
	return out
}

// lowerMatch lowers a match statement; each case gets one pattern (a comma
// list becomes a sequence pattern, as at runtime).
func (l *lowerer) lowerMatch(n *sitter.Node) ast.StmtID {
	subject := ast.NoExprID
	if s := n.ChildByFieldName("subject"); s != nil {
		subject = l.lowerExpr(s)
	}
	var cases []ast.MatchCase
	if body := n.ChildByFieldName("body"); body != nil {
		for _, clause := range namedChildren(body) {
			if clause.Kind() != "case_clause" {
				continue
			}
			cases = append(cases, l.lowerCase(clause))
		}
	}
	return l.b.Stmts.NewMatch(l.span(n), subject, cases)
}

func (l *lowerer) lowerCase(n *sitter.Node) ast.MatchCase {
	cse := ast.MatchCase{Span: l.span(n)}
	var patterns []ast.PatternID
	for _, child := range namedChildren(n) {
		if child.Kind() == "case_pattern" {
			patterns = append(patterns, l.lowerPattern(child))
		}
	}
	switch len(patterns) {
	case 0:
		cse.Pattern = l.b.Patterns.New(ast.Pattern{Kind: ast.PatternWildcard, Span: l.span(n)})
	case 1:
		cse.Pattern = patterns[0]
	default:
		cse.Pattern = l.b.Patterns.New(ast.Pattern{
			Kind:  ast.PatternSequence,
			Span:  l.span(n),
			Elems: patterns,
		})
	}
	if guard := n.ChildByFieldName("guard"); guard != nil {
		if kids := namedChildren(guard); len(kids) > 0 {
			cse.Guard = l.lowerExpr(kids[0])
		}
	}
	cse.Body = l.lowerBlock(n.ChildByFieldName("consequence"))
	return cse
}
