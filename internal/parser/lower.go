package parser

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"floe/internal/ast"
	"floe/internal/source"
)

// lowerer converts one file's concrete syntax tree into arena AST nodes.
// Lowering is total: unexpected node kinds degrade to conservative
// placeholders instead of failing, so files with syntax errors still index.
type lowerer struct {
	b    *ast.Builder
	src  []byte
	file source.FileID
}

func (l *lowerer) span(n *sitter.Node) source.Span {
	return source.Span{
		File:  l.file,
		Start: uint32(n.StartByte()), //nolint:gosec // file sizes are bounded upstream
		End:   uint32(n.EndByte()),   //nolint:gosec
	}
}

func (l *lowerer) text(n *sitter.Node) string {
	return string(l.src[n.StartByte():n.EndByte()])
}

func (l *lowerer) ident(n *sitter.Node) source.StringID {
	return l.b.Ident(l.text(n))
}

// namedChildren returns the named children minus interleaved comments.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := n.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.NamedChild(i)
		if child.Kind() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

// hasChildToken reports whether a node carries an anonymous token child,
// e.g. the `async` prefix of functions and loops.
func hasChildToken(n *sitter.Node, token string) bool {
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		if n.Child(i).Kind() == token {
			return true
		}
	}
	return false
}

func (l *lowerer) lowerModule(root *sitter.Node) ast.ModuleID {
	module := l.b.NewModule(l.span(root))
	for _, stmt := range l.lowerBlock(root) {
		l.b.PushStmt(module, stmt)
	}
	return module
}

// lowerBlock lowers the statements of a module or block node.
func (l *lowerer) lowerBlock(n *sitter.Node) []ast.StmtID {
	if n == nil {
		return nil
	}
	var body []ast.StmtID
	for _, child := range namedChildren(n) {
		l.lowerStmtInto(&body, child)
	}
	return body
}
