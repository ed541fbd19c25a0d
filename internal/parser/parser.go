// Package parser turns Python source text into the arena AST the semantic
// indexer consumes. Parsing is delegated to tree-sitter; this package owns
// the lowering from the concrete syntax tree to compact statement and
// expression payloads.
package parser

import (
	"fmt"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"floe/internal/ast"
	"floe/internal/source"
)

// Parser parses Python files into an ast.Builder. It recycles tree-sitter
// parser instances and is safe for concurrent use; the builder passed to
// ParseFile is not, so concurrent callers must use separate builders.
type Parser struct {
	lang *sitter.Language
	pool sync.Pool
}

func New() *Parser {
	lang := sitter.NewLanguage(tree_sitter_python.Language())
	p := &Parser{lang: lang}
	p.pool = sync.Pool{
		New: func() any {
			sp := sitter.NewParser()
			sp.SetLanguage(lang)
			return sp
		},
	}
	return p
}

// Result reports what a parse produced beyond the module itself.
type Result struct {
	Module ast.ModuleID
	// HadErrors is set when tree-sitter recovered from syntax errors; the
	// lowered AST covers whatever the recovery salvaged.
	HadErrors bool
}

// ParseFile parses one file and lowers it into the builder.
func (p *Parser) ParseFile(file *source.File, builder *ast.Builder) (Result, error) {
	sp := p.pool.Get().(*sitter.Parser)
	defer p.pool.Put(sp)

	tree := sp.Parse(file.Content, nil)
	if tree == nil {
		return Result{}, fmt.Errorf("parse %s: tree-sitter returned no tree", file.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	l := &lowerer{
		b:    builder,
		src:  file.Content,
		file: file.ID,
	}
	module := l.lowerModule(root)
	return Result{Module: module, HadErrors: root.HasError()}, nil
}

// ParseVirtual is a test convenience: it parses raw source as an in-memory
// file.
func (p *Parser) ParseVirtual(name string, src string, builder *ast.Builder) (Result, error) {
	file := &source.File{
		Path:    name,
		Content: []byte(src),
		Flags:   source.FileVirtual,
	}
	return p.ParseFile(file, builder)
}
