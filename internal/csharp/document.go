package csharp

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"gitlab.com/tozd/go/errors"

	"github.com/jward/tincture/internal/syntax"
)

// ErrSyntax is returned by ParseScript when the fragment does not parse
// cleanly.
var ErrSyntax = errors.New("csharp: fragment has syntax errors")

// Document is one parsed C# source with its semantic model. The syntax tree
// and model are immutable; Close releases the tree-sitter tree.
type Document struct {
	ts    *sitter.Tree
	tree  *tree
	model *binder
}

var _ syntax.Document = (*Document)(nil)

// Parse parses src as a compilation unit. Syntax errors do not fail the
// parse; the tree contains error nodes and the model binds what it can.
func Parse(ctx context.Context, src []byte) (*Document, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language())

	ts, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("csharp: parse: %w", err)
	}
	t := convert(ts, src)
	return &Document{ts: ts, tree: t, model: bind(t)}, nil
}

// ParseScript parses a free-standing fragment such as a documentation code
// sample. Unlike Parse it fails when the fragment has syntax errors.
func ParseScript(ctx context.Context, src string) (*Document, error) {
	doc, err := Parse(ctx, []byte(src))
	if err != nil {
		return nil, err
	}
	if doc.tree.hasError {
		doc.Close()
		return nil, errors.Errorf("csharp: parse script: %w", ErrSyntax)
	}
	return doc, nil
}

// Tree implements syntax.Document.
func (d *Document) Tree() syntax.Tree { return d.tree }

// Model implements syntax.Document.
func (d *Document) Model() syntax.SemanticModel { return d.model }

// HasErrors reports whether the source contains syntax errors.
func (d *Document) HasErrors() bool { return d.tree.hasError }

// Symbols returns every declared symbol in declaration order.
func (d *Document) Symbols() []*syntax.Symbol {
	return d.model.symbols()
}

// Close releases the tree-sitter tree. It is safe to call more than once.
func (d *Document) Close() {
	if d.ts != nil {
		d.ts.Close()
		d.ts = nil
	}
}

// Parser parses doc-comment code samples into throwaway documents.
type Parser struct{}

var _ syntax.ScriptParser = Parser{}

// ParseScript implements syntax.ScriptParser.
func (Parser) ParseScript(ctx context.Context, src string) (syntax.Document, error) {
	doc, err := ParseScript(ctx, src)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
