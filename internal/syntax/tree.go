package syntax

import "context"

// Field names under which providers expose a node's structural children.
const (
	FieldName       = "name"
	FieldType       = "type"
	FieldExpression = "expression"
	FieldFunction   = "function"
	FieldArguments  = "arguments"
	FieldAlias      = "alias"
	FieldBody       = "body"
)

// Node is a syntax node. Nodes are immutable and remain valid until the
// owning Document is closed.
type Node interface {
	Kind() Kind
	Span() Span
	// Parent returns nil for the root.
	Parent() Node
	ChildCount() int
	Child(i int) Node
	// Field returns the child stored under a field name, or nil.
	Field(name string) Node
	Text() string
	// LeadingTrivia is the whitespace and comments between the previous
	// token and the node.
	LeadingTrivia() Span
}

// Tree is a parsed source file.
type Tree interface {
	Root() Node
	// Len is the length of the source text in bytes.
	Len() int
	Text(span Span) string
	// FindNode returns the node whose span contains span. When several
	// nested nodes share the same span the outermost wins, unless innermost
	// is set. Token wrappers such as modifier lists and member lists are
	// skipped, so a keyword or brace resolves to the construct that owns it.
	FindNode(span Span, innermost bool) Node
	// DocCommentAt returns the full span of the documentation comment
	// block containing offset.
	DocCommentAt(offset int) (Span, bool)
}

// SemanticModel answers symbol questions for nodes of one Tree.
type SemanticModel interface {
	// ResolveSymbol returns the symbol a reference binds to, or nil.
	ResolveSymbol(n Node) *Symbol
	// CandidateSymbols returns the symbols a reference could bind to when
	// binding is ambiguous.
	CandidateSymbols(n Node) []*Symbol
	// ResolveDeclaredSymbol returns the symbol a declaration (or the name
	// of a declaration) introduces, or nil.
	ResolveDeclaredSymbol(n Node) *Symbol
}

// LexicalSpan is one span of the base lexical stream. Class is the base
// classification name, e.g. "keyword" or "class name".
type LexicalSpan struct {
	Span  Span
	Class string
}

// Base classification names produced by providers.
const (
	ClassKeyword       = "keyword"
	ClassIdentifier    = "identifier"
	ClassPunctuation   = "punctuation"
	ClassOperator      = "operator"
	ClassNumber        = "number"
	ClassString        = "string"
	ClassComment       = "comment"
	ClassClassName     = "class name"
	ClassInterfaceName = "interface name"
	ClassStructName    = "struct name"
	ClassEnumName      = "enum name"
	ClassDelegateName  = "delegate name"
	ClassTypeParamName = "type parameter name"
	ClassPreprocessor  = "preprocessor keyword"
	ClassXmlDelimiter  = "xml doc comment - delimiter"
	ClassXmlName       = "xml doc comment - name"
	ClassXmlText       = "xml doc comment - text"
	ClassXmlCData      = "xml doc comment - cdata section"
)

// Document bundles what the classifier needs for one snapshot of a buffer.
type Document interface {
	Tree() Tree
	Model() SemanticModel
	// LexicalSpans returns the base spans intersecting rng in text order.
	LexicalSpans(rng Span) []LexicalSpan
	// Close releases parser resources. Nodes must not be used afterwards.
	Close()
}

// Provider yields the current document of a buffer. ok is false while the
// buffer has no document yet.
type Provider func(ctx context.Context) (doc Document, ok bool)

// ScriptParser parses a free-standing code fragment into a throwaway
// document. The caller owns the returned document and must close it.
type ScriptParser interface {
	ParseScript(ctx context.Context, src string) (Document, error)
}
