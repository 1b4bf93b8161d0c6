// Package classify assigns semantic style tags to spans of C# source.
//
// A Classifier refines the base lexical stream of a document: identifiers
// get roles from the semantic model, keywords get structural categories,
// braces and parentheses take on the construct they delimit, and
// documentation code samples are classified as code. Every call is
// synchronous and works on one immutable document snapshot.
package classify

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// Span is one classified range of the buffer.
type Span struct {
	Start  int       `json:"start"`
	Length int       `json:"length"`
	Tag    style.Tag `json:"tag"`
}

// End returns the offset just past the span.
func (s Span) End() int { return s.Start + s.Length }

// MarkerSource looks up the marker tag pinned to a symbol.
type MarkerSource interface {
	Get(id syntax.Identity) (style.Tag, bool)
}

type noMarkers struct{}

func (noMarkers) Get(syntax.Identity) (style.Tag, bool) { return 0, false }

// Observer is told about every finished call.
type Observer interface {
	Observe(elapsed time.Duration, spans int, available bool)
}

type noObserver struct{}

func (noObserver) Observe(time.Duration, int, bool) {}

// Classifier classifies ranges of one buffer.
type Classifier struct {
	provider syntax.Provider
	scripts  syntax.ScriptParser
	markers  MarkerSource
	flags    FlagSource
	labels   LabelSource
	observer Observer
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithScriptParser sets the parser used for documentation code samples.
// Without one, samples keep their cdata tag.
func WithScriptParser(p syntax.ScriptParser) Option {
	return func(c *Classifier) { c.scripts = p }
}

// WithMarkers sets the registry of pinned marker tags.
func WithMarkers(m MarkerSource) Option {
	return func(c *Classifier) {
		if m != nil {
			c.markers = m
		}
	}
}

// WithFlags sets the flag source read at the start of every call.
func WithFlags(f FlagSource) Option {
	return func(c *Classifier) {
		if f != nil {
			c.flags = f
		}
	}
}

// WithLabels sets the source of special comment labels.
func WithLabels(l LabelSource) Option {
	return func(c *Classifier) {
		if l != nil {
			c.labels = l
		}
	}
}

// WithObserver sets the observer notified after every call.
func WithObserver(o Observer) Option {
	return func(c *Classifier) {
		if o != nil {
			c.observer = o
		}
	}
}

// New creates a Classifier reading documents from provider.
func New(provider syntax.Provider, opts ...Option) *Classifier {
	c := &Classifier{
		provider: provider,
		markers:  noMarkers{},
		flags:    StaticFlags(DefaultFlags),
		labels:   staticLabels{set: DefaultLabels()},
		observer: noObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the tagged spans for rng in emission order. It never
// fails: a missing document or an unresolvable symbol yields fewer spans.
// ctx only carries the logger.
func (c *Classifier) Classify(ctx context.Context, rng syntax.Span) []Span {
	start := time.Now()
	flags := c.flags.Flags()
	if !flags.Has(SyntaxHighlight) {
		return nil
	}
	var doc syntax.Document
	ok := false
	if c.provider != nil {
		doc, ok = c.provider(ctx)
	}
	if !ok || doc == nil || doc.Tree() == nil || doc.Model() == nil {
		zerolog.Ctx(ctx).Debug().Str("range", rng.String()).Msg("classify: document not available")
		c.observer.Observe(time.Since(start), 0, false)
		return nil
	}

	r := &run{
		c:      c,
		ctx:    ctx,
		flags:  flags,
		labels: c.labels.Labels(),
		tree:   doc.Tree(),
		model:  doc.Model(),
		limit:  doc.Tree().Len(),
	}
	r.attributeNotation(rng)
	for _, ls := range doc.LexicalSpans(rng) {
		r.route(ls)
	}
	c.observer.Observe(time.Since(start), len(r.out), true)
	return r.out
}

// run is the state of one Classify call.
type run struct {
	c      *Classifier
	ctx    context.Context
	flags  Flags
	labels *LabelSet
	tree   syntax.Tree
	model  syntax.SemanticModel
	limit  int
	out    []Span

	// lastDoc is the documentation block already tagged as xml doc.
	lastDoc syntax.Span
}

func (r *run) add(span syntax.Span, tag style.Tag) {
	if span.Length <= 0 || span.Start < 0 || span.End() > r.limit || !tag.Valid() {
		return
	}
	r.out = append(r.out, Span{Start: span.Start, Length: span.Length, Tag: tag})
}

// identifierClasses are the base classes routed through symbol roles.
var identifierClasses = map[string]bool{
	syntax.ClassIdentifier:    true,
	syntax.ClassClassName:     true,
	syntax.ClassInterfaceName: true,
	syntax.ClassStructName:    true,
	syntax.ClassEnumName:      true,
	syntax.ClassDelegateName:  true,
	syntax.ClassTypeParamName: true,
}

func (r *run) route(ls syntax.LexicalSpan) {
	switch {
	case ls.Class == syntax.ClassKeyword:
		if n := r.tree.FindNode(ls.Span, true); n != nil {
			if tag, ok := keywordTag(n, r.tree.Text(ls.Span)); ok {
				r.add(ls.Span, tag)
			}
		}
	case ls.Class == syntax.ClassPunctuation:
		if ls.Span.Length == 1 {
			r.punctuation(ls.Span)
		}
	case identifierClasses[ls.Class]:
		if n := r.tree.FindNode(ls.Span, false); n != nil {
			r.roles(r.model, n, ls.Span)
		}
	case ls.Class == syntax.ClassXmlDelimiter:
		r.xmlDoc(ls.Span)
	case ls.Class == syntax.ClassXmlCData:
		if r.flags.Has(XmlDocCode) {
			r.docCode(ls.Span)
		}
	case ls.Class == syntax.ClassComment:
		if r.flags.Has(SpecialComment) {
			if tag, ok := r.labels.Match(r.tree.Text(ls.Span)); ok {
				r.add(ls.Span, tag)
			}
		}
	}
}

// attributeNotation tags a range that lies inside an attribute list.
func (r *run) attributeNotation(rng syntax.Span) {
	text := r.tree.Text(rng)
	lead := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
	trail := len(text) - len(strings.TrimRightFunc(text, unicode.IsSpace))
	if lead+trail >= len(text) {
		return
	}
	inner := syntax.NewSpan(rng.Start+lead, rng.End()-trail)
	n := r.tree.FindNode(inner, false)
	if n == nil {
		return
	}
	if k := n.Kind(); k != syntax.AttributeList && k != syntax.AttributeArgumentList {
		return
	}
	if n.LeadingTrivia().Contains(inner) {
		return
	}
	ns := n.Span()
	start, end := max(rng.Start, ns.Start), min(rng.End(), ns.End())
	r.add(syntax.NewSpan(start, end), style.AttributeNotation)
}

// xmlDoc tags a documentation comment block once, on its first delimiter.
func (r *run) xmlDoc(span syntax.Span) {
	if !r.lastDoc.IsEmpty() && r.lastDoc.Contains(span) {
		return
	}
	block, ok := r.tree.DocCommentAt(span.Start)
	if !ok {
		return
	}
	r.lastDoc = block
	r.add(block, style.XmlDoc)
}

// docCode classifies a code sample embedded in a documentation comment in
// a throwaway document and shifts the result back into the buffer.
func (r *run) docCode(span syntax.Span) {
	if r.c.scripts == nil {
		r.add(span, style.XmlDocCData)
		return
	}
	doc, err := r.c.scripts.ParseScript(r.ctx, r.tree.Text(span))
	if err != nil {
		zerolog.Ctx(r.ctx).Debug().Err(err).Str("span", span.String()).Msg("classify: doc code left as cdata")
		r.add(span, style.XmlDocCData)
		return
	}
	defer doc.Close()

	tree, model := doc.Tree(), doc.Model()
	whole := syntax.NewSpan(0, tree.Len())
	for _, ls := range doc.LexicalSpans(whole) {
		at := ls.Span.Shift(span.Start)
		if identifierClasses[ls.Class] {
			if ls.Class != syntax.ClassIdentifier {
				r.addClass(at, ls.Class)
			}
			if n := tree.FindNode(ls.Span, false); n != nil {
				r.roles(model, n, at)
			}
			continue
		}
		r.addClass(at, ls.Class)
	}
}

func (r *run) addClass(span syntax.Span, class string) {
	if tag, ok := style.Resolve(class); ok {
		r.add(span, tag)
	}
}
