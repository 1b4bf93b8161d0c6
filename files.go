package tincture

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/csharp"
	"github.com/jward/tincture/internal/syntax"
)

// File is a source opened as a buffer: the parsed document and the
// classifier registered for it. The document stays valid until the buffer
// is closed.
type File struct {
	Path       string
	Source     []byte
	Doc        *csharp.Document
	Classifier *classify.Classifier
}

// Classify classifies rng of the file.
func (f *File) Classify(ctx context.Context, rng Range) []Span {
	return f.Classifier.Classify(ctx, rng)
}

// ClassifyAll classifies the whole file.
func (f *File) ClassifyAll(ctx context.Context) []Span {
	return f.Classifier.Classify(ctx, syntax.NewSpan(0, len(f.Source)))
}

// OpenSource parses src and opens it as buffer id, replacing any classifier
// the buffer had. The buffer owns the document and closes it on
// Buffers.Close.
func (e *Engine) OpenSource(ctx context.Context, id string, src []byte) (*File, error) {
	doc, err := csharp.Parse(ctx, src)
	if err != nil {
		return nil, errors.Errorf("tincture: open %s: %w", id, err)
	}
	if doc.HasErrors() {
		zerolog.Ctx(ctx).Debug().Str("buffer", id).Msg("source has syntax errors")
	}
	provider := func(context.Context) (syntax.Document, bool) { return doc, true }
	c := e.buffers.replace(id, provider, doc.Close)
	return &File{Path: id, Source: src, Doc: doc, Classifier: c}, nil
}

// OpenFile reads path from the Engine's filesystem and opens it as the
// buffer of the same name.
func (e *Engine) OpenFile(ctx context.Context, path string) (*File, error) {
	src, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, errors.Errorf("tincture: read %s: %w", path, err)
	}
	return e.OpenSource(ctx, path, src)
}

// OpenFiles opens paths in parallel, one parse per worker, and returns the
// files that opened in input order. Failures do not stop the other files;
// they are combined into the returned error.
func (e *Engine) OpenFiles(ctx context.Context, paths []string) ([]*File, error) {
	files := make([]*File, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(runtime.NumCPU(), len(paths))))
	for i, path := range paths {
		g.Go(func() error {
			f, err := e.OpenFile(gctx, path)
			files[i], errs[i] = f, err
			// Collected below; a bad file never cancels the group.
			return nil
		})
	}
	_ = g.Wait()

	out := files[:0]
	for _, f := range files {
		if f != nil {
			out = append(out, f)
		}
	}
	return out, multierr.Combine(errs...)
}

// Symbols returns the declared symbols of files, in file order.
func Symbols(files []*File) []*syntax.Symbol {
	var out []*syntax.Symbol
	for _, f := range files {
		out = append(out, f.Doc.Symbols()...)
	}
	return out
}
