package tincture

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/csharp"
	"github.com/jward/tincture/internal/metrics"
	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

const cartSource = `namespace Shop
{
    public class Cart
    {
        private int count;

        public void Add(int n)
        {
            count += n;
        }

        public void ClearAsync() { }
    }
}
`

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

func openCart(t *testing.T, e *Engine) *File {
	t.Helper()
	f, err := e.OpenSource(context.Background(), "Cart.cs", []byte(cartSource))
	require.NoError(t, err)
	return f
}

// spanOf returns the span of the nth (0-based) occurrence of text.
func spanOf(t *testing.T, src, text string, nth int) Range {
	t.Helper()
	off := 0
	for i := 0; ; i++ {
		k := strings.Index(src[off:], text)
		require.GreaterOrEqual(t, k, 0, "occurrence %d of %q not found", nth, text)
		if i == nth {
			return syntax.NewSpan(off+k, off+k+len(text))
		}
		off += k + len(text)
	}
}

func tagsAt(spans []Span, r Range) []Tag {
	var out []Tag
	for _, sp := range spans {
		if sp.Start == r.Start && sp.Length == r.Length {
			out = append(out, sp.Tag)
		}
	}
	return out
}

// =============================================================================
// Engine lifecycle
// =============================================================================

func TestNew_Defaults(t *testing.T) {
	e := newTestEngine(t)

	assert.NotNil(t, e.Markers())
	assert.NotNil(t, e.Config())
	assert.Nil(t, e.Store())
	assert.Equal(t, 0, e.Buffers().Len())
	assert.Equal(t, classify.DefaultFlags, e.Config().Flags())
}

func TestNew_InvalidDatabasePath(t *testing.T) {
	_, err := New(WithDatabase("/nonexistent/dir/db.sqlite"))
	require.Error(t, err)
}

func TestClose(t *testing.T) {
	e, err := New(WithDatabase(filepath.Join(t.TempDir(), "test.db")))
	require.NoError(t, err)
	openCart(t, e)
	require.NoError(t, e.Close())
	assert.Equal(t, 0, e.Buffers().Len())
}

func TestWithoutStore(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.LoadMarkers()
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = e.StoredMarkers()
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = e.ApplyRules(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoStore)
	_, err = e.ClearMarkers("rules")
	assert.ErrorIs(t, err, ErrNoStore)
}

// =============================================================================
// Buffers
// =============================================================================

func TestBuffers_OpenGetClose(t *testing.T) {
	e := newTestEngine(t)
	doc, err := csharp.Parse(context.Background(), []byte(cartSource))
	require.NoError(t, err)
	defer doc.Close()

	calls := 0
	provider := func(context.Context) (syntax.Document, bool) {
		calls++
		return doc, true
	}
	c := e.Buffers().Open("a.cs", provider)
	require.NotNil(t, c)

	got, ok := e.Buffers().Get("a.cs")
	require.True(t, ok)
	assert.Same(t, c, got)
	assert.Equal(t, []string{"a.cs"}, e.Buffers().IDs())

	spans := got.Classify(context.Background(), syntax.NewSpan(0, len(cartSource)))
	assert.NotEmpty(t, spans)
	assert.Equal(t, 1, calls)

	assert.True(t, e.Buffers().Close("a.cs"))
	assert.False(t, e.Buffers().Close("a.cs"))
	_, ok = e.Buffers().Get("a.cs")
	assert.False(t, ok)
}

func TestBuffers_OpenReturnsExisting(t *testing.T) {
	e := newTestEngine(t)
	doc, err := csharp.Parse(context.Background(), []byte(cartSource))
	require.NoError(t, err)
	defer doc.Close()

	firstCalls, secondCalls := 0, 0
	first := e.Buffers().Open("a.cs", func(context.Context) (syntax.Document, bool) {
		firstCalls++
		return doc, true
	})
	second := e.Buffers().Open("a.cs", func(context.Context) (syntax.Document, bool) {
		secondCalls++
		return doc, true
	})
	assert.Same(t, first, second)
	assert.Equal(t, 1, e.Buffers().Len())

	second.Classify(context.Background(), syntax.NewSpan(0, len(cartSource)))
	assert.Equal(t, 1, firstCalls)
	assert.Equal(t, 0, secondCalls)

	replaced := e.Buffers().Reopen("a.cs", func(context.Context) (syntax.Document, bool) {
		secondCalls++
		return doc, true
	})
	assert.NotSame(t, first, replaced)
	got, ok := e.Buffers().Get("a.cs")
	require.True(t, ok)
	assert.Same(t, replaced, got)
	replaced.Classify(context.Background(), syntax.NewSpan(0, len(cartSource)))
	assert.Equal(t, 1, secondCalls)
}

func TestBuffers_OpenSourceReplaces(t *testing.T) {
	e := newTestEngine(t)
	first := openCart(t, e)
	second := openCart(t, e)

	assert.Equal(t, 1, e.Buffers().Len())
	got, ok := e.Buffers().Get("Cart.cs")
	require.True(t, ok)
	assert.Same(t, second.Classifier, got)
	assert.NotSame(t, first.Classifier, got)
}

func TestBuffers_UnavailableDocument(t *testing.T) {
	e := newTestEngine(t)
	c := e.Buffers().Open("pending.cs", func(context.Context) (syntax.Document, bool) { return nil, false })
	assert.Empty(t, c.Classify(context.Background(), syntax.NewSpan(0, 10)))
}

func TestFlagsOverride(t *testing.T) {
	e := newTestEngine(t, WithFlags(classify.StaticFlags(0)))
	f := openCart(t, e)
	assert.Empty(t, f.ClassifyAll(context.Background()))
}

func TestConfigSourceFlags(t *testing.T) {
	cfg, err := config.Parse(`
[flags]
syntax-highlight = false
`)
	require.NoError(t, err)
	src := config.NewSource(nil)
	e := newTestEngine(t, WithConfigSource(src))
	f := openCart(t, e)
	require.NotEmpty(t, f.ClassifyAll(context.Background()))

	src.Update(cfg)
	assert.Empty(t, f.ClassifyAll(context.Background()))
}

// =============================================================================
// Files
// =============================================================================

func TestOpenFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/Cart.cs", []byte(cartSource), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/Empty.cs", []byte("class Empty { }\n"), 0o644))
	e := newTestEngine(t, WithFs(fs))

	files, err := e.OpenFiles(context.Background(), []string{"src/Cart.cs", "src/Missing.cs", "src/Empty.cs"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing.cs")
	require.Len(t, files, 2)
	assert.Equal(t, "src/Cart.cs", files[0].Path)
	assert.Equal(t, "src/Empty.cs", files[1].Path)
	assert.Equal(t, 2, e.Buffers().Len())

	var names []string
	for _, sym := range Symbols(files) {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "Cart")
	assert.Contains(t, names, "Empty")
}

func TestSymbolAtAndLocation(t *testing.T) {
	e := newTestEngine(t)
	f := openCart(t, e)

	ref := spanOf(t, cartSource, "count", 1)
	sym := f.SymbolAt(ref.Start)
	require.NotNil(t, sym)
	assert.Equal(t, "Shop.Cart.count", sym.QualifiedName())

	decl := f.SymbolAt(spanOf(t, cartSource, "count", 0).Start)
	require.NotNil(t, decl)
	assert.Equal(t, sym.ID, decl.ID)

	assert.Nil(t, f.SymbolAt(-1))
	assert.Nil(t, f.SymbolAt(len(cartSource)))

	loc := f.Location(ref)
	assert.Equal(t, Location{File: "Cart.cs", StartLine: 9, StartCol: 13, EndLine: 9, EndCol: 18}, loc)
}

// =============================================================================
// Markers
// =============================================================================

func TestPinMarker_AffectsEveryReference(t *testing.T) {
	e := newTestEngine(t)
	f := openCart(t, e)
	ctx := context.Background()

	sym := f.SymbolAt(spanOf(t, cartSource, "count", 0).Start)
	require.NotNil(t, sym)
	require.NoError(t, e.PinMarker(sym, style.Marker2))

	spans := f.ClassifyAll(ctx)
	assert.Contains(t, tagsAt(spans, spanOf(t, cartSource, "count", 0)), style.Marker2)
	assert.Contains(t, tagsAt(spans, spanOf(t, cartSource, "count", 1)), style.Marker2)

	found, err := e.UnpinMarker(sym.ID)
	require.NoError(t, err)
	assert.True(t, found)
	spans = f.ClassifyAll(ctx)
	assert.NotContains(t, tagsAt(spans, spanOf(t, cartSource, "count", 1)), style.Marker2)

	found, err = e.UnpinMarker(sym.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPinMarker_Rejects(t *testing.T) {
	e := newTestEngine(t)
	f := openCart(t, e)
	sym := f.SymbolAt(spanOf(t, cartSource, "Add", 0).Start)
	require.NotNil(t, sym)

	assert.Error(t, e.PinMarker(sym, style.Keyword))
	assert.Error(t, e.PinMarker(nil, style.Marker))
	assert.Equal(t, 0, e.Markers().Len())
}

func TestPinMarker_Persists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "markers.db")
	e, err := New(WithDatabase(dbPath))
	require.NoError(t, err)
	f := openCart(t, e)
	sym := f.SymbolAt(spanOf(t, cartSource, "Add", 0).Start)
	require.NotNil(t, sym)
	require.NoError(t, e.PinMarker(sym, style.Marker3))

	stored, err := e.StoredMarkers()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Shop.Cart.Add", stored[0].Name)
	assert.Equal(t, store.SourceManual, stored[0].Source)
	require.NoError(t, e.Close())

	reopened := newTestEngine(t, WithDatabase(dbPath))
	tag, ok := reopened.Markers().Get(sym.ID)
	require.True(t, ok)
	assert.Equal(t, style.Marker3, tag)
}

func TestLoadMarkers_SkipsBadRows(t *testing.T) {
	e := newTestEngine(t, WithDatabase(filepath.Join(t.TempDir(), "markers.db")))
	s := e.Store()
	require.NoError(t, s.UpsertMarker(&store.Marker{Identity: "00000000000000a1", Name: "A", Kind: "field", Style: "marker.symbol.1"}))
	require.NoError(t, s.UpsertMarker(&store.Marker{Identity: "not-hex", Name: "B", Kind: "field", Style: "marker.symbol.1"}))
	require.NoError(t, s.UpsertMarker(&store.Marker{Identity: "00000000000000a2", Name: "C", Kind: "field", Style: "keyword"}))

	n, err := e.LoadMarkers()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	tag, ok := e.Markers().Get(syntax.Identity(0xa1))
	require.True(t, ok)
	assert.Equal(t, style.Marker1, tag)
}

func TestApplyRules(t *testing.T) {
	cfg, err := config.Parse(`
[[markers.rules]]
pattern = "*Async"
kind = "method"
style = "marker.symbol.4"
`)
	require.NoError(t, err)
	e := newTestEngine(t,
		WithDatabase(filepath.Join(t.TempDir(), "markers.db")),
		WithConfigSource(config.NewSource(cfg)),
	)
	f := openCart(t, e)
	ctx := context.Background()

	res, err := e.ApplyRules(ctx, Symbols([]*File{f}))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pinned)
	assert.Equal(t, 1, e.Markers().Len())

	spans := f.ClassifyAll(ctx)
	assert.Contains(t, tagsAt(spans, spanOf(t, cartSource, "ClearAsync", 0)), style.Marker4)
}

func TestStoredMarkersFilters(t *testing.T) {
	cfg, err := config.Parse(`
[[markers.rules]]
pattern = "*Async"
style = "marker.symbol.1"
`)
	require.NoError(t, err)
	e := newTestEngine(t,
		WithDatabase(filepath.Join(t.TempDir(), "markers.db")),
		WithConfigSource(config.NewSource(cfg)),
	)
	f := openCart(t, e)
	ctx := context.Background()

	_, err = e.ApplyRules(ctx, Symbols([]*File{f}))
	require.NoError(t, err)
	add := f.SymbolAt(spanOf(t, cartSource, "Add", 0).Start)
	require.NoError(t, e.PinMarker(add, style.Marker2))

	manual, err := e.StoredMarkersBySource(store.SourceManual)
	require.NoError(t, err)
	require.Len(t, manual, 1)
	assert.Equal(t, "Shop.Cart.Add", manual[0].Name)

	forAdd, err := e.StoredMarkersFor([]*Symbol{add})
	require.NoError(t, err)
	require.Len(t, forAdd, 1)
	assert.Equal(t, add.ID.String(), forAdd[0].Identity)

	n, err := e.ClearMarkers("rules")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.Equal(t, 1, e.Markers().Len())
	_, ok := e.Markers().Get(add.ID)
	assert.True(t, ok)
}

func TestApplyScript(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "pin.risor", []byte(`
for _, s := range symbols("field") {
    mark(s, "marker.symbol.1")
}
`), 0o644))
	e := newTestEngine(t, WithFs(fs), WithDatabase(filepath.Join(t.TempDir(), "markers.db")))
	f := openCart(t, e)

	res, err := e.ApplyScript(context.Background(), "pin.risor", Symbols([]*File{f}))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pinned)
	assert.Equal(t, "script:pin.risor", res.Source)

	sym := f.SymbolAt(spanOf(t, cartSource, "count", 0).Start)
	tag, ok := e.Markers().Get(sym.ID)
	require.True(t, ok)
	assert.Equal(t, style.Marker1, tag)
}

// =============================================================================
// Metrics
// =============================================================================

func TestMetricsWired(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	e := newTestEngine(t, WithMetrics(m))
	f := openCart(t, e)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OpenBuffers))

	spans := f.ClassifyAll(context.Background())
	assert.Equal(t, float64(len(spans)), testutil.ToFloat64(m.SpansTotal))

	sym := f.SymbolAt(spanOf(t, cartSource, "Add", 0).Start)
	require.NoError(t, e.PinMarker(sym, style.Marker))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PinnedMarkers))

	e.Buffers().Close("Cart.cs")
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OpenBuffers))
}
