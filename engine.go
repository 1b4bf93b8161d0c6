package tincture

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"

	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/config"
	"github.com/jward/tincture/internal/csharp"
	"github.com/jward/tincture/internal/marker"
	"github.com/jward/tincture/internal/markrules"
	"github.com/jward/tincture/internal/metrics"
	"github.com/jward/tincture/internal/store"
	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// ErrNoStore is returned by marker operations that need the database when
// the Engine was created without WithDatabase.
var ErrNoStore = errors.New("tincture: no marker database")

// Engine owns the process-wide state shared by every buffer: the marker
// registry, the configuration snapshot, metrics and the optional marker
// database.
type Engine struct {
	markers *marker.Registry
	config  *config.Source
	flags   classify.FlagSource
	labels  classify.LabelSource
	metrics *metrics.Metrics
	scripts syntax.ScriptParser
	fs      afero.Fs

	dbPath string
	store  *store.Store

	buffers *Buffers

	mu      sync.Mutex
	watcher *config.Watcher
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarkers shares an existing marker registry instead of creating one.
func WithMarkers(r *marker.Registry) Option {
	return func(e *Engine) {
		e.markers = r
	}
}

// WithFlags overrides the flag source. By default flags come from the
// configuration source.
func WithFlags(f classify.FlagSource) Option {
	return func(e *Engine) {
		e.flags = f
	}
}

// WithLabels overrides the comment label source. By default labels come
// from the configuration source.
func WithLabels(l classify.LabelSource) Option {
	return func(e *Engine) {
		e.labels = l
	}
}

// WithConfigSource sets the configuration snapshot source. Without it the
// Engine serves the default configuration.
func WithConfigSource(src *config.Source) Option {
	return func(e *Engine) {
		e.config = src
	}
}

// WithMetrics records classification calls, open buffers and pinned
// markers.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithDatabase persists markers in the SQLite database at path. Pinned
// markers are loaded into the registry when the Engine is created.
func WithDatabase(path string) Option {
	return func(e *Engine) {
		e.dbPath = path
	}
}

// WithFs sets the filesystem OpenFile reads sources from.
func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// WithScriptParser sets the parser used for documentation code samples.
func WithScriptParser(p syntax.ScriptParser) Option {
	return func(e *Engine) {
		e.scripts = p
	}
}

// New creates an Engine.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.markers == nil {
		e.markers = marker.NewRegistry()
	}
	if e.config == nil {
		e.config = config.NewSource(nil)
	}
	if e.flags == nil {
		e.flags = e.config
	}
	if e.labels == nil {
		e.labels = e.config
	}
	if e.scripts == nil {
		e.scripts = csharp.Parser{}
	}
	if e.fs == nil {
		e.fs = afero.NewOsFs()
	}
	e.buffers = newBuffers(e.newClassifier, e.metrics)

	if e.dbPath != "" {
		s, err := store.NewStore(e.dbPath)
		if err != nil {
			return nil, errors.Errorf("tincture: create store: %w", err)
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, errors.Errorf("tincture: migrate: %w", err)
		}
		e.store = s
		if _, err := e.LoadMarkers(); err != nil {
			s.Close()
			return nil, err
		}
	}
	e.metrics.SetPinnedMarkers(e.markers.Len())
	return e, nil
}

func (e *Engine) newClassifier(provider syntax.Provider) *classify.Classifier {
	opts := []classify.Option{
		classify.WithScriptParser(e.scripts),
		classify.WithMarkers(e.markers),
		classify.WithFlags(e.flags),
		classify.WithLabels(e.labels),
	}
	if e.metrics != nil {
		opts = append(opts, classify.WithObserver(e.metrics))
	}
	return classify.New(provider, opts...)
}

// Close stops the configuration watcher, closes every buffer and releases
// the marker database.
func (e *Engine) Close() error {
	e.mu.Lock()
	w := e.watcher
	e.watcher = nil
	e.mu.Unlock()

	var err error
	if w != nil {
		err = multierr.Append(err, w.Close())
	}
	e.buffers.closeAll()
	if e.store != nil {
		err = multierr.Append(err, e.store.Close())
	}
	return err
}

// Buffers returns the per-buffer classifier registry.
func (e *Engine) Buffers() *Buffers { return e.buffers }

// Markers returns the marker registry consulted by every classifier.
func (e *Engine) Markers() *marker.Registry { return e.markers }

// Config returns the configuration source.
func (e *Engine) Config() *config.Source { return e.config }

// Store returns the marker database, or nil without WithDatabase.
func (e *Engine) Store() *store.Store { return e.store }

// WatchConfig reloads the configuration file at path into the Engine's
// source whenever it changes, until Close.
func (e *Engine) WatchConfig(ctx context.Context, path string) error {
	w, err := config.Watch(ctx, path, e.config, config.WithReloadHook(func(*config.Config) {
		e.metrics.ConfigReloaded()
	}))
	if err != nil {
		return err
	}

	e.mu.Lock()
	old := e.watcher
	e.watcher = w
	e.mu.Unlock()
	if old != nil {
		return old.Close()
	}
	return nil
}

// PinMarker pins sym to a marker tag. The pin takes effect on the next
// classification call of every buffer and is persisted when the Engine has
// a database.
func (e *Engine) PinMarker(sym *syntax.Symbol, tag style.Tag) error {
	if sym == nil {
		return errors.New("tincture: pin marker: no symbol")
	}
	if !tag.IsMarker() {
		return errors.Errorf("tincture: pin marker: %s is not a marker style", tag)
	}
	if e.store != nil {
		if err := e.store.UpsertMarker(markrules.NewMarker(sym, tag, store.SourceManual)); err != nil {
			return errors.Errorf("tincture: pin marker: %w", err)
		}
	}
	e.markers.Set(sym.ID, tag)
	e.metrics.SetPinnedMarkers(e.markers.Len())
	return nil
}

// UnpinMarker removes the pin of id and reports whether one existed.
func (e *Engine) UnpinMarker(id syntax.Identity) (bool, error) {
	found := e.markers.Delete(id)
	if e.store != nil {
		stored, err := e.store.DeleteMarker(id.String())
		if err != nil {
			return found, errors.Errorf("tincture: unpin marker: %w", err)
		}
		found = found || stored
	}
	e.metrics.SetPinnedMarkers(e.markers.Len())
	return found, nil
}

// LoadMarkers replaces the registry contents with the markers stored in
// the database and returns how many were loaded. Rows with an unreadable
// identity or an unknown style are skipped.
func (e *Engine) LoadMarkers() (int, error) {
	if e.store == nil {
		return 0, ErrNoStore
	}
	rows, err := e.store.Markers()
	if err != nil {
		return 0, errors.Errorf("tincture: load markers: %w", err)
	}
	entries := make([]marker.Entry, 0, len(rows))
	for _, m := range rows {
		id, err := syntax.ParseIdentity(m.Identity)
		if err != nil {
			continue
		}
		tag, ok := style.Resolve(m.Style)
		if !ok || !tag.IsMarker() {
			continue
		}
		entries = append(entries, marker.Entry{ID: id, Tag: tag})
	}
	e.markers.Replace(entries)
	e.metrics.SetPinnedMarkers(len(entries))
	return len(entries), nil
}

// StoredMarkers lists the persisted markers.
func (e *Engine) StoredMarkers() ([]*store.Marker, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.Markers()
}

// StoredMarkersBySource lists the persisted markers recorded under source,
// e.g. store.SourceManual or "rules".
func (e *Engine) StoredMarkersBySource(source string) ([]*store.Marker, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.MarkersBySource(source)
}

// StoredMarkersFor lists the persisted markers of syms.
func (e *Engine) StoredMarkersFor(syms []*syntax.Symbol) ([]*store.Marker, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	ids := make([]string, 0, len(syms))
	for _, sym := range syms {
		ids = append(ids, sym.ID.String())
	}
	return e.store.MarkersByIdentities(ids)
}

// ClearMarkers deletes every marker recorded under source, reloads the
// registry and returns how many rows were removed.
func (e *Engine) ClearMarkers(source string) (int64, error) {
	if e.store == nil {
		return 0, ErrNoStore
	}
	n, err := e.store.DeleteMarkersBySource(source)
	if err != nil {
		return 0, errors.Errorf("tincture: clear markers: %w", err)
	}
	_, err = e.LoadMarkers()
	return n, err
}

// ApplyRules runs the configured glob rules over syms, commits the result
// and reloads the registry.
func (e *Engine) ApplyRules(ctx context.Context, syms []*syntax.Symbol) (markrules.Result, error) {
	if e.store == nil {
		return markrules.Result{}, ErrNoStore
	}
	res, err := markrules.ApplyRules(ctx, e.store, e.config.Config().Markers.Rules, syms)
	if err != nil {
		return res, err
	}
	_, err = e.LoadMarkers()
	return res, err
}

// ApplyScript runs the Risor marker script at path over syms, commits the
// result and reloads the registry.
func (e *Engine) ApplyScript(ctx context.Context, path string, syms []*syntax.Symbol) (markrules.Result, error) {
	if e.store == nil {
		return markrules.Result{}, ErrNoStore
	}
	rt := markrules.NewRuntime("",
		markrules.WithFiles(e.fs),
		markrules.WithLogger(*zerolog.Ctx(ctx)),
	)
	res, err := markrules.ApplyScript(ctx, e.store, rt, path, syms)
	if err != nil {
		return res, err
	}
	_, err = e.LoadMarkers()
	return res, err
}
