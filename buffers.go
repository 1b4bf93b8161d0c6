package tincture

import (
	"sort"
	"sync"

	"github.com/jward/tincture/internal/classify"
	"github.com/jward/tincture/internal/metrics"
	"github.com/jward/tincture/internal/syntax"
)

// Buffers is the registry of per-buffer classifiers. A buffer gets its
// classifier on the first Open and keeps it until Close.
type Buffers struct {
	build   func(syntax.Provider) *classify.Classifier
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[string]*buffer
}

type buffer struct {
	classifier *classify.Classifier
	// release frees resources owned by the buffer, such as a parsed
	// document. May be nil.
	release func()
}

func newBuffers(build func(syntax.Provider) *classify.Classifier, m *metrics.Metrics) *Buffers {
	return &Buffers{
		build:   build,
		metrics: m,
		entries: make(map[string]*buffer),
	}
}

// Open returns the classifier of buffer id, creating it on first use with
// documents read from provider. Later calls return the same classifier and
// ignore provider.
func (b *Buffers) Open(id string, provider syntax.Provider) *classify.Classifier {
	b.mu.Lock()
	if e, ok := b.entries[id]; ok {
		b.mu.Unlock()
		return e.classifier
	}
	c := b.build(provider)
	b.entries[id] = &buffer{classifier: c}
	n := len(b.entries)
	b.mu.Unlock()

	b.metrics.SetOpenBuffers(n)
	return c
}

// Reopen replaces the classifier of buffer id with one reading from
// provider, tearing down the previous one.
func (b *Buffers) Reopen(id string, provider syntax.Provider) *classify.Classifier {
	return b.replace(id, provider, nil)
}

func (b *Buffers) replace(id string, provider syntax.Provider, release func()) *classify.Classifier {
	c := b.build(provider)

	b.mu.Lock()
	old := b.entries[id]
	b.entries[id] = &buffer{classifier: c, release: release}
	n := len(b.entries)
	b.mu.Unlock()

	if old != nil && old.release != nil {
		old.release()
	}
	b.metrics.SetOpenBuffers(n)
	return c
}

// Get returns the classifier of buffer id.
func (b *Buffers) Get(id string) (*classify.Classifier, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[id]
	if !ok {
		return nil, false
	}
	return e.classifier, true
}

// Close tears down buffer id and reports whether it was open.
func (b *Buffers) Close(id string) bool {
	b.mu.Lock()
	e, ok := b.entries[id]
	delete(b.entries, id)
	n := len(b.entries)
	b.mu.Unlock()

	if !ok {
		return false
	}
	if e.release != nil {
		e.release()
	}
	b.metrics.SetOpenBuffers(n)
	return true
}

// Len returns the number of open buffers.
func (b *Buffers) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// IDs returns the open buffer ids in sorted order.
func (b *Buffers) IDs() []string {
	b.mu.RLock()
	ids := make([]string, 0, len(b.entries))
	for id := range b.entries {
		ids = append(ids, id)
	}
	b.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

func (b *Buffers) closeAll() {
	b.mu.Lock()
	entries := b.entries
	b.entries = make(map[string]*buffer)
	b.mu.Unlock()

	for _, e := range entries {
		if e.release != nil {
			e.release()
		}
	}
	b.metrics.SetOpenBuffers(0)
}
