// Package marker holds the process-wide table of symbols the user pinned to
// a marker style.
package marker

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/jward/tincture/internal/style"
	"github.com/jward/tincture/internal/syntax"
)

// Entry is one pinned symbol.
type Entry struct {
	ID  syntax.Identity
	Tag style.Tag
}

// Registry maps symbol identities to marker tags. Reads never block and
// never observe a partial write; writers are serialized and publish a
// fresh map with an atomic swap.
type Registry struct {
	mu  sync.Mutex
	cur atomic.Pointer[map[syntax.Identity]style.Tag]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := map[syntax.Identity]style.Tag{}
	r.cur.Store(&empty)
	return r
}

// Get returns the tag pinned for id.
func (r *Registry) Get(id syntax.Identity) (style.Tag, bool) {
	m := r.cur.Load()
	t, ok := (*m)[id]
	return t, ok
}

// Len returns the number of pinned symbols.
func (r *Registry) Len() int {
	return len(*r.cur.Load())
}

// Set pins id to tag, replacing any previous tag.
func (r *Registry) Set(id syntax.Identity, tag style.Tag) {
	r.update(func(m map[syntax.Identity]style.Tag) {
		m[id] = tag
	})
}

// Delete unpins id. It reports whether id was pinned.
func (r *Registry) Delete(id syntax.Identity) bool {
	var found bool
	r.update(func(m map[syntax.Identity]style.Tag) {
		_, found = m[id]
		delete(m, id)
	})
	return found
}

// Replace swaps in a new set of entries wholesale.
func (r *Registry) Replace(entries []Entry) {
	next := make(map[syntax.Identity]style.Tag, len(entries))
	for _, e := range entries {
		next[e.ID] = e.Tag
	}
	r.mu.Lock()
	r.cur.Store(&next)
	r.mu.Unlock()
}

// Snapshot returns all entries ordered by identity.
func (r *Registry) Snapshot() []Entry {
	m := r.cur.Load()
	out := make([]Entry, 0, len(*m))
	for id, tag := range *m {
		out = append(out, Entry{ID: id, Tag: tag})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Registry) update(fn func(map[syntax.Identity]style.Tag)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := *r.cur.Load()
	next := make(map[syntax.Identity]style.Tag, len(old)+1)
	for k, v := range old {
		next[k] = v
	}
	fn(next)
	r.cur.Store(&next)
}
