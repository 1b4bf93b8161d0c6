package store

import "sync"

// BatchedStore buffers marker writes in memory so a rule run can be
// committed, or discarded, as a unit.
//
// Thread safety: the mutex protects the pending maps. Nothing touches the
// database until Store.CommitBatch.
type BatchedStore struct {
	mu      sync.Mutex
	upserts map[string]Marker
	deletes map[string]bool
	order   []string // identities in first-write order
}

// NewBatchedStore creates an empty batch.
func NewBatchedStore() *BatchedStore {
	return &BatchedStore{
		upserts: make(map[string]Marker),
		deletes: make(map[string]bool),
	}
}

func (b *BatchedStore) touch(identity string) {
	if _, ok := b.upserts[identity]; ok {
		return
	}
	if b.deletes[identity] {
		return
	}
	b.order = append(b.order, identity)
}

// UpsertMarker records a pending upsert. A later delete of the same
// identity cancels it.
func (b *BatchedStore) UpsertMarker(m *Marker) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch(m.Identity)
	delete(b.deletes, m.Identity)
	b.upserts[m.Identity] = *m
	return nil
}

// DeleteMarker records a pending delete. The boolean reports whether the
// batch itself held an upsert for identity.
func (b *BatchedStore) DeleteMarker(identity string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.touch(identity)
	_, had := b.upserts[identity]
	delete(b.upserts, identity)
	b.deletes[identity] = true
	return had, nil
}

// Pending returns the buffered upserts in first-write order and the
// buffered deletes.
func (b *BatchedStore) Pending() (upserts []Marker, deletes []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range b.order {
		if m, ok := b.upserts[id]; ok {
			upserts = append(upserts, m)
		} else if b.deletes[id] {
			deletes = append(deletes, id)
		}
	}
	return upserts, deletes
}

// Len returns the number of pending operations.
func (b *BatchedStore) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.upserts) + len(b.deletes)
}
