package store

// MarkerWriter is the write surface used by marker rules. Both Store
// (direct SQLite) and BatchedStore (in-memory buffering committed in one
// transaction) implement it.
type MarkerWriter interface {
	UpsertMarker(m *Marker) error
	DeleteMarker(identity string) (bool, error)
}

// Compile-time checks.
var (
	_ MarkerWriter = (*Store)(nil)
	_ MarkerWriter = (*BatchedStore)(nil)
)
