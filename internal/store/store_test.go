package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

// insertTestMarker upserts a marker with minimal required fields.
func insertTestMarker(t *testing.T, s *Store, identity, name, style string) *Marker {
	t.Helper()
	m := &Marker{
		Identity:  identity,
		Name:      name,
		Kind:      "method",
		Style:     style,
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, s.UpsertMarker(m))
	return m
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"markers", "metadata"} {
		var name string
		err := s.DB().QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "table %s", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.Migrate())
	v, ok, err := s.GetMeta(MetaSchemaVersion)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, schemaVersion, v)
}

func TestNewStore_BadPath(t *testing.T) {
	t.Parallel()
	_, err := NewStore(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
}

// =============================================================================
// Markers
// =============================================================================

func TestUpsertMarker_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	want := insertTestMarker(t, s, "00000000000000aa", "App.Run", "marker.symbol.1")
	assert.Equal(t, SourceManual, want.Source)

	got, err := s.MarkerByIdentity("00000000000000aa")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Style, got.Style)
	assert.Equal(t, SourceManual, got.Source)
	assert.True(t, want.UpdatedAt.Equal(got.UpdatedAt))
}

func TestUpsertMarker_Replaces(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestMarker(t, s, "01", "App.Run", "marker.symbol.1")
	insertTestMarker(t, s, "01", "App.Run", "marker.symbol.3")

	all, err := s.Markers()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "marker.symbol.3", all[0].Style)
}

func TestUpsertMarker_EmptyIdentity(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	assert.Error(t, s.UpsertMarker(&Marker{Name: "x"}))
}

func TestUpsertMarker_DefaultsTimestamp(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	m := &Marker{Identity: "02", Name: "A", Kind: "field", Style: "marker.symbol"}
	require.NoError(t, s.UpsertMarker(m))
	assert.False(t, m.UpdatedAt.IsZero())
}

func TestMarkerByIdentity_Missing(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.MarkerByIdentity("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteMarker(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestMarker(t, s, "03", "A", "marker.symbol")
	ok, err := s.DeleteMarker("03")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.DeleteMarker("03")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMarkers_OrderedByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestMarker(t, s, "10", "Zeta", "marker.symbol")
	insertTestMarker(t, s, "11", "Alpha", "marker.symbol")

	all, err := s.Markers()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Zeta", all[1].Name)
}

func TestMarkersBySourceAndDelete(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestMarker(t, s, "20", "A", "marker.symbol")
	require.NoError(t, s.UpsertMarker(&Marker{Identity: "21", Name: "B", Kind: "field", Style: "marker.symbol.2", Source: "rule:*Async"}))
	require.NoError(t, s.UpsertMarker(&Marker{Identity: "22", Name: "C", Kind: "field", Style: "marker.symbol.2", Source: "rule:*Async"}))

	ruled, err := s.MarkersBySource("rule:*Async")
	require.NoError(t, err)
	assert.Len(t, ruled, 2)

	n, err := s.DeleteMarkersBySource("rule:*Async")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := s.Markers()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "20", all[0].Identity)
}

func TestMarkersByIdentities(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	insertTestMarker(t, s, "30", "A", "marker.symbol")
	insertTestMarker(t, s, "31", "B", "marker.symbol")

	got, err := s.MarkersByIdentities([]string{"31", "99"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "31", got[0].Identity)

	got, err = s.MarkersByIdentities(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

// =============================================================================
// Metadata
// =============================================================================

func TestMeta(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	_, ok, err := s.GetMeta(MetaRulesHash)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetMeta(MetaRulesHash, "abc"))
	require.NoError(t, s.SetMeta(MetaRulesHash, "def"))
	v, ok, err := s.GetMeta(MetaRulesHash)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "def", v)
}

func TestComputeRulesHash(t *testing.T) {
	t.Parallel()

	a := ComputeRulesHash(map[string]string{"x": "1", "y": "2"})
	b := ComputeRulesHash(map[string]string{"y": "2", "x": "1"})
	c := ComputeRulesHash(map[string]string{"x": "1", "y": "3"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
