package store

import (
	"database/sql"
	"time"

	"gitlab.com/tozd/go/errors"
)

// UpsertMarker inserts or replaces the marker for m.Identity. A zero
// UpdatedAt is set to the current time.
func (s *Store) UpsertMarker(m *Marker) error {
	return upsertMarkerTx(s.db, m)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertMarkerTx(ex execer, m *Marker) error {
	if m.Identity == "" {
		return errors.New("upsert marker: empty identity")
	}
	if m.Source == "" {
		m.Source = SourceManual
	}
	if m.UpdatedAt.IsZero() {
		m.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	}
	_, err := ex.Exec(`INSERT INTO markers (identity, name, kind, style, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(identity) DO UPDATE SET
		  name = excluded.name,
		  kind = excluded.kind,
		  style = excluded.style,
		  source = excluded.source,
		  updated_at = excluded.updated_at`,
		m.Identity, m.Name, m.Kind, m.Style, m.Source, m.UpdatedAt)
	if err != nil {
		return errors.Errorf("upsert marker %s: %w", m.Identity, err)
	}
	return nil
}

// DeleteMarker removes the marker for identity and reports whether one
// existed.
func (s *Store) DeleteMarker(identity string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM markers WHERE identity = ?", identity)
	if err != nil {
		return false, errors.Errorf("delete marker %s: %w", identity, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Errorf("delete marker %s: %w", identity, err)
	}
	return n > 0, nil
}

// DeleteMarkersBySource removes every marker recorded under source and
// returns how many were removed.
func (s *Store) DeleteMarkersBySource(source string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM markers WHERE source = ?", source)
	if err != nil {
		return 0, errors.Errorf("delete markers by source %q: %w", source, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Errorf("delete markers by source %q: %w", source, err)
	}
	return n, nil
}

// MarkerByIdentity returns the marker for identity, or nil if none.
func (s *Store) MarkerByIdentity(identity string) (*Marker, error) {
	row := s.db.QueryRow(`SELECT identity, name, kind, style, source, updated_at
		FROM markers WHERE identity = ?`, identity)
	m, err := scanMarker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Errorf("marker %s: %w", identity, err)
	}
	return m, nil
}

// Markers returns every marker ordered by name then identity.
func (s *Store) Markers() ([]*Marker, error) {
	return s.queryMarkers(`SELECT identity, name, kind, style, source, updated_at
		FROM markers ORDER BY name, identity`)
}

// MarkersBySource returns markers recorded under source.
func (s *Store) MarkersBySource(source string) ([]*Marker, error) {
	return s.queryMarkers(`SELECT identity, name, kind, style, source, updated_at
		FROM markers WHERE source = ? ORDER BY name, identity`, source)
}

// MarkersByIdentities returns the markers among identities that exist.
func (s *Store) MarkersByIdentities(identities []string) ([]*Marker, error) {
	if len(identities) == 0 {
		return nil, nil
	}
	return s.queryMarkers(`SELECT identity, name, kind, style, source, updated_at
		FROM markers WHERE identity IN (`+placeholderList(len(identities))+`)
		ORDER BY name, identity`, stringsToArgs(identities)...)
}

func (s *Store) queryMarkers(q string, args ...any) ([]*Marker, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, errors.Errorf("query markers: %w", err)
	}
	defer rows.Close()

	var out []*Marker
	for rows.Next() {
		m, err := scanMarker(rows)
		if err != nil {
			return nil, errors.Errorf("scan marker: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMarker(sc scanner) (*Marker, error) {
	var m Marker
	if err := sc.Scan(&m.Identity, &m.Name, &m.Kind, &m.Style, &m.Source, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// SetMeta stores a metadata value.
func (s *Store) SetMeta(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.Errorf("set meta %s: %w", key, err)
	}
	return nil
}

// GetMeta returns a metadata value and whether it was set.
func (s *Store) GetMeta(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Errorf("get meta %s: %w", key, err)
	}
	return v, true, nil
}
