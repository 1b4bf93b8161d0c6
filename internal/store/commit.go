package store

import "gitlab.com/tozd/go/errors"

// CommitBatch applies all buffered writes of a BatchedStore within a single
// transaction. When replaceSource is non-empty, markers previously recorded
// under that source are dropped first, so re-running a rule yields exactly
// the rule's current output.
func (s *Store) CommitBatch(batch *BatchedStore, replaceSource string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	if replaceSource != "" {
		if _, err := tx.Exec("DELETE FROM markers WHERE source = ?", replaceSource); err != nil {
			return errors.Errorf("commit batch: clear source %q: %w", replaceSource, err)
		}
	}

	upserts, deletes := batch.Pending()
	for i := range upserts {
		if err := upsertMarkerTx(tx, &upserts[i]); err != nil {
			return errors.Errorf("commit batch: %w", err)
		}
	}
	for _, id := range deletes {
		if _, err := tx.Exec("DELETE FROM markers WHERE identity = ?", id); err != nil {
			return errors.Errorf("commit batch: delete %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("commit batch: %w", err)
	}
	return nil
}
