package sqlite

import (
	"fmt"
	"strconv"
	"time"

	"diagrammer/internal/ports"
)

// SyncStats reports what SyncFrom copied
type SyncStats struct {
	Copied    int
	Unchanged int
	Duration  time.Duration
}

// SyncFrom copies every snapshot saved in src into this store in a single
// transaction. Snapshots already identical here are left untouched. Used to
// move a data directory from the file driver to SQLite.
func (s *SnapshotStore) SyncFrom(src ports.SnapshotStore) (*SyncStats, error) {
	start := time.Now()
	stats := &SyncStats{}

	kinds, err := src.Kinds()
	if err != nil {
		return nil, fmt.Errorf("failed to list source snapshots: %w", err)
	}

	tx, err := s.beginTx()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for _, kind := range kinds {
		data, ok, err := src.Load(kind)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to read %s snapshot: %w", kind, err)
		}
		if !ok {
			continue
		}

		existing, err := tx.current(kind)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if existing == string(data) {
			stats.Unchanged++
			continue
		}

		if err := tx.put(kind, data, now); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to write %s snapshot: %w", kind, err)
		}
		stats.Copied++
	}

	if err := tx.setMeta("last_sync_time", strconv.FormatInt(now.Unix(), 10)); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

// LastSync returns when SyncFrom last committed, or the zero time
func (s *SnapshotStore) LastSync() time.Time {
	var value string
	if err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'last_sync_time'`).Scan(&value); err != nil {
		return time.Time{}
	}
	unix, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(unix, 0)
}
