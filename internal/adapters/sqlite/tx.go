package sqlite

import (
	"database/sql"
	"time"

	"diagrammer/internal/domain"
)

// snapshotTx groups snapshot writes and their meta bookkeeping
type snapshotTx struct {
	tx *sql.Tx
}

func (s *SnapshotStore) beginTx() (*snapshotTx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &snapshotTx{tx: tx}, nil
}

// put inserts or replaces the snapshot for kind
func (t *snapshotTx) put(kind domain.DiagramKind, data []byte, at time.Time) error {
	_, err := t.tx.Exec(`
		INSERT OR REPLACE INTO snapshots (kind, data, updated_at)
		VALUES (?, ?, ?)
	`, kind.String(), string(data), at.Unix())
	return err
}

// current returns the stored snapshot for kind, or "" when none exists
func (t *snapshotTx) current(kind domain.DiagramKind) (string, error) {
	var data string
	err := t.tx.QueryRow(`SELECT data FROM snapshots WHERE kind = ?`, kind.String()).Scan(&data)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return data, err
}

// setMeta records a key in the meta table
func (t *snapshotTx) setMeta(key, value string) error {
	_, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, key, value)
	return err
}

// Commit commits the transaction
func (t *snapshotTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *snapshotTx) Rollback() error {
	return t.tx.Rollback()
}
