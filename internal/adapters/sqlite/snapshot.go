package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"diagrammer/internal/domain"
	"diagrammer/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// SnapshotStore implements ports.SnapshotStore using SQLite. Each diagram
// kind owns one row holding its latest JSON snapshot.
type SnapshotStore struct {
	db   *sql.DB
	path string
}

// Ensure SnapshotStore implements ports.SnapshotStore
var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStoreFromDB wraps an already opened database. The schema is
// expected to exist.
func NewSnapshotStoreFromDB(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// Open opens (creating if needed) the snapshot database at path
func Open(path string) (*SnapshotStore, error) {
	path, err := expandHome(path)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Pragmas go in the DSN so every pooled connection gets them
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SnapshotStore{db: db, path: path}
	if err := s.setup(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}
	return s, nil
}

// dsn enables WAL so the TUI and the MCP server can share one database
func dsn(path string) string {
	return "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
}

func (s *SnapshotStore) setup() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			kind TEXT PRIMARY KEY,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// Path returns the database file, or "" for stores built from a *sql.DB
func (s *SnapshotStore) Path() string {
	return s.path
}

// Close closes the database connection
func (s *SnapshotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SchemaVersion returns the layout version recorded in the meta table
func (s *SnapshotStore) SchemaVersion() (string, error) {
	var version string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return version, err
}

// Load returns the saved snapshot for kind; ok is false when none was saved
func (s *SnapshotStore) Load(kind domain.DiagramKind) ([]byte, bool, error) {
	var data string
	err := s.db.QueryRow(`SELECT data FROM snapshots WHERE kind = ?`, kind.String()).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %s snapshot: %w", kind, err)
	}
	return []byte(data), true, nil
}

// Save replaces the snapshot for kind
func (s *SnapshotStore) Save(kind domain.DiagramKind, data []byte) error {
	if kind == domain.KindUnknown {
		return fmt.Errorf("cannot save snapshot for unknown diagram kind")
	}

	tx, err := s.beginTx()
	if err != nil {
		return err
	}
	if err := tx.put(kind, data, time.Now()); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to save %s snapshot: %w", kind, err)
	}
	return tx.Commit()
}

// Kinds lists the diagram kinds with a saved snapshot, in display order
func (s *SnapshotStore) Kinds() ([]domain.DiagramKind, error) {
	rows, err := s.db.Query(`SELECT kind FROM snapshots`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	saved := make(map[domain.DiagramKind]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		saved[domain.ParseKind(name)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var kinds []domain.DiagramKind
	for _, k := range domain.AllKinds {
		if saved[k] {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// DefaultPath returns the database location under the XDG data directory
func DefaultPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "diagrammer", "diagrammer.db")
}

func expandHome(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}
