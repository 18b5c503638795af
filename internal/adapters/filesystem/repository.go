package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

const snapshotExt = ".json"

// Repository implements ports.SnapshotStore with one JSON file per diagram
// kind: <dir>/erd.json, <dir>/flowchart.json, <dir>/usecase.json.
type Repository struct {
	dir string
}

// Ensure Repository implements SnapshotStore
var _ ports.SnapshotStore = (*Repository)(nil)

// NewRepository creates a new filesystem repository rooted at dir
func NewRepository(dir string) *Repository {
	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, dir[1:])
	}
	return &Repository{dir: dir}
}

// Dir returns the directory the snapshots live in
func (r *Repository) Dir() string {
	return r.dir
}

// SnapshotPath returns the file holding the snapshot for kind
func (r *Repository) SnapshotPath(kind domain.DiagramKind) string {
	return filepath.Join(r.dir, kind.String()+snapshotExt)
}

// Load reads the snapshot for kind; ok is false when the file does not exist
func (r *Repository) Load(kind domain.DiagramKind) ([]byte, bool, error) {
	data, err := os.ReadFile(r.SnapshotPath(kind))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s snapshot: %w", kind, err)
	}
	return data, true, nil
}

// Save writes the snapshot for kind atomically
func (r *Repository) Save(kind domain.DiagramKind, data []byte) error {
	if kind == domain.KindUnknown {
		return fmt.Errorf("cannot save snapshot for unknown diagram kind")
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return WriteFile(r.SnapshotPath(kind), data)
}

// Kinds lists the diagram kinds with a snapshot file, in display order
func (r *Repository) Kinds() ([]domain.DiagramKind, error) {
	var kinds []domain.DiagramKind
	for _, k := range domain.AllKinds {
		info, err := os.Stat(r.SnapshotPath(k))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if info.Mode().IsRegular() {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// Close is a no-op; files are closed after every write
func (r *Repository) Close() error {
	return nil
}

// ReadFile reads an import document. "-" is not handled here; callers
// read stdin themselves.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// WriteFile writes data to path through a temp file in the same directory
// and a rename, so readers never observe a partial file.
func WriteFile(path string, data []byte) error {
	path = expandHome(path)
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
