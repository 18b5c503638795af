package ports

import "diagrammer/internal/domain"

// SnapshotStore persists one JSON snapshot per diagram kind.
// Saving a kind replaces its previous snapshot.
type SnapshotStore interface {
	// Load returns the stored snapshot; ok is false when none was saved yet
	Load(kind domain.DiagramKind) (data []byte, ok bool, err error)

	// Save replaces the snapshot for kind
	Save(kind domain.DiagramKind, data []byte) error

	// Kinds lists the kinds that have a stored snapshot
	Kinds() ([]domain.DiagramKind, error)

	Close() error
}
