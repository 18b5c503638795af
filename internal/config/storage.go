package config

import (
	"fmt"

	"diagrammer/internal/adapters/filesystem"
	"diagrammer/internal/adapters/sqlite"
	"diagrammer/internal/ports"
)

// OpenSnapshotStore opens the snapshot store selected by Storage
func (c Config) OpenSnapshotStore() (ports.SnapshotStore, error) {
	switch c.Storage {
	case StorageFile:
		return filesystem.NewRepository(c.SnapshotPath()), nil
	case StorageSQLite:
		store, err := sqlite.Open(c.SnapshotPath())
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot database: %w", err)
		}
		return store, nil
	}
	return nil, fmt.Errorf("invalid storage: %s", c.Storage)
}
