package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"diagrammer/internal/adapters/filesystem"
	"diagrammer/internal/adapters/sqlite"
)

var migrateFrom string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy JSON snapshot files into the SQLite store",
	Long: `Copy the per-diagram JSON files of a file-storage data directory into
the SQLite snapshot database. Snapshots already identical are skipped.

Example:
  diagrammer-cli migrate --from ~/old-diagrams`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		target, ok := snapshots.(*sqlite.SnapshotStore)
		if !ok {
			return fmt.Errorf("migrate requires storage sqlite, got %s", cfg.Storage)
		}

		from := migrateFrom
		if from == "" {
			from = cfg.DataDir
		}
		src := filesystem.NewRepository(from)
		defer src.Close()

		stats, err := target.SyncFrom(src)
		if err != nil {
			return err
		}
		fmt.Printf("Copied %d snapshot(s), %d unchanged (%s)\n", stats.Copied, stats.Unchanged, stats.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", "", "directory of JSON snapshots (default data_dir)")
	rootCmd.AddCommand(migrateCmd)
}
