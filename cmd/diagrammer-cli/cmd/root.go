package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"diagrammer/internal/application"
	"diagrammer/internal/config"
	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

var (
	configPath string
	dataDir    string
	storage    string
	logLevel   string

	cfg       config.Config
	logger    *slog.Logger
	snapshots ports.SnapshotStore
	session   *application.Session
)

var rootCmd = &cobra.Command{
	Use:   "diagrammer-cli",
	Short: "CLI for ERD, flowchart and use-case diagrams",
	Long: `diagrammer-cli edits the diagrams shared with the diagrammer TUI.

It can add and remove tables, columns, relations, shapes and use-case
nodes, export diagrams as JSON or the ERD as MySQL DDL, apply that DDL to
a live database, and serve the diagrams over HTTP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("data-dir") {
			cfg.DataDir = dataDir
		}
		if flags.Changed("storage") {
			cfg.Storage = storage
		}
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger = cfg.NewLogger(os.Stderr)
		slog.SetDefault(logger)

		snapshots, err = cfg.OpenSnapshotStore()
		if err != nil {
			return err
		}
		session = application.OpenSession(snapshots,
			application.WithIDGenerator(application.NewULIDGenerator()),
			application.WithLogger(logger),
		)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if snapshots == nil {
			return nil
		}
		return snapshots.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/diagrammer/config.yaml)")
	pf.StringVar(&dataDir, "data-dir", "", "directory holding the diagram snapshots")
	pf.StringVar(&storage, "storage", "", "snapshot storage: sqlite or file")
	pf.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
}

// GetSession returns the session opened for the current command
func GetSession() *application.Session {
	return session
}

func parseKind(s string) (domain.DiagramKind, error) {
	return application.ValidateKind("kind", s)
}

// kindArgs is the completion list for commands taking a diagram kind
var kindArgs = []string{"erd", "flowchart", "usecase"}
