package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"diagrammer/internal/adapters/clipboard"
	"diagrammer/internal/adapters/editor"
	"diagrammer/internal/adapters/tui"
	"diagrammer/internal/application"
	"diagrammer/internal/config"
	"diagrammer/internal/ports"
)

func main() {
	configFlag := flag.String("config", "", "config file (default $XDG_CONFIG_HOME/diagrammer/config.yaml)")
	flag.Parse()

	if err := run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	// Initialize adapters
	snapshots, err := cfg.OpenSnapshotStore()
	if err != nil {
		return err
	}
	defer snapshots.Close()

	// The TUI owns the terminal, so logs go to a file
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}
	logFile, err := tea.LogToFile(filepath.Join(cfg.DataDir, "diagrammer.log"), "diagrammer")
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := cfg.NewLogger(logFile)

	session := application.OpenSession(snapshots,
		application.WithIDGenerator(application.NewULIDGenerator()),
		application.WithLogger(logger),
	)

	var clip ports.Clipboard
	if clipboard.Available() {
		clip = clipboard.NewCopier()
	}

	// Create and run TUI app
	app := tui.NewApp(session, editor.NewOpener(cfg.Editor), clip)

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
