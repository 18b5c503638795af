package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "DIAGRAMMER_"

// Storage drivers
const (
	StorageSQLite = "sqlite"
	StorageFile   = "file"
)

// Config holds the settings shared by the TUI, CLI and MCP server
type Config struct {
	DataDir     string   `yaml:"data_dir"`
	Storage     string   `yaml:"storage"`
	MySQLDSN    string   `yaml:"mysql_dsn"`
	HTTPAddr    string   `yaml:"http_addr"`
	CORSOrigins []string `yaml:"cors_origins"`
	LogLevel    string   `yaml:"log_level"`
	Editor      string   `yaml:"editor"`
}

// Default returns the built-in settings
func Default() Config {
	return Config{
		DataDir:  DefaultDataDir(),
		Storage:  StorageSQLite,
		HTTPAddr: "127.0.0.1:8080",
		LogLevel: "info",
	}
}

// DefaultDataDir returns $XDG_DATA_HOME/diagrammer, falling back to
// ~/.local/share/diagrammer.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "diagrammer")
}

// DefaultPath returns the config file location under $XDG_CONFIG_HOME
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "diagrammer", "config.yaml")
}

// Load builds the configuration from defaults, the YAML file at path, a
// .env file in the working directory and DIAGRAMMER_* variables, each
// layer overriding the previous one. An empty path means DefaultPath.
// Missing files are not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}

	// .env never overrides variables already set in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	cfg.mergeEnv(os.Getenv)

	cfg.DataDir = expandHome(cfg.DataDir)
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(expandHome(path))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(getenv func(string) string) {
	set := func(dst *string, name string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	set(&c.DataDir, "DATA_DIR")
	set(&c.Storage, "STORAGE")
	set(&c.MySQLDSN, "MYSQL_DSN")
	set(&c.HTTPAddr, "HTTP_ADDR")
	set(&c.LogLevel, "LOG_LEVEL")
	set(&c.Editor, "EDITOR")

	if v := getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}
}

// Validate checks the storage driver and log level
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageFile:
	default:
		return fmt.Errorf("invalid storage: %s (expected sqlite or file)", c.Storage)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	return nil
}

// SnapshotPath returns where the selected storage driver keeps snapshots:
// the database file for sqlite, the directory for file storage.
func (c Config) SnapshotPath() string {
	if c.Storage == StorageFile {
		return c.DataDir
	}
	return filepath.Join(c.DataDir, "diagrammer.db")
}

// Level returns the slog level for LogLevel, defaulting to info
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger returns a text logger writing to w at the configured level
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.Level()}))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level: %s (expected debug, info, warn or error)", s)
	}
	return level, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}
