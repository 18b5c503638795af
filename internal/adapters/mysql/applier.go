package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"diagrammer/internal/domain"
	"diagrammer/internal/ports"
)

// MySQL error numbers reported when an object from a previous apply is
// still there. These statements are skipped, not failed.
const (
	errTableExists      = 1050
	errDuplicateKeyName = 1061
	errDuplicateKey     = 1022
	errDuplicateFKName  = 1826
)

// Applier implements ports.SchemaApplier against a MySQL database
type Applier struct {
	db      *sql.DB
	logger  *slog.Logger
	timeout time.Duration
}

// Ensure Applier implements SchemaApplier
var _ ports.SchemaApplier = (*Applier)(nil)

// NewApplier wraps an open database handle
func NewApplier(db *sql.DB, logger *slog.Logger) *Applier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Applier{db: db, logger: logger, timeout: 2 * time.Minute}
}

// Open connects to the MySQL server named by dsn
// (user:pass@tcp(host:3306)/dbname) and checks the connection.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Applier, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql dsn: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("invalid mysql dsn: no database name")
	}

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}
	return NewApplier(db, logger), nil
}

// Close closes the database handle
func (a *Applier) Close() error {
	return a.db.Close()
}

// Apply splits a script into statements and runs them with ApplyStatements
func (a *Applier) Apply(ctx context.Context, ddl string) (int, error) {
	return a.ApplyStatements(ctx, domain.SplitStatements(ddl))
}

// ApplyStatements executes stmts in order and returns how many ran.
// Statements whose object already exists are logged and skipped.
func (a *Applier) ApplyStatements(ctx context.Context, stmts []string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	applied := 0
	for _, stmt := range stmts {
		if _, err := a.db.ExecContext(ctx, stmt); err != nil {
			if alreadyExists(err) {
				a.logger.Warn("DDL skipped (already exists)", "statement", firstLine(stmt), "error", err)
				continue
			}
			return applied, fmt.Errorf("DDL apply failed at %q: %w", firstLine(stmt), err)
		}
		applied++
	}
	return applied, nil
}

func alreadyExists(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case errTableExists, errDuplicateKeyName, errDuplicateKey, errDuplicateFKName:
			return true
		}
	}
	e := strings.ToLower(err.Error())
	return strings.Contains(e, "already exists") || strings.Contains(e, "duplicate")
}

func firstLine(stmt string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(stmt), "\n")
	return line
}
