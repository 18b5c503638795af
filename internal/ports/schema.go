package ports

import "context"

// SchemaApplier runs generated DDL against a live database
type SchemaApplier interface {
	// Apply executes every statement of ddl in order and returns how many
	// statements were executed.
	Apply(ctx context.Context, ddl string) (int, error)

	// ApplyStatements executes already split statements in order
	ApplyStatements(ctx context.Context, stmts []string) (int, error)
}
