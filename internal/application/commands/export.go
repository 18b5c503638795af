package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// ExportCommand renders a diagram as JSON, or the ERD as MySQL DDL
type ExportCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
	Format  string
}

// NewExportCommand creates a new ExportCommand
func NewExportCommand(session *application.Session, kind domain.DiagramKind, format string) *ExportCommand {
	return &ExportCommand{session: session, Kind: kind, Format: format}
}

// Validate checks if the export is valid
func (c *ExportCommand) Validate() error {
	if err := validateKind(c.Kind); err != nil {
		return err
	}
	format, err := application.ParseExportFormat(c.Format)
	if err != nil {
		return err
	}
	if format == application.FormatSQL && c.Kind != domain.KindERD {
		return &application.ValidationError{
			Field:   "format",
			Message: "sql export is only available for erd",
		}
	}
	return nil
}

// Execute runs the export command and returns the rendered text
func (c *ExportCommand) Execute(ctx context.Context) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	format, _ := application.ParseExportFormat(c.Format)
	return c.session.Export(c.Kind, format)
}

// ImportResult contains the result of an import
type ImportResult struct {
	Nodes       int
	Connections int
	Message     string
}

// ImportCommand replaces a diagram with the contents of a JSON document
type ImportCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
	Text    string
}

// NewImportCommand creates a new ImportCommand
func NewImportCommand(session *application.Session, kind domain.DiagramKind, text string) *ImportCommand {
	return &ImportCommand{session: session, Kind: kind, Text: text}
}

// Validate checks if the import is valid
func (c *ImportCommand) Validate() error {
	if err := validateKind(c.Kind); err != nil {
		return err
	}
	if strings.TrimSpace(c.Text) == "" {
		return &application.ValidationError{
			Field:   "input",
			Message: "input is empty",
		}
	}
	return nil
}

// Execute runs the import command. Malformed input leaves the diagram unchanged.
func (c *ImportCommand) Execute(ctx context.Context) (*ImportResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := c.session.Import(c.Kind, c.Text); err != nil {
		return nil, fmt.Errorf("failed to import %s: %w", c.Kind, err)
	}

	result := &ImportResult{}
	for _, e := range Entries(c.session, c.Kind) {
		if e.IsConnection() {
			result.Connections++
		} else {
			result.Nodes++
		}
	}
	result.Message = fmt.Sprintf("Imported %s: %d node(s), %d connection(s)", c.Kind, result.Nodes, result.Connections)
	return result, nil
}

// ClearCommand empties a diagram
type ClearCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
}

// NewClearCommand creates a new ClearCommand
func NewClearCommand(session *application.Session, kind domain.DiagramKind) *ClearCommand {
	return &ClearCommand{session: session, Kind: kind}
}

// Execute runs the clear command
func (c *ClearCommand) Execute(ctx context.Context) (string, error) {
	if err := validateKind(c.Kind); err != nil {
		return "", err
	}
	if err := c.session.Clear(c.Kind); err != nil {
		return "", err
	}
	return fmt.Sprintf("Cleared %s", c.Kind), nil
}

// CheckCommand reports connections whose endpoints no longer resolve
type CheckCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
}

// NewCheckCommand creates a new CheckCommand
func NewCheckCommand(session *application.Session, kind domain.DiagramKind) *CheckCommand {
	return &CheckCommand{session: session, Kind: kind}
}

// Execute runs the integrity check
func (c *CheckCommand) Execute(ctx context.Context) ([]application.IntegrityViolation, error) {
	store, err := c.session.Store(c.Kind)
	if err != nil {
		return nil, err
	}
	return store.CheckIntegrity(), nil
}
