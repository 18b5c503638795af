package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// TableResult contains the table an ERD command created or changed
type TableResult struct {
	Table   domain.Table
	Message string
}

// AddTableCommand adds a table to the ERD
type AddTableCommand struct {
	store    *application.ERDStore
	Name     string
	Comment  string
	Position domain.Position
}

// NewAddTableCommand creates a new AddTableCommand. An empty name keeps
// the default Table_N name.
func NewAddTableCommand(store *application.ERDStore, name string, pos domain.Position) *AddTableCommand {
	return &AddTableCommand{
		store:    store,
		Name:     name,
		Position: pos,
	}
}

// Validate checks if the add operation is valid
func (c *AddTableCommand) Validate() error {
	if c.Name != "" && strings.TrimSpace(c.Name) == "" {
		return &application.ValidationError{
			Field:   "name",
			Message: "name cannot be blank",
		}
	}
	return nil
}

// Execute runs the add table command
func (c *AddTableCommand) Execute(ctx context.Context) (*TableResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	id := c.store.AddTable(c.Position)

	patch := domain.TablePatch{}
	if name := strings.TrimSpace(c.Name); name != "" {
		patch.Name = &name
	}
	if c.Comment != "" {
		patch.Comment = &c.Comment
	}
	if patch.Name != nil || patch.Comment != nil {
		c.store.UpdateTable(id, patch)
	}

	table, _ := c.store.Table(id)
	return &TableResult{
		Table:   table,
		Message: fmt.Sprintf("Created table: %s %s", table.ID, table.Name),
	}, nil
}

// RenameTableCommand renames a table
type RenameTableCommand struct {
	store   *application.ERDStore
	Table   string
	NewName string
}

// NewRenameTableCommand creates a new RenameTableCommand
func NewRenameTableCommand(store *application.ERDStore, table, newName string) *RenameTableCommand {
	return &RenameTableCommand{
		store:   store,
		Table:   table,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameTableCommand) Validate() error {
	if err := application.ValidateRequired("table", c.Table); err != nil {
		return err
	}
	return application.ValidateRequired("name", c.NewName)
}

// Execute runs the rename table command
func (c *RenameTableCommand) Execute(ctx context.Context) (*TableResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.NewName)
	c.store.UpdateTable(table.ID, domain.TablePatch{Name: &name})

	renamed, _ := c.store.Table(table.ID)
	return &TableResult{
		Table:   renamed,
		Message: fmt.Sprintf("Renamed %s to %s", table.Name, name),
	}, nil
}

// DuplicateTableCommand copies a table with fresh ids
type DuplicateTableCommand struct {
	store *application.ERDStore
	Table string
}

// NewDuplicateTableCommand creates a new DuplicateTableCommand
func NewDuplicateTableCommand(store *application.ERDStore, table string) *DuplicateTableCommand {
	return &DuplicateTableCommand{store: store, Table: table}
}

// Validate checks if the duplicate operation is valid
func (c *DuplicateTableCommand) Validate() error {
	return application.ValidateRequired("table", c.Table)
}

// Execute runs the duplicate table command
func (c *DuplicateTableCommand) Execute(ctx context.Context) (*TableResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}

	dupID := c.store.DuplicateTable(table.ID)
	dup, ok := c.store.Table(dupID)
	if !ok {
		return nil, &application.NotFoundError{Entity: "table", ID: table.ID}
	}

	return &TableResult{
		Table:   dup,
		Message: fmt.Sprintf("Duplicated %s as %s %s", table.Name, dup.ID, dup.Name),
	}, nil
}

// DeleteTableResult contains the result of deleting a table
type DeleteTableResult struct {
	DeletedID        string
	RemovedRelations int
	Message          string
}

// DeleteTableCommand deletes a table and the relations naming it
type DeleteTableCommand struct {
	store *application.ERDStore
	Table string
}

// NewDeleteTableCommand creates a new DeleteTableCommand
func NewDeleteTableCommand(store *application.ERDStore, table string) *DeleteTableCommand {
	return &DeleteTableCommand{store: store, Table: table}
}

// Validate checks if the delete operation is valid
func (c *DeleteTableCommand) Validate() error {
	return application.ValidateRequired("table", c.Table)
}

// Execute runs the delete table command
func (c *DeleteTableCommand) Execute(ctx context.Context) (*DeleteTableResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}

	before := len(c.store.Relations())
	c.store.DeleteTable(table.ID)
	removed := before - len(c.store.Relations())

	msg := fmt.Sprintf("Deleted table %s", table.Name)
	if removed > 0 {
		msg += fmt.Sprintf(" and %d relation(s)", removed)
	}
	return &DeleteTableResult{
		DeletedID:        table.ID,
		RemovedRelations: removed,
		Message:          msg,
	}, nil
}
