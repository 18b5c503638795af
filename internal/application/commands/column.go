package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// ColumnSpec holds the optional attributes of a column as given on the
// command line or by a tool call. Zero values leave the default in place.
type ColumnSpec struct {
	Name          string
	DataType      string
	Length        int
	Precision     int
	Scale         int
	NotNull       bool
	Default       string
	PrimaryKey    bool
	Unique        bool
	AutoIncrement bool
	Comment       string
}

// patch converts the spec into a column patch. dataType must already be validated.
func (s ColumnSpec) patch(dataType domain.DataType) domain.ColumnPatch {
	p := domain.ColumnPatch{}
	if name := strings.TrimSpace(s.Name); name != "" {
		p.Name = &name
	}
	if dataType != "" {
		p.DataType = &dataType
		p.ClearSize = true
	}
	if s.Length > 0 {
		p.Length = &s.Length
	}
	if s.Precision > 0 {
		p.Precision = &s.Precision
		p.Scale = &s.Scale
	}
	if s.NotNull || s.PrimaryKey {
		nullable := false
		p.Nullable = &nullable
	}
	if s.Default != "" {
		p.DefaultValue = &s.Default
	}
	if s.PrimaryKey {
		p.IsPrimaryKey = &s.PrimaryKey
	}
	if s.Unique {
		p.IsUnique = &s.Unique
	}
	if s.AutoIncrement {
		p.IsAutoIncrement = &s.AutoIncrement
	}
	if s.Comment != "" {
		p.Comment = &s.Comment
	}
	// VARCHAR keeps its 255 default unless a length was given
	if dataType == domain.TypeVarchar && p.Length == nil {
		def := 255
		p.Length = &def
	}
	return p
}

func (s ColumnSpec) validate() (domain.DataType, error) {
	if s.DataType == "" {
		return "", nil
	}
	dt, err := application.ValidateDataType("dataType", s.DataType)
	if err != nil {
		return "", err
	}
	info, _ := dt.Info()
	if s.Length > 0 && !info.HasLength {
		return "", &application.ValidationError{
			Field:   "length",
			Message: fmt.Sprintf("%s does not take a length", dt),
		}
	}
	if s.Precision > 0 && !info.HasPrecision {
		return "", &application.ValidationError{
			Field:   "precision",
			Message: fmt.Sprintf("%s does not take a precision", dt),
		}
	}
	if s.Scale > s.Precision && s.Precision > 0 {
		return "", &application.ValidationError{
			Field:   "scale",
			Message: "scale cannot exceed precision",
		}
	}
	return dt, nil
}

// ColumnResult contains the column a command created or changed
type ColumnResult struct {
	TableID string
	Column  domain.Column
	Message string
}

// AddColumnCommand appends a column to a table
type AddColumnCommand struct {
	store *application.ERDStore
	Table string
	Spec  ColumnSpec
}

// NewAddColumnCommand creates a new AddColumnCommand
func NewAddColumnCommand(store *application.ERDStore, table string, spec ColumnSpec) *AddColumnCommand {
	return &AddColumnCommand{store: store, Table: table, Spec: spec}
}

// Validate checks if the add column operation is valid
func (c *AddColumnCommand) Validate() error {
	if err := application.ValidateRequired("table", c.Table); err != nil {
		return err
	}
	_, err := c.Spec.validate()
	return err
}

// Execute runs the add column command
func (c *AddColumnCommand) Execute(ctx context.Context) (*ColumnResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	dt, _ := c.Spec.validate()

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}

	colID := c.store.AddColumn(table.ID)
	c.store.UpdateColumn(table.ID, colID, c.Spec.patch(dt))

	updated, _ := c.store.Table(table.ID)
	col, _ := updated.Column(colID)
	return &ColumnResult{
		TableID: table.ID,
		Column:  *col,
		Message: fmt.Sprintf("Added column %s.%s %s", table.Name, col.Name, col.DataType),
	}, nil
}

// UpdateColumnCommand changes the attributes of an existing column
type UpdateColumnCommand struct {
	store  *application.ERDStore
	Table  string
	Column string
	Spec   ColumnSpec
}

// NewUpdateColumnCommand creates a new UpdateColumnCommand. Spec.Name is the new name.
func NewUpdateColumnCommand(store *application.ERDStore, table, column string, spec ColumnSpec) *UpdateColumnCommand {
	return &UpdateColumnCommand{store: store, Table: table, Column: column, Spec: spec}
}

// Validate checks if the update operation is valid
func (c *UpdateColumnCommand) Validate() error {
	if err := application.ValidateRequired("table", c.Table); err != nil {
		return err
	}
	if err := application.ValidateRequired("column", c.Column); err != nil {
		return err
	}
	_, err := c.Spec.validate()
	return err
}

// Execute runs the update column command
func (c *UpdateColumnCommand) Execute(ctx context.Context) (*ColumnResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	dt, _ := c.Spec.validate()

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}
	col, err := resolveColumn(table, c.Column)
	if err != nil {
		return nil, err
	}

	c.store.UpdateColumn(table.ID, col.ID, c.Spec.patch(dt))

	updated, _ := c.store.Table(table.ID)
	changed, _ := updated.Column(col.ID)
	return &ColumnResult{
		TableID: table.ID,
		Column:  *changed,
		Message: fmt.Sprintf("Updated column %s.%s", table.Name, changed.Name),
	}, nil
}

// DeleteColumnResult contains the result of deleting a column
type DeleteColumnResult struct {
	TableID   string
	DeletedID string
	Message   string
}

// DeleteColumnCommand removes a column and the relations naming it
type DeleteColumnCommand struct {
	store  *application.ERDStore
	Table  string
	Column string
}

// NewDeleteColumnCommand creates a new DeleteColumnCommand
func NewDeleteColumnCommand(store *application.ERDStore, table, column string) *DeleteColumnCommand {
	return &DeleteColumnCommand{store: store, Table: table, Column: column}
}

// Validate checks if the delete operation is valid
func (c *DeleteColumnCommand) Validate() error {
	if err := application.ValidateRequired("table", c.Table); err != nil {
		return err
	}
	return application.ValidateRequired("column", c.Column)
}

// Execute runs the delete column command. Deleting a table's last column is
// reported as a RefusedError.
func (c *DeleteColumnCommand) Execute(ctx context.Context) (*DeleteColumnResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	table, err := resolveTable(c.store, c.Table)
	if err != nil {
		return nil, err
	}
	col, err := resolveColumn(table, c.Column)
	if err != nil {
		return nil, err
	}

	if !c.store.DeleteColumn(table.ID, col.ID) {
		return nil, &application.RefusedError{
			Op:     "delete column",
			ID:     table.Name + "." + col.Name,
			Reason: "a table must keep at least one column",
		}
	}

	return &DeleteColumnResult{
		TableID:   table.ID,
		DeletedID: col.ID,
		Message:   fmt.Sprintf("Deleted column %s.%s", table.Name, col.Name),
	}, nil
}
