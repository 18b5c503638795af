package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// RelationResult contains the relation a command created
type RelationResult struct {
	Relation domain.Relation
	Message  string
}

// AddRelationCommand links a source column to a target column.
// Endpoints are written "table.column" by name or id.
type AddRelationCommand struct {
	store    *application.ERDStore
	From     string
	To       string
	Type     string
	OnDelete string
	OnUpdate string
	Name     string
}

// NewAddRelationCommand creates a new AddRelationCommand
func NewAddRelationCommand(store *application.ERDStore, from, to string) *AddRelationCommand {
	return &AddRelationCommand{store: store, From: from, To: to}
}

func splitEndpoint(field, ref string) (string, string, error) {
	table, column, ok := strings.Cut(strings.TrimSpace(ref), ".")
	if !ok || table == "" || column == "" {
		return "", "", &application.ValidationError{
			Field:   field,
			Message: fmt.Sprintf("expected table.column, got: %s", ref),
		}
	}
	return table, column, nil
}

// Validate checks if the relation is well formed
func (c *AddRelationCommand) Validate() error {
	if _, _, err := splitEndpoint("from", c.From); err != nil {
		return err
	}
	if _, _, err := splitEndpoint("to", c.To); err != nil {
		return err
	}
	if _, err := application.ValidateRelationType("type", c.Type); err != nil {
		return err
	}
	if _, err := application.ValidateReferentialAction("onDelete", c.OnDelete); err != nil {
		return err
	}
	_, err := application.ValidateReferentialAction("onUpdate", c.OnUpdate)
	return err
}

func (c *AddRelationCommand) endpoint(field, ref string) (domain.Table, domain.Column, error) {
	tableRef, colRef, err := splitEndpoint(field, ref)
	if err != nil {
		return domain.Table{}, domain.Column{}, err
	}
	table, err := resolveTable(c.store, tableRef)
	if err != nil {
		return domain.Table{}, domain.Column{}, err
	}
	col, err := resolveColumn(table, colRef)
	if err != nil {
		return domain.Table{}, domain.Column{}, err
	}
	return table, col, nil
}

// Execute runs the add relation command. The source column is flagged as
// a foreign key.
func (c *AddRelationCommand) Execute(ctx context.Context) (*RelationResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	relType, _ := application.ValidateRelationType("type", c.Type)
	onDelete, _ := application.ValidateReferentialAction("onDelete", c.OnDelete)
	onUpdate, _ := application.ValidateReferentialAction("onUpdate", c.OnUpdate)

	src, srcCol, err := c.endpoint("from", c.From)
	if err != nil {
		return nil, err
	}
	dst, dstCol, err := c.endpoint("to", c.To)
	if err != nil {
		return nil, err
	}

	id, ok := c.store.AddRelation(application.RelationInput{
		Name:           c.Name,
		Type:           relType,
		SourceTableID:  src.ID,
		SourceColumnID: srcCol.ID,
		TargetTableID:  dst.ID,
		TargetColumnID: dstCol.ID,
		OnDelete:       onDelete,
		OnUpdate:       onUpdate,
	})
	if !ok {
		return nil, &application.RefusedError{Op: "add relation", ID: c.From, Reason: "endpoints no longer resolve"}
	}

	fk := true
	c.store.UpdateColumn(src.ID, srcCol.ID, domain.ColumnPatch{IsForeignKey: &fk})

	rel, _ := c.store.Relation(id)
	return &RelationResult{
		Relation: rel,
		Message:  fmt.Sprintf("Related %s.%s -> %s.%s (%s)", src.Name, srcCol.Name, dst.Name, dstCol.Name, rel.Type),
	}, nil
}

// DeleteRelationCommand removes a relation by id
type DeleteRelationCommand struct {
	store *application.ERDStore
	ID    string
}

// NewDeleteRelationCommand creates a new DeleteRelationCommand
func NewDeleteRelationCommand(store *application.ERDStore, id string) *DeleteRelationCommand {
	return &DeleteRelationCommand{store: store, ID: id}
}

// Validate checks if the delete operation is valid
func (c *DeleteRelationCommand) Validate() error {
	return application.ValidateRequired("relationID", c.ID)
}

// Execute runs the delete relation command
func (c *DeleteRelationCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if _, ok := c.store.Relation(c.ID); !ok {
		return nil, &application.NotFoundError{Entity: "relation", ID: c.ID}
	}
	c.store.DeleteRelation(c.ID)

	return &DeleteResult{
		DeletedID: c.ID,
		Message:   fmt.Sprintf("Deleted relation %s", c.ID),
	}, nil
}
