package commands

import (
	"context"
	"fmt"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// DeleteResult contains the result of a delete operation
type DeleteResult struct {
	DeletedID          string
	RemovedConnections int
	Message            string
}

// DeleteCommand deletes a node or connection of any diagram kind.
// Nodes resolve by id or name; connections resolve by id only.
type DeleteCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
	Ref     string
}

// NewDeleteCommand creates a new DeleteCommand
func NewDeleteCommand(session *application.Session, kind domain.DiagramKind, ref string) *DeleteCommand {
	return &DeleteCommand{
		session: session,
		Kind:    kind,
		Ref:     ref,
	}
}

// Validate checks if the delete operation is valid
func (c *DeleteCommand) Validate() error {
	if err := validateKind(c.Kind); err != nil {
		return err
	}
	return application.ValidateRequired("id", c.Ref)
}

// Execute runs the delete command
func (c *DeleteCommand) Execute(ctx context.Context) (*DeleteResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.Kind {
	case domain.KindERD:
		return c.deleteERD()
	case domain.KindFlowchart:
		return c.deleteFlowchart()
	default:
		return c.deleteUseCase()
	}
}

func (c *DeleteCommand) deleteERD() (*DeleteResult, error) {
	store := c.session.ERD
	if rel, ok := store.Relation(c.Ref); ok {
		store.DeleteRelation(rel.ID)
		return &DeleteResult{DeletedID: rel.ID, Message: fmt.Sprintf("Deleted relation %s", rel.ID)}, nil
	}

	table, err := resolveTable(store, c.Ref)
	if err != nil {
		return nil, err
	}
	before := len(store.Relations())
	store.DeleteTable(table.ID)
	return deleted(table.ID, table.Name, before-len(store.Relations())), nil
}

func (c *DeleteCommand) deleteFlowchart() (*DeleteResult, error) {
	store := c.session.Flowchart
	if edge, ok := store.Edge(c.Ref); ok {
		store.DeleteEdge(edge.ID)
		return &DeleteResult{DeletedID: edge.ID, Message: fmt.Sprintf("Deleted edge %s", edge.ID)}, nil
	}

	node, err := resolveFlowNode(store, c.Ref)
	if err != nil {
		return nil, err
	}
	before := len(store.Edges())
	store.DeleteNode(node.ID)
	return deleted(node.ID, node.Data.Label, before-len(store.Edges())), nil
}

func (c *DeleteCommand) deleteUseCase() (*DeleteResult, error) {
	store := c.session.UseCase
	if edge, ok := store.Edge(c.Ref); ok {
		store.DeleteEdge(edge.ID)
		return &DeleteResult{DeletedID: edge.ID, Message: fmt.Sprintf("Deleted edge %s", edge.ID)}, nil
	}

	node, err := resolveUseCaseNode(store, c.Ref)
	if err != nil {
		return nil, err
	}
	before := len(store.Edges())
	store.DeleteNode(node.ID)
	return deleted(node.ID, node.Data.Name, before-len(store.Edges())), nil
}

func deleted(id, name string, removed int) *DeleteResult {
	msg := fmt.Sprintf("Deleted %s", name)
	if removed > 0 {
		msg += fmt.Sprintf(" and %d connection(s)", removed)
	}
	return &DeleteResult{
		DeletedID:          id,
		RemovedConnections: removed,
		Message:            msg,
	}
}
