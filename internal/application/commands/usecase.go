package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// UseCaseNodeResult contains the use-case node a command created
type UseCaseNodeResult struct {
	Node    domain.UseCaseNode
	Message string
}

// AddUseCaseNodeCommand adds an actor, use case, system or note
type AddUseCaseNodeCommand struct {
	store    *application.UseCaseStore
	Kind     string
	Name     string
	Position domain.Position
}

// NewAddUseCaseNodeCommand creates a new AddUseCaseNodeCommand
func NewAddUseCaseNodeCommand(store *application.UseCaseStore, kind, name string, pos domain.Position) *AddUseCaseNodeCommand {
	return &AddUseCaseNodeCommand{
		store:    store,
		Kind:     kind,
		Name:     name,
		Position: pos,
	}
}

// Validate checks if the node kind is known
func (c *AddUseCaseNodeCommand) Validate() error {
	_, err := application.ValidateUseCaseNodeKind("kind", c.Kind)
	return err
}

// Execute runs the add node command
func (c *AddUseCaseNodeCommand) Execute(ctx context.Context) (*UseCaseNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, _ := application.ValidateUseCaseNodeKind("kind", c.Kind)

	id := c.store.AddNode(kind, c.Position)
	if name := strings.TrimSpace(c.Name); name != "" {
		c.store.UpdateNode(id, domain.UseCaseNodePatch{Name: &name})
	}

	node, _ := c.store.Node(id)
	return &UseCaseNodeResult{
		Node:    node,
		Message: fmt.Sprintf("Created %s: %s %s", strings.ToLower(kind.DefaultName()), node.ID, node.Data.Name),
	}, nil
}

// UseCaseEdgeResult contains the use-case edge a command created
type UseCaseEdgeResult struct {
	Edge    domain.UseCaseEdge
	Message string
}

// AddUseCaseEdgeCommand draws a relationship between two use-case nodes
type AddUseCaseEdgeCommand struct {
	store *application.UseCaseStore
	Kind  string
	From  string
	To    string
	Label string
}

// NewAddUseCaseEdgeCommand creates a new AddUseCaseEdgeCommand
func NewAddUseCaseEdgeCommand(store *application.UseCaseStore, kind, from, to string) *AddUseCaseEdgeCommand {
	return &AddUseCaseEdgeCommand{store: store, Kind: kind, From: from, To: to}
}

// Validate checks if the relationship is valid
func (c *AddUseCaseEdgeCommand) Validate() error {
	if err := application.ValidateRequired("from", c.From); err != nil {
		return err
	}
	if err := application.ValidateRequired("to", c.To); err != nil {
		return err
	}
	_, err := application.ValidateUseCaseEdgeKind("kind", c.Kind)
	return err
}

// Execute runs the add edge command
func (c *AddUseCaseEdgeCommand) Execute(ctx context.Context) (*UseCaseEdgeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	kind, _ := application.ValidateUseCaseEdgeKind("kind", c.Kind)

	src, err := resolveUseCaseNode(c.store, c.From)
	if err != nil {
		return nil, err
	}
	dst, err := resolveUseCaseNode(c.store, c.To)
	if err != nil {
		return nil, err
	}

	id, ok := c.store.AddEdge(kind, src.ID, dst.ID, c.Label)
	if !ok {
		return nil, &application.RefusedError{Op: "connect", ID: c.From, Reason: "endpoints no longer resolve"}
	}

	edge, _ := c.store.Edge(id)
	return &UseCaseEdgeResult{
		Edge:    edge,
		Message: fmt.Sprintf("Connected %s -> %s (%s)", src.Data.Name, dst.Data.Name, edge.Type),
	}, nil
}
