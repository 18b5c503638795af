package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// RenameResult contains the result of a rename operation
type RenameResult struct {
	ID      string
	OldName string
	NewName string
	Message string
}

// RenameCommand renames a node or labels a connection of any diagram kind.
// Tables and use-case nodes take a name, flowchart nodes and edges a label,
// relations a constraint name.
type RenameCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
	Ref     string
	NewName string
}

// NewRenameCommand creates a new RenameCommand
func NewRenameCommand(session *application.Session, kind domain.DiagramKind, ref, newName string) *RenameCommand {
	return &RenameCommand{
		session: session,
		Kind:    kind,
		Ref:     ref,
		NewName: newName,
	}
}

// Validate checks if the rename operation is valid
func (c *RenameCommand) Validate() error {
	if err := validateKind(c.Kind); err != nil {
		return err
	}
	if strings.TrimSpace(c.Ref) == "" {
		return &application.ValidationError{
			Field:   "id",
			Message: "ID is required",
		}
	}
	if strings.TrimSpace(c.NewName) == "" {
		return &application.ValidationError{
			Field:   "name",
			Message: "name is required",
		}
	}
	return nil
}

// Execute runs the rename command
func (c *RenameCommand) Execute(ctx context.Context) (*RenameResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(c.NewName)
	var (
		id, old string
		err     error
	)
	switch c.Kind {
	case domain.KindERD:
		id, old, err = c.renameERD(name)
	case domain.KindFlowchart:
		id, old, err = c.renameFlowchart(name)
	default:
		id, old, err = c.renameUseCase(name)
	}
	if err != nil {
		return nil, err
	}

	return &RenameResult{
		ID:      id,
		OldName: old,
		NewName: name,
		Message: fmt.Sprintf("Renamed %s to %s", displayName(id, old), name),
	}, nil
}

func (c *RenameCommand) renameERD(name string) (string, string, error) {
	store := c.session.ERD
	if rel, ok := store.Relation(c.Ref); ok {
		store.UpdateRelation(rel.ID, domain.RelationPatch{Name: &name})
		return rel.ID, rel.Name, nil
	}
	table, err := resolveTable(store, c.Ref)
	if err != nil {
		return "", "", err
	}
	store.UpdateTable(table.ID, domain.TablePatch{Name: &name})
	return table.ID, table.Name, nil
}

func (c *RenameCommand) renameFlowchart(name string) (string, string, error) {
	store := c.session.Flowchart
	if edge, ok := store.Edge(c.Ref); ok {
		store.UpdateEdge(edge.ID, domain.EdgePatch{Label: &name})
		return edge.ID, edge.Label, nil
	}
	node, err := resolveFlowNode(store, c.Ref)
	if err != nil {
		return "", "", err
	}
	store.UpdateNodeData(node.ID, domain.NodeDataPatch{Label: &name})
	return node.ID, node.Data.Label, nil
}

func (c *RenameCommand) renameUseCase(name string) (string, string, error) {
	store := c.session.UseCase
	if edge, ok := store.Edge(c.Ref); ok {
		store.UpdateEdge(edge.ID, domain.UseCaseEdgePatch{Label: &name})
		return edge.ID, edge.Label, nil
	}
	node, err := resolveUseCaseNode(store, c.Ref)
	if err != nil {
		return "", "", err
	}
	store.UpdateNode(node.ID, domain.UseCaseNodePatch{Name: &name})
	return node.ID, node.Data.Name, nil
}

func displayName(id, name string) string {
	if name == "" {
		return id
	}
	return name
}
