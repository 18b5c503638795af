package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// FlowNodeResult contains the flowchart node a command created or changed
type FlowNodeResult struct {
	Node    domain.FlowchartNode
	Message string
}

// AddFlowNodeCommand places a new shape on the flowchart
type AddFlowNodeCommand struct {
	store    *application.FlowchartStore
	Shape    string
	Label    string
	Position domain.Position
}

// NewAddFlowNodeCommand creates a new AddFlowNodeCommand
func NewAddFlowNodeCommand(store *application.FlowchartStore, shape, label string, pos domain.Position) *AddFlowNodeCommand {
	return &AddFlowNodeCommand{
		store:    store,
		Shape:    shape,
		Label:    label,
		Position: pos,
	}
}

// Validate checks if the shape is known. An empty shape means process.
func (c *AddFlowNodeCommand) Validate() error {
	_, err := c.shape()
	return err
}

func (c *AddFlowNodeCommand) shape() (domain.ShapeKind, error) {
	if strings.TrimSpace(c.Shape) == "" {
		return domain.ShapeProcess, nil
	}
	return application.ValidateShapeKind("shape", c.Shape)
}

// Execute runs the add node command
func (c *AddFlowNodeCommand) Execute(ctx context.Context) (*FlowNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	shape, _ := c.shape()

	id := c.store.AddNode(shape, c.Position)
	if label := strings.TrimSpace(c.Label); label != "" {
		c.store.UpdateNodeData(id, domain.NodeDataPatch{Label: &label})
	}

	node, _ := c.store.Node(id)
	return &FlowNodeResult{
		Node:    node,
		Message: fmt.Sprintf("Created %s node: %s %s", node.Type, node.ID, node.Data.Label),
	}, nil
}

// FlowEdgeResult contains the flowchart edge a command created
type FlowEdgeResult struct {
	Edge    domain.FlowchartEdge
	Message string
}

// AddFlowEdgeCommand connects two flowchart nodes
type AddFlowEdgeCommand struct {
	store   *application.FlowchartStore
	From    string
	To      string
	Routing string
	Label   string
}

// NewAddFlowEdgeCommand creates a new AddFlowEdgeCommand
func NewAddFlowEdgeCommand(store *application.FlowchartStore, from, to string) *AddFlowEdgeCommand {
	return &AddFlowEdgeCommand{store: store, From: from, To: to}
}

// Validate checks if the connection is valid
func (c *AddFlowEdgeCommand) Validate() error {
	if err := application.ValidateRequired("from", c.From); err != nil {
		return err
	}
	if err := application.ValidateRequired("to", c.To); err != nil {
		return err
	}
	if c.Routing != "" && !domain.EdgeRouting(strings.ToLower(c.Routing)).Valid() {
		return &application.ValidationError{
			Field:   "routing",
			Message: fmt.Sprintf("unknown routing: %s (expected smooth, straight, step or bezier)", c.Routing),
		}
	}
	return nil
}

// Execute runs the add edge command
func (c *AddFlowEdgeCommand) Execute(ctx context.Context) (*FlowEdgeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	src, err := resolveFlowNode(c.store, c.From)
	if err != nil {
		return nil, err
	}
	dst, err := resolveFlowNode(c.store, c.To)
	if err != nil {
		return nil, err
	}

	id, ok := c.store.AddEdge(application.EdgeInput{
		Source: src.ID,
		Target: dst.ID,
		Type:   domain.EdgeRouting(strings.ToLower(c.Routing)),
		Label:  c.Label,
	})
	if !ok {
		return nil, &application.RefusedError{Op: "connect", ID: c.From, Reason: "endpoints no longer resolve"}
	}

	edge, _ := c.store.Edge(id)
	return &FlowEdgeResult{
		Edge:    edge,
		Message: fmt.Sprintf("Connected %s -> %s", src.Data.Label, dst.Data.Label),
	}, nil
}

// StackDirection selects where ReorderStackCommand moves a node
type StackDirection string

const (
	StackFront StackDirection = "front"
	StackBack  StackDirection = "back"
)

// ReorderStackCommand moves a flowchart node above or below every other node
type ReorderStackCommand struct {
	store     *application.FlowchartStore
	Node      string
	Direction StackDirection
}

// NewReorderStackCommand creates a new ReorderStackCommand
func NewReorderStackCommand(store *application.FlowchartStore, node string, dir StackDirection) *ReorderStackCommand {
	return &ReorderStackCommand{store: store, Node: node, Direction: dir}
}

// Validate checks if the reorder operation is valid
func (c *ReorderStackCommand) Validate() error {
	if err := application.ValidateRequired("node", c.Node); err != nil {
		return err
	}
	switch c.Direction {
	case StackFront, StackBack:
		return nil
	}
	return &application.ValidationError{
		Field:   "direction",
		Message: fmt.Sprintf("unknown direction: %s (expected front or back)", c.Direction),
	}
}

// Execute runs the reorder command
func (c *ReorderStackCommand) Execute(ctx context.Context) (*FlowNodeResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	node, err := resolveFlowNode(c.store, c.Node)
	if err != nil {
		return nil, err
	}

	if c.Direction == StackFront {
		c.store.BringToFront(node.ID)
	} else {
		c.store.SendToBack(node.ID)
	}

	moved, _ := c.store.Node(node.ID)
	return &FlowNodeResult{
		Node:    moved,
		Message: fmt.Sprintf("Moved %s to the %s (z %d)", moved.Data.Label, c.Direction, moved.ZIndex),
	}, nil
}
