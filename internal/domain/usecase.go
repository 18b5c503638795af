package domain

// UseCaseNodeKind is the type of a use-case diagram node
type UseCaseNodeKind string

const (
	NodeActor   UseCaseNodeKind = "ACTOR"
	NodeUseCase UseCaseNodeKind = "USECASE"
	NodeSystem  UseCaseNodeKind = "SYSTEM"
	NodeNote    UseCaseNodeKind = "NOTE"
)

// Valid reports whether k is a known node kind
func (k UseCaseNodeKind) Valid() bool {
	switch k {
	case NodeActor, NodeUseCase, NodeSystem, NodeNote:
		return true
	}
	return false
}

// DefaultName is the prefix used when naming new nodes of this kind
func (k UseCaseNodeKind) DefaultName() string {
	switch k {
	case NodeActor:
		return "Actor"
	case NodeUseCase:
		return "Use Case"
	case NodeSystem:
		return "System"
	case NodeNote:
		return "Note"
	default:
		return "Node"
	}
}

// DefaultSize is the size new nodes of this kind start with
func (k UseCaseNodeKind) DefaultSize() Size {
	switch k {
	case NodeActor:
		return Size{80, 100}
	case NodeUseCase:
		return Size{160, 60}
	case NodeSystem:
		return Size{300, 400}
	case NodeNote:
		return Size{200, 100}
	default:
		return Size{100, 100}
	}
}

// UseCaseNodeData holds the descriptive fields of a use-case node
type UseCaseNodeData struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Stereotype  string `json:"stereotype,omitempty"`
}

// UseCaseNode is an actor, use case, system boundary or note
type UseCaseNode struct {
	ID       string          `json:"id"`
	Type     UseCaseNodeKind `json:"type"`
	Position Position        `json:"position"`
	Size     Size            `json:"size"`
	Data     UseCaseNodeData `json:"data"`
}

// UseCaseEdgeKind is the relationship drawn by a use-case edge
type UseCaseEdgeKind string

const (
	EdgeAssociation    UseCaseEdgeKind = "ASSOCIATION"
	EdgeInclude        UseCaseEdgeKind = "INCLUDE"
	EdgeExtend         UseCaseEdgeKind = "EXTEND"
	EdgeGeneralization UseCaseEdgeKind = "GENERALIZATION"
	EdgeDependency     UseCaseEdgeKind = "DEPENDENCY"
)

// Valid reports whether k is a known edge kind
func (k UseCaseEdgeKind) Valid() bool {
	switch k {
	case EdgeAssociation, EdgeInclude, EdgeExtend, EdgeGeneralization, EdgeDependency:
		return true
	}
	return false
}

// DefaultLabel is the stereotype label applied when none is given
func (k UseCaseEdgeKind) DefaultLabel() string {
	switch k {
	case EdgeInclude:
		return "«include»"
	case EdgeExtend:
		return "«extend»"
	default:
		return ""
	}
}

// EdgeStyle is the optional styling of a use-case edge
type EdgeStyle struct {
	Color  string `json:"color,omitempty"`
	Dashed *bool  `json:"dashed,omitempty"`
}

// UseCaseEdge connects two use-case nodes
type UseCaseEdge struct {
	ID       string          `json:"id"`
	Type     UseCaseEdgeKind `json:"type"`
	SourceID string          `json:"sourceId"`
	TargetID string          `json:"targetId"`
	Label    string          `json:"label,omitempty"`
	Style    *EdgeStyle      `json:"style,omitempty"`
}

// Clone returns a deep copy of the edge
func (e UseCaseEdge) Clone() UseCaseEdge {
	if e.Style != nil {
		s := *e.Style
		s.Dashed = cloneBool(s.Dashed)
		e.Style = &s
	}
	return e
}

// Touches reports whether the edge starts or ends at the node
func (e UseCaseEdge) Touches(nodeID string) bool {
	return e.SourceID == nodeID || e.TargetID == nodeID
}

// UseCaseColors is the palette new use-case nodes pick from
var UseCaseColors = []string{
	"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6", "#EC4899",
	"#06B6D4", "#84CC16", "#F97316", "#6366F1", "#14B8A6", "#A855F7",
}

// UseCaseNodePatch holds the node fields to overwrite; nil fields are left unchanged
type UseCaseNodePatch struct {
	Name        *string
	Description *string
	Color       *string
	Stereotype  *string
	Position    *Position
	Size        *Size
}

// Apply merges the patch into n
func (p UseCaseNodePatch) Apply(n *UseCaseNode) {
	if p.Name != nil {
		n.Data.Name = *p.Name
	}
	if p.Description != nil {
		n.Data.Description = *p.Description
	}
	if p.Color != nil {
		n.Data.Color = *p.Color
	}
	if p.Stereotype != nil {
		n.Data.Stereotype = *p.Stereotype
	}
	if p.Position != nil {
		n.Position = *p.Position
	}
	if p.Size != nil {
		n.Size = *p.Size
	}
}

// UseCaseEdgePatch holds the edge fields to overwrite; nil fields are left unchanged
type UseCaseEdgePatch struct {
	Type  *UseCaseEdgeKind
	Label *string
	Style *EdgeStyle
}

// Apply merges the patch into e
func (p UseCaseEdgePatch) Apply(e *UseCaseEdge) {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.Style != nil {
		s := *p.Style
		s.Dashed = cloneBool(s.Dashed)
		e.Style = &s
	}
}
