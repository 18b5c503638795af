package application

import (
	"encoding/json"
	"sync"

	"diagrammer/internal/domain"
)

// FlowchartSnapshot is the JSON document a flowchart store exports and imports
type FlowchartSnapshot struct {
	Nodes []domain.FlowchartNode `json:"nodes"`
	Edges []domain.FlowchartEdge `json:"edges"`
}

// EdgeInput describes a flowchart edge to create. Type defaults to smooth;
// Data is overlaid on domain.DefaultEdgeData.
type EdgeInput struct {
	Source       string
	Target       string
	Type         domain.EdgeRouting
	Label        string
	SourceHandle string
	TargetHandle string
	Data         *domain.EdgeData
}

// FlowchartStore owns the shapes and edges of one flowchart
type FlowchartStore struct {
	base

	mu        sync.RWMutex
	nodes     []domain.FlowchartNode
	edges     []domain.FlowchartEdge
	selection Selection
}

// NewFlowchartStore creates an empty flowchart store
func NewFlowchartStore(opts ...Option) *FlowchartStore {
	return &FlowchartStore{
		base:  base{kind: domain.KindFlowchart, storeOptions: newStoreOptions(opts)},
		nodes: []domain.FlowchartNode{},
		edges: []domain.FlowchartEdge{},
	}
}

func (s *FlowchartStore) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.persistLocked(FlowchartSnapshot{Nodes: s.nodes, Edges: s.edges})
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return changed
}

func (s *FlowchartStore) nodeIndex(id string) int {
	return indexOf(s.nodes, func(n domain.FlowchartNode) bool { return n.ID == id })
}

func (s *FlowchartStore) edgeIndex(id string) int {
	return indexOf(s.edges, func(e domain.FlowchartEdge) bool { return e.ID == id })
}

// AddNode appends a node built from the shape library defaults and selects
// it. Unknown shape kinds become process shapes. The new node's z-index is
// the node count before the add.
func (s *FlowchartStore) AddNode(kind domain.ShapeKind, pos domain.Position) string {
	if !kind.Valid() {
		kind = domain.ShapeProcess
	}
	def := domain.ShapeDefaults(kind)

	var id string
	s.mutate(func() bool {
		id = s.ids.NewID()
		s.nodes = append(s.nodes, domain.FlowchartNode{
			ID:       id,
			Type:     kind,
			Position: pos,
			Size:     def.DefaultSize,
			Data: domain.NodeData{
				Label:       def.Label,
				Color:       def.DefaultColor,
				BorderColor: def.DefaultColor,
				TextColor:   "#FFFFFF",
				FontSize:    14,
				BorderWidth: 2,
				BorderStyle: domain.BorderSolid,
				Opacity:     ptr(1.0),
			},
			ZIndex: len(s.nodes),
		})
		s.selection = Selection{NodeID: id}
		return true
	})
	return id
}

// UpdateNode merges the patch into the node
func (s *FlowchartStore) UpdateNode(id string, patch domain.NodePatch) {
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.nodes[i])
		return true
	})
}

// UpdateNodeData merges the patch into the node's styling
func (s *FlowchartStore) UpdateNodeData(id string, patch domain.NodeDataPatch) {
	s.UpdateNode(id, domain.NodePatch{Data: &patch})
}

func (s *FlowchartStore) MoveNode(id string, pos domain.Position) {
	s.UpdateNode(id, domain.NodePatch{Position: &pos})
}

func (s *FlowchartStore) ResizeNode(id string, size domain.Size) {
	s.UpdateNode(id, domain.NodePatch{Size: &size})
}

func (s *FlowchartStore) RotateNode(id string, degrees float64) {
	s.UpdateNode(id, domain.NodePatch{Rotation: &degrees})
}

// DeleteNode removes the node and every edge touching it
func (s *FlowchartStore) DeleteNode(id string) {
	s.mutate(func() bool {
		return s.deleteNodeLocked(id)
	})
}

func (s *FlowchartStore) deleteNodeLocked(id string) bool {
	i := s.nodeIndex(id)
	if i < 0 {
		return false
	}
	s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	s.removeEdges(func(e domain.FlowchartEdge) bool { return e.Touches(id) })
	if s.selection.NodeID == id {
		s.selection = Selection{}
	}
	return true
}

func (s *FlowchartStore) removeEdges(match func(domain.FlowchartEdge) bool) {
	kept := s.edges[:0]
	for _, e := range s.edges {
		if match(e) {
			if s.selection.ConnectionID == e.ID {
				s.selection = Selection{}
			}
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
}

// DuplicateNode copies the node with a fresh id, offset by
// domain.DuplicateOffset on both axes, and selects the copy.
// Returns "" when id is unknown.
func (s *FlowchartStore) DuplicateNode(id string) string {
	var newID string
	s.mutate(func() bool {
		newID = s.duplicateNodeLocked(id)
		return newID != ""
	})
	return newID
}

func (s *FlowchartStore) duplicateNodeLocked(id string) string {
	i := s.nodeIndex(id)
	if i < 0 {
		return ""
	}
	dup := s.nodes[i].Clone()
	dup.ID = s.ids.NewID()
	dup.Position = dup.Position.Offset(domain.DuplicateOffset, domain.DuplicateOffset)
	dup.ZIndex = len(s.nodes)
	s.nodes = append(s.nodes, dup)
	s.selection = Selection{NodeID: dup.ID}
	return dup.ID
}

// BringToFront gives the node a z-index one above the current maximum
func (s *FlowchartStore) BringToFront(id string) {
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		top := s.nodes[0].ZIndex
		for _, n := range s.nodes[1:] {
			top = max(top, n.ZIndex)
		}
		s.nodes[i].ZIndex = top + 1
		return true
	})
}

// SendToBack gives the node a z-index one below the current minimum
func (s *FlowchartStore) SendToBack(id string) {
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		bottom := s.nodes[0].ZIndex
		for _, n := range s.nodes[1:] {
			bottom = min(bottom, n.ZIndex)
		}
		s.nodes[i].ZIndex = bottom - 1
		return true
	})
}

// AddEdge appends an edge and selects it. Refused when either endpoint is
// not a node of this flowchart.
func (s *FlowchartStore) AddEdge(in EdgeInput) (string, bool) {
	var id string
	ok := s.mutate(func() bool {
		if s.nodeIndex(in.Source) < 0 || s.nodeIndex(in.Target) < 0 {
			return false
		}
		if in.Type == "" {
			in.Type = domain.RoutingSmooth
		}
		data := domain.DefaultEdgeData()
		if in.Data != nil {
			data = data.Merge(*in.Data)
		}
		id = s.ids.NewID()
		s.edges = append(s.edges, domain.FlowchartEdge{
			ID:           id,
			Source:       in.Source,
			Target:       in.Target,
			Type:         in.Type,
			Label:        in.Label,
			Data:         data,
			SourceHandle: in.SourceHandle,
			TargetHandle: in.TargetHandle,
		})
		s.selection = Selection{ConnectionID: id}
		return true
	})
	return id, ok
}

// ReconnectEdge moves the edge's endpoints. Refused when either does not resolve.
func (s *FlowchartStore) ReconnectEdge(id, source, target string) bool {
	return s.mutate(func() bool {
		i := s.edgeIndex(id)
		if i < 0 || s.nodeIndex(source) < 0 || s.nodeIndex(target) < 0 {
			return false
		}
		s.edges[i].Source, s.edges[i].Target = source, target
		return true
	})
}

// UpdateEdge merges the patch into the edge
func (s *FlowchartStore) UpdateEdge(id string, patch domain.EdgePatch) {
	s.mutate(func() bool {
		i := s.edgeIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.edges[i])
		return true
	})
}

// UpdateEdgeData overlays data on the edge's styling
func (s *FlowchartStore) UpdateEdgeData(id string, data domain.EdgeData) {
	s.UpdateEdge(id, domain.EdgePatch{Data: &data})
}

func (s *FlowchartStore) DeleteEdge(id string) {
	s.mutate(func() bool {
		return s.deleteEdgeLocked(id)
	})
}

func (s *FlowchartStore) deleteEdgeLocked(id string) bool {
	if s.edgeIndex(id) < 0 {
		return false
	}
	s.removeEdges(func(e domain.FlowchartEdge) bool { return e.ID == id })
	return true
}

// SelectNode selects the node and clears the edge selection
func (s *FlowchartStore) SelectNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{NodeID: id}
}

// SelectEdge selects the edge and clears the node selection
func (s *FlowchartStore) SelectEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{ConnectionID: id}
}

func (s *FlowchartStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{}
}

func (s *FlowchartStore) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// DeleteSelected deletes the selected node, or the selected edge when no
// node is selected.
func (s *FlowchartStore) DeleteSelected() {
	s.mutate(func() bool {
		switch {
		case s.selection.NodeID != "":
			return s.deleteNodeLocked(s.selection.NodeID)
		case s.selection.ConnectionID != "":
			return s.deleteEdgeLocked(s.selection.ConnectionID)
		}
		return false
	})
}

// DuplicateSelected duplicates the selected node, if any
func (s *FlowchartStore) DuplicateSelected() string {
	var newID string
	s.mutate(func() bool {
		if s.selection.NodeID == "" {
			return false
		}
		newID = s.duplicateNodeLocked(s.selection.NodeID)
		return newID != ""
	})
	return newID
}

// Nodes returns a deep copy of the node collection
func (s *FlowchartStore) Nodes() []domain.FlowchartNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FlowchartNode, len(s.nodes))
	for i, n := range s.nodes {
		out[i] = n.Clone()
	}
	return out
}

// Edges returns a deep copy of the edge collection
func (s *FlowchartStore) Edges() []domain.FlowchartEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.FlowchartEdge, len(s.edges))
	for i, e := range s.edges {
		out[i] = e.Clone()
	}
	return out
}

func (s *FlowchartStore) Node(id string) (domain.FlowchartNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.nodeIndex(id)
	if i < 0 {
		return domain.FlowchartNode{}, false
	}
	return s.nodes[i].Clone(), true
}

func (s *FlowchartStore) Edge(id string) (domain.FlowchartEdge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.edgeIndex(id)
	if i < 0 {
		return domain.FlowchartEdge{}, false
	}
	return s.edges[i].Clone(), true
}

// ExportJSON returns the pretty printed snapshot
func (s *FlowchartStore) ExportJSON() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encodeSnapshot(FlowchartSnapshot{Nodes: s.nodes, Edges: s.edges})
}

// ImportJSON replaces both collections and clears the selection. The error
// wraps ErrMalformedInput when text is not JSON or has no "nodes" array.
func (s *FlowchartStore) ImportJSON(text string) error {
	var raw struct {
		Nodes *[]domain.FlowchartNode `json:"nodes"`
		Edges *[]domain.FlowchartEdge `json:"edges"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &ImportError{Kind: s.kind.String(), Reason: "invalid JSON", Err: err}
	}
	if raw.Nodes == nil {
		return &ImportError{Kind: s.kind.String(), Reason: `missing "nodes" array`}
	}

	s.mutate(func() bool {
		s.nodes = *raw.Nodes
		s.edges = []domain.FlowchartEdge{}
		if raw.Edges != nil {
			s.edges = *raw.Edges
		}
		s.selection = Selection{}
		return true
	})
	return nil
}

func (s *FlowchartStore) ClearAll() {
	s.mutate(func() bool {
		s.nodes = []domain.FlowchartNode{}
		s.edges = []domain.FlowchartEdge{}
		s.selection = Selection{}
		return true
	})
}

// CheckIntegrity lists edges whose endpoints are not nodes of this flowchart
func (s *FlowchartStore) CheckIntegrity() []IntegrityViolation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []IntegrityViolation
	for _, e := range s.edges {
		switch {
		case s.nodeIndex(e.Source) < 0:
			out = append(out, IntegrityViolation{e.ID, "source node " + e.Source + " does not exist"})
		case s.nodeIndex(e.Target) < 0:
			out = append(out, IntegrityViolation{e.ID, "target node " + e.Target + " does not exist"})
		}
	}
	return out
}
