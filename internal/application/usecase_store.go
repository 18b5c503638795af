package application

import (
	"encoding/json"
	"sync"

	"diagrammer/internal/domain"
)

// UseCaseSnapshot is the JSON document a use-case store exports and imports
type UseCaseSnapshot struct {
	Nodes []domain.UseCaseNode `json:"nodes"`
	Edges []domain.UseCaseEdge `json:"edges"`
}

// UseCaseStore owns the actors, use cases, systems, notes and edges of one
// use-case diagram.
type UseCaseStore struct {
	base

	mu        sync.RWMutex
	nodes     []domain.UseCaseNode
	edges     []domain.UseCaseEdge
	selection Selection
}

// NewUseCaseStore creates an empty use-case store
func NewUseCaseStore(opts ...Option) *UseCaseStore {
	return &UseCaseStore{
		base:  base{kind: domain.KindUseCase, storeOptions: newStoreOptions(opts)},
		nodes: []domain.UseCaseNode{},
		edges: []domain.UseCaseEdge{},
	}
}

func (s *UseCaseStore) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.persistLocked(UseCaseSnapshot{Nodes: s.nodes, Edges: s.edges})
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return changed
}

func (s *UseCaseStore) nodeIndex(id string) int {
	return indexOf(s.nodes, func(n domain.UseCaseNode) bool { return n.ID == id })
}

func (s *UseCaseStore) edgeIndex(id string) int {
	return indexOf(s.edges, func(e domain.UseCaseEdge) bool { return e.ID == id })
}

// AddNode appends a node named after its kind ("Actor 1", "Use Case 2", ...)
// and selects it. Returns "" for an unknown kind.
func (s *UseCaseStore) AddNode(kind domain.UseCaseNodeKind, pos domain.Position) string {
	if !kind.Valid() {
		return ""
	}
	var id string
	s.mutate(func() bool {
		id = s.ids.NewID()
		s.nodes = append(s.nodes, domain.UseCaseNode{
			ID:       id,
			Type:     kind,
			Position: pos,
			Size:     kind.DefaultSize(),
			Data: domain.UseCaseNodeData{
				Name:  domain.UseCaseNodeName(kind, s.nodes),
				Color: s.pickColor(domain.UseCaseColors),
			},
		})
		s.selection = Selection{NodeID: id}
		return true
	})
	return id
}

// UpdateNode merges the patch into the node
func (s *UseCaseStore) UpdateNode(id string, patch domain.UseCaseNodePatch) {
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.nodes[i])
		return true
	})
}

func (s *UseCaseStore) MoveNode(id string, pos domain.Position) {
	s.UpdateNode(id, domain.UseCaseNodePatch{Position: &pos})
}

func (s *UseCaseStore) ResizeNode(id string, size domain.Size) {
	s.UpdateNode(id, domain.UseCaseNodePatch{Size: &size})
}

// DeleteNode removes the node and every edge touching it
func (s *UseCaseStore) DeleteNode(id string) {
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
		s.removeEdges(func(e domain.UseCaseEdge) bool { return e.Touches(id) })
		if s.selection.NodeID == id {
			s.selection = Selection{}
		}
		return true
	})
}

func (s *UseCaseStore) removeEdges(match func(domain.UseCaseEdge) bool) {
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

// DuplicateNode copies the node with a fresh id, an offset position and the
// next default name for its kind, then selects the copy.
func (s *UseCaseStore) DuplicateNode(id string) string {
	var newID string
	s.mutate(func() bool {
		i := s.nodeIndex(id)
		if i < 0 {
			return false
		}
		dup := s.nodes[i]
		newID = s.ids.NewID()
		dup.ID = newID
		dup.Position = dup.Position.Offset(domain.DuplicateOffset, domain.DuplicateOffset)
		dup.Data.Name = domain.UseCaseNodeName(dup.Type, s.nodes)
		s.nodes = append(s.nodes, dup)
		s.selection = Selection{NodeID: newID}
		return true
	})
	return newID
}

// AddEdge appends an edge and selects it. INCLUDE and EXTEND edges get a
// «include» / «extend» label when label is empty. Refused when the kind is
// unknown or an endpoint is not a node of this diagram.
func (s *UseCaseStore) AddEdge(kind domain.UseCaseEdgeKind, sourceID, targetID, label string) (string, bool) {
	if !kind.Valid() {
		return "", false
	}
	if label == "" {
		label = kind.DefaultLabel()
	}
	var id string
	ok := s.mutate(func() bool {
		if s.nodeIndex(sourceID) < 0 || s.nodeIndex(targetID) < 0 {
			return false
		}
		id = s.ids.NewID()
		s.edges = append(s.edges, domain.UseCaseEdge{
			ID:       id,
			Type:     kind,
			SourceID: sourceID,
			TargetID: targetID,
			Label:    label,
		})
		s.selection = Selection{ConnectionID: id}
		return true
	})
	return id, ok
}

// ReconnectEdge moves the edge's endpoints. Refused when either does not resolve.
func (s *UseCaseStore) ReconnectEdge(id, sourceID, targetID string) bool {
	return s.mutate(func() bool {
		i := s.edgeIndex(id)
		if i < 0 || s.nodeIndex(sourceID) < 0 || s.nodeIndex(targetID) < 0 {
			return false
		}
		s.edges[i].SourceID, s.edges[i].TargetID = sourceID, targetID
		return true
	})
}

// UpdateEdge merges the patch into the edge
func (s *UseCaseStore) UpdateEdge(id string, patch domain.UseCaseEdgePatch) {
	s.mutate(func() bool {
		i := s.edgeIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.edges[i])
		return true
	})
}

func (s *UseCaseStore) DeleteEdge(id string) {
	s.mutate(func() bool {
		if s.edgeIndex(id) < 0 {
			return false
		}
		s.removeEdges(func(e domain.UseCaseEdge) bool { return e.ID == id })
		return true
	})
}

func (s *UseCaseStore) SelectNode(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{NodeID: id}
}

func (s *UseCaseStore) SelectEdge(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{ConnectionID: id}
}

func (s *UseCaseStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{}
}

func (s *UseCaseStore) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

func (s *UseCaseStore) Nodes() []domain.UseCaseNode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UseCaseNode, len(s.nodes))
	copy(out, s.nodes)
	return out
}

func (s *UseCaseStore) Edges() []domain.UseCaseEdge {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.UseCaseEdge, len(s.edges))
	for i, e := range s.edges {
		out[i] = e.Clone()
	}
	return out
}

func (s *UseCaseStore) Node(id string) (domain.UseCaseNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.nodeIndex(id)
	if i < 0 {
		return domain.UseCaseNode{}, false
	}
	return s.nodes[i], true
}

func (s *UseCaseStore) Edge(id string) (domain.UseCaseEdge, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.edgeIndex(id)
	if i < 0 {
		return domain.UseCaseEdge{}, false
	}
	return s.edges[i].Clone(), true
}

// ExportJSON returns the pretty printed snapshot
func (s *UseCaseStore) ExportJSON() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encodeSnapshot(UseCaseSnapshot{Nodes: s.nodes, Edges: s.edges})
}

// ImportJSON replaces both collections and clears the selection. Only the
// "nodes" array is required; a missing "edges" array imports as empty.
func (s *UseCaseStore) ImportJSON(text string) error {
	var raw struct {
		Nodes *[]domain.UseCaseNode `json:"nodes"`
		Edges *[]domain.UseCaseEdge `json:"edges"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &ImportError{Kind: s.kind.String(), Reason: "invalid JSON", Err: err}
	}
	if raw.Nodes == nil {
		return &ImportError{Kind: s.kind.String(), Reason: `missing "nodes" array`}
	}

	s.mutate(func() bool {
		s.nodes = *raw.Nodes
		s.edges = []domain.UseCaseEdge{}
		if raw.Edges != nil {
			s.edges = *raw.Edges
		}
		s.selection = Selection{}
		return true
	})
	return nil
}

func (s *UseCaseStore) ClearAll() {
	s.mutate(func() bool {
		s.nodes = []domain.UseCaseNode{}
		s.edges = []domain.UseCaseEdge{}
		s.selection = Selection{}
		return true
	})
}

// CheckIntegrity lists edges whose endpoints are not nodes of this diagram
func (s *UseCaseStore) CheckIntegrity() []IntegrityViolation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []IntegrityViolation
	for _, e := range s.edges {
		switch {
		case s.nodeIndex(e.SourceID) < 0:
			out = append(out, IntegrityViolation{e.ID, "source node " + e.SourceID + " does not exist"})
		case s.nodeIndex(e.TargetID) < 0:
			out = append(out, IntegrityViolation{e.ID, "target node " + e.TargetID + " does not exist"})
		}
	}
	return out
}
