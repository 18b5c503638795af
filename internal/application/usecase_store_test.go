package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/domain"
)

func newTestUseCaseStore(opts ...Option) *UseCaseStore {
	defaults := []Option{WithIDGenerator(NewSequenceGenerator("u")), WithColorPicker(FirstColor)}
	return NewUseCaseStore(append(defaults, opts...)...)
}

func TestUseCaseStore_AddNode(t *testing.T) {
	s := newTestUseCaseStore()

	actor1 := s.AddNode(domain.NodeActor, domain.Position{})
	uc := s.AddNode(domain.NodeUseCase, domain.Position{})
	actor2 := s.AddNode(domain.NodeActor, domain.Position{})

	n1, _ := s.Node(actor1)
	n2, _ := s.Node(uc)
	n3, _ := s.Node(actor2)
	assert.Equal(t, "Actor 1", n1.Data.Name)
	assert.Equal(t, "Use Case 1", n2.Data.Name)
	assert.Equal(t, "Actor 2", n3.Data.Name)
	assert.Equal(t, domain.Size{Width: 80, Height: 100}, n1.Size)
	assert.Equal(t, domain.Size{Width: 160, Height: 60}, n2.Size)
	assert.Equal(t, domain.UseCaseColors[0], n1.Data.Color)
	assert.Equal(t, Selection{NodeID: actor2}, s.Selection())

	assert.Empty(t, s.AddNode("BOUNDARY", domain.Position{}))
}

func TestUseCaseStore_AddEdgeDefaultLabels(t *testing.T) {
	s := newTestUseCaseStore()
	a := s.AddNode(domain.NodeUseCase, domain.Position{})
	b := s.AddNode(domain.NodeUseCase, domain.Position{})

	tests := []struct {
		kind  domain.UseCaseEdgeKind
		label string
		want  string
	}{
		{domain.EdgeInclude, "", "«include»"},
		{domain.EdgeExtend, "", "«extend»"},
		{domain.EdgeAssociation, "", ""},
		{domain.EdgeGeneralization, "", ""},
		{domain.EdgeInclude, "uses", "uses"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.label, func(t *testing.T) {
			id, ok := s.AddEdge(tt.kind, a, b, tt.label)
			require.True(t, ok)
			e, _ := s.Edge(id)
			assert.Equal(t, tt.want, e.Label)
			assert.Equal(t, Selection{ConnectionID: id}, s.Selection())
		})
	}
}

func TestUseCaseStore_AddEdgeRefused(t *testing.T) {
	s := newTestUseCaseStore()
	a := s.AddNode(domain.NodeActor, domain.Position{})

	_, ok := s.AddEdge(domain.EdgeAssociation, a, "ghost", "")
	assert.False(t, ok)
	_, ok = s.AddEdge("FRIENDSHIP", a, a, "")
	assert.False(t, ok)
	assert.Empty(t, s.Edges())
}

func TestUseCaseStore_DeleteNodeCascades(t *testing.T) {
	s := newTestUseCaseStore()
	actor := s.AddNode(domain.NodeActor, domain.Position{})
	login := s.AddNode(domain.NodeUseCase, domain.Position{})
	audit := s.AddNode(domain.NodeUseCase, domain.Position{})
	assoc, _ := s.AddEdge(domain.EdgeAssociation, actor, login, "")
	_, _ = s.AddEdge(domain.EdgeInclude, login, audit, "")
	s.SelectEdge(assoc)

	s.DeleteNode(login)

	assert.Empty(t, s.Edges())
	assert.Len(t, s.Nodes(), 2)
	assert.True(t, s.Selection().Empty())
}

func TestUseCaseStore_DuplicateNodeGetsNextName(t *testing.T) {
	s := newTestUseCaseStore()
	id := s.AddNode(domain.NodeSystem, domain.Position{X: 10, Y: 20})
	desc := "billing"
	s.UpdateNode(id, domain.UseCaseNodePatch{Description: &desc})

	dup := s.DuplicateNode(id)

	n, ok := s.Node(dup)
	require.True(t, ok)
	assert.Equal(t, "System 2", n.Data.Name)
	assert.Equal(t, "billing", n.Data.Description)
	assert.Equal(t, domain.Position{X: 60, Y: 70}, n.Position)
	assert.Equal(t, Selection{NodeID: dup}, s.Selection())
}

func TestUseCaseStore_UpdateEdgeStyleIsCopied(t *testing.T) {
	s := newTestUseCaseStore()
	a := s.AddNode(domain.NodeActor, domain.Position{})
	b := s.AddNode(domain.NodeUseCase, domain.Position{})
	id, _ := s.AddEdge(domain.EdgeDependency, a, b, "")
	dashed := true
	style := &domain.EdgeStyle{Color: "#111111", Dashed: &dashed}

	s.UpdateEdge(id, domain.UseCaseEdgePatch{Style: style})
	*style.Dashed = false

	e, _ := s.Edge(id)
	require.NotNil(t, e.Style)
	assert.True(t, *e.Style.Dashed)
}

func TestUseCaseStore_ReconnectEdge(t *testing.T) {
	s := newTestUseCaseStore()
	a := s.AddNode(domain.NodeActor, domain.Position{})
	b := s.AddNode(domain.NodeUseCase, domain.Position{})
	c := s.AddNode(domain.NodeUseCase, domain.Position{})
	id, _ := s.AddEdge(domain.EdgeAssociation, a, b, "")

	assert.True(t, s.ReconnectEdge(id, a, c))
	assert.False(t, s.ReconnectEdge(id, a, "ghost"))

	e, _ := s.Edge(id)
	assert.Equal(t, c, e.TargetID)
}

func TestUseCaseStore_JSONRoundTrip(t *testing.T) {
	s := newTestUseCaseStore()
	a := s.AddNode(domain.NodeActor, domain.Position{X: 1, Y: 2})
	b := s.AddNode(domain.NodeUseCase, domain.Position{X: 3, Y: 4})
	stereo := "business"
	s.UpdateNode(b, domain.UseCaseNodePatch{Stereotype: &stereo})
	_, ok := s.AddEdge(domain.EdgeExtend, a, b, "")
	require.True(t, ok)

	text, err := s.ExportJSON()
	require.NoError(t, err)

	restored := newTestUseCaseStore()
	require.NoError(t, restored.ImportJSON(text))
	assert.Equal(t, s.Nodes(), restored.Nodes())
	assert.Equal(t, s.Edges(), restored.Edges())
}

func TestUseCaseStore_ImportRequiresOnlyNodes(t *testing.T) {
	s := newTestUseCaseStore()

	require.NoError(t, s.ImportJSON(`{"nodes": []}`))
	assert.Empty(t, s.Edges())

	err := s.ImportJSON(`{"edges": []}`)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}
