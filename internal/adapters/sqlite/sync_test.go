package sqlite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/domain"
)

type mapSnapshots map[domain.DiagramKind][]byte

func (m mapSnapshots) Load(kind domain.DiagramKind) ([]byte, bool, error) {
	d, ok := m[kind]
	return d, ok, nil
}

func (m mapSnapshots) Save(kind domain.DiagramKind, data []byte) error {
	m[kind] = data
	return nil
}

func (m mapSnapshots) Kinds() ([]domain.DiagramKind, error) {
	var kinds []domain.DiagramKind
	for _, k := range domain.AllKinds {
		if _, ok := m[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

func (m mapSnapshots) Close() error { return nil }

func TestSyncFrom(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Save(domain.KindERD, []byte(`{"tables":[]}`)))
	assert.True(t, s.LastSync().IsZero())

	src := mapSnapshots{
		domain.KindERD:       []byte(`{"tables":[]}`),
		domain.KindFlowchart: []byte(`{"nodes":[],"edges":[]}`),
	}

	stats, err := s.SyncFrom(src)

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Copied)
	assert.Equal(t, 1, stats.Unchanged)
	assert.False(t, s.LastSync().IsZero())

	data, ok, err := s.Load(domain.KindFlowchart)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"nodes":[],"edges":[]}`, string(data))
}
