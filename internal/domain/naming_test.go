package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextName(t *testing.T) {
	tests := []struct {
		name     string
		existing []string
		want     string
	}{
		{
			name:     "empty collection starts at one",
			existing: nil,
			want:     "Table_1",
		},
		{
			name:     "skips used numbers",
			existing: []string{"Table_1", "Table_2"},
			want:     "Table_3",
		},
		{
			name:     "reuses the lowest freed number",
			existing: []string{"Table_1", "Table_3"},
			want:     "Table_2",
		},
		{
			name:     "ignores unrelated names",
			existing: []string{"users", "Table_x", "table_1"},
			want:     "Table_1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextName("Table", "_", tt.existing))
		})
	}
}

func TestTableAndColumnNames(t *testing.T) {
	tables := []Table{{Name: "Table_1"}, {Name: "orders"}}
	assert.Equal(t, "Table_2", TableName(tables))

	columns := []Column{{Name: "id"}, {Name: "column_1"}, {Name: "column_2"}}
	assert.Equal(t, "column_3", ColumnName(columns))
}

func TestUseCaseNodeName_CountsSameKindOnly(t *testing.T) {
	nodes := []UseCaseNode{
		{Type: NodeActor, Data: UseCaseNodeData{Name: "Actor 1"}},
		{Type: NodeUseCase, Data: UseCaseNodeData{Name: "Use Case 1"}},
		{Type: NodeUseCase, Data: UseCaseNodeData{Name: "Actor 2"}},
	}

	assert.Equal(t, "Actor 2", UseCaseNodeName(NodeActor, nodes))
	assert.Equal(t, "Use Case 2", UseCaseNodeName(NodeUseCase, nodes))
	assert.Equal(t, "System 1", UseCaseNodeName(NodeSystem, nodes))
	assert.Equal(t, "Note 1", UseCaseNodeName(NodeNote, nodes))
}
