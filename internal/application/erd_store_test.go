package application

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diagrammer/internal/domain"
)

func newTestERDStore(opts ...Option) *ERDStore {
	defaults := []Option{WithIDGenerator(NewSequenceGenerator("id")), WithColorPicker(FirstColor)}
	return NewERDStore(append(defaults, opts...)...)
}

// twoTables creates A(id, fk) and B(id) and returns their ids plus the fk column id
func twoTables(t *testing.T, s *ERDStore) (a, b, aFK string) {
	t.Helper()
	a = s.AddTable(domain.Position{})
	b = s.AddTable(domain.Position{X: 300})
	aFK = s.AddColumn(a)
	require.NotEmpty(t, a)
	require.NotEmpty(t, b)
	require.NotEmpty(t, aFK)
	return a, b, aFK
}

func firstColumnID(t *testing.T, s *ERDStore, tableID string) string {
	t.Helper()
	table, ok := s.Table(tableID)
	require.True(t, ok)
	require.NotEmpty(t, table.Columns)
	return table.Columns[0].ID
}

func TestERDStore_AddTable(t *testing.T) {
	s := newTestERDStore()

	id := s.AddTable(domain.Position{X: 10, Y: 20})

	table, ok := s.Table(id)
	require.True(t, ok)
	assert.Equal(t, "Table_1", table.Name)
	assert.Equal(t, domain.Position{X: 10, Y: 20}, table.Position)
	assert.Equal(t, domain.TableColors[0], table.Color)
	require.Len(t, table.Columns, 1)

	pk := table.Columns[0]
	assert.Equal(t, "id", pk.Name)
	assert.Equal(t, domain.TypeInt, pk.DataType)
	assert.True(t, pk.IsPrimaryKey)
	assert.True(t, pk.IsAutoIncrement)
	assert.False(t, pk.Nullable)

	assert.Equal(t, Selection{NodeID: id}, s.Selection())
}

func TestERDStore_DefaultNamesAreCollisionFree(t *testing.T) {
	s := newTestERDStore()
	pattern := regexp.MustCompile(`^Table_\d+$`)

	first := s.AddTable(domain.Position{})
	second := s.AddTable(domain.Position{})

	t1, _ := s.Table(first)
	t2, _ := s.Table(second)
	assert.NotEqual(t, t1.Name, t2.Name)
	assert.Regexp(t, pattern, t1.Name)
	assert.Regexp(t, pattern, t2.Name)
	assert.Equal(t, "Table_2", t2.Name)

	// freed numbers are the smallest not in use at call time
	s.DeleteTable(first)
	third := s.AddTable(domain.Position{})
	t3, _ := s.Table(third)
	assert.Equal(t, "Table_1", t3.Name)
}

func TestERDStore_AddColumnDefaults(t *testing.T) {
	s := newTestERDStore()
	tableID := s.AddTable(domain.Position{})

	colID := s.AddColumn(tableID)

	table, _ := s.Table(tableID)
	require.Len(t, table.Columns, 2)
	col := table.Columns[1]
	assert.Equal(t, colID, col.ID)
	assert.Equal(t, "column_1", col.Name)
	assert.Equal(t, domain.TypeVarchar, col.DataType)
	require.NotNil(t, col.Length)
	assert.Equal(t, 255, *col.Length)
	assert.True(t, col.Nullable)
	assert.Equal(t, Selection{NodeID: tableID, SubElementID: colID}, s.Selection())

	assert.Empty(t, s.AddColumn("missing"))
}

func TestERDStore_UpdateIsLastWriteWins(t *testing.T) {
	s := newTestERDStore()
	id := s.AddTable(domain.Position{})
	name, comment := "users", "registered users"

	s.UpdateTable(id, domain.TablePatch{Name: &name})
	s.UpdateTable(id, domain.TablePatch{Comment: &comment})
	s.MoveTable(id, domain.Position{X: 5, Y: 6})
	s.UpdateTable("missing", domain.TablePatch{Name: &comment})

	table, _ := s.Table(id)
	assert.Equal(t, id, table.ID)
	assert.Equal(t, "users", table.Name)
	assert.Equal(t, "registered users", table.Comment)
	assert.Equal(t, domain.Position{X: 5, Y: 6}, table.Position)
	assert.Len(t, s.Tables(), 1)
}

func TestERDStore_DeleteTableCascadesRelations(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	bID := firstColumnID(t, s, b)

	relID, ok := s.AddRelation(RelationInput{
		SourceTableID:  a,
		SourceColumnID: aFK,
		TargetTableID:  b,
		TargetColumnID: bID,
		OnDelete:       domain.ActionCascade,
	})
	require.True(t, ok)
	assert.Equal(t, Selection{ConnectionID: relID}, s.Selection())

	s.DeleteTable(b)

	assert.Empty(t, s.Relations())
	table, ok := s.Table(a)
	require.True(t, ok, "table A must remain")
	assert.True(t, table.HasColumn(aFK), "fk column must remain")
	assert.True(t, s.Selection().Empty(), "selected relation was deleted")
	assert.Empty(t, s.CheckIntegrity())
}

func TestERDStore_DeleteColumnCascadesRelations(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	bID := firstColumnID(t, s, b)
	aID := firstColumnID(t, s, a)

	_, ok := s.AddRelation(RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: bID})
	require.True(t, ok)
	keep, ok := s.AddRelation(RelationInput{SourceTableID: b, SourceColumnID: bID, TargetTableID: a, TargetColumnID: aID})
	require.True(t, ok)

	s.SelectColumn(a, aFK)
	assert.True(t, s.DeleteColumn(a, aFK))

	rels := s.Relations()
	require.Len(t, rels, 1)
	assert.Equal(t, keep, rels[0].ID)
	assert.Equal(t, Selection{NodeID: a}, s.Selection())
	assert.Empty(t, s.CheckIntegrity())
}

func TestERDStore_LastColumnIsProtected(t *testing.T) {
	s := newTestERDStore()
	id := s.AddTable(domain.Position{})
	only := firstColumnID(t, s, id)

	assert.False(t, s.DeleteColumn(id, only))
	assert.False(t, s.DeleteColumn(id, "missing"))
	assert.False(t, s.DeleteColumn("missing", only))

	table, _ := s.Table(id)
	assert.Len(t, table.Columns, 1)
}

func TestERDStore_AddRelationRefusesUnresolvedEndpoints(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	bID := firstColumnID(t, s, b)

	tests := []struct {
		name string
		in   RelationInput
	}{
		{"missing source table", RelationInput{SourceTableID: "nope", SourceColumnID: aFK, TargetTableID: b, TargetColumnID: bID}},
		{"missing target table", RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: "nope", TargetColumnID: bID}},
		{"column of another table", RelationInput{SourceTableID: a, SourceColumnID: bID, TargetTableID: b, TargetColumnID: bID}},
		{"missing target column", RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: "nope"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := s.AddRelation(tt.in)
			assert.False(t, ok)
			assert.Empty(t, id)
			assert.Empty(t, s.Relations())
		})
	}
}

func TestERDStore_AddRelationDefaultsType(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)

	id, ok := s.AddRelation(RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: firstColumnID(t, s, b)})
	require.True(t, ok)

	rel, _ := s.Relation(id)
	assert.Equal(t, domain.OneToMany, rel.Type)
}

func TestERDStore_ReconnectRelation(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	aID, bID := firstColumnID(t, s, a), firstColumnID(t, s, b)
	id, ok := s.AddRelation(RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: bID})
	require.True(t, ok)

	assert.False(t, s.ReconnectRelation(id, RelationInput{SourceTableID: a, SourceColumnID: bID, TargetTableID: b, TargetColumnID: bID}))
	assert.True(t, s.ReconnectRelation(id, RelationInput{SourceTableID: b, SourceColumnID: bID, TargetTableID: a, TargetColumnID: aID}))

	rel, _ := s.Relation(id)
	assert.Equal(t, b, rel.SourceTableID)
	assert.Equal(t, aID, rel.TargetColumnID)
}

func TestERDStore_DuplicateTableIsIndependent(t *testing.T) {
	s := newTestERDStore()
	orig := s.AddTable(domain.Position{X: 100, Y: 100})
	col := s.AddColumn(orig)
	fk := true
	s.UpdateColumn(orig, col, domain.ColumnPatch{IsForeignKey: &fk})

	dup := s.DuplicateTable(orig)
	require.NotEmpty(t, dup)

	newName := "renamed"
	length := 32
	s.UpdateColumn(orig, col, domain.ColumnPatch{Name: &newName, Length: &length})

	original, _ := s.Table(orig)
	copyTable, _ := s.Table(dup)
	assert.Equal(t, "Table_1_copy", copyTable.Name)
	assert.Equal(t, domain.Position{X: 150, Y: 150}, copyTable.Position)
	require.Len(t, copyTable.Columns, len(original.Columns))
	assert.Equal(t, "column_1", copyTable.Columns[1].Name)
	assert.Equal(t, 255, *copyTable.Columns[1].Length)
	assert.False(t, copyTable.Columns[1].IsForeignKey)

	for i := range original.Columns {
		assert.NotEqual(t, original.Columns[i].ID, copyTable.Columns[i].ID)
	}
	assert.Equal(t, Selection{NodeID: dup}, s.Selection())
	assert.Empty(t, s.DuplicateTable("missing"))
}

func TestERDStore_ReorderColumns(t *testing.T) {
	s := newTestERDStore()
	id := s.AddTable(domain.Position{})
	pk := firstColumnID(t, s, id)
	c1 := s.AddColumn(id)
	c2 := s.AddColumn(id)

	s.ReorderColumns(id, []string{c2, "ghost", pk})

	table, _ := s.Table(id)
	var got []string
	for _, c := range table.Columns {
		got = append(got, c.ID)
	}
	assert.Equal(t, []string{c2, pk, c1}, got)
}

func TestERDStore_SelectionIsExclusive(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	rel, _ := s.AddRelation(RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: firstColumnID(t, s, b)})

	s.SelectTable(a)
	assert.Equal(t, Selection{NodeID: a}, s.Selection())

	s.SelectRelation(rel)
	assert.Equal(t, Selection{ConnectionID: rel}, s.Selection())

	s.SelectColumn(a, aFK)
	assert.Equal(t, Selection{NodeID: a, SubElementID: aFK}, s.Selection())

	s.SelectTable("")
	assert.True(t, s.Selection().Empty())

	s.SelectRelation(rel)
	s.ClearSelection()
	assert.True(t, s.Selection().Empty())
}

func TestERDStore_JSONRoundTrip(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	comment := "orders"
	s.UpdateTable(a, domain.TablePatch{Comment: &comment})
	prec, scale := 10, 2
	dt := domain.TypeDecimal
	s.UpdateColumn(a, aFK, domain.ColumnPatch{DataType: &dt, ClearSize: true, Precision: &prec, Scale: &scale})
	_, ok := s.AddRelation(RelationInput{
		Name: "fk_a_b", SourceTableID: a, SourceColumnID: aFK, TargetTableID: b,
		TargetColumnID: firstColumnID(t, s, b), OnDelete: domain.ActionSetNull, OnUpdate: domain.ActionCascade,
	})
	require.True(t, ok)

	text, err := s.ExportJSON()
	require.NoError(t, err)
	assert.Contains(t, text, "\n  \"tables\": [")

	restored := newTestERDStore()
	require.NoError(t, restored.ImportJSON(text))

	assert.Equal(t, s.Tables(), restored.Tables())
	assert.Equal(t, s.Relations(), restored.Relations())
	assert.True(t, restored.Selection().Empty())
	assert.Equal(t, s.ExportSQL(), restored.ExportSQL())
}

func TestERDStore_MalformedImportLeavesStoreUnchanged(t *testing.T) {
	s := newTestERDStore()
	a, _, _ := twoTables(t, s)
	s.SelectTable(a)
	before, err := s.ExportJSON()
	require.NoError(t, err)

	for _, input := range []string{`{not json`, `{"relations": []}`, `{"tables": "nope"}`, `[]`, `null`} {
		t.Run(input, func(t *testing.T) {
			err := s.ImportJSON(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedInput))

			after, _ := s.ExportJSON()
			assert.Equal(t, before, after)
			assert.Equal(t, Selection{NodeID: a}, s.Selection())
		})
	}
}

func TestERDStore_ImportWithoutRelations(t *testing.T) {
	s := newTestERDStore()
	twoTables(t, s)

	require.NoError(t, s.ImportJSON(`{"tables": [{"id": "t1", "name": "users", "columns": [], "color": "#fff", "position": {"x": 1, "y": 2}}]}`))

	assert.Len(t, s.Tables(), 1)
	assert.NotNil(t, s.Relations())
	assert.Empty(t, s.Relations())
}

func TestERDStore_ImportDoesNotValidateReferences(t *testing.T) {
	s := newTestERDStore()
	snapshot := `{"tables": [], "relations": [{"id": "r1", "type": "ONE_TO_ONE", "sourceTableId": "x", "sourceColumnId": "y", "targetTableId": "z", "targetColumnId": "w"}]}`

	require.NoError(t, s.ImportJSON(snapshot))

	violations := s.CheckIntegrity()
	require.Len(t, violations, 1)
	assert.Equal(t, "r1", violations[0].ConnectionID)
	assert.NotContains(t, s.ExportSQL(), "ALTER TABLE")
}

func TestERDStore_ClearAll(t *testing.T) {
	s := newTestERDStore()
	twoTables(t, s)

	s.ClearAll()

	assert.Empty(t, s.Tables())
	assert.Empty(t, s.Relations())
	assert.True(t, s.Selection().Empty())
	text, _ := s.ExportJSON()
	assert.JSONEq(t, `{"tables": [], "relations": []}`, text)
}

func TestERDStore_PersistsAfterEveryChange(t *testing.T) {
	var saved [][]byte
	var notified []domain.DiagramKind
	s := newTestERDStore(
		WithPersister(func(data []byte) error {
			saved = append(saved, data)
			return nil
		}),
		WithObserver(func(kind domain.DiagramKind) { notified = append(notified, kind) }),
	)

	id := s.AddTable(domain.Position{})
	s.SelectTable(id)          // selection only, nothing to persist
	s.DeleteTable("missing")   // no-op
	s.DeleteColumn(id, "none") // refused

	require.Len(t, saved, 1)
	assert.Contains(t, string(saved[0]), `"name":"Table_1"`)
	assert.Equal(t, []domain.DiagramKind{domain.KindERD}, notified)
}

func TestERDStore_PersistFailureIsSwallowed(t *testing.T) {
	s := newTestERDStore(WithPersister(func([]byte) error {
		return errors.New("disk full")
	}))

	id := s.AddTable(domain.Position{})

	_, ok := s.Table(id)
	assert.True(t, ok)
}

func TestERDStore_ReadersGetCopies(t *testing.T) {
	s := newTestERDStore()
	id := s.AddTable(domain.Position{})

	tables := s.Tables()
	tables[0].Name = "mutated"
	tables[0].Columns[0].Name = "mutated"

	table, _ := s.Table(id)
	assert.Equal(t, "Table_1", table.Name)
	assert.Equal(t, "id", table.Columns[0].Name)
}

func TestERDStore_SQLStatements(t *testing.T) {
	s := newTestERDStore()
	a, b, aFK := twoTables(t, s)
	_, ok := s.AddRelation(RelationInput{SourceTableID: a, SourceColumnID: aFK, TargetTableID: b, TargetColumnID: firstColumnID(t, s, b)})
	require.True(t, ok)

	stmts := s.SQLStatements()

	require.Len(t, stmts, 3)
	assert.Regexp(t, "^CREATE TABLE", stmts[0])
	assert.Regexp(t, "^CREATE TABLE", stmts[1])
	assert.Regexp(t, "^ALTER TABLE .* FOREIGN KEY", stmts[2])
	assert.Equal(t, stmts, domain.SplitStatements(s.ExportSQL()))
}
