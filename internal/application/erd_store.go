package application

import (
	"encoding/json"
	"sync"

	"diagrammer/internal/domain"
)

// ERDSnapshot is the JSON document an ERD store exports and imports
type ERDSnapshot struct {
	Tables    []domain.Table    `json:"tables"`
	Relations []domain.Relation `json:"relations"`
}

// RelationInput describes a relation to create or the new endpoints of an
// existing one. Type defaults to ONE_TO_MANY.
type RelationInput struct {
	Name           string
	Type           domain.RelationType
	SourceTableID  string
	SourceColumnID string
	TargetTableID  string
	TargetColumnID string
	OnDelete       domain.ReferentialAction
	OnUpdate       domain.ReferentialAction
}

// ERDStore owns the tables and relations of one entity-relationship diagram.
// Operations on unknown ids are no-ops.
type ERDStore struct {
	base

	mu        sync.RWMutex
	tables    []domain.Table
	relations []domain.Relation
	selection Selection
}

// NewERDStore creates an empty ERD store
func NewERDStore(opts ...Option) *ERDStore {
	return &ERDStore{
		base:      base{kind: domain.KindERD, storeOptions: newStoreOptions(opts)},
		tables:    []domain.Table{},
		relations: []domain.Relation{},
	}
}

// mutate runs fn under the write lock and, when fn reports a change,
// persists the snapshot and notifies observers.
func (s *ERDStore) mutate(fn func() bool) bool {
	s.mu.Lock()
	changed := fn()
	if changed {
		s.persistLocked(ERDSnapshot{Tables: s.tables, Relations: s.relations})
	}
	s.mu.Unlock()
	if changed {
		s.notify()
	}
	return changed
}

func (s *ERDStore) tableIndex(id string) int {
	return indexOf(s.tables, func(t domain.Table) bool { return t.ID == id })
}

func (s *ERDStore) relationIndex(id string) int {
	return indexOf(s.relations, func(r domain.Relation) bool { return r.ID == id })
}

// AddTable appends a table with a single auto-increment primary key column
// and selects it.
func (s *ERDStore) AddTable(pos domain.Position) string {
	var id string
	s.mutate(func() bool {
		id = s.ids.NewID()
		s.tables = append(s.tables, domain.Table{
			ID:   id,
			Name: domain.TableName(s.tables),
			Columns: []domain.Column{{
				ID:              s.ids.NewID(),
				Name:            "id",
				DataType:        domain.TypeInt,
				IsPrimaryKey:    true,
				IsAutoIncrement: true,
			}},
			Color:    s.pickColor(domain.TableColors),
			Position: pos,
		})
		s.selection = Selection{NodeID: id}
		return true
	})
	return id
}

// UpdateTable merges the patch into the table
func (s *ERDStore) UpdateTable(id string, patch domain.TablePatch) {
	s.mutate(func() bool {
		i := s.tableIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.tables[i])
		return true
	})
}

// MoveTable sets the table's canvas position
func (s *ERDStore) MoveTable(id string, pos domain.Position) {
	s.UpdateTable(id, domain.TablePatch{Position: &pos})
}

// DeleteTable removes the table and every relation naming it
func (s *ERDStore) DeleteTable(id string) {
	s.mutate(func() bool {
		i := s.tableIndex(id)
		if i < 0 {
			return false
		}
		s.tables = append(s.tables[:i], s.tables[i+1:]...)
		s.removeRelations(func(r domain.Relation) bool { return r.References(id) })
		if s.selection.NodeID == id {
			s.selection = Selection{}
		}
		return true
	})
}

// removeRelations drops every matching relation and clears a selection
// pointing at one of them.
func (s *ERDStore) removeRelations(match func(domain.Relation) bool) {
	kept := s.relations[:0]
	for _, r := range s.relations {
		if match(r) {
			if s.selection.ConnectionID == r.ID {
				s.selection = Selection{}
			}
			continue
		}
		kept = append(kept, r)
	}
	s.relations = kept
}

// DuplicateTable copies the table with fresh table and column ids, an
// offset position and a "_copy" name suffix. Foreign key flags are cleared
// since the copy is not the target of any relation. Returns "" when id is
// unknown.
func (s *ERDStore) DuplicateTable(id string) string {
	var newID string
	s.mutate(func() bool {
		i := s.tableIndex(id)
		if i < 0 {
			return false
		}
		dup := s.tables[i].Clone()
		newID = s.ids.NewID()
		dup.ID = newID
		dup.Name = dup.Name + "_copy"
		dup.Position = dup.Position.Offset(domain.DuplicateOffset, domain.DuplicateOffset)
		for j := range dup.Columns {
			dup.Columns[j].ID = s.ids.NewID()
			dup.Columns[j].IsForeignKey = false
		}
		s.tables = append(s.tables, dup)
		s.selection = Selection{NodeID: newID}
		return true
	})
	return newID
}

// AddColumn appends a nullable VARCHAR(255) column and selects it.
// Returns "" when the table is unknown.
func (s *ERDStore) AddColumn(tableID string) string {
	var id string
	s.mutate(func() bool {
		i := s.tableIndex(tableID)
		if i < 0 {
			return false
		}
		t := &s.tables[i]
		id = s.ids.NewID()
		t.Columns = append(t.Columns, domain.Column{
			ID:       id,
			Name:     domain.ColumnName(t.Columns),
			DataType: domain.TypeVarchar,
			Length:   ptr(255),
			Nullable: true,
		})
		s.selection = Selection{NodeID: tableID, SubElementID: id}
		return true
	})
	return id
}

// UpdateColumn merges the patch into the column
func (s *ERDStore) UpdateColumn(tableID, columnID string, patch domain.ColumnPatch) {
	s.mutate(func() bool {
		i := s.tableIndex(tableID)
		if i < 0 {
			return false
		}
		c, ok := s.tables[i].Column(columnID)
		if !ok {
			return false
		}
		patch.Apply(c)
		return true
	})
}

// DeleteColumn removes the column and every relation naming it. It reports
// false when nothing was deleted: the table or column is unknown, or the
// column is the table's last one.
func (s *ERDStore) DeleteColumn(tableID, columnID string) bool {
	return s.mutate(func() bool {
		i := s.tableIndex(tableID)
		if i < 0 {
			return false
		}
		t := &s.tables[i]
		j := indexOf(t.Columns, func(c domain.Column) bool { return c.ID == columnID })
		if j < 0 || len(t.Columns) <= 1 {
			return false
		}
		t.Columns = append(t.Columns[:j], t.Columns[j+1:]...)
		s.removeRelations(func(r domain.Relation) bool { return r.ReferencesColumn(tableID, columnID) })
		if s.selection.NodeID == tableID && s.selection.SubElementID == columnID {
			s.selection.SubElementID = ""
		}
		return true
	})
}

// ReorderColumns puts the table's columns in the order given by ids.
// Unknown ids are dropped; columns missing from ids keep their relative
// order after the listed ones.
func (s *ERDStore) ReorderColumns(tableID string, ids []string) {
	s.mutate(func() bool {
		i := s.tableIndex(tableID)
		if i < 0 {
			return false
		}
		t := &s.tables[i]
		placed := make(map[string]bool, len(t.Columns))
		ordered := make([]domain.Column, 0, len(t.Columns))
		for _, id := range ids {
			if placed[id] {
				continue
			}
			if c, ok := t.Column(id); ok {
				ordered = append(ordered, *c)
				placed[id] = true
			}
		}
		for _, c := range t.Columns {
			if !placed[c.ID] {
				ordered = append(ordered, c)
			}
		}
		t.Columns = ordered
		return true
	})
}

func (s *ERDStore) endpointsResolve(in RelationInput) bool {
	src := s.tableIndex(in.SourceTableID)
	dst := s.tableIndex(in.TargetTableID)
	if src < 0 || dst < 0 {
		return false
	}
	return s.tables[src].HasColumn(in.SourceColumnID) && s.tables[dst].HasColumn(in.TargetColumnID)
}

// AddRelation appends a relation and selects it. It is refused, returning
// false, when a table does not exist or a column does not belong to the
// table the input names.
func (s *ERDStore) AddRelation(in RelationInput) (string, bool) {
	var id string
	ok := s.mutate(func() bool {
		if !s.endpointsResolve(in) {
			return false
		}
		if in.Type == "" {
			in.Type = domain.OneToMany
		}
		id = s.ids.NewID()
		s.relations = append(s.relations, domain.Relation{
			ID:             id,
			Name:           in.Name,
			Type:           in.Type,
			SourceTableID:  in.SourceTableID,
			SourceColumnID: in.SourceColumnID,
			TargetTableID:  in.TargetTableID,
			TargetColumnID: in.TargetColumnID,
			OnDelete:       in.OnDelete,
			OnUpdate:       in.OnUpdate,
		})
		s.selection = Selection{ConnectionID: id}
		return true
	})
	return id, ok
}

// ReconnectRelation moves the relation's endpoints. Only the endpoint
// fields of in are used. Refused when they do not resolve.
func (s *ERDStore) ReconnectRelation(id string, in RelationInput) bool {
	return s.mutate(func() bool {
		i := s.relationIndex(id)
		if i < 0 || !s.endpointsResolve(in) {
			return false
		}
		r := &s.relations[i]
		r.SourceTableID, r.SourceColumnID = in.SourceTableID, in.SourceColumnID
		r.TargetTableID, r.TargetColumnID = in.TargetTableID, in.TargetColumnID
		return true
	})
}

// UpdateRelation merges the patch into the relation
func (s *ERDStore) UpdateRelation(id string, patch domain.RelationPatch) {
	s.mutate(func() bool {
		i := s.relationIndex(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.relations[i])
		return true
	})
}

// DeleteRelation removes the relation
func (s *ERDStore) DeleteRelation(id string) {
	s.mutate(func() bool {
		if s.relationIndex(id) < 0 {
			return false
		}
		s.removeRelations(func(r domain.Relation) bool { return r.ID == id })
		return true
	})
}

// SelectTable selects the table and clears any other selection.
// An empty id clears the selection.
func (s *ERDStore) SelectTable(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{NodeID: id}
}

// SelectRelation selects the relation and clears any other selection
func (s *ERDStore) SelectRelation(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{ConnectionID: id}
}

// SelectColumn selects a column together with its table
func (s *ERDStore) SelectColumn(tableID, columnID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tableID == "" {
		s.selection = Selection{}
		return
	}
	s.selection = Selection{NodeID: tableID, SubElementID: columnID}
}

func (s *ERDStore) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = Selection{}
}

func (s *ERDStore) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Tables returns a deep copy of the table collection
func (s *ERDStore) Tables() []domain.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Table, len(s.tables))
	for i, t := range s.tables {
		out[i] = t.Clone()
	}
	return out
}

// Relations returns a copy of the relation collection
func (s *ERDStore) Relations() []domain.Relation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Relation, len(s.relations))
	copy(out, s.relations)
	return out
}

func (s *ERDStore) Table(id string) (domain.Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.tableIndex(id)
	if i < 0 {
		return domain.Table{}, false
	}
	return s.tables[i].Clone(), true
}

func (s *ERDStore) Relation(id string) (domain.Relation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.relationIndex(id)
	if i < 0 {
		return domain.Relation{}, false
	}
	return s.relations[i], true
}

// ExportJSON returns the pretty printed snapshot
func (s *ERDStore) ExportJSON() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return encodeSnapshot(ERDSnapshot{Tables: s.tables, Relations: s.relations})
}

// ImportJSON replaces both collections with the snapshot's and clears the
// selection. The error wraps ErrMalformedInput when text is not JSON or has
// no "tables" array; the store is then left unchanged. References inside
// the snapshot are not checked, see CheckIntegrity.
func (s *ERDStore) ImportJSON(text string) error {
	var raw struct {
		Tables    *[]domain.Table    `json:"tables"`
		Relations *[]domain.Relation `json:"relations"`
	}
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return &ImportError{Kind: s.kind.String(), Reason: "invalid JSON", Err: err}
	}
	if raw.Tables == nil {
		return &ImportError{Kind: s.kind.String(), Reason: `missing "tables" array`}
	}

	s.mutate(func() bool {
		s.tables = *raw.Tables
		s.relations = []domain.Relation{}
		if raw.Relations != nil {
			s.relations = *raw.Relations
		}
		s.selection = Selection{}
		return true
	})
	return nil
}

// ExportSQL renders the current model as MySQL DDL
func (s *ERDStore) ExportSQL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.GenerateDDL(s.tables, s.relations)
}

// SQLStatements returns the statements ExportSQL renders, one per slice
// element and without trailing semicolons
func (s *ERDStore) SQLStatements() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DDLStatements(s.tables, s.relations)
}

// ClearAll empties both collections and the selection
func (s *ERDStore) ClearAll() {
	s.mutate(func() bool {
		s.tables = []domain.Table{}
		s.relations = []domain.Relation{}
		s.selection = Selection{}
		return true
	})
}

// CheckIntegrity lists relations whose tables or columns do not resolve
func (s *ERDStore) CheckIntegrity() []IntegrityViolation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []IntegrityViolation
	for _, r := range s.relations {
		src, dst := s.tableIndex(r.SourceTableID), s.tableIndex(r.TargetTableID)
		switch {
		case src < 0:
			out = append(out, IntegrityViolation{r.ID, "source table " + r.SourceTableID + " does not exist"})
		case dst < 0:
			out = append(out, IntegrityViolation{r.ID, "target table " + r.TargetTableID + " does not exist"})
		case !s.tables[src].HasColumn(r.SourceColumnID):
			out = append(out, IntegrityViolation{r.ID, "source column " + r.SourceColumnID + " is not in " + s.tables[src].Name})
		case !s.tables[dst].HasColumn(r.TargetColumnID):
			out = append(out, IntegrityViolation{r.ID, "target column " + r.TargetColumnID + " is not in " + s.tables[dst].Name})
		}
	}
	return out
}
