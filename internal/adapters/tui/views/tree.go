package views

import (
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/application/commands"
	"diagrammer/internal/domain"
)

// RowType identifies what a browser row shows
type RowType int

const (
	RowTable RowType = iota
	RowColumn
	RowRelation
	RowNode
	RowEdge
)

func (t RowType) String() string {
	switch t {
	case RowTable:
		return "Table"
	case RowColumn:
		return "Column"
	case RowRelation:
		return "Relation"
	case RowNode:
		return "Node"
	case RowEdge:
		return "Edge"
	default:
		return "Row"
	}
}

// IsConnection reports whether the row is a relation or edge
func (t RowType) IsConnection() bool {
	return t == RowRelation || t == RowEdge
}

// Row is one line of the diagram browser
type Row struct {
	Type     RowType
	Kind     domain.DiagramKind
	ID       string
	ParentID string // owning table for columns
	Name     string
	Detail   string
	Key      bool // primary or foreign key column
	Expanded bool
}

// Depth returns the indentation level of the row
func (r Row) Depth() int {
	if r.Type == RowColumn {
		return 1
	}
	return 0
}

// BuildRows flattens a diagram into browser rows: nodes first, then
// connections. ERD tables listed in expanded are followed by their columns.
func BuildRows(session *application.Session, kind domain.DiagramKind, expanded map[string]bool) []Row {
	if kind == domain.KindERD {
		return erdRows(session.ERD, expanded)
	}

	var rows []Row
	for _, e := range commands.Entries(session, kind) {
		row := Row{Kind: kind, ID: e.ID, Name: e.Name, Detail: e.Detail}
		if e.IsConnection() {
			row.Type = RowEdge
		} else {
			row.Type = RowNode
			if row.Detail == "" {
				row.Detail = e.Type
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func erdRows(store *application.ERDStore, expanded map[string]bool) []Row {
	var rows []Row
	for _, t := range store.Tables() {
		open := expanded[t.ID]
		rows = append(rows, Row{
			Type:     RowTable,
			Kind:     domain.KindERD,
			ID:       t.ID,
			Name:     t.Name,
			Detail:   fmt.Sprintf("%d column(s)", len(t.Columns)),
			Expanded: open,
		})
		if !open {
			continue
		}
		for _, c := range t.Columns {
			rows = append(rows, Row{
				Type:     RowColumn,
				Kind:     domain.KindERD,
				ID:       c.ID,
				ParentID: t.ID,
				Name:     c.Name,
				Detail:   columnDetail(c),
				Key:      c.IsPrimaryKey || c.IsForeignKey,
			})
		}
	}

	tables := make(map[string]domain.Table)
	for _, t := range store.Tables() {
		tables[t.ID] = t
	}
	for _, r := range store.Relations() {
		rows = append(rows, Row{
			Type:   RowRelation,
			Kind:   domain.KindERD,
			ID:     r.ID,
			Name:   relationName(r, tables),
			Detail: string(r.Type),
		})
	}
	return rows
}

func relationName(r domain.Relation, tables map[string]domain.Table) string {
	endpoint := func(tableID, columnID string) string {
		t, ok := tables[tableID]
		if !ok {
			return "?"
		}
		if c, ok := t.Column(columnID); ok {
			return t.Name + "." + c.Name
		}
		return t.Name + ".?"
	}
	name := endpoint(r.SourceTableID, r.SourceColumnID) + " -> " + endpoint(r.TargetTableID, r.TargetColumnID)
	if r.Name != "" {
		name = r.Name + ": " + name
	}
	return name
}

func columnDetail(c domain.Column) string {
	var parts []string

	typ := string(c.DataType)
	switch {
	case c.Length != nil && *c.Length > 0:
		typ += fmt.Sprintf("(%d)", *c.Length)
	case c.Precision != nil && c.Scale != nil:
		typ += fmt.Sprintf("(%d,%d)", *c.Precision, *c.Scale)
	}
	parts = append(parts, typ)

	if c.IsPrimaryKey {
		parts = append(parts, "PK")
	}
	if c.IsForeignKey {
		parts = append(parts, "FK")
	}
	if c.IsUnique {
		parts = append(parts, "UQ")
	}
	if c.IsAutoIncrement {
		parts = append(parts, "AI")
	}
	if !c.Nullable {
		parts = append(parts, "NOT NULL")
	}
	return strings.Join(parts, " ")
}
