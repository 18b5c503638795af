package commands

import (
	"context"
	"fmt"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// Entry is one row of a diagram listing: a node or a connection
type Entry struct {
	Kind   domain.DiagramKind
	ID     string
	Type   string
	Name   string
	Detail string
}

// IsConnection reports whether the entry is a relation or edge
func (e Entry) IsConnection() bool {
	switch e.Type {
	case "relation", "edge":
		return true
	}
	return false
}

// ListCommand lists the nodes then the connections of one diagram
type ListCommand struct {
	session *application.Session
	Kind    domain.DiagramKind
}

// NewListCommand creates a new ListCommand
func NewListCommand(session *application.Session, kind domain.DiagramKind) *ListCommand {
	return &ListCommand{session: session, Kind: kind}
}

// Execute runs the list command
func (c *ListCommand) Execute(ctx context.Context) ([]Entry, error) {
	if err := validateKind(c.Kind); err != nil {
		return nil, err
	}
	return Entries(c.session, c.Kind), nil
}

// Entries flattens a diagram into listing rows
func Entries(session *application.Session, kind domain.DiagramKind) []Entry {
	switch kind {
	case domain.KindERD:
		return erdEntries(session.ERD)
	case domain.KindFlowchart:
		return flowchartEntries(session.Flowchart)
	case domain.KindUseCase:
		return useCaseEntries(session.UseCase)
	}
	return nil
}

func erdEntries(store *application.ERDStore) []Entry {
	tables := store.Tables()
	names := make(map[string]string, len(tables))
	var entries []Entry
	for _, t := range tables {
		names[t.ID] = t.Name
		cols := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			names[t.ID+"/"+col.ID] = col.Name
			cols[i] = col.Name
		}
		entries = append(entries, Entry{
			Kind:   domain.KindERD,
			ID:     t.ID,
			Type:   "table",
			Name:   t.Name,
			Detail: strings.Join(cols, ", "),
		})
	}
	for _, r := range store.Relations() {
		entries = append(entries, Entry{
			Kind: domain.KindERD,
			ID:   r.ID,
			Type: "relation",
			Name: r.Name,
			Detail: fmt.Sprintf("%s.%s -> %s.%s %s",
				names[r.SourceTableID], names[r.SourceTableID+"/"+r.SourceColumnID],
				names[r.TargetTableID], names[r.TargetTableID+"/"+r.TargetColumnID],
				r.Type),
		})
	}
	return entries
}

func flowchartEntries(store *application.FlowchartStore) []Entry {
	nodes := store.Nodes()
	labels := make(map[string]string, len(nodes))
	var entries []Entry
	for _, n := range nodes {
		labels[n.ID] = n.Data.Label
		entries = append(entries, Entry{
			Kind:   domain.KindFlowchart,
			ID:     n.ID,
			Type:   string(n.Type),
			Name:   n.Data.Label,
			Detail: n.Data.Description,
		})
	}
	for _, e := range store.Edges() {
		entries = append(entries, Entry{
			Kind:   domain.KindFlowchart,
			ID:     e.ID,
			Type:   "edge",
			Name:   e.Label,
			Detail: fmt.Sprintf("%s -> %s %s", labels[e.Source], labels[e.Target], e.Type),
		})
	}
	return entries
}

func useCaseEntries(store *application.UseCaseStore) []Entry {
	nodes := store.Nodes()
	names := make(map[string]string, len(nodes))
	var entries []Entry
	for _, n := range nodes {
		names[n.ID] = n.Data.Name
		entries = append(entries, Entry{
			Kind:   domain.KindUseCase,
			ID:     n.ID,
			Type:   strings.ToLower(string(n.Type)),
			Name:   n.Data.Name,
			Detail: n.Data.Description,
		})
	}
	for _, e := range store.Edges() {
		entries = append(entries, Entry{
			Kind:   domain.KindUseCase,
			ID:     e.ID,
			Type:   "edge",
			Name:   e.Label,
			Detail: fmt.Sprintf("%s -> %s %s", names[e.SourceID], names[e.TargetID], e.Type),
		})
	}
	return entries
}
