package commands

import (
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// Entity references accept either an id or a display name. Ids win; names
// match case-insensitively and the first match in collection order is used.

func resolveTable(store *application.ERDStore, ref string) (domain.Table, error) {
	tables := store.Tables()
	for _, t := range tables {
		if t.ID == ref {
			return t, nil
		}
	}
	for _, t := range tables {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return domain.Table{}, &application.NotFoundError{Entity: "table", ID: ref}
}

func resolveColumn(table domain.Table, ref string) (domain.Column, error) {
	for _, c := range table.Columns {
		if c.ID == ref {
			return c, nil
		}
	}
	for _, c := range table.Columns {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return domain.Column{}, &application.NotFoundError{Entity: "column", ID: table.Name + "." + ref}
}

func resolveFlowNode(store *application.FlowchartStore, ref string) (domain.FlowchartNode, error) {
	nodes := store.Nodes()
	for _, n := range nodes {
		if n.ID == ref {
			return n, nil
		}
	}
	for _, n := range nodes {
		if strings.EqualFold(n.Data.Label, ref) {
			return n, nil
		}
	}
	return domain.FlowchartNode{}, &application.NotFoundError{Entity: "node", ID: ref}
}

func resolveUseCaseNode(store *application.UseCaseStore, ref string) (domain.UseCaseNode, error) {
	nodes := store.Nodes()
	for _, n := range nodes {
		if n.ID == ref {
			return n, nil
		}
	}
	for _, n := range nodes {
		if strings.EqualFold(n.Data.Name, ref) {
			return n, nil
		}
	}
	return domain.UseCaseNode{}, &application.NotFoundError{Entity: "node", ID: ref}
}

func validateKind(kind domain.DiagramKind) error {
	for _, k := range domain.AllKinds {
		if k == kind {
			return nil
		}
	}
	return &application.ValidationError{
		Field:   "kind",
		Message: "expected erd, flowchart or usecase",
	}
}
