package domain

import "strconv"

const (
	TablePrefix  = "Table"
	ColumnPrefix = "column"
)

// NextName returns the lowest numbered prefix+sep+N (N starting at 1) that
// is not already in existing. Numbers freed by deletion are reused.
func NextName(prefix, sep string, existing []string) string {
	used := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		used[name] = struct{}{}
	}
	for n := 1; ; n++ {
		name := prefix + sep + strconv.Itoa(n)
		if _, ok := used[name]; !ok {
			return name
		}
	}
}

// TableName returns the default name for a new table (Table_1, Table_2, ...)
func TableName(tables []Table) string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	return NextName(TablePrefix, "_", names)
}

// ColumnName returns the default name for a new column (column_1, column_2, ...)
func ColumnName(columns []Column) string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.Name
	}
	return NextName(ColumnPrefix, "_", names)
}

// UseCaseNodeName returns the default name for a new node of the given kind.
// Only siblings of the same kind are considered ("Actor 1", "Use Case 2", ...).
func UseCaseNodeName(kind UseCaseNodeKind, nodes []UseCaseNode) string {
	var names []string
	for _, n := range nodes {
		if n.Type == kind {
			names = append(names, n.Data.Name)
		}
	}
	return NextName(kind.DefaultName(), " ", names)
}
