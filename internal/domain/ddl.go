package domain

import (
	"fmt"
	"strings"
)

// DDLHeader is the comment line every generated script starts with
const DDLHeader = "-- Generated by diagrammer"

// GenerateDDL renders the tables and relations as MySQL DDL.
//
// Tables are emitted first, in collection order, followed by one
// ALTER TABLE ... FOREIGN KEY statement per relation so that every
// referenced table exists before a constraint names it. Relations whose
// tables or columns cannot be resolved are skipped.
func GenerateDDL(tables []Table, relations []Relation) string {
	var sb strings.Builder
	sb.WriteString(DDLHeader)
	sb.WriteString("\n\n")

	for i, stmt := range DDLStatements(tables, relations) {
		sb.WriteString(stmt)
		if i < len(tables) {
			sb.WriteString(";\n\n")
		} else {
			sb.WriteString(";\n")
		}
	}
	return sb.String()
}

// DDLStatements returns the statements GenerateDDL renders, in the same
// order and without the trailing semicolons. Appliers should run these
// instead of splitting the rendered script.
func DDLStatements(tables []Table, relations []Relation) []string {
	stmts := make([]string, 0, len(tables)+len(relations))
	for _, t := range tables {
		stmts = append(stmts, createTable(t))
	}

	byID := make(map[string]*Table, len(tables))
	for i := range tables {
		byID[tables[i].ID] = &tables[i]
	}

	for _, r := range relations {
		src, ok := byID[r.SourceTableID]
		if !ok {
			continue
		}
		dst, ok := byID[r.TargetTableID]
		if !ok {
			continue
		}
		srcCol, ok := src.Column(r.SourceColumnID)
		if !ok {
			continue
		}
		dstCol, ok := dst.Column(r.TargetColumnID)
		if !ok {
			continue
		}
		stmts = append(stmts, foreignKey(r, src, srcCol, dst, dstCol))
	}
	return stmts
}

func foreignKey(r Relation, src *Table, srcCol *Column, dst *Table, dstCol *Column) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		quoteIdent(src.Name),
		quoteIdent("fk_"+src.Name+"_"+srcCol.Name),
		quoteIdent(srcCol.Name),
		quoteIdent(dst.Name),
		quoteIdent(dstCol.Name),
	)
	if r.OnDelete != "" {
		sb.WriteString(" ON DELETE " + r.OnDelete.SQL())
	}
	if r.OnUpdate != "" {
		sb.WriteString(" ON UPDATE " + r.OnUpdate.SQL())
	}
	return sb.String()
}

func createTable(t Table) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "CREATE TABLE IF NOT EXISTS %s (\n", quoteIdent(t.Name))

	defs := make([]string, 0, len(t.Columns)+2)
	for _, c := range t.Columns {
		defs = append(defs, "  "+columnDefinition(c))
	}

	var pk []string
	for _, c := range t.Columns {
		if c.IsPrimaryKey {
			pk = append(pk, quoteIdent(c.Name))
		}
	}
	if len(pk) > 0 {
		defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}

	for _, c := range t.Columns {
		if c.IsUnique && !c.IsPrimaryKey {
			defs = append(defs, fmt.Sprintf("  UNIQUE KEY %s (%s)",
				quoteIdent("uk_"+t.Name+"_"+c.Name), quoteIdent(c.Name)))
		}
	}

	sb.WriteString(strings.Join(defs, ",\n"))
	sb.WriteString("\n)")

	if t.Comment != "" {
		sb.WriteString(" COMMENT=" + quoteString(t.Comment))
	}
	return sb.String()
}

func columnDefinition(c Column) string {
	var b strings.Builder
	b.WriteString(quoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(string(c.DataType))

	// length wins over precision when both are present
	switch {
	case c.Length != nil && *c.Length > 0:
		fmt.Fprintf(&b, "(%d)", *c.Length)
	case c.Precision != nil && c.Scale != nil:
		fmt.Fprintf(&b, "(%d,%d)", *c.Precision, *c.Scale)
	case c.Precision != nil:
		fmt.Fprintf(&b, "(%d)", *c.Precision)
	}

	if c.IsPrimaryKey && c.IsAutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	if !c.Nullable {
		b.WriteString(" NOT NULL")
	}
	if c.DefaultValue != "" {
		b.WriteString(" DEFAULT " + c.DefaultValue)
	}
	if c.Comment != "" {
		b.WriteString(" COMMENT " + quoteString(c.Comment))
	}
	return b.String()
}

func quoteIdent(s string) string {
	return "`" + strings.ReplaceAll(s, "`", "``") + "`"
}

// stringEscaper keeps a literal on one line and terminated under MySQL's
// default backslash escaping
var stringEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"'", "''",
	"\n", `\n`,
	"\r", `\r`,
)

func quoteString(s string) string {
	return "'" + stringEscaper.Replace(s) + "'"
}

// SplitStatements splits a script into individual statements on the
// semicolons outside quoted strings and identifiers. Comments starting
// with "--" and blank statements are dropped.
func SplitStatements(ddl string) []string {
	var (
		out     []string
		current strings.Builder
		quote   byte
	)
	flush := func() {
		if stmt := strings.TrimSpace(current.String()); stmt != "" {
			out = append(out, stmt)
		}
		current.Reset()
	}

	for i := 0; i < len(ddl); i++ {
		ch := ddl[i]
		switch {
		case quote != 0:
			current.WriteByte(ch)
			if ch == '\\' && quote != '`' && i+1 < len(ddl) {
				i++
				current.WriteByte(ddl[i])
			} else if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			current.WriteByte(ch)
		case ch == '-' && isLineComment(ddl[i:]):
			for i < len(ddl) && ddl[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case ch == ';':
			flush()
		default:
			current.WriteByte(ch)
		}
	}
	flush()
	return out
}

// isLineComment reports whether s opens a MySQL "-- " comment, which needs
// whitespace or the end of input after the dashes
func isLineComment(s string) bool {
	if !strings.HasPrefix(s, "--") {
		return false
	}
	return len(s) == 2 || s[2] == ' ' || s[2] == '\t' || s[2] == '\n' || s[2] == '\r'
}
