package domain

import "strings"

// DataType is the SQL type of a column
type DataType string

const (
	TypeVarchar   DataType = "VARCHAR"
	TypeInt       DataType = "INT"
	TypeBigInt    DataType = "BIGINT"
	TypeSmallInt  DataType = "SMALLINT"
	TypeDecimal   DataType = "DECIMAL"
	TypeNumeric   DataType = "NUMERIC"
	TypeFloat     DataType = "FLOAT"
	TypeDouble    DataType = "DOUBLE"
	TypeBoolean   DataType = "BOOLEAN"
	TypeDate      DataType = "DATE"
	TypeTime      DataType = "TIME"
	TypeDateTime  DataType = "DATETIME"
	TypeTimestamp DataType = "TIMESTAMP"
	TypeText      DataType = "TEXT"
	TypeBlob      DataType = "BLOB"
	TypeJSON      DataType = "JSON"
	TypeUUID      DataType = "UUID"
)

// DataTypeInfo describes which size clauses a data type accepts
type DataTypeInfo struct {
	Type         DataType
	HasLength    bool
	HasPrecision bool
}

// DataTypes is the closed list of supported column types
var DataTypes = []DataTypeInfo{
	{TypeVarchar, true, false},
	{TypeInt, false, false},
	{TypeBigInt, false, false},
	{TypeSmallInt, false, false},
	{TypeDecimal, false, true},
	{TypeNumeric, false, true},
	{TypeFloat, false, false},
	{TypeDouble, false, false},
	{TypeBoolean, false, false},
	{TypeDate, false, false},
	{TypeTime, false, false},
	{TypeDateTime, false, false},
	{TypeTimestamp, false, false},
	{TypeText, false, false},
	{TypeBlob, false, false},
	{TypeJSON, false, false},
	{TypeUUID, false, false},
}

// Info returns the descriptor for t; ok is false for unknown types
func (t DataType) Info() (DataTypeInfo, bool) {
	for _, info := range DataTypes {
		if info.Type == t {
			return info, true
		}
	}
	return DataTypeInfo{}, false
}

// Valid reports whether t is one of DataTypes
func (t DataType) Valid() bool {
	_, ok := t.Info()
	return ok
}

// ParseDataType parses a type name case-insensitively
func ParseDataType(s string) (DataType, bool) {
	t := DataType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// Column is a single column of a table
type Column struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	DataType        DataType `json:"dataType"`
	Length          *int     `json:"length,omitempty"`
	Precision       *int     `json:"precision,omitempty"`
	Scale           *int     `json:"scale,omitempty"`
	Nullable        bool     `json:"nullable"`
	DefaultValue    string   `json:"defaultValue,omitempty"`
	IsPrimaryKey    bool     `json:"isPrimaryKey"`
	IsForeignKey    bool     `json:"isForeignKey"`
	IsUnique        bool     `json:"isUnique"`
	IsAutoIncrement bool     `json:"isAutoIncrement"`
	Comment         string   `json:"comment,omitempty"`
}

// Clone returns a deep copy of the column
func (c Column) Clone() Column {
	c.Length = cloneInt(c.Length)
	c.Precision = cloneInt(c.Precision)
	c.Scale = cloneInt(c.Scale)
	return c
}

// Table is an ERD node
type Table struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Comment  string   `json:"comment,omitempty"`
	Columns  []Column `json:"columns"`
	Color    string   `json:"color"`
	Position Position `json:"position"`
}

// Clone returns a deep copy of the table
func (t Table) Clone() Table {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = c.Clone()
	}
	t.Columns = cols
	return t
}

// Column returns the column with the given id
func (t *Table) Column(id string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].ID == id {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// HasColumn reports whether the table owns a column with the given id
func (t *Table) HasColumn(id string) bool {
	_, ok := t.Column(id)
	return ok
}

// RelationType is the cardinality of a relation
type RelationType string

const (
	OneToOne   RelationType = "ONE_TO_ONE"
	OneToMany  RelationType = "ONE_TO_MANY"
	ManyToMany RelationType = "MANY_TO_MANY"
)

// Valid reports whether t is a known cardinality
func (t RelationType) Valid() bool {
	switch t {
	case OneToOne, OneToMany, ManyToMany:
		return true
	}
	return false
}

// ReferentialAction is an ON DELETE / ON UPDATE behavior
type ReferentialAction string

const (
	ActionCascade  ReferentialAction = "CASCADE"
	ActionSetNull  ReferentialAction = "SET_NULL"
	ActionRestrict ReferentialAction = "RESTRICT"
	ActionNoAction ReferentialAction = "NO_ACTION"
)

// Valid reports whether a is a known action. The empty action means "unspecified".
func (a ReferentialAction) Valid() bool {
	switch a {
	case "", ActionCascade, ActionSetNull, ActionRestrict, ActionNoAction:
		return true
	}
	return false
}

// SQL renders the action as it appears in DDL (SET_NULL -> SET NULL)
func (a ReferentialAction) SQL() string {
	return strings.ReplaceAll(string(a), "_", " ")
}

// ParseReferentialAction accepts both "SET_NULL" and "set null" spellings
func ParseReferentialAction(s string) (ReferentialAction, bool) {
	a := ReferentialAction(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), " ", "_"))
	return a, a.Valid()
}

// Relation is a foreign key between two table columns
type Relation struct {
	ID             string            `json:"id"`
	Name           string            `json:"name,omitempty"`
	Type           RelationType      `json:"type"`
	SourceTableID  string            `json:"sourceTableId"`
	SourceColumnID string            `json:"sourceColumnId"`
	TargetTableID  string            `json:"targetTableId"`
	TargetColumnID string            `json:"targetColumnId"`
	OnDelete       ReferentialAction `json:"onDelete,omitempty"`
	OnUpdate       ReferentialAction `json:"onUpdate,omitempty"`
}

// References reports whether the relation names the table
func (r Relation) References(tableID string) bool {
	return r.SourceTableID == tableID || r.TargetTableID == tableID
}

// ReferencesColumn reports whether the relation names the column of the table
func (r Relation) ReferencesColumn(tableID, columnID string) bool {
	return (r.SourceTableID == tableID && r.SourceColumnID == columnID) ||
		(r.TargetTableID == tableID && r.TargetColumnID == columnID)
}

// TableColors is the palette new tables pick from
var TableColors = []string{
	"#3B82F6", // Blue
	"#10B981", // Emerald
	"#F59E0B", // Amber
	"#EF4444", // Red
	"#8B5CF6", // Violet
	"#EC4899", // Pink
	"#06B6D4", // Cyan
	"#84CC16", // Lime
	"#F97316", // Orange
	"#6366F1", // Indigo
	"#14B8A6", // Teal
	"#A855F7", // Purple
}

// TablePatch holds the table fields to overwrite; nil fields are left unchanged
type TablePatch struct {
	Name     *string
	Comment  *string
	Color    *string
	Position *Position
}

// Apply merges the patch into t
func (p TablePatch) Apply(t *Table) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.Comment != nil {
		t.Comment = *p.Comment
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.Position != nil {
		t.Position = *p.Position
	}
}

// ColumnPatch holds the column fields to overwrite; nil fields are left unchanged.
// ClearSize drops length, precision and scale before the patch's own values apply.
type ColumnPatch struct {
	Name            *string
	DataType        *DataType
	ClearSize       bool
	Length          *int
	Precision       *int
	Scale           *int
	Nullable        *bool
	DefaultValue    *string
	IsPrimaryKey    *bool
	IsForeignKey    *bool
	IsUnique        *bool
	IsAutoIncrement *bool
	Comment         *string
}

// Apply merges the patch into c
func (p ColumnPatch) Apply(c *Column) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.DataType != nil {
		c.DataType = *p.DataType
	}
	if p.ClearSize {
		c.Length, c.Precision, c.Scale = nil, nil, nil
	}
	if p.Length != nil {
		c.Length = cloneInt(p.Length)
	}
	if p.Precision != nil {
		c.Precision = cloneInt(p.Precision)
	}
	if p.Scale != nil {
		c.Scale = cloneInt(p.Scale)
	}
	if p.Nullable != nil {
		c.Nullable = *p.Nullable
	}
	if p.DefaultValue != nil {
		c.DefaultValue = *p.DefaultValue
	}
	if p.IsPrimaryKey != nil {
		c.IsPrimaryKey = *p.IsPrimaryKey
	}
	if p.IsForeignKey != nil {
		c.IsForeignKey = *p.IsForeignKey
	}
	if p.IsUnique != nil {
		c.IsUnique = *p.IsUnique
	}
	if p.IsAutoIncrement != nil {
		c.IsAutoIncrement = *p.IsAutoIncrement
	}
	if p.Comment != nil {
		c.Comment = *p.Comment
	}
}

// RelationPatch holds the relation fields to overwrite; nil fields are left unchanged.
// Endpoints are not patchable; use the store's ReconnectRelation.
type RelationPatch struct {
	Name     *string
	Type     *RelationType
	OnDelete *ReferentialAction
	OnUpdate *ReferentialAction
}

// Apply merges the patch into r
func (p RelationPatch) Apply(r *Relation) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.OnDelete != nil {
		r.OnDelete = *p.OnDelete
	}
	if p.OnUpdate != nil {
		r.OnUpdate = *p.OnUpdate
	}
}
