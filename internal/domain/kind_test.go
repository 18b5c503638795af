package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input string
		want  DiagramKind
	}{
		{"erd", KindERD},
		{" ERD ", KindERD},
		{"flowchart", KindFlowchart},
		{"flow", KindFlowchart},
		{"usecase", KindUseCase},
		{"use-case", KindUseCase},
		{"uc", KindUseCase},
		{"sequence", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseKind(tt.input))
		})
	}
}

func TestDiagramKind_RoundTripsThroughString(t *testing.T) {
	for _, k := range AllKinds {
		assert.Equal(t, k, ParseKind(k.String()))
	}
	assert.Error(t, ValidateKind("nope"))
	assert.NoError(t, ValidateKind("erd"))
}

func TestDiagramKind_Next(t *testing.T) {
	assert.Equal(t, KindFlowchart, KindERD.Next())
	assert.Equal(t, KindUseCase, KindFlowchart.Next())
	assert.Equal(t, KindERD, KindUseCase.Next())
	assert.Equal(t, KindERD, KindUnknown.Next())
}

func TestParseEnums(t *testing.T) {
	dt, ok := ParseDataType("varchar")
	assert.True(t, ok)
	assert.Equal(t, TypeVarchar, dt)

	_, ok = ParseDataType("money")
	assert.False(t, ok)

	a, ok := ParseReferentialAction("set null")
	assert.True(t, ok)
	assert.Equal(t, ActionSetNull, a)
	assert.Equal(t, "SET NULL", a.SQL())
	assert.Equal(t, "NO ACTION", ActionNoAction.SQL())

	assert.True(t, ShapeStoredData.Valid())
	assert.False(t, ShapeKind("cloud").Valid())
	assert.Equal(t, "Start/End", ShapeDefaults(ShapeEnd).Label)
	assert.Equal(t, "Process", ShapeDefaults(ShapeKind("cloud")).Label)
	assert.Len(t, ShapeKinds(), 16)
}

func TestColumnPatch_Apply(t *testing.T) {
	col := Column{Name: "amount", DataType: TypeVarchar, Length: intPtr(255), Nullable: true}
	dt := TypeDecimal
	name := "total"
	nullable := false

	ColumnPatch{
		Name:      &name,
		DataType:  &dt,
		ClearSize: true,
		Precision: intPtr(12),
		Scale:     intPtr(2),
		Nullable:  &nullable,
	}.Apply(&col)

	assert.Equal(t, "total", col.Name)
	assert.Equal(t, TypeDecimal, col.DataType)
	assert.Nil(t, col.Length)
	assert.Equal(t, 12, *col.Precision)
	assert.Equal(t, 2, *col.Scale)
	assert.False(t, col.Nullable)
}

func TestTableClone_IsDeep(t *testing.T) {
	orig := usersTable()
	clone := orig.Clone()

	clone.Columns[0].Name = "changed"
	*clone.Columns[1].Length = 10

	assert.Equal(t, "id", orig.Columns[0].Name)
	assert.Equal(t, 255, *orig.Columns[1].Length)
}
