package application

import (
	"fmt"
	"strings"

	"diagrammer/internal/domain"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		// Format field name with spaces for error message (e.g., "tableID" -> "table ID")
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "tableID" -> "table ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"tableID":        "table ID",
		"columnID":       "column ID",
		"relationID":     "relation ID",
		"nodeID":         "node ID",
		"sourceID":       "source ID",
		"targetID":       "target ID",
		"sourceTableID":  "source table ID",
		"sourceColumnID": "source column ID",
		"targetTableID":  "target table ID",
		"targetColumnID": "target column ID",
		"dataType":       "data type",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}

// ValidateKind parses a diagram kind, returning a ValidationError for
// anything but erd, flowchart or usecase.
func ValidateKind(fieldName, value string) (domain.DiagramKind, error) {
	kind := domain.ParseKind(value)
	if kind == domain.KindUnknown {
		return kind, &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected erd, flowchart or usecase, got: %s", value),
		}
	}
	return kind, nil
}

// ValidateDataType parses a column type name
func ValidateDataType(fieldName, value string) (domain.DataType, error) {
	dt, ok := domain.ParseDataType(value)
	if !ok {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unsupported %s: %s", formatFieldName(fieldName), value),
		}
	}
	return dt, nil
}

// ValidateShapeKind checks a flowchart shape name
func ValidateShapeKind(fieldName, value string) (domain.ShapeKind, error) {
	k := domain.ShapeKind(strings.ToLower(strings.TrimSpace(value)))
	if !k.Valid() {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown shape: %s", value),
		}
	}
	return k, nil
}

// ValidateUseCaseNodeKind checks an actor/usecase/system/note name
func ValidateUseCaseNodeKind(fieldName, value string) (domain.UseCaseNodeKind, error) {
	k := domain.UseCaseNodeKind(strings.ToUpper(strings.TrimSpace(value)))
	if k == "USE_CASE" || k == "USE CASE" {
		k = domain.NodeUseCase
	}
	if !k.Valid() {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected actor, usecase, system or note, got: %s", value),
		}
	}
	return k, nil
}

// ValidateUseCaseEdgeKind checks an association/include/extend/... name
func ValidateUseCaseEdgeKind(fieldName, value string) (domain.UseCaseEdgeKind, error) {
	k := domain.UseCaseEdgeKind(strings.ToUpper(strings.TrimSpace(value)))
	if k == "" {
		return domain.EdgeAssociation, nil
	}
	if !k.Valid() {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown relationship: %s", value),
		}
	}
	return k, nil
}

// ValidateRelationType parses a cardinality; empty means ONE_TO_MANY
func ValidateRelationType(fieldName, value string) (domain.RelationType, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	v = strings.NewReplacer("-", "_", " ", "_").Replace(v)
	switch v {
	case "":
		return domain.OneToMany, nil
	case "1:1":
		return domain.OneToOne, nil
	case "1:N":
		return domain.OneToMany, nil
	case "N:M", "M:N":
		return domain.ManyToMany, nil
	}
	t := domain.RelationType(v)
	if !t.Valid() {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("unknown relation type: %s", value),
		}
	}
	return t, nil
}

// ValidateReferentialAction parses an ON DELETE / ON UPDATE action; empty is allowed
func ValidateReferentialAction(fieldName, value string) (domain.ReferentialAction, error) {
	a, ok := domain.ParseReferentialAction(value)
	if !ok {
		return "", &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("expected CASCADE, SET_NULL, RESTRICT or NO_ACTION, got: %s", value),
		}
	}
	return a, nil
}
