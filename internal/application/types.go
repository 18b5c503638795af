package application

import "diagrammer/internal/domain"

// Re-export diagram kinds for use by adapters
type DiagramKind = domain.DiagramKind

const (
	KindUnknown   = domain.KindUnknown
	KindERD       = domain.KindERD
	KindFlowchart = domain.KindFlowchart
	KindUseCase   = domain.KindUseCase
)

// Re-export domain types for use by adapters
type (
	Position      = domain.Position
	Size          = domain.Size
	Table         = domain.Table
	Column        = domain.Column
	Relation      = domain.Relation
	FlowchartNode = domain.FlowchartNode
	FlowchartEdge = domain.FlowchartEdge
	UseCaseNode   = domain.UseCaseNode
	UseCaseEdge   = domain.UseCaseEdge
)

// ParseKind determines the diagram kind from a user supplied string
func ParseKind(s string) DiagramKind {
	return domain.ParseKind(s)
}
