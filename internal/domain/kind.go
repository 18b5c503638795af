package domain

import (
	"fmt"
	"strings"
)

// DiagramKind identifies one of the three diagram stores
type DiagramKind int

const (
	KindUnknown   DiagramKind = iota
	KindERD                   // tables + relations
	KindFlowchart             // shapes + edges
	KindUseCase               // actors, use cases, systems, notes + edges
)

// AllKinds lists the diagram kinds in display order
var AllKinds = []DiagramKind{KindERD, KindFlowchart, KindUseCase}

func (k DiagramKind) String() string {
	switch k {
	case KindERD:
		return "erd"
	case KindFlowchart:
		return "flowchart"
	case KindUseCase:
		return "usecase"
	default:
		return "unknown"
	}
}

// Title returns a human-readable name for the kind
func (k DiagramKind) Title() string {
	switch k {
	case KindERD:
		return "Entity-Relationship"
	case KindFlowchart:
		return "Flowchart"
	case KindUseCase:
		return "Use Case"
	default:
		return "Unknown"
	}
}

// ParseKind determines the diagram kind from a user supplied string.
// Accepts a few common aliases ("flow", "use-case", "uc").
func ParseKind(s string) DiagramKind {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "erd", "er":
		return KindERD
	case "flowchart", "flow":
		return KindFlowchart
	case "usecase", "use-case", "uc":
		return KindUseCase
	default:
		return KindUnknown
	}
}

// ValidateKind returns an error when s does not name a diagram kind
func ValidateKind(s string) error {
	if ParseKind(s) == KindUnknown {
		return fmt.Errorf("invalid diagram kind: %s (expected erd, flowchart, or usecase)", s)
	}
	return nil
}

// Next cycles through AllKinds
func (k DiagramKind) Next() DiagramKind {
	for i, kind := range AllKinds {
		if kind == k {
			return AllKinds[(i+1)%len(AllKinds)]
		}
	}
	return KindERD
}
