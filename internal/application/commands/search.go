package commands

import (
	"context"
	"sort"
	"strings"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

// SearchResult wraps an Entry with a relevance score
type SearchResult struct {
	Entry
	Score int
}

// SearchCommand searches every diagram, or one kind, with fuzzy matching
type SearchCommand struct {
	session *application.Session
	Query   string
	Kind    domain.DiagramKind
}

// NewSearchCommand creates a new SearchCommand. KindUnknown searches all diagrams.
func NewSearchCommand(session *application.Session, query string, kind domain.DiagramKind) *SearchCommand {
	return &SearchCommand{
		session: session,
		Query:   query,
		Kind:    kind,
	}
}

// Execute runs the search command and returns scored, sorted results
func (c *SearchCommand) Execute(ctx context.Context) ([]SearchResult, error) {
	if len(c.Query) < 2 {
		return nil, nil
	}

	kinds := domain.AllKinds
	if c.Kind != domain.KindUnknown {
		if err := validateKind(c.Kind); err != nil {
			return nil, err
		}
		kinds = []domain.DiagramKind{c.Kind}
	}

	var entries []Entry
	for _, k := range kinds {
		entries = append(entries, Entries(c.session, k)...)
	}
	return FuzzySort(entries, c.Query), nil
}

// FuzzyScore calculates a relevance score for how well target matches query
func FuzzyScore(target, query string) int {
	target = strings.ToLower(target)
	query = strings.ToLower(query)

	if len(query) == 0 {
		return 0
	}

	// Check for exact substring match first (highest priority)
	if strings.Contains(target, query) {
		score := 100
		if strings.HasPrefix(target, query) {
			score += 50
		}
		return score
	}

	// Fuzzy match: check if chars appear in order
	score := 0
	queryIdx := 0
	prevMatchIdx := -1

	for i := 0; i < len(target) && queryIdx < len(query); i++ {
		if target[i] == query[queryIdx] {
			if prevMatchIdx == i-1 {
				score += 10 // consecutive chars
			}
			if i == 0 {
				score += 15 // start of string
			}
			if i > 0 && isSeparator(target[i-1]) {
				score += 10
			}
			score++
			prevMatchIdx = i
			queryIdx++
		}
	}

	if queryIdx == len(query) {
		return score
	}
	return 0
}

func isSeparator(b byte) bool {
	switch b {
	case ' ', '.', '-', '_':
		return true
	}
	return false
}

// FuzzySort scores entries by name, id and detail and sorts by relevance.
// Names count in full, ids and details at a slight discount.
func FuzzySort(entries []Entry, query string) []SearchResult {
	scored := make([]SearchResult, 0, len(entries))

	for _, e := range entries {
		best := max(
			FuzzyScore(e.Name, query),
			FuzzyScore(e.ID, query)-5,
			FuzzyScore(e.Detail, query)-10,
		)
		if best > 0 {
			scored = append(scored, SearchResult{Entry: e, Score: best})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
