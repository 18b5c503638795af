package commands

import (
	"context"
	"testing"

	"diagrammer/internal/application"
	"diagrammer/internal/domain"
)

func TestFuzzyScore(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		query     string
		wantScore int
		wantMin   int // use this for relative comparisons
	}{
		{
			name:      "exact match",
			target:    "orders",
			query:     "orders",
			wantScore: 150, // 100 for contains + 50 for prefix
		},
		{
			name:      "prefix match",
			target:    "order_items",
			query:     "order",
			wantScore: 150,
		},
		{
			name:      "substring match",
			target:    "customer_orders",
			query:     "orders",
			wantScore: 100,
		},
		{
			name:    "fuzzy match across separators",
			target:  "order_line_item",
			query:   "oli",
			wantMin: 30,
		},
		{
			name:      "no match",
			target:    "users",
			query:     "xyz",
			wantScore: 0,
		},
		{
			name:      "empty query",
			target:    "users",
			query:     "",
			wantScore: 0,
		},
		{
			name:    "case insensitive",
			target:  "USERS",
			query:   "users",
			wantMin: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := FuzzyScore(tt.target, tt.query)

			if tt.wantScore > 0 {
				if score != tt.wantScore {
					t.Errorf("expected score %d, got %d", tt.wantScore, score)
				}
			} else if tt.wantMin > 0 {
				if score < tt.wantMin {
					t.Errorf("expected score >= %d, got %d", tt.wantMin, score)
				}
			} else {
				if score != 0 {
					t.Errorf("expected score 0, got %d", score)
				}
			}
		})
	}
}

func TestFuzzyScore_Ordering(t *testing.T) {
	query := "invoice"

	exactScore := FuzzyScore("invoice", query)
	prefixScore := FuzzyScore("invoice lines", query)
	containsScore := FuzzyScore("send invoice", query)
	fuzzyScore := FuzzyScore("i.n.v.o.i.c.e", query)

	if exactScore < prefixScore {
		t.Errorf("exact match should score >= prefix: %d < %d", exactScore, prefixScore)
	}
	if prefixScore < containsScore {
		t.Errorf("prefix match should score >= contains: %d < %d", prefixScore, containsScore)
	}
	if containsScore <= fuzzyScore {
		t.Errorf("contains match should score higher than fuzzy: %d <= %d", containsScore, fuzzyScore)
	}
}

func TestFuzzySort(t *testing.T) {
	entries := []Entry{
		{ID: "t-1", Type: "table", Name: "audit_log", Detail: "id, payload"},
		{ID: "t-2", Type: "table", Name: "invoices", Detail: "id, total"},
		{ID: "t-3", Type: "table", Name: "customers", Detail: "id, name"},
		{ID: "t-4", Type: "table", Name: "payments", Detail: "id, invoice_id"},
	}

	sorted := FuzzySort(entries, "invoice")

	if len(sorted) != 2 {
		t.Fatalf("expected 2 results, got %d", len(sorted))
	}
	if sorted[0].Name != "invoices" {
		t.Errorf("expected name match first, got %s", sorted[0].Name)
	}
	if sorted[1].Name != "payments" {
		t.Errorf("expected detail match second, got %s", sorted[1].Name)
	}

	for i := 1; i < len(sorted); i++ {
		if sorted[i].Score > sorted[i-1].Score {
			t.Errorf("results not sorted by score: %d > %d at index %d",
				sorted[i].Score, sorted[i-1].Score, i)
		}
	}
}

func TestSearchCommand_AcrossKinds(t *testing.T) {
	s := application.OpenSession(nil, application.WithIDGenerator(application.NewSequenceGenerator("x")))
	id := s.ERD.AddTable(domain.Position{})
	name := "checkout"
	s.ERD.UpdateTable(id, domain.TablePatch{Name: &name})
	node := s.UseCase.AddNode(domain.NodeUseCase, domain.Position{})
	s.UseCase.UpdateNode(node, domain.UseCaseNodePatch{Name: &name})

	results, err := NewSearchCommand(s, "check", domain.KindUnknown).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	results, err = NewSearchCommand(s, "check", domain.KindUseCase).Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Kind != domain.KindUseCase {
		t.Errorf("expected a single use-case result, got %+v", results)
	}

	results, _ = NewSearchCommand(s, "c", domain.KindUnknown).Execute(context.Background())
	if results != nil {
		t.Errorf("expected no results for a one-letter query, got %d", len(results))
	}
}
