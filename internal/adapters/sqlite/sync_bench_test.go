package sqlite

import (
	"path/filepath"
	"strings"
	"testing"

	"diagrammer/internal/domain"
)

// BenchmarkSave measures one snapshot write, the cost paid on every mutation
func BenchmarkSave(b *testing.B) {
	s, err := Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			b.Fatalf("failed to close store: %v", err)
		}
	}()

	data := []byte(`{"tables":[` + strings.Repeat(`{"id":"t","name":"users","columns":[]},`, 200) + `{}],"relations":[]}`)

	b.ResetTimer()
	for b.Loop() {
		if err := s.Save(domain.KindERD, data); err != nil {
			b.Fatalf("save failed: %v", err)
		}
	}
}

// BenchmarkSyncFrom measures copying every kind from another store
func BenchmarkSyncFrom(b *testing.B) {
	s, err := Open(filepath.Join(b.TempDir(), "bench.db"))
	if err != nil {
		b.Fatalf("failed to open store: %v", err)
	}
	defer s.Close()

	src := mapSnapshots{
		domain.KindERD:       []byte(`{"tables":[]}`),
		domain.KindFlowchart: []byte(`{"nodes":[],"edges":[]}`),
		domain.KindUseCase:   []byte(`{"nodes":[],"edges":[]}`),
	}

	b.ResetTimer()
	for b.Loop() {
		if _, err := s.SyncFrom(src); err != nil {
			b.Fatalf("sync failed: %v", err)
		}
	}
}
