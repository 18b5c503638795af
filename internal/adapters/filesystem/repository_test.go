package filesystem

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"diagrammer/internal/domain"
)

func setupTestDir(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "diagrams")
}

func TestRepository_SaveLoad(t *testing.T) {
	repo := NewRepository(setupTestDir(t))

	if _, ok, err := repo.Load(domain.KindERD); err != nil || ok {
		t.Fatalf("expected no snapshot, got ok=%v err=%v", ok, err)
	}

	if err := repo.Save(domain.KindERD, []byte(`{"tables":[]}`)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, ok, err := repo.Load(domain.KindERD)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected snapshot to exist")
	}
	if string(data) != `{"tables":[]}` {
		t.Errorf("unexpected snapshot: %s", data)
	}

	if _, err := os.Stat(filepath.Join(repo.Dir(), "erd.json")); err != nil {
		t.Errorf("expected erd.json on disk: %v", err)
	}
}

func TestRepository_Kinds(t *testing.T) {
	repo := NewRepository(setupTestDir(t))

	for _, k := range []domain.DiagramKind{domain.KindUseCase, domain.KindERD} {
		if err := repo.Save(k, []byte("{}")); err != nil {
			t.Fatalf("Save %s failed: %v", k, err)
		}
	}

	kinds, err := repo.Kinds()
	if err != nil {
		t.Fatalf("Kinds failed: %v", err)
	}
	if len(kinds) != 2 || kinds[0] != domain.KindERD || kinds[1] != domain.KindUseCase {
		t.Errorf("expected [erd usecase], got %v", kinds)
	}
}

func TestRepository_SaveUnknownKind(t *testing.T) {
	repo := NewRepository(setupTestDir(t))

	if err := repo.Save(domain.KindUnknown, []byte("{}")); err == nil {
		t.Error("expected error saving unknown kind")
	}
}

func TestWriteFile_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")

	for _, content := range []string{"first", "second"} {
		if err := WriteFile(path, []byte(content)); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if got != "second" {
		t.Errorf("expected second write to win, got %q", got)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("expected error naming the file, got %v", err)
	}
}
