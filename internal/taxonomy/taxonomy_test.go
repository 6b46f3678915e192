package taxonomy_test

import (
	"os"
	"path/filepath"
	"testing"

	"reelsync/internal/taxonomy"
)

func TestLoadEmbeddedIndex(t *testing.T) {
	idx, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("Load embedded index: %v", err)
	}
	if idx.Len() == 0 {
		t.Fatal("expected entries in embedded index")
	}

	entry, ok := idx.Get("2.1.3")
	if !ok {
		t.Fatal("expected entry 2.1.3 in embedded index")
	}
	if entry.Phase != "2" {
		t.Fatalf("unexpected phase for 2.1.3: %q", entry.Phase)
	}
	if !idx.Has("1.3") {
		t.Fatal("expected entry 1.3 in embedded index")
	}
}

func TestParsePhaseFallsBackToLeadingSegment(t *testing.T) {
	idx, err := taxonomy.Parse([]byte(`{"techniques": {"3.9": {"name": "Test", "tags": []}}}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if phase := idx.Phase("3.9"); phase != "3" {
		t.Fatalf("expected phase fallback to 3, got %q", phase)
	}
}

func TestParseRejectsEmptyIndex(t *testing.T) {
	if _, err := taxonomy.Parse([]byte(`{"techniques": {}}`)); err == nil {
		t.Fatal("expected error for empty index")
	}
	if _, err := taxonomy.Parse([]byte(`not json`)); err == nil {
		t.Fatal("expected error for invalid json")
	}
}

func TestLoadFromFileOverridesEmbedded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	doc := `{"version": "test", "techniques": {"9.9": {"name": "Custom", "phase": "9", "tags": ["custom"]}}}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write index: %v", err)
	}

	idx, err := taxonomy.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if idx.Len() != 1 || !idx.Has("9.9") {
		t.Fatalf("expected only custom entry, got %d entries", idx.Len())
	}
	if idx.Version() != "test" {
		t.Fatalf("unexpected version: %q", idx.Version())
	}
}

func TestAllIsStableOrder(t *testing.T) {
	idx, err := taxonomy.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := idx.All()
	second := idx.All()
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("unstable order at %d: %q vs %q", i, first[i].ID, second[i].ID)
		}
	}
}
