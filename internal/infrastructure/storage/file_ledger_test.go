package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

func TestFileLedgerMissingFile(t *testing.T) {
	t.Parallel()

	store := NewFileLedger(filepath.Join(t.TempDir(), "_data", "processed_posts.json"))
	ledger, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if ledger.Len() != 0 {
		t.Fatalf("expected empty ledger, got %d ids", ledger.Len())
	}
}

func TestFileLedgerRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "_data", "processed_posts.json")
	store := NewFileLedger(path)
	store.now = func() time.Time { return time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC) }

	if err := store.Save(context.Background(), domain.NewLedger(42, 7, 19)); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var doc ledgerFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if doc.LastUpdate != "2024-03-05T12:00:00Z" || doc.TotalProcessed != 3 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if len(doc.ProcessedPosts) != 3 || doc.ProcessedPosts[0] != 7 || doc.ProcessedPosts[2] != 42 {
		t.Fatalf("ids must be sorted: %v", doc.ProcessedPosts)
	}

	loaded, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !loaded.Has(7) || !loaded.Has(19) || !loaded.Has(42) || loaded.Len() != 3 {
		t.Fatalf("unexpected ledger: %v", loaded.IDs())
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files must not be left behind, got %d entries", len(entries))
	}
}

func TestFileLedgerEmptySave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := NewFileLedger(path).Save(context.Background(), domain.NewLedger()); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if ids, ok := doc["processed_posts"].([]any); !ok || len(ids) != 0 {
		t.Fatalf("expected empty list, got %v", doc["processed_posts"])
	}
}

func TestFileLedgerCorrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ledger.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := NewFileLedger(path).Load(context.Background()); err == nil {
		t.Fatalf("expected error for corrupt ledger")
	}
}
