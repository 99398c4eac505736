package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// ledgerFile mirrors the _data/processed_posts.json document the site already tracks.
type ledgerFile struct {
	ProcessedPosts []int64 `json:"processed_posts"`
	LastUpdate     string  `json:"last_update"`
	TotalProcessed int     `json:"total_processed"`
}

// FileLedger keeps processed post ids in a JSON file inside the site tree.
type FileLedger struct {
	path string
	now  func() time.Time
}

var _ ports.LedgerStore = (*FileLedger)(nil)

// NewFileLedger points the store at a JSON document; the file may not exist yet.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path, now: time.Now}
}

// Load returns an empty ledger for a missing file and an error for a corrupt one.
func (f *FileLedger) Load(ctx context.Context) (domain.Ledger, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return domain.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ledger %s: %w", f.path, err)
	}

	var doc ledgerFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", f.path, err)
	}

	return domain.NewLedger(doc.ProcessedPosts...), nil
}

// Save rewrites the document through a temp file so a crash never leaves half a ledger.
func (f *FileLedger) Save(ctx context.Context, ledger domain.Ledger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := ledgerFile{
		ProcessedPosts: ledger.IDs(),
		LastUpdate:     f.now().UTC().Format(time.RFC3339),
		TotalProcessed: ledger.Len(),
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".processed-*.json")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(raw, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace ledger: %w", err)
	}

	return nil
}
