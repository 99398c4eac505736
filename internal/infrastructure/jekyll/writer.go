// Package jekyll renders segmented articles and classified posts as Jekyll
// collection documents with YAML front matter.
package jekyll

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// Site directories relative to the Jekyll root.
const (
	ArticlesDir  = "_articles"
	DecisionsDir = "_decisions"
	DataDir      = "_data"
	IndexFile    = "criminal_code.yml"
)

// Writer places generated documents into a Jekyll site tree.
type Writer struct {
	root   string
	source string
	logger *slog.Logger
}

var (
	_ ports.ArticleSink  = (*Writer)(nil)
	_ ports.DecisionSink = (*Writer)(nil)
)

// NewWriter binds the writer to a site root; source labels generated decisions.
func NewWriter(root, source string, log *slog.Logger) *Writer {
	if root == "" {
		root = "."
	}
	return &Writer{root: root, source: source, logger: log}
}

func (w *Writer) dir(name string) (string, error) {
	path := filepath.Join(w.root, name)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	return path, nil
}

// frontMatter encodes v as the YAML block between "---" fences, trailing newline included.
func frontMatter(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	return buf.String(), nil
}

func (w *Writer) debug(msg string, args ...interface{}) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}
