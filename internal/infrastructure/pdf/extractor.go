package pdf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// Extractor reads the plain text layer of a PDF document page by page.
type Extractor struct {
	path   string
	logger *slog.Logger
}

var _ ports.DocumentSource = (*Extractor)(nil)

// NewExtractor binds the extractor to a PDF path.
func NewExtractor(path string, log *slog.Logger) *Extractor {
	return &Extractor{path: path, logger: log}
}

// ExtractText concatenates page texts separated by newlines.
// Pages whose text cannot be decoded are skipped.
func (e *Extractor) ExtractText(ctx context.Context) (text string, err error) {
	if e.path == "" {
		return "", fmt.Errorf("pdf path is empty")
	}

	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("read pdf %s: %v", e.path, r)
		}
	}()

	file, reader, err := pdflib.Open(e.path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", e.path, err)
	}
	defer file.Close()

	fonts := make(map[string]*pdflib.Font)
	pages := reader.NumPage()
	e.debug("pdf opened", "path", e.path, "pages", pages)

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				font := page.Font(name)
				fonts[name] = &font
			}
		}

		content, err := page.GetPlainText(fonts)
		if err != nil {
			e.debug("skip unreadable page", "page", i, "error", err)
			continue
		}
		b.WriteString(content)
		b.WriteByte('\n')
	}

	return b.String(), nil
}

func (e *Extractor) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
