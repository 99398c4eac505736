package jekyll

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

type articleFrontMatter struct {
	Title  string `yaml:"title"`
	Number int    `yaml:"number"`
	Slug   string `yaml:"slug"`
	Layout string `yaml:"layout"`
}

type indexArticle struct {
	Number int    `yaml:"number"`
	Title  string `yaml:"title"`
	Slug   string `yaml:"slug"`
}

type indexPart struct {
	Title    string         `yaml:"title"`
	Range    [2]int         `yaml:"range,flow"`
	Articles []indexArticle `yaml:"articles"`
}

type indexSection struct {
	Numeral      string `yaml:"numeral"`
	Number       int    `yaml:"number"`
	Title        string `yaml:"title"`
	FirstArticle int    `yaml:"first_article,omitempty"`
	LastArticle  int    `yaml:"last_article,omitempty"`
}

// ArticlePath returns the collection file name for an article, e.g. _articles/185-kradizhka.md.
func ArticlePath(a domain.Article) string {
	return filepath.Join(ArticlesDir, fmt.Sprintf("%03d-%s.md", a.Number, a.Slug))
}

// WriteArticles renders one document per article. A failed file does not stop
// the rest; all failures are returned joined together with the written paths.
func (w *Writer) WriteArticles(ctx context.Context, articles []domain.Article) ([]string, error) {
	if _, err := w.dir(ArticlesDir); err != nil {
		return nil, err
	}

	var (
		written []string
		errs    []error
	)
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		path := filepath.Join(w.root, ArticlePath(article))
		content, err := renderArticle(article)
		if err == nil {
			err = os.WriteFile(path, content, 0o644)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("write article %d: %w", article.Number, err))
			continue
		}
		written = append(written, path)
	}

	w.debug("articles written", "count", len(written), "failed", len(errs))
	return written, errors.Join(errs...)
}

func renderArticle(article domain.Article) ([]byte, error) {
	title := fmt.Sprintf("Стаття %d. %s", article.Number, article.Title)
	fm, err := frontMatter(articleFrontMatter{
		Title:  title,
		Number: article.Number,
		Slug:   article.Slug,
		Layout: "article",
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = articleTemplate.Execute(&buf, articleView{
		FrontMatter: fm,
		Number:      article.Number,
		Title:       article.Title,
		Body:        article.Body,
		Prev:        article.Number - 1,
		Next:        article.Number + 1,
	})
	if err != nil {
		return nil, fmt.Errorf("render article: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteIndex stores _data/criminal_code.yml grouping articles by part of the code.
// Numbers past the general part land in the special part.
func (w *Writer) WriteIndex(ctx context.Context, articles []domain.Article, sections []domain.Section) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dataDir, err := w.dir(DataDir)
	if err != nil {
		return err
	}

	raw, err := buildIndex(articles, sections)
	if err != nil {
		return err
	}

	path := filepath.Join(dataDir, IndexFile)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}

	w.debug("index written", "path", path, "articles", len(articles), "sections", len(sections))
	return nil
}

func buildIndex(articles []domain.Article, sections []domain.Section) ([]byte, error) {
	parts := domain.Parts()
	grouped := make([][]indexArticle, len(parts))
	for _, article := range articles {
		idx := len(parts) - 1
		for i, part := range parts {
			if article.Number >= part.First && article.Number <= part.Last {
				idx = i
				break
			}
		}
		grouped[idx] = append(grouped[idx], indexArticle{
			Number: article.Number,
			Title:  article.Title,
			Slug:   article.Slug,
		})
	}

	doc := &yaml.Node{Kind: yaml.MappingNode}
	for i, part := range parts {
		entries := grouped[i]
		if entries == nil {
			entries = []indexArticle{}
		}
		if err := appendMapping(doc, part.Key, indexPart{
			Title:    part.Title,
			Range:    [2]int{part.First, part.Last},
			Articles: entries,
		}); err != nil {
			return nil, err
		}
	}

	if len(sections) > 0 {
		view := make([]indexSection, 0, len(sections))
		for _, s := range sections {
			view = append(view, indexSection(s))
		}
		if err := appendMapping(doc, "sections", view); err != nil {
			return nil, err
		}
	}

	raw, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode index: %w", err)
	}
	return raw, nil
}

func appendMapping(doc *yaml.Node, key string, value interface{}) error {
	var node yaml.Node
	if err := node.Encode(value); err != nil {
		return fmt.Errorf("encode index %s: %w", key, err)
	}
	doc.Content = append(doc.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &node)
	return nil
}
