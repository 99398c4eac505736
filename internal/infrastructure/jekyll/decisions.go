package jekyll

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/slug"
)

const decisionTitleRunes = 80

var blankLines = regexp.MustCompile(`\n\s*\n`)

type decisionFrontMatter struct {
	Title          string `yaml:"title"`
	Date           string `yaml:"date"`
	PostID         int64  `yaml:"post_id"`
	ArticleNumbers []int  `yaml:"article_numbers,flow"`
	Layout         string `yaml:"layout"`
	Source         string `yaml:"source"`
	AutoGenerated  bool   `yaml:"auto_generated"`
}

// WriteDecision stores a classified post as _decisions/<date>-<slug>.md.
// When that name is taken by another post's document the post id is appended;
// a document already holding this post is overwritten in place.
func (w *Writer) WriteDecision(ctx context.Context, post domain.Post, match domain.CitationMatch) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir, err := w.dir(DecisionsDir)
	if err != nil {
		return "", err
	}

	published := post.PublishedAt()
	date := published.Format("2006-01-02")
	title := DecisionTitle(post.Text)

	name := slug.Make(title)
	if name == "" {
		name = fmt.Sprintf("post-%d", post.ID)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", date, name))
	if _, err := os.Stat(path); err == nil && !recordsPost(path, post.ID) {
		path = filepath.Join(dir, fmt.Sprintf("%s-%s-%d.md", date, name, post.ID))
	}

	fm, err := frontMatter(decisionFrontMatter{
		Title:          title,
		Date:           date,
		PostID:         post.ID,
		ArticleNumbers: match.ArticleNumbers,
		Layout:         "decision",
		Source:         w.source,
		AutoGenerated:  true,
	})
	if err != nil {
		return "", err
	}

	body := strings.TrimSpace(post.Markdown)
	if body == "" {
		body = blankLines.ReplaceAllString(strings.TrimSpace(post.Text), "\n\n")
	}

	var buf bytes.Buffer
	err = decisionTemplate.Execute(&buf, decisionView{
		FrontMatter: fm,
		Body:        body,
		Source:      w.source,
		Published:   published.Format("02.01.2006 15:04"),
		PostID:      post.ID,
	})
	if err != nil {
		return "", fmt.Errorf("render decision %d: %w", post.ID, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write decision %d: %w", post.ID, err)
	}

	w.debug("decision written", "post", post.ID, "path", path, "articles", match.ArticleNumbers)
	return path, nil
}

// recordsPost reports whether the front matter of the decision at path carries post id.
func recordsPost(path string, id int64) bool {
	raw, err := os.ReadFile(path)
	if err != nil || !bytes.HasPrefix(raw, []byte("---\n")) {
		return false
	}
	fm, _, found := bytes.Cut(raw[3:], []byte("\n---"))
	if !found {
		return false
	}
	return bytes.Contains(append(fm, '\n'), []byte(fmt.Sprintf("\npost_id: %d\n", id)))
}

// DecisionTitle collapses whitespace and keeps the first 80 runes, marking the cut with "...".
func DecisionTitle(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(collapsed) <= decisionTitleRunes {
		return collapsed
	}
	runes := []rune(collapsed)
	return strings.TrimSpace(string(runes[:decisionTitleRunes])) + "..."
}
