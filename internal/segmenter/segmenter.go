// Package segmenter splits the extracted text of the criminal code into articles.
package segmenter

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/slug"
)

const (
	// MaxBodyRunes caps the article body before the truncation marker is appended.
	MaxBodyRunes    = 2000
	truncatedMarker = "..."
)

// DuplicatePolicy decides what happens when several matches share a number.
type DuplicatePolicy int

const (
	// KeepAll leaves same-numbered articles adjacent in the output.
	KeepAll DuplicatePolicy = iota
	// KeepFirst keeps the occurrence that appears first in the document.
	KeepFirst
	// KeepLast keeps the occurrence that appears last in the document.
	KeepLast
)

// ParseDuplicatePolicy maps "all", "first" and "last" onto a policy.
func ParseDuplicatePolicy(value string) (DuplicatePolicy, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "all", "keep-all":
		return KeepAll, true
	case "first", "keep-first":
		return KeepFirst, true
	case "last", "keep-last":
		return KeepLast, true
	default:
		return KeepAll, false
	}
}

// Options tunes a segmentation run. The zero value uses DefaultRules and KeepAll.
type Options struct {
	Duplicates DuplicatePolicy
	Rules      []Rule
}

// Result is the outcome of one segmentation run.
type Result struct {
	Articles  []domain.Article
	Sections  []domain.Section
	Rule      string
	Discarded int
}

var titleEdges = regexp.MustCompile(`^[^\p{L}\p{N}_]+|[^\p{L}\p{N}_]+$`)

// Articles segments raw with default options.
func Articles(raw string) []domain.Article {
	return Segment(raw, Options{}).Articles
}

// Segment normalizes raw and extracts articles using the first rule that matches.
func Segment(raw string, opts Options) Result {
	text := Normalize(raw)

	rules := opts.Rules
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	var (
		result Result
		raws   []RawMatch
	)
	for _, rule := range rules {
		raws = rule.Extract(text)
		if len(raws) > 0 {
			result.Rule = rule.Name()
			break
		}
	}

	offsets := make([]int, 0, len(raws))
	for _, m := range raws {
		article, ok := buildArticle(m)
		if !ok {
			result.Discarded++
			continue
		}
		result.Articles = append(result.Articles, article)
		offsets = append(offsets, m.Offset)
	}

	result.Sections = detectSections(text, result.Articles, offsets)

	sort.SliceStable(result.Articles, func(i, j int) bool {
		return result.Articles[i].Number < result.Articles[j].Number
	})
	result.Articles = applyDuplicatePolicy(result.Articles, opts.Duplicates)

	return result
}

func buildArticle(m RawMatch) (domain.Article, bool) {
	number, err := strconv.Atoi(m.Number)
	if err != nil || number < domain.MinArticleNumber {
		return domain.Article{}, false
	}

	title := titleEdges.ReplaceAllString(m.Title, "")
	title = collapseSpaces(title)

	return domain.Article{
		Number: number,
		Title:  title,
		Body:   truncateBody(collapseSpaces(m.Body)),
		Slug:   slug.Make(title),
	}, true
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateBody(body string) string {
	runes := []rune(body)
	if len(runes) <= MaxBodyRunes {
		return body
	}
	return string(runes[:MaxBodyRunes]) + truncatedMarker
}

func applyDuplicatePolicy(articles []domain.Article, policy DuplicatePolicy) []domain.Article {
	if policy == KeepAll || len(articles) < 2 {
		return articles
	}

	out := make([]domain.Article, 0, len(articles))
	for i, article := range articles {
		switch policy {
		case KeepFirst:
			if i > 0 && articles[i-1].Number == article.Number {
				continue
			}
		case KeepLast:
			if i+1 < len(articles) && articles[i+1].Number == article.Number {
				continue
			}
		}
		out = append(out, article)
	}
	return out
}
