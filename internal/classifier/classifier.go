// Package classifier detects which articles of the criminal code a free-form text cites.
//
// Three independent passes are unioned: explicit citation patterns, characteristic
// phrases per article, and broad topics mapped to a few likely articles. The result
// is heuristic; it carries no scores and never fails on arbitrary input.
package classifier

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/textnorm"
)

// Classifier maps text onto article numbers using immutable tables.
type Classifier struct {
	rng      Range
	patterns []*regexp.Regexp

	// the automaton keeps per-call scratch state, so Match is serialized
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
	owners  [][]int // phrase index -> articles

	contexts []ContextRule
	perTopic int
	limit    int
}

// Analysis lists what each pass contributed next to the final result.
type Analysis struct {
	Pattern  []int
	Keyword  []int
	Context  []int
	Articles []int
}

// New compiles tables into a classifier.
func New(t Tables) (*Classifier, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	c := &Classifier{
		rng:      t.Range,
		perTopic: t.ContextPerTopic,
		limit:    t.ContextLimit,
	}

	for _, p := range t.Patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", ErrInvalidTables, p, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("%w: pattern %q has no capture group", ErrInvalidTables, p)
		}
		c.patterns = append(c.patterns, re)
	}

	index := map[string]int{}
	var phrases []string
	for _, rule := range t.Keywords {
		for _, phrase := range rule.Phrases {
			phrase = prepare(phrase)
			if phrase == "" {
				continue
			}
			i, ok := index[phrase]
			if !ok {
				i = len(phrases)
				index[phrase] = i
				phrases = append(phrases, phrase)
				c.owners = append(c.owners, nil)
			}
			c.owners[i] = append(c.owners[i], rule.Article)
		}
	}
	if len(phrases) > 0 {
		c.matcher = ahocorasick.NewStringMatcher(phrases)
	}

	for _, rule := range t.Contexts {
		topic := prepare(rule.Topic)
		if topic == "" {
			continue
		}
		c.contexts = append(c.contexts, ContextRule{Topic: topic, Articles: rule.Articles})
	}

	return c, nil
}

// Default builds a classifier from the embedded tables.
func Default() (*Classifier, error) {
	t, err := DefaultTables()
	if err != nil {
		return nil, err
	}
	return New(t)
}

// Classify returns the cited articles in ascending order without duplicates.
func (c *Classifier) Classify(text string) []int {
	return c.Analyze(text).Articles
}

// Analyze runs all passes and reports their individual contributions.
func (c *Classifier) Analyze(text string) Analysis {
	prepared := prepare(text)

	a := Analysis{
		Pattern: c.patternPass(prepared),
		Keyword: c.keywordPass(prepared),
		Context: c.contextPass(prepared),
	}

	found := map[int]struct{}{}
	for _, pass := range [][]int{a.Pattern, a.Keyword, a.Context} {
		for _, n := range pass {
			found[n] = struct{}{}
		}
	}
	a.Articles = sortedSet(found)
	return a
}

func (c *Classifier) patternPass(text string) []int {
	found := map[int]struct{}{}
	for _, re := range c.patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err != nil || !c.rng.Contains(n) {
				continue
			}
			found[n] = struct{}{}
		}
	}
	return sortedSet(found)
}

func (c *Classifier) keywordPass(text string) []int {
	if c.matcher == nil || text == "" {
		return []int{}
	}

	c.mu.Lock()
	hits := c.matcher.Match([]byte(text))
	c.mu.Unlock()

	found := map[int]struct{}{}
	for _, i := range hits {
		if i < 0 || i >= len(c.owners) {
			continue
		}
		for _, n := range c.owners[i] {
			found[n] = struct{}{}
		}
	}
	return sortedSet(found)
}

// contextPass keeps topic order: the first perTopic articles of every topic present,
// cut at limit entries overall.
func (c *Classifier) contextPass(text string) []int {
	contributed := []int{}
	if text == "" {
		return contributed
	}
	for _, rule := range c.contexts {
		if !strings.Contains(text, rule.Topic) {
			continue
		}
		n := min(c.perTopic, len(rule.Articles))
		contributed = append(contributed, rule.Articles[:n]...)
	}
	if len(contributed) > c.limit {
		contributed = contributed[:c.limit]
	}
	return contributed
}

// prepare lower-cases text, turns layout spaces into plain ones (regexp \s is ASCII only)
// and folds typographic apostrophes.
func prepare(text string) string {
	return strings.ToLower(strings.TrimSpace(strings.Map(foldApostrophe, textnorm.Clean(text))))
}

func foldApostrophe(r rune) rune {
	switch r {
	case '’', 'ʼ', '`', '′', '´':
		return '\''
	}
	return r
}

func sortedSet(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}
