package classifier

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

//go:embed default_tables.yaml
var defaultTablesYAML []byte

// ErrInvalidTables reports tables that cannot drive a classifier.
var ErrInvalidTables = errors.New("invalid classifier tables")

// Tables is the read-only vocabulary used by the classifier.
type Tables struct {
	Range           Range         `yaml:"range"`
	Patterns        []string      `yaml:"patterns"`
	Keywords        []KeywordRule `yaml:"keywords"`
	Contexts        []ContextRule `yaml:"contexts"`
	ContextPerTopic int           `yaml:"contextPerTopic"`
	ContextLimit    int           `yaml:"contextLimit"`
}

// Range is the closed interval of valid article numbers.
type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Contains reports whether n lies within the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && n <= r.Max
}

// KeywordRule links an article to phrases characteristic of it.
type KeywordRule struct {
	Article int      `yaml:"article"`
	Phrases []string `yaml:"phrases"`
}

// ContextRule links a broad topic to candidate articles in priority order.
type ContextRule struct {
	Topic    string `yaml:"topic"`
	Articles []int  `yaml:"articles"`
}

// DefaultTables decodes the embedded tables.
func DefaultTables() (Tables, error) {
	return ParseTables(defaultTablesYAML)
}

// LoadTables reads tables from a YAML file.
func LoadTables(path string) (Tables, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read tables %s: %w", path, err)
	}
	return ParseTables(raw)
}

// Context pass limits used when a table omits them.
const (
	DefaultContextPerTopic = 2
	DefaultContextLimit    = 5
)

// ParseTables decodes YAML tables, filling the range and limits when absent.
// An explicit contextLimit or contextPerTopic of 0 turns the context pass off.
func ParseTables(raw []byte) (Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return Tables{}, fmt.Errorf("decode tables: %w", err)
	}
	var limits struct {
		ContextPerTopic *int `yaml:"contextPerTopic"`
		ContextLimit    *int `yaml:"contextLimit"`
	}
	if err := yaml.Unmarshal(raw, &limits); err != nil {
		return Tables{}, fmt.Errorf("decode tables: %w", err)
	}

	if t.Range == (Range{}) {
		t.Range = Range{Min: domain.MinArticleNumber, Max: domain.MaxArticleNumber}
	}
	t.ContextPerTopic = DefaultContextPerTopic
	if limits.ContextPerTopic != nil {
		t.ContextPerTopic = *limits.ContextPerTopic
	}
	t.ContextLimit = DefaultContextLimit
	if limits.ContextLimit != nil {
		t.ContextLimit = *limits.ContextLimit
	}
	return t, nil
}

func (t Tables) validate() error {
	if t.Range.Min < domain.MinArticleNumber || t.Range.Max > domain.MaxArticleNumber || t.Range.Min > t.Range.Max {
		return fmt.Errorf("%w: range [%d, %d] outside [%d, %d]", ErrInvalidTables,
			t.Range.Min, t.Range.Max, domain.MinArticleNumber, domain.MaxArticleNumber)
	}
	if t.ContextPerTopic < 0 || t.ContextLimit < 0 {
		return fmt.Errorf("%w: negative context limits", ErrInvalidTables)
	}
	for _, rule := range t.Keywords {
		if !t.Range.Contains(rule.Article) {
			return fmt.Errorf("%w: keyword article %d out of range", ErrInvalidTables, rule.Article)
		}
	}
	for _, rule := range t.Contexts {
		for _, article := range rule.Articles {
			if !t.Range.Contains(article) {
				return fmt.Errorf("%w: topic %q article %d out of range", ErrInvalidTables, rule.Topic, article)
			}
		}
	}
	return nil
}
