package segmenter

import (
	"regexp"
	"strings"
	"unicode"
)

var trailingPart = regexp.MustCompile(`\s+(\d{1,2})\s*$`)

// RawMatch is an unprocessed article candidate found by a rule.
type RawMatch struct {
	Number string
	Title  string
	Body   string
	Offset int
}

// Rule is one article extraction strategy. Rules are tried in order and the
// first one producing any match is used for the whole document.
type Rule interface {
	Name() string
	Extract(text string) []RawMatch
}

// headerRule finds "number + title" headers and takes the body up to the next boundary.
// header must capture the number as group 1 and the first title rune as group 2.
type headerRule struct {
	name     string
	header   *regexp.Regexp
	boundary *regexp.Regexp
}

// DefaultRules returns the built-in rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		headerRule{
			name:     "stattya",
			header:   regexp.MustCompile(`(?i)Стаття\s+(\d+)\.?\s*([А-ЯІЇЄҐ])`),
			boundary: regexp.MustCompile(`(?i)Стаття\s+\d+`),
		},
		headerRule{
			name:     "numbered",
			header:   regexp.MustCompile(`(?i)(\d+)\.?\s*([А-ЯІЇЄҐ])`),
			boundary: regexp.MustCompile(`(?i)\d+\.\s*[А-ЯІЇЄҐ]`),
		},
	}
}

func (r headerRule) Name() string {
	return r.name
}

func (r headerRule) Extract(text string) []RawMatch {
	var matches []RawMatch

	pos := 0
	for pos < len(text) {
		loc := r.header.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}

		number := text[pos+loc[2] : pos+loc[3]]
		start := pos + loc[4]
		end := len(text)
		if b := r.boundary.FindStringIndex(text[start:]); b != nil {
			end = start + b[0]
		}

		title, body := splitTitle(text[start:end])
		matches = append(matches, RawMatch{
			Number: number,
			Title:  title,
			Body:   body,
			Offset: pos + loc[0],
		})

		pos = end
	}

	return matches
}

// splitTitle cuts a chunk at its first period: the title precedes it, the body follows.
// A trailing part number ("Крадіжка 1" from "Крадіжка\n1. Таємне ...") belongs to the body.
func splitTitle(chunk string) (string, string) {
	i := strings.IndexByte(chunk, '.')
	if i < 0 {
		return chunk, ""
	}
	title, body := chunk[:i], chunk[i+1:]
	if loc := trailingPart.FindStringSubmatchIndex(title); loc != nil && strings.IndexFunc(title[:loc[0]], unicode.IsLetter) >= 0 {
		body = title[loc[2]:loc[3]] + "." + body
		title = title[:loc[0]]
	}
	return title, body
}
