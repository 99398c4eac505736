package segmenter

import (
	"regexp"
	"strings"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
)

const maxSectionTitleRunes = 200

var (
	// PDF extraction mixes latin and cyrillic look-alikes in numerals.
	sectionHeader = regexp.MustCompile(`(?i)РОЗДІЛ\s+([IVXLCІХ]+)\.?\s*`)
	sectionStop   = regexp.MustCompile(`(?i)Стаття\s+\d+|РОЗДІЛ\s+[IVXLCІХ]+`)
	numeralFold   = strings.NewReplacer("І", "I", "Х", "X", "і", "I", "х", "X")
)

// detectSections finds section headers and assigns every article to the last
// header preceding it. offsets[i] is the position of articles[i] in text.
func detectSections(text string, articles []domain.Article, offsets []int) []domain.Section {
	locs := sectionHeader.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	sections := make([]domain.Section, 0, len(locs))
	starts := make([]int, 0, len(locs))
	for _, loc := range locs {
		numeral := strings.ToUpper(numeralFold.Replace(text[loc[2]:loc[3]]))
		sections = append(sections, domain.Section{
			Numeral: numeral,
			Number:  romanValue(numeral),
			Title:   sectionTitle(text[loc[1]:]),
		})
		starts = append(starts, loc[0])
	}

	for i, article := range articles {
		idx := -1
		for j, start := range starts {
			if start > offsets[i] {
				break
			}
			idx = j
		}
		if idx < 0 {
			continue
		}
		s := &sections[idx]
		if s.FirstArticle == 0 || article.Number < s.FirstArticle {
			s.FirstArticle = article.Number
		}
		if article.Number > s.LastArticle {
			s.LastArticle = article.Number
		}
	}

	return sections
}

func sectionTitle(rest string) string {
	if loc := sectionStop.FindStringIndex(rest); loc != nil {
		rest = rest[:loc[0]]
	}
	runes := []rune(rest)
	if len(runes) > maxSectionTitleRunes {
		rest = string(runes[:maxSectionTitleRunes])
	}
	return collapseSpaces(titleEdges.ReplaceAllString(rest, ""))
}

// romanValue decodes a roman numeral, returning 0 for malformed input.
func romanValue(numeral string) int {
	values := map[byte]int{'I': 1, 'V': 5, 'X': 10, 'L': 50, 'C': 100}

	total := 0
	for i := 0; i < len(numeral); i++ {
		v, ok := values[numeral[i]]
		if !ok {
			return 0
		}
		if i+1 < len(numeral) && v < values[numeral[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	if total < 0 {
		return 0
	}
	return total
}
