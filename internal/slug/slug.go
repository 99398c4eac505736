// Package slug derives URL-safe identifiers from Ukrainian titles.
package slug

import (
	"strings"
	"unicode"
)

// MaxLength caps the slug length in bytes.
const MaxLength = 50

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'ґ': "g", 'д': "d", 'е': "e",
	'є': "ye", 'ж': "zh", 'з': "z", 'и': "y", 'і': "i", 'ї': "yi", 'й': "y",
	'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o", 'п': "p", 'р': "r",
	'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "c", 'ч': "ch",
	'ш': "sh", 'щ': "sch", 'ь': "", 'ю': "yu", 'я': "ya",
}

// Make lower-cases and transliterates title, keeps [a-z0-9-] and joins words with
// single hyphens. Distinct titles may collide.
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	for _, r := range strings.ToLower(title) {
		if latin, ok := translit[r]; ok {
			b.WriteString(latin)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	joined := strings.Join(words, "-")
	joined = collapseHyphens(joined)
	joined = strings.Trim(joined, "-")

	if len(joined) > MaxLength {
		joined = strings.TrimRight(joined[:MaxLength], "-")
	}
	return joined
}

func collapseHyphens(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		b.WriteByte(c)
	}
	return b.String()
}
