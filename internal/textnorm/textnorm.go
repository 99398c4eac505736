// Package textnorm holds the rune-level cleanup shared by the segmenter and the classifier.
package textnorm

import (
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Clean composes s to NFC, drops invisible format characters and turns layout
// spaces (NBSP, thin and figure spaces, line and paragraph separators) into plain spaces.
func Clean(s string) string {
	t := transform.Chain(
		norm.NFC,
		runes.Remove(runes.Predicate(IsInvisible)),
		runes.Map(LayoutSpace),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// IsInvisible reports zero-width and soft-hyphen characters left by PDF and HTML extraction.
func IsInvisible(r rune) bool {
	return r == '\u200b' || r == '\ufeff' || r == '\u00ad'
}

// LayoutSpace maps typographic spaces to ' ' and leaves other runes alone.
func LayoutSpace(r rune) rune {
	switch {
	case r == '\u00a0', r >= '\u2000' && r <= '\u200a', r == '\u202f', r == '\u2028', r == '\u2029':
		return ' '
	}
	return r
}
