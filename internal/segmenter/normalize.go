package segmenter

import (
	"strings"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/textnorm"
)

// Normalize cleans layout and invisible characters and collapses every
// whitespace run to a single space.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(textnorm.Clean(raw)), " ")
}
