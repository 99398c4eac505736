package slug

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var slugShape = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "single word", title: "Крадіжка", want: "kradizhka"},
		{name: "two words", title: "Умисне вбивство", want: "umysne-vbyvstvo"},
		{name: "multi letter substitutions", title: "Щастя їжака", want: "schastya-yizhaka"},
		{name: "soft sign dropped", title: "Сьогодні", want: "sogodni"},
		{name: "apostrophe dropped", title: "здоров'я", want: "zdorovya"},
		{name: "punctuation and digits", title: "Стаття 185, ч. 2!", want: "stattya-185-ch-2"},
		{name: "hyphens collapsed", title: "  --Грабіж -- розбій--  ", want: "grabizh-rozbiy"},
		{name: "latin passthrough", title: "ДТП and Co", want: "dtp-and-co"},
		{name: "nothing transliterable", title: "ЫЭЁ !!!", want: ""},
		{name: "empty", title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.title))
		})
	}
}

func TestMakeTruncatesWithoutTrailingHyphen(t *testing.T) {
	t.Parallel()

	title := strings.Repeat("абвгд ", 20)
	got := Make(title)

	assert.LessOrEqual(t, len(got), MaxLength)
	assert.False(t, strings.HasSuffix(got, "-"), "slug %q ends with a hyphen", got)
	assert.Regexp(t, slugShape, got)
}

func TestMakeIsIdempotent(t *testing.T) {
	t.Parallel()

	titles := []string{
		"Крадіжка",
		"Перевищення меж необхідної оборони",
		"Прийняття пропозиції, обіцянки або одержання неправомірної вигоди службовою особою",
		"Самовільне залишення військової частини або місця служби",
		"  ???  ",
	}

	for _, title := range titles {
		once := Make(title)
		assert.Equal(t, once, Make(once), "title %q", title)
		if once != "" {
			assert.Regexp(t, slugShape, once)
		}
	}
}
