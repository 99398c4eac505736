package domain

// Article number domain of the Criminal Code of Ukraine.
const (
	MinArticleNumber = 1
	MaxArticleNumber = 447
	// GeneralPartLast is the last article of the general part; the special part follows.
	GeneralPartLast = 108
)

// Article is a numbered unit of the code extracted from the source document.
type Article struct {
	Number int
	Title  string
	Body   string
	Slug   string
}

// Section is a roman-numbered heading found in the document.
// It only groups articles for display and never gates extraction.
type Section struct {
	Numeral      string
	Number       int
	Title        string
	FirstArticle int
	LastArticle  int
}

// Part is a fixed article range used by the site index.
type Part struct {
	Key   string
	Title string
	First int
	Last  int
}

// Parts returns the general and special parts of the code.
func Parts() []Part {
	return []Part{
		{Key: "zagalna", Title: "Загальна частина", First: MinArticleNumber, Last: GeneralPartLast},
		{Key: "osoblyva", Title: "Особлива частина", First: GeneralPartLast + 1, Last: MaxArticleNumber},
	}
}

// ValidArticleNumber reports whether n lies within the code's article range.
func ValidArticleNumber(n int) bool {
	return n >= MinArticleNumber && n <= MaxArticleNumber
}
