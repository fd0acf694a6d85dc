package post

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	descriptionLength = 250
	wordsPerMinute    = 200
)

// Derived holds the display fields cached on a post.
type Derived struct {
	Image       string
	Description string
	ReadTime    int // minutes, at least 1 for a non-empty body
}

// Derive extracts the first image, a plain-text description and a read-time
// estimate from rendered post HTML. Unparseable HTML yields zero values.
func Derive(html string) Derived {
	if strings.TrimSpace(html) == "" {
		return Derived{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Derived{}
	}

	var d Derived
	if src, ok := doc.Find("img").First().Attr("src"); ok {
		d.Image = src
	}

	doc.Find("script, style").Remove()
	words := strings.Fields(doc.Text())
	if len(words) == 0 {
		return d
	}
	d.ReadTime = (len(words) + wordsPerMinute - 1) / wordsPerMinute

	text := strings.Join(words, " ")
	if utf8.RuneCountInString(text) > descriptionLength {
		r := []rune(text)
		text = string(r[:descriptionLength-3]) + "..."
	}
	d.Description = text
	return d
}
