package feed

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const boilerplateSelector = "script, style, nav, footer, header, aside"

// PlainText strips markup from an HTML fragment and collapses whitespace.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	doc.Find("script, style").Remove()
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// CharCount measures text in characters rather than bytes.
func CharCount(s string) int {
	return utf8.RuneCountInString(s)
}
