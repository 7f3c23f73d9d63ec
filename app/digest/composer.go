package digest

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/rss-digest/app/catalog"
	"github.com/lysyi3m/rss-digest/app/feed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const DateLayout = "2006-01-02"

const emptyDigest = "No articles found for today."

type Group struct {
	Category string
	Articles []*feed.Article
}

// Digest is composed once for a calendar day and not modified afterwards.
type Digest struct {
	Date         time.Time
	Groups       []Group
	ArticleCount int
	Text         string
}

func (d *Digest) DateKey() string {
	return d.Date.Format(DateLayout)
}

func (d *Digest) IsEmpty() bool {
	return d.ArticleCount == 0
}

type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose groups summarized articles by feed category in first-seen order.
// Articles without a summary are left out.
func (c *Composer) Compose(day time.Time, articles []*feed.Article) *Digest {
	d := &Digest{Date: day}

	index := make(map[string]int)
	for _, article := range articles {
		if article == nil || !article.HasSummary() {
			continue
		}

		category := cmp.Or(article.FeedCategory, catalog.DefaultCategory)
		i, ok := index[category]
		if !ok {
			i = len(d.Groups)
			index[category] = i
			d.Groups = append(d.Groups, Group{Category: category})
		}
		d.Groups[i].Articles = append(d.Groups[i].Articles, article)
		d.ArticleCount++
	}

	d.Text = c.render(d)
	return d
}

func (c *Composer) render(d *Digest) string {
	if d.IsEmpty() {
		return emptyDigest
	}

	caser := cases.Title(language.English)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Daily News Digest - %d articles\n\n", d.ArticleCount))
	for _, group := range d.Groups {
		sb.WriteString(fmt.Sprintf("## %s\n\n", caser.String(strings.ReplaceAll(group.Category, "_", " "))))
		for _, article := range group.Articles {
			sb.WriteString(fmt.Sprintf("**%s**\n", article.Title))
			sb.WriteString(article.Summary + "\n")
			sb.WriteString(fmt.Sprintf("Source: %s\n\n", article.Source))
		}
	}
	return sb.String()
}
