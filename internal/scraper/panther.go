package scraper

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
)

const pantherBase = "https://www.aev-panther.de"

// Panther scrapes the Augsburger Panther news listing. The listing is
// newest-first, so discovery stops at the first known article; the
// article URL doubles as the stable ID.
type Panther struct {
	base   string
	client *resty.Client
}

func NewPanther() *Panther {
	return &Panther{base: pantherBase, client: newHTTPClient()}
}

func (p *Panther) Name() string { return "panther" }

func (p *Panther) Feed() FeedInfo {
	return FeedInfo{
		Title:       "Augsburger Panther",
		Link:        p.base + "/panther/news.html",
		Description: "Aktuelle News der Augsburger Panther. Inoffizieller RSS Feed der Website.",
		Language:    "de",
		TTL:         120,
		Icon:        "https://raw.githubusercontent.com/bennokress/rss-feeds/main/Augsburger%20Panther/channel-icon.png",
	}
}

func (p *Panther) Policy() Policy { return StopAtKnown }
func (p *Panther) MaxItems() int  { return 50 }

func (p *Panther) Schema() Schema {
	return Schema{
		{"Date", func(it *Item) string { return it.Date }, func(it *Item, v string) { it.Date = v }},
		{"Time", func(it *Item) string { return it.Time }, func(it *Item, v string) { it.Time = v }},
		{"Title", func(it *Item) string { return it.Title }, func(it *Item, v string) { it.Title = v }},
		// The URL is the dedup key, so loading it restores the ID too.
		{"URL", func(it *Item) string { return it.URL }, func(it *Item, v string) { it.URL = v; it.ID = v }},
		{"Description", func(it *Item) string { return it.Description }, func(it *Item, v string) { it.Description = v }},
		{"Image", func(it *Item) string { return it.Image }, func(it *Item, v string) { it.Image = v }},
	}
}

func (p *Panther) Complete(it Item) bool    { return it.Description != "" }
func (p *Panther) EntryLink(it Item) string { return it.URL }

// "DD.MM.YYYY | HH:MM Uhr"
var pantherDateRe = regexp.MustCompile(`(\d{2})\.(\d{2})\.(\d{4})\s*\|\s*(\d{2}:\d{2})`)

func (p *Panther) DiscoverNew(known map[string]struct{}, maxNew int) ([]Item, error) {
	c := newListingCollector()

	var items []Item
	stopped := false

	c.OnHTML("div.news-item", func(e *colly.HTMLElement) {
		if stopped {
			return
		}
		href := e.ChildAttr("a", "href")
		if href == "" {
			return
		}
		u := absolutize(p.base, href)

		if _, ok := known[u]; ok {
			log.Println("panther: found known article, stopping parse")
			stopped = true
			return
		}

		var dateText, title string
		spans := e.DOM.Find("div.newsitem_link span")
		if spans.Length() >= 2 {
			dateText = strings.TrimSpace(spans.Eq(0).Text())
			title = strings.TrimSpace(spans.Eq(1).Text())
		}
		if title == "" {
			return
		}

		var date, tm string
		if m := pantherDateRe.FindStringSubmatch(dateText); m != nil {
			date = m[3] + "-" + m[2] + "-" + m[1]
			tm = m[4]
		}

		items = append(items, Item{ID: u, Title: title, URL: u, Date: date, Time: tm})
		log.Printf("panther: new article: %s", title)

		if maxNew > 0 && len(items) >= maxNew {
			log.Printf("panther: reached %d new articles, stopping parse", maxNew)
			stopped = true
		}
	})

	if err := c.Visit(p.base + "/panther/news.html"); err != nil {
		return nil, fmt.Errorf("panther: fetch news page: %w", err)
	}
	return items, nil
}

func (p *Panther) FetchDetails(it Item) (Details, error) {
	doc, err := fetchDoc(p.client, it.URL)
	if err != nil {
		return Details{}, fmt.Errorf("panther: fetch article: %w", err)
	}

	teaser := pantherTeaser(doc)
	if teaser != "" {
		teaser += " […]"
	}

	image := doc.Find("div.article_image img").First().AttrOr("src", "")
	image = absolutize(p.base, image)

	return Details{Description: teaser, Image: image}, nil
}

// pantherTeaser extracts the first paragraph of the article body, cut at
// the first <br> or <strong> so a section header never leaks into the
// feed summary.
func pantherTeaser(doc *goquery.Document) string {
	para := doc.Find("div.contentarea p").First()
	if para.Length() == 0 {
		return ""
	}

	var b strings.Builder
	for n := para.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode && (n.Data == "br" || n.Data == "strong") {
			break
		}
		b.WriteString(nodeText(n))
	}
	return strings.TrimSpace(b.String())
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}
