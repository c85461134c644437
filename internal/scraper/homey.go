package scraper

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/gocolly/colly/v2"
	"golang.org/x/net/html"
)

const (
	homeyBase    = "https://homey.app"
	homeyListing = homeyBase + "/en-us/apps/homey-pro/"
)

// Homey scrapes the "New Apps" section of the Homey App Store. The store
// has no reliable recency order, so discovery walks the whole section and
// skips known apps. A candidate carries no name until its detail page has
// been fetched; the app gets the current time as publication timestamp.
type Homey struct {
	base    string
	listing string
	client  *resty.Client
	now     func() time.Time
}

func NewHomey() *Homey {
	return &Homey{base: homeyBase, listing: homeyListing, client: newHTTPClient(), now: time.Now}
}

func (h *Homey) Name() string { return "homey" }

func (h *Homey) Feed() FeedInfo {
	return FeedInfo{
		Title:       "Homey App Store - New Apps",
		Link:        "https://community.homey.app/c/apps/7",
		Description: "New apps in the Homey App Store",
		Language:    "en",
		TTL:         120,
		Icon:        "https://raw.githubusercontent.com/bennokress/rss-feeds/main/Homey%20App%20Store%20-%20New%20Apps/channel-icon.png",
	}
}

func (h *Homey) Policy() Policy { return SkipKnown }
func (h *Homey) MaxItems() int  { return 50 }

func (h *Homey) Schema() Schema {
	return Schema{
		{"ID", func(it *Item) string { return it.ID }, func(it *Item, v string) { it.ID = v }},
		{"Name", func(it *Item) string { return it.Title }, func(it *Item, v string) { it.Title = v }},
		{"Description", func(it *Item) string { return it.Description }, func(it *Item, v string) { it.Description = v }},
		{"URL", func(it *Item) string { return it.URL }, func(it *Item, v string) { it.URL = v }},
		{"Image", func(it *Item) string { return it.Image }, func(it *Item, v string) { it.Image = v }},
		{"Developer", func(it *Item) string { return it.Developer }, func(it *Item, v string) { it.Developer = v }},
		{"Timestamp", func(it *Item) string { return it.Timestamp }, func(it *Item, v string) { it.Timestamp = v }},
	}
}

// The app name is the primary field here, not the description.
func (h *Homey) Complete(it Item) bool { return it.Title != "" }

// EntryLink strips the locale so re-listings under another locale map to
// the same feed entry: /en-us/app/{id}/ -> /a/{id}.
func (h *Homey) EntryLink(it Item) string {
	if id := homeyAppID(it.URL); id != "" {
		return h.base + "/a/" + id
	}
	return it.URL
}

// homeyAppID extracts the app ID from a store URL.
func homeyAppID(u string) string {
	if _, after, ok := strings.Cut(u, "/app/"); ok {
		return strings.TrimRight(after, "/")
	}
	return ""
}

func (h *Homey) DiscoverNew(known map[string]struct{}, maxNew int) ([]Item, error) {
	c := newListingCollector()

	var items []Item
	now := h.now().In(locBerlin).Format(time.RFC3339)

	c.OnHTML("html", func(e *colly.HTMLElement) {
		section := homeyNewAppsSection(e.DOM)
		if section == nil {
			log.Println("homey: could not find new-apps section")
			return
		}

		seen := make(map[string]struct{})
		section.Find("a[href*='/app/']").EachWithBreak(func(_ int, link *goquery.Selection) bool {
			href := link.AttrOr("href", "")
			if href == "" {
				return true
			}
			if strings.HasPrefix(href, "/") {
				href = h.base + href
			}

			id := homeyAppID(href)
			if id == "" {
				return true
			}
			if _, ok := known[id]; ok {
				log.Printf("homey: skipping known app: %s", id)
				return true
			}
			if _, ok := seen[id]; ok {
				return true
			}
			seen[id] = struct{}{}

			items = append(items, Item{ID: id, URL: href, Timestamp: now})
			log.Printf("homey: found new app: %s", id)

			if maxNew > 0 && len(items) >= maxNew {
				log.Printf("homey: reached %d new apps, stopping parse", maxNew)
				return false
			}
			return true
		})
	})

	if err := c.Visit(h.listing); err != nil {
		return nil, fmt.Errorf("homey: fetch listing: %w", err)
	}
	return items, nil
}

// homeyNewAppsSection locates the container of the "New Apps" section:
// the enclosing <section> of a heading mentioning it, with a text-scan
// fallback for when the page drops the heading tags.
func homeyNewAppsSection(root *goquery.Selection) *goquery.Selection {
	var section *goquery.Selection

	root.Find("h1,h2,h3,h4,h5,h6").EachWithBreak(func(_ int, heading *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(heading.Text()), "new apps") {
			return true
		}
		if s := heading.Closest("section"); s.Length() > 0 {
			section = s
		} else {
			section = heading.Parent()
		}
		return false
	})
	if section != nil {
		return section
	}

	root.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.Contains(strings.ToLower(ownText(s)), "new apps") {
			return true
		}
		if parent := s.Parent(); parent.Length() > 0 {
			section = parent
			return false
		}
		return true
	})
	return section
}

// ownText returns only the element's direct text, not its descendants'.
func ownText(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				b.WriteString(c.Data)
			}
		}
	}
	return b.String()
}

func (h *Homey) FetchDetails(it Item) (Details, error) {
	doc, err := fetchDoc(h.client, it.URL)
	if err != nil {
		return Details{}, fmt.Errorf("homey: fetch app page: %w", err)
	}

	id := homeyAppID(it.URL)
	name := strings.TrimSpace(doc.Find("h1").First().Text())

	desc := doc.Find("meta[name='description']").First().AttrOr("content", "")
	if desc == "" {
		desc = strings.TrimSpace(doc.Find("[class*='description']").First().Text())
	}

	// Prefer the large app-icon variant over whatever og:image carries.
	image := ""
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src := img.AttrOr("src", "")
		if src != "" && (strings.Contains(src, "large") || (id != "" && strings.Contains(src, id))) {
			image = src
			return false
		}
		return true
	})
	if image == "" {
		image = doc.Find("meta[property='og:image']").First().AttrOr("content", "")
	}

	developer := strings.TrimSpace(doc.Find("a[href*='/apps/author/']").First().Text())
	// The app type badge may be concatenated onto the author name.
	for _, suffix := range []string{"Community", "Official"} {
		if strings.HasSuffix(developer, suffix) {
			developer = strings.TrimSpace(strings.TrimSuffix(developer, suffix))
			break
		}
	}

	return Details{Title: name, Description: desc, Image: image, Developer: developer}, nil
}
