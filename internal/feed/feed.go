// Package feed renders a merged item list as an RSS 2.0 document.
package feed

import (
	"fmt"
	"time"

	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/gorilla/feeds"
)

// Render maps the list onto the source's channel. Pending records are
// left out silently; they stay in the store and join the feed once
// enrichment succeeds.
func Render(src scraper.Source, items []scraper.Item, now time.Time) ([]byte, error) {
	info := src.Feed()

	f := &feeds.Feed{
		Title:       info.Title,
		Link:        &feeds.Link{Href: info.Link},
		Description: info.Description,
		Created:     now,
	}

	for _, it := range items {
		if !src.Complete(it) {
			continue
		}

		link := src.EntryLink(it)
		entry := &feeds.Item{
			Id:          link,
			Title:       it.Title,
			Link:        &feeds.Link{Href: link},
			Description: it.Description,
		}
		if t, ok := it.PublishedAt(); ok {
			entry.Created = t
		}
		if it.Image != "" {
			entry.Enclosure = &feeds.Enclosure{Url: it.Image, Length: "0", Type: "image/jpeg"}
		}
		if it.Developer != "" {
			entry.Author = &feeds.Author{Name: it.Developer}
		}
		f.Items = append(f.Items, entry)
	}

	// Drop to the RSS-level struct for channel fields the generic feed
	// type has no notion of (language, ttl, channel icon).
	rss := (&feeds.Rss{Feed: f}).RssFeed()
	rss.Language = info.Language
	rss.Ttl = info.TTL
	if info.Icon != "" {
		rss.Image = &feeds.RssImage{Url: info.Icon, Title: info.Title, Link: info.Link}
	}

	xml, err := feeds.ToXML(rss)
	if err != nil {
		return nil, fmt.Errorf("feed: render %s: %w", src.Name(), err)
	}
	return []byte(xml), nil
}
