// Package scraper contains the shared ingestion pipeline and one adapter
// per scraped site.
package scraper

import "time"

// Item is one persisted record. A freshly discovered item may only carry
// listing-level fields; the remaining fields are filled in by enrichment.
// Which field marks a record as complete depends on the source (see
// Source.Complete).
type Item struct {
	ID          string
	Title       string
	Description string
	URL         string
	Image       string

	// Listing-scraped publication date (ISO date + HH:MM), panther only.
	Date string
	Time string

	// Discovery timestamp (RFC 3339), sources without a native date.
	Timestamp string

	Developer string
}

// Details is the result of a successful detail fetch. Empty fields are
// left untouched on the item.
type Details struct {
	Title       string
	Description string
	Image       string
	Developer   string
}

// Policy selects how a source walks its listing against the known-ID set.
type Policy int

const (
	// StopAtKnown walks the newest-first listing top to bottom and stops
	// at the first already-known entry.
	StopAtKnown Policy = iota
	// SkipKnown walks the complete listing (all pages) and skips known
	// entries without stopping.
	SkipKnown
)

// FeedInfo is the static channel metadata of a source.
type FeedInfo struct {
	Title       string
	Link        string
	Description string
	Language    string
	TTL         int // minutes
	Icon        string
}

// Column maps one TSV column to an Item field.
type Column struct {
	Name string
	Get  func(it *Item) string
	Set  func(it *Item, v string)
}

// Schema is the ordered column set of a source's TSV file.
type Schema []Column

// Source abstracts one scraped site.
type Source interface {
	Name() string
	Feed() FeedInfo
	Policy() Policy
	// MaxItems caps both discovery and the persisted list. 0 = unbounded.
	MaxItems() int
	Schema() Schema

	// DiscoverNew fetches the live listing and returns new items in
	// listing order, never re-emitting a known ID.
	DiscoverNew(known map[string]struct{}, maxNew int) ([]Item, error)
	// FetchDetails fetches the detail page/resource for one item.
	FetchDetails(it Item) (Details, error)
	// Complete reports whether the record's primary field is filled,
	// i.e. it is no longer pending enrichment.
	Complete(it Item) bool
	// EntryLink returns the canonical feed entry URL for the item.
	EntryLink(it Item) string
}

// All returns the registered sources.
func All() []Source {
	return []Source{NewPanther(), NewHomey(), NewKomood()}
}

// ByName returns the source with the given code, or nil.
func ByName(name string) Source {
	for _, s := range All() {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Publication timezone of all three sites.
var locBerlin *time.Location

func init() {
	locBerlin, _ = time.LoadLocation("Europe/Berlin")
	if locBerlin == nil {
		locBerlin = time.FixedZone("CET", 1*3600)
	}
}

// PublishedAt parses the record's publication time: the discovery
// timestamp when present, otherwise the listing date (+ optional time)
// in the site's timezone.
func (it Item) PublishedAt() (time.Time, bool) {
	if it.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, it.Timestamp)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	if it.Date == "" {
		return time.Time{}, false
	}
	layout, value := "2006-01-02", it.Date
	if it.Time != "" {
		layout, value = "2006-01-02 15:04", it.Date+" "+it.Time
	}
	t, err := time.ParseInLocation(layout, value, locBerlin)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
