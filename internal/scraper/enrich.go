package scraper

import (
	"errors"
	"fmt"
	"log"
	"time"
)

const (
	// DefaultMaxAttempts bounds the detail fetches per item and run.
	DefaultMaxAttempts = 3
	retryDelay         = 2 * time.Second
)

var errIncomplete = errors.New("page fetched but no usable content extracted")

// Enrich fetches detail content for one item with bounded retries and a
// fixed delay between attempts. An attempt that fetches the page but
// leaves the record incomplete counts as a failure. On success the item
// is updated in place; otherwise it is left untouched so it stays
// pending for the next run.
//
// sleep is injectable so tests run without real delays; nil means
// time.Sleep.
func Enrich(src Source, it *Item, maxAttempts int, sleep func(time.Duration)) error {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		d, err := src.FetchDetails(*it)
		if err == nil {
			updated := *it
			updated.apply(d)
			if src.Complete(updated) {
				*it = updated
				return nil
			}
			err = errIncomplete
		}
		log.Printf("  attempt %d: %v", attempt, err)

		if attempt < maxAttempts {
			sleep(retryDelay)
		}
	}
	return fmt.Errorf("enrich %s: giving up after %d attempts", it.URL, maxAttempts)
}

// apply copies the non-empty detail fields onto the item.
func (it *Item) apply(d Details) {
	if d.Title != "" {
		it.Title = d.Title
	}
	if d.Description != "" {
		it.Description = d.Description
	}
	if d.Image != "" {
		it.Image = d.Image
	}
	if d.Developer != "" {
		it.Developer = d.Developer
	}
}
