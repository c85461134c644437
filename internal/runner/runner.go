// Package runner executes one scrape-merge-persist cycle for a source.
package runner

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/bennokress/rss-feeds/internal/feed"
	"github.com/bennokress/rss-feeds/internal/notify"
	"github.com/bennokress/rss-feeds/internal/scraper"
	"github.com/bennokress/rss-feeds/internal/store"
)

const (
	stateFile = "articles.tsv"
	feedFile  = "feed.xml"
)

// Runner holds the run-wide collaborators. The zero value works for
// tests; Notifier nil disables webhooks.
type Runner struct {
	DataDir     string
	Notifier    *notify.Client
	WebhookURLs map[string]string // source code -> endpoint
	MaxAttempts int
	Sleep       func(time.Duration) // nil = time.Sleep
	Now         func() time.Time    // nil = time.Now
}

// Result of one run. Updated holds the records that gained their primary
// field during this run — what the surrounding automation would commit.
type Result struct {
	Updated []scraper.Item
	Merged  []scraper.Item
}

// Run processes a single source: load prior state, discover new items
// against the known-ID set, merge them in front, enrich every pending
// record, then persist and render the feed. State is written exactly
// once at the end, so a failed or killed run leaves the store untouched.
func (r *Runner) Run(src scraper.Source) (Result, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}

	dir := filepath.Join(r.DataDir, src.Name())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("runner: create %s: %w", dir, err)
	}
	statePath := filepath.Join(dir, stateFile)

	existing, err := store.Load(statePath, src.Schema())
	if err != nil {
		return Result{}, err
	}
	log.Printf("%s: loaded %d existing items", src.Name(), len(existing))

	newItems, err := src.DiscoverNew(scraper.KnownIDs(existing), src.MaxItems())
	if err != nil {
		return Result{}, err
	}
	log.Printf("%s: found %d new items", src.Name(), len(newItems))

	merged, err := scraper.Merge(newItems, existing, src.MaxItems())
	if err != nil {
		return Result{}, err
	}

	// Sources that deliver full records from the listing produce items
	// that are complete at discovery; they count as this run's output
	// without an enrichment fetch.
	var updated []scraper.Item
	for _, it := range newItems {
		if src.Complete(it) {
			updated = append(updated, it)
		}
	}

	// Enrich every pending record: the new ones plus whatever failed in
	// earlier runs. One item's failure never aborts its siblings.
	for i := range merged {
		if src.Complete(merged[i]) {
			continue
		}
		log.Printf("%s: fetching: %s", src.Name(), itemLabel(merged[i]))
		if err := scraper.Enrich(src, &merged[i], r.MaxAttempts, r.Sleep); err != nil {
			log.Printf("%s: %v", src.Name(), err)
			continue
		}
		updated = append(updated, merged[i])
	}

	if r.Notifier != nil && len(updated) > 0 {
		if url := r.WebhookURLs[src.Name()]; url != "" {
			log.Printf("%s: sending webhooks for %d items...", src.Name(), len(updated))
			for _, it := range updated {
				if err := r.Notifier.Send(url, it); err != nil {
					log.Printf("%s: webhook failed: %v", src.Name(), err)
				}
			}
		}
	}

	if err := store.Save(statePath, src.Schema(), merged); err != nil {
		return Result{}, err
	}

	xml, err := feed.Render(src, merged, now())
	if err != nil {
		return Result{}, err
	}
	feedPath := filepath.Join(dir, feedFile)
	if err := os.WriteFile(feedPath, xml, 0o644); err != nil {
		return Result{}, fmt.Errorf("runner: write %s: %w", feedPath, err)
	}
	log.Printf("%s: feed saved to %s", src.Name(), feedPath)

	return Result{Updated: updated, Merged: merged}, nil
}

// SummaryLine formats one commit-summary row: date plus title when the
// source has a native date, title alone otherwise.
func SummaryLine(it scraper.Item) string {
	if it.Date != "" {
		return it.Date + " " + it.Title
	}
	return it.Title
}

func itemLabel(it scraper.Item) string {
	if it.Title != "" {
		return it.Title
	}
	return it.URL
}
