// Package store persists a source's item list as a tab-separated file.
// The file is the source of truth between runs and is committed verbatim
// by the surrounding automation, so order and field values round-trip
// exactly and every save rewrites the complete list.
package store

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/bennokress/rss-feeds/internal/scraper"
)

// Load reads the stored list, newest first. A missing file is simply
// "no prior state"; a file that exists but does not match the schema is
// an error — continuing with a partial known-set would re-announce old
// items as new.
func Load(path string, schema scraper.Schema) ([]scraper.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("store: read header of %s: %w", path, err)
	}
	if len(header) != len(schema) {
		return nil, fmt.Errorf("store: %s has %d columns, want %d", path, len(header), len(schema))
	}
	for i, col := range schema {
		if header[i] != col.Name {
			return nil, fmt.Errorf("store: %s column %d is %q, want %q", path, i, header[i], col.Name)
		}
	}

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}

	items := make([]scraper.Item, 0, len(rows))
	for _, row := range rows {
		var it scraper.Item
		for i, col := range schema {
			col.Set(&it, row[i])
		}
		items = append(items, it)
	}
	return items, nil
}

// Save overwrites the file with the complete list.
func Save(path string, schema scraper.Schema, items []scraper.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("store: create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	w.Comma = '\t'

	header := make([]string, len(schema))
	for i, col := range schema {
		header[i] = col.Name
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return fmt.Errorf("store: write %s: %w", path, err)
	}

	row := make([]string, len(schema))
	for i := range items {
		for j, col := range schema {
			row[j] = col.Get(&items[i])
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("store: write %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("store: write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("store: close %s: %w", path, err)
	}
	return nil
}
