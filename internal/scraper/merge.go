package scraper

import "fmt"

// Merge prepends the newly discovered items to the prior list and trims
// the result to max entries (0 = unbounded). Trimming drops from the
// tail only, so a fresh item is never evicted in favor of an old one.
//
// Adapters guarantee they never re-emit a known ID; a duplicate here
// means that guarantee was broken and the run must not persist the list.
func Merge(newItems, existing []Item, max int) ([]Item, error) {
	merged := make([]Item, 0, len(newItems)+len(existing))
	seen := make(map[string]struct{}, len(newItems)+len(existing))

	for _, it := range newItems {
		if _, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("merge: duplicate id %q in discovered items", it.ID)
		}
		seen[it.ID] = struct{}{}
		merged = append(merged, it)
	}
	for _, it := range existing {
		if _, ok := seen[it.ID]; ok {
			return nil, fmt.Errorf("merge: discovered item duplicates stored id %q", it.ID)
		}
		seen[it.ID] = struct{}{}
		merged = append(merged, it)
	}

	if max > 0 && len(merged) > max {
		merged = merged[:max]
	}
	return merged, nil
}

// KnownIDs builds the known-set from the stored list.
func KnownIDs(items []Item) map[string]struct{} {
	known := make(map[string]struct{}, len(items))
	for _, it := range items {
		known[it.ID] = struct{}{}
	}
	return known
}
