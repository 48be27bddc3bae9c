package generation

import "flickvault/internal/services/tmdb"

// passesFilter reports whether an item would survive the active rating
// filter. With no threshold every item passes; with one, only matched
// items whose rating clears the threshold after rounding both sides to
// one decimal place.
func passesFilter(item Item, minRating *float64) bool {
	if minRating == nil {
		return true
	}
	if item.Rating == nil {
		return false
	}
	return tmdb.RoundRating(*item.Rating) >= tmdb.RoundRating(*minRating)
}

// applyFilter narrows enriched items to the final result set: drop
// items failing the rating threshold, then truncate to count while
// preserving relevance order. Filtering never errors; if fewer than
// count items survive, the shorter list is returned as-is and the
// caller accepts the under-delivery.
func applyFilter(items []Item, minRating *float64, count int) []Item {
	kept := make([]Item, 0, count)
	for _, item := range items {
		if !passesFilter(item, minRating) {
			continue
		}
		kept = append(kept, item)
		if len(kept) == count {
			break
		}
	}
	return kept
}
