package generation

import (
	"strings"

	"flickvault/internal/services"
)

// Media kinds a collection can hold.
const (
	KindMovie = "movie"
	KindShow  = "show"
)

// Extra candidates requested up front when a rating threshold is set,
// to compensate for expected attrition during filtering. The margin is
// fixed and does not scale with the exclusion set size.
const overfetchMargin = 5

// Request describes one generation invocation. All fields are owned by
// the caller; the pipeline never mutates or retains them.
type Request struct {
	Prompt        string
	Count         int
	Kind          string
	MinRating     *float64
	ExcludeTitles []string
	Name          string
}

func (r Request) validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return services.Wrap(services.ErrValidation, "generation", "request", "prompt required", nil)
	}
	if r.Count < 1 {
		return services.Wrap(services.ErrValidation, "generation", "request", "count must be at least 1", nil)
	}
	if r.Kind != KindMovie && r.Kind != KindShow {
		return services.Wrap(services.ErrValidation, "generation", "request", "kind must be movie or show", nil)
	}
	if r.MinRating != nil && (*r.MinRating < 0 || *r.MinRating > 10) {
		return services.Wrap(services.ErrValidation, "generation", "request", "min rating must be between 0 and 10", nil)
	}
	return nil
}

func (r Request) effectiveCount() int {
	if r.MinRating != nil {
		return r.Count + overfetchMargin
	}
	return r.Count
}

// RawCandidate is a title proposed by the model before enrichment.
// Ephemeral; never persisted.
type RawCandidate struct {
	Title string
	Year  int
}

// Item is a candidate after the enrichment stage. A zero TMDBID means
// no catalog match was confirmed, in which case Overview, PosterURL,
// IMDBID, and Rating are all unset.
type Item struct {
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	Kind      string   `json:"kind"`
	Overview  string   `json:"overview,omitempty"`
	PosterURL string   `json:"poster_url,omitempty"`
	TMDBID    int64    `json:"tmdb_id,omitempty"`
	IMDBID    string   `json:"imdb_id,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
}

// Matched reports whether the item carries a confirmed catalog match.
func (it Item) Matched() bool {
	return it.TMDBID != 0
}

// Result is the finalized output of a completed run.
type Result struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Items       []Item `json:"items"`
}
