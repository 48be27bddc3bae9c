// Package importer extracts movie entries from user-supplied JSON files.
// It accepts plain arrays, trakt-watchlist exports (objects carrying
// already_added/remaining/movies lists), and single movie objects.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"flickvault/internal/library"
)

// ErrNoMovies marks an input that parsed but contained no movie entries.
var ErrNoMovies = errors.New("no movies found in input")

// watchlist list keys, checked in order.
var listKeys = []string{"already_added", "remaining", "movies"}

type entry struct {
	Title     string   `json:"title"`
	Year      flexInt  `json:"year"`
	TraktID   flexInt  `json:"trakt_id"`
	IMDBID    string   `json:"imdb_id"`
	TMDBID    flexInt  `json:"tmdb_id"`
	Overview  string   `json:"overview"`
	PosterURL string   `json:"poster_url"`
	Rating    *float64 `json:"rating"`
}

// flexInt decodes from a JSON number or a numeric string. Export tools
// disagree on which one ids are.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" || text == `""` {
		*f = 0
		return nil
	}
	text = strings.Trim(text, `"`)
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Tolerate floats like 1999.0 from loosely typed exporters.
		parsed, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return fmt.Errorf("parse number %q: %w", text, err)
		}
		value = int64(parsed)
	}
	*f = flexInt(value)
	return nil
}

// Extract parses raw JSON and returns the movie entries it contains.
// Returns ErrNoMovies when the document is valid JSON but holds no
// recognizable entries.
func Extract(data []byte) ([]library.Movie, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, errors.New("empty input")
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
		return normalize(items)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	var items []json.RawMessage
	for _, key := range listKeys {
		raw, ok := doc[key]
		if !ok {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(raw, &list); err != nil {
			continue
		}
		items = append(items, list...)
	}
	if len(items) > 0 {
		return normalize(items)
	}

	// Single movie object.
	if _, ok := doc["title"]; ok {
		return normalize([]json.RawMessage{json.RawMessage(data)})
	}
	return nil, ErrNoMovies
}

func normalize(items []json.RawMessage) ([]library.Movie, error) {
	movies := make([]library.Movie, 0, len(items))
	for _, raw := range items {
		var item entry
		if err := json.Unmarshal(raw, &item); err != nil {
			// Skip malformed entries rather than failing the whole file.
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Unknown"
		}
		movies = append(movies, library.Movie{
			Title:     title,
			Year:      int(item.Year),
			Kind:      "movie",
			TraktID:   int64(item.TraktID),
			IMDBID:    strings.TrimSpace(item.IMDBID),
			TMDBID:    int64(item.TMDBID),
			Overview:  item.Overview,
			PosterURL: item.PosterURL,
			Rating:    item.Rating,
		})
	}
	if len(movies) == 0 {
		return nil, ErrNoMovies
	}
	return movies, nil
}
