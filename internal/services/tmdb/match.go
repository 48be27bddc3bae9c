package tmdb

import (
	"context"
	"math"
)

// Media kinds understood by BestMatch.
const (
	KindMovie = "movie"
	KindTV    = "tv"
)

// Match holds the enrichment fields extracted from a confirmed TMDB
// result. Rating is nil when TMDB reports no vote average.
type Match struct {
	TMDBID    int64
	IMDBID    string
	Overview  string
	PosterURL string
	Rating    *float64
}

// Matcher resolves a title to its best TMDB match.
type Matcher interface {
	BestMatch(ctx context.Context, title string, year int, kind string) (*Match, error)
}

var _ Matcher = (*Client)(nil)

// BestMatch searches TMDB for the given title and returns the top
// result with its external IDs resolved. A nil match with nil error
// means TMDB returned no results; TV shows fall back to movie search
// order only through kind, never cross-kind. A failed external-IDs
// lookup does not discard the match, it just leaves IMDBID empty.
func (c *Client) BestMatch(ctx context.Context, title string, year int, kind string) (*Match, error) {
	var (
		resp *Response
		err  error
	)
	if kind == KindTV {
		resp, err = c.SearchTV(ctx, title, year)
	} else {
		resp, err = c.SearchMovie(ctx, title, year)
	}
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, nil
	}
	top := resp.Results[0]

	var external *ExternalIDs
	if kind == KindTV {
		external, err = c.TVExternalIDs(ctx, top.ID)
	} else {
		external, err = c.MovieExternalIDs(ctx, top.ID)
	}
	if err != nil {
		external = &ExternalIDs{}
	}

	match := &Match{
		TMDBID:   top.ID,
		IMDBID:   external.IMDBID,
		Overview: top.Overview,
	}
	if top.PosterPath != "" {
		match.PosterURL = posterBaseURL + top.PosterPath
	}
	if top.VoteAverage > 0 {
		rating := RoundRating(top.VoteAverage)
		match.Rating = &rating
	}
	return match, nil
}

// RoundRating rounds a vote average to one decimal place, the precision
// quality thresholds are compared at.
func RoundRating(value float64) float64 {
	return math.Round(value*10) / 10
}
