package generation

import (
	"context"

	"flickvault/internal/logging"
	"flickvault/internal/services/tmdb"
)

// enrich looks up each candidate against TMDB in order, emitting one
// progress event per candidate. Lookups are strictly sequential:
// relevance order must survive end to end, and serial calls keep the
// caller-supplied key inside typical rate limits. A failed or empty
// lookup degrades that candidate to an unmatched item and the stage
// continues; only context cancellation stops it, and that is checked
// between candidates, never mid-call.
func (p *Pipeline) enrich(ctx context.Context, req Request, candidates []RawCandidate, emit func(Event)) ([]Item, error) {
	items := make([]Item, 0, len(candidates))
	found := 0
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return items, err
		}

		item := Item{Title: candidate.Title, Year: candidate.Year, Kind: req.Kind}
		kind := tmdb.KindMovie
		if req.Kind == KindShow {
			kind = tmdb.KindTV
		}
		match, err := p.tmdb.BestMatch(ctx, candidate.Title, candidate.Year, kind)
		switch {
		case err != nil:
			p.logger.Debug("enrichment lookup failed",
				logging.String("title", candidate.Title),
				logging.Error(err))
		case match != nil:
			item.TMDBID = match.TMDBID
			item.IMDBID = match.IMDBID
			item.Overview = match.Overview
			item.PosterURL = match.PosterURL
			item.Rating = match.Rating
		}
		items = append(items, item)

		if passesFilter(item, req.MinRating) {
			found++
		}
		reported := found
		if reported > req.Count {
			reported = req.Count
		}
		emit(progressEvent(reported, req.Count))
	}
	return items, nil
}
