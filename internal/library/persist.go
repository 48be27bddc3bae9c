package library

import (
	"context"
	"errors"
	"fmt"

	"flickvault/internal/generation"
	"flickvault/internal/services"
)

// maxNameAttempts bounds the duplicate-name suffix search when saving a
// generated collection.
const maxNameAttempts = 20

// SaveGeneration persists a completed generation result as a new
// collection with its items as memberships, in pipeline order. A name
// collision retries with " (2)", " (3)", and so on. ParentID and
// minRating record the lineage and threshold of derived collections.
func (s *Store) SaveGeneration(ctx context.Context, userID int64, result generation.Result, parentID *int64, minRating *float64) (*Collection, BatchResult, error) {
	if len(result.Items) == 0 {
		return nil, BatchResult{}, services.Wrap(services.ErrValidation, "library", "save generation", "result has no items", nil)
	}
	mediaType := result.Items[0].Kind

	var collection *Collection
	var err error
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := result.Name
		if attempt > 1 {
			name = fmt.Sprintf("%s (%d)", result.Name, attempt)
		}
		collection, err = s.CreateCollection(ctx, userID, name, result.Description, mediaType, parentID, minRating)
		if err == nil {
			break
		}
		if !errors.Is(err, services.ErrConflict) {
			return nil, BatchResult{}, err
		}
	}
	if collection == nil {
		return nil, BatchResult{}, services.Wrap(services.ErrConflict, "library", "save generation",
			fmt.Sprintf("could not find a free name for %q after %d attempts", result.Name, maxNameAttempts), nil)
	}

	movies := make([]Movie, 0, len(result.Items))
	for _, item := range result.Items {
		movies = append(movies, Movie{
			Title:     item.Title,
			Year:      item.Year,
			Kind:      item.Kind,
			IMDBID:    item.IMDBID,
			TMDBID:    item.TMDBID,
			Overview:  item.Overview,
			PosterURL: item.PosterURL,
			Rating:    item.Rating,
		})
	}
	batch, err := s.AddMoviesBatch(ctx, collection.ID, userID, movies)
	if err != nil {
		return nil, batch, err
	}
	return collection, batch, nil
}
