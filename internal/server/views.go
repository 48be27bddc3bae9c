package server

import (
	"time"

	"flickvault/internal/library"
)

type userView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserView(user *library.User) userView {
	return userView{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}
}

type collectionView struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	MediaType   string    `json:"media_type"`
	ParentID    *int64    `json:"parent_id,omitempty"`
	MinRating   *float64  `json:"min_rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toCollectionView(c *library.Collection) collectionView {
	return collectionView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		MediaType:   c.MediaType,
		ParentID:    c.ParentID,
		MinRating:   c.MinRating,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type collectionSummaryView struct {
	collectionView
	MovieCount int      `json:"movie_count"`
	PosterURLs []string `json:"poster_urls"`
}

func toCollectionSummaryView(summary library.CollectionSummary) collectionSummaryView {
	view := collectionSummaryView{
		collectionView: toCollectionView(&summary.Collection),
		MovieCount:     summary.MovieCount,
		PosterURLs:     summary.PosterURLs,
	}
	if view.PosterURLs == nil {
		view.PosterURLs = []string{}
	}
	return view
}

type movieView struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Year      int      `json:"year,omitempty"`
	Kind      string   `json:"media_type"`
	TraktID   int64    `json:"trakt_id,omitempty"`
	IMDBID    string   `json:"imdb_id,omitempty"`
	TMDBID    int64    `json:"tmdb_id,omitempty"`
	Overview  string   `json:"overview,omitempty"`
	PosterURL string   `json:"poster_url,omitempty"`
	Rating    *float64 `json:"rating,omitempty"`
}

func toMovieView(m library.Movie) movieView {
	return movieView{
		ID:        m.ID,
		Title:     m.Title,
		Year:      m.Year,
		Kind:      m.Kind,
		TraktID:   m.TraktID,
		IMDBID:    m.IMDBID,
		TMDBID:    m.TMDBID,
		Overview:  m.Overview,
		PosterURL: m.PosterURL,
		Rating:    m.Rating,
	}
}

type collectionDetailView struct {
	collectionView
	Movies []movieView `json:"movies"`
}

type movieSearchView struct {
	movieView
	Collections []string `json:"collections"`
}

type batchResultView struct {
	Added   int `json:"added"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

func toBatchResultView(result library.BatchResult) batchResultView {
	return batchResultView{
		Added:   result.Added,
		Skipped: result.Skipped,
		Total:   result.Added + result.Skipped,
	}
}

// movieInput is the wire shape for creating movies by hand or batch.
type movieInput struct {
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	MediaType string   `json:"media_type"`
	TraktID   int64    `json:"trakt_id"`
	IMDBID    string   `json:"imdb_id"`
	TMDBID    int64    `json:"tmdb_id"`
	Overview  string   `json:"overview"`
	PosterURL string   `json:"poster_url"`
	Rating    *float64 `json:"rating"`
}

func (in movieInput) toMovie() library.Movie {
	return library.Movie{
		Title:     in.Title,
		Year:      in.Year,
		Kind:      in.MediaType,
		TraktID:   in.TraktID,
		IMDBID:    in.IMDBID,
		TMDBID:    in.TMDBID,
		Overview:  in.Overview,
		PosterURL: in.PosterURL,
		Rating:    in.Rating,
	}
}
