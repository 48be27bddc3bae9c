package library

import "time"

// User is an account that owns collections.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Collection is a named, ordered set of movies or shows. ParentID links
// a derived ("more like this") collection to its source; MinRating
// records the threshold the collection was generated with, if any.
type Collection struct {
	ID          int64
	UserID      int64
	Name        string
	Description string
	MediaType   string
	ParentID    *int64
	MinRating   *float64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CollectionSummary is a collection row augmented with listing data.
type CollectionSummary struct {
	Collection
	MovieCount int
	PosterURLs []string
}

// Movie is a deduplicated title. TraktID and IMDBID are zero/empty when
// unknown and unique when set; Rating is nil when the catalog reported
// no score.
type Movie struct {
	ID        int64
	Title     string
	Year      int
	Kind      string
	TraktID   int64
	IMDBID    string
	TMDBID    int64
	Overview  string
	PosterURL string
	Rating    *float64
}

// CollectionMovie is a movie with its position inside one collection.
type CollectionMovie struct {
	Movie
	SortOrder int
}

// MovieSearchHit is a search result with the names of the caller's
// collections containing the movie.
type MovieSearchHit struct {
	Movie
	Collections []string
}
