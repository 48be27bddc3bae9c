package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"flickvault/internal/services"
)

const movieColumns = `id, title, year, kind, trakt_id, imdb_id, tmdb_id, overview, poster_url, rating`

// FindOrCreateMovie returns the existing row matching the movie's Trakt
// or IMDb ID, filling in any fields the stored row is missing, or
// inserts a new row. Dedup checks Trakt first, then IMDb.
func (s *Store) FindOrCreateMovie(ctx context.Context, movie Movie) (*Movie, error) {
	movie.Title = strings.TrimSpace(movie.Title)
	if movie.Title == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "find or create movie", "title required", nil)
	}
	if movie.Kind == "" {
		movie.Kind = "movie"
	}

	var existing *Movie
	var err error
	if movie.TraktID != 0 {
		existing, err = s.movieBy(ctx, "trakt_id", movie.TraktID)
		if err != nil {
			return nil, err
		}
	}
	if existing == nil && movie.IMDBID != "" {
		existing, err = s.movieBy(ctx, "imdb_id", movie.IMDBID)
		if err != nil {
			return nil, err
		}
	}
	if existing != nil {
		return s.fillMovieFields(ctx, existing, movie)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (title, year, kind, trakt_id, imdb_id, tmdb_id, overview, poster_url, rating)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movie.Title, nullableInt64(int64(movie.Year)), movie.Kind,
		nullableInt64(movie.TraktID), nullableString(movie.IMDBID), nullableInt64(movie.TMDBID),
		movie.Overview, movie.PosterURL, nullableFloat(movie.Rating),
	)
	if err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetMovie(ctx, id)
}

// fillMovieFields copies values the stored row lacks from the incoming
// record. Existing values are never overwritten.
func (s *Store) fillMovieFields(ctx context.Context, existing *Movie, incoming Movie) (*Movie, error) {
	changed := false
	if existing.Year == 0 && incoming.Year != 0 {
		existing.Year = incoming.Year
		changed = true
	}
	if existing.IMDBID == "" && incoming.IMDBID != "" {
		existing.IMDBID = incoming.IMDBID
		changed = true
	}
	if existing.TraktID == 0 && incoming.TraktID != 0 {
		existing.TraktID = incoming.TraktID
		changed = true
	}
	if existing.TMDBID == 0 && incoming.TMDBID != 0 {
		existing.TMDBID = incoming.TMDBID
		changed = true
	}
	if existing.Overview == "" && incoming.Overview != "" {
		existing.Overview = incoming.Overview
		changed = true
	}
	if existing.PosterURL == "" && incoming.PosterURL != "" {
		existing.PosterURL = incoming.PosterURL
		changed = true
	}
	if existing.Rating == nil && incoming.Rating != nil {
		existing.Rating = incoming.Rating
		changed = true
	}
	if !changed {
		return existing, nil
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE movies SET year = ?, trakt_id = ?, imdb_id = ?, tmdb_id = ?,
                overview = ?, poster_url = ?, rating = ? WHERE id = ?`,
		nullableInt64(int64(existing.Year)), nullableInt64(existing.TraktID),
		nullableString(existing.IMDBID), nullableInt64(existing.TMDBID),
		existing.Overview, existing.PosterURL, nullableFloat(existing.Rating),
		existing.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update movie: %w", err)
	}
	return existing, nil
}

// GetMovie fetches a movie by identifier; nil when absent.
func (s *Store) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	var movie Movie
	err := scanMovieColumns(row, &movie, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &movie, nil
}

func (s *Store) movieBy(ctx context.Context, column string, value any) (*Movie, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+movieColumns+` FROM movies WHERE `+column+` = ?`, value)
	var movie Movie
	err := scanMovieColumns(row, &movie, nil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find movie by %s: %w", column, err)
	}
	return &movie, nil
}

// AddMovieToCollection appends a movie at the next sort position. The
// movie's kind must match the collection's media type; membership is
// unique, duplicates report ErrConflict.
func (s *Store) AddMovieToCollection(ctx context.Context, collectionID, userID, movieID int64) error {
	collection, err := s.GetCollection(ctx, collectionID, userID)
	if err != nil {
		return err
	}
	if collection == nil {
		return services.Wrap(services.ErrNotFound, "library", "add movie", fmt.Sprintf("collection %d not found", collectionID), nil)
	}
	movie, err := s.GetMovie(ctx, movieID)
	if err != nil {
		return err
	}
	if movie == nil {
		return services.Wrap(services.ErrNotFound, "library", "add movie", fmt.Sprintf("movie %d not found", movieID), nil)
	}
	if movie.Kind != collection.MediaType {
		return services.Wrap(services.ErrValidation, "library", "add movie",
			fmt.Sprintf("cannot add a %s to a %s collection", movie.Kind, collection.MediaType), nil)
	}

	var next int
	err = s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), -1) + 1 FROM collection_movies WHERE collection_id = ?`,
		collectionID).Scan(&next)
	if err != nil {
		return fmt.Errorf("next sort order: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO collection_movies (collection_id, movie_id, sort_order) VALUES (?, ?, ?)`,
		collectionID, movieID, next)
	if isUniqueViolation(err) {
		return services.Wrap(services.ErrConflict, "library", "add movie", "movie already in collection", nil)
	}
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// BatchResult reports the outcome of a bulk add.
type BatchResult struct {
	Added   int
	Skipped int
}

// AddMoviesBatch finds-or-creates each movie and appends it to the
// collection, counting duplicates and kind mismatches as skips.
func (s *Store) AddMoviesBatch(ctx context.Context, collectionID, userID int64, movies []Movie) (BatchResult, error) {
	var result BatchResult
	for _, incoming := range movies {
		movie, err := s.FindOrCreateMovie(ctx, incoming)
		if err != nil {
			if errors.Is(err, services.ErrValidation) {
				result.Skipped++
				continue
			}
			return result, err
		}
		err = s.AddMovieToCollection(ctx, collectionID, userID, movie.ID)
		switch {
		case err == nil:
			result.Added++
		case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrValidation):
			result.Skipped++
		default:
			return result, err
		}
	}
	return result, nil
}

// RemoveMovieFromCollection deletes a membership; ErrNotFound when the
// movie is not in the collection or the collection is not the user's.
func (s *Store) RemoveMovieFromCollection(ctx context.Context, collectionID, userID, movieID int64) error {
	collection, err := s.GetCollection(ctx, collectionID, userID)
	if err != nil {
		return err
	}
	if collection == nil {
		return services.Wrap(services.ErrNotFound, "library", "remove movie", fmt.Sprintf("collection %d not found", collectionID), nil)
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collection_movies WHERE collection_id = ? AND movie_id = ?`,
		collectionID, movieID)
	if err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", "remove movie", "movie not in collection", nil)
	}
	return nil
}

// SearchMovies finds a user's movies by title substring, with the names
// of the collections each belongs to.
func (s *Store) SearchMovies(ctx context.Context, userID int64, query string) ([]MovieSearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "search movies", "query required", nil)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT m.`+strings.ReplaceAll(movieColumns, ", ", ", m.")+`
         FROM movies m
         JOIN collection_movies cm ON cm.movie_id = m.id
         JOIN collections c ON c.id = cm.collection_id
         WHERE c.user_id = ? AND m.title LIKE ? COLLATE NOCASE
         ORDER BY m.title`, userID, "%"+query+"%")
	if err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}
	defer rows.Close()

	var hits []MovieSearchHit
	for rows.Next() {
		var hit MovieSearchHit
		if err := scanMovieColumns(rows, &hit.Movie, nil); err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search movies: %w", err)
	}

	for i := range hits {
		names, err := s.movieCollectionNames(ctx, userID, hits[i].ID)
		if err != nil {
			return nil, err
		}
		hits[i].Collections = names
	}
	return hits, nil
}

func (s *Store) movieCollectionNames(ctx context.Context, userID, movieID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name FROM collections c
         JOIN collection_movies cm ON cm.collection_id = c.id
         WHERE c.user_id = ? AND cm.movie_id = ?
         ORDER BY c.name`, userID, movieID)
	if err != nil {
		return nil, fmt.Errorf("movie collections: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan collection name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovieColumns(row rowScanner, movie *Movie, sortOrder *int) error {
	var year, traktID, tmdbID sql.NullInt64
	var imdbID sql.NullString
	var rating sql.NullFloat64
	dest := []any{
		&movie.ID, &movie.Title, &year, &movie.Kind,
		&traktID, &imdbID, &tmdbID,
		&movie.Overview, &movie.PosterURL, &rating,
	}
	if sortOrder != nil {
		dest = append(dest, sortOrder)
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("scan movie: %w", err)
	}
	movie.Year = int(year.Int64)
	movie.TraktID = traktID.Int64
	movie.IMDBID = imdbID.String
	movie.TMDBID = tmdbID.Int64
	if rating.Valid {
		movie.Rating = &rating.Float64
	}
	return nil
}
