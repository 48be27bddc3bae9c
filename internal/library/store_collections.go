package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"flickvault/internal/services"
)

const collectionColumns = `id, user_id, name, description, media_type, parent_id, min_rating, created_at, updated_at`

// CreateCollection inserts a collection for a user. Names are unique
// per user; duplicates report ErrConflict.
func (s *Store) CreateCollection(ctx context.Context, userID int64, name, description, mediaType string, parentID *int64, minRating *float64) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "create collection", "name required", nil)
	}
	if mediaType == "" {
		mediaType = "movie"
	}

	var parent any
	if parentID != nil {
		parent = *parentID
	}
	timestamp := nowTimestamp()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO collections (user_id, name, description, media_type, parent_id, min_rating, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, name, description, mediaType, parent, nullableFloat(minRating), timestamp, timestamp,
	)
	if isUniqueViolation(err) {
		return nil, services.Wrap(services.ErrConflict, "library", "create collection", fmt.Sprintf("collection %q already exists", name), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("insert collection: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetCollection(ctx, id, userID)
}

// GetCollection fetches a collection owned by the given user; nil when
// absent or owned by someone else.
func (s *Store) GetCollection(ctx context.Context, id, userID int64) (*Collection, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+collectionColumns+` FROM collections WHERE id = ? AND user_id = ?`, id, userID)
	collection, err := scanCollection(row)
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return collection, nil
}

// ListCollections returns a user's collections with movie counts and up
// to four poster URLs each, newest first.
func (s *Store) ListCollections(ctx context.Context, userID int64) ([]CollectionSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.`+strings.ReplaceAll(collectionColumns, ", ", ", c.")+`,
                (SELECT COUNT(1) FROM collection_movies cm WHERE cm.collection_id = c.id)
         FROM collections c WHERE c.user_id = ? ORDER BY c.created_at DESC, c.id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	var summaries []CollectionSummary
	for rows.Next() {
		var summary CollectionSummary
		var parentID sql.NullInt64
		var minRating sql.NullFloat64
		var createdAt, updatedAt string
		if err := rows.Scan(
			&summary.ID, &summary.UserID, &summary.Name, &summary.Description,
			&summary.MediaType, &parentID, &minRating, &createdAt, &updatedAt,
			&summary.MovieCount,
		); err != nil {
			return nil, fmt.Errorf("scan collection summary: %w", err)
		}
		if parentID.Valid {
			summary.ParentID = &parentID.Int64
		}
		if minRating.Valid {
			summary.MinRating = &minRating.Float64
		}
		summary.CreatedAt = parseTimestamp(createdAt)
		summary.UpdatedAt = parseTimestamp(updatedAt)
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	for i := range summaries {
		posters, err := s.collectionPosters(ctx, summaries[i].ID, 4)
		if err != nil {
			return nil, err
		}
		summaries[i].PosterURLs = posters
	}
	return summaries, nil
}

func (s *Store) collectionPosters(ctx context.Context, collectionID int64, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.poster_url FROM collection_movies cm
         JOIN movies m ON m.id = cm.movie_id
         WHERE cm.collection_id = ? AND m.poster_url != ''
         ORDER BY cm.sort_order LIMIT ?`, collectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("collection posters: %w", err)
	}
	defer rows.Close()

	var posters []string
	for rows.Next() {
		var poster string
		if err := rows.Scan(&poster); err != nil {
			return nil, fmt.Errorf("scan poster: %w", err)
		}
		posters = append(posters, poster)
	}
	return posters, rows.Err()
}

// CollectionMovies returns the movies in a collection in sort order.
func (s *Store) CollectionMovies(ctx context.Context, collectionID int64) ([]CollectionMovie, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT m.id, m.title, m.year, m.kind, m.trakt_id, m.imdb_id, m.tmdb_id,
                m.overview, m.poster_url, m.rating, cm.sort_order
         FROM collection_movies cm
         JOIN movies m ON m.id = cm.movie_id
         WHERE cm.collection_id = ?
         ORDER BY cm.sort_order, cm.id`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("collection movies: %w", err)
	}
	defer rows.Close()

	var movies []CollectionMovie
	for rows.Next() {
		var entry CollectionMovie
		if err := scanMovieColumns(rows, &entry.Movie, &entry.SortOrder); err != nil {
			return nil, err
		}
		movies = append(movies, entry)
	}
	return movies, rows.Err()
}

// UpdateCollection renames and redescribes a collection owned by the
// user. ErrNotFound when it does not exist; ErrConflict when the new
// name is taken.
func (s *Store) UpdateCollection(ctx context.Context, id, userID int64, name, description string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "library", "update collection", "name required", nil)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE collections SET name = ?, description = ?, updated_at = ?
         WHERE id = ? AND user_id = ?`,
		name, description, nowTimestamp(), id, userID,
	)
	if isUniqueViolation(err) {
		return nil, services.Wrap(services.ErrConflict, "library", "update collection", fmt.Sprintf("collection %q already exists", name), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("update collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return nil, services.Wrap(services.ErrNotFound, "library", "update collection", fmt.Sprintf("collection %d not found", id), nil)
	}
	return s.GetCollection(ctx, id, userID)
}

// DeleteCollection removes a collection and, via cascade, its
// memberships. ErrNotFound when absent.
func (s *Store) DeleteCollection(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM collections WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "library", "delete collection", fmt.Sprintf("collection %d not found", id), nil)
	}
	return nil
}

func scanCollection(row *sql.Row) (*Collection, error) {
	var collection Collection
	var parentID sql.NullInt64
	var minRating sql.NullFloat64
	var createdAt, updatedAt string
	err := row.Scan(
		&collection.ID, &collection.UserID, &collection.Name, &collection.Description,
		&collection.MediaType, &parentID, &minRating, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		collection.ParentID = &parentID.Int64
	}
	if minRating.Valid {
		collection.MinRating = &minRating.Float64
	}
	collection.CreatedAt = parseTimestamp(createdAt)
	collection.UpdatedAt = parseTimestamp(updatedAt)
	return &collection, nil
}
