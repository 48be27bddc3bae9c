package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"flickvault/internal/importer"
	"flickvault/internal/library"
	"flickvault/internal/logging"
	"flickvault/internal/services/tmdb"
)

func (s *Server) handleAddMovie(w http.ResponseWriter, r *http.Request, user *library.User) {
	collectionID, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	var input movieInput
	if err := decodeBody(r, &input); err != nil {
		s.writeError(w, err)
		return
	}
	movie, err := s.store.FindOrCreateMovie(r.Context(), input.toMovie())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.AddMovieToCollection(r.Context(), collectionID, user.ID, movie.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toMovieView(*movie))
}

func (s *Server) handleAddMoviesBatch(w http.ResponseWriter, r *http.Request, user *library.User) {
	collectionID, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	var req struct {
		Movies []movieInput `json:"movies"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	movies := make([]library.Movie, 0, len(req.Movies))
	for _, input := range req.Movies {
		movies = append(movies, input.toMovie())
	}
	result, err := s.store.AddMoviesBatch(r.Context(), collectionID, user.ID, movies)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toBatchResultView(result))
}

func (s *Server) handleRemoveMovie(w http.ResponseWriter, r *http.Request, user *library.User) {
	collectionID, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	movieID, err := pathID(r, "movieID")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	if err := s.store.RemoveMovieFromCollection(r.Context(), collectionID, user.ID, movieID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request, user *library.User) {
	collectionID, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "unable to read body")
		return
	}
	movies, err := importer.Extract(body)
	if err != nil {
		if errors.Is(err, importer.ErrNoMovies) {
			s.writeMessage(w, http.StatusBadRequest, "no movies found in JSON")
			return
		}
		s.writeMessage(w, http.StatusBadRequest, "invalid JSON file")
		return
	}
	result, err := s.store.AddMoviesBatch(r.Context(), collectionID, user.ID, movies)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("import completed",
		logging.Int64(logging.FieldCollectionID, collectionID),
		logging.Int("added", result.Added),
		logging.Int("skipped", result.Skipped))
	s.writeJSON(w, http.StatusOK, toBatchResultView(result))
}

func (s *Server) handleSearchMovies(w http.ResponseWriter, r *http.Request, user *library.User) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	hits, err := s.store.SearchMovies(r.Context(), user.ID, query)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]movieSearchView, 0, len(hits))
	for _, hit := range hits {
		view := movieSearchView{movieView: toMovieView(hit.Movie), Collections: hit.Collections}
		if view.Collections == nil {
			view.Collections = []string{}
		}
		views = append(views, view)
	}
	s.writeJSON(w, http.StatusOK, views)
}

// handleMovieDetails returns the stored row merged with live catalog
// metadata. A failed or unconfigured catalog lookup degrades to the
// stored fields alone.
func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request, user *library.User) {
	movieID, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid movie id")
		return
	}
	movie, err := s.store.GetMovie(r.Context(), movieID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if movie == nil {
		s.writeMessage(w, http.StatusNotFound, "movie not found")
		return
	}

	payload := map[string]any{
		"id":         movie.ID,
		"title":      movie.Title,
		"year":       movie.Year,
		"media_type": movie.Kind,
		"rating":     movie.Rating,
		"overview":   movie.Overview,
		"poster_url": movie.PosterURL,
		"imdb_id":    movie.IMDBID,
		"tmdb_id":    movie.TMDBID,
	}

	if movie.TMDBID != 0 {
		if client := s.tmdbClient(s.keysFor(r)); client != nil {
			details, err := s.fetchDetails(r, client, movie)
			if err != nil {
				s.logger.Debug("details lookup failed",
					logging.Int64("movie_id", movie.ID),
					logging.Error(err))
			} else {
				mergeDetails(payload, details)
			}
		}
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) fetchDetails(r *http.Request, client *tmdb.Client, movie *library.Movie) (*tmdb.Details, error) {
	if movie.Kind == "show" {
		return client.TVDetails(r.Context(), movie.TMDBID)
	}
	return client.MovieDetails(r.Context(), movie.TMDBID)
}

func mergeDetails(payload map[string]any, details *tmdb.Details) {
	if details.Tagline != "" {
		payload["tagline"] = details.Tagline
	}
	if details.Runtime > 0 {
		payload["runtime"] = details.Runtime
	}
	if details.NumberOfSeasons > 0 {
		payload["number_of_seasons"] = details.NumberOfSeasons
	}
	if details.NumberOfEpisodes > 0 {
		payload["number_of_episodes"] = details.NumberOfEpisodes
	}
	if details.Homepage != "" {
		payload["homepage"] = details.Homepage
	}
	if details.VoteCount > 0 {
		payload["vote_count"] = details.VoteCount
	}
	if details.VoteAverage > 0 {
		payload["rating"] = tmdb.RoundRating(details.VoteAverage)
	}
	if len(details.Genres) > 0 {
		genres := make([]string, 0, len(details.Genres))
		for _, genre := range details.Genres {
			genres = append(genres, genre.Name)
		}
		payload["genres"] = genres
	}
}
