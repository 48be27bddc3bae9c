package server

import (
	"net/http"

	"flickvault/internal/library"
	"flickvault/internal/logging"
)

type collectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	MediaType   string `json:"media_type"`
}

func (s *Server) handleListCollections(w http.ResponseWriter, r *http.Request, user *library.User) {
	summaries, err := s.store.ListCollections(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	views := make([]collectionSummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, toCollectionSummaryView(summary))
	}
	s.writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleCreateCollection(w http.ResponseWriter, r *http.Request, user *library.User) {
	var req collectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	collection, err := s.store.CreateCollection(r.Context(), user.ID, req.Name, req.Description, req.MediaType, nil, nil)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("collection created",
		logging.Int64(logging.FieldCollectionID, collection.ID),
		logging.Int64(logging.FieldUserID, user.ID))
	s.writeJSON(w, http.StatusCreated, toCollectionView(collection))
}

func (s *Server) handleGetCollection(w http.ResponseWriter, r *http.Request, user *library.User) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	collection, err := s.store.GetCollection(r.Context(), id, user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if collection == nil {
		s.writeMessage(w, http.StatusNotFound, "collection not found")
		return
	}
	movies, err := s.store.CollectionMovies(r.Context(), collection.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	view := collectionDetailView{
		collectionView: toCollectionView(collection),
		Movies:         make([]movieView, 0, len(movies)),
	}
	for _, movie := range movies {
		view.Movies = append(view.Movies, toMovieView(movie.Movie))
	}
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateCollection(w http.ResponseWriter, r *http.Request, user *library.User) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	var req collectionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	collection, err := s.store.UpdateCollection(r.Context(), id, user.ID, req.Name, req.Description)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toCollectionView(collection))
}

func (s *Server) handleDeleteCollection(w http.ResponseWriter, r *http.Request, user *library.User) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeMessage(w, http.StatusBadRequest, "invalid collection id")
		return
	}
	if err := s.store.DeleteCollection(r.Context(), id, user.ID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
