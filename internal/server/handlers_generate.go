package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"flickvault/internal/generation"
	"flickvault/internal/library"
	"flickvault/internal/logging"
	"flickvault/internal/services/llm"
	"flickvault/internal/services/tmdb"
)

type generateRequest struct {
	Prompt             string   `json:"prompt"`
	MovieCount         int      `json:"movie_count"`
	MediaType          string   `json:"media_type"`
	MinRating          *float64 `json:"min_rating"`
	CollectionName     string   `json:"collection_name"`
	SourceCollectionID *int64   `json:"source_collection_id"`
}

type generateCompleteView struct {
	CollectionID int64             `json:"collection_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Items        []generation.Item `json:"items"`
	Added        int               `json:"added"`
	Skipped      int               `json:"skipped"`
}

// handleGenerate runs one generation as a server-sent event stream:
// zero or more progress events, then exactly one complete or error
// event. The completed result is persisted before the complete event is
// written so its payload can carry the collection id.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, user *library.User) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.MovieCount == 0 {
		req.MovieCount = 10
	}
	kind := strings.TrimSpace(req.MediaType)
	switch kind {
	case "", generation.KindMovie:
		kind = generation.KindMovie
	case "tv", generation.KindShow:
		kind = generation.KindShow
	}

	var parentID *int64
	var exclude []string
	if req.SourceCollectionID != nil {
		titles, err := s.store.AncestorTitles(r.Context(), *req.SourceCollectionID, user.ID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		exclude = titles
		parentID = req.SourceCollectionID
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeMessage(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	keys := s.keysFor(r)
	pipeline := generation.New(asCompleter(s.llmClient(keys)), asMatcher(s.tmdbClient(keys)), s.logger)

	runID := uuid.NewString()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, ": run %s\n\n", runID)
	flusher.Flush()

	emit := func(event generation.Event) {
		switch event.Kind {
		case generation.EventProgress:
			s.writeSSE(w, flusher, "progress", event.Progress)
		case generation.EventError:
			s.writeSSE(w, flusher, "error", map[string]string{"message": event.Message})
		case generation.EventComplete:
			collection, batch, err := s.store.SaveGeneration(r.Context(), user.ID, *event.Result, parentID, req.MinRating)
			if err != nil {
				s.logger.Error("persist generation failed",
					logging.Int64(logging.FieldUserID, user.ID),
					logging.Error(err))
				s.writeSSE(w, flusher, "error", map[string]string{"message": "failed to save collection"})
				return
			}
			s.logger.Info("generation saved",
				logging.Int64(logging.FieldCollectionID, collection.ID),
				logging.Int64(logging.FieldUserID, user.ID),
				logging.Int("added", batch.Added))
			s.writeSSE(w, flusher, "complete", generateCompleteView{
				CollectionID: collection.ID,
				Name:         collection.Name,
				Description:  collection.Description,
				Items:        event.Result.Items,
				Added:        batch.Added,
				Skipped:      batch.Skipped,
			})
		}
	}

	pipeline.Run(r.Context(), generation.Request{
		Prompt:        req.Prompt,
		Count:         req.MovieCount,
		Kind:          kind,
		MinRating:     req.MinRating,
		ExcludeTitles: exclude,
		Name:          strings.TrimSpace(req.CollectionName),
	}, emit)
}

func (s *Server) writeSSE(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode event", logging.Error(err))
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	flusher.Flush()
}

// asCompleter and asMatcher convert possibly nil concrete clients into
// interface values that stay nil when the client is nil, so the
// pipeline's credential checks see the absence.
func asCompleter(client *llm.Client) llm.Completer {
	if client == nil {
		return nil
	}
	return client
}

func asMatcher(client *tmdb.Client) tmdb.Matcher {
	if client == nil {
		return nil
	}
	return client
}
