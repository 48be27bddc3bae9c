package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"flickvault/internal/logging"
	"flickvault/internal/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

// writeError maps a classified error to its HTTP status. Unclassified
// errors are logged and reported as opaque 500s.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", logging.Error(err))
		s.writeMessage(w, status, "internal server error")
		return
	}
	s.writeMessage(w, status, err.Error())
}

func decodeBody(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(out); err != nil {
		return services.Wrap(services.ErrValidation, "api", "decode body", "invalid JSON body", nil)
	}
	return nil
}

var errInvalidID = errors.New("invalid id")
