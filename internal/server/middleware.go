package server

import (
	"net/http"
	"strconv"
	"strings"

	"flickvault/internal/library"
)

// userHandler is a route handler that runs with an authenticated user.
type userHandler func(w http.ResponseWriter, r *http.Request, user *library.User)

// withUser authenticates the request before invoking next. The session
// token is read from the configured cookie, falling back to an
// Authorization Bearer header for non-browser clients.
func (s *Server) withUser(next userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := s.extractToken(r)
		if token == "" {
			s.writeMessage(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		userID, err := s.tokens.VerifyToken(token)
		if err != nil {
			s.writeMessage(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		user, err := s.store.GetUserByID(r.Context(), userID)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if user == nil {
			s.writeMessage(w, http.StatusUnauthorized, "user not found")
			return
		}
		next(w, r, user)
	}
}

func (s *Server) extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(s.cfg.Auth.CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// pathID parses a numeric path segment captured by the route pattern.
func pathID(r *http.Request, name string) (int64, error) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || value <= 0 {
		return 0, errInvalidID
	}
	return value, nil
}
