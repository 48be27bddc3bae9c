package server

import (
	"net/http"
	"strings"

	"flickvault/internal/auth"
	"flickvault/internal/library"
	"flickvault/internal/logging"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		s.writeMessage(w, http.StatusBadRequest, "username is required")
		return
	}
	if len(req.Password) < 4 {
		s.writeMessage(w, http.StatusBadRequest, "password must be at least 4 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	user, err := s.store.CreateUser(r.Context(), username, hash)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("user registered",
		logging.String("username", user.Username),
		logging.Int64(logging.FieldUserID, user.ID))
	s.issueSession(w, user, http.StatusCreated)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	user, err := s.store.GetUserByName(r.Context(), strings.TrimSpace(req.Username))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.writeMessage(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	s.issueSession(w, user, http.StatusOK)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, user *library.User) {
	s.writeJSON(w, http.StatusOK, toUserView(user))
}

func (s *Server) issueSession(w http.ResponseWriter, user *library.User, status int) {
	token, err := s.tokens.IssueToken(user.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Auth.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.writeJSON(w, status, sessionResponse{Token: token, User: toUserView(user)})
}
