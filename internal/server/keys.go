package server

import (
	"net/http"
	"strings"

	"flickvault/internal/services/llm"
	"flickvault/internal/services/tmdb"
)

// Per-request credential headers. Browser clients that keep their own
// keys send these; absent headers fall back to the configured values.
const (
	headerLLMKey  = "X-Anthropic-Key"
	headerTMDBKey = "X-TMDB-Key"
)

type requestKeys struct {
	llm  string
	tmdb string
}

func (s *Server) keysFor(r *http.Request) requestKeys {
	keys := requestKeys{
		llm:  strings.TrimSpace(r.Header.Get(headerLLMKey)),
		tmdb: strings.TrimSpace(r.Header.Get(headerTMDBKey)),
	}
	if keys.llm == "" {
		keys.llm = s.cfg.LLM.APIKey
	}
	if keys.tmdb == "" {
		keys.tmdb = s.cfg.TMDB.APIKey
	}
	return keys
}

// llmClient builds a model client bound to the request's credential,
// nil when no credential is available.
func (s *Server) llmClient(keys requestKeys) *llm.Client {
	if keys.llm == "" {
		return nil
	}
	return llm.NewClient(llm.Config{
		APIKey:         keys.llm,
		BaseURL:        s.cfg.LLM.BaseURL,
		Model:          s.cfg.LLM.Model,
		Referer:        s.cfg.LLM.Referer,
		Title:          s.cfg.LLM.Title,
		TimeoutSeconds: s.cfg.LLM.TimeoutSeconds,
	})
}

// tmdbClient builds a metadata client bound to the request's
// credential, nil when no credential is available.
func (s *Server) tmdbClient(keys requestKeys) *tmdb.Client {
	if keys.tmdb == "" {
		return nil
	}
	client, err := tmdb.New(keys.tmdb, s.cfg.TMDB.BaseURL, s.cfg.TMDB.Language)
	if err != nil {
		return nil
	}
	return client
}
