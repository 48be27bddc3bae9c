package generation

import (
	"context"
	"strings"

	"flickvault/internal/services"
	"flickvault/internal/services/llm"
)

type modelPayload struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Movies      []modelEntry `json:"movies"`
	Shows       []modelEntry `json:"shows"`
}

type modelEntry struct {
	Title string `json:"title"`
	Year  int    `json:"year"`
}

// generate makes the single model call for a run and parses the
// response into raw candidates. Any transport failure, unparseable
// payload, or missing required field is invalid model output; the call
// is never retried.
func (p *Pipeline) generate(ctx context.Context, req Request) (name, description string, candidates []RawCandidate, err error) {
	content, err := p.llm.CompleteJSON(ctx, buildSystemPrompt(req), req.Prompt)
	if err != nil {
		return "", "", nil, services.Wrap(services.ErrModelOutput, "generator", "complete", "", err)
	}

	var payload modelPayload
	if err := llm.DecodeJSON(content, &payload); err != nil {
		return "", "", nil, services.Wrap(services.ErrModelOutput, "generator", "parse", "", err)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return "", "", nil, services.Wrap(services.ErrModelOutput, "generator", "parse", "missing name field", nil)
	}

	entries := payload.Movies
	if req.Kind == KindShow && len(payload.Shows) > 0 {
		// Models sometimes put show entries under "movies"; accept
		// either, preferring the kind-specific key.
		entries = payload.Shows
	}
	for _, entry := range entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		candidates = append(candidates, RawCandidate{Title: title, Year: entry.Year})
	}
	if len(candidates) == 0 {
		return "", "", nil, services.Wrap(services.ErrModelOutput, "generator", "parse", "no candidates in response", nil)
	}

	return payload.Name, strings.TrimSpace(payload.Description), candidates, nil
}
