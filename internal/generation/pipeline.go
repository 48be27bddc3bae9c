package generation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"flickvault/internal/logging"
	"flickvault/internal/services"
	"flickvault/internal/services/tmdb"
)

// Pipeline phases, in execution order.
const (
	phaseGenerating = "generating"
	phaseEnriching  = "enriching"
	phaseFiltering  = "filtering"
	phaseFinalizing = "finalizing"
)

// Pipeline orchestrates one generation run. Construct a fresh value per
// invocation with the clients bound to that caller's credentials; the
// pipeline holds no state across runs.
type Pipeline struct {
	llm    completer
	tmdb   tmdb.Matcher
	logger *slog.Logger
}

type completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// New builds a pipeline. Either client may be nil when the caller could
// not supply a credential; Run reports that as a configuration error
// before any network call.
func New(llmClient completer, tmdbClient tmdb.Matcher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		llm:    llmClient,
		tmdb:   tmdbClient,
		logger: logging.NewComponentLogger(logger, "generation"),
	}
}

// Run executes the pipeline and delivers events through emit: zero or
// more progress events, then exactly one terminal event. Emit is called
// from the calling goroutine only. A panic during the generating phase
// is converted to a terminal error event; a panic in any later phase
// propagates to the caller, which must treat a stream that ended
// without a terminal event as a failure.
func (p *Pipeline) Run(ctx context.Context, req Request, emit func(Event)) {
	runID := uuid.NewString()
	log := p.logger.With(logging.String(logging.FieldRunID, runID))

	if err := req.validate(); err != nil {
		log.Warn("rejected request", logging.Error(err))
		emit(errorEvent(err.Error()))
		return
	}
	if p.llm == nil {
		err := services.Wrap(services.ErrConfiguration, "generation", "run", "model API key required", nil)
		emit(errorEvent(err.Error()))
		return
	}
	if p.tmdb == nil {
		err := services.Wrap(services.ErrConfiguration, "generation", "run", "TMDB API key required", nil)
		emit(errorEvent(err.Error()))
		return
	}

	log.Info("run started",
		logging.String("kind", req.Kind),
		logging.Int("count", req.Count),
		logging.Int("excluded", len(req.ExcludeTitles)),
		logging.Bool("rating_filter", req.MinRating != nil))

	log.Debug("phase", logging.String(logging.FieldPhase, phaseGenerating))
	name, description, candidates, err := p.generateRecovered(ctx, req)
	if err != nil {
		log.Warn("generation failed", logging.Error(err))
		emit(errorEvent(err.Error()))
		return
	}

	log.Debug("phase", logging.String(logging.FieldPhase, phaseEnriching),
		logging.Int("candidates", len(candidates)))
	items, err := p.enrich(ctx, req, candidates, emit)
	if err != nil {
		log.Info("run canceled", logging.Error(err))
		emit(errorEvent("generation canceled"))
		return
	}

	log.Debug("phase", logging.String(logging.FieldPhase, phaseFiltering))
	items = applyFilter(items, req.MinRating, req.Count)

	log.Debug("phase", logging.String(logging.FieldPhase, phaseFinalizing))
	result := Result{Name: name, Description: description, Items: items}
	if req.Name != "" {
		result.Name = req.Name
	}

	log.Info("run completed",
		logging.Int("items", len(result.Items)),
		logging.Bool("under_delivered", len(result.Items) < req.Count))
	emit(completeEvent(result))
}

// generateRecovered wraps the generating phase with panic recovery so a
// fault in prompt assembly or response parsing still yields a terminal
// error event instead of tearing down the stream.
func (p *Pipeline) generateRecovered(ctx context.Context, req Request) (name, description string, candidates []RawCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate generation panicked: %v", r)
		}
	}()
	return p.generate(ctx, req)
}
