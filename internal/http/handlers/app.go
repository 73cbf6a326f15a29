// Package handlers exposes the code-generation pipeline over HTTP.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/storage"
)

// Pipeline runs one generation request.
type Pipeline interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedCodeArtifact, error)
}

// JobReader loads jobs by id.
type JobReader interface {
	GetByID(ctx context.Context, jobID string) (*domain.Job, error)
}

// HistoryReader lists archived artifacts for a job.
type HistoryReader interface {
	History(ctx context.Context, jobID string) ([]storage.Entry, error)
}

// App holds the dependencies shared by every handler.
type App struct {
	Pipeline Pipeline
	Jobs     JobReader
	History  HistoryReader
}

// NewApp wires the handler container. history may be nil.
func NewApp(pipeline Pipeline, jobs JobReader, history HistoryReader) *App {
	return &App{Pipeline: pipeline, Jobs: jobs, History: history}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
}

// fail maps pipeline and store errors onto HTTP statuses.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrScriptNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidScript):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMissingCredential):
		code = http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
	}
	l := zerolog.Ctx(r.Context())
	if code >= http.StatusInternalServerError {
		l.Error().Err(err).Int("status", code).Msg("http: request failed")
	} else {
		l.Debug().Err(err).Int("status", code).Msg("http: request rejected")
	}
	a.json(w, code, errorBody{Error: err.Error()})
}
