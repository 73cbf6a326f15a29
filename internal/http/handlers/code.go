package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"videogen/internal/composition"
	"videogen/internal/domain"
	"videogen/internal/storage"
)

const maxBodyBytes = 1 << 20

// GenerateCodeRequest optionally turns a run into an iteration on the job's
// current code.
type GenerateCodeRequest struct {
	Feedback string `json:"feedback"`
}

// CodeResponse describes a job's current artifact.
type CodeResponse struct {
	JobID          string                `json:"jobId"`
	Code           string                `json:"code"`
	UsedFallback   bool                  `json:"usedFallback"`
	Attempts       int                   `json:"attempts,omitempty"`
	FallbackReason domain.FallbackReason `json:"fallbackReason,omitempty"`
	Compiles       *bool                 `json:"compiles,omitempty"`
	Component      string                `json:"component,omitempty"`
	CompileError   string                `json:"compileError,omitempty"`
}

// jobID reads the {id} path parameter and rejects anything but a UUID.
func (a *App) jobID(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		a.json(w, http.StatusBadRequest, errorBody{Error: "invalid job id"})
		return "", false
	}
	return id.String(), true
}

// GenerateCode runs the pipeline synchronously for a stored job.
func (a *App) GenerateCode(w http.ResponseWriter, r *http.Request) {
	id, ok := a.jobID(w, r)
	if !ok {
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	var body GenerateCodeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		a.json(w, http.StatusBadRequest, errorBody{Error: "invalid json body"})
		return
	}
	req := job.Request()
	if fb := strings.TrimSpace(body.Feedback); fb != "" {
		if job.GeneratedCode == "" {
			a.json(w, http.StatusConflict, errorBody{Error: "job has no code to iterate on"})
			return
		}
		req.Iteration = &domain.Iteration{PreviousCode: job.GeneratedCode, Feedback: fb}
	}

	artifact, err := a.Pipeline.Generate(r.Context(), req)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, CodeResponse{
		JobID:          artifact.JobID,
		Code:           artifact.Code,
		UsedFallback:   artifact.UsedFallback,
		Attempts:       artifact.Attempts,
		FallbackReason: artifact.FallbackReason,
	})
}

// GetCode returns the persisted code and whether it constructs.
func (a *App) GetCode(w http.ResponseWriter, r *http.Request) {
	id, ok := a.jobID(w, r)
	if !ok {
		return
	}
	job, err := a.Jobs.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if job.GeneratedCode == "" {
		a.json(w, http.StatusNotFound, errorBody{Error: "code not generated yet"})
		return
	}
	resp := CodeResponse{JobID: job.ID, Code: job.GeneratedCode, UsedFallback: job.UsedFallback}
	prog, err := composition.NewCompiled(job.GeneratedCode).Program(r.Context())
	compiles := err == nil
	resp.Compiles = &compiles
	if compiles {
		resp.Component = prog.Component
	} else {
		resp.CompileError = err.Error()
	}
	a.json(w, http.StatusOK, resp)
}

// CodeHistory lists every archived artifact of a job.
func (a *App) CodeHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := a.jobID(w, r)
	if !ok {
		return
	}
	entries := []storage.Entry{}
	if a.History != nil {
		found, err := a.History.History(r.Context(), id)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		entries = append(entries, found...)
	}
	a.json(w, http.StatusOK, map[string]any{"jobId": id, "entries": entries})
}
