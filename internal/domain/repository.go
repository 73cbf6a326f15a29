package domain

import "context"

// ScriptRepository reads scripts. A missing script yields ErrNotFound.
type ScriptRepository interface {
	GetScript(ctx context.Context, scriptID string) (*Script, error)
}

// JobRepository persists generated code onto jobs.
type JobRepository interface {
	UpdateJobCode(ctx context.Context, jobID, code string, usedFallback bool) error
	GetByID(ctx context.Context, jobID string) (*Job, error)
}

// JobQueue is used by the worker to pull queued code-generation jobs.
type JobQueue interface {
	ClaimNext(ctx context.Context) (*Job, error)
	MarkFailed(ctx context.Context, jobID, reason string) error
}
