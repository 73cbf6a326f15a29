package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"videogen/internal/domain"
	"videogen/internal/infra"
	"videogen/internal/sqlinline"
)

// JobRepositoryPG implements domain.JobRepository and domain.JobQueue.
type JobRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewJobRepository creates a job repository backed by PostgreSQL.
func NewJobRepository(sql infra.SQLExecutor) *JobRepositoryPG {
	return &JobRepositoryPG{sql: sql}
}

// UpdateJobCode stores the artifact and marks the job ready.
func (r *JobRepositoryPG) UpdateJobCode(ctx context.Context, jobID, code string, usedFallback bool) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QUpdateJobCode, jobID, code, usedFallback)
	if err != nil {
		return fmt.Errorf("update job code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update job code %s: %w", jobID, domain.ErrNotFound)
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, jobID string) (*domain.Job, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, domain.ErrNotFound
	}
	job, err := scanJob(r.sql.QueryRow(ctx, sqlinline.QSelectJob, jobID))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ClaimNext moves the oldest queued job to running. It returns ErrNotFound
// when the queue is empty.
func (r *JobRepositoryPG) ClaimNext(ctx context.Context) (*domain.Job, error) {
	job, err := scanJob(r.sql.QueryRow(ctx, sqlinline.QClaimCodeJob))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// MarkFailed records a fatal pipeline error on the job.
func (r *JobRepositoryPG) MarkFailed(ctx context.Context, jobID, reason string) error {
	_, err := r.sql.Exec(ctx, sqlinline.QMarkJobFailed, jobID, reason)
	return err
}

func scanJob(row pgx.Row) (*domain.Job, error) {
	var (
		job       domain.Job
		status    string
		imagesRaw []byte
		audioRaw  []byte
	)
	if err := row.Scan(
		&job.ID,
		&job.ScriptID,
		&status,
		&job.AspectRatio,
		&job.TargetDuration,
		&imagesRaw,
		&audioRaw,
		&job.PreviousCode,
		&job.IterationFeedback,
		&job.GeneratedCode,
		&job.UsedFallback,
		&job.ErrorMessage,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.Status = domain.JobStatus(status)
	if len(imagesRaw) > 0 {
		if err := json.Unmarshal(imagesRaw, &job.ImageURLs); err != nil {
			return nil, fmt.Errorf("decode image urls for job %s: %w", job.ID, err)
		}
	}
	if len(audioRaw) > 0 && string(audioRaw) != "null" {
		var audio domain.AudioDescriptor
		if err := json.Unmarshal(audioRaw, &audio); err != nil {
			return nil, fmt.Errorf("decode audio for job %s: %w", job.ID, err)
		}
		job.Audio = &audio
	}
	return &job, nil
}

var (
	_ domain.JobRepository = (*JobRepositoryPG)(nil)
	_ domain.JobQueue      = (*JobRepositoryPG)(nil)
)
