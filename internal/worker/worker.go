// Package worker drains queued code-generation jobs. Each claimed job runs
// its own pipeline invocation; up to Concurrency jobs run at once.
package worker

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"videogen/internal/domain"
	"videogen/internal/infra"
)

const (
	defaultPollInterval = 2 * time.Second
	markFailedTimeout   = 5 * time.Second
)

// Pipeline runs one generation request to completion.
type Pipeline interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedCodeArtifact, error)
}

// Options configures a Worker.
type Options struct {
	Queue        domain.JobQueue
	Pipeline     Pipeline
	Concurrency  int
	PollInterval time.Duration
	Logger       *infra.Logger
}

// Worker polls the job queue.
type Worker struct {
	queue       domain.JobQueue
	pipeline    Pipeline
	concurrency int
	poll        time.Duration
	logger      *infra.Logger
}

// New builds a Worker with defaults for unset options.
func New(opts Options) *Worker {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Worker{
		queue:       opts.Queue,
		pipeline:    opts.Pipeline,
		concurrency: concurrency,
		poll:        poll,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled. Shutdown is not an error.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("concurrency", w.concurrency).Dur("poll", w.poll).Msg("worker: started")
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.concurrency; i++ {
		slot := i
		g.Go(func() error {
			w.loop(gctx, slot)
			return nil
		})
	}
	err := g.Wait()
	w.logger.Info().Msg("worker: stopped")
	return err
}

func (w *Worker) loop(ctx context.Context, slot int) {
	for ctx.Err() == nil {
		job, err := w.queue.ClaimNext(ctx)
		switch {
		case err == nil:
			w.handle(ctx, slot, job)
			continue
		case errors.Is(err, domain.ErrNotFound):
		case ctx.Err() != nil:
			return
		default:
			w.logger.Error().Err(err).Int("slot", slot).Msg("worker: failed to claim job")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

func (w *Worker) handle(ctx context.Context, slot int, job *domain.Job) {
	log := w.logger.With().Str("job_id", job.ID).Int("slot", slot).Logger()
	log.Info().Str("script_id", job.ScriptID).Msg("worker: picked job")
	start := time.Now()

	artifact, err := w.pipeline.Generate(ctx, job.Request())
	if err != nil {
		log.Error().Err(err).Msg("worker: job failed")
		// The job is recorded as failed even during shutdown.
		mctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markFailedTimeout)
		defer cancel()
		if markErr := w.queue.MarkFailed(mctx, job.ID, err.Error()); markErr != nil {
			log.Error().Err(markErr).Msg("worker: mark failed")
		}
		return
	}
	log.Info().
		Bool("used_fallback", artifact.UsedFallback).
		Int("attempts", artifact.Attempts).
		Dur("took", time.Since(start)).
		Msg("worker: job completed")
}
