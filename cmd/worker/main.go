package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"videogen/internal/adapter/repo"
	"videogen/internal/codegen"
	"videogen/internal/domain"
	"videogen/internal/infra"
	"videogen/internal/infra/credentials"
	"videogen/internal/providers/llm"
	"videogen/internal/storage"
	"videogen/internal/validator"
	"videogen/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	jobs := repo.NewJobRepository(runner)

	apiKey, err := credentials.NewStore(runner).ResolveAPIKey(ctx, cfg.OpenRouterAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("worker: failed to load openrouter api key from store")
	}
	if apiKey == "" {
		// Every claimed job would fail with a missing credential.
		logger.Fatal().Msg("worker: openrouter api key is required")
	}

	llmLogger := infra.Component(logger, "llm")
	client := llm.NewClient(llm.Options{
		APIKey:      apiKey,
		BaseURL:     cfg.OpenRouterBaseURL,
		Model:       cfg.Generation.Model,
		Referer:     cfg.OpenRouterReferer,
		Title:       cfg.OpenRouterTitle,
		Temperature: &cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Logger:      &llmLogger,
	})

	var checks []validator.Option
	if cfg.Generation.ParseCheck {
		checks = append(checks, validator.WithCheck(validator.CheckParse))
	}

	genLogger := infra.Component(logger, "codegen")
	opts := codegen.Options{
		Client:      client,
		Scripts:     repo.NewScriptRepository(runner),
		Jobs:        jobs,
		Validator:   validator.New(checks...),
		MaxAttempts: cfg.Generation.MaxAttempts,
		FPS:         cfg.Generation.FPS,
		Logger:      &genLogger,
		OnFallback: func(jobID string, reason domain.FallbackReason, diagnostics []string) {
			genLogger.Warn().
				Str("job_id", jobID).
				Str("reason", string(reason)).
				Strs("diagnostics", diagnostics).
				Msg("worker: job fell back to template composition")
		},
	}
	if cfg.ArtifactDir != "" {
		archive, err := storage.NewArchive(cfg.ArtifactDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure artifact archive")
		}
		opts.Archive = archive
	}

	generator, err := codegen.NewGenerator(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure generator")
	}

	workerLogger := infra.Component(logger, "worker")
	w := worker.New(worker.Options{
		Queue:        jobs,
		Pipeline:     generator,
		Concurrency:  cfg.WorkerConcurrency,
		PollInterval: cfg.WorkerPoll,
		Logger:       &workerLogger,
	})

	logger.Info().Int("concurrency", cfg.WorkerConcurrency).Str("model", client.Model()).Msg("worker: started")
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}
