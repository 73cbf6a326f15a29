package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"videogen/internal/adapter/repo"
	"videogen/internal/codegen"
	"videogen/internal/http/handlers"
	httpapi "videogen/internal/http/httpapi"
	"videogen/internal/infra"
	"videogen/internal/infra/credentials"
	"videogen/internal/providers/llm"
	"videogen/internal/storage"
	"videogen/internal/validator"
)

func main() {
	// .env is optional
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
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	jobs := repo.NewJobRepository(runner)

	apiKey, err := credentials.NewStore(runner).ResolveAPIKey(ctx, cfg.OpenRouterAPIKey)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load openrouter api key from store")
	}
	if apiKey == "" {
		logger.Warn().Msg("openrouter api key missing, generation requests will be rejected")
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
	}

	var history handlers.HistoryReader
	if cfg.ArtifactDir != "" {
		archive, err := storage.NewArchive(cfg.ArtifactDir)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to configure artifact archive")
		}
		opts.Archive = archive
		history = archive
	}

	generator, err := codegen.NewGenerator(opts)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure generator")
	}

	app := handlers.NewApp(generator, jobs, history)
	router := httpapi.NewRouter(app, logger, cfg.RateLimitPerMin)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("model", client.Model()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
