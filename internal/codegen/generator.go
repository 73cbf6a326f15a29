// Package codegen turns a script into composition code: it prompts the model,
// validates what comes back, retries with diagnostics, and falls back to a
// deterministic template when the model cannot produce acceptable code.
package codegen

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"videogen/internal/domain"
	"videogen/internal/infra"
	"videogen/internal/validator"
)

// DefaultMaxAttempts bounds the model calls made for one request.
const DefaultMaxAttempts = 3

// ChatClient is the model transport. Ready must report missing credentials
// without touching the network.
type ChatClient interface {
	Ready() error
	Complete(ctx context.Context, system, user string) (string, error)
}

// CodeStore persists the final artifact onto its job.
type CodeStore interface {
	UpdateJobCode(ctx context.Context, jobID, code string, usedFallback bool) error
}

// Archive keeps an immutable copy of every artifact. Failures are logged and
// never fail the run.
type Archive interface {
	SaveArtifact(ctx context.Context, artifact domain.GeneratedCodeArtifact) (string, error)
}

// Attempt records one model round trip. It only leaves the loop through
// Options.OnAttempt.
type Attempt struct {
	JobID       string
	Index       int
	Prompt      string
	RawResponse string
	Code        string
	Result      validator.Result
	Err         error
}

// Options wires a Generator.
type Options struct {
	Client      ChatClient
	Scripts     domain.ScriptRepository
	Jobs        CodeStore
	Validator   *validator.Validator
	Archive     Archive
	MaxAttempts int
	FPS         int
	Logger      *infra.Logger
	OnAttempt   func(Attempt)
	OnFallback  func(jobID string, reason domain.FallbackReason, diagnostics []string)
}

// Generator runs the generate, validate, retry and fallback loop. It holds no
// per-request state, so one instance serves concurrent requests.
type Generator struct {
	client      ChatClient
	scripts     domain.ScriptRepository
	jobs        CodeStore
	validator   *validator.Validator
	archive     Archive
	maxAttempts int
	fps         int
	logger      *infra.Logger
	onAttempt   func(Attempt)
	onFallback  func(jobID string, reason domain.FallbackReason, diagnostics []string)
}

// NewGenerator validates the wiring and applies defaults.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Client == nil {
		return nil, errors.New("codegen: chat client is required")
	}
	if opts.Scripts == nil {
		return nil, errors.New("codegen: script repository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("codegen: job store is required")
	}
	v := opts.Validator
	if v == nil {
		v = validator.New()
	}
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &Generator{
		client:      opts.Client,
		scripts:     opts.Scripts,
		jobs:        opts.Jobs,
		validator:   v,
		archive:     opts.Archive,
		maxAttempts: maxAttempts,
		fps:         fps,
		logger:      logger,
		onAttempt:   opts.OnAttempt,
		onFallback:  opts.OnFallback,
	}, nil
}

// Generate produces and persists code for one request. Content failures
// (bad model output, transport errors, security violations) end in a
// fallback artifact. A missing credential, a missing or malformed script,
// context cancellation and persistence errors are returned and no artifact
// is written.
func (g *Generator) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedCodeArtifact, error) {
	if err := g.client.Ready(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMissingCredential, err)
	}
	script, err := g.scripts.GetScript(ctx, req.ScriptID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && script == nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, req.ScriptID)
	}
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", req.ScriptID, err)
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	dims := DimensionsFor(req.AspectRatio)
	totalFrames := req.TargetDuration * g.fps
	if totalFrames <= 0 {
		totalFrames = script.TotalFrames(g.fps)
	}
	system, err := BuildSystemPrompt(dims, g.fps)
	if err != nil {
		return nil, err
	}
	base := BuildUserPrompt(PromptInput{
		Script:      script,
		ImageURLs:   req.ImageURLs,
		Audio:       req.Audio,
		TotalFrames: totalFrames,
		FPS:         g.fps,
		Dimensions:  dims,
	})
	base = WithIteration(base, req.Iteration)

	log := g.logger.With().Str("job_id", req.JobID).Logger()
	var code string
	st := Start()
	for !st.Terminal() {
		switch st.Phase {
		case PhaseAttempting:
			prompt := base
			if st.Attempt > 0 {
				prompt = WithDiagnostics(base, st.Diagnostics)
			}
			att := g.attempt(ctx, req.JobID, st.Attempt, system, prompt)
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			if g.onAttempt != nil {
				g.onAttempt(att)
			}
			outcome := Outcome{Passed: att.Err == nil && att.Result.Valid}
			switch {
			case att.Err != nil:
				outcome.Diagnostics = []string{att.Err.Error()}
				log.Warn().Err(att.Err).Int("attempt", st.Attempt+1).Int("max", g.maxAttempts).Msg("codegen: attempt failed")
			case !att.Result.Valid:
				outcome.Diagnostics = att.Result.Errors
				outcome.SecurityViolation = !validator.CheckSecurity(att.Code).OK()
				log.Warn().Strs("errors", att.Result.Errors).Int("attempt", st.Attempt+1).Int("max", g.maxAttempts).Msg("codegen: validation failed")
			default:
				code = att.Code
				log.Info().Int("attempt", st.Attempt+1).Int("chars", len(code)).Msg("codegen: code validated")
			}
			st = Next(st, outcome, g.maxAttempts)
		case PhaseSecurityAborted:
			log.Error().Int("attempt", st.Attempt+1).Msg("codegen: security violation, skipping retries")
			st = Next(st, Outcome{}, g.maxAttempts)
		}
	}

	artifact := domain.GeneratedCodeArtifact{JobID: req.JobID, Code: code, Attempts: st.Attempt + 1}
	if st.Phase == PhaseFailingOver {
		artifact.Code = BuildFallback(FallbackInput{
			Script:      script,
			ImageURLs:   req.ImageURLs,
			Audio:       req.Audio,
			TotalFrames: totalFrames,
			FPS:         g.fps,
		})
		artifact.UsedFallback = true
		artifact.FallbackReason = st.Reason
		log.Warn().Str("reason", string(st.Reason)).Strs("last_errors", st.Diagnostics).Msg("codegen: using fallback template")
		if g.onFallback != nil {
			g.onFallback(req.JobID, st.Reason, st.Diagnostics)
		}
	}

	if err := g.jobs.UpdateJobCode(ctx, req.JobID, artifact.Code, artifact.UsedFallback); err != nil {
		return nil, fmt.Errorf("persist code for job %s: %w", req.JobID, err)
	}
	if g.archive != nil {
		if path, err := g.archive.SaveArtifact(ctx, artifact); err != nil {
			log.Warn().Err(err).Msg("codegen: archive artifact")
		} else {
			log.Debug().Str("path", path).Msg("codegen: artifact archived")
		}
	}
	return &artifact, nil
}

// attempt performs one model call. Any failure, a panic included, is folded
// into Attempt.Err.
func (g *Generator) attempt(ctx context.Context, jobID string, index int, system, prompt string) (att Attempt) {
	att = Attempt{JobID: jobID, Index: index, Prompt: prompt}
	defer func() {
		if r := recover(); r != nil {
			att.Err = fmt.Errorf("attempt %d panicked: %v", index+1, r)
		}
	}()
	g.logger.Debug().Str("job_id", jobID).Int("attempt", index+1).Int("max", g.maxAttempts).Msg("codegen: requesting code")
	raw, err := g.client.Complete(ctx, system, prompt)
	if err != nil {
		att.Err = fmt.Errorf("%w: %w", domain.ErrProviderFailure, err)
		return att
	}
	att.RawResponse = raw
	att.Code = ExtractCode(raw)
	if att.Code == "" {
		att.Err = errors.New("model response contained no code")
		return att
	}
	att.Result = g.validator.Validate(att.Code)
	return att
}
