// Package contentgen drafts blog posts and social copy with a language model.
// Two backends are provided: Anthropic Claude and an OpenAI-compatible chat
// endpoint (a local Ollama server by default, or OpenAI proper). Both sit
// behind a circuit breaker and bounded retries. The Generator owns the prompts,
// the JSON contract with the model and the normalization of its output.
package contentgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"leadgen/internal/domain/entity"
	"leadgen/internal/utils/text"
)

// Backend sends a single prompt to a language model and returns its raw reply.
type Backend interface {
	// Name identifies the backend in logs and metrics ("claude", "ollama", "openai").
	Name() string
	// Complete returns the model's text reply to prompt.
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrMalformedOutput is returned when the model reply does not match the expected JSON contract.
var ErrMalformedOutput = errors.New("malformed model output")

// Generator produces PostDrafts and SocialBundles from a Backend.
type Generator struct {
	backend         Backend
	metricsRecorder GenerationMetricsRecorder
}

// Option configures a Generator.
type Option func(*Generator)

// WithMetricsRecorder replaces the Prometheus recorder (tests use a fake).
func WithMetricsRecorder(r GenerationMetricsRecorder) Option {
	return func(g *Generator) { g.metricsRecorder = r }
}

// New creates a Generator on top of backend.
func New(backend Backend, opts ...Option) *Generator {
	g := &Generator{
		backend:         backend,
		metricsRecorder: NewPrometheusGenerationMetrics(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Backend returns the name of the underlying backend.
func (g *Generator) Backend() string {
	return g.backend.Name()
}

// GenerateBlogPost drafts a post about topic for the given niche.
// A missing or malformed slug is derived from the title, so the returned
// draft always carries a valid slug.
func (g *Generator) GenerateBlogPost(ctx context.Context, niche, topic string) (*entity.PostDraft, error) {
	requestID := uuid.New().String()
	start := time.Now()

	slog.InfoContext(ctx, "Starting blog post generation",
		slog.String("request_id", requestID),
		slog.String("backend", g.backend.Name()),
		slog.String("niche", niche),
		slog.String("topic", topic))

	reply, err := g.backend.Complete(ctx, buildBlogPostPrompt(niche, topic))
	duration := time.Since(start)
	g.metricsRecorder.RecordDuration(kindBlogPost, duration)
	if err != nil {
		g.metricsRecorder.RecordFailure(kindBlogPost)
		return nil, fmt.Errorf("%s: generate blog post: %w", g.backend.Name(), err)
	}

	draft, err := parseBlogPost(reply)
	if err != nil {
		g.metricsRecorder.RecordFailure(kindBlogPost)
		slog.WarnContext(ctx, "Model returned malformed blog post",
			slog.String("request_id", requestID),
			slog.Int("reply_length", text.CountRunes(reply)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("%s: %w", g.backend.Name(), err)
	}

	slog.InfoContext(ctx, "Blog post generated",
		slog.String("request_id", requestID),
		slog.String("slug", draft.Slug),
		slog.Int("body_length", text.CountRunes(draft.Body)),
		slog.Int("tags", len(draft.Tags)),
		slog.Duration("duration", duration))

	return draft, nil
}

// RepurposeToSocial turns a post into per-platform social copy.
// Only the first 2000 characters of body are sent to the model. Every field of
// the returned bundle is cut to its platform cap.
func (g *Generator) RepurposeToSocial(ctx context.Context, title, body string) (entity.SocialBundle, error) {
	requestID := uuid.New().String()
	start := time.Now()

	reply, err := g.backend.Complete(ctx, buildSocialPrompt(title, body))
	duration := time.Since(start)
	g.metricsRecorder.RecordDuration(kindSocial, duration)
	if err != nil {
		g.metricsRecorder.RecordFailure(kindSocial)
		return nil, fmt.Errorf("%s: repurpose to social: %w", g.backend.Name(), err)
	}

	raw, err := parseSocial(reply)
	if err != nil {
		g.metricsRecorder.RecordFailure(kindSocial)
		return nil, fmt.Errorf("%s: %w", g.backend.Name(), err)
	}

	bundle := raw.Enforce()
	for _, platform := range raw.Platforms() {
		if raw[platform] != bundle[platform] {
			g.metricsRecorder.RecordTruncated(string(platform))
			slog.WarnContext(ctx, "Social post exceeded platform cap and was truncated",
				slog.String("request_id", requestID),
				slog.String("platform", string(platform)),
				slog.Int("length", text.CountRunes(raw[platform])))
		}
	}
	if err := bundle.Validate(); err != nil {
		g.metricsRecorder.RecordFailure(kindSocial)
		return nil, fmt.Errorf("%s: %w: %w", g.backend.Name(), ErrMalformedOutput, err)
	}

	slog.InfoContext(ctx, "Social posts generated",
		slog.String("request_id", requestID),
		slog.Int("platforms", len(bundle)),
		slog.Duration("duration", duration))

	return bundle, nil
}
