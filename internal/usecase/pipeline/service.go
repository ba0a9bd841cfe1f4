package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"leadgen/internal/domain/entity"
	"leadgen/internal/observability/logging"
	"leadgen/internal/observability/metrics"
	"leadgen/internal/observability/tracing"
)

// Pipeline step names used for metrics and spans.
const (
	stepGenerate   = "generate"
	stepPublish    = "publish"
	stepRepurpose  = "repurpose"
	stepDistribute = "distribute"
)

// ContentSource produces posts and their social variants.
type ContentSource interface {
	GenerateBlogPost(ctx context.Context, niche, topic string) (*entity.PostDraft, error)
	RepurposeToSocial(ctx context.Context, title, body string) (entity.SocialBundle, error)
}

// LocalPublisher writes a post to the static site and returns where it went.
type LocalPublisher interface {
	Publish(ctx context.Context, draft *entity.PostDraft) (string, error)
}

// Distributor pushes a published post to one external target.
type Distributor interface {
	Name() string
	Distribute(ctx context.Context, in entity.DistributionInput) (*entity.DistributionOutcome, error)
}

// SocialConsumer is implemented by distributors that need the SocialBundle.
// The bundle is generated only when at least one of them is composed.
type SocialConsumer interface {
	NeedsSocial() bool
}

// Service runs the pipeline. It holds no per-run state and performs no retries.
type Service struct {
	source       ContentSource
	publisher    LocalPublisher
	distributors []Distributor
	siteBaseURL  string
}

// Option configures a Service.
type Option func(*Service)

// WithDistributors sets the distributors, invoked in the given order.
func WithDistributors(ds ...Distributor) Option {
	return func(s *Service) { s.distributors = append([]Distributor(nil), ds...) }
}

// WithSiteBaseURL sets the blog URL used to build canonical links for cross-posts.
func WithSiteBaseURL(baseURL string) Option {
	return func(s *Service) { s.siteBaseURL = strings.TrimRight(baseURL, "/") }
}

// NewService creates a pipeline over a content source and a local publisher.
func NewService(source ContentSource, publisher LocalPublisher, opts ...Option) *Service {
	s := &Service{source: source, publisher: publisher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Distributors returns the names of the composed distributors in invocation order.
func (s *Service) Distributors() []string {
	names := make([]string, 0, len(s.distributors))
	for _, d := range s.distributors {
		names = append(names, d.Name())
	}
	return names
}

// CanonicalURL returns the blog URL of a post, or "" without a site URL.
func (s *Service) CanonicalURL(slug string) string {
	if s.siteBaseURL == "" {
		return ""
	}
	return s.siteBaseURL + "/posts/" + slug + "/"
}

// GenerateAndPublish generates one post and writes it to the local site.
// Generation completes before publishing starts. Failures are returned as
// *GenerationError or *PublishError, and exactly one file is written per
// successful call.
func (s *Service) GenerateAndPublish(ctx context.Context, niche, topic string) (*entity.PipelineResult, error) {
	ctx = ensureRunID(ctx)
	_, result, err := s.generateAndPublish(ctx, niche, topic)
	return result, err
}

// GenerateAndDistribute runs GenerateAndPublish and then invokes every
// distributor in order. Distributor failures are collected in the report
// and never undo the local publish, so the error is non-nil only when
// generation or publishing failed.
func (s *Service) GenerateAndDistribute(ctx context.Context, niche, topic string) (*entity.PipelineResult, *entity.DistributionReport, error) {
	ctx = ensureRunID(ctx)
	post, result, err := s.generateAndPublish(ctx, niche, topic)
	if err != nil {
		return nil, nil, err
	}

	report := s.distribute(ctx, post)
	return result, report, nil
}

func (s *Service) generateAndPublish(ctx context.Context, niche, topic string) (*entity.PostDraft, *entity.PipelineResult, error) {
	logger := logging.WithRunIDLogger(ctx, slog.Default()).With(
		slog.String("niche", niche),
		slog.String("topic", topic))

	ctx, span := tracing.StartSpan(ctx, "pipeline.generate_and_publish",
		attribute.String("niche", niche),
		attribute.String("topic", topic),
		attribute.String("run_id", logging.RunIDFromContext(ctx)))
	var runErr error
	defer func() { tracing.EndSpan(span, runErr) }()

	logger.InfoContext(ctx, "Pipeline run started")

	post, err := s.generate(ctx, niche, topic)
	if err != nil {
		runErr = &GenerationError{Niche: niche, Topic: topic, Err: err}
		metrics.RecordPipelineRun(metrics.OutcomeGenerationFailed)
		logger.ErrorContext(ctx, "Post generation failed",
			slog.String("error", logging.SanitizeError(err)))
		return nil, nil, runErr
	}

	path, err := s.publish(ctx, post)
	if err != nil {
		runErr = &PublishError{Slug: post.Slug, Err: err}
		metrics.RecordPipelineRun(metrics.OutcomePublishFailed)
		logger.ErrorContext(ctx, "Local publish failed",
			slog.String("slug", post.Slug),
			slog.String("error", logging.SanitizeError(err)))
		return nil, nil, runErr
	}

	metrics.RecordPipelineRun(metrics.OutcomeSuccess)
	metrics.RecordPostPublished(niche)
	span.SetAttributes(attribute.String("slug", post.Slug))

	logger.InfoContext(ctx, "Post published",
		slog.String("title", post.Title),
		slog.String("slug", post.Slug),
		slog.String("path", path))

	return post, &entity.PipelineResult{
		Title:     post.Title,
		Slug:      post.Slug,
		Tags:      append([]string{}, post.Tags...),
		LocalPath: path,
	}, nil
}

func (s *Service) generate(ctx context.Context, niche, topic string) (post *entity.PostDraft, err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.generate")
	start := time.Now()
	defer func() {
		metrics.RecordStepDuration(stepGenerate, time.Since(start))
		tracing.EndSpan(span, err)
	}()

	draft, err := s.source.GenerateBlogPost(ctx, niche, topic)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, errors.New("content source returned no draft")
	}

	// The pipeline keeps its own copy; the source may reuse its value.
	owned := draft.Clone()
	return &owned, nil
}

func (s *Service) publish(ctx context.Context, post *entity.PostDraft) (path string, err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.publish", attribute.String("slug", post.Slug))
	start := time.Now()
	defer func() {
		metrics.RecordStepDuration(stepPublish, time.Since(start))
		tracing.EndSpan(span, err)
	}()

	// Hand the publisher a copy so the draft the distributors see cannot change.
	draft := post.Clone()
	return s.publisher.Publish(ctx, &draft)
}

func (s *Service) distribute(ctx context.Context, post *entity.PostDraft) *entity.DistributionReport {
	report := &entity.DistributionReport{}
	if len(s.distributors) == 0 {
		return report
	}

	logger := logging.WithRunIDLogger(ctx, slog.Default()).With(slog.String("slug", post.Slug))

	input := entity.DistributionInput{
		Post:         post.Clone(),
		CanonicalURL: s.CanonicalURL(post.Slug),
	}

	var socialErr error
	if s.needsSocial() {
		input.Social, socialErr = s.repurpose(ctx, post)
		if socialErr != nil {
			logger.WarnContext(ctx, "Social repurposing failed; social distributors will be skipped",
				slog.String("error", logging.SanitizeError(socialErr)))
		}
	}

	for _, d := range s.distributors {
		target := d.Name()
		var outcome entity.DistributionOutcome

		if isSocialConsumer(d) && socialErr != nil {
			outcome = entity.DistributionOutcome{
				Target: target,
				Err:    &DistributionError{Target: target, Err: fmt.Errorf("repurpose to social: %w", socialErr)},
			}
		} else {
			outcome = s.invoke(ctx, d, input)
		}

		metrics.RecordDistribution(target, outcome.OK())
		if outcome.OK() {
			logger.InfoContext(ctx, "Distribution succeeded",
				slog.String("target", target),
				slog.String("id", outcome.ID),
				slog.String("url", outcome.URL))
		} else {
			logger.WarnContext(ctx, "Distribution failed",
				slog.String("target", target),
				slog.String("error", logging.SanitizeError(outcome.Err)))
		}
		report.Add(outcome)
	}

	logger.InfoContext(ctx, "Distribution finished",
		slog.Int("succeeded", len(report.Succeeded())),
		slog.Int("failed", len(report.Failed())))

	return report
}

func (s *Service) repurpose(ctx context.Context, post *entity.PostDraft) (bundle entity.SocialBundle, err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.repurpose")
	start := time.Now()
	defer func() {
		metrics.RecordStepDuration(stepRepurpose, time.Since(start))
		tracing.EndSpan(span, err)
	}()

	bundle, err = s.source.RepurposeToSocial(ctx, post.Title, post.Body)
	if err != nil {
		return nil, err
	}
	return bundle.Enforce(), nil
}

// invoke calls one distributor. Its error is recorded, never propagated.
func (s *Service) invoke(ctx context.Context, d Distributor, in entity.DistributionInput) entity.DistributionOutcome {
	target := d.Name()
	ctx, span := tracing.StartSpan(ctx, "pipeline.distribute", attribute.String("target", target))
	start := time.Now()

	// Each distributor gets its own copy of the input.
	in.Post = in.Post.Clone()
	if in.Social != nil {
		in.Social = in.Social.Enforce()
	}

	out, err := d.Distribute(ctx, in)

	metrics.RecordStepDuration(stepDistribute, time.Since(start))
	if err != nil {
		distErr := &DistributionError{Target: target, Err: err}
		tracing.EndSpan(span, distErr)
		return entity.DistributionOutcome{Target: target, Err: distErr}
	}
	tracing.EndSpan(span, nil)

	outcome := entity.DistributionOutcome{Target: target}
	if out != nil {
		outcome.ID = out.ID
		outcome.URL = out.URL
	}
	return outcome
}

func (s *Service) needsSocial() bool {
	for _, d := range s.distributors {
		if isSocialConsumer(d) {
			return true
		}
	}
	return false
}

func isSocialConsumer(d Distributor) bool {
	c, ok := d.(SocialConsumer)
	return ok && c.NeedsSocial()
}

// ensureRunID attaches a fresh run ID unless the caller already set one.
func ensureRunID(ctx context.Context) context.Context {
	if logging.RunIDFromContext(ctx) != "" {
		return ctx
	}
	return logging.WithRunID(ctx, uuid.New().String())
}
