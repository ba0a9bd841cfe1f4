package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"leadgen/internal/domain/entity"
	"leadgen/internal/observability/logging"
	"leadgen/internal/repository"
)

// markTimeout bounds the store update that records an entry's outcome.
const markTimeout = 10 * time.Second

// Pipeline runs one generate-publish-distribute cycle.
type Pipeline interface {
	GenerateAndDistribute(ctx context.Context, niche, topic string) (*entity.PipelineResult, *entity.DistributionReport, error)
}

// Outcome is the result of consuming one calendar entry.
type Outcome struct {
	Entry  *entity.ScheduledEntry
	Result *entity.PipelineResult
	Report *entity.DistributionReport
}

// Runner consumes due calendar entries.
type Runner struct {
	repo     repository.CalendarRepository
	pipeline Pipeline
	now      func() time.Time
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithNow overrides the clock used to decide which entries are due.
func WithNow(now func() time.Time) RunnerOption {
	return func(r *Runner) { r.now = now }
}

// NewRunner creates a Runner.
func NewRunner(repo repository.CalendarRepository, pipeline Pipeline, opts ...RunnerOption) *Runner {
	r := &Runner{repo: repo, pipeline: pipeline, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var topicTemplates = map[entity.PostType]string{
	entity.PostTypeHowTo:      "How to use %s",
	entity.PostTypeListicle:   "Top ways to benefit from %s",
	entity.PostTypeCaseStudy:  "Case study: %s in practice",
	entity.PostTypeComparison: "%s compared: options and trade-offs",
}

// TopicFor phrases a calendar entry as a post topic for its archetype.
func TopicFor(e entity.CalendarEntry) string {
	tmpl, ok := topicTemplates[e.PostType]
	if !ok {
		return e.Keyword
	}
	return fmt.Sprintf(tmpl, e.Keyword)
}

// RunNext consumes the oldest due entry. It returns nil, nil when nothing is due.
//
// A pipeline failure marks the entry failed and returns an *EntryError.
// Cancellation leaves the entry pending so the next run picks it up again.
func (r *Runner) RunNext(ctx context.Context) (*Outcome, error) {
	if logging.RunIDFromContext(ctx) == "" {
		ctx = logging.WithRunID(ctx, uuid.NewString())
	}
	logger := logging.WithRunIDLogger(ctx, slog.Default())

	entry, err := r.repo.NextDue(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if entry == nil {
		return nil, nil
	}

	logger = logger.With(
		slog.Int64("entry_id", entry.ID),
		slog.String("niche", entry.Entry.Niche),
		slog.String("keyword", entry.Entry.Keyword),
		slog.String("post_type", string(entry.Entry.PostType)))
	logger.Info("running scheduled entry")

	result, report, err := r.pipeline.GenerateAndDistribute(ctx, entry.Entry.Niche, TopicFor(entry.Entry))
	out := &Outcome{Entry: entry, Result: result, Report: report}

	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		reason := logging.SanitizeError(err)
		if markErr := r.repo.MarkFailed(markCtx, entry.ID, reason); markErr != nil {
			return out, fmt.Errorf("%w: %w", ErrStore, markErr)
		}
		logger.Error("scheduled entry failed", slog.String("error", reason))
		return out, &EntryError{ID: entry.ID, Err: err}
	}

	if err := r.repo.MarkPublished(markCtx, entry.ID, result.Slug, result.LocalPath); err != nil {
		return out, fmt.Errorf("%w: %w", ErrStore, err)
	}
	entry.Status = entity.EntryStatusPublished
	entry.Slug = result.Slug
	entry.LocalPath = result.LocalPath

	attrs := []any{slog.String("slug", result.Slug), slog.String("path", result.LocalPath)}
	if report != nil {
		attrs = append(attrs,
			slog.Int("distributed", len(report.Succeeded())),
			slog.Int("distribution_failures", len(report.Failed())))
	}
	logger.Info("scheduled entry published", attrs...)
	return out, nil
}

// RunStats summarizes a RunDue call.
type RunStats struct {
	Published int
	Failed    int
}

// RunDue consumes due entries until none remain or limit entries were handled
// (limit <= 0 means no limit). Entry failures are counted and skipped; store
// errors and cancellation stop the run.
func (r *Runner) RunDue(ctx context.Context, limit int) (RunStats, error) {
	var stats RunStats
	for limit <= 0 || stats.Published+stats.Failed < limit {
		out, err := r.RunNext(ctx)
		if err != nil {
			var entryErr *EntryError
			if errors.As(err, &entryErr) {
				stats.Failed++
				continue
			}
			return stats, err
		}
		if out == nil {
			break
		}
		stats.Published++
	}
	return stats, nil
}
