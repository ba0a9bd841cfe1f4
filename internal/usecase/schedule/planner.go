// Package schedule plans the content calendar from keyword research and
// consumes stored calendar entries one pipeline run at a time.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"leadgen/internal/domain/entity"
	"leadgen/internal/observability/logging"
	"leadgen/internal/observability/metrics"
	"leadgen/internal/repository"
	"leadgen/internal/usecase/calendar"
)

// KeywordSource researches ranked keywords for a niche.
type KeywordSource interface {
	ResearchNiche(ctx context.Context, niche string, maxDifficulty int) ([]entity.KeywordRecord, error)
}

// Plan is a generated calendar plus the niches whose research failed.
type Plan struct {
	Entries []entity.CalendarEntry
	Failed  map[string]error

	// Unused counts, per researched niche, the keywords left over once
	// every slot was filled.
	Unused map[string]int
}

// Planner builds calendars. Research runs sequentially, one niche at a time.
type Planner struct {
	keywords      KeywordSource
	generator     *calendar.Generator
	repo          repository.CalendarRepository
	maxDifficulty int
}

// NewPlanner creates a Planner. repo may be nil when plans are never saved.
func NewPlanner(keywords KeywordSource, generator *calendar.Generator, repo repository.CalendarRepository, maxDifficulty int) *Planner {
	return &Planner{
		keywords:      keywords,
		generator:     generator,
		repo:          repo,
		maxDifficulty: maxDifficulty,
	}
}

// Plan researches every niche of the rotation and generates a calendar from
// start. A niche whose research fails gets no slots; the plan only fails when
// no niche produced keywords.
func (p *Planner) Plan(ctx context.Context, start time.Time, postsPerWeek int) (*Plan, error) {
	logger := logging.WithRunIDLogger(ctx, slog.Default())

	queues := calendar.KeywordQueues{}
	failed := map[string]error{}
	for _, niche := range p.generator.Rotation().Niches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ks, err := p.keywords.ResearchNiche(ctx, niche, p.maxDifficulty)
		if err != nil {
			logger.Warn("keyword research failed",
				slog.String("niche", niche),
				slog.String("error", logging.SanitizeError(err)))
			failed[niche] = err
			continue
		}
		if len(ks) > 0 {
			queues[niche] = ks
		}
	}
	if len(queues) == 0 {
		return &Plan{Failed: failed}, ErrNoKeywords
	}

	entries := p.generator.Generate(queues, start, postsPerWeek)
	for _, e := range entries {
		metrics.RecordCalendarEntry(e.Niche)
	}
	unused := make(map[string]int, len(queues))
	for niche := range queues {
		unused[niche] = queues.Len(niche)
	}

	logger.Info("calendar planned",
		slog.Int("entries", len(entries)),
		slog.Int("failed_niches", len(failed)),
		slog.String("start", start.Format(time.DateOnly)))

	return &Plan{Entries: entries, Failed: failed, Unused: unused}, nil
}

// Save stores the plan's entries and returns how many were new.
func (p *Planner) Save(ctx context.Context, plan *Plan) (int, error) {
	if p.repo == nil {
		return 0, fmt.Errorf("%w: no repository configured", ErrStore)
	}
	if plan == nil || len(plan.Entries) == 0 {
		return 0, nil
	}
	n, err := p.repo.SaveEntries(ctx, plan.Entries)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrStore, err)
	}
	slog.Info("calendar saved", slog.Int("new_entries", n), slog.Int("entries", len(plan.Entries)))
	return n, nil
}
