package schedule_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"leadgen/internal/domain/entity"
)

/* ───────── in-memory calendar store ───────── */

type memRepo struct {
	mu      sync.Mutex
	entries []*entity.ScheduledEntry
	nextID  int64

	saveErr error
	nextErr error
	markErr error
}

func (m *memRepo) SaveEntries(_ context.Context, entries []entity.CalendarEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	n := 0
	for _, e := range entries {
		if m.find(e) {
			continue
		}
		m.nextID++
		m.entries = append(m.entries, &entity.ScheduledEntry{ID: m.nextID, Entry: e, Status: entity.EntryStatusPending})
		n++
	}
	return n, nil
}

func (m *memRepo) find(e entity.CalendarEntry) bool {
	for _, s := range m.entries {
		if s.Entry.PublishDate.Equal(e.PublishDate) && s.Entry.Niche == e.Niche && s.Entry.Keyword == e.Keyword {
			return true
		}
	}
	return false
}

func (m *memRepo) NextDue(_ context.Context, asOf time.Time) (*entity.ScheduledEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	var due []*entity.ScheduledEntry
	for _, s := range m.entries {
		if s.Status == entity.EntryStatusPending && !s.Entry.PublishDate.After(asOf) {
			due = append(due, s)
		}
	}
	if len(due) == 0 {
		return nil, nil
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].Entry.PublishDate.Before(due[j].Entry.PublishDate) })
	cp := *due[0]
	return &cp, nil
}

func (m *memRepo) MarkPublished(_ context.Context, id int64, slug, localPath string) error {
	return m.mark(id, func(s *entity.ScheduledEntry) {
		s.Status = entity.EntryStatusPublished
		s.Slug = slug
		s.LocalPath = localPath
	})
}

func (m *memRepo) MarkFailed(_ context.Context, id int64, reason string) error {
	return m.mark(id, func(s *entity.ScheduledEntry) {
		s.Status = entity.EntryStatusFailed
		s.Error = reason
	})
}

func (m *memRepo) mark(id int64, fn func(*entity.ScheduledEntry)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.markErr != nil {
		return m.markErr
	}
	for _, s := range m.entries {
		if s.ID == id {
			fn(s)
			return nil
		}
	}
	return entity.ErrNotFound
}

func (m *memRepo) List(_ context.Context, from, to time.Time) ([]*entity.ScheduledEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.ScheduledEntry
	for _, s := range m.entries {
		if !s.Entry.PublishDate.Before(from) && !s.Entry.PublishDate.After(to) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memRepo) status(id int64) entity.EntryStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.entries {
		if s.ID == id {
			return s.Status
		}
	}
	return ""
}

/* ───────── stub pipeline ───────── */

type pipelineCall struct{ niche, topic string }

type stubPipeline struct {
	calls []pipelineCall
	fail  map[string]error // keyed by niche
}

func (p *stubPipeline) GenerateAndDistribute(_ context.Context, niche, topic string) (*entity.PipelineResult, *entity.DistributionReport, error) {
	p.calls = append(p.calls, pipelineCall{niche, topic})
	if err := p.fail[niche]; err != nil {
		return nil, nil, err
	}
	slug := entity.Slugify(topic)
	report := &entity.DistributionReport{}
	report.Add(entity.DistributionOutcome{Target: "devto", ID: "1"})
	return &entity.PipelineResult{Title: topic, Slug: slug, LocalPath: "/blog/content/posts/" + slug + ".md"}, report, nil
}

/* ───────── stub keyword source ───────── */

type stubKeywords struct {
	byNiche map[string][]entity.KeywordRecord
	errs    map[string]error
	seen    []string
}

func (s *stubKeywords) ResearchNiche(_ context.Context, niche string, _ int) ([]entity.KeywordRecord, error) {
	s.seen = append(s.seen, niche)
	if err := s.errs[niche]; err != nil {
		return nil, err
	}
	return s.byNiche[niche], nil
}

var errBoom = errors.New("boom")
