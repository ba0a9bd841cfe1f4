package schedule_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/domain/entity"
	"leadgen/internal/usecase/calendar"
	"leadgen/internal/usecase/schedule"
)

func newGenerator(t *testing.T, niches ...string) *calendar.Generator {
	t.Helper()
	r := calendar.DefaultRotation()
	r.Niches = niches
	g, err := calendar.NewGenerator(r)
	require.NoError(t, err)
	return g
}

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestPlanner_Plan(t *testing.T) {
	kw := &stubKeywords{byNiche: map[string][]entity.KeywordRecord{
		"restaurants": {{Keyword: "ai host", SearchVolume: 500}, {Keyword: "ai reservations", SearchVolume: 200}},
		"law firms":   {{Keyword: "ai intake", SearchVolume: 300}},
	}}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants", "law firms"), nil, 50)

	plan, err := p.Plan(context.Background(), monday, 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"restaurants", "law firms"}, kw.seen)
	assert.Empty(t, plan.Failed)
	require.Len(t, plan.Entries, 3)
	assert.Equal(t, "ai host", plan.Entries[0].Keyword)
	assert.Equal(t, entity.PostTypeHowTo, plan.Entries[0].PostType)
	assert.Equal(t, "ai intake", plan.Entries[1].Keyword)
	assert.Equal(t, "ai reservations", plan.Entries[2].Keyword)
	assert.True(t, plan.Entries[0].PublishDate.Equal(monday))
	assert.Equal(t, map[string]int{"restaurants": 0, "law firms": 0}, plan.Unused)
}

func TestPlanner_Plan_ReportsUnusedKeywords(t *testing.T) {
	ks := make([]entity.KeywordRecord, 6)
	for i := range ks {
		ks[i] = entity.KeywordRecord{Keyword: fmt.Sprintf("k%d", i), SearchVolume: 100 - i}
	}
	kw := &stubKeywords{byNiche: map[string][]entity.KeywordRecord{"restaurants": ks}}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants"), nil, 50)

	plan, err := p.Plan(context.Background(), monday, 1)
	require.NoError(t, err)

	require.Len(t, plan.Entries, 4, "one slot per week over four weeks")
	assert.Equal(t, 2, plan.Unused["restaurants"])
	assert.Len(t, kw.byNiche["restaurants"], 6, "research results are not consumed")
}

func TestPlanner_Plan_PartialResearchFailure(t *testing.T) {
	kw := &stubKeywords{
		byNiche: map[string][]entity.KeywordRecord{"restaurants": {{Keyword: "k1", SearchVolume: 10}}},
		errs:    map[string]error{"law firms": errBoom},
	}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants", "law firms"), nil, 50)

	plan, err := p.Plan(context.Background(), monday, 3)
	require.NoError(t, err)
	require.Len(t, plan.Entries, 1)
	assert.Equal(t, "restaurants", plan.Entries[0].Niche)
	assert.ErrorIs(t, plan.Failed["law firms"], errBoom)
}

func TestPlanner_Plan_NoKeywords(t *testing.T) {
	kw := &stubKeywords{errs: map[string]error{"restaurants": errBoom}}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants"), nil, 50)

	plan, err := p.Plan(context.Background(), monday, 3)
	assert.ErrorIs(t, err, schedule.ErrNoKeywords)
	require.NotNil(t, plan)
	assert.Contains(t, plan.Failed, "restaurants")
}

func TestPlanner_Plan_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	kw := &stubKeywords{}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants"), nil, 50)

	_, err := p.Plan(ctx, monday, 3)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, kw.seen)
}

func TestPlanner_Save(t *testing.T) {
	repo := &memRepo{}
	kw := &stubKeywords{byNiche: map[string][]entity.KeywordRecord{"restaurants": {{Keyword: "k1"}, {Keyword: "k2"}}}}
	p := schedule.NewPlanner(kw, newGenerator(t, "restaurants"), repo, 50)

	plan, err := p.Plan(context.Background(), monday, 3)
	require.NoError(t, err)

	n, err := p.Save(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// saving the same plan again inserts nothing
	n, err = p.Save(context.Background(), plan)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPlanner_Save_Errors(t *testing.T) {
	plan := &schedule.Plan{Entries: []entity.CalendarEntry{{Niche: "n", Keyword: "k", PostType: entity.PostTypeHowTo}}}

	t.Run("no repository", func(t *testing.T) {
		p := schedule.NewPlanner(&stubKeywords{}, newGenerator(t, "n"), nil, 50)
		_, err := p.Save(context.Background(), plan)
		assert.ErrorIs(t, err, schedule.ErrStore)
	})

	t.Run("store failure", func(t *testing.T) {
		p := schedule.NewPlanner(&stubKeywords{}, newGenerator(t, "n"), &memRepo{saveErr: errBoom}, 50)
		_, err := p.Save(context.Background(), plan)
		assert.ErrorIs(t, err, schedule.ErrStore)
		assert.True(t, errors.Is(err, errBoom))
	})

	t.Run("empty plan", func(t *testing.T) {
		p := schedule.NewPlanner(&stubKeywords{}, newGenerator(t, "n"), &memRepo{saveErr: errBoom}, 50)
		n, err := p.Save(context.Background(), &schedule.Plan{})
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}
