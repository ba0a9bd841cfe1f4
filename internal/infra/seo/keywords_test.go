package seo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/domain/entity"
	"leadgen/internal/infra/webapi"
	"leadgen/internal/observability/metrics"
	"leadgen/internal/resilience/retry"
)

const suggestionsBody = `{
  "status_code": 20000,
  "status_message": "Ok.",
  "tasks": [{
    "status_code": 20000,
    "status_message": "Ok.",
    "result": [{
      "items": [
        {"keyword": "ai agents for restaurants", "search_volume": 880, "keyword_difficulty": 42},
        {"keyword": "ai phone agent restaurant", "search_volume": 90, "keyword_difficulty": 12},
        {"keyword": "restaurant ai", "search_volume": 5400, "keyword_difficulty": 71},
        {"keyword": "ai reservations", "keyword_info": {"search_volume": 880}, "keyword_properties": {"keyword_difficulty": 50}},
        {"keyword": "ai menu", "search_volume": null, "keyword_difficulty": null}
      ]
    }]
  }]
}`

func newTestResearcher(url string) *Researcher {
	return NewResearcher(Config{Login: "login", Password: "pw", BaseURL: url},
		webapi.WithRetryConfig(retry.Config{MaxAttempts: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}))
}

func TestResearcher_GetSuggestions(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody []suggestionTask

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(suggestionsBody))
	}))
	defer server.Close()

	ks, err := newTestResearcher(server.URL+"/v3").GetSuggestions(context.Background(), "ai agents for restaurants")
	require.NoError(t, err)

	assert.Equal(t, "/v3/dataforseo_labs/google/keyword_suggestions/live", gotPath)
	assert.Equal(t, "login", gotUser)
	assert.Equal(t, "pw", gotPass)
	assert.Equal(t, []suggestionTask{{Keyword: "ai agents for restaurants", LocationCode: 2840, LanguageCode: "en"}}, gotBody)

	want := []entity.KeywordRecord{
		{Keyword: "ai agents for restaurants", SearchVolume: 880, KeywordDifficulty: 42},
		{Keyword: "ai phone agent restaurant", SearchVolume: 90, KeywordDifficulty: 12},
		{Keyword: "restaurant ai", SearchVolume: 5400, KeywordDifficulty: 71},
		{Keyword: "ai reservations", SearchVolume: 880, KeywordDifficulty: 50},
		{Keyword: "ai menu", SearchVolume: 0, KeywordDifficulty: 100},
	}
	if diff := cmp.Diff(want, ks); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestResearcher_GetSuggestions_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(suggestionsBody))
	}))
	defer server.Close()

	r := NewResearcher(Config{Login: "login", Password: "pw", BaseURL: server.URL + "/v3"},
		webapi.WithRetryConfig(retry.Config{MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}))

	ks, err := r.GetSuggestions(context.Background(), "ai agents for restaurants")
	require.NoError(t, err)
	assert.Len(t, ks, 5)
	assert.Equal(t, int32(2), calls.Load())
}

func TestResearcher_GetSuggestions_TaskError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status_code": 20000, "tasks": [{"status_code": 40501, "status_message": "Invalid Field: 'keyword'."}]}`))
	}))
	defer server.Close()

	_, err := newTestResearcher(server.URL).GetSuggestions(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "40501")
}

func TestResearcher_GetSuggestions_EmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tasks": [{"status_code": 20000, "result": null}]}`))
	}))
	defer server.Close()

	ks, err := newTestResearcher(server.URL).GetSuggestions(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, ks)
}

func TestResearcher_GetSuggestions_NotConfigured(t *testing.T) {
	_, err := NewResearcher(Config{Login: "only-login"}).GetSuggestions(context.Background(), "x")
	assert.ErrorIs(t, err, webapi.ErrNotConfigured)
}

func TestFilterLowCompetition(t *testing.T) {
	in := []entity.KeywordRecord{
		{Keyword: "a", KeywordDifficulty: 51},
		{Keyword: "b", KeywordDifficulty: 50},
		{Keyword: "c", KeywordDifficulty: 0},
		{Keyword: "d", KeywordDifficulty: 100},
		{Keyword: "e", KeywordDifficulty: 49},
	}
	snapshot := append([]entity.KeywordRecord(nil), in...)

	got := FilterLowCompetition(in, 50)

	assert.Equal(t, []entity.KeywordRecord{
		{Keyword: "b", KeywordDifficulty: 50},
		{Keyword: "c", KeywordDifficulty: 0},
		{Keyword: "e", KeywordDifficulty: 49},
	}, got)
	assert.Equal(t, snapshot, in, "input must not be modified")

	for _, k := range got {
		assert.LessOrEqual(t, k.KeywordDifficulty, 50)
	}
	assert.Empty(t, FilterLowCompetition(nil, 50))
	assert.Empty(t, FilterLowCompetition(in, -1))
}

func TestSortByVolume(t *testing.T) {
	in := []entity.KeywordRecord{
		{Keyword: "low", SearchVolume: 10},
		{Keyword: "tie-1", SearchVolume: 500},
		{Keyword: "high", SearchVolume: 9000},
		{Keyword: "tie-2", SearchVolume: 500},
	}

	got := SortByVolume(in)

	names := make([]string, len(got))
	for i, k := range got {
		names[i] = k.Keyword
	}
	assert.Equal(t, []string{"high", "tie-1", "tie-2", "low"}, names)
	assert.Equal(t, "low", in[0].Keyword, "input must not be reordered")
}

func TestResearcher_ResearchNiche(t *testing.T) {
	var gotSeed string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []suggestionTask
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if len(body) == 1 {
			gotSeed = body[0].Keyword
		}
		_, _ = w.Write([]byte(suggestionsBody))
	}))
	defer server.Close()

	suggestedBefore := testutil.ToFloat64(metrics.KeywordsResearched.WithLabelValues("suggested"))
	keptBefore := testutil.ToFloat64(metrics.KeywordsResearched.WithLabelValues("kept"))

	ks, err := newTestResearcher(server.URL).ResearchNiche(context.Background(), " restaurants ", DefaultMaxDifficulty)
	require.NoError(t, err)

	assert.Equal(t, "ai agents for restaurants", gotSeed)
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.Keyword
	}
	assert.Equal(t, []string{"ai agents for restaurants", "ai reservations", "ai phone agent restaurant"}, names)

	assert.Equal(t, suggestedBefore+5, testutil.ToFloat64(metrics.KeywordsResearched.WithLabelValues("suggested")))
	assert.Equal(t, keptBefore+3, testutil.ToFloat64(metrics.KeywordsResearched.WithLabelValues("kept")))
}
