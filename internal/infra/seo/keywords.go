// Package seo researches blog keywords through the DataForSEO Labs API.
package seo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"leadgen/internal/domain/entity"
	"leadgen/internal/infra/webapi"
	"leadgen/internal/observability/metrics"
)

const (
	// DefaultBaseURL is the DataForSEO v3 API root.
	DefaultBaseURL = "https://api.dataforseo.com/v3"

	// DefaultMaxDifficulty is the difficulty ceiling used when none is given.
	DefaultMaxDifficulty = 50

	suggestionsPath = "/dataforseo_labs/google/keyword_suggestions/live"

	// locationUnitedStates is DataForSEO's location code for the US.
	locationUnitedStates = 2840
	languageEnglish      = "en"

	// taskOK is the status code DataForSEO reports for a successful task.
	taskOK = 20000

	// unknownDifficulty is assigned when the API has no difficulty score,
	// so the keyword never passes a low-competition filter.
	unknownDifficulty = 100
)

// SeedFor returns the seed phrase researched for a niche.
func SeedFor(niche string) string {
	return "ai agents for " + strings.TrimSpace(niche)
}

// Config configures the researcher.
type Config struct {
	Login    string
	Password string
	BaseURL  string
	Timeout  time.Duration
}

// Researcher fetches keyword suggestions.
type Researcher struct {
	login    string
	password string
	baseURL  string
	api      *webapi.Client
}

// NewResearcher creates a Researcher.
func NewResearcher(cfg Config, opts ...webapi.Option) *Researcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Researcher{
		login:    cfg.Login,
		password: cfg.Password,
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		api:      webapi.NewClient("dataforseo", cfg.Timeout, opts...),
	}
}

type suggestionTask struct {
	Keyword      string `json:"keyword"`
	LocationCode int    `json:"location_code"`
	LanguageCode string `json:"language_code"`
}

type suggestionsResponse struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode    int    `json:"status_code"`
		StatusMessage string `json:"status_message"`
		Result        []struct {
			Items []suggestionItem `json:"items"`
		} `json:"result"`
	} `json:"tasks"`
}

// suggestionItem accepts both the flat fields and the nested
// keyword_info/keyword_properties blocks of the Labs API.
type suggestionItem struct {
	Keyword           string `json:"keyword"`
	SearchVolume      *int   `json:"search_volume"`
	KeywordDifficulty *int   `json:"keyword_difficulty"`
	KeywordInfo       *struct {
		SearchVolume *int `json:"search_volume"`
	} `json:"keyword_info"`
	KeywordProperties *struct {
		KeywordDifficulty *int `json:"keyword_difficulty"`
	} `json:"keyword_properties"`
}

func (it suggestionItem) record() entity.KeywordRecord {
	rec := entity.KeywordRecord{Keyword: it.Keyword, KeywordDifficulty: unknownDifficulty}

	switch {
	case it.SearchVolume != nil:
		rec.SearchVolume = *it.SearchVolume
	case it.KeywordInfo != nil && it.KeywordInfo.SearchVolume != nil:
		rec.SearchVolume = *it.KeywordInfo.SearchVolume
	}
	switch {
	case it.KeywordDifficulty != nil:
		rec.KeywordDifficulty = *it.KeywordDifficulty
	case it.KeywordProperties != nil && it.KeywordProperties.KeywordDifficulty != nil:
		rec.KeywordDifficulty = *it.KeywordProperties.KeywordDifficulty
	}

	if rec.SearchVolume < 0 {
		rec.SearchVolume = 0
	}
	rec.KeywordDifficulty = min(max(rec.KeywordDifficulty, 0), 100)
	return rec
}

// GetSuggestions returns keyword ideas for a seed phrase (US, English).
func (r *Researcher) GetSuggestions(ctx context.Context, seed string) ([]entity.KeywordRecord, error) {
	if r.login == "" || r.password == "" {
		return nil, fmt.Errorf("dataforseo: %w", webapi.ErrNotConfigured)
	}
	if strings.TrimSpace(seed) == "" {
		return nil, &entity.ValidationError{Field: "seed", Message: "seed keyword is required"}
	}

	var resp suggestionsResponse
	err := r.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    r.baseURL + suggestionsPath,
		Body: []suggestionTask{{
			Keyword:      seed,
			LocationCode: locationUnitedStates,
			LanguageCode: languageEnglish,
		}},
		BasicAuthUser:     r.login,
		BasicAuthPassword: r.password,
		// The live endpoint only reads; repeating it is harmless.
		Idempotent: true,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("dataforseo keyword suggestions: %w", err)
	}

	if len(resp.Tasks) == 0 {
		return nil, fmt.Errorf("dataforseo keyword suggestions: %d %s: no tasks in response",
			resp.StatusCode, resp.StatusMessage)
	}
	task := resp.Tasks[0]
	if task.StatusCode != 0 && task.StatusCode != taskOK {
		return nil, fmt.Errorf("dataforseo keyword suggestions: task failed: %d %s",
			task.StatusCode, task.StatusMessage)
	}
	if len(task.Result) == 0 {
		return []entity.KeywordRecord{}, nil
	}

	items := task.Result[0].Items
	out := make([]entity.KeywordRecord, 0, len(items))
	for _, it := range items {
		if strings.TrimSpace(it.Keyword) == "" {
			continue
		}
		out = append(out, it.record())
	}
	return out, nil
}

// FilterLowCompetition keeps the records whose difficulty is at most maxDifficulty,
// preserving input order. The input is not modified.
func FilterLowCompetition(ks []entity.KeywordRecord, maxDifficulty int) []entity.KeywordRecord {
	out := make([]entity.KeywordRecord, 0, len(ks))
	for _, k := range ks {
		if k.KeywordDifficulty <= maxDifficulty {
			out = append(out, k)
		}
	}
	return out
}

// SortByVolume returns a copy ordered by descending search volume.
// Records with equal volume keep their input order.
func SortByVolume(ks []entity.KeywordRecord) []entity.KeywordRecord {
	out := append([]entity.KeywordRecord(nil), ks...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SearchVolume > out[j].SearchVolume
	})
	return out
}

// ResearchNiche fetches suggestions for the niche's seed phrase, drops the
// hard keywords and orders the rest by volume.
func (r *Researcher) ResearchNiche(ctx context.Context, niche string, maxDifficulty int) ([]entity.KeywordRecord, error) {
	seed := SeedFor(niche)
	suggestions, err := r.GetSuggestions(ctx, seed)
	if err != nil {
		return nil, err
	}

	kept := SortByVolume(FilterLowCompetition(suggestions, maxDifficulty))
	metrics.RecordKeywordResearch(len(suggestions), len(kept))

	slog.InfoContext(ctx, "Keyword research finished",
		slog.String("niche", niche),
		slog.String("seed", seed),
		slog.Int("suggested", len(suggestions)),
		slog.Int("kept", len(kept)),
		slog.Int("max_difficulty", maxDifficulty))

	return kept, nil
}
