// Package trends turns RSS/Atom news searches into topic ideas for a niche.
package trends

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"leadgen/internal/infra/webapi"
	"leadgen/internal/resilience/circuitbreaker"
	"leadgen/internal/resilience/retry"
)

const (
	// DefaultSearchURL is a Google News RSS search; %s receives the escaped query.
	DefaultSearchURL = "https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en"

	// DefaultLimit caps the topics returned per niche.
	DefaultLimit = 10

	service        = "trends"
	userAgent      = "LeadgenTopicBot"
	maxSummaryRune = 280
	maxFeedBytes   = 5 << 20
)

// Topic is one headline worth writing about.
type Topic struct {
	Title       string
	URL         string
	Summary     string
	Source      string
	PublishedAt time.Time
}

// Config configures a Finder.
type Config struct {
	SearchURL string
	Limit     int
	Timeout   time.Duration
}

// Option configures a Finder.
type Option func(*Finder)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(f *Finder) { f.client = hc }
}

// WithRetryConfig overrides the retry policy.
func WithRetryConfig(cfg retry.Config) Option {
	return func(f *Finder) { f.retryConfig = cfg }
}

// Finder searches news feeds for recent headlines about a niche.
type Finder struct {
	searchURL      string
	limit          int
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewFinder creates a Finder.
func NewFinder(cfg Config, opts ...Option) *Finder {
	if cfg.SearchURL == "" {
		cfg.SearchURL = DefaultSearchURL
	}
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	f := &Finder{
		searchURL:      cfg.SearchURL,
		limit:          cfg.Limit,
		client:         &http.Client{Timeout: cfg.Timeout},
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig()),
		retryConfig:    retry.FeedFetchConfig(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// QueryFor is the search phrase used for a niche.
func QueryFor(niche string) string {
	return "AI " + strings.TrimSpace(niche)
}

// FindTopics returns the newest headlines for niche, without duplicate titles.
func (f *Finder) FindTopics(ctx context.Context, niche string) ([]Topic, error) {
	if strings.TrimSpace(niche) == "" {
		return nil, errors.New("trends: niche is required")
	}
	feedURL := fmt.Sprintf(f.searchURL, url.QueryEscape(QueryFor(niche)))

	var feed *gofeed.Feed
	err := retry.WithBackoff(ctx, f.retryConfig, func() error {
		res, err := circuitbreaker.Run(f.circuitBreaker, func() (*gofeed.Feed, error) {
			return f.fetch(ctx, feedURL)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("feed fetch circuit breaker open, request rejected",
					slog.String("service", service),
					slog.String("state", f.circuitBreaker.State().String()))
			}
			return err
		}
		feed = res
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find topics for %q: %w", niche, err)
	}

	topics := toTopics(feed, f.limit)
	slog.Info("topics found",
		slog.String("niche", niche),
		slog.Int("items", len(feed.Items)),
		slog.Int("topics", len(topics)))
	return topics, nil
}

func (f *Finder) fetch(ctx context.Context, feedURL string) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, webapi.StatusError(service, resp, body)
	}

	return gofeed.NewParser().Parse(io.LimitReader(resp.Body, maxFeedBytes))
}

// toTopics keeps the newest items first. Items without a date sort last.
func toTopics(feed *gofeed.Feed, limit int) []Topic {
	topics := make([]Topic, 0, len(feed.Items))
	seen := make(map[string]struct{}, len(feed.Items))
	for _, it := range feed.Items {
		title := collapseSpace(it.Title)
		if title == "" {
			continue
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		t := Topic{
			Title:   title,
			URL:     it.Link,
			Summary: truncate(StripHTML(it.Description), maxSummaryRune),
		}
		if it.PublishedParsed != nil {
			t.PublishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			t.PublishedAt = *it.UpdatedParsed
		}
		if it.Author != nil {
			t.Source = it.Author.Name
		}
		if t.Source == "" {
			t.Source = feed.Title
		}
		topics = append(topics, t)
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].PublishedAt.After(topics[j].PublishedAt)
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapseSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return collapseSpace(fragment)
	}
	return collapseSpace(doc.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
