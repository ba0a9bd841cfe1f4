package publisher

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"leadgen/internal/domain/entity"
	"leadgen/internal/infra/webapi"
)

const (
	// DefaultDevToBaseURL is the Dev.to API root.
	DefaultDevToBaseURL = "https://dev.to/api"

	// devToMaxTags is the number of tags Dev.to accepts per article.
	devToMaxTags = 4
)

// DevToConfig configures the Dev.to client.
type DevToConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DevToArticle is the input for creating an article.
type DevToArticle struct {
	Title        string
	BodyMarkdown string
	Tags         []string
	CanonicalURL string
	Published    bool
}

// PublishedArticle identifies an article created on a remote platform.
type PublishedArticle struct {
	ID  string
	URL string
}

// DevTo is a client for the Dev.to articles API.
type DevTo struct {
	apiKey  string
	baseURL string
	client  *webapi.Client
}

// NewDevTo creates a Dev.to client. Requests are limited to one per second.
func NewDevTo(cfg DevToConfig, opts ...webapi.Option) *DevTo {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultDevToBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	opts = append([]webapi.Option{webapi.WithRateLimiter(webapi.NewRateLimiter(1, 1))}, opts...)
	return &DevTo{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  webapi.NewClient("devto", cfg.Timeout, opts...),
	}
}

type devToCreateRequest struct {
	Article devToArticlePayload `json:"article"`
}

type devToArticlePayload struct {
	Title        string   `json:"title"`
	BodyMarkdown string   `json:"body_markdown"`
	Published    bool     `json:"published"`
	Tags         []string `json:"tags"`
	CanonicalURL string   `json:"canonical_url,omitempty"`
}

type devToCreateResponse struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// CreateArticle publishes an article and returns its id and URL.
func (d *DevTo) CreateArticle(ctx context.Context, article DevToArticle) (*PublishedArticle, error) {
	if d.apiKey == "" {
		return nil, fmt.Errorf("devto: %w", webapi.ErrNotConfigured)
	}

	header := http.Header{}
	header.Set("api-key", d.apiKey)

	var resp devToCreateResponse
	err := d.client.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    d.baseURL + "/articles",
		Header: header,
		Body: devToCreateRequest{Article: devToArticlePayload{
			Title:        article.Title,
			BodyMarkdown: article.BodyMarkdown,
			Published:    article.Published,
			Tags:         devToTags(article.Tags),
			CanonicalURL: article.CanonicalURL,
		}},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("devto create article: %w", err)
	}

	return &PublishedArticle{ID: strconv.FormatInt(resp.ID, 10), URL: resp.URL}, nil
}

// Name implements the distributor contract.
func (d *DevTo) Name() string { return "devto" }

// Distribute cross-posts the article, published, with the canonical URL pointing at the blog.
func (d *DevTo) Distribute(ctx context.Context, in entity.DistributionInput) (*entity.DistributionOutcome, error) {
	article, err := d.CreateArticle(ctx, DevToArticle{
		Title:        in.Post.Title,
		BodyMarkdown: in.Post.Body,
		Tags:         in.Post.Tags,
		CanonicalURL: in.CanonicalURL,
		Published:    true,
	})
	if err != nil {
		return nil, err
	}
	return &entity.DistributionOutcome{Target: d.Name(), ID: article.ID, URL: article.URL}, nil
}

// devToTags keeps the first four tags, reduced to the lowercase alphanumerics Dev.to accepts.
func devToTags(tags []string) []string {
	out := make([]string, 0, devToMaxTags)
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, tag)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		out = append(out, cleaned)
		if len(out) == devToMaxTags {
			break
		}
	}
	return out
}
