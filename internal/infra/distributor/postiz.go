package distributor

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadgen/internal/infra/webapi"
)

const (
	// DefaultPostizBaseURL is the hosted Postiz public API root.
	DefaultPostizBaseURL = "https://api.postiz.com/public/v1"

	// PostizRequestsPerHour is the documented API quota.
	PostizRequestsPerHour = 30

	// postizDateLayout is the ISO 8601 form Postiz expects, always in UTC.
	postizDateLayout = "2006-01-02T15:04:05.000Z"
)

// Post types accepted by POST /posts.
const (
	postTypeSchedule = "schedule"
	postTypeNow      = "now"
)

// platformSettings holds the per-platform settings block Postiz requires.
var platformSettings = map[string]map[string]string{
	"x":         {"__type": "x", "who_can_reply_post": "everyone"},
	"linkedin":  {"__type": "linkedin"},
	"facebook":  {"__type": "facebook"},
	"instagram": {"__type": "instagram", "post_type": "post"},
	"threads":   {"__type": "threads"},
	"bluesky":   {"__type": "bluesky"},
	"tiktok":    {"__type": "tiktok"},
	"youtube":   {"__type": "youtube", "type": "public"},
	"reddit":    {"__type": "reddit"},
	"mastodon":  {"__type": "mastodon"},
}

// PlatformSettings returns the settings block for a platform.
// Unknown platforms get a block carrying only their type.
func PlatformSettings(platform string) map[string]string {
	out := map[string]string{"__type": platform}
	for k, v := range platformSettings[platform] {
		out[k] = v
	}
	return out
}

// Config configures the Postiz client.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Integration is a social account connected in Postiz.
type Integration struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
	Picture    string `json:"picture,omitempty"`
	Disabled   bool   `json:"disabled"`
	Profile    string `json:"profile,omitempty"`
}

// Image references media already uploaded to Postiz.
type Image struct {
	ID   string `json:"id"`
	Path string `json:"path"`
}

// SocialPost is one platform's share of a request.
type SocialPost struct {
	IntegrationID string
	Platform      string
	Content       string
	Images        []Image
}

// PostResult is returned per created post.
type PostResult struct {
	PostID      string `json:"postId"`
	Integration string `json:"integration"`
}

// Client talks to the Postiz public API.
type Client struct {
	apiKey  string
	baseURL string
	api     *webapi.Client
	now     func() time.Time
}

// NewClient creates a Postiz client limited to PostizRequestsPerHour.
func NewClient(cfg Config, opts ...webapi.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultPostizBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	opts = append([]webapi.Option{
		webapi.WithRateLimiter(webapi.NewHourlyRateLimiter(PostizRequestsPerHour)),
	}, opts...)
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		api:     webapi.NewClient("postiz", cfg.Timeout, opts...),
		now:     time.Now,
	}
}

func (c *Client) header() http.Header {
	h := http.Header{}
	// Postiz takes the raw key, without a Bearer prefix.
	h.Set("Authorization", c.apiKey)
	return h
}

func (c *Client) configured() error {
	if c.apiKey == "" {
		return fmt.Errorf("postiz: %w", webapi.ErrNotConfigured)
	}
	return nil
}

// CheckConnection verifies the API key.
func (c *Client) CheckConnection(ctx context.Context) error {
	if err := c.configured(); err != nil {
		return err
	}
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/check-connection",
		Header: c.header(),
	}, nil)
	if err != nil {
		return fmt.Errorf("postiz check connection: %w", err)
	}
	return nil
}

// Integrations lists the connected social accounts.
func (c *Client) Integrations(ctx context.Context) ([]Integration, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	var out []Integration
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/integrations",
		Header: c.header(),
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("postiz integrations: %w", err)
	}
	return out, nil
}

// SchedulePost schedules posts for several integrations in one request.
func (c *Client) SchedulePost(ctx context.Context, posts []SocialPost, at time.Time) ([]PostResult, error) {
	return c.submit(ctx, postTypeSchedule, at, posts)
}

// PostNow publishes a post to one integration immediately.
func (c *Client) PostNow(ctx context.Context, integrationID, platform, content string, images []Image) ([]PostResult, error) {
	return c.submit(ctx, postTypeNow, c.now(), []SocialPost{{
		IntegrationID: integrationID,
		Platform:      platform,
		Content:       content,
		Images:        images,
	}})
}

type createPostsRequest struct {
	Type      string        `json:"type"`
	Date      string        `json:"date"`
	ShortLink bool          `json:"shortLink"`
	Tags      []string      `json:"tags"`
	Posts     []postPayload `json:"posts"`
}

type postPayload struct {
	Integration integrationRef    `json:"integration"`
	Value       []postValue       `json:"value"`
	Settings    map[string]string `json:"settings"`
}

type integrationRef struct {
	ID string `json:"id"`
}

type postValue struct {
	Content string  `json:"content"`
	Image   []Image `json:"image"`
}

func (c *Client) submit(ctx context.Context, kind string, at time.Time, posts []SocialPost) ([]PostResult, error) {
	if err := c.configured(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("postiz: no posts to submit")
	}

	payload := createPostsRequest{
		Type:      kind,
		Date:      at.UTC().Format(postizDateLayout),
		ShortLink: false,
		Tags:      []string{},
		Posts:     make([]postPayload, 0, len(posts)),
	}
	for _, p := range posts {
		images := p.Images
		if images == nil {
			images = []Image{}
		}
		payload.Posts = append(payload.Posts, postPayload{
			Integration: integrationRef{ID: p.IntegrationID},
			Value:       []postValue{{Content: p.Content, Image: images}},
			Settings:    PlatformSettings(p.Platform),
		})
	}

	var out []PostResult
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/posts",
		Header: c.header(),
		Body:   payload,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("postiz create posts: %w", err)
	}
	return out, nil
}
