// Package email manages the newsletter list through the ConvertKit v3 API:
// form subscriptions, subscriber listing and broadcast drafts for new posts.
package email

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"leadgen/internal/domain/entity"
	"leadgen/internal/infra/webapi"
)

// DefaultBaseURL is the ConvertKit v3 API root.
const DefaultBaseURL = "https://api.convertkit.com/v3"

// Config configures the ConvertKit client.
type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration
}

// Subscriber is a list member.
type Subscriber struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	EmailAddress string `json:"email_address"`
	State        string `json:"state"`
	CreatedAt    string `json:"created_at"`
}

// Subscription is returned when an address is added to a form.
type Subscription struct {
	ID         int64      `json:"id"`
	State      string     `json:"state"`
	Subscriber Subscriber `json:"subscriber"`
}

// SubscriberPage is one page of the subscriber list.
type SubscriberPage struct {
	TotalSubscribers int          `json:"total_subscribers"`
	Page             int          `json:"page"`
	TotalPages       int          `json:"total_pages"`
	Subscribers      []Subscriber `json:"subscribers"`
}

// Broadcast is an email sent to the whole list.
type Broadcast struct {
	Subject     string
	Content     string
	Description string
	Public      bool
}

// Client is a ConvertKit API client.
type Client struct {
	apiKey    string
	apiSecret string
	baseURL   string
	api       *webapi.Client
}

// NewClient creates a ConvertKit client.
func NewClient(cfg Config, opts ...webapi.Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		api:       webapi.NewClient("convertkit", cfg.Timeout, opts...),
	}
}

type subscribeRequest struct {
	APIKey    string `json:"api_key"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
}

// AddSubscriberToForm subscribes an address to a form. The first name is optional.
func (c *Client) AddSubscriberToForm(ctx context.Context, formID, email, firstName string) (*Subscription, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("convertkit: %w", webapi.ErrNotConfigured)
	}
	if formID == "" || email == "" {
		return nil, &entity.ValidationError{Field: "email", Message: "form id and email are required"}
	}

	var resp struct {
		Subscription Subscription `json:"subscription"`
	}
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/forms/" + url.PathEscape(formID) + "/subscribe",
		Body:   subscribeRequest{APIKey: c.apiKey, Email: email, FirstName: firstName},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("convertkit subscribe: %w", err)
	}
	return &resp.Subscription, nil
}

// ListSubscribers returns the first page of subscribers.
func (c *Client) ListSubscribers(ctx context.Context) (*SubscriberPage, error) {
	if c.apiSecret == "" {
		return nil, fmt.Errorf("convertkit: %w", webapi.ErrNotConfigured)
	}

	q := url.Values{}
	q.Set("api_secret", c.apiSecret)

	var page SubscriberPage
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodGet,
		URL:    c.baseURL + "/subscribers?" + q.Encode(),
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("convertkit list subscribers: %w", err)
	}
	return &page, nil
}

type broadcastRequest struct {
	APISecret   string `json:"api_secret"`
	Subject     string `json:"subject"`
	Content     string `json:"content"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

// CreateBroadcast creates a broadcast draft and returns its id.
func (c *Client) CreateBroadcast(ctx context.Context, b Broadcast) (int64, error) {
	if c.apiSecret == "" {
		return 0, fmt.Errorf("convertkit: %w", webapi.ErrNotConfigured)
	}

	var resp struct {
		Broadcast struct {
			ID int64 `json:"id"`
		} `json:"broadcast"`
	}
	err := c.api.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    c.baseURL + "/broadcasts",
		Body: broadcastRequest{
			APISecret:   c.apiSecret,
			Subject:     b.Subject,
			Content:     b.Content,
			Description: b.Description,
			Public:      b.Public,
		},
	}, &resp)
	if err != nil {
		return 0, fmt.Errorf("convertkit create broadcast: %w", err)
	}
	return resp.Broadcast.ID, nil
}

// Name implements the distributor contract.
func (c *Client) Name() string { return "convertkit" }

// Distribute drafts a broadcast announcing the post.
func (c *Client) Distribute(ctx context.Context, in entity.DistributionInput) (*entity.DistributionOutcome, error) {
	id, err := c.CreateBroadcast(ctx, Broadcast{
		Subject:     in.Post.Title,
		Content:     BroadcastHTML(in.Post, in.CanonicalURL),
		Description: in.Post.MetaDescription,
		Public:      false,
	})
	if err != nil {
		return nil, err
	}
	return &entity.DistributionOutcome{Target: c.Name(), ID: strconv.FormatInt(id, 10)}, nil
}

// BroadcastHTML renders the email body for a post. With a canonical URL the
// email is a teaser linking to the blog; without one it carries the body
// paragraphs as escaped text.
func BroadcastHTML(post entity.PostDraft, canonicalURL string) string {
	var sb strings.Builder
	if canonicalURL != "" {
		if post.MetaDescription != "" {
			fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(post.MetaDescription))
		}
		fmt.Fprintf(&sb, "<p><a href=\"%s\">Read: %s</a></p>\n",
			html.EscapeString(canonicalURL), html.EscapeString(post.Title))
		return sb.String()
	}

	body := strings.ReplaceAll(post.Body, "\r\n", "\n")
	for _, para := range strings.Split(body, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		fmt.Fprintf(&sb, "<p>%s</p>\n", html.EscapeString(para))
	}
	return sb.String()
}
