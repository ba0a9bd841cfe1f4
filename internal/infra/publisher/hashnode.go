package publisher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"leadgen/internal/domain/entity"
	"leadgen/internal/infra/webapi"
)

// DefaultHashnodeURL is the Hashnode GraphQL endpoint.
const DefaultHashnodeURL = "https://gql.hashnode.com"

const publishPostMutation = `mutation PublishPost($input: PublishPostInput!) {
  publishPost(input: $input) {
    post {
      id
      url
    }
  }
}`

// ErrGraphQL is wrapped by GraphQLError.
var ErrGraphQL = errors.New("graphql error")

// GraphQLError is returned when the response carries an errors array.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "hashnode graphql: " + strings.Join(e.Messages, "; ")
}

func (e *GraphQLError) Unwrap() error { return ErrGraphQL }

// HashnodeConfig configures the Hashnode client.
type HashnodeConfig struct {
	Token         string
	PublicationID string
	Endpoint      string
	Timeout       time.Duration
}

// HashnodePost is the input for publishing a post.
type HashnodePost struct {
	Title           string
	ContentMarkdown string
	Tags            []string
	Slug            string
	OriginalURL     string
}

// Hashnode is a client for the Hashnode GraphQL API.
type Hashnode struct {
	token         string
	publicationID string
	endpoint      string
	client        *webapi.Client
}

// NewHashnode creates a Hashnode client.
func NewHashnode(cfg HashnodeConfig, opts ...webapi.Option) *Hashnode {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultHashnodeURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Hashnode{
		token:         cfg.Token,
		publicationID: cfg.PublicationID,
		endpoint:      cfg.Endpoint,
		client:        webapi.NewClient("hashnode", cfg.Timeout, opts...),
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type hashnodeTag struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type publishPostInput struct {
	Title           string        `json:"title"`
	ContentMarkdown string        `json:"contentMarkdown"`
	PublicationID   string        `json:"publicationId"`
	Tags            []hashnodeTag `json:"tags"`
	Slug            string        `json:"slug,omitempty"`
	OriginalURL     string        `json:"originalArticleURL,omitempty"`
}

type publishPostResponse struct {
	Data struct {
		PublishPost struct {
			Post struct {
				ID  string `json:"id"`
				URL string `json:"url"`
			} `json:"post"`
		} `json:"publishPost"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// PublishPost publishes a post to the configured publication.
func (h *Hashnode) PublishPost(ctx context.Context, post HashnodePost) (*PublishedArticle, error) {
	if h.token == "" || h.publicationID == "" {
		return nil, fmt.Errorf("hashnode: %w", webapi.ErrNotConfigured)
	}

	tags := make([]hashnodeTag, 0, len(post.Tags))
	for _, t := range post.Tags {
		slug := entity.Slugify(t)
		if slug == "" {
			continue
		}
		tags = append(tags, hashnodeTag{Name: t, Slug: slug})
	}

	header := http.Header{}
	header.Set("Authorization", h.token)

	var resp publishPostResponse
	err := h.client.DoJSON(ctx, webapi.Request{
		Method: http.MethodPost,
		URL:    h.endpoint,
		Header: header,
		Body: graphQLRequest{
			Query: publishPostMutation,
			Variables: map[string]any{"input": publishPostInput{
				Title:           post.Title,
				ContentMarkdown: post.ContentMarkdown,
				PublicationID:   h.publicationID,
				Tags:            tags,
				Slug:            post.Slug,
				OriginalURL:     post.OriginalURL,
			}},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("hashnode publish post: %w", err)
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, &GraphQLError{Messages: msgs}
	}

	created := resp.Data.PublishPost.Post
	if created.ID == "" {
		return nil, fmt.Errorf("hashnode publish post: response carried no post id")
	}
	return &PublishedArticle{ID: created.ID, URL: created.URL}, nil
}

// Name implements the distributor contract.
func (h *Hashnode) Name() string { return "hashnode" }

// Distribute publishes the post under the same slug, pointing back at the blog.
func (h *Hashnode) Distribute(ctx context.Context, in entity.DistributionInput) (*entity.DistributionOutcome, error) {
	article, err := h.PublishPost(ctx, HashnodePost{
		Title:           in.Post.Title,
		ContentMarkdown: in.Post.Body,
		Tags:            in.Post.Tags,
		Slug:            in.Post.Slug,
		OriginalURL:     in.CanonicalURL,
	})
	if err != nil {
		return nil, err
	}
	return &entity.DistributionOutcome{Target: h.Name(), ID: article.ID, URL: article.URL}, nil
}
