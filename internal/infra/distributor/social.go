package distributor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"leadgen/internal/domain/entity"
)

// Binding maps a platform to the Postiz integration that posts for it.
type Binding struct {
	Platform entity.Platform
	ID       string
}

// ParseBindings parses "x:id1,linkedin:id2". Empty input yields no bindings.
func ParseBindings(raw string) ([]Binding, error) {
	var out []Binding
	seen := make(map[entity.Platform]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		platform, id, ok := strings.Cut(part, ":")
		platform = strings.ToLower(strings.TrimSpace(platform))
		id = strings.TrimSpace(id)
		if !ok || platform == "" || id == "" {
			return nil, fmt.Errorf("invalid postiz integration %q: want platform:id", part)
		}
		p := entity.Platform(platform)
		if _, known := entity.CharacterCap(p); !known {
			return nil, fmt.Errorf("invalid postiz integration %q: unknown platform %q", part, platform)
		}
		if seen[p] {
			return nil, fmt.Errorf("invalid postiz integration %q: platform %q listed twice", part, platform)
		}
		seen[p] = true
		out = append(out, Binding{Platform: p, ID: id})
	}
	return out, nil
}

// SocialDistributor schedules a post's SocialBundle on every bound integration.
type SocialDistributor struct {
	client   *Client
	bindings []Binding
	delay    time.Duration
	now      func() time.Time
}

// NewSocialDistributor creates a distributor that schedules posts delay after now.
func NewSocialDistributor(client *Client, bindings []Binding, delay time.Duration) *SocialDistributor {
	return &SocialDistributor{
		client:   client,
		bindings: append([]Binding(nil), bindings...),
		delay:    delay,
		now:      time.Now,
	}
}

// Name implements the distributor contract.
func (d *SocialDistributor) Name() string { return "postiz" }

// NeedsSocial marks this distributor as a consumer of the SocialBundle.
func (d *SocialDistributor) NeedsSocial() bool { return true }

// Distribute sends one schedule request covering every bound platform the bundle has text for.
func (d *SocialDistributor) Distribute(ctx context.Context, in entity.DistributionInput) (*entity.DistributionOutcome, error) {
	if len(d.bindings) == 0 {
		return nil, fmt.Errorf("postiz: no integrations configured")
	}
	if in.Social == nil {
		return nil, fmt.Errorf("postiz: social bundle missing")
	}

	bundle := in.Social.Enforce()
	posts := make([]SocialPost, 0, len(d.bindings))
	for _, b := range d.bindings {
		content := bundle[b.Platform]
		if content == "" {
			slog.WarnContext(ctx, "No social text for bound platform",
				slog.String("platform", string(b.Platform)),
				slog.String("slug", in.Post.Slug))
			continue
		}
		posts = append(posts, SocialPost{
			IntegrationID: b.ID,
			Platform:      string(b.Platform),
			Content:       content,
		})
	}
	if len(posts) == 0 {
		return nil, fmt.Errorf("postiz: social bundle has no text for any bound platform")
	}

	at := d.now().Add(d.delay)
	results, err := d.client.SchedulePost(ctx, posts, at)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.PostID)
	}
	slog.InfoContext(ctx, "Social posts scheduled",
		slog.String("slug", in.Post.Slug),
		slog.Int("posts", len(posts)),
		slog.Time("scheduled_at", at.UTC()))

	return &entity.DistributionOutcome{Target: d.Name(), ID: strings.Join(ids, ",")}, nil
}
