package contentgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"leadgen/internal/domain/entity"
)

// blogPostReply mirrors the JSON object the blog post prompt asks for.
type blogPostReply struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"meta_description"`
	Body            string   `json:"body"`
	Tags            []string `json:"tags"`
}

// extractJSON returns the outermost JSON object in a model reply.
// Models often wrap JSON in Markdown fences or add a sentence around it.
func extractJSON(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no JSON object in reply", ErrMalformedOutput)
	}
	return reply[start : end+1], nil
}

func parseBlogPost(reply string) (*entity.PostDraft, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var r blogPostReply
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("%w: decode blog post: %v", ErrMalformedOutput, err)
	}

	draft := &entity.PostDraft{
		Title:           strings.TrimSpace(r.Title),
		Slug:            strings.TrimSpace(r.Slug),
		MetaDescription: strings.TrimSpace(r.MetaDescription),
		Body:            strings.TrimSpace(r.Body),
		Tags:            normalizeTags(r.Tags),
	}
	if entity.ValidateSlug(draft.Slug) != nil {
		draft.Slug = entity.Slugify(draft.Slug)
		if entity.ValidateSlug(draft.Slug) != nil {
			draft.Slug = entity.Slugify(draft.Title)
		}
	}

	if err := draft.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return draft, nil
}

// normalizeTags lowercases, trims and de-duplicates tags, keeping their order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func parseSocial(reply string) (entity.SocialBundle, error) {
	raw, err := extractJSON(reply)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: decode social posts: %v", ErrMalformedOutput, err)
	}

	bundle := make(entity.SocialBundle, len(entity.SocialPlatforms))
	for _, platform := range entity.SocialPlatforms {
		content, _ := fields[string(platform)].(string)
		if content = strings.TrimSpace(content); content != "" {
			bundle[platform] = content
		}
	}
	return bundle, nil
}
