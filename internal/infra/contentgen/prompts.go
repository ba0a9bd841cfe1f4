package contentgen

import (
	"fmt"
	"strings"

	"leadgen/internal/domain/entity"
	"leadgen/internal/utils/text"
)

// socialBodyLimit is how much of the post body the social prompt includes.
const socialBodyLimit = 2000

const blogPostTemplate = `You are a content marketer writing for small and mid-sized %[1]s businesses
that are evaluating AI agents.

Write an SEO-optimized blog post about: %[2]s

Requirements:
- 1200 to 1800 words of Markdown, starting with a single H1 title
- practical, specific advice for %[1]s owners; no hype
- end with a short call to action inviting readers to book a consultation
- 3 to 6 lowercase tags

Respond with a single JSON object and nothing else:
{"title": string, "slug": string (lowercase words joined by hyphens), "meta_description": string (under 160 characters), "body": string (Markdown), "tags": [string]}`

const socialTemplate = `Repurpose the blog post below into social media posts.

Title: %s

Post:
%s

Rules:
%s
- keep each post self-contained and end with a hook to read the full article

Respond with a single JSON object and nothing else, with exactly these keys:
{%s}`

func buildBlogPostPrompt(niche, topic string) string {
	return fmt.Sprintf(blogPostTemplate, niche, topic)
}

func buildSocialPrompt(title, body string) string {
	clipped := text.Truncate(body, socialBodyLimit, "")

	rules := make([]string, 0, len(entity.SocialPlatforms))
	keys := make([]string, 0, len(entity.SocialPlatforms))
	for _, platform := range entity.SocialPlatforms {
		limit, _ := entity.CharacterCap(platform)
		rules = append(rules, fmt.Sprintf("- %s: at most %d characters", platform, limit))
		keys = append(keys, fmt.Sprintf("%q: string", string(platform)))
	}

	return fmt.Sprintf(socialTemplate, title, clipped, strings.Join(rules, "\n"), strings.Join(keys, ", "))
}
