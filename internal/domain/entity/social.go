package entity

import (
	"fmt"
	"sort"

	"leadgen/internal/utils/text"
)

// Platform identifies a social network a SocialBundle carries text for.
type Platform string

const (
	PlatformLinkedIn  Platform = "linkedin"
	PlatformX         Platform = "x"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformThreads   Platform = "threads"
)

// SocialPlatforms lists the platforms every SocialBundle must cover, in prompt order.
var SocialPlatforms = []Platform{
	PlatformLinkedIn,
	PlatformX,
	PlatformFacebook,
	PlatformInstagram,
	PlatformThreads,
}

// platformCaps holds the per-platform character caps, counted in runes.
var platformCaps = map[Platform]int{
	PlatformLinkedIn:  3000,
	PlatformX:         280,
	PlatformFacebook:  63206,
	PlatformInstagram: 2200,
	PlatformThreads:   500,
}

// CharacterCap returns the character cap of a platform and whether one is known.
func CharacterCap(p Platform) (int, bool) {
	limit, ok := platformCaps[p]
	return limit, ok
}

// SocialBundle maps a platform to the post text repurposed for it.
type SocialBundle map[Platform]string

// Enforce returns a copy of the bundle with every field cut to its platform cap.
// Fields for platforms without a known cap are copied unchanged.
func (b SocialBundle) Enforce() SocialBundle {
	out := make(SocialBundle, len(b))
	for platform, content := range b {
		if limit, ok := platformCaps[platform]; ok {
			content = text.Truncate(content, limit, "…")
		}
		out[platform] = content
	}
	return out
}

// Validate reports missing platforms and fields that exceed their cap.
func (b SocialBundle) Validate() error {
	for _, platform := range SocialPlatforms {
		content, ok := b[platform]
		if !ok || content == "" {
			return &ValidationError{Field: string(platform), Message: "social post text is required"}
		}
	}
	for _, platform := range b.Platforms() {
		limit, ok := platformCaps[platform]
		if !ok {
			continue
		}
		if n := text.CountRunes(b[platform]); n > limit {
			return &ValidationError{
				Field:   string(platform),
				Message: fmt.Sprintf("%d characters exceeds the %d character cap", n, limit),
			}
		}
	}
	return nil
}

// Platforms returns the platforms present in the bundle in a stable order.
func (b SocialBundle) Platforms() []Platform {
	out := make([]Platform, 0, len(b))
	for platform := range b {
		out = append(out, platform)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
