package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/utils/text"
)

func fullBundle() SocialBundle {
	return SocialBundle{
		PlatformLinkedIn:  "Restaurants using AI agents report 30% cost savings...",
		PlatformX:         "AI agents are saving restaurants 30% on labor costs. Here's how:",
		PlatformFacebook:  "Did you know? Restaurants using AI agents save an average of 30%...",
		PlatformInstagram: "The future of restaurants is here.",
		PlatformThreads:   "Hot take: restaurants not using AI agents are leaving money on the table.",
	}
}

func TestSocialBundle_Validate(t *testing.T) {
	require.NoError(t, fullBundle().Validate())

	missing := fullBundle()
	delete(missing, PlatformThreads)
	assert.Error(t, missing.Validate())

	long := fullBundle()
	long[PlatformX] = strings.Repeat("a", 281)
	err := long.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "280")
}

func TestSocialBundle_Enforce(t *testing.T) {
	b := fullBundle()
	b[PlatformX] = strings.Repeat("あ", 400)

	got := b.Enforce()

	assert.Equal(t, 280, text.CountRunes(got[PlatformX]))
	assert.True(t, strings.HasSuffix(got[PlatformX], "…"))
	assert.Equal(t, 400, text.CountRunes(b[PlatformX]), "Enforce must not modify the receiver")
	assert.Equal(t, b[PlatformLinkedIn], got[PlatformLinkedIn])
	assert.NoError(t, got.Validate())
}

func TestSocialBundle_Platforms(t *testing.T) {
	got := fullBundle().Platforms()
	assert.Equal(t, []Platform{"facebook", "instagram", "linkedin", "threads", "x"}, got)
}

func TestCharacterCap(t *testing.T) {
	limit, ok := CharacterCap(PlatformX)
	assert.True(t, ok)
	assert.Equal(t, 280, limit)

	_, ok = CharacterCap("myspace")
	assert.False(t, ok)
}
