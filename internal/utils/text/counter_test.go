package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "local seo", 9},
		{"accented", "café crème", 10},
		{"cjk", "こんにちは", 5},
		{"emoji", "launch 🚀", 8},
		{"newlines", "a\nb\n", 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountRunes(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		limit  int
		suffix string
		want   string
	}{
		{"fits", "hello", 10, "…", "hello"},
		{"exact", "hello", 5, "…", "hello"},
		{"cut with suffix", "hello world", 8, "…", "hello w…"},
		{"cut without suffix", "hello world", 5, "", "hello"},
		{"multi-rune suffix", "hello world", 8, "...", "hello..."},
		{"suffix too long", "hello world", 2, "...", "he"},
		{"zero limit", "hello", 0, "…", ""},
		{"negative limit", "hello", -3, "", ""},
		{"emoji not split", "🚀🚀🚀🚀", 3, "…", "🚀🚀…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.limit, tt.suffix)
			assert.Equal(t, tt.want, got)
			if tt.limit > 0 {
				assert.LessOrEqual(t, CountRunes(got), tt.limit)
			}
		})
	}
}

func TestTruncate_SocialCap(t *testing.T) {
	long := strings.Repeat("é", 500)
	got := Truncate(long, 280, "…")
	assert.Equal(t, 280, CountRunes(got))
	assert.True(t, strings.HasSuffix(got, "…"))
}
