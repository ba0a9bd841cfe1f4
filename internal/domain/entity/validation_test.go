package entity

import (
	"errors"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{name: "valid https URL", url: "https://api.postiz.com/public/v1", wantErr: false},
		{name: "valid http URL with port", url: "http://localhost:11434", wantErr: false},
		{name: "empty URL", url: "", wantErr: true},
		{name: "invalid scheme - ftp", url: "ftp://example.com/feed", wantErr: true},
		{name: "missing host", url: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateSlug(t *testing.T) {
	tests := []struct {
		slug    string
		wantErr bool
	}{
		{slug: "5-ways-ai-agents-save-restaurants-money", wantErr: false},
		{slug: "hvac", wantErr: false},
		{slug: "", wantErr: true},
		{slug: "Upper-Case", wantErr: true},
		{slug: "double--hyphen", wantErr: true},
		{slug: "-leading", wantErr: true},
		{slug: "trailing-", wantErr: true},
		{slug: "has space", wantErr: true},
		{slug: "path/traversal", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			err := ValidateSlug(tt.slug)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSlug(%q) error = %v, wantErr %v", tt.slug, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("want ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{title: "5 Ways AI Agents Save Restaurants Money", want: "5-ways-ai-agents-save-restaurants-money"},
		{title: "  HVAC & Plumbing: What's Next?  ", want: "hvac-plumbing-what-s-next"},
		{title: "Café Réservations", want: "cafe-reservations"},
		{title: "---", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			got := Slugify(tt.title)
			if got != tt.want {
				t.Fatalf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
			if got != "" {
				if err := ValidateSlug(got); err != nil {
					t.Fatalf("Slugify produced invalid slug %q: %v", got, err)
				}
			}
		})
	}
}
