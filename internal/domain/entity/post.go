// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental content objects such as PostDraft, SocialBundle and
// CalendarEntry, along with their validation rules and domain-specific errors.
package entity

// PostDraft is a generated blog post ready for local publishing and distribution.
// The slug is derived once when the draft is created and stays stable for the
// lifetime of the post. Drafts are passed by value downstream and never mutated.
type PostDraft struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"meta_description"`
	Body            string   `json:"body"`
	Tags            []string `json:"tags"`
}

// Clone returns a copy of the draft that shares no backing arrays with the original.
func (p PostDraft) Clone() PostDraft {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	return out
}

// Validate checks the fields every publisher relies on.
func (p PostDraft) Validate() error {
	if p.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if p.Body == "" {
		return &ValidationError{Field: "body", Message: "body is required"}
	}
	return ValidateSlug(p.Slug)
}

// PipelineResult summarizes one generate-and-publish run.
type PipelineResult struct {
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Tags      []string `json:"tags"`
	LocalPath string   `json:"local_path"`
}
