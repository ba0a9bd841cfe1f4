package hugo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"leadgen/internal/domain/entity"
)

// postsDir is where Hugo looks for posts, relative to the site root.
const postsDir = "content/posts"

// Publisher writes posts into a Hugo site directory.
type Publisher struct {
	blogDir string
	now     func() time.Time
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithClock replaces the clock used for the date field.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// NewPublisher creates a Publisher rooted at blogDir (the Hugo site root).
func NewPublisher(blogDir string, opts ...Option) *Publisher {
	p := &Publisher{
		blogDir: blogDir,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BlogDir returns the site root.
func (p *Publisher) BlogDir() string {
	return p.blogDir
}

// PathFor returns the file a post with the given slug is written to.
func (p *Publisher) PathFor(slug string) string {
	return filepath.Join(p.blogDir, postsDir, slug+".md")
}

// Publish writes the draft to content/posts/<slug>.md and returns the file path.
// An existing file for the same slug is replaced.
func (p *Publisher) Publish(ctx context.Context, draft *entity.PostDraft) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if draft == nil {
		return "", &entity.ValidationError{Field: "draft", Message: "draft is required"}
	}
	if err := draft.Validate(); err != nil {
		return "", err
	}

	fm := FrontMatter{
		Title:       draft.Title,
		Slug:        draft.Slug,
		Description: draft.MetaDescription,
		Date:        p.now().UTC().Format(time.RFC3339),
		Tags:        append([]string{}, draft.Tags...),
		Draft:       false,
		ShowToc:     true,
		TocOpen:     true,
	}
	content, err := Render(fm, draft.Body)
	if err != nil {
		return "", err
	}

	path := p.PathFor(draft.Slug)
	if err := writeFileAtomic(path, content); err != nil {
		return "", fmt.Errorf("hugo: write %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Post written",
		slog.String("slug", draft.Slug),
		slog.String("path", path),
		slog.Int("bytes", len(content)))

	return path, nil
}

// Read parses the post stored for slug.
func (p *Publisher) Read(slug string) (*Document, error) {
	if err := entity.ValidateSlug(slug); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(p.PathFor(slug))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("post %q: %w", slug, entity.ErrNotFound)
		}
		return nil, fmt.Errorf("hugo: read %s: %w", slug, err)
	}
	return ParseDocument(content)
}

// writeFileAtomic writes through a temp file in the same directory so readers
// never see a half-written post.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".post-*.md")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
