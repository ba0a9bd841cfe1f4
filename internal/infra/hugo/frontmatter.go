package hugo

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("hugo: missing front matter")
	// ErrMalformedFrontMatter indicates the YAML block was not closed or could not be parsed.
	ErrMalformedFrontMatter = errors.New("hugo: malformed front matter")
)

// FrontMatter is the header Hugo (PaperMod theme) reads from each post.
// Field order is the order the keys are written in.
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Description string   `yaml:"description"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Draft       bool     `yaml:"draft"`
	ShowToc     bool     `yaml:"ShowToc"`
	TocOpen     bool     `yaml:"TocOpen"`
}

// PublishedAt parses the date field.
func (f FrontMatter) PublishedAt() (time.Time, error) {
	t, err := time.Parse(time.RFC3339, f.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("hugo: parse date %q: %w", f.Date, err)
	}
	return t.UTC(), nil
}

// Document is a parsed post file.
type Document struct {
	FrontMatter FrontMatter
	Body        string
}

// Render writes the front matter between --- fences, a blank line, then the body.
func Render(fm FrontMatter, body string) ([]byte, error) {
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("hugo: encode front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// ParseDocument splits a post file into front matter and body.
func ParseDocument(content []byte) (*Document, error) {
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return nil, ErrMalformedFrontMatter
	}

	var fm FrontMatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}

	return &Document{
		FrontMatter: fm,
		Body:        string(bytes.TrimPrefix(parts[1], []byte("\n"))),
	}, nil
}

// FrontMatterKeys returns the top-level keys of a document's front matter in file order.
func FrontMatterKeys(content []byte) ([]string, error) {
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return nil, ErrMissingFrontMatter
	}
	parts := bytes.SplitN(normalized[4:], []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return nil, ErrMalformedFrontMatter
	}

	var node yaml.Node
	if err := yaml.Unmarshal(parts[0], &node); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, ErrMalformedFrontMatter
	}

	mapping := node.Content[0]
	keys := make([]string, 0, len(mapping.Content)/2)
	for i := 0; i < len(mapping.Content); i += 2 {
		keys = append(keys, mapping.Content[i].Value)
	}
	return keys, nil
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
