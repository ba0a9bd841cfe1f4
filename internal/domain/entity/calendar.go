package entity

import (
	"strconv"
	"time"
)

// PostType is the content archetype a calendar slot is written as.
type PostType string

const (
	PostTypeHowTo      PostType = "how-to"
	PostTypeListicle   PostType = "listicle"
	PostTypeCaseStudy  PostType = "case-study"
	PostTypeComparison PostType = "comparison"
)

// Valid reports whether p is one of the known archetypes.
func (p PostType) Valid() bool {
	switch p {
	case PostTypeHowTo, PostTypeListicle, PostTypeCaseStudy, PostTypeComparison:
		return true
	}
	return false
}

// ParsePostType converts a stored or configured value into a PostType.
func ParsePostType(s string) (PostType, error) {
	p := PostType(s)
	if !p.Valid() {
		return "", &ValidationError{Field: "post_type", Message: "unknown post type " + strconv.Quote(s)}
	}
	return p, nil
}

// CalendarEntry is one planned post. Entries are immutable once generated.
type CalendarEntry struct {
	PublishDate  time.Time `json:"publish_date"`
	Niche        string    `json:"niche"`
	Keyword      string    `json:"keyword"`
	SearchVolume int       `json:"search_volume"`
	PostType     PostType  `json:"post_type"`
}

// EntryStatus tracks a stored calendar entry through publishing.
type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusPublished EntryStatus = "published"
	EntryStatusFailed    EntryStatus = "failed"
)

// ScheduledEntry is a CalendarEntry persisted for the worker, with its publish outcome.
type ScheduledEntry struct {
	ID        int64
	Entry     CalendarEntry
	Status    EntryStatus
	Slug      string
	LocalPath string
	Error     string
	UpdatedAt time.Time
}
