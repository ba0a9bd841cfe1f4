// Package calendar plans a month of posts by rotating niches, keywords and
// post archetypes over a fixed number of weeks.
package calendar

import (
	"errors"
	"fmt"
	"strings"

	"leadgen/internal/domain/entity"
)

// Default rotation values.
const (
	DefaultWeeks           = 4
	DefaultSlotSpacingDays = 2
	DefaultPostsPerWeek    = 3
)

// ErrInvalidRotation is wrapped by Rotation.Validate failures.
var ErrInvalidRotation = errors.New("invalid calendar rotation")

// Rotation is the immutable configuration a Generator cycles through.
type Rotation struct {
	Niches          []string
	PostTypes       []entity.PostType
	Weeks           int
	SlotSpacingDays int
}

// DefaultRotation returns the six target niches, the four archetypes,
// four weeks and a post every other day.
func DefaultRotation() Rotation {
	return Rotation{
		Niches: []string{
			"restaurants",
			"law firms",
			"real estate",
			"dental offices",
			"hvac plumbing",
			"accounting firms",
		},
		PostTypes: []entity.PostType{
			entity.PostTypeHowTo,
			entity.PostTypeListicle,
			entity.PostTypeCaseStudy,
			entity.PostTypeComparison,
		},
		Weeks:           DefaultWeeks,
		SlotSpacingDays: DefaultSlotSpacingDays,
	}
}

// Clone returns a deep copy.
func (r Rotation) Clone() Rotation {
	r.Niches = append([]string(nil), r.Niches...)
	r.PostTypes = append([]entity.PostType(nil), r.PostTypes...)
	return r
}

// Validate checks that the rotation can produce a calendar.
func (r Rotation) Validate() error {
	if len(r.Niches) == 0 {
		return fmt.Errorf("%w: at least one niche is required", ErrInvalidRotation)
	}
	seen := make(map[string]bool, len(r.Niches))
	for _, n := range r.Niches {
		if strings.TrimSpace(n) == "" {
			return fmt.Errorf("%w: niche names must not be blank", ErrInvalidRotation)
		}
		if seen[n] {
			return fmt.Errorf("%w: niche %q listed twice", ErrInvalidRotation, n)
		}
		seen[n] = true
	}
	if len(r.PostTypes) == 0 {
		return fmt.Errorf("%w: at least one post type is required", ErrInvalidRotation)
	}
	for _, pt := range r.PostTypes {
		if !pt.Valid() {
			return fmt.Errorf("%w: unknown post type %q", ErrInvalidRotation, pt)
		}
	}
	if r.Weeks <= 0 {
		return fmt.Errorf("%w: weeks must be positive, got %d", ErrInvalidRotation, r.Weeks)
	}
	if r.SlotSpacingDays <= 0 {
		return fmt.Errorf("%w: slot spacing must be positive, got %d", ErrInvalidRotation, r.SlotSpacingDays)
	}
	return nil
}
