// Package pipeline provides the generate, publish and distribute use case.
// A run generates one post, writes it to the local site and then, best
// effort, hands it to each configured distributor.
package pipeline

import (
	"errors"
	"fmt"
)

// Sentinel errors for pipeline operations.
var (
	// ErrGeneration indicates that the content source could not produce a draft.
	ErrGeneration = errors.New("content generation failed")

	// ErrPublish indicates that the draft could not be written to the local site.
	ErrPublish = errors.New("local publish failed")

	// ErrDistribution indicates that a distributor failed. It never fails a run;
	// it only appears inside a DistributionReport.
	ErrDistribution = errors.New("distribution failed")
)

// GenerationError is returned when the content source fails.
// errors.Is matches both ErrGeneration and the underlying cause.
type GenerationError struct {
	Niche string
	Topic string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate post (niche=%q topic=%q): %v", e.Niche, e.Topic, e.Err)
}

func (e *GenerationError) Unwrap() []error { return []error{ErrGeneration, e.Err} }

// PublishError is returned when the local publisher fails.
type PublishError struct {
	Slug string
	Err  error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish post %q: %v", e.Slug, e.Err)
}

func (e *PublishError) Unwrap() []error { return []error{ErrPublish, e.Err} }

// DistributionError records one distributor failure.
type DistributionError struct {
	Target string
	Err    error
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("distribute to %s: %v", e.Target, e.Err)
}

func (e *DistributionError) Unwrap() []error { return []error{ErrDistribution, e.Err} }
