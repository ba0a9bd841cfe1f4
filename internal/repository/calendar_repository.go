// Package repository declares the persistence ports used by the use cases.
package repository

import (
	"context"
	"time"

	"leadgen/internal/domain/entity"
)

// CalendarRepository stores calendar entries and their publish outcome.
type CalendarRepository interface {
	// SaveEntries stores entries as pending. Entries already stored for the same
	// date, niche and keyword are skipped. It returns how many were inserted.
	SaveEntries(ctx context.Context, entries []entity.CalendarEntry) (int, error)

	// NextDue returns the oldest pending entry dated on or before asOf,
	// or nil when nothing is due.
	NextDue(ctx context.Context, asOf time.Time) (*entity.ScheduledEntry, error)

	// MarkPublished records a successful run. It returns entity.ErrNotFound for unknown ids.
	MarkPublished(ctx context.Context, id int64, slug, localPath string) error

	// MarkFailed records a failed run. It returns entity.ErrNotFound for unknown ids.
	MarkFailed(ctx context.Context, id int64, reason string) error

	// List returns the entries dated within [from, to], ordered by date.
	List(ctx context.Context, from, to time.Time) ([]*entity.ScheduledEntry, error)
}
