// Package postgres implements the repository ports on PostgreSQL (pgx stdlib driver).
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"leadgen/internal/domain/entity"
	"leadgen/internal/observability/metrics"
	"leadgen/internal/repository"
	"leadgen/internal/resilience/circuitbreaker"
	"leadgen/internal/resilience/retry"
)

// CalendarRepo stores calendar entries. Every statement goes through the
// database circuit breaker, and reads and idempotent writes are retried on
// transient connection errors.
type CalendarRepo struct {
	db          *circuitbreaker.DBCircuitBreaker
	retryConfig retry.Config
}

// NewCalendarRepo creates a CalendarRepo over db.
func NewCalendarRepo(db *sql.DB) repository.CalendarRepository {
	return &CalendarRepo{
		db:          circuitbreaker.NewDBCircuitBreaker(db),
		retryConfig: retry.DBConfig(),
	}
}

const calendarColumns = `id, publish_date, niche, keyword, search_volume, post_type, status, slug, local_path, last_error, updated_at`

func scanScheduledEntry(scan func(dest ...any) error) (*entity.ScheduledEntry, error) {
	var (
		e                          entity.ScheduledEntry
		postType, status           string
		slug, localPath, lastError sql.NullString
	)
	if err := scan(
		&e.ID, &e.Entry.PublishDate, &e.Entry.Niche, &e.Entry.Keyword, &e.Entry.SearchVolume,
		&postType, &status, &slug, &localPath, &lastError, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}

	pt, err := entity.ParsePostType(postType)
	if err != nil {
		return nil, err
	}
	e.Entry.PostType = pt
	e.Status = entity.EntryStatus(status)
	e.Slug = slug.String
	e.LocalPath = localPath.String
	e.Error = lastError.String
	return &e, nil
}

func (repo *CalendarRepo) SaveEntries(ctx context.Context, entries []entity.CalendarEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	start := time.Now()
	defer func() { metrics.RecordDBQuery("save_calendar_entries", time.Since(start)) }()

	var sb strings.Builder
	sb.WriteString(`
INSERT INTO calendar_entries (publish_date, niche, keyword, search_volume, post_type, status)
VALUES `)
	args := make([]any, 0, len(entries)*5)
	for i, e := range entries {
		if i > 0 {
			sb.WriteString(", ")
		}
		n := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, 'pending')", n+1, n+2, n+3, n+4, n+5)
		args = append(args, dateOnly(e.PublishDate), e.Niche, e.Keyword, e.SearchVolume, string(e.PostType))
	}
	sb.WriteString(`
ON CONFLICT (publish_date, niche, keyword) DO NOTHING`)
	query := sb.String()

	var inserted int64
	err := retry.WithBackoff(ctx, repo.retryConfig, func() error {
		res, err := repo.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		inserted, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("SaveEntries: %w", err)
	}
	return int(inserted), nil
}

func (repo *CalendarRepo) NextDue(ctx context.Context, asOf time.Time) (*entity.ScheduledEntry, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("next_due", time.Since(start)) }()

	query := `
SELECT ` + calendarColumns + `
FROM calendar_entries
WHERE status = 'pending' AND publish_date <= $1
ORDER BY publish_date ASC, id ASC
LIMIT 1`

	var entry *entity.ScheduledEntry
	err := retry.WithBackoff(ctx, repo.retryConfig, func() error {
		rows, err := repo.db.QueryContext(ctx, query, dateOnly(asOf))
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		entry = nil
		if rows.Next() {
			e, err := scanScheduledEntry(rows.Scan)
			if err != nil {
				return err
			}
			entry = e
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("NextDue: %w", err)
	}
	return entry, nil
}

func (repo *CalendarRepo) MarkPublished(ctx context.Context, id int64, slug, localPath string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("mark_published", time.Since(start)) }()

	const query = `
UPDATE calendar_entries
SET status = 'published', slug = $2, local_path = $3, last_error = NULL, updated_at = now()
WHERE id = $1`
	if err := repo.update(ctx, query, id, slug, localPath); err != nil {
		return fmt.Errorf("MarkPublished: %w", err)
	}
	return nil
}

func (repo *CalendarRepo) MarkFailed(ctx context.Context, id int64, reason string) error {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("mark_failed", time.Since(start)) }()

	const query = `
UPDATE calendar_entries
SET status = 'failed', last_error = $2, updated_at = now()
WHERE id = $1`
	if err := repo.update(ctx, query, id, reason); err != nil {
		return fmt.Errorf("MarkFailed: %w", err)
	}
	return nil
}

func (repo *CalendarRepo) update(ctx context.Context, query string, args ...any) error {
	var affected int64
	err := retry.WithBackoff(ctx, repo.retryConfig, func() error {
		res, err := repo.db.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (repo *CalendarRepo) List(ctx context.Context, from, to time.Time) ([]*entity.ScheduledEntry, error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery("list_calendar_entries", time.Since(start)) }()

	query := `
SELECT ` + calendarColumns + `
FROM calendar_entries
WHERE publish_date BETWEEN $1 AND $2
ORDER BY publish_date ASC, id ASC`

	var entries []*entity.ScheduledEntry
	err := retry.WithBackoff(ctx, repo.retryConfig, func() error {
		rows, err := repo.db.QueryContext(ctx, query, dateOnly(from), dateOnly(to))
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		entries = make([]*entity.ScheduledEntry, 0, 32)
		for rows.Next() {
			e, err := scanScheduledEntry(rows.Scan)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return entries, nil
}

// dateOnly formats t as a DATE literal in its own location.
func dateOnly(t time.Time) string {
	return t.Format(time.DateOnly)
}
