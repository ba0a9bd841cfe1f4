package db

import (
	"database/sql"
)

// MigrateUp creates the calendar schema. Every statement is idempotent.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS calendar_entries (
    id            BIGSERIAL PRIMARY KEY,
    publish_date  DATE NOT NULL,
    niche         TEXT NOT NULL,
    keyword       TEXT NOT NULL,
    search_volume INTEGER NOT NULL DEFAULT 0,
    post_type     VARCHAR(20) NOT NULL,
    status        VARCHAR(20) NOT NULL DEFAULT 'pending',
    slug          TEXT,
    local_path    TEXT,
    last_error    TEXT,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (publish_date, niche, keyword)
)`); err != nil {
		return err
	}

	indexes := []string{
		// NextDue scans pending entries by date
		`CREATE INDEX IF NOT EXISTS idx_calendar_entries_pending ON calendar_entries(publish_date, id) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_calendar_entries_status ON calendar_entries(status)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// Constraints cannot use IF NOT EXISTS, so guard them with a catalog lookup.
	if _, err := db.Exec(`
DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint
        WHERE conname = 'chk_calendar_entries_status'
    ) THEN
        ALTER TABLE calendar_entries ADD CONSTRAINT chk_calendar_entries_status
        CHECK (status IN ('pending', 'published', 'failed'));
    END IF;
END $$;
`); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops the calendar schema and all stored entries.
func MigrateDown(db *sql.DB) error {
	dropStatements := []string{
		`DROP INDEX IF EXISTS idx_calendar_entries_status`,
		`DROP INDEX IF EXISTS idx_calendar_entries_pending`,
		`DROP TABLE IF EXISTS calendar_entries`,
	}

	for _, stmt := range dropStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
