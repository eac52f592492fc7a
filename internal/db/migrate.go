package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSiteSummary(db); err != nil {
		return fmt.Errorf("backfilling site summary columns: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sites (
		id              TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		catalog_version TEXT NOT NULL DEFAULT '',
		version         INTEGER NOT NULL DEFAULT 1,
		data_json       TEXT NOT NULL,
		target_mw       INTEGER NOT NULL DEFAULT 0,
		iso             TEXT NOT NULL DEFAULT '',
		schedule_risk   TEXT NOT NULL DEFAULT ''
		                CHECK(schedule_risk IN ('','LOW','MEDIUM','HIGH')),
		energization    TEXT,
		total_weeks     INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_sites_name ON sites(name)`,
	`CREATE INDEX IF NOT EXISTS idx_sites_risk ON sites(schedule_risk)`,
	`CREATE TABLE IF NOT EXISTS scenarios (
		id             TEXT PRIMARY KEY,
		site_id        TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
		name           TEXT NOT NULL,
		description    TEXT NOT NULL DEFAULT '',
		overrides_json TEXT NOT NULL DEFAULT '[]',
		created_at     TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scenarios_site ON scenarios(site_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_scenarios_site_name ON scenarios(site_id, name)`,
	// Summary columns added after the first release.
	`ALTER TABLE sites ADD COLUMN primary_driver TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE sites ADD COLUMN duration_risk TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSiteSummary fills summary columns added by ALTER TABLE from
// each site's stored document. Idempotent: only rows with an empty
// primary_driver and a non-empty document driver are touched.
func migrateBackfillSiteSummary(db *sql.DB) error {
	ctx := context.Background()

	var count int
	err := db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM sites
		WHERE primary_driver = '' AND json_valid(data_json)
		  AND COALESCE(json_extract(data_json, '$.primary_driver'), '') != ''`).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking sites to backfill: %w", err)
	}
	if count == 0 {
		return nil
	}

	_, err = db.ExecContext(ctx, `
		UPDATE sites SET
			primary_driver = COALESCE(json_extract(data_json, '$.primary_driver'), ''),
			duration_risk  = COALESCE(json_extract(data_json, '$.duration_risk'), '')
		WHERE primary_driver = '' AND json_valid(data_json)`)
	if err != nil {
		return fmt.Errorf("updating site summaries: %w", err)
	}
	return nil
}
