package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_FirstReleaseSchema simulates upgrading a database
// created before the summary columns existed. Rows written under the old
// schema must survive and get their summary columns from the stored document.
func TestMigrate_UpgradePath_FirstReleaseSchema(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`PRAGMA foreign_keys = ON`)
	require.NoError(t, err)

	legacyStatements := []string{
		`CREATE TABLE sites (
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
		`CREATE TABLE scenarios (
			id             TEXT PRIMARY KEY,
			site_id        TEXT NOT NULL REFERENCES sites(id) ON DELETE CASCADE,
			name           TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			overrides_json TEXT NOT NULL DEFAULT '[]',
			created_at     TEXT NOT NULL
		)`,
	}
	for _, stmt := range legacyStatements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	_, err = db.Exec(`INSERT INTO sites (id, name, version, data_json, schedule_risk, total_weeks, created_at, updated_at)
		VALUES ('s1', 'Abilene', 4,
		        '{"schema_version":2,"primary_driver":"POST-EQ-02","duration_risk":"HIGH","schedule_risk":"MEDIUM"}',
		        'MEDIUM', 212, '2025-01-01T00:00:00Z', '2025-02-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO sites (id, name, data_json, created_at, updated_at)
		VALUES ('s2', 'Bare', 'not json', '2025-01-01T00:00:00Z', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO scenarios (id, site_id, name, created_at) VALUES ('c1', 's1', 'fast', '2025-01-01T00:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "second run is a no-op")

	var driver, durationRisk, risk string
	var version, weeks int
	err = db.QueryRow(`SELECT primary_driver, duration_risk, schedule_risk, version, total_weeks FROM sites WHERE id = 's1'`).
		Scan(&driver, &durationRisk, &risk, &version, &weeks)
	require.NoError(t, err)
	assert.Equal(t, "POST-EQ-02", driver)
	assert.Equal(t, "HIGH", durationRisk)
	assert.Equal(t, "MEDIUM", risk)
	assert.Equal(t, 4, version)
	assert.Equal(t, 212, weeks)

	err = db.QueryRow(`SELECT primary_driver FROM sites WHERE id = 's2'`).Scan(&driver)
	require.NoError(t, err)
	assert.Equal(t, "", driver, "rows with unreadable documents are left alone")

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM scenarios WHERE site_id = 's1'`).Scan(&n))
	assert.Equal(t, 1, n)

	var idx string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_scenarios_site_name'`).Scan(&idx)
	require.NoError(t, err)
}
