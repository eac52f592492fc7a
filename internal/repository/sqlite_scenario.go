package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
)

// SQLiteScenarioRepo implements ScenarioRepo using a SQLite database.
type SQLiteScenarioRepo struct {
	db db.DBTX
}

// NewSQLiteScenarioRepo creates a new SQLiteScenarioRepo.
func NewSQLiteScenarioRepo(conn db.DBTX) *SQLiteScenarioRepo {
	return &SQLiteScenarioRepo{db: conn}
}

// overrideRow is the stored form of a domain.Override. Numeric values decode
// as float64.
type overrideRow struct {
	MilestoneID string `json:"milestone_id,omitempty"`
	Field       string `json:"field,omitempty"`
	ConfigKey   string `json:"config_key,omitempty"`
	Value       any    `json:"value"`
}

func encodeOverrides(overrides []domain.Override) (string, error) {
	rows := make([]overrideRow, len(overrides))
	for i, o := range overrides {
		rows[i] = overrideRow{MilestoneID: o.MilestoneID, Field: string(o.Field), ConfigKey: o.ConfigKey, Value: o.Value}
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeOverrides(s string) ([]domain.Override, error) {
	var rows []overrideRow
	if err := json.Unmarshal([]byte(s), &rows); err != nil {
		return nil, err
	}
	out := make([]domain.Override, len(rows))
	for i, r := range rows {
		out[i] = domain.Override{MilestoneID: r.MilestoneID, Field: domain.OverrideField(r.Field), ConfigKey: r.ConfigKey, Value: r.Value}
	}
	return out, nil
}

func (r *SQLiteScenarioRepo) Create(ctx context.Context, sc *domain.Scenario) error {
	overrides, err := encodeOverrides(sc.Overrides)
	if err != nil {
		return fmt.Errorf("encoding overrides for scenario %q: %w", sc.Name, err)
	}
	query := `INSERT INTO scenarios (id, site_id, name, description, overrides_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		sc.ID,
		sc.SiteID,
		sc.Name,
		sc.Description,
		overrides,
		sc.CreatedAt.UTC().Format(stampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting scenario: %w", err)
	}
	return nil
}

func (r *SQLiteScenarioRepo) GetByName(ctx context.Context, siteID, name string) (*domain.Scenario, error) {
	query := `SELECT id, site_id, name, description, overrides_json, created_at
		FROM scenarios WHERE site_id = ? AND name = ? COLLATE NOCASE`
	sc, err := decodeScenario(r.db.QueryRowContext(ctx, query, siteID, name).Scan)
	if err == sql.ErrNoRows {
		return nil, notFound("scenario", name)
	}
	return sc, err
}

func (r *SQLiteScenarioRepo) ListBySite(ctx context.Context, siteID string) ([]*domain.Scenario, error) {
	query := `SELECT id, site_id, name, description, overrides_json, created_at
		FROM scenarios WHERE site_id = ? ORDER BY created_at, name`
	rows, err := r.db.QueryContext(ctx, query, siteID)
	if err != nil {
		return nil, fmt.Errorf("listing scenarios: %w", err)
	}
	defer rows.Close()

	var out []*domain.Scenario
	for rows.Next() {
		sc, err := decodeScenario(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating scenarios: %w", err)
	}
	return out, nil
}

func (r *SQLiteScenarioRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting scenario: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("scenario", id)
	}
	return nil
}

func decodeScenario(scan func(dest ...any) error) (*domain.Scenario, error) {
	var sc domain.Scenario
	var overrides, createdAtStr string
	err := scan(&sc.ID, &sc.SiteID, &sc.Name, &sc.Description, &overrides, &createdAtStr)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning scenario: %w", err)
	}
	if sc.Overrides, err = decodeOverrides(overrides); err != nil {
		return nil, fmt.Errorf("decoding overrides for scenario %s: %w", sc.ID, err)
	}
	if sc.CreatedAt, err = time.Parse(stampLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &sc, nil
}
