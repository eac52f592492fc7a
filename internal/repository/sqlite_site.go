package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/critpath/internal/codec"
	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
)

// SQLiteSiteRepo implements SiteRepo using a SQLite database. The schedule is
// stored as a versioned codec document; summary columns are denormalized from
// it on every write.
type SQLiteSiteRepo struct {
	db db.DBTX
}

// NewSQLiteSiteRepo creates a new SQLiteSiteRepo.
func NewSQLiteSiteRepo(conn db.DBTX) *SQLiteSiteRepo {
	return &SQLiteSiteRepo{db: conn}
}

const siteColumns = `id, name, version, data_json, created_at, updated_at`

const summaryColumns = `id, name, version, catalog_version, target_mw, iso, schedule_risk,
	duration_risk, primary_driver, energization, total_weeks, updated_at`

// summary holds the columns derived from a site's document.
type summary struct {
	catalogVersion string
	targetMW       int
	iso            string
	scheduleRisk   string
	durationRisk   string
	primaryDriver  string
	energization   interface{}
	totalWeeks     int
}

func summarize(d *domain.CriticalPathData) summary {
	return summary{
		catalogVersion: d.CatalogVersion,
		targetMW:       d.Config.TargetMW,
		iso:            d.Config.ISO,
		scheduleRisk:   string(d.ScheduleRisk),
		durationRisk:   string(d.DurationRisk),
		primaryDriver:  d.PrimaryDriver,
		energization:   nullableTimeToString(d.CalculatedEnergization, dateLayout),
		totalWeeks:     d.TotalDurationWeeks,
	}
}

func (r *SQLiteSiteRepo) Create(ctx context.Context, s *domain.Site) error {
	if s.Data == nil {
		return fmt.Errorf("inserting site: nil schedule data")
	}
	doc, err := codec.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encoding site %s: %w", s.ID, err)
	}
	if s.Version == 0 {
		s.Version = 1
	}
	sum := summarize(s.Data)
	query := `INSERT INTO sites (id, name, version, data_json, catalog_version, target_mw, iso,
		schedule_risk, duration_risk, primary_driver, energization, total_weeks, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		s.ID,
		s.Name,
		s.Version,
		string(doc),
		sum.catalogVersion,
		sum.targetMW,
		sum.iso,
		sum.scheduleRisk,
		sum.durationRisk,
		sum.primaryDriver,
		sum.energization,
		sum.totalWeeks,
		s.CreatedAt.UTC().Format(stampLayout),
		s.UpdatedAt.UTC().Format(stampLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting site: %w", err)
	}
	return nil
}

func (r *SQLiteSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE id = ?`
	return r.scanSite(r.db.QueryRowContext(ctx, query, id), id)
}

func (r *SQLiteSiteRepo) GetByName(ctx context.Context, name string) (*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites WHERE name = ? COLLATE NOCASE`
	return r.scanSite(r.db.QueryRowContext(ctx, query, name), name)
}

func (r *SQLiteSiteRepo) List(ctx context.Context) ([]*domain.Site, error) {
	query := `SELECT ` + siteColumns + ` FROM sites ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing sites: %w", err)
	}
	defer rows.Close()

	var sites []*domain.Site
	for rows.Next() {
		s, err := decodeSite(rows.Scan)
		if err != nil {
			return nil, err
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sites: %w", err)
	}
	return sites, nil
}

func (r *SQLiteSiteRepo) ListSummaries(ctx context.Context) ([]SiteSummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM sites ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing site summaries: %w", err)
	}
	defer rows.Close()

	var out []SiteSummary
	for rows.Next() {
		var s SiteSummary
		var risk, durationRisk, updatedAtStr string
		var energization sql.NullString
		err := rows.Scan(
			&s.ID, &s.Name, &s.Version, &s.CatalogVersion,
			&s.TargetMW, &s.ISO, &risk, &durationRisk,
			&s.PrimaryDriver, &energization, &s.TotalWeeks, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning site summary: %w", err)
		}
		s.ScheduleRisk = domain.RiskLevel(risk)
		s.DurationRisk = domain.RiskLevel(durationRisk)
		s.Energization = parseNullableTime(energization, dateLayout)
		if s.UpdatedAt, err = time.Parse(stampLayout, updatedAtStr); err != nil {
			return nil, fmt.Errorf("parsing updated_at: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating site summaries: %w", err)
	}
	return out, nil
}

// Update writes s if the stored version still equals s.Version, then bumps
// s.Version. A stale version yields ErrVersionConflict.
func (r *SQLiteSiteRepo) Update(ctx context.Context, s *domain.Site) error {
	if s.Data == nil {
		return fmt.Errorf("updating site: nil schedule data")
	}
	doc, err := codec.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("encoding site %s: %w", s.ID, err)
	}
	sum := summarize(s.Data)
	query := `UPDATE sites SET name = ?, version = version + 1, data_json = ?, catalog_version = ?,
		target_mw = ?, iso = ?, schedule_risk = ?, duration_risk = ?, primary_driver = ?,
		energization = ?, total_weeks = ?, updated_at = ?
		WHERE id = ? AND version = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Name,
		string(doc),
		sum.catalogVersion,
		sum.targetMW,
		sum.iso,
		sum.scheduleRisk,
		sum.durationRisk,
		sum.primaryDriver,
		sum.energization,
		sum.totalWeeks,
		s.UpdatedAt.UTC().Format(stampLayout),
		s.ID,
		s.Version,
	)
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating site: %w", err)
	}
	if n == 0 {
		var stored int
		err := r.db.QueryRowContext(ctx, `SELECT version FROM sites WHERE id = ?`, s.ID).Scan(&stored)
		if err == sql.ErrNoRows {
			return notFound("site", s.ID)
		}
		if err != nil {
			return fmt.Errorf("checking site version: %w", err)
		}
		return fmt.Errorf("site %s at version %d, stored %d: %w", s.ID, s.Version, stored, ErrVersionConflict)
	}
	s.Version++
	return nil
}

func (r *SQLiteSiteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sites WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting site: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound("site", id)
	}
	return nil
}

func (r *SQLiteSiteRepo) scanSite(row *sql.Row, key string) (*domain.Site, error) {
	s, err := decodeSite(row.Scan)
	if err == sql.ErrNoRows {
		return nil, notFound("site", key)
	}
	return s, err
}

// decodeSite scans siteColumns through scan, which is either
// (*sql.Row).Scan or (*sql.Rows).Scan. sql.ErrNoRows is returned unwrapped.
func decodeSite(scan func(dest ...any) error) (*domain.Site, error) {
	var s domain.Site
	var doc, createdAtStr, updatedAtStr string
	err := scan(&s.ID, &s.Name, &s.Version, &doc, &createdAtStr, &updatedAtStr)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning site: %w", err)
	}
	if s.Data, err = codec.Unmarshal([]byte(doc)); err != nil {
		return nil, fmt.Errorf("decoding site %s: %w", s.ID, err)
	}
	if s.CreatedAt, err = time.Parse(stampLayout, createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if s.UpdatedAt, err = time.Parse(stampLayout, updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &s, nil
}
