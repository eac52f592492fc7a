package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// SiteSummary is the indexed projection of a site row, read without decoding
// the stored schedule document.
type SiteSummary struct {
	ID             string
	Name           string
	Version        int
	CatalogVersion string
	TargetMW       int
	ISO            string
	ScheduleRisk   domain.RiskLevel
	DurationRisk   domain.RiskLevel
	PrimaryDriver  string
	Energization   *time.Time
	TotalWeeks     int
	UpdatedAt      time.Time
}

type SiteRepo interface {
	Create(ctx context.Context, s *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	GetByName(ctx context.Context, name string) (*domain.Site, error)
	List(ctx context.Context) ([]*domain.Site, error)
	ListSummaries(ctx context.Context) ([]SiteSummary, error)
	Update(ctx context.Context, s *domain.Site) error
	Delete(ctx context.Context, id string) error
}

type ScenarioRepo interface {
	Create(ctx context.Context, sc *domain.Scenario) error
	GetByName(ctx context.Context, siteID, name string) (*domain.Scenario, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.Scenario, error)
	Delete(ctx context.Context, id string) error
}
