package service

import (
	"context"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
)

// Site references accepted by the services are either a site id or a
// case-insensitive site name.

type SiteService interface {
	Create(ctx context.Context, req contract.CreateSiteRequest) (*contract.ScheduleResult, error)
	Get(ctx context.Context, ref string) (*domain.Site, error)
	Show(ctx context.Context, ref string) (*contract.ScheduleResult, error)
	List(ctx context.Context) ([]repository.SiteSummary, error)
	Recompute(ctx context.Context, ref string) (*contract.ScheduleResult, error)
	SyncStatus(ctx context.Context, req contract.StatusSyncRequest) (*contract.StatusSyncResponse, error)
	ApplyLeadTimes(ctx context.Context, req contract.LeadTimeRequest) (*contract.LeadTimeResponse, error)
	ApplyDocumentUpdates(ctx context.Context, req contract.DocumentScanRequest) (*contract.DocumentScanResponse, error)
	SetTarget(ctx context.Context, ref string, target *time.Time) (*contract.ScheduleResult, error)
	Import(ctx context.Context, name string, document []byte) (*contract.ImportResult, error)
	Delete(ctx context.Context, ref string) error
}

type ScenarioService interface {
	Evaluate(ctx context.Context, req contract.ScenarioRequest) (*contract.ScenarioResponse, error)
	List(ctx context.Context, ref string) ([]*domain.Scenario, error)
	Predefined() []domain.Scenario
	Delete(ctx context.Context, ref, name string) error
}

type PortfolioService interface {
	Summary(ctx context.Context) (*contract.PortfolioSummary, error)
}
