package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/alexanderramin/critpath/internal/site"
	"golang.org/x/sync/errgroup"
)

// DefaultPortfolioWorkers bounds concurrent site recomputes.
const DefaultPortfolioWorkers = 4

type portfolioService struct {
	sites    repository.SiteRepo
	engine   *scheduler.Engine
	workers  int
	observer UseCaseObserver
}

func NewPortfolioService(
	sites repository.SiteRepo,
	engine *scheduler.Engine,
	workers int,
	observers ...UseCaseObserver,
) PortfolioService {
	if workers <= 0 {
		workers = DefaultPortfolioWorkers
	}
	return &portfolioService{
		sites:    sites,
		engine:   engine,
		workers:  workers,
		observer: useCaseObserverOrNoop(observers),
	}
}

// Summary recomputes every site on its own snapshot and aggregates the
// results. Nothing is persisted. A site that fails to recompute is reported
// with its stored values and the error; it does not fail the summary.
func (s *portfolioService) Summary(ctx context.Context) (res *contract.PortfolioSummary, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"workers": s.workers}
	defer observe(ctx, s.observer, "portfolio-summary", startedAt, fields, &err)

	sites, err := s.sites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sites: %w", err)
	}
	fields["sites"] = len(sites)

	lines := make([]contract.PortfolioSite, len(sites))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, st := range sites {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines[i] = s.line(st)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, l := range lines {
		if l.Error != "" {
			failed++
		}
	}
	fields["failed"] = failed

	sum := contract.NewPortfolioSummary(s.engine.Now().Truncate(time.Second), lines)
	return &sum, nil
}

func (s *portfolioService) line(st *domain.Site) contract.PortfolioSite {
	l := contract.PortfolioSite{
		SiteID:       st.ID,
		SiteName:     st.Name,
		CatalogDrift: site.NeedsReconcile(s.engine.Catalog(), st.Data),
	}
	data, _ := upgrade(s.engine, st.Data)
	computed, err := s.engine.Recompute(data)
	if err != nil {
		l.Error = err.Error()
		computed = st.Data
	}
	l.Energization = computed.CalculatedEnergization
	l.TotalWeeks = computed.TotalDurationWeeks
	l.ScheduleRisk = computed.ScheduleRisk
	l.PrimaryDriver = computed.PrimaryDriver
	l.PrimaryDriverWorkstream = computed.PrimaryDriverWorkstream
	return l
}
