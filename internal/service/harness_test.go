package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/testutil"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) last() UseCaseEvent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.events[len(o.events)-1]
}

type harness struct {
	db        *sql.DB
	siteRepo  *repository.SQLiteSiteRepo
	sites     SiteService
	scenarios ScenarioService
	portfolio PortfolioService
	observer  *recordingObserver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithUoW(t, nil)
}

func newHarnessWithUoW(t *testing.T, uow func(*sql.DB) db.UnitOfWork) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)
	engine := testutil.TestEngine()
	obs := &recordingObserver{}
	siteRepo := repository.NewSQLiteSiteRepo(database)
	scenarioRepo := repository.NewSQLiteScenarioRepo(database)

	var u db.UnitOfWork = testutil.NewTestUoW(database)
	if uow != nil {
		u = uow(database)
	}
	return &harness{
		db:        database,
		siteRepo:  siteRepo,
		sites:     NewSiteService(siteRepo, u, engine, obs),
		scenarios: NewScenarioService(siteRepo, scenarioRepo, engine, obs),
		portfolio: NewPortfolioService(siteRepo, engine, 2, obs),
		observer:  obs,
	}
}

func (h *harness) createSite(t *testing.T, name string, mw int) *contract.ScheduleResult {
	t.Helper()
	start := domain.Date(2025, time.January, 6)
	res, err := h.sites.Create(context.Background(), contract.CreateSiteRequest{
		Name:         name,
		TargetMW:     mw,
		ISO:          "SPP",
		ProjectStart: &start,
	})
	require.NoError(t, err)
	return res
}
