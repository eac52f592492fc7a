package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/alexanderramin/critpath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteService_CreateShowList(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	created := h.createSite(t, "Abilene North", 300)
	assert.Equal(t, "Abilene North", created.SiteName)
	assert.Equal(t, 1, created.Version)
	require.NotNil(t, created.Energization)
	assert.Greater(t, created.TotalWeeks, 0)
	assert.NotEmpty(t, created.CriticalPath)
	assert.Equal(t, "POST-UTL-09", created.CriticalPath[len(created.CriticalPath)-1])

	byName, err := h.sites.Show(ctx, "abilene north")
	require.NoError(t, err)
	assert.Equal(t, created.SiteID, byName.SiteID)

	byID, err := h.sites.Show(ctx, created.SiteID)
	require.NoError(t, err)
	assert.Equal(t, created.Energization, byID.Energization)

	h.createSite(t, "Amarillo", 100)
	list, err := h.sites.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abilene North", list[0].Name)
	assert.Equal(t, "Amarillo", list[1].Name)

	ev := h.observer.last()
	assert.Equal(t, "create-site", ev.Name)
	assert.True(t, ev.Success)
}

func TestSiteService_CreateRejectsEmptyName(t *testing.T) {
	h := newHarness(t)

	_, err := h.sites.Create(context.Background(), contract.CreateSiteRequest{Name: "  "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	ev := h.observer.last()
	assert.False(t, ev.Success)
	assert.Equal(t, "validation", errorKind(ev.Err))
}

func TestSiteService_ShowUnknownSite(t *testing.T) {
	h := newHarness(t)

	_, err := h.sites.Show(context.Background(), "nowhere")
	var lookup *domain.LookupError
	require.ErrorAs(t, err, &lookup)
	assert.Equal(t, "site", lookup.Kind)
	assert.Equal(t, "nowhere", lookup.ID)
}

func TestSiteService_RecomputeBumpsVersion(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created := h.createSite(t, "Waco", 200)

	res, err := h.sites.Recompute(ctx, "Waco")
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)
	assert.Empty(t, res.Reconciled)
	assert.Equal(t, created.Energization, res.Energization)
	require.NotNil(t, res.LastCalculated)
	assert.True(t, res.LastCalculated.Equal(testutil.Clock))
}

func TestSiteService_RecomputeReconcilesCatalogDrift(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created := h.createSite(t, "Temple", 200)

	st, err := h.siteRepo.GetByID(ctx, created.SiteID)
	require.NoError(t, err)
	delete(st.Data.Milestones, "POST-EQ-05")
	st.Data.CatalogVersion = "2024.1"
	require.NoError(t, h.siteRepo.Update(ctx, st))

	res, err := h.sites.Recompute(ctx, created.SiteID)
	require.NoError(t, err)
	assert.Equal(t, []string{"POST-EQ-05"}, res.Reconciled)
	assert.Equal(t, testutil.TestEngine().Catalog().Version(), res.CatalogVersion)

	stored, err := h.sites.Get(ctx, created.SiteID)
	require.NoError(t, err)
	assert.Contains(t, stored.Data.Milestones, "POST-EQ-05")
}

func TestSiteService_SyncStatus(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createSite(t, "Lubbock", 150)

	res, err := h.sites.SyncStatus(ctx, contract.NewStatusSyncRequest("Lubbock", map[string]string{
		"site_control": "Executed",
		"zoning":       "mostly there",
		"bogus_phase":  "Executed",
	}))
	require.NoError(t, err)
	require.Len(t, res.Changes, 1)
	assert.Equal(t, "PS-SC-02", res.Changes[0].MilestoneID)
	assert.Equal(t, domain.StatusComplete, res.Changes[0].To)
	assert.Len(t, res.Rejected, 2)
	assert.Equal(t, 2, res.Schedule.Version)

	st, err := h.sites.Get(ctx, "Lubbock")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, st.Data.Milestones["PS-SC-02"].Status)
	assert.Len(t, st.Data.DocumentScanHistory[intake.KeyStatusSyncs], 1)

	ev := h.observer.last()
	assert.Equal(t, "sync-status", ev.Name)
	assert.Equal(t, 1, ev.Fields["changed"])
	assert.Equal(t, 2, ev.Fields["rejected"])
}

func TestSiteService_ApplyLeadTimes(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createSite(t, "Midland", 300)

	res, err := h.sites.ApplyLeadTimes(ctx, contract.LeadTimeRequest{
		Site:    "Midland",
		Source:  "vendor survey",
		Updates: map[string]any{"transformer": 200, "breakers_hv": -4},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"transformer": 200}, res.Applied)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, 2, res.Schedule.Version)

	st, err := h.sites.Get(ctx, "Midland")
	require.NoError(t, err)
	assert.Equal(t, 200, st.Data.Config.LeadTimeOverrides["transformer"])
}

func TestSiteService_ApplyDocumentUpdates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createSite(t, "Odessa", 120)

	res, err := h.sites.ApplyDocumentUpdates(ctx, contract.NewDocumentScanRequest("Odessa", []intake.ProposedUpdate{
		{MilestoneID: "PS-SC-02", UpdateType: intake.UpdateStatusChange, NewValue: "finished", Confidence: 0.9},
		{MilestoneID: "PS-SC-03", UpdateType: intake.UpdateDurationChange, NewValue: 20, Confidence: 0.4},
	}))
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	assert.Equal(t, "PS-SC-02", res.Applied[0].MilestoneID)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "confidence", res.Rejected[0].Kind)

	st, err := h.sites.Get(ctx, "Odessa")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusComplete, st.Data.Milestones["PS-SC-02"].Status)
	assert.Nil(t, st.Data.Milestones["PS-SC-03"].DurationOverride)
}

func TestSiteService_SetTargetChangesRisk(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createSite(t, "Tyler", 300)

	tight := domain.Date(2026, time.January, 1)
	res, err := h.sites.SetTarget(ctx, "Tyler", &tight)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, res.ScheduleRisk)

	loose := domain.Date(2040, time.January, 1)
	res, err = h.sites.SetTarget(ctx, "Tyler", &loose)
	require.NoError(t, err)
	assert.Equal(t, domain.RiskLow, res.ScheduleRisk)
	assert.Equal(t, 3, res.Version)

	res, err = h.sites.SetTarget(ctx, "Tyler", nil)
	require.NoError(t, err)
	st, err := h.sites.Get(ctx, "Tyler")
	require.NoError(t, err)
	assert.Nil(t, st.Data.Config.TargetEnergization)
	assert.Equal(t, 4, res.Version)
}

func TestSiteService_MutationRollsBackOnWriteFailure(t *testing.T) {
	boom := errors.New("disk full")
	h := newHarnessWithUoW(t, func(database *sql.DB) db.UnitOfWork {
		return &testutil.FailOnNthExecUoW{DB: database, FailOn: 1, Err: boom}
	})
	ctx := context.Background()
	created := h.createSite(t, "Killeen", 200)

	_, err := h.sites.SyncStatus(ctx, contract.NewStatusSyncRequest("Killeen", map[string]string{"site_control": "Executed"}))
	require.ErrorIs(t, err, boom)

	st, err := h.sites.Get(ctx, created.SiteID)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Version)
	assert.Equal(t, domain.StatusNotStarted, st.Data.Milestones["PS-SC-02"].Status)
}

func TestSiteService_ConfigurationErrorLeavesSiteUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	created := h.createSite(t, "Brownwood", 200)

	st, err := h.siteRepo.GetByID(ctx, created.SiteID)
	require.NoError(t, err)
	st.Data.Milestones["POST-UTL-09"].Active = false
	require.NoError(t, h.siteRepo.Update(ctx, st))

	_, err = h.sites.Recompute(ctx, created.SiteID)
	require.ErrorIs(t, err, domain.ErrConfiguration)

	after, err := h.sites.Get(ctx, created.SiteID)
	require.NoError(t, err)
	assert.Equal(t, 2, after.Version)
	assert.Equal(t, "configuration", errorKind(h.observer.last().Err))
}

func TestSiteService_ImportLegacyDocument(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	res, err := h.sites.Import(ctx, "", []byte(legacyDocument))
	require.NoError(t, err)
	assert.True(t, res.Legacy)
	assert.Equal(t, 1, res.Scenarios)
	assert.Equal(t, "legacy-7", res.Schedule.SiteName)
	assert.NotEqual(t, "legacy-7", res.Schedule.SiteID)
	assert.Equal(t, "PJM", res.Schedule.ISO)

	st, err := h.sites.Get(ctx, "legacy-7")
	require.NoError(t, err)
	assert.Equal(t, st.ID, st.Data.Config.SiteID)
	assert.Equal(t, domain.StatusComplete, st.Data.Milestones["PS-SC-01"].Status)
	assert.False(t, st.Data.Milestones["POST-BTM-01"].Active)

	saved, err := h.scenarios.List(ctx, "legacy-7")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Fast studies", saved[0].Name)

	_, err = h.sites.Import(ctx, "", []byte(legacyDocument))
	require.Error(t, err, "names are unique")
}

func TestSiteService_ImportRequiresName(t *testing.T) {
	h := newHarness(t)

	_, err := h.sites.Import(context.Background(), "", []byte(`{"schema_version": 2, "config": {"target_mw": 100}}`))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSiteService_Delete(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.createSite(t, "Abilene", 100)

	require.NoError(t, h.sites.Delete(ctx, "Abilene"))
	_, err := h.sites.Get(ctx, "Abilene")
	assert.ErrorIs(t, err, domain.ErrLookup)
	assert.ErrorIs(t, h.sites.Delete(ctx, "Abilene"), domain.ErrLookup)
}

const legacyDocument = `{
  "config": {"site_id": "legacy-7", "target_energization": "2029-03-01", "target_mw": 300,
             "iso": "pjm", "include_btm": false},
  "milestones": {
    "PS-SC-01": {"template_id": "PS-SC-01", "status": "Complete", "is_active": true},
    "PS-SC-02": {"template_id": "PS-SC-02", "status": "At Risk", "duration_override": 6},
    "POST-BTM-01": {"template_id": "POST-BTM-01", "status": "N/A"}
  },
  "scenarios": {
    "scenario_20250101": {"name": "Fast studies", "description": "d",
      "overrides": [{"milestone_id": "PS-PWR-05", "field": "duration", "new_value": 26}]}
  },
  "critical_path": [],
  "total_duration_weeks": 0,
  "schedule_risk": "low"
}`
