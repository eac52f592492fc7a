package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/codec"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/db"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/alexanderramin/critpath/internal/site"
	"github.com/google/uuid"
)

type siteService struct {
	sites    repository.SiteRepo
	uow      db.UnitOfWork
	engine   *scheduler.Engine
	locks    *siteLocks
	observer UseCaseObserver
}

func NewSiteService(
	sites repository.SiteRepo,
	uow db.UnitOfWork,
	engine *scheduler.Engine,
	observers ...UseCaseObserver,
) SiteService {
	return &siteService{
		sites:    sites,
		uow:      uow,
		engine:   engine,
		locks:    newSiteLocks(),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *siteService) result(st *domain.Site, reconciled []string) *contract.ScheduleResult {
	res := contract.NewScheduleResult(st, s.engine.Catalog())
	res.Reconciled = reconciled
	return &res
}

func (s *siteService) Create(ctx context.Context, req contract.CreateSiteRequest) (res *contract.ScheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": req.Name}
	defer observe(ctx, s.observer, "create-site", startedAt, fields, &err)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Value: req.Name, Message: "must not be empty"}
	}
	id := uuid.New().String()
	data, err := site.Initialize(s.engine, site.Params{
		SiteID:             id,
		TargetMW:           req.TargetMW,
		VoltageKV:          req.VoltageKV,
		ISO:                req.ISO,
		IncludeBTM:         req.IncludeBTM,
		ProjectStart:       req.ProjectStart,
		TargetEnergization: req.TargetEnergization,
	})
	if err != nil {
		return nil, err
	}
	now := s.engine.Now().Truncate(time.Second)
	st := &domain.Site{ID: id, Name: name, Version: 1, Data: data, CreatedAt: now, UpdatedAt: now}
	if err := s.sites.Create(ctx, st); err != nil {
		return nil, fmt.Errorf("creating site %q: %w", name, err)
	}
	fields["site_id"] = id
	fields["energization"] = formatDate(data.CalculatedEnergization)
	return s.result(st, nil), nil
}

func (s *siteService) Get(ctx context.Context, ref string) (*domain.Site, error) {
	return resolveSite(ctx, s.sites, ref)
}

func (s *siteService) Show(ctx context.Context, ref string) (*contract.ScheduleResult, error) {
	st, err := resolveSite(ctx, s.sites, ref)
	if err != nil {
		return nil, err
	}
	return s.result(st, nil), nil
}

func (s *siteService) List(ctx context.Context) ([]repository.SiteSummary, error) {
	return s.sites.ListSummaries(ctx)
}

// mutate runs fn against the site's current schedule and persists the
// recomputed result. The site is upgraded to the current catalog first. If
// fn or the recompute fails nothing is written.
func (s *siteService) mutate(
	ctx context.Context,
	ref string,
	fn func(data *domain.CriticalPathData, now time.Time) (*domain.CriticalPathData, error),
) (*domain.Site, []string, error) {
	target, err := resolveSite(ctx, s.sites, ref)
	if err != nil {
		return nil, nil, err
	}

	s.locks.Lock(target.ID)
	defer s.locks.Unlock(target.ID)

	var saved *domain.Site
	var added []string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSites := repository.NewSQLiteSiteRepo(tx)

		current, err := txSites.GetByID(ctx, target.ID)
		if err != nil {
			return err
		}
		now := s.engine.Now().Truncate(time.Second)
		var data *domain.CriticalPathData
		data, added = upgrade(s.engine, current.Data)
		if fn != nil {
			if data, err = fn(data, now); err != nil {
				return err
			}
		}
		if data, err = s.engine.Recompute(data); err != nil {
			return err
		}
		current.Data = data
		current.UpdatedAt = now
		if err := txSites.Update(ctx, current); err != nil {
			return err
		}
		saved = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return saved, added, nil
}

func (s *siteService) Recompute(ctx context.Context, ref string) (res *contract.ScheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": ref}
	defer observe(ctx, s.observer, "recompute", startedAt, fields, &err)

	st, added, err := s.mutate(ctx, ref, nil)
	if err != nil {
		return nil, err
	}
	fields["reconciled"] = len(added)
	fields["energization"] = formatDate(st.Data.CalculatedEnergization)
	fields["notes"] = len(st.Data.Notes)
	return s.result(st, added), nil
}

func (s *siteService) SyncStatus(ctx context.Context, req contract.StatusSyncRequest) (res *contract.StatusSyncResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": req.Site, "source": string(req.Source), "phases": len(req.Phases)}
	defer observe(ctx, s.observer, "sync-status", startedAt, fields, &err)

	routes := req.Routes
	if routes == nil {
		routes = intake.DefaultPhaseMap()
	}
	var synced intake.SyncResult
	st, added, err := s.mutate(ctx, req.Site, func(data *domain.CriticalPathData, now time.Time) (*domain.CriticalPathData, error) {
		var out *domain.CriticalPathData
		out, synced = intake.SyncStatuses(data, req.Source, req.Phases, routes, now)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	fields["changed"] = len(synced.Changed())
	fields["rejected"] = len(synced.Rejected)
	return &contract.StatusSyncResponse{
		Schedule: *s.result(st, added),
		Changes:  synced.Changed(),
		Rejected: synced.Rejected,
	}, nil
}

func (s *siteService) ApplyLeadTimes(ctx context.Context, req contract.LeadTimeRequest) (res *contract.LeadTimeResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": req.Site, "source": req.Source}
	defer observe(ctx, s.observer, "apply-lead-times", startedAt, fields, &err)

	out := &contract.LeadTimeResponse{Applied: map[string]int{}}
	merge := func(r intake.LeadTimeResult) {
		for k, v := range r.Applied {
			out.Applied[k] = v
		}
		out.Rejected = append(out.Rejected, r.Rejected...)
		out.Notes = append(out.Notes, r.Notes...)
	}
	st, added, err := s.mutate(ctx, req.Site, func(data *domain.CriticalPathData, now time.Time) (*domain.CriticalPathData, error) {
		if len(req.Updates) > 0 {
			var r intake.LeadTimeResult
			data, r = intake.ApplyLeadTimes(s.engine.Catalog(), data, req.Source, req.Updates, now)
			merge(r)
		}
		if req.ISO != "" && len(req.Timeline) > 0 {
			var r intake.LeadTimeResult
			data, r = intake.ApplyISOTimeline(data, req.ISO, req.Timeline, now)
			merge(r)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	fields["applied"] = len(out.Applied)
	fields["rejected"] = len(out.Rejected)
	out.Schedule = *s.result(st, added)
	return out, nil
}

func (s *siteService) ApplyDocumentUpdates(ctx context.Context, req contract.DocumentScanRequest) (res *contract.DocumentScanResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": req.Site, "updates": len(req.Updates)}
	defer observe(ctx, s.observer, "apply-document-updates", startedAt, fields, &err)

	minConfidence := req.MinConfidence
	if minConfidence <= 0 {
		minConfidence = intake.DefaultMinConfidence
	}
	var doc intake.DocumentResult
	st, added, err := s.mutate(ctx, req.Site, func(data *domain.CriticalPathData, now time.Time) (*domain.CriticalPathData, error) {
		var out *domain.CriticalPathData
		out, doc = intake.ApplyDocumentUpdates(data, req.Updates, minConfidence, now)
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	fields["applied"] = len(doc.Applied)
	fields["rejected"] = len(doc.Rejected)
	return &contract.DocumentScanResponse{
		Schedule: *s.result(st, added),
		Applied:  doc.Applied,
		Rejected: doc.Rejected,
	}, nil
}

func (s *siteService) SetTarget(ctx context.Context, ref string, target *time.Time) (res *contract.ScheduleResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": ref, "target": formatDate(target)}
	defer observe(ctx, s.observer, "set-target", startedAt, fields, &err)

	st, added, err := s.mutate(ctx, ref, func(data *domain.CriticalPathData, _ time.Time) (*domain.CriticalPathData, error) {
		out := data.Clone()
		out.Config.TargetEnergization = nil
		if target != nil {
			out.Config.TargetEnergization = domain.TimePtr(domain.CivilDate(*target))
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	fields["schedule_risk"] = string(st.Data.ScheduleRisk)
	return s.result(st, added), nil
}

// Import stores a serialized schedule document as a new site. Scenarios
// embedded in first-generation documents are imported with it. The site is
// upgraded to the current catalog and recomputed before it is stored.
func (s *siteService) Import(ctx context.Context, name string, document []byte) (res *contract.ImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": name, "bytes": len(document)}
	defer observe(ctx, s.observer, "import-site", startedAt, fields, &err)

	version, err := codec.Version(document)
	if err != nil {
		return nil, err
	}
	data, err := codec.Unmarshal(document)
	if err != nil {
		return nil, err
	}
	var scenarios []domain.Scenario
	if version == 1 {
		if scenarios, err = codec.LegacyScenarios(document); err != nil {
			return nil, err
		}
	}

	name = domain.CoalesceStr(strings.TrimSpace(name), data.Config.SiteID)
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Message: "document has no site_id; a name is required"}
	}
	id := uuid.New().String()
	data.Config.SiteID = id

	data, added := upgrade(s.engine, data)
	if data, err = s.engine.Recompute(data); err != nil {
		return nil, err
	}

	now := s.engine.Now().Truncate(time.Second)
	st := &domain.Site{ID: id, Name: name, Version: 1, Data: data, CreatedAt: now, UpdatedAt: now}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteSiteRepo(tx).Create(ctx, st); err != nil {
			return err
		}
		txScenarios := repository.NewSQLiteScenarioRepo(tx)
		for i := range scenarios {
			sc := scenarios[i]
			sc.ID = uuid.New().String()
			sc.SiteID = id
			sc.CreatedAt = now
			if err := txScenarios.Create(ctx, &sc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing site %q: %w", name, err)
	}
	fields["site_id"] = id
	fields["legacy"] = version == 1
	fields["scenarios"] = len(scenarios)
	return &contract.ImportResult{
		Schedule:  *s.result(st, added),
		Legacy:    version == 1,
		Scenarios: len(scenarios),
	}, nil
}

func (s *siteService) Delete(ctx context.Context, ref string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": ref}
	defer observe(ctx, s.observer, "delete-site", startedAt, fields, &err)

	st, err := resolveSite(ctx, s.sites, ref)
	if err != nil {
		return err
	}
	s.locks.Lock(st.ID)
	defer s.locks.Unlock(st.ID)
	return s.sites.Delete(ctx, st.ID)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
