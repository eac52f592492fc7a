package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/scenario"
	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

type scenarioService struct {
	sites     repository.SiteRepo
	scenarios repository.ScenarioRepo
	engine    *scheduler.Engine
	baselines singleflight.Group
	observer  UseCaseObserver
}

func NewScenarioService(
	sites repository.SiteRepo,
	scenarios repository.ScenarioRepo,
	engine *scheduler.Engine,
	observers ...UseCaseObserver,
) ScenarioService {
	return &scenarioService{
		sites:     sites,
		scenarios: scenarios,
		engine:    engine,
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *scenarioService) Predefined() []domain.Scenario {
	return scenario.Predefined()
}

// baseline recomputes the stored schedule against the current catalog
// without persisting it. Concurrent evaluations of one site version share a
// single computation.
func (s *scenarioService) baseline(st *domain.Site) (*domain.Site, error) {
	key := fmt.Sprintf("%s@%d", st.ID, st.Version)
	v, err, _ := s.baselines.Do(key, func() (interface{}, error) {
		data, _ := upgrade(s.engine, st.Data)
		return s.engine.Recompute(data)
	})
	if err != nil {
		return nil, err
	}
	out := *st
	out.Data = v.(*domain.CriticalPathData).Clone()
	return &out, nil
}

// pick resolves the scenario to run: a predefined scenario by name, an
// ad-hoc override set, or a saved scenario by name.
func (s *scenarioService) pick(ctx context.Context, st *domain.Site, req contract.ScenarioRequest) (domain.Scenario, bool, error) {
	switch {
	case req.Predefined != "":
		sc, ok := scenario.FindPredefined(req.Predefined)
		if !ok {
			return domain.Scenario{}, false, &domain.LookupError{Kind: "predefined scenario", ID: req.Predefined}
		}
		if req.Name != "" {
			sc.Name = req.Name
		}
		return sc, false, nil
	case len(req.Overrides) > 0:
		name := domain.CoalesceStr(strings.TrimSpace(req.Name), "ad-hoc")
		return scenario.Create(name, req.Description, req.Overrides...), false, nil
	case req.Name != "":
		saved, err := s.scenarios.GetByName(ctx, st.ID, req.Name)
		if err != nil {
			return domain.Scenario{}, false, err
		}
		return *saved, true, nil
	default:
		return domain.Scenario{}, false, &domain.ValidationError{Field: "scenario", Message: "a predefined name, overrides or a saved scenario name is required"}
	}
}

func (s *scenarioService) Evaluate(ctx context.Context, req contract.ScenarioRequest) (res *contract.ScenarioResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": req.Site}
	defer observe(ctx, s.observer, "evaluate-scenario", startedAt, fields, &err)

	st, err := resolveSite(ctx, s.sites, req.Site)
	if err != nil {
		return nil, err
	}
	sc, stored, err := s.pick(ctx, st, req)
	if err != nil {
		return nil, err
	}
	fields["scenario"] = sc.Name
	fields["overrides"] = len(sc.Overrides)

	base, err := s.baseline(st)
	if err != nil {
		return nil, err
	}
	variant, report, err := scenario.Apply(s.engine, base.Data, sc)
	if err != nil {
		return nil, err
	}

	res = &contract.ScenarioResponse{
		Scenario:   sc,
		Baseline:   contract.NewScheduleResult(base, s.engine.Catalog()),
		Variant:    contract.NewScheduleResult(&domain.Site{ID: st.ID, Name: st.Name, Version: st.Version, Data: variant}, s.engine.Catalog()),
		Comparison: scenario.Compare(base.Data, variant),
		Outcomes:   report.Outcomes,
		Saved:      stored,
	}
	fields["delta_weeks"] = res.Comparison.DeltaWeeks
	fields["rejected"] = len(report.Rejected())

	if req.Save && !stored {
		saved := sc.Clone()
		saved.ID = uuid.New().String()
		saved.SiteID = st.ID
		saved.CreatedAt = s.engine.Now().Truncate(time.Second)
		if err := s.scenarios.Create(ctx, &saved); err != nil {
			return nil, fmt.Errorf("saving scenario %q: %w", saved.Name, err)
		}
		res.Scenario = saved
		res.Saved = true
	}
	return res, nil
}

func (s *scenarioService) List(ctx context.Context, ref string) ([]*domain.Scenario, error) {
	st, err := resolveSite(ctx, s.sites, ref)
	if err != nil {
		return nil, err
	}
	return s.scenarios.ListBySite(ctx, st.ID)
}

func (s *scenarioService) Delete(ctx context.Context, ref, name string) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"site": ref, "scenario": name}
	defer observe(ctx, s.observer, "delete-scenario", startedAt, fields, &err)

	st, err := resolveSite(ctx, s.sites, ref)
	if err != nil {
		return err
	}
	sc, err := s.scenarios.GetByName(ctx, st.ID, name)
	if err != nil {
		return err
	}
	return s.scenarios.Delete(ctx, sc.ID)
}
