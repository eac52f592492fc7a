// Package site creates and upgrades per-site schedule data against the
// milestone catalog.
package site

import (
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/scheduler"
)

const (
	DefaultTargetMW = 200
	DefaultISO      = "SPP"
)

// Params describes a new site. Zero values fall back to DefaultTargetMW,
// DefaultISO and a voltage derived from TargetMW.
type Params struct {
	SiteID             string
	TargetMW           int
	VoltageKV          int
	ISO                string
	IncludeBTM         bool
	ProjectStart       *time.Time
	TargetEnergization *time.Time
}

func (p Params) config(cat *catalog.Catalog) (domain.CriticalPathConfig, error) {
	if p.TargetMW < 0 {
		return domain.CriticalPathConfig{}, &domain.ValidationError{Field: "target_mw", Value: p.TargetMW, Message: "must be non-negative"}
	}
	if p.VoltageKV < 0 {
		return domain.CriticalPathConfig{}, &domain.ValidationError{Field: "voltage_kv", Value: p.VoltageKV, Message: "must be non-negative"}
	}
	cfg := domain.CriticalPathConfig{
		SiteID:     p.SiteID,
		TargetMW:   p.TargetMW,
		VoltageKV:  p.VoltageKV,
		ISO:        strings.ToUpper(strings.TrimSpace(p.ISO)),
		IncludeBTM: p.IncludeBTM,
	}
	if cfg.TargetMW == 0 {
		cfg.TargetMW = DefaultTargetMW
	}
	if cfg.ISO == "" {
		cfg.ISO = DefaultISO
	}
	if cfg.VoltageKV == 0 {
		cfg.VoltageKV = catalog.VoltageForMW(cfg.TargetMW)
	}
	if p.ProjectStart != nil {
		cfg.ProjectStart = domain.TimePtr(domain.CivilDate(*p.ProjectStart))
	}
	if p.TargetEnergization != nil {
		cfg.TargetEnergization = domain.TimePtr(domain.CivilDate(*p.TargetEnergization))
	}
	cfg.LeadTimeOverrides = cat.SiteLeadTimes(cfg.VoltageKV, cfg.ISO)
	return cfg, nil
}

// Initialize builds schedule data for a new site with one instance per
// catalog template and computes its first schedule. BTM milestones are
// created inactive unless the site includes BTM generation.
func Initialize(e *scheduler.Engine, p Params) (*domain.CriticalPathData, error) {
	cat := e.Catalog()
	cfg, err := p.config(cat)
	if err != nil {
		return nil, err
	}

	data := domain.NewCriticalPathData(cfg)
	data.CatalogVersion = cat.Version()
	for _, id := range cat.IDs() {
		t, _ := cat.Template(id)
		inst := domain.NewMilestoneInstance(id)
		if t.Workstream == domain.WorkstreamBTM && !cfg.IncludeBTM {
			inst.Active = false
		}
		data.Milestones[id] = inst
	}
	return e.Recompute(data)
}

// ReconcileResult lists the milestones a reconcile added, in catalog order.
type ReconcileResult struct {
	Added []string
}

// Changed reports whether the reconcile inserted anything.
func (r ReconcileResult) Changed() bool { return len(r.Added) > 0 }

// Reconcile returns a copy of data with a NOT_STARTED, active instance for
// every catalog template the site is missing. Existing instances are never
// altered or removed. The copy is stamped with the catalog version.
func Reconcile(e *scheduler.Engine, data *domain.CriticalPathData) (*domain.CriticalPathData, ReconcileResult) {
	cat := e.Catalog()
	out := data.Clone()
	if out.Milestones == nil {
		out.Milestones = map[string]*domain.MilestoneInstance{}
	}

	var res ReconcileResult
	for _, id := range cat.IDs() {
		if _, ok := out.Milestones[id]; ok {
			continue
		}
		t, _ := cat.Template(id)
		inst := domain.NewMilestoneInstance(id)
		inst.ResolvedWeeks = e.ResolveDuration(t, inst, out.Config).Weeks
		out.Milestones[id] = inst
		res.Added = append(res.Added, id)
	}
	out.CatalogVersion = cat.Version()
	return out, res
}

// NeedsReconcile reports whether data was built against a different catalog
// version or lacks any catalog milestone.
func NeedsReconcile(cat *catalog.Catalog, data *domain.CriticalPathData) bool {
	if data.CatalogVersion != cat.Version() {
		return true
	}
	for _, id := range cat.IDs() {
		if _, ok := data.Milestones[id]; !ok {
			return true
		}
	}
	return false
}
