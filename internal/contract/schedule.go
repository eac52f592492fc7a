package contract

import (
	"sort"
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
)

// ScheduleRow is one milestone of a computed schedule.
type ScheduleRow struct {
	MilestoneID    string
	Name           string
	Phase          domain.Phase
	Workstream     domain.Workstream
	Owner          domain.Owner
	Status         domain.MilestoneStatus
	Active         bool
	Weeks          int
	TargetStart    *time.Time
	TargetEnd      *time.Time
	ActualEnd      *time.Time
	FloatWeeks     *int
	OnCriticalPath bool
	OnPath         bool
}

// ScheduleResult is the read model of a site's computed schedule.
type ScheduleResult struct {
	SiteID                  string
	SiteName                string
	Version                 int
	CatalogVersion          string
	TargetMW                int
	ISO                     string
	VoltageKV               int
	ProjectStart            *time.Time
	Energization            *time.Time
	TotalWeeks              int
	ScheduleRisk            domain.RiskLevel
	DurationRisk            domain.RiskLevel
	Alignment               *domain.ScheduleAlignment
	PrimaryDriver           string
	PrimaryDriverName       string
	PrimaryDriverWorkstream domain.Workstream
	CriticalPath            []string
	Milestones              []ScheduleRow
	Notes                   []domain.Note
	LastCalculated          *time.Time
	Reconciled              []string
}

// NewScheduleResult maps a site onto its read model. Rows are ordered by
// target start then id; inactive milestones sort last. Instances with no
// catalog template keep their id as name.
func NewScheduleResult(s *domain.Site, cat *catalog.Catalog) ScheduleResult {
	d := s.Data
	res := ScheduleResult{
		SiteID:                  s.ID,
		SiteName:                s.Name,
		Version:                 s.Version,
		CatalogVersion:          d.CatalogVersion,
		TargetMW:                d.Config.TargetMW,
		ISO:                     d.Config.ISO,
		VoltageKV:               d.Config.VoltageKV,
		ProjectStart:            d.Config.ProjectStart,
		Energization:            d.CalculatedEnergization,
		TotalWeeks:              d.TotalDurationWeeks,
		ScheduleRisk:            d.ScheduleRisk,
		DurationRisk:            d.DurationRisk,
		Alignment:               d.Alignment,
		PrimaryDriver:           d.PrimaryDriver,
		PrimaryDriverName:       d.PrimaryDriver,
		PrimaryDriverWorkstream: d.PrimaryDriverWorkstream,
		CriticalPath:            d.CriticalPath,
		Notes:                   d.Notes,
		LastCalculated:          d.LastCalculated,
	}
	if t, ok := cat.Template(d.PrimaryDriver); ok {
		res.PrimaryDriverName = t.Name
	}

	for _, id := range d.MilestoneIDs() {
		inst := d.Milestones[id]
		row := ScheduleRow{
			MilestoneID:    id,
			Name:           id,
			Status:         inst.Status,
			Active:         inst.Active,
			Weeks:          inst.ResolvedWeeks,
			TargetStart:    inst.TargetStart,
			TargetEnd:      inst.TargetEnd,
			ActualEnd:      inst.ActualEnd,
			FloatWeeks:     inst.FloatWeeks,
			OnCriticalPath: inst.OnCriticalPath,
			OnPath:         d.IsCritical(id),
		}
		if t, ok := cat.Template(inst.TemplateID); ok {
			row.Name = t.Name
			row.Phase = t.Phase
			row.Workstream = t.Workstream
			row.Owner = inst.EffectiveOwner(t)
		} else if inst.OwnerOverride != nil {
			row.Owner = *inst.OwnerOverride
		}
		res.Milestones = append(res.Milestones, row)
	}
	sort.SliceStable(res.Milestones, func(i, j int) bool {
		a, b := res.Milestones[i], res.Milestones[j]
		if a.Active != b.Active {
			return a.Active
		}
		switch {
		case a.TargetStart == nil && b.TargetStart == nil:
			return false
		case a.TargetStart == nil:
			return false
		case b.TargetStart == nil:
			return true
		}
		return a.TargetStart.Before(*b.TargetStart)
	})
	return res
}

// ByWorkstream groups active rows by workstream in display order.
func (r ScheduleResult) ByWorkstream() map[domain.Workstream][]ScheduleRow {
	out := make(map[domain.Workstream][]ScheduleRow)
	for _, row := range r.Milestones {
		if row.Active {
			out[row.Workstream] = append(out[row.Workstream], row)
		}
	}
	return out
}
