package scenario

import (
	"slices"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// MilestoneDelta is the change in a milestone's target end between two schedules.
type MilestoneDelta struct {
	MilestoneID string `json:"milestone_id"`
	DeltaDays   int    `json:"delta_days"`
}

// Comparison summarizes how a variant schedule differs from its baseline.
type Comparison struct {
	BaselineEnergization *time.Time       `json:"baseline_energization,omitempty"`
	VariantEnergization  *time.Time       `json:"variant_energization,omitempty"`
	BaselineWeeks        int              `json:"baseline_weeks"`
	VariantWeeks         int              `json:"variant_weeks"`
	DeltaWeeks           int              `json:"delta_weeks"`
	BaselineRisk         domain.RiskLevel `json:"baseline_risk"`
	VariantRisk          domain.RiskLevel `json:"variant_risk"`
	BaselinePath         []string         `json:"baseline_path"`
	VariantPath          []string         `json:"variant_path"`
	PathChanged          bool             `json:"path_changed"`
	BaselineDriver       string           `json:"baseline_driver"`
	VariantDriver        string           `json:"variant_driver"`
	Milestones           []MilestoneDelta `json:"milestones,omitempty"`
}

// Accelerates reports whether the variant energizes earlier than the baseline.
func (c Comparison) Accelerates() bool { return c.DeltaWeeks < 0 }

// Compare contrasts two computed schedules. DeltaWeeks is negative when the
// variant finishes earlier. Milestones lists only milestones whose target end
// moved, ordered by id.
func Compare(baseline, variant *domain.CriticalPathData) Comparison {
	c := Comparison{
		BaselineEnergization: baseline.CalculatedEnergization,
		VariantEnergization:  variant.CalculatedEnergization,
		BaselineWeeks:        baseline.TotalDurationWeeks,
		VariantWeeks:         variant.TotalDurationWeeks,
		DeltaWeeks:           variant.TotalDurationWeeks - baseline.TotalDurationWeeks,
		BaselineRisk:         baseline.ScheduleRisk,
		VariantRisk:          variant.ScheduleRisk,
		BaselinePath:         slices.Clone(baseline.CriticalPath),
		VariantPath:          slices.Clone(variant.CriticalPath),
		PathChanged:          !slices.Equal(baseline.CriticalPath, variant.CriticalPath),
		BaselineDriver:       baseline.PrimaryDriver,
		VariantDriver:        variant.PrimaryDriver,
	}

	// Schedules can start on different days; compare energization directly.
	if baseline.CalculatedEnergization != nil && variant.CalculatedEnergization != nil {
		days := domain.DaysBetween(*baseline.CalculatedEnergization, *variant.CalculatedEnergization)
		c.DeltaWeeks = days / 7
	}

	for _, id := range variant.MilestoneIDs() {
		v := variant.Milestones[id]
		b, ok := baseline.Milestones[id]
		if !ok || b.TargetEnd == nil || v.TargetEnd == nil {
			continue
		}
		if d := domain.DaysBetween(*b.TargetEnd, *v.TargetEnd); d != 0 {
			c.Milestones = append(c.Milestones, MilestoneDelta{MilestoneID: id, DeltaDays: d})
		}
	}
	return c
}
