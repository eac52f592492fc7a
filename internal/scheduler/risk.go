package scheduler

import (
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// RiskThresholds configures schedule risk classification.
type RiskThresholds struct {
	// Total durations strictly above these week counts are HIGH / MEDIUM.
	HighWeeks   int
	MediumWeeks int
	// Energization up to this many days after the target is MEDIUM; later is HIGH.
	AlignmentMediumDays int
}

// DefaultRiskThresholds returns the standard thresholds: HIGH above 200
// weeks, MEDIUM above 150 weeks, and a 90-day alignment tolerance.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{
		HighWeeks:           200,
		MediumWeeks:         150,
		AlignmentMediumDays: 90,
	}
}

// ClassifyDuration classifies risk from total schedule length alone.
func ClassifyDuration(totalWeeks int, th RiskThresholds) domain.RiskLevel {
	switch {
	case totalWeeks > th.HighWeeks:
		return domain.RiskHigh
	case totalWeeks > th.MediumWeeks:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

// ClassifyAlignment compares computed energization against an external
// target date. Finishing on or before the target is aligned (LOW).
func ClassifyAlignment(energization, target time.Time, th RiskThresholds) domain.ScheduleAlignment {
	delta := domain.DaysBetween(target, energization)
	a := domain.ScheduleAlignment{
		TargetDate: domain.CivilDate(target),
		DeltaDays:  delta,
	}
	switch {
	case delta <= 0:
		a.Aligned = true
		a.Level = domain.RiskLow
	case delta <= th.AlignmentMediumDays:
		a.Level = domain.RiskMedium
	default:
		a.Level = domain.RiskHigh
	}
	return a
}

// AssessRisk sets the duration risk and, when the site has a target
// energization date, the alignment signal. Alignment risk takes precedence
// as the user-facing schedule risk; duration risk is always kept.
func (e *Engine) AssessRisk(data *domain.CriticalPathData) {
	data.DurationRisk = ClassifyDuration(data.TotalDurationWeeks, e.thresholds)
	data.ScheduleRisk = data.DurationRisk
	data.Alignment = nil

	if data.Config.TargetEnergization == nil || data.CalculatedEnergization == nil {
		return
	}
	a := ClassifyAlignment(*data.CalculatedEnergization, *data.Config.TargetEnergization, e.thresholds)
	data.Alignment = &a
	data.ScheduleRisk = a.Level
}
