package domain

import "time"

// Clone returns a deep copy of d that shares no mutable state with it.
func (d *CriticalPathData) Clone() *CriticalPathData {
	if d == nil {
		return nil
	}
	out := &CriticalPathData{
		Config:                  d.Config.Clone(),
		CriticalPath:            cloneStrings(d.CriticalPath),
		CalculatedEnergization:  cloneTime(d.CalculatedEnergization),
		TotalDurationWeeks:      d.TotalDurationWeeks,
		PrimaryDriver:           d.PrimaryDriver,
		PrimaryDriverWorkstream: d.PrimaryDriverWorkstream,
		ScheduleRisk:            d.ScheduleRisk,
		DurationRisk:            d.DurationRisk,
		CatalogVersion:          d.CatalogVersion,
		LastCalculated:          cloneTime(d.LastCalculated),
		DocumentScanHistory:     d.DocumentScanHistory.Clone(),
		IntelligenceDatabase:    d.IntelligenceDatabase.Clone(),
	}
	if d.Milestones != nil {
		out.Milestones = make(map[string]*MilestoneInstance, len(d.Milestones))
		for id, m := range d.Milestones {
			out.Milestones[id] = m.Clone()
		}
	}
	if d.Alignment != nil {
		a := *d.Alignment
		out.Alignment = &a
	}
	if d.Notes != nil {
		out.Notes = append([]Note{}, d.Notes...)
	}
	return out
}

// Clone returns a deep copy of c.
func (c CriticalPathConfig) Clone() CriticalPathConfig {
	out := c
	out.ProjectStart = cloneTime(c.ProjectStart)
	out.TargetEnergization = cloneTime(c.TargetEnergization)
	if c.LeadTimeOverrides != nil {
		out.LeadTimeOverrides = make(map[string]int, len(c.LeadTimeOverrides))
		for k, v := range c.LeadTimeOverrides {
			out.LeadTimeOverrides[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of m.
func (m *MilestoneInstance) Clone() *MilestoneInstance {
	if m == nil {
		return nil
	}
	out := *m
	out.DurationOverride = cloneInt(m.DurationOverride)
	out.FloatWeeks = cloneInt(m.FloatWeeks)
	out.TargetStart = cloneTime(m.TargetStart)
	out.TargetEnd = cloneTime(m.TargetEnd)
	out.ActualStart = cloneTime(m.ActualStart)
	out.ActualEnd = cloneTime(m.ActualEnd)
	out.UpdatedAt = cloneTime(m.UpdatedAt)
	if m.OwnerOverride != nil {
		o := *m.OwnerOverride
		out.OwnerOverride = &o
	}
	return &out
}

// Clone deep-copies nested maps and slices of the log.
func (a AuditLog) Clone() AuditLog {
	if a == nil {
		return nil
	}
	out := make(AuditLog, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone returns a copy of the scenario with its own override slice.
func (s Scenario) Clone() Scenario {
	out := s
	if s.Overrides != nil {
		out.Overrides = append([]Override{}, s.Overrides...)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case AuditLog:
		return t.Clone()
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return v
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
