package domain

import "time"

// LeadTime is a min / typical / max duration estimate in weeks.
type LeadTime struct {
	Min     int
	Typical int
	Max     int
}

// MilestoneTemplate is the immutable catalog definition of a milestone.
type MilestoneTemplate struct {
	ID                  string
	Name                string
	Phase               Phase
	Workstream          Workstream
	Owner               Owner
	Control             ControlLevel
	Predecessors        []string
	DurationMin         int
	DurationTypical     int
	DurationMax         int
	LeadTimeKey         string
	CriticalDefault     bool
	Terminal            bool
	Skippable           bool
	Description         string
	AccelerationOptions []string
}

// MilestoneInstance is the per-site state of a catalog milestone. Target
// dates, ResolvedWeeks, FloatWeeks and OnCriticalPath are computed by a
// recompute; the remaining fields are set by collaborators.
type MilestoneInstance struct {
	TemplateID       string
	Status           MilestoneStatus
	DurationOverride *int
	OwnerOverride    *Owner
	TargetStart      *time.Time
	TargetEnd        *time.Time
	ActualStart      *time.Time
	ActualEnd        *time.Time
	OnCriticalPath   bool
	Active           bool
	ResolvedWeeks    int
	FloatWeeks       *int
	Notes            string
	UpdatedAt        *time.Time
}

// NewMilestoneInstance returns a fresh, active, not-started instance.
func NewMilestoneInstance(templateID string) *MilestoneInstance {
	return &MilestoneInstance{
		TemplateID: templateID,
		Status:     StatusNotStarted,
		Active:     true,
	}
}

// EffectiveOwner returns the owner override when set, else the template owner.
func (m *MilestoneInstance) EffectiveOwner(t MilestoneTemplate) Owner {
	if m.OwnerOverride != nil {
		return *m.OwnerOverride
	}
	return t.Owner
}

// ClearComputed resets every field owned by the scheduler.
func (m *MilestoneInstance) ClearComputed() {
	m.TargetStart = nil
	m.TargetEnd = nil
	m.OnCriticalPath = false
	m.ResolvedWeeks = 0
	m.FloatWeeks = nil
}
