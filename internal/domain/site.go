package domain

import (
	"sort"
	"time"
)

// AuditLog holds collaborator-owned history. The engine appends to it but
// never interprets its contents.
type AuditLog map[string]any

// CriticalPathConfig holds the per-site inputs to a recompute.
type CriticalPathConfig struct {
	SiteID             string
	TargetMW           int
	ISO                string
	VoltageKV          int
	IncludeBTM         bool
	ProjectStart       *time.Time
	TargetEnergization *time.Time
	LeadTimeOverrides  map[string]int
}

// ScheduleAlignment compares the computed energization with an external target.
type ScheduleAlignment struct {
	TargetDate time.Time
	DeltaDays  int
	Aligned    bool
	Level      RiskLevel
}

// CriticalPathData is the aggregate root of one site's schedule.
type CriticalPathData struct {
	Config                  CriticalPathConfig
	Milestones              map[string]*MilestoneInstance
	CriticalPath            []string
	CalculatedEnergization  *time.Time
	TotalDurationWeeks      int
	PrimaryDriver           string
	PrimaryDriverWorkstream Workstream
	ScheduleRisk            RiskLevel
	DurationRisk            RiskLevel
	Alignment               *ScheduleAlignment
	CatalogVersion          string
	LastCalculated          *time.Time
	Notes                   []Note
	DocumentScanHistory     AuditLog
	IntelligenceDatabase    AuditLog
}

// NewCriticalPathData returns an empty aggregate for the given config.
func NewCriticalPathData(cfg CriticalPathConfig) *CriticalPathData {
	if cfg.LeadTimeOverrides == nil {
		cfg.LeadTimeOverrides = map[string]int{}
	}
	return &CriticalPathData{
		Config:               cfg,
		Milestones:           map[string]*MilestoneInstance{},
		DocumentScanHistory:  AuditLog{},
		IntelligenceDatabase: AuditLog{},
	}
}

// MilestoneIDs returns the ids of all instances in lexicographic order.
func (d *CriticalPathData) MilestoneIDs() []string {
	ids := make([]string, 0, len(d.Milestones))
	for id := range d.Milestones {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// IsCritical reports whether id is on the extracted critical path.
func (d *CriticalPathData) IsCritical(id string) bool {
	for _, c := range d.CriticalPath {
		if c == id {
			return true
		}
	}
	return false
}

// Site is a persisted schedule aggregate with identity and an optimistic version.
type Site struct {
	ID        string
	Name      string
	Version   int
	Data      *CriticalPathData
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CivilDate truncates t to its calendar day in UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// AddWeeks returns t shifted by whole weeks.
func AddWeeks(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, 7*weeks)
}

// WeeksBetween returns the number of whole weeks from start to end.
func WeeksBetween(start, end time.Time) int {
	days := int(CivilDate(end).Sub(CivilDate(start)).Hours() / 24)
	return days / 7
}

// DaysBetween returns the number of calendar days from start to end.
func DaysBetween(start, end time.Time) int {
	return int(CivilDate(end).Sub(CivilDate(start)).Hours() / 24)
}
