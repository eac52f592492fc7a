package codec

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// Layout of the first-generation store: display-cased statuses, ISO date
// strings and free-form timestamps.
type legacyDocument struct {
	Config                 legacyConfig               `json:"config"`
	Milestones             map[string]legacyMilestone `json:"milestones"`
	Scenarios              map[string]legacyScenario  `json:"scenarios"`
	CriticalPath           []string                   `json:"critical_path"`
	TotalDurationWeeks     int                        `json:"total_duration_weeks"`
	CalculatedEnergization *string                    `json:"calculated_energization"`
	PrimaryDriver          string                     `json:"primary_driver"`
	PrimaryDriverCategory  string                     `json:"primary_driver_category"`
	ScheduleRisk           string                     `json:"schedule_risk"`
	LastCalculated         *string                    `json:"last_calculated"`
	DocumentScanHistory    map[string]any             `json:"document_scan_history"`
	IntelligenceDatabase   map[string]any             `json:"intelligence_database"`
}

type legacyConfig struct {
	SiteID             string         `json:"site_id"`
	TargetEnergization *string        `json:"target_energization"`
	TargetMW           int            `json:"target_mw"`
	VoltageKV          *int           `json:"voltage_kv"`
	ISO                *string        `json:"iso"`
	IncludeBTM         bool           `json:"include_btm"`
	LeadTimeOverrides  map[string]int `json:"lead_time_overrides"`
}

type legacyMilestone struct {
	TemplateID       string  `json:"template_id"`
	Status           string  `json:"status"`
	TargetStart      *string `json:"target_start"`
	ActualStart      *string `json:"actual_start"`
	TargetEnd        *string `json:"target_end"`
	ActualEnd        *string `json:"actual_end"`
	DurationOverride *int    `json:"duration_override"`
	OwnerOverride    *string `json:"owner_override"`
	Notes            string  `json:"notes"`
	LastUpdated      *string `json:"last_updated"`
	IsActive         *bool   `json:"is_active"`
	OnCriticalPath   bool    `json:"on_critical_path"`
}

type legacyScenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Overrides   []struct {
		MilestoneID string `json:"milestone_id"`
		Field       string `json:"field"`
		NewValue    any    `json:"new_value"`
	} `json:"overrides"`
}

// legacyStatuses maps first-generation display statuses. "N/A" milestones
// are imported inactive.
var legacyStatuses = map[string]domain.MilestoneStatus{
	"not started": domain.StatusNotStarted,
	"in progress": domain.StatusInProgress,
	"complete":    domain.StatusComplete,
	"blocked":     domain.StatusBlocked,
	"at risk":     domain.StatusInProgress,
	"n/a":         domain.StatusNotStarted,
}

var legacyStampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	dateLayout,
}

func legacyDate(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	if len(v) > len(dateLayout) {
		v = v[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", field, err)
	}
	return &t, nil
}

func legacyStamp(field string, s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	for _, layout := range legacyStampLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(*s)); err == nil {
			t = t.UTC().Truncate(time.Second)
			return &t, nil
		}
	}
	return nil, fmt.Errorf("parsing %s: unrecognized timestamp %q", field, *s)
}

func decodeLegacy(b []byte) (*domain.CriticalPathData, error) {
	var doc legacyDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding legacy document: %w", err)
	}

	if err := checkLeadTimes(doc.Config.LeadTimeOverrides); err != nil {
		return nil, err
	}
	cfg := domain.CriticalPathConfig{
		SiteID:            doc.Config.SiteID,
		TargetMW:          doc.Config.TargetMW,
		ISO:               "SPP",
		VoltageKV:         138,
		IncludeBTM:        doc.Config.IncludeBTM,
		LeadTimeOverrides: doc.Config.LeadTimeOverrides,
	}
	if doc.Config.ISO != nil {
		cfg.ISO = strings.ToUpper(*doc.Config.ISO)
	}
	if doc.Config.VoltageKV != nil {
		cfg.VoltageKV = *doc.Config.VoltageKV
	}
	var err error
	if cfg.TargetEnergization, err = legacyDate("config.target_energization", doc.Config.TargetEnergization); err != nil {
		return nil, err
	}

	d := domain.NewCriticalPathData(cfg)
	d.CriticalPath = doc.CriticalPath
	d.TotalDurationWeeks = doc.TotalDurationWeeks
	d.PrimaryDriver = doc.PrimaryDriver
	d.PrimaryDriverWorkstream = domain.Workstream(doc.PrimaryDriverCategory)
	d.ScheduleRisk = domain.RiskLevel(strings.ToUpper(doc.ScheduleRisk))
	if doc.DocumentScanHistory != nil {
		d.DocumentScanHistory = doc.DocumentScanHistory
	}
	if doc.IntelligenceDatabase != nil {
		d.IntelligenceDatabase = doc.IntelligenceDatabase
	}
	if d.CalculatedEnergization, err = legacyDate("calculated_energization", doc.CalculatedEnergization); err != nil {
		return nil, err
	}
	if d.LastCalculated, err = legacyStamp("last_calculated", doc.LastCalculated); err != nil {
		return nil, err
	}

	for id, m := range doc.Milestones {
		inst, err := m.toDomain(id)
		if err != nil {
			return nil, err
		}
		d.Milestones[id] = inst
	}
	return d, nil
}

func (m legacyMilestone) toDomain(id string) (*domain.MilestoneInstance, error) {
	raw := strings.ToLower(strings.TrimSpace(m.Status))
	if raw == "" {
		raw = "not started"
	}
	status, ok := legacyStatuses[raw]
	if !ok {
		return nil, &domain.ValidationError{Field: id + ".status", Value: m.Status, Message: "unknown legacy status"}
	}
	if err := checkDurationOverride(id, m.DurationOverride); err != nil {
		return nil, err
	}
	inst := domain.NewMilestoneInstance(domain.CoalesceStr(m.TemplateID, id))
	inst.Status = status
	inst.DurationOverride = m.DurationOverride
	inst.Notes = m.Notes
	inst.OnCriticalPath = m.OnCriticalPath
	if m.IsActive != nil {
		inst.Active = *m.IsActive
	}
	if raw == "n/a" {
		inst.Active = false
	}
	if m.OwnerOverride != nil && *m.OwnerOverride != "" {
		o := domain.Owner(*m.OwnerOverride)
		inst.OwnerOverride = &o
	}

	var err error
	if inst.TargetStart, err = legacyDate(id+".target_start", m.TargetStart); err != nil {
		return nil, err
	}
	if inst.TargetEnd, err = legacyDate(id+".target_end", m.TargetEnd); err != nil {
		return nil, err
	}
	if inst.ActualStart, err = legacyDate(id+".actual_start", m.ActualStart); err != nil {
		return nil, err
	}
	if inst.ActualEnd, err = legacyDate(id+".actual_end", m.ActualEnd); err != nil {
		return nil, err
	}
	if inst.UpdatedAt, err = legacyStamp(id+".last_updated", m.LastUpdated); err != nil {
		return nil, err
	}
	return inst, nil
}

var legacyOverrideFields = map[string]domain.OverrideField{
	"duration":          domain.FieldDurationOverride,
	"duration_override": domain.FieldDurationOverride,
	"owner":             domain.FieldOwnerOverride,
	"owner_override":    domain.FieldOwnerOverride,
	"status":            domain.FieldStatus,
	"is_active":         domain.FieldActive,
}

// LegacyScenarios extracts the what-if scenarios embedded in a first-generation
// document, ordered by their stored id. Override fields with no current
// equivalent are skipped.
func LegacyScenarios(b []byte) ([]domain.Scenario, error) {
	var doc legacyDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decoding legacy document: %w", err)
	}
	ids := make([]string, 0, len(doc.Scenarios))
	for id := range doc.Scenarios {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]domain.Scenario, 0, len(ids))
	for _, id := range ids {
		ls := doc.Scenarios[id]
		sc := domain.Scenario{Name: domain.CoalesceStr(ls.Name, id), Description: ls.Description, SiteID: doc.Config.SiteID}
		for _, o := range ls.Overrides {
			field, ok := legacyOverrideFields[o.Field]
			if !ok {
				continue
			}
			sc.Overrides = append(sc.Overrides, domain.Override{MilestoneID: o.MilestoneID, Field: field, Value: o.NewValue})
		}
		out = append(out, sc)
	}
	return out, nil
}
