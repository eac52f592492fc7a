package codec

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	stampLayout = time.RFC3339
)

type document struct {
	SchemaVersion           int                      `json:"schema_version" yaml:"schema_version"`
	Config                  configDTO                `json:"config" yaml:"config"`
	Milestones              map[string]*milestoneDTO `json:"milestones" yaml:"milestones,omitempty"`
	CriticalPath            []string                 `json:"critical_path" yaml:"critical_path,omitempty"`
	CalculatedEnergization  *string                  `json:"calculated_energization" yaml:"calculated_energization"`
	TotalDurationWeeks      int                      `json:"total_duration_weeks" yaml:"total_duration_weeks"`
	PrimaryDriver           string                   `json:"primary_driver" yaml:"primary_driver"`
	PrimaryDriverWorkstream string                   `json:"primary_driver_workstream" yaml:"primary_driver_workstream"`
	ScheduleRisk            string                   `json:"schedule_risk" yaml:"schedule_risk"`
	DurationRisk            string                   `json:"duration_risk" yaml:"duration_risk"`
	Alignment               *alignmentDTO            `json:"alignment" yaml:"alignment"`
	CatalogVersion          string                   `json:"catalog_version" yaml:"catalog_version"`
	LastCalculated          *string                  `json:"last_calculated" yaml:"last_calculated"`
	Notes                   []domain.Note            `json:"notes" yaml:"notes,omitempty"`
	DocumentScanHistory     map[string]any           `json:"document_scan_history" yaml:"document_scan_history,omitempty"`
	IntelligenceDatabase    map[string]any           `json:"intelligence_database" yaml:"intelligence_database,omitempty"`
}

type configDTO struct {
	SiteID             string         `json:"site_id" yaml:"site_id"`
	TargetMW           int            `json:"target_mw" yaml:"target_mw"`
	ISO                string         `json:"iso" yaml:"iso"`
	VoltageKV          int            `json:"voltage_kv" yaml:"voltage_kv"`
	IncludeBTM         bool           `json:"include_btm" yaml:"include_btm"`
	ProjectStart       *string        `json:"project_start" yaml:"project_start"`
	TargetEnergization *string        `json:"target_energization" yaml:"target_energization"`
	LeadTimeOverrides  map[string]int `json:"lead_time_overrides" yaml:"lead_time_overrides,omitempty"`
}

type milestoneDTO struct {
	TemplateID       string  `json:"template_id" yaml:"template_id"`
	Status           string  `json:"status" yaml:"status"`
	DurationOverride *int    `json:"duration_override" yaml:"duration_override"`
	OwnerOverride    *string `json:"owner_override" yaml:"owner_override"`
	TargetStart      *string `json:"target_start" yaml:"target_start"`
	TargetEnd        *string `json:"target_end" yaml:"target_end"`
	ActualStart      *string `json:"actual_start" yaml:"actual_start"`
	ActualEnd        *string `json:"actual_end" yaml:"actual_end"`
	OnCriticalPath   bool    `json:"on_critical_path" yaml:"on_critical_path"`
	Active           bool    `json:"is_active" yaml:"is_active"`
	ResolvedWeeks    int     `json:"resolved_weeks" yaml:"resolved_weeks"`
	FloatWeeks       *int    `json:"float_weeks" yaml:"float_weeks"`
	Notes            string  `json:"notes" yaml:"notes,omitempty"`
	UpdatedAt        *string `json:"updated_at" yaml:"updated_at"`
}

type alignmentDTO struct {
	TargetDate string `json:"target_date" yaml:"target_date"`
	DeltaDays  int    `json:"delta_days" yaml:"delta_days"`
	Aligned    bool   `json:"aligned" yaml:"aligned"`
	Level      string `json:"level" yaml:"level"`
}

func formatTime(t *time.Time, layout string) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(layout)
	return &s
}

func parseTime(field string, s *string, layout string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(layout, *s)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", field, err)
	}
	t = t.UTC()
	return &t, nil
}

func toDocument(d *domain.CriticalPathData) *document {
	doc := &document{
		SchemaVersion: SchemaVersion,
		Config: configDTO{
			SiteID:             d.Config.SiteID,
			TargetMW:           d.Config.TargetMW,
			ISO:                d.Config.ISO,
			VoltageKV:          d.Config.VoltageKV,
			IncludeBTM:         d.Config.IncludeBTM,
			ProjectStart:       formatTime(d.Config.ProjectStart, dateLayout),
			TargetEnergization: formatTime(d.Config.TargetEnergization, dateLayout),
			LeadTimeOverrides:  d.Config.LeadTimeOverrides,
		},
		CriticalPath:            d.CriticalPath,
		CalculatedEnergization:  formatTime(d.CalculatedEnergization, dateLayout),
		TotalDurationWeeks:      d.TotalDurationWeeks,
		PrimaryDriver:           d.PrimaryDriver,
		PrimaryDriverWorkstream: string(d.PrimaryDriverWorkstream),
		ScheduleRisk:            string(d.ScheduleRisk),
		DurationRisk:            string(d.DurationRisk),
		CatalogVersion:          d.CatalogVersion,
		LastCalculated:          formatTime(d.LastCalculated, stampLayout),
		Notes:                   d.Notes,
		DocumentScanHistory:     d.DocumentScanHistory,
		IntelligenceDatabase:    d.IntelligenceDatabase,
	}
	if d.Milestones != nil {
		doc.Milestones = make(map[string]*milestoneDTO, len(d.Milestones))
		for id, m := range d.Milestones {
			doc.Milestones[id] = toMilestoneDTO(m)
		}
	}
	if a := d.Alignment; a != nil {
		doc.Alignment = &alignmentDTO{
			TargetDate: a.TargetDate.UTC().Format(dateLayout),
			DeltaDays:  a.DeltaDays,
			Aligned:    a.Aligned,
			Level:      string(a.Level),
		}
	}
	return doc
}

func toMilestoneDTO(m *domain.MilestoneInstance) *milestoneDTO {
	if m == nil {
		return nil
	}
	out := &milestoneDTO{
		TemplateID:       m.TemplateID,
		Status:           string(m.Status),
		DurationOverride: m.DurationOverride,
		TargetStart:      formatTime(m.TargetStart, dateLayout),
		TargetEnd:        formatTime(m.TargetEnd, dateLayout),
		ActualStart:      formatTime(m.ActualStart, dateLayout),
		ActualEnd:        formatTime(m.ActualEnd, dateLayout),
		OnCriticalPath:   m.OnCriticalPath,
		Active:           m.Active,
		ResolvedWeeks:    m.ResolvedWeeks,
		FloatWeeks:       m.FloatWeeks,
		Notes:            m.Notes,
		UpdatedAt:        formatTime(m.UpdatedAt, stampLayout),
	}
	if m.OwnerOverride != nil {
		o := string(*m.OwnerOverride)
		out.OwnerOverride = &o
	}
	return out
}

func (doc *document) toDomain() (*domain.CriticalPathData, error) {
	if err := checkLeadTimes(doc.Config.LeadTimeOverrides); err != nil {
		return nil, err
	}
	var err error
	d := &domain.CriticalPathData{
		Config: domain.CriticalPathConfig{
			SiteID:            doc.Config.SiteID,
			TargetMW:          doc.Config.TargetMW,
			ISO:               doc.Config.ISO,
			VoltageKV:         doc.Config.VoltageKV,
			IncludeBTM:        doc.Config.IncludeBTM,
			LeadTimeOverrides: doc.Config.LeadTimeOverrides,
		},
		CriticalPath:            doc.CriticalPath,
		TotalDurationWeeks:      doc.TotalDurationWeeks,
		PrimaryDriver:           doc.PrimaryDriver,
		PrimaryDriverWorkstream: domain.Workstream(doc.PrimaryDriverWorkstream),
		ScheduleRisk:            domain.RiskLevel(doc.ScheduleRisk),
		DurationRisk:            domain.RiskLevel(doc.DurationRisk),
		CatalogVersion:          doc.CatalogVersion,
		Notes:                   doc.Notes,
		DocumentScanHistory:     domain.AuditLog(doc.DocumentScanHistory),
		IntelligenceDatabase:    domain.AuditLog(doc.IntelligenceDatabase),
	}
	if d.Config.ProjectStart, err = parseTime("config.project_start", doc.Config.ProjectStart, dateLayout); err != nil {
		return nil, err
	}
	if d.Config.TargetEnergization, err = parseTime("config.target_energization", doc.Config.TargetEnergization, dateLayout); err != nil {
		return nil, err
	}
	if d.CalculatedEnergization, err = parseTime("calculated_energization", doc.CalculatedEnergization, dateLayout); err != nil {
		return nil, err
	}
	if d.LastCalculated, err = parseTime("last_calculated", doc.LastCalculated, stampLayout); err != nil {
		return nil, err
	}
	if a := doc.Alignment; a != nil {
		target, err := time.Parse(dateLayout, a.TargetDate)
		if err != nil {
			return nil, fmt.Errorf("parsing alignment.target_date: %w", err)
		}
		d.Alignment = &domain.ScheduleAlignment{
			TargetDate: target,
			DeltaDays:  a.DeltaDays,
			Aligned:    a.Aligned,
			Level:      domain.RiskLevel(a.Level),
		}
	}
	if doc.Milestones != nil {
		d.Milestones = make(map[string]*domain.MilestoneInstance, len(doc.Milestones))
		for id, m := range doc.Milestones {
			inst, err := m.toDomain(id)
			if err != nil {
				return nil, err
			}
			d.Milestones[id] = inst
		}
	}
	return d, nil
}

func (m *milestoneDTO) toDomain(id string) (*domain.MilestoneInstance, error) {
	if m == nil {
		return nil, nil
	}
	status := domain.MilestoneStatus(m.Status)
	if !domain.ValidStatuses[status] {
		return nil, &domain.ValidationError{Field: id + ".status", Value: m.Status, Message: "unknown status"}
	}
	if err := checkDurationOverride(id, m.DurationOverride); err != nil {
		return nil, err
	}
	inst := &domain.MilestoneInstance{
		TemplateID:       m.TemplateID,
		Status:           status,
		DurationOverride: m.DurationOverride,
		OnCriticalPath:   m.OnCriticalPath,
		Active:           m.Active,
		ResolvedWeeks:    m.ResolvedWeeks,
		FloatWeeks:       m.FloatWeeks,
		Notes:            m.Notes,
	}
	if m.OwnerOverride != nil {
		o := domain.Owner(*m.OwnerOverride)
		inst.OwnerOverride = &o
	}
	var err error
	fields := []struct {
		name   string
		src    *string
		dst    **time.Time
		layout string
	}{
		{"target_start", m.TargetStart, &inst.TargetStart, dateLayout},
		{"target_end", m.TargetEnd, &inst.TargetEnd, dateLayout},
		{"actual_start", m.ActualStart, &inst.ActualStart, dateLayout},
		{"actual_end", m.ActualEnd, &inst.ActualEnd, dateLayout},
		{"updated_at", m.UpdatedAt, &inst.UpdatedAt, stampLayout},
	}
	for _, f := range fields {
		if *f.dst, err = parseTime(id+"."+f.name, f.src, f.layout); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

// checkLeadTimes rejects negative lead-time weeks. Keys are checked in
// sorted order so the reported key is stable.
func checkLeadTimes(lt map[string]int) error {
	keys := make([]string, 0, len(lt))
	for k := range lt {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if lt[k] < 0 {
			return &domain.ValidationError{Field: "config.lead_time_overrides." + k, Value: lt[k], Message: "must be non-negative"}
		}
	}
	return nil
}

func checkDurationOverride(id string, weeks *int) error {
	if weeks != nil && *weeks < 0 {
		return &domain.ValidationError{Field: id + ".duration_override", Value: *weeks, Message: "must be non-negative"}
	}
	return nil
}
