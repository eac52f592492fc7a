package catalog

import "github.com/alexanderramin/critpath/internal/domain"

// File is the YAML structure of a milestone catalog.
type File struct {
	Version    string                  `yaml:"version"`
	LeadTimes  map[string]DurationSpec `yaml:"lead_times"`
	Milestones []TemplateSpec          `yaml:"milestones"`
}

// DurationSpec is a min / typical / max estimate in weeks.
type DurationSpec struct {
	Min     int `yaml:"min"`
	Typical int `yaml:"typical"`
	Max     int `yaml:"max"`
}

// TemplateSpec defines one milestone template in the catalog file.
type TemplateSpec struct {
	ID                  string       `yaml:"id"`
	Name                string       `yaml:"name"`
	Workstream          string       `yaml:"workstream"`
	Phase               string       `yaml:"phase"`
	Owner               string       `yaml:"owner"`
	Control             string       `yaml:"control"`
	Duration            DurationSpec `yaml:"duration"`
	Predecessors        []string     `yaml:"predecessors,omitempty"`
	LeadTimeKey         string       `yaml:"lead_time_key,omitempty"`
	CriticalDefault     bool         `yaml:"critical_default,omitempty"`
	Terminal            bool         `yaml:"terminal,omitempty"`
	Skippable           bool         `yaml:"skippable,omitempty"`
	Description         string       `yaml:"description,omitempty"`
	AccelerationOptions []string     `yaml:"acceleration_options,omitempty"`
}

func (s TemplateSpec) toDomain() domain.MilestoneTemplate {
	control := domain.ControlLevel(s.Control)
	if control == "" {
		control = domain.ControlNone
	}
	return domain.MilestoneTemplate{
		ID:                  s.ID,
		Name:                s.Name,
		Phase:               domain.Phase(s.Phase),
		Workstream:          domain.Workstream(s.Workstream),
		Owner:               domain.Owner(s.Owner),
		Control:             control,
		Predecessors:        append([]string{}, s.Predecessors...),
		DurationMin:         s.Duration.Min,
		DurationTypical:     s.Duration.Typical,
		DurationMax:         s.Duration.Max,
		LeadTimeKey:         s.LeadTimeKey,
		CriticalDefault:     s.CriticalDefault,
		Terminal:            s.Terminal,
		Skippable:           s.Skippable,
		Description:         s.Description,
		AccelerationOptions: append([]string{}, s.AccelerationOptions...),
	}
}
