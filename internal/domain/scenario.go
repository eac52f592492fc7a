package domain

import (
	"fmt"
	"time"
)

// OverrideField names a milestone field a scenario may override.
type OverrideField string

const (
	FieldDurationOverride OverrideField = "duration_override"
	FieldStatus           OverrideField = "status"
	FieldActive           OverrideField = "is_active"
	FieldOwnerOverride    OverrideField = "owner_override"
)

// Config keys a scenario may override. Lead-time overrides use the
// ConfigLeadTimePrefix followed by the lead_time_key.
const (
	ConfigProjectStart       = "project_start"
	ConfigTargetEnergization = "target_energization"
	ConfigTargetMW           = "target_mw"
	ConfigISO                = "iso"
	ConfigVoltageKV          = "voltage_kv"
	ConfigIncludeBTM         = "include_btm"
	ConfigLeadTimePrefix     = "lead_time_overrides."
)

// Override is a single scenario change. Exactly one of MilestoneID or
// ConfigKey is set; Field applies to milestone overrides only.
type Override struct {
	MilestoneID string
	Field       OverrideField
	ConfigKey   string
	Value       any
}

// Target returns a human-readable identifier such as "POST-EQ-05.duration_override".
func (o Override) Target() string {
	if o.ConfigKey != "" {
		return "config." + o.ConfigKey
	}
	return fmt.Sprintf("%s.%s", o.MilestoneID, o.Field)
}

// Scenario is an immutable named set of overrides.
type Scenario struct {
	ID          string
	SiteID      string
	Name        string
	Description string
	Overrides   []Override
	CreatedAt   time.Time
}
