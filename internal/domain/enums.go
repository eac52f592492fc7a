package domain

import "strings"

type MilestoneStatus string

const (
	StatusNotStarted MilestoneStatus = "NOT_STARTED"
	StatusInProgress MilestoneStatus = "IN_PROGRESS"
	StatusComplete   MilestoneStatus = "COMPLETE"
	StatusBlocked    MilestoneStatus = "BLOCKED"
)

// ValidStatuses is the canonical set of milestone statuses.
var ValidStatuses = map[MilestoneStatus]bool{
	StatusNotStarted: true,
	StatusInProgress: true,
	StatusComplete:   true,
	StatusBlocked:    true,
}

// Progress ranks a status for best-status aggregation. Higher means further along.
func (s MilestoneStatus) Progress() int {
	switch s {
	case StatusComplete:
		return 3
	case StatusInProgress:
		return 2
	case StatusBlocked:
		return 1
	default:
		return 0
	}
}

// Label returns the display form, e.g. "In Progress".
func (s MilestoneStatus) Label() string {
	switch s {
	case StatusNotStarted:
		return "Not Started"
	case StatusInProgress:
		return "In Progress"
	case StatusComplete:
		return "Complete"
	case StatusBlocked:
		return "Blocked"
	default:
		return string(s)
	}
}

// ParseStatus accepts the canonical enum value or its display label.
func ParseStatus(s string) (MilestoneStatus, bool) {
	norm := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", "_"))
	st := MilestoneStatus(norm)
	if ValidStatuses[st] {
		return st, true
	}
	return "", false
}

type Phase string

const (
	PhasePreSale  Phase = "Pre-Sale"
	PhasePostSale Phase = "Post-Sale"
)

type Workstream string

const (
	WorkstreamSiteControl   Workstream = "Site Control"
	WorkstreamPower         Workstream = "Power/Interconnection"
	WorkstreamZoning        Workstream = "Zoning & Permitting"
	WorkstreamEnvironmental Workstream = "Environmental"
	WorkstreamWater         Workstream = "Water"
	WorkstreamFiber         Workstream = "Fiber/Telecom"
	WorkstreamBTM           Workstream = "BTM Generation"
	WorkstreamMarketing     Workstream = "Marketing/End User"
	WorkstreamFinancing     Workstream = "Financing"
	WorkstreamConstruction  Workstream = "Construction"
	WorkstreamEquipment     Workstream = "Equipment Procurement"
	WorkstreamTransaction   Workstream = "Transaction"
)

// Workstreams lists every workstream in display order.
var Workstreams = []Workstream{
	WorkstreamSiteControl,
	WorkstreamPower,
	WorkstreamZoning,
	WorkstreamEnvironmental,
	WorkstreamWater,
	WorkstreamFiber,
	WorkstreamBTM,
	WorkstreamMarketing,
	WorkstreamFinancing,
	WorkstreamConstruction,
	WorkstreamEquipment,
	WorkstreamTransaction,
}

type Owner string

const (
	OwnerSeller     Owner = "Seller"
	OwnerBuyer      Owner = "Buyer"
	OwnerCustomer   Owner = "Customer"
	OwnerUtility    Owner = "Utility"
	OwnerISO        Owner = "ISO/RTO"
	OwnerCounty     Owner = "County"
	OwnerMunicipal  Owner = "Municipal"
	OwnerState      Owner = "State"
	OwnerFederal    Owner = "Federal"
	OwnerVendor     Owner = "Vendor"
	OwnerContractor Owner = "Contractor"
	OwnerLender     Owner = "Lender"
	OwnerEndUser    Owner = "End User"
	OwnerConsultant Owner = "Consultant"
	OwnerGasUtility Owner = "Gas Utility"
	OwnerEaaS       Owner = "EaaS Provider"
)

// ValidOwners is the set of accepted owner values.
var ValidOwners = map[Owner]bool{
	OwnerSeller: true, OwnerBuyer: true, OwnerCustomer: true, OwnerUtility: true,
	OwnerISO: true, OwnerCounty: true, OwnerMunicipal: true, OwnerState: true,
	OwnerFederal: true, OwnerVendor: true, OwnerContractor: true, OwnerLender: true,
	OwnerEndUser: true, OwnerConsultant: true, OwnerGasUtility: true, OwnerEaaS: true,
}

type ControlLevel string

const (
	ControlFull    ControlLevel = "Full"
	ControlPartial ControlLevel = "Partial"
	ControlNone    ControlLevel = "None"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// DurationSource records which rule of duration resolution produced a value.
type DurationSource string

const (
	SourceOverride DurationSource = "override"
	SourceLeadTime DurationSource = "lead_time"
	SourceTemplate DurationSource = "template"
)

type NoteSeverity string

const (
	SeverityLow    NoteSeverity = "low"
	SeverityMedium NoteSeverity = "medium"
)

// Note is a non-fatal observation produced while computing a schedule or
// applying an update, such as a fallback being taken.
type Note struct {
	Severity    NoteSeverity `json:"severity"`
	MilestoneID string       `json:"milestone_id,omitempty"`
	Message     string       `json:"message"`
}
