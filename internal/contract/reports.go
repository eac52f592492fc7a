package contract

import (
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/alexanderramin/critpath/internal/scenario"
)

type StatusSyncResponse struct {
	Schedule ScheduleResult
	Changes  []intake.StatusChange
	Rejected []intake.Rejection
}

type LeadTimeResponse struct {
	Schedule ScheduleResult
	Applied  map[string]int
	Rejected []intake.Rejection
	Notes    []domain.Note
}

type DocumentScanResponse struct {
	Schedule ScheduleResult
	Applied  []intake.ProposedUpdate
	Rejected []intake.RejectedUpdate
}

type ScenarioResponse struct {
	Scenario   domain.Scenario
	Baseline   ScheduleResult
	Variant    ScheduleResult
	Comparison scenario.Comparison
	Outcomes   []scenario.Outcome
	Saved      bool
}

// Rejected returns the overrides that were not applied.
func (r ScenarioResponse) Rejected() []scenario.Outcome {
	return scenario.Report{Outcomes: r.Outcomes}.Rejected()
}

type ImportResult struct {
	Schedule  ScheduleResult
	Legacy    bool
	Scenarios int
}
