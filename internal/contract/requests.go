package contract

import (
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/intake"
)

// CreateSiteRequest describes a new site. Zero values take the site
// package defaults.
type CreateSiteRequest struct {
	Name               string
	TargetMW           int
	VoltageKV          int
	ISO                string
	IncludeBTM         bool
	ProjectStart       *time.Time
	TargetEnergization *time.Time
}

// StatusSyncRequest carries phase statuses reported by an external tracker.
type StatusSyncRequest struct {
	Site   string
	Source intake.Source
	Phases map[string]string
	Routes intake.PhaseMap
}

// NewStatusSyncRequest returns a tracker-sourced request routed through the
// default phase map.
func NewStatusSyncRequest(site string, phases map[string]string) StatusSyncRequest {
	return StatusSyncRequest{
		Site:   site,
		Source: intake.SourceTracker,
		Phases: phases,
		Routes: intake.DefaultPhaseMap(),
	}
}

// LeadTimeRequest carries lead-time intelligence keyed by lead_time_key, or
// ISO study timelines when ISO is set.
type LeadTimeRequest struct {
	Site     string
	Source   string
	Updates  map[string]any
	ISO      string
	Timeline map[string]any
}

// DocumentScanRequest carries proposed updates extracted from documents.
type DocumentScanRequest struct {
	Site          string
	Updates       []intake.ProposedUpdate
	MinConfidence float64
}

// NewDocumentScanRequest uses intake.DefaultMinConfidence.
func NewDocumentScanRequest(site string, updates []intake.ProposedUpdate) DocumentScanRequest {
	return DocumentScanRequest{Site: site, Updates: updates, MinConfidence: intake.DefaultMinConfidence}
}

// ScenarioRequest evaluates either a predefined scenario by name or an ad-hoc
// set of overrides against a site.
type ScenarioRequest struct {
	Site        string
	Predefined  string
	Name        string
	Description string
	Overrides   []domain.Override
	Save        bool
}
