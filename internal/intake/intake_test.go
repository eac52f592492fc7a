package intake

import (
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)

func siteData(ids ...string) *domain.CriticalPathData {
	d := domain.NewCriticalPathData(domain.CriticalPathConfig{SiteID: "s1"})
	for _, id := range ids {
		d.Milestones[id] = domain.NewMilestoneInstance(id)
	}
	return d
}

func TestLookupStatus(t *testing.T) {
	tests := []struct {
		source Source
		raw    string
		want   domain.MilestoneStatus
	}{
		{SourceTracker, "Executed", domain.StatusComplete},
		{SourceTracker, "  option ", domain.StatusInProgress},
		{SourceTracker, "Initiated", domain.StatusInProgress},
		{SourceTracker, "Complete", domain.StatusComplete},
		{SourceTracker, "On Hold", domain.StatusBlocked},
		{SourceDocument, "finished", domain.StatusComplete},
		{SourceDocument, "Delayed", domain.StatusBlocked},
		{SourceDocument, "pending", domain.StatusNotStarted},
		{SourceCanonical, "IN_PROGRESS", domain.StatusInProgress},
		{SourceCanonical, "Not Started", domain.StatusNotStarted},
	}
	for _, tc := range tests {
		got, err := LookupStatus(tc.source, tc.raw)
		require.NoError(t, err, "%s %q", tc.source, tc.raw)
		assert.Equal(t, tc.want, got, "%s %q", tc.source, tc.raw)
	}
}

func TestLookupStatus_RejectsUnmapped(t *testing.T) {
	for _, raw := range []string{"mostly complete", "", "Executed!"} {
		_, err := LookupStatus(SourceTracker, raw)
		assert.True(t, errors.Is(err, domain.ErrValidation), raw)
	}
	_, err := LookupStatus(SourceCanonical, "executed")
	assert.Error(t, err, "tracker words are not canonical")
	_, err = LookupStatus("fax", "complete")
	assert.Error(t, err)
}

func TestSyncStatuses_BestStatusWins(t *testing.T) {
	data := siteData("PS-PWR-09", "PS-SC-02")
	before := data.Clone()

	out, res := SyncStatuses(data, SourceTracker, map[string]string{
		"ia":           "Initiated",
		"power":        "Executed",
		"site_control": "Option",
	}, DefaultPhaseMap(), now)

	assert.Empty(t, res.Rejected)
	require.Len(t, res.Applied, 2)
	assert.Equal(t, StatusChange{MilestoneID: "PS-PWR-09", From: domain.StatusNotStarted, To: domain.StatusComplete, Phases: []string{"ia", "power"}}, res.Applied[0])
	assert.Equal(t, "PS-SC-02", res.Applied[1].MilestoneID)
	assert.Equal(t, domain.StatusComplete, out.Milestones["PS-PWR-09"].Status)
	assert.Equal(t, domain.StatusInProgress, out.Milestones["PS-SC-02"].Status)
	require.NotNil(t, out.Milestones["PS-PWR-09"].UpdatedAt)

	assert.Equal(t, before, data)
	assert.Len(t, out.DocumentScanHistory[KeyStatusSyncs], 1)
}

func TestSyncStatuses_BlockedOutranksNotStarted(t *testing.T) {
	data := siteData("PS-WTR-02")
	out, _ := SyncStatuses(data, SourceTracker, map[string]string{"water": "Stalled", "will_serve": "TBD"}, DefaultPhaseMap(), now)
	assert.Equal(t, domain.StatusBlocked, out.Milestones["PS-WTR-02"].Status)
}

func TestSyncStatuses_PartialRejection(t *testing.T) {
	data := siteData("PS-ZN-06")
	out, res := SyncStatuses(data, SourceTracker, map[string]string{
		"zoning":   "Approved",
		"moonbase": "Complete",
		"sis":      "probably soon",
		"survey":   "Complete",
	}, DefaultPhaseMap(), now)

	require.Len(t, res.Applied, 1)
	assert.Equal(t, domain.StatusComplete, out.Milestones["PS-ZN-06"].Status)
	require.Len(t, res.Rejected, 3)
	assert.Equal(t, "moonbase", res.Rejected[0].Ref)
	assert.Equal(t, "sis", res.Rejected[1].Ref)
	assert.Equal(t, "validation", res.Rejected[1].Kind)
	assert.Equal(t, "PS-SC-05", res.Rejected[2].Ref)
	assert.Equal(t, "lookup", res.Rejected[2].Kind)
}

func TestSyncStatuses_UnchangedStatusIsNotStamped(t *testing.T) {
	data := siteData("PS-SC-02")
	data.Milestones["PS-SC-02"].Status = domain.StatusComplete
	out, res := SyncStatuses(data, SourceTracker, map[string]string{"site_control": "Executed"}, DefaultPhaseMap(), now)
	assert.Empty(t, res.Changed())
	assert.Nil(t, out.Milestones["PS-SC-02"].UpdatedAt)
}

func TestApplyLeadTimes(t *testing.T) {
	cat := catalog.Default()
	data := siteData()
	data.Config.LeadTimeOverrides = map[string]int{"transformer": 130}
	before := data.Clone()

	out, res := ApplyLeadTimes(cat, data, "vendor survey", map[string]any{
		"transformer":  182.0,
		"switchgear":   "60",
		"breakers_hv":  -4,
		"quantum_flux": 10,
	}, now)

	assert.Equal(t, map[string]int{"transformer": 182, "switchgear": 60, "quantum_flux": 10}, res.Applied)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "breakers_hv", res.Rejected[0].Ref)
	assert.Equal(t, "validation", res.Rejected[0].Kind)
	require.Len(t, res.Notes, 1)
	assert.Equal(t, domain.SeverityLow, res.Notes[0].Severity)

	assert.Equal(t, 182, out.Config.LeadTimeOverrides["transformer"])
	assert.NotContains(t, out.Config.LeadTimeOverrides, "breakers_hv")
	assert.Equal(t, before, data)

	log, ok := out.IntelligenceDatabase[KeyAppliedIntelligence].([]any)
	require.True(t, ok)
	require.Len(t, log, 1)
	entry := log[0].(map[string]any)
	assert.Equal(t, "vendor survey", entry["source"])
	assert.Equal(t, float64(182), entry["lead_times"].(map[string]any)["transformer"])
}

func TestApplyISOTimeline(t *testing.T) {
	data := siteData("PS-PWR-04", "PS-PWR-05")
	out, res := ApplyISOTimeline(data, "pjm", map[string]any{
		"screening_weeks": 10,
		"sis_weeks":       40,
		"fs_weeks":        20,
		"ia_weeks":        8,
	}, now)

	assert.Equal(t, map[string]int{"PS-PWR-04": 10, "PS-PWR-05": 40}, res.Applied)
	require.Len(t, res.Rejected, 2)
	assert.Equal(t, "fs_weeks", res.Rejected[0].Ref)
	assert.Equal(t, "lookup", res.Rejected[0].Kind)
	assert.Equal(t, "ia_weeks", res.Rejected[1].Ref)
	assert.Equal(t, 40, *out.Milestones["PS-PWR-05"].DurationOverride)
	assert.Nil(t, data.Milestones["PS-PWR-05"].DurationOverride)
}

func TestApplyDocumentUpdates(t *testing.T) {
	data := siteData("POST-EQ-02", "PS-PWR-05")
	before := data.Clone()

	out, res := ApplyDocumentUpdates(data, []ProposedUpdate{
		{MilestoneID: "PS-PWR-05", UpdateType: UpdateStatusChange, NewValue: "Completed", Confidence: 0.9},
		{MilestoneID: "POST-EQ-02", UpdateType: UpdateDurationChange, NewValue: 140.0, Confidence: 0.70},
		{MilestoneID: "POST-EQ-02", UpdateType: UpdateDurationChange, NewValue: 90, Confidence: 0.69},
		{MilestoneID: "NOPE-01", UpdateType: UpdateStatusChange, NewValue: "done", Confidence: 0.99},
		{MilestoneID: "PS-PWR-05", UpdateType: UpdateStatusChange, NewValue: "kinda", Confidence: 0.99},
		{MilestoneID: "PS-PWR-05", UpdateType: "owner_change", NewValue: "Buyer", Confidence: 0.99},
	}, DefaultMinConfidence, now)

	require.Len(t, res.Applied, 2)
	require.Len(t, res.Rejected, 4)
	assert.Equal(t, "confidence", res.Rejected[0].Kind)
	assert.Equal(t, "lookup", res.Rejected[1].Kind)
	assert.Equal(t, "validation", res.Rejected[2].Kind)
	assert.Equal(t, "validation", res.Rejected[3].Kind)

	assert.Equal(t, domain.StatusComplete, out.Milestones["PS-PWR-05"].Status)
	assert.Equal(t, 140, *out.Milestones["POST-EQ-02"].DurationOverride)
	assert.Equal(t, before, data)

	applied := out.DocumentScanHistory[KeyAppliedUpdates].([]any)
	rejected := out.DocumentScanHistory[KeyRejectedUpdates].([]any)
	assert.Len(t, applied, 2)
	assert.Len(t, rejected, 4)
	assert.Equal(t, false, rejected[0].(map[string]any)["applied"])
	assert.Contains(t, rejected[0].(map[string]any)["reason"], "below threshold")
}

func TestApplyDocumentUpdates_AppendsToExistingHistory(t *testing.T) {
	data := siteData("PS-PWR-04")
	data.DocumentScanHistory[KeyAppliedUpdates] = []any{map[string]any{"milestone_id": "old"}}

	out, _ := ApplyDocumentUpdates(data, []ProposedUpdate{
		{MilestoneID: "PS-PWR-04", UpdateType: UpdateStatusChange, NewValue: "done", Confidence: 1},
	}, DefaultMinConfidence, now)
	assert.Len(t, out.DocumentScanHistory[KeyAppliedUpdates], 2)
	assert.Len(t, data.DocumentScanHistory[KeyAppliedUpdates], 1)
}

func TestParseDocument(t *testing.T) {
	text := `Quick update: the Screening Study is complete and the utility says the
transformer lead time is now 3 years. Zoning was approved last night.`

	got := ParseDocument(text)
	require.Len(t, got, 3)
	assert.Equal(t, "PS-PWR-04", got[0].MilestoneID)
	assert.Equal(t, UpdateStatusChange, got[0].UpdateType)
	assert.Equal(t, "PS-ZN-06", got[1].MilestoneID)
	assert.Equal(t, "POST-EQ-02", got[2].MilestoneID)
	assert.Equal(t, UpdateDurationChange, got[2].UpdateType)
	assert.Equal(t, 156, got[2].NewValue)

	data := siteData("PS-PWR-04", "PS-ZN-06", "POST-EQ-02")
	out, res := ApplyDocumentUpdates(data, got, DefaultMinConfidence, now)
	assert.Len(t, res.Applied, 3)
	assert.Equal(t, 156, *out.Milestones["POST-EQ-02"].DurationOverride)
}

func TestParseDocument_NoMatches(t *testing.T) {
	assert.Empty(t, ParseDocument("Lunch is at noon."))
}
