package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriticalPathData_CloneIsDeep(t *testing.T) {
	start := Date(2025, time.January, 1)
	d := NewCriticalPathData(CriticalPathConfig{
		SiteID:            "site-1",
		ProjectStart:      &start,
		LeadTimeOverrides: map[string]int{"transformer": 156},
	})
	m := NewMilestoneInstance("A")
	m.DurationOverride = IntPtr(4)
	m.TargetEnd = TimePtr(Date(2025, time.January, 29))
	d.Milestones["A"] = m
	d.CriticalPath = []string{"A"}
	d.DocumentScanHistory["applied_updates"] = []any{map[string]any{"milestone_id": "A"}}

	c := d.Clone()
	require.Equal(t, d, c)

	*c.Milestones["A"].DurationOverride = 10
	c.Milestones["A"].TargetEnd = nil
	c.Config.LeadTimeOverrides["transformer"] = 1
	*c.Config.ProjectStart = Date(2030, time.January, 1)
	c.CriticalPath[0] = "B"
	c.DocumentScanHistory["applied_updates"].([]any)[0].(map[string]any)["milestone_id"] = "B"

	assert.Equal(t, 4, *d.Milestones["A"].DurationOverride)
	assert.NotNil(t, d.Milestones["A"].TargetEnd)
	assert.Equal(t, 156, d.Config.LeadTimeOverrides["transformer"])
	assert.Equal(t, start, *d.Config.ProjectStart)
	assert.Equal(t, []string{"A"}, d.CriticalPath)
	assert.Equal(t, "A", d.DocumentScanHistory["applied_updates"].([]any)[0].(map[string]any)["milestone_id"])
}

func TestCriticalPathData_ClonePreservesNil(t *testing.T) {
	d := &CriticalPathData{}
	c := d.Clone()
	assert.Nil(t, c.Milestones)
	assert.Nil(t, c.CriticalPath)
	assert.Nil(t, c.DocumentScanHistory)
	assert.Equal(t, d, c)
}

func TestWeeksBetween(t *testing.T) {
	start := Date(2025, time.January, 1)
	assert.Equal(t, 16, WeeksBetween(start, Date(2025, time.April, 23)))
	assert.Equal(t, 0, WeeksBetween(start, Date(2025, time.January, 7)))
	assert.Equal(t, 1, WeeksBetween(start, Date(2025, time.January, 8)))
	assert.Equal(t, Date(2025, time.January, 29), AddWeeks(start, 4))
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want MilestoneStatus
		ok   bool
	}{
		{"COMPLETE", StatusComplete, true},
		{"in progress", StatusInProgress, true},
		{" Not Started ", StatusNotStarted, true},
		{"blocked", StatusBlocked, true},
		{"done", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseStatus(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStatusProgressOrdering(t *testing.T) {
	assert.Less(t, StatusNotStarted.Progress(), StatusBlocked.Progress())
	assert.Less(t, StatusBlocked.Progress(), StatusInProgress.Progress())
	assert.Less(t, StatusInProgress.Progress(), StatusComplete.Progress())
}

func TestErrorKinds(t *testing.T) {
	cfgErr := fmt.Errorf("scheduling: %w", &ConfigurationError{Reason: "cycle detected", Cycle: []string{"A", "B", "A"}})
	assert.True(t, errors.Is(cfgErr, ErrConfiguration))
	assert.Equal(t, "configuration", ErrorKind(cfgErr))
	assert.Contains(t, cfgErr.Error(), "A -> B -> A")

	var ce *ConfigurationError
	require.True(t, errors.As(cfgErr, &ce))
	assert.Equal(t, "cycle detected", ce.Reason)

	assert.Equal(t, "validation", ErrorKind(&ValidationError{Field: "duration_override", Value: -1, Message: "must be non-negative"}))
	assert.Equal(t, "lookup", ErrorKind(&LookupError{Kind: "milestone", ID: "X"}))
	assert.Equal(t, "error", ErrorKind(errors.New("boom")))
	assert.Equal(t, "", ErrorKind(nil))
}
