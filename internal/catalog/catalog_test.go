package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tmpl(id string, weeks int, preds ...string) domain.MilestoneTemplate {
	return domain.MilestoneTemplate{ID: id, Name: id, DurationTypical: weeks, Predecessors: preds}
}

func terminal(id string, weeks int, preds ...string) domain.MilestoneTemplate {
	t := tmpl(id, weeks, preds...)
	t.Terminal = true
	return t
}

func TestDefault_EmbeddedCatalogIsValid(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Equal(t, "2025.2", c.Version())
	assert.Equal(t, 68, c.Len())

	energization, ok := c.Template("POST-UTL-09")
	require.True(t, ok)
	assert.True(t, energization.Terminal)
	assert.Equal(t, "ENERGIZATION", energization.Name)

	order := c.TopologicalIDs()
	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for id, tpl := range c.Templates() {
		for _, p := range tpl.Predecessors {
			assert.Less(t, pos[p], pos[id], "%s must follow %s", id, p)
		}
	}
}

func TestDefault_LeadTimeKeysAreKnown(t *testing.T) {
	c := Default()
	for id, tpl := range c.Templates() {
		if tpl.LeadTimeKey == "" {
			continue
		}
		_, ok := c.LeadTime(tpl.LeadTimeKey)
		assert.True(t, ok, "%s references unknown lead time key %q", id, tpl.LeadTimeKey)
	}
}

func TestDefault_Singleton(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestTemplates_ReturnsCopy(t *testing.T) {
	c := Default()
	all := c.Templates()
	tpl := all["PS-TXN-03"]
	tpl.Predecessors[0] = "MUTATED"
	all["PS-TXN-03"] = tpl
	delete(all, "PS-SC-01")

	fresh, ok := c.Template("PS-TXN-03")
	require.True(t, ok)
	assert.NotEqual(t, "MUTATED", fresh.Predecessors[0])
	_, ok = c.Template("PS-SC-01")
	assert.True(t, ok)
}

func TestNew_RejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name      string
		templates []domain.MilestoneTemplate
		reason    string
	}{
		{"empty", nil, "no milestone templates"},
		{"duplicate id", []domain.MilestoneTemplate{tmpl("A", 1), terminal("A", 1)}, "duplicate"},
		{"dangling predecessor", []domain.MilestoneTemplate{terminal("A", 1, "GHOST")}, "dangling"},
		{"self reference", []domain.MilestoneTemplate{terminal("A", 1, "A")}, "itself"},
		{"negative duration", []domain.MilestoneTemplate{terminal("A", -1)}, "negative"},
		{"no terminal", []domain.MilestoneTemplate{tmpl("A", 1), tmpl("B", 1, "A")}, "no terminal"},
		{"cycle", []domain.MilestoneTemplate{tmpl("A", 1, "B"), tmpl("B", 1, "A"), terminal("C", 0, "B")}, "cycle"},
		{"orphan branch", []domain.MilestoneTemplate{tmpl("A", 1), terminal("T", 0, "A"), tmpl("X", 1, "A")}, "does not lead"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New("test", tc.templates, nil)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
			assert.Contains(t, err.Error(), tc.reason)
		})
	}
}

func TestNew_CycleCarriesPath(t *testing.T) {
	_, err := New("test", []domain.MilestoneTemplate{
		tmpl("A", 1, "C"),
		tmpl("B", 1, "A"),
		tmpl("C", 1, "B"),
		terminal("T", 0, "C"),
	}, nil)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Cycle, 4)
	assert.Equal(t, cfgErr.Cycle[0], cfgErr.Cycle[3])
}

func TestLoad_ParsesYAML(t *testing.T) {
	src := `
version: "t1"
lead_times:
  widget: {min: 1, typical: 2, max: 3}
milestones:
  - id: A
    name: Start
    workstream: Site Control
    phase: Pre-Sale
    owner: Seller
    control: Full
    duration: {min: 0, typical: 4, max: 6}
    lead_time_key: widget
  - id: B
    name: Finish
    workstream: Power/Interconnection
    phase: Post-Sale
    owner: Utility
    duration: {min: 0, typical: 0, max: 0}
    predecessors: [A]
    terminal: true
`
	c, err := Load(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, "t1", c.Version())
	assert.Equal(t, []string{"A", "B"}, c.IDs())

	a, _ := c.Template("A")
	assert.Equal(t, 4, a.DurationTypical)
	assert.Equal(t, domain.WorkstreamSiteControl, a.Workstream)
	assert.Equal(t, "widget", a.LeadTimeKey)

	b, _ := c.Template("B")
	assert.Equal(t, domain.ControlNone, b.Control)

	lt, ok := c.LeadTime("widget")
	require.True(t, ok)
	assert.Equal(t, domain.LeadTime{Min: 1, Typical: 2, Max: 3}, lt)
}

func TestLoad_RejectsUnknownFields(t *testing.T) {
	_, err := Load(strings.NewReader("version: x\nbogus: 1\n"))
	require.Error(t, err)
}

func TestSiteLeadTimes(t *testing.T) {
	c := Default()

	got := c.SiteLeadTimes(138, "ERCOT")
	assert.Equal(t, map[string]int{KeyTransformer: 104, KeySIS: 26}, got)

	got = c.SiteLeadTimes(500, "pjm")
	assert.Equal(t, map[string]int{KeyTransformer: 182, KeySIS: 52}, got)

	got = c.SiteLeadTimes(0, "CAISO")
	assert.Empty(t, got)
}

func TestVoltageForMW(t *testing.T) {
	assert.Equal(t, 345, VoltageForMW(600))
	assert.Equal(t, 230, VoltageForMW(200))
	assert.Equal(t, 138, VoltageForMW(150))
	assert.Equal(t, 69, VoltageForMW(50))
}

func TestByWorkstream(t *testing.T) {
	btm := Default().ByWorkstream(domain.WorkstreamBTM)
	require.Len(t, btm, 6)
	assert.Equal(t, "POST-BTM-01", btm[0].ID)
	for _, tpl := range btm {
		assert.True(t, tpl.Skippable)
	}
}
