package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/codec"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/alexanderramin/critpath/internal/service"
	"github.com/alexanderramin/critpath/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) *App {
	t.Helper()
	db := testutil.NewTestDB(t)
	engine := testutil.TestEngine()

	sites := repository.NewSQLiteSiteRepo(db)
	scenarios := repository.NewSQLiteScenarioRepo(db)

	return &App{
		Sites:         service.NewSiteService(sites, testutil.NewTestUoW(db), engine),
		Scenarios:     service.NewScenarioService(sites, scenarios, engine),
		Portfolio:     service.NewPortfolioService(sites, engine, 2),
		Catalog:       catalog.Default(),
		MinConfidence: 0.7,
	}
}

// executeCmd runs a cobra command and captures stdout/stderr with ANSI
// styling removed.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func seedSite(t *testing.T, app *App, name string) {
	t.Helper()
	_, err := executeCmd(t, app, "site", "init", "--name", name, "--mw", "300", "--iso", "ercot", "--start", "2025-01-06")
	require.NoError(t, err)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSiteInit_ListShow(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "site", "init", "--name", "Abilene", "--mw", "300", "--iso", "ercot",
		"--start", "2025-01-06", "--target", "2028-06-01")
	require.NoError(t, err)
	assert.Contains(t, out, "Created site Abilene")
	assert.Contains(t, out, "300 MW · 230 kV · ERCOT")
	assert.Contains(t, out, "2025-01-06")

	out, err = executeCmd(t, app, "site", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Abilene")
	assert.Contains(t, out, "ERCOT")

	out, err = executeCmd(t, app, "site", "show", "abilene")
	require.NoError(t, err)
	assert.Contains(t, out, "CRITICAL PATH")
	assert.Contains(t, out, "POST-UTL-09")

	out, err = executeCmd(t, app, "site", "show", "Abilene", "--json")
	require.NoError(t, err)
	data, err := codec.Unmarshal([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 300, data.Config.TargetMW)
}

func TestSiteInit_Validation(t *testing.T) {
	app := testApp(t)

	_, err := executeCmd(t, app, "site", "init", "--mw", "100")
	assert.ErrorContains(t, err, "--name is required")

	_, err = executeCmd(t, app, "site", "init", "--name", "X", "--start", "06/01/2025")
	assert.ErrorContains(t, err, "expected YYYY-MM-DD")

	_, err = executeCmd(t, app, "site", "init", "--interactive")
	assert.ErrorContains(t, err, "needs a terminal")
}

func TestSiteInit_InteractiveUsesForm(t *testing.T) {
	app := testApp(t)
	app.IsInteractive = func() bool { return true }

	orig := runSiteForm
	t.Cleanup(func() { runSiteForm = orig })
	var seen siteFormInput
	runSiteForm = func(_ *catalog.Catalog, in siteFormInput) (contract.CreateSiteRequest, error) {
		seen = in
		in.Name = "Formed"
		in.MW = "120"
		return in.toRequest()
	}

	out, err := executeCmd(t, app, "site", "init", "-i", "--iso", "pjm", "--target", "2030-01-01")
	require.NoError(t, err)
	assert.Equal(t, "pjm", seen.ISO)
	assert.Equal(t, "2030-01-01", seen.Target)
	assert.Contains(t, out, "Created site Formed")
	assert.Contains(t, out, "120 MW · 138 kV · PJM")
}

func TestSiteTargetAndRemove(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Waco")

	out, err := executeCmd(t, app, "site", "target", "Waco", "2026-01-01")
	require.NoError(t, err)
	assert.Contains(t, out, "● HIGH")
	assert.Contains(t, out, "days late")

	out, err = executeCmd(t, app, "site", "target", "Waco", "none")
	require.NoError(t, err)
	assert.NotContains(t, out, "days late")

	_, err = executeCmd(t, app, "site", "remove", "Waco")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "site", "show", "Waco")
	assert.ErrorIs(t, err, domain.ErrLookup)
}

func TestSchedule(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Temple")

	out, err := executeCmd(t, app, "schedule", "Temple")
	require.NoError(t, err)
	assert.Contains(t, out, "TIMELINE")
	assert.Contains(t, out, "▶ POST-UTL-09")

	out, err = executeCmd(t, app, "schedule", "Temple", "--path")
	require.NoError(t, err)
	assert.Contains(t, out, "CRITICAL PATH")
	assert.NotContains(t, out, "TIMELINE")
}

func TestSyncStatus(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Lubbock")

	out, err := executeCmd(t, app, "sync", "status", "Lubbock", "--phase", "site_control=Executed", "--phase", "bogus=Executed")
	require.NoError(t, err)
	assert.Contains(t, out, "PS-SC-02")
	assert.Contains(t, out, "Complete")
	assert.Contains(t, out, "✖ bogus")

	_, err = executeCmd(t, app, "sync", "status", "Lubbock", "--source", "fax", "--phase", "ia=done")
	assert.ErrorContains(t, err, "unknown --source")

	_, err = executeCmd(t, app, "sync", "status", "Lubbock")
	assert.ErrorContains(t, err, "--phase")
}

func TestLeadTimeSetAndISO(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Midland")

	out, err := executeCmd(t, app, "leadtime", "set", "Midland", "transformer=182", "breakers_hv=soon")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ transformer")
	assert.Contains(t, out, "182w")
	assert.Contains(t, out, "✖ breakers_hv")

	_, err = executeCmd(t, app, "leadtime", "set", "Midland", "transformer")
	assert.ErrorContains(t, err, "KEY=WEEKS")

	out, err = executeCmd(t, app, "leadtime", "iso", "Midland", "--iso", "ercot", "sis_weeks=40")
	require.NoError(t, err)
	assert.Contains(t, out, "PS-PWR-05")
}

func TestScanApply(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Odessa")

	updates := writeFile(t, "updates.json", `[
		{"milestone_id": "PS-SC-02", "update_type": "status_change", "new_value": "finished", "confidence": 0.92},
		{"milestone_id": "POST-EQ-02", "update_type": "duration_change", "new_value": 170, "confidence": 0.5}
	]`)
	out, err := executeCmd(t, app, "scan", "apply", "Odessa", "--file", updates)
	require.NoError(t, err)
	assert.Contains(t, out, "✔ PS-SC-02")
	assert.Contains(t, out, "✖ POST-EQ-02")
	assert.Contains(t, out, "[confidence]")

	out, err = executeCmd(t, app, "scan", "apply", "Odessa", "--file", updates, "--min-confidence", "0.4")
	require.NoError(t, err)
	assert.Contains(t, out, "✔ POST-EQ-02")

	minutes := writeFile(t, "minutes.txt", "Call notes: the transformer lead time is now 3 years per vendor.")
	out, err = executeCmd(t, app, "scan", "apply", "Odessa", "--file", minutes)
	require.NoError(t, err)
	assert.Contains(t, out, "✔ POST-EQ-02")
	assert.Contains(t, out, "156")

	_, err = executeCmd(t, app, "scan", "apply", "Odessa", "--file", updates, "--min-confidence", "2")
	assert.ErrorContains(t, err, "--min-confidence")
}

func TestScenarioCommands(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Snyder")

	out, err := executeCmd(t, app, "scenario", "predefined")
	require.NoError(t, err)
	assert.Contains(t, out, "Utility Fast-Track Studies")

	out, err = executeCmd(t, app, "scenario", "run", "Snyder", "--predefined", "Early Transformer Procurement")
	require.NoError(t, err)
	assert.Contains(t, out, "Early Transformer Procurement")
	assert.Contains(t, out, "BASELINE")

	out, err = executeCmd(t, app, "scenario", "run", "Snyder",
		"--override", "config.project_start=2026-01-05",
		"--override", "PS-SC-02.owner=Nobody",
		"--name", "Late start", "--save")
	require.NoError(t, err)
	assert.Contains(t, out, "+52w")
	assert.Contains(t, out, "✖ PS-SC-02.owner_override")
	assert.Contains(t, out, "(saved)")

	out, err = executeCmd(t, app, "scenario", "list", "Snyder")
	require.NoError(t, err)
	assert.Contains(t, out, "Late start")

	out, err = executeCmd(t, app, "scenario", "run", "Snyder", "--name", "late start")
	require.NoError(t, err)
	assert.Contains(t, out, "+52w")

	_, err = executeCmd(t, app, "scenario", "run", "Snyder", "--predefined", "x", "--override", "A.duration=1")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "scenario", "run", "Snyder", "--override", "nodot=1")
	assert.ErrorContains(t, err, "MILESTONE.field")

	_, err = executeCmd(t, app, "scenario", "remove", "Snyder", "Late start")
	require.NoError(t, err)
	out, err = executeCmd(t, app, "scenario", "list", "Snyder")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved scenarios")
}

func TestExportAndImport(t *testing.T) {
	app := testApp(t)
	seedSite(t, app, "Killeen")
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "killeen.json")
	out, err := executeCmd(t, app, "export", "Killeen", "--out", jsonPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+jsonPath)

	out, err = executeCmd(t, app, "export", "Killeen", "--format", "yaml")
	require.NoError(t, err)
	data, err := codec.UnmarshalYAML([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "ERCOT", data.Config.ISO)

	_, err = executeCmd(t, app, "export", "Killeen", "--format", "csv")
	assert.ErrorContains(t, err, "unknown --format")

	out, err = executeCmd(t, app, "site", "import", jsonPath, "--name", "Killeen Copy")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported site Killeen Copy")
	assert.NotContains(t, out, "legacy")
}

func TestPortfolio(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "No sites")

	seedSite(t, app, "Alpha")
	seedSite(t, app, "Bravo")
	out, err = executeCmd(t, app, "portfolio")
	require.NoError(t, err)
	assert.Contains(t, out, "2 sites:")
	assert.Contains(t, out, "Alpha")
	assert.Contains(t, out, "Bravo")
}

func TestCatalogCommands(t *testing.T) {
	app := testApp(t)

	out, err := executeCmd(t, app, "catalog", "list", "--workstream", "equipment procurement")
	require.NoError(t, err)
	assert.Contains(t, out, "POST-EQ-02")
	assert.NotContains(t, out, "PS-SC-01")

	_, err = executeCmd(t, app, "catalog", "list", "--workstream", "Astrology")
	assert.Error(t, err)

	out, err = executeCmd(t, app, "catalog", "show", "post-eq-02")
	require.NoError(t, err)
	assert.Contains(t, out, "transformer")

	_, err = executeCmd(t, app, "catalog", "show", "NOPE")
	assert.ErrorIs(t, err, domain.ErrLookup)
}
