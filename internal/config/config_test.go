package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/critpath/internal/catalog"

	"github.com/alexanderramin/critpath/internal/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, scheduler.DefaultRiskThresholds(), cfg.Risk)
	assert.Equal(t, 0.70, cfg.MinConfidence)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, LogText, cfg.LogFormat)
	assert.False(t, cfg.LogUseCases)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("CRITPATH_DB", "/tmp/sites.db")
	t.Setenv("CRITPATH_RISK_HIGH_WEEKS", "180")
	t.Setenv("CRITPATH_RISK_MEDIUM_WEEKS", "120")
	t.Setenv("CRITPATH_ALIGNMENT_MEDIUM_DAYS", "30")
	t.Setenv("CRITPATH_SCAN_MIN_CONFIDENCE", "0.8")
	t.Setenv("CRITPATH_WORKERS", "8")
	t.Setenv("CRITPATH_LOG_LEVEL", "debug")
	t.Setenv("CRITPATH_LOG_FORMAT", "JSON")
	t.Setenv("CRITPATH_LOG_USE_CASES", "true")

	cfg := LoadConfig()

	assert.Equal(t, "/tmp/sites.db", cfg.DBPath)
	assert.Equal(t, scheduler.RiskThresholds{HighWeeks: 180, MediumWeeks: 120, AlignmentMediumDays: 30}, cfg.Risk)
	assert.Equal(t, 0.8, cfg.MinConfidence)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, LogJSON, cfg.LogFormat)
	assert.True(t, cfg.LogUseCases)
}

func TestLoadConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("CRITPATH_RISK_HIGH_WEEKS", "many")
	t.Setenv("CRITPATH_ALIGNMENT_MEDIUM_DAYS", "-3")
	t.Setenv("CRITPATH_SCAN_MIN_CONFIDENCE", "1.5")
	t.Setenv("CRITPATH_WORKERS", "0")
	t.Setenv("CRITPATH_LOG_LEVEL", "loud")
	t.Setenv("CRITPATH_LOG_FORMAT", "xml")
	t.Setenv("CRITPATH_LOG_USE_CASES", "sometimes")

	cfg := LoadConfig()
	def := DefaultConfig()

	assert.Equal(t, def.Risk, cfg.Risk)
	assert.Equal(t, def.MinConfidence, cfg.MinConfidence)
	assert.Equal(t, def.Workers, cfg.Workers)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, LogText, cfg.LogFormat)
	assert.False(t, cfg.LogUseCases)
}

func TestLoadConfig_InvertedRiskThresholdsReset(t *testing.T) {
	t.Setenv("CRITPATH_RISK_HIGH_WEEKS", "100")
	t.Setenv("CRITPATH_RISK_MEDIUM_WEEKS", "150")

	cfg := LoadConfig()

	assert.Equal(t, 200, cfg.Risk.HighWeeks)
	assert.Equal(t, 150, cfg.Risk.MediumWeeks)
}

func TestConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = LogJSON

	cfg.Logger(&buf).Info("hello", "site", "Abilene")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"site":"Abilene"`)

	buf.Reset()
	cfg.LogLevel = slog.LevelWarn
	cfg.Logger(&buf).Info("quiet")
	assert.Empty(t, buf.String())
}

func TestConfig_Catalog(t *testing.T) {
	cat, err := DefaultConfig().Catalog()
	require.NoError(t, err)
	assert.Same(t, catalog.Default(), cat)

	t.Setenv("CRITPATH_CATALOG", "../catalog/catalog.yaml")
	cfg := LoadConfig()
	assert.Equal(t, "../catalog/catalog.yaml", cfg.CatalogPath)
	cat, err = cfg.Catalog()
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Version(), cat.Version())

	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("milestones: [{id: X, depends_on: [Y]}]\n"), 0o644))
	_, err = Config{CatalogPath: broken}.Catalog()
	assert.ErrorContains(t, err, "loading catalog")

	_, err = Config{CatalogPath: filepath.Join(t.TempDir(), "missing.yaml")}.Catalog()
	assert.ErrorContains(t, err, "opening catalog")
}
