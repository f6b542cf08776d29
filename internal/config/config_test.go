package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hranalyse/internal/calculator"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, info, err := LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.False(t, info.FileFound)
	assert.False(t, info.PortSpecified)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 10*time.Minute, cfg.DownloadTTL())
}

func TestLoadFrom_Sections(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 18080
download_ttl_minutes = 5

[analysis]
retirement_age = 65
region = "Bayern"

[quality]
min_age = 15
sigma_factor = 2.5

[charts]
palette = ["#111111", "#222222"]
workbook = false
`)
	cfg, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)

	assert.Equal(t, 18080, cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.DownloadTTL())
	assert.Equal(t, AnalysisConfig{RetirementAge: 65, Region: "Bayern"}, cfg.Analysis)
	assert.Equal(t, 15.0, cfg.Quality.MinAge)
	assert.Equal(t, 2.5, cfg.Quality.SigmaFactor)
	// 未配置的阈值保持默认
	assert.Equal(t, calculator.DefaultThresholds().MaxAge, cfg.Quality.MaxAge)

	opts := cfg.ExporterOptions()
	assert.Equal(t, []string{"#111111", "#222222"}, opts.Palette)
	assert.False(t, opts.Workbook)
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "19999")
	t.Setenv(EnvDataDir, "/srv/hr")
	t.Setenv(EnvBenchmarkPath, "/etc/hr/benchmarks.yaml")

	cfg, info, err := LoadFrom(writeConfig(t, "[data]\ndata_dir = \"local\"\n"))
	require.NoError(t, err)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, 19999, cfg.Server.Port)
	assert.Equal(t, "/srv/hr", ResolveDataDir(cfg))
	assert.Equal(t, "/etc/hr/benchmarks.yaml", cfg.Benchmark.Path)
	assert.Equal(t, filepath.Join("/srv/hr", "hranalyse.db"), DBPath(cfg))
}

func TestLoadFrom_Invalid(t *testing.T) {
	_, _, err := LoadFrom(writeConfig(t, "[analysis]\nretirement_age = 80\n"))
	require.ErrorIs(t, err, calculator.ErrInvalidRetirementAge)

	_, _, err = LoadFrom(writeConfig(t, "[server\nport = 1"))
	require.Error(t, err)

	t.Setenv(EnvPort, "abc")
	_, _, err = LoadFrom(filepath.Join(t.TempDir(), "none.toml"))
	require.Error(t, err)
}

func TestSaveConfigTo_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Port = 18181
	cfg.Analysis.Region = "Bayern"

	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, SaveConfigTo(path, cfg))

	loaded, info, err := LoadFrom(path)
	require.NoError(t, err)
	assert.True(t, info.FileFound)
	assert.True(t, info.PortSpecified)
	assert.Equal(t, cfg, loaded)
}
