package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, "dash.toml", `
endpoint = "http://backend:5000/api/dashboard-data"
interval = "10s"
http_timeout = "5s"
chart_width = 800
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5000/api/dashboard-data", cfg.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Interval)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 800, cfg.ChartWidth)
	// untouched keys keep defaults
	assert.Equal(t, DefaultChartHeight, cfg.ChartHeight)
	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr)
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, "dash.yaml", `
endpoint: http://other/api/dashboard-data
interval: 1m
log_level: debug
animation_frames: 0
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "http://other/api/dashboard-data", cfg.Endpoint)
	assert.Equal(t, time.Minute, cfg.Interval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 0, cfg.AnimationFrames)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "dash.ini", "endpoint=x"))
	assert.ErrorContains(t, err, "unsupported extension")

	_, err = Load(writeFile(t, "broken.toml", "endpoint = "))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Endpoint = " "
	cfg.Interval = 0
	cfg.ChartWidth = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "endpoint")
	assert.ErrorContains(t, err, "interval")
	assert.ErrorContains(t, err, "chart size")
}
