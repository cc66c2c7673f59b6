// Package config holds dashboard settings: built-in defaults, an optional TOML or YAML file,
// and overrides applied by the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultEndpoint is the dashboard-data path of the classification backend.
	DefaultEndpoint = "http://localhost:5000/api/dashboard-data"

	// DefaultInterval is the polling period.
	DefaultInterval = 30 * time.Second

	// DefaultChartWidth and DefaultChartHeight size each chart image in pixels.
	DefaultChartWidth  = 560
	DefaultChartHeight = 360

	// DefaultAnimationFrames is the number of intermediate frames drawn per update.
	DefaultAnimationFrames = 12

	// DefaultAnimationDuration is the total time an update animation takes.
	DefaultAnimationDuration = 600 * time.Millisecond

	// DefaultListenAddr is used by the serve command.
	DefaultListenAddr = ":8088"

	// DefaultOutputDir is where the snapshot command writes chart PNGs.
	DefaultOutputDir = "dashboard_charts"

	// DefaultLogLevel is the initial verbosity.
	DefaultLogLevel = "info"
)

// Config is the full set of dashboard settings.
type Config struct {
	Endpoint          string        `toml:"endpoint" yaml:"endpoint"`
	Interval          time.Duration `toml:"interval" yaml:"interval"`
	HTTPTimeout       time.Duration `toml:"http_timeout" yaml:"http_timeout"`
	LogLevel          string        `toml:"log_level" yaml:"log_level"`
	ChartWidth        int           `toml:"chart_width" yaml:"chart_width"`
	ChartHeight       int           `toml:"chart_height" yaml:"chart_height"`
	AnimationFrames   int           `toml:"animation_frames" yaml:"animation_frames"`
	AnimationDuration time.Duration `toml:"animation_duration" yaml:"animation_duration"`
	ListenAddr        string        `toml:"listen_addr" yaml:"listen_addr"`
	OutputDir         string        `toml:"output_dir" yaml:"output_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Endpoint:          DefaultEndpoint,
		Interval:          DefaultInterval,
		LogLevel:          DefaultLogLevel,
		ChartWidth:        DefaultChartWidth,
		ChartHeight:       DefaultChartHeight,
		AnimationFrames:   DefaultAnimationFrames,
		AnimationDuration: DefaultAnimationDuration,
		ListenAddr:        DefaultListenAddr,
		OutputDir:         DefaultOutputDir,
	}
}

// Load returns the defaults overlaid with the file at path. An empty path returns the defaults.
// The format is chosen by extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(b), &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported extension %q (want .toml, .yaml or .yml)", path, filepath.Ext(path))
	}
	return cfg, nil
}

// Validate reports settings that would leave the dashboard unable to run.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Endpoint) == "" {
		errs = append(errs, errors.New("endpoint must not be empty"))
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http timeout must not be negative, got %s", c.HTTPTimeout))
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight))
	}
	if c.AnimationFrames < 0 {
		errs = append(errs, fmt.Errorf("animation frames must not be negative, got %d", c.AnimationFrames))
	}
	return errors.Join(errs...)
}
