package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/iafilius/PhishingDashboard/src/config"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
	"github.com/iafilius/PhishingDashboard/src/logging"
	"github.com/iafilius/PhishingDashboard/src/stats"
)

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		logging.Errorf("phishdash: %v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "phishdash",
		Usage: "Live phishing statistics dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Optional settings file (.toml, .yaml or .yml)",
				EnvVars: []string{"PHISHDASH_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "endpoint",
				Aliases: []string{"e"},
				Value:   config.DefaultEndpoint,
				Usage:   "Dashboard data URL",
				EnvVars: []string{"PHISHDASH_ENDPOINT"},
			},
			&cli.DurationFlag{
				Name:    "interval",
				Value:   config.DefaultInterval,
				Usage:   "Polling period",
				EnvVars: []string{"PHISHDASH_INTERVAL"},
			},
			&cli.DurationFlag{
				Name:    "http-timeout",
				Usage:   "Per-request timeout (0 = none)",
				EnvVars: []string{"PHISHDASH_HTTP_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   config.DefaultLogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"PHISHDASH_LOG_LEVEL"},
			},
			&cli.IntFlag{
				Name:    "width",
				Value:   config.DefaultChartWidth,
				Usage:   "Chart width in pixels",
				EnvVars: []string{"PHISHDASH_CHART_WIDTH"},
			},
			&cli.IntFlag{
				Name:    "height",
				Value:   config.DefaultChartHeight,
				Usage:   "Chart height in pixels",
				EnvVars: []string{"PHISHDASH_CHART_HEIGHT"},
			},
			&cli.IntFlag{
				Name:    "animation-frames",
				Value:   config.DefaultAnimationFrames,
				Usage:   "Intermediate frames per chart update (0 disables animation)",
				EnvVars: []string{"PHISHDASH_ANIMATION_FRAMES"},
			},
			&cli.DurationFlag{
				Name:    "animation-duration",
				Value:   config.DefaultAnimationDuration,
				Usage:   "Duration of a chart update animation",
				EnvVars: []string{"PHISHDASH_ANIMATION_DURATION"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := resolveConfig(c)
			if err != nil {
				return err
			}
			logging.SetLevel(cfg.LogLevel)
			return nil
		},
		Action: runGUI,
		Commands: []*cli.Command{
			{
				Name:   "gui",
				Usage:  "Open the desktop dashboard (default)",
				Action: runGUI,
			},
			{
				Name:  "serve",
				Usage: "Poll headlessly and serve the latest charts over HTTP",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "listen",
						Value:   config.DefaultListenAddr,
						Usage:   "HTTP listen address",
						EnvVars: []string{"PHISHDASH_LISTEN"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "snapshot",
				Usage: "Fetch once, write pie.png and bar.png and print a summary",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Value:   config.DefaultOutputDir,
						Usage:   "Output directory",
						EnvVars: []string{"PHISHDASH_OUTPUT_DIR"},
					},
				},
				Action: runSnapshot,
			},
		},
	}
}

// resolveConfig layers defaults, the optional file and explicitly set flags/env vars.
func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cfg, err
	}
	if c.IsSet("endpoint") {
		cfg.Endpoint = c.String("endpoint")
	}
	if c.IsSet("interval") {
		cfg.Interval = c.Duration("interval")
	}
	if c.IsSet("http-timeout") {
		cfg.HTTPTimeout = c.Duration("http-timeout")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("width") {
		cfg.ChartWidth = c.Int("width")
	}
	if c.IsSet("height") {
		cfg.ChartHeight = c.Int("height")
	}
	if c.IsSet("animation-frames") {
		cfg.AnimationFrames = c.Int("animation-frames")
	}
	if c.IsSet("animation-duration") {
		cfg.AnimationDuration = c.Duration("animation-duration")
	}
	if c.IsSet("listen") {
		cfg.ListenAddr = c.String("listen")
	}
	if c.IsSet("out") {
		cfg.OutputDir = c.String("out")
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		return cfg, fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func newClient(cfg config.Config) *stats.Client {
	return stats.NewClient(cfg.Endpoint, cfg.HTTPTimeout)
}

func chartSettings(cfg config.Config) dashboard.ChartSettings {
	return dashboard.ChartSettings{
		Width:             cfg.ChartWidth,
		Height:            cfg.ChartHeight,
		AnimationFrames:   cfg.AnimationFrames,
		AnimationDuration: cfg.AnimationDuration,
	}
}
