package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
	"github.com/iafilius/PhishingDashboard/src/stats"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	safeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	phishingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

func runSnapshot(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	snap, err := newClient(cfg).Fetch(c.Context)
	if err != nil {
		return err
	}
	paths, err := RunSnapshotMode(c.Context, snap, cfg.OutputDir, chartSettings(cfg))
	if err != nil {
		return err
	}
	printSummary(os.Stdout, snap, paths)
	return nil
}

// RunSnapshotMode reconciles snap once into PNG files under outDir and returns their paths.
// It runs headlessly without creating a UI window.
func RunSnapshotMode(ctx context.Context, snap stats.Snapshot, outDir string, s dashboard.ChartSettings) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create out dir: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// a file only needs the final frame
	s.AnimationFrames = 0
	paths := []string{filepath.Join(outDir, "pie.png"), filepath.Join(outDir, "bar.png")}
	ctrl := dashboard.NewController(nil, dashboard.Mounts{
		Pie: chartkit.FileSurface{Path: paths[0]},
		Bar: chartkit.FileSurface{Path: paths[1]},
	}, s, dashboard.Immediate)
	ctrl.Apply(snap)
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("chart not written: %w", err)
		}
	}
	return paths, nil
}

func renderSummary(snap stats.Snapshot, paths []string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Phishing statistics"))
	b.WriteString("\n")
	total := float64(snap.Total())
	fmt.Fprintf(&b, "%s %s\n", safeStyle.Render(fmt.Sprintf("Safe      %6d", snap.SafeCount)),
		mutedStyle.Render(percentOrDash(float64(snap.SafeCount), total)))
	fmt.Fprintf(&b, "%s %s\n", phishingStyle.Render(fmt.Sprintf("Phishing  %6d", snap.PhishingCount)),
		mutedStyle.Render(percentOrDash(float64(snap.PhishingCount), total)))
	if len(snap.TopKeywords) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Top keywords"))
		b.WriteString("\n")
		labels, counts := dashboard.BarSeries(snap)
		width := 0
		for _, l := range labels {
			width = max(width, lipgloss.Width(l))
		}
		for i, l := range labels {
			b.WriteString(l + strings.Repeat(" ", width-lipgloss.Width(l)) + "  " + strconv.Itoa(counts[i]) + "\n")
		}
	}
	if len(paths) > 0 {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render("wrote " + strings.Join(paths, ", ")))
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func percentOrDash(part, total float64) string {
	p := dashboard.Percent(part, total)
	if p == "" {
		return "-"
	}
	return p + "%"
}

func printSummary(w io.Writer, snap stats.Snapshot, paths []string) {
	fmt.Fprintln(w, renderSummary(snap, paths))
}
