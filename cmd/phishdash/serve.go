package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
	"github.com/iafilius/PhishingDashboard/src/logging"
)

// statCounts is the serve-mode stat card: the latest counts, readable from handlers.
type statCounts struct {
	mu       sync.RWMutex
	safe     int
	phishing int
	updated  time.Time
}

func (s *statCounts) SetCounts(safe, phishing int) {
	s.mu.Lock()
	s.safe, s.phishing, s.updated = safe, phishing, time.Now().UTC()
	s.mu.Unlock()
}

func (s *statCounts) get() (safe, phishing int, updated time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.safe, s.phishing, s.updated
}

type refresher interface {
	Refresh(ctx context.Context) error
}

// servedCharts is everything the HTTP handlers read.
type servedCharts struct {
	pie, bar *chartkit.MemorySurface
	counts   *statCounts
	refresh  refresher
	interval time.Duration
}

func runServe(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := dashboard.NewLoop()
	go loop.Run(ctx)

	sc := &servedCharts{pie: &chartkit.MemorySurface{}, bar: &chartkit.MemorySurface{}, counts: &statCounts{}, interval: cfg.Interval}
	ctrl := dashboard.NewController(newClient(cfg), dashboard.Mounts{Pie: sc.pie, Bar: sc.bar, Cards: sc.counts}, chartSettings(cfg), loop)
	sc.refresh = ctrl
	defer ctrl.Close()
	task := ctrl.Start(ctx, cfg.Interval)
	defer task.Stop()

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           newRouter(sc),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	serverErr := make(chan error, 1)
	go func() {
		logging.Infof("[serve] listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		logging.Infof("[serve] shutting down")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func newRouter(sc *servedCharts) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/", sc.handleHome)
	r.Get("/healthz", handleHealth)
	r.Get("/pie.png", sc.handlePNG(sc.pie))
	r.Get("/bar.png", sc.handlePNG(sc.bar))
	r.Get("/api/summary", sc.handleSummary)
	r.Post("/refresh", sc.handleRefresh)
	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (sc *servedCharts) handlePNG(s *chartkit.MemorySurface) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		b := s.PNG()
		if len(b) == 0 {
			http.Error(w, "chart not rendered yet", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(b)
	}
}

type summary struct {
	SafeCount     int       `json:"safe_count"`
	PhishingCount int       `json:"phishing_count"`
	UpdatedAt     time.Time `json:"updated_at"`
	PieFrames     uint64    `json:"pie_frames"`
	BarFrames     uint64    `json:"bar_frames"`
}

func (sc *servedCharts) handleSummary(w http.ResponseWriter, _ *http.Request) {
	safe, phishing, updated := sc.counts.get()
	writeJSON(w, http.StatusOK, summary{
		SafeCount:     safe,
		PhishingCount: phishing,
		UpdatedAt:     updated,
		PieFrames:     sc.pie.Frames(),
		BarFrames:     sc.bar.Frames(),
	})
}

func (sc *servedCharts) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if sc.refresh == nil {
		http.Error(w, "refresh unavailable", http.StatusServiceUnavailable)
		return
	}
	if err := sc.refresh.Refresh(r.Context()); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

const homePage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><meta http-equiv="refresh" content="%d">
<title>Phishing dashboard</title></head>
<body style="font-family:sans-serif;color:#292b2c">
<p>Safe emails: <b>%d</b> &middot; Phishing emails: <b>%d</b></p>
<img src="/pie.png" alt="Safe vs phishing"> <img src="/bar.png" alt="Top keywords">
</body></html>`

func (sc *servedCharts) handleHome(w http.ResponseWriter, _ *http.Request) {
	safe, phishing, _ := sc.counts.get()
	every := sc.interval
	if every <= 0 {
		every = dashboard.DefaultInterval
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, homePage, reloadSeconds(every), safe, phishing)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// reloadSeconds is the page reload period; 0 would make browsers reload continuously.
func reloadSeconds(every time.Duration) int {
	return max(1, int(every/time.Second))
}
