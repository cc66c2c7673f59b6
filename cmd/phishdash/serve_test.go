package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
	"github.com/iafilius/PhishingDashboard/src/stats"
)

const samplePayload = `{"safe_count":40,"phishing_count":10,"top_keywords":[{"keyword":"urgent","count":23},{"keyword":"verify","count":17}]}`

func newServedCharts(t *testing.T, backendURL string) *servedCharts {
	t.Helper()
	sc := &servedCharts{pie: &chartkit.MemorySurface{}, bar: &chartkit.MemorySurface{}, counts: &statCounts{}, interval: time.Minute}
	ctrl := dashboard.NewController(stats.NewClient(backendURL, 2*time.Second),
		dashboard.Mounts{Pie: sc.pie, Bar: sc.bar, Cards: sc.counts},
		dashboard.ChartSettings{Width: 320, Height: 240}, dashboard.Immediate)
	sc.refresh = ctrl
	return sc
}

func TestServeChartsAfterRefresh(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, samplePayload)
	}))
	defer backend.Close()
	srv := httptest.NewServer(newRouter(newServedCharts(t, backend.URL)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/pie.png")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, "no frame before the first cycle")

	resp, err = http.Post(srv.URL+"/refresh", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	for _, path := range []string{"/pie.png", "/bar.png"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
		img, err := png.Decode(resp.Body)
		resp.Body.Close()
		require.NoError(t, err, path)
		assert.Equal(t, 320, img.Bounds().Dx())
		assert.Equal(t, 240, img.Bounds().Dy())
	}

	resp, err = http.Get(srv.URL + "/api/summary")
	require.NoError(t, err)
	defer resp.Body.Close()
	var got summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, 40, got.SafeCount)
	assert.Equal(t, 10, got.PhishingCount)
	assert.Equal(t, uint64(1), got.PieFrames)
	assert.Equal(t, uint64(1), got.BarFrames)
	assert.False(t, got.UpdatedAt.IsZero())
}

func TestServeRefreshReportsBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()
	sc := newServedCharts(t, backend.URL)
	srv := httptest.NewServer(newRouter(sc))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/refresh", "text/plain", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "unexpected status 500")
	assert.Zero(t, sc.pie.Frames(), "failed fetch must not draw")
}

func TestServeHealthAndHome(t *testing.T) {
	sc := &servedCharts{pie: &chartkit.MemorySurface{}, bar: &chartkit.MemorySurface{}, counts: &statCounts{}}
	sc.counts.SetCounts(7, 3)
	srv := httptest.NewServer(newRouter(sc))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Safe emails: <b>7</b>")
	assert.Contains(t, string(body), `content="30"`)

	resp2, err := http.Post(srv.URL+"/refresh", "text/plain", nil)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp2.StatusCode)
}

func TestHomeReloadNeverZero(t *testing.T) {
	assert.Equal(t, 1, reloadSeconds(250*time.Millisecond))
	assert.Equal(t, 30, reloadSeconds(30*time.Second))

	sc := &servedCharts{counts: &statCounts{}, interval: 100 * time.Millisecond}
	srv := httptest.NewServer(newRouter(sc))
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `content="1"`)
}
