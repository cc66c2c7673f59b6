// Package stats fetches classification statistics snapshots from the dashboard backend.
package stats

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/iafilius/PhishingDashboard/src/logging"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Client fetches snapshots from a single endpoint. It never retries.
type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient returns a client for endpoint. timeout <= 0 disables the request deadline.
func NewClient(endpoint string, timeout time.Duration) *Client {
	hc := &http.Client{}
	if timeout > 0 {
		hc.Timeout = timeout
	}
	return &Client{endpoint: endpoint, http: hc}
}

// Endpoint returns the URL polled by the client.
func (c *Client) Endpoint() string { return c.endpoint }

// Fetch performs one GET and decodes the snapshot. Errors are *FetchError or *DecodeError.
func (c *Client) Fetch(ctx context.Context) (Snapshot, error) {
	defer logging.TimeTrack(time.Now(), "stats fetch")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return Snapshot{}, &FetchError{URL: c.endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Snapshot{}, &FetchError{URL: c.endpoint, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return Snapshot{}, &FetchError{URL: c.endpoint, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Snapshot{}, &FetchError{URL: c.endpoint, Err: err}
	}
	return Decode(body)
}

// Decode parses and validates a dashboard-data payload.
func Decode(body []byte) (Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(body, &w); err != nil {
		return Snapshot{}, &DecodeError{Reason: "invalid json", Err: err}
	}
	switch {
	case w.SafeCount == nil:
		return Snapshot{}, &DecodeError{Reason: "missing safe_count"}
	case w.PhishingCount == nil:
		return Snapshot{}, &DecodeError{Reason: "missing phishing_count"}
	case w.TopKeywords == nil:
		return Snapshot{}, &DecodeError{Reason: "missing top_keywords"}
	case *w.SafeCount < 0 || *w.PhishingCount < 0:
		return Snapshot{}, &DecodeError{Reason: "negative count"}
	}
	snap := Snapshot{
		SafeCount:     *w.SafeCount,
		PhishingCount: *w.PhishingCount,
		TopKeywords:   make([]KeywordCount, 0, len(*w.TopKeywords)),
	}
	for i, k := range *w.TopKeywords {
		if k.Keyword == nil || k.Count == nil {
			return Snapshot{}, &DecodeError{Reason: "top_keywords entry " + strconv.Itoa(i) + " incomplete"}
		}
		if *k.Count < 0 {
			return Snapshot{}, &DecodeError{Reason: "top_keywords entry " + strconv.Itoa(i) + " has negative count"}
		}
		snap.TopKeywords = append(snap.TopKeywords, KeywordCount{Keyword: *k.Keyword, Count: *k.Count})
	}
	return snap, nil
}
