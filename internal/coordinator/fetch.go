package coordinator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weathercom-service/internal/models"
	"github.com/kjstillabower/weathercom-service/internal/observability"
)

// API resource paths under the v3/wx base URL.
const (
	resourceCurrent        = "observations/current"
	resourceForecastDaily  = "forecast/daily/5day"
	resourceForecastHourly = "forecast/hourly/2day"
)

// The API rejects requests with default library user agents.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/111.0.0.0 Safari/537.36"

// Refresh runs one fetch cycle: current conditions first, then the forecast,
// strictly sequentially, each bounded by the per-call timeout and validated
// before the merge. On any failure the previous snapshot stays visible, the
// error is logged and recorded, and the cycle is over — retry happens on the
// next scheduled tick, never inside Refresh.
func (c *Coordinator) Refresh(ctx context.Context) (models.Snapshot, error) {
	start := time.Now()

	current, err := c.fetch(ctx, resourceCurrent)
	if err != nil {
		return nil, c.fail(err)
	}

	forecast, err := c.fetch(ctx, c.forecastResource())
	if err != nil {
		return nil, c.fail(err)
	}

	merged := models.Merge(current, forecast)

	c.mu.Lock()
	c.data = merged
	c.lastSuccess = time.Now()
	c.lastErr = nil
	c.mu.Unlock()

	observability.RefreshCyclesTotal.WithLabelValues("success").Inc()
	observability.RefreshDuration.Observe(time.Since(start).Seconds())
	observability.LastRefreshTimestamp.SetToCurrentTime()
	observability.SnapshotFields.Set(float64(len(merged)))
	c.logger.Debug("refresh complete",
		zap.Int("fields", len(merged)),
		zap.Duration("elapsed", time.Since(start)))

	return merged, nil
}

// fail records a refresh failure without touching the snapshot.
func (c *Coordinator) fail(err error) error {
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()

	observability.RefreshCyclesTotal.WithLabelValues("error").Inc()
	c.logger.Error("Weather.com refresh failed", zap.Error(err))
	return err
}

// fetch performs one GET against an API resource and validates the body.
func (c *Coordinator) fetch(ctx context.Context, resource string) (models.Snapshot, error) {
	reqURL := c.buildURL(resource)

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	callStart := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observability.UpstreamCallsTotal.WithLabelValues(resource, "error").Inc()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("request timeout for %s: %w", reqURL, err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()
	observability.UpstreamCallDuration.WithLabelValues(resource).Observe(time.Since(callStart).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		observability.UpstreamCallsTotal.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("read response body: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		observability.UpstreamCallsTotal.WithLabelValues(resource, "empty").Inc()
		return nil, fmt.Errorf("%w from %s", ErrEmptyResponse, reqURL)
	}

	var result models.Snapshot
	if err := json.Unmarshal(trimmed, &result); err != nil {
		observability.UpstreamCallsTotal.WithLabelValues(resource, "error").Inc()
		return nil, fmt.Errorf("parse response from %s: %w", reqURL, err)
	}

	if err := checkErrors(reqURL, result); err != nil {
		observability.UpstreamCallsTotal.WithLabelValues(resource, "api_error").Inc()
		return nil, err
	}

	observability.UpstreamCallsTotal.WithLabelValues(resource, "success").Inc()
	return result, nil
}

// buildURL is a pure function of config and resource choice; url.Values
// encoding keeps the parameter order deterministic. The numericPrecision
// parameter is sent only on the current-conditions resource and only when
// precision mode is enabled.
func (c *Coordinator) buildURL(resource string) string {
	params := url.Values{}
	params.Set("geocode", c.cfg.Latitude+","+c.cfg.Longitude)
	params.Set("format", "json")
	params.Set("apiKey", c.cfg.APIKey)
	params.Set("units", c.cfg.UnitSystemAPI)
	params.Set("language", c.cfg.Lang)
	if resource == resourceCurrent && c.cfg.NumericPrecision != "none" {
		params.Set("numericPrecision", c.cfg.NumericPrecision)
	}
	return c.baseURL + "/" + resource + "?" + params.Encode()
}

// forecastResource picks the forecast endpoint for the configured mode.
func (c *Coordinator) forecastResource() string {
	if c.cfg.ForecastMode == "hourly" {
		return resourceForecastHourly
	}
	return resourceForecastDaily
}

// checkErrors inspects a decoded body for the API-level errors array. An
// absent or empty array means success; a populated one aggregates every
// entry's message into one failure.
func checkErrors(reqURL string, body models.Snapshot) error {
	raw, ok := body.Slice("errors")
	if !ok || len(raw) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(raw))
	for _, e := range raw {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if msg, ok := entry["message"].(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return &APIError{URL: reqURL, Messages: msgs}
}
