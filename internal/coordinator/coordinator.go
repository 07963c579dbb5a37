package coordinator

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weathercom-service/internal/models"
	"github.com/kjstillabower/weathercom-service/internal/observability"
	"github.com/kjstillabower/weathercom-service/internal/translations"
)

// DefaultUpdateInterval is the minimum time between scheduled refreshes.
const DefaultUpdateInterval = 15 * time.Minute

const (
	defaultBaseURL = "https://api.weather.com/v3/wx"
	defaultTimeout = 10 * time.Second
)

// Config is the immutable coordinator configuration supplied at
// construction.
type Config struct {
	APIKey           string
	LocationName     string
	NumericPrecision string // "none" disables the numericPrecision parameter
	UnitSystemAPI    string // "m" or "e", sent as the units parameter
	UnitSystem       string // host display preference, "metric" or "imperial"
	Lang             string
	CalendarDay      bool
	Latitude         string
	Longitude        string
	ForecastMode     string // "daily" or "hourly"
	ForecastEnable   bool
	UpdateInterval   time.Duration // default 15m

	// APIBaseURL and Timeout exist so tests can point at a local server and
	// shorten the per-call bound; production uses the defaults.
	APIBaseURL      string
	Timeout         time.Duration
	TranslationsDir string
}

// Coordinator polls the Weather.com API, merges the current-conditions and
// forecast responses into one snapshot, and serves field lookups against the
// latest snapshot. Refreshes are driven externally (scheduler or on-demand);
// the coordinator itself never overlaps them and holds no refresh lock.
type Coordinator struct {
	cfg     Config
	baseURL string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
	units   Units
	labels  translations.Table

	mu          sync.RWMutex
	data        models.Snapshot
	lastSuccess time.Time
	lastErr     error

	featuresMu sync.Mutex
	features   map[string]struct{}
}

// New builds a Coordinator from config, a shared long-lived HTTP client, and
// a logger. A missing translation file is non-fatal: the English table is
// used instead (warn-logged inside the loader).
func New(cfg Config, client *http.Client, logger *zap.Logger) *Coordinator {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = DefaultUpdateInterval
	}
	if client == nil {
		client = http.DefaultClient
	}

	c := &Coordinator{
		cfg:      cfg,
		baseURL:  strings.TrimSuffix(cfg.APIBaseURL, "/"),
		timeout:  cfg.Timeout,
		client:   client,
		logger:   logger,
		units:    unitsForSystem(cfg.UnitSystemAPI),
		labels:   translations.LoadWithFallback(cfg.TranslationsDir, cfg.Lang, logger),
		features: make(map[string]struct{}),
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	return c
}

// Data returns the snapshot from the last successful refresh, or nil when no
// refresh has succeeded yet.
func (c *Coordinator) Data() models.Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data
}

// Prime seeds the coordinator with a previously mirrored snapshot so
// accessors can serve data before the first refresh completes. A no-op once
// real data exists.
func (c *Coordinator) Prime(snap models.Snapshot) {
	if len(snap) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil {
		c.data = snap
	}
}

// LastSuccess returns when the last refresh succeeded (zero time if never).
func (c *Coordinator) LastSuccess() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastSuccess
}

// LastError returns the error from the most recent failed refresh, cleared
// by the next success.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// IsMetric reports the host display unit preference.
func (c *Coordinator) IsMetric() bool {
	return c.cfg.UnitSystem == "metric"
}

// LocationName returns the display name configured for this location.
func (c *Coordinator) LocationName() string {
	return c.cfg.LocationName
}

// Units returns the unit-of-measurement tuple for the configured API unit
// system.
func (c *Coordinator) Units() Units {
	return c.units
}

// UpdateInterval returns the configured refresh interval.
func (c *Coordinator) UpdateInterval() time.Duration {
	return c.cfg.UpdateInterval
}

// ForecastEnabled reports whether the host wants forecast entities at all.
func (c *Coordinator) ForecastEnabled() bool {
	return c.cfg.ForecastEnable
}

// CalendarDay reports whether the host prefers the calendar-day temperature
// fields over the daypart ones.
func (c *Coordinator) CalendarDay() bool {
	return c.cfg.CalendarDay
}

// Label resolves a label key through the loaded translation table.
func (c *Coordinator) Label(key string) string {
	return c.labels.Label(key)
}

// RequestFeature idempotently records a feature identifier a consumer is
// interested in. Nothing reads the set during fetching yet; it is kept for
// feature-gated requests.
func (c *Coordinator) RequestFeature(feature string) {
	c.featuresMu.Lock()
	defer c.featuresMu.Unlock()
	c.features[feature] = struct{}{}
}

// Features returns the registered feature identifiers, sorted.
func (c *Coordinator) Features() []string {
	c.featuresMu.Lock()
	defer c.featuresMu.Unlock()
	out := make([]string, 0, len(c.features))
	for f := range c.features {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// GetCondition looks up a current-condition field in the snapshot. Unit-less
// fields (humidity, wind direction) read as 0 when falsy or absent; all
// others return the stored value as-is, which may be nil.
func (c *Coordinator) GetCondition(field string) any {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var v any
	if c.data != nil {
		v = c.data[field]
	}
	if conditionFields[field].policy == zeroDefault && isFalsy(v) {
		return 0
	}
	return v
}

// GetForecast looks up a forecast field for the given daypart period.
// Calendar-day fields have one entry per day where dayparts have two, so
// they index at period/2. An out-of-range period returns nil, not an error.
func (c *Coordinator) GetForecast(field string, period int) any {
	if period < 0 {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.data == nil {
		return nil
	}

	if forecastFields[field] == perCalendarDay {
		days, ok := c.data.Slice(field)
		if !ok {
			return nil
		}
		idx := period / 2
		if idx >= len(days) {
			return nil
		}
		return days[idx]
	}

	dayparts, ok := c.data.Slice(FieldDaypart)
	if !ok || len(dayparts) == 0 {
		return nil
	}
	group, ok := dayparts[0].(map[string]any)
	if !ok {
		return nil
	}
	values, ok := group[field].([]any)
	if !ok || period >= len(values) {
		return nil
	}
	return values[period]
}

// IconCodeToCondition resolves a numeric icon code to a normalized condition
// label. A miss returns ok=false and logs one warning; code 44 (Not
// Available) is the expected unmapped case.
func (c *Coordinator) IconCodeToCondition(code int) (string, bool) {
	for _, entry := range iconConditionMap {
		for _, ic := range entry.iconCodes {
			if ic == code {
				return entry.condition, true
			}
		}
	}
	c.logger.Warn("unmapped iconCode from Weather.com API (44 is Not Available)",
		zap.Int("iconCode", code))
	observability.UnmappedIconCodesTotal.Inc()
	return "", false
}

// isFalsy mirrors truthiness over the encoding/json value set.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	}
	return false
}
