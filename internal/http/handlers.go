package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/weathercom-service/internal/coordinator"
)

// Handler serves the read-only accessor API over the coordinator's latest
// snapshot. Reads never trigger upstream fetches; only /v1/refresh does.
type Handler struct {
	coord     *coordinator.Coordinator
	logger    *zap.Logger
	cachePing func() error
	startTime time.Time
}

func NewHandler(coord *coordinator.Coordinator, logger *zap.Logger, cachePing func() error) *Handler {
	return &Handler{
		coord:     coord,
		logger:    logger,
		cachePing: cachePing,
		startTime: time.Now(),
	}
}

// GetCondition serves GET /v1/conditions/{field}.
func (h *Handler) GetCondition(w http.ResponseWriter, r *http.Request) {
	field := mux.Vars(r)["field"]
	if !coordinator.IsConditionField(field) {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_FIELD", "unrecognized condition field: "+field)
		return
	}
	if h.coord.Data() == nil {
		writeError(w, r, http.StatusServiceUnavailable, "NO_DATA", "no successful refresh yet")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"field": field,
		"label": h.coord.Label(field),
		"value": h.coord.GetCondition(field),
		"unit":  coordinator.ConditionUnit(field, h.coord.Units()),
	})
}

// GetForecast serves GET /v1/forecast/{field}?period=N. An out-of-range
// period is not an error; the value is simply null.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	field := mux.Vars(r)["field"]
	if !coordinator.IsForecastField(field) {
		writeError(w, r, http.StatusNotFound, "UNKNOWN_FIELD", "unrecognized forecast field: "+field)
		return
	}
	if !h.coord.ForecastEnabled() {
		writeError(w, r, http.StatusNotFound, "FORECAST_DISABLED", "forecast is disabled for this location")
		return
	}
	if h.coord.Data() == nil {
		writeError(w, r, http.StatusServiceUnavailable, "NO_DATA", "no successful refresh yet")
		return
	}

	period := 0
	if p := r.URL.Query().Get("period"); p != "" {
		parsed, err := strconv.Atoi(p)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "BAD_PERIOD", "period must be a non-negative integer")
			return
		}
		period = parsed
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"field":  field,
		"label":  h.coord.Label(field),
		"period": period,
		"value":  h.coord.GetForecast(field, period),
	})
}

// GetSnapshot serves GET /v1/snapshot: the whole merged payload.
func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	data := h.coord.Data()
	if data == nil {
		writeError(w, r, http.StatusServiceUnavailable, "NO_DATA", "no successful refresh yet")
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// GetConditionLabel serves GET /v1/condition?iconCode=N. An unmapped code is
// an expected case (44 = Not Available) and yields a null condition, not an
// error.
func (h *Handler) GetConditionLabel(w http.ResponseWriter, r *http.Request) {
	codeParam := r.URL.Query().Get("iconCode")
	code, err := strconv.Atoi(codeParam)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_ICON_CODE", "iconCode must be an integer")
		return
	}

	body := map[string]any{"iconCode": code, "condition": nil}
	if cond, ok := h.coord.IconCodeToCondition(code); ok {
		body["condition"] = cond
		body["label"] = h.coord.Label(cond)
	}
	writeJSON(w, http.StatusOK, body)
}

// PostRefresh serves POST /v1/refresh: one on-demand fetch cycle.
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	snap, err := h.coord.Refresh(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "REFRESH_FAILED", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": len(snap)})
}

// GetHealth reports coordinator state. Always 200: staleness policy is the
// caller's call, made from lastSuccess and lastError.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.coord.Data() == nil {
		status = "starting"
	} else if h.coord.LastError() != nil {
		status = "degraded"
	}

	body := map[string]any{
		"status":        status,
		"location":      h.coord.LocationName(),
		"isMetric":      h.coord.IsMetric(),
		"uptimeSeconds": int(time.Since(h.startTime).Seconds()),
	}
	if last := h.coord.LastSuccess(); !last.IsZero() {
		body["lastSuccess"] = last.UTC().Format(time.RFC3339)
		body["snapshotAgeSeconds"] = int(time.Since(last).Seconds())
	}
	if err := h.coord.LastError(); err != nil {
		body["lastError"] = err.Error()
	}
	if h.cachePing != nil {
		body["cache"] = "ok"
		if err := h.cachePing(); err != nil {
			body["cache"] = "error"
		}
	}

	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID, _ = v.(string)
	}
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
