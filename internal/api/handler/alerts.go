package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nimbusapp/nimbus/internal/alerts"
	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// AlertsResponse is the active alert list.
type AlertsResponse struct {
	Alerts []alerts.Alert `json:"alerts"`
}

// AlertsHandler handles weather alert endpoints.
type AlertsHandler struct {
	engine   *alerts.Engine
	service  *weather.Service
	settings *units.Settings
}

// NewAlertsHandler creates a new AlertsHandler.
func NewAlertsHandler(engine *alerts.Engine, service *weather.Service, settings *units.Settings) *AlertsHandler {
	return &AlertsHandler{engine: engine, service: service, settings: settings}
}

// ListAlerts handles GET /v1/alerts.
func (h *AlertsHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, AlertsResponse{Alerts: h.engine.Active()})
}

// CheckAlerts handles POST /v1/alerts/check?q={city}. It runs the fetch
// pipeline for the city and evaluates alert thresholds on the result.
func (h *AlertsHandler) CheckAlerts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "query parameter q is required", nil)
		return
	}

	result, err := h.service.Fetch(r.Context(), query, false)
	if err != nil {
		writeWeatherError(w, r, err)
		return
	}

	active := h.engine.Check(result.Snapshot, resolveUnits(r, h.settings))
	response.JSON(w, r, http.StatusOK, AlertsResponse{Alerts: active})
}

// DismissAlert handles DELETE /v1/alerts/{alertId}.
func (h *AlertsHandler) DismissAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "alertId")
	if alertID == "" {
		response.BadRequest(w, r, "alert id is required", nil)
		return
	}

	h.engine.Dismiss(alertID)
	response.NoContent(w, r)
}
