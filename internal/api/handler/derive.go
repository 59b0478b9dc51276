package handler

import (
	"net/http"

	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/derive"
	"github.com/nimbusapp/nimbus/internal/units"
	"github.com/nimbusapp/nimbus/internal/weather"
)

// DeriveHandler handles endpoints that compute derived features from a
// weather snapshot: recommendations, activity suitability, facts, and
// share text. Each fetches through the pipeline, so a fresh cache hit
// costs no network call.
type DeriveHandler struct {
	service      *weather.Service
	settings     *units.Settings
	facts        *derive.FactPicker
	explanations *derive.FactPicker
}

// NewDeriveHandler creates a new DeriveHandler.
func NewDeriveHandler(service *weather.Service, settings *units.Settings, facts, explanations *derive.FactPicker) *DeriveHandler {
	return &DeriveHandler{service: service, settings: settings, facts: facts, explanations: explanations}
}

func (h *DeriveHandler) fetch(w http.ResponseWriter, r *http.Request) (*weather.Snapshot, bool) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "query parameter q is required", nil)
		return nil, false
	}

	result, err := h.service.Fetch(r.Context(), query, false)
	if err != nil {
		writeWeatherError(w, r, err)
		return nil, false
	}
	return result.Snapshot, true
}

// GetRecommendation handles GET /v1/recommendations?q={city}.
func (h *DeriveHandler) GetRecommendation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.fetch(w, r)
	if !ok {
		return
	}

	rec := derive.Recommend(snapshot, resolveUnits(r, h.settings))
	response.JSON(w, r, http.StatusOK, rec)
}

// ActivitiesResponse is the scored activity list.
type ActivitiesResponse struct {
	Activities []derive.ScoredActivity `json:"activities"`
}

// GetActivities handles GET /v1/activities?q={city}.
func (h *DeriveHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.fetch(w, r)
	if !ok {
		return
	}

	response.JSON(w, r, http.StatusOK, ActivitiesResponse{
		Activities: derive.Suitability(snapshot),
	})
}

// GetFact handles GET /v1/facts?q={city}.
func (h *DeriveHandler) GetFact(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.fetch(w, r)
	if !ok {
		return
	}

	response.JSON(w, r, http.StatusOK, h.facts.Pick(snapshot))
}

// GetExplanation handles GET /v1/explanations?q={city}.
func (h *DeriveHandler) GetExplanation(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.fetch(w, r)
	if !ok {
		return
	}

	response.JSON(w, r, http.StatusOK, h.explanations.Pick(snapshot))
}

// ShareResponse carries the rendered share text.
type ShareResponse struct {
	Text string `json:"text"`
}

// GetShareText handles GET /v1/share?q={city}.
func (h *DeriveHandler) GetShareText(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.fetch(w, r)
	if !ok {
		return
	}

	text := derive.ShareText(snapshot, resolveUnits(r, h.settings))
	response.JSON(w, r, http.StatusOK, ShareResponse{Text: text})
}
