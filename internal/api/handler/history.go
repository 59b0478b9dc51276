package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/history"
)

// HistoryResponse is one city's recorded series.
type HistoryResponse struct {
	City    string           `json:"city"`
	Records []history.Record `json:"records"`
}

// HistoryHandler handles per-city weather history endpoints.
type HistoryHandler struct {
	recorder *history.Recorder
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(recorder *history.Recorder) *HistoryHandler {
	return &HistoryHandler{recorder: recorder}
}

// ListCities handles GET /v1/history.
func (h *HistoryHandler) ListCities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.recorder.Cities(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to list recorded cities")
		return
	}
	response.JSON(w, r, http.StatusOK, map[string][]string{"cities": cities})
}

// GetHistory handles GET /v1/history/{city}.
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	records, err := h.recorder.ForCity(r.Context(), city)
	if err != nil {
		response.InternalError(w, r, "failed to read history")
		return
	}
	response.JSON(w, r, http.StatusOK, HistoryResponse{City: city, Records: records})
}

// ClearHistory handles DELETE /v1/history/{city}.
func (h *HistoryHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	if err := h.recorder.Clear(r.Context(), city); err != nil {
		response.InternalError(w, r, "failed to clear history")
		return
	}
	response.NoContent(w, r)
}
