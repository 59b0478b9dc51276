package handler

import (
	"encoding/json"
	"net/http"

	"github.com/nimbusapp/nimbus/internal/api/models"
	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/units"
)

// UnitsResponse carries the active unit system.
type UnitsResponse struct {
	System units.System `json:"system"`
}

// SetUnitsRequest is the body for PUT /v1/units.
type SetUnitsRequest struct {
	System string `json:"system"`
}

// UnitsHandler handles unit system preference endpoints.
type UnitsHandler struct {
	settings *units.Settings
}

// NewUnitsHandler creates a new UnitsHandler.
func NewUnitsHandler(settings *units.Settings) *UnitsHandler {
	return &UnitsHandler{settings: settings}
}

// GetUnits handles GET /v1/units.
func (h *UnitsHandler) GetUnits(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, UnitsResponse{System: h.settings.System()})
}

// SetUnits handles PUT /v1/units.
func (h *UnitsHandler) SetUnits(w http.ResponseWriter, r *http.Request) {
	var req SetUnitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}

	sys, err := units.Parse(req.System)
	if err != nil {
		response.BadRequest(w, r, "unknown unit system", []models.FieldError{
			{Field: "system", Message: "must be metric or imperial", Code: "invalid"},
		})
		return
	}

	if err := h.settings.SetSystem(r.Context(), sys); err != nil {
		response.InternalError(w, r, "failed to persist unit system")
		return
	}
	response.JSON(w, r, http.StatusOK, UnitsResponse{System: sys})
}
