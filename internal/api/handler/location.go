package handler

import (
	"net/http"

	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/location"
)

// LocationHandler handles device location endpoints.
type LocationHandler struct {
	resolver *location.Resolver
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(resolver *location.Resolver) *LocationHandler {
	return &LocationHandler{resolver: resolver}
}

// GetLocation handles GET /v1/location?cached={bool}. Expected failure
// modes come back as 200 with a status field; only a permission
// subsystem fault is a server error.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	allowCached := r.URL.Query().Get("cached") != "false"

	result, err := h.resolver.Resolve(r.Context(), allowCached)
	if err != nil {
		response.InternalError(w, r, "location permission subsystem failed")
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}
