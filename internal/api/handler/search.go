package handler

import (
	"net/http"

	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/search"
	"github.com/nimbusapp/nimbus/internal/weather/weatherapi"
)

// SearchResponse is the city search result set.
type SearchResponse struct {
	Cities []weatherapi.City `json:"cities"`
}

// SearchHandler handles city search endpoints.
type SearchHandler struct {
	service *search.Service
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(service *search.Service) *SearchHandler {
	return &SearchHandler{service: service}
}

// SearchCities handles GET /v1/search?q={query}.
func (h *SearchHandler) SearchCities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		response.BadRequest(w, r, "query parameter q is required", nil)
		return
	}

	cities, err := h.service.Search(r.Context(), query)
	if err != nil {
		response.ServiceUnavailable(w, r, "city search is temporarily unavailable")
		return
	}
	if cities == nil {
		cities = []weatherapi.City{}
	}
	response.JSON(w, r, http.StatusOK, SearchResponse{Cities: cities})
}

// RecentSearches handles GET /v1/search/recent.
func (h *SearchHandler) RecentSearches(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, map[string][]string{"queries": h.service.Recent()})
}

// ClearRecentSearches handles DELETE /v1/search/recent.
func (h *SearchHandler) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	h.service.ClearRecent()
	response.NoContent(w, r)
}
