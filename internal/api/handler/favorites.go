package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nimbusapp/nimbus/internal/api/models"
	"github.com/nimbusapp/nimbus/internal/api/response"
	"github.com/nimbusapp/nimbus/internal/favorites"
)

// AddFavoriteRequest is the body for POST /v1/favorites.
type AddFavoriteRequest struct {
	City string `json:"city"`
}

// FavoritesResponse is the saved city list.
type FavoritesResponse struct {
	Cities []string `json:"cities"`
}

// FavoritesHandler handles saved-city endpoints.
type FavoritesHandler struct {
	service *favorites.Service
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(service *favorites.Service) *FavoritesHandler {
	return &FavoritesHandler{service: service}
}

// ListFavorites handles GET /v1/favorites.
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.List(r.Context())
	if err != nil {
		response.InternalError(w, r, "failed to read favorites")
		return
	}
	response.JSON(w, r, http.StatusOK, FavoritesResponse{Cities: cities})
}

// AddFavorite handles POST /v1/favorites.
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body", nil)
		return
	}
	if req.City == "" {
		response.BadRequest(w, r, "city is required", []models.FieldError{
			{Field: "city", Message: "must not be empty", Code: "required"},
		})
		return
	}

	if err := h.service.Add(r.Context(), req.City); err != nil {
		if errors.Is(err, favorites.ErrFavoritesFull) {
			response.Conflict(w, r, "favorites list is full")
			return
		}
		response.InternalError(w, r, "failed to save favorite")
		return
	}
	response.NoContent(w, r)
}

// RemoveFavorite handles DELETE /v1/favorites/{city}.
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	city := chi.URLParam(r, "city")

	if err := h.service.Remove(r.Context(), city); err != nil {
		response.InternalError(w, r, "failed to remove favorite")
		return
	}
	response.NoContent(w, r)
}
