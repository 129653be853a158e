// Package preferences exposes the persisted per-client preferences:
// favorite accommodation ids and the accommodation list view mode.
package preferences

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/localstate"
)

const defaultViewMode = "grid"

// Handler serves the persisted preference endpoints.
type Handler struct {
	state *localstate.Store
}

// NewHandler creates a preferences handler.
func NewHandler(state *localstate.Store) *Handler {
	return &Handler{state: state}
}

// HandleFavorites returns the favorite accommodation ids.
// GET /preferences/favorites
func (h *Handler) HandleFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.state.Favorites(r.Context())
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to load favorites")
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "", ids)
}

// HandleAddFavorite adds one accommodation id to the favorites.
// PUT /preferences/favorites/{id}
func (h *Handler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "id is required")
		return
	}
	if err := h.state.AddFavorite(r.Context(), id); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to save favorite")
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "Favorite added", nil)
}

// HandleRemoveFavorite removes one accommodation id from the favorites.
// DELETE /preferences/favorites/{id}
func (h *Handler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.state.RemoveFavorite(r.Context(), id); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to remove favorite")
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "Favorite removed", nil)
}

// HandleGetViewMode returns the accommodation list view mode.
// GET /preferences/view-mode
func (h *Handler) HandleGetViewMode(w http.ResponseWriter, r *http.Request) {
	mode, err := h.state.AccommodationViewMode(r.Context(), defaultViewMode)
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to load view mode")
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "", map[string]string{"view_mode": mode})
}

// HandleSetViewMode stores the accommodation list view mode.
// PUT /preferences/view-mode
//
// Request body: { "view_mode": "grid" | "list" }
func (h *Handler) HandleSetViewMode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ViewMode string `json:"view_mode"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.ViewMode != "grid" && req.ViewMode != "list" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "view_mode must be 'grid' or 'list'")
		return
	}

	if err := h.state.SetAccommodationViewMode(r.Context(), req.ViewMode); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to save view mode")
		return
	}
	handlers.WriteSuccess(w, http.StatusOK, "View mode saved", map[string]string{"view_mode": req.ViewMode})
}
