package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/preferences"
	"bracula/internal/localstate"
)

// RegisterPreferenceRoutes registers the persisted client preference
// endpoints on the router
func RegisterPreferenceRoutes(r chi.Router, state *localstate.Store) {
	handler := preferences.NewHandler(state)

	r.Get("/preferences/favorites", handler.HandleFavorites)
	r.Put("/preferences/favorites/{id}", handler.HandleAddFavorite)
	r.Delete("/preferences/favorites/{id}", handler.HandleRemoveFavorite)
	r.Get("/preferences/view-mode", handler.HandleGetViewMode)
	r.Put("/preferences/view-mode", handler.HandleSetViewMode)
}
