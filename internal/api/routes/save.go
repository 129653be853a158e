package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/save"
	"bracula/internal/core/feed"
	"bracula/internal/core/saves"
)

// RegisterSaveRoutes registers the save toggle and saved-items
// endpoints on the router
func RegisterSaveRoutes(r chi.Router, toggler *saves.Toggler, store *feed.Store) {
	handler := save.NewHandler(toggler, store)

	// Registered before the {postID} routes so "saved" is not taken
	// for a post id.
	r.Get("/posts/saved", handler.HandleSavedView)
	r.Post("/posts/{postID}/save", handler.HandleToggle)
}
