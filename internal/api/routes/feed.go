package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/feedview"
	"bracula/internal/core/feed"
)

// RegisterFeedRoutes registers the feed listing, pagination, and post
// lifecycle endpoints on the router
func RegisterFeedRoutes(r chi.Router, store *feed.Store) {
	handler := feedview.NewHandler(store)

	r.Get("/posts", handler.HandleList)
	r.Post("/posts", handler.HandleCreate)
	r.Put("/posts/{postID}", handler.HandleEdit)
	r.Delete("/posts/{postID}", handler.HandleDelete)
	r.Post("/posts/next", handler.HandleNextPage)
	r.Post("/posts/refresh", handler.HandleRefresh)
}
