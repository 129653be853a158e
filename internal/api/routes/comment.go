package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/comment"
	"bracula/internal/core/comments"
)

// RegisterCommentRoutes registers the comment thread and lifecycle
// endpoints on the router
func RegisterCommentRoutes(r chi.Router, service *comments.Service) {
	handler := comment.NewHandler(service)

	r.Get("/posts/{postID}/comments", handler.HandleThread)
	r.Post("/posts/{postID}/comments", handler.HandleCreate)
	r.Put("/posts/{postID}/comments/{commentID}", handler.HandleEdit)
	r.Delete("/posts/{postID}/comments/{commentID}", handler.HandleDelete)
}
