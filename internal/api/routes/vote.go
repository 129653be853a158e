package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/vote"
	"bracula/internal/core/votes"
)

// RegisterVoteRoutes registers the vote endpoint on the router
func RegisterVoteRoutes(r chi.Router, coordinator *votes.Coordinator) {
	handler := vote.NewHandler(coordinator)

	r.Post("/posts/{postID}/vote", handler.HandleVote)
}
