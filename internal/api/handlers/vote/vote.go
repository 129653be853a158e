package vote

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/api/middleware"
	"bracula/internal/core/votes"
)

// Handler applies vote transitions for the viewer.
type Handler struct {
	coordinator *votes.Coordinator
}

// NewHandler creates a vote handler.
func NewHandler(coordinator *votes.Coordinator) *Handler {
	return &Handler{coordinator: coordinator}
}

// HandleVote applies one press of a vote button.
// POST /posts/{postID}/vote
//
// Request body: { "direction": "up" | "down" }
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	var req struct {
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Direction == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "direction is required")
		return
	}

	viewerID := middleware.GetViewerID(r)

	result, err := h.coordinator.Apply(r.Context(), viewerID, postID, votes.State(req.Direction))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, result.Message, map[string]interface{}{
		"user_vote":      string(result.State),
		"new_vote_count": result.Count,
	})
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, votes.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", err.Error())
	case errors.Is(err, votes.ErrInvalidDirection):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "direction must be 'up' or 'down'")
	case errors.Is(err, votes.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case errors.Is(err, votes.ErrVoteInFlight):
		handlers.WriteError(w, http.StatusConflict, "VoteInFlight", err.Error())
	default:
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamFailed", "Failed to vote")
	}
}
