package comment

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/api/middleware"
	"bracula/internal/core/comments"
)

// Handler serves comment threads and accepts new comments.
type Handler struct {
	service *comments.Service
}

// NewHandler creates a comment handler.
func NewHandler(service *comments.Service) *Handler {
	return &Handler{service: service}
}

// HandleThread returns a post's comments in display order, replies
// directly after their parents.
// GET /posts/{postID}/comments
func (h *Handler) HandleThread(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	thread, err := h.service.GetThread(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "", thread)
}

// HandleCreate posts a comment or a reply.
// POST /posts/{postID}/comments
//
// Request body: { "content": "...", "parent_id"?: 123 }
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	var req struct {
		Content  string `json:"content"`
		ParentID *int64 `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	viewerID := middleware.GetViewerID(r)

	created, err := h.service.Create(r.Context(), viewerID, postID, req.Content, req.ParentID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusCreated, "Comment added", created)
}

// HandleEdit rewrites a comment's content. Only the author may edit;
// the backend rejects anyone else.
// PUT /posts/{postID}/comments/{commentID}
//
// Request body: { "content": "..." }
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid comment id")
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	viewerID := middleware.GetViewerID(r)

	updated, err := h.service.Edit(r.Context(), viewerID, postID, commentID, req.Content)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Comment updated", updated)
}

// HandleDelete removes a comment and its replies.
// DELETE /posts/{postID}/comments/{commentID}
//
// Request body: { "confirmed"?: true }
//
// Deletion is irreversible, so a request without confirmed=true
// returns 409 and the client prompts before resubmitting.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}
	commentID, err := strconv.ParseInt(chi.URLParam(r, "commentID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid comment id")
		return
	}

	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
			return
		}
	}

	viewerID := middleware.GetViewerID(r)
	if viewerID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Please login to delete comments")
		return
	}

	if !req.Confirmed {
		handlers.WriteError(w, http.StatusConflict, "ConfirmationRequired", "Deleting a comment cannot be undone. Confirm to proceed.")
		return
	}

	if err := h.service.Delete(r.Context(), viewerID, postID, commentID); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Comment deleted successfully", nil)
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, comments.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", err.Error())
	case errors.Is(err, comments.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case errors.Is(err, comments.ErrContentEmpty):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "content is required")
	default:
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamFailed", "Failed to load comments")
	}
}
