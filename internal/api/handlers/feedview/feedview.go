// Package feedview exposes the feed view over HTTP: listing with
// filters, pagination, and the post lifecycle (create, edit, delete).
package feedview

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/api/middleware"
	"bracula/internal/core/feed"
)

// Handler serves the feed endpoints.
type Handler struct {
	store *feed.Store
}

// NewHandler creates a feed handler over the view store.
func NewHandler(store *feed.Store) *Handler {
	return &Handler{store: store}
}

// HandleList returns the current feed, loading or reloading as the
// query filters require.
// GET /posts?sortBy&community&query
//
// A sort-only change re-sorts the loaded posts without a reload; a
// community or search change starts over from page 1.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)

	q := r.URL.Query()
	requested := h.store.Filters()
	if v := q.Get("sortBy"); v != "" {
		requested.SortBy = feed.SortMode(v)
	}
	if !requested.SortBy.Valid() {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "sortBy must be latest, popular, or discussed")
		return
	}
	if q.Has("community") {
		requested.Community = q.Get("community")
	}
	if q.Has("query") {
		requested.Query = q.Get("query")
	}

	current := h.store.Filters()
	switch {
	case h.store.Len() == 0:
		if err := h.store.LoadFirstPage(r.Context(), viewerID, requested); err != nil {
			handleStoreError(w, err)
			return
		}
	case requested.Community != current.Community || requested.Query != current.Query:
		if err := h.store.ApplyFilterChange(r.Context(), viewerID, requested); err != nil {
			handleStoreError(w, err)
			return
		}
	case requested.SortBy != current.SortBy:
		h.store.SetSortMode(requested.SortBy)
	}

	handlers.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"posts": h.store.Posts(),
		"page":  h.store.Page(),
	})
}

// HandleNextPage loads and merges the next page.
// POST /posts/next
func (h *Handler) HandleNextPage(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)

	if err := h.store.LoadNextPage(r.Context(), viewerID); err != nil {
		handleStoreError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"posts": h.store.Posts(),
		"page":  h.store.Page(),
	})
}

// HandleRefresh reloads page 1 with the current filters.
// POST /posts/refresh
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)

	if err := h.store.LoadFirstPage(r.Context(), viewerID, h.store.Filters()); err != nil {
		handleStoreError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"posts": h.store.Posts(),
		"page":  h.store.Page(),
	})
}

// HandleCreate creates a post.
// POST /posts
//
// Request body: { "caption": "...", "content": "...", "community": "..." }
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)
	if viewerID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Please login to post")
		return
	}

	var req struct {
		Caption   string `json:"caption"`
		Content   string `json:"content"`
		Community string `json:"community"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	post, err := h.store.CreatePost(r.Context(), viewerID, req.Caption, req.Content, req.Community)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusCreated, "Post created", post)
}

// HandleEdit rewrites a post. Only the author may edit; the backend
// rejects anyone else.
// PUT /posts/{postID}
//
// Request body: { "caption": "...", "content": "...", "community": "..." }
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
		return
	}

	var req struct {
		Caption   string `json:"caption"`
		Content   string `json:"content"`
		Community string `json:"community"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}

	viewerID := middleware.GetViewerID(r)

	post, err := h.store.EditPost(r.Context(), viewerID, postID, req.Caption, req.Content, req.Community)
	if err != nil {
		handleStoreError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Post updated", post)
}

// HandleDelete removes a post and everything hanging off it.
// DELETE /posts/{postID}
//
// Request body: { "confirmed"?: true }
//
// Deletion is irreversible, so a request without confirmed=true
// returns 409 and the client prompts before resubmitting, same as
// unsaving a post.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid post id")
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
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Please login to delete posts")
		return
	}

	if !req.Confirmed {
		handlers.WriteError(w, http.StatusConflict, "ConfirmationRequired", "Deleting a post cannot be undone. Confirm to proceed.")
		return
	}

	if err := h.store.DeletePost(r.Context(), viewerID, postID); err != nil {
		handleStoreError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Post deleted successfully", nil)
}

func handleStoreError(w http.ResponseWriter, err error) {
	var vErr *feed.ValidationError
	switch {
	case errors.Is(err, feed.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", err.Error())
	case errors.Is(err, feed.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case errors.As(err, &vErr):
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", vErr.Error())
	default:
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamFailed", "Could not reach the backend")
	}
}
