package save

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/api/middleware"
	"bracula/internal/core/feed"
	"bracula/internal/core/saves"
)

// Handler toggles the saved flag and serves the saved-items view.
type Handler struct {
	toggler *saves.Toggler
	store   *feed.Store
}

// NewHandler creates a save handler.
func NewHandler(toggler *saves.Toggler, store *feed.Store) *Handler {
	return &Handler{toggler: toggler, store: store}
}

// requestConfirmer answers the unsave prompt from the request's
// confirmed flag.
type requestConfirmer bool

func (c requestConfirmer) ConfirmUnsave(ctx context.Context, postID int64) (bool, error) {
	return bool(c), nil
}

// HandleToggle flips the saved flag on a post.
// POST /posts/{postID}/save
//
// Request body: { "confirmed"?: true }
//
// Unsaving an already-saved post without confirmed=true returns 409 so
// the client can show the confirmation prompt and resubmit.
func (h *Handler) HandleToggle(w http.ResponseWriter, r *http.Request) {
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
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Please login to save posts")
		return
	}

	// Surface the confirmation requirement before touching anything so
	// the client can prompt.
	if post, ok := h.store.Get(postID); ok && post.Saved && !req.Confirmed {
		handlers.WriteError(w, http.StatusConflict, "ConfirmationRequired", "Unsaving removes this post from your saved list. Confirm to proceed.")
		return
	}

	result, err := h.toggler.Toggle(r.Context(), viewerID, postID, requestConfirmer(req.Confirmed))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, result.Message, map[string]interface{}{
		"is_saved": result.Saved,
	})
}

// HandleSavedView returns the viewer's saved posts, newest first.
// GET /posts/saved
func (h *Handler) HandleSavedView(w http.ResponseWriter, r *http.Request) {
	viewerID := middleware.GetViewerID(r)
	if viewerID == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Please login to view saved posts")
		return
	}

	if _, err := h.toggler.LoadSavedView(r.Context(), viewerID); err != nil {
		handleServiceError(w, err)
		return
	}

	posts, _ := h.toggler.SavedView()
	handlers.WriteSuccess(w, http.StatusOK, "", posts)
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, saves.ErrUnauthenticated):
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", err.Error())
	case errors.Is(err, saves.ErrPostNotFound):
		handlers.WriteError(w, http.StatusNotFound, "PostNotFound", "Post not found")
	case errors.Is(err, saves.ErrSaveInFlight):
		handlers.WriteError(w, http.StatusConflict, "SaveInFlight", err.Error())
	case errors.Is(err, saves.ErrConfirmationRequired):
		handlers.WriteError(w, http.StatusConflict, "ConfirmationRequired", err.Error())
	default:
		handlers.WriteError(w, http.StatusBadGateway, "UpstreamFailed", "Failed to update saved state")
	}
}
