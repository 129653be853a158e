package session

import (
	"encoding/json"
	"net/http"

	"bracula/internal/api/handlers"
	"bracula/internal/api/middleware"
	"bracula/internal/localstate"
)

// Handler establishes and tears down the viewer session.
type Handler struct {
	sessions *middleware.SessionManager
	state    *localstate.Store
}

// NewHandler creates a session handler.
func NewHandler(sessions *middleware.SessionManager, state *localstate.Store) *Handler {
	return &Handler{sessions: sessions, state: state}
}

// HandleLogin establishes a session for the given profile and persists
// the profile snapshot.
// POST /session
//
// Request body: { "user_id": 1, "full_name": "...", "email"?, "avatar_url"? }
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req localstate.User
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.UserID == 0 {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "user_id is required")
		return
	}
	if req.FullName == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "full_name is required")
		return
	}

	if err := h.state.SaveUser(r.Context(), req); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to persist session")
		return
	}
	if err := h.sessions.Establish(w, r, req.UserID); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to establish session")
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Logged in", req)
}

// HandleCurrent returns the persisted profile for the active session.
// GET /session
func (h *Handler) HandleCurrent(w http.ResponseWriter, r *http.Request) {
	if middleware.GetViewerID(r) == 0 {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Not logged in")
		return
	}

	user, ok, err := h.state.LoadUser(r.Context())
	if err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to load session")
		return
	}
	if !ok {
		handlers.WriteError(w, http.StatusUnauthorized, "AuthRequired", "Not logged in")
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "", user)
}

// HandleLogout clears the session and the persisted profile.
// DELETE /session
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.state.ClearUser(r.Context()); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to clear session")
		return
	}
	if err := h.sessions.Clear(w, r); err != nil {
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to clear session")
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Logged out", nil)
}
