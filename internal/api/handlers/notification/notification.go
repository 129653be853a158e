package notification

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers"
	"bracula/internal/core/notifications"
	"bracula/internal/remote"
)

// Handler serves the notification panel.
type Handler struct {
	manager *notifications.Manager
}

// NewHandler creates a notification handler.
func NewHandler(manager *notifications.Manager) *Handler {
	return &Handler{manager: manager}
}

// listItem is a notification annotated with its display icon class.
type listItem struct {
	remote.Notification
	Icon string `json:"icon"`
}

// HandleList returns notifications, optionally filtered, each with the
// icon class for its kind.
// GET /notifications?filter=all|unread|read
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := notifications.Filter(r.URL.Query().Get("filter"))
	switch filter {
	case "":
		filter = notifications.FilterAll
	case notifications.FilterAll, notifications.FilterUnread, notifications.FilterRead:
	default:
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "filter must be all, unread, or read")
		return
	}

	list := h.manager.List(filter)
	items := make([]listItem, len(list))
	for i, n := range list {
		items[i] = listItem{Notification: n, Icon: notifications.IconFor(n.Kind)}
	}

	handlers.WriteSuccess(w, http.StatusOK, "", map[string]interface{}{
		"notifications": items,
		"unread_count":  h.manager.Unread(),
	})
}

// HandleMarkRead marks one notification read.
// POST /notifications/{id}/read
func (h *Handler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid notification id")
		return
	}

	if err := h.manager.MarkRead(r.Context(), id); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Notification marked as read", map[string]interface{}{
		"unread_count": h.manager.Unread(),
	})
}

// HandleMarkAllRead marks every notification read.
// POST /notifications/read-all
func (h *Handler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.MarkAllRead(r.Context()); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "All notifications marked as read", map[string]interface{}{
		"unread_count": 0,
	})
}

// HandleAdd creates a notification. The type defaults to "general".
// POST /notifications
//
// Request body: { "title": "...", "message": "...", "type"?: "..." }
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    string `json:"type"`
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Title == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "title is required")
		return
	}

	created := h.manager.Add(r.Context(), req.Kind, req.Title, req.Message)
	handlers.WriteSuccess(w, http.StatusCreated, "Notification added", created)
}

// HandleUpdate rewrites a notification's title and message.
// PATCH /notifications/{id}
//
// Request body: { "title": "...", "message": "..." }
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid notification id")
		return
	}

	var req struct {
		Title   string `json:"title"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if req.Title == "" {
		handlers.WriteError(w, http.StatusBadRequest, "InvalidRequest", "title is required")
		return
	}

	if err := h.manager.Update(r.Context(), id, req.Title, req.Message); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteSuccess(w, http.StatusOK, "Notification updated", nil)
}

// handleServiceError converts service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, notifications.ErrNotFound):
		handlers.WriteError(w, http.StatusNotFound, "NotificationNotFound", "Notification not found")
	default:
		handlers.WriteError(w, http.StatusInternalServerError, "InternalError", "Failed to update notifications")
	}
}
