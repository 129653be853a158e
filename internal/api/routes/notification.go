package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/notification"
	"bracula/internal/core/notifications"
)

// RegisterNotificationRoutes registers the notification panel
// endpoints on the router
func RegisterNotificationRoutes(r chi.Router, manager *notifications.Manager) {
	handler := notification.NewHandler(manager)

	r.Get("/notifications", handler.HandleList)
	r.Post("/notifications", handler.HandleAdd)
	r.Patch("/notifications/{id}", handler.HandleUpdate)
	r.Post("/notifications/{id}/read", handler.HandleMarkRead)
	r.Post("/notifications/read-all", handler.HandleMarkAllRead)
}
