package routes

import (
	"github.com/go-chi/chi/v5"

	"bracula/internal/api/handlers/session"
	"bracula/internal/api/middleware"
	"bracula/internal/localstate"
)

// RegisterSessionRoutes registers login, logout, and current-session
// endpoints on the router
func RegisterSessionRoutes(r chi.Router, sessions *middleware.SessionManager, state *localstate.Store) {
	handler := session.NewHandler(sessions, state)

	r.Get("/session", handler.HandleCurrent)
	r.Post("/session", handler.HandleLogin)
	r.Delete("/session", handler.HandleLogout)
}
