package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "bracula_session"

type contextKey string

const viewerIDKey contextKey = "viewerID"

// SessionManager wraps the cookie store that carries the viewer's
// session between requests.
type SessionManager struct {
	store *sessions.CookieStore
}

// NewSessionManager creates a session manager with the given signing
// secret.
func NewSessionManager(secret string) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store}
}

// WithViewer resolves the session cookie and injects the viewer id
// into the request context. Anonymous requests pass through with no
// viewer; handlers that need one check for it themselves.
func (s *SessionManager) WithViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session, err := s.store.Get(r, sessionName)
		if err == nil {
			if id, ok := session.Values["viewer_id"].(int64); ok && id != 0 {
				r = r.WithContext(WithViewerID(r.Context(), id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Establish writes a session cookie for the viewer.
func (s *SessionManager) Establish(w http.ResponseWriter, r *http.Request, viewerID int64) error {
	session, _ := s.store.Get(r, sessionName)
	session.Values["viewer_id"] = viewerID
	return session.Save(r, w)
}

// Clear expires the viewer's session cookie.
func (s *SessionManager) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, sessionName)
	session.Options.MaxAge = -1
	delete(session.Values, "viewer_id")
	return session.Save(r, w)
}

// WithViewerID returns a context carrying the viewer id.
func WithViewerID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, viewerIDKey, id)
}

// GetViewerID returns the authenticated viewer's id, or 0 for
// anonymous requests.
func GetViewerID(r *http.Request) int64 {
	if id, ok := r.Context().Value(viewerIDKey).(int64); ok {
		return id
	}
	return 0
}
