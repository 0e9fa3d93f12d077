package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/rahul4469/landmark-guide/context"
	"github.com/rahul4469/landmark-guide/internal/models"
)

type SessionMiddleware struct {
	store      models.SessionStore
	cookieName string
	duration   time.Duration
	secure     bool
	log        *slog.Logger
}

func NewSessionMiddleware(store models.SessionStore, cookieName string, duration time.Duration, secure bool, log *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		store:      store,
		cookieName: cookieName,
		duration:   duration,
		secure:     secure,
		log:        log,
	}
}

// SetSession loads the browser's session state from the store and puts it
// in the request context. It never blocks a request: a missing, expired or
// unreadable session is replaced by a fresh one under a new cookie.
// Handlers persist changes themselves through the store.
func (m *SessionMiddleware) SetSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(m.cookieName); err == nil && cookie.Value != "" {
			key := models.HashToken(cookie.Value)
			state, err := m.store.Get(r.Context(), key)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(context.ContextSetSession(r.Context(), key, state)))
				return
			}
			if !errors.Is(err, models.ErrSessionNotFound) {
				m.log.WarnContext(r.Context(), "session load failed, starting fresh", "error", err)
			}
		}

		token, err := models.NewToken(models.DefaultTokenLength)
		if err != nil {
			m.log.ErrorContext(r.Context(), "session token generation failed", "error", err)
			http.Error(w, "Something went wrong.", http.StatusInternalServerError)
			return
		}
		m.setCookie(w, token)

		key := models.HashToken(token)
		next.ServeHTTP(w, r.WithContext(context.ContextSetSession(r.Context(), key, models.NewSessionState())))
	})
}

// setCookie sets the session cookie
func (m *SessionMiddleware) setCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.duration.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// HELPER FUNCS --------------------------------------------

// CurrentSession returns the session state of the request, or a fresh
// state if SetSession did not run.
func CurrentSession(r *http.Request) *models.SessionState {
	if state := context.ContextGetSession(r.Context()); state != nil {
		return state
	}
	return models.NewSessionState()
}
