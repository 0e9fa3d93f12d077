package context

import (
	"context"

	"github.com/rahul4469/landmark-guide/internal/models"
)

type contextkey string

const (
	sessionKey   contextkey = "session"
	sessionIDKey contextkey = "session_id"
)

// ContextSetSession binds the browser's session state and its store key
// to ctx for the handlers further down the chain.
func ContextSetSession(ctx context.Context, key string, state *models.SessionState) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, key)
	return context.WithValue(ctx, sessionKey, state)
}

// ContextGetSession retrieves the session state from request context.
// Returns nil if the session middleware did not run.
func ContextGetSession(ctx context.Context) *models.SessionState {
	state, ok := ctx.Value(sessionKey).(*models.SessionState)
	if !ok {
		return nil
	}
	return state
}

// ContextGetSessionKey returns the store key of the current session.
func ContextGetSessionKey(ctx context.Context) string {
	key, _ := ctx.Value(sessionIDKey).(string)
	return key
}
