package auth

import (
	"context"
	"time"
)

// SessionContext identifies the visitor a request belongs to
type SessionContext struct {
	SessionID string
	ExpiresAt time.Time
	// Token is the raw bearer token the session was read from
	Token string
}

type contextKey string

const (
	sessionContextKey contextKey = "sessionContext"
	sessionTrackerKey contextKey = "sessionTracker"
)

// SessionTracker records the session authenticated further down the handler
// chain so outer middleware can see it after the request completes.
type SessionTracker struct {
	session *SessionContext
}

// Session returns the tracked session or nil
func (t *SessionTracker) Session() *SessionContext {
	return t.session
}

// TrackSession installs a tracker in ctx
func TrackSession(ctx context.Context) (context.Context, *SessionTracker) {
	tracker := &SessionTracker{}
	return context.WithValue(ctx, sessionTrackerKey, tracker), tracker
}

// WithSession adds the session context to ctx
func WithSession(ctx context.Context, session *SessionContext) context.Context {
	if tracker, ok := ctx.Value(sessionTrackerKey).(*SessionTracker); ok {
		tracker.session = session
	}
	return context.WithValue(ctx, sessionContextKey, session)
}

// FromContext extracts the session context from ctx
func FromContext(ctx context.Context) (*SessionContext, bool) {
	session, ok := ctx.Value(sessionContextKey).(*SessionContext)
	return session, ok && session != nil
}

// MustFromContext extracts the session context or panics
func MustFromContext(ctx context.Context) *SessionContext {
	session, ok := FromContext(ctx)
	if !ok {
		panic("session context not found in context")
	}
	return session
}
