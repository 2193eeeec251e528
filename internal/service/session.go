package service

import (
	"context"

	"github.com/lovinghomes/site/internal/model"
)

// SessionContext is the identity of the current request: which client is
// calling and who, if anyone, that client is signed in as.
//
// It is loaded once per request (handler.LoadSession) and passed down
// explicitly; only AccountService operations change the stored session.
type SessionContext struct {
	ClientID string
	Session  *model.Session // nil when signed out
}

// SignedIn reports whether the client has a session.
func (sc *SessionContext) SignedIn() bool {
	return sc != nil && sc.Session != nil
}

type sessionContextKey struct{}

// WithSession returns a copy of ctx carrying sc.
func WithSession(ctx context.Context, sc *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sc)
}

// SessionFromContext returns the SessionContext stored by WithSession, or an
// empty one (no client, signed out) when there is none.
func SessionFromContext(ctx context.Context) *SessionContext {
	if sc, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok && sc != nil {
		return sc
	}
	return &SessionContext{}
}
