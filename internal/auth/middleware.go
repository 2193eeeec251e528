package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/rs/xid"
)

// ClientCookie is the name of the cookie that carries the client token.
const ClientCookie = "lh_client"

// contextKey is an unexported type used for context keys in this package.
// Only this package can create a key of this type, so nothing else can
// shadow the client id.
type contextKey string

const clientIDKey contextKey = "clientID"

// Identify is a middleware that makes sure every request has a client id.
//
// It reads the lh_client cookie and validates it. When the cookie is missing,
// expired, or forged, a fresh client id is minted and the cookie is (re)set
// on the response. The request never fails because of the cookie: an
// unrecognised browser is simply a new browser.
//
// secure sets the cookie's Secure flag; turn it on behind HTTPS.
func Identify(tokens *TokenService, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, err := clientIDFromCookie(r, tokens)
			if err != nil {
				clientID = xid.New().String()
				token, err := tokens.Generate(clientID)
				if err != nil {
					slog.Error("issuing client token", "error", err)
					http.Error(w, `{"error":"internal_error","message":"an unexpected error occurred"}`, http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    token,
					Path:     "/",
					MaxAge:   int(tokens.Lifetime().Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
		})
	}
}

// WithClientID returns a copy of ctx carrying clientID.
// Handler tests use it to skip the cookie round trip.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// ClientIDFromContext retrieves the client id set by Identify.
//
// Returns ("", false) when the request did not pass through Identify.
func ClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}

func clientIDFromCookie(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(ClientCookie)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
