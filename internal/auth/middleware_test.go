package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureClientID is a terminal handler that records the client id it saw.
func captureClientID(got *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, _ = ClientIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func clientCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == ClientCookie {
			return c
		}
	}
	return nil
}

func TestIdentify_IssuesCookieForNewClient(t *testing.T) {
	ts := newTestTokenService(t)
	var seen string

	rec := httptest.NewRecorder()
	Identify(ts, false)(captureClientID(&seen)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, seen)

	c := clientCookie(t, rec)
	require.NotNil(t, c, "expected an lh_client cookie")
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)

	id, err := ts.Validate(c.Value)
	require.NoError(t, err)
	assert.Equal(t, seen, id)
}

func TestIdentify_ReusesValidCookie(t *testing.T) {
	ts := newTestTokenService(t)
	token, err := ts.Generate("client-known")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: token})

	var seen string
	rec := httptest.NewRecorder()
	Identify(ts, false)(captureClientID(&seen)).ServeHTTP(rec, req)

	assert.Equal(t, "client-known", seen)
	assert.Nil(t, clientCookie(t, rec), "a valid cookie should not be reissued")
}

func TestIdentify_ReplacesForgedCookie(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("another-secret-of-16+", ts.Lifetime())
	forged, _ := other.Generate("client-forged")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookie, Value: forged})

	var seen string
	rec := httptest.NewRecorder()
	Identify(ts, true)(captureClientID(&seen)).ServeHTTP(rec, req)

	assert.NotEqual(t, "client-forged", seen)
	c := clientCookie(t, rec)
	require.NotNil(t, c)
	assert.True(t, c.Secure)
}

func TestClientIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := ClientIDFromContext(req.Context())
	assert.False(t, ok)

	_, ok = ClientIDFromContext(WithClientID(req.Context(), ""))
	assert.False(t, ok, "an empty id is not an id")
}
