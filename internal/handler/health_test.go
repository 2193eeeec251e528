package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lovinghomes/site/internal/handler"
)

type pingFunc func() error

func (f pingFunc) Ping(_ context.Context) error { return f() }

func TestHealthHandler(t *testing.T) {
	t.Run("storage reachable", func(t *testing.T) {
		h := handler.NewHealthHandler(newTestEnv(t).db, testLogger)

		rr := httptest.NewRecorder()
		h.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	})

	t.Run("storage down", func(t *testing.T) {
		h := handler.NewHealthHandler(pingFunc(func() error { return errors.New("connection refused") }), testLogger)

		rr := httptest.NewRecorder()
		h.HandleHealth(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
	})
}
