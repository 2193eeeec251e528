package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lovinghomes/site/internal/auth"
	"github.com/lovinghomes/site/internal/handler"
	"github.com/lovinghomes/site/internal/model"
	sqliteRepo "github.com/lovinghomes/site/internal/repository/sqlite"
	"github.com/lovinghomes/site/internal/service"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testEnv is the real service layer on an in-memory SQLite database.
type testEnv struct {
	db       *sqliteRepo.DB
	accounts *service.AccountService
	bookings *service.BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqliteRepo.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &testEnv{
		db:       db,
		accounts: service.NewAccountService(db, auth.NewPasswordService(bcrypt.MinCost), testLogger),
		bookings: service.NewBookingService(db, nil, testLogger),
	}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asClient attaches the session context LoadSession would have produced.
func asClient(r *http.Request, clientID string, session *model.Session) *http.Request {
	sc := &service.SessionContext{ClientID: clientID, Session: session}
	return r.WithContext(service.WithSession(r.Context(), sc))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}
