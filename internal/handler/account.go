package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/auth"
	"github.com/lovinghomes/site/internal/service"
)

// AccountHandler serves the sign-in page's API: register, login, the
// current session, and logout.
type AccountHandler struct {
	accounts *service.AccountService
	delay    time.Duration
	logger   *slog.Logger
}

// NewAccountHandler creates an AccountHandler. delay is waited before every
// register and login (0 disables it); the front end shows its loading state
// for that long.
func NewAccountHandler(accounts *service.AccountService, delay time.Duration, logger *slog.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, delay: delay, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and signs the client in.
//
// HTTP: POST /api/account/register
// REQUEST BODY: {"name":"Alex","email":"alex@x.com","password":"secret1"}
// RESPONSE: 201 {"name":"Alex","email":"alex@x.com"}
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc := service.SessionFromContext(r.Context())
	if err := h.wait(r.Context()); err != nil {
		return
	}

	session, err := h.accounts.Register(r.Context(), sc.ClientID, req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, session)
}

// HandleLogin signs the client in.
//
// HTTP: POST /api/account/login
// REQUEST BODY: {"email":"alex@x.com","password":"secret1"}
// RESPONSE: 200 {"name":"Alex","email":"alex@x.com"}, or 401 for bad credentials
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	sc := service.SessionFromContext(r.Context())
	if err := h.wait(r.Context()); err != nil {
		return
	}

	session, err := h.accounts.Login(r.Context(), sc.ClientID, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// HandleSession returns the session restored for this request.
//
// HTTP: GET /api/account/session
// RESPONSE: 200 {"name":...,"email":...}, or 204 when signed out
func (h *AccountHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	sc := service.SessionFromContext(r.Context())
	if !sc.SignedIn() {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, sc.Session)
}

// HandleLogout signs the client out. Calling it while signed out is fine.
//
// HTTP: POST /api/account/logout
// RESPONSE: 204
func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sc := service.SessionFromContext(r.Context())
	if err := h.accounts.SignOut(r.Context(), sc.ClientID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// wait sleeps for the configured delay. It returns the context error when
// the client goes away first; there is nobody left to answer then.
func (h *AccountHandler) wait(ctx context.Context) error {
	if h.delay <= 0 {
		return nil
	}
	t := time.NewTimer(h.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		h.logger.Debug("client left during simulated delay", slog.String("error", ctx.Err().Error()))
		return ctx.Err()
	}
}

// LoadSession is a middleware that restores the caller's session once per
// request and stores it with service.WithSession. It must run after
// auth.Identify, which supplies the client id.
func LoadSession(accounts *service.AccountService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, ok := auth.ClientIDFromContext(r.Context())
			if !ok {
				writeError(w, apperror.Unauthorized("missing client identity"))
				return
			}

			session, err := accounts.RestoreSession(r.Context(), clientID)
			if err != nil {
				writeError(w, err)
				return
			}

			sc := &service.SessionContext{ClientID: clientID, Session: session}
			next.ServeHTTP(w, r.WithContext(service.WithSession(r.Context(), sc)))
		})
	}
}
