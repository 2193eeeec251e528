// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Storage (Data layer)     → kv.Store for accounts/sessions, repositories for bookings
//
// Services take interfaces (kv.Store, repository.BookingRepository,
// Notifier), never concrete storage types, so tests can pass in-memory fakes
// and main.go can pick SQLite or Redis without touching this package.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/auth"
	"github.com/lovinghomes/site/internal/kv"
	"github.com/lovinghomes/site/internal/model"
)

// Storage keys. These are the compatibility surface with existing data:
// changing them orphans every registered account and open session.
const (
	UsersKey          = "loving_homes_users"
	CurrentSessionKey = "loving_homes_current_user"
)

const MinPasswordLength = 6

// emailPattern is deliberately loose: something@something.something.
var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

var (
	// ErrDuplicateEmail is returned by Register when the email is taken.
	ErrDuplicateEmail = apperror.Conflict("email", "This email is already registered.")

	// ErrInvalidCredentials is returned by Login for an unknown email or a
	// wrong password. The two cases are indistinguishable to the caller.
	ErrInvalidCredentials = apperror.Unauthorized("Invalid email or password.")
)

// AccountService registers accounts and manages each client's session.
//
// STORAGE LAYOUT (all values JSON):
//
//	loving_homes_users                        → [Account, Account, ...]
//	client:<clientID>:loving_homes_current_user → Session
//
// The account collection is a single blob, so every registration is a
// read-modify-write. mu serializes those inside this process; two processes
// sharing one store are last-write-wins.
type AccountService struct {
	store     kv.Store
	passwords *auth.PasswordService
	logger    *slog.Logger

	mu sync.Mutex
}

// NewAccountService creates an AccountService.
func NewAccountService(store kv.Store, passwords *auth.PasswordService, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:     store,
		passwords: passwords,
		logger:    logger,
	}
}

// Register creates an account and signs the client in as it.
//
// Order of effects: validate → check duplicate → append + persist the
// collection → persist the session. There is no transaction across the two
// keys; if the session write fails the account still exists and the client
// is simply not signed in.
func (s *AccountService) Register(ctx context.Context, clientID, name, email, password string) (*model.Session, error) {
	name = strings.TrimSpace(name)

	v := apperror.NewValidationErrors()
	validateEmail(v, email)
	validatePassword(v, password)
	if name == "" {
		v.Add("name", "Name is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if _, taken := findAccount(accounts, email); taken {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/account: hashing password: %w", err)
	}

	account := model.Account{Name: name, Email: email, PasswordHash: hash}
	accounts = append(accounts, account)
	if err := kv.SetJSON(ctx, s.store, UsersKey, accounts); err != nil {
		return nil, fmt.Errorf("service/account: saving accounts: %w", err)
	}

	s.logger.Info("account registered", slog.String("email", email))

	session := model.SessionFor(account)
	if err := s.saveSession(ctx, clientID, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Login signs the client in as the account matching email and password.
// Email comparison is exact; "Alex@x.com" and "alex@x.com" are different accounts.
func (s *AccountService) Login(ctx context.Context, clientID, email, password string) (*model.Session, error) {
	v := apperror.NewValidationErrors()
	validateEmail(v, email)
	validatePassword(v, password)
	if err := v.Err(); err != nil {
		return nil, err
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}

	account, ok := findAccount(accounts, email)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := s.passwords.Verify(account.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		// A hash we cannot parse means the stored record is damaged.
		return nil, fmt.Errorf("service/account: verifying password for %s: %w", email, err)
	}

	session := model.SessionFor(account)
	if err := s.saveSession(ctx, clientID, session); err != nil {
		return nil, err
	}

	s.logger.Info("client signed in", slog.String("client", clientID), slog.String("email", email))
	return session, nil
}

// RestoreSession returns the client's persisted session, or nil if there is none.
//
// The stored session is checked against the account collection. A session
// whose email no longer names an account, or a blob that does not decode, is
// deleted and treated as signed out. The name is refreshed from the account.
func (s *AccountService) RestoreSession(ctx context.Context, clientID string) (*model.Session, error) {
	sessions := s.sessionStore(clientID)

	raw, found, err := sessions.Get(ctx, CurrentSessionKey)
	if err != nil {
		return nil, fmt.Errorf("service/account: reading session: %w", err)
	}
	if !found {
		return nil, nil
	}

	var stored model.Session
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("dropping unreadable session", slog.String("client", clientID), slog.String("error", err.Error()))
		return nil, s.dropSession(ctx, sessions)
	}

	accounts, err := s.loadAccounts(ctx)
	if err != nil {
		return nil, err
	}
	account, ok := findAccount(accounts, stored.Email)
	if !ok {
		s.logger.Info("dropping stale session", slog.String("client", clientID), slog.String("email", stored.Email))
		return nil, s.dropSession(ctx, sessions)
	}

	return model.SessionFor(account), nil
}

// SignOut deletes the client's session. Signing out twice is fine.
func (s *AccountService) SignOut(ctx context.Context, clientID string) error {
	if err := s.dropSession(ctx, s.sessionStore(clientID)); err != nil {
		return err
	}
	s.logger.Info("client signed out", slog.String("client", clientID))
	return nil
}

// =========================================================================
// helpers
// =========================================================================

func (s *AccountService) sessionStore(clientID string) kv.Store {
	return kv.Namespace(s.store, "client:"+clientID+":")
}

func (s *AccountService) saveSession(ctx context.Context, clientID string, session *model.Session) error {
	if err := kv.SetJSON(ctx, s.sessionStore(clientID), CurrentSessionKey, session); err != nil {
		return fmt.Errorf("service/account: saving session: %w", err)
	}
	return nil
}

func (s *AccountService) dropSession(ctx context.Context, sessions kv.Store) error {
	if err := sessions.Delete(ctx, CurrentSessionKey); err != nil {
		return fmt.Errorf("service/account: deleting session: %w", err)
	}
	return nil
}

// loadAccounts reads the collection. An absent key is an empty collection.
func (s *AccountService) loadAccounts(ctx context.Context) ([]model.Account, error) {
	var accounts []model.Account
	if _, err := kv.GetJSON(ctx, s.store, UsersKey, &accounts); err != nil {
		return nil, fmt.Errorf("service/account: loading accounts: %w", err)
	}
	return accounts, nil
}

func findAccount(accounts []model.Account, email string) (model.Account, bool) {
	for _, a := range accounts {
		if a.Email == email {
			return a, true
		}
	}
	return model.Account{}, false
}

func validateEmail(v *apperror.ValidationErrors, email string) {
	switch {
	case email == "":
		v.Add("email", "Email is required")
	case !emailPattern.MatchString(email):
		v.Add("email", "Please enter a valid email address")
	}
}

func validatePassword(v *apperror.ValidationErrors, password string) {
	switch {
	case password == "":
		v.Add("password", "Password is required")
	case utf8.RuneCountInString(password) < MinPasswordLength:
		v.Add("password", fmt.Sprintf("Password must be at least %d characters", MinPasswordLength))
	}
}
