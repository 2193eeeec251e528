package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/catalog"
	"github.com/lovinghomes/site/internal/model"
	"github.com/lovinghomes/site/internal/repository"
)

// Field limits for the booking form. Counted in characters.
const (
	MaxNameLength    = 100
	MaxPhoneLength   = 40
	MaxBreedAgeLen   = 100
	MaxDatesLength   = 100
	MaxDetailsLength = 2000

	DefaultListLimit = 20
	MaxListLimit     = 100

	notifyTimeout = 5 * time.Second
)

// Notifier is told about every stored inquiry so staff can follow up.
// The RabbitMQ publisher implements it; a nil Notifier means nobody is told.
type Notifier interface {
	NotifyBooking(ctx context.Context, inquiry *model.BookingInquiry) error
}

// BookingInput is the raw booking form.
type BookingInput struct {
	ClientName string
	Phone      string
	DogName    string
	BreedAge   string
	Interest   string
	Dates      string
	Details    string
}

// BookingService validates, stores and announces booking inquiries.
type BookingService struct {
	repo     repository.BookingRepository
	notifier Notifier
	logger   *slog.Logger
}

// NewBookingService creates a BookingService. notifier may be nil.
func NewBookingService(repo repository.BookingRepository, notifier Notifier, logger *slog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

// Create validates the form and stores the inquiry.
//
// Signed-in clients get the inquiry attached to their account email so it
// shows up under "My Bookings". Anonymous inquiries are stored too; the
// returned ID is their only handle.
//
// The notification is best effort: a broker failure is logged and the
// inquiry is still reported as created.
func (s *BookingService) Create(ctx context.Context, sc *SessionContext, in BookingInput) (*model.BookingInquiry, error) {
	inquiry := &model.BookingInquiry{
		ClientName: strings.TrimSpace(in.ClientName),
		Phone:      strings.TrimSpace(in.Phone),
		DogName:    strings.TrimSpace(in.DogName),
		BreedAge:   strings.TrimSpace(in.BreedAge),
		Interest:   strings.TrimSpace(in.Interest),
		Dates:      strings.TrimSpace(in.Dates),
		Details:    strings.TrimSpace(in.Details),
	}
	if inquiry.Interest == "" {
		inquiry.Interest = model.InterestGeneral
	}

	if err := validateInquiry(inquiry); err != nil {
		return nil, err
	}

	inquiry.ClientID = sc.ClientID
	if sc.SignedIn() {
		inquiry.AccountEmail = sc.Session.Email
	}

	if err := s.repo.Create(ctx, inquiry); err != nil {
		s.logger.Error("failed to create booking inquiry",
			slog.String("dog", inquiry.DogName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating booking inquiry: %w", err)
	}

	s.logger.Info("booking inquiry created",
		slog.String("id", inquiry.ID),
		slog.String("interest", inquiry.Interest),
		slog.Bool("signedIn", inquiry.AccountEmail != ""),
	)

	s.notify(ctx, inquiry)
	return inquiry, nil
}

// ListForSession returns the signed-in client's inquiries, newest first.
func (s *BookingService) ListForSession(ctx context.Context, sc *SessionContext, limit, offset int) ([]model.BookingInquiry, error) {
	if !sc.SignedIn() {
		return nil, apperror.Unauthorized("Please sign in to view your bookings.")
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	inquiries, err := s.repo.ListByEmail(ctx, sc.Session.Email, repository.ListOptions{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error("failed to list booking inquiries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing booking inquiries: %w", err)
	}
	return inquiries, nil
}

// GetByID returns one inquiry.
//
// An inquiry is visible to the client that sent it and, when it is attached
// to an account, to any client signed in as that account. Anyone else gets
// NotFound, as if it did not exist: IDs are time-ordered and guessable.
func (s *BookingService) GetByID(ctx context.Context, sc *SessionContext, id string) (*model.BookingInquiry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "booking ID is required")
	}

	inquiry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canView(sc, inquiry) {
		return nil, apperror.NotFound("booking inquiry", id)
	}
	return inquiry, nil
}

func canView(sc *SessionContext, inquiry *model.BookingInquiry) bool {
	if sc == nil {
		return false
	}
	if sc.ClientID != "" && sc.ClientID == inquiry.ClientID {
		return true
	}
	return inquiry.AccountEmail != "" && sc.SignedIn() && sc.Session.Email == inquiry.AccountEmail
}

func (s *BookingService) notify(ctx context.Context, inquiry *model.BookingInquiry) {
	if s.notifier == nil {
		return
	}

	// The inquiry is already stored; don't let a client disconnect cancel the publish.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyBooking(ctx, inquiry); err != nil {
		s.logger.Error("failed to publish booking notification",
			slog.String("id", inquiry.ID),
			slog.String("error", err.Error()),
		)
	}
}

func validateInquiry(b *model.BookingInquiry) error {
	v := apperror.NewValidationErrors()

	required := []struct {
		field, value, label string
		limit               int
	}{
		{"clientName", b.ClientName, "Your name", MaxNameLength},
		{"phone", b.Phone, "Phone number", MaxPhoneLength},
		{"dogName", b.DogName, "Dog's name", MaxNameLength},
	}
	for _, r := range required {
		if r.value == "" {
			v.Add(r.field, r.label+" is required")
		}
		checkLength(v, r.field, r.label, r.value, r.limit)
	}

	checkLength(v, "breedAge", "Breed & age", b.BreedAge, MaxBreedAgeLen)
	checkLength(v, "dates", "Dates", b.Dates, MaxDatesLength)
	checkLength(v, "details", "Details", b.Details, MaxDetailsLength)

	if !catalog.IsInterest(b.Interest) {
		v.Add("interest", fmt.Sprintf("Unknown service or package %q", b.Interest))
	}

	return v.Err()
}

func checkLength(v *apperror.ValidationErrors, field, label, value string, limit int) {
	if utf8.RuneCountInString(value) > limit {
		v.Add(field, fmt.Sprintf("%s must be %d characters or less", label, limit))
	}
}
