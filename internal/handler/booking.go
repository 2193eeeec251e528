package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lovinghomes/site/internal/model"
	"github.com/lovinghomes/site/internal/service"
)

// BookingHandler serves the "Secure Your Spot" form and "My Bookings".
type BookingHandler struct {
	bookings *service.BookingService
	logger   *slog.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(bookings *service.BookingService, logger *slog.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

type bookingRequest struct {
	ClientName string `json:"clientName"`
	Phone      string `json:"phone"`
	DogName    string `json:"dogName"`
	BreedAge   string `json:"breedAge"`
	Interest   string `json:"interest"`
	Dates      string `json:"dates"`
	Details    string `json:"details"`
}

// HandleCreate stores a booking inquiry.
//
// HTTP: POST /api/bookings
// RESPONSE: 201 with the stored inquiry
func (h *BookingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req bookingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	inquiry, err := h.bookings.Create(r.Context(), service.SessionFromContext(r.Context()), service.BookingInput{
		ClientName: req.ClientName,
		Phone:      req.Phone,
		DogName:    req.DogName,
		BreedAge:   req.BreedAge,
		Interest:   req.Interest,
		Dates:      req.Dates,
		Details:    req.Details,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, inquiry)
}

// HandleList returns the signed-in client's inquiries, newest first.
//
// HTTP: GET /api/bookings?limit=20&offset=0
// RESPONSE: 200 [...], or 401 when signed out
func (h *BookingHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	inquiries, err := h.bookings.ListForSession(r.Context(), service.SessionFromContext(r.Context()), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if inquiries == nil {
		inquiries = []model.BookingInquiry{}
	}

	writeJSON(w, http.StatusOK, inquiries)
}

// HandleGet returns one inquiry.
//
// HTTP: GET /api/bookings/{id}
func (h *BookingHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inquiry, err := h.bookings.GetByID(r.Context(), service.SessionFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inquiry)
}
