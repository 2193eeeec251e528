package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/lovinghomes/site/internal/apperror"
	"github.com/lovinghomes/site/internal/concierge"
	"github.com/lovinghomes/site/internal/model"
	"github.com/lovinghomes/site/internal/service"
)

// ConciergeHandler serves the chat widget.
type ConciergeHandler struct {
	registry *concierge.Registry
	logger   *slog.Logger
}

// NewConciergeHandler creates a ConciergeHandler.
func NewConciergeHandler(registry *concierge.Registry, logger *slog.Logger) *ConciergeHandler {
	return &ConciergeHandler{registry: registry, logger: logger}
}

type conversationResponse struct {
	Messages  []model.ChatMessage `json:"messages"`
	Busy      bool                `json:"busy"`
	Connected bool                `json:"connected"`
}

type sendRequest struct {
	Text string `json:"text"`
}

type sendResponse struct {
	Reply model.ChatMessage `json:"reply"`
}

// HandleGet returns the transcript and whether a reply is pending.
//
// HTTP: GET /api/concierge
// RESPONSE: {"messages":[{"role":"model","text":"Hello! ..."}],"busy":false,"connected":true}
func (h *ConciergeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	conv := h.registry.Get(service.SessionFromContext(r.Context()).ClientID)
	writeJSON(w, http.StatusOK, conversationResponse{
		Messages:  conv.Transcript(),
		Busy:      conv.Busy(),
		Connected: h.registry.Connected(),
	})
}

// HandleSend posts a user message and waits for the model's reply.
//
// HTTP: POST /api/concierge/messages
// REQUEST BODY: {"text":"Do you take puppies?"}
// RESPONSE: 200 {"reply":{"role":"model","text":"..."}}
//
// The reply may be one of the fallback texts; the endpoint only fails for
// blank text (400) or a second message while one is pending (409).
func (h *ConciergeHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	conv := h.registry.Get(service.SessionFromContext(r.Context()).ClientID)
	reply, err := conv.Send(r.Context(), req.Text)
	switch {
	case errors.Is(err, concierge.ErrEmptyMessage):
		writeError(w, apperror.ValidationFailed("text", "Message is required"))
		return
	case errors.Is(err, concierge.ErrBusy):
		writeError(w, apperror.Conflict("text", "Please wait for the concierge to answer."))
		return
	case err != nil:
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sendResponse{Reply: reply})
}

// HandleReset starts the conversation over with just the greeting.
//
// HTTP: DELETE /api/concierge
// RESPONSE: 204
func (h *ConciergeHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.registry.Reset(service.SessionFromContext(r.Context()).ClientID)
	w.WriteHeader(http.StatusNoContent)
}
