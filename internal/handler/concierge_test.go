package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lovinghomes/site/internal/concierge"
	"github.com/lovinghomes/site/internal/handler"
	"github.com/lovinghomes/site/internal/model"
)

// stubGenerator answers every prompt with reply. When release is set it
// blocks until release is closed.
type stubGenerator struct {
	reply   string
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _, _ string) (string, error) {
	if g.release != nil {
		select {
		case <-g.release:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return g.reply, nil
}

type conversationBody struct {
	Messages  []model.ChatMessage `json:"messages"`
	Busy      bool                `json:"busy"`
	Connected bool                `json:"connected"`
}

func newConciergeHandler(gen concierge.Generator) (*handler.ConciergeHandler, *concierge.Registry) {
	registry := concierge.NewRegistry(concierge.NewExchange(gen, time.Minute, testLogger), 0, testLogger)
	return handler.NewConciergeHandler(registry, testLogger), registry
}

func getConversation(t *testing.T, h *handler.ConciergeHandler, clientID string) conversationBody {
	t.Helper()
	rr := httptest.NewRecorder()
	h.HandleGet(rr, asClient(httptest.NewRequest(http.MethodGet, "/api/concierge", nil), clientID, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body conversationBody
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body
}

func TestConciergeHandler_HandleGet(t *testing.T) {
	t.Run("new conversation starts with the greeting", func(t *testing.T) {
		h, _ := newConciergeHandler(&stubGenerator{reply: "hi"})

		body := getConversation(t, h, "c1")
		assert.Equal(t, []model.ChatMessage{{Role: model.RoleModel, Text: concierge.Greeting}}, body.Messages)
		assert.False(t, body.Busy)
		assert.True(t, body.Connected)
	})

	t.Run("without a generator", func(t *testing.T) {
		h, _ := newConciergeHandler(nil)
		assert.False(t, getConversation(t, h, "c1").Connected)
	})
}

func TestConciergeHandler_HandleSend(t *testing.T) {
	t.Run("returns the reply and records both turns", func(t *testing.T) {
		h, _ := newConciergeHandler(&stubGenerator{reply: "We love puppies!"})

		rr := httptest.NewRecorder()
		h.HandleSend(rr, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"Do you take puppies?"}`), "c1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"reply":{"role":"model","text":"We love puppies!"}}`, rr.Body.String())

		msgs := getConversation(t, h, "c1").Messages
		require.Len(t, msgs, 3)
		assert.Equal(t, model.ChatMessage{Role: model.RoleUser, Text: "Do you take puppies?"}, msgs[1])
		assert.Equal(t, model.ChatMessage{Role: model.RoleModel, Text: "We love puppies!"}, msgs[2])

		assert.Len(t, getConversation(t, h, "c2").Messages, 1, "other clients have their own transcript")
	})

	t.Run("offline concierge still answers", func(t *testing.T) {
		h, _ := newConciergeHandler(nil)

		rr := httptest.NewRecorder()
		h.HandleSend(rr, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"hello"}`), "c1", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), concierge.FallbackNotConnected)
	})

	t.Run("blank text", func(t *testing.T) {
		h, _ := newConciergeHandler(&stubGenerator{reply: "hi"})

		rr := httptest.NewRecorder()
		h.HandleSend(rr, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"   "}`), "c1", nil))

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Message is required", decodeError(t, rr).Fields["text"])
		assert.Len(t, getConversation(t, h, "c1").Messages, 1)
	})

	t.Run("second message while the first is pending", func(t *testing.T) {
		gen := &stubGenerator{reply: "done", release: make(chan struct{})}
		h, registry := newConciergeHandler(gen)

		var wg sync.WaitGroup
		first := httptest.NewRecorder()
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.HandleSend(first, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"one"}`), "c1", nil))
		}()

		require.Eventually(t, func() bool { return registry.Get("c1").Busy() }, time.Second, 5*time.Millisecond)
		assert.True(t, getConversation(t, h, "c1").Busy)

		second := httptest.NewRecorder()
		h.HandleSend(second, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"two"}`), "c1", nil))
		assert.Equal(t, http.StatusConflict, second.Code)

		close(gen.release)
		wg.Wait()
		assert.Equal(t, http.StatusOK, first.Code)
		assert.Len(t, getConversation(t, h, "c1").Messages, 3)
	})
}

func TestConciergeHandler_HandleReset(t *testing.T) {
	h, _ := newConciergeHandler(&stubGenerator{reply: "hi"})

	rr := httptest.NewRecorder()
	h.HandleSend(rr, asClient(jsonRequest(http.MethodPost, "/api/concierge/messages", `{"text":"hello"}`), "c1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.HandleReset(rr, asClient(httptest.NewRequest(http.MethodDelete, "/api/concierge", nil), "c1", nil))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	assert.Len(t, getConversation(t, h, "c1").Messages, 1)
}
