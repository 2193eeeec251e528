// Package concierge runs the site's chat assistant.
//
// LAYERS:
//
//	Registry     → one Conversation per client, idle ones swept
//	Conversation → transcript + single in-flight request
//	Exchange     → one prompt in, one reply out, never an error
//	Generator    → the external text-generation API (Gemini or an eino chat model)
//
// Only the latest user text is sent to the model, together with a fixed
// system instruction. The model has no memory of earlier turns.
package concierge

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Fixed texts shown to the visitor.
const (
	Greeting             = "Hello! I am the Loving Homes Concierge. How may I assist you and your furry friend today?"
	FallbackNotConnected = "I'm having trouble connecting to my brain right now. Please try again later."
	FallbackError        = "I seem to be chasing my tail. Please try again in a moment."
	FallbackEmpty        = "Woof! I missed that. Could you say it again?"
)

// SystemInstruction is the persona sent with every request.
const SystemInstruction = `You are the AI Concierge for Loving Homes, a luxury dog hotel in Hong Kong.
Your tone is sophisticated, warm, and slightly playful (occasionally using dog puns).
You are helpful and knowledgeable about our services: Luxury Boarding, Spa Grooming, Elite Training, and Adventure Treks.

Key Info:
- Location: Hong Kong (Premium quiet district)
- Vibe: Minimalist luxury, organic, calm.
- Contact email: 3172abraham@scss.sc.ke

Keep responses concise (under 50 words) and elegant.`

// Generator produces a reply for one prompt.
//
// An empty reply with a nil error is allowed; Exchange turns it into
// FallbackEmpty.
type Generator interface {
	Generate(ctx context.Context, systemInstruction, prompt string) (string, error)
}

// Exchange performs one request/response against a Generator.
type Exchange struct {
	gen     Generator
	timeout time.Duration
	logger  *slog.Logger
}

// NewExchange creates an Exchange. gen may be nil when no credential is
// configured; every Ask then answers FallbackNotConnected. A timeout <= 0
// means the caller's context is the only limit.
func NewExchange(gen Generator, timeout time.Duration, logger *slog.Logger) *Exchange {
	return &Exchange{gen: gen, timeout: timeout, logger: logger}
}

// Connected reports whether a generator is configured.
func (e *Exchange) Connected() bool {
	return e.gen != nil
}

// Ask sends text and returns the text to show the visitor.
//
// Ask never fails. Every failure maps to one of the fallback strings:
//   - blank text                  → FallbackEmpty, no call made
//   - no generator                → FallbackNotConnected
//   - generator error or timeout  → FallbackError (logged, not retried)
//   - empty reply                 → FallbackEmpty
func (e *Exchange) Ask(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	if e.gen == nil {
		return FallbackNotConnected
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := e.gen.Generate(ctx, SystemInstruction, text)
	if err != nil {
		e.logger.Error("concierge generation failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return FallbackError
	}
	if reply == "" {
		return FallbackEmpty
	}

	e.logger.Debug("concierge replied", slog.Duration("elapsed", time.Since(start)))
	return reply
}
