package concierge

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const sweepInterval = time.Minute

// Registry holds one Conversation per client.
//
// A conversation is created on first use and lives until Reset (the widget
// being reloaded) or until it has been idle longer than the TTL.
type Registry struct {
	exchange *Exchange
	ttl      time.Duration
	logger   *slog.Logger

	mu            sync.Mutex
	conversations map[string]*Conversation
}

// NewRegistry creates a Registry. A ttl <= 0 disables expiry.
func NewRegistry(exchange *Exchange, ttl time.Duration, logger *slog.Logger) *Registry {
	return &Registry{
		exchange:      exchange,
		ttl:           ttl,
		logger:        logger,
		conversations: make(map[string]*Conversation),
	}
}

// Get returns the client's conversation, creating it if needed.
func (r *Registry) Get(clientID string) *Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()

	conv, ok := r.conversations[clientID]
	if !ok {
		conv = NewConversation(r.exchange)
		r.conversations[clientID] = conv
		return conv
	}
	conv.touch()
	return conv
}

// Reset discards the client's conversation. The next Get starts over with
// the greeting. A request already in flight on the old conversation still
// completes, but its reply lands in the discarded transcript.
func (r *Registry) Reset(clientID string) {
	r.mu.Lock()
	delete(r.conversations, clientID)
	r.mu.Unlock()
}

// Connected reports whether replies come from a real model.
func (r *Registry) Connected() bool {
	return r.exchange.Connected()
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conversations)
}

// Sweep drops conversations idle since before now-ttl and returns how many
// were dropped.
func (r *Registry) Sweep(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, conv := range r.conversations {
		if last, idle := conv.idleSince(); idle && last.Before(cutoff) {
			delete(r.conversations, id)
			dropped++
		}
	}
	return dropped
}

// StartSweeper runs Sweep every minute until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	if r.ttl <= 0 {
		return
	}

	ticker := time.NewTicker(sweepInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				if n := r.Sweep(now); n > 0 {
					r.logger.Debug("swept idle conversations", slog.Int("count", n), slog.Int("remaining", r.Len()))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
