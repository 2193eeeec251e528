package concierge

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lovinghomes/site/internal/model"
)

var (
	// ErrEmptyMessage is returned by Send for blank input. Nothing is appended.
	ErrEmptyMessage = errors.New("concierge: message is empty")

	// ErrBusy is returned by Send while an earlier message is still waiting
	// for its reply. Nothing is appended.
	ErrBusy = errors.New("concierge: a reply is still on its way")
)

// MaxTranscriptMessages bounds a conversation: the greeting plus the 50
// most recent exchanges. Older exchanges are dropped a pair at a time.
const MaxTranscriptMessages = 101

// Conversation is one chat widget's transcript.
//
// INVARIANTS:
//   - the first message is the model greeting
//   - every user message is followed by exactly one model message before the
//     next user message is accepted
//
// The second one is enforced with an in-flight flag: Send claims it with a
// compare-and-swap before touching the transcript and releases it after the
// reply is appended.
type Conversation struct {
	exchange *Exchange

	mu       sync.Mutex
	messages []model.ChatMessage
	lastUsed time.Time

	inFlight atomic.Bool
}

// NewConversation returns a conversation holding only the greeting.
func NewConversation(exchange *Exchange) *Conversation {
	return &Conversation{
		exchange: exchange,
		messages: []model.ChatMessage{{Role: model.RoleModel, Text: Greeting}},
		lastUsed: time.Now(),
	}
}

// Send appends text as a user turn, asks the model, appends the reply and
// returns it. The reply may be a fallback string; Send itself only fails for
// blank input or a concurrent Send.
func (c *Conversation) Send(ctx context.Context, text string) (model.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return model.ChatMessage{}, ErrEmptyMessage
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		return model.ChatMessage{}, ErrBusy
	}
	defer c.inFlight.Store(false)

	c.append(model.ChatMessage{Role: model.RoleUser, Text: text})

	reply := model.ChatMessage{Role: model.RoleModel, Text: c.exchange.Ask(ctx, text)}
	c.append(reply)

	return reply, nil
}

// Transcript returns a copy of the messages so far.
func (c *Conversation) Transcript() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether a reply is outstanding. The widget shows its typing
// indicator while this is true.
func (c *Conversation) Busy() bool {
	return c.inFlight.Load()
}

func (c *Conversation) append(m model.ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
	if len(c.messages) > MaxTranscriptMessages {
		// messages[1:3] is the oldest user/model pair after the greeting.
		c.messages = append(c.messages[:1], c.messages[3:]...)
	}
	c.lastUsed = time.Now()
}

// idleSince reports when the conversation was last touched. A busy
// conversation is never idle.
func (c *Conversation) idleSince() (time.Time, bool) {
	if c.Busy() {
		return time.Time{}, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed, true
}

func (c *Conversation) touch() {
	c.mu.Lock()
	c.lastUsed = time.Now()
	c.mu.Unlock()
}
