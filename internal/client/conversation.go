package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
)

const (
	// ErrorReply replaces any reply the relay answered with an error status.
	ErrorReply = "Sorry, couldn't get a reply right now."
	// NetworkReply replaces replies lost to transport failures.
	NetworkReply = "There was a connection problem. Try again shortly."
)

var (
	// ErrBusy rejects a submit while another one is pending.
	ErrBusy = errors.New("a message is already being sent")
	// ErrEmptyInput marks a submit with only whitespace; nothing is sent.
	ErrEmptyInput = errors.New("empty input")
)

// Sender is what a Conversation needs from the relay client.
type Sender interface {
	Send(ctx context.Context, message string) (chat.Reply, error)
}

// Conversation is the append-only transcript of one UI. At most one message
// is in flight; only the latest message is sent, never the history.
type Conversation struct {
	sender Sender

	mu       sync.Mutex
	messages []chat.Message
	loading  bool
}

// NewConversation starts a transcript with the greeting as the first bot bubble.
func NewConversation(sender Sender, greeting string) *Conversation {
	c := &Conversation{sender: sender}
	if greeting != "" {
		c.messages = append(c.messages, chat.Message{Sender: chat.SenderBot, Text: greeting})
	}
	return c
}

// Submit sends input and returns the bot bubble appended for it. Transport
// and relay failures become bot bubbles rather than errors.
func (c *Conversation) Submit(ctx context.Context, input string) (chat.Message, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return chat.Message{}, ErrEmptyInput
	}

	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	c.loading = true
	c.messages = append(c.messages, chat.Message{Sender: chat.SenderUser, Text: text})
	c.mu.Unlock()

	bot := c.ask(ctx, text)

	c.mu.Lock()
	c.messages = append(c.messages, bot)
	c.loading = false
	c.mu.Unlock()

	return bot, nil
}

func (c *Conversation) ask(ctx context.Context, text string) chat.Message {
	reply, err := c.sender.Send(ctx, text)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return chat.Message{Sender: chat.SenderBot, Text: ErrorReply}
		}
		return chat.Message{Sender: chat.SenderBot, Text: NetworkReply}
	}
	if reply.Reply == "" {
		return chat.Message{Sender: chat.SenderBot, Text: ErrorReply}
	}
	return chat.Message{Sender: chat.SenderBot, Text: reply.Reply, Safety: reply.Safety}
}

// Messages returns a copy of the transcript.
func (c *Conversation) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]chat.Message(nil), c.messages...)
}

// Loading reports whether a submit is in flight.
func (c *Conversation) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}
