package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
)

type senderFunc func(ctx context.Context, message string) (chat.Reply, error)

func (f senderFunc) Send(ctx context.Context, message string) (chat.Reply, error) {
	return f(ctx, message)
}

func TestConversationSubmit(t *testing.T) {
	req := require.New(t)
	var sent []string
	conv := NewConversation(senderFunc(func(_ context.Context, message string) (chat.Reply, error) {
		sent = append(sent, message)
		return chat.Reply{Reply: "reply to " + message}, nil
	}), "Hi, I'm Nuru")

	bot, err := conv.Submit(context.Background(), "  first  ")
	req.NoError(err)
	req.Equal(chat.Message{Sender: chat.SenderBot, Text: "reply to first"}, bot)

	_, err = conv.Submit(context.Background(), "second")
	req.NoError(err)

	// only the latest message goes out
	req.Equal([]string{"first", "second"}, sent)
	req.Equal([]chat.Message{
		{Sender: chat.SenderBot, Text: "Hi, I'm Nuru"},
		{Sender: chat.SenderUser, Text: "first"},
		{Sender: chat.SenderBot, Text: "reply to first"},
		{Sender: chat.SenderUser, Text: "second"},
		{Sender: chat.SenderBot, Text: "reply to second"},
	}, conv.Messages())
	req.False(conv.Loading())
}

func TestConversationEmptyInputIsNoop(t *testing.T) {
	conv := NewConversation(senderFunc(func(context.Context, string) (chat.Reply, error) {
		t.Fatal("sender must not be called")
		return chat.Reply{}, nil
	}), "")

	_, err := conv.Submit(context.Background(), " \t\n")
	require.ErrorIs(t, err, ErrEmptyInput)
	require.Empty(t, conv.Messages())
}

func TestConversationSafetyBubble(t *testing.T) {
	conv := NewConversation(senderFunc(func(context.Context, string) (chat.Reply, error) {
		return chat.Reply{Reply: "please call someone", Safety: true}, nil
	}), "")

	bot, err := conv.Submit(context.Background(), "I want to die")
	require.NoError(t, err)
	require.True(t, bot.Safety)
}

func TestConversationFailuresBecomeBubbles(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "error status", err: &APIError{Status: http.StatusInternalServerError}, want: ErrorReply},
		{name: "network", err: errors.New("dial tcp: connection refused"), want: NetworkReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConversation(senderFunc(func(context.Context, string) (chat.Reply, error) {
				return chat.Reply{}, tt.err
			}), "")

			bot, err := conv.Submit(context.Background(), "hello")
			require.NoError(t, err)
			require.Equal(t, chat.Message{Sender: chat.SenderBot, Text: tt.want}, bot)
			require.False(t, conv.Loading())
		})
	}
}

func TestConversationRejectsOverlappingSubmits(t *testing.T) {
	req := require.New(t)
	entered := make(chan struct{})
	release := make(chan struct{})
	conv := NewConversation(senderFunc(func(context.Context, string) (chat.Reply, error) {
		close(entered)
		<-release
		return chat.Reply{Reply: "done"}, nil
	}), "")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = conv.Submit(context.Background(), "first")
	}()

	<-entered
	req.True(conv.Loading())
	_, err := conv.Submit(context.Background(), "second")
	req.ErrorIs(err, ErrBusy)

	close(release)
	wg.Wait()
	req.False(conv.Loading())
	req.Len(conv.Messages(), 2)
}
