//go:generate go run go.uber.org/mock/mockgen -source=service.go -destination=../../mocks/mock_completer.go -package=mocks

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/nurumindfulness/nuru/backend/internal/model/chat"
	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
)

// ErrMessageRequired is returned for empty or whitespace-only messages.
var ErrMessageRequired = errors.New("message is required")

// Completer produces a model reply for a single user message.
type Completer interface {
	Complete(ctx context.Context, message string) (string, error)
}

// CrisisDetector flags messages that must not reach the model.
type CrisisDetector interface {
	Match(text string) (string, bool)
}

// Service relays one message at a time: crisis messages get the persona's
// crisis reply, everything else goes to the completer exactly once.
type Service struct {
	detector  CrisisDetector
	completer Completer
	persona   persona.Persona
	logger    *slog.Logger
}

// NewService wires the relay.
func NewService(detector CrisisDetector, completer Completer, p persona.Persona, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if p.CrisisReply == "" {
		p.CrisisReply = persona.DefaultCrisisReply
	}
	return &Service{
		detector:  detector,
		completer: completer,
		persona:   p,
		logger:    logger,
	}
}

// Persona returns the persona replies are written as.
func (s *Service) Persona() persona.Persona {
	return s.persona
}

// Reply answers message. The crisis check runs before anything touches the
// completer, so it works even when no provider is configured.
func (s *Service) Reply(ctx context.Context, message string) (chat.Reply, error) {
	if strings.TrimSpace(message) == "" {
		return chat.Reply{}, ErrMessageRequired
	}

	if keyword, hit := s.detector.Match(message); hit {
		// never log the message itself
		s.logger.Warn("crisis keyword detected, skipping completion", "keyword", keyword)
		return chat.Reply{Reply: s.persona.CrisisReply, Safety: true}, nil
	}

	reply, err := s.completer.Complete(ctx, message)
	if err != nil {
		return chat.Reply{}, err
	}
	return chat.Reply{Reply: reply, Safety: false}, nil
}
