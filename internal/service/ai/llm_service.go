package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/nurumindfulness/nuru/backend/internal/config"
	"github.com/nurumindfulness/nuru/backend/internal/model/persona"
)

const (
	// DefaultTemperature is the sampling temperature for every completion.
	DefaultTemperature float32 = 0.75
	// DefaultMaxTokens caps the completion length.
	DefaultMaxTokens = 350
	// FallbackReply is relayed when the provider answers with no text.
	FallbackReply = "Sorry, couldn't generate reply."
)

// Service sends one user message plus the persona instruction to the
// configured completion provider. It is safe for concurrent use.
type Service struct {
	chatModel model.BaseChatModel
	template  prompt.ChatTemplate
	system    string
	logger    *slog.Logger
	setupErr  error
}

// NewService builds the provider from cfg through DefaultRegistry. Missing
// credentials do not fail construction; the service stays unconfigured and
// every Complete call returns the setup error.
func NewService(ctx context.Context, cfg config.AIConfig, p persona.Persona, logger *slog.Logger) (*Service, error) {
	return NewServiceWithRegistry(ctx, DefaultRegistry, cfg, p, logger)
}

// NewServiceWithRegistry is NewService with an explicit provider registry.
func NewServiceWithRegistry(ctx context.Context, registry *Registry, cfg config.AIConfig, p persona.Persona, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	chatModel, err := registry.NewChatModel(ctx, cfg)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			logger.Warn("completion provider unavailable, non-crisis messages will fail",
				"provider", cfg.Provider, "error", err)
			svc := newService(nil, p, logger)
			svc.setupErr = err
			return svc, nil
		}
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	logger.Info("completion provider ready", "provider", cfg.Provider)
	return newService(chatModel, p, logger), nil
}

// NewServiceWithModel wires an existing chat model, mainly for tests.
func NewServiceWithModel(chatModel model.BaseChatModel, p persona.Persona, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return newService(chatModel, p, logger)
}

func newService(chatModel model.BaseChatModel, p persona.Persona, logger *slog.Logger) *Service {
	return &Service{
		chatModel: chatModel,
		template: prompt.FromMessages(
			schema.FString,
			schema.SystemMessage("{system}"),
			schema.UserMessage("{query}"),
		),
		system: NewPersonaPromptManager().BuildSystemPrompt(p),
		logger: logger,
	}
}

// Ready reports whether a provider is configured.
func (s *Service) Ready() bool {
	return s.setupErr == nil && s.chatModel != nil
}

// SystemPrompt returns the instruction sent ahead of each user turn.
func (s *Service) SystemPrompt() string {
	return s.system
}

// Complete asks the provider for a reply to message. The message is sent
// as-is; an empty answer is replaced by FallbackReply.
func (s *Service) Complete(ctx context.Context, message string) (string, error) {
	if s.setupErr != nil {
		return "", s.setupErr
	}
	if s.chatModel == nil {
		return "", ErrNotConfigured
	}

	msgs, err := s.template.Format(ctx, map[string]any{
		"system": s.system,
		"query":  message,
	})
	if err != nil {
		return "", fmt.Errorf("failed to format prompt: %w", err)
	}

	resp, err := s.chatModel.Generate(ctx, msgs,
		model.WithTemperature(DefaultTemperature),
		model.WithMaxTokens(DefaultMaxTokens),
	)
	if err != nil {
		return "", err
	}

	reply := ""
	if resp != nil {
		reply = strings.TrimSpace(resp.Content)
	}
	if reply == "" {
		s.logger.Debug("completion returned no text, using fallback")
		return FallbackReply, nil
	}

	s.logger.Debug("completion generated", "length", len(reply))
	return reply, nil
}
