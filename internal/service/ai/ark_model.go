package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/nurumindfulness/nuru/backend/internal/config"
)

const arkProviderName = "ark"

// newArkFromConfig 使用 Ark 配置创建模型实例。
func newArkFromConfig(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("%w: Ark requires ARK_MODEL plus ARK_API_KEY or ARK_ACCESS_KEY/ARK_SECRET_KEY", ErrNotConfigured)
	}

	temperature := float32(DefaultTemperature)
	maxTokens := DefaultMaxTokens

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.Ark.BaseURL,
		Region:      cfg.Ark.Region,
		APIKey:      cfg.Ark.APIKey,
		AccessKey:   cfg.Ark.AccessKey,
		SecretKey:   cfg.Ark.SecretKey,
		Model:       cfg.Ark.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}

	return &upstreamGuard{provider: arkProviderName, next: chatModel, timeout: cfg.Timeout}, nil
}

// upstreamGuard tags provider answers as UpstreamError for SDKs without a
// typed HTTP error and applies LLM_TIMEOUT to Generate. Cancellations,
// deadlines and transport failures (no answer at all) pass through untouched,
// matching the OpenAI adapter.
type upstreamGuard struct {
	provider string
	next     model.BaseChatModel
	timeout  time.Duration
}

func (g *upstreamGuard) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	msg, err := g.next.Generate(ctx, input, opts...)
	if err != nil {
		return nil, g.wrap(ctx, err)
	}
	return msg, nil
}

func (g *upstreamGuard) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	stream, err := g.next.Stream(ctx, input, opts...)
	if err != nil {
		return nil, g.wrap(ctx, err)
	}
	return stream, nil
}

func (g *upstreamGuard) wrap(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return err
	}
	var upstream *UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	if isTransportError(err) {
		return fmt.Errorf("%s chat completion: %w", g.provider, err)
	}
	return &UpstreamError{Provider: g.provider, Detail: err.Error(), Err: err}
}

func isTransportError(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr)
}
