package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nurumindfulness/nuru/backend/internal/config"
)

const (
	openAIProviderName  = "openai"
	openAIDefaultAPIURL = "https://api.openai.com/v1"
	openAIDefaultModel  = "gpt-3.5-turbo"
)

// OpenAIOptions configures OpenAIChatModel.
type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// OpenAIChatModel adapts the OpenAI chat completions API to eino's BaseChatModel.
type OpenAIChatModel struct {
	client openai.Client
	model  string
}

// NewOpenAIChatModel creates the adapter. SDK retries are disabled so each
// relay request hits the API at most once.
func NewOpenAIChatModel(opts OpenAIOptions) (*OpenAIChatModel, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("%w: missing OPENAI_API_KEY", ErrNotConfigured)
	}

	baseURL := strings.TrimSpace(opts.BaseURL)
	if baseURL == "" {
		baseURL = openAIDefaultAPIURL
	}

	modelName := strings.TrimSpace(opts.Model)
	if modelName == "" {
		modelName = openAIDefaultModel
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		// zero Timeout leaves the transport defaults in charge
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAIChatModel{client: client, model: modelName}, nil
}

func newOpenAIFromConfig(_ context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	return NewOpenAIChatModel(OpenAIOptions{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.Timeout,
	})
}

// Generate sends one non-streaming chat completion request.
func (m *OpenAIChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	params, err := m.buildChatParams(input, opts...)
	if err != nil {
		return nil, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{
				Provider: openAIProviderName,
				Status:   apiErr.StatusCode,
				Detail:   openAIErrorDetail(apiErr),
				Err:      err,
			}
		}
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}
	return schema.AssistantMessage(content, nil), nil
}

// Stream satisfies BaseChatModel with a single-chunk stream; the relay never streams.
func (m *OpenAIChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *OpenAIChatModel) buildChatParams(input []*schema.Message, opts ...model.Option) (openai.ChatCompletionNewParams, error) {
	if len(input) == 0 {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("messages are required")
	}

	defaultModel := m.model
	options := model.GetCommonOptions(&model.Options{Model: &defaultModel}, opts...)

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		param, err := toChatMessageParam(msg)
		if err != nil {
			return openai.ChatCompletionNewParams{}, err
		}
		messages = append(messages, param)
	}

	modelName := defaultModel
	if options.Model != nil && strings.TrimSpace(*options.Model) != "" {
		modelName = *options.Model
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(modelName),
		Messages: messages,
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(float64(*options.Temperature))
	}
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(*options.MaxTokens))
	}
	return params, nil
}

func toChatMessageParam(msg *schema.Message) (openai.ChatCompletionMessageParamUnion, error) {
	switch msg.Role {
	case schema.System:
		return openai.SystemMessage(msg.Content), nil
	case schema.User:
		return openai.UserMessage(msg.Content), nil
	case schema.Assistant:
		return openai.AssistantMessage(msg.Content), nil
	default:
		return openai.ChatCompletionMessageParamUnion{}, fmt.Errorf("unsupported message role: %s", msg.Role)
	}
}

func openAIErrorDetail(apiErr *openai.Error) string {
	if detail := strings.TrimSpace(apiErr.Message); detail != "" {
		return detail
	}
	if raw := strings.TrimSpace(apiErr.RawJSON()); raw != "" {
		return raw
	}
	return http.StatusText(apiErr.StatusCode)
}

var _ model.BaseChatModel = (*OpenAIChatModel)(nil)
