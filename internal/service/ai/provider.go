package ai

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/model"

	"github.com/nurumindfulness/nuru/backend/internal/config"
)

// ProviderFactory builds a chat model for one LLM_PROVIDER value. Factories
// return an error wrapping ErrNotConfigured when credentials are missing.
type ProviderFactory func(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error)

// Registry maps provider names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ProviderFactory)}
}

// Register adds or replaces a provider factory.
func (r *Registry) Register(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Providers lists the registered provider names in sorted order.
func (r *Registry) Providers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewChatModel builds the chat model selected by cfg.Provider. Unknown
// providers fail closed with ErrNotConfigured.
func (r *Registry) NewChatModel(ctx context.Context, cfg config.AIConfig) (model.BaseChatModel, error) {
	r.mu.RLock()
	factory, ok := r.factories[cfg.Provider]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unsupported LLM_PROVIDER %q", ErrNotConfigured, cfg.Provider)
	}
	return factory(ctx, cfg)
}

// DefaultRegistry knows the providers shipped with the relay.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(config.ProviderOpenAI, newOpenAIFromConfig)
	r.Register(config.ProviderArk, newArkFromConfig)
	return r
}
