package factory

import (
	"context"
	"fmt"
	"sync"

	"github.com/ContentGuard/ModGate/pkg/infra/providers"
	"github.com/ContentGuard/ModGate/pkg/infra/providers/anthropic"
	"github.com/ContentGuard/ModGate/pkg/infra/providers/gemini"
	"github.com/ContentGuard/ModGate/pkg/infra/providers/openai"
	"github.com/mitchellh/mapstructure"
)

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Settings carries provider credentials, decoded from the raw config map.
type Settings struct {
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
}

// DecodeSettings decodes a raw settings map (as viper hands it over) into
// typed provider settings.
func DecodeSettings(raw map[string]interface{}) (Settings, error) {
	var s Settings
	if err := mapstructure.Decode(raw, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to decode provider settings: %w", err)
	}
	return s, nil
}

// APIKeyFor returns the credential for the named provider, empty when unset.
func (s Settings) APIKeyFor(provider string) string {
	switch provider {
	case ProviderGemini:
		return s.GeminiAPIKey
	case ProviderOpenAI:
		return s.OpenAIAPIKey
	case ProviderAnthropic:
		return s.AnthropicAPIKey
	default:
		return ""
	}
}

//go:generate mockery --name=ProviderLocator --dir=. --output=./mocks --filename=provider_locator_mock.go --case=underscore --with-expecter

type ProviderLocator interface {
	Get(provider string) (providers.Client, error)
}

type providerLocator struct {
	settings Settings
	mu       sync.Mutex
	clients  map[string]providers.Client
}

func NewProviderLocator(settings Settings) ProviderLocator {
	return &providerLocator{
		settings: settings,
		clients:  make(map[string]providers.Client),
	}
}

func (f *providerLocator) Get(provider string) (providers.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if client, ok := f.clients[provider]; ok {
		return client, nil
	}

	var (
		client providers.Client
		err    error
	)
	switch provider {
	case ProviderGemini:
		client, err = gemini.NewGeminiClient(context.Background(), f.settings.GeminiAPIKey)
	case ProviderOpenAI:
		client = openai.NewOpenaiClient()
	case ProviderAnthropic:
		client = anthropic.NewAnthropicClient()
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
	if err != nil {
		return nil, err
	}

	f.clients[provider] = client
	return client, nil
}
