package config

import (
	"log/slog"
	"net"
	"strconv"
	"strings"
)

// Provider identifies an LLM backend.
type Provider string

const (
	// ProviderChatGPT4 is OpenAI's GPT-4.
	ProviderChatGPT4 Provider = "chatgpt4"
	// ProviderChatGPT35 is OpenAI's GPT-3.5.
	ProviderChatGPT35 Provider = "chatgpt35"
	// ProviderOllama is a self-hosted Ollama server.
	ProviderOllama Provider = "ollama"
)

const (
	// DefaultOllamaHost is where a local Ollama server listens.
	DefaultOllamaHost = "127.0.0.1"

	// DefaultOllamaPort is Ollama's default API port.
	DefaultOllamaPort = 11434

	// minAPIKeyLength is the length an API key must exceed to pass the
	// connection test.
	minAPIKeyLength = 20

	// redactedValue replaces secrets in displayed configuration.
	redactedValue = "[REDACTED]"
)

// String returns the provider name.
func (p Provider) String() string {
	return string(p)
}

// IsValid reports whether p is a known provider.
func (p Provider) IsValid() bool {
	switch p {
	case ProviderChatGPT4, ProviderChatGPT35, ProviderOllama:
		return true
	default:
		return false
	}
}

// IsOpenAI reports whether p is one of the OpenAI models.
func (p Provider) IsOpenAI() bool {
	return p == ProviderChatGPT4 || p == ProviderChatGPT35
}

// ParseProvider converts a user-supplied name into a Provider.
// Matching is case-insensitive; the empty string means "not configured".
func ParseProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || p.IsValid() {
		return p, nil
	}
	return "", ErrInvalidProvider
}

// ProviderConfig is the LLM configuration persisted between runs.
// The JSON field names are the stored wire format.
type ProviderConfig struct {
	// Provider is the selected backend. Empty means not configured.
	Provider Provider `json:"llmProvider"`

	// APIKey authenticates against OpenAI providers.
	APIKey string `json:"apiKey"`

	// OllamaHost is the Ollama server address.
	OllamaHost string `json:"ollamaIP"`

	// OllamaPort is the Ollama server port.
	OllamaPort int `json:"ollamaPort"`
}

// NewProviderConfig returns the provider configuration used before anything
// has been saved: no provider and the local Ollama endpoint.
func NewProviderConfig() *ProviderConfig {
	return &ProviderConfig{
		OllamaHost: DefaultOllamaHost,
		OllamaPort: DefaultOllamaPort,
	}
}

// IsConfigured reports whether a provider has been selected.
func (p *ProviderConfig) IsConfigured() bool {
	return p != nil && p.Provider != ""
}

// Validate checks that the provider, if set, is known and that the
// Ollama port is in range.
func (p *ProviderConfig) Validate() error {
	if p.Provider != "" && !p.Provider.IsValid() {
		return ErrInvalidProvider
	}
	if p.OllamaPort < 0 || p.OllamaPort > 65535 {
		return ErrOllamaEndpointIncomplete
	}
	return nil
}

// OllamaEndpoint returns the Ollama server as host:port.
func (p *ProviderConfig) OllamaEndpoint() string {
	return net.JoinHostPort(p.OllamaHost, strconv.Itoa(p.OllamaPort))
}

// HasCredentials reports whether the configuration carries what its
// provider needs: an API key, or an Ollama host and port.
func (p *ProviderConfig) HasCredentials() bool {
	return p.APIKey != "" || (p.OllamaHost != "" && p.OllamaPort > 0)
}

// TestConnection checks the configuration without contacting any service.
// OpenAI providers pass when the API key is longer than 20 characters;
// Ollama passes when both host and port are set.
func (p *ProviderConfig) TestConnection() error {
	switch {
	case !p.IsConfigured():
		return ErrProviderNotConfigured
	case p.Provider.IsOpenAI():
		if len(p.APIKey) <= minAPIKeyLength {
			return ErrAPIKeyTooShort
		}
	case p.Provider == ProviderOllama:
		if p.OllamaHost == "" || p.OllamaPort <= 0 {
			return ErrOllamaEndpointIncomplete
		}
	default:
		return ErrInvalidProvider
	}
	return nil
}

// Redacted returns a copy safe for display, with the API key masked.
func (p *ProviderConfig) Redacted() *ProviderConfig {
	c := *p
	if c.APIKey != "" {
		c.APIKey = redactedValue
	}
	return &c
}

// LogValue logs the configuration as a group. The api_key attribute is
// masked by the secure log handler.
func (p *ProviderConfig) LogValue() slog.Value {
	if p == nil {
		return slog.StringValue("<nil>")
	}
	return slog.GroupValue(
		slog.String("provider", p.Provider.String()),
		slog.String("api_key", p.APIKey),
		slog.String("ollama", p.OllamaEndpoint()),
	)
}
