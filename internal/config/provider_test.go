package config

import (
	"errors"
	"testing"
)

func TestParseProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Provider
		wantErr error
	}{
		{in: "chatgpt4", want: ProviderChatGPT4},
		{in: " ChatGPT35 ", want: ProviderChatGPT35},
		{in: "OLLAMA", want: ProviderOllama},
		{in: "", want: ""},
		{in: "gemini", wantErr: ErrInvalidProvider},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseProvider(tt.in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseProvider(%q) error = %v, want %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProvider(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewProviderConfig(t *testing.T) {
	t.Parallel()

	p := NewProviderConfig()
	if p.IsConfigured() {
		t.Error("expected no provider by default")
	}
	if p.OllamaEndpoint() != "127.0.0.1:11434" {
		t.Errorf("OllamaEndpoint() = %q", p.OllamaEndpoint())
	}
	if err := p.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProviderConfigTestConnection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ProviderConfig
		wantErr error
	}{
		{
			name:    "not configured",
			cfg:     ProviderConfig{APIKey: "sk-0123456789abcdefghijk"},
			wantErr: ErrProviderNotConfigured,
		},
		{
			name: "openai key longer than 20 characters",
			cfg:  ProviderConfig{Provider: ProviderChatGPT4, APIKey: "sk-0123456789abcdefghi"},
		},
		{
			name:    "openai key of exactly 20 characters",
			cfg:     ProviderConfig{Provider: ProviderChatGPT35, APIKey: "01234567890123456789"},
			wantErr: ErrAPIKeyTooShort,
		},
		{
			name:    "openai without key",
			cfg:     ProviderConfig{Provider: ProviderChatGPT4},
			wantErr: ErrAPIKeyTooShort,
		},
		{
			name: "ollama with endpoint",
			cfg:  ProviderConfig{Provider: ProviderOllama, OllamaHost: "10.0.0.5", OllamaPort: 11434},
		},
		{
			name:    "ollama without host",
			cfg:     ProviderConfig{Provider: ProviderOllama, OllamaPort: 11434},
			wantErr: ErrOllamaEndpointIncomplete,
		},
		{
			name:    "ollama without port",
			cfg:     ProviderConfig{Provider: ProviderOllama, OllamaHost: "10.0.0.5"},
			wantErr: ErrOllamaEndpointIncomplete,
		},
		{
			name:    "unknown provider",
			cfg:     ProviderConfig{Provider: "bard"},
			wantErr: ErrInvalidProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if err := tt.cfg.TestConnection(); !errors.Is(err, tt.wantErr) {
				t.Errorf("TestConnection() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProviderConfigValidate(t *testing.T) {
	t.Parallel()

	if err := (&ProviderConfig{Provider: "bard"}).Validate(); !errors.Is(err, ErrInvalidProvider) {
		t.Errorf("expected ErrInvalidProvider, got %v", err)
	}
	if err := (&ProviderConfig{OllamaPort: 70000}).Validate(); !errors.Is(err, ErrOllamaEndpointIncomplete) {
		t.Errorf("expected ErrOllamaEndpointIncomplete, got %v", err)
	}
}

func TestProviderConfigRedacted(t *testing.T) {
	t.Parallel()

	p := &ProviderConfig{Provider: ProviderChatGPT4, APIKey: "sk-secret-value-1234567"}
	r := p.Redacted()
	if r.APIKey != "[REDACTED]" {
		t.Errorf("expected masked key, got %q", r.APIKey)
	}
	if p.APIKey != "sk-secret-value-1234567" {
		t.Error("Redacted must not modify the receiver")
	}
	if (&ProviderConfig{}).Redacted().APIKey != "" {
		t.Error("empty key should stay empty")
	}
}

func TestProviderConfigHasCredentials(t *testing.T) {
	t.Parallel()

	if !(&ProviderConfig{APIKey: "x"}).HasCredentials() {
		t.Error("API key should count as credentials")
	}
	if !NewProviderConfig().HasCredentials() {
		t.Error("default Ollama endpoint should count as credentials")
	}
	if (&ProviderConfig{}).HasCredentials() {
		t.Error("empty config has no credentials")
	}
}
