package health

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
)

func TestLLM(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *config.ProviderConfig
		want LLMState
	}{
		{name: "nil", cfg: nil, want: LLMNotConfigured},
		{name: "defaults", cfg: config.NewProviderConfig(), want: LLMNotConfigured},
		{
			name: "openai with key",
			cfg:  &config.ProviderConfig{Provider: config.ProviderChatGPT35, APIKey: "sk-1"},
			want: LLMConnected,
		},
		{
			name: "ollama endpoint",
			cfg:  &config.ProviderConfig{Provider: config.ProviderOllama, OllamaHost: "10.0.0.1", OllamaPort: 11434},
			want: LLMConnected,
		},
		{
			name: "provider without settings",
			cfg:  &config.ProviderConfig{Provider: config.ProviderChatGPT4},
			want: LLMError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := LLM(tt.cfg)
			if got.State != tt.want {
				t.Errorf("State = %q, want %q", got.State, tt.want)
			}
			if tt.want == LLMError && got.Message != "Configuration incomplete" {
				t.Errorf("Message = %q", got.Message)
			}
		})
	}
}

func TestSources(t *testing.T) {
	t.Parallel()

	got := Sources(dataset.Default().Sources())
	if len(got) != 5 {
		t.Fatalf("expected 5 sources, got %d", len(got))
	}
	for _, st := range got {
		if !st.Online {
			t.Errorf("%s should be online", st.Name)
		}
	}
	if got[0].OnionVersion != "v3" || got[0].Deprecated {
		t.Errorf("Ahmia should be a current v3 address: %+v", got[0])
	}
	if got[4].OnionVersion != "v2" || !got[4].Deprecated {
		t.Errorf("DuckDuckGo should be a deprecated v2 address: %+v", got[4])
	}

	broken := Sources([]model.Source{
		{Name: "bad", URL: "not-an-onion", Status: model.SourceStatusActive},
		{Name: "off", URL: "3g2upl4pq6kufc4m.onion", Status: model.SourceStatusInactive},
	})
	if broken[0].Online || broken[0].Error == "" {
		t.Errorf("malformed url should be offline with an error: %+v", broken[0])
	}
	if broken[1].Online {
		t.Error("inactive source should be offline")
	}
}

func TestCheckerCheck(t *testing.T) {
	t.Parallel()

	t.Run("all indicators up", func(t *testing.T) {
		t.Parallel()

		probe, err := NewTorProbe("127.0.0.1:9050", time.Second, WithDialer(pipeDialer(
			socksServer([]byte{0x05, 0x00}, []byte{0x05, 0x04, 0x00, 0x01}),
		)))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		loader := func(context.Context) (*config.ProviderConfig, error) {
			return &config.ProviderConfig{Provider: config.ProviderOllama, OllamaHost: "h", OllamaPort: 1}, nil
		}

		got := NewChecker(probe, loader, dataset.Default().Sources(), nil).Check(t.Context())
		if !got.Tor.Connected || got.Tor.Label() != "TOR: ON" {
			t.Errorf("unexpected tor status %+v", got.Tor)
		}
		if got.LLM.State != LLMConnected || got.LLM.Provider != config.ProviderOllama {
			t.Errorf("unexpected llm status %+v", got.LLM)
		}
		if len(got.Sources) != 5 {
			t.Errorf("expected 5 sources, got %d", len(got.Sources))
		}
	})

	t.Run("degraded indicators", func(t *testing.T) {
		t.Parallel()

		probe, err := NewTorProbe("127.0.0.1:9050", time.Second, WithDialer(pipeDialer(func(conn net.Conn) {
			_, _ = io.ReadFull(conn, make([]byte, 3))
			_, _ = conn.Write([]byte("nope"))
		})))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		loader := func(context.Context) (*config.ProviderConfig, error) {
			return nil, errors.New("database is locked")
		}

		got := NewChecker(probe, loader, nil, nil).Check(t.Context())
		if got.Tor.Connected || got.Tor.Label() != "TOR: OFF" {
			t.Errorf("unexpected tor status %+v", got.Tor)
		}
		if got.LLM.State != LLMError || got.LLM.Message == "" {
			t.Errorf("unexpected llm status %+v", got.LLM)
		}
	})

	t.Run("nothing wired", func(t *testing.T) {
		t.Parallel()

		got := NewChecker(nil, nil, nil, nil).Check(t.Context())
		if got.Tor.Connected || got.LLM.State != LLMNotConfigured || len(got.Sources) != 0 {
			t.Errorf("unexpected report %+v", got)
		}
	})
}
