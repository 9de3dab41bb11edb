package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nao1215/darkcti/internal/config"
)

// ProviderKey is the settings key of the LLM provider configuration.
const ProviderKey = "darkcti-config"

// LoadProvider returns the saved provider configuration merged onto the
// defaults. Before anything is saved it returns config.NewProviderConfig().
func (s *SettingsDB) LoadProvider(ctx context.Context) (*config.ProviderConfig, error) {
	cfg := config.NewProviderConfig()

	raw, _, err := s.Get(ctx, ProviderKey)
	if errors.Is(err, ErrNotFound) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into the defaults so keys missing from older blobs keep
	// their default value.
	if err := json.Unmarshal([]byte(raw), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stored provider configuration: %w", err)
	}
	return cfg, nil
}

// SaveProvider validates and stores cfg.
func (s *SettingsDB) SaveProvider(ctx context.Context, cfg *config.ProviderConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode provider configuration: %w", err)
	}
	return s.Put(ctx, ProviderKey, string(data))
}

// ResetProvider deletes the stored provider configuration.
func (s *SettingsDB) ResetProvider(ctx context.Context) error {
	return s.Delete(ctx, ProviderKey)
}
