package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/store"
)

// NewConfigCmd creates the config command and its subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the LLM provider configuration",
		Long: `Config shows and changes the LLM provider settings stored in the
settings database ($XDG_DATA_HOME/darkcti/darkcti.db by default).

Examples:
  # Select Ollama on another host
  darkcti config set --provider ollama --ollama-host 10.0.0.5 --ollama-port 11434

  # Select GPT-4
  darkcti config set --provider chatgpt4 --api-key sk-...

  # Check the settings
  darkcti config test`,
	}
	addDBDirFlag(cmd, true)

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigTestCmd())
	cmd.AddCommand(newConfigResetCmd())
	return cmd
}

// withSettings opens the settings database named by --db-dir and runs fn.
func withSettings(cmd *cobra.Command, fn func(db *store.SettingsDB) error) error {
	cfg := config.NewConfig()
	var err error
	if cfg.DBDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return err
	}
	setupLogger(cmd, getVerboseFlag(cmd))

	db, err := openSettings(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the provider configuration (API key redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, err := cmd.Flags().GetBool("json")
			if err != nil {
				return err
			}
			return withSettings(cmd, func(db *store.SettingsDB) error {
				p, err := db.LoadProvider(cmd.Context())
				if err != nil {
					return err
				}
				return printProviderConfig(cmd, p.Redacted(), asJSON)
			})
		},
	}
	cmd.Flags().BoolP("json", "j", false, "Print as JSON")
	return cmd
}

func printProviderConfig(cmd *cobra.Command, p *config.ProviderConfig, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	provider := p.Provider.String()
	if provider == "" {
		provider = "(not configured)"
	}
	apiKey := p.APIKey
	if apiKey == "" {
		apiKey = "(not set)"
	}
	fmt.Fprintf(out, "Provider:    %s\n", provider)
	fmt.Fprintf(out, "API key:     %s\n", apiKey)
	fmt.Fprintf(out, "Ollama:      %s\n", p.OllamaEndpoint())
	return nil
}

var settableFlags = []string{"provider", "api-key", "ollama-host", "ollama-port"}

var errNothingToSet = errors.New("nothing to set: use --provider, --api-key, --ollama-host or --ollama-port")

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change provider settings",
		Long: `Set changes the named settings and keeps the others.
Pass --provider "" to clear the provider selection.`,
		Args: cobra.NoArgs,
		RunE: runConfigSet,
	}
	cmd.Flags().String("provider", "", "LLM provider (chatgpt4, chatgpt35, ollama)")
	cmd.Flags().String("api-key", "", "OpenAI API key")
	cmd.Flags().String("ollama-host", "", "Ollama server address")
	cmd.Flags().Int("ollama-port", config.DefaultOllamaPort, "Ollama server port")
	return cmd
}

func runConfigSet(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	if !slices.ContainsFunc(settableFlags, flags.Changed) {
		return errNothingToSet
	}

	return withSettings(cmd, func(db *store.SettingsDB) error {
		p, err := db.LoadProvider(cmd.Context())
		if err != nil {
			return err
		}

		if flags.Changed("provider") {
			name, _ := flags.GetString("provider")
			if p.Provider, err = config.ParseProvider(name); err != nil {
				return err
			}
		}
		if flags.Changed("api-key") {
			p.APIKey, _ = flags.GetString("api-key")
		}
		if flags.Changed("ollama-host") {
			p.OllamaHost, _ = flags.GetString("ollama-host")
		}
		if flags.Changed("ollama-port") {
			p.OllamaPort, _ = flags.GetInt("ollama-port")
		}

		if err := db.SaveProvider(cmd.Context(), p); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration saved")
		return printProviderConfig(cmd, p.Redacted(), false)
	})
}

func newConfigTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Check that the provider settings are complete",
		Long: `Test checks the saved settings without contacting any service:
OpenAI providers need an API key longer than 20 characters, Ollama needs a
host and a port.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(cmd, func(db *store.SettingsDB) error {
				p, err := db.LoadProvider(cmd.Context())
				if err != nil {
					return err
				}
				if err := p.TestConnection(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Connection successful (%s)\n", p.Provider)
				return nil
			})
		},
	}
}

func newConfigResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the saved provider configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSettings(cmd, func(db *store.SettingsDB) error {
				if err := db.ResetProvider(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Configuration reset")
				return nil
			})
		},
	}
}
