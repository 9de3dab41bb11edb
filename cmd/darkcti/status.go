package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/darkcti/internal/config"
	"github.com/nao1215/darkcti/internal/health"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show Tor, LLM and source status",
		Long: `Status prints the indicators shown next to a search:

  TOR      whether a Tor SOCKS5 proxy answers at --tor-proxy
  LLM      NOT CONFIGURED, CONNECTED or ERROR, from the saved settings
  Sources  each sample source, online when active with a valid onion address

The Tor check only performs the SOCKS5 handshake with the local proxy.`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}

	cmd.Flags().String("tor-proxy", config.DefaultTorProxyAddress, "Tor SOCKS5 proxy address")
	cmd.Flags().DurationP("timeout", "t", config.DefaultProbeTimeout, "Timeout of the Tor probe")
	cmd.Flags().BoolP("json", "j", false, "Print as JSON")
	addConfigFileFlag(cmd)
	addDBDirFlag(cmd, false)

	return cmd
}

func runStatusCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	var err error
	flags := cmd.Flags()
	if cfg.TorProxyAddress, err = flags.GetString("tor-proxy"); err != nil {
		return err
	}
	if cfg.ProbeTimeout, err = flags.GetDuration("timeout"); err != nil {
		return err
	}
	if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
		return err
	}
	asJSON, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	if cfg.ProbeTimeout <= 0 {
		return fmt.Errorf("configuration error: %w", config.ErrInvalidTimeout)
	}

	logger := setupLogger(cmd, getVerboseFlag(cmd))

	ds, err := sampleDataset(cmd)
	if err != nil {
		return err
	}
	probe, err := health.NewTorProbe(cfg.TorProxyAddress, cfg.ProbeTimeout)
	if err != nil {
		return err
	}
	settings, err := openSettings(cfg)
	if err != nil {
		return err
	}
	defer settings.Close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	rep := health.NewChecker(probe, settings.LoadProvider, ds.Sources(), logger).Check(ctx)
	if asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	printStatus(cmd.OutOrStdout(), rep)
	return nil
}

func printStatus(w io.Writer, rep health.Report) {
	fmt.Fprintf(w, "%s (%s, %s)\n", rep.Tor.Label(), orNone(rep.Tor.Address), rep.Tor.Detail)

	llm := "LLM: " + string(rep.LLM.State)
	switch {
	case rep.LLM.Message != "":
		llm += " (" + rep.LLM.Message + ")"
	case rep.LLM.Provider != "":
		llm += " (" + rep.LLM.Provider.String() + ")"
	}
	fmt.Fprintln(w, llm)

	fmt.Fprintln(w, "Sources:")
	for _, src := range rep.Sources {
		state := "offline"
		if src.Online {
			state = "online"
		}
		detail := src.OnionVersion
		if src.Deprecated {
			detail += ", deprecated"
		}
		if src.Error != "" {
			detail = src.Error
		}
		fmt.Fprintf(w, "  [%-7s] %-18s %s (%s)\n", state, src.Name, src.URL, detail)
	}
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
