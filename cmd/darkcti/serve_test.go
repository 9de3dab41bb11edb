package main

import (
	"errors"
	"testing"
	"time"

	"github.com/nao1215/darkcti/internal/config"
)

func TestBuildServeConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags", func(t *testing.T) {
		t.Parallel()
		cmd := NewServeCmd()
		dir := t.TempDir()
		if err := cmd.ParseFlags([]string{
			"--listen", "127.0.0.1:9999",
			"--tor-proxy", "127.0.0.1:9150",
			"--timeout", "1s",
			"--phase-delay", "10ms",
			"--db-dir", dir,
			"-c", writeEmptyConfig(t),
		}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ListenAddress != "127.0.0.1:9999" || cfg.TorProxyAddress != "127.0.0.1:9150" {
			t.Errorf("addresses = %q, %q", cfg.ListenAddress, cfg.TorProxyAddress)
		}
		if cfg.ProbeTimeout != time.Second {
			t.Errorf("timeout = %v", cfg.ProbeTimeout)
		}
		if cfg.DBDir != dir {
			t.Errorf("db dir = %q", cfg.DBDir)
		}
		for _, p := range cfg.Phases {
			if p.Delay != 10*time.Millisecond {
				t.Errorf("phase %q delay = %v", p.Name, p.Delay)
			}
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		cmd := NewServeCmd()
		if err := cmd.ParseFlags([]string{"-c", writeEmptyConfig(t)}); err != nil {
			t.Fatal(err)
		}
		cfg, err := buildServeConfig(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ListenAddress != config.DefaultListenAddress {
			t.Errorf("listen = %q", cfg.ListenAddress)
		}
		if err := cfg.ValidateServer(); err != nil {
			t.Errorf("ValidateServer() = %v", err)
		}
	})
}

func TestRunServeCmdInvalidConfig(t *testing.T) {
	t.Parallel()

	_, _, err := executeCmd(t, "serve", "--listen", "", "--db-dir", t.TempDir(), "-c", writeEmptyConfig(t))
	if !errors.Is(err, config.ErrInvalidListenAddress) {
		t.Errorf("error = %v, want ErrInvalidListenAddress", err)
	}
}
