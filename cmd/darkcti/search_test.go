package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/darkcti/internal/config"
)

// searchArgs returns the common arguments of a fast, isolated search.
func searchArgs(t *testing.T, extra ...string) []string {
	t.Helper()
	args := []string{
		"search",
		"--db-dir", t.TempDir(),
		"--provider", "ollama",
		"--phase-delay", "0s",
		"-c", writeEmptyConfig(t),
	}
	return append(args, extra...)
}

// writeEmptyConfig writes a configuration file without overrides so tests
// never pick up a .darkcti from the working or home directory.
func writeEmptyConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".darkcti")
	if err := os.WriteFile(path, []byte("search: {}\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestNewSearchCmd(t *testing.T) {
	t.Parallel()

	cmd := NewSearchCmd()
	tests := []struct {
		name      string
		shorthand string
		defValue  string
	}{
		{name: "list", shorthand: "l", defValue: ""},
		{name: "batch", shorthand: "b", defValue: "4"},
		{name: "json", shorthand: "j", defValue: "false"},
		{name: "markdown", shorthand: "m", defValue: "false"},
		{name: "output", shorthand: "o", defValue: ""},
		{name: "export", shorthand: "e", defValue: ""},
		{name: "config", shorthand: "c", defValue: ""},
		{name: "chart", defValue: "false"},
		{name: "alert", defValue: "false"},
		{name: "provider", defValue: ""},
		{name: "phase-delay", defValue: "800ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("shorthand = %q, want %q", flag.Shorthand, tt.shorthand)
			}
			if flag.DefValue != tt.defValue {
				t.Errorf("default = %q, want %q", flag.DefValue, tt.defValue)
			}
		})
	}
}

func TestRunSearchCmd(t *testing.T) {
	t.Parallel()

	t.Run("text report", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := executeCmd(t, searchArgs(t, "Latest", "ransomware", "attacks")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{
			"CYBER THREAT INTELLIGENCE REPORT",
			"Query: Latest ransomware attacks",
			"185.220.101.45",
			"THREAT ACTORS",
		} {
			if !strings.Contains(stdout, want) {
				t.Errorf("output missing %q", want)
			}
		}
	})

	t.Run("json report", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := executeCmd(t, searchArgs(t, "--json", "APT41 new campaigns")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got struct {
			Query     string `json:"query"`
			RiskLevel string `json:"risk_level"`
		}
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if got.Query != "APT41 new campaigns" {
			t.Errorf("query = %q", got.Query)
		}
		if got.RiskLevel == "" {
			t.Error("expected a risk level")
		}
	})

	t.Run("markdown report with chart", func(t *testing.T) {
		t.Parallel()
		stdout, _, err := executeCmd(t, searchArgs(t, "-m", "--chart", "ransomware")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "# Cyber Threat Intelligence Report") {
			t.Errorf("unexpected markdown header: %q", firstLine(stdout))
		}
		if !strings.Contains(stdout, "```mermaid") {
			t.Error("expected a mermaid chart")
		}
	})

	t.Run("output file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "out", "report.txt")
		stdout, _, err := executeCmd(t, searchArgs(t, "-o", path, "ransomware")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if stdout != "" {
			t.Errorf("expected nothing on stdout, got %q", stdout)
		}
		content, err := os.ReadFile(path) //nolint:gosec // test path
		if err != nil {
			t.Fatalf("failed to read report: %v", err)
		}
		if !strings.HasPrefix(string(content), "CYBER THREAT INTELLIGENCE REPORT") {
			t.Errorf("unexpected report: %q", firstLine(string(content)))
		}
	})

	t.Run("export directory", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, stderr, err := executeCmd(t, searchArgs(t, "-e", dir, "ransomware")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, pattern := range []string{"cti-report-*.txt", "cti-report-*.md"} {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				t.Fatal(err)
			}
			if len(matches) != 1 {
				t.Errorf("expected one %s, got %v", pattern, matches)
			}
		}
		if strings.Count(stderr, "Exported ") != 2 {
			t.Errorf("expected two export lines, got %q", stderr)
		}
	})

	t.Run("batch from list as json array", func(t *testing.T) {
		t.Parallel()
		list := filepath.Join(t.TempDir(), "queries.txt")
		content := "# sample\nransomware\n\nAPT41\nbanking trojan\n"
		if err := os.WriteFile(list, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		stdout, stderr, err := executeCmd(t, searchArgs(t, "--list", list, "--batch", "2", "--json")...)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got []struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		queries := make([]string, len(got))
		for i, r := range got {
			queries[i] = r.Query
		}
		if want := []string{"ransomware", "APT41", "banking trojan"}; !slices.Equal(queries, want) {
			t.Errorf("queries = %v, want %v", queries, want)
		}
		if strings.Count(stderr, "Search completed:") != 3 {
			t.Errorf("expected three completion lines, got %q", stderr)
		}
	})
}

func TestRunSearchCmdErrors(t *testing.T) {
	t.Parallel()

	list := filepath.Join(t.TempDir(), "queries.txt")
	if err := os.WriteFile(list, []byte("a\nb\n"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    func(t *testing.T) []string
		wantErr error
	}{
		{
			name:    "no query",
			args:    func(t *testing.T) []string { return searchArgs(t) },
			wantErr: config.ErrNoQuery,
		},
		{
			name:    "conflicting formats",
			args:    func(t *testing.T) []string { return searchArgs(t, "-j", "-m", "ransomware") },
			wantErr: config.ErrConflictingReportFormats,
		},
		{
			name:    "export with a batch",
			args:    func(t *testing.T) []string { return searchArgs(t, "-l", list, "-e", t.TempDir()) },
			wantErr: config.ErrExportRequiresSingleQuery,
		},
		{
			name:    "unknown provider",
			args:    func(t *testing.T) []string { return searchArgs(t, "--provider", "gemini", "ransomware") },
			wantErr: config.ErrInvalidProvider,
		},
		{
			name: "provider not configured",
			args: func(t *testing.T) []string {
				return []string{
					"search", "--db-dir", t.TempDir(), "--phase-delay", "0s",
					"-c", writeEmptyConfig(t), "ransomware",
				}
			},
			wantErr: config.ErrProviderNotConfigured,
		},
		{
			name: "batch with provider not configured",
			args: func(t *testing.T) []string {
				return []string{
					"search", "--db-dir", t.TempDir(), "--phase-delay", "0s",
					"-c", writeEmptyConfig(t), "-l", list,
				}
			},
			wantErr: config.ErrProviderNotConfigured,
		},
		{
			name: "missing config file",
			args: func(t *testing.T) []string {
				return []string{"search", "-c", filepath.Join(t.TempDir(), "missing.yaml"), "ransomware"}
			},
			wantErr: config.ErrConfigNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := executeCmd(t, tt.args(t)...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadQueryList(t *testing.T) {
	t.Parallel()

	t.Run("skips blank lines and comments", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "list.txt")
		content := "  first query  \n\n# comment\n\t\nsecond\n"
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
		got, err := readQueryList(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []string{"first query", "second"}; !slices.Equal(got, want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := readQueryList(filepath.Join(t.TempDir(), "missing.txt"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
