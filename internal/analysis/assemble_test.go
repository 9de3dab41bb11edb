package analysis

import (
	"testing"
	"time"

	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
)

func TestBuildResult(t *testing.T) {
	t.Parallel()

	store := dataset.Default()
	now := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("JST", 9*60*60))

	t.Run("banking query end to end", func(t *testing.T) {
		t.Parallel()

		query := "Banking trojan IOCs Q1 2024"
		iocs, actors := Match(query, store.IOCs(), store.Actors())
		got := BuildResult(query, iocs, actors, store.Sources(), now)

		if got.Query != query {
			t.Errorf("Query = %q", got.Query)
		}
		if got.RiskLevel != model.RiskLevelHigh {
			t.Errorf("RiskLevel = %s, want HIGH", got.RiskLevel)
		}
		if len(got.IOCs) != 1 || got.IOCs[0].Type != model.IOCTypeHash {
			t.Errorf("IOCs = %+v", got.IOCs)
		}
		if len(got.Actors) != 1 || got.Actors[0].Name != "TA505" {
			t.Errorf("Actors = %+v", got.Actors)
		}
		if got.Summary != Summarize(query, iocs, actors) {
			t.Error("summary does not match Summarize output")
		}
		if got.TimestampString() != "2024-03-01T00:30:00.000Z" {
			t.Errorf("TimestampString() = %q", got.TimestampString())
		}
	})

	t.Run("reports the first three sources", func(t *testing.T) {
		t.Parallel()

		got := BuildResult("q", store.IOCs(), store.Actors(), store.Sources(), now)
		want := []string{"Ahmia", "Torch", "Haystak"}
		if len(got.Sources) != len(want) {
			t.Fatalf("expected %d sources, got %d", len(want), len(got.Sources))
		}
		for i, name := range want {
			if got.Sources[i].Name != name {
				t.Errorf("source %d = %q, want %q", i, got.Sources[i].Name, name)
			}
		}
	})

	t.Run("fewer sources than reported count", func(t *testing.T) {
		t.Parallel()

		got := BuildResult("q", store.IOCs(), store.Actors(), store.Sources()[:1], now)
		if len(got.Sources) != 1 {
			t.Errorf("expected 1 source, got %d", len(got.Sources))
		}
		got = BuildResult("q", store.IOCs(), store.Actors(), nil, now)
		if len(got.Sources) != 0 {
			t.Errorf("expected no sources, got %d", len(got.Sources))
		}
	})
}
