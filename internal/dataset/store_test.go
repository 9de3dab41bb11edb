package dataset

import (
	"errors"
	"testing"

	"github.com/nao1215/darkcti/internal/model"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	s := Default()

	t.Run("has the built-in collections", func(t *testing.T) {
		t.Parallel()

		if got := len(s.Sources()); got != 5 {
			t.Errorf("expected 5 sources, got %d", got)
		}
		if got := len(s.IOCs()); got != 4 {
			t.Errorf("expected 4 IOCs, got %d", got)
		}
		if got := len(s.Actors()); got != 3 {
			t.Errorf("expected 3 actors, got %d", got)
		}
		if got := len(s.SampleQueries()); got != 10 {
			t.Errorf("expected 10 sample queries, got %d", got)
		}
	})

	t.Run("fallback records come first", func(t *testing.T) {
		t.Parallel()

		iocs := s.IOCs()
		if iocs[0].Value != "185.220.101.45" || iocs[1].Value != "darkmarket[.]onion" {
			t.Errorf("unexpected leading IOCs: %q, %q", iocs[0].Value, iocs[1].Value)
		}
		if s.Actors()[0].Name != "TA505" {
			t.Errorf("expected TA505 first, got %q", s.Actors()[0].Name)
		}
	})

	t.Run("every record validates", func(t *testing.T) {
		t.Parallel()

		for _, ioc := range s.IOCs() {
			if err := ioc.Validate(); err != nil {
				t.Errorf("ioc %s: %v", ioc.Value, err)
			}
		}
		for _, actor := range s.Actors() {
			if err := actor.Validate(); err != nil {
				t.Errorf("actor %s: %v", actor.Name, err)
			}
		}
	})

	t.Run("every source url parses as an onion address", func(t *testing.T) {
		t.Parallel()

		for _, src := range s.Sources() {
			if _, err := src.Address(); err != nil {
				t.Errorf("source %s: %v", src.Name, err)
			}
		}
	})
}

func TestStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	s := Default()

	iocs := s.IOCs()
	iocs[0].Value = "tampered"
	if s.IOCs()[0].Value == "tampered" {
		t.Error("IOC mutation leaked into the store")
	}

	actors := s.Actors()
	actors[0].TTPs[0] = "tampered"
	if s.Actors()[0].TTPs[0] == "tampered" {
		t.Error("actor TTP mutation leaked into the store")
	}

	sources := s.Sources()
	sources[0].Name = "tampered"
	if s.Sources()[0].Name == "tampered" {
		t.Error("source mutation leaked into the store")
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	ioc := model.IOC{Type: model.IOCTypeIP, Value: "10.0.0.1"}
	actor := model.ThreatActor{Name: "Test"}

	tests := []struct {
		name    string
		iocs    []model.IOC
		actors  []model.ThreatActor
		wantErr error
	}{
		{name: "valid", iocs: []model.IOC{ioc}, actors: []model.ThreatActor{actor}},
		{name: "no iocs", actors: []model.ThreatActor{actor}, wantErr: ErrEmptyDataset},
		{name: "no actors", iocs: []model.IOC{ioc}, wantErr: ErrEmptyDataset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := New(nil, tt.iocs, tt.actors)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("New() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOverride(t *testing.T) {
	t.Parallel()

	custom := []model.IOC{{Type: model.IOCTypeDomain, Value: "evil[.]example"}}
	s, err := Default().Override(nil, custom, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(s.IOCs()); got != 1 {
		t.Errorf("expected overridden IOCs, got %d", got)
	}
	if got := len(s.Actors()); got != 3 {
		t.Errorf("expected built-in actors to be kept, got %d", got)
	}
	if got := len(s.Sources()); got != 5 {
		t.Errorf("expected built-in sources to be kept, got %d", got)
	}
}
