package dataset

import (
	"errors"
	"slices"

	"github.com/nao1215/darkcti/internal/model"
)

var (
	// ErrEmptyDataset is returned when a dataset has no IOCs or no threat actors.
	// Both are required because a search result must never be empty.
	ErrEmptyDataset = errors.New("dataset must contain at least one IOC and one threat actor")
)

// Store is an immutable set of sample collections.
type Store struct {
	sources []model.Source
	iocs    []model.IOC
	actors  []model.ThreatActor
	queries []string
}

// Default returns a Store with the built-in sample data.
func Default() *Store {
	return &Store{
		sources: cloneSources(defaultSources),
		iocs:    cloneIOCs(defaultIOCs),
		actors:  cloneActors(defaultActors),
		queries: slices.Clone(defaultQueries),
	}
}

// New returns a Store holding copies of the given collections.
// The sample quick queries are always the built-in ones.
func New(sources []model.Source, iocs []model.IOC, actors []model.ThreatActor) (*Store, error) {
	if len(iocs) == 0 || len(actors) == 0 {
		return nil, ErrEmptyDataset
	}
	return &Store{
		sources: cloneSources(sources),
		iocs:    cloneIOCs(iocs),
		actors:  cloneActors(actors),
		queries: slices.Clone(defaultQueries),
	}, nil
}

// Override returns a new Store where every non-empty collection replaces the
// corresponding collection of s.
func (s *Store) Override(sources []model.Source, iocs []model.IOC, actors []model.ThreatActor) (*Store, error) {
	if len(sources) == 0 {
		sources = s.sources
	}
	if len(iocs) == 0 {
		iocs = s.iocs
	}
	if len(actors) == 0 {
		actors = s.actors
	}
	return New(sources, iocs, actors)
}

// Sources returns a copy of the source collection.
func (s *Store) Sources() []model.Source {
	return cloneSources(s.sources)
}

// IOCs returns a copy of the IOC collection.
func (s *Store) IOCs() []model.IOC {
	return cloneIOCs(s.iocs)
}

// Actors returns a copy of the threat actor collection.
func (s *Store) Actors() []model.ThreatActor {
	return cloneActors(s.actors)
}

// SampleQueries returns a copy of the sample quick queries.
func (s *Store) SampleQueries() []string {
	return slices.Clone(s.queries)
}

func cloneSources(in []model.Source) []model.Source {
	return slices.Clone(in)
}

func cloneIOCs(in []model.IOC) []model.IOC {
	return slices.Clone(in)
}

// cloneActors deep-copies actors so their slice fields are not shared.
func cloneActors(in []model.ThreatActor) []model.ThreatActor {
	if in == nil {
		return nil
	}
	out := make([]model.ThreatActor, len(in))
	for i, a := range in {
		a.Aliases = slices.Clone(a.Aliases)
		a.Targets = slices.Clone(a.Targets)
		a.Geography = slices.Clone(a.Geography)
		a.TTPs = slices.Clone(a.TTPs)
		out[i] = a
	}
	return out
}
