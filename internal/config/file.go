package config

import (
	"fmt"

	"github.com/nao1215/darkcti/internal/dataset"
	"github.com/nao1215/darkcti/internal/model"
	"github.com/nao1215/darkcti/internal/pipeline"
)

// SearchSection configures the simulated search.
type SearchSection struct {
	// Phases replaces the default phase list.
	Phases []pipeline.Phase `yaml:"phases,omitempty"`
}

// DatasetSection replaces parts of the built-in sample data.
// An empty collection keeps the built-in one.
type DatasetSection struct {
	Sources []model.Source      `yaml:"sources,omitempty"`
	IOCs    []model.IOC         `yaml:"iocs,omitempty"`
	Actors  []model.ThreatActor `yaml:"actors,omitempty"`
}

// File represents the structure of the .darkcti configuration file.
type File struct {
	Search  SearchSection  `yaml:"search,omitempty"`
	Dataset DatasetSection `yaml:"dataset,omitempty"`
}

// PhasesOr returns the phases from the file, or fallback when the file
// does not define any.
func (f *File) PhasesOr(fallback []pipeline.Phase) []pipeline.Phase {
	if f == nil || len(f.Search.Phases) == 0 {
		return fallback
	}
	return f.Search.Phases
}

// Store returns the built-in sample data with the file's collections
// applied on top. Every IOC and actor of the file is validated first.
func (f *File) Store() (*dataset.Store, error) {
	store := dataset.Default()
	if f == nil {
		return store, nil
	}
	for i, ioc := range f.Dataset.IOCs {
		if err := ioc.Validate(); err != nil {
			return nil, fmt.Errorf("dataset.iocs[%d]: %w", i, err)
		}
	}
	for i, actor := range f.Dataset.Actors {
		if err := actor.Validate(); err != nil {
			return nil, fmt.Errorf("dataset.actors[%d]: %w", i, err)
		}
	}
	return store.Override(f.Dataset.Sources, f.Dataset.IOCs, f.Dataset.Actors)
}
