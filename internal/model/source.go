package model

// SourceStatus is the configured availability of a source.
type SourceStatus string

const (
	// SourceStatusActive marks a source that is expected to answer.
	SourceStatusActive SourceStatus = "active"
	// SourceStatusInactive marks a source that is known to be offline.
	SourceStatusInactive SourceStatus = "inactive"
)

// String returns the lowercase wire value of the status.
func (s SourceStatus) String() string {
	return string(s)
}

// SourceType classifies what kind of site a source is.
type SourceType string

const (
	// SourceTypeSearchEngine is a dark web search engine.
	SourceTypeSearchEngine SourceType = "search_engine"
	// SourceTypeMarketplace is an underground marketplace.
	SourceTypeMarketplace SourceType = "marketplace"
	// SourceTypeForum is an underground forum.
	SourceTypeForum SourceType = "forum"
	// SourceTypePasteSite is a paste site.
	SourceTypePasteSite SourceType = "paste_site"
)

// String returns the lowercase wire value of the source type.
func (t SourceType) String() string {
	return string(t)
}

// Source is a dark web site the search claims to query.
type Source struct {
	// Name is the display name ("Ahmia").
	Name string `json:"name" yaml:"name"`

	// URL is the onion address of the source, without scheme.
	URL string `json:"url" yaml:"url"`

	// Description is a one-line description of the source.
	Description string `json:"description" yaml:"description"`

	// Status is the configured availability.
	Status SourceStatus `json:"status" yaml:"status"`

	// Type classifies the source.
	Type SourceType `json:"type" yaml:"type"`
}

// IsActive reports whether the source is configured as active.
func (s Source) IsActive() bool {
	return s.Status == SourceStatusActive
}

// Address parses the source URL as an onion address.
func (s Source) Address() (OnionAddress, error) {
	return NewOnionAddress(s.URL)
}
