package model

// ActivityLevel describes how active a threat actor currently is.
type ActivityLevel string

const (
	// ActivityLevelLow is a dormant or sporadic actor.
	ActivityLevelLow ActivityLevel = "low"
	// ActivityLevelMedium is an actor with occasional campaigns.
	ActivityLevelMedium ActivityLevel = "medium"
	// ActivityLevelHigh is an actor with ongoing campaigns.
	// A single highly active actor raises the overall risk to HIGH.
	ActivityLevelHigh ActivityLevel = "high"
)

// String returns the lowercase wire value of the activity level.
func (l ActivityLevel) String() string {
	return string(l)
}

// IsValid reports whether l is one of the known activity levels.
func (l ActivityLevel) IsValid() bool {
	switch l {
	case ActivityLevelLow, ActivityLevelMedium, ActivityLevelHigh:
		return true
	default:
		return false
	}
}

// ThreatActor is a profile of a group behind malicious activity.
type ThreatActor struct {
	// Name is the primary tracking name, e.g. "TA505".
	Name string `json:"name" yaml:"name"`

	// Aliases are other names used by vendors for the same group.
	Aliases []string `json:"aliases" yaml:"aliases"`

	// Motivation is a short free-text motivation ("Financial gain").
	Motivation string `json:"motivation" yaml:"motivation"`

	// Targets lists targeted sectors.
	Targets []string `json:"targets" yaml:"targets"`

	// Geography lists where the group operates or whom it targets.
	Geography []string `json:"geography" yaml:"geography"`

	// TTPs lists tactics, techniques and procedures.
	TTPs []string `json:"ttps" yaml:"ttps"`

	// ActivityLevel is how active the group currently is.
	ActivityLevel ActivityLevel `json:"activity_level" yaml:"activity_level"`

	// Sophistication is a free-text capability rating ("advanced", "nation-state").
	Sophistication string `json:"sophistication" yaml:"sophistication"`
}

// IsHighlyActive reports whether the actor has the high activity level.
func (a ThreatActor) IsHighlyActive() bool {
	return a.ActivityLevel == ActivityLevelHigh
}

// ActorNames returns the names of the given actors in order.
func ActorNames(actors []ThreatActor) []string {
	names := make([]string, len(actors))
	for i, a := range actors {
		names[i] = a.Name
	}
	return names
}
