package model

// RiskLevel is the overall severity derived from a set of matched records.
type RiskLevel string

const (
	// RiskLevelLow means few indicators and no highly active actor.
	RiskLevelLow RiskLevel = "LOW"
	// RiskLevelMedium means several indicators or several actors.
	RiskLevelMedium RiskLevel = "MEDIUM"
	// RiskLevelHigh means a critical indicator or a highly active actor is involved.
	RiskLevelHigh RiskLevel = "HIGH"
)

// String returns the upper-case name of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}
