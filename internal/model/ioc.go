package model

// IOCType is the kind of observable an indicator describes.
type IOCType string

const (
	// IOCTypeIP is an IPv4 or IPv6 address.
	IOCTypeIP IOCType = "ip"
	// IOCTypeDomain is a domain name, usually defanged (example[.]onion).
	IOCTypeDomain IOCType = "domain"
	// IOCTypeHash is a file hash of a malware sample.
	IOCTypeHash IOCType = "hash"
	// IOCTypeBitcoin is a bitcoin wallet address.
	IOCTypeBitcoin IOCType = "bitcoin"
)

// String returns the lowercase wire value of the IOC type.
func (t IOCType) String() string {
	return string(t)
}

// IsValid reports whether t is one of the known IOC types.
func (t IOCType) IsValid() bool {
	switch t {
	case IOCTypeIP, IOCTypeDomain, IOCTypeHash, IOCTypeBitcoin:
		return true
	default:
		return false
	}
}

// ThreatLevel is the severity assigned to a single indicator.
type ThreatLevel string

const (
	// ThreatLevelLow marks indicators with little direct impact.
	ThreatLevelLow ThreatLevel = "low"
	// ThreatLevelMedium marks indicators worth tracking.
	ThreatLevelMedium ThreatLevel = "medium"
	// ThreatLevelHigh marks indicators tied to active malicious infrastructure.
	ThreatLevelHigh ThreatLevel = "high"
	// ThreatLevelCritical marks indicators that require immediate action.
	// A single critical indicator raises the overall risk to HIGH.
	ThreatLevelCritical ThreatLevel = "critical"
)

// String returns the lowercase wire value of the threat level.
func (l ThreatLevel) String() string {
	return string(l)
}

// IsValid reports whether l is one of the known threat levels.
func (l ThreatLevel) IsValid() bool {
	switch l {
	case ThreatLevelLow, ThreatLevelMedium, ThreatLevelHigh, ThreatLevelCritical:
		return true
	default:
		return false
	}
}

// IOC is an indicator of compromise observed on a dark web source.
type IOC struct {
	// Type is the observable kind (ip, domain, hash, bitcoin).
	Type IOCType `json:"type" yaml:"type"`

	// Value is the observable itself, e.g. "185.220.101.45".
	Value string `json:"value" yaml:"value"`

	// Description explains what the indicator was seen doing.
	Description string `json:"description" yaml:"description"`

	// ThreatLevel is the indicator severity.
	ThreatLevel ThreatLevel `json:"threat_level" yaml:"threat_level"`

	// FirstSeen is the first observation date in YYYY-MM-DD form.
	FirstSeen string `json:"first_seen" yaml:"first_seen"`

	// Source names where the indicator was collected.
	Source string `json:"source" yaml:"source"`
}

// IsCritical reports whether the indicator has the critical threat level.
func (i IOC) IsCritical() bool {
	return i.ThreatLevel == ThreatLevelCritical
}

// DistinctIOCTypes returns the IOC types present in iocs, without duplicates,
// in the order they are first seen.
func DistinctIOCTypes(iocs []IOC) []IOCType {
	seen := make(map[IOCType]struct{}, len(iocs))
	types := make([]IOCType, 0, len(iocs))
	for _, ioc := range iocs {
		if _, ok := seen[ioc.Type]; ok {
			continue
		}
		seen[ioc.Type] = struct{}{}
		types = append(types, ioc.Type)
	}
	return types
}
