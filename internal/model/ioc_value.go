package model

import (
	"errors"
	"fmt"
	"net/netip"
	"regexp"
	"strings"
)

var (
	// ErrInvalidIOC is returned when an indicator has an unknown type or
	// threat level, or a value that does not look like its type.
	ErrInvalidIOC = errors.New("invalid IOC")

	// ErrInvalidActor is returned when a threat actor has no name or an
	// unknown activity level.
	ErrInvalidActor = errors.New("invalid threat actor")
)

var (
	// Legacy P2PKH/P2SH (1... or 3..., 26-35 chars) and Bech32 (bc1...).
	bitcoinLegacyPattern = regexp.MustCompile(`^[13][a-km-zA-HJ-NP-Z1-9]{25,34}$`)
	bitcoinBech32Pattern = regexp.MustCompile(`^bc1[a-z0-9]{39,59}$`)

	// MD5, SHA-1, SHA-256 and SHA-512 in hex.
	hashPattern = regexp.MustCompile(`^(?:[a-fA-F0-9]{32}|[a-fA-F0-9]{40}|[a-fA-F0-9]{64}|[a-fA-F0-9]{128})$`)

	domainLabelPattern = regexp.MustCompile(`^[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
)

// Refang reverses the usual defanging of an indicator: "[.]", "(.)" and
// "[dot]" become ".", and "hxxp" becomes "http".
func Refang(value string) string {
	r := strings.NewReplacer("[.]", ".", "(.)", ".", "[dot]", ".", "hxxp", "http")
	return r.Replace(value)
}

// ValidValue reports whether value has the shape of an indicator of type t.
// Domains may be defanged.
func (t IOCType) ValidValue(value string) bool {
	value = strings.TrimSpace(value)
	switch t {
	case IOCTypeIP:
		_, err := netip.ParseAddr(value)
		return err == nil
	case IOCTypeHash:
		return hashPattern.MatchString(value)
	case IOCTypeBitcoin:
		return bitcoinLegacyPattern.MatchString(value) || bitcoinBech32Pattern.MatchString(value)
	case IOCTypeDomain:
		return isDomain(Refang(value))
	default:
		return false
	}
}

func isDomain(s string) bool {
	labels := strings.Split(strings.TrimSuffix(s, "."), ".")
	if len(labels) < 2 || len(s) > 253 {
		return false
	}
	for _, l := range labels {
		if !domainLabelPattern.MatchString(l) {
			return false
		}
	}
	return true
}

// Validate checks the type, threat level and value of the indicator.
func (i IOC) Validate() error {
	if !i.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidIOC, i.Type)
	}
	if !i.ThreatLevel.IsValid() {
		return fmt.Errorf("%w: unknown threat level %q", ErrInvalidIOC, i.ThreatLevel)
	}
	if !i.Type.ValidValue(i.Value) {
		return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidIOC, i.Value, i.Type)
	}
	return nil
}

// Validate checks that the actor is named and has a known activity level.
func (a ThreatActor) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidActor)
	}
	if !a.ActivityLevel.IsValid() {
		return fmt.Errorf("%w: %s has unknown activity level %q", ErrInvalidActor, a.Name, a.ActivityLevel)
	}
	return nil
}
