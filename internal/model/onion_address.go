package model

import (
	"encoding/base32"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"
)

// OnionAddress errors.
var (
	// ErrInvalidOnionAddress is returned when the address format is invalid.
	ErrInvalidOnionAddress = errors.New("invalid onion address format")
	// ErrEmptyOnionAddress is returned when the address is empty.
	ErrEmptyOnionAddress = errors.New("onion address cannot be empty")
	// ErrOnionChecksumMismatch is returned when a v3 address has a bad checksum.
	ErrOnionChecksumMismatch = errors.New("onion address checksum mismatch")
)

// OnionVersion represents the version of an onion address.
type OnionVersion int

const (
	// OnionVersionUnknown indicates an unknown or invalid version.
	OnionVersionUnknown OnionVersion = 0
	// OnionVersionV2 indicates a v2 onion address (16 characters, deprecated).
	OnionVersionV2 OnionVersion = 2
	// OnionVersionV3 indicates a v3 onion address (56 characters, ed25519).
	OnionVersionV3 OnionVersion = 3
)

const (
	onionSuffix     = ".onion"
	v2AddressLength = 16
	v3AddressLength = 56
	// v3DecodedLength is pubkey (32) + checksum (2) + version (1).
	v3DecodedLength = 35
	v3VersionByte   = 0x03
)

// checksumPrefix is the constant prefix of the v3 checksum input.
var checksumPrefix = []byte(".onion checksum")

// String returns the string representation of the OnionVersion.
func (v OnionVersion) String() string {
	switch v {
	case OnionVersionV2:
		return "v2"
	case OnionVersionV3:
		return "v3"
	default:
		return "unknown"
	}
}

// OnionAddress is an immutable value object representing a Tor hidden service address.
type OnionAddress struct {
	address string
	version OnionVersion
}

// NewOnionAddress parses and validates an onion address. Scheme prefixes and a
// trailing slash are tolerated; the .onion suffix is optional. V3 addresses must
// carry a valid checksum.
func NewOnionAddress(address string) (OnionAddress, error) {
	normalized := strings.ToLower(strings.TrimSpace(address))
	for _, prefix := range []string{"http://", "https://"} {
		normalized = strings.TrimPrefix(normalized, prefix)
	}
	normalized = strings.TrimSuffix(normalized, "/")
	if normalized == "" {
		return OnionAddress{}, ErrEmptyOnionAddress
	}
	if !strings.HasSuffix(normalized, onionSuffix) {
		normalized += onionSuffix
	}

	base := strings.TrimSuffix(normalized, onionSuffix)
	version := detectOnionVersion(base)
	switch version {
	case OnionVersionUnknown:
		return OnionAddress{}, ErrInvalidOnionAddress
	case OnionVersionV3:
		if !validV3Checksum(base) {
			return OnionAddress{}, ErrOnionChecksumMismatch
		}
	}

	return OnionAddress{address: normalized, version: version}, nil
}

// detectOnionVersion determines the onion address version based on length and characters.
func detectOnionVersion(base string) OnionVersion {
	if !isValidBase32(base) {
		return OnionVersionUnknown
	}
	switch len(base) {
	case v2AddressLength:
		return OnionVersionV2
	case v3AddressLength:
		return OnionVersionV3
	default:
		return OnionVersionUnknown
	}
}

// isValidBase32 checks if a string contains only lowercase RFC 4648 base32 characters.
func isValidBase32(s string) bool {
	for _, c := range s {
		isLowerLetter := c >= 'a' && c <= 'z'
		isBase32Digit := c >= '2' && c <= '7'
		if !isLowerLetter && !isBase32Digit {
			return false
		}
	}
	return s != ""
}

// validV3Checksum verifies the embedded checksum of a v3 address:
// CHECKSUM = SHA3-256(".onion checksum" || PUBKEY || VERSION)[:2].
func validV3Checksum(base string) bool {
	decoded, err := base32.StdEncoding.DecodeString(strings.ToUpper(base))
	if err != nil || len(decoded) != v3DecodedLength {
		return false
	}
	pubkey := decoded[:32]
	checksum := decoded[32:34]
	version := decoded[34]
	if version != v3VersionByte {
		return false
	}

	data := make([]byte, 0, len(checksumPrefix)+len(pubkey)+1)
	data = append(data, checksumPrefix...)
	data = append(data, pubkey...)
	data = append(data, version)
	sum := sha3.Sum256(data)

	return checksum[0] == sum[0] && checksum[1] == sum[1]
}

// String returns the full onion address including .onion suffix.
func (o OnionAddress) String() string {
	return o.address
}

// Base returns the onion address without the .onion suffix.
func (o OnionAddress) Base() string {
	return strings.TrimSuffix(o.address, onionSuffix)
}

// Version returns the onion address version.
func (o OnionAddress) Version() OnionVersion {
	return o.version
}

// IsDeprecated returns true if this address uses a deprecated version (v2).
// V2 onion services stopped working in October 2021.
func (o OnionAddress) IsDeprecated() bool {
	return o.version == OnionVersionV2
}

// IsZero returns true if this is a zero value (empty) OnionAddress.
func (o OnionAddress) IsZero() bool {
	return o.address == ""
}
