// Package did handles the single deterministic address-embedding DID scheme
// used by the keychain: did:ethr:<0x-hex-address>. Full DID-method
// resolution is out of scope; a DID here is its address.
package did

import (
	"strings"

	"github.com/shakams434/sovereign-keychain/internal/crypto"
)

// Method is the one DID method this wallet issues and understands.
const Method = "ethr"

const prefix = "did:" + Method + ":"

// FromAddress formats an address as a DID.
func FromAddress(address string) string {
	return prefix + address
}

// ExtractAddress returns the address substring of a DID, or false if the
// prefix does not match. No shape validation beyond the prefix.
func ExtractAddress(s string) (string, bool) {
	if !strings.HasPrefix(s, prefix) {
		return "", false
	}
	return s[len(prefix):], true
}

// IsValid reports whether s is a well-formed DID for this scheme, including
// the address checksum rules.
func IsValid(s string) bool {
	addr, ok := ExtractAddress(s)
	if !ok {
		return false
	}
	return crypto.ValidAddressHex(addr)
}

// Equal compares two DIDs case-insensitively on the address part.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}
