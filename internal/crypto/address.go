package crypto

import (
	"encoding/hex"
	"strings"
)

// ChecksumAddress formats 20 address bytes as 0x-prefixed hex with the
// keccak-based mixed-case checksum: a hex letter is uppercased when the
// matching nibble of keccak256(lowercase-hex-address) is >= 8.
func ChecksumAddress(addr []byte) string {
	lower := hex.EncodeToString(addr)
	sum := keccak256([]byte(lower))

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		nibble := sum[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if c >= 'a' && c <= 'f' && nibble&0x0f >= 8 {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return "0x" + string(out)
}

// ValidAddressHex reports whether s is a well-formed address: 0x prefix and
// 40 hex digits. Mixed-case forms must additionally carry a correct
// checksum; single-case forms pass on shape alone.
func ValidAddressHex(s string) bool {
	if !strings.HasPrefix(s, "0x") || len(s) != 2+2*AddressBytes {
		return false
	}
	body := s[2:]
	raw, err := hex.DecodeString(body)
	if err != nil {
		return false
	}
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return ChecksumAddress(raw) == s
}
