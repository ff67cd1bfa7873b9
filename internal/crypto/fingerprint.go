package crypto

import (
	"crypto/sha256"

	"github.com/mr-tron/base58"
)

// Fingerprint returns a short base58 fingerprint of a public key for
// display and logging.
func Fingerprint(pub []byte) string {
	sum := sha256.Sum256(pub)
	return base58.Encode(sum[:8])
}
