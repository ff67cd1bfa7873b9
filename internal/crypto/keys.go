package crypto

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

const (
	// PrivateKeyBytes is the length of a serialized secp256k1 scalar.
	PrivateKeyBytes = 32
	// PublicKeyBytes is the length of an uncompressed secp256k1 point.
	PublicKeyBytes = 65
	// AddressBytes is the length of a derived account address.
	AddressBytes = 20
	// SignatureBytes is the length of a compact recoverable signature.
	SignatureBytes = 65
)

// signaturePrefix domain-separates wallet signatures so a signed credential
// payload can never be replayed as any other kind of signed message.
const signaturePrefix = "\x19Keychain Signed Message:\n"

// GenerateKeypair returns a fresh secp256k1 keypair as (private, public)
// serialized bytes. Failure means the entropy source failed and is fatal.
func GenerateKeypair() (priv, pub []byte, err error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("generate keypair: %w", err)
	}
	return key.Serialize(), key.PubKey().SerializeUncompressed(), nil
}

// KeypairFromSeed deterministically derives a keypair from seed material,
// used to rebuild an identity from its recovery mnemonic.
func KeypairFromSeed(seed []byte) (priv, pub []byte) {
	sum := keccak256(seed)
	key := secp256k1.PrivKeyFromBytes(sum)
	return key.Serialize(), key.PubKey().SerializeUncompressed()
}

// Digest returns the domain-separated keccak-256 digest that is actually
// signed: keccak256(prefix || len(message) || message).
func Digest(message []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(signaturePrefix))
	h.Write([]byte(strconv.Itoa(len(message))))
	h.Write(message)
	return h.Sum(nil)
}

// Sign produces a 65-byte compact recoverable signature over the
// domain-separated digest of message.
func Sign(message, privKey []byte) ([]byte, error) {
	if len(privKey) != PrivateKeyBytes {
		return nil, fmt.Errorf("%w: bad private key length %d", domain.ErrValidationFailed, len(privKey))
	}
	key := secp256k1.PrivKeyFromBytes(privKey)
	return secpecdsa.SignCompact(key, Digest(message), false), nil
}

// RecoverAddress returns the address implied by a compact recoverable
// signature over message. It lets a verifier check authorship without
// holding the public key.
func RecoverAddress(message, sig []byte) (string, error) {
	if len(sig) != SignatureBytes {
		return "", fmt.Errorf("%w: got %d bytes, want %d", domain.ErrMalformedSignature, len(sig), SignatureBytes)
	}
	pub, _, err := secpecdsa.RecoverCompact(sig, Digest(message))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedSignature, err)
	}
	return PubkeyToAddress(pub.SerializeUncompressed()), nil
}

// Verify reports whether sig over message was produced by the key behind
// expectedAddress. Textual address comparison is case-insensitive. It never
// returns an error: an unparsable signature is a plain false.
func Verify(message, sig []byte, expectedAddress string) bool {
	got, err := RecoverAddress(message, sig)
	if err != nil {
		return false
	}
	return strings.EqualFold(got, expectedAddress)
}

// PubkeyToAddress derives the account address from an uncompressed public
// key: the last 20 bytes of keccak256 over the point coordinates.
func PubkeyToAddress(uncompressed []byte) string {
	sum := keccak256(uncompressed[1:]) // drop the 0x04 prefix byte
	return ChecksumAddress(sum[32-AddressBytes:])
}

func keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}
