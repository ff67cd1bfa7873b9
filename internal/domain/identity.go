package domain

import (
	"fmt"
	"time"
)

// Identity holds a locally controlled keypair and its derived DID. The
// private key is plaintext inside the struct; at rest the whole record is
// sealed by the vault envelope.
type Identity struct {
	DID        string            `json:"did"`
	PublicKey  []byte            `json:"publicKey"`  // 65-byte uncompressed secp256k1 point
	Address    string            `json:"address"`    // 0x-prefixed, checksummed hex of 20 bytes
	PrivateKey []byte            `json:"privateKey"` // 32-byte scalar
	Metadata   map[string]string `json:"metadata,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// Validate checks the structural invariants needed before an identity is
// persisted or imported.
func (id Identity) Validate() error {
	switch {
	case id.DID == "":
		return fmt.Errorf("%w: identity missing DID", ErrValidationFailed)
	case len(id.PublicKey) != 65:
		return fmt.Errorf("%w: identity %s has bad public key length %d", ErrValidationFailed, id.DID, len(id.PublicKey))
	case len(id.PrivateKey) != 32:
		return fmt.Errorf("%w: identity %s has bad private key length %d", ErrValidationFailed, id.DID, len(id.PrivateKey))
	case id.Address == "":
		return fmt.Errorf("%w: identity %s missing address", ErrValidationFailed, id.DID)
	}
	return nil
}

// ActivityKind names a vault mutation recorded in the activity log.
type ActivityKind string

const (
	ActivityIdentityCreated    ActivityKind = "identity.created"
	ActivityIdentityUpdated    ActivityKind = "identity.updated"
	ActivityIdentityDeleted    ActivityKind = "identity.deleted"
	ActivityCredentialStored   ActivityKind = "credential.stored"
	ActivityCredentialDeleted  ActivityKind = "credential.deleted"
	ActivityPresentationShared ActivityKind = "presentation.shared"
	ActivityVaultImported      ActivityKind = "vault.imported"
)

// ActivityLogEntry is a write-once record of a vault mutation. Entries are
// appended, never edited or removed individually.
type ActivityLogEntry struct {
	Kind       ActivityKind      `json:"kind"`
	Timestamp  time.Time         `json:"timestamp"`
	Details    map[string]string `json:"details,omitempty"`
	RelatedDID string            `json:"relatedDid,omitempty"`
}

// IndexEntry is the plaintext metadata the vault keeps beside each encrypted
// record so listings never pay decryption cost.
type IndexEntry struct {
	Key       string            `json:"key"`
	Labels    map[string]string `json:"labels,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// Snapshot is the decrypted export/import form of an entire vault.
type Snapshot struct {
	Version     int                `json:"version"`
	Timestamp   time.Time          `json:"timestamp"`
	Identities  []Identity         `json:"identities"`
	Credentials []Credential       `json:"credentials"`
	Activities  []ActivityLogEntry `json:"activities"`
}
