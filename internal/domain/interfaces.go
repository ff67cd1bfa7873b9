package domain

import (
	"context"
	"time"
)

// Vault is the encrypted-at-rest store. Unlock derives the session key from
// the secret without validating it; a wrong secret only surfaces as
// ErrDecryptionFailed on the next read.
type Vault interface {
	// Initialized reports whether the vault directory already carries a
	// manifest (and therefore a fixed KDF salt).
	Initialized() bool
	Unlock(secret string) (Session, error)
	// Import atomically replaces the vault contents with the snapshot,
	// re-encrypted under newSecret. A structurally invalid snapshot is
	// rejected wholesale and the existing vault is left untouched.
	Import(snapshot Snapshot, newSecret string) error
}

// Session is an unlocked view of the vault. After Lock every operation
// returns ErrNotUnlocked. Every mutation appends an activity log entry.
type Session interface {
	Lock()
	Unlocked() bool

	// ActiveDID is the single identity the session acts as. It survives
	// relocking through a plaintext pointer in the vault manifest.
	ActiveDID() string
	SetActiveDID(did string) error

	PutIdentity(id Identity) error
	GetIdentity(did string) (Identity, error)
	ListIdentities() ([]IndexEntry, error)
	DeleteIdentity(did string) error

	PutCredential(cred Credential) error
	GetCredential(id string) (Credential, error)
	ListCredentials() ([]IndexEntry, error)
	// Credentials decrypts and returns every held credential in stable
	// (creation) order.
	Credentials() ([]Credential, error)
	DeleteCredential(id string) error

	AppendActivity(entry ActivityLogEntry) error
	Activities() ([]ActivityLogEntry, error)

	Export() (Snapshot, error)
}

// IdentityService owns DID and keypair lifecycle plus the raw signature
// surface.
type IdentityService interface {
	// Generate creates a fresh identity from a new BIP-39 mnemonic, stores
	// it, and returns the mnemonic so the holder can write it down.
	Generate(metadata map[string]string) (Identity, string, error)
	// Recover deterministically rebuilds an identity from a mnemonic.
	Recover(mnemonic string, metadata map[string]string) (Identity, error)
	UpdateMetadata(did string, metadata map[string]string) (Identity, error)
	Delete(did string) error

	// SignAs signs message with the private key held for did.
	SignAs(did string, message []byte) ([]byte, error)
	// RecoverSigner returns the address implied by the signature.
	RecoverSigner(message, sig []byte) (string, error)
	// Verify never returns an error: a malformed signature is a plain false.
	Verify(message, sig []byte, expectedAddress string) bool
}

// CredentialService builds, signs, and verifies credentials and
// presentations.
type CredentialService interface {
	CreateCredential(credType string, claims Claims, issuerDID, subjectDID string, expiry *time.Time) (Credential, error)
	SignCredential(cred Credential, issuerDID string) (Credential, error)
	VerifyCredential(cred Credential) bool
	// DiagnoseCredential reports why a credential fails verification; nil
	// means it verifies.
	DiagnoseCredential(cred Credential) error
	IsExpired(cred Credential) bool

	CreatePresentation(creds []Credential, holderDID, challenge, audience string) (Presentation, error)
	SignPresentation(pres Presentation, holderDID string) (Presentation, error)
	// VerifyPresentation short-circuits on the first invalid embedded
	// credential.
	VerifyPresentation(pres Presentation) bool
	// VerifyPresentationFull checks every embedded credential and returns
	// all failures.
	VerifyPresentationFull(pres Presentation) (bool, []error)
}

// IssuerClient is the external collaborator that releases raw claims for an
// offered credential type. Implementations own their timeout policy.
type IssuerClient interface {
	FetchClaims(ctx context.Context, credentialType, issuerEndpoint, subjectDID string) (Claims, error)
}
