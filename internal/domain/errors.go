package domain

import "errors"

var (
	// ErrNotUnlocked is returned by vault operations attempted while the
	// session is locked.
	ErrNotUnlocked = errors.New("vault is locked")

	// ErrDecryptionFailed is returned when a record fails to authenticate
	// under the session key: wrong secret or corrupted ciphertext. It is
	// never used for an absent record.
	ErrDecryptionFailed = errors.New("decryption failed: wrong secret or corrupted record")

	// ErrNotFound is returned when a record does not exist in the vault.
	ErrNotFound = errors.New("record not found")

	// ErrIdentityNotFound is returned when signing is requested for a DID
	// whose private key is not held in the vault.
	ErrIdentityNotFound = errors.New("identity not held in vault")

	// ErrMalformedSignature is returned when a signature cannot be parsed.
	ErrMalformedSignature = errors.New("malformed signature")

	// ErrParseFailed is returned for an offer or request URI that cannot be
	// decoded.
	ErrParseFailed = errors.New("malformed offer or request URI")

	// ErrIssuerUnreachable is returned when the remote issuer cannot be
	// reached. The offer stays re-triable.
	ErrIssuerUnreachable = errors.New("issuer unreachable")

	// ErrIssuerRejected is returned when the remote issuer refuses to
	// release claims.
	ErrIssuerRejected = errors.New("issuer rejected the request")

	// ErrValidationFailed is returned for structurally invalid entities:
	// empty claims, missing required fields, unsupported claim values.
	ErrValidationFailed = errors.New("validation failed")
)
