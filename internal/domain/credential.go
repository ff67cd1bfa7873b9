package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

const (
	// TypeVerifiableCredential is present in every credential's type set.
	TypeVerifiableCredential = "VerifiableCredential"

	// ProofTypeES256KRecovery is the recoverable secp256k1 signature suite
	// used for every proof this wallet produces.
	ProofTypeES256KRecovery = "EcdsaSecp256k1RecoverySignature2020"

	ProofPurposeAssertion      = "assertionMethod"
	ProofPurposeAuthentication = "authentication"
)

// Claims is an open bag of subject attributes restricted to scalar values.
type Claims map[string]any

// Validate rejects empty claim sets and any value outside the closed scalar
// set (string, bool, integer, float, time.Time). Nested maps and lists are
// refused at the boundary instead of being carried opaquely.
func (c Claims) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: claims must be a non-empty map", ErrValidationFailed)
	}
	for k, v := range c {
		if k == "" {
			return fmt.Errorf("%w: empty claim key", ErrValidationFailed)
		}
		switch v.(type) {
		case string, bool, int, int32, int64, float32, float64, time.Time, json.Number:
		default:
			return fmt.Errorf("%w: claim %q has unsupported value of type %T", ErrValidationFailed, k, v)
		}
	}
	return nil
}

// UnmarshalJSON decodes numeric claim values as json.Number instead of
// float64. A json.Number re-marshals as its original digits, so an integer
// claim above 2^53 survives a store round-trip with the exact bytes the
// proof was computed over.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*c = m
	return nil
}

// Proof is the signature block attached to a credential or presentation. It
// is always computed over the owning entity serialized with the proof field
// omitted.
type Proof struct {
	Type               string    `json:"type"`
	Created            time.Time `json:"created"`
	ProofPurpose       string    `json:"proofPurpose"`
	VerificationMethod string    `json:"verificationMethod"`
	ProofValue         string    `json:"proofValue"` // 0x-prefixed hex of the 65-byte compact signature
}

// Credential is a signed claim set about a subject, attributable to an
// issuer. Once Proof is set the credential is immutable: any later change
// breaks verification.
type Credential struct {
	ID             string     `json:"id"`
	Type           []string   `json:"type"`
	Issuer         string     `json:"issuer"`
	Subject        string     `json:"subject"`
	IssuanceDate   time.Time  `json:"issuanceDate"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
	Claims         Claims     `json:"claims"`
	Proof          *Proof     `json:"proof,omitempty"`
}

// Validate checks the structural invariants required before a credential is
// persisted or imported. It does not verify the proof.
func (c Credential) Validate() error {
	switch {
	case c.ID == "":
		return fmt.Errorf("%w: credential missing id", ErrValidationFailed)
	case c.Issuer == "":
		return fmt.Errorf("%w: credential %s missing issuer", ErrValidationFailed, c.ID)
	case c.Subject == "":
		return fmt.Errorf("%w: credential %s missing subject", ErrValidationFailed, c.ID)
	}
	var hasBase bool
	for _, t := range c.Type {
		if t == TypeVerifiableCredential {
			hasBase = true
			break
		}
	}
	if !hasBase {
		return fmt.Errorf("%w: credential %s type set must include %q", ErrValidationFailed, c.ID, TypeVerifiableCredential)
	}
	if err := c.Claims.Validate(); err != nil {
		return fmt.Errorf("credential %s: %w", c.ID, err)
	}
	return nil
}

// Expired reports whether the credential carries an expiration date in the
// past. No expiration date means never-expiring.
func (c Credential) Expired(now time.Time) bool {
	return c.ExpirationDate != nil && c.ExpirationDate.Before(now)
}

// Presentation is a signed bundle of credentials a holder discloses to a
// verifier. It is valid only if its own proof verifies under the holder's
// key and every embedded credential verifies independently.
type Presentation struct {
	ID          string       `json:"id"`
	Holder      string       `json:"holder"`
	Credentials []Credential `json:"verifiableCredential"`
	Created     time.Time    `json:"created"`
	Challenge   string       `json:"challenge,omitempty"`
	Audience    string       `json:"audience,omitempty"`
	Proof       *Proof       `json:"proof,omitempty"`
}
