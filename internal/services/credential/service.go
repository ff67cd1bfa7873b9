package credential

import (
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shakams434/sovereign-keychain/internal/did"
	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Service builds, signs and verifies credentials and presentations. Signing
// resolves private keys through the identity service; verification needs no
// key material at all, only the address embedded in the signer's DID.
type Service struct {
	ids domain.IdentityService
	now func() time.Time
}

// New returns a credential engine backed by the given identity service.
func New(ids domain.IdentityService) *Service {
	return &Service{ids: ids, now: time.Now}
}

// CreateCredential returns an unsigned credential with a fresh URN id. The
// type set always leads with "VerifiableCredential".
func (s *Service) CreateCredential(credType string, claims domain.Claims, issuerDID, subjectDID string, expiry *time.Time) (domain.Credential, error) {
	if err := claims.Validate(); err != nil {
		return domain.Credential{}, err
	}
	if issuerDID == "" || subjectDID == "" {
		return domain.Credential{}, fmt.Errorf("%w: issuer and subject DIDs are required", domain.ErrValidationFailed)
	}
	types := []string{domain.TypeVerifiableCredential}
	if credType != "" && credType != domain.TypeVerifiableCredential {
		types = append(types, credType)
	}
	return domain.Credential{
		ID:             "urn:uuid:" + uuid.NewString(),
		Type:           types,
		Issuer:         issuerDID,
		Subject:        subjectDID,
		IssuanceDate:   s.now().UTC(),
		ExpirationDate: expiry,
		Claims:         claims,
	}, nil
}

// SignCredential attaches an assertion proof computed with the issuer's
// locally held key. Fails with ErrIdentityNotFound when the issuer DID is
// not in the vault and ErrNotUnlocked when the vault is locked.
func (s *Service) SignCredential(cred domain.Credential, issuerDID string) (domain.Credential, error) {
	input, err := credentialSigningInput(cred)
	if err != nil {
		return domain.Credential{}, err
	}
	sig, err := s.ids.SignAs(issuerDID, input)
	if err != nil {
		return domain.Credential{}, err
	}
	cred.Proof = &domain.Proof{
		Type:               domain.ProofTypeES256KRecovery,
		Created:            s.now().UTC(),
		ProofPurpose:       domain.ProofPurposeAssertion,
		VerificationMethod: issuerDID + "#controller",
		ProofValue:         encodeSig(sig),
	}
	return cred, nil
}

// VerifyCredential reports whether the credential's proof verifies under
// the address embedded in its issuer DID. It never returns an error:
// missing proof, malformed DID and signature mismatch are all a plain
// false.
func (s *Service) VerifyCredential(cred domain.Credential) bool {
	return s.DiagnoseCredential(cred) == nil
}

// DiagnoseCredential explains why a credential fails verification; nil
// means it verifies. Callers wanting a uniform yes/no use
// VerifyCredential.
func (s *Service) DiagnoseCredential(cred domain.Credential) error {
	if cred.Proof == nil {
		return fmt.Errorf("credential %s carries no proof", cred.ID)
	}
	address, ok := did.ExtractAddress(cred.Issuer)
	if !ok {
		return fmt.Errorf("credential %s issuer %q is not a resolvable DID", cred.ID, cred.Issuer)
	}
	sig, err := decodeSig(cred.Proof.ProofValue)
	if err != nil {
		return fmt.Errorf("credential %s: %w", cred.ID, err)
	}
	input, err := credentialSigningInput(cred)
	if err != nil {
		return err
	}
	if !s.ids.Verify(input, sig, address) {
		return fmt.Errorf("credential %s signature does not match issuer %s", cred.ID, cred.Issuer)
	}
	return nil
}

// IsExpired reports whether the credential's expiration date has passed.
// Absence of an expiration date means never-expiring.
func (s *Service) IsExpired(cred domain.Credential) bool {
	return cred.Expired(s.now())
}

// CreatePresentation returns an unsigned presentation bundling the given
// credentials for disclosure.
func (s *Service) CreatePresentation(creds []domain.Credential, holderDID, challenge, audience string) (domain.Presentation, error) {
	if holderDID == "" {
		return domain.Presentation{}, fmt.Errorf("%w: holder DID is required", domain.ErrValidationFailed)
	}
	return domain.Presentation{
		ID:          "urn:uuid:" + uuid.NewString(),
		Holder:      holderDID,
		Credentials: creds,
		Created:     s.now().UTC(),
		Challenge:   challenge,
		Audience:    audience,
	}, nil
}

// SignPresentation attaches an authentication proof with the holder's key.
func (s *Service) SignPresentation(pres domain.Presentation, holderDID string) (domain.Presentation, error) {
	input, err := presentationSigningInput(pres)
	if err != nil {
		return domain.Presentation{}, err
	}
	sig, err := s.ids.SignAs(holderDID, input)
	if err != nil {
		return domain.Presentation{}, err
	}
	pres.Proof = &domain.Proof{
		Type:               domain.ProofTypeES256KRecovery,
		Created:            s.now().UTC(),
		ProofPurpose:       domain.ProofPurposeAuthentication,
		VerificationMethod: holderDID + "#controller",
		ProofValue:         encodeSig(sig),
	}
	return pres, nil
}

// VerifyPresentation reports whether the presentation proof verifies under
// the holder's key and every embedded credential verifies independently.
// It stops at the first invalid embedded credential.
func (s *Service) VerifyPresentation(pres domain.Presentation) bool {
	if err := s.diagnosePresentationProof(pres); err != nil {
		return false
	}
	for _, cred := range pres.Credentials {
		if !s.VerifyCredential(cred) {
			return false
		}
	}
	return true
}

// VerifyPresentationFull checks the presentation proof and every embedded
// credential without short-circuiting, returning all failures for
// diagnostics.
func (s *Service) VerifyPresentationFull(pres domain.Presentation) (bool, []error) {
	var problems []error
	if err := s.diagnosePresentationProof(pres); err != nil {
		problems = append(problems, err)
	}
	for _, cred := range pres.Credentials {
		if err := s.DiagnoseCredential(cred); err != nil {
			problems = append(problems, err)
		}
	}
	return len(problems) == 0, problems
}

func (s *Service) diagnosePresentationProof(pres domain.Presentation) error {
	if pres.Proof == nil {
		return fmt.Errorf("presentation %s carries no proof", pres.ID)
	}
	address, ok := did.ExtractAddress(pres.Holder)
	if !ok {
		return fmt.Errorf("presentation %s holder %q is not a resolvable DID", pres.ID, pres.Holder)
	}
	sig, err := decodeSig(pres.Proof.ProofValue)
	if err != nil {
		return fmt.Errorf("presentation %s: %w", pres.ID, err)
	}
	input, err := presentationSigningInput(pres)
	if err != nil {
		return err
	}
	if !s.ids.Verify(input, sig, address) {
		return fmt.Errorf("presentation %s signature does not match holder %s", pres.ID, pres.Holder)
	}
	return nil
}

func encodeSig(sig []byte) string {
	return "0x" + hex.EncodeToString(sig)
}

func decodeSig(s string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSignature, err)
	}
	return raw, nil
}

// Compile-time assertion that Service implements domain.CredentialService.
var _ domain.CredentialService = (*Service)(nil)
