package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/shakams434/sovereign-keychain/internal/crypto"
	"github.com/shakams434/sovereign-keychain/internal/did"
	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Service manages DID/keypair lifecycle and the raw signature surface. All
// persistence goes through the unlocked vault session.
type Service struct {
	sess domain.Session
}

// New returns an identity service bound to an unlocked session.
func New(sess domain.Session) *Service { return &Service{sess: sess} }

// Generate creates a fresh identity from a new recovery mnemonic, persists
// it, and makes it the active identity if none is set. The mnemonic is
// returned once for the holder to write down; it is never stored.
func (s *Service) Generate(metadata map[string]string) (domain.Identity, string, error) {
	mnemonic, err := crypto.NewMnemonic()
	if err != nil {
		return domain.Identity{}, "", err
	}
	id, err := s.Recover(mnemonic, metadata)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return id, mnemonic, nil
}

// Recover deterministically rebuilds an identity from its recovery mnemonic
// and persists it.
func (s *Service) Recover(mnemonic string, metadata map[string]string) (domain.Identity, error) {
	seed, err := crypto.SeedFromMnemonic(mnemonic)
	if err != nil {
		return domain.Identity{}, err
	}
	priv, pub := crypto.KeypairFromSeed(seed)
	address := crypto.PubkeyToAddress(pub)

	id := domain.Identity{
		DID:        did.FromAddress(address),
		PublicKey:  pub,
		Address:    address,
		PrivateKey: priv,
		Metadata:   metadata,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.sess.PutIdentity(id); err != nil {
		return domain.Identity{}, err
	}
	if s.sess.ActiveDID() == "" {
		if err := s.sess.SetActiveDID(id.DID); err != nil {
			return domain.Identity{}, err
		}
	}
	return id, nil
}

// UpdateMetadata replaces an identity's metadata. Keys and DID are
// untouched.
func (s *Service) UpdateMetadata(didStr string, metadata map[string]string) (domain.Identity, error) {
	id, err := s.sess.GetIdentity(didStr)
	if err != nil {
		return domain.Identity{}, mapNotFound(err)
	}
	id.Metadata = metadata
	if err := s.sess.PutIdentity(id); err != nil {
		return domain.Identity{}, err
	}
	return id, nil
}

// Delete removes an identity and its private key from the vault.
func (s *Service) Delete(didStr string) error {
	return s.sess.DeleteIdentity(didStr)
}

// SignAs signs message with the private key held for didStr.
func (s *Service) SignAs(didStr string, message []byte) ([]byte, error) {
	id, err := s.sess.GetIdentity(didStr)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return crypto.Sign(message, id.PrivateKey)
}

// RecoverSigner returns the address implied by sig over message.
func (s *Service) RecoverSigner(message, sig []byte) (string, error) {
	return crypto.RecoverAddress(message, sig)
}

// Verify reports whether sig over message recovers to expectedAddress. It
// never returns an error; parse failures are a plain false.
func (s *Service) Verify(message, sig []byte, expectedAddress string) bool {
	return crypto.Verify(message, sig, expectedAddress)
}

func mapNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %v", domain.ErrIdentityNotFound, err)
	}
	return err
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
