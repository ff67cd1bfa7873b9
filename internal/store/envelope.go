package store

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

const (
	keyBytes  = chacha20poly1305.KeySize
	saltBytes = 16
)

// Tunables for scrypt key derivation. Recorded in the manifest so stored
// vaults survive parameter changes.
func scryptParamsDefault() (N, r, p int) { return 1 << 15, 8, 1 }

// envelope is one encrypted record on disk. The collection and record key
// are bound as additional data so a ciphertext cannot be replayed under a
// different key or collection.
type envelope struct {
	Nonce  []byte `json:"nonce"`
	Cipher []byte `json:"cipher"`
}

func deriveKey(secret string, salt []byte, N, r, p int) ([]byte, error) {
	return scrypt.Key([]byte(secret), salt, N, r, p, keyBytes)
}

func seal(key, plaintext []byte, aad string) (envelope, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return envelope{}, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return envelope{}, err
	}
	return envelope{
		Nonce:  nonce,
		Cipher: aead.Seal(nil, nonce, plaintext, []byte(aad)),
	}, nil
}

func open(key []byte, env envelope, aad string) ([]byte, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, env.Nonce, env.Cipher, []byte(aad))
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", domain.ErrDecryptionFailed, aad)
	}
	return plaintext, nil
}

// wipe zeroes sensitive key material after use.
func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
