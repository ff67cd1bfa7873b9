package credential

import (
	"encoding/json"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Proofs are computed over the entity's JSON encoding with the proof field
// omitted. encoding/json marshals struct fields in declared order and map
// keys sorted lexicographically, so signer and verifier always serialize
// claims in the same canonical order. Embedded credential proofs inside a
// presentation stay in place: the holder signs over them.

func credentialSigningInput(cred domain.Credential) ([]byte, error) {
	cred.Proof = nil
	return json.Marshal(cred)
}

func presentationSigningInput(pres domain.Presentation) ([]byte, error) {
	pres.Proof = nil
	return json.Marshal(pres)
}
