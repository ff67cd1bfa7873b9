package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shakams434/sovereign-keychain/internal/crypto"
	"github.com/shakams434/sovereign-keychain/internal/did"
	"github.com/shakams434/sovereign-keychain/internal/domain"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

func newIdentity(t *testing.T) domain.Identity {
	t.Helper()
	priv, pub, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(pub)
	return domain.Identity{
		DID:        did.FromAddress(address),
		PublicKey:  pub,
		Address:    address,
		PrivateKey: priv,
		Metadata:   map[string]string{"name": "tester"},
		CreatedAt:  time.Now().UTC(),
	}
}

func newCredential(id, credType, issuer, subject string) domain.Credential {
	return domain.Credential{
		ID:           id,
		Type:         []string{domain.TypeVerifiableCredential, credType},
		Issuer:       issuer,
		Subject:      subject,
		IssuanceDate: time.Now().UTC(),
		Claims:       domain.Claims{"degree": "BSc"},
	}
}

func TestIdentity_RoundTrip(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	sess.Lock()

	// Fresh session under the same secret sees the exact same key bytes.
	sess2, err := vault.Unlock("pw1")
	require.NoError(t, err)
	got, err := sess2.GetIdentity(id.DID)
	require.NoError(t, err)
	require.Equal(t, id.PrivateKey, got.PrivateKey)
	require.Equal(t, id.PublicKey, got.PublicKey)
	require.Equal(t, id.Metadata, got.Metadata)
}

func TestGet_WrongSecretIsDecryptionFailed(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("correct horse")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	sess.Lock()

	// Unlock itself performs no validation.
	wrong, err := vault.Unlock("battery staple")
	require.NoError(t, err)

	_, err = wrong.GetIdentity(id.DID)
	require.ErrorIs(t, err, domain.ErrDecryptionFailed)
	require.NotErrorIs(t, err, domain.ErrNotFound, "wrong secret must never read as absence")

	_, err = wrong.GetIdentity("did:ethr:0x0000000000000000000000000000000000000000")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NotErrorIs(t, err, domain.ErrDecryptionFailed)
}

func TestLockedSessionRefusesEverything(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))

	sess.Lock()
	require.False(t, sess.Unlocked())

	require.ErrorIs(t, sess.PutIdentity(id), domain.ErrNotUnlocked)
	_, err = sess.GetIdentity(id.DID)
	require.ErrorIs(t, err, domain.ErrNotUnlocked)
	_, err = sess.ListIdentities()
	require.ErrorIs(t, err, domain.ErrNotUnlocked)
	_, err = sess.Export()
	require.ErrorIs(t, err, domain.ErrNotUnlocked)
	require.ErrorIs(t, sess.SetActiveDID(id.DID), domain.ErrNotUnlocked)
}

func TestListCredentials_NoDecryptionNeeded(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	holder := newIdentity(t)
	require.NoError(t, sess.PutIdentity(holder))

	expired := newCredential("urn:uuid:1", "OldCredential", holder.DID, holder.DID)
	past := time.Now().Add(-time.Hour).UTC()
	expired.ExpirationDate = &past
	require.NoError(t, sess.PutCredential(expired))
	require.NoError(t, sess.PutCredential(newCredential("urn:uuid:2", "FreshCredential", holder.DID, holder.DID)))
	sess.Lock()

	// Listing works even under the wrong key: index metadata is plaintext.
	other, err := vault.Unlock("not the secret")
	require.NoError(t, err)
	entries, err := other.ListCredentials()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := map[string]domain.IndexEntry{}
	for _, e := range entries {
		byKey[e.Key] = e
	}
	require.Equal(t, "expired", byKey["urn:uuid:1"].Labels["status"])
	require.Contains(t, byKey["urn:uuid:1"].Labels["type"], "OldCredential")
	require.Equal(t, "active", byKey["urn:uuid:2"].Labels["status"])
	require.Equal(t, holder.DID, byKey["urn:uuid:2"].Labels["issuer"])
}

func TestDeleteCredential(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	holder := newIdentity(t)
	require.NoError(t, sess.PutIdentity(holder))
	cred := newCredential("urn:uuid:gone", "TempCredential", holder.DID, holder.DID)
	require.NoError(t, sess.PutCredential(cred))

	require.NoError(t, sess.DeleteCredential(cred.ID))
	_, err = sess.GetCredential(cred.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, sess.DeleteCredential(cred.ID), domain.ErrNotFound)
}

func TestActivityLog_AppendedOnMutation(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	holder := newIdentity(t)
	require.NoError(t, sess.PutIdentity(holder))
	cred := newCredential("urn:uuid:act", "ActCredential", holder.DID, holder.DID)
	require.NoError(t, sess.PutCredential(cred))
	require.NoError(t, sess.DeleteCredential(cred.ID))

	entries, err := sess.Activities()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, domain.ActivityIdentityCreated, entries[0].Kind)
	require.Equal(t, domain.ActivityCredentialStored, entries[1].Kind)
	require.Equal(t, domain.ActivityCredentialDeleted, entries[2].Kind)
	require.Equal(t, holder.DID, entries[0].RelatedDID)
}

func TestActiveDID_SurvivesRelock(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	require.NoError(t, sess.SetActiveDID(id.DID))
	require.Equal(t, id.DID, sess.ActiveDID())

	require.ErrorIs(t, sess.SetActiveDID("did:ethr:0x0000000000000000000000000000000000000009"), domain.ErrNotFound)

	sess.Lock()
	sess2, err := vault.Unlock("pw1")
	require.NoError(t, err)
	require.Equal(t, id.DID, sess2.ActiveDID())
}

func TestDeleteActiveIdentity_ClearsActivePointer(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("pw1")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	require.NoError(t, sess.SetActiveDID(id.DID))

	other := newIdentity(t)
	require.NoError(t, sess.PutIdentity(other))
	require.NoError(t, sess.DeleteIdentity(other.DID))
	require.Equal(t, id.DID, sess.ActiveDID(), "deleting a non-active identity leaves the pointer alone")

	require.NoError(t, sess.DeleteIdentity(id.DID))
	require.Empty(t, sess.ActiveDID())

	sess.Lock()
	sess2, err := vault.Unlock("pw1")
	require.NoError(t, err)
	require.Empty(t, sess2.ActiveDID(), "a relock does not resurrect the deleted DID")
}

func TestValidateSecret(t *testing.T) {
	require.NoError(t, store.ValidateSecret("Str0ng&Secret!"))
	require.ErrorIs(t, store.ValidateSecret("short"), store.ErrWeakSecret)
	require.ErrorIs(t, store.ValidateSecret("alllowercaseonly1!"), store.ErrWeakSecret)
}
