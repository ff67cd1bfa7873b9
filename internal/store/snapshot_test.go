package store_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shakams434/sovereign-keychain/internal/domain"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

func TestExportImport_RoundTrip(t *testing.T) {
	vault := store.New(t.TempDir())
	sess, err := vault.Unlock("Old&Secret123")
	require.NoError(t, err)

	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	cred := newCredential("urn:uuid:snap", "SnapCredential", id.DID, id.DID)
	require.NoError(t, sess.PutCredential(cred))

	snap, err := sess.Export()
	require.NoError(t, err)
	require.Len(t, snap.Identities, 1)
	require.Len(t, snap.Credentials, 1)
	require.NotEmpty(t, snap.Activities)
	sess.Lock()

	// Import into a fresh vault under a different secret.
	fresh := store.New(t.TempDir() + "/fresh")
	require.NoError(t, fresh.Import(snap, "New&Secret456"))

	sess2, err := fresh.Unlock("New&Secret456")
	require.NoError(t, err)

	gotID, err := sess2.GetIdentity(id.DID)
	require.NoError(t, err)
	require.Equal(t, id.PrivateKey, gotID.PrivateKey)
	require.Equal(t, id.PublicKey, gotID.PublicKey)

	gotCred, err := sess2.GetCredential(cred.ID)
	require.NoError(t, err)
	require.Equal(t, cred.ID, gotCred.ID)
	require.Equal(t, cred.Claims["degree"], gotCred.Claims["degree"])

	require.Equal(t, id.DID, sess2.ActiveDID(), "first imported identity becomes active")

	// History is carried over, plus one import marker.
	acts, err := sess2.Activities()
	require.NoError(t, err)
	require.Equal(t, domain.ActivityVaultImported, acts[len(acts)-1].Kind)
}

func TestImport_RejectsInvalidSnapshotWholesale(t *testing.T) {
	dir := t.TempDir()
	vault := store.New(dir)
	sess, err := vault.Unlock("Keep&Me Safe1")
	require.NoError(t, err)

	keeper := newIdentity(t)
	require.NoError(t, sess.PutIdentity(keeper))
	sess.Lock()

	bad := domain.Snapshot{
		Version:    1,
		Identities: []domain.Identity{newIdentity(t)},
		Credentials: []domain.Credential{{
			ID: "urn:uuid:broken", // missing issuer, subject, type, claims
		}},
	}
	require.ErrorIs(t, vault.Import(bad, "New&Secret456"), domain.ErrValidationFailed)

	// The existing vault is untouched.
	sess2, err := vault.Unlock("Keep&Me Safe1")
	require.NoError(t, err)
	got, err := sess2.GetIdentity(keeper.DID)
	require.NoError(t, err)
	require.Equal(t, keeper.PrivateKey, got.PrivateKey)
}

func TestImport_LeavesNoWorkArea(t *testing.T) {
	dir := t.TempDir() + "/vault"
	vault := store.New(dir)
	sess, err := vault.Unlock("Old&Secret123")
	require.NoError(t, err)
	id := newIdentity(t)
	require.NoError(t, sess.PutIdentity(id))
	snap, err := sess.Export()
	require.NoError(t, err)
	sess.Lock()

	// A stale work area from an interrupted run is swept aside, not merged.
	require.NoError(t, os.MkdirAll(dir+".import", 0o700))
	require.NoError(t, os.WriteFile(dir+".import/junk", []byte("x"), 0o600))

	require.NoError(t, vault.Import(snap, "New&Secret456"))

	_, err = os.Stat(dir + ".import")
	require.True(t, os.IsNotExist(err), "staging area is removed")
	_, err = os.Stat(dir + ".bak")
	require.True(t, os.IsNotExist(err), "no copy of the old vault is left behind")

	sess2, err := vault.Unlock("New&Secret456")
	require.NoError(t, err)
	got, err := sess2.GetIdentity(id.DID)
	require.NoError(t, err)
	require.Equal(t, id.PrivateKey, got.PrivateKey)
}

func TestImport_UnsupportedVersion(t *testing.T) {
	vault := store.New(t.TempDir())
	err := vault.Import(domain.Snapshot{Version: 99}, "New&Secret456")
	require.ErrorIs(t, err, domain.ErrValidationFailed)
}
