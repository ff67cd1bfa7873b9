package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Export decrypts the whole vault into a snapshot. It mutates nothing.
func (s *Session) Export() (domain.Snapshot, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return domain.Snapshot{}, err
	}

	snap := domain.Snapshot{Version: snapshotVersion, Timestamp: time.Now().UTC()}

	ids, err := s.v.readCollection(colIdentities)
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, meta := range sortedMetas(ids) {
		var id domain.Identity
		if _, err := s.getRecord(colIdentities, meta.Key, &id); err != nil {
			return domain.Snapshot{}, err
		}
		snap.Identities = append(snap.Identities, id)
	}

	creds, err := s.v.readCollection(colCredentials)
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, meta := range sortedMetas(creds) {
		var cred domain.Credential
		if _, err := s.getRecord(colCredentials, meta.Key, &cred); err != nil {
			return domain.Snapshot{}, err
		}
		snap.Credentials = append(snap.Credentials, cred)
	}

	recs, err := s.v.readActivities()
	if err != nil {
		return domain.Snapshot{}, err
	}
	for _, rec := range recs {
		plaintext, err := open(s.key, rec.Env, aad(colActivities, rec.Meta.Key))
		if err != nil {
			return domain.Snapshot{}, err
		}
		var entry domain.ActivityLogEntry
		if err := json.Unmarshal(plaintext, &entry); err != nil {
			return domain.Snapshot{}, err
		}
		snap.Activities = append(snap.Activities, entry)
	}

	logger.Infof("exported vault snapshot: %d identities, %d credentials, %d activities",
		len(snap.Identities), len(snap.Credentials), len(snap.Activities))
	return snap, nil
}

// Import atomically replaces the vault with the snapshot re-encrypted under
// newSecret. The snapshot is validated up front and written into a fresh
// area; only a fully written area is swapped in, so a failure mid-import
// never leaves the vault partially overwritten.
func (v *Vault) Import(snap domain.Snapshot, newSecret string) error {
	if snap.Version > snapshotVersion {
		return fmt.Errorf("%w: unsupported snapshot version %d", domain.ErrValidationFailed, snap.Version)
	}
	for _, id := range snap.Identities {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	for _, cred := range snap.Credentials {
		if err := cred.Validate(); err != nil {
			return err
		}
	}

	staging := v.dir + ".import"
	if err := os.RemoveAll(staging); err != nil {
		return err
	}
	if err := v.populateStaging(staging, snap, newSecret); err != nil {
		os.RemoveAll(staging)
		return err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	// The old vault moves aside only for the instant of the swap; a crash
	// between the two renames leaves it recoverable at <dir>.bak.
	backup := v.dir + ".bak"
	if err := os.RemoveAll(backup); err != nil {
		return err
	}
	if _, err := os.Stat(v.dir); err == nil {
		if err := os.Rename(v.dir, backup); err != nil {
			return err
		}
	}
	if err := os.Rename(staging, v.dir); err != nil {
		return err
	}
	if err := os.RemoveAll(backup); err != nil {
		return err
	}
	logger.Infof("imported vault snapshot into %s", v.dir)
	return nil
}

// populateStaging writes the snapshot, re-encrypted under newSecret, into a
// fresh vault at staging.
func (v *Vault) populateStaging(staging string, snap domain.Snapshot, newSecret string) error {
	fresh := New(staging)
	sess, err := fresh.Unlock(newSecret)
	if err != nil {
		return err
	}
	inner, ok := sess.(*Session)
	if !ok {
		return fmt.Errorf("unexpected session type %T", sess)
	}
	inner.logActivity = false // replayed records must not spawn new history

	for _, id := range snap.Identities {
		if err := inner.PutIdentity(id); err != nil {
			return err
		}
	}
	for _, cred := range snap.Credentials {
		if err := inner.PutCredential(cred); err != nil {
			return err
		}
	}
	inner.v.mu.Lock()
	for _, entry := range snap.Activities {
		if err := inner.appendActivity(entry); err != nil {
			inner.v.mu.Unlock()
			return err
		}
	}
	if err := inner.appendActivity(domain.ActivityLogEntry{
		Kind:    domain.ActivityVaultImported,
		Details: map[string]string{"identities": fmt.Sprint(len(snap.Identities)), "credentials": fmt.Sprint(len(snap.Credentials))},
	}); err != nil {
		inner.v.mu.Unlock()
		return err
	}
	inner.v.mu.Unlock()

	if len(snap.Identities) > 0 {
		if err := inner.SetActiveDID(snap.Identities[0].DID); err != nil {
			return err
		}
	}
	inner.Lock()
	return nil
}
