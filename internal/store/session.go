package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shakams434/sovereign-keychain/internal/did"
	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Session is an unlocked view of a vault. It is the only holder of the
// derived key; Lock wipes the key and every later call fails with
// ErrNotUnlocked. Decrypted entities returned from a session are copies
// owned by the caller.
type Session struct {
	v           *Vault
	key         []byte
	activeDID   string
	logActivity bool
}

var _ domain.Session = (*Session)(nil)

// Lock discards the derived key and returns the session to the locked
// state.
func (s *Session) Lock() {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	wipe(s.key)
	s.key = nil
	logger.Debugf("vault locked at %s", s.v.dir)
}

// Unlocked reports whether the session still holds its derived key.
func (s *Session) Unlocked() bool {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()
	return s.key != nil
}

func (s *Session) guard() error {
	if s.key == nil {
		return domain.ErrNotUnlocked
	}
	return nil
}

// ActiveDID returns the identity this session acts as, or "" when none is
// set.
func (s *Session) ActiveDID() string {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()
	return s.activeDID
}

// SetActiveDID points the session (and the vault manifest, so the choice
// survives relocking) at an identity already held in the vault.
func (s *Session) SetActiveDID(didStr string) error {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	if _, err := s.getRecord(colIdentities, didStr, &domain.Identity{}); err != nil {
		return err
	}
	m, err := s.v.loadOrCreateManifest()
	if err != nil {
		return err
	}
	m.ActiveDID = didStr
	if err := s.v.writeManifest(m); err != nil {
		return err
	}
	s.activeDID = didStr
	return nil
}

// ---------- identities ----------

func (s *Session) PutIdentity(id domain.Identity) error {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := id.Validate(); err != nil {
		return err
	}
	labels := map[string]string{"address": id.Address}
	if name, ok := id.Metadata["name"]; ok {
		labels["name"] = name
	}
	kind := domain.ActivityIdentityCreated
	if _, err := s.getRecord(colIdentities, id.DID, &domain.Identity{}); err == nil {
		kind = domain.ActivityIdentityUpdated
	}
	meta := domain.IndexEntry{Key: id.DID, Labels: labels, CreatedAt: id.CreatedAt}
	return s.putRecord(colIdentities, id.DID, id, meta, &domain.ActivityLogEntry{
		Kind:       kind,
		RelatedDID: id.DID,
	})
}

func (s *Session) GetIdentity(didStr string) (domain.Identity, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	var id domain.Identity
	_, err := s.getRecord(colIdentities, didStr, &id)
	return id, err
}

func (s *Session) ListIdentities() ([]domain.IndexEntry, error) {
	return s.list(colIdentities)
}

// DeleteIdentity removes an identity record. Deleting the active identity
// also clears the active pointer, in memory and in the manifest, so a later
// unlock never restores a DID that no longer resolves.
func (s *Session) DeleteIdentity(didStr string) error {
	if err := s.deleteRecord(colIdentities, didStr, &domain.ActivityLogEntry{
		Kind:       domain.ActivityIdentityDeleted,
		RelatedDID: didStr,
	}); err != nil {
		return err
	}

	s.v.mu.Lock()
	defer s.v.mu.Unlock()
	if !did.Equal(s.activeDID, didStr) {
		return nil
	}
	m, err := s.v.loadOrCreateManifest()
	if err != nil {
		return err
	}
	m.ActiveDID = ""
	if err := s.v.writeManifest(m); err != nil {
		return err
	}
	s.activeDID = ""
	return nil
}

// ---------- credentials ----------

func (s *Session) PutCredential(cred domain.Credential) error {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := cred.Validate(); err != nil {
		return err
	}
	labels := map[string]string{
		"type":    strings.Join(cred.Type, ","),
		"issuer":  cred.Issuer,
		"subject": cred.Subject,
	}
	if cred.ExpirationDate != nil {
		labels["expires"] = cred.ExpirationDate.Format(time.RFC3339)
	}
	meta := domain.IndexEntry{Key: cred.ID, Labels: labels, CreatedAt: cred.IssuanceDate}
	return s.putRecord(colCredentials, cred.ID, cred, meta, &domain.ActivityLogEntry{
		Kind:       domain.ActivityCredentialStored,
		Details:    map[string]string{"credential": cred.ID, "type": labels["type"]},
		RelatedDID: cred.Subject,
	})
}

func (s *Session) GetCredential(id string) (domain.Credential, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	var cred domain.Credential
	_, err := s.getRecord(colCredentials, id, &cred)
	return cred, err
}

// ListCredentials returns index metadata only. The status label is computed
// from the recorded expiry so callers can filter without decrypting.
func (s *Session) ListCredentials() ([]domain.IndexEntry, error) {
	entries, err := s.list(colCredentials)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	for _, e := range entries {
		e.Labels["status"] = "active"
		if exp, ok := e.Labels["expires"]; ok {
			if t, err := time.Parse(time.RFC3339, exp); err == nil && t.Before(now) {
				e.Labels["status"] = "expired"
			}
		}
	}
	return entries, nil
}

// Credentials decrypts and returns every held credential in listing order.
func (s *Session) Credentials() ([]domain.Credential, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}
	m, err := s.v.readCollection(colCredentials)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Credential, 0, len(m))
	for _, meta := range sortedMetas(m) {
		var cred domain.Credential
		if _, err := s.getRecord(colCredentials, meta.Key, &cred); err != nil {
			return nil, err
		}
		out = append(out, cred)
	}
	return out, nil
}

func (s *Session) DeleteCredential(id string) error {
	return s.deleteRecord(colCredentials, id, &domain.ActivityLogEntry{
		Kind:    domain.ActivityCredentialDeleted,
		Details: map[string]string{"credential": id},
	})
}

// ---------- activity log ----------

func (s *Session) AppendActivity(entry domain.ActivityLogEntry) error {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	return s.appendActivity(entry)
}

func (s *Session) Activities() ([]domain.ActivityLogEntry, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return nil, err
	}
	recs, err := s.v.readActivities()
	if err != nil {
		return nil, err
	}
	out := make([]domain.ActivityLogEntry, 0, len(recs))
	for _, rec := range recs {
		plaintext, err := open(s.key, rec.Env, aad(colActivities, rec.Meta.Key))
		if err != nil {
			return nil, err
		}
		var entry domain.ActivityLogEntry
		if err := json.Unmarshal(plaintext, &entry); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// ---------- internals ----------

func aad(collection, key string) string { return collection + "/" + key }

// putRecord seals one entity and persists it, then appends the matching
// activity entry. Activity logging is suppressed during snapshot import so
// replayed records do not spawn duplicate history.
func (s *Session) putRecord(collection, key string, entity any, meta domain.IndexEntry, activity *domain.ActivityLogEntry) error {
	if err := s.guard(); err != nil {
		return err
	}
	plaintext, err := json.Marshal(entity)
	if err != nil {
		return err
	}
	env, err := seal(s.key, plaintext, aad(collection, key))
	if err != nil {
		return err
	}
	m, err := s.v.readCollection(collection)
	if err != nil {
		return err
	}
	m[key] = record{Meta: meta, Env: env}
	if err := s.v.writeCollection(collection, m); err != nil {
		return err
	}
	if s.logActivity && activity != nil {
		if err := s.appendActivity(*activity); err != nil {
			return err
		}
	}
	return nil
}

// getRecord decrypts one record into out. A missing record is ErrNotFound;
// an unauthenticated one is ErrDecryptionFailed. Callers must never see one
// as the other.
func (s *Session) getRecord(collection, key string, out any) (domain.IndexEntry, error) {
	if err := s.guard(); err != nil {
		return domain.IndexEntry{}, err
	}
	m, err := s.v.readCollection(collection)
	if err != nil {
		return domain.IndexEntry{}, err
	}
	rec, ok := m[key]
	if !ok {
		return domain.IndexEntry{}, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, key)
	}
	plaintext, err := open(s.key, rec.Env, aad(collection, key))
	if err != nil {
		return domain.IndexEntry{}, err
	}
	if err := json.Unmarshal(plaintext, out); err != nil {
		return domain.IndexEntry{}, err
	}
	return rec.Meta, nil
}

func (s *Session) deleteRecord(collection, key string, activity *domain.ActivityLogEntry) error {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	if err := s.guard(); err != nil {
		return err
	}
	m, err := s.v.readCollection(collection)
	if err != nil {
		return err
	}
	if _, ok := m[key]; !ok {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, key)
	}
	delete(m, key)
	if err := s.v.writeCollection(collection, m); err != nil {
		return err
	}
	if s.logActivity && activity != nil {
		return s.appendActivity(*activity)
	}
	return nil
}

func (s *Session) list(collection string) ([]domain.IndexEntry, error) {
	s.v.mu.Lock()
	defer s.v.mu.Unlock()

	// Listing reads plaintext index metadata only; it works even without a
	// valid key, but still requires an unlocked session for uniformity.
	if err := s.guard(); err != nil {
		return nil, err
	}
	m, err := s.v.readCollection(collection)
	if err != nil {
		return nil, err
	}
	return sortedMetas(m), nil
}

func (s *Session) appendActivity(entry domain.ActivityLogEntry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	recs, err := s.v.readActivities()
	if err != nil {
		return err
	}
	key := fmt.Sprintf("%06d", len(recs)+1)
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	env, err := seal(s.key, plaintext, aad(colActivities, key))
	if err != nil {
		return err
	}
	meta := domain.IndexEntry{
		Key:       key,
		Labels:    map[string]string{"kind": string(entry.Kind)},
		CreatedAt: entry.Timestamp,
	}
	return s.v.appendActivityRecord(record{Meta: meta, Env: env})
}
