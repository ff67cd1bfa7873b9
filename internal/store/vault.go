package store

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

const (
	manifestFile    = "manifest.json"
	identitiesFile  = "identities.json" // map[did]record
	credentialsFile = "credentials.json"
	activitiesFile  = "activities.json" // []record, append-only

	colIdentities  = "identities"
	colCredentials = "credentials"
	colActivities  = "activities"

	manifestVersion = 1
	snapshotVersion = 1
)

var logger = log.New("keychain-store")

// manifest is the plaintext vault header: KDF material plus the active
// identity pointer. It never holds key material or claims.
type manifest struct {
	Version   int    `json:"version"`
	Salt      []byte `json:"salt"`
	ScryptN   int    `json:"scrypt_N"`
	ScryptR   int    `json:"scrypt_r"`
	ScryptP   int    `json:"scrypt_p"`
	ActiveDID string `json:"activeDid,omitempty"`
}

// record pairs one encrypted entity with the plaintext index metadata that
// lets listings skip decryption.
type record struct {
	Meta domain.IndexEntry `json:"meta"`
	Env  envelope          `json:"env"`
}

// Vault is the file-backed encrypted store. All sessions derived from one
// Vault share its lock, so concurrent callers observe record mutations as
// whole-record operations.
type Vault struct {
	dir string
	mu  sync.Mutex
}

// New returns a vault rooted at dir. Nothing is created until Unlock.
func New(dir string) *Vault { return &Vault{dir: dir} }

// Initialized reports whether dir already carries a manifest.
func (v *Vault) Initialized() bool {
	_, err := os.Stat(filepath.Join(v.dir, manifestFile))
	return err == nil
}

// Unlock derives the session key from secret and returns an unlocked
// session. The secret is not validated here: a wrong secret surfaces as
// ErrDecryptionFailed on the first read, exactly like a corrupted record.
func (v *Vault) Unlock(secret string) (domain.Session, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := os.MkdirAll(v.dir, 0o700); err != nil {
		return nil, err
	}
	m, err := v.loadOrCreateManifest()
	if err != nil {
		return nil, err
	}
	key, err := deriveKey(secret, m.Salt, m.ScryptN, m.ScryptR, m.ScryptP)
	if err != nil {
		return nil, err
	}
	logger.Debugf("vault unlocked at %s", v.dir)
	return &Session{v: v, key: key, activeDID: m.ActiveDID, logActivity: true}, nil
}

func (v *Vault) loadOrCreateManifest() (manifest, error) {
	var m manifest
	path := filepath.Join(v.dir, manifestFile)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &m); err != nil {
			return m, fmt.Errorf("corrupt vault manifest: %w", err)
		}
		if m.Version > manifestVersion {
			return m, fmt.Errorf("unsupported vault version %d", m.Version)
		}
		return m, nil
	case errors.Is(err, os.ErrNotExist):
		salt := make([]byte, saltBytes)
		if _, err := rand.Read(salt); err != nil {
			return m, err
		}
		N, r, p := scryptParamsDefault()
		m = manifest{Version: manifestVersion, Salt: salt, ScryptN: N, ScryptR: r, ScryptP: p}
		return m, v.writeManifest(m)
	default:
		return m, err
	}
}

func (v *Vault) writeManifest(m manifest) error {
	return writeJSON(filepath.Join(v.dir, manifestFile), m)
}

func (v *Vault) collectionPath(collection string) string {
	switch collection {
	case colIdentities:
		return filepath.Join(v.dir, identitiesFile)
	case colCredentials:
		return filepath.Join(v.dir, credentialsFile)
	default:
		return filepath.Join(v.dir, activitiesFile)
	}
}

func (v *Vault) readCollection(collection string) (map[string]record, error) {
	m := make(map[string]record)
	if err := readJSON(v.collectionPath(collection), &m); err != nil {
		return nil, err
	}
	return m, nil
}

func (v *Vault) writeCollection(collection string, m map[string]record) error {
	return writeJSON(v.collectionPath(collection), m)
}

func (v *Vault) readActivities() ([]record, error) {
	var recs []record
	if err := readJSON(filepath.Join(v.dir, activitiesFile), &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (v *Vault) appendActivityRecord(rec record) error {
	recs, err := v.readActivities()
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(v.dir, activitiesFile), append(recs, rec))
}

// sortedMetas returns index entries ordered by creation time, then key, so
// listings are stable across runs.
func sortedMetas(m map[string]record) []domain.IndexEntry {
	out := make([]domain.IndexEntry, 0, len(m))
	for _, rec := range m {
		out = append(out, rec.Meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// ---------- JSON file helpers ----------

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
