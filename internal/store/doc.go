// Package store implements the encrypted-at-rest vault.
//
// A vault is a directory holding a plaintext manifest (KDF salt and
// parameters, active identity pointer) and per-collection JSON files of
// encrypted records. Unlock derives a session key from the user secret with
// scrypt; each record is sealed with XChaCha20-Poly1305 and its collection
// and key bound as additional data. Plaintext index metadata rides beside
// each ciphertext so listings never pay decryption cost.
//
// Every mutating operation appends an encrypted, append-only activity log
// entry. Export produces a decrypted snapshot; Import rebuilds a fresh
// vault from a snapshot under a new secret and swaps it in atomically.
package store
