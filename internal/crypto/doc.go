// Package crypto exposes the keypair and signature primitives behind the
// keychain.
//
// Contents
//
//   - secp256k1 key generation and seed-deterministic derivation
//     (GenerateKeypair, KeypairFromSeed)
//   - Domain-separated keccak digest, compact recoverable signing and
//     address recovery (Digest, Sign, RecoverAddress, Verify)
//   - Account address derivation and checksum handling (PubkeyToAddress,
//     ChecksumAddress, ValidAddressHex)
//   - BIP-39 recovery phrases (NewMnemonic, SeedFromMnemonic)
//   - Short public-key fingerprints for display/logging (Fingerprint)
package crypto
