// Package identity manages creation, recovery and deletion of locally held
// DIDs.
//
// It derives secp256k1 keypairs from BIP-39 mnemonics, formats the derived
// address as a DID, and persists identities through the vault session. It
// also exposes the raw sign/recover/verify surface used by the credential
// engine.
package identity
