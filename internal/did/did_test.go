package did_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shakams434/sovereign-keychain/internal/crypto"
	"github.com/shakams434/sovereign-keychain/internal/did"
)

func TestExtractAddress(t *testing.T) {
	addr, ok := did.ExtractAddress("did:ethr:0xAbC0000000000000000000000000000000000001")
	require.True(t, ok)
	require.Equal(t, "0xAbC0000000000000000000000000000000000001", addr)

	_, ok = did.ExtractAddress("not-a-did")
	require.False(t, ok)

	_, ok = did.ExtractAddress("did:key:z6Mkf")
	require.False(t, ok, "foreign methods are not resolvable here")
}

func TestFromAddressRoundTrip(t *testing.T) {
	_, pub, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	address := crypto.PubkeyToAddress(pub)

	d := did.FromAddress(address)
	got, ok := did.ExtractAddress(d)
	require.True(t, ok)
	require.Equal(t, address, got)
	require.True(t, did.IsValid(d))
}

func TestIsValid(t *testing.T) {
	require.False(t, did.IsValid("did:ethr:0x123"), "truncated address")
	require.False(t, did.IsValid("did:ethr:zzz"))
	require.False(t, did.IsValid("did:web:example.com"))
	require.True(t, did.IsValid("did:ethr:0xabc0000000000000000000000000000000000001"),
		"single-case addresses pass without checksum")
}

func TestEqual(t *testing.T) {
	require.True(t, did.Equal(
		"did:ethr:0xABC0000000000000000000000000000000000001",
		"did:ethr:0xabc0000000000000000000000000000000000001",
	))
	require.False(t, did.Equal(
		"did:ethr:0xabc0000000000000000000000000000000000001",
		"did:ethr:0xabc0000000000000000000000000000000000002",
	))
}
