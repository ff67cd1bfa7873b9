package issuer_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shakams434/sovereign-keychain/internal/domain"
	"github.com/shakams434/sovereign-keychain/internal/issuer"
)

func newClient() *issuer.HTTPClient {
	c := issuer.NewHTTP(nil)
	c.MaxRetries = 1
	return c
}

func TestFetchClaims_Success(t *testing.T) {
	var gotPath string
	var gotReq map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(map[string]any{"degree": "BSc", "year": 2024})
	}))
	defer srv.Close()

	claims, err := newClient().FetchClaims(
		context.Background(), "UniversityDegreeCredential", srv.URL, "did:ethr:0xabc")
	require.NoError(t, err)
	require.Equal(t, "/credential", gotPath)
	require.Equal(t, "UniversityDegreeCredential", gotReq["type"])
	require.Equal(t, "did:ethr:0xabc", gotReq["subject"])
	require.Equal(t, "BSc", claims["degree"])
}

func TestFetchClaims_RejectedIsNotRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		http.Error(w, "no such type", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newClient().FetchClaims(context.Background(), "X", srv.URL, "did:ethr:0xabc")
	require.ErrorIs(t, err, domain.ErrIssuerRejected)
	require.Equal(t, 1, hits)
}

func TestFetchClaims_ServerErrorIsRetried(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}))
	defer srv.Close()

	claims, err := newClient().FetchClaims(context.Background(), "X", srv.URL, "did:ethr:0xabc")
	require.NoError(t, err)
	require.Equal(t, 2, hits)
	require.Equal(t, true, claims["ok"])
}

func TestFetchClaims_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := newClient().FetchClaims(context.Background(), "X", srv.URL, "did:ethr:0xabc")
	require.ErrorIs(t, err, domain.ErrIssuerUnreachable)
}

func TestFetchClaims_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := newClient().FetchClaims(context.Background(), "X", srv.URL, "did:ethr:0xabc")
	require.ErrorIs(t, err, domain.ErrIssuerRejected)
}

func TestFetchClaims_EmptyClaimsRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newClient().FetchClaims(context.Background(), "X", srv.URL, "did:ethr:0xabc")
	require.ErrorIs(t, err, domain.ErrIssuerRejected)
}
