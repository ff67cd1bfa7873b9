// Package issuer implements the external issuer collaborator: the one
// network call of the core, fetching raw claims for an offered credential
// type. Timeout policy lives in the injected HTTP client; transient
// failures are retried with bounded exponential backoff.
package issuer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"
	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

var logger = log.New("keychain-issuer")

const defaultMaxRetries = 3

// HTTPClient fetches claims over HTTP from the issuer endpoint named in an
// offer.
type HTTPClient struct {
	HTTP       *http.Client
	MaxRetries uint64
}

// NewHTTP returns an issuer client using the given HTTP client, or
// http.DefaultClient when nil.
func NewHTTP(httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPClient{HTTP: httpClient, MaxRetries: defaultMaxRetries}
}

var _ domain.IssuerClient = (*HTTPClient)(nil)

type claimsRequest struct {
	Type    string `json:"type"`
	Subject string `json:"subject"`
}

// FetchClaims asks the issuer for the raw claims backing credentialType.
// Network and 5xx failures are retried, then reported as
// ErrIssuerUnreachable; a 4xx answer is ErrIssuerRejected and not retried.
func (c *HTTPClient) FetchClaims(ctx context.Context, credentialType, issuerEndpoint, subjectDID string) (domain.Claims, error) {
	body, err := json.Marshal(claimsRequest{Type: credentialType, Subject: subjectDID})
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimSuffix(issuerEndpoint, "/") + "/credential"

	var claims domain.Claims
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("%w: %v", domain.ErrIssuerUnreachable, err))
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrIssuerUnreachable, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("%w: issuer answered %s", domain.ErrIssuerUnreachable, resp.Status)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("%w: issuer answered %s", domain.ErrIssuerRejected, resp.Status))
		}

		var got domain.Claims
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			return backoff.Permanent(fmt.Errorf("%w: bad claims payload: %v", domain.ErrIssuerRejected, err))
		}
		claims = got
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	if err := claims.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrIssuerRejected, err)
	}
	logger.Debugf("fetched %d claim(s) for %s from %s", len(claims), credentialType, endpoint)
	return claims, nil
}
