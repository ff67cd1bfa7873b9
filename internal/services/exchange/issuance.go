package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

var logger = log.New("keychain-exchange")

// IssuanceState tracks one credential type through the issuance machine.
type IssuanceState string

const (
	StateReceived IssuanceState = "received"
	StateParsed   IssuanceState = "parsed"
	StateFetching IssuanceState = "fetching"
	StateBuilt    IssuanceState = "built"
	StateSigned   IssuanceState = "signed"
	StateStored   IssuanceState = "stored"
	StateLogged   IssuanceState = "logged"

	// Terminal failure states.
	StateParseFailed       IssuanceState = "parse_failed"
	StateIssuerUnreachable IssuanceState = "issuer_unreachable"
	StateIssuerRejected    IssuanceState = "issuer_rejected"
	StateSignFailed        IssuanceState = "sign_failed"
	StateStoreFailed       IssuanceState = "store_failed"
)

// Service drives the two exchange protocols: credential issuance from an
// offer URI and credential presentation against a verifier request.
type Service struct {
	sess   domain.Session
	creds  domain.CredentialService
	issuer domain.IssuerClient
}

// New returns an exchange service. issuer may be nil when only presentation
// flows are used.
func New(sess domain.Session, creds domain.CredentialService, issuer domain.IssuerClient) *Service {
	return &Service{sess: sess, creds: creds, issuer: issuer}
}

// wireOffer is the OpenID4VCI-style JSON carried in the credential_offer
// query parameter.
type wireOffer struct {
	CredentialIssuer string   `json:"credential_issuer"`
	Credentials      []string `json:"credentials"`
	Grants           struct {
		AuthorizationCode *struct{} `json:"authorization_code"`
		PreAuthorizedCode *struct {
			Code        string `json:"pre-authorized_code"`
			PINRequired bool   `json:"user_pin_required"`
		} `json:"urn:ietf:params:oauth:grant-type:pre-authorized_code"`
	} `json:"grants"`
}

// ParseOffer extracts a credential offer from an issuance URI. An inline
// credential_offer parameter is decoded; a credential_offer_uri reference
// is returned unresolved (fetching it is a collaborator's job). A URI with
// neither parameter, or with an offer that is not valid JSON, fails with
// ErrParseFailed.
func (s *Service) ParseOffer(rawURI string) (*domain.OfferEnvelope, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}
	q := u.Query()

	if ref := q.Get("credential_offer_uri"); ref != "" {
		return &domain.OfferEnvelope{RemoteURI: ref}, nil
	}
	raw := q.Get("credential_offer")
	if raw == "" {
		return nil, fmt.Errorf("%w: missing credential_offer parameter", domain.ErrParseFailed)
	}
	var wire wireOffer
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: credential_offer is not valid JSON: %v", domain.ErrParseFailed, err)
	}

	offer := &domain.CredentialOffer{
		IssuerEndpoint: wire.CredentialIssuer,
		OfferedTypes:   wire.Credentials,
		Grant:          domain.Grant{Type: domain.GrantAuthorizationCode},
	}
	if pre := wire.Grants.PreAuthorizedCode; pre != nil {
		offer.Grant = domain.Grant{
			Type:              domain.GrantPreAuthorizedCode,
			PreAuthorizedCode: pre.Code,
			PINRequired:       pre.PINRequired,
		}
	}
	return &domain.OfferEnvelope{Offer: offer}, nil
}

// TypeOutcome reports the terminal state of one offered credential type.
type TypeOutcome struct {
	Type  string
	State IssuanceState
	Err   error
}

// IssuanceResult is the per-item outcome of AcceptOffer. Partial success is
// normal: stored types stay stored when later types fail.
type IssuanceResult struct {
	Stored   int
	Failed   int
	Outcomes []TypeOutcome
}

// AcceptOptions carries holder input gathered by the UI layer.
type AcceptOptions struct {
	// PIN is the user PIN for pre-authorized-code grants that require one.
	PIN string
}

// AcceptOffer obtains claims for each offered type from the issuer
// collaborator, then builds, signs and stores one credential per type. Each
// type commits independently; ctx cancellation stops before the next fetch
// without touching already-persisted credentials.
func (s *Service) AcceptOffer(ctx context.Context, offer *domain.CredentialOffer, holderDID string, opts AcceptOptions) (*IssuanceResult, error) {
	if s.issuer == nil {
		return nil, fmt.Errorf("%w: no issuer collaborator configured", domain.ErrIssuerUnreachable)
	}
	if offer.Grant.Type == domain.GrantPreAuthorizedCode && offer.Grant.PINRequired && opts.PIN == "" {
		return nil, fmt.Errorf("%w: offer requires a user PIN", domain.ErrValidationFailed)
	}

	result := &IssuanceResult{}
	for _, credType := range offer.OfferedTypes {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		outcome := s.issueOne(ctx, offer, credType, holderDID)
		if outcome.State == StateLogged {
			result.Stored++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}
	logger.Infof("offer from %s processed: %d stored, %d failed", offer.IssuerEndpoint, result.Stored, result.Failed)
	return result, nil
}

func (s *Service) issueOne(ctx context.Context, offer *domain.CredentialOffer, credType, holderDID string) TypeOutcome {
	claims, err := s.issuer.FetchClaims(ctx, credType, offer.IssuerEndpoint, holderDID)
	if err != nil {
		state := StateIssuerUnreachable
		if errors.Is(err, domain.ErrIssuerRejected) {
			state = StateIssuerRejected
		}
		logger.Warnf("claims fetch for %s failed: %v", credType, err)
		return TypeOutcome{Type: credType, State: state, Err: err}
	}

	cred, err := s.creds.CreateCredential(credType, claims, holderDID, holderDID, nil)
	if err != nil {
		return TypeOutcome{Type: credType, State: StateSignFailed, Err: err}
	}
	signed, err := s.creds.SignCredential(cred, holderDID)
	if err != nil {
		return TypeOutcome{Type: credType, State: StateSignFailed, Err: err}
	}
	if err := s.sess.PutCredential(signed); err != nil {
		return TypeOutcome{Type: credType, State: StateStoreFailed, Err: err}
	}
	return TypeOutcome{Type: credType, State: StateLogged}
}
