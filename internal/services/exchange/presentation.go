package exchange

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

// Defaults applied when a presentation request omits the parameters.
const (
	defaultResponseType = "vp_token"
	defaultScope        = "openid"
)

// ParseRequest decodes a verifier's authorization request URI. Missing
// response_type and scope take their OpenID defaults. A
// presentation_definition parameter that is present but not valid JSON
// fails the whole request.
func (s *Service) ParseRequest(rawURI string) (*domain.PresentationRequest, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrParseFailed, err)
	}
	q := u.Query()

	req := &domain.PresentationRequest{
		ResponseType: q.Get("response_type"),
		VerifierID:   q.Get("client_id"),
		RedirectURI:  q.Get("redirect_uri"),
		Scope:        q.Get("scope"),
		State:        q.Get("state"),
		Nonce:        q.Get("nonce"),
	}
	if req.ResponseType == "" {
		req.ResponseType = defaultResponseType
	}
	if req.Scope == "" {
		req.Scope = defaultScope
	}
	if raw := q.Get("presentation_definition"); raw != "" {
		var def domain.PresentationDefinition
		if err := json.Unmarshal([]byte(raw), &def); err != nil {
			return nil, fmt.Errorf("%w: presentation_definition is not valid JSON: %v", domain.ErrParseFailed, err)
		}
		req.Definition = &def
	}
	return req, nil
}

// FilterCandidates returns the held credentials matching the definition. A
// credential matches a descriptor when any of its declared types contains
// the descriptor id, compared case-insensitively and ignoring separator
// characters (so descriptor "university_degree" matches type
// "UniversityDegreeCredential"). Each credential appears at most once even
// if several descriptors match it. Without a definition every held
// credential is a candidate.
func (s *Service) FilterCandidates(held []domain.Credential, def *domain.PresentationDefinition) []domain.Credential {
	if def == nil || len(def.InputDescriptors) == 0 {
		return held
	}
	var out []domain.Credential
	seen := make(map[string]bool, len(held))
	for _, cred := range held {
		if seen[cred.ID] {
			continue
		}
		for _, desc := range def.InputDescriptors {
			if matchesDescriptor(cred, desc) {
				out = append(out, cred)
				seen[cred.ID] = true
				break
			}
		}
	}
	return out
}

// Candidates loads all held credentials from the vault and filters them
// against the definition.
func (s *Service) Candidates(def *domain.PresentationDefinition) ([]domain.Credential, error) {
	held, err := s.sess.Credentials()
	if err != nil {
		return nil, err
	}
	return s.FilterCandidates(held, def), nil
}

func matchesDescriptor(cred domain.Credential, desc domain.InputDescriptor) bool {
	want := normalizeToken(desc.ID)
	if want == "" {
		return false
	}
	for _, t := range cred.Type {
		if strings.Contains(normalizeToken(t), want) {
			return true
		}
	}
	return false
}

// normalizeToken lowercases and strips the separator characters that differ
// between descriptor ids (snake_case) and credential type names
// (CamelCase).
func normalizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuildResponse builds and signs a presentation over the selected
// credentials, carrying the request nonce as challenge and the verifier id
// as audience, and encodes it as a vp_token parameter on the verifier's
// redirect URI. The request state, when present, is carried through.
func (s *Service) BuildResponse(req *domain.PresentationRequest, selected []domain.Credential, holderDID string) (string, error) {
	if req.RedirectURI == "" {
		return "", fmt.Errorf("%w: request has no redirect_uri", domain.ErrValidationFailed)
	}
	pres, err := s.creds.CreatePresentation(selected, holderDID, req.Nonce, req.VerifierID)
	if err != nil {
		return "", err
	}
	signed, err := s.creds.SignPresentation(pres, holderDID)
	if err != nil {
		return "", err
	}
	token, err := json.Marshal(signed)
	if err != nil {
		return "", err
	}

	redirect, err := url.Parse(req.RedirectURI)
	if err != nil {
		return "", fmt.Errorf("%w: bad redirect_uri: %v", domain.ErrValidationFailed, err)
	}
	q := redirect.Query()
	q.Set("vp_token", string(token))
	if req.State != "" {
		q.Set("state", req.State)
	}
	redirect.RawQuery = q.Encode()

	if err := s.sess.AppendActivity(domain.ActivityLogEntry{
		Kind:       domain.ActivityPresentationShared,
		Details:    map[string]string{"verifier": req.VerifierID, "credentials": fmt.Sprint(len(selected))},
		RelatedDID: holderDID,
	}); err != nil {
		return "", err
	}
	logger.Infof("presentation with %d credential(s) shared with %s", len(selected), req.VerifierID)
	return redirect.String(), nil
}
