package domain

// GrantType selects how the holder is expected to authorize against the
// issuer's token endpoint.
type GrantType string

const (
	GrantAuthorizationCode GrantType = "authorization_code"
	GrantPreAuthorizedCode GrantType = "urn:ietf:params:oauth:grant-type:pre-authorized_code"
)

// Grant is the authorization variant carried by a credential offer.
type Grant struct {
	Type              GrantType `json:"type"`
	PreAuthorizedCode string    `json:"preAuthorizedCode,omitempty"`
	PINRequired       bool      `json:"pinRequired,omitempty"`
}

// CredentialOffer is an issuer's invitation to request one or more
// credential types.
type CredentialOffer struct {
	IssuerEndpoint string   `json:"issuerEndpoint"`
	OfferedTypes   []string `json:"offeredTypes"`
	Grant          Grant    `json:"grant"`
}

// OfferEnvelope is the result of parsing an offer URI. Exactly one field is
// set: Offer for the inline credential_offer variant, RemoteURI for the
// by-reference credential_offer_uri variant, which is recognized but never
// fetched here.
type OfferEnvelope struct {
	Offer     *CredentialOffer
	RemoteURI string
}

// PresentationRequest is a verifier's parsed authorization request.
type PresentationRequest struct {
	ResponseType string
	VerifierID   string
	RedirectURI  string
	Scope        string
	State        string
	Nonce        string
	Definition   *PresentationDefinition
}

// PresentationDefinition describes what a verifier is asking for.
type PresentationDefinition struct {
	ID               string            `json:"id"`
	InputDescriptors []InputDescriptor `json:"input_descriptors"`
}

// InputDescriptor names one requested credential shape. Matching against
// held credentials goes through the descriptor ID.
type InputDescriptor struct {
	ID          string      `json:"id"`
	Constraints Constraints `json:"constraints,omitempty"`
}

// Constraints restricts which claim fields a descriptor is interested in.
type Constraints struct {
	Fields []FieldConstraint `json:"fields,omitempty"`
}

// FieldConstraint is a JSONPath-style pointer into the claim set.
type FieldConstraint struct {
	Path []string `json:"path"`
}
