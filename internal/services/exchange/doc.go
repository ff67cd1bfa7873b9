// Package exchange drives the two credential exchange protocols.
//
// Issuance parses OpenID4VCI-style offer URIs, obtains raw claims from the
// external issuer collaborator, and commits one signed credential per
// offered type independently, so a failing type never rolls back a stored
// one.
//
// Presentation parses OpenID4VP-style request URIs, filters held
// credentials against the verifier's presentation definition, and encodes a
// signed presentation as a vp_token on the verifier's redirect URI.
package exchange
