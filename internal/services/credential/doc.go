// Package credential implements the verifiable credential and presentation
// engine: building, signing over a canonical serialization, and
// recovery-based verification.
//
// Verification outcomes are booleans, never errors: "does not verify" is an
// expected result the caller must check. Diagnose variants expose the
// distinguishing reason when callers need it.
package credential
