// Package domain defines the keychain's data model and component contracts.
// It contains plain types (identities, credentials, offers, requests),
// typed sentinel errors, and the interfaces wired between components.
package domain
