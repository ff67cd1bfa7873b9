// Package commands defines the keychain CLI surface. Each command runs
// against an unlocked vault session built in the root command's
// PersistentPreRunE and locked again on exit.
package commands
