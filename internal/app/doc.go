// Package app wires configuration, the vault, and the services into the
// dependency graph the CLI runs against.
package app
