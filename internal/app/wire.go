package app

import (
	"net/http"

	"github.com/trustbloc/edge-core/pkg/log"

	"github.com/shakams434/sovereign-keychain/internal/domain"
	"github.com/shakams434/sovereign-keychain/internal/issuer"
	credentialsvc "github.com/shakams434/sovereign-keychain/internal/services/credential"
	exchangesvc "github.com/shakams434/sovereign-keychain/internal/services/exchange"
	identitysvc "github.com/shakams434/sovereign-keychain/internal/services/identity"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

// App bundles the vault session and services for the CLI.
type App struct {
	Vault       domain.Vault
	Session     domain.Session
	Identities  domain.IdentityService
	Credentials domain.CredentialService
	Exchange    *exchangesvc.Service
	Issuer      domain.IssuerClient
}

// monitored log modules, kept in sync with each package's log.New name.
var logModules = []string{"keychain-store", "keychain-exchange", "keychain-issuer"}

// New constructs the dependency graph from cfg and unlocks the vault with
// secret. The secret is not validated here; a wrong one surfaces on the
// first decrypting read.
func New(cfg Config, secret string) (*App, error) {
	setLogLevels(cfg.LogLevel)

	vault := store.New(cfg.Home)
	sess, err := vault.Unlock(secret)
	if err != nil {
		return nil, err
	}

	ids := identitysvc.New(sess)
	creds := credentialsvc.New(ids)
	issuerClient := issuer.NewHTTP(&http.Client{Timeout: cfg.IssuerTimeout})
	exchange := exchangesvc.New(sess, creds, issuerClient)

	return &App{
		Vault:       vault,
		Session:     sess,
		Identities:  ids,
		Credentials: creds,
		Exchange:    exchange,
		Issuer:      issuerClient,
	}, nil
}

func setLogLevels(level string) {
	parsed := log.INFO
	switch level {
	case "debug":
		parsed = log.DEBUG
	case "warn":
		parsed = log.WARNING
	case "error":
		parsed = log.ERROR
	}
	for _, module := range logModules {
		log.SetLevel(module, parsed)
	}
}
