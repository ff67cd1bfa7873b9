package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/app"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

var (
	home       string
	passphrase string
	appCtx     *app.App

	// freshVault is true when no vault existed before this invocation, so
	// commands creating one can enforce the secret strength policy.
	freshVault bool
)

func Execute() error {
	root := &cobra.Command{
		Use:   "keychain",
		Short: "Self-sovereign identity wallet CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".keychain")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			freshVault = !store.New(home).Initialized()

			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}
			appCtx, err = app.New(cfg, passphrase)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if appCtx != nil && appCtx.Session != nil {
				appCtx.Session.Lock()
			}
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "vault dir (default ~/.keychain)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "vault secret")

	root.AddCommand(
		initCmd(), recoverCmd(), identitiesCmd(), useCmd(),
		credentialsCmd(), verifyCmd(),
		offerCmd(), presentCmd(),
		exportCmd(), importCmd(), activityCmd(),
	)
	return root.Execute()
}
