package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/crypto"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

func initCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a new identity and store it in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			if freshVault {
				if err := store.ValidateSecret(passphrase); err != nil {
					return err
				}
			}
			meta := map[string]string{}
			if name != "" {
				meta["name"] = name
			}
			id, mnemonic, err := appCtx.Identities.Generate(meta)
			if err != nil {
				return err
			}
			fmt.Printf("Identity created.\nDID:         %s\nFingerprint: %s\n", id.DID, crypto.Fingerprint(id.PublicKey))
			fmt.Printf("\nRecovery phrase (write it down, it is not stored):\n%s\n", mnemonic)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name for the identity")
	return cmd
}
