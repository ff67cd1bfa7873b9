package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/store"
)

func recoverCmd() *cobra.Command {
	var mnemonic string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Rebuild an identity from its recovery phrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if mnemonic == "" {
				return fmt.Errorf("recovery phrase required (--mnemonic)")
			}
			if freshVault {
				if err := store.ValidateSecret(passphrase); err != nil {
					return err
				}
			}
			id, err := appCtx.Identities.Recover(mnemonic, nil)
			if err != nil {
				return err
			}
			fmt.Printf("Identity recovered.\nDID: %s\n", id.DID)
			return nil
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "BIP-39 recovery phrase")
	return cmd
}
