package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/domain"
	"github.com/shakams434/sovereign-keychain/internal/store"
)

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the decrypted vault as a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("output path required (--out)")
			}
			snap, err := appCtx.Session.Export()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(snap, "", "  ")
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o600); err != nil {
				return err
			}
			fmt.Printf("Exported %d identities, %d credentials, %d activities to %s\n",
				len(snap.Identities), len(snap.Credentials), len(snap.Activities), out)
			fmt.Println("The snapshot is plaintext; handle it like a private key.")
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "snapshot file to write")
	return cmd
}

func importCmd() *cobra.Command {
	var in, newSecret string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Atomically replace the vault with a snapshot file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in == "" {
				return fmt.Errorf("input path required (--in)")
			}
			if newSecret == "" {
				newSecret = passphrase
			}
			if err := store.ValidateSecret(newSecret); err != nil {
				return err
			}
			data, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			var snap domain.Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("%w: snapshot is not valid JSON: %v", domain.ErrValidationFailed, err)
			}
			if err := appCtx.Vault.Import(snap, newSecret); err != nil {
				return err
			}
			fmt.Printf("Imported %d identities and %d credentials.\n", len(snap.Identities), len(snap.Credentials))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "", "snapshot file to read")
	cmd.Flags().StringVar(&newSecret, "new-passphrase", "", "secret for the rebuilt vault (default: current passphrase)")
	return cmd
}
