package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func credentialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "List credentials held in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := appCtx.Session.ListCredentials()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  type=%s issuer=%s status=%s\n",
					e.Key, e.Labels["type"], e.Labels["issuer"], e.Labels["status"])
			}
			if len(entries) == 0 {
				fmt.Println("No credentials held.")
			}
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <credential-id>",
		Short: "Verify a held credential's proof",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cred, err := appCtx.Session.GetCredential(args[0])
			if err != nil {
				return err
			}
			if appCtx.Credentials.VerifyCredential(cred) {
				fmt.Println("Credential verifies.")
				if appCtx.Credentials.IsExpired(cred) {
					fmt.Println("Warning: credential is expired.")
				}
				return nil
			}
			return appCtx.Credentials.DiagnoseCredential(cred)
		},
	}
}
