package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

func presentCmd() *cobra.Command {
	var selected []string

	cmd := &cobra.Command{
		Use:   "present <request-uri>",
		Short: "Answer a verifier's presentation request",
		Long: "Parses the request, filters held credentials against its presentation " +
			"definition, and (with --select) builds the signed response redirect URI. " +
			"Without --select it only lists the matching candidates.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := appCtx.Exchange.ParseRequest(args[0])
			if err != nil {
				return err
			}
			candidates, err := appCtx.Exchange.Candidates(req.Definition)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				fmt.Printf("Verifier %s requests credentials; %d candidate(s):\n", req.VerifierID, len(candidates))
				for _, c := range candidates {
					fmt.Printf("  %s  %v\n", c.ID, c.Type)
				}
				fmt.Println("Re-run with --select <id>[,<id>...] to share.")
				return nil
			}

			chosen := pick(candidates, selected)
			if len(chosen) != len(selected) {
				return fmt.Errorf("%w: some selected ids are not candidates", domain.ErrValidationFailed)
			}
			holder := appCtx.Session.ActiveDID()
			if holder == "" {
				return fmt.Errorf("no active identity")
			}
			redirect, err := appCtx.Exchange.BuildResponse(req, chosen, holder)
			if err != nil {
				return err
			}
			fmt.Println(redirect)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&selected, "select", nil, "credential ids to include")
	return cmd
}

func pick(candidates []domain.Credential, ids []string) []domain.Credential {
	byID := make(map[string]domain.Credential, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}
	var out []domain.Credential
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out
}
