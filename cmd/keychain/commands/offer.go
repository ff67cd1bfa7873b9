package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/services/exchange"
)

func offerCmd() *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "offer <offer-uri>",
		Short: "Accept a credential offer from an issuer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := appCtx.Exchange.ParseOffer(args[0])
			if err != nil {
				return err
			}
			if env.RemoteURI != "" {
				return fmt.Errorf("offer is by reference (%s); fetching remote offers is not supported", env.RemoteURI)
			}
			holder := appCtx.Session.ActiveDID()
			if holder == "" {
				return fmt.Errorf("no active identity; run 'keychain init' first")
			}

			result, err := appCtx.Exchange.AcceptOffer(cmd.Context(), env.Offer, holder, exchange.AcceptOptions{PIN: pin})
			if err != nil {
				return err
			}
			for _, o := range result.Outcomes {
				if o.Err != nil {
					fmt.Printf("%-40s %s (%v)\n", o.Type, o.State, o.Err)
				} else {
					fmt.Printf("%-40s stored\n", o.Type)
				}
			}
			fmt.Printf("%d stored, %d failed\n", result.Stored, result.Failed)
			return nil
		},
	}
	cmd.Flags().StringVar(&pin, "pin", "", "user PIN for pre-authorized offers")
	return cmd
}
