package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func identitiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "identities",
		Short: "List identities held in the vault",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := appCtx.Session.ListIdentities()
			if err != nil {
				return err
			}
			active := appCtx.Session.ActiveDID()
			for _, e := range entries {
				marker := " "
				if e.Key == active {
					marker = "*"
				}
				name := e.Labels["name"]
				fmt.Printf("%s %s  %s\n", marker, e.Key, name)
			}
			if len(entries) == 0 {
				fmt.Println("No identities. Run 'keychain init' first.")
			}
			return nil
		},
	}
}

func useCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <did>",
		Short: "Set the active identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Session.SetActiveDID(args[0]); err != nil {
				return err
			}
			fmt.Printf("Active identity: %s\n", args[0])
			return nil
		},
	}
}
