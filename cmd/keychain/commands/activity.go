package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shakams434/sovereign-keychain/internal/domain"
)

func activityCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show the vault activity log",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := appCtx.Session.Activities()
			if err != nil {
				return err
			}
			for _, e := range entries {
				if kind != "" && e.Kind != domain.ActivityKind(kind) {
					continue
				}
				fmt.Printf("%s  %-22s %s\n", e.Timestamp.Format(time.RFC3339), e.Kind, e.RelatedDID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show entries of this kind")
	return cmd
}
