package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/spf13/cobra"
)

func newLeadTimeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leadtime",
		Short: "Feed lead-time intelligence into a site",
	}
	cmd.AddCommand(newLeadTimeSetCmd(app), newLeadTimeISOCmd(app))
	return cmd
}

func newLeadTimeSetCmd(app *App) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:     "set <site> KEY=WEEKS...",
		Short:   "Override lead times by lead_time_key",
		Example: "  critpath leadtime set abilene transformer=182 breakers_hv=70",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := parseWeekPairs(args[1:])
			if err != nil {
				return err
			}
			resp, err := app.Sites.ApplyLeadTimes(context.Background(), contract.LeadTimeRequest{
				Site:    args[0],
				Source:  source,
				Updates: updates,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadTimes(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "manual", "Where the figures came from")
	return cmd
}

func newLeadTimeISOCmd(app *App) *cobra.Command {
	var source, iso string

	cmd := &cobra.Command{
		Use:     "iso <site> STUDY=WEEKS...",
		Short:   "Apply an ISO's published study timeline",
		Example: "  critpath leadtime iso abilene --iso PJM sis_weeks=52 fs_weeks=30",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeline, err := parseWeekPairs(args[1:])
			if err != nil {
				return err
			}
			resp, err := app.Sites.ApplyLeadTimes(context.Background(), contract.LeadTimeRequest{
				Site:     args[0],
				Source:   source,
				ISO:      iso,
				Timeline: timeline,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadTimes(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&iso, "iso", "", "ISO/RTO the timeline belongs to")
	cmd.Flags().StringVar(&source, "source", "iso queue report", "Where the figures came from")
	_ = cmd.MarkFlagRequired("iso")
	return cmd
}
