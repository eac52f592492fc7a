package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/spf13/cobra"
)

func newSyncCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull progress from external trackers",
	}
	cmd.AddCommand(newSyncStatusCmd(app))
	return cmd
}

func newSyncStatusCmd(app *App) *cobra.Command {
	var (
		source string
		phases map[string]string
	)

	cmd := &cobra.Command{
		Use:   "status <site>",
		Short: "Apply tracker phase statuses to milestones",
		Example: `  critpath sync status abilene --phase power=Executed --phase site_control=Option
  critpath sync status abilene --source document --phase zoning=approved`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := intake.Source(source)
			if !slices.Contains(intake.Sources(), src) {
				return fmt.Errorf("unknown --source %q (expected one of %v)", source, intake.Sources())
			}
			if len(phases) == 0 {
				return fmt.Errorf("at least one --phase PHASE=STATUS is required")
			}
			req := contract.NewStatusSyncRequest(args[0], phases)
			req.Source = src
			resp, err := app.Sites.SyncStatus(context.Background(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatStatusSync(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", string(intake.SourceTracker), "Status vocabulary of the source")
	cmd.Flags().StringToStringVar(&phases, "phase", nil, "PHASE=STATUS pair (repeatable)")
	return cmd
}
