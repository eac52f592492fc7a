package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newScheduleCmd(app *App) *cobra.Command {
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "schedule <site>",
		Short: "Recompute a site's schedule and store it",
		Long: "Recompute runs the forward and backward pass over the site's active milestones.\n" +
			"Milestones added to the catalog since the site was created are reconciled first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Sites.Recompute(context.Background(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if pathOnly {
				fmt.Fprint(out, formatter.FormatCriticalPath(res))
				return nil
			}
			fmt.Fprintln(out, formatter.FormatSchedule(res))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pathOnly, "path", false, "Only print the critical path")
	return cmd
}
