package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPortfolioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Recompute every site and summarize energization risk",
		RunE: func(cmd *cobra.Command, args []string) error {
			sum, err := app.Portfolio.Summary(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPortfolio(sum))
			return nil
		},
	}
}
