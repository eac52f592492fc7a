package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/spf13/cobra"
)

func newScenarioCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Evaluate what-if scenarios without changing the stored schedule",
	}

	cmd.AddCommand(
		newScenarioPredefinedCmd(app),
		newScenarioRunCmd(app),
		newScenarioListCmd(app),
		newScenarioRemoveCmd(app),
	)

	return cmd
}

func newScenarioPredefinedCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "predefined",
		Short: "List the predefined scenario library",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatPredefinedScenarios(app.Scenarios.Predefined()))
			return nil
		},
	}
}

func newScenarioRunCmd(app *App) *cobra.Command {
	var (
		predefined, name, description string
		overrides                     overrideList
		save                          bool
	)

	cmd := &cobra.Command{
		Use:   "run <site>",
		Short: "Compare a scenario against the site's baseline",
		Example: `  critpath scenario run abilene --predefined "Early Transformer Procurement"
  critpath scenario run abilene --override POST-EQ-02.duration=130 --override config.iso=PJM --name "PJM move" --save
  critpath scenario run abilene --name "PJM move"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := app.Scenarios.Evaluate(context.Background(), contract.ScenarioRequest{
				Site:        args[0],
				Predefined:  predefined,
				Name:        name,
				Description: description,
				Overrides:   overrides,
				Save:        save,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScenario(resp))
			return nil
		},
	}

	cmd.Flags().StringVar(&predefined, "predefined", "", "Name of a predefined scenario")
	cmd.Flags().Var(&overrides, "override", "MILESTONE.field=value or config.key=value (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "Scenario name; alone, runs a saved scenario")
	cmd.Flags().StringVar(&description, "description", "", "Scenario description")
	cmd.Flags().BoolVar(&save, "save", false, "Save the scenario to the site")
	cmd.MarkFlagsMutuallyExclusive("predefined", "override")

	return cmd
}

func newScenarioListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <site>",
		Short: "List a site's saved scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarios, err := app.Scenarios.List(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSavedScenarios(args[0], scenarios))
			return nil
		},
	}
}

func newScenarioRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <site> <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved scenario",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Scenarios.Delete(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed scenario %s from %s\n", args[1], args[0])
			return nil
		},
	}
}
