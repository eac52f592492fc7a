package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/spf13/cobra"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the milestone catalog",
	}
	cmd.AddCommand(newCatalogListCmd(app), newCatalogShowCmd(app))
	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	var workstream string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List milestone templates in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			var templates []domain.MilestoneTemplate
			for _, id := range app.Catalog.TopologicalIDs() {
				t, _ := app.Catalog.Template(id)
				if workstream != "" && !strings.EqualFold(string(t.Workstream), workstream) {
					continue
				}
				templates = append(templates, t)
			}
			if len(templates) == 0 {
				return fmt.Errorf("no milestones in workstream %q", workstream)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCatalog(app.Catalog.Version(), templates))
			return nil
		},
	}

	cmd.Flags().StringVar(&workstream, "workstream", "", "Only list one workstream, e.g. \"Equipment Procurement\"")
	return cmd
}

func newCatalogShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <milestone-id>",
		Short: "Show one milestone template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.ToUpper(strings.TrimSpace(args[0]))
			t, ok := app.Catalog.Template(id)
			if !ok {
				return &domain.LookupError{Kind: "milestone", ID: id}
			}
			var lt *domain.LeadTime
			if t.LeadTimeKey != "" {
				if v, ok := app.Catalog.LeadTime(t.LeadTimeKey); ok {
					lt = &v
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplate(t, lt))
			return nil
		},
	}
}
