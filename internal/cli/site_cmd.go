package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/alexanderramin/critpath/internal/cli/formatter"
	"github.com/alexanderramin/critpath/internal/codec"
	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/spf13/cobra"
)

func newSiteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site",
		Short: "Manage sites",
	}

	cmd.AddCommand(
		newSiteInitCmd(app),
		newSiteListCmd(app),
		newSiteShowCmd(app),
		newSiteTargetCmd(app),
		newSiteImportCmd(app),
		newSiteRemoveCmd(app),
	)

	return cmd
}

func newSiteInitCmd(app *App) *cobra.Command {
	var (
		name, iso, start, target string
		mw, voltage              int
		btm, interactive         bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a site and compute its first schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			if interactive {
				if !app.interactive() {
					return fmt.Errorf("--interactive needs a terminal")
				}
				in := siteFormInput{Name: name, ISO: iso, Start: start, Target: target, BTM: btm}
				if mw > 0 {
					in.MW = fmt.Sprint(mw)
				}
				req, err := runSiteForm(app.Catalog, in)
				if err != nil {
					return err
				}
				return createSite(cmd, app, req)
			}

			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name is required")
			}
			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			targetDate, err := parseOptionalDate("target", target)
			if err != nil {
				return err
			}
			return createSite(cmd, app, contract.CreateSiteRequest{
				Name:               name,
				TargetMW:           mw,
				VoltageKV:          voltage,
				ISO:                iso,
				IncludeBTM:         btm,
				ProjectStart:       startDate,
				TargetEnergization: targetDate,
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Site name")
	cmd.Flags().IntVar(&mw, "mw", 0, "Target load in MW")
	cmd.Flags().StringVar(&iso, "iso", "", "ISO/RTO, e.g. ERCOT, PJM (default SPP)")
	cmd.Flags().IntVar(&voltage, "voltage", 0, "Interconnection voltage in kV (derived from MW when omitted)")
	cmd.Flags().StringVar(&start, "start", "", "Project start date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&target, "target", "", "Target energization date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&btm, "btm", false, "Include behind-the-meter generation milestones")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Fill in the site details with a form")

	return cmd
}

func createSite(cmd *cobra.Command, app *App, req contract.CreateSiteRequest) error {
	res, err := app.Sites.Create(context.Background(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created site %s\n", res.SiteName)
	fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleSummary(res))
	return nil
}

func newSiteListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sites",
		RunE: func(cmd *cobra.Command, args []string) error {
			sites, err := app.Sites.List(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSiteList(sites))
			return nil
		},
	}
}

func newSiteShowCmd(app *App) *cobra.Command {
	var asJSON, pager bool

	cmd := &cobra.Command{
		Use:   "show <site>",
		Short: "Show a site's stored schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			if asJSON {
				st, err := app.Sites.Get(ctx, args[0])
				if err != nil {
					return err
				}
				b, err := codec.MarshalIndent(st.Data)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(b))
				return nil
			}

			res, err := app.Sites.Show(ctx, args[0])
			if err != nil {
				return err
			}
			out := formatter.FormatSchedule(res)
			if pager && app.interactive() {
				return runPager(res.SiteName, out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the stored schedule document")
	cmd.Flags().BoolVar(&pager, "pager", false, "Open the schedule in a scrollable viewer")
	cmd.MarkFlagsMutuallyExclusive("json", "pager")

	return cmd
}

func newSiteTargetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "target <site> <YYYY-MM-DD|none>",
		Short: "Set or clear the target energization date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := args[1]
			if strings.EqualFold(raw, "none") {
				raw = ""
			}
			target, err := parseOptionalDate("target", raw)
			if err != nil {
				return err
			}
			res, err := app.Sites.SetTarget(context.Background(), args[0], target)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatScheduleSummary(res))
			return nil
		},
	}
}

func newSiteImportCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a site from a schedule document (current or legacy layout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			res, err := app.Sites.Import(context.Background(), name, b)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported site %s", res.Schedule.SiteName)
			if res.Legacy {
				fmt.Fprintf(out, " from a legacy document with %d scenarios", res.Scenarios)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, formatter.FormatScheduleSummary(&res.Schedule))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Site name (defaults to the document's site_id)")
	return cmd
}

func newSiteRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <site>",
		Aliases: []string{"rm"},
		Short:   "Delete a site and its saved scenarios",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sites.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed site %s\n", args[0])
			return nil
		},
	}
}
