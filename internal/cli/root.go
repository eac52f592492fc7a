package cli

import (
	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Sites     service.SiteService
	Scenarios service.ScenarioService
	Portfolio service.PortfolioService
	Catalog   *catalog.Catalog

	// MinConfidence is the default document-scan threshold.
	MinConfidence float64

	// IsInteractive reports whether stdin is a terminal. Forms and the
	// pager are only offered when it returns true.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "critpath" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "critpath",
		Short:         "Critical path to energization for data-center sites",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newCatalogCmd(app),
		newSiteCmd(app),
		newScheduleCmd(app),
		newSyncCmd(app),
		newLeadTimeCmd(app),
		newScanCmd(app),
		newScenarioCmd(app),
		newExportCmd(app),
		newPortfolioCmd(app),
	)

	return root
}
