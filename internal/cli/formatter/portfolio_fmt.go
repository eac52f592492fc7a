package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
)

// FormatPortfolio renders the cross-site summary.
func FormatPortfolio(sum *contract.PortfolioSummary) string {
	if sum.CountsTotal == 0 {
		return Dim("No sites in the portfolio.") + "\n"
	}

	rows := make([][]string, 0, len(sum.Sites))
	for _, s := range sum.Sites {
		driver := s.PrimaryDriver
		if s.PrimaryDriverWorkstream != "" {
			driver += " " + Dim("("+string(s.PrimaryDriverWorkstream)+")")
		}
		flags := ""
		if s.CatalogDrift {
			flags = StyleYellow.Render("catalog drift")
		}
		if s.Error != "" {
			flags = StyleRed.Render(s.Error)
		}
		rows = append(rows, []string{
			Bold(s.SiteName),
			FormatDate(s.Energization),
			FormatWeeks(s.TotalWeeks),
			RiskIndicator(s.ScheduleRisk),
			driver,
			flags,
		})
	}
	cols := []Column{
		{Title: "SITE"}, {Title: "ENERGIZATION"}, {Title: "WEEKS", Right: true},
		{Title: "RISK"}, {Title: "PRIMARY DRIVER"}, {Title: ""},
	}

	var b strings.Builder
	b.WriteString(RenderTable(cols, rows))
	b.WriteString("\n")

	counts := []string{
		StyleRed.Render(fmt.Sprintf("%d High", sum.CountsByRisk[domain.RiskHigh])),
		StyleYellow.Render(fmt.Sprintf("%d Medium", sum.CountsByRisk[domain.RiskMedium])),
		StyleGreen.Render(fmt.Sprintf("%d Low", sum.CountsByRisk[domain.RiskLow])),
	}
	fmt.Fprintf(&b, "%d sites: %s\n", sum.CountsTotal, strings.Join(counts, ", "))
	if sum.EarliestEnergizing != nil {
		fmt.Fprintf(&b, "%s  %s %s\n", label("earliest"), FormatDate(sum.EarliestEnergizing), sum.EarliestSite)
	}
	if sum.LatestEnergizing != nil {
		fmt.Fprintf(&b, "%s  %s %s\n", label("latest"), FormatDate(sum.LatestEnergizing), sum.LatestSite)
	}
	return RenderBox("Portfolio", b.String())
}
