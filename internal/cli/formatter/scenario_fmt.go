package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
)

// FormatPredefinedScenarios lists the what-if library.
func FormatPredefinedScenarios(scenarios []domain.Scenario) string {
	rows := make([][]string, 0, len(scenarios))
	for _, sc := range scenarios {
		targets := make([]string, len(sc.Overrides))
		for i, o := range sc.Overrides {
			targets[i] = o.Target()
		}
		rows = append(rows, []string{Bold(sc.Name), sc.Description, Dim(strings.Join(targets, ", "))})
	}
	return RenderBox("Predefined scenarios", RenderTable(Cols("NAME", "DESCRIPTION", "OVERRIDES"), rows))
}

// FormatSavedScenarios lists the scenarios stored for a site.
func FormatSavedScenarios(site string, scenarios []*domain.Scenario) string {
	if len(scenarios) == 0 {
		return Dim(fmt.Sprintf("No saved scenarios for %s.", site)) + "\n"
	}
	rows := make([][]string, 0, len(scenarios))
	for _, sc := range scenarios {
		rows = append(rows, []string{
			Bold(sc.Name),
			sc.Description,
			fmt.Sprintf("%d", len(sc.Overrides)),
			sc.CreatedAt.Format(dateLayout),
		})
	}
	cols := []Column{{Title: "NAME"}, {Title: "DESCRIPTION"}, {Title: "OVERRIDES", Right: true}, {Title: "SAVED"}}
	return RenderBox("Scenarios · "+site, RenderTable(cols, rows))
}

// FormatScenario renders a baseline/variant comparison with per-override
// outcomes and the milestones whose end date moved.
func FormatScenario(resp *contract.ScenarioResponse) string {
	c := resp.Comparison
	var b strings.Builder

	b.WriteString(Bold(resp.Scenario.Name))
	if resp.Saved {
		b.WriteString("  " + Dim("(saved)"))
	}
	b.WriteString("\n")
	if resp.Scenario.Description != "" {
		b.WriteString(Dim(resp.Scenario.Description) + "\n")
	}
	b.WriteString("\n")

	rows := [][]string{
		{"Energization", FormatDate(c.BaselineEnergization), FormatDate(c.VariantEnergization), FormatDelta(c.DeltaWeeks)},
		{"Duration", FormatWeeks(c.BaselineWeeks), FormatWeeks(c.VariantWeeks), FormatDelta(c.VariantWeeks - c.BaselineWeeks)},
		{"Risk", RiskIndicator(c.BaselineRisk), RiskIndicator(c.VariantRisk), ""},
		{"Primary driver", c.BaselineDriver, c.VariantDriver, ""},
	}
	cols := []Column{{Title: ""}, {Title: "BASELINE"}, {Title: "VARIANT"}, {Title: "DELTA", Right: true}}
	b.WriteString(RenderTable(cols, rows))

	if c.PathChanged {
		b.WriteString("\n" + StyleYellow.Render("Critical path changed") + "\n")
		b.WriteString(Dim("  was  ") + strings.Join(c.BaselinePath, " → ") + "\n")
		b.WriteString(Dim("  now  ") + strings.Join(c.VariantPath, " → ") + "\n")
	}

	if len(resp.Outcomes) > 0 {
		b.WriteString("\n" + Header("Overrides") + "\n")
		for _, o := range resp.Outcomes {
			if o.Applied {
				b.WriteString(StyleGreen.Render("  ✔ ") + o.Target + "\n")
				continue
			}
			fmt.Fprintf(&b, "%s%s %s\n", StyleRed.Render("  ✖ "), o.Target, Dim(fmt.Sprintf("[%s] %s", o.Kind, o.Reason)))
		}
	}

	if len(c.Milestones) > 0 {
		b.WriteString("\n" + Header("Moved milestones") + "\n")
		rows := make([][]string, 0, len(c.Milestones))
		for _, m := range c.Milestones {
			rows = append(rows, []string{m.MilestoneID, formatDays(m.DeltaDays)})
		}
		b.WriteString(RenderTable([]Column{{Title: "ID"}, {Title: "DAYS", Right: true}}, rows))
	}

	return RenderBox("Scenario", b.String())
}

func formatDays(d int) string {
	switch {
	case d < 0:
		return StyleGreen.Render(fmt.Sprintf("%d", d))
	case d > 0:
		return StyleRed.Render(fmt.Sprintf("+%d", d))
	default:
		return Dim("0")
	}
}
