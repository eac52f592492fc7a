package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/domain"
	"github.com/alexanderramin/critpath/internal/repository"
	"github.com/charmbracelet/lipgloss"
)

const (
	scheduleProgressWidth = 16
	defaultGanttWidth     = 48
)

// FormatSiteList renders stored site summaries.
func FormatSiteList(sites []repository.SiteSummary) string {
	if len(sites) == 0 {
		return Dim("No sites yet. Create one with: critpath site init --name NAME") + "\n"
	}
	rows := make([][]string, 0, len(sites))
	for _, s := range sites {
		rows = append(rows, []string{
			Bold(s.Name),
			TruncID(s.ID),
			fmt.Sprintf("%d MW", s.TargetMW),
			s.ISO,
			FormatDate(s.Energization),
			FormatWeeks(s.TotalWeeks),
			RiskIndicator(s.ScheduleRisk),
			s.PrimaryDriver,
		})
	}
	cols := []Column{
		{Title: "NAME"}, {Title: "ID"}, {Title: "LOAD", Right: true}, {Title: "ISO"},
		{Title: "ENERGIZATION"}, {Title: "WEEKS", Right: true}, {Title: "RISK"}, {Title: "DRIVER"},
	}
	return RenderBox("Sites", RenderTable(cols, rows))
}

// FormatScheduleSummary renders the headline card of a computed schedule.
func FormatScheduleSummary(res *contract.ScheduleResult) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(res.SiteName) + "  " + TruncID(res.SiteID) + "\n\n")

	fmt.Fprintf(&b, "%s  %d MW · %d kV · %s\n", label("site"), res.TargetMW, res.VoltageKV, res.ISO)
	fmt.Fprintf(&b, "%s  %s\n", label("start"), FormatDate(res.ProjectStart))
	fmt.Fprintf(&b, "%s  %s  %s\n", label("energization"), Bold(FormatDate(res.Energization)), Dim("("+FormatWeeks(res.TotalWeeks)+")"))
	fmt.Fprintf(&b, "%s  %s", label("risk"), RiskIndicator(res.ScheduleRisk))
	if res.DurationRisk != "" && res.DurationRisk != res.ScheduleRisk {
		b.WriteString(Dim(fmt.Sprintf("  duration %s", res.DurationRisk)))
	}
	b.WriteString("\n")
	if a := res.Alignment; a != nil {
		verdict := StyleGreen.Render("aligned")
		if !a.Aligned {
			verdict = RiskColor(a.Level).Render(fmt.Sprintf("%d days late", a.DeltaDays))
		}
		fmt.Fprintf(&b, "%s  %s  %s\n", label("target"), a.TargetDate.Format(dateLayout), verdict)
	}
	if res.PrimaryDriver != "" {
		fmt.Fprintf(&b, "%s  %s %s %s\n", label("driver"), res.PrimaryDriver, res.PrimaryDriverName, Dim("("+string(res.PrimaryDriverWorkstream)+")"))
	}
	fmt.Fprintf(&b, "%s  %s\n", label("complete"), RenderProgress(completion(res), scheduleProgressWidth))
	if res.LastCalculated != nil {
		fmt.Fprintf(&b, "%s  %s %s\n", label("calculated"), res.LastCalculated.Format(time.RFC3339), Dim("catalog "+res.CatalogVersion))
	}
	if len(res.Reconciled) > 0 {
		b.WriteString("\n" + StyleYellow.Render(fmt.Sprintf("Added %d milestones from catalog %s: %s", len(res.Reconciled), res.CatalogVersion, strings.Join(res.Reconciled, ", "))) + "\n")
	}
	return RenderBox("Schedule", b.String())
}

func completion(res *contract.ScheduleResult) float64 {
	active, done := 0, 0
	for _, row := range res.Milestones {
		if !row.Active {
			continue
		}
		active++
		if row.Status == domain.StatusComplete {
			done++
		}
	}
	if active == 0 {
		return 0
	}
	return float64(done) / float64(active)
}

// FormatScheduleTable renders every active milestone in schedule order.
// Milestones on the critical path are marked with ▶.
func FormatScheduleTable(res *contract.ScheduleResult) string {
	rows := make([][]string, 0, len(res.Milestones))
	for _, m := range res.Milestones {
		if !m.Active {
			continue
		}
		mark := " "
		id := m.MilestoneID
		if m.OnPath {
			mark = StyleRed.Render("▶")
			id = StyleRed.Render(id)
		}
		rows = append(rows, []string{
			mark + " " + id,
			m.Name,
			Dim(string(m.Workstream)),
			StatusPill(m.Status),
			FormatWeeks(m.Weeks),
			FormatDate(m.TargetStart),
			FormatDate(m.TargetEnd),
			FormatFloat(m.FloatWeeks),
		})
	}
	cols := []Column{
		{Title: "  ID"}, {Title: "MILESTONE"}, {Title: "WORKSTREAM"}, {Title: "STATUS"},
		{Title: "WEEKS", Right: true}, {Title: "START"}, {Title: "END"}, {Title: "FLOAT", Right: true},
	}
	return RenderTable(cols, rows)
}

// FormatCriticalPath lists the driving chain from project start to
// energization.
func FormatCriticalPath(res *contract.ScheduleResult) string {
	if len(res.CriticalPath) == 0 {
		return Dim("No critical path computed.") + "\n"
	}
	byID := make(map[string]contract.ScheduleRow, len(res.Milestones))
	for _, m := range res.Milestones {
		byID[m.MilestoneID] = m
	}
	var b strings.Builder
	b.WriteString(Header("Critical path") + "\n")
	for i, id := range res.CriticalPath {
		m := byID[id]
		arrow := "│"
		if i == len(res.CriticalPath)-1 {
			arrow = "└"
		}
		fmt.Fprintf(&b, "%s %-12s %-48s %5s  %s\n",
			Dim(arrow), StyleRed.Render(id), m.Name, FormatWeeks(m.Weeks), FormatDate(m.TargetEnd))
	}
	return b.String()
}

// FormatNotes renders recompute notes in stored order.
func FormatNotes(notes []domain.Note) string {
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(Header("Notes") + "\n")
	for _, n := range notes {
		style := StyleDim
		if n.Severity == domain.SeverityMedium {
			style = StyleYellow
		}
		prefix := ""
		if n.MilestoneID != "" {
			prefix = n.MilestoneID + ": "
		}
		b.WriteString(style.Render("  • "+prefix+n.Message) + "\n")
	}
	return b.String()
}

// FormatSchedule renders the full schedule view: summary card, critical
// path, Gantt chart, milestone table and notes.
func FormatSchedule(res *contract.ScheduleResult) string {
	parts := []string{
		FormatScheduleSummary(res),
		FormatCriticalPath(res),
		FormatGantt(res, defaultGanttWidth),
		FormatScheduleTable(res),
	}
	if notes := FormatNotes(res.Notes); notes != "" {
		parts = append(parts, notes)
	}
	return strings.Join(parts, "\n")
}

// FormatGantt draws one bar per active milestone, grouped by workstream in
// catalog display order, scaled so the project span fills width columns.
// Critical bars are solid; others are shaded.
func FormatGantt(res *contract.ScheduleResult, width int) string {
	if res.ProjectStart == nil || res.Energization == nil {
		return ""
	}
	width = max(width, 10)
	span := max(domain.WeeksBetween(*res.ProjectStart, *res.Energization), 1)
	col := func(t time.Time) int {
		c := domain.WeeksBetween(*res.ProjectStart, t) * width / span
		return min(max(c, 0), width)
	}

	grouped := res.ByWorkstream()
	var b strings.Builder
	b.WriteString(Header("Timeline") + "\n")
	fmt.Fprintf(&b, "%-14s %s%s%s\n", "", FormatDate(res.ProjectStart),
		strings.Repeat(" ", max(width-2*len(dateLayout), 1)), FormatDate(res.Energization))

	for _, ws := range domain.Workstreams {
		rows := grouped[ws]
		if len(rows) == 0 {
			continue
		}
		b.WriteString(StylePurple.Render(string(ws)) + "\n")
		for _, m := range rows {
			if m.TargetStart == nil || m.TargetEnd == nil {
				continue
			}
			from, to := col(*m.TargetStart), col(*m.TargetEnd)
			if to == from && to < width {
				to++
			}
			bar := strings.Repeat("▒", to-from)
			if m.OnPath {
				bar = StyleRed.Render(strings.Repeat("█", to-from))
			} else if m.Status == domain.StatusComplete {
				bar = StyleDim.Render(bar)
			} else {
				bar = StyleBlue.Render(bar)
			}
			line := strings.Repeat(" ", from) + bar
			pad := max(width-lipgloss.Width(line), 0)
			fmt.Fprintf(&b, "  %-12s %s%s %s\n", m.MilestoneID, line, strings.Repeat(" ", pad), Dim(FormatWeeks(m.Weeks)))
		}
	}
	return b.String()
}
