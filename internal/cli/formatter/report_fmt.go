package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/critpath/internal/contract"
	"github.com/alexanderramin/critpath/internal/intake"
)

func energizationLine(s contract.ScheduleResult) string {
	return fmt.Sprintf("%s %s  %s  %s\n", label("energization"), Bold(FormatDate(s.Energization)),
		Dim(FormatWeeks(s.TotalWeeks)), RiskIndicator(s.ScheduleRisk))
}

func formatRejections(rejected []intake.Rejection) string {
	var b strings.Builder
	for _, r := range rejected {
		fmt.Fprintf(&b, "%s%s %s\n", StyleRed.Render("  ✖ "), r.Ref, Dim(fmt.Sprintf("[%s] %s", r.Kind, r.Reason)))
	}
	return b.String()
}

// FormatStatusSync reports the statuses changed by a tracker sync.
func FormatStatusSync(resp *contract.StatusSyncResponse) string {
	var b strings.Builder
	if len(resp.Changes) == 0 {
		b.WriteString(Dim("No status changes.") + "\n")
	}
	for _, c := range resp.Changes {
		fmt.Fprintf(&b, "  %-12s %s → %s %s\n", c.MilestoneID, StatusPill(c.From), StatusPill(c.To), Dim("("+strings.Join(c.Phases, ", ")+")"))
	}
	b.WriteString(formatRejections(resp.Rejected))
	b.WriteString("\n" + energizationLine(resp.Schedule))
	return RenderBox("Status sync · "+resp.Schedule.SiteName, b.String())
}

// FormatLeadTimes reports merged lead-time intelligence.
func FormatLeadTimes(resp *contract.LeadTimeResponse) string {
	var b strings.Builder
	keys := make([]string, 0, len(resp.Applied))
	for k := range resp.Applied {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%s%-24s %s\n", StyleGreen.Render("  ✔ "), k, FormatWeeks(resp.Applied[k]))
	}
	b.WriteString(formatRejections(resp.Rejected))
	for _, n := range resp.Notes {
		b.WriteString(Dim("  • "+n.Message) + "\n")
	}
	b.WriteString("\n" + energizationLine(resp.Schedule))
	return RenderBox("Lead times · "+resp.Schedule.SiteName, b.String())
}

// FormatDocumentScan reports which document updates were applied.
func FormatDocumentScan(resp *contract.DocumentScanResponse) string {
	var b strings.Builder
	for _, u := range resp.Applied {
		fmt.Fprintf(&b, "%s%-12s %-16s %v %s\n", StyleGreen.Render("  ✔ "), u.MilestoneID, u.UpdateType, u.NewValue, Dim(fmt.Sprintf("%.2f", u.Confidence)))
	}
	for _, r := range resp.Rejected {
		fmt.Fprintf(&b, "%s%-12s %-16s %v %s\n", StyleRed.Render("  ✖ "), r.Update.MilestoneID, r.Update.UpdateType, r.Update.NewValue, Dim(fmt.Sprintf("[%s] %s", r.Kind, r.Reason)))
	}
	if len(resp.Applied)+len(resp.Rejected) == 0 {
		b.WriteString(Dim("No updates found.") + "\n")
	}
	b.WriteString("\n" + energizationLine(resp.Schedule))
	return RenderBox("Document scan · "+resp.Schedule.SiteName, b.String())
}
