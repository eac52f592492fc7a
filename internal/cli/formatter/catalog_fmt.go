package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/critpath/internal/domain"
)

// FormatCatalog lists milestone templates in the given order.
func FormatCatalog(version string, templates []domain.MilestoneTemplate) string {
	rows := make([][]string, 0, len(templates))
	for _, t := range templates {
		id := t.ID
		if t.Terminal {
			id = StyleHeader.Render(id)
		}
		rows = append(rows, []string{
			id,
			t.Name,
			Dim(string(t.Workstream)),
			string(t.Owner),
			fmt.Sprintf("%d/%d/%d", t.DurationMin, t.DurationTypical, t.DurationMax),
			Dim(strings.Join(t.Predecessors, ", ")),
		})
	}
	cols := []Column{
		{Title: "ID"}, {Title: "MILESTONE"}, {Title: "WORKSTREAM"}, {Title: "OWNER"},
		{Title: "WEEKS", Right: true}, {Title: "AFTER"},
	}
	return RenderBox(fmt.Sprintf("Catalog %s · %d milestones", version, len(templates)), RenderTable(cols, rows))
}

// FormatTemplate renders one milestone template in detail.
func FormatTemplate(t domain.MilestoneTemplate, leadTime *domain.LeadTime) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(t.ID+"  "+t.Name) + "\n")
	if t.Description != "" {
		b.WriteString(Dim(t.Description) + "\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %s · %s\n", label("phase"), t.Phase, t.Workstream)
	fmt.Fprintf(&b, "%s  %s %s\n", label("owner"), t.Owner, Dim("(control: "+string(t.Control)+")"))
	fmt.Fprintf(&b, "%s  min %d · typical %d · max %d weeks\n", label("duration"), t.DurationMin, t.DurationTypical, t.DurationMax)
	if t.LeadTimeKey != "" {
		lt := Dim("not in lead-time table")
		if leadTime != nil {
			lt = fmt.Sprintf("%d/%d/%d weeks", leadTime.Min, leadTime.Typical, leadTime.Max)
		}
		fmt.Fprintf(&b, "%s  %s %s\n", label("lead time"), t.LeadTimeKey, lt)
	}
	preds := Dim("none")
	if len(t.Predecessors) > 0 {
		preds = strings.Join(t.Predecessors, ", ")
	}
	fmt.Fprintf(&b, "%s  %s\n", label("after"), preds)

	var flags []string
	if t.CriticalDefault {
		flags = append(flags, "critical by default")
	}
	if t.Terminal {
		flags = append(flags, "terminal")
	}
	if t.Skippable {
		flags = append(flags, "skippable")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&b, "%s  %s\n", label("flags"), strings.Join(flags, ", "))
	}
	if len(t.AccelerationOptions) > 0 {
		b.WriteString("\n" + Header("Acceleration options") + "\n")
		for _, o := range t.AccelerationOptions {
			b.WriteString("  • " + o + "\n")
		}
	}
	return RenderBox("Milestone", b.String())
}
