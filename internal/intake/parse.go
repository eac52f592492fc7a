package intake

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/alexanderramin/critpath/internal/domain"
)

// ParsedConfidence is the confidence assigned to keyword matches.
const ParsedConfidence = 0.75

type docPattern struct {
	re          *regexp.Regexp
	milestoneID string
	extractWeek bool
}

var docPatterns = []docPattern{
	{re: regexp.MustCompile(`screening study.*\b(complete|completed|finished|done)\b`), milestoneID: "PS-PWR-04"},
	{re: regexp.MustCompile(`\b(sis|system impact study)\b.*\b(complete|completed|finished|done)\b`), milestoneID: "PS-PWR-05"},
	{re: regexp.MustCompile(`facilities study.*\b(complete|completed|finished|done)\b`), milestoneID: "PS-PWR-06"},
	{re: regexp.MustCompile(`\b(ia|interconnection agreement)\b.*\b(executed|signed)\b`), milestoneID: "PS-PWR-09"},
	{re: regexp.MustCompile(`zoning.*\b(approved|granted)\b`), milestoneID: "PS-ZN-06"},
	{re: regexp.MustCompile(`transformer.*\b(ordered|po issued)\b`), milestoneID: "POST-EQ-01"},
	{re: regexp.MustCompile(`transformer.*\b(delivered|arrived|on site)\b`), milestoneID: "POST-EQ-03"},
	{re: regexp.MustCompile(`transformer lead time\D{0,12}(\d+)\s*(weeks?|months?|years?)`), milestoneID: "POST-EQ-02", extractWeek: true},
	{re: regexp.MustCompile(`breaker lead time\D{0,12}(\d+)\s*(weeks?|months?|years?)`), milestoneID: "POST-EQ-05", extractWeek: true},
}

// ParseDocument scans free text such as emails or meeting minutes for
// keyword evidence of milestone progress and lead-time changes. Each
// pattern yields at most one proposal.
func ParseDocument(text string) []ProposedUpdate {
	lower := strings.ToLower(text)
	var out []ProposedUpdate
	for _, p := range docPatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		u := ProposedUpdate{
			MilestoneID: p.milestoneID,
			Confidence:  ParsedConfidence,
			Source:      "document_parse",
		}
		if p.extractWeek {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			u.UpdateType = UpdateDurationChange
			u.NewValue = toWeeks(n, m[2])
		} else {
			u.UpdateType = UpdateStatusChange
			u.NewValue = string(domain.StatusComplete)
		}
		out = append(out, u)
	}
	return out
}

func toWeeks(n int, unit string) int {
	switch {
	case strings.HasPrefix(unit, "month"):
		return n * 4
	case strings.HasPrefix(unit, "year"):
		return n * 52
	default:
		return n
	}
}
