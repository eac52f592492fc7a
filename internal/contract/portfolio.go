package contract

import (
	"time"

	"github.com/alexanderramin/critpath/internal/domain"
)

// PortfolioSite is one site's line in a portfolio summary. Error is set
// when the site could not be recomputed; its stored values are shown.
type PortfolioSite struct {
	SiteID                  string
	SiteName                string
	Energization            *time.Time
	TotalWeeks              int
	ScheduleRisk            domain.RiskLevel
	PrimaryDriver           string
	PrimaryDriverWorkstream domain.Workstream
	CatalogDrift            bool
	Error                   string
}

// PortfolioSummary aggregates schedules across all sites.
type PortfolioSummary struct {
	GeneratedAt        time.Time
	CountsTotal        int
	CountsByRisk       map[domain.RiskLevel]int
	EarliestSite       string
	EarliestEnergizing *time.Time
	LatestSite         string
	LatestEnergizing   *time.Time
	Sites              []PortfolioSite
}

// NewPortfolioSummary builds the aggregate from per-site lines, which are
// kept in the given order.
func NewPortfolioSummary(now time.Time, sites []PortfolioSite) PortfolioSummary {
	sum := PortfolioSummary{
		GeneratedAt:  now,
		CountsTotal:  len(sites),
		CountsByRisk: map[domain.RiskLevel]int{},
		Sites:        sites,
	}
	for _, s := range sites {
		if s.ScheduleRisk != "" {
			sum.CountsByRisk[s.ScheduleRisk]++
		}
		if s.Energization == nil {
			continue
		}
		if sum.EarliestEnergizing == nil || s.Energization.Before(*sum.EarliestEnergizing) {
			sum.EarliestEnergizing = s.Energization
			sum.EarliestSite = s.SiteName
		}
		if sum.LatestEnergizing == nil || s.Energization.After(*sum.LatestEnergizing) {
			sum.LatestEnergizing = s.Energization
			sum.LatestSite = s.SiteName
		}
	}
	return sum
}
