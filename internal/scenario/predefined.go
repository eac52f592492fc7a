package scenario

import (
	"strings"

	"github.com/alexanderramin/critpath/internal/domain"
)

func duration(id string, weeks int) domain.Override {
	return domain.Override{MilestoneID: id, Field: domain.FieldDurationOverride, Value: weeks}
}

func owner(id string, o domain.Owner) domain.Override {
	return domain.Override{MilestoneID: id, Field: domain.FieldOwnerOverride, Value: o}
}

// Predefined returns the standard what-if library. A fresh copy is returned
// on every call.
func Predefined() []domain.Scenario {
	return []domain.Scenario{
		Create("Customer Conveys Breakers",
			"Customer procures and conveys HV breakers to the utility",
			owner("POST-EQ-04", domain.OwnerBuyer),
			duration("POST-EQ-05", 104),
		),
		Create("Utility Fast-Track Studies",
			"Utility agrees to expedited study processing",
			duration("PS-PWR-04", 8),
			duration("PS-PWR-05", 26),
			duration("PS-PWR-06", 16),
		),
		Create("Early Transformer Procurement",
			"Customer funds transformer procurement before IA execution",
			duration("POST-EQ-01", 0),
		),
		Create("Bridge Power (Temporary Generation)",
			"Temporary generation enables early operation ahead of full interconnection",
			duration("POST-BTM-03", 52),
		),
		Create("EaaS BTM Provider",
			"Third-party Energy-as-a-Service provider handles BTM generation",
			owner("POST-BTM-01", domain.OwnerEaaS),
			owner("POST-BTM-02", domain.OwnerEaaS),
			owner("POST-BTM-03", domain.OwnerEaaS),
		),
	}
}

// FindPredefined looks up a predefined scenario by case-insensitive name.
func FindPredefined(name string) (domain.Scenario, bool) {
	for _, sc := range Predefined() {
		if strings.EqualFold(sc.Name, strings.TrimSpace(name)) {
			return sc, true
		}
	}
	return domain.Scenario{}, false
}
