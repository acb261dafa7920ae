package tenant

import "strings"

// PlanKey identifies a plan tier in provisioning requests.
type PlanKey string

const (
	PlanTrial      PlanKey = "trial"
	PlanBasic      PlanKey = "basic"
	PlanPremium    PlanKey = "premium"
	PlanEnterprise PlanKey = "enterprise"
)

// Plan is a subscription plan.
type Plan struct {
	ID                         string         `json:"id"`
	Name                       string         `json:"name"`
	StudentLimit               int            `json:"studentLimit"`
	CertificatePrintingAllowed bool           `json:"certificatePrintingAllowed"`
	CustomDomainEnabled        bool           `json:"customDomainEnabled"`
	Price                      float64        `json:"price"`
	Features                   map[string]any `json:"features"`
}

// catalog holds the defaults used when a plan row is missing.
var catalog = map[PlanKey]Plan{
	PlanTrial: {
		Name:                       "Trial",
		StudentLimit:               50,
		CertificatePrintingAllowed: true,
		CustomDomainEnabled:        false,
		Price:                      0,
	},
	PlanBasic: {
		Name:                       "Basic",
		StudentLimit:               300,
		CertificatePrintingAllowed: true,
		CustomDomainEnabled:        false,
		Price:                      49,
	},
	PlanPremium: {
		Name:                       "Premium",
		StudentLimit:               1000,
		CertificatePrintingAllowed: true,
		CustomDomainEnabled:        true,
		Price:                      149,
	},
	PlanEnterprise: {
		Name:                       "Enterprise",
		StudentLimit:               10000,
		CertificatePrintingAllowed: true,
		CustomDomainEnabled:        true,
		Price:                      499,
	},
}

// ParsePlanKey maps a request value to a known plan key.
// An empty value selects the trial plan; unknown values report false.
func ParsePlanKey(s string) (PlanKey, bool) {
	key := PlanKey(strings.ToLower(strings.TrimSpace(s)))
	if key == "" {
		return PlanTrial, true
	}
	_, ok := catalog[key]
	return key, ok
}

// PlanName returns the stored plan name for a key.
func (k PlanKey) PlanName() string {
	return catalog[k].Name
}

// DefaultPlan returns the catalog defaults for a key, without an ID.
func (k PlanKey) DefaultPlan() Plan {
	p := catalog[k]
	p.Features = map[string]any{}
	return p
}

// IsTrial reports whether the key grants a trial window.
func (k PlanKey) IsTrial() bool { return k == PlanTrial }
