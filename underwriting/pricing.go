package underwriting

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
)

// RateCurves is the per-product rate basis, an immutable configuration
// snapshot loaded at startup. Lookups fail closed: a missing entry is a
// configuration gap, never a silent default.
type RateCurves struct {
	Shipping ShippingCurve `yaml:"shipping"`
	PPI      PPICurve      `yaml:"ppi"`
}

// ShippingCurve prices shipping protection as a fraction of declared value.
type ShippingCurve struct {
	BaseRate               float64            `yaml:"base_rate"`
	CategoryMultipliers    map[string]float64 `yaml:"category_multipliers"`
	DestinationMultipliers map[string]float64 `yaml:"destination_multipliers"`
	ServiceMultipliers     map[string]float64 `yaml:"service_multipliers"`
}

// PPICurve prices payment protection as a fraction of order value.
type PPICurve struct {
	BaseRate        float64            `yaml:"base_rate"`
	TermMultipliers []TermRate         `yaml:"term_multipliers"`
	JobMultipliers  map[string]float64 `yaml:"job_multipliers"`
}

// TermRate applies to terms of up to MaxMonths, first match wins.
type TermRate struct {
	MaxMonths  int     `yaml:"max_months"`
	Multiplier float64 `yaml:"multiplier"`
}

// LoadRateCurves reads the rate curve document from a YAML file.
func LoadRateCurves(path string) (RateCurves, error) {
	var rc RateCurves
	raw, err := os.ReadFile(path)
	if err != nil {
		return rc, fmt.Errorf("error reading rate curves from %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return rc, fmt.Errorf("error parsing rate curves: %w", err)
	}
	return rc, nil
}

// Price computes the premium breakdown for a scored request. The composition
// order is fixed and externally observable:
//
//	curve base → × risk multiplier → × (1 + partner markup) → round half-up
//
// The reported base premium is the risk-adjusted base before markup, rounded
// half-up; the total is rounded half-up from the unrounded chain so the two
// figures always reconcile to the cent.
func (rc RateCurves) Price(req api.QuoteCreate, risk api.RiskAssessment, markupPct float64) (api.PriceBreakdown, error) {
	if markupPct < 0 || markupPct >= 1 {
		return api.PriceBreakdown{}, api.NewAppError(
			fmt.Errorf("partner markup_pct must be in [0,1), got %v", markupPct),
			api.ErrorValidation, api.CategoryUser)
	}

	var curveBase float64
	var err error

	switch req.ProductCode {
	case api.ProductCodeShipping:
		curveBase, err = rc.Shipping.base(req.Shipping)
	case api.ProductCodePPI:
		curveBase, err = rc.PPI.base(req.PPI)
	default:
		err = fmt.Errorf("no rate curve for product %q", req.ProductCode)
	}
	if err != nil {
		return api.PriceBreakdown{}, api.NewAppError(err, api.ErrorRateNotFound, api.CategoryConfig)
	}

	withRisk := curveBase * risk.RiskMultiplier

	return api.PriceBreakdown{
		BasePremiumCents:  api.Currency(domain.RoundHalfUp(withRisk)),
		RiskMultiplier:    risk.RiskMultiplier,
		PartnerMarkupPct:  markupPct,
		TotalPremiumCents: api.Currency(domain.RoundHalfUp(withRisk * (1 + markupPct))),
	}, nil
}

func (c ShippingCurve) base(in *api.ShippingInput) (float64, error) {
	if in == nil {
		return 0, fmt.Errorf("shipping attributes missing")
	}
	if c.BaseRate <= 0 {
		return 0, fmt.Errorf("no shipping base rate configured")
	}
	catMult, ok := c.CategoryMultipliers[in.ItemCategory]
	if !ok {
		return 0, fmt.Errorf("no shipping rate for category %q", in.ItemCategory)
	}
	destMult, ok := c.DestinationMultipliers[in.DestinationRisk]
	if !ok {
		return 0, fmt.Errorf("no shipping rate for destination risk %q", in.DestinationRisk)
	}
	svcMult, ok := c.ServiceMultipliers[in.ServiceLevel]
	if !ok {
		return 0, fmt.Errorf("no shipping rate for service level %q", in.ServiceLevel)
	}

	return float64(in.DeclaredValue) * c.BaseRate * catMult * destMult * svcMult, nil
}

func (c PPICurve) base(in *api.PPIInput) (float64, error) {
	if in == nil {
		return 0, fmt.Errorf("ppi attributes missing")
	}
	if c.BaseRate <= 0 {
		return 0, fmt.Errorf("no ppi base rate configured")
	}
	termMult, err := c.termMultiplier(in.TermMonths)
	if err != nil {
		return 0, err
	}
	jobMult, ok := c.JobMultipliers[in.JobCategory]
	if !ok {
		return 0, fmt.Errorf("no ppi rate for job category %q", in.JobCategory)
	}

	return float64(in.OrderValue) * c.BaseRate * termMult * jobMult, nil
}

func (c PPICurve) termMultiplier(months int) (float64, error) {
	for _, t := range c.TermMultipliers {
		if months <= t.MaxMonths {
			return t.Multiplier, nil
		}
	}
	return 0, fmt.Errorf("no ppi rate for term of %d months", months)
}
