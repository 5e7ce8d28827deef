package underwriting

import (
	"errors"
	"fmt"

	"github.com/embedsure/embed-api/api"
)

// Raw weighted scores range over roughly [0,2]; they are normalized into
// [0,1] by this fixed factor before banding. Changing it changes every band
// assignment, so it is part of the published rate basis.
const scoreNormalization = 2.0

// Band thresholds partition the normalized score domain [0,1].
var bandThresholds = []struct {
	limit float64
	band  api.RiskBand
}{
	{0.2, api.RiskBandA},
	{0.4, api.RiskBandB},
	{0.6, api.RiskBandC},
	{0.8, api.RiskBandD},
}

var bandMultipliers = map[api.RiskBand]float64{
	api.RiskBandA: 1.0,
	api.RiskBandB: 1.05,
	api.RiskBandC: 1.1,
	api.RiskBandD: 1.25,
	api.RiskBandE: 1.4,
}

var destinationRiskWeights = map[string]float64{
	"low":    0,
	"medium": 0.5,
	"high":   1.0,
}

var serviceLevelWeights = map[string]float64{
	"ground":    0.2,
	"expedited": 0.1,
	"overnight": 0,
}

var jobCategoryWeights = map[string]float64{
	"full_time":     0,
	"part_time":     0.1,
	"contractor":    0.2,
	"seasonal_temp": 0.3,
}

var highValueCategories = []string{"electronics_high_value", "jewelry_high_value"}

var validItemCategories = map[string]struct{}{
	"general":                {},
	"apparel":                {},
	"electronics":            {},
	"electronics_high_value": {},
	"jewelry_high_value":     {},
}

var validStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "IA": {}, "ID": {}, "IL": {}, "IN": {}, "KS": {}, "KY": {}, "LA": {}, "MA": {}, "MD": {},
	"ME": {}, "MI": {}, "MN": {}, "MO": {}, "MS": {}, "MT": {}, "NC": {}, "ND": {}, "NE": {}, "NH": {},
	"NJ": {}, "NM": {}, "NV": {}, "NY": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VA": {}, "VT": {}, "WA": {}, "WI": {}, "WV": {}, "WY": {},
}

// Score computes the deterministic risk assessment for a quote request. It is
// a pure function of its input: identical requests always produce identical
// assessments, which auditors rely on.
func Score(req api.QuoteCreate) (api.RiskAssessment, error) {
	var raw float64
	var err error

	switch req.ProductCode {
	case api.ProductCodeShipping:
		raw, err = scoreShipping(req.Shipping)
	case api.ProductCodePPI:
		raw, err = scorePPI(req.PPI)
	default:
		err = fmt.Errorf("unknown product code %q", req.ProductCode)
	}
	if err != nil {
		return api.RiskAssessment{}, api.NewAppError(err, api.ErrorValidation, api.CategoryUser)
	}

	score := raw / scoreNormalization
	if score > 1 {
		score = 1
	}

	band := bandForScore(score)
	return api.RiskAssessment{
		Score:          score,
		Band:           band,
		RiskMultiplier: bandMultipliers[band],
	}, nil
}

func bandForScore(score float64) api.RiskBand {
	for _, t := range bandThresholds {
		if score < t.limit {
			return t.band
		}
	}
	return api.RiskBandE
}

// scoreShipping weights declared value, destination risk, service level and
// high-value categories into a raw score.
func scoreShipping(in *api.ShippingInput) (float64, error) {
	if in == nil {
		return 0, errors.New("shipping attributes are required for a shipping quote")
	}
	if in.DeclaredValue <= 0 {
		return 0, fmt.Errorf("declared_value must be positive, got %d", in.DeclaredValue)
	}
	if _, ok := validItemCategories[in.ItemCategory]; !ok {
		return 0, fmt.Errorf("unknown item_category %q", in.ItemCategory)
	}
	if _, ok := validStates[in.DestinationState]; !ok {
		return 0, fmt.Errorf("unknown destination_state %q", in.DestinationState)
	}
	destWeight, ok := destinationRiskWeights[in.DestinationRisk]
	if !ok {
		return 0, fmt.Errorf("unknown destination_risk %q", in.DestinationRisk)
	}
	svcWeight, ok := serviceLevelWeights[in.ServiceLevel]
	if !ok {
		return 0, fmt.Errorf("unknown service_level %q", in.ServiceLevel)
	}

	raw := 0.02 * float64(in.DeclaredValue) / 1000
	raw += destWeight
	raw += svcWeight
	for _, cat := range highValueCategories {
		if in.ItemCategory == cat {
			raw += 0.3
			break
		}
	}

	return raw, nil
}

// scorePPI weights order value, term length and job-category stability.
func scorePPI(in *api.PPIInput) (float64, error) {
	if in == nil {
		return 0, errors.New("ppi attributes are required for a ppi quote")
	}
	if in.OrderValue <= 0 {
		return 0, fmt.Errorf("order_value must be positive, got %d", in.OrderValue)
	}
	if in.TermMonths < 1 || in.TermMonths > 24 {
		return 0, fmt.Errorf("term_months must be between 1 and 24, got %d", in.TermMonths)
	}
	jobWeight, ok := jobCategoryWeights[in.JobCategory]
	if !ok {
		return 0, fmt.Errorf("unknown job_category %q", in.JobCategory)
	}
	if _, ok := validStates[in.State]; !ok {
		return 0, fmt.Errorf("unknown state %q", in.State)
	}

	raw := 0.02 * float64(in.OrderValue) / 10000
	raw += 0.1 * float64(in.TermMonths) / 6
	raw += jobWeight

	return raw, nil
}
