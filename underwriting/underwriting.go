// Package underwriting implements the quote decision pipeline: risk scoring,
// premium pricing, carrier routing and compliance evaluation. Every function
// here is pure over its inputs plus a read-only configuration snapshot, so
// any number of quotes may be evaluated concurrently.
package underwriting

import (
	"fmt"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/compliance"
)

// Config is the immutable configuration snapshot a quote is evaluated
// against: rate curves, the carrier table and the compliance rule set.
// Concurrent requests and tests can use independent snapshots.
type Config struct {
	Curves   RateCurves
	Carriers []Carrier
	Rules    *compliance.RuleSet
}

// Result is the outcome of one run of the pipeline.
type Result struct {
	Risk            api.RiskAssessment
	Price           api.PriceBreakdown
	CarrierID       string
	RouterRationale string
	Compliance      api.ComplianceDecision
}

// Quote runs the full pipeline for one request: score → price → route →
// compliance. A compliance block does not fail the quote; the decision is
// recorded on the result and enforced at bind time.
func (cfg Config) Quote(req api.QuoteCreate, partner api.Partner) (Result, error) {
	allowed := false
	for _, p := range partner.Products {
		if p == req.ProductCode {
			allowed = true
			break
		}
	}
	if !allowed {
		return Result{}, api.NewAppError(
			fmt.Errorf("partner %s is not configured for product %q", partner.ID, req.ProductCode),
			api.ErrorPartnerProductNotAllowed, api.CategoryForbidden)
	}

	risk, err := Score(req)
	if err != nil {
		return Result{}, err
	}

	price, err := cfg.Curves.Price(req, risk, partner.MarkupPct)
	if err != nil {
		return Result{}, err
	}

	carrierID, rationale, err := Route(
		req.ProductCode, requestState(req), requestCategory(req), price.TotalPremiumCents, cfg.Carriers)
	if err != nil {
		return Result{}, err
	}

	decision := cfg.Rules.Evaluate(req.ProductCode, QuoteContext(req))

	return Result{
		Risk:            risk,
		Price:           price,
		CarrierID:       carrierID,
		RouterRationale: rationale,
		Compliance:      decision,
	}, nil
}

// QuoteContext builds the compliance evaluation context from the attributes
// known at quote time.
func QuoteContext(req api.QuoteCreate) compliance.Context {
	ctx := compliance.Context{"product_code": req.ProductCode}

	switch req.ProductCode {
	case api.ProductCodeShipping:
		if req.Shipping == nil {
			return ctx
		}
		ctx["declared_value"] = req.Shipping.DeclaredValue
		ctx["item_category"] = req.Shipping.ItemCategory
		ctx["destination_state"] = req.Shipping.DestinationState
		ctx["destination_risk"] = req.Shipping.DestinationRisk
		ctx["service_level"] = req.Shipping.ServiceLevel
	case api.ProductCodePPI:
		if req.PPI == nil {
			return ctx
		}
		ctx["order_value"] = req.PPI.OrderValue
		ctx["term_months"] = req.PPI.TermMonths
		ctx["job_category"] = req.PPI.JobCategory
		ctx["state"] = req.PPI.State
	}

	return ctx
}

// BindContext extends the quote-time context with the full policyholder
// attributes supplied at bind time. Policyholder attributes win on overlap.
func BindContext(req api.QuoteCreate, ph api.Policyholder) compliance.Context {
	ctx := QuoteContext(req)
	ctx["age"] = ph.Age
	ctx["tenure_months"] = ph.TenureMonths
	if ph.State != "" {
		ctx["state"] = ph.State
	}
	return ctx
}

func requestState(req api.QuoteCreate) string {
	switch req.ProductCode {
	case api.ProductCodeShipping:
		if req.Shipping != nil {
			return req.Shipping.DestinationState
		}
	case api.ProductCodePPI:
		if req.PPI != nil {
			return req.PPI.State
		}
	}
	return ""
}

func requestCategory(req api.QuoteCreate) string {
	if req.ProductCode == api.ProductCodeShipping && req.Shipping != nil {
		return req.Shipping.ItemCategory
	}
	return ""
}
