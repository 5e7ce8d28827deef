package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// ProductCode
//
// may be one of: shipping, ppi
//
// swagger:model
type ProductCode string

const (
	ProductCodeShipping = ProductCode("shipping")
	ProductCodePPI      = ProductCode("ppi")
)

// RiskBand
//
// discrete risk category, A (lowest) through E (highest)
//
// swagger:model
type RiskBand string

const (
	RiskBandA = RiskBand("A")
	RiskBandB = RiskBand("B")
	RiskBandC = RiskBand("C")
	RiskBandD = RiskBand("D")
	RiskBandE = RiskBand("E")
)

// QuoteStatus
//
// may be one of: quoted, expired, bound
//
// swagger:model
type QuoteStatus string

const (
	QuoteStatusQuoted  = QuoteStatus("quoted")
	QuoteStatusExpired = QuoteStatus("expired")
	QuoteStatusBound   = QuoteStatus("bound")
)

// QuoteCreate represents payload for requesting a quote
// swagger:model
type QuoteCreate struct {
	// product code, "shipping" or "ppi"
	ProductCode ProductCode `json:"product_code"`

	// shipping product attributes, required when product_code is "shipping"
	Shipping *ShippingInput `json:"shipping,omitempty"`

	// payment-protection product attributes, required when product_code is "ppi"
	PPI *PPIInput `json:"ppi,omitempty"`
}

// ShippingInput holds the shipping-protection attributes of a quote request
// swagger:model
type ShippingInput struct {
	// declared value of the shipment, in cents
	DeclaredValue Currency `json:"declared_value"`

	// item category, e.g. "electronics"
	ItemCategory string `json:"item_category"`

	// destination state, two-letter code
	DestinationState string `json:"destination_state"`

	// destination risk level: low, medium or high
	DestinationRisk string `json:"destination_risk"`

	// service level: ground, expedited or overnight
	ServiceLevel string `json:"service_level"`
}

// PPIInput holds the payment-protection attributes of a quote request
// swagger:model
type PPIInput struct {
	// order value, in cents
	OrderValue Currency `json:"order_value"`

	// protection term in months
	TermMonths int `json:"term_months"`

	// job category of the applicant, e.g. "full_time"
	JobCategory string `json:"job_category"`

	// state of residence, two-letter code
	State string `json:"state"`
}

// RiskAssessment is the deterministic output of the risk scorer
// swagger:model
type RiskAssessment struct {
	// normalized risk score in [0,1]
	Score float64 `json:"score"`

	// risk band, A through E
	Band RiskBand `json:"band"`

	// premium multiplier derived from the band
	RiskMultiplier float64 `json:"risk_multiplier"`
}

// PriceBreakdown itemizes a premium calculation
// swagger:model
type PriceBreakdown struct {
	// risk-adjusted base premium in cents, before partner markup
	BasePremiumCents Currency `json:"base_premium_cents"`

	// risk multiplier applied to the curve base
	RiskMultiplier float64 `json:"risk_multiplier"`

	// partner markup as a decimal fraction, 0 <= p < 1
	PartnerMarkupPct float64 `json:"partner_markup_pct"`

	// final premium in cents, rounded half-up
	TotalPremiumCents Currency `json:"total_premium_cents"`
}

// swagger:model
type Quotes []Quote

// Quote is an immutable underwriting decision for one request
// swagger:model
type Quote struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// partner that requested the quote
	PartnerID string `json:"partner_id"`

	ProductCode ProductCode `json:"product_code"`

	Status QuoteStatus `json:"status"`

	Risk RiskAssessment `json:"risk"`

	Price PriceBreakdown `json:"price"`

	// carrier assigned by the router
	CarrierID string `json:"carrier_id"`

	// audit-displayable explanation of the carrier selection
	RouterRationale string `json:"router_rationale"`

	Compliance ComplianceDecision `json:"compliance"`

	// The time the quote was created
	//
	// swagger:strfmt date-time
	CreatedAt time.Time `json:"created_at"`

	// The time after which the quote can no longer be bound
	//
	// swagger:strfmt date-time
	ExpiresAt time.Time `json:"expires_at"`
}
