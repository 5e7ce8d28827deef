package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// PolicyStatus
//
// may be one of: active, cancelled
//
// swagger:model
type PolicyStatus string

const (
	PolicyStatusActive    = PolicyStatus("active")
	PolicyStatusCancelled = PolicyStatus("cancelled")
)

// Policyholder holds the subject attributes supplied at bind time
// swagger:model
type Policyholder struct {
	// full name
	Name string `json:"name"`

	// age in years
	Age int `json:"age"`

	// state of residence, two-letter code
	State string `json:"state"`

	// employment tenure in months
	TenureMonths int `json:"tenure_months"`
}

// PolicyBind represents payload for binding a quote into a policy
// swagger:model
type PolicyBind struct {
	Policyholder Policyholder `json:"policyholder"`

	// first day of coverage; defaults to today
	//
	// swagger:strfmt date
	EffectiveDate string `json:"effective_date,omitempty"`
}

// swagger:model
type Policies []Policy

// Policy represents a bound policy, 1:1 with its quote
// swagger:model
type Policy struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// the quote this policy was bound from
	//
	// swagger:strfmt uuid4
	QuoteID uuid.UUID `json:"quote_id"`

	PartnerID string `json:"partner_id"`

	ProductCode ProductCode `json:"product_code"`

	CarrierID string `json:"carrier_id"`

	Status PolicyStatus `json:"status"`

	// total written premium in cents
	PremiumTotalCents Currency `json:"premium_total_cents"`

	Policyholder Policyholder `json:"policyholder"`

	// first day of coverage
	//
	// swagger:strfmt date
	EffectiveDate time.Time `json:"effective_date"`

	// The time the policy was created
	//
	// swagger:strfmt date-time
	CreatedAt time.Time `json:"created_at"`
}
