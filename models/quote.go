package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/underwriting"
)

// listSeparator joins rule ids and disclosure messages for storage.
// Disclosure text can contain commas, so a pipe is used instead.
const listSeparator = "|"

type Quotes []Quote

// Quote is an immutable record of one underwriting decision. The request
// attributes are stored alongside the outcome so compliance can be
// re-evaluated with full context at bind time.
type Quote struct {
	ID        uuid.UUID `db:"id"`
	PartnerID uuid.UUID `db:"partner_id" validate:"required"`

	ProductCode api.ProductCode `db:"product_code" validate:"productCode"`
	Status      api.QuoteStatus `db:"status" validate:"quoteStatus"`

	// shipping request attributes
	DeclaredValue    nulls.Int    `db:"declared_value"`
	ItemCategory     nulls.String `db:"item_category"`
	DestinationState nulls.String `db:"destination_state"`
	DestinationRisk  nulls.String `db:"destination_risk"`
	ServiceLevel     nulls.String `db:"service_level"`

	// ppi request attributes
	OrderValue  nulls.Int    `db:"order_value"`
	TermMonths  nulls.Int    `db:"term_months"`
	JobCategory nulls.String `db:"job_category"`
	State       nulls.String `db:"state"`

	RiskScore      float64      `db:"risk_score" validate:"gte=0,lte=1"`
	RiskBand       api.RiskBand `db:"risk_band" validate:"riskBand"`
	RiskMultiplier float64      `db:"risk_multiplier" validate:"gt=0"`

	BasePremiumCents  api.Currency `db:"base_premium_cents" validate:"gte=0"`
	MarkupPct         float64      `db:"markup_pct" validate:"gte=0,lt=1"`
	TotalPremiumCents api.Currency `db:"total_premium_cents" validate:"gte=0"`

	CarrierCode     string `db:"carrier_code" validate:"required"`
	RouterRationale string `db:"router_rationale"`

	ComplianceDecision api.ComplianceOutcome `db:"compliance_decision"`
	ComplianceVersion  string                `db:"compliance_version"`
	Disclosures        string                `db:"disclosures"`
	RulesApplied       string                `db:"rules_applied"`
	BlockingRules      string                `db:"blocking_rules"`

	ExpiresAt time.Time `db:"expires_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (q *Quote) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(q), nil
}

// NewQuoteFromResult builds a Quote record from a request and its pipeline
// outcome.
func NewQuoteFromResult(partner Partner, req api.QuoteCreate, res underwriting.Result, now time.Time) Quote {
	q := Quote{
		PartnerID:   partner.ID,
		ProductCode: req.ProductCode,
		Status:      api.QuoteStatusQuoted,

		RiskScore:      res.Risk.Score,
		RiskBand:       res.Risk.Band,
		RiskMultiplier: res.Risk.RiskMultiplier,

		BasePremiumCents:  res.Price.BasePremiumCents,
		MarkupPct:         res.Price.PartnerMarkupPct,
		TotalPremiumCents: res.Price.TotalPremiumCents,

		CarrierCode:     res.CarrierID,
		RouterRationale: res.RouterRationale,

		ComplianceDecision: res.Compliance.Decision,
		ComplianceVersion:  res.Compliance.Version,
		Disclosures:        strings.Join(res.Compliance.Disclosures, listSeparator),
		RulesApplied:       strings.Join(res.Compliance.RulesApplied, listSeparator),
		BlockingRules:      strings.Join(res.Compliance.BlockingRules, listSeparator),

		ExpiresAt: now.AddDate(0, 0, domain.Env.QuoteLifetimeDays),
	}

	switch req.ProductCode {
	case api.ProductCodeShipping:
		q.DeclaredValue = nulls.NewInt(int(req.Shipping.DeclaredValue))
		q.ItemCategory = nulls.NewString(req.Shipping.ItemCategory)
		q.DestinationState = nulls.NewString(req.Shipping.DestinationState)
		q.DestinationRisk = nulls.NewString(req.Shipping.DestinationRisk)
		q.ServiceLevel = nulls.NewString(req.Shipping.ServiceLevel)
	case api.ProductCodePPI:
		q.OrderValue = nulls.NewInt(int(req.PPI.OrderValue))
		q.TermMonths = nulls.NewInt(req.PPI.TermMonths)
		q.JobCategory = nulls.NewString(req.PPI.JobCategory)
		q.State = nulls.NewString(req.PPI.State)
	}

	return q
}

func (q *Quote) Create(tx *pop.Connection) error {
	if err := create(tx, q); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiQuoteCreated,
		Message: fmt.Sprintf("Quote created: %s", q.ID),
		Payload: events.Payload{domain.EventPayloadID: q.ID},
	})
	return nil
}

func (q *Quote) Update(tx *pop.Connection) error {
	return update(tx, q)
}

func (q *Quote) FindByID(tx *pop.Connection, id uuid.UUID) error {
	err := tx.Find(q, id)
	return appErrorFromDB(err, api.ErrorQuoteNotFound)
}

// FindByIDForUpdate loads the quote row with a row lock. Binding is
// serialized per quote id through this lock.
func (q *Quote) FindByIDForUpdate(tx *pop.Connection, id uuid.UUID) error {
	err := tx.RawQuery("SELECT * FROM quotes WHERE id = ? FOR UPDATE", id).First(q)
	return appErrorFromDB(err, api.ErrorQuoteNotFound)
}

// IsExpired reports whether the quote can no longer be bound.
func (q *Quote) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// EnsureBindable returns an error unless the quote is still in quoted status
// and unexpired.
func (q *Quote) EnsureBindable(now time.Time) error {
	if q.Status != api.QuoteStatusQuoted {
		return api.NewAppError(
			fmt.Errorf("quote %s has status %s and cannot be bound", q.ID, q.Status),
			api.ErrorQuoteStatus, api.CategoryUser)
	}
	if q.IsExpired(now) {
		return api.NewAppError(
			fmt.Errorf("quote %s expired at %s", q.ID, q.ExpiresAt.Format(time.RFC3339)),
			api.ErrorQuoteExpired, api.CategoryUser)
	}
	return nil
}

// Request reconstructs the original quote request from the stored attributes.
func (q *Quote) Request() api.QuoteCreate {
	req := api.QuoteCreate{ProductCode: q.ProductCode}

	switch q.ProductCode {
	case api.ProductCodeShipping:
		req.Shipping = &api.ShippingInput{
			DeclaredValue:    api.Currency(q.DeclaredValue.Int),
			ItemCategory:     q.ItemCategory.String,
			DestinationState: q.DestinationState.String,
			DestinationRisk:  q.DestinationRisk.String,
			ServiceLevel:     q.ServiceLevel.String,
		}
	case api.ProductCodePPI:
		req.PPI = &api.PPIInput{
			OrderValue:  api.Currency(q.OrderValue.Int),
			TermMonths:  q.TermMonths.Int,
			JobCategory: q.JobCategory.String,
			State:       q.State.String,
		}
	}

	return req
}

func (q *Quote) ConvertToAPI(tx *pop.Connection) api.Quote {
	var partner Partner
	partnerCode := ""
	if err := partner.FindByID(tx, q.PartnerID); err == nil {
		partnerCode = partner.Code
	}

	return api.Quote{
		ID:          q.ID,
		PartnerID:   partnerCode,
		ProductCode: q.ProductCode,
		Status:      q.Status,
		Risk: api.RiskAssessment{
			Score:          q.RiskScore,
			Band:           q.RiskBand,
			RiskMultiplier: q.RiskMultiplier,
		},
		Price: api.PriceBreakdown{
			BasePremiumCents:  q.BasePremiumCents,
			RiskMultiplier:    q.RiskMultiplier,
			PartnerMarkupPct:  q.MarkupPct,
			TotalPremiumCents: q.TotalPremiumCents,
		},
		CarrierID:       q.CarrierCode,
		RouterRationale: q.RouterRationale,
		Compliance: api.ComplianceDecision{
			Decision:      q.ComplianceDecision,
			Disclosures:   splitStored(q.Disclosures),
			RulesApplied:  splitStored(q.RulesApplied),
			BlockingRules: splitStored(q.BlockingRules),
			Version:       q.ComplianceVersion,
		},
		CreatedAt: q.CreatedAt,
		ExpiresAt: q.ExpiresAt,
	}
}

func splitStored(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}
