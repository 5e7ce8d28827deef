package models

import (
	"fmt"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/compliance"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/simulation"
	"github.com/embedsure/embed-api/underwriting"
)

// shippingCoverageDays is the fixed coverage window for shipping policies.
const shippingCoverageDays = 30

type Policies []Policy

// Policy is a bound quote. A quote binds at most once; the unique index on
// quote_id backstops the row lock taken during Bind.
type Policy struct {
	ID        uuid.UUID `db:"id"`
	QuoteID   uuid.UUID `db:"quote_id" validate:"required"`
	PartnerID uuid.UUID `db:"partner_id" validate:"required"`

	ProductCode api.ProductCode  `db:"product_code" validate:"productCode"`
	Status      api.PolicyStatus `db:"status" validate:"policyStatus"`
	RiskBand    api.RiskBand     `db:"risk_band" validate:"riskBand"`

	CarrierCode       string       `db:"carrier_code" validate:"required"`
	PremiumTotalCents api.Currency `db:"premium_total_cents" validate:"gte=0"`

	HolderName         string `db:"holder_name" validate:"required"`
	HolderAge          int    `db:"holder_age" validate:"gte=0"`
	HolderState        string `db:"holder_state"`
	HolderTenureMonths int    `db:"holder_tenure_months" validate:"gte=0"`

	EffectiveDate  time.Time `db:"effective_date"`
	ExpirationDate time.Time `db:"expiration_date"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Validate gets run every time you call a "pop.Validate*" method.
func (p *Policy) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(p), nil
}

func (p *Policy) Create(tx *pop.Connection) error {
	return create(tx, p)
}

func (p *Policy) Update(tx *pop.Connection) error {
	return update(tx, p)
}

func (p *Policy) FindByID(tx *pop.Connection, id uuid.UUID) error {
	err := tx.Find(p, id)
	return appErrorFromDB(err, api.ErrorPolicyNotFound)
}

// BindQuote converts a quote into an active policy, exactly once. The quote
// row is locked first, so concurrent binds of the same quote serialize here;
// whichever bind commits second sees status "bound" and fails. Compliance is
// re-evaluated with the full policyholder context and a block rejects the
// bind, leaving the quote in quoted status.
func BindQuote(tx *pop.Connection, quoteID uuid.UUID, input api.PolicyBind, rules *compliance.RuleSet, now time.Time) (Policy, error) {
	var quote Quote
	if err := quote.FindByIDForUpdate(tx, quoteID); err != nil {
		return Policy{}, err
	}

	if err := quote.EnsureBindable(now); err != nil {
		return Policy{}, err
	}

	decision := rules.Evaluate(quote.ProductCode, underwriting.BindContext(quote.Request(), input.Policyholder))
	if decision.Decision == api.ComplianceOutcomeBlock {
		err := api.NewAppError(
			fmt.Errorf("bind of quote %s blocked by compliance rules %v", quote.ID, decision.BlockingRules),
			api.ErrorComplianceBlocked, api.CategoryUnprocessable)
		err.Extras = map[string]interface{}{
			"blocking_rules":     decision.BlockingRules,
			"rules_applied":      decision.RulesApplied,
			"compliance_version": decision.Version,
		}
		return Policy{}, err
	}

	effectiveDate, err := parseEffectiveDate(input.EffectiveDate, now)
	if err != nil {
		return Policy{}, err
	}

	// Capacity is consumed at bind time, under the carrier row lock.
	var carrier Carrier
	if err := carrier.FindByCodeForUpdate(tx, quote.CarrierCode); err != nil {
		return Policy{}, err
	}
	if err := carrier.ConsumeCapacity(tx, quote.TotalPremiumCents); err != nil {
		return Policy{}, err
	}

	policy := Policy{
		QuoteID:           quote.ID,
		PartnerID:         quote.PartnerID,
		ProductCode:       quote.ProductCode,
		Status:            api.PolicyStatusActive,
		RiskBand:          quote.RiskBand,
		CarrierCode:       quote.CarrierCode,
		PremiumTotalCents: quote.TotalPremiumCents,

		HolderName:         input.Policyholder.Name,
		HolderAge:          input.Policyholder.Age,
		HolderState:        input.Policyholder.State,
		HolderTenureMonths: input.Policyholder.TenureMonths,

		EffectiveDate:  effectiveDate,
		ExpirationDate: expirationDate(quote, effectiveDate),
	}
	if err := policy.Create(tx); err != nil {
		return Policy{}, err
	}

	quote.Status = api.QuoteStatusBound
	if err := quote.Update(tx); err != nil {
		return Policy{}, err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiPolicyBound,
		Message: fmt.Sprintf("Policy bound: %s", policy.ID),
		Payload: events.Payload{domain.EventPayloadID: policy.ID},
	})

	return policy, nil
}

func parseEffectiveDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC().Truncate(24 * time.Hour), nil
	}
	date, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		return time.Time{}, api.NewAppError(
			fmt.Errorf("effective_date must be in YYYY-MM-DD form, got %q", s),
			api.ErrorValidation, api.CategoryUser)
	}
	return date, nil
}

func expirationDate(quote Quote, effective time.Time) time.Time {
	if quote.ProductCode == api.ProductCodePPI && quote.TermMonths.Valid {
		return effective.AddDate(0, quote.TermMonths.Int, 0)
	}
	return effective.AddDate(0, 0, shippingCoverageDays)
}

// Cancel transitions an active policy to cancelled and returns its premium
// to the carrier's capacity.
func (p *Policy) Cancel(tx *pop.Connection) error {
	if p.Status != api.PolicyStatusActive {
		return api.NewAppError(
			fmt.Errorf("policy %s has status %s and cannot be cancelled", p.ID, p.Status),
			api.ErrorPolicyStatus, api.CategoryUser)
	}

	var carrier Carrier
	if err := carrier.FindByCodeForUpdate(tx, p.CarrierCode); err != nil {
		return err
	}
	if err := carrier.RestoreCapacity(tx, p.PremiumTotalCents); err != nil {
		return err
	}

	p.Status = api.PolicyStatusCancelled
	if err := p.Update(tx); err != nil {
		return err
	}

	emitEvent(events.Event{
		Kind:    domain.EventApiPolicyCancelled,
		Message: fmt.Sprintf("Policy cancelled: %s", p.ID),
		Payload: events.Payload{domain.EventPayloadID: p.ID},
	})

	return nil
}

// AllForPartner loads the partner's policies, newest first.
func (ps *Policies) AllForPartner(tx *pop.Connection, partnerID uuid.UUID) error {
	err := tx.Where("partner_id = ?", partnerID).
		Order("created_at desc").
		All(ps)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// ActiveAsOf loads the policies in force at any point during the given month.
func (ps *Policies) ActiveAsOf(tx *pop.Connection, month time.Time) error {
	first := domain.BeginningOfMonth(month)
	last := domain.EndOfMonth(month)

	err := tx.Where("status = ?", api.PolicyStatusActive).
		Where("effective_date <= ?", last).
		Where("expiration_date >= ?", first).
		Order("created_at asc").
		All(ps)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// SimulationBook converts the policies to the simulator's snapshot rows.
func (ps *Policies) SimulationBook() []simulation.Policy {
	book := make([]simulation.Policy, len(*ps))
	for i, p := range *ps {
		book[i] = simulation.Policy{
			ID:           p.ID.String(),
			ProductCode:  p.ProductCode,
			Band:         p.RiskBand,
			PremiumCents: p.PremiumTotalCents,
		}
	}
	return book
}

func (ps *Policies) ConvertToAPI(tx *pop.Connection) api.Policies {
	policies := make(api.Policies, len(*ps))
	for i, p := range *ps {
		policies[i] = p.ConvertToAPI(tx)
	}
	return policies
}

func (p *Policy) ConvertToAPI(tx *pop.Connection) api.Policy {
	var partner Partner
	partnerCode := ""
	if err := partner.FindByID(tx, p.PartnerID); err == nil {
		partnerCode = partner.Code
	}

	return api.Policy{
		ID:                p.ID,
		QuoteID:           p.QuoteID,
		PartnerID:         partnerCode,
		ProductCode:       p.ProductCode,
		CarrierID:         p.CarrierCode,
		Status:            p.Status,
		PremiumTotalCents: p.PremiumTotalCents,
		Policyholder: api.Policyholder{
			Name:         p.HolderName,
			Age:          p.HolderAge,
			State:        p.HolderState,
			TenureMonths: p.HolderTenureMonths,
		},
		EffectiveDate: p.EffectiveDate,
		CreatedAt:     p.CreatedAt,
	}
}
