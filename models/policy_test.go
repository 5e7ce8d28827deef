package models

import (
	"time"

	"github.com/embedsure/embed-api/api"
)

func (ms *ModelSuite) TestBindQuote() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]
	CreateCarrierFixtures(ms.DB)
	quote := CreateQuoteFixtures(ms.DB, partner, 1).Quotes[0]

	now := time.Now().UTC()
	input := api.PolicyBind{
		Policyholder: api.Policyholder{
			Name:         "Jordan Vale",
			Age:          34,
			State:        "CA",
			TenureMonths: 48,
		},
	}

	policy, err := BindQuote(ms.DB, quote.ID, input, loadTestRules(), now)
	ms.NoError(err)

	ms.Equal(quote.ID, policy.QuoteID)
	ms.Equal(api.PolicyStatusActive, policy.Status)
	ms.Equal(quote.TotalPremiumCents, policy.PremiumTotalCents)
	ms.Equal("c_atlas", policy.CarrierCode)
	ms.Equal("Jordan Vale", policy.HolderName)
	ms.Equal(now.Truncate(24*time.Hour), policy.EffectiveDate)
	ms.Equal(policy.EffectiveDate.AddDate(0, 0, shippingCoverageDays), policy.ExpirationDate)

	var boundQuote Quote
	ms.NoError(boundQuote.FindByID(ms.DB, quote.ID))
	ms.Equal(api.QuoteStatusBound, boundQuote.Status)

	var carrier Carrier
	ms.NoError(carrier.FindByCode(ms.DB, "c_atlas"))
	ms.Equal(api.Currency(50_000_000)-quote.TotalPremiumCents, carrier.CapacityCents,
		"capacity must be consumed at bind time")

	// a second bind of the same quote fails
	_, err = BindQuote(ms.DB, quote.ID, input, loadTestRules(), now)
	ms.EqualAppError(api.AppError{Key: api.ErrorQuoteStatus, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestBindQuote_ComplianceBlocked() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]
	CreateCarrierFixtures(ms.DB)

	// the quote was issued for a TX subject, but the policyholder lives in GA,
	// where PPI is prohibited
	quote := CreatePPIQuoteFixture(ms.DB, partner, "TX")

	input := api.PolicyBind{
		Policyholder: api.Policyholder{
			Name:         "Casey Brook",
			Age:          29,
			State:        "GA",
			TenureMonths: 12,
		},
	}

	_, err := BindQuote(ms.DB, quote.ID, input, loadTestRules(), time.Now().UTC())
	ms.EqualAppError(api.AppError{Key: api.ErrorComplianceBlocked, Category: api.CategoryUnprocessable}, err)

	var appErr *api.AppError
	ms.ErrorAs(err, &appErr)
	ms.Equal([]string{"ppi_ga_block", "ban_ppi_states"}, appErr.Extras["blocking_rules"])
	ms.Equal("2024-07", appErr.Extras["compliance_version"])

	// the quote stays bindable and no policy was created
	var fromDB Quote
	ms.NoError(fromDB.FindByID(ms.DB, quote.ID))
	ms.Equal(api.QuoteStatusQuoted, fromDB.Status)

	count, err := ms.DB.Count(Policies{})
	ms.NoError(err)
	ms.Equal(0, count)
}

func (ms *ModelSuite) TestBindQuote_CapacityExceeded() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]
	carriers := CreateCarrierFixtures(ms.DB).Carriers
	quote := CreateQuoteFixtures(ms.DB, partner, 1).Quotes[0]

	atlas := carriers[0]
	atlas.CapacityCents = quote.TotalPremiumCents - 1
	mustUpdate(ms.DB, &atlas)

	input := api.PolicyBind{Policyholder: api.Policyholder{Name: "Robin Hale", Age: 40, State: "CA"}}

	_, err := BindQuote(ms.DB, quote.ID, input, loadTestRules(), time.Now().UTC())
	ms.EqualAppError(api.AppError{Key: api.ErrorCarrierCapacity, Category: api.CategoryUnprocessable}, err)
}

func (ms *ModelSuite) TestBindQuote_EffectiveDate() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]
	CreateCarrierFixtures(ms.DB)
	quotes := CreateQuoteFixtures(ms.DB, partner, 2).Quotes

	input := api.PolicyBind{
		Policyholder:  api.Policyholder{Name: "Avery Lane", Age: 51, State: "WA"},
		EffectiveDate: "2026-09-01",
	}

	policy, err := BindQuote(ms.DB, quotes[0].ID, input, loadTestRules(), time.Now().UTC())
	ms.NoError(err)
	ms.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), policy.EffectiveDate)

	input.EffectiveDate = "09/01/2026"
	_, err = BindQuote(ms.DB, quotes[1].ID, input, loadTestRules(), time.Now().UTC())
	ms.EqualAppError(api.AppError{Key: api.ErrorValidation, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestPolicy_Cancel() {
	f := CreatePolicyFixtures(ms.DB, 1)
	policy := f.Policies[0]

	var before Carrier
	ms.NoError(before.FindByCode(ms.DB, policy.CarrierCode))

	ms.NoError(policy.Cancel(ms.DB))
	ms.Equal(api.PolicyStatusCancelled, policy.Status)

	var after Carrier
	ms.NoError(after.FindByCode(ms.DB, policy.CarrierCode))
	ms.Equal(before.CapacityCents+policy.PremiumTotalCents, after.CapacityCents,
		"cancellation must return premium to carrier capacity")

	err := policy.Cancel(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorPolicyStatus, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestPolicies_ActiveAsOf() {
	f := CreatePolicyFixtures(ms.DB, 3)
	now := time.Now().UTC()

	// one policy expired before this month
	expired := f.Policies[1]
	expired.EffectiveDate = now.AddDate(0, -3, 0)
	expired.ExpirationDate = now.AddDate(0, -2, 0)
	mustUpdate(ms.DB, &expired)

	// one policy cancelled
	ms.NoError(f.Policies[2].Cancel(ms.DB))

	var inForce Policies
	ms.NoError(inForce.ActiveAsOf(ms.DB, now))

	ms.Len(inForce, 1)
	ms.Equal(f.Policies[0].ID, inForce[0].ID)
}

func (ms *ModelSuite) TestPolicies_SimulationBook() {
	f := CreatePolicyFixtures(ms.DB, 2)

	book := f.Policies.SimulationBook()
	ms.Len(book, 2)
	ms.Equal(f.Policies[0].ID.String(), book[0].ID)
	ms.Equal(api.RiskBandE, book[0].Band)
	ms.Equal(f.Policies[0].PremiumTotalCents, book[0].PremiumCents)
}
