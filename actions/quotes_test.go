package actions

import (
	"fmt"
	"net/http"
	"time"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/models"
)

func (as *ActionSuite) Test_QuotesCreate() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)

	input := api.QuoteCreate{
		ProductCode: api.ProductCodeShipping,
		Shipping: &api.ShippingInput{
			DeclaredValue:    65000,
			ItemCategory:     "electronics",
			DestinationState: "CA",
			DestinationRisk:  "medium",
			ServiceLevel:     "ground",
		},
	}

	res := as.authedJSON(partner, "/quotes/").Post(input)
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %s", res.Body.String())

	var quote api.Quote
	as.NoError(as.decodeBody(res.Body.Bytes(), &quote))

	as.Equal(partner.Code, quote.PartnerID)
	as.Equal(api.QuoteStatusQuoted, quote.Status)
	as.Equal(api.RiskBandE, quote.Risk.Band)
	as.Equal(api.Currency(57558), quote.Price.BasePremiumCents)
	as.Equal(api.Currency(62162), quote.Price.TotalPremiumCents)
	as.Equal("c_atlas", quote.CarrierID)
	as.Contains(quote.RouterRationale, "c_atlas")
	as.Equal(api.ComplianceOutcomeAllow, quote.Compliance.Decision)

	// the quote was persisted
	var fromDB models.Quote
	as.NoError(fromDB.FindByID(as.DB, quote.ID))
	as.Equal(api.QuoteStatusQuoted, fromDB.Status)
}

func (as *ActionSuite) Test_QuotesCreate_NoCarrier() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)

	// jewelry is excluded by the only nationwide shipping carrier, and the
	// regional carrier does not write TX
	input := api.QuoteCreate{
		ProductCode: api.ProductCodeShipping,
		Shipping: &api.ShippingInput{
			DeclaredValue:    250000,
			ItemCategory:     "jewelry_high_value",
			DestinationState: "TX",
			DestinationRisk:  "high",
			ServiceLevel:     "overnight",
		},
	}

	res := as.authedJSON(partner, "/quotes/").Post(input)
	as.Equal(http.StatusUnprocessableEntity, res.Code)
	as.verifyResponseData([]string{string(api.ErrorNoCarrierAvailable)}, res.Body.String(), "no-carrier error")

	// a declined request leaves no quote behind
	count, err := as.DB.Count(models.Quotes{})
	as.NoError(err)
	as.Equal(0, count)
}

func (as *ActionSuite) Test_QuotesCreate_UnknownField() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)

	res := as.authedJSON(partner, "/quotes/").Post(map[string]any{
		"product_code": "shipping",
		"bogus_field":  true,
	})
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorInvalidRequestBody)}, res.Body.String(), "strict bind")
}

func (as *ActionSuite) Test_QuotesView() {
	partners := models.CreatePartnerFixtures(as.DB, 2).Partners
	models.CreateCarrierFixtures(as.DB)
	quote := models.CreateQuoteFixtures(as.DB, partners[0], 1).Quotes[0]

	// owner sees the quote
	res := as.authedJSON(partners[0], fmt.Sprintf("/quotes/%s", quote.ID)).Get()
	as.Equal(http.StatusOK, res.Code)

	var got api.Quote
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(quote.ID, got.ID)
	as.Equal(api.QuoteStatusQuoted, got.Status)

	// another partner's quotes read as not found
	res = as.authedJSON(partners[1], fmt.Sprintf("/quotes/%s", quote.ID)).Get()
	as.Equal(http.StatusNotFound, res.Code)

	// a bad UUID is a user error
	res = as.authedJSON(partners[0], "/quotes/not-a-uuid").Get()
	as.Equal(http.StatusBadRequest, res.Code)
}

func (as *ActionSuite) Test_QuotesView_Expired() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)
	quote := models.CreateQuoteFixtures(as.DB, partner, 1).Quotes[0]

	quote.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	as.NoError(quote.Update(as.DB))

	res := as.authedJSON(partner, fmt.Sprintf("/quotes/%s", quote.ID)).Get()
	as.Equal(http.StatusOK, res.Code)

	var got api.Quote
	as.NoError(as.decodeBody(res.Body.Bytes(), &got))
	as.Equal(api.QuoteStatusExpired, got.Status, "an expired quote must read as expired")

	// reads do not mutate the stored status
	var fromDB models.Quote
	as.NoError(fromDB.FindByID(as.DB, quote.ID))
	as.Equal(api.QuoteStatusQuoted, fromDB.Status)
}

func (as *ActionSuite) Test_QuotesBind() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)
	quote := models.CreateQuoteFixtures(as.DB, partner, 1).Quotes[0]

	input := api.PolicyBind{
		Policyholder: api.Policyholder{
			Name:         "Jordan Vale",
			Age:          34,
			State:        "CA",
			TenureMonths: 48,
		},
	}

	res := as.authedJSON(partner, fmt.Sprintf("/quotes/%s/bind", quote.ID)).Post(input)
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %s", res.Body.String())

	var policy api.Policy
	as.NoError(as.decodeBody(res.Body.Bytes(), &policy))
	as.Equal(quote.ID, policy.QuoteID)
	as.Equal(api.PolicyStatusActive, policy.Status)
	as.Equal(api.Currency(62162), policy.PremiumTotalCents)
	as.Equal("c_atlas", policy.CarrierID)

	// binding consumed carrier capacity
	var carrier models.Carrier
	as.NoError(carrier.FindByCode(as.DB, "c_atlas"))
	as.Equal(api.Currency(50_000_000-62162), carrier.CapacityCents)

	// a second bind of the same quote fails and creates no second policy
	res = as.authedJSON(partner, fmt.Sprintf("/quotes/%s/bind", quote.ID)).Post(input)
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorQuoteStatus)}, res.Body.String(), "double bind")

	count, err := as.DB.Count(models.Policies{})
	as.NoError(err)
	as.Equal(1, count)
}

func (as *ActionSuite) Test_QuotesBind_ComplianceBlocked() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]
	models.CreateCarrierFixtures(as.DB)
	quote := models.CreatePPIQuoteFixture(as.DB, partner, "TX")

	input := api.PolicyBind{
		Policyholder: api.Policyholder{
			Name:         "Casey Brook",
			Age:          29,
			State:        "GA",
			TenureMonths: 12,
		},
	}

	res := as.authedJSON(partner, fmt.Sprintf("/quotes/%s/bind", quote.ID)).Post(input)
	as.Equal(http.StatusUnprocessableEntity, res.Code)
	as.verifyResponseData(
		[]string{string(api.ErrorComplianceBlocked), "ppi_ga_block", "ban_ppi_states"},
		res.Body.String(), "compliance block")

	// the quote is left unconsumed
	var fromDB models.Quote
	as.NoError(fromDB.FindByID(as.DB, quote.ID))
	as.Equal(api.QuoteStatusQuoted, fromDB.Status)
}
