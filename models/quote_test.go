package models

import (
	"testing"
	"time"

	"github.com/embedsure/embed-api/api"
)

func (ms *ModelSuite) TestQuote_Create() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]

	quote := CreateQuoteFixtures(ms.DB, partner, 1).Quotes[0]
	ms.False(quote.ID.IsNil())

	var fromDB Quote
	ms.NoError(fromDB.FindByID(ms.DB, quote.ID))
	ms.Equal(api.QuoteStatusQuoted, fromDB.Status)
	ms.Equal("c_atlas", fromDB.CarrierCode)

	// an invalid record is rejected by validation
	bad := Quote{PartnerID: partner.ID, ProductCode: "warranty", Status: api.QuoteStatusQuoted}
	err := bad.Create(ms.DB)
	ms.EqualAppError(api.AppError{Key: api.ErrorValidation, Category: api.CategoryUser}, err)
}

func (ms *ModelSuite) TestQuote_EnsureBindable() {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		status  api.QuoteStatus
		expires time.Time
		wantErr *api.AppError
	}{
		{
			name:    "quoted and unexpired",
			status:  api.QuoteStatusQuoted,
			expires: now.AddDate(0, 0, 1),
		},
		{
			name:    "already bound",
			status:  api.QuoteStatusBound,
			expires: now.AddDate(0, 0, 1),
			wantErr: &api.AppError{Key: api.ErrorQuoteStatus, Category: api.CategoryUser},
		},
		{
			name:    "expired",
			status:  api.QuoteStatusQuoted,
			expires: now.Add(-time.Minute),
			wantErr: &api.AppError{Key: api.ErrorQuoteExpired, Category: api.CategoryUser},
		},
		{
			name:    "expired and bound reports status first",
			status:  api.QuoteStatusExpired,
			expires: now.Add(-time.Minute),
			wantErr: &api.AppError{Key: api.ErrorQuoteStatus, Category: api.CategoryUser},
		},
	}

	for _, tt := range tests {
		ms.T().Run(tt.name, func(t *testing.T) {
			quote := Quote{Status: tt.status, ExpiresAt: tt.expires}
			err := quote.EnsureBindable(now)

			if tt.wantErr != nil {
				ms.EqualAppError(*tt.wantErr, err)
				return
			}
			ms.NoError(err)
		})
	}
}

func (ms *ModelSuite) TestQuote_Request() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]

	shipping := CreateQuoteFixtures(ms.DB, partner, 1).Quotes[0]
	req := shipping.Request()
	ms.Equal(api.ProductCodeShipping, req.ProductCode)
	ms.NotNil(req.Shipping)
	ms.Nil(req.PPI)
	ms.Equal(api.Currency(65000), req.Shipping.DeclaredValue)
	ms.Equal("electronics", req.Shipping.ItemCategory)
	ms.Equal("CA", req.Shipping.DestinationState)

	ppi := CreatePPIQuoteFixture(ms.DB, partner, "TX")
	req = ppi.Request()
	ms.Equal(api.ProductCodePPI, req.ProductCode)
	ms.NotNil(req.PPI)
	ms.Nil(req.Shipping)
	ms.Equal(12, req.PPI.TermMonths)
	ms.Equal("TX", req.PPI.State)
}

func (ms *ModelSuite) TestQuote_ConvertToAPI() {
	partner := CreatePartnerFixtures(ms.DB, 1).Partners[0]
	quote := CreateQuoteFixtures(ms.DB, partner, 1).Quotes[0]

	quote.Disclosures = "CA FTC disclosure|second line, with comma"
	quote.RulesApplied = "disclose_ca"
	quote.BlockingRules = ""

	got := quote.ConvertToAPI(ms.DB)

	ms.Equal(quote.ID, got.ID)
	ms.Equal(partner.Code, got.PartnerID, "api partner id must be the partner code")
	ms.Equal("c_atlas", got.CarrierID)
	ms.Equal(api.Currency(57558), got.Price.BasePremiumCents)
	ms.Equal(api.Currency(62162), got.Price.TotalPremiumCents)
	ms.Equal(1.4, got.Risk.RiskMultiplier)

	ms.Equal([]string{"CA FTC disclosure", "second line, with comma"}, got.Compliance.Disclosures)
	ms.Equal([]string{"disclose_ca"}, got.Compliance.RulesApplied)
	ms.Nil(got.Compliance.BlockingRules)
}
