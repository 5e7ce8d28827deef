// Test fixture helpers, shared by the models and actions test suites.

package models

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/compliance"
	"github.com/embedsure/embed-api/domain"
)

// Fixtures hold slices of model objects created for test fixtures
type Fixtures struct {
	Partners
	Carriers
	Quotes
	Policies
}

var (
	testRulesOnce sync.Once
	testRules     *compliance.RuleSet
)

// loadTestRules loads the real compliance rule file so bind tests exercise the
// same rules production runs with.
func loadTestRules() *compliance.RuleSet {
	testRulesOnce.Do(func() {
		var err error
		testRules, err = compliance.Load("../config/compliance.yaml")
		if err != nil {
			panic(fmt.Sprintf("failed to load compliance rules for tests: %s", err))
		}
	})
	return testRules
}

// CreatePartnerFixtures generates partner records for testing, all active with
// both products and an 8% markup.
func CreatePartnerFixtures(tx *pop.Connection, n int) Fixtures {
	partners := make(Partners, n)
	for i := range partners {
		partners[i] = Partner{
			Code:      "ptnr_" + randStr(8),
			Name:      fmt.Sprintf("Test Partner %d", i),
			Token:     randStr(32),
			Active:    true,
			Products:  "shipping,ppi",
			MarkupPct: 0.08,
		}
		mustCreate(tx, &partners[i])
	}

	return Fixtures{
		Partners: partners,
	}
}

// CreateCarrierFixtures generates the standard three-carrier panel used
// throughout the tests.
func CreateCarrierFixtures(tx *pop.Connection) Fixtures {
	carriers := Carriers{
		{
			Code:               "c_atlas",
			Name:               "Atlas Indemnity",
			Products:           "shipping,ppi",
			ExcludedCategories: "jewelry_high_value",
			CapacityCents:      50_000_000,
			CostRatio:          0.58,
		},
		{
			Code:          "c_borealis",
			Name:          "Borealis Mutual",
			Products:      "shipping",
			States:        "CA,WA,OR,NV,AZ",
			CapacityCents: 20_000_000,
			CostRatio:     0.64,
		},
		{
			Code:          "c_cascade",
			Name:          "Cascade Assurance",
			Products:      "ppi",
			CapacityCents: 30_000_000,
			CostRatio:     0.60,
		},
	}
	for i := range carriers {
		mustCreate(tx, &carriers[i])
	}

	return Fixtures{
		Carriers: carriers,
	}
}

// CreateQuoteFixtures generates quoted shipping quotes routed to c_atlas,
// priced from the worked example in the pricing tests.
func CreateQuoteFixtures(tx *pop.Connection, partner Partner, n int) Fixtures {
	quotes := make(Quotes, n)
	for i := range quotes {
		quotes[i] = Quote{
			PartnerID:   partner.ID,
			ProductCode: api.ProductCodeShipping,
			Status:      api.QuoteStatusQuoted,

			DeclaredValue:    nulls.NewInt(65000),
			ItemCategory:     nulls.NewString("electronics"),
			DestinationState: nulls.NewString("CA"),
			DestinationRisk:  nulls.NewString("medium"),
			ServiceLevel:     nulls.NewString("ground"),

			RiskScore:      0.85,
			RiskBand:       api.RiskBandE,
			RiskMultiplier: 1.4,

			BasePremiumCents:  57558,
			MarkupPct:         partner.MarkupPct,
			TotalPremiumCents: 62162,

			CarrierCode:        "c_atlas",
			ComplianceDecision: api.ComplianceOutcomeAllow,
			ComplianceVersion:  "2024-07",

			ExpiresAt: time.Now().UTC().AddDate(0, 0, domain.Env.QuoteLifetimeDays),
		}
		mustCreate(tx, &quotes[i])
	}

	return Fixtures{
		Quotes: quotes,
	}
}

// CreatePPIQuoteFixture generates a quoted PPI quote routed to c_cascade.
func CreatePPIQuoteFixture(tx *pop.Connection, partner Partner, state string) Quote {
	quote := Quote{
		PartnerID:   partner.ID,
		ProductCode: api.ProductCodePPI,
		Status:      api.QuoteStatusQuoted,

		OrderValue:  nulls.NewInt(40000),
		TermMonths:  nulls.NewInt(12),
		JobCategory: nulls.NewString("full_time"),
		State:       nulls.NewString(state),

		RiskScore:      0.1,
		RiskBand:       api.RiskBandA,
		RiskMultiplier: 1.0,

		BasePremiumCents:  320,
		MarkupPct:         partner.MarkupPct,
		TotalPremiumCents: 346,

		CarrierCode:        "c_cascade",
		ComplianceDecision: api.ComplianceOutcomeAllow,
		ComplianceVersion:  "2024-07",

		ExpiresAt: time.Now().UTC().AddDate(0, 0, domain.Env.QuoteLifetimeDays),
	}
	mustCreate(tx, &quote)
	return quote
}

// CreatePolicyFixtures generates active policies, each bound from its own
// quote, with partner and carrier fixtures included.
func CreatePolicyFixtures(tx *pop.Connection, n int) Fixtures {
	partner := CreatePartnerFixtures(tx, 1).Partners[0]
	carriers := CreateCarrierFixtures(tx).Carriers
	quotes := CreateQuoteFixtures(tx, partner, n).Quotes

	now := time.Now().UTC()
	policies := make(Policies, n)
	for i := range policies {
		quotes[i].Status = api.QuoteStatusBound
		mustUpdate(tx, &quotes[i])

		policies[i] = Policy{
			QuoteID:           quotes[i].ID,
			PartnerID:         partner.ID,
			ProductCode:       quotes[i].ProductCode,
			Status:            api.PolicyStatusActive,
			RiskBand:          quotes[i].RiskBand,
			CarrierCode:       quotes[i].CarrierCode,
			PremiumTotalCents: quotes[i].TotalPremiumCents,

			HolderName:         fmt.Sprintf("Test Holder %d", i),
			HolderAge:          30,
			HolderState:        "CA",
			HolderTenureMonths: 24,

			EffectiveDate:  now,
			ExpirationDate: now.AddDate(0, 0, shippingCoverageDays),
		}
		mustCreate(tx, &policies[i])
	}

	return Fixtures{
		Partners: Partners{partner},
		Carriers: carriers,
		Quotes:   quotes,
		Policies: policies,
	}
}

func mustCreate(tx *pop.Connection, m interface{ Create(*pop.Connection) error }) {
	if err := m.Create(tx); err != nil {
		panic(fmt.Sprintf("failed to create fixture of type %T, %s", m, err))
	}
}

func mustUpdate(tx *pop.Connection, m interface{ Update(*pop.Connection) error }) {
	if err := m.Update(tx); err != nil {
		panic(fmt.Sprintf("failed to update fixture of type %T, %s", m, err))
	}
}

const chars = "abcdefghijklmnopqrstuvwxyz123456789"

func randStr(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = chars[rand.Int63()%int64(len(chars))]
	}
	return string(b)
}

func DestroyAll() {
	// delete all LedgerEntries
	var ledgerEntries LedgerEntries
	destroyTable(&ledgerEntries)

	// delete all Policies
	var policies Policies
	destroyTable(&policies)

	// delete all Quotes
	var quotes Quotes
	destroyTable(&quotes)

	// delete all Carriers
	var carriers Carriers
	destroyTable(&carriers)

	// delete all Partners
	var partners Partners
	destroyTable(&partners)
}

func destroyTable(i interface{}) {
	if err := DB.All(i); err != nil {
		panic(err.Error())
	}
	if err := DB.Destroy(i); err != nil {
		panic(err.Error())
	}
}
