package grifts

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/gobuffalo/grift/grift"
	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/models"
)

// seedRandSource keeps the synthetic policy book reproducible across runs.
const seedRandSource = 2025

const seedPolicyCount = 500

var _ = grift.Namespace("db", func() {
	grift.Desc("seed", "Seeds a database")
	_ = grift.Add("seed", func(c *grift.Context) error {
		count, err := models.DB.Count(models.Partners{})
		if err != nil {
			return err
		}

		if count > 0 {
			fmt.Printf("\nINFO: It appears that the grifts have already been run, "+
				"since there are already %v partners.\n", count)
			return nil
		}

		return models.DB.Transaction(func(tx *pop.Connection) error {
			partners, err := createPartnerFixtures(tx)
			if err != nil {
				return err
			}

			if err := createCarrierFixtures(tx); err != nil {
				return err
			}

			return createPolicyBookFixtures(tx, partners)
		})
	})
})

func createPartnerFixtures(tx *pop.Connection) (models.Partners, error) {
	partners := models.Partners{
		{
			Code:      "ptnr_klarity",
			Name:      "Klarity Checkout",
			Token:     "dev-token-klarity",
			Active:    true,
			Products:  "shipping,ppi",
			MarkupPct: 0.08,
		},
		{
			Code:      "ptnr_afterday",
			Name:      "Afterday Pay",
			Token:     "dev-token-afterday",
			Active:    true,
			Products:  "shipping,ppi",
			MarkupPct: 0.05,
		},
	}

	for i := range partners {
		if err := partners[i].Create(tx); err != nil {
			return nil, err
		}
	}
	return partners, nil
}

func createCarrierFixtures(tx *pop.Connection) error {
	carriers := models.Carriers{
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
		if err := carriers[i].Create(tx); err != nil {
			return err
		}
	}
	return nil
}

var (
	seedStates = []string{
		"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "HI", "IA", "ID", "IL",
		"IN", "KS", "KY", "LA", "MA", "MD", "ME", "MI", "MN", "MO", "MS", "MT", "NC",
		"ND", "NE", "NH", "NJ", "NM", "NV", "OH", "OK", "OR", "PA", "RI", "SC", "SD",
		"TN", "TX", "UT", "VA", "WA", "WI", "WV", "WY",
	}
	seedCategories    = []string{"general", "electronics", "electronics_high_value", "apparel"}
	seedDestRisks     = []string{"low", "medium", "high"}
	seedServiceLevels = []string{"ground", "expedited", "overnight"}
	seedJobCategories = []string{"full_time", "part_time", "seasonal_temp", "contractor"}
	seedBands         = []api.RiskBand{api.RiskBandA, api.RiskBandB, api.RiskBandC, api.RiskBandD, api.RiskBandE}
	seedBandMults     = map[api.RiskBand]float64{
		api.RiskBandA: 1.0, api.RiskBandB: 1.05, api.RiskBandC: 1.1,
		api.RiskBandD: 1.25, api.RiskBandE: 1.4,
	}
)

// createPolicyBookFixtures creates a synthetic book of bound policies so the
// portfolio simulator has something to chew on in development.
func createPolicyBookFixtures(tx *pop.Connection, partners models.Partners) error {
	rng := rand.New(rand.NewSource(seedRandSource))
	now := time.Now().UTC()

	for i := 0; i < seedPolicyCount; i++ {
		partner := partners[rng.Intn(len(partners))]
		band := seedBands[rng.Intn(len(seedBands))]

		quote := models.Quote{
			PartnerID:      partner.ID,
			Status:         api.QuoteStatusBound,
			RiskBand:       band,
			RiskScore:      float64(rng.Intn(101)) / 100,
			RiskMultiplier: seedBandMults[band],
			MarkupPct:      partner.MarkupPct,
			ExpiresAt:      now.AddDate(0, 0, domain.Env.QuoteLifetimeDays),
		}

		termMonths := 0
		if rng.Float64() < 0.55 {
			quote.ProductCode = api.ProductCodeShipping
			quote.CarrierCode = "c_atlas"
			quote.DeclaredValue = nulls.NewInt(2000 + rng.Intn(200000))
			quote.ItemCategory = nulls.NewString(seedCategories[rng.Intn(len(seedCategories))])
			quote.DestinationState = nulls.NewString(seedStates[rng.Intn(len(seedStates))])
			quote.DestinationRisk = nulls.NewString(seedDestRisks[rng.Intn(len(seedDestRisks))])
			quote.ServiceLevel = nulls.NewString(seedServiceLevels[rng.Intn(len(seedServiceLevels))])
			quote.BasePremiumCents = api.Currency(500 + rng.Intn(100000))
		} else {
			termMonths = []int{3, 6, 9, 12, 18, 24}[rng.Intn(6)]
			quote.ProductCode = api.ProductCodePPI
			quote.CarrierCode = "c_cascade"
			quote.OrderValue = nulls.NewInt(5000 + rng.Intn(300000))
			quote.TermMonths = nulls.NewInt(termMonths)
			quote.JobCategory = nulls.NewString(seedJobCategories[rng.Intn(len(seedJobCategories))])
			quote.State = nulls.NewString(seedStates[rng.Intn(len(seedStates))])
			quote.BasePremiumCents = api.Currency(100 + rng.Intn(5000))
		}
		quote.TotalPremiumCents = api.Currency(float64(quote.BasePremiumCents) * (1 + quote.MarkupPct))

		if err := quote.Create(tx); err != nil {
			return err
		}

		effective := now.AddDate(0, 0, -rng.Intn(90))
		expiration := effective.AddDate(0, 0, 30)
		if termMonths > 0 {
			expiration = effective.AddDate(0, termMonths, 0)
		}

		policy := models.Policy{
			QuoteID:            quote.ID,
			PartnerID:          partner.ID,
			ProductCode:        quote.ProductCode,
			Status:             api.PolicyStatusActive,
			RiskBand:           band,
			CarrierCode:        quote.CarrierCode,
			PremiumTotalCents:  quote.TotalPremiumCents,
			HolderName:         fmt.Sprintf("Seed Holder %04d", i),
			HolderAge:          18 + rng.Intn(48),
			HolderState:        seedStates[rng.Intn(len(seedStates))],
			HolderTenureMonths: rng.Intn(120),
			EffectiveDate:      effective,
			ExpirationDate:     expiration,
		}
		if err := policy.Create(tx); err != nil {
			return err
		}
	}

	return nil
}
