package actions

import (
	"net/http"
	"time"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/models"
)

func (as *ActionSuite) Test_PortfolioSimulate() {
	f := models.CreatePolicyFixtures(as.DB, 5)
	partner := f.Partners[0]

	input := api.SimulationCreate{
		AsOfMonth:     time.Now().UTC().Format(domain.MonthFormat),
		ScenarioCount: 500,
		RetentionGrid: []api.Currency{50_000, 250_000, 1_000_000},
		Reinsurance:   api.ReinsuranceParams{RateOnLine: 0.12, Load: 0.25},
		Seed:          42,
	}

	res := as.authedJSON(partner, "/portfolio/simulations").Post(input)
	as.Equal(http.StatusOK, res.Code, "incorrect status code returned: %s", res.Body.String())

	var result api.PortfolioResult
	as.NoError(as.decodeBody(res.Body.Bytes(), &result))

	as.Equal(input.AsOfMonth, result.AsOfMonth)
	as.Equal(500, result.ScenarioCount)
	as.Equal(5, result.PolicyCount)
	as.Equal(int64(42), result.Seed)

	as.GreaterOrEqual(result.Var99, result.Var95)
	as.GreaterOrEqual(result.TailVar99, result.Var99)

	as.Len(result.RetentionTable, 3)
	as.Equal(api.Currency(50_000), result.RetentionTable[0].Retention)
	as.NotEmpty(result.Recommended.Rationale)
	as.Empty(result.ReportURL)

	// the same seed and book reproduce the same result
	res2 := as.authedJSON(partner, "/portfolio/simulations").Post(input)
	as.Equal(http.StatusOK, res2.Code)
	as.Equal(res.Body.String(), res2.Body.String(), "simulation results must be deterministic")
}

func (as *ActionSuite) Test_PortfolioSimulate_InvalidInput() {
	partner := models.CreatePartnerFixtures(as.DB, 1).Partners[0]

	base := api.SimulationCreate{
		AsOfMonth:     "2026-08",
		ScenarioCount: 1000,
		RetentionGrid: []api.Currency{50_000},
		Reinsurance:   api.ReinsuranceParams{RateOnLine: 0.12, Load: 0.25},
		Seed:          1,
	}

	badMonth := base
	badMonth.AsOfMonth = "August 2026"
	res := as.authedJSON(partner, "/portfolio/simulations").Post(badMonth)
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorSimulationInput)}, res.Body.String(), "bad month")

	tooMany := base
	tooMany.ScenarioCount = domain.Env.MaxScenarioCount + 1
	res = as.authedJSON(partner, "/portfolio/simulations").Post(tooMany)
	as.Equal(http.StatusBadRequest, res.Code)
	as.verifyResponseData([]string{string(api.ErrorSimulationScenarioLimit)}, res.Body.String(), "scenario limit")
}
