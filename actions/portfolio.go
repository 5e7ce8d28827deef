package actions

import (
	"encoding/json"
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
	"github.com/embedsure/embed-api/models"
	"github.com/embedsure/embed-api/simulation"
	"github.com/embedsure/embed-api/storage"
)

// swagger:operation POST /portfolio/simulations Portfolio PortfolioSimulate
//
// PortfolioSimulate
//
// Run a Monte Carlo reinsurance analysis over the policies active in the
// given month. Results are deterministic for a given seed and policy book.
//
// ---
//
//	parameters:
//	  - name: simulation input
//	    in: body
//	    description: simulation parameters
//	    required: true
//	    schema:
//	      "$ref": "#/definitions/SimulationCreate"
//	responses:
//	  '200':
//	    description: the simulation result
//	    schema:
//	      "$ref": "#/definitions/PortfolioResult"
func portfolioSimulate(c buffalo.Context) error {
	var input api.SimulationCreate
	if err := StrictBind(c, &input); err != nil {
		return reportError(c, err)
	}

	tx := models.Tx(c)

	month, err := domain.ParseMonth(input.AsOfMonth)
	if err != nil {
		return reportError(c, api.NewAppError(
			fmt.Errorf("as_of_month must be in YYYY-MM form, got %q", input.AsOfMonth),
			api.ErrorSimulationInput, api.CategoryUser))
	}

	var policies models.Policies
	if err := policies.ActiveAsOf(tx, month); err != nil {
		return reportError(c, err)
	}

	result, err := simulation.Simulate(c, simulation.Input{
		AsOfMonth:     input.AsOfMonth,
		ScenarioCount: input.ScenarioCount,
		RetentionGrid: input.RetentionGrid,
		Reinsurance:   input.Reinsurance,
		Seed:          input.Seed,
		Workers:       domain.Env.SimulationWorkers,
	}, policies.SimulationBook())
	if err != nil {
		return reportError(c, err)
	}

	if input.Archive {
		url, err := archiveReport(result)
		if err != nil {
			return reportError(c, err)
		}
		result.ReportURL = url
	}

	return renderOk(c, result)
}

// archiveReport stores the result JSON in the archive bucket and returns its
// URL.
func archiveReport(result api.PortfolioResult) (string, error) {
	content, err := json.Marshal(result)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("simulations/%s/seed-%d.json", result.AsOfMonth, result.Seed)
	objectUrl, err := storage.StoreFile(key, "application/json", content)
	if err != nil {
		return "", fmt.Errorf("failed to archive simulation report: %w", err)
	}

	return objectUrl.Url, nil
}
