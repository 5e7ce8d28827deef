package api

// SimulationCreate represents payload for a portfolio simulation run
// swagger:model
type SimulationCreate struct {
	// portfolio snapshot month, "YYYY-MM"
	AsOfMonth string `json:"as_of_month"`

	// number of Monte Carlo scenarios
	ScenarioCount int `json:"scenario_count"`

	// retention levels to evaluate, in cents, order preserved in the output
	RetentionGrid []Currency `json:"retention_grid"`

	Reinsurance ReinsuranceParams `json:"reinsurance"`

	// random seed; runs with the same seed and inputs are bit-identical
	Seed int64 `json:"seed"`

	// store the result report in the archive bucket
	Archive bool `json:"archive,omitempty"`
}

// ReinsuranceParams prices ceded losses
// swagger:model
type ReinsuranceParams struct {
	// rate on line applied to expected ceded loss, decimal fraction
	RateOnLine float64 `json:"rate_on_line"`

	// reinsurer expense load, decimal fraction
	Load float64 `json:"load"`
}

// RetentionEntry is one row of the retention analysis
// swagger:model
type RetentionEntry struct {
	// retention level in cents
	Retention Currency `json:"retention"`

	// mean uncapped portfolio loss per scenario, cents
	ExpectedLoss Currency `json:"expected_loss"`

	// mean loss ceded above the retention, cents
	ExpectedCeded Currency `json:"expected_ceded"`

	// expected ceded loss priced at rate-on-line plus load, cents
	ReinsurancePremium Currency `json:"reinsurance_premium"`

	// mean retained loss plus reinsurance premium, cents
	ExpectedNet Currency `json:"expected_net"`
}

// Recommendation names the retention grid entry minimizing expected net cost
// swagger:model
type Recommendation struct {
	Retention Currency `json:"retention"`

	ExpectedNet Currency `json:"expected_net"`

	// fixed-format explanation suitable for audit display
	Rationale string `json:"rationale"`
}

// PortfolioResult is the aggregate output of one simulation run
// swagger:model
type PortfolioResult struct {
	AsOfMonth string `json:"as_of_month"`

	ScenarioCount int `json:"scenario_count"`

	PolicyCount int `json:"policy_count"`

	Seed int64 `json:"seed"`

	// 95th percentile of the empirical loss distribution, cents
	Var95 Currency `json:"var95"`

	// 99th percentile of the empirical loss distribution, cents
	Var99 Currency `json:"var99"`

	// mean of losses at or above the 99th percentile, cents; always >= var99
	TailVar99 Currency `json:"tailvar99"`

	RetentionTable []RetentionEntry `json:"retention_table"`

	Recommended Recommendation `json:"recommended"`

	// URL of the archived report, set only when archiving was requested
	ReportURL string `json:"report_url,omitempty"`
}
