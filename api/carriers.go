package api

// swagger:model
type Carriers []Carrier

// Carrier represents an underwriting carrier's appetite and capacity
// swagger:model
type Carrier struct {
	// short carrier identifier, e.g. "c_atlas"
	ID string `json:"id"`

	Name string `json:"name"`

	// products the carrier will write
	Products []ProductCode `json:"products"`

	// states the carrier will write in; empty means all
	States []string `json:"states,omitempty"`

	// shipping item categories the carrier excludes
	ExcludedCategories []string `json:"excluded_categories,omitempty"`

	// remaining underwriting capacity in cents
	CapacityCents Currency `json:"capacity_cents"`

	// expected claims cost as a fraction of premium
	CostRatio float64 `json:"cost_ratio"`
}

// swagger:model
type Partners []Partner

// Partner represents a marketplace partner allowed to request quotes
// swagger:model
type Partner struct {
	// short partner identifier, e.g. "ptnr_klarity"
	ID string `json:"id"`

	Name string `json:"name"`

	// products the partner may quote
	Products []ProductCode `json:"products"`

	// partner markup as a decimal fraction, 0 <= p < 1
	MarkupPct float64 `json:"markup_pct"`
}
