package underwriting

import (
	"errors"
	"fmt"
	"sort"

	"github.com/embedsure/embed-api/api"
	"github.com/embedsure/embed-api/domain"
)

// Carrier is a read-only snapshot of one carrier's appetite and remaining
// capacity, taken at quote time. Capacity is a soft ceiling here; it is only
// consumed when a quote is bound.
type Carrier struct {
	ID                 string
	Name               string
	Products           []api.ProductCode
	States             []string // empty means all states
	ExcludedCategories []string
	CapacityCents      api.Currency
	CostRatio          float64 // expected claims cost as a fraction of premium
}

// Margin is the carrier's expected margin on a premium given its cost
// structure.
func (c Carrier) Margin(premium api.Currency) api.Currency {
	return premium - api.Currency(domain.RoundHalfUp(float64(premium)*c.CostRatio))
}

func (c Carrier) accepts(product api.ProductCode, state, category string) bool {
	accepted := false
	for _, p := range c.Products {
		if p == product {
			accepted = true
			break
		}
	}
	if !accepted {
		return false
	}

	if len(c.States) > 0 && !domain.IsStringInSlice(state, c.States) {
		return false
	}

	if category != "" && domain.IsStringInSlice(category, c.ExcludedCategories) {
		return false
	}

	return true
}

// Route selects the carrier for a priced quote: among carriers whose appetite
// matches the product, state and category, and whose remaining capacity covers
// the premium, it picks the one with the greatest margin, ties broken by
// carrier id ascending. The returned rationale is an audit-displayable
// explanation of the selection. An empty eligible set is an error, never a
// default carrier.
func Route(product api.ProductCode, state, category string, premium api.Currency, carriers []Carrier) (string, string, error) {
	eligible := make([]Carrier, 0, len(carriers))
	for _, c := range carriers {
		if !c.accepts(product, state, category) {
			continue
		}
		if c.CapacityCents < premium {
			continue
		}
		eligible = append(eligible, c)
	}

	if len(eligible) == 0 {
		return "", "", api.NewAppError(
			errors.New("no carrier with matching appetite and sufficient capacity"),
			api.ErrorNoCarrierAvailable, api.CategoryUnprocessable)
	}

	// Sorting by id first makes the strict-greater margin comparison below a
	// deterministic ascending-id tie-break.
	sort.Slice(eligible, func(i, j int) bool { return eligible[i].ID < eligible[j].ID })

	selected := eligible[0]
	for _, c := range eligible[1:] {
		if c.Margin(premium) > selected.Margin(premium) {
			selected = c
		}
	}

	rationale := fmt.Sprintf("selected %s: margin %s on premium %s, remaining capacity %s",
		selected.ID, selected.Margin(premium), premium, selected.CapacityCents)

	return selected.ID, rationale, nil
}
