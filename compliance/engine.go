package compliance

import (
	"github.com/embedsure/embed-api/api"
)

// Evaluate runs every rule of the set, in order, against the given product and
// context. It returns a complete audit record: all triggered rule ids, all
// disclosure messages in rule order, and every block rule id that fired. It
// never returns an error.
func (rs *RuleSet) Evaluate(product api.ProductCode, ctx Context) api.ComplianceDecision {
	decision := api.ComplianceDecision{
		Decision:     api.ComplianceOutcomeAllow,
		Disclosures:  []string{},
		RulesApplied: []string{},
		Version:      rs.Version,
	}

	for _, rule := range rs.Rules {
		if rule.AppliesTo != product {
			continue
		}
		if !rule.triggers(ctx) {
			continue
		}

		decision.RulesApplied = append(decision.RulesApplied, rule.ID)
		decision.Disclosures = append(decision.Disclosures, rule.Message)

		if rule.Action == api.ComplianceActionBlock {
			decision.Decision = api.ComplianceOutcomeBlock
			decision.BlockingRules = append(decision.BlockingRules, rule.ID)
		}
	}

	return decision
}

// triggers reports whether all conditions hold. A rule with no conditions
// always triggers for its product.
func (r Rule) triggers(ctx Context) bool {
	for _, c := range r.Conditions {
		if !c.holds(ctx) {
			return false
		}
	}
	return true
}

// holds evaluates one condition. A missing attribute or a type mismatch is a
// non-match, never a fault.
func (c Condition) holds(ctx Context) bool {
	actual, ok := ctx[c.Attr]
	if !ok || actual == nil {
		return false
	}

	switch c.Op {
	case OpEq:
		return valuesEqual(actual, c.Value)
	case OpNe:
		return !valuesEqual(actual, c.Value)
	case OpIn:
		list, ok := c.Value.([]interface{})
		if !ok {
			return false
		}
		for _, v := range list {
			if valuesEqual(actual, v) {
				return true
			}
		}
		return false
	case OpLt, OpLte, OpGt, OpGte:
		a, aOK := toFloat(actual)
		b, bOK := toFloat(c.Value)
		if !aOK || !bOK {
			return false
		}
		switch c.Op {
		case OpLt:
			return a < b
		case OpLte:
			return a <= b
		case OpGt:
			return a > b
		case OpGte:
			return a >= b
		}
	}

	return false
}

func valuesEqual(a, b interface{}) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af == bf
		}
		return false
	}

	as, aOK := toString(a)
	bs, bOK := toString(b)
	return aOK && bOK && as == bs
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case api.Currency:
		return float64(n), true
	}
	return 0, false
}

func toString(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case api.ProductCode:
		return string(s), true
	case api.RiskBand:
		return string(s), true
	}
	return "", false
}
