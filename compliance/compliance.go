// Package compliance evaluates a declarative, versioned rule set against the
// attributes known about a quote or policyholder. Evaluation never fails: a
// condition over a missing attribute is a non-match, and every rule is
// evaluated even after a block so the audit trail stays complete.
package compliance

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/embedsure/embed-api/api"
)

// Op is a condition operator
type Op string

const (
	OpEq  = Op("eq")
	OpNe  = Op("ne")
	OpLt  = Op("lt")
	OpLte = Op("lte")
	OpGt  = Op("gt")
	OpGte = Op("gte")
	OpIn  = Op("in")
)

var validOps = map[Op]struct{}{
	OpEq: {}, OpNe: {}, OpLt: {}, OpLte: {}, OpGt: {}, OpGte: {}, OpIn: {},
}

// Context is the set of subject attributes a rule set is evaluated against.
// At quote time it holds the product attributes; at bind time it additionally
// holds the policyholder attributes.
type Context map[string]interface{}

// Condition is one attribute test. All conditions of a rule must hold for the
// rule to trigger (AND semantics).
type Condition struct {
	Attr  string      `yaml:"attr"`
	Op    Op          `yaml:"op"`
	Value interface{} `yaml:"value"`
}

// Rule is a declarative predicate+action pair. A rule with no conditions
// always triggers for its product (general disclosures).
type Rule struct {
	ID         string               `yaml:"id"`
	AppliesTo  api.ProductCode      `yaml:"applies_to"`
	Conditions []Condition          `yaml:"conditions"`
	Action     api.ComplianceAction `yaml:"action"`
	Message    string               `yaml:"message"`
}

// RuleSet is an ordered list of rules with a version tag. It is an immutable
// configuration snapshot; reloading produces a new RuleSet.
type RuleSet struct {
	Version string `yaml:"version"`
	Rules   []Rule `yaml:"rules"`
}

// Load reads and parses a rule set document from a YAML file.
func Load(path string) (*RuleSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading compliance rules from %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse parses and validates a YAML rule set document.
func Parse(raw []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(raw, &rs); err != nil {
		return nil, fmt.Errorf("error parsing compliance rules: %w", err)
	}

	if rs.Version == "" {
		return nil, fmt.Errorf("compliance rule set has no version tag")
	}

	seen := make(map[string]struct{}, len(rs.Rules))
	for i, r := range rs.Rules {
		if r.ID == "" {
			return nil, fmt.Errorf("compliance rule %d has no id", i)
		}
		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("duplicate compliance rule id %q", r.ID)
		}
		seen[r.ID] = struct{}{}

		if r.Action != api.ComplianceActionBlock && r.Action != api.ComplianceActionDisclose {
			return nil, fmt.Errorf("compliance rule %q has invalid action %q", r.ID, r.Action)
		}
		for _, c := range r.Conditions {
			if _, ok := validOps[c.Op]; !ok {
				return nil, fmt.Errorf("compliance rule %q has invalid operator %q", r.ID, c.Op)
			}
			if c.Attr == "" {
				return nil, fmt.Errorf("compliance rule %q has a condition with no attribute", r.ID)
			}
		}
	}

	return &rs, nil
}
