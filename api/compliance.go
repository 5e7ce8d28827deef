package api

// ComplianceAction
//
// may be one of: block, disclose
//
// swagger:model
type ComplianceAction string

const (
	ComplianceActionBlock    = ComplianceAction("block")
	ComplianceActionDisclose = ComplianceAction("disclose")
)

// ComplianceOutcome
//
// may be one of: allow, block
//
// swagger:model
type ComplianceOutcome string

const (
	ComplianceOutcomeAllow = ComplianceOutcome("allow")
	ComplianceOutcomeBlock = ComplianceOutcome("block")
)

// ComplianceDecision is the audit record of one rule-set evaluation
// swagger:model
type ComplianceDecision struct {
	Decision ComplianceOutcome `json:"decision"`

	// disclosure messages of every triggered disclose rule, in rule order
	Disclosures []string `json:"disclosures"`

	// ids of every triggered rule, in rule order
	RulesApplied []string `json:"rules_applied"`

	// ids of every triggered block rule; empty when the decision is allow
	BlockingRules []string `json:"blocking_rules,omitempty"`

	// version tag of the rule set that produced this decision
	Version string `json:"version"`
}
