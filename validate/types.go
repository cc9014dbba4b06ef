// Package validate implements the validation rules (C10): pure functions
// over parsed entities that return RuleResult lists. Rules are total --
// missing input yields a passed "skipped: insufficient data" result, never
// an error -- matching the original Python rule modules' shape
// (nhl_api.validation.rules.boxscore.validate_boxscore,
// nhl_api.validation.rules.cross_source).
package validate

import "github.com/relentnet/nhl-ingest/model"

// RuleResult is one rule's verdict against one entity, pre-persistence.
// reconcile.Run turns these into model.ValidationResult rows.
type RuleResult struct {
	RuleName string
	Category model.ValidationCategory
	Passed   bool
	Severity model.ValidationSeverity
	Message  string
	Details  map[string]any
	EntityID string
}

func passed(ruleName string, cat model.ValidationCategory, msg, entityID string) RuleResult {
	return RuleResult{
		RuleName: ruleName,
		Category: cat,
		Passed:   true,
		Severity: model.SeverityInfo,
		Message:  msg,
		EntityID: entityID,
	}
}

func failed(ruleName string, cat model.ValidationCategory, sev model.ValidationSeverity, msg, entityID string, details map[string]any) RuleResult {
	return RuleResult{
		RuleName: ruleName,
		Category: cat,
		Passed:   false,
		Severity: sev,
		Message:  msg,
		Details:  details,
		EntityID: entityID,
	}
}

// skipped is the "insufficient data" total-function escape hatch required
// by spec.md section 4.9: a rule that cannot run because a required input
// is absent reports passed=true rather than failing or erroring.
func skipped(ruleName string, cat model.ValidationCategory, reason, entityID string) RuleResult {
	return RuleResult{
		RuleName: ruleName,
		Category: cat,
		Passed:   true,
		Severity: model.SeverityInfo,
		Message:  "skipped: insufficient data -- " + reason,
		EntityID: entityID,
	}
}

// Skipped is the exported form of skipped, used by reconcile when an
// entire rule group's required entity hasn't been ingested yet for a game
// (the rule function itself never even gets called).
func Skipped(ruleName string, cat model.ValidationCategory, reason, entityID string) RuleResult {
	return skipped(ruleName, cat, reason, entityID)
}
