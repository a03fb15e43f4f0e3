package core

import "rostercore/pkg/domain"

type (
	// Rule aliases domain.Rule for registration convenience.
	Rule = domain.Rule
	// RuleView aliases the read-only view rules evaluate against.
	RuleView = domain.RuleView
	// RulesEngine aliases domain.RulesEngine.
	RulesEngine = domain.RulesEngine
)

// NewRulesEngine constructs an empty engine instance.
func NewRulesEngine() *RulesEngine {
	return domain.NewRulesEngine()
}

// NewDefaultRulesEngine builds a rules engine with the built-in policy set.
func NewDefaultRulesEngine() *RulesEngine {
	engine := NewRulesEngine()
	engine.Register(NewStudentIdentityRule())
	engine.Register(NewStudentFieldsRule())
	engine.Register(NewBookInventoryRule())
	return engine
}
