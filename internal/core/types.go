package core

import "rostercore/pkg/domain"

type (
	// EntityType aliases domain.EntityType.
	EntityType = domain.EntityType
	// Severity aliases domain.Severity.
	Severity = domain.Severity
	// Base aliases domain.Base common record fields.
	Base = domain.Base
	// Student aliases domain.Student for service operations.
	Student = domain.Student
	// StudentPatch aliases domain.StudentPatch describing a partial update.
	StudentPatch = domain.StudentPatch
	// Book aliases domain.Book.
	Book = domain.Book
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Action aliases domain.Action.
	Action = domain.Action
	// Violation aliases domain.Violation.
	Violation = domain.Violation
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RuleViolationError aliases the error returned for blocked transactions.
	RuleViolationError = domain.RuleViolationError
)

const (
	EntityStudent = domain.EntityStudent
	EntityBook    = domain.EntityBook
)

const (
	SeverityBlock = domain.SeverityBlock
	SeverityWarn  = domain.SeverityWarn
	SeverityLog   = domain.SeverityLog
)

const (
	ActionCreate = domain.ActionCreate
	ActionUpdate = domain.ActionUpdate
	ActionDelete = domain.ActionDelete
)
