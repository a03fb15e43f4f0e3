// Package domain defines the core roster entities, value types, and
// rule evaluation primitives used by rostercore.
package domain

import (
	"strings"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityStudent identifies a student roster record.
	EntityStudent EntityType = "student"
	// EntityBook identifies a library inventory record.
	EntityBook EntityType = "book"
)

// Severity captures rule outcomes.
type Severity string

// Rule evaluation severities determine commit behavior and logging.
const (
	// SeverityBlock blocks transaction commit.
	SeverityBlock Severity = "block"
	// SeverityWarn logs a warning but allows commit.
	SeverityWarn Severity = "warn"
	SeverityLog  Severity = "log"
)

// Age bounds accepted for student records, inclusive on both ends.
const (
	MinStudentAge = 5
	MaxStudentAge = 100
)

// Base contains common fields for all domain records.
type Base struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Student represents one managed roster record. ID is the unique key;
// uniqueness and lookup compare case-insensitively while the stored value
// preserves the casing supplied at registration.
type Student struct {
	Base
	ID    string `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Grade string `json:"grade"`
}

// StudentPatch describes a field-level partial update. A nil field means
// "leave the current value unchanged"; a non-nil field is a requested
// replacement that must satisfy the record constraints.
type StudentPatch struct {
	Name  *string
	Age   *int
	Grade *string
}

// IsZero reports whether the patch requests no changes at all.
func (p StudentPatch) IsZero() bool {
	return p.Name == nil && p.Age == nil && p.Grade == nil
}

// Book represents one library inventory record keyed case-insensitively by title.
type Book struct {
	Base
	Title    string `json:"title"`
	Author   string `json:"author"`
	Quantity int    `json:"quantity"`
}

// NormalizeKey derives the canonical lookup key for an identifier: surrounding
// whitespace is trimmed and the remainder lowercased. Every insertion and
// lookup site must key through this function so the uniqueness and lookup
// invariants cannot drift apart.
func NormalizeKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// Change describes a mutation applied to an entity during a transaction.
type Change struct {
	Entity EntityType
	Action Action
	Before any
	After  any
}

// Action indicates the type of modification performed.
type Action string

// Change actions enumerate supported CRUD operations captured for rule evaluation.
const (
	// ActionCreate indicates an entity was created.
	ActionCreate Action = "create"
	// ActionUpdate indicates an entity was updated.
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Violation reports a failed rule evaluation.
type Violation struct {
	Rule     string
	Severity Severity
	Message  string
	Entity   EntityType
	EntityID string
}

// Result aggregates violations from the rules engine.
type Result struct {
	Violations []Violation
}

// Merge appends violations from another result.
func (r *Result) Merge(other Result) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking returns true if the result contains blocking violations.
func (r Result) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
