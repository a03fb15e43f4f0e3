package core

import (
	"context"
	"fmt"

	"rostercore/pkg/domain"
)

// NewStudentIdentityRule returns the rule guaranteeing that every student
// carries a usable id and that no two records share a case-insensitively
// equal one. The store's keying already enforces both; the rule keeps the
// invariant explicit so alternate backends cannot drift.
func NewStudentIdentityRule() domain.Rule {
	return studentIdentityRule{}
}

type studentIdentityRule struct{}

func (studentIdentityRule) Name() string { return "student_identity" }

func (studentIdentityRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	seen := make(map[string]string)
	for _, student := range view.ListStudents() {
		key := domain.NormalizeKey(student.ID)
		if key == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "student_identity",
				Severity: domain.SeverityBlock,
				Message:  "student has an empty id",
				Entity:   domain.EntityStudent,
			})
			continue
		}
		if firstID, dup := seen[key]; dup {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "student_identity",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("students %s and %s share the same id", firstID, student.ID),
				Entity:   domain.EntityStudent,
				EntityID: student.ID,
			})
			continue
		}
		seen[key] = student.ID
	}
	return res, nil
}
