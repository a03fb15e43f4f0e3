package core

import (
	"context"
	"fmt"
	"strings"

	"rostercore/pkg/domain"
)

// NewStudentFieldsRule returns the default in-transaction rule enforcing the
// student field constraints: non-empty name and grade, age within the
// inclusive accepted range.
func NewStudentFieldsRule() domain.Rule {
	return studentFieldsRule{}
}

type studentFieldsRule struct{}

func (studentFieldsRule) Name() string { return "student_fields" }

func (studentFieldsRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, student := range view.ListStudents() {
		if strings.TrimSpace(student.Name) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "student_fields",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("student %s has an empty name", student.ID),
				Entity:   domain.EntityStudent,
				EntityID: student.ID,
			})
		}
		if strings.TrimSpace(student.Grade) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "student_fields",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("student %s has an empty grade", student.ID),
				Entity:   domain.EntityStudent,
				EntityID: student.ID,
			})
		}
		if student.Age < domain.MinStudentAge || student.Age > domain.MaxStudentAge {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "student_fields",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("student %s age %d outside accepted range [%d,%d]", student.ID, student.Age, domain.MinStudentAge, domain.MaxStudentAge),
				Entity:   domain.EntityStudent,
				EntityID: student.ID,
			})
		}
	}
	return res, nil
}
