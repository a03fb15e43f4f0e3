package core

import (
	"context"
	"testing"

	"rostercore/pkg/domain"
)

type staticView struct {
	students []domain.Student
	books    []domain.Book
}

func (v staticView) ListStudents() []domain.Student { return v.students }

func (v staticView) ListBooks() []domain.Book { return v.books }

func (v staticView) FindStudent(id string) (domain.Student, bool) {
	key := domain.NormalizeKey(id)
	for _, s := range v.students {
		if domain.NormalizeKey(s.ID) == key {
			return s, true
		}
	}
	return domain.Student{}, false
}

func (v staticView) FindBook(title string) (domain.Book, bool) {
	key := domain.NormalizeKey(title)
	for _, b := range v.books {
		if domain.NormalizeKey(b.Title) == key {
			return b, true
		}
	}
	return domain.Book{}, false
}

func evaluateRule(t *testing.T, rule Rule, view staticView) domain.Result {
	t.Helper()
	res, err := rule.Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("%s: %v", rule.Name(), err)
	}
	return res
}

func TestStudentFieldsRuleAgeBoundaries(t *testing.T) {
	rule := NewStudentFieldsRule()
	cases := []struct {
		name      string
		age       int
		violating bool
	}{
		{"below minimum", domain.MinStudentAge - 1, true},
		{"at minimum", domain.MinStudentAge, false},
		{"at maximum", domain.MaxStudentAge, false},
		{"above maximum", domain.MaxStudentAge + 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			view := staticView{students: []domain.Student{{ID: "S1", Name: "Pat", Age: tc.age, Grade: "G1"}}}
			res := evaluateRule(t, rule, view)
			if res.HasBlocking() != tc.violating {
				t.Fatalf("age %d: blocking=%v, want %v (%+v)", tc.age, res.HasBlocking(), tc.violating, res.Violations)
			}
		})
	}
}

func TestStudentFieldsRuleRequiredFields(t *testing.T) {
	rule := NewStudentFieldsRule()
	view := staticView{students: []domain.Student{{ID: "S1", Name: "", Age: 12, Grade: ""}}}
	res := evaluateRule(t, rule, view)
	if len(res.Violations) != 2 {
		t.Fatalf("expected violations for name and grade, got %+v", res.Violations)
	}
	for _, v := range res.Violations {
		if v.Severity != domain.SeverityBlock || v.EntityID != "S1" {
			t.Fatalf("unexpected violation: %+v", v)
		}
	}
}

func TestStudentIdentityRule(t *testing.T) {
	rule := NewStudentIdentityRule()

	clean := staticView{students: []domain.Student{
		{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"},
		{ID: "B2", Name: "Bob", Age: 15, Grade: "G9"},
	}}
	if res := evaluateRule(t, rule, clean); res.HasBlocking() {
		t.Fatalf("distinct ids flagged: %+v", res.Violations)
	}

	dup := staticView{students: []domain.Student{
		{ID: "A1", Name: "Alice", Age: 16, Grade: "G10"},
		{ID: "a1", Name: "Shadow", Age: 15, Grade: "G9"},
	}}
	res := evaluateRule(t, rule, dup)
	if !res.HasBlocking() {
		t.Fatalf("case-variant duplicate not flagged")
	}

	empty := staticView{students: []domain.Student{{ID: "   ", Name: "Ghost", Age: 12, Grade: "G6"}}}
	if res := evaluateRule(t, rule, empty); !res.HasBlocking() {
		t.Fatalf("empty id not flagged")
	}
}

func TestBookInventoryRule(t *testing.T) {
	rule := NewBookInventoryRule()

	clean := staticView{books: []domain.Book{{Title: "Dune", Author: "Frank Herbert", Quantity: 3}}}
	if res := evaluateRule(t, rule, clean); res.HasBlocking() {
		t.Fatalf("valid book flagged: %+v", res.Violations)
	}

	bad := staticView{books: []domain.Book{{Title: "Dune", Author: "", Quantity: -1}}}
	res := evaluateRule(t, rule, bad)
	if len(res.Violations) != 2 {
		t.Fatalf("expected author and quantity violations, got %+v", res.Violations)
	}
}

func TestDefaultRulesEngineAggregates(t *testing.T) {
	engine := NewDefaultRulesEngine()
	view := staticView{
		students: []domain.Student{{ID: "S1", Name: "", Age: 200, Grade: "G1"}},
		books:    []domain.Book{{Title: "Dune", Author: "", Quantity: 1}},
	}
	res, err := engine.Evaluate(context.Background(), view, nil)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(res.Violations) != 3 {
		t.Fatalf("expected aggregated violations from all rules, got %+v", res.Violations)
	}
}
