package core

import (
	"context"
	"fmt"
	"strings"

	"rostercore/pkg/domain"
)

// NewBookInventoryRule returns the rule enforcing library inventory
// constraints: non-empty title and author, non-negative quantity.
func NewBookInventoryRule() domain.Rule {
	return bookInventoryRule{}
}

type bookInventoryRule struct{}

func (bookInventoryRule) Name() string { return "book_inventory" }

func (bookInventoryRule) Evaluate(_ context.Context, view domain.RuleView, _ []domain.Change) (domain.Result, error) {
	res := domain.Result{}
	for _, book := range view.ListBooks() {
		if strings.TrimSpace(book.Title) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "book_inventory",
				Severity: domain.SeverityBlock,
				Message:  "book has an empty title",
				Entity:   domain.EntityBook,
			})
		}
		if strings.TrimSpace(book.Author) == "" {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "book_inventory",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("book %q has an empty author", book.Title),
				Entity:   domain.EntityBook,
				EntityID: book.Title,
			})
		}
		if book.Quantity < 0 {
			res.Violations = append(res.Violations, domain.Violation{
				Rule:     "book_inventory",
				Severity: domain.SeverityBlock,
				Message:  fmt.Sprintf("book %q has negative quantity %d", book.Title, book.Quantity),
				Entity:   domain.EntityBook,
				EntityID: book.Title,
			})
		}
	}
	return res, nil
}
