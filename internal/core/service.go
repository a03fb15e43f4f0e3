package core

import (
	"context"
	"strings"
	"time"

	"rostercore/pkg/domain"
)

// Service exposes higher-level transactional operations for the roster and
// library collections. Every mutating operation validates fully before any
// change becomes visible; expected failures are reported as typed domain
// errors, never as panics.
type Service struct {
	store   domain.PersistentStore
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	now     func() time.Time
}

// NewService constructs a service backed by the supplied store.
func NewService(store domain.PersistentStore, opts ...ServiceOption) *Service {
	s := &Service{
		store:  store,
		logger: NoopLogger{},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the underlying storage implementation.
func (s *Service) Store() domain.PersistentStore {
	return s.store
}

// RegisterStudent adds a new roster record. The id must not collide with an
// existing record (compared case-insensitively); the duplicate check runs
// before field validation. All fields must satisfy the record constraints or
// the operation is rejected whole.
func (s *Service) RegisterStudent(ctx context.Context, student Student) (Student, Result, error) {
	ctx, done := s.observe(ctx, "register_student")
	var created Student
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		created, err = tx.CreateStudent(student)
		return err
	})
	done(err)
	return created, res, err
}

// UpdateStudent applies a field-level partial patch to an existing record.
// Nil patch fields leave the current values untouched; a supplied value that
// violates a constraint rejects the whole update and leaves the record
// unchanged. The id is never mutated.
func (s *Service) UpdateStudent(ctx context.Context, id string, patch StudentPatch) (Student, Result, error) {
	ctx, done := s.observe(ctx, "update_student")
	var updated Student
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		var err error
		updated, err = tx.UpdateStudent(id, func(st *Student) error {
			if patch.Name != nil {
				st.Name = strings.TrimSpace(*patch.Name)
			}
			if patch.Age != nil {
				st.Age = *patch.Age
			}
			if patch.Grade != nil {
				st.Grade = strings.TrimSpace(*patch.Grade)
			}
			return nil
		})
		return err
	})
	done(err)
	return updated, res, err
}

// GetStudent retrieves a record by its case-insensitive id. Read-only.
func (s *Service) GetStudent(id string) (Student, bool) {
	return s.store.GetStudent(id)
}

// SearchStudentsByName returns records whose name contains the query as a
// case-insensitive substring, in insertion order. An empty query matches nothing.
func (s *Service) SearchStudentsByName(query string) []Student {
	return s.store.SearchStudentsByName(query)
}

// ListStudents returns a snapshot of the roster in insertion order.
func (s *Service) ListStudents() []Student {
	return s.store.ListStudents()
}

// CountStudents returns the current number of roster records.
func (s *Service) CountStudents() int {
	return s.store.CountStudents()
}

// RemoveStudent deletes a record by id, failing if no such record exists.
func (s *Service) RemoveStudent(ctx context.Context, id string) (Result, error) {
	ctx, done := s.observe(ctx, "remove_student")
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		return tx.DeleteStudent(id)
	})
	done(err)
	return res, err
}

// StockBooks adds copies of a title to the library. An existing title has its
// quantity increased and keeps its author; an unknown title is created.
func (s *Service) StockBooks(ctx context.Context, title, author string, quantity int) (Book, Result, error) {
	ctx, done := s.observe(ctx, "stock_books")
	var stocked Book
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if quantity <= 0 {
			return domain.ValidationError{Entity: domain.EntityBook, ID: title, Field: "quantity", Message: "must be positive"}
		}
		if _, exists := tx.FindBook(title); exists {
			var err error
			stocked, err = tx.UpdateBook(title, func(b *Book) error {
				b.Quantity += quantity
				return nil
			})
			return err
		}
		var err error
		stocked, err = tx.CreateBook(Book{Title: title, Author: author, Quantity: quantity})
		return err
	})
	done(err)
	return stocked, res, err
}

// BorrowBooks removes copies of a title from the library. Borrowing more
// copies than are available is rejected; a title whose quantity reaches zero
// is removed from the inventory.
func (s *Service) BorrowBooks(ctx context.Context, title string, quantity int) (Book, Result, error) {
	ctx, done := s.observe(ctx, "borrow_books")
	var borrowed Book
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if quantity <= 0 {
			return domain.ValidationError{Entity: domain.EntityBook, ID: title, Field: "quantity", Message: "must be positive"}
		}
		current, exists := tx.FindBook(title)
		if !exists {
			return domain.NotFoundError{Entity: domain.EntityBook, ID: title}
		}
		if current.Quantity < quantity {
			return domain.ValidationError{Entity: domain.EntityBook, ID: current.Title, Field: "quantity",
				Message: "insufficient copies available"}
		}
		if current.Quantity == quantity {
			borrowed = current
			borrowed.Quantity = 0
			return tx.DeleteBook(title)
		}
		var err error
		borrowed, err = tx.UpdateBook(title, func(b *Book) error {
			b.Quantity -= quantity
			return nil
		})
		return err
	})
	done(err)
	return borrowed, res, err
}

// ReturnBooks adds returned copies back to the library. An unknown title is
// accepted as a new inventory record when an author is supplied; otherwise
// the return is rejected as unknown.
func (s *Service) ReturnBooks(ctx context.Context, title, author string, quantity int) (Book, Result, error) {
	ctx, done := s.observe(ctx, "return_books")
	var returned Book
	res, err := s.store.RunInTransaction(ctx, func(tx domain.Transaction) error {
		if quantity <= 0 {
			return domain.ValidationError{Entity: domain.EntityBook, ID: title, Field: "quantity", Message: "must be positive"}
		}
		if _, exists := tx.FindBook(title); exists {
			var err error
			returned, err = tx.UpdateBook(title, func(b *Book) error {
				b.Quantity += quantity
				return nil
			})
			return err
		}
		if strings.TrimSpace(author) == "" {
			return domain.NotFoundError{Entity: domain.EntityBook, ID: title}
		}
		var err error
		returned, err = tx.CreateBook(Book{Title: title, Author: author, Quantity: quantity})
		return err
	})
	done(err)
	return returned, res, err
}

// GetBook retrieves an inventory record by its case-insensitive title.
func (s *Service) GetBook(title string) (Book, bool) {
	return s.store.GetBook(title)
}

// ListBooks returns a snapshot of the inventory in insertion order.
func (s *Service) ListBooks() []Book {
	return s.store.ListBooks()
}

// CountBooks returns the current number of inventory records.
func (s *Service) CountBooks() int {
	return s.store.CountBooks()
}
