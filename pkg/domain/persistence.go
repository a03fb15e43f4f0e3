package domain

import "context"

// Transaction exposes the domain operations that a persistence implementation
// must support within an atomic scope.
type Transaction interface {
	Snapshot() TransactionView
	CreateStudent(Student) (Student, error)
	UpdateStudent(id string, mutator func(*Student) error) (Student, error)
	DeleteStudent(id string) error
	FindStudent(id string) (Student, bool)
	CreateBook(Book) (Book, error)
	UpdateBook(title string, mutator func(*Book) error) (Book, error)
	DeleteBook(title string) error
	FindBook(title string) (Book, bool)
}

// TransactionView provides read-only access to snapshot data for rules.
type TransactionView interface {
	ListStudents() []Student
	ListBooks() []Book
	FindStudent(id string) (Student, bool)
	FindBook(title string) (Book, bool)
	SearchStudentsByName(query string) []Student
}

// PersistentStore is a minimal abstraction over store backends. It mirrors
// the subset of store capabilities used directly by higher layers.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) (Result, error)
	View(ctx context.Context, fn func(TransactionView) error) error
	GetStudent(id string) (Student, bool)
	ListStudents() []Student
	SearchStudentsByName(query string) []Student
	CountStudents() int
	GetBook(title string) (Book, bool)
	ListBooks() []Book
	CountBooks() int
}
