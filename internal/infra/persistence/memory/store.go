// Package memory provides the in-memory implementation of the core
// persistence store. It is the reference backend: state lives in
// process-local maps and never survives termination.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"rostercore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type (
	// Student aliases domain.Student for in-memory persistence operations.
	Student = domain.Student
	// Book aliases domain.Book.
	Book = domain.Book
	// Change aliases domain.Change captured in transactions.
	Change = domain.Change
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
)

// memoryState holds the collections keyed by normalized key, plus the
// insertion order of those keys. Enumeration follows insertion order.
type memoryState struct {
	students     map[string]Student
	studentOrder []string
	books        map[string]Book
	bookOrder    []string
}

// Snapshot captures a point-in-time clone of the store state. Slices preserve
// insertion order, which keeps JSON round-trips order-faithful.
type Snapshot struct {
	Students []Student `json:"students"`
	Books    []Book    `json:"books"`
}

func newMemoryState() memoryState {
	return memoryState{
		students: make(map[string]Student),
		books:    make(map[string]Book),
	}
}

func snapshotFromMemoryState(state memoryState) Snapshot {
	s := Snapshot{
		Students: make([]Student, 0, len(state.studentOrder)),
		Books:    make([]Book, 0, len(state.bookOrder)),
	}
	for _, key := range state.studentOrder {
		s.Students = append(s.Students, state.students[key])
	}
	for _, key := range state.bookOrder {
		s.Books = append(s.Books, state.books[key])
	}
	return s
}

func memoryStateFromSnapshot(s Snapshot) memoryState {
	state := newMemoryState()
	for _, student := range s.Students {
		key := domain.NormalizeKey(student.ID)
		if key == "" {
			continue
		}
		if _, exists := state.students[key]; !exists {
			state.studentOrder = append(state.studentOrder, key)
		}
		state.students[key] = student
	}
	for _, book := range s.Books {
		key := domain.NormalizeKey(book.Title)
		if key == "" {
			continue
		}
		if _, exists := state.books[key]; !exists {
			state.bookOrder = append(state.bookOrder, key)
		}
		state.books[key] = book
	}
	return state
}

func (s memoryState) clone() memoryState {
	cloned := newMemoryState()
	for k, v := range s.students {
		cloned.students[k] = v
	}
	for k, v := range s.books {
		cloned.books[k] = v
	}
	cloned.studentOrder = append([]string(nil), s.studentOrder...)
	cloned.bookOrder = append([]string(nil), s.bookOrder...)
	return cloned
}

func removeKey(order []string, key string) []string {
	for i, k := range order {
		if k == key {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// Store provides an in-memory transactional store for the core domain.
type Store struct {
	mu     sync.RWMutex
	state  memoryState
	engine *RulesEngine
	nowFn  func() time.Time
}

// NewStore constructs an in-memory store backed by the provided rules engine.
func NewStore(engine *RulesEngine) *Store {
	if engine == nil {
		engine = domain.NewRulesEngine()
	}
	return &Store{
		state:  newMemoryState(),
		engine: engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}

// ExportState clones the current store state for external snapshotting.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotFromMemoryState(s.state)
}

// ImportState replaces the store state with the provided snapshot. Entries
// with an empty key are discarded; later duplicates of a key win.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = memoryStateFromSnapshot(snapshot)
}

// RulesEngine exposes the currently configured engine for integration points.
func (s *Store) RulesEngine() *RulesEngine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// NowFunc returns the time provider used by the in-memory store.
func (s *Store) NowFunc() func() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nowFn
}

// SetNowFunc overrides the time provider. Intended for tests that need
// deterministic timestamps.
func (s *Store) SetNowFunc(fn func() time.Time) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nowFn = fn
}

// transaction represents a mutation set applied to the store state.
type transaction struct {
	state   memoryState
	changes []Change
	now     time.Time
}

// transactionView exposes a read-only snapshot of the transactional state to rules.
type transactionView struct {
	state *memoryState
}

func newTransactionView(state *memoryState) TransactionView {
	return transactionView{state: state}
}

// ListStudents returns all students within the snapshot in insertion order.
func (v transactionView) ListStudents() []Student {
	out := make([]Student, 0, len(v.state.studentOrder))
	for _, key := range v.state.studentOrder {
		out = append(out, v.state.students[key])
	}
	return out
}

// ListBooks returns all books within the snapshot in insertion order.
func (v transactionView) ListBooks() []Book {
	out := make([]Book, 0, len(v.state.bookOrder))
	for _, key := range v.state.bookOrder {
		out = append(out, v.state.books[key])
	}
	return out
}

// FindStudent retrieves a student by normalized id from the snapshot.
func (v transactionView) FindStudent(id string) (Student, bool) {
	st, ok := v.state.students[domain.NormalizeKey(id)]
	return st, ok
}

// FindBook retrieves a book by normalized title from the snapshot.
func (v transactionView) FindBook(title string) (Book, bool) {
	b, ok := v.state.books[domain.NormalizeKey(title)]
	return b, ok
}

// SearchStudentsByName matches the query as a case-insensitive substring of
// each student's name, in insertion order. An empty or whitespace-only query
// yields an empty result rather than matching everything.
func (v transactionView) SearchStudentsByName(query string) []Student {
	needle := strings.ToLower(strings.TrimSpace(query))
	out := []Student{}
	if needle == "" {
		return out
	}
	for _, key := range v.state.studentOrder {
		st := v.state.students[key]
		if strings.Contains(strings.ToLower(st.Name), needle) {
			out = append(out, st)
		}
	}
	return out
}

// RunInTransaction executes fn within a transactional copy of the store
// state. The copy is committed only when fn succeeds and no registered rule
// reports a blocking violation; otherwise the store is left untouched.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &transaction{
		state: s.state.clone(),
		now:   s.nowFn(),
	}

	if err := fn(tx); err != nil {
		return Result{}, err
	}

	var result Result
	if s.engine != nil {
		view := newTransactionView(&tx.state)
		res, err := s.engine.Evaluate(ctx, view, tx.changes)
		if err != nil {
			return Result{}, err
		}
		result = res
		if res.HasBlocking() {
			return res, domain.RuleViolationError{Result: res}
		}
	}

	s.state = tx.state
	return result, nil
}

// View executes fn against a read-only snapshot of the store state.
func (s *Store) View(_ context.Context, fn func(TransactionView) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := s.state.clone()
	view := newTransactionView(&snapshot)
	return fn(view)
}

// GetStudent retrieves a student by normalized id.
func (s *Store) GetStudent(id string) (Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.state.students[domain.NormalizeKey(id)]
	return st, ok
}

// ListStudents returns a snapshot of all students in insertion order.
// Mutating the returned slice never alters store state.
func (s *Store) ListStudents() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListStudents()
}

// SearchStudentsByName returns students whose name contains the query,
// compared case-insensitively, in insertion order.
func (s *Store) SearchStudentsByName(query string) []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).SearchStudentsByName(query)
}

// CountStudents returns the current number of student records.
func (s *Store) CountStudents() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.students)
}

// GetBook retrieves a book by normalized title.
func (s *Store) GetBook(title string) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.state.books[domain.NormalizeKey(title)]
	return b, ok
}

// ListBooks returns a snapshot of all books in insertion order.
func (s *Store) ListBooks() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newTransactionView(&s.state).ListBooks()
}

// CountBooks returns the current number of book records.
func (s *Store) CountBooks() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.books)
}

// Snapshot returns a read-only view over the transactional state.
func (tx *transaction) Snapshot() TransactionView {
	return newTransactionView(&tx.state)
}

func (tx *transaction) recordChange(change Change) {
	tx.changes = append(tx.changes, change)
}

// FindStudent exposes student lookup within the transaction scope.
func (tx *transaction) FindStudent(id string) (Student, bool) {
	st, ok := tx.state.students[domain.NormalizeKey(id)]
	return st, ok
}

// FindBook exposes book lookup within the transaction scope.
func (tx *transaction) FindBook(title string) (Book, bool) {
	b, ok := tx.state.books[domain.NormalizeKey(title)]
	return b, ok
}

// CreateStudent stores a new student within the transaction. String fields
// are trimmed before storage; the original casing of the id is preserved
// while the lookup key is normalized. The duplicate-key check runs before
// any field validation so a conflicting id is always reported as such.
func (tx *transaction) CreateStudent(st Student) (Student, error) {
	st.ID = strings.TrimSpace(st.ID)
	key := domain.NormalizeKey(st.ID)
	if key == "" {
		return Student{}, domain.ValidationError{Entity: domain.EntityStudent, Field: "id", Message: "must not be empty"}
	}
	if _, exists := tx.state.students[key]; exists {
		return Student{}, domain.DuplicateIDError{Entity: domain.EntityStudent, ID: st.ID}
	}
	st.Name = strings.TrimSpace(st.Name)
	st.Grade = strings.TrimSpace(st.Grade)
	st.CreatedAt = tx.now
	st.UpdatedAt = tx.now
	tx.state.students[key] = st
	tx.state.studentOrder = append(tx.state.studentOrder, key)
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionCreate, After: st})
	return st, nil
}

// UpdateStudent mutates a student using the provided mutator function. The
// id and the uniqueness key are immutable across updates.
func (tx *transaction) UpdateStudent(id string, mutator func(*Student) error) (Student, error) {
	key := domain.NormalizeKey(id)
	current, ok := tx.state.students[key]
	if !ok {
		return Student{}, domain.NotFoundError{Entity: domain.EntityStudent, ID: id}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Student{}, err
	}
	current.ID = before.ID
	current.Name = strings.TrimSpace(current.Name)
	current.Grade = strings.TrimSpace(current.Grade)
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.students[key] = current
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteStudent removes a student from the transaction state.
func (tx *transaction) DeleteStudent(id string) error {
	key := domain.NormalizeKey(id)
	current, ok := tx.state.students[key]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityStudent, ID: id}
	}
	delete(tx.state.students, key)
	tx.state.studentOrder = removeKey(tx.state.studentOrder, key)
	tx.recordChange(Change{Entity: domain.EntityStudent, Action: domain.ActionDelete, Before: current})
	return nil
}

// CreateBook stores a new book within the transaction.
func (tx *transaction) CreateBook(b Book) (Book, error) {
	b.Title = strings.TrimSpace(b.Title)
	key := domain.NormalizeKey(b.Title)
	if key == "" {
		return Book{}, domain.ValidationError{Entity: domain.EntityBook, Field: "title", Message: "must not be empty"}
	}
	if _, exists := tx.state.books[key]; exists {
		return Book{}, domain.DuplicateIDError{Entity: domain.EntityBook, ID: b.Title}
	}
	b.Author = strings.TrimSpace(b.Author)
	b.CreatedAt = tx.now
	b.UpdatedAt = tx.now
	tx.state.books[key] = b
	tx.state.bookOrder = append(tx.state.bookOrder, key)
	tx.recordChange(Change{Entity: domain.EntityBook, Action: domain.ActionCreate, After: b})
	return b, nil
}

// UpdateBook mutates an existing book. Title and key are immutable.
func (tx *transaction) UpdateBook(title string, mutator func(*Book) error) (Book, error) {
	key := domain.NormalizeKey(title)
	current, ok := tx.state.books[key]
	if !ok {
		return Book{}, domain.NotFoundError{Entity: domain.EntityBook, ID: title}
	}
	before := current
	if err := mutator(&current); err != nil {
		return Book{}, err
	}
	current.Title = before.Title
	current.Author = strings.TrimSpace(current.Author)
	current.CreatedAt = before.CreatedAt
	current.UpdatedAt = tx.now
	tx.state.books[key] = current
	tx.recordChange(Change{Entity: domain.EntityBook, Action: domain.ActionUpdate, Before: before, After: current})
	return current, nil
}

// DeleteBook removes a book from the transaction state.
func (tx *transaction) DeleteBook(title string) error {
	key := domain.NormalizeKey(title)
	current, ok := tx.state.books[key]
	if !ok {
		return domain.NotFoundError{Entity: domain.EntityBook, ID: title}
	}
	delete(tx.state.books, key)
	tx.state.bookOrder = removeKey(tx.state.bookOrder, key)
	tx.recordChange(Change{Entity: domain.EntityBook, Action: domain.ActionDelete, Before: current})
	return nil
}
