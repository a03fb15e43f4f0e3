// Package sqlite mirrors the in-memory roster state into a single SQLite
// table as JSON payloads. The mirror defaults to an in-process database and
// snapshots the full state after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"rostercore/internal/infra/persistence/memory"
	"rostercore/pkg/domain"
)

type (
	// Result aliases domain.Result summarizing rule evaluation.
	Result = domain.Result
	// RulesEngine aliases domain.RulesEngine used to evaluate rules.
	RulesEngine = domain.RulesEngine
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// Snapshot aliases the ordered state snapshot persisted to SQLite.
	Snapshot = memory.Snapshot
)

var _ domain.PersistentStore = (*Store)(nil)

const bucketStudents = "students"
const bucketBooks = "books"

// Store layers SQLite snapshot persistence over the in-memory store.
type Store struct {
	*memory.Store
	db  *sql.DB
	mu  sync.Mutex
	dsn string
}

// NewStore opens the database at dsn, creates the state table if needed and
// loads any previously persisted snapshot. An empty dsn opens a volatile
// in-process database.
func NewStore(dsn string, engine *RulesEngine) (*Store, error) {
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine), db: db, dsn: dsn}
	if err := s.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var (
		snapshot Snapshot
		found    bool
	)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		switch bucket {
		case bucketStudents:
			if err := json.Unmarshal(payload, &snapshot.Students); err != nil {
				return fmt.Errorf("decode students: %w", err)
			}
		case bucketBooks:
			if err := json.Unmarshal(payload, &snapshot.Books); err != nil {
				return fmt.Errorf("decode books: %w", err)
			}
		}
		found = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read state: %w", err)
	}
	if found {
		s.ImportState(snapshot)
	}
	return nil
}

func (s *Store) persist() (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	payloads := []struct {
		bucket string
		value  any
	}{
		{bucketStudents, snapshot.Students},
		{bucketBooks, snapshot.Books},
	}
	for _, p := range payloads {
		data, err := json.Marshal(p.value)
		if err != nil {
			retErr = fmt.Errorf("encode %s: %w", p.bucket, err)
			return retErr
		}
		if _, err := tx.Exec(`INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, p.bucket, data); err != nil {
			retErr = fmt.Errorf("upsert %s: %w", p.bucket, err)
			return retErr
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return nil
}

// RunInTransaction applies fn within a transaction and mirrors the resulting
// state to SQLite when the transaction commits.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx Transaction) error) (Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if pErr := s.persist(); pErr != nil {
		return res, pErr
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// DSN returns the configured data source name.
func (s *Store) DSN() string { return s.dsn }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
