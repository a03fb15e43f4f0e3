package core

import (
	"fmt"
	"os"

	"rostercore/internal/infra/persistence/memory"
	"rostercore/internal/infra/persistence/sqlite"
	"rostercore/pkg/domain"
)

// StorageDriver identifies a concrete storage implementation.
type StorageDriver string

const (
	StorageMemory StorageDriver = "memory" // in-memory maps (default)
	StorageSQLite StorageDriver = "sqlite" // embedded sqlite mirror
)

type (
	// Transaction aliases domain.Transaction representing a mutable unit of work.
	Transaction = domain.Transaction
	// TransactionView aliases domain.TransactionView providing read-only state.
	TransactionView = domain.TransactionView
	// PersistentStore aliases the storage interface backends implement.
	PersistentStore = domain.PersistentStore
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to the in-memory store when unset.
//
//	ROSTERCORE_STORAGE_DRIVER: memory|sqlite (default memory)
//	ROSTERCORE_SQLITE_DSN: sqlite DSN when driver=sqlite (default :memory:)
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("ROSTERCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageMemory)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageSQLite:
		dsn := os.Getenv("ROSTERCORE_SQLITE_DSN")
		return sqlite.NewStore(dsn, engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
