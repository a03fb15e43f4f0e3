// Package blob re-exports the blob storage abstractions and selects a
// backend for report artifacts.
package blob

import (
	"context"
	"fmt"
	"os"

	"rostercore/internal/blob/core"
	"rostercore/internal/infra/blob/fs"
	"rostercore/internal/infra/blob/memory"
	"rostercore/internal/infra/blob/s3"
)

type (
	// Driver identifies a blob backend driver.
	Driver = core.Driver
	// PutOptions configures a blob write.
	PutOptions = core.PutOptions
	// Info describes stored blob metadata.
	Info = core.Info
	// Store is the interface for blob storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory driver.
	DriverMemory = core.DriverMemory
)

// NewMemory returns an in-memory blob store.
func NewMemory() Store { return memory.New() }

// NewFilesystem returns a filesystem-backed blob store rooted at the
// provided path.
func NewFilesystem(root string) (Store, error) { return fs.New(root) }

// S3Config holds explicit S3 construction parameters.
type S3Config = s3.Config

// NewS3 constructs an S3-backed blob store from the provided configuration.
func NewS3(ctx context.Context, cfg S3Config) (Store, error) { return s3.New(ctx, cfg) }

// NewMockS3ForTests exposes the in-memory S3 mock for cross-package tests.
func NewMockS3ForTests() Store { return s3.NewMockForTests() }

// Open selects a blob store implementation using environment variables.
//
//	ROSTERCORE_BLOB_DRIVER: memory|fs|s3 (default memory)
//	ROSTERCORE_BLOB_FS_ROOT: directory root when driver=fs (default ./reportdata)
//	(S3 specific variables documented in the s3 package)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("ROSTERCORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverMemory)
	}
	switch Driver(driver) {
	case DriverMemory:
		return NewMemory(), nil
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("ROSTERCORE_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}
