// Package storage selects and constructs the ledger storage backend.
// Both backends satisfy interfaces.StorageManager; the analytics services
// never know which one they run against.
package storage

import (
	"fmt"

	"github.com/bobmcallan/moneta/internal/common"
	"github.com/bobmcallan/moneta/internal/interfaces"
	"github.com/bobmcallan/moneta/internal/storage/ledgerdb"
	"github.com/bobmcallan/moneta/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendBadger   = "badger"
	BackendSurreal  = "surrealdb"
	DefaultDataPath = "./data"
)

// NewStorageManager creates the ledger store named by the configuration.
// Supported backends: "badger" (embedded, default), "surrealdb".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendBadger
	}

	switch backend {
	case BackendBadger:
		path := config.Storage.DataDir
		if path == "" {
			path = DefaultDataPath
		}
		return ledgerdb.NewStore(logger, path)

	case BackendSurreal:
		return surrealdb.NewManager(logger, config)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surrealdb)", backend)
	}
}
