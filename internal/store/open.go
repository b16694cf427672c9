package store

import (
	"fmt"

	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/pathstore"
)

// Open returns the store selected by cfg.StoreBackend.
func Open(cfg config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		return NewSQLiteStore(cfg.SQLitePath)
	case config.BackendPathstore:
		client := pathstore.NewClient(cfg.PathstoreURL, cfg.PathstoreAPIKey)
		return NewPathstoreStore(client, cfg.PathstorePrefix), nil
	case config.BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
