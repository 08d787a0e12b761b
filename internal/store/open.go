package store

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brca-pedigree-sim/internal/domain"
)

// Store drivers.
const (
	DriverNone     = "none"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// ErrDisabled is returned by Open when the configured driver is "none".
var ErrDisabled = errors.New("run store disabled")

// Open creates the configured store wrapped in a CachedStore.
func Open(cfg domain.StoreConfig, logger *logrus.Logger) (Store, error) {
	var backend Store
	switch cfg.Driver {
	case "", DriverNone:
		return nil, ErrDisabled
	case DriverSQLite:
		s, err := NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		backend = s
	case DriverPostgres:
		s, err := NewPostgresStoreFromURL(cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		backend = s
	default:
		return nil, domain.NewValidationError("store.driver", fmt.Sprintf("unknown driver %q", cfg.Driver), cfg.Driver)
	}

	cached, err := NewCachedStore(backend, cfg.CacheSize, logger)
	if err != nil {
		backend.Close()
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"driver":     cfg.Driver,
		"cache_size": cfg.CacheSize,
	}).Info("Run store opened")

	return cached, nil
}
