package server

import (
	"context"
	"fmt"

	"github.com/pliu/aichat/internal/config"
	"github.com/pliu/aichat/internal/store"
	"github.com/pliu/aichat/internal/store/mongostore"
	"github.com/pliu/aichat/internal/store/sqlstore"
)

// OpenStore connects the backend selected by cfg.StoreDriver.
func OpenStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "mongo":
		s, err := mongostore.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("mongo: %w", err)
		}
		return s, nil
	case "sqlite3", "pgx":
		s, err := sqlstore.New(ctx, cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.StoreDriver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
