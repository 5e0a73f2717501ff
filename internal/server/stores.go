package server

import (
	"context"
	"fmt"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/repositories"

	"github.com/rs/zerolog"
)

// Stores bundles the repositories of one backend with its cleanup.
type Stores struct {
	Products repositories.ProductRepository
	Users    repositories.UserRepository
	close    func(context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// MemoryStores returns stores backed by in-process maps.
func MemoryStores() *Stores {
	return &Stores{
		Products: repositories.NewMemoryProductRepository(),
		Users:    repositories.NewMemoryUserRepository(),
	}
}

// OpenStores opens the backend selected by cfg.Driver.
func OpenStores(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*Stores, error) {
	switch cfg.Driver {
	case "memory":
		return MemoryStores(), nil

	case "sqlite", "postgres":
		db, err := database.OpenGORM(cfg.Driver, cfg.DSN, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		return &Stores{
			Products: repositories.NewGORMProductRepository(db),
			Users:    repositories.NewGORMUserRepository(db),
			close:    func(context.Context) error { return sqlDB.Close() },
		}, nil

	case "mongo":
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Products: repositories.NewMongoProductRepository(db),
			Users:    repositories.NewMongoUserRepository(db),
			close:    client.Disconnect,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
