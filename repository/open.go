package repository

import (
	"context"
	"fmt"

	"farmertwin/config"
)

// Open returns the credential store selected by the DATABASE_URL scheme.
func Open(ctx context.Context, cfg config.DatabaseConfig) (UsersRepo, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return OpenPostgres(ctx, cfg.URL)
	case config.DriverMongo:
		client, err := NewMongoClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		repo := GetUserRepo(client, cfg.DatabaseName, cfg.UsersCollection)
		if err := SetupIndexes(ctx, repo.MongoCollection); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo index setup: %w", err)
		}
		return repo, nil
	default:
		return NewMemoryUserRepo(), nil
	}
}
