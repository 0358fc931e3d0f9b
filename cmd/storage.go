package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"domisafe/internal/config"
	"domisafe/internal/models"
	"domisafe/internal/repositories"
	"domisafe/internal/services"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// openStore connects the worker record store selected by storage.driver.
// The returned func releases it.
func openStore(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (services.WorkerStore, func(), error) {
	switch cfg.Storage.Driver {
	case "memory":
		var workers []models.WorkerProfile
		if cfg.Storage.SeedFile != "" {
			seed, err := repositories.LoadWorkerSeed(cfg.Storage.SeedFile)
			if err != nil {
				return nil, nil, err
			}
			workers = seed
		}
		logger.Infof("memory store seeded with %d workers", len(workers))
		return repositories.NewMemoryWorkerRepository(workers), func() {}, nil

	case "mysql", "pgx":
		db, err := openDB(ctx, cfg.Storage.Driver, cfg.Storage.URL)
		if err != nil {
			return nil, nil, err
		}
		repo := &repositories.WorkerRepository{DB: db, Dialect: repositories.Dialect(cfg.Storage.Driver)}
		return repo, func() { db.Close() }, nil

	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Storage.URL))
		if err != nil {
			return nil, nil, fmt.Errorf("connect mongo: %w", err)
		}
		if err := client.Ping(connectCtx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, fmt.Errorf("ping mongo: %w", err)
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Errorf("disconnect mongo: %v", err)
			}
		}
		return repositories.NewMongoWorkerRepository(client, cfg.Storage.Database), closeFn, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", models.ErrUnsupportedStorage, cfg.Storage.Driver)
}

func openDB(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
