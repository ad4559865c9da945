package config

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/shared-places/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DB holds the open database connection and the store built on it.
type DB struct {
	Store    *repositories.Store
	Postgres *gorm.DB
	Mongo    *mongo.Client

	logger *zap.Logger
}

// InitDB connects to the database selected by cfg.StoreDriver and builds the
// store on top of it.
func InitDB(ctx context.Context, cfg *Config, logger *zap.Logger) (*DB, error) {
	db := &DB{logger: logger}

	switch cfg.StoreDriver {
	case DriverMongo:
		client, err := initMongo(ctx, cfg.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		db.Mongo = client
		logger.Info("Successfully connected to MongoDB!", zap.String("database", cfg.MongoDatabase))

		store, err := repositories.NewMongoStore(ctx, client, client.Database(cfg.MongoDatabase))
		if err != nil {
			return nil, multierr.Append(err, db.Close())
		}
		db.Store = store

	case DriverPostgres:
		pg, err := initPostgres(cfg.PostgresConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		db.Postgres = pg
		logger.Info("Successfully connected to PostgreSQL!")

		store, err := repositories.NewPostgresStore(pg)
		if err != nil {
			return nil, multierr.Append(err, db.Close())
		}
		db.Store = store
		logger.Info("PostgreSQL auto-migrations completed.")

	default:
		logger.Warn("Using the in-memory store, data is lost on restart.")
		db.Store = repositories.NewMemoryStore()
	}

	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Ping the database to verify connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection. Transactions need a replica
// set or sharded cluster.
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary to verify connection
	if err = client.Ping(ctx, nil); err != nil {
		return nil, multierr.Append(err, client.Disconnect(context.Background()))
	}
	return client, nil
}

// Close closes whichever connection is open.
func (db *DB) Close() error {
	var err error

	if db.Postgres != nil {
		sqlDB, dbErr := db.Postgres.DB()
		if dbErr != nil {
			err = multierr.Append(err, dbErr)
		} else if closeErr := sqlDB.Close(); closeErr != nil {
			err = multierr.Append(err, closeErr)
		} else {
			db.logger.Info("PostgreSQL connection closed.")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if disconnectErr := db.Mongo.Disconnect(ctx); disconnectErr != nil {
			err = multierr.Append(err, disconnectErr)
		} else {
			db.logger.Info("MongoDB connection closed.")
		}
	}

	return err
}
