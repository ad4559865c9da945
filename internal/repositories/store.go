package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/shared-places/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the addressed record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a uniqueness constraint.
	ErrDuplicate = errors.New("duplicate key")
)

// Store groups the repositories of one backing database together with the
// transactor that spans them.
type Store struct {
	Users  UserRepository
	Places PlaceRepository
	Posts  PostRepository
	Tx     Transactor
}

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() *Store {
	m := NewMemoryDB()
	return &Store{Users: m, Places: m, Posts: m, Tx: m}
}

// NewMongoStore returns a Store on the given database and makes sure the
// required indexes exist. Transactions need a replica set or sharded cluster.
func NewMongoStore(ctx context.Context, client *mongo.Client, db *mongo.Database) (*Store, error) {
	indexes := map[string][]mongo.IndexModel{
		"users": {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "firebase_uid", Value: 1}}, Options: options.Index().SetSparse(true)},
		},
		"places": {
			{Keys: bson.D{{Key: "creator", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		"posts": {
			{Keys: bson.D{{Key: "creator", Value: 1}, {Key: "date", Value: 1}}},
		},
	}
	for coll, idx := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, idx); err != nil {
			return nil, fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}

	return &Store{
		Users:  NewMongoUserRepository(db),
		Places: NewMongoPlaceRepository(db),
		Posts:  NewMongoPostRepository(db),
		Tx:     NewMongoTransactor(client),
	}, nil
}

// NewPostgresStore migrates the schema and returns a Store on db. db should be
// opened with TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewPostgresStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&models.User{}, &models.Place{}, &models.Post{}); err != nil {
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}

	return &Store{
		Users:  NewPostgresUserRepository(db),
		Places: NewPostgresPlaceRepository(db),
		Posts:  NewPostgresPostRepository(db),
		Tx:     NewGormTransactor(db),
	}, nil
}
