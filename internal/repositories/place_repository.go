package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/shared-places/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PlaceRepository defines the interface for place data operations
type PlaceRepository interface {
	CreatePlace(ctx context.Context, place *models.Place) error
	GetPlaceByID(ctx context.Context, id string) (*models.Place, error)
	// GetPlacesByCreator returns places in insertion order.
	GetPlacesByCreator(ctx context.Context, creator string) ([]models.Place, error)
	// UpdatePlace writes title and description only.
	UpdatePlace(ctx context.Context, place *models.Place) error
	DeletePlace(ctx context.Context, id string) error
}

// MongoPlaceRepository implements PlaceRepository for MongoDB
type MongoPlaceRepository struct {
	collection *mongo.Collection
}

// NewMongoPlaceRepository creates a new MongoPlaceRepository
func NewMongoPlaceRepository(db *mongo.Database) *MongoPlaceRepository {
	return &MongoPlaceRepository{collection: db.Collection("places")}
}

// CreatePlace creates a new place in MongoDB
func (r *MongoPlaceRepository) CreatePlace(ctx context.Context, place *models.Place) error {
	if place.ID == "" {
		place.ID = primitive.NewObjectID().Hex()
	}
	place.CreatedAt = time.Now()
	place.UpdatedAt = place.CreatedAt
	_, err := r.collection.InsertOne(ctx, place)
	return err
}

// GetPlaceByID retrieves a place by ID from MongoDB
func (r *MongoPlaceRepository) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	var place models.Place
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&place)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &place, nil
}

// GetPlacesByCreator retrieves places of a specific user from MongoDB
func (r *MongoPlaceRepository) GetPlacesByCreator(ctx context.Context, creator string) ([]models.Place, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"creator": creator}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	places := []models.Place{}
	if err = cursor.All(ctx, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// UpdatePlace updates an existing place in MongoDB
func (r *MongoPlaceRepository) UpdatePlace(ctx context.Context, place *models.Place) error {
	place.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"title":       place.Title,
			"description": place.Description,
			"updated_at":  place.UpdatedAt,
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": place.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlace deletes a place by ID from MongoDB
func (r *MongoPlaceRepository) DeletePlace(ctx context.Context, id string) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
