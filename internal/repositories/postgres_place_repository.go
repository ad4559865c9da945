package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostgresPlaceRepository implements PlaceRepository for PostgreSQL
type PostgresPlaceRepository struct {
	db *gorm.DB
}

func NewPostgresPlaceRepository(db *gorm.DB) *PostgresPlaceRepository {
	return &PostgresPlaceRepository{db: db}
}

func (r *PostgresPlaceRepository) CreatePlace(ctx context.Context, place *models.Place) error {
	if place.ID == "" {
		place.ID = uuid.NewString()
	}
	return gormConn(ctx, r.db).Create(place).Error
}

func (r *PostgresPlaceRepository) GetPlaceByID(ctx context.Context, id string) (*models.Place, error) {
	var place models.Place
	if err := gormConn(ctx, r.db).Where("id = ?", id).First(&place).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &place, nil
}

func (r *PostgresPlaceRepository) GetPlacesByCreator(ctx context.Context, creator string) ([]models.Place, error) {
	places := []models.Place{}
	if err := gormConn(ctx, r.db).Where("creator = ?", creator).Order("created_at, id").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

func (r *PostgresPlaceRepository) UpdatePlace(ctx context.Context, place *models.Place) error {
	place.UpdatedAt = time.Now()
	res := gormConn(ctx, r.db).Model(&models.Place{}).Where("id = ?", place.ID).Updates(map[string]interface{}{
		"title":       place.Title,
		"description": place.Description,
		"updated_at":  place.UpdatedAt,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPlaceRepository) DeletePlace(ctx context.Context, id string) error {
	res := gormConn(ctx, r.db).Where("id = ?", id).Delete(&models.Place{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
