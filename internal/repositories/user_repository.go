package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/anonto42/shared-places/backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations. The
// Add/Remove methods maintain the owned sets and return ErrNotFound when the
// user does not exist; adding an id that is already present is a no-op.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	AddPlace(ctx context.Context, userID, placeID string) error
	RemovePlace(ctx context.Context, userID, placeID string) error
	AddPost(ctx context.Context, userID, postID string) error
	RemovePost(ctx context.Context, userID, postID string) error
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser creates a new user in PostgreSQL
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Places == nil {
		user.Places = pq.StringArray{}
	}
	if user.Posts == nil {
		user.Posts = pq.StringArray{}
	}
	err := gormConn(ctx, r.db).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	return err
}

// GetUserByID retrieves a user by ID from PostgreSQL
func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "email = ?", email)
}

// GetUserByFirebaseUID retrieves a user by Firebase UID from PostgreSQL
func (r *PostgresUserRepository) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	return r.first(ctx, "firebase_uid = ?", firebaseUID)
}

func (r *PostgresUserRepository) first(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	if err := gormConn(ctx, r.db).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUsers retrieves all users from PostgreSQL
func (r *PostgresUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := gormConn(ctx, r.db).Omit("password").Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser updates profile fields only. Owned sets are left untouched.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	res := gormConn(ctx, r.db).Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"name":         user.Name,
		"email":        user.Email,
		"image":        user.Image,
		"firebase_uid": user.FirebaseUID,
		"updated_at":   user.UpdatedAt,
	})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepository) AddPlace(ctx context.Context, userID, placeID string) error {
	return r.appendOwned(ctx, "places", userID, placeID)
}

func (r *PostgresUserRepository) RemovePlace(ctx context.Context, userID, placeID string) error {
	return r.removeOwned(ctx, "places", userID, placeID)
}

func (r *PostgresUserRepository) AddPost(ctx context.Context, userID, postID string) error {
	return r.appendOwned(ctx, "posts", userID, postID)
}

func (r *PostgresUserRepository) RemovePost(ctx context.Context, userID, postID string) error {
	return r.removeOwned(ctx, "posts", userID, postID)
}

// appendOwned is a single UPDATE so concurrent appends on the same user
// serialize on the row lock.
func (r *PostgresUserRepository) appendOwned(ctx context.Context, column, userID, id string) error {
	expr := gorm.Expr("CASE WHEN ?::text = ANY("+column+") THEN "+column+" ELSE array_append("+column+", ?::text) END", id, id)
	return r.updateOwned(ctx, column, userID, expr)
}

func (r *PostgresUserRepository) removeOwned(ctx context.Context, column, userID, id string) error {
	return r.updateOwned(ctx, column, userID, gorm.Expr("array_remove("+column+", ?::text)", id))
}

func (r *PostgresUserRepository) updateOwned(ctx context.Context, column, userID string, expr interface{}) error {
	res := gormConn(ctx, r.db).Model(&models.User{}).Where("id = ?", userID).UpdateColumn(column, expr)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
