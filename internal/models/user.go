package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lib/pq"
)

// User is an account that owns places and posts. Places and Posts mirror the
// creator reference held by each owned record.
type User struct {
	ID          string         `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Name        string         `json:"name" bson:"name" gorm:"not null"`
	Email       string         `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	Password    string         `json:"-" bson:"password"` // bcrypt hash, never serialized
	Image       string         `json:"image" bson:"image"`
	FirebaseUID string         `json:"firebase_uid,omitempty" bson:"firebase_uid,omitempty" gorm:"index"`
	Places      pq.StringArray `json:"places" bson:"places" gorm:"type:text[]"`
	Posts       pq.StringArray `json:"posts" bson:"posts" gorm:"type:text[]"`
	CreatedAt   time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" bson:"updated_at"`
}

// OwnsPlace reports whether placeID is in the user's owned places.
func (u *User) OwnsPlace(placeID string) bool {
	return contains(u.Places, placeID)
}

// OwnsPost reports whether postID is in the user's owned posts.
func (u *User) OwnsPost(postID string) bool {
	return contains(u.Posts, postID)
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

type SignupRequest struct {
	Name     string `json:"name" form:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}
