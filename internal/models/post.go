package models

import "time"

// Post is a short text entry written by a user. Name and Avatar are a snapshot
// of the creator taken when the post was written.
type Post struct {
	ID        string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" bson:"title" gorm:"not null"`
	Body      string    `json:"body" bson:"body" gorm:"type:text"`
	Name      string    `json:"name,omitempty" bson:"name,omitempty"`
	Avatar    string    `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Date      time.Time `json:"date" bson:"date"`
	Creator   string    `json:"creator" bson:"creator" gorm:"index;not null;type:varchar(36)"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Body  string `json:"body" validate:"required"`
}
