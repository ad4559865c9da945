package models

import "time"

// Location is the geocoded position of a place.
type Location struct {
	Lat      float64 `json:"lat" bson:"lat"`
	Lng      float64 `json:"lng" bson:"lng"`
	PlusCode string  `json:"plus_code,omitempty" bson:"plus_code,omitempty"`
}

// Place is a location shared by a user.
type Place struct {
	ID          string    `json:"id" bson:"_id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" bson:"title" gorm:"not null"`
	Description string    `json:"description" bson:"description"`
	Address     string    `json:"address" bson:"address"`
	Location    Location  `json:"location" bson:"location" gorm:"embedded;embeddedPrefix:location_"`
	Image       string    `json:"image" bson:"image"`
	Creator     string    `json:"creator" bson:"creator" gorm:"index;not null;type:varchar(36)"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// CreatePlaceRequest is sent as multipart form data together with the image file.
type CreatePlaceRequest struct {
	Title       string `form:"title" json:"title" validate:"required"`
	Description string `form:"description" json:"description" validate:"required,min=5"`
	Address     string `form:"address" json:"address" validate:"required"`
}

type UpdatePlaceRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required,min=5"`
}
