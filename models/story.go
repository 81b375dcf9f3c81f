package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Story is a personal narrative piece.
// Collection: stories
type Story struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedBy   *Author            `bson:"-" json:"created_by,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Published   bool               `bson:"published" json:"published"`
}
