package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is a short update.
// Collection: posts
type Post struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedBy   *Author            `bson:"-" json:"created_by,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Published   bool               `bson:"published" json:"published"`
}
