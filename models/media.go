package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Media records an object uploaded through the admin API.
// Collection: media
type Media struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key          string             `bson:"key" json:"key"`
	URL          string             `bson:"url" json:"url"`
	OriginalName string             `bson:"original_name" json:"original_name"`
	ContentType  string             `bson:"content_type" json:"content_type"`
	Size         int64              `bson:"size" json:"size"`
	UploadedBy   primitive.ObjectID `bson:"uploaded_by" json:"uploaded_by"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}
