package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project is a portfolio showcase entry.
// Collection: projects
type Project struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedBy   *Author            `bson:"-" json:"created_by,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Content     string             `bson:"content,omitempty" json:"content,omitempty"`
	Images      []string           `bson:"images" json:"images"`
	TechStack   []string           `bson:"tech_stack" json:"tech_stack"`
	LiveURL     string             `bson:"live_url,omitempty" json:"live_url,omitempty"`
	GitHubURL   string             `bson:"github_url,omitempty" json:"github_url,omitempty"`
	Featured    bool               `bson:"featured" json:"featured"`
	Published   bool               `bson:"published" json:"published"`
	Order       int                `bson:"order" json:"order"`
}
