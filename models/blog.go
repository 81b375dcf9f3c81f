package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Blog is a long-form article.
// Collection: blogs
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	CreatedByID primitive.ObjectID `bson:"created_by_id" json:"created_by_id"`
	CreatedBy   *Author            `bson:"-" json:"created_by,omitempty"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Excerpt     string             `bson:"excerpt,omitempty" json:"excerpt,omitempty"`
	CoverImage  string             `bson:"cover_image,omitempty" json:"cover_image,omitempty"`
	Tags        []string           `bson:"tags" json:"tags"`
	Published   bool               `bson:"published" json:"published"`
	Views       int64              `bson:"views" json:"views"`
	// SourceLink 는 피드 가져오기로 만들어진 초안의 원문 주소다. 직접 작성한 글은 비어 있다.
	SourceLink string `bson:"source_link,omitempty" json:"source_link,omitempty"`
}
