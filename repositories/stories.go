package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"portfolio/db"
	"portfolio/models"
)

type StoryRepository struct {
	contentStore[models.Story]
}

func NewStoryRepository(d *mongo.Database) *StoryRepository {
	return &StoryRepository{
		contentStore: newContentStore[models.Story](
			d.Collection(db.CollectionStories),
			[]string{"title", "content", "excerpt"},
			[]SortKey{{Field: "created_at", Desc: true}},
		),
	}
}

func (r *StoryRepository) Insert(ctx context.Context, s *models.Story) error {
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	id, err := r.insert(ctx, s)
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r *StoryRepository) Update(ctx context.Context, id primitive.ObjectID, s *models.Story) (*models.Story, error) {
	return r.updateFields(ctx, id, bson.M{
		"title":       s.Title,
		"content":     s.Content,
		"excerpt":     s.Excerpt,
		"cover_image": s.CoverImage,
		"published":   s.Published,
	})
}
