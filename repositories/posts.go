package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio/db"
	"portfolio/models"
)

type PostRepository struct {
	contentStore[models.Post]
}

func NewPostRepository(d *mongo.Database) *PostRepository {
	return &PostRepository{
		contentStore: newContentStore[models.Post](
			d.Collection(db.CollectionPosts),
			[]string{"name", "content", "excerpt"},
			[]SortKey{{Field: "created_at", Desc: true}},
		),
	}
}

func (r *PostRepository) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	id, err := r.insert(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *PostRepository) Update(ctx context.Context, id primitive.ObjectID, p *models.Post) (*models.Post, error) {
	return r.updateFields(ctx, id, bson.M{
		"name":        p.Name,
		"content":     p.Content,
		"excerpt":     p.Excerpt,
		"cover_image": p.CoverImage,
		"published":   p.Published,
	})
}

// LatestByUser 는 userID 가 가장 최근에 작성한 포스트다. 없으면 ErrNotFound.
func (r *PostRepository) LatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var out models.Post
	if err := r.col.FindOne(ctx, bson.M{"created_by_id": userID}, opts).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}
