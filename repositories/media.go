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

type MediaRepository struct {
	col *mongo.Collection
}

func NewMediaRepository(d *mongo.Database) *MediaRepository {
	return &MediaRepository{col: d.Collection(db.CollectionMedia)}
}

func (r *MediaRepository) Insert(ctx context.Context, m *models.Media) error {
	m.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		m.ID = id
	}
	return nil
}

// DeleteByKey 는 메타데이터를 지운다. 버킷에만 있고 메타데이터가 없는 객체도 있으므로 없어도 오류가 아니다.
func (r *MediaRepository) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"key": key})
	return err
}
