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

type ImportJobRepository struct {
	col *mongo.Collection
}

func NewImportJobRepository(d *mongo.Database) *ImportJobRepository {
	return &ImportJobRepository{col: d.Collection(db.CollectionImportJobs)}
}

func (r *ImportJobRepository) Insert(ctx context.Context, j *models.ImportJob) error {
	now := time.Now()
	j.CreatedAt, j.UpdatedAt = now, now
	if j.Status == "" {
		j.Status = models.ImportQueued
	}
	res, err := r.col.InsertOne(ctx, j)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		j.ID = id
	}
	return nil
}

func (r *ImportJobRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.ImportJob, error) {
	var j models.ImportJob
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&j); err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// UpdateStatus 는 작업 상태와 (있다면) 결과/오류를 기록한다.
func (r *ImportJobRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ImportStatus, result *models.ImportResult, errMsg string) error {
	set := bson.M{"status": status, "updated_at": time.Now()}
	if result != nil {
		set["result"] = result
	}
	if errMsg != "" {
		set["error"] = errMsg
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
