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

type ProjectRepository struct {
	contentStore[models.Project]
}

func NewProjectRepository(d *mongo.Database) *ProjectRepository {
	return &ProjectRepository{
		contentStore: newContentStore[models.Project](
			d.Collection(db.CollectionProjects),
			[]string{"title", "description"},
			// 공개 목록: 추천 프로젝트 먼저, 그 안에서 order 오름차순, 최신순
			[]SortKey{
				{Field: "featured", Desc: true},
				{Field: "order"},
				{Field: "created_at", Desc: true},
			},
		),
	}
}

// Insert stores p and fills its ID and timestamps.
func (r *ProjectRepository) Insert(ctx context.Context, p *models.Project) error {
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	id, err := r.insert(ctx, p)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update replaces the editable fields of the project.
func (r *ProjectRepository) Update(ctx context.Context, id primitive.ObjectID, p *models.Project) (*models.Project, error) {
	return r.updateFields(ctx, id, bson.M{
		"title":       p.Title,
		"description": p.Description,
		"content":     p.Content,
		"images":      nonNil(p.Images),
		"tech_stack":  nonNil(p.TechStack),
		"live_url":    p.LiveURL,
		"github_url":  p.GitHubURL,
		"featured":    p.Featured,
		"published":   p.Published,
		"order":       p.Order,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
