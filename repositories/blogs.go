package repositories

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio/db"
	"portfolio/models"
)

type BlogRepository struct {
	contentStore[models.Blog]
}

func NewBlogRepository(d *mongo.Database) *BlogRepository {
	return &BlogRepository{
		contentStore: newContentStore[models.Blog](
			d.Collection(db.CollectionBlogs),
			[]string{"title", "content", "excerpt"},
			[]SortKey{{Field: "created_at", Desc: true}},
		),
	}
}

func (r *BlogRepository) Insert(ctx context.Context, b *models.Blog) error {
	now := time.Now()
	b.CreatedAt, b.UpdatedAt = now, now
	if b.Tags == nil {
		b.Tags = []string{}
	}
	id, err := r.insert(ctx, b)
	if err != nil {
		return err
	}
	b.ID = id
	return nil
}

// Update replaces the editable fields. views is left untouched so concurrent reads are not lost.
func (r *BlogRepository) Update(ctx context.Context, id primitive.ObjectID, b *models.Blog) (*models.Blog, error) {
	return r.updateFields(ctx, id, bson.M{
		"title":       b.Title,
		"content":     b.Content,
		"excerpt":     b.Excerpt,
		"cover_image": b.CoverImage,
		"tags":        nonNil(b.Tags),
		"published":   b.Published,
	})
}

// IncrementViews 는 조회수를 1 올리고 갱신된 문서를 반환한다.
func (r *BlogRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out models.Blog
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}, opts).Decode(&out)
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// PublishedTags 는 게시된 블로그에서 쓰인 태그를 중복 없이 정렬해 반환한다.
func (r *BlogRepository) PublishedTags(ctx context.Context) ([]string, error) {
	values, err := r.col.Distinct(ctx, "tags", bson.M{"published": true})
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			tags = append(tags, s)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// TotalViews 는 모든 블로그 조회수 합계다.
func (r *BlogRepository) TotalViews(ctx context.Context) (int64, error) {
	cur, err := r.col.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$views"}}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// ExistsBySourceLink 는 같은 원문에서 가져온 블로그가 이미 있는지 확인한다.
func (r *BlogRepository) ExistsBySourceLink(ctx context.Context, link string) (bool, error) {
	n, err := r.col.CountDocuments(ctx, bson.M{"source_link": link}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
