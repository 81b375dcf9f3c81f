package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// contentStore 는 네 가지 콘텐츠 컬렉션이 공유하는 조회/토글/삭제/집계 로직이다.
type contentStore[T any] struct {
	col          *mongo.Collection
	searchFields []string
	publicSort   []SortKey
	adminSort    []SortKey
}

func newContentStore[T any](col *mongo.Collection, searchFields []string, publicSort []SortKey) contentStore[T] {
	return contentStore[T]{
		col:          col,
		searchFields: searchFields,
		publicSort:   withIDTieBreak(publicSort),
		adminSort:    withIDTieBreak([]SortKey{{Field: "created_at", Desc: true}}),
	}
}

// List 는 q 조건으로 한 페이지를 조회한다. limit+1 개를 읽어 남는 문서가 있으면
// 그 문서 위치를 다음 cursor 로 돌려준다.
func (s contentStore[T]) List(ctx context.Context, q ListQuery) ([]T, string, error) {
	keys := s.adminSort
	if q.Public {
		keys = s.publicSort
	}
	return findPage[T](ctx, s.col, listFilter(q, s.searchFields), keys, ClampLimit(q.Limit, DefaultPageSize), q.Cursor)
}

func (s contentStore[T]) FindByID(ctx context.Context, id primitive.ObjectID) (*T, error) {
	var out T
	if err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (s contentStore[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// TogglePublished 는 published 값을 원자적으로 뒤집고 변경된 문서를 반환한다.
func (s contentStore[T]) TogglePublished(ctx context.Context, id primitive.ObjectID) (*T, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"published":  bson.M{"$not": bson.A{"$published"}},
			"updated_at": time.Now(),
		}}},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, opts).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (s contentStore[T]) Count(ctx context.Context, q CountQuery) (int64, error) {
	return s.col.CountDocuments(ctx, countFilter(q))
}

// updateFields 는 set 필드와 updated_at 을 갱신하고 변경된 문서를 반환한다.
func (s contentStore[T]) updateFields(ctx context.Context, id primitive.ObjectID, set bson.M) (*T, error) {
	set["updated_at"] = time.Now()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var out T
	if err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (s contentStore[T]) insert(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, err
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return id, nil
}

// findPage 는 keyset 페이지네이션 공통 구현이다.
func findPage[T any](ctx context.Context, col *mongo.Collection, filter bson.M, keys []SortKey, limit int, cursor string) ([]T, string, error) {
	if cursor != "" {
		values, err := DecodeCursor(cursor, keys)
		if err != nil {
			return nil, "", err
		}
		filter = andFilters(filter, keysetFilter(keys, values))
	}

	opts := options.Find().SetSort(sortDoc(keys)).SetLimit(int64(limit + 1))
	cur, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, "", err
	}
	defer cur.Close(ctx)

	var raws []bson.Raw
	for cur.Next(ctx) {
		raws = append(raws, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, "", err
	}

	var next string
	if len(raws) > limit {
		values, err := cursorValues(raws[limit], keys)
		if err != nil {
			return nil, "", err
		}
		if next, err = EncodeCursor(values); err != nil {
			return nil, "", err
		}
		raws = raws[:limit]
	}

	items := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := bson.Unmarshal(raw, &item); err != nil {
			return nil, "", err
		}
		items = append(items, item)
	}
	return items, next, nil
}

// ListPublishedForSitemap 은 게시된 문서를 최근 수정순으로 최대 limit 개 반환한다.
func (s contentStore[T]) ListPublishedForSitemap(ctx context.Context, limit int) ([]T, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := s.col.Find(ctx, bson.M{"published": true}, opts)
	if err != nil {
		return nil, err
	}
	var out []T
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
