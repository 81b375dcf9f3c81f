package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio/db"
)

// ContentCollections 는 본문(content) 필드를 가진 컬렉션들이다.
var ContentCollections = []string{
	db.CollectionProjects,
	db.CollectionBlogs,
	db.CollectionStories,
	db.CollectionPosts,
}

// RewriteStats 는 컬렉션 하나에 대한 본문 일괄 수정 결과다.
type RewriteStats struct {
	Collection   string
	Scanned      int
	Changed      int
	Replacements int
}

// RewriteContent 는 collection 의 모든 content 에 rewrite 를 적용한다.
// rewrite 가 0 을 돌려준 문서는 건드리지 않고, dryRun 이면 아무것도 쓰지 않는다.
func RewriteContent(ctx context.Context, d *mongo.Database, collection string, rewrite func(string) (string, int), dryRun bool) (RewriteStats, error) {
	stats := RewriteStats{Collection: collection}
	col := d.Collection(collection)

	opts := options.Find().SetProjection(bson.M{"content": 1})
	cur, err := col.Find(ctx, bson.M{"content": bson.M{"$type": "string", "$ne": ""}}, opts)
	if err != nil {
		return stats, fmt.Errorf("scan %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			ID      primitive.ObjectID `bson:"_id"`
			Content string             `bson:"content"`
		}
		if err := cur.Decode(&doc); err != nil {
			return stats, err
		}
		stats.Scanned++

		out, n := rewrite(doc.Content)
		if n == 0 {
			continue
		}
		stats.Changed++
		stats.Replacements += n
		if dryRun {
			continue
		}
		_, err := col.UpdateByID(ctx, doc.ID, bson.M{"$set": bson.M{
			"content":    out,
			"updated_at": time.Now(),
		}})
		if err != nil {
			return stats, fmt.Errorf("update %s/%s: %w", collection, doc.ID.Hex(), err)
		}
	}
	return stats, cur.Err()
}
