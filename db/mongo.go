package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"portfolio/config"
	"portfolio/internal/logger"
)

// 컬렉션 이름
const (
	CollectionUsers      = "users"
	CollectionAccounts   = "accounts"
	CollectionSessions   = "sessions"
	CollectionProjects   = "projects"
	CollectionBlogs      = "blogs"
	CollectionStories    = "stories"
	CollectionPosts      = "posts"
	CollectionMedia      = "media"
	CollectionImportJobs = "import_jobs"
)

var (
	clientOnce sync.Once
	// 첫 Init 의 결과. 실패했으면 이후 Init 도 같은 에러를 돌려준다.
	initErr error
	client  *mongo.Client
	db      *mongo.Database
)

// warmUpDelay 는 attempt 번째 연결 실패 후 대기 시간이다 (1s, 2s, 3s, ...).
var warmUpDelay = func(attempt int) time.Duration {
	return time.Duration(attempt) * time.Second
}

var connectFn = connect

// Init 은 전역 Mongo 클라이언트를 한 번만 만들고, 연결이 될 때까지 재시도한 뒤 인덱스를 보장한다.
func Init(ctx context.Context) error {
	clientOnce.Do(func() {
		initErr = connectFn(ctx)
	})
	return initErr
}

func connect(ctx context.Context) error {
	cfg := config.GetConfig()
	uri := config.GetEnv().MongoURI

	cl, err := connectWithWarmUp(ctx, uri, cfg.Mongo.ConnectRetries)
	if err != nil {
		return err
	}
	client = cl
	db = client.Database(cfg.Mongo.Database)

	ictx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := EnsureIndexes(ictx, db); err != nil {
		return err
	}
	logger.InfoWithFields("MongoDB connected and indexes ensured", logger.Fields{
		"database": cfg.Mongo.Database,
	})
	return nil
}

func connectWithWarmUp(ctx context.Context, uri string, maxAttempts int) (*mongo.Client, error) {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		cl, err := connectOnce(ctx, uri)
		if err == nil {
			if attempt > 1 {
				logger.InfoWithFields("database connected after retry", logger.Fields{"attempts": attempt})
			}
			return cl, nil
		}
		lastErr = err
		logger.WarnWithFields("database connection attempt failed", logger.Fields{
			"attempt":      attempt,
			"max_attempts": maxAttempts,
			"error":        err.Error(),
		})
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(warmUpDelay(attempt)):
		}
	}
	return nil, fmt.Errorf("connect mongo after %d attempts: %w", maxAttempts, lastErr)
}

func connectOnce(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, err
	}
	return cl, nil
}

func Client() *mongo.Client     { return client }
func Database() *mongo.Database { return db }

// Ping 은 헬스 체크 용도로 primary 에 ping 을 보낸다.
func Ping(ctx context.Context) error {
	if client == nil {
		return fmt.Errorf("mongo client not initialized")
	}
	return client.Ping(ctx, readpref.Primary())
}

// Close 는 전역 클라이언트 연결을 끊는다.
func Close(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Disconnect(ctx)
}

// EnsureIndexes 는 모든 컬렉션의 인덱스를 생성한다. 이미 있으면 그대로 둔다.
func EnsureIndexes(ctx context.Context, d *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("uniq_email").SetUnique(true).SetSparse(true),
			},
		},
		CollectionAccounts: {
			{
				Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_account_id", Value: 1}},
				Options: options.Index().SetName("uniq_provider_account").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}},
				Options: options.Index().SetName("idx_user_id"),
			},
		},
		CollectionSessions: {
			{
				Keys:    bson.D{{Key: "session_token", Value: 1}},
				Options: options.Index().SetName("uniq_session_token").SetUnique(true),
			},
			{
				// 만료된 세션은 Mongo TTL 모니터가 정리한다.
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("ttl_expires_at").SetExpireAfterSeconds(0),
			},
		},
		CollectionProjects: {
			{
				Keys: bson.D{
					{Key: "published", Value: 1},
					{Key: "featured", Value: -1},
					{Key: "order", Value: 1},
					{Key: "created_at", Value: -1},
				},
				Options: options.Index().SetName("idx_public_order"),
			},
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_at_desc"),
			},
		},
		CollectionBlogs: {
			{
				Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_published_created_at"),
			},
			{
				Keys:    bson.D{{Key: "tags", Value: 1}},
				Options: options.Index().SetName("idx_tags"),
			},
			{
				Keys:    bson.D{{Key: "source_link", Value: 1}},
				Options: options.Index().SetName("uniq_source_link").SetUnique(true).SetSparse(true),
			},
		},
		CollectionStories: {
			{
				Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_published_created_at"),
			},
		},
		CollectionPosts: {
			{
				Keys:    bson.D{{Key: "published", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_published_created_at"),
			},
			{
				Keys:    bson.D{{Key: "created_by_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_by_created_at"),
			},
		},
		CollectionMedia: {
			{
				Keys:    bson.D{{Key: "key", Value: 1}},
				Options: options.Index().SetName("uniq_key").SetUnique(true),
			},
		},
		CollectionImportJobs: {
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_created_at_desc"),
			},
		},
	}

	for collection, models := range specs {
		if _, err := d.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes for %s: %w", collection, err)
		}
	}
	return nil
}
