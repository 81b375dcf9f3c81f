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

// AccountRepository 는 OAuth 제공자 계정과 사용자 연결을 관리한다.
type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(d *mongo.Database) *AccountRepository {
	return &AccountRepository{col: d.Collection(db.CollectionAccounts)}
}

func (r *AccountRepository) FindByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error) {
	var a models.Account
	err := r.col.FindOne(ctx, bson.M{
		"provider":            provider,
		"provider_account_id": providerAccountID,
	}).Decode(&a)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AccountRepository) Insert(ctx context.Context, a *models.Account) error {
	a.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, a)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = id
	}
	return nil
}

// SessionRepository 는 DB 세션 저장소다.
type SessionRepository struct {
	col *mongo.Collection
}

func NewSessionRepository(d *mongo.Database) *SessionRepository {
	return &SessionRepository{col: d.Collection(db.CollectionSessions)}
}

func (r *SessionRepository) Insert(ctx context.Context, s *models.Session) error {
	s.CreatedAt = time.Now()
	res, err := r.col.InsertOne(ctx, s)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		s.ID = id
	}
	return nil
}

func (r *SessionRepository) FindByToken(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	if err := r.col.FindOne(ctx, bson.M{"session_token": token}).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"session_token": token})
	return err
}
