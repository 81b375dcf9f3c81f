package repositories

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"portfolio/db"
	"portfolio/models"
)

const DefaultUserPageSize = 20

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(d *mongo.Database) *UserRepository {
	return &UserRepository{col: d.Collection(db.CollectionUsers)}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByIDs 는 작성자 정보 표시용으로 여러 사용자를 한 번에 읽는다.
func (r *UserRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	out := make(map[primitive.ObjectID]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// Insert 는 새 사용자를 저장한다. email 은 소문자로 정규화한다.
func (r *UserRepository) Insert(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Email = strings.ToLower(u.Email)
	if u.Role == "" {
		u.Role = models.RoleViewer
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = id
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile 은 OAuth 로그인 때마다 이름/이미지를 최신 값으로 맞춘다.
func (r *UserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, image string) error {
	_, err := r.col.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"image":      image,
		"updated_at": time.Now(),
	}})
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u models.User
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}}, opts).Decode(&u)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// PromoteByEmail 은 email 이 일치하는 사용자를 ADMIN 으로 올린다. 이미 ADMIN 이면 아무것도 하지 않는다.
func (r *UserRepository) PromoteByEmail(ctx context.Context, email string) (bool, error) {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"email": strings.ToLower(email), "role": bson.M{"$ne": models.RoleAdmin}},
		bson.M{"$set": bson.M{"role": models.RoleAdmin, "updated_at": time.Now()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// List 는 이름/이메일 검색과 keyset 페이지네이션을 지원한다.
func (r *UserRepository) List(ctx context.Context, search string, limit int, cursor string) ([]models.User, string, error) {
	keys := withIDTieBreak([]SortKey{{Field: "created_at", Desc: true}})
	filter := searchFilter(search, []string{"name", "email"})
	if filter == nil {
		filter = bson.M{}
	}
	return findPage[models.User](ctx, r.col, filter, keys, ClampLimit(limit, DefaultUserPageSize), cursor)
}
