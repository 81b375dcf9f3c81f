package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/models"
	"portfolio/repositories"
	"portfolio/summarizer"
)

// memBlogStore 는 BlogStore 의 메모리 구현이다. List 는 cursor 를 지원하지 않는다.
type memBlogStore struct {
	mu    sync.Mutex
	blogs map[primitive.ObjectID]*models.Blog
	err   error
}

func newMemBlogStore(blogs ...*models.Blog) *memBlogStore {
	s := &memBlogStore{blogs: map[primitive.ObjectID]*models.Blog{}}
	for _, b := range blogs {
		if b.ID.IsZero() {
			b.ID = primitive.NewObjectID()
		}
		s.blogs[b.ID] = b
	}
	return s
}

func (s *memBlogStore) List(_ context.Context, q repositories.ListQuery) ([]models.Blog, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, "", s.err
	}
	if q.Cursor == "bad" {
		return nil, "", repositories.ErrInvalidCursor
	}
	var out []models.Blog
	for _, b := range s.blogs {
		if q.Public && !b.Published {
			continue
		}
		if q.Search != "" && !strings.Contains(strings.ToLower(b.Title), strings.ToLower(q.Search)) {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, "", nil
}

func (s *memBlogStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBlogStore) Insert(_ context.Context, b *models.Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = primitive.NewObjectID()
	b.CreatedAt = time.Now()
	cp := *b
	s.blogs[b.ID] = &cp
	return nil
}

func (s *memBlogStore) Update(_ context.Context, id primitive.ObjectID, b *models.Blog) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cur.Title, cur.Content, cur.Tags, cur.Published = b.Title, b.Content, b.Tags, b.Published
	cp := *cur
	return &cp, nil
}

func (s *memBlogStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blogs[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.blogs, id)
	return nil
}

func (s *memBlogStore) TogglePublished(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	b.Published = !b.Published
	cp := *b
	return &cp, nil
}

func (s *memBlogStore) Count(_ context.Context, q repositories.CountQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	var n int64
	for _, b := range s.blogs {
		if q.Published != nil && b.Published != *q.Published {
			continue
		}
		n++
	}
	return n, nil
}

func (s *memBlogStore) IncrementViews(_ context.Context, id primitive.ObjectID) (*models.Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	b.Views++
	cp := *b
	return &cp, nil
}

func (s *memBlogStore) PublishedTags(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]struct{}{}
	for _, b := range s.blogs {
		if !b.Published {
			continue
		}
		for _, t := range b.Tags {
			set[t] = struct{}{}
		}
	}
	if len(set) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out, nil
}

func (s *memBlogStore) TotalViews(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, b := range s.blogs {
		total += b.Views
	}
	return total, nil
}

type fakeAuthors struct {
	users map[primitive.ObjectID]models.User
	err   error
}

func (f fakeAuthors) FindByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := map[primitive.ObjectID]models.User{}
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type fakeSuggester struct {
	got string
}

func (f *fakeSuggester) Suggest(_ context.Context, text string) (*summarizer.Suggestion, error) {
	f.got = text
	return &summarizer.Suggestion{Excerpt: "short", Tags: []string{"go"}}, nil
}

// -------------------- auth --------------------

type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func (s *memUserStore) add(u *models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = u
	return u
}

func (s *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

// Insert 는 Mongo 의 uniq_email(sparse) 인덱스처럼 빈 값이 아닌 email 중복을 거부한다.
func (s *memUserStore) Insert(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Email != "" {
		for _, existing := range s.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return errDuplicateEmail
			}
		}
	}
	u.ID = primitive.NewObjectID()
	cp := *u
	s.users[cp.ID] = &cp
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) UpdateProfile(_ context.Context, id primitive.ObjectID, name, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.Name, u.Image = name, image
	return nil
}

func (s *memUserStore) PromoteByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.Role != models.RoleAdmin {
			u.Role = models.RoleAdmin
			return true, nil
		}
	}
	return false, nil
}

var errDuplicateEmail = errors.New("duplicate email")

type memAccountStore struct {
	accounts  []models.Account
	insertErr error
}

func (s *memAccountStore) FindByProvider(_ context.Context, provider, providerAccountID string) (*models.Account, error) {
	for _, a := range s.accounts {
		if a.Provider == provider && a.ProviderAccountID == providerAccountID {
			cp := a
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *memAccountStore) Insert(_ context.Context, a *models.Account) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	a.ID = primitive.NewObjectID()
	s.accounts = append(s.accounts, *a)
	return nil
}

type memSessionStore struct {
	sessions map[string]models.Session
	findErr  error
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]models.Session{}}
}

func (s *memSessionStore) Insert(_ context.Context, sess *models.Session) error {
	s.sessions[sess.SessionToken] = *sess
	return nil
}

func (s *memSessionStore) FindByToken(_ context.Context, token string) (*models.Session, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	sess, ok := s.sessions[token]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &sess, nil
}

func (s *memSessionStore) DeleteByToken(_ context.Context, token string) error {
	if _, ok := s.sessions[token]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.sessions, token)
	return nil
}
