package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"portfolio/cmd/api/dto"
	"portfolio/internal/logger"
	"portfolio/models"
	"portfolio/repositories"
)

// ContentStore 는 repositories 의 콘텐츠 저장소 네 개가 공통으로 만족하는 인터페이스다.
type ContentStore[T any] interface {
	List(ctx context.Context, q repositories.ListQuery) ([]T, string, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, item *T) error
	Update(ctx context.Context, id primitive.ObjectID, item *T) (*T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	TogglePublished(ctx context.Context, id primitive.ObjectID) (*T, error)
	Count(ctx context.Context, q repositories.CountQuery) (int64, error)
}

// AuthorLookup 은 created_by 표시용 사용자 조회다.
type AuthorLookup interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error)
}

// contentPtr 는 *T 가 models.Content 를 구현한다는 제약이다.
type contentPtr[T any] interface {
	*T
	models.Content
}

type ListInput struct {
	Limit     int
	Cursor    string
	Search    string
	Published *bool
	Featured  *bool
	Tag       string
}

func (in ListInput) query(public bool) repositories.ListQuery {
	return repositories.ListQuery{
		Public:    public,
		Limit:     in.Limit,
		Cursor:    in.Cursor,
		Search:    in.Search,
		Published: in.Published,
		Featured:  in.Featured,
		Tag:       in.Tag,
	}
}

// ContentService 는 Project/Blog/Story/Post 가 공유하는 조회, 작성, 게시 전환 로직이다.
type ContentService[T any, PT contentPtr[T]] struct {
	kind    string
	store   ContentStore[T]
	authors AuthorLookup
}

func NewContentService[T any, PT contentPtr[T]](kind string, store ContentStore[T], authors AuthorLookup) *ContentService[T, PT] {
	return &ContentService[T, PT]{kind: kind, store: store, authors: authors}
}

// ListPublished 는 공개 목록이다. 게시된 항목만 공개 정렬 순서로 돌려준다.
func (s *ContentService[T, PT]) ListPublished(ctx context.Context, in ListInput) (dto.CursorPage[T], error) {
	in.Search, in.Published = "", nil
	return s.list(ctx, in.query(true))
}

// ListAll 은 관리자 목록이다. 미게시 항목 포함, 최신순.
func (s *ContentService[T, PT]) ListAll(ctx context.Context, in ListInput) (dto.CursorPage[T], error) {
	return s.list(ctx, in.query(false))
}

func (s *ContentService[T, PT]) list(ctx context.Context, q repositories.ListQuery) (dto.CursorPage[T], error) {
	items, next, err := s.store.List(ctx, q)
	if err != nil {
		return dto.CursorPage[T]{}, translateRepoError(err)
	}
	s.attachAuthors(ctx, items)
	return dto.NewCursorPage(items, next), nil
}

// Get 은 id 로 한 건을 읽는다. 미게시 항목은 관리자에게만 보이고,
// 그 외에는 존재하지 않는 것처럼 ErrNotFound 를 돌려준다.
func (s *ContentService[T, PT]) Get(ctx context.Context, rawID string, viewer *models.User) (*T, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !canView(PT(item), viewer) {
		return nil, ErrNotFound
	}
	s.attachAuthor(ctx, item)
	return item, nil
}

func canView(item models.Content, viewer *models.User) bool {
	return item.IsPublished() || (viewer != nil && viewer.Role == models.RoleAdmin)
}

func (s *ContentService[T, PT]) Create(ctx context.Context, item *T, authorID primitive.ObjectID) (*T, error) {
	PT(item).SetAuthorID(authorID)
	if err := s.store.Insert(ctx, item); err != nil {
		return nil, err
	}
	logger.InfoWithFields("content created", logger.Fields{
		"kind":      s.kind,
		"author_id": authorID.Hex(),
	})
	s.attachAuthor(ctx, item)
	return item, nil
}

// Update 는 편집 가능한 필드 전체를 교체한다.
func (s *ContentService[T, PT]) Update(ctx context.Context, rawID string, item *T) (*T, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Update(ctx, id, item)
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.attachAuthor(ctx, updated)
	return updated, nil
}

func (s *ContentService[T, PT]) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return translateRepoError(err)
	}
	logger.InfoWithFields("content deleted", logger.Fields{"kind": s.kind, "id": rawID})
	return nil
}

func (s *ContentService[T, PT]) TogglePublished(ctx context.Context, rawID string) (*T, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	item, err := s.store.TogglePublished(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.attachAuthor(ctx, item)
	return item, nil
}

// Counts 는 전체/게시 건수를 동시에 센다.
func (s *ContentService[T, PT]) Counts(ctx context.Context) (dto.ContentCountsDTO, error) {
	var out dto.ContentCountsDTO
	published := true
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Total, err = s.store.Count(gctx, repositories.CountQuery{})
		return err
	})
	g.Go(func() (err error) {
		out.Published, err = s.store.Count(gctx, repositories.CountQuery{Published: &published})
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.ContentCountsDTO{}, err
	}
	return out, nil
}

func (s *ContentService[T, PT]) attachAuthor(ctx context.Context, item *T) {
	if item == nil {
		return
	}
	s.resolveAuthors(ctx, []PT{PT(item)})
}

func (s *ContentService[T, PT]) attachAuthors(ctx context.Context, items []T) {
	ptrs := make([]PT, len(items))
	for i := range items {
		ptrs[i] = PT(&items[i])
	}
	s.resolveAuthors(ctx, ptrs)
}

// resolveAuthors 는 created_by 를 채운다. 작성자 조회 실패는 응답을 막지 않는다.
func (s *ContentService[T, PT]) resolveAuthors(ctx context.Context, items []PT) {
	if s.authors == nil || len(items) == 0 {
		return
	}
	seen := make(map[primitive.ObjectID]struct{}, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		id := item.AuthorID()
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return
	}
	users, err := s.authors.FindByIDs(ctx, ids)
	if err != nil {
		logger.WarnWithFields("author lookup failed", logger.Fields{"kind": s.kind, "error": err.Error()})
		return
	}
	for _, item := range items {
		if u, ok := users[item.AuthorID()]; ok {
			item.SetAuthor(&models.Author{Name: u.Name, Image: u.Image})
		}
	}
}
