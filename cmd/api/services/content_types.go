package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"portfolio/cmd/api/dto"
	"portfolio/models"
	"portfolio/repositories"
	"portfolio/summarizer"
)

// -------------------- Projects --------------------

type ProjectService struct {
	*ContentService[models.Project, *models.Project]
	store ContentStore[models.Project]
}

func NewProjectService(store ContentStore[models.Project], authors AuthorLookup) *ProjectService {
	return &ProjectService{
		ContentService: NewContentService[models.Project]("project", store, authors),
		store:          store,
	}
}

func (s *ProjectService) Counts(ctx context.Context) (dto.ProjectCountsDTO, error) {
	base, err := s.ContentService.Counts(ctx)
	if err != nil {
		return dto.ProjectCountsDTO{}, err
	}
	featured := true
	n, err := s.store.Count(ctx, repositories.CountQuery{Featured: &featured})
	if err != nil {
		return dto.ProjectCountsDTO{}, err
	}
	return dto.ProjectCountsDTO{Total: base.Total, Published: base.Published, Featured: n}, nil
}

// -------------------- Blogs --------------------

type BlogStore interface {
	ContentStore[models.Blog]
	IncrementViews(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	PublishedTags(ctx context.Context) ([]string, error)
	TotalViews(ctx context.Context) (int64, error)
}

type Suggester interface {
	Suggest(ctx context.Context, text string) (*summarizer.Suggestion, error)
}

type BlogService struct {
	*ContentService[models.Blog, *models.Blog]
	store     BlogStore
	suggester Suggester
}

// NewBlogService 는 suggester 가 nil 이면 Suggest 가 ErrNotConfigured 를 돌려준다.
func NewBlogService(store BlogStore, authors AuthorLookup, suggester Suggester) *BlogService {
	return &BlogService{
		ContentService: NewContentService[models.Blog]("blog", store, authors),
		store:          store,
		suggester:      suggester,
	}
}

// GetAndCountView 는 공개 상세 조회다. 볼 수 있는 글이면 조회수를 1 올린 문서를 돌려준다.
func (s *BlogService) GetAndCountView(ctx context.Context, rawID string, viewer *models.User) (*models.Blog, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if !canView(b, viewer) {
		return nil, ErrNotFound
	}
	b, err = s.store.IncrementViews(ctx, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	s.attachAuthor(ctx, b)
	return b, nil
}

func (s *BlogService) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.store.PublishedTags(ctx)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *BlogService) Counts(ctx context.Context) (dto.BlogCountsDTO, error) {
	var (
		base  dto.ContentCountsDTO
		views int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		base, err = s.ContentService.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		views, err = s.store.TotalViews(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.BlogCountsDTO{}, err
	}
	return dto.BlogCountsDTO{Total: base.Total, Published: base.Published, TotalViews: views}, nil
}

// Suggest 는 블로그 본문으로 excerpt 와 태그를 제안한다. 저장하지 않는다.
func (s *BlogService) Suggest(ctx context.Context, rawID string) (dto.SuggestionDTO, error) {
	if s.suggester == nil {
		return dto.SuggestionDTO{}, ErrNotConfigured
	}
	id, err := parseID(rawID)
	if err != nil {
		return dto.SuggestionDTO{}, err
	}
	b, err := s.store.FindByID(ctx, id)
	if err != nil {
		return dto.SuggestionDTO{}, translateRepoError(err)
	}
	sug, err := s.suggester.Suggest(ctx, b.Content)
	if err != nil {
		return dto.SuggestionDTO{}, err
	}
	tags := sug.Tags
	if tags == nil {
		tags = []string{}
	}
	return dto.SuggestionDTO{Excerpt: sug.Excerpt, Tags: tags}, nil
}

// -------------------- Stories --------------------

type StoryService struct {
	*ContentService[models.Story, *models.Story]
}

func NewStoryService(store ContentStore[models.Story], authors AuthorLookup) *StoryService {
	return &StoryService{ContentService: NewContentService[models.Story]("story", store, authors)}
}

// -------------------- Posts --------------------

type PostStore interface {
	ContentStore[models.Post]
	LatestByUser(ctx context.Context, userID primitive.ObjectID) (*models.Post, error)
}

type PostService struct {
	*ContentService[models.Post, *models.Post]
	store PostStore
}

func NewPostService(store PostStore, authors AuthorLookup) *PostService {
	return &PostService{
		ContentService: NewContentService[models.Post]("post", store, authors),
		store:          store,
	}
}

// Latest 는 userID 가 마지막으로 작성한 포스트다. 없으면 (nil, nil).
func (s *PostService) Latest(ctx context.Context, userID primitive.ObjectID) (*models.Post, error) {
	p, err := s.store.LatestByUser(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.attachAuthor(ctx, p)
	return p, nil
}
