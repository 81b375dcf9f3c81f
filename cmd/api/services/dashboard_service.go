package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"portfolio/cmd/api/dto"
)

// DashboardService 는 관리자 첫 화면의 네 가지 집계를 한 번에 모은다.
type DashboardService struct {
	projects *ProjectService
	blogs    *BlogService
	stories  *StoryService
	posts    *PostService
}

func NewDashboardService(projects *ProjectService, blogs *BlogService, stories *StoryService, posts *PostService) *DashboardService {
	return &DashboardService{projects: projects, blogs: blogs, stories: stories, posts: posts}
}

func (s *DashboardService) Overview(ctx context.Context) (dto.DashboardDTO, error) {
	var out dto.DashboardDTO
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Projects, err = s.projects.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Blogs, err = s.blogs.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Stories, err = s.stories.Counts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Posts, err = s.posts.Counts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return dto.DashboardDTO{}, err
	}
	return out, nil
}
