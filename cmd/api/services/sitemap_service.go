package services

import (
	"context"
	"encoding/xml"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio/internal/logger"
	"portfolio/models"
)

const sitemapItemLimit = 100

type SitemapSource[T any] interface {
	ListPublishedForSitemap(ctx context.Context, limit int) ([]T, error)
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

var staticPages = []sitemapURL{
	{Loc: "/", ChangeFreq: "daily", Priority: "1.0"},
	{Loc: "/about", ChangeFreq: "monthly", Priority: "0.8"},
	{Loc: "/projects", ChangeFreq: "weekly", Priority: "0.9"},
	{Loc: "/blog", ChangeFreq: "daily", Priority: "0.9"},
	{Loc: "/stories", ChangeFreq: "weekly", Priority: "0.8"},
}

type SitemapService struct {
	baseURL  string
	projects SitemapSource[models.Project]
	blogs    SitemapSource[models.Blog]
	stories  SitemapSource[models.Story]
}

func NewSitemapService(baseURL string, projects SitemapSource[models.Project], blogs SitemapSource[models.Blog], stories SitemapSource[models.Story]) *SitemapService {
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	return &SitemapService{
		baseURL:  strings.TrimRight(baseURL, "/"),
		projects: projects,
		blogs:    blogs,
		stories:  stories,
	}
}

// Build 는 sitemap.xml 본문을 만든다. 콘텐츠 조회가 하나라도 실패하면 정적 페이지만 넣는다.
func (s *SitemapService) Build(ctx context.Context) ([]byte, error) {
	urls := make([]sitemapURL, 0, len(staticPages)+3*sitemapItemLimit)
	for _, p := range staticPages {
		p.Loc = s.baseURL + p.Loc
		urls = append(urls, p)
	}

	dynamic, err := s.dynamicURLs(ctx)
	if err != nil {
		logger.WarnWithFields("sitemap content query failed; static pages only", logger.Fields{"error": err.Error()})
	} else {
		urls = append(urls, dynamic...)
	}

	out, err := xml.MarshalIndent(urlSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), out...), nil
}

func (s *SitemapService) dynamicURLs(ctx context.Context) ([]sitemapURL, error) {
	var (
		projects []models.Project
		blogs    []models.Blog
		stories  []models.Story
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		projects, err = s.projects.ListPublishedForSitemap(gctx, sitemapItemLimit)
		return err
	})
	g.Go(func() (err error) {
		blogs, err = s.blogs.ListPublishedForSitemap(gctx, sitemapItemLimit)
		return err
	})
	g.Go(func() (err error) {
		stories, err = s.stories.ListPublishedForSitemap(gctx, sitemapItemLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	urls := make([]sitemapURL, 0, len(projects)+len(blogs)+len(stories))
	for _, p := range projects {
		urls = append(urls, s.entry("/projects/"+p.ID.Hex(), p.UpdatedAt, "0.7"))
	}
	for _, b := range blogs {
		urls = append(urls, s.entry("/blog/"+b.ID.Hex(), b.UpdatedAt, "0.7"))
	}
	for _, st := range stories {
		urls = append(urls, s.entry("/stories/"+st.ID.Hex(), st.UpdatedAt, "0.6"))
	}
	return urls, nil
}

func (s *SitemapService) entry(path string, updated time.Time, priority string) sitemapURL {
	u := sitemapURL{Loc: s.baseURL + path, ChangeFreq: "monthly", Priority: priority}
	if !updated.IsZero() {
		u.LastMod = updated.UTC().Format(time.RFC3339)
	}
	return u
}
