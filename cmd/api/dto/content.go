package dto

import (
	"strings"

	"portfolio/models"
)

// 요청 DTO 는 gin binding(validator/v10)으로 검증한다. notblank 는 validation.go 에서 등록한다.

type ProjectRequest struct {
	Title       string   `json:"title" binding:"required,notblank,max=255"`
	Description string   `json:"description" binding:"required,notblank,max=1000"`
	Content     string   `json:"content"`
	Images      []string `json:"images"`
	TechStack   []string `json:"tech_stack"`
	LiveURL     string   `json:"live_url" binding:"omitempty,url"`
	GitHubURL   string   `json:"github_url" binding:"omitempty,url"`
	Featured    bool     `json:"featured"`
	Published   bool     `json:"published"`
	Order       int      `json:"order"`
}

func (r ProjectRequest) ToModel() *models.Project {
	return &models.Project{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		Content:     r.Content,
		Images:      cleanList(r.Images),
		TechStack:   cleanList(r.TechStack),
		LiveURL:     strings.TrimSpace(r.LiveURL),
		GitHubURL:   strings.TrimSpace(r.GitHubURL),
		Featured:    r.Featured,
		Published:   r.Published,
		Order:       r.Order,
	}
}

type BlogRequest struct {
	Title      string   `json:"title" binding:"required,notblank,max=255"`
	Content    string   `json:"content" binding:"required,min=1"`
	Excerpt    string   `json:"excerpt" binding:"max=500"`
	CoverImage string   `json:"cover_image"`
	Tags       []string `json:"tags"`
	Published  bool     `json:"published"`
}

func (r BlogRequest) ToModel() *models.Blog {
	return &models.Blog{
		Title:      strings.TrimSpace(r.Title),
		Content:    r.Content,
		Excerpt:    strings.TrimSpace(r.Excerpt),
		CoverImage: strings.TrimSpace(r.CoverImage),
		Tags:       cleanList(r.Tags),
		Published:  r.Published,
	}
}

type StoryRequest struct {
	Title      string `json:"title" binding:"required,notblank,max=255"`
	Content    string `json:"content" binding:"required,min=1"`
	Excerpt    string `json:"excerpt" binding:"max=500"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published"`
}

func (r StoryRequest) ToModel() *models.Story {
	return &models.Story{
		Title:      strings.TrimSpace(r.Title),
		Content:    r.Content,
		Excerpt:    strings.TrimSpace(r.Excerpt),
		CoverImage: strings.TrimSpace(r.CoverImage),
		Published:  r.Published,
	}
}

type PostRequest struct {
	Name       string `json:"name" binding:"required,notblank,max=255"`
	Content    string `json:"content"`
	Excerpt    string `json:"excerpt" binding:"max=500"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published"`
}

func (r PostRequest) ToModel() *models.Post {
	return &models.Post{
		Name:       strings.TrimSpace(r.Name),
		Content:    r.Content,
		Excerpt:    strings.TrimSpace(r.Excerpt),
		CoverImage: strings.TrimSpace(r.CoverImage),
		Published:  r.Published,
	}
}

// cleanList 는 공백 항목을 버리고 나머지를 trim 한다. nil 대신 빈 슬라이스를 돌려준다.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ContentCountsDTO 는 Story/Post 집계다.
type ContentCountsDTO struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

type ProjectCountsDTO struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Featured  int64 `json:"featured"`
}

type BlogCountsDTO struct {
	Total      int64 `json:"total"`
	Published  int64 `json:"published"`
	TotalViews int64 `json:"total_views"`
}

type DashboardDTO struct {
	Projects ProjectCountsDTO `json:"projects"`
	Blogs    BlogCountsDTO    `json:"blogs"`
	Stories  ContentCountsDTO `json:"stories"`
	Posts    ContentCountsDTO `json:"posts"`
}

type TagsResponseDTO struct {
	Tags []string `json:"tags"`
}

// SuggestionDTO 는 블로그 본문에서 만든 excerpt/태그 제안이다. 저장되지 않는다.
type SuggestionDTO struct {
	Excerpt string   `json:"excerpt"`
	Tags    []string `json:"tags"`
}
