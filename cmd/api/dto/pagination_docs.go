package dto

import "portfolio/models"

// swagger 문서용 구체 타입
type (
	ProjectPageDTO struct {
		Items      []models.Project `json:"items"`
		NextCursor string           `json:"next_cursor,omitempty"`
	}
	BlogPageDTO struct {
		Items      []models.Blog `json:"items"`
		NextCursor string        `json:"next_cursor,omitempty"`
	}
	StoryPageDTO struct {
		Items      []models.Story `json:"items"`
		NextCursor string         `json:"next_cursor,omitempty"`
	}
	PostPageDTO struct {
		Items      []models.Post `json:"items"`
		NextCursor string        `json:"next_cursor,omitempty"`
	}
	UserPageDTO struct {
		Items      []UserDTO `json:"items"`
		NextCursor string    `json:"next_cursor,omitempty"`
	}
)
