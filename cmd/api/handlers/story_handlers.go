package handlers

import (
	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// ListStoriesHandler godoc
// @Summary      List published stories
// @Description  게시된 story 목록 (newest first). keyset cursor 로 다음 페이지를 읽는다
// @Tags         stories
// @Param        limit     query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor    query  string  false  "next_cursor from the previous page"
// @Produce      json
// @Success      200  {object}  dto.StoryPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /stories [get]
func ListStoriesHandler(svc *services.StoryService) gin.HandlerFunc {
	return listPublished[models.Story](svc)
}

// GetStoryHandler godoc
// @Summary      Get story by id
// @Tags         stories
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Story
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /stories/{id} [get]
func GetStoryHandler(svc *services.StoryService) gin.HandlerFunc {
	return getPublic[models.Story](svc)
}

// AdminListStoriesHandler godoc
// @Summary      List all stories for admin
// @Description  미게시 포함 전체 목록, 최신순
// @Tags         admin
// @Param        limit      query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor     query  string  false  "next_cursor from the previous page"
// @Param        search     query  string  false  "Case-insensitive substring search"
// @Param        published  query  bool    false  "Filter by published state"
// @Produce      json
// @Success      200  {object}  dto.StoryPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories [get]
func AdminListStoriesHandler(svc *services.StoryService) gin.HandlerFunc {
	return listAll[models.Story](svc)
}

// AdminGetStoryHandler godoc
// @Summary      Get story for admin
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Story
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories/{id} [get]
func AdminGetStoryHandler(svc *services.StoryService) gin.HandlerFunc {
	return getAdmin[models.Story](svc)
}

// AdminCreateStoryHandler godoc
// @Summary      Create story
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StoryRequest  true  "Story"
// @Success      201  {object}  models.Story
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories [post]
func AdminCreateStoryHandler(svc *services.StoryService) gin.HandlerFunc {
	return createContent[models.Story, dto.StoryRequest](svc)
}

// AdminUpdateStoryHandler godoc
// @Summary      Update story
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ObjectID"
// @Param        body  body  dto.StoryRequest  true  "Story"
// @Success      200  {object}  models.Story
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories/{id} [put]
func AdminUpdateStoryHandler(svc *services.StoryService) gin.HandlerFunc {
	return updateContent[models.Story, dto.StoryRequest](svc)
}

// AdminDeleteStoryHandler godoc
// @Summary      Delete story
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories/{id} [delete]
func AdminDeleteStoryHandler(svc *services.StoryService) gin.HandlerFunc {
	return deleteContent[models.Story](svc)
}

// AdminToggleStoryPublishedHandler godoc
// @Summary      Toggle published state of a story
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Story
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/stories/{id}/toggle-published [post]
func AdminToggleStoryPublishedHandler(svc *services.StoryService) gin.HandlerFunc {
	return togglePublished[models.Story](svc)
}

// AdminStoryCountsHandler godoc
// @Summary      Story counts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.ContentCountsDTO
// @Router       /admin/stories/counts [get]
func AdminStoryCountsHandler(svc *services.StoryService) gin.HandlerFunc {
	return counts(svc.Counts)
}
