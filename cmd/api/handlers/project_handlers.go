package handlers

import (
	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// ListProjectsHandler godoc
// @Summary      List published projects
// @Description  게시된 project 목록 (featured desc, order asc, newest first). keyset cursor 로 다음 페이지를 읽는다
// @Tags         projects
// @Param        limit     query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor    query  string  false  "next_cursor from the previous page"
// @Param        featured  query  bool    false  "Only featured (true) or non-featured (false)"
// @Produce      json
// @Success      200  {object}  dto.ProjectPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /projects [get]
func ListProjectsHandler(svc *services.ProjectService) gin.HandlerFunc {
	return listPublished[models.Project](svc)
}

// GetProjectHandler godoc
// @Summary      Get project by id
// @Description  미게시 project 는 관리자 세션에서만 보인다
// @Tags         projects
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Project
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /projects/{id} [get]
func GetProjectHandler(svc *services.ProjectService) gin.HandlerFunc {
	return getPublic[models.Project](svc)
}

// AdminListProjectsHandler godoc
// @Summary      List all projects for admin
// @Description  미게시 포함 전체 목록, 최신순
// @Tags         admin
// @Param        limit      query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor     query  string  false  "next_cursor from the previous page"
// @Param        search     query  string  false  "Case-insensitive substring search"
// @Param        published  query  bool    false  "Filter by published state"
// @Produce      json
// @Success      200  {object}  dto.ProjectPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects [get]
func AdminListProjectsHandler(svc *services.ProjectService) gin.HandlerFunc {
	return listAll[models.Project](svc)
}

// AdminGetProjectHandler godoc
// @Summary      Get project for admin
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Project
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects/{id} [get]
func AdminGetProjectHandler(svc *services.ProjectService) gin.HandlerFunc {
	return getAdmin[models.Project](svc)
}

// AdminCreateProjectHandler godoc
// @Summary      Create project
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProjectRequest  true  "Project"
// @Success      201  {object}  models.Project
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects [post]
func AdminCreateProjectHandler(svc *services.ProjectService) gin.HandlerFunc {
	return createContent[models.Project, dto.ProjectRequest](svc)
}

// AdminUpdateProjectHandler godoc
// @Summary      Update project
// @Description  편집 가능한 필드 전체를 교체한다
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ObjectID"
// @Param        body  body  dto.ProjectRequest  true  "Project"
// @Success      200  {object}  models.Project
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects/{id} [put]
func AdminUpdateProjectHandler(svc *services.ProjectService) gin.HandlerFunc {
	return updateContent[models.Project, dto.ProjectRequest](svc)
}

// AdminDeleteProjectHandler godoc
// @Summary      Delete project
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects/{id} [delete]
func AdminDeleteProjectHandler(svc *services.ProjectService) gin.HandlerFunc {
	return deleteContent[models.Project](svc)
}

// AdminToggleProjectPublishedHandler godoc
// @Summary      Toggle published state of a project
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Project
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/projects/{id}/toggle-published [post]
func AdminToggleProjectPublishedHandler(svc *services.ProjectService) gin.HandlerFunc {
	return togglePublished[models.Project](svc)
}

// AdminProjectCountsHandler godoc
// @Summary      Project counts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.ProjectCountsDTO
// @Router       /admin/projects/counts [get]
func AdminProjectCountsHandler(svc *services.ProjectService) gin.HandlerFunc {
	return counts(svc.Counts)
}
