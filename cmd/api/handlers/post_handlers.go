package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// ListPostsHandler godoc
// @Summary      List published posts
// @Description  게시된 post 목록 (newest first). keyset cursor 로 다음 페이지를 읽는다
// @Tags         posts
// @Param        limit     query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor    query  string  false  "next_cursor from the previous page"
// @Produce      json
// @Success      200  {object}  dto.PostPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return listPublished[models.Post](svc)
}

// GetPostHandler godoc
// @Summary      Get post by id
// @Description  미게시 post 는 관리자 세션에서만 보인다
// @Tags         posts
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{id} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return getPublic[models.Post](svc)
}

// AdminListPostsHandler godoc
// @Summary      List all posts for admin
// @Description  미게시 포함 전체 목록, 최신순
// @Tags         admin
// @Param        limit      query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor     query  string  false  "next_cursor from the previous page"
// @Param        search     query  string  false  "Case-insensitive substring search"
// @Param        published  query  bool    false  "Filter by published state"
// @Produce      json
// @Success      200  {object}  dto.PostPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts [get]
func AdminListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return listAll[models.Post](svc)
}

// AdminGetPostHandler godoc
// @Summary      Get post for admin
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts/{id} [get]
func AdminGetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return getAdmin[models.Post](svc)
}

// AdminCreatePostHandler godoc
// @Summary      Create post
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PostRequest  true  "Post"
// @Success      201  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts [post]
func AdminCreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return createContent[models.Post, dto.PostRequest](svc)
}

// AdminUpdatePostHandler godoc
// @Summary      Update post
// @Description  편집 가능한 필드 전체를 교체한다
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ObjectID"
// @Param        body  body  dto.PostRequest  true  "Post"
// @Success      200  {object}  models.Post
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts/{id} [put]
func AdminUpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return updateContent[models.Post, dto.PostRequest](svc)
}

// AdminDeletePostHandler godoc
// @Summary      Delete post
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts/{id} [delete]
func AdminDeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return deleteContent[models.Post](svc)
}

// AdminTogglePostPublishedHandler godoc
// @Summary      Toggle published state of a post
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Post
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/posts/{id}/toggle-published [post]
func AdminTogglePostPublishedHandler(svc *services.PostService) gin.HandlerFunc {
	return togglePublished[models.Post](svc)
}

// AdminPostCountsHandler godoc
// @Summary      Post counts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.ContentCountsDTO
// @Router       /admin/posts/counts [get]
func AdminPostCountsHandler(svc *services.PostService) gin.HandlerFunc {
	return counts(svc.Counts)
}

// AdminLatestPostHandler godoc
// @Summary      Latest post of the current user
// @Description  현재 관리자가 마지막으로 작성한 포스트, 없으면 null
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.Post
// @Router       /admin/posts/latest [get]
func AdminLatestPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, _ := middleware.CurrentUser(c)
		p, err := svc.Latest(c.Request.Context(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if p == nil {
			c.JSON(http.StatusOK, nil)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}
