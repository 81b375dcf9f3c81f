package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// ListBlogsHandler godoc
// @Summary      List published blogs
// @Description  게시된 blog 목록 (newest first). keyset cursor 로 다음 페이지를 읽는다
// @Tags         blogs
// @Param        limit     query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor    query  string  false  "next_cursor from the previous page"
// @Param        tag       query  string  false  "Exact tag match"
// @Produce      json
// @Success      200  {object}  dto.BlogPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /blogs [get]
func ListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return listPublished[models.Blog](svc)
}

// GetBlogHandler godoc
// @Summary      Get blog by id
// @Description  공개 조회마다 views 를 1 올리고 증가된 문서를 돌려준다. 미게시 글은 관리자 세션에서만 보인다
// @Tags         blogs
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Blog
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /blogs/{id} [get]
func GetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, _ := middleware.CurrentUser(c)
		b, err := svc.GetAndCountView(c.Request.Context(), c.Param("id"), viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// AdminListBlogsHandler godoc
// @Summary      List all blogs for admin
// @Description  미게시 포함 전체 목록, 최신순
// @Tags         admin
// @Param        limit      query  int     false  "Page size (1..100)"  default(10)
// @Param        cursor     query  string  false  "next_cursor from the previous page"
// @Param        search     query  string  false  "Case-insensitive substring search"
// @Param        published  query  bool    false  "Filter by published state"
// @Param        tag       query  string  false  "Exact tag match"
// @Produce      json
// @Success      200  {object}  dto.BlogPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs [get]
func AdminListBlogsHandler(svc *services.BlogService) gin.HandlerFunc {
	return listAll[models.Blog](svc)
}

// AdminGetBlogHandler godoc
// @Summary      Get blog for admin
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Blog
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/{id} [get]
func AdminGetBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return getAdmin[models.Blog](svc)
}

// AdminCreateBlogHandler godoc
// @Summary      Create blog
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BlogRequest  true  "Blog"
// @Success      201  {object}  models.Blog
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs [post]
func AdminCreateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return createContent[models.Blog, dto.BlogRequest](svc)
}

// AdminUpdateBlogHandler godoc
// @Summary      Update blog
// @Description  편집 가능한 필드 전체를 교체한다
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ObjectID"
// @Param        body  body  dto.BlogRequest  true  "Blog"
// @Success      200  {object}  models.Blog
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/{id} [put]
func AdminUpdateBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return updateContent[models.Blog, dto.BlogRequest](svc)
}

// AdminDeleteBlogHandler godoc
// @Summary      Delete blog
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/{id} [delete]
func AdminDeleteBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return deleteContent[models.Blog](svc)
}

// AdminToggleBlogPublishedHandler godoc
// @Summary      Toggle published state of a blog
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  models.Blog
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/{id}/toggle-published [post]
func AdminToggleBlogPublishedHandler(svc *services.BlogService) gin.HandlerFunc {
	return togglePublished[models.Blog](svc)
}

// AdminBlogCountsHandler godoc
// @Summary      Blog counts
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.BlogCountsDTO
// @Router       /admin/blogs/counts [get]
func AdminBlogCountsHandler(svc *services.BlogService) gin.HandlerFunc {
	return counts(svc.Counts)
}

// ListBlogTagsHandler godoc
// @Summary      List blog tags
// @Description  게시된 블로그의 태그 집합 (정렬, 중복 제거)
// @Tags         blogs
// @Produce      json
// @Success      200  {object}  dto.TagsResponseDTO
// @Router       /blogs/tags [get]
func ListBlogTagsHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tags, err := svc.Tags(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.TagsResponseDTO{Tags: tags})
	}
}

// AdminSuggestBlogHandler godoc
// @Summary      Suggest excerpt and tags
// @Description  Gemini 로 본문 요약(≤500자)과 태그 3~7개를 제안한다. 저장하지 않는다
// @Tags         admin
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.SuggestionDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Failure      429  {object}  dto.ErrorResponseDTO
// @Failure      502  {object}  dto.ErrorResponseDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/{id}/suggest [post]
func AdminSuggestBlogHandler(svc *services.BlogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Suggest(c.Request.Context(), c.Param("id"))
		if err != nil {
			if status, _ := errorStatus(err); status == http.StatusInternalServerError {
				// 모델 호출 실패나 요약 불가 본문
				_ = c.Error(err)
				c.JSON(http.StatusBadGateway, dto.ErrorResponseDTO{Error: "suggestion_failed"})
				return
			}
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
