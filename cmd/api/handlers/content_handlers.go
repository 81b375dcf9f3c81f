package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// 네 가지 콘텐츠 타입의 핸들러는 아래 공통 빌더로 만든다. 타입별 함수는 swagger 문서용이다.

type contentReader[T any] interface {
	ListPublished(ctx context.Context, in services.ListInput) (dto.CursorPage[T], error)
	Get(ctx context.Context, id string, viewer *models.User) (*T, error)
}

type contentWriter[T any] interface {
	ListAll(ctx context.Context, in services.ListInput) (dto.CursorPage[T], error)
	Get(ctx context.Context, id string, viewer *models.User) (*T, error)
	Create(ctx context.Context, item *T, authorID primitive.ObjectID) (*T, error)
	Update(ctx context.Context, id string, item *T) (*T, error)
	Delete(ctx context.Context, id string) error
	TogglePublished(ctx context.Context, id string) (*T, error)
}

type modelRequest[T any] interface {
	ToModel() *T
}

func listPublished[T any](svc contentReader[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.ListPublished(c.Request.Context(), listInput(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getPublic[T any](svc contentReader[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, _ := middleware.CurrentUser(c)
		item, err := svc.Get(c.Request.Context(), c.Param("id"), viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func listAll[T any](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.ListAll(c.Request.Context(), listInput(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getAdmin[T any](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, _ := middleware.CurrentUser(c)
		item, err := svc.Get(c.Request.Context(), c.Param("id"), viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func createContent[T any, R modelRequest[T]](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		user, _ := middleware.CurrentUser(c)
		out, err := svc.Create(c.Request.Context(), req.ToModel(), user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

func updateContent[T any, R modelRequest[T]](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req R
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Update(c.Request.Context(), c.Param("id"), req.ToModel())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteContent[T any](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "deleted"})
	}
}

func togglePublished[T any](svc contentWriter[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.TogglePublished(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func counts[T any](fn func(ctx context.Context) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := fn(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
