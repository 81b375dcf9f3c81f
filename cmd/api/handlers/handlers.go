package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/services"
	"portfolio/cmd/api/trace"
	"portfolio/internal/logger"
	"portfolio/storage"
	"portfolio/summarizer"
)

// errorStatus 는 서비스/스토리지 sentinel 에러를 HTTP 상태와 에러 코드로 바꾼다.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNotFound), errors.Is(err, storage.ErrObjectNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrInvalidID):
		return http.StatusBadRequest, "invalid_id"
	case errors.Is(err, services.ErrInvalidCursor):
		return http.StatusBadRequest, "invalid_cursor"
	case errors.Is(err, services.ErrInvalidRole):
		return http.StatusBadRequest, "invalid_role"
	case errors.Is(err, services.ErrInvalidDate):
		return http.StatusBadRequest, "invalid_date"
	case services.IsInvalidImport(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrSessionExpired):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden, services.ErrForbidden.Error()
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge, "file_too_large"
	case errors.Is(err, storage.ErrUnsupportedType):
		return http.StatusUnsupportedMediaType, "unsupported_media_type"
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable, "storage_not_configured"
	case errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable, "storage_unavailable"
	case errors.Is(err, summarizer.ErrQuotaExceeded):
		return http.StatusTooManyRequests, "quota_exceeded"
	case errors.Is(err, services.ErrNotConfigured):
		return http.StatusServiceUnavailable, "not_configured"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func respondError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	fields := traceFields(c, logger.Fields{
		"error":  err.Error(),
		"status": status,
		"path":   c.Request.URL.Path,
	})
	if status >= http.StatusInternalServerError {
		logger.ErrorWithFields("request failed", fields)
	} else {
		logger.DebugWithFields("request rejected", fields)
	}
	_ = c.Error(err)
	c.JSON(status, dto.ErrorResponseDTO{Error: code})
}

func traceFields(c *gin.Context, fields logger.Fields) logger.Fields {
	fields["request_id"] = c.Request.Header.Get(trace.HeaderRequestID)
	fields["span_id"] = c.Request.Header.Get(trace.HeaderSpanID)
	return fields
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: err.Error()})
}

// optionalBool 은 ?key=true|false 를 읽는다. 없거나 해석할 수 없으면 nil.
func optionalBool(c *gin.Context, key string) *bool {
	v := c.Query(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func listInput(c *gin.Context) services.ListInput {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return services.ListInput{
		Limit:     limit,
		Cursor:    c.Query("cursor"),
		Search:    c.Query("search"),
		Published: optionalBool(c, "published"),
		Featured:  optionalBool(c, "featured"),
		Tag:       c.Query("tag"),
	}
}

type Pinger func(ctx context.Context) error

// HealthHandler godoc
// @Summary      Health check
// @Description  MongoDB 연결 상태를 확인한다
// @Tags         health
// @Produce      json
// @Success      200  {object}  object{status=string}
// @Failure      503  {object}  object{status=string,error=string}
// @Router       /health [get]
func HealthHandler(ping Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		if err := ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
