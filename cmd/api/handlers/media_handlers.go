package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/internal/logger"
	"portfolio/storage"
)

// multipart 경계와 다른 필드를 위한 여유분
const multipartOverhead = 1 << 20

// AdminUploadMediaHandler godoc
// @Summary      미디어 업로드
// @Description  multipart 필드 file 을 오브젝트 스토리지에 저장하고 프록시 URL 을 돌려줍니다.
// @Description  Content-Type 은 파일 내용으로 판별하며 지원하지 않는 형식은 415 입니다.
// @Tags         admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "업로드할 파일"
// @Success      200  {object}  dto.MediaUploadResponseDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      413  {object}  dto.ErrorResponseDTO
// @Failure      415  {object}  dto.ErrorResponseDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /admin/media [post]
func AdminUploadMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if max := svc.MaxBytes(); max > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, max+multipartOverhead)
		}
		fh, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				respondError(c, storage.ErrTooLarge)
				return
			}
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "no_file"})
			return
		}

		user, _ := middleware.CurrentUser(c)
		out, err := svc.Upload(c.Request.Context(), fh, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// AdminListMediaHandler godoc
// @Summary      버킷 객체 목록
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.MediaListDTO
// @Failure      503  {object}  dto.ErrorResponseDTO
// @Router       /admin/media [get]
func AdminListMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// AdminDeleteMediaHandler godoc
// @Summary      미디어 삭제
// @Tags         admin
// @Produce      json
// @Param        filename  path  string  true  "object key"
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/media/{filename} [delete]
func AdminDeleteMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("filename"), "/")
		if key == "" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: "filename_required"})
			return
		}
		if err := svc.Delete(c.Request.Context(), key); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "deleted"})
	}
}

// AdminDebugMediaHandler godoc
// @Summary      객체 이름 디버그
// @Description  파일명마다 escape 형태, hex, 문자 코드를 보여줍니다. 인코딩 문제 추적용.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.MediaDebugDTO
// @Router       /admin/media/debug [get]
func AdminDebugMediaHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Debug(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// MediaProxyHandler godoc
// @Summary      미디어 프록시
// @Description  버킷 객체를 스트리밍으로 전달합니다. 파일명에 공백이나 / 가 들어갈 수 있습니다.
// @Tags         media
// @Param        filename  path  string  true  "object key"
// @Success      200  {file}    file
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /api/media/{filename} [get]
func MediaProxyHandler(svc *services.MediaService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimPrefix(c.Param("filename"), "/")
		if key == "" {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: "not_found"})
			return
		}

		rc, info, err := svc.Open(c.Request.Context(), key)
		if err != nil {
			respondError(c, err)
			return
		}
		defer rc.Close()

		headers := map[string]string{
			"Cache-Control":               "public, max-age=31536000",
			"Access-Control-Allow-Origin": "*",
		}
		if info.ETag != "" {
			headers["ETag"] = strconv.Quote(strings.Trim(info.ETag, `"`))
		}
		if !info.LastModified.IsZero() {
			headers["Last-Modified"] = info.LastModified.UTC().Format(http.TimeFormat)
		}

		logger.DebugWithFields("media proxy", traceFields(c, logger.Fields{
			"key":  key,
			"size": info.Size,
		}))
		c.DataFromReader(http.StatusOK, info.Size, info.ContentType, rc, headers)
	}
}
