package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/models"
)

// AdminImportBlogsHandler godoc
// @Summary      RSS 피드에서 블로그 초안 가져오기
// @Description  이벤트 버스가 설정돼 있으면 작업을 큐에 넣고 202 와 job_id 를 돌려줍니다.
// @Description  그렇지 않으면 요청 안에서 바로 가져오고 200 과 결과를 돌려줍니다. 가져온 글은 모두 미게시 상태입니다.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportRequestDTO  true  "rss_url, limit"
// @Success      200  {object}  dto.ImportResultDTO
// @Success      202  {object}  dto.ImportAcceptedDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/blogs/import [post]
func AdminImportBlogsHandler(svc *services.ImportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ImportRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		user, _ := middleware.CurrentUser(c)
		out, err := svc.Start(c.Request.Context(), req.RSSURL, req.Limit, user.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if out.Job != nil {
			c.JSON(http.StatusAccepted, dto.ImportAcceptedDTO{JobID: out.Job.ID.Hex(), Status: models.ImportQueued})
			return
		}
		c.JSON(http.StatusOK, dto.NewImportResultDTO(*out.Result))
	}
}

// AdminGetImportJobHandler godoc
// @Summary      가져오기 작업 상태
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "job id"
// @Success      200  {object}  dto.ImportJobDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/imports/{id} [get]
func AdminGetImportJobHandler(svc *services.ImportService) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
