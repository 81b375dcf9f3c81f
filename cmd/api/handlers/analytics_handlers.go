package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/services"
)

// AdminAnalyticsStatsHandler godoc
// @Summary      Umami 방문 통계
// @Description  기간 기본값은 최근 30일. Umami 미설정/실패 시에도 200 이고 error 필드에 사유가 담깁니다.
// @Tags         admin
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD or RFC3339"
// @Param        end_date    query  string  false  "YYYY-MM-DD or RFC3339"
// @Success      200  {object}  dto.AnalyticsStatsDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/analytics/stats [get]
func AdminAnalyticsStatsHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		r, err := svc.ParseRange(c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, svc.Stats(c.Request.Context(), r))
	}
}

// AdminAnalyticsRealtimeHandler godoc
// @Summary      현재 접속자 수
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.RealtimeDTO
// @Router       /admin/analytics/realtime [get]
func AdminAnalyticsRealtimeHandler(svc *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Realtime(c.Request.Context()))
	}
}
