package handlers

import (
	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/services"
)

// AdminDashboardHandler godoc
// @Summary      Dashboard overview
// @Description  네 가지 콘텐츠 집계를 한 번에 돌려준다
// @Tags         admin
// @Produce      json
// @Success      200  {object}  dto.DashboardDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /admin/dashboard [get]
func AdminDashboardHandler(svc *services.DashboardService) gin.HandlerFunc {
	return counts(svc.Overview)
}
