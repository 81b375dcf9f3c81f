package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/services"
)

// AdminListUsersHandler godoc
// @Summary      List users
// @Tags         admin
// @Param        search  query  string  false  "Name or email (case-insensitive)"
// @Param        limit   query  int     false  "Page size (1..100)"  default(20)
// @Param        cursor  query  string  false  "next_cursor from the previous page"
// @Produce      json
// @Success      200  {object}  dto.UserPageDTO
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Router       /admin/users [get]
func AdminListUsersHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.Query("limit"))
		page, err := svc.List(c.Request.Context(), c.Query("search"), limit, c.Query("cursor"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// AdminUpdateUserRoleHandler godoc
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateRoleRequest  true  "user_id and role"
// @Success      200  {object}  dto.UpdateRoleResponse
// @Failure      400  {object}  dto.ErrorResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /admin/users/role [put]
func AdminUpdateUserRoleHandler(svc *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.UpdateRole(c.Request.Context(), req.UserID, req.Role)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
