package dto

import "portfolio/models"

type UserDTO struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email,omitempty"`
	Image string      `json:"image,omitempty"`
	Role  models.Role `json:"role" example:"VIEWER"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Image: u.Image,
		Role:  u.Role,
	}
}

type UpdateRoleRequest struct {
	UserID string      `json:"user_id" binding:"required"`
	Role   models.Role `json:"role" binding:"required,oneof=ADMIN VIEWER"`
}

type UpdateRoleResponse struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}
