package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/cmd/api/dto"
	"portfolio/internal/logger"
	"portfolio/models"
)

type UserAdminStore interface {
	List(ctx context.Context, search string, limit int, cursor string) ([]models.User, string, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role models.Role) (*models.User, error)
}

type UserService struct {
	users UserAdminStore
}

func NewUserService(users UserAdminStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, search string, limit int, cursor string) (dto.CursorPage[dto.UserDTO], error) {
	users, next, err := s.users.List(ctx, search, limit, cursor)
	if err != nil {
		return dto.CursorPage[dto.UserDTO]{}, translateRepoError(err)
	}
	items := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserDTO(&users[i]))
	}
	return dto.NewCursorPage(items, next), nil
}

func (s *UserService) UpdateRole(ctx context.Context, rawID string, role models.Role) (dto.UpdateRoleResponse, error) {
	if !role.Valid() {
		return dto.UpdateRoleResponse{}, ErrInvalidRole
	}
	id, err := parseID(rawID)
	if err != nil {
		return dto.UpdateRoleResponse{}, err
	}
	u, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		return dto.UpdateRoleResponse{}, translateRepoError(err)
	}
	logger.InfoWithFields("user role updated", logger.Fields{"user_id": rawID, "role": role})
	return dto.UpdateRoleResponse{ID: u.ID.Hex(), Role: u.Role}, nil
}
