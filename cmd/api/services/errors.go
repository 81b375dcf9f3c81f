package services

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/repositories"
)

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrInvalidCursor  = errors.New("invalid_cursor")
	ErrForbidden      = errors.New("forbidden_insufficient_permissions")
	ErrInvalidToken   = errors.New("invalid_token")
	ErrSessionExpired = errors.New("session_expired")
	ErrNotConfigured  = errors.New("not_configured")
	ErrInvalidRole    = errors.New("invalid_role")
)

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// translateRepoError 는 저장소 에러를 서비스 sentinel 로 바꾼다. 그 외 에러는 그대로 둔다.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repositories.ErrInvalidCursor):
		return ErrInvalidCursor
	default:
		return err
	}
}
