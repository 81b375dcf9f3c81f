package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/auth"
	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/services"
	"portfolio/internal/logger"
	"portfolio/models"
)

const (
	ctxKeyUser    = "session_user"
	ctxKeySession = "session"
)

// Authenticator 는 토큰으로 DB 세션과 사용자를 찾는다. services.AuthService 가 구현한다.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error)
}

// RequireSession 은 유효한 세션이 없으면 401 로 끊는다.
func RequireSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromRequest(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}
		user, session, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuthError(c, err)
			return
		}
		c.Set(ctxKeyUser, user)
		c.Set(ctxKeySession, session)
		c.Next()
	}
}

// OptionalSession 은 세션이 있으면 사용자를 컨텍스트에 넣고, 없거나 잘못됐으면 익명으로 통과시킨다.
// 공개 API 에서 관리자에게만 미게시 글을 보여줄 때 쓴다.
func OptionalSession(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromRequest(c)
		if err != nil {
			c.Next()
			return
		}
		if user, session, err := authn.Authenticate(c.Request.Context(), token); err == nil {
			c.Set(ctxKeyUser, user)
			c.Set(ctxKeySession, session)
		}
		c.Next()
	}
}

// RequireAdmin 은 RequireSession 뒤에 둔다. role 이 ADMIN 이 아니면 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			auth.AbortWithUnauthorized(c, services.ErrInvalidToken)
			return
		}
		if user.Role != models.RoleAdmin {
			logger.WarnWithFields("access denied", logger.Fields{
				"user_id":    user.ID.Hex(),
				"role":       user.Role,
				"path":       c.Request.URL.Path,
				"request_id": c.Request.Header.Get("X-Request-Id"),
			})
			c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponseDTO{Error: services.ErrForbidden.Error()})
			return
		}
		c.Next()
	}
}

func abortAuthError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrInvalidToken) || errors.Is(err, services.ErrSessionExpired) {
		auth.AbortWithUnauthorized(c, err)
		return
	}
	logger.ErrorWithFields("session lookup failed", logger.Fields{
		"error":      err.Error(),
		"request_id": c.Request.Header.Get("X-Request-Id"),
	})
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.ErrorResponseDTO{Error: "session_unavailable"})
}

// CurrentUser 는 세션 미들웨어가 넣은 사용자다.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok && u != nil
}

func CurrentSession(c *gin.Context) (*models.Session, bool) {
	v, ok := c.Get(ctxKeySession)
	if !ok {
		return nil, false
	}
	s, ok := v.(*models.Session)
	return s, ok && s != nil
}
