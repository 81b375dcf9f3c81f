package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SessionCookieName 은 로그인 후 발급되는 JWT 를 담는 httpOnly 쿠키다.
const SessionCookieName = "portfolio_session"

var (
	ErrMissingHeader = errors.New("missing_authorization_header")
	ErrInvalidFormat = errors.New("invalid_authorization_header")
	ErrEmptyToken    = errors.New("empty_token")
)

// ExtractBearerToken extracts the Bearer token from the Authorization header.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", ErrMissingHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrInvalidFormat
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", ErrEmptyToken
	}

	return token, nil
}

// TokenFromRequest 는 Authorization 헤더를 먼저 보고, 없으면 세션 쿠키를 쓴다.
// 헤더가 있는데 형식이 잘못됐으면 쿠키로 넘어가지 않는다.
func TokenFromRequest(c *gin.Context) (string, error) {
	token, err := ExtractBearerToken(c)
	if !errors.Is(err, ErrMissingHeader) {
		return token, err
	}
	cookie, cookieErr := c.Cookie(SessionCookieName)
	if cookieErr != nil || strings.TrimSpace(cookie) == "" {
		return "", ErrMissingHeader
	}
	return cookie, nil
}

// AbortWithUnauthorized aborts the request with 401 status and error JSON.
func AbortWithUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
}
