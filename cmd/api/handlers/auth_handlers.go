package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio/cmd/api/auth"
	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/internal/logger"
)

const oauthStateCookieName = "oauth_state"

// CookieConfig 는 세션/state 쿠키 속성이다.
type CookieConfig struct {
	Secure bool
	Domain string
}

func generateState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ListProvidersHandler godoc
// @Summary      활성화된 OAuth 공급자 목록
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.ProvidersDTO
// @Router       /auth/providers [get]
func ListProvidersHandler(authSvc *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.ProvidersDTO{Providers: authSvc.ProviderNames()})
	}
}

// LoginHandler godoc
// @Summary      OAuth 로그인 시작
// @Description  state 값을 생성해 5분짜리 쿠키에 저장한 뒤 공급자 인증 페이지로 리다이렉트합니다.
// @Tags         auth
// @Param        provider  path  string  true  "github | google"
// @Success      302  {string}  string  "공급자 로그인 페이지로 리다이렉트"
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /auth/{provider}/login [get]
func LoginHandler(authSvc *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")
		state, err := generateState()
		if err != nil {
			logger.ErrorWithFields("oauth login failed to generate state", traceFields(c, logger.Fields{
				"provider": provider,
				"error":    err.Error(),
			}))
			c.Redirect(http.StatusFound, authSvc.RedirectWithError("state_failed"))
			return
		}

		loginURL, err := authSvc.BuildLoginURL(provider, state)
		if errors.Is(err, auth.ErrUnknownProvider) {
			c.JSON(http.StatusNotFound, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}

		// state 를 쿠키에 저장해 CSRF 를 방지한다.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(oauthStateCookieName, state, 300, "/", cookies.Domain, cookies.Secure, true)

		logger.InfoWithFields("redirect to oauth provider", traceFields(c, logger.Fields{
			"provider": provider,
		}))
		c.Redirect(http.StatusFound, loginURL)
	}
}

// CallbackHandler godoc
// @Summary      OAuth 콜백 처리
// @Description  state 를 검증하고 code 를 토큰으로 교환한 뒤 사용자를 연결/생성하고 DB 세션과 JWT 쿠키를 발급합니다.
// @Description  실패하면 토큰 없이 ?error=<code> 를 붙여 로그인 완료 페이지로 보냅니다.
// @Tags         auth
// @Param        provider  path   string  true  "github | google"
// @Param        state     query  string  true  "state"
// @Param        code      query  string  true  "authorization code"
// @Success      302  {string}  string  "로그인 완료 페이지로 리다이렉트"
// @Router       /auth/{provider}/callback [get]
func CallbackHandler(authSvc *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		provider := c.Param("provider")
		state := c.Query("state")
		code := c.Query("code")

		fail := func(reason string, err error) {
			fields := logger.Fields{"provider": provider, "reason": reason}
			if err != nil {
				fields["error"] = err.Error()
			}
			logger.ErrorWithFields("oauth callback failed", traceFields(c, fields))
			c.Redirect(http.StatusFound, authSvc.RedirectWithError(reason))
		}

		if errMsg := c.Query("error"); errMsg != "" {
			fail("provider_denied", errors.New(errMsg))
			return
		}
		if state == "" || code == "" {
			fail("missing_code", nil)
			return
		}

		cookieState, err := c.Cookie(oauthStateCookieName)
		// 재사용 방지를 위해 콜백 시점에 state 쿠키를 즉시 만료시킨다.
		c.SetCookie(oauthStateCookieName, "", -1, "/", cookies.Domain, cookies.Secure, true)
		if err != nil {
			fail("state_missing", err)
			return
		}
		if cookieState != state {
			fail("invalid_state", nil)
			return
		}

		token, err := authSvc.HandleCallback(c.Request.Context(), provider, code)
		if err != nil {
			if errors.Is(err, auth.ErrUnknownProvider) {
				fail("unknown_provider", err)
				return
			}
			fail("login_failed", err)
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(auth.SessionCookieName, token, int(auth.SessionTTL/time.Second), "/", cookies.Domain, cookies.Secure, true)
		logger.InfoWithFields("oauth login success", traceFields(c, logger.Fields{"provider": provider}))
		c.Redirect(http.StatusFound, authSvc.GetRedirectURL())
	}
}

// SessionHandler godoc
// @Summary      현재 세션 사용자
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionDTO
// @Failure      401  {object}  dto.ErrorResponseDTO
// @Router       /auth/session [get]
func SessionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			auth.AbortWithUnauthorized(c, services.ErrInvalidToken)
			return
		}
		out := dto.SessionDTO{User: dto.NewUserDTO(user)}
		if s, ok := middleware.CurrentSession(c); ok {
			out.ExpiresAt = s.ExpiresAt.UTC().Format(time.RFC3339)
		}
		c.JSON(http.StatusOK, out)
	}
}

// LogoutHandler godoc
// @Summary      로그아웃
// @Description  DB 세션을 지우고 세션 쿠키를 만료시킵니다. 토큰이 없거나 이미 만료돼도 200 입니다.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Router       /auth/logout [post]
func LogoutHandler(authSvc *services.AuthService, cookies CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := auth.TokenFromRequest(c); err == nil {
			if err := authSvc.Logout(c.Request.Context(), token); err != nil && !errors.Is(err, services.ErrInvalidToken) {
				respondError(c, err)
				return
			}
		}
		c.SetCookie(auth.SessionCookieName, "", -1, "/", cookies.Domain, cookies.Secure, true)
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "logged out"})
	}
}
