package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portfolio/cmd/api/auth"
	"portfolio/db"
	"portfolio/internal/logger"
	"portfolio/models"
	"portfolio/repositories"
)

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, image string) error
	PromoteByEmail(ctx context.Context, email string) (bool, error)
}

type AccountStore interface {
	FindByProvider(ctx context.Context, provider, providerAccountID string) (*models.Account, error)
	Insert(ctx context.Context, a *models.Account) error
}

type SessionStore interface {
	Insert(ctx context.Context, s *models.Session) error
	FindByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteByToken(ctx context.Context, token string) error
}

// AuthService 는 OAuth 로그인, DB 세션 발급/검증을 담당한다.
type AuthService struct {
	providers    auth.Providers
	jwt          *auth.JWTManager
	users        UserStore
	accounts     AccountStore
	sessions     SessionStore
	isAdminEmail func(email string) bool
	redirectURL  string
	now          func() time.Time
}

type AuthServiceConfig struct {
	Providers auth.Providers
	JWT       *auth.JWTManager
	Users     UserStore
	Accounts  AccountStore
	Sessions  SessionStore
	// IsAdminEmail 이 true 를 돌려주는 이메일은 로그인할 때 ADMIN 으로 승격된다.
	IsAdminEmail func(email string) bool
	// RedirectURL 은 로그인 성공/실패 후 프론트로 돌아갈 주소다.
	RedirectURL string
}

func NewAuthService(cfg AuthServiceConfig) *AuthService {
	isAdmin := cfg.IsAdminEmail
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	return &AuthService{
		providers:    cfg.Providers,
		jwt:          cfg.JWT,
		users:        cfg.Users,
		accounts:     cfg.Accounts,
		sessions:     cfg.Sessions,
		isAdminEmail: isAdmin,
		redirectURL:  cfg.RedirectURL,
		now:          time.Now,
	}
}

func (s *AuthService) GetRedirectURL() string {
	return s.redirectURL
}

// RedirectWithError 는 실패 코드를 붙인 프론트 주소다.
func (s *AuthService) RedirectWithError(code string) string {
	sep := "?"
	if strings.Contains(s.redirectURL, "?") {
		sep = "&"
	}
	return s.redirectURL + sep + "error=" + code
}

func (s *AuthService) ProviderNames() []string {
	return s.providers.Names()
}

func (s *AuthService) BuildLoginURL(provider, state string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// HandleCallback 은 code 를 토큰으로 교환하고, 사용자를 연결(없으면 생성)한 뒤
// 새 DB 세션을 만들고 그 세션을 가리키는 JWT 를 돌려준다.
func (s *AuthService) HandleCallback(ctx context.Context, provider, code string) (string, error) {
	p, err := s.providers.Get(provider)
	if err != nil {
		return "", err
	}
	token, err := p.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%s oauth exchange: %w", provider, err)
	}
	info, err := p.FetchUserInfo(ctx, token)
	if err != nil {
		return "", fmt.Errorf("%s userinfo: %w", provider, err)
	}
	if info.ProviderAccountID == "" {
		return "", fmt.Errorf("%s userinfo: missing account id", provider)
	}

	user, err := s.linkOrCreateUser(ctx, p.Name(), info)
	if err != nil {
		return "", err
	}
	if err := s.promoteIfAdmin(ctx, user, info); err != nil {
		return "", err
	}

	session := &models.Session{
		SessionToken: uuid.NewString(),
		UserID:       user.ID,
		ExpiresAt:    s.now().Add(auth.SessionTTL),
	}
	if err := db.WithRetry(ctx, "create_session", func(ctx context.Context) error {
		return s.sessions.Insert(ctx, session)
	}); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	logger.InfoWithFields("user logged in", logger.Fields{
		"user_id":  user.ID.Hex(),
		"provider": p.Name(),
		"role":     user.Role,
	})
	return s.jwt.Sign(user.ID.Hex(), session.SessionToken, string(user.Role))
}

// linkOrCreateUser 는 (provider, account id) 로 연결된 사용자를 찾는다.
// 연결이 없으면 검증된 이메일이 같은 기존 사용자에 연결하고, 그것도 없으면 새로 만든다.
func (s *AuthService) linkOrCreateUser(ctx context.Context, provider string, info auth.UserInfo) (*models.User, error) {
	account, err := db.WithRetryValue(ctx, "get_account", func(ctx context.Context) (*models.Account, error) {
		return s.accounts.FindByProvider(ctx, provider, info.ProviderAccountID)
	})
	switch {
	case err == nil:
		user, err := db.WithRetryValue(ctx, "get_user", func(ctx context.Context) (*models.User, error) {
			return s.users.FindByID(ctx, account.UserID)
		})
		if err != nil {
			return nil, fmt.Errorf("load linked user: %w", err)
		}
		s.refreshProfile(ctx, user, info)
		return user, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, fmt.Errorf("find account: %w", err)
	}

	var user *models.User
	if info.Email != "" && info.EmailVerified {
		existing, err := db.WithRetryValue(ctx, "get_user_by_email", func(ctx context.Context) (*models.User, error) {
			return s.users.FindByEmail(ctx, info.Email)
		})
		switch {
		case err == nil:
			user = existing
			s.refreshProfile(ctx, user, info)
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, fmt.Errorf("find user by email: %w", err)
		}
	}

	created := false
	if user == nil {
		// 검증되지 않은 이메일은 저장하지 않는다 (uniq_email 충돌, 관리자 사칭 방지)
		user = &models.User{
			Name:  info.Name,
			Image: info.Image,
			Role:  models.RoleViewer,
		}
		if info.EmailVerified {
			now := s.now()
			user.Email = info.Email
			user.EmailVerified = &now
		}
		if err := db.WithRetry(ctx, "create_user", func(ctx context.Context) error {
			return s.users.Insert(ctx, user)
		}); err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		created = true
	}

	link := &models.Account{
		UserID:            user.ID,
		Provider:          provider,
		ProviderAccountID: info.ProviderAccountID,
	}
	if err := db.WithRetry(ctx, "link_account", func(ctx context.Context) error {
		return s.accounts.Insert(ctx, link)
	}); err != nil {
		if created {
			s.discardUser(user)
		}
		return nil, fmt.Errorf("link account: %w", err)
	}
	return user, nil
}

// discardUser 는 계정 연결에 실패한 신규 사용자를 지운다. 요청 ctx 가 끝났어도 지울 수 있게 별도 ctx 를 쓴다.
func (s *AuthService) discardUser(user *models.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.users.Delete(ctx, user.ID); err != nil {
		logger.WarnWithFields("orphan user cleanup failed", logger.Fields{"user_id": user.ID.Hex(), "error": err.Error()})
	}
}

// refreshProfile 은 공급자 쪽 이름/사진이 바뀌었으면 반영한다. 실패해도 로그인은 계속한다.
func (s *AuthService) refreshProfile(ctx context.Context, user *models.User, info auth.UserInfo) {
	name, image := user.Name, user.Image
	if info.Name != "" {
		name = info.Name
	}
	if info.Image != "" {
		image = info.Image
	}
	if name == user.Name && image == user.Image {
		return
	}
	if err := s.users.UpdateProfile(ctx, user.ID, name, image); err != nil {
		logger.WarnWithFields("profile refresh failed", logger.Fields{"user_id": user.ID.Hex(), "error": err.Error()})
		return
	}
	user.Name, user.Image = name, image
}

// promoteIfAdmin 은 이번 로그인에서 공급자가 검증한 이메일이 ADMIN_EMAILS 에 있을 때만 올린다.
func (s *AuthService) promoteIfAdmin(ctx context.Context, user *models.User, info auth.UserInfo) error {
	if user.Role == models.RoleAdmin || user.Email == "" {
		return nil
	}
	if !info.EmailVerified || !strings.EqualFold(info.Email, user.Email) || !s.isAdminEmail(user.Email) {
		return nil
	}
	promoted, err := db.WithRetryValue(ctx, "promote_admin", func(ctx context.Context) (bool, error) {
		return s.users.PromoteByEmail(ctx, user.Email)
	})
	if err != nil {
		return fmt.Errorf("promote admin: %w", err)
	}
	user.Role = models.RoleAdmin
	if promoted {
		logger.InfoWithFields("user promoted to admin", logger.Fields{"user_id": user.ID.Hex()})
	}
	return nil
}

// Authenticate 는 JWT 를 검증하고 sid 로 DB 세션과 사용자를 함께 읽는다.
// role 은 토큰이 아니라 사용자 문서 기준이다.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, *models.Session, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, nil, ErrInvalidToken
	}
	session, err := db.WithRetryValue(ctx, "get_session", func(ctx context.Context) (*models.Session, error) {
		return s.sessions.FindByToken(ctx, claims.SessionID)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, err
	}
	if !session.ExpiresAt.After(s.now()) {
		return nil, nil, ErrSessionExpired
	}
	if session.UserID.Hex() != claims.UserID {
		return nil, nil, ErrInvalidToken
	}
	user, err := db.WithRetryValue(ctx, "get_session_user", func(ctx context.Context) (*models.User, error) {
		return s.users.FindByID(ctx, session.UserID)
	})
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout 은 토큰이 가리키는 DB 세션을 지운다. 이미 없는 세션은 성공으로 본다.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return ErrInvalidToken
	}
	err = db.WithRetry(ctx, "delete_session", func(ctx context.Context) error {
		return s.sessions.DeleteByToken(ctx, claims.SessionID)
	})
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}
