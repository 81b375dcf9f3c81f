package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

var ErrUnknownProvider = errors.New("unknown_provider")

// UserInfo 는 공급자와 무관하게 정규화한 OAuth 사용자 정보다.
type UserInfo struct {
	ProviderAccountID string
	Email             string
	EmailVerified     bool
	Name              string
	Image             string
}

// Provider 는 OAuth 로그인 공급자 하나다.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error)
}

// ProviderConfig 는 client id/secret 과 콜백 URL 이다.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c ProviderConfig) Enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Providers 는 활성화된 공급자를 이름으로 찾는다.
type Providers map[string]Provider

func (p Providers) Get(name string) (Provider, error) {
	provider, ok := p[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return provider, nil
}

func (p Providers) Names() []string {
	names := make([]string, 0, len(p))
	for _, name := range []string{"github", "google"} {
		if _, ok := p[name]; ok {
			names = append(names, name)
		}
	}
	return names
}

// CallbackURL 은 "<base>/api/v1/auth/<provider>/callback" 이다.
func CallbackURL(base, provider string) string {
	return strings.TrimRight(base, "/") + "/api/v1/auth/" + provider + "/callback"
}

// NewProviders 는 설정이 있는 공급자만 등록한다. httpClient 는 공급자 API 호출에 쓴다.
func NewProviders(redirectBase string, gh, gg ProviderConfig, httpClient *http.Client) Providers {
	providers := Providers{}
	if gh.Enabled() {
		if gh.RedirectURL == "" {
			gh.RedirectURL = CallbackURL(redirectBase, "github")
		}
		providers["github"] = NewGitHubProvider(gh, httpClient)
	}
	if gg.Enabled() {
		if gg.RedirectURL == "" {
			gg.RedirectURL = CallbackURL(redirectBase, "google")
		}
		providers["google"] = NewGoogleProvider(gg, httpClient)
	}
	return providers
}

// oauthProvider 는 두 공급자가 공유하는 oauth2 설정/HTTP 클라이언트 부분이다.
type oauthProvider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func (p oauthProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p oauthProvider) withClient(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func (p oauthProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return p.config.Exchange(p.withClient(ctx), code)
}

func (p oauthProvider) getJSON(ctx context.Context, token *oauth2.Token, url string, out any) error {
	client := p.config.Client(p.withClient(ctx), token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// -------------------- GitHub --------------------

type GitHubProvider struct {
	oauthProvider
	apiBaseURL string
}

func NewGitHubProvider(cfg ProviderConfig, httpClient *http.Client) *GitHubProvider {
	return &GitHubProvider{
		oauthProvider: oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{"read:user", "user:email"},
				Endpoint:     github.Endpoint,
			},
			httpClient: httpClient,
		},
		apiBaseURL: "https://api.github.com",
	}
}

func (p *GitHubProvider) Name() string { return "github" }

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// FetchUserInfo 는 /user 를 읽고, 공개 이메일이 없으면 /user/emails 에서 검증된 기본 이메일을 찾는다.
func (p *GitHubProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error) {
	var u githubUser
	if err := p.getJSON(ctx, token, p.apiBaseURL+"/user", &u); err != nil {
		return UserInfo{}, fmt.Errorf("github user: %w", err)
	}

	info := UserInfo{
		ProviderAccountID: strconv.FormatInt(u.ID, 10),
		Email:             u.Email,
		Name:              u.Name,
		Image:             u.AvatarURL,
	}
	if info.Name == "" {
		info.Name = u.Login
	}

	var emails []githubEmail
	if err := p.getJSON(ctx, token, p.apiBaseURL+"/user/emails", &emails); err != nil {
		if info.Email == "" {
			return UserInfo{}, fmt.Errorf("github emails: %w", err)
		}
		return info, nil
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			info.Email = e.Email
			info.EmailVerified = true
			break
		}
	}
	return info, nil
}

// -------------------- Google --------------------

type GoogleProvider struct {
	oauthProvider
	userInfoURL string
}

type googleUserInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewGoogleProvider(cfg ProviderConfig, httpClient *http.Client) *GoogleProvider {
	return &GoogleProvider{
		oauthProvider: oauthProvider{
			config: &oauth2.Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				RedirectURL:  cfg.RedirectURL,
				Scopes:       []string{"openid", "email", "profile"},
				Endpoint:     google.Endpoint,
			},
			httpClient: httpClient,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v3/userinfo",
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (UserInfo, error) {
	var info googleUserInfo
	if err := p.getJSON(ctx, token, p.userInfoURL, &info); err != nil {
		return UserInfo{}, fmt.Errorf("google userinfo: %w", err)
	}
	return UserInfo{
		ProviderAccountID: info.Sub,
		Email:             info.Email,
		EmailVerified:     info.EmailVerified,
		Name:              info.Name,
		Image:             info.Picture,
	}, nil
}
