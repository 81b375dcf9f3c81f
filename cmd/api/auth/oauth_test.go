package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestNewProvidersRegistersOnlyConfigured(t *testing.T) {
	providers := NewProviders("http://localhost:8080/", ProviderConfig{ClientID: "id", ClientSecret: "secret"}, ProviderConfig{}, nil)
	assert.Equal(t, []string{"github"}, providers.Names())

	_, err := providers.Get("google")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	gh, err := providers.Get("GitHub")
	require.NoError(t, err)

	loginURL, err := url.Parse(gh.AuthCodeURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "github.com", loginURL.Host)
	assert.Equal(t, "state-123", loginURL.Query().Get("state"))
	assert.Equal(t, "http://localhost:8080/api/v1/auth/github/callback", loginURL.Query().Get("redirect_uri"))
	assert.Equal(t, "read:user user:email", loginURL.Query().Get("scope"))
}

func TestGitHubFetchUserInfoFallsBackToPrimaryEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gh-token", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(`{"id":42,"login":"octocat","name":"","email":"","avatar_url":"https://avatars.example.com/42"}`))
		case "/user/emails":
			_, _ = w.Write([]byte(`[{"email":"old@example.com","primary":false,"verified":true},{"email":"me@example.com","primary":true,"verified":true}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	p := NewGitHubProvider(ProviderConfig{ClientID: "id", ClientSecret: "secret"}, srv.Client())
	p.apiBaseURL = srv.URL

	info, err := p.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "gh-token", TokenType: "Bearer"})
	require.NoError(t, err)
	assert.Equal(t, UserInfo{
		ProviderAccountID: "42",
		Email:             "me@example.com",
		EmailVerified:     true,
		Name:              "octocat",
		Image:             "https://avatars.example.com/42",
	}, info)
}

func TestGoogleFetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"sub":"g-1","email":"me@example.com","email_verified":true,"name":"Me","picture":"https://img.example.com/me"}`))
	}))
	defer srv.Close()

	p := NewGoogleProvider(ProviderConfig{ClientID: "id", ClientSecret: "secret"}, srv.Client())
	p.userInfoURL = srv.URL

	info, err := p.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "t"})
	require.NoError(t, err)
	assert.Equal(t, "g-1", info.ProviderAccountID)
	assert.True(t, info.EmailVerified)
	assert.Equal(t, "Me", info.Name)
}

func TestGoogleFetchUserInfoStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := NewGoogleProvider(ProviderConfig{ClientID: "id", ClientSecret: "secret"}, srv.Client())
	p.userInfoURL = srv.URL

	_, err := p.FetchUserInfo(context.Background(), &oauth2.Token{AccessToken: "t"})
	assert.Error(t, err)
}
