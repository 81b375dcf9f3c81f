package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"

	"portfolio/cmd/api/auth"
	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	"portfolio/models"
	"portfolio/repositories"
	"portfolio/storage"
	"portfolio/summarizer"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := dto.RegisterValidators(); err != nil {
		panic(err)
	}
}

// -------------------- fakes --------------------

type memProjects struct {
	items map[primitive.ObjectID]*models.Project
}

func newMemProjects(items ...*models.Project) *memProjects {
	m := &memProjects{items: map[primitive.ObjectID]*models.Project{}}
	for _, p := range items {
		p.ID = primitive.NewObjectID()
		m.items[p.ID] = p
	}
	return m
}

func (m *memProjects) List(_ context.Context, q repositories.ListQuery) ([]models.Project, string, error) {
	var out []models.Project
	for _, p := range m.items {
		if q.Public && !p.Published {
			continue
		}
		out = append(out, *p)
	}
	return out, "", nil
}

func (m *memProjects) FindByID(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProjects) Insert(_ context.Context, p *models.Project) error {
	p.ID = primitive.NewObjectID()
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *memProjects) Update(_ context.Context, id primitive.ObjectID, p *models.Project) (*models.Project, error) {
	if _, ok := m.items[id]; !ok {
		return nil, repositories.ErrNotFound
	}
	p.ID = id
	cp := *p
	m.items[id] = &cp
	return p, nil
}

func (m *memProjects) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProjects) TogglePublished(_ context.Context, id primitive.ObjectID) (*models.Project, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Published = !p.Published
	cp := *p
	return &cp, nil
}

func (m *memProjects) Count(_ context.Context, q repositories.CountQuery) (int64, error) {
	var n int64
	for _, p := range m.items {
		if q.Published != nil && p.Published != *q.Published {
			continue
		}
		if q.Featured != nil && p.Featured != *q.Featured {
			continue
		}
		n++
	}
	return n, nil
}

// tokenAuthenticator 는 토큰 문자열을 그대로 사용자에 매핑한다.
type tokenAuthenticator map[string]*models.User

func (a tokenAuthenticator) Authenticate(_ context.Context, token string) (*models.User, *models.Session, error) {
	u, ok := a[token]
	if !ok {
		return nil, nil, services.ErrInvalidToken
	}
	return u, &models.Session{UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type stubProvider struct{}

func (stubProvider) Name() string                    { return "github" }
func (stubProvider) AuthCodeURL(state string) string { return "https://github.test/authorize?state=" + state }
func (stubProvider) Exchange(context.Context, string) (*oauth2.Token, error) {
	return nil, errors.New("exchange should not be reached")
}
func (stubProvider) FetchUserInfo(context.Context, *oauth2.Token) (auth.UserInfo, error) {
	return auth.UserInfo{}, nil
}

type memObjects map[string][]byte

func (m memObjects) Upload(context.Context, string, io.Reader, int64, string) (storage.ObjectInfo, error) {
	return storage.ObjectInfo{}, nil
}

func (m memObjects) Open(_ context.Context, key string) (io.ReadCloser, storage.ObjectInfo, error) {
	data, ok := m[key]
	if !ok {
		return nil, storage.ObjectInfo{}, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), storage.ObjectInfo{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  "application/octet-stream",
		ETag:         `"abc123"`,
		LastModified: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}, nil
}

func (m memObjects) List(context.Context) ([]storage.ObjectInfo, error) { return nil, nil }
func (m memObjects) Delete(context.Context, string) error              { return nil }
func (m memObjects) EnsureBucket(context.Context) error                { return nil }
func (m memObjects) DirectURL(key string) string                       { return key }
func (m memObjects) DirectBase() string                                { return "" }

type nopMediaMeta struct{}

func (nopMediaMeta) Insert(context.Context, *models.Media) error { return nil }
func (nopMediaMeta) DeleteByKey(context.Context, string) error   { return nil }

// -------------------- tests --------------------

func TestErrorStatus(t *testing.T) {
	testCases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{services.ErrNotFound, http.StatusNotFound, "not_found"},
		{fmt.Errorf("wrap: %w", storage.ErrObjectNotFound), http.StatusNotFound, "not_found"},
		{services.ErrInvalidID, http.StatusBadRequest, "invalid_id"},
		{services.ErrInvalidCursor, http.StatusBadRequest, "invalid_cursor"},
		{services.ErrInvalidDate, http.StatusBadRequest, "invalid_date"},
		{services.ErrSessionExpired, http.StatusUnauthorized, services.ErrSessionExpired.Error()},
		{services.ErrForbidden, http.StatusForbidden, "forbidden_insufficient_permissions"},
		{storage.ErrTooLarge, http.StatusRequestEntityTooLarge, "file_too_large"},
		{storage.ErrUnsupportedType, http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{storage.ErrNotConfigured, http.StatusServiceUnavailable, "storage_not_configured"},
		{services.ErrNotConfigured, http.StatusServiceUnavailable, "not_configured"},
		{summarizer.ErrQuotaExceeded, http.StatusTooManyRequests, "quota_exceeded"},
		{errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range testCases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			status, code := errorStatus(tc.err)
			assert.Equal(t, tc.wantStatus, status)
			assert.Equal(t, tc.wantCode, code)
		})
	}
}

func newProjectRouter(store *memProjects, authn tokenAuthenticator) *gin.Engine {
	svc := services.NewProjectService(store, nil)
	r := gin.New()
	api := r.Group("/api/v1")
	public := api.Group("", middleware.OptionalSession(authn))
	public.GET("/projects", ListProjectsHandler(svc))
	public.GET("/projects/:id", GetProjectHandler(svc))

	admin := api.Group("/admin", middleware.RequireSession(authn), middleware.RequireAdmin())
	admin.POST("/projects", AdminCreateProjectHandler(svc))
	admin.POST("/projects/:id/toggle-published", AdminToggleProjectPublishedHandler(svc))
	admin.GET("/projects/counts", AdminProjectCountsHandler(svc))
	return r
}

func TestProjectPublicAndAdminFlow(t *testing.T) {
	admin := &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin}
	viewer := &models.User{ID: primitive.NewObjectID(), Role: models.RoleViewer}
	draft := &models.Project{Title: "draft", Description: "d"}
	store := newMemProjects(draft, &models.Project{Title: "live", Description: "d", Published: true, Featured: true})
	r := newProjectRouter(store, tokenAuthenticator{"admin": admin, "viewer": viewer})

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := do(http.MethodGet, "/api/v1/projects", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page dto.CursorPage[models.Project]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "live", page.Items[0].Title)

	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/projects/"+draft.ID.Hex(), "", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/v1/projects/"+draft.ID.Hex(), "viewer", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/projects/"+draft.ID.Hex(), "admin", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodGet, "/api/v1/projects/zzz", "", "").Code)

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPost, "/api/v1/admin/projects", "", `{}`).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodPost, "/api/v1/admin/projects", "viewer", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/v1/admin/projects", "admin", `{"title":"   ","description":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/api/v1/admin/projects", "admin", `{"title":"t","description":"x","live_url":"not a url"}`).Code)

	w = do(http.MethodPost, "/api/v1/admin/projects", "admin", `{"title":" New ","description":"x","tech_stack":["go",""]}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "New", created.Title)
	assert.Equal(t, admin.ID, created.CreatedByID)
	assert.Equal(t, []string{"go"}, created.TechStack)
	assert.NotNil(t, created.Images)

	w = do(http.MethodPost, "/api/v1/admin/projects/"+created.ID.Hex()+"/toggle-published", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"published":true`)
	assert.Equal(t, http.StatusNotFound, do(http.MethodPost, "/api/v1/admin/projects/"+primitive.NewObjectID().Hex()+"/toggle-published", "admin", "").Code)

	w = do(http.MethodGet, "/api/v1/admin/projects/counts", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"published":2,"featured":1}`, w.Body.String())
}

func newAuthService() *services.AuthService {
	return services.NewAuthService(services.AuthServiceConfig{
		Providers:   auth.Providers{"github": stubProvider{}},
		RedirectURL: "http://localhost:3000/admin",
	})
}

func TestLoginHandlerSetsStateCookie(t *testing.T) {
	r := gin.New()
	r.GET("/auth/:provider/login", LoginHandler(newAuthService(), CookieConfig{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/github/login", nil))

	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, oauthStateCookieName, cookies[0].Name)
	assert.Equal(t, 300, cookies[0].MaxAge)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, "https://github.test/authorize?state="+cookies[0].Value, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/gitlab/login", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallbackHandlerRejectsBadState(t *testing.T) {
	r := gin.New()
	r.GET("/auth/:provider/callback", CallbackHandler(newAuthService(), CookieConfig{}))

	testCases := []struct {
		name   string
		query  string
		cookie string
		want   string
	}{
		{name: "missing code", query: "state=a", cookie: "a", want: "missing_code"},
		{name: "missing cookie", query: "state=a&code=c", want: "state_missing"},
		{name: "state mismatch", query: "state=a&code=c", cookie: "b", want: "invalid_state"},
		{name: "provider denied", query: "error=access_denied", want: "provider_denied"},
		{name: "exchange fails", query: "state=a&code=c", cookie: "a", want: "login_failed"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/github/callback?"+tc.query, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: tc.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusFound, w.Code)
			assert.Equal(t, "http://localhost:3000/admin?error="+tc.want, w.Header().Get("Location"))
			for _, c := range w.Result().Cookies() {
				assert.NotEqual(t, auth.SessionCookieName, c.Name)
			}
		})
	}
}

func TestSessionAndLogoutHandlers(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Name: "Kim", Role: models.RoleViewer}
	authn := tokenAuthenticator{"tok": user}
	r := gin.New()
	r.GET("/auth/session", middleware.RequireSession(authn), SessionHandler())
	r.POST("/auth/logout", LogoutHandler(newAuthService(), CookieConfig{}))

	req := httptest.NewRequest(http.MethodGet, "/auth/session", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var out dto.SessionDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, "Kim", out.User.Name)
	assert.NotEmpty(t, out.ExpiresAt)

	// 토큰이 없어도 로그아웃은 성공하고 쿠키를 지운다
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, auth.SessionCookieName, cookies[0].Name)
	assert.Less(t, cookies[0].MaxAge, 0)
}

func TestMediaProxyStreamsWithCacheHeaders(t *testing.T) {
	svc := services.NewMediaService(memObjects{"photos/a b.webp": []byte("RIFF....WEBP")}, nopMediaMeta{}, 0)
	r := gin.New()
	r.GET("/api/media/*filename", MediaProxyHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/photos/a%20b.webp", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "RIFF....WEBP", w.Body.String())
	assert.Equal(t, "image/webp", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=31536000", w.Header().Get("Cache-Control"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, `"abc123"`, w.Header().Get("ETag"))
	assert.Equal(t, "Fri, 02 Jan 2026 03:04:05 GMT", w.Header().Get("Last-Modified"))
	assert.Equal(t, "12", w.Header().Get("Content-Length"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/missing.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadHandlerErrors(t *testing.T) {
	withUser := func(c *gin.Context) {
		c.Set("session_user", &models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	}
	r := gin.New()
	r.POST("/disabled", withUser, AdminUploadMediaHandler(services.NewMediaService(storage.Disabled{}, nopMediaMeta{}, 1<<20)))
	r.POST("/tiny", withUser, AdminUploadMediaHandler(services.NewMediaService(memObjects{}, nopMediaMeta{}, 16)))

	multipartBody := func(size int) (*bytes.Buffer, string) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		part, err := mw.CreateFormFile("file", "a.png")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte{0x89}, size))
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		return &body, mw.FormDataContentType()
	}

	testCases := []struct {
		name     string
		path     string
		size     int
		noFile   bool
		wantCode int
		wantErr  string
	}{
		{name: "no file field", path: "/disabled", noFile: true, wantCode: http.StatusBadRequest, wantErr: "no_file"},
		{name: "storage disabled", path: "/disabled", size: 10, wantCode: http.StatusServiceUnavailable, wantErr: "storage_not_configured"},
		{name: "over limit", path: "/tiny", size: 64, wantCode: http.StatusRequestEntityTooLarge, wantErr: "file_too_large"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var req *http.Request
			if tc.noFile {
				req = httptest.NewRequest(http.MethodPost, tc.path, strings.NewReader(""))
			} else {
				body, contentType := multipartBody(tc.size)
				req = httptest.NewRequest(http.MethodPost, tc.path, body)
				req.Header.Set("Content-Type", contentType)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.wantErr+`"}`, w.Body.String())
		})
	}
}

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	r.GET("/ok", HealthHandler(func(context.Context) error { return nil }))
	r.GET("/down", HealthHandler(func(context.Context) error { return errors.New("no reachable servers") }))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/down", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}
