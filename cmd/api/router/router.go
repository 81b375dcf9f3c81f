package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"portfolio/cmd/api/dto"
	"portfolio/cmd/api/handlers"
	"portfolio/cmd/api/middleware"
	"portfolio/cmd/api/services"
	_ "portfolio/docs"
)

// Services 는 main 에서 조립한 서비스 묶음이다.
type Services struct {
	Auth      *services.AuthService
	Users     *services.UserService
	Projects  *services.ProjectService
	Blogs     *services.BlogService
	Stories   *services.StoryService
	Posts     *services.PostService
	Dashboard *services.DashboardService
	Media     *services.MediaService
	Analytics *services.AnalyticsService
	Sitemap   *services.SitemapService
	Imports   *services.ImportService
	Ping      handlers.Pinger
}

type Options struct {
	AllowedOrigins      []string
	Cookies             handlers.CookieConfig
	UploadRatePerMinute int
	LoginRatePerMinute  int
}

func New(svc Services, opts Options) (*gin.Engine, error) {
	if err := dto.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestTrace(),
		middleware.Metrics(),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/health", handlers.HealthHandler(svc.Ping))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/sitemap.xml", handlers.SitemapHandler(svc.Sitemap))
	r.GET("/api/media/*filename", handlers.MediaProxyHandler(svc.Media))

	loginLimit := middleware.NewRateLimiter(opts.LoginRatePerMinute)
	uploadLimit := middleware.NewRateLimiter(opts.UploadRatePerMinute)

	api := r.Group("/api/v1")

	// 공개 API: 세션이 있으면 관리자에게 미게시 글도 보여준다
	public := api.Group("", middleware.OptionalSession(svc.Auth))
	{
		public.GET("/projects", handlers.ListProjectsHandler(svc.Projects))
		public.GET("/projects/:id", handlers.GetProjectHandler(svc.Projects))

		public.GET("/blogs", handlers.ListBlogsHandler(svc.Blogs))
		public.GET("/blogs/tags", handlers.ListBlogTagsHandler(svc.Blogs))
		public.GET("/blogs/:id", handlers.GetBlogHandler(svc.Blogs))

		public.GET("/stories", handlers.ListStoriesHandler(svc.Stories))
		public.GET("/stories/:id", handlers.GetStoryHandler(svc.Stories))

		public.GET("/posts", handlers.ListPostsHandler(svc.Posts))
		public.GET("/posts/:id", handlers.GetPostHandler(svc.Posts))
	}

	authGroup := api.Group("/auth")
	{
		authGroup.GET("/providers", handlers.ListProvidersHandler(svc.Auth))
		authGroup.GET("/:provider/login", loginLimit.Middleware(), handlers.LoginHandler(svc.Auth, opts.Cookies))
		authGroup.GET("/:provider/callback", loginLimit.Middleware(), handlers.CallbackHandler(svc.Auth, opts.Cookies))
		authGroup.GET("/session", middleware.RequireSession(svc.Auth), handlers.SessionHandler())
		authGroup.POST("/logout", handlers.LogoutHandler(svc.Auth, opts.Cookies))
	}

	admin := api.Group("/admin", middleware.RequireSession(svc.Auth), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", handlers.AdminDashboardHandler(svc.Dashboard))

		admin.GET("/projects", handlers.AdminListProjectsHandler(svc.Projects))
		admin.GET("/projects/counts", handlers.AdminProjectCountsHandler(svc.Projects))
		admin.GET("/projects/:id", handlers.AdminGetProjectHandler(svc.Projects))
		admin.POST("/projects", handlers.AdminCreateProjectHandler(svc.Projects))
		admin.PUT("/projects/:id", handlers.AdminUpdateProjectHandler(svc.Projects))
		admin.DELETE("/projects/:id", handlers.AdminDeleteProjectHandler(svc.Projects))
		admin.POST("/projects/:id/toggle-published", handlers.AdminToggleProjectPublishedHandler(svc.Projects))

		admin.GET("/blogs", handlers.AdminListBlogsHandler(svc.Blogs))
		admin.GET("/blogs/counts", handlers.AdminBlogCountsHandler(svc.Blogs))
		admin.POST("/blogs/import", handlers.AdminImportBlogsHandler(svc.Imports))
		admin.GET("/blogs/:id", handlers.AdminGetBlogHandler(svc.Blogs))
		admin.POST("/blogs", handlers.AdminCreateBlogHandler(svc.Blogs))
		admin.PUT("/blogs/:id", handlers.AdminUpdateBlogHandler(svc.Blogs))
		admin.DELETE("/blogs/:id", handlers.AdminDeleteBlogHandler(svc.Blogs))
		admin.POST("/blogs/:id/toggle-published", handlers.AdminToggleBlogPublishedHandler(svc.Blogs))
		admin.POST("/blogs/:id/suggest", handlers.AdminSuggestBlogHandler(svc.Blogs))
		admin.GET("/imports/:id", handlers.AdminGetImportJobHandler(svc.Imports))

		admin.GET("/stories", handlers.AdminListStoriesHandler(svc.Stories))
		admin.GET("/stories/counts", handlers.AdminStoryCountsHandler(svc.Stories))
		admin.GET("/stories/:id", handlers.AdminGetStoryHandler(svc.Stories))
		admin.POST("/stories", handlers.AdminCreateStoryHandler(svc.Stories))
		admin.PUT("/stories/:id", handlers.AdminUpdateStoryHandler(svc.Stories))
		admin.DELETE("/stories/:id", handlers.AdminDeleteStoryHandler(svc.Stories))
		admin.POST("/stories/:id/toggle-published", handlers.AdminToggleStoryPublishedHandler(svc.Stories))

		admin.GET("/posts", handlers.AdminListPostsHandler(svc.Posts))
		admin.GET("/posts/counts", handlers.AdminPostCountsHandler(svc.Posts))
		admin.GET("/posts/latest", handlers.AdminLatestPostHandler(svc.Posts))
		admin.GET("/posts/:id", handlers.AdminGetPostHandler(svc.Posts))
		admin.POST("/posts", handlers.AdminCreatePostHandler(svc.Posts))
		admin.PUT("/posts/:id", handlers.AdminUpdatePostHandler(svc.Posts))
		admin.DELETE("/posts/:id", handlers.AdminDeletePostHandler(svc.Posts))
		admin.POST("/posts/:id/toggle-published", handlers.AdminTogglePostPublishedHandler(svc.Posts))

		admin.GET("/users", handlers.AdminListUsersHandler(svc.Users))
		admin.PUT("/users/role", handlers.AdminUpdateUserRoleHandler(svc.Users))

		admin.POST("/media", uploadLimit.Middleware(), handlers.AdminUploadMediaHandler(svc.Media))
		admin.GET("/media", handlers.AdminListMediaHandler(svc.Media))
		admin.GET("/media/debug", handlers.AdminDebugMediaHandler(svc.Media))
		admin.DELETE("/media/*filename", handlers.AdminDeleteMediaHandler(svc.Media))

		admin.GET("/analytics/stats", handlers.AdminAnalyticsStatsHandler(svc.Analytics))
		admin.GET("/analytics/realtime", handlers.AdminAnalyticsRealtimeHandler(svc.Analytics))
	}

	return r, nil
}
