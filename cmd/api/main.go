package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio/cmd/api/auth"
	"portfolio/cmd/api/clients/umamiclient"
	"portfolio/cmd/api/handlers"
	"portfolio/cmd/api/httpclient"
	"portfolio/cmd/api/router"
	"portfolio/cmd/api/services"
	"portfolio/cmd/internal/bootstrap"
	"portfolio/config"
	"portfolio/db"
	"portfolio/eventbus"
	"portfolio/internal/logger"
	"portfolio/repositories"
	"portfolio/storage"
)

const shutdownTimeout = 10 * time.Second

// @title           Portfolio API
// @version         1.0
// @description     Public portfolio content and the admin CMS API
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.InitApp()
	cfg := config.GetConfig()
	env := config.GetEnv()
	config.InitLogger(cfg.Logging)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx); err != nil {
		logger.ErrorWithFields("failed to initialize MongoDB", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	svc, closeFn, err := buildServices(ctx, cfg, env)
	if err != nil {
		logger.ErrorWithFields("failed to build services", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
	defer closeFn()

	r, err := router.New(svc, router.Options{
		AllowedOrigins:      cfg.HTTP.AllowedOrigins,
		Cookies:             handlers.CookieConfig{Secure: env.SecureCookies},
		UploadRatePerMinute: cfg.HTTP.UploadRatePerMinute,
		LoginRatePerMinute:  cfg.HTTP.LoginRatePerMinute,
	})
	if err != nil {
		logger.ErrorWithFields("failed to build router", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              env.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.InfoWithFields("api server listening", logger.Fields{"addr": env.HTTPAddr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithFields("api server failed", logger.Fields{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	logger.Log.Info("shutting down api server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithFields("graceful shutdown failed", logger.Fields{"error": err.Error()})
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.WarnWithFields("mongo disconnect failed", logger.Fields{"error": err.Error()})
	}
	logger.Log.Info("api server stopped")
}

func buildServices(ctx context.Context, cfg config.AppConfig, env config.EnvConfig) (router.Services, func(), error) {
	d := db.Database()
	users := repositories.NewUserRepository(d)
	projects := repositories.NewProjectRepository(d)
	blogs := repositories.NewBlogRepository(d)
	stories := repositories.NewStoryRepository(d)
	posts := repositories.NewPostRepository(d)

	jwtManager, err := auth.NewJWTManager(env.JWTSecret, env.JWTIssuer)
	if err != nil {
		return router.Services{}, nil, err
	}
	providers := auth.NewProviders(env.AuthRedirectBaseURL,
		auth.ProviderConfig{ClientID: env.GitHubClientID, ClientSecret: env.GitHubClientSecret},
		auth.ProviderConfig{ClientID: env.GoogleClientID, ClientSecret: env.GoogleClientSecret},
		httpclient.NewDefault(),
	)
	if len(providers) == 0 {
		logger.Log.Warn("no OAuth provider configured; admin login is unavailable")
	}
	authSvc := services.NewAuthService(services.AuthServiceConfig{
		Providers:    providers,
		JWT:          jwtManager,
		Users:        users,
		Accounts:     repositories.NewAccountRepository(d),
		Sessions:     repositories.NewSessionRepository(d),
		IsAdminEmail: env.IsAdminEmail,
		RedirectURL:  env.LoginSuccessRedirect,
	})

	store, err := storage.NewFromConfig(bootstrap.StorageConfig())
	if err != nil {
		return router.Services{}, nil, err
	}

	var analytics services.AnalyticsClient
	umami, err := umamiclient.New(umamiclient.Config{
		BaseURL:   env.UmamiAPIURL,
		Token:     env.UmamiAPIToken,
		WebsiteID: env.UmamiWebsiteID,
		Timeout:   cfg.Analytics.Timeout,
	}, nil)
	switch {
	case err == nil:
		analytics = umami
	case errors.Is(err, umamiclient.ErrNotConfigured):
		logger.Log.Info("umami analytics not configured")
	default:
		return router.Services{}, nil, err
	}

	suggester, err := bootstrap.NewSuggester(ctx)
	if err != nil {
		return router.Services{}, nil, err
	}

	bus, err := eventbus.New(bootstrap.EventBusConfig())
	if err != nil {
		return router.Services{}, nil, err
	}
	if _, nop := bus.(eventbus.NopEventBus); nop {
		logger.Log.Info("kafka not configured; feed imports run inline")
	}

	projectSvc := services.NewProjectService(projects, users)
	blogSvc := services.NewBlogService(blogs, users, suggester)
	storySvc := services.NewStoryService(stories, users)
	postSvc := services.NewPostService(posts, users)

	svc := router.Services{
		Auth:      authSvc,
		Users:     services.NewUserService(users),
		Projects:  projectSvc,
		Blogs:     blogSvc,
		Stories:   storySvc,
		Posts:     postSvc,
		Dashboard: services.NewDashboardService(projectSvc, blogSvc, storySvc, postSvc),
		Media:     services.NewMediaService(store, repositories.NewMediaRepository(d), cfg.Media.MaxUploadBytes),
		Analytics: services.NewAnalyticsService(analytics, cfg.Analytics.DefaultRangeDays),
		Sitemap:   services.NewSitemapService(env.AppBaseURL, projects, blogs, stories),
		Imports:   services.NewImportService(repositories.NewImportJobRepository(d), bus, bootstrap.NewImporter(d, suggester)),
		Ping:      db.Ping,
	}
	return svc, bus.Close, nil
}
